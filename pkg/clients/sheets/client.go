package sheets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

var (
	// ErrNoSheets is returned when the spreadsheet has no sheets at all
	ErrNoSheets = errors.New("spreadsheet has no sheets")
	// ErrNoHeaderRow is returned when appending to a sheet whose first row is empty
	ErrNoHeaderRow = errors.New("sheet has no header row")
)

// Sheet identifies one tab of the spreadsheet
type Sheet struct {
	ID    int64
	Title string
	Index int64
}

// Client defines the interface for interacting with the Google Sheets API
type Client interface {
	LoadInfo(ctx context.Context) ([]Sheet, error)
	AddSheet(ctx context.Context, title string, headers []string) (Sheet, error)
	AddRow(ctx context.Context, sheet Sheet, values map[string]any) error
}

type clientImpl struct {
	service       *gsheets.Service
	spreadsheetID string
}

// NewClient creates a Sheets client authenticated as a service account
func NewClient(ctx context.Context, serviceAccountEmail, privateKey, spreadsheetID string, opts ...option.ClientOption) (Client, error) {
	conf := &jwt.Config{
		Email:      serviceAccountEmail,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{gsheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	opts = append([]option.ClientOption{option.WithHTTPClient(conf.Client(ctx))}, opts...)
	service, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating sheets service: %w", err)
	}
	return newClient(service, spreadsheetID), nil
}

func newClient(service *gsheets.Service, spreadsheetID string) Client {
	return &clientImpl{
		service:       service,
		spreadsheetID: spreadsheetID,
	}
}

// LoadInfo returns the spreadsheet's sheets ordered by index
func (c *clientImpl) LoadInfo(ctx context.Context) ([]Sheet, error) {
	resp, err := c.service.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("error loading spreadsheet %s: %w", c.spreadsheetID, err)
	}

	out := make([]Sheet, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		if s.Properties == nil {
			continue
		}
		out = append(out, Sheet{
			ID:    s.Properties.SheetId,
			Title: s.Properties.Title,
			Index: s.Properties.Index,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

// AddSheet creates a sheet and writes its header row
func (c *clientImpl) AddSheet(ctx context.Context, title string, headers []string) (Sheet, error) {
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{Title: title},
			},
		}},
	}

	resp, err := c.service.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return Sheet{}, fmt.Errorf("error adding sheet %q: %w", title, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return Sheet{}, fmt.Errorf("error adding sheet %q: empty reply", title)
	}
	props := resp.Replies[0].AddSheet.Properties
	sheet := Sheet{ID: props.SheetId, Title: props.Title, Index: props.Index}

	if len(headers) == 0 {
		return sheet, nil
	}

	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	_, err = c.service.Spreadsheets.Values.Update(c.spreadsheetID, a1(sheet.Title, "A1"), &gsheets.ValueRange{
		Values: [][]any{row},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return Sheet{}, fmt.Errorf("error writing header row for %q: %w", title, err)
	}

	return sheet, nil
}

// AddRow appends values ordered by the sheet's header row. Keys that do not
// match a header are dropped and headers without a value get an empty cell.
func (c *clientImpl) AddRow(ctx context.Context, sheet Sheet, values map[string]any) error {
	headers, err := c.headerRow(ctx, sheet)
	if err != nil {
		return err
	}

	row := make([]any, len(headers))
	for i, h := range headers {
		if v, ok := values[h]; ok {
			row[i] = v
		} else {
			row[i] = ""
		}
	}

	_, err = c.service.Spreadsheets.Values.Append(c.spreadsheetID, a1(sheet.Title, "A1"), &gsheets.ValueRange{
		Values: [][]any{row},
	}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("error appending row to %q: %w", sheet.Title, err)
	}
	return nil
}

func (c *clientImpl) headerRow(ctx context.Context, sheet Sheet) ([]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, a1(sheet.Title, "1:1")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("error loading header row of %q: %w", sheet.Title, err)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("%q: %w", sheet.Title, ErrNoHeaderRow)
	}

	headers := make([]string, 0, len(resp.Values[0]))
	nonEmpty := false
	for _, cell := range resp.Values[0] {
		h := strings.TrimSpace(fmt.Sprint(cell))
		if h != "" {
			nonEmpty = true
		}
		headers = append(headers, h)
	}
	if !nonEmpty {
		return nil, fmt.Errorf("%q: %w", sheet.Title, ErrNoHeaderRow)
	}
	return headers, nil
}

// FirstSheet returns the sheet with the lowest index
func FirstSheet(sheets []Sheet) (Sheet, error) {
	if len(sheets) == 0 {
		return Sheet{}, ErrNoSheets
	}
	return sheets[0], nil
}

// SheetByTitle looks a sheet up by its exact title
func SheetByTitle(sheets []Sheet, title string) (Sheet, bool) {
	for _, s := range sheets {
		if s.Title == title {
			return s, true
		}
	}
	return Sheet{}, false
}

// a1 builds an A1 range, quoting the sheet title
func a1(title, cells string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'!" + cells
}
