package services

import (
	"context"
	"time"

	"github.com/autoforge/waitlist-api/pkg/clients/mailer"
	"github.com/autoforge/waitlist-api/pkg/clients/sheets"
)

// callLog records the order external calls were made in across fakes
type callLog struct {
	calls []string
}

func (l *callLog) add(call string) { l.calls = append(l.calls, call) }

type fakeSheets struct {
	log       *callLog
	sheets    []sheets.Sheet
	loadErr   error
	addErr    error
	rowErr    error
	rows      []map[string]any
	rowSheets []string
	added     []string
}

func (f *fakeSheets) LoadInfo(context.Context) ([]sheets.Sheet, error) {
	f.log.add("sheets.load")
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.sheets, nil
}

func (f *fakeSheets) AddSheet(_ context.Context, title string, _ []string) (sheets.Sheet, error) {
	f.log.add("sheets.add_sheet")
	if f.addErr != nil {
		return sheets.Sheet{}, f.addErr
	}
	s := sheets.Sheet{ID: int64(100 + len(f.sheets)), Title: title, Index: int64(len(f.sheets))}
	f.sheets = append(f.sheets, s)
	f.added = append(f.added, title)
	return s, nil
}

func (f *fakeSheets) AddRow(_ context.Context, sheet sheets.Sheet, values map[string]any) error {
	f.log.add("sheets.add_row")
	if f.rowErr != nil {
		return f.rowErr
	}
	f.rows = append(f.rows, values)
	f.rowSheets = append(f.rowSheets, sheet.Title)
	return nil
}

type fakeMailerLite struct {
	log    *callLog
	err    error
	emails []string
}

func (f *fakeMailerLite) Subscribe(_ context.Context, email string, _ time.Time) error {
	f.log.add("mailerlite.subscribe")
	f.emails = append(f.emails, email)
	return f.err
}

type fakeMailer struct {
	log  *callLog
	err  error
	sent []mailer.Message
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.log.add("mailer.send")
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}
