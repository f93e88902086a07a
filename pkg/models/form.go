package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// PurchasesSheetTitle is the sheet purchase events are appended to
	PurchasesSheetTitle = "Purchases"

	// WaitlistSource marks signup rows in the first sheet
	WaitlistSource = "Waitlist"

	DefaultProduct   = "autoforge-lifetime"
	DefaultPrice     = 299.0
	DefaultCTASource = "unknown"
	UnknownIP        = "unknown"

	// ISOTimestamp matches the millisecond UTC format browsers produce for Date.toISOString
	ISOTimestamp = "2006-01-02T15:04:05.000Z"

	// LocalTimestamp is the human-readable date written to the waitlist sheet
	LocalTimestamp = "1/2/2006, 3:04:05 PM"
)

// PurchaseHeaders is the header row of the Purchases sheet, in column order
var PurchaseHeaders = []string{"Product", "Price", "Timestamp", "CTA Source", "IP"}

// Represents the payload of the waitlist form
type SignupRequest struct {
	Email string `json:"email"`
}

// SignupRow is the record appended to the first sheet for every signup
type SignupRow struct {
	Email  string
	Date   time.Time
	Source string
}

// Values keys the row by the waitlist sheet's header names
func (r SignupRow) Values() map[string]any {
	return map[string]any{
		"Email":  r.Email,
		"Date":   r.Date.Format(LocalTimestamp),
		"Source": r.Source,
	}
}

// PurchaseForm is the raw tracking payload. Every field is optional and loosely
// typed so that a malformed analytics payload never fails decoding.
type PurchaseForm struct {
	Product   any `json:"product"`
	Price     any `json:"price"`
	Timestamp any `json:"timestamp"`
	CTASource any `json:"cta_source"`
}

// PurchaseEvent is a tracking payload with every default applied. Price is a
// float64 when the payload carried a number or numeric string, otherwise the
// provided value as written.
type PurchaseEvent struct {
	Product   string `json:"product"`
	Price     any    `json:"price"`
	Timestamp string `json:"timestamp"`
	CTASource string `json:"cta_source"`
	SourceIP  string `json:"source_ip"`
}

// Normalize substitutes the documented default for every absent or falsy field.
// Falsy follows JSON truthiness: null, false, 0 and "" only.
func (f PurchaseForm) Normalize(now time.Time, sourceIP string) PurchaseEvent {
	event := PurchaseEvent{
		Product:   DefaultProduct,
		Price:     DefaultPrice,
		Timestamp: now.UTC().Format(ISOTimestamp),
		CTASource: DefaultCTASource,
		SourceIP:  UnknownIP,
	}

	if truthy(f.Product) {
		event.Product = cellText(f.Product)
	}
	if truthy(f.Price) {
		event.Price = priceCell(f.Price)
	}
	if truthy(f.Timestamp) {
		event.Timestamp = cellText(f.Timestamp)
	}
	if truthy(f.CTASource) {
		event.CTASource = cellText(f.CTASource)
	}
	if sourceIP = strings.TrimSpace(sourceIP); sourceIP != "" {
		event.SourceIP = sourceIP
	}
	return event
}

// Row keys the event by PurchaseHeaders
func (e PurchaseEvent) Row() map[string]any {
	return map[string]any{
		"Product":    e.Product,
		"Price":      e.Price,
		"Timestamp":  e.Timestamp,
		"CTA Source": e.CTASource,
		"IP":         e.SourceIP,
	}
}

// priceCell keeps numbers numeric and everything else as written
func priceCell(v any) any {
	switch p := v.(type) {
	case float64:
		return p
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return p
		}
		return f
	case bool:
		return p
	}
	return cellText(v)
}

func cellText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// truthy reports whether a decoded JSON value is set
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	}
	return true
}
