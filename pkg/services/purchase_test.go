package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autoforge/waitlist-api/pkg/clients/sheets"
	"github.com/autoforge/waitlist-api/pkg/models"
)

var purchaseTime = time.Date(2026, 3, 1, 14, 5, 9, 500_000_000, time.UTC)

func newPurchaseService(fs *fakeSheets) *purchaseServiceImpl {
	svc := NewPurchaseService(fs, zap.NewNop()).(*purchaseServiceImpl)
	svc.now = func() time.Time { return purchaseTime }
	return svc
}

func TestTrack_CreatesSheetOnFirstUse(t *testing.T) {
	fs := &fakeSheets{log: &callLog{}, sheets: []sheets.Sheet{{Title: "Waitlist"}}}
	svc := newPurchaseService(fs)

	res := svc.Track(context.Background(), models.PurchaseForm{}, "")

	require.True(t, res.OK())
	assert.Equal(t, KindNone, res.Kind)
	assert.Equal(t, []string{"Purchases"}, fs.added)
	assert.Equal(t, []string{"sheets.load", "sheets.add_sheet", "sheets.add_row"}, fs.log.calls)
	require.Len(t, fs.rows, 1)
	assert.Equal(t, "Purchases", fs.rowSheets[0])
	assert.Equal(t, map[string]any{
		"Product":    "autoforge-lifetime",
		"Price":      299.0,
		"Timestamp":  "2026-03-01T14:05:09.500Z",
		"CTA Source": "unknown",
		"IP":         "unknown",
	}, fs.rows[0])
}

func TestTrack_ReusesExistingSheet(t *testing.T) {
	fs := &fakeSheets{log: &callLog{}, sheets: []sheets.Sheet{{Title: "Waitlist"}, {ID: 9, Title: "Purchases", Index: 1}}}
	svc := newPurchaseService(fs)

	res := svc.Track(context.Background(), models.PurchaseForm{Product: "autoforge-team", CTASource: "pricing"}, "198.51.100.4")

	require.True(t, res.OK())
	assert.Empty(t, fs.added)
	assert.Equal(t, "autoforge-team", fs.rows[0]["Product"])
	assert.Equal(t, "pricing", fs.rows[0]["CTA Source"])
	assert.Equal(t, "198.51.100.4", fs.rows[0]["IP"])
}

func TestTrack_FailuresAreReportedNotReturned(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeSheets)
		kind  ErrorKind
	}{
		{"load", func(f *fakeSheets) { f.loadErr = errors.New("invalid_grant") }, KindLoad},
		{"create sheet", func(f *fakeSheets) { f.addErr = errors.New("forbidden") }, KindCreateSheet},
		{"append", func(f *fakeSheets) { f.rowErr = errors.New("quota") }, KindAppend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &fakeSheets{log: &callLog{}}
			tt.setup(fs)

			res := newPurchaseService(fs).Track(context.Background(), models.PurchaseForm{}, "")

			assert.False(t, res.OK())
			assert.Equal(t, tt.kind, res.Kind)
			assert.Empty(t, fs.rows)
			assert.Equal(t, models.DefaultProduct, res.Event.Product)
		})
	}
}
