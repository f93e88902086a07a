package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/autoforge/waitlist-api/pkg/clients/sheets"
	"github.com/autoforge/waitlist-api/pkg/logging"
	"github.com/autoforge/waitlist-api/pkg/models"
)

const purchaseFlow = "purchase"

// ErrorKind names the step of the tracking flow that failed
type ErrorKind string

const (
	KindNone        ErrorKind = ""
	KindLoad        ErrorKind = "load"
	KindCreateSheet ErrorKind = "create_sheet"
	KindAppend      ErrorKind = "append"
)

// TrackResult is the outcome of tracking one purchase. It is never turned into
// a failing HTTP response; Err and Kind are informational.
type TrackResult struct {
	Event models.PurchaseEvent
	Err   error
	Kind  ErrorKind
}

// OK reports whether the row was written
func (r TrackResult) OK() bool {
	return r.Err == nil
}

// PurchaseService defines the interface for purchase tracking
type PurchaseService interface {
	Track(ctx context.Context, form models.PurchaseForm, sourceIP string) TrackResult
}

type purchaseServiceImpl struct {
	sheetsClient sheets.Client
	log          *zap.Logger
	now          func() time.Time
}

// NewPurchaseService creates a new purchase tracking service
func NewPurchaseService(sheetsClient sheets.Client, log *zap.Logger) PurchaseService {
	return &purchaseServiceImpl{
		sheetsClient: sheetsClient,
		log:          log,
		now:          time.Now,
	}
}

// Track appends the purchase to the Purchases sheet, creating the sheet with its
// header row on first use.
func (s *purchaseServiceImpl) Track(ctx context.Context, form models.PurchaseForm, sourceIP string) TrackResult {
	log := logging.FromContext(ctx, s.log)
	event := form.Normalize(s.now(), sourceIP)

	var (
		all   []sheets.Sheet
		sheet sheets.Sheet
	)
	steps := []Step{
		{
			Name:   string(KindLoad),
			Policy: Fatal,
			Run: func(ctx context.Context) error {
				var err error
				all, err = s.sheetsClient.LoadInfo(ctx)
				return err
			},
		},
		{
			Name:   string(KindCreateSheet),
			Policy: Fatal,
			Run: func(ctx context.Context) error {
				var ok bool
				if sheet, ok = sheets.SheetByTitle(all, models.PurchasesSheetTitle); ok {
					return nil
				}
				log.Info("creating purchases sheet", zap.String("title", models.PurchasesSheetTitle))
				var err error
				sheet, err = s.sheetsClient.AddSheet(ctx, models.PurchasesSheetTitle, models.PurchaseHeaders)
				return err
			},
		},
		{
			Name:   string(KindAppend),
			Policy: Fatal,
			Run: func(ctx context.Context) error {
				return s.sheetsClient.AddRow(ctx, sheet, event.Row())
			},
		},
	}

	result := TrackResult{Event: event}
	if err := RunSteps(ctx, log, purchaseFlow, steps); err != nil {
		result.Err = err
		var stepErr *StepError
		if errors.As(err, &stepErr) {
			result.Kind = ErrorKind(stepErr.Step)
		}
		log.Error("tracking error",
			zap.String("kind", string(result.Kind)),
			zap.Error(err),
		)
		return result
	}

	log.Info("purchase tracked",
		zap.String("product", event.Product),
		zap.Any("price", event.Price),
		zap.String("cta_source", event.CTASource),
	)
	return result
}
