package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/autoforge/waitlist-api/pkg/clients/mailer"
	"github.com/autoforge/waitlist-api/pkg/clients/mailerlite"
	"github.com/autoforge/waitlist-api/pkg/clients/sheets"
	"github.com/autoforge/waitlist-api/pkg/config"
	"github.com/autoforge/waitlist-api/pkg/emails"
	"github.com/autoforge/waitlist-api/pkg/logging"
	"github.com/autoforge/waitlist-api/pkg/models"
	"github.com/autoforge/waitlist-api/pkg/utils"
)

const signupFlow = "signup"

// WaitlistService defines the interface for handling waitlist signups
type WaitlistService interface {
	Signup(ctx context.Context, email string) error
}

type waitlistServiceImpl struct {
	sheetsClient     sheets.Client
	mailerLiteClient mailerlite.Client
	mailClient       mailer.Client
	config           *config.Config
	log              *zap.Logger
	now              func() time.Time
}

// NewWaitlistService creates a new signup service. mailerLiteClient may be nil,
// in which case the mailing-list step is skipped.
func NewWaitlistService(
	sheetsClient sheets.Client,
	mailerLiteClient mailerlite.Client,
	mailClient mailer.Client,
	config *config.Config,
	log *zap.Logger,
) WaitlistService {
	return &waitlistServiceImpl{
		sheetsClient:     sheetsClient,
		mailerLiteClient: mailerLiteClient,
		mailClient:       mailClient,
		config:           config,
		log:              log,
		now:              time.Now,
	}
}

// Signup records the address, subscribes it to the mailing list and sends the
// confirmation email. A failed sheet append or email send fails the signup;
// rows already written are not rolled back.
func (s *waitlistServiceImpl) Signup(ctx context.Context, email string) error {
	log := logging.FromContext(ctx, s.log).With(zap.String("email_hash", utils.HashEmail(email)))
	now := s.now()

	log.Info("processing waitlist signup")

	steps := []Step{
		{
			Name:   "sheet",
			Policy: Fatal,
			Run: func(ctx context.Context) error {
				return s.appendSignup(ctx, email, now)
			},
		},
		{
			Name:   "mailing-list",
			Policy: BestEffort,
			Run: func(ctx context.Context) error {
				if s.mailerLiteClient == nil {
					log.Debug("mailing list not configured, skipping subscription")
					return nil
				}
				return s.mailerLiteClient.Subscribe(ctx, email, now)
			},
		},
		{
			Name:   "confirmation-email",
			Policy: Fatal,
			Run: func(ctx context.Context) error {
				return s.sendConfirmation(ctx, email, now)
			},
		},
	}

	if err := RunSteps(ctx, log, signupFlow, steps); err != nil {
		return err
	}

	log.Info("waitlist signup completed")
	return nil
}

func (s *waitlistServiceImpl) appendSignup(ctx context.Context, email string, now time.Time) error {
	all, err := s.sheetsClient.LoadInfo(ctx)
	if err != nil {
		return err
	}
	first, err := sheets.FirstSheet(all)
	if err != nil {
		return err
	}

	row := models.SignupRow{Email: email, Date: now, Source: models.WaitlistSource}
	return s.sheetsClient.AddRow(ctx, first, row.Values())
}

func (s *waitlistServiceImpl) sendConfirmation(ctx context.Context, email string, now time.Time) error {
	rendered, err := emails.RenderConfirmation(email, now)
	if err != nil {
		return err
	}

	return s.mailClient.Send(ctx, mailer.Message{
		FromName: s.config.EmailFromName,
		From:     s.config.EmailUser,
		To:       email,
		Subject:  rendered.Subject,
		Text:     rendered.Text,
		HTML:     rendered.HTML,
	})
}
