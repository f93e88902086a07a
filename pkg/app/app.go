package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/autoforge/waitlist-api/pkg/api"
	"github.com/autoforge/waitlist-api/pkg/clients/mailer"
	"github.com/autoforge/waitlist-api/pkg/clients/mailerlite"
	"github.com/autoforge/waitlist-api/pkg/clients/sheets"
	"github.com/autoforge/waitlist-api/pkg/config"
	"github.com/autoforge/waitlist-api/pkg/logging"
	"github.com/autoforge/waitlist-api/pkg/metrics"
	"github.com/autoforge/waitlist-api/pkg/server"
	"github.com/autoforge/waitlist-api/pkg/services"
)

// Deps is everything a process entrypoint needs to serve the API
type Deps struct {
	Config *config.Config
	Log    *zap.Logger
	Router *gin.Engine
}

// Build loads and validates configuration once, then wires clients, services
// and the router. reg receives the service metrics and backs /metrics.
func Build(reg *prometheus.Registry) (*Deps, error) {
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}
	if envErr != nil {
		log.Debug("no .env file loaded", zap.Error(envErr))
	}

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize API clients
	sheetsClient, err := sheets.NewClient(context.Background(),
		cfg.GoogleServiceAccountEmail,
		cfg.GooglePrivateKey,
		cfg.GoogleSheetID,
	)
	if err != nil {
		return nil, err
	}

	var mailerLiteClient mailerlite.Client
	if cfg.MailingListEnabled() {
		mailerLiteClient = mailerlite.NewClient(cfg.MailerLiteAPIKey, cfg.MailerLiteGroupID, cfg.MailerLiteBaseURL, nil)
	} else {
		log.Warn("MAILERLITE_API_KEY or MAILERLITE_GROUP_ID not set, mailing list subscription disabled")
	}

	mailClient, err := mailer.NewClient(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)
	if err != nil {
		return nil, err
	}

	// Initialize services
	waitlistService := services.NewWaitlistService(sheetsClient, mailerLiteClient, mailClient, cfg, log)
	purchaseService := services.NewPurchaseService(sheetsClient, log)

	metrics.Register(reg)

	handlers := api.NewHandlers(waitlistService, purchaseService, cfg, log)
	router := server.New(handlers, log, server.Options{Gatherer: reg})

	return &Deps{
		Config: cfg,
		Log:    log,
		Router: router,
	}, nil
}
