package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/autoforge/waitlist-api/pkg/app"
	"github.com/autoforge/waitlist-api/pkg/emails"
	"github.com/autoforge/waitlist-api/pkg/validation"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "waitlist",
		Short:        "AutoForge waitlist and purchase tracking API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
	root.AddCommand(newServeCmd(), newPreviewEmailCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func newPreviewEmailCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "preview-email",
		Short: "Print the rendered waitlist confirmation email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validation.ValidEmail(to) {
				return fmt.Errorf("invalid recipient %q", to)
			}
			rendered, err := emails.RenderConfirmation(to, time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subject: %s\n\n%s\n\n%s\n", rendered.Subject, rendered.Text, rendered.HTML)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "preview@example.com", "recipient address")
	return cmd
}

func serve() error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps, err := app.Build(reg)
	if err != nil {
		return err
	}
	log := deps.Log
	defer log.Sync()

	srv := &http.Server{
		Addr:              ":" + deps.Config.Port,
		Handler:           deps.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("port", deps.Config.Port), zap.String("mode", deps.Config.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("error starting server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("server shutdown complete")
	return nil
}
