// Package emails renders the transactional emails sent by the API.
package emails

import (
	_ "embed"
	"fmt"
	"time"

	pongo2 "github.com/flosch/pongo2/v6"
)

const (
	ConfirmationSubject = "ACCESS GRANTED // Welcome to the Foundry"
	ConfirmationText    = "AutoForge Waitlist Confirmed. Access Granted."

	headerGIF = "https://media.giphy.com/media/L2r39d6gO8pXN6D7YF/giphy.gif"
	accessGIF = "https://media.giphy.com/media/Y35kK8XG3V1eM/giphy.gif"
)

//go:embed templates/confirmation.html
var confirmationHTML string

var confirmationTpl = pongo2.Must(pongo2.FromString(confirmationHTML))

// Rendered is a ready-to-send email body
type Rendered struct {
	Subject string
	HTML    string
	Text    string
}

// RenderConfirmation renders the waitlist confirmation for recipient at now.
func RenderConfirmation(recipient string, now time.Time) (Rendered, error) {
	html, err := confirmationTpl.Execute(pongo2.Context{
		"recipient":     recipient,
		"system_id":     SystemID(now),
		"main_bg":       "#030005",
		"card_bg":       "#0A0A0C",
		"accent":        "#7C3AED",
		"header_gif":    headerGIF,
		"access_gif":    accessGIF,
		"launch_window": "EST_MAR_2026",
		"site_url":      "https://autoforge.ai",
	})
	if err != nil {
		return Rendered{}, fmt.Errorf("error rendering confirmation email: %w", err)
	}

	return Rendered{
		Subject: ConfirmationSubject,
		HTML:    html,
		Text:    ConfirmationText,
	}, nil
}

// SystemID is the last six digits of the Unix time in milliseconds
func SystemID(now time.Time) string {
	return fmt.Sprintf("%06d", now.UnixMilli()%1_000_000)
}
