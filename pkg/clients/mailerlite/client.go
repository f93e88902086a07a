package mailerlite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/autoforge/waitlist-api/pkg/models"
)

// Client defines the interface for interacting with the MailerLite API
type Client interface {
	Subscribe(ctx context.Context, email string, signupDate time.Time) error
}

type clientImpl struct {
	apiKey     string
	groupID    string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new MailerLite client
func NewClient(apiKey, groupID, baseURL string, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &clientImpl{
		apiKey:     apiKey,
		groupID:    groupID,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type subscribeRequest struct {
	Email  string            `json:"email"`
	Fields map[string]string `json:"fields"`
}

// Subscribe adds the address to the configured group
func (c *clientImpl) Subscribe(ctx context.Context, email string, signupDate time.Time) error {
	endpoint := fmt.Sprintf("%s/groups/%s/subscribers", c.baseURL, url.PathEscape(c.groupID))

	jsonPayload, err := json.Marshal(subscribeRequest{
		Email: email,
		Fields: map[string]string{
			"signup_date": signupDate.UTC().Format(models.ISOTimestamp),
		},
	})
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-MailerLite-ApiKey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error subscribing to MailerLite: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("error from MailerLite API (%d): %s", resp.StatusCode, string(body))
	}

	return nil
}
