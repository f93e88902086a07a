package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Message is a single outbound email
type Message struct {
	FromName string
	From     string
	To       string
	Subject  string
	Text     string
	HTML     string
}

// Client defines the interface for sending mail through the SMTP relay
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// sender is the part of *mail.Client the relay client uses
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type clientImpl struct {
	smtp sender
}

// NewClient creates an SMTP client that authenticates with the given credential pair
// and refuses to send without STARTTLS
func NewClient(host string, port int, username, password string) (Client, error) {
	c, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username),
		mail.WithPassword(password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating SMTP client: %w", err)
	}
	return &clientImpl{smtp: c}, nil
}

func (c *clientImpl) Send(ctx context.Context, msg Message) error {
	m, err := buildMsg(msg)
	if err != nil {
		return err
	}
	if err := c.smtp.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}

func buildMsg(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(msg.FromName, msg.From); err != nil {
		return nil, fmt.Errorf("error setting sender %q: %w", msg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("error setting recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}
