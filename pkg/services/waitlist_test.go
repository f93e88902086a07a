package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autoforge/waitlist-api/pkg/clients/mailerlite"
	"github.com/autoforge/waitlist-api/pkg/clients/sheets"
	"github.com/autoforge/waitlist-api/pkg/config"
	"github.com/autoforge/waitlist-api/pkg/emails"
)

var signupTime = time.Date(2026, 3, 1, 14, 5, 9, 0, time.Local)

type waitlistFixture struct {
	log    *callLog
	sheets *fakeSheets
	ml     *fakeMailerLite
	mail   *fakeMailer
	svc    *waitlistServiceImpl
}

func newWaitlistFixture(withMailingList bool) *waitlistFixture {
	log := &callLog{}
	f := &waitlistFixture{
		log:    log,
		sheets: &fakeSheets{log: log, sheets: []sheets.Sheet{{ID: 0, Title: "Waitlist", Index: 0}, {ID: 1, Title: "Purchases", Index: 1}}},
		ml:     &fakeMailerLite{log: log},
		mail:   &fakeMailer{log: log},
	}

	var ml mailerlite.Client
	if withMailingList {
		ml = f.ml
	}
	cfg := &config.Config{EmailUser: "forge@example.com", EmailFromName: "AutoForge System"}
	f.svc = NewWaitlistService(f.sheets, ml, f.mail, cfg, zap.NewNop()).(*waitlistServiceImpl)
	f.svc.now = func() time.Time { return signupTime }
	return f
}

func TestSignup_HappyPath(t *testing.T) {
	f := newWaitlistFixture(true)

	require.NoError(t, f.svc.Signup(context.Background(), "a@b.co"))

	assert.Equal(t, []string{"sheets.load", "sheets.add_row", "mailerlite.subscribe", "mailer.send"}, f.log.calls)
	require.Len(t, f.sheets.rows, 1)
	assert.Equal(t, "Waitlist", f.sheets.rowSheets[0])
	assert.Equal(t, map[string]any{
		"Email":  "a@b.co",
		"Date":   "3/1/2026, 2:05:09 PM",
		"Source": "Waitlist",
	}, f.sheets.rows[0])
	assert.Equal(t, []string{"a@b.co"}, f.ml.emails)

	require.Len(t, f.mail.sent, 1)
	msg := f.mail.sent[0]
	assert.Equal(t, "a@b.co", msg.To)
	assert.Equal(t, "forge@example.com", msg.From)
	assert.Equal(t, "AutoForge System", msg.FromName)
	assert.Equal(t, emails.ConfirmationSubject, msg.Subject)
	assert.Contains(t, msg.HTML, "SYSTEM_ID: "+emails.SystemID(signupTime))
}

func TestSignup_SheetFailureStopsBeforeMail(t *testing.T) {
	f := newWaitlistFixture(true)
	f.sheets.rowErr = errors.New("quota exceeded")

	err := f.svc.Signup(context.Background(), "a@b.co")

	require.Error(t, err)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "sheet", stepErr.Step)
	assert.Equal(t, []string{"sheets.load", "sheets.add_row"}, f.log.calls)
	assert.Empty(t, f.mail.sent)
}

func TestSignup_NoSheets(t *testing.T) {
	f := newWaitlistFixture(true)
	f.sheets.sheets = nil

	err := f.svc.Signup(context.Background(), "a@b.co")
	assert.ErrorIs(t, err, sheets.ErrNoSheets)
	assert.NotContains(t, f.log.calls, "mailer.send")
}

func TestSignup_MailingListFailureIsBestEffort(t *testing.T) {
	f := newWaitlistFixture(true)
	f.ml.err = errors.New("mailerlite 500")

	require.NoError(t, f.svc.Signup(context.Background(), "a@b.co"))
	assert.Len(t, f.mail.sent, 1)
}

func TestSignup_MailingListDisabled(t *testing.T) {
	f := newWaitlistFixture(false)

	require.NoError(t, f.svc.Signup(context.Background(), "a@b.co"))
	assert.Equal(t, []string{"sheets.load", "sheets.add_row", "mailer.send"}, f.log.calls)
}

func TestSignup_MailFailureIsFatalAfterRowWritten(t *testing.T) {
	f := newWaitlistFixture(true)
	f.mail.err = errors.New("535 auth failed")

	err := f.svc.Signup(context.Background(), "a@b.co")

	require.Error(t, err)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "confirmation-email", stepErr.Step)
	// the spreadsheet row is not rolled back
	assert.Len(t, f.sheets.rows, 1)
}

func TestSignup_DuplicateSubmissionsAppendTwice(t *testing.T) {
	f := newWaitlistFixture(true)

	require.NoError(t, f.svc.Signup(context.Background(), "a@b.co"))
	require.NoError(t, f.svc.Signup(context.Background(), "a@b.co"))

	assert.Len(t, f.sheets.rows, 2)
	assert.Len(t, f.mail.sent, 2)
}
