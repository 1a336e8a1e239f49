// Package sms dispatches expiry reminders over Twilio SMS.
package sms

import (
	"context"
	"log/slog"
	"strings"

	"clinic-parking/internal/pkg/config"
	"clinic-parking/internal/pkg/errs"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var (
	ErrNotifierDisabled = errs.New("sms notifier is disabled")
	ErrSendFailed       = errs.New("sms send failed")
)

type Notifier struct {
	client *twilio.RestClient
	from   string
}

// NewNotifier returns a disabled notifier when any credential is missing;
// Send then fails every dispatch, which the scheduler treats as a retryable
// failure rather than a crash.
func NewNotifier(cfg config.TwilioConfig) *Notifier {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		slog.Warn("twilio credentials missing, sms notifier disabled")
		return &Notifier{}
	}

	c := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(cfg.AccountSID, cfg.AuthToken),
	}
	c.SetTimeout(cfg.Timeout)

	restClient := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
		Client:   c,
	})
	return &Notifier{client: restClient, from: cfg.FromNumber}
}

func (n *Notifier) Send(ctx context.Context, phone, message string) error {
	if n.client == nil {
		return ErrNotifierDisabled
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(normalizePhone(phone))
	params.SetFrom(n.from)
	params.SetBody(message)

	if _, err := n.client.Api.CreateMessage(params); err != nil {
		return errs.Mark(errs.Wrap(err, "twilio create message"), ErrSendFailed)
	}
	return nil
}

// normalizePhone coerces bare 10-digit numbers to E.164 with a US country
// code; anything already prefixed with + passes through.
func normalizePhone(phone string) string {
	trimmed := strings.TrimSpace(phone)
	if strings.HasPrefix(trimmed, "+") {
		return trimmed
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, trimmed)
	if len(digits) == 10 {
		return "+1" + digits
	}
	if len(digits) == 11 && digits[0] == '1' {
		return "+" + digits
	}
	return trimmed
}
