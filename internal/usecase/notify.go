package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/pkg/clock"
	"clinic-parking/internal/pkg/config"
	"clinic-parking/internal/pkg/errs"
	"clinic-parking/internal/pkg/exttoken"

	"github.com/google/uuid"
)

var ErrNotifyScanFailed = errs.New("expiry scan failed")

// TickReport summarizes one scheduler pass. Failed dispatches stay
// unmarked and are retried on the next tick.
type TickReport struct {
	Scanned int
	Sent    int
	Failed  int
}

// NotifyCommands runs the expiry-reminder sweep: find paid sessions expiring
// inside the lead window that have not been notified, dispatch a reminder
// with a self-service extension link, and mark each one notified only after
// its dispatch succeeds.
type NotifyCommands interface {
	Tick(ctx context.Context) (*TickReport, error)
}

type notifyUseCaseImpl struct {
	sessionRepo SessionRepository
	notifier    Notifier
	tokens      *exttoken.Service
	cfg         config.NotifyConfig
	baseURL     string
	pool        db.Pool
	clock       clock.Clock
	loc         *time.Location
}

func NewNotifyCommands(
	sessionRepo SessionRepository,
	notifier Notifier,
	tokens *exttoken.Service,
	cfg config.NotifyConfig,
	baseURL string,
	pool db.Pool,
	clock clock.Clock,
	loc *time.Location,
) NotifyCommands {
	return &notifyUseCaseImpl{
		sessionRepo: sessionRepo,
		notifier:    notifier,
		tokens:      tokens,
		cfg:         cfg,
		baseURL:     baseURL,
		pool:        pool,
		clock:       clock,
		loc:         loc,
	}
}

func (u *notifyUseCaseImpl) Tick(ctx context.Context) (*TickReport, error) {
	now := u.clock.Now()
	from := now.Add(u.cfg.LeadWindowFrom)
	to := now.Add(u.cfg.LeadWindowTo)

	expiring, err := u.sessionRepo.FindExpiring(ctx, u.pool, from, to)
	if err != nil {
		return nil, errs.Mark(err, ErrNotifyScanFailed)
	}

	report := &TickReport{Scanned: len(expiring)}
	for _, e := range expiring {
		// Each session is dispatched and marked independently so one bad
		// phone number cannot stall the rest of the batch.
		link := u.extensionLink(e.SessionID)
		message := fmt.Sprintf(
			"Your parking at spot %s expires at %s. Extend here: %s",
			e.SpotLabel, e.ExpiresAt.In(u.loc).Format("3:04 PM"), link,
		)

		if err := u.notifier.Send(ctx, e.Phone, message); err != nil {
			slog.Warn("expiry reminder dispatch failed",
				"session_id", e.SessionID, "spot", e.SpotLabel, "error", err)
			report.Failed++
			continue
		}

		if err := u.sessionRepo.MarkNotified(ctx, u.pool, e.SessionID, now); err != nil {
			// The reminder went out but the marker did not stick; the next
			// tick may resend. Duplicate reminders beat silent ones.
			slog.Error("failed to mark session notified",
				"session_id", e.SessionID, "error", err)
			report.Failed++
			continue
		}
		report.Sent++
	}

	return report, nil
}

func (u *notifyUseCaseImpl) extensionLink(sessionID uuid.UUID) string {
	token := u.tokens.Generate(sessionID)
	return fmt.Sprintf("%s/extend/%s?token=%s", u.baseURL, sessionID, url.QueryEscape(token))
}
