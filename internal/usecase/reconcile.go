package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clinic-parking/internal/domain/session"
	"clinic-parking/internal/infra"
	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/pkg/clock"
	"clinic-parking/internal/pkg/errs"
	"clinic-parking/internal/usecase/shared"
)

// Reconciliation outcomes. The webhook always acknowledges the event once it
// is durably absorbed; the outcome records what, if anything, happened.
const (
	OutcomeSessionCreated  = "session_created"
	OutcomeSessionExtended = "session_extended"
	OutcomeReplayed        = "replayed"
	OutcomeSkipped         = "skipped"
)

type ReconcileResult struct {
	Outcome string
	Detail  string
}

// ReconcileCommands applies a confirmed checkout exactly once. Safe under
// at-least-once delivery, redelivery, and arbitrary delay: the payment row's
// initiated->paid transition is the latch, and the occupancy check is re-run
// at confirmation time inside the same transaction.
type ReconcileCommands interface {
	Reconcile(ctx context.Context, checkoutRef string, intent CheckoutIntent) (*ReconcileResult, error)
}

type reconcileUseCaseImpl struct {
	spotRepo    SpotRepository
	vehicleRepo VehicleRepository
	sessionRepo SessionRepository
	paymentRepo PaymentRepository
	pool        db.Pool
	clock       clock.Clock
}

func NewReconcileCommands(
	spotRepo SpotRepository,
	vehicleRepo VehicleRepository,
	sessionRepo SessionRepository,
	paymentRepo PaymentRepository,
	pool db.Pool,
	clock clock.Clock,
) ReconcileCommands {
	return &reconcileUseCaseImpl{
		spotRepo:    spotRepo,
		vehicleRepo: vehicleRepo,
		sessionRepo: sessionRepo,
		paymentRepo: paymentRepo,
		pool:        pool,
		clock:       clock,
	}
}

func (u *reconcileUseCaseImpl) Reconcile(ctx context.Context, checkoutRef string, intent CheckoutIntent) (*ReconcileResult, error) {
	now := u.clock.Now()

	return shared.WithDefaultRetry(ctx, u.pool, func(tx db.DBTX) (*ReconcileResult, error) {
		applied, err := u.paymentRepo.MarkPaid(ctx, tx, checkoutRef, now)
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !applied {
			// Replay, or a checkout we never recorded. Either way the
			// event is acknowledged with no side effects.
			return &ReconcileResult{Outcome: OutcomeReplayed}, nil
		}

		switch v := intent.(type) {
		case ExtensionIntent:
			return u.applyExtension(ctx, tx, v, now)
		case CheckinIntent:
			return u.applyCheckin(ctx, tx, v, now)
		default:
			return &ReconcileResult{Outcome: OutcomeSkipped, Detail: "unrecognized intent"}, nil
		}
	})
}

func (u *reconcileUseCaseImpl) applyExtension(ctx context.Context, tx db.DBTX, intent ExtensionIntent, now time.Time) (*ReconcileResult, error) {
	snap, err := u.sessionRepo.FindByID(ctx, tx, intent.SessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			slog.Warn("extension payment for unknown session", "session_id", intent.SessionID)
			return &ReconcileResult{Outcome: OutcomeSkipped, Detail: "session not found"}, nil
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if snap.Status != session.StatusPaid.String() || snap.ExpiresAt == nil {
		return &ReconcileResult{Outcome: OutcomeSkipped, Detail: "session not extendable"}, nil
	}

	s := session.Reconstruct(snap.ID, snap.VehicleID, snap.SpotID,
		session.Status(snap.Status), session.Origin(snap.Origin),
		snap.StartedAt, snap.ExpiresAt, deref(snap.Notes), snap.NotifiedAt)

	newExpiry := s.ExtendedExpiry(now, time.Duration(intent.Hours)*time.Hour)
	note := fmt.Sprintf("extended by %dh on %s", intent.Hours, now.UTC().Format(time.RFC3339))
	if err := u.sessionRepo.UpdateExpiry(ctx, tx, snap.ID, newExpiry, note); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &ReconcileResult{Outcome: OutcomeSessionExtended}, nil
}

// applyCheckin creates the paid session promised at checkout initiation.
// Time has passed since then, so the claim is validated from scratch: the
// spot may have been deactivated, taken, or deleted. A payment that can no
// longer be honored is still acknowledged, just without occupancy.
func (u *reconcileUseCaseImpl) applyCheckin(ctx context.Context, tx db.DBTX, intent CheckinIntent, now time.Time) (*ReconcileResult, error) {
	spot, err := u.spotRepo.LockByLabel(ctx, tx, intent.SpotLabel)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			slog.Warn("paid check-in for unknown spot", "spot", intent.SpotLabel)
			return &ReconcileResult{Outcome: OutcomeSkipped, Detail: "spot not found"}, nil
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	vehicle, err := u.vehicleRepo.FindByPlate(ctx, tx, intent.Plate)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			slog.Warn("paid check-in for unknown vehicle", "plate", intent.Plate)
			return &ReconcileResult{Outcome: OutcomeSkipped, Detail: "vehicle not found"}, nil
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	occupied, err := u.sessionRepo.SpotOccupied(ctx, tx, spot.ID, now)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if occupied {
		slog.Warn("paid check-in confirmed for occupied spot", "spot", intent.SpotLabel, "plate", intent.Plate)
		return &ReconcileResult{Outcome: OutcomeSkipped, Detail: "spot occupied at confirmation"}, nil
	}

	if _, err := u.sessionRepo.VoidActiveByVehicle(ctx, tx, vehicle.ID, now, session.NoteSupersededByPaid); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if _, err := u.sessionRepo.VoidStaleBySpot(ctx, tx, spot.ID, now, session.NoteSpotTaken); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	duration := time.Duration(intent.DurationMinutes) * time.Minute
	s, err := session.NewPaid(vehicle.ID, spot.ID, now, duration)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if _, err := u.sessionRepo.Create(ctx, tx, s); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &ReconcileResult{Outcome: OutcomeSessionCreated}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
