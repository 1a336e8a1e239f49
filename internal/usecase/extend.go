package usecase

import (
	"context"
	"time"

	"clinic-parking/internal/domain/pricing"
	"clinic-parking/internal/domain/session"
	"clinic-parking/internal/infra"
	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/pkg/clock"
	"clinic-parking/internal/pkg/errs"
	"clinic-parking/internal/pkg/exttoken"

	"github.com/google/uuid"
)

var (
	ErrInvalidExtensionToken = errs.New("invalid extension token")
	ErrSessionNotFound       = errs.New("session not found")
	ErrSessionNotExtendable  = errs.New("session is not extendable")
	ErrExpiredTooLong        = errs.New("session expired outside the grace window")
)

// AdminExtendIncrement is the fixed bump applied by the privileged
// no-token extension.
const AdminExtendIncrement = 15 * time.Minute

// ExtensionInfo is what the extension page shows before the owner commits:
// enough to render the hour selector with today's price, nothing more.
type ExtensionInfo struct {
	SessionID uuid.UUID
	SpotLabel string
	Plate     string
	ExpiresAt *time.Time
	RateCents int64
	IsWeekend bool
}

type ExtendCommands interface {
	// GetInfo verifies the token before reading any session detail back.
	GetInfo(ctx context.Context, sessionID uuid.UUID, token string) (*ExtensionInfo, error)
	// RequestExtension initiates a checkout whose confirmation advances
	// expires_at via reconciliation.
	RequestExtension(ctx context.Context, sessionID uuid.UUID, token string, hours int) (*Checkout, error)
	// AdminExtend adds a fixed increment to an active session, no token.
	AdminExtend(ctx context.Context, sessionID uuid.UUID) (time.Time, error)
}

type extendUseCaseImpl struct {
	sessionRepo SessionRepository
	spotRepo    SpotRepository
	vehicleRepo VehicleRepository
	paymentRepo PaymentRepository
	opConfig    OpConfigProvider
	checkout    CheckoutProvider
	tokens      *exttoken.Service
	pool        db.Pool
	clock       clock.Clock
}

func NewExtendCommands(
	sessionRepo SessionRepository,
	spotRepo SpotRepository,
	vehicleRepo VehicleRepository,
	paymentRepo PaymentRepository,
	opConfig OpConfigProvider,
	checkout CheckoutProvider,
	tokens *exttoken.Service,
	pool db.Pool,
	clock clock.Clock,
) ExtendCommands {
	return &extendUseCaseImpl{
		sessionRepo: sessionRepo,
		spotRepo:    spotRepo,
		vehicleRepo: vehicleRepo,
		paymentRepo: paymentRepo,
		opConfig:    opConfig,
		checkout:    checkout,
		tokens:      tokens,
		pool:        pool,
		clock:       clock,
	}
}

func (u *extendUseCaseImpl) GetInfo(ctx context.Context, sessionID uuid.UUID, token string) (*ExtensionInfo, error) {
	s, err := u.loadExtendable(ctx, sessionID, token)
	if err != nil {
		return nil, err
	}

	cfg, err := u.opConfig.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	// Joined display data; occupancy is not re-checked here, only at
	// payment confirmation.
	spotLabel, plateStr, err := u.lookupLabels(ctx, s.SpotID(), s.VehicleID())
	if err != nil {
		return nil, err
	}

	now := u.clock.Now()
	calc := pricing.NewCalculator(cfg.RateCents, cfg.WeekendRateCents)
	return &ExtensionInfo{
		SessionID: sessionID,
		SpotLabel: spotLabel,
		Plate:     plateStr,
		ExpiresAt: s.ExpiresAt(),
		RateCents: calc.RateCentsAt(now),
		IsWeekend: pricing.IsWeekendDay(now),
	}, nil
}

func (u *extendUseCaseImpl) RequestExtension(ctx context.Context, sessionID uuid.UUID, token string, hours int) (*Checkout, error) {
	if hours < pricing.MinHours || hours > pricing.MaxHours {
		return nil, ErrInvalidHours
	}

	s, err := u.loadExtendable(ctx, sessionID, token)
	if err != nil {
		return nil, err
	}

	cfg, err := u.opConfig.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	spotLabel, _, err := u.lookupLabels(ctx, s.SpotID(), s.VehicleID())
	if err != nil {
		return nil, err
	}

	now := u.clock.Now()
	calc := pricing.NewCalculator(cfg.RateCents, cfg.WeekendRateCents)
	amount, err := calc.Quote(now, hours)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidHours)
	}

	checkout, err := u.checkout.CreateExtensionCheckout(ctx, ExtensionCheckoutParams{
		SessionID:   sessionID,
		SpotLabel:   spotLabel,
		Hours:       hours,
		Token:       token,
		AmountCents: amount,
	})
	if err != nil {
		return nil, errs.Mark(err, ErrCheckoutFailed)
	}

	if err := u.paymentRepo.Create(ctx, u.pool, checkout.Ref, amount); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return checkout, nil
}

func (u *extendUseCaseImpl) AdminExtend(ctx context.Context, sessionID uuid.UUID) (time.Time, error) {
	snap, err := u.sessionRepo.FindByID(ctx, u.pool, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return time.Time{}, ErrSessionNotFound
		}
		return time.Time{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !session.Status(snap.Status).Occupying() {
		return time.Time{}, ErrSessionNotExtendable
	}

	now := u.clock.Now()
	base := now
	if snap.ExpiresAt != nil {
		base = *snap.ExpiresAt
	}
	newExpiry := base.Add(AdminExtendIncrement)
	if err := u.sessionRepo.UpdateExpiry(ctx, u.pool, sessionID, newExpiry, "extended by admin"); err != nil {
		return time.Time{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return newExpiry, nil
}

// loadExtendable verifies the token before any session detail is read back
// to the caller, then enforces the extension preconditions.
func (u *extendUseCaseImpl) loadExtendable(ctx context.Context, sessionID uuid.UUID, token string) (*session.Session, error) {
	if !u.tokens.Verify(sessionID, token) {
		return nil, ErrInvalidExtensionToken
	}

	snap, err := u.sessionRepo.FindByID(ctx, u.pool, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	cfg, err := u.opConfig.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s := session.Reconstruct(snap.ID, snap.VehicleID, snap.SpotID,
		session.Status(snap.Status), session.Origin(snap.Origin),
		snap.StartedAt, snap.ExpiresAt, deref(snap.Notes), snap.NotifiedAt)

	if err := s.ValidateExtendable(u.clock.Now(), cfg.Grace()); err != nil {
		switch err {
		case session.ErrExpiredTooLong:
			return nil, ErrExpiredTooLong
		default:
			return nil, ErrSessionNotExtendable
		}
	}
	return s, nil
}

func (u *extendUseCaseImpl) lookupLabels(ctx context.Context, spotID, vehicleID uuid.UUID) (string, string, error) {
	spot, err := u.spotRepo.FindByID(ctx, u.pool, spotID)
	if err != nil {
		return "", "", errs.Mark(err, ErrDatabaseOperationFailed)
	}
	vehicle, err := u.vehicleRepo.FindByID(ctx, u.pool, vehicleID)
	if err != nil {
		return "", "", errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return spot.Label, vehicle.Plate, nil
}
