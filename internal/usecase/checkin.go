package usecase

import (
	"context"
	"fmt"
	"time"

	"clinic-parking/internal/domain/pricing"
	"clinic-parking/internal/domain/session"
	"clinic-parking/internal/infra"
	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/pkg/clock"
	"clinic-parking/internal/pkg/errs"
	"clinic-parking/internal/pkg/plate"
	"clinic-parking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidPlate            = errs.New("invalid license plate")
	ErrInvalidHours            = errs.New("invalid hour count")
	ErrSpotNotFound            = errs.New("spot not found")
	ErrSpotInactive            = errs.New("spot is inactive")
	ErrSpotOccupied            = errs.New("spot is occupied")
	ErrInvalidAccessCode       = errs.New("invalid access code")
	ErrCheckoutFailed          = errs.New("payment provider checkout failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type AccessMode string

const (
	ModeFreeAccess AccessMode = "free_access"
	ModePaid       AccessMode = "paid"
)

type CheckinParams struct {
	Plate      string
	Email      *string
	Phone      *string
	SpotLabel  string
	Mode       AccessMode
	AccessCode string // free-access path
	Hours      int    // paid path
}

// CheckinResult is either an immediate approval (free-access path) or a
// redirect to an external checkout (paid path).
type CheckinResult struct {
	Approved    bool
	Message     string
	ExpiresAt   *time.Time
	RedirectURL string
}

type CheckinCommands interface {
	CheckIn(ctx context.Context, params CheckinParams) (*CheckinResult, error)
}

type checkinUseCaseImpl struct {
	spotRepo    SpotRepository
	vehicleRepo VehicleRepository
	permitRepo  PermitRepository
	sessionRepo SessionRepository
	paymentRepo PaymentRepository
	opConfig    OpConfigProvider
	checkout    CheckoutProvider
	pool        db.Pool
	clock       clock.Clock
	loc         *time.Location
}

func NewCheckinCommands(
	spotRepo SpotRepository,
	vehicleRepo VehicleRepository,
	permitRepo PermitRepository,
	sessionRepo SessionRepository,
	paymentRepo PaymentRepository,
	opConfig OpConfigProvider,
	checkout CheckoutProvider,
	pool db.Pool,
	clock clock.Clock,
	loc *time.Location,
) CheckinCommands {
	return &checkinUseCaseImpl{
		spotRepo:    spotRepo,
		vehicleRepo: vehicleRepo,
		permitRepo:  permitRepo,
		sessionRepo: sessionRepo,
		paymentRepo: paymentRepo,
		opConfig:    opConfig,
		checkout:    checkout,
		pool:        pool,
		clock:       clock,
		loc:         loc,
	}
}

func (u *checkinUseCaseImpl) CheckIn(ctx context.Context, params CheckinParams) (*CheckinResult, error) {
	normalized, err := plate.NormalizeAndValidate(params.Plate)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPlate)
	}

	cfg, err := u.opConfig.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	switch params.Mode {
	case ModeFreeAccess:
		return u.checkInFreeAccess(ctx, params, normalized, cfg)
	case ModePaid:
		return u.checkInPaid(ctx, params, normalized, cfg)
	default:
		return nil, ErrInvalidHours
	}
}

// checkInFreeAccess claims the spot and creates an approved session in one
// transaction: the occupancy check and the insert share a consistency
// boundary, so of two racing claims exactly one sees the spot occupied.
func (u *checkinUseCaseImpl) checkInFreeAccess(ctx context.Context, params CheckinParams, normalized string, cfg shared.OpConfig) (*CheckinResult, error) {
	now := u.clock.Now()

	newSession, err := shared.WithDefaultRetry(ctx, u.pool, func(tx db.DBTX) (*session.Session, error) {
		spot, vehicle, err := u.claimSpot(ctx, tx, params.SpotLabel, normalized, params.Email, params.Phone, now)
		if err != nil {
			return nil, err
		}

		origin := session.OriginAccessCode
		if !matchesAccessCode(params.AccessCode, cfg.AccessCode) {
			hasPermit, permitErr := u.permitRepo.HasValid(ctx, tx, vehicle.ID, now)
			if permitErr != nil {
				return nil, errs.Mark(permitErr, ErrDatabaseOperationFailed)
			}
			if !hasPermit {
				return nil, ErrInvalidAccessCode
			}
			origin = session.OriginPermit
		}

		if err := u.supersede(ctx, tx, vehicle.ID, spot.ID, now, session.NoteSupersededByCheckin); err != nil {
			return nil, err
		}

		s, err := session.NewApproved(vehicle.ID, spot.ID, origin, now, cfg.DefaultDuration())
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if _, err := u.sessionRepo.Create(ctx, tx, s); err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}

	expiresAt := *newSession.ExpiresAt()
	// Expiry is stored in UTC; the message shows the lot's wall clock.
	return &CheckinResult{
		Approved:  true,
		Message:   fmt.Sprintf("Welcome! Your parking is approved until %s", expiresAt.In(u.loc).Format("3:04 PM")),
		ExpiresAt: &expiresAt,
	}, nil
}

// checkInPaid verifies the claim is possible and supersedes the vehicle's
// prior sessions, but grants no occupancy: the session row is created only
// when reconciliation confirms the payment. The external checkout call
// happens after the transaction commits so a provider failure leaves no
// partial state claiming the spot.
func (u *checkinUseCaseImpl) checkInPaid(ctx context.Context, params CheckinParams, normalized string, cfg shared.OpConfig) (*CheckinResult, error) {
	if params.Hours < pricing.MinHours || params.Hours > pricing.MaxHours {
		return nil, ErrInvalidHours
	}
	now := u.clock.Now()

	_, err := shared.WithDefaultRetry(ctx, u.pool, func(tx db.DBTX) (struct{}, error) {
		spot, vehicle, err := u.claimSpot(ctx, tx, params.SpotLabel, normalized, params.Email, params.Phone, now)
		if err != nil {
			return struct{}{}, err
		}
		if err := u.supersede(ctx, tx, vehicle.ID, spot.ID, now, session.NoteSupersededByCheckin); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}

	calc := pricing.NewCalculator(cfg.RateCents, cfg.WeekendRateCents)
	amount, err := calc.Quote(now, params.Hours)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidHours)
	}

	checkout, err := u.checkout.CreateCheckinCheckout(ctx, CheckinCheckoutParams{
		Plate:           normalized,
		SpotLabel:       params.SpotLabel,
		Hours:           params.Hours,
		DurationMinutes: params.Hours * 60,
		AmountCents:     amount,
	})
	if err != nil {
		return nil, errs.Mark(err, ErrCheckoutFailed)
	}

	if err := u.paymentRepo.Create(ctx, u.pool, checkout.Ref, amount); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &CheckinResult{RedirectURL: checkout.URL}, nil
}

// claimSpot is the occupancy guard: lock the spot row, reject inactive or
// occupied spots, upsert the vehicle. Must run inside a transaction.
func (u *checkinUseCaseImpl) claimSpot(ctx context.Context, tx db.DBTX, spotLabel, normalized string, email, phone *string, now time.Time) (*shared.SpotSnapshot, *shared.VehicleSnapshot, error) {
	spot, err := u.spotRepo.LockByLabel(ctx, tx, spotLabel)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrSpotNotFound
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !spot.IsActive {
		return nil, nil, ErrSpotInactive
	}

	occupied, err := u.sessionRepo.SpotOccupied(ctx, tx, spot.ID, now)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if occupied {
		return nil, nil, ErrSpotOccupied
	}

	vehicle, err := u.vehicleRepo.Upsert(ctx, tx, normalized, email, phone)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return spot, vehicle, nil
}

// supersede voids the vehicle's active sessions elsewhere and any stale
// session still attached to this spot.
func (u *checkinUseCaseImpl) supersede(ctx context.Context, tx db.DBTX, vehicleID, spotID uuid.UUID, now time.Time, note string) error {
	if _, err := u.sessionRepo.VoidActiveByVehicle(ctx, tx, vehicleID, now, note); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if _, err := u.sessionRepo.VoidStaleBySpot(ctx, tx, spotID, now, session.NoteSpotTaken); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func matchesAccessCode(provided, expected string) bool {
	if provided == "" || expected == "" {
		return false
	}
	return plate.Normalize(provided) == plate.Normalize(expected)
}
