package usecase

import (
	"context"
	"time"

	"clinic-parking/internal/infra"
	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/pkg/clock"
	"clinic-parking/internal/pkg/errs"
	"clinic-parking/internal/pkg/plate"
	"clinic-parking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidPermitWindow = errs.New("permit window is invalid")
	ErrInvalidConfigKey    = errs.New("unknown config key")
)

// Admin-editable keys. Anything else in an update payload is rejected
// outright rather than silently stored.
var allowedConfigKeys = map[string]struct{}{
	"rate_cents":         {},
	"weekend_rate_cents": {},
	"duration_minutes":   {},
	"grace_minutes":      {},
	"access_code":        {},
}

type PermitParams struct {
	Plates    []string
	Kind      string
	ValidFrom time.Time
	ValidTo   time.Time
}

type AdminCommands interface {
	// CreatePermits registers a batch of plates under one validity window,
	// upserting vehicles as needed. All-or-nothing.
	CreatePermits(ctx context.Context, params PermitParams) ([]uuid.UUID, error)
	SetSpotActive(ctx context.Context, label string, active bool) error
	UpdateConfig(ctx context.Context, values map[string]string) error
}

type adminUseCaseImpl struct {
	spotRepo    SpotRepository
	vehicleRepo VehicleRepository
	permitRepo  PermitRepository
	opConfig    OpConfigProvider
	pool        db.Pool
	clock       clock.Clock
}

func NewAdminCommands(
	spotRepo SpotRepository,
	vehicleRepo VehicleRepository,
	permitRepo PermitRepository,
	opConfig OpConfigProvider,
	pool db.Pool,
	clock clock.Clock,
) AdminCommands {
	return &adminUseCaseImpl{
		spotRepo:    spotRepo,
		vehicleRepo: vehicleRepo,
		permitRepo:  permitRepo,
		opConfig:    opConfig,
		pool:        pool,
		clock:       clock,
	}
}

func (u *adminUseCaseImpl) CreatePermits(ctx context.Context, params PermitParams) ([]uuid.UUID, error) {
	if !params.ValidTo.After(params.ValidFrom) {
		return nil, ErrInvalidPermitWindow
	}

	normalized := make([]string, 0, len(params.Plates))
	for _, p := range params.Plates {
		n, err := plate.NormalizeAndValidate(p)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidPlate)
		}
		normalized = append(normalized, n)
	}

	return shared.WithDefaultRetry(ctx, u.pool, func(tx db.DBTX) ([]uuid.UUID, error) {
		ids := make([]uuid.UUID, 0, len(normalized))
		for _, n := range normalized {
			vehicle, err := u.vehicleRepo.EnsureByPlate(ctx, tx, n)
			if err != nil {
				return nil, errs.Mark(err, ErrDatabaseOperationFailed)
			}
			id, err := u.permitRepo.Create(ctx, tx, vehicle.ID, params.Kind, params.ValidFrom, params.ValidTo)
			if err != nil {
				return nil, errs.Mark(err, ErrDatabaseOperationFailed)
			}
			ids = append(ids, id)
		}
		return ids, nil
	})
}

func (u *adminUseCaseImpl) SetSpotActive(ctx context.Context, label string, active bool) error {
	if err := u.spotRepo.SetActive(ctx, u.pool, label, active); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrSpotNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *adminUseCaseImpl) UpdateConfig(ctx context.Context, values map[string]string) error {
	for key := range values {
		if _, ok := allowedConfigKeys[key]; !ok {
			return ErrInvalidConfigKey
		}
	}
	return u.opConfig.Update(ctx, values)
}
