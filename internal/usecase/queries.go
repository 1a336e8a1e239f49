package usecase

import (
	"context"
	"time"

	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/pkg/clock"
	"clinic-parking/internal/pkg/errs"
	"clinic-parking/internal/pkg/plate"
	"clinic-parking/internal/usecase/shared"
)

var ErrQueryFailed = errs.New("query failed")

// LotQueries is the read side: availability for the public page, sessions
// and revenue for the admin console. Reads go straight to the pool.
type LotQueries interface {
	SpotStatus(ctx context.Context) ([]shared.SpotStatusRow, error)
	Sessions(ctx context.Context, filter shared.SessionFilter) ([]shared.AdminSessionRow, error)
	Permits(ctx context.Context) ([]shared.PermitRow, error)
	Revenue(ctx context.Context, from, to time.Time) ([]shared.RevenueRow, error)
}

type lotQueriesImpl struct {
	spotRepo    SpotRepository
	sessionRepo SessionRepository
	permitRepo  PermitRepository
	paymentRepo PaymentRepository
	pool        db.Pool
	clock       clock.Clock
}

func NewLotQueries(
	spotRepo SpotRepository,
	sessionRepo SessionRepository,
	permitRepo PermitRepository,
	paymentRepo PaymentRepository,
	pool db.Pool,
	clock clock.Clock,
) LotQueries {
	return &lotQueriesImpl{
		spotRepo:    spotRepo,
		sessionRepo: sessionRepo,
		permitRepo:  permitRepo,
		paymentRepo: paymentRepo,
		pool:        pool,
		clock:       clock,
	}
}

func (q *lotQueriesImpl) SpotStatus(ctx context.Context) ([]shared.SpotStatusRow, error) {
	rows, err := q.spotRepo.ListWithOccupancy(ctx, q.pool)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return rows, nil
}

func (q *lotQueriesImpl) Sessions(ctx context.Context, filter shared.SessionFilter) ([]shared.AdminSessionRow, error) {
	// Plate search matches against stored plates, which are normalized, so
	// the query term gets the same treatment.
	if filter.PlateQuery != "" {
		filter.PlateQuery = plate.Normalize(filter.PlateQuery)
	}
	rows, err := q.sessionRepo.ListAdmin(ctx, q.pool, filter, q.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return rows, nil
}

func (q *lotQueriesImpl) Permits(ctx context.Context) ([]shared.PermitRow, error) {
	rows, err := q.permitRepo.List(ctx, q.pool)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return rows, nil
}

func (q *lotQueriesImpl) Revenue(ctx context.Context, from, to time.Time) ([]shared.RevenueRow, error) {
	rows, err := q.paymentRepo.RevenueByDay(ctx, q.pool, from, to)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return rows, nil
}
