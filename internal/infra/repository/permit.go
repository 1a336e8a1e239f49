package repository

import (
	"context"
	"time"

	"clinic-parking/internal/infra"
	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/usecase/shared"

	"github.com/google/uuid"
)

type PermitRepository struct{}

func NewPermitRepository() *PermitRepository {
	return &PermitRepository{}
}

// HasValid reports whether any permit covers the instant. Multiple permits
// per vehicle are expected (history); one valid interval is enough.
func (r *PermitRepository) HasValid(ctx context.Context, q db.DBTX, vehicleID uuid.UUID, at time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM permits
			WHERE vehicle_id = $1 AND valid_from <= $2 AND valid_to > $2
		)`

	var ok bool
	if err := q.QueryRow(ctx, query, vehicleID, at).Scan(&ok); err != nil {
		return false, infra.WrapRepoErr("failed to check permit validity", err)
	}
	return ok, nil
}

func (r *PermitRepository) Create(ctx context.Context, q db.DBTX, vehicleID uuid.UUID, kind string, validFrom, validTo time.Time) (uuid.UUID, error) {
	const query = `
		INSERT INTO permits (vehicle_id, kind, valid_from, valid_to)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id uuid.UUID
	if err := q.QueryRow(ctx, query, vehicleID, kind, validFrom, validTo).Scan(&id); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create permit", err)
	}
	return id, nil
}

func (r *PermitRepository) List(ctx context.Context, q db.DBTX) ([]shared.PermitRow, error) {
	const query = `
		SELECT p.id, v.license_plate, p.kind, p.valid_from, p.valid_to, p.created_at
		FROM permits p
		JOIN vehicles v ON v.id = p.vehicle_id
		ORDER BY p.created_at DESC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list permits", err)
	}
	defer rows.Close()

	var result []shared.PermitRow
	for rows.Next() {
		var p shared.PermitRow
		if err := rows.Scan(&p.ID, &p.Plate, &p.Kind, &p.ValidFrom, &p.ValidTo, &p.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan permit row", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate permit rows", err)
	}
	return result, nil
}
