package repository

import (
	"context"

	"clinic-parking/internal/infra"
	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/usecase/shared"

	"github.com/google/uuid"
)

type SpotRepository struct{}

func NewSpotRepository() *SpotRepository {
	return &SpotRepository{}
}

func (r *SpotRepository) FindByLabel(ctx context.Context, q db.DBTX, label string) (*shared.SpotSnapshot, error) {
	const query = `SELECT id, label, is_active FROM spots WHERE label = $1`

	var s shared.SpotSnapshot
	err := q.QueryRow(ctx, query, label).Scan(&s.ID, &s.Label, &s.IsActive)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("spot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find spot by label", err)
	}
	return &s, nil
}

// LockByLabel takes a row lock on the spot, serializing concurrent claims
// for the same spot. Only meaningful inside a transaction.
func (r *SpotRepository) LockByLabel(ctx context.Context, q db.DBTX, label string) (*shared.SpotSnapshot, error) {
	const query = `SELECT id, label, is_active FROM spots WHERE label = $1 FOR UPDATE`

	var s shared.SpotSnapshot
	err := q.QueryRow(ctx, query, label).Scan(&s.ID, &s.Label, &s.IsActive)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("spot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock spot", err)
	}
	return &s, nil
}

func (r *SpotRepository) FindByID(ctx context.Context, q db.DBTX, id uuid.UUID) (*shared.SpotSnapshot, error) {
	const query = `SELECT id, label, is_active FROM spots WHERE id = $1`

	var s shared.SpotSnapshot
	err := q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Label, &s.IsActive)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("spot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find spot by id", err)
	}
	return &s, nil
}

func (r *SpotRepository) SetActive(ctx context.Context, q db.DBTX, label string, active bool) error {
	const query = `UPDATE spots SET is_active = $2 WHERE label = $1`

	tag, err := q.Exec(ctx, query, label, active)
	if err != nil {
		return infra.WrapRepoErr("failed to update spot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("spot not found", nil, infra.KindNotFound)
	}
	return nil
}

// ListWithOccupancy returns all spots with their current occupancy, driving
// the public availability listing.
func (r *SpotRepository) ListWithOccupancy(ctx context.Context, q db.DBTX) ([]shared.SpotStatusRow, error) {
	const query = `
		SELECT sp.label, sp.is_active, se.id IS NOT NULL AS occupied, se.expires_at
		FROM spots sp
		LEFT JOIN sessions se
			ON se.spot_id = sp.id
			AND se.status IN ('approved', 'paid')
			AND (se.expires_at IS NULL OR se.expires_at > now())
		ORDER BY sp.label`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list spots", err)
	}
	defer rows.Close()

	var result []shared.SpotStatusRow
	for rows.Next() {
		var row shared.SpotStatusRow
		if err := rows.Scan(&row.Label, &row.IsActive, &row.Occupied, &row.ExpiresAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan spot row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate spot rows", err)
	}
	return result, nil
}
