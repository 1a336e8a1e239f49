package repository

import (
	"context"
	"strconv"
	"time"

	"clinic-parking/internal/domain/session"
	"clinic-parking/internal/infra"
	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/usecase/shared"

	"github.com/google/uuid"
)

type SessionRepository struct{}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// activeCond is the occupancy predicate in SQL form. Kept in one place so
// every occupancy-sensitive query agrees on what "active" means.
const activeCond = `status IN ('approved', 'paid') AND (expires_at IS NULL OR expires_at > $2)`

// SpotOccupied reports whether any session is active for the spot at the
// given instant. Call under LockByLabel to make check-then-claim atomic.
func (r *SessionRepository) SpotOccupied(ctx context.Context, q db.DBTX, spotID uuid.UUID, now time.Time) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM sessions WHERE spot_id = $1 AND ` + activeCond + `)`

	var occupied bool
	if err := q.QueryRow(ctx, query, spotID, now).Scan(&occupied); err != nil {
		return false, infra.WrapRepoErr("failed to check spot occupancy", err)
	}
	return occupied, nil
}

// VoidActiveByVehicle voids every active session of the vehicle, appending
// the audit note. Returns the number of sessions voided.
func (r *SessionRepository) VoidActiveByVehicle(ctx context.Context, q db.DBTX, vehicleID uuid.UUID, now time.Time, note string) (int64, error) {
	const query = `
		UPDATE sessions
		SET status = 'void',
		    notes  = CASE WHEN notes IS NULL OR notes = '' THEN $3 ELSE notes || ' | ' || $3 END
		WHERE vehicle_id = $1 AND ` + activeCond

	tag, err := q.Exec(ctx, query, vehicleID, now, note)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to void sessions for vehicle", err)
	}
	return tag.RowsAffected(), nil
}

// VoidStaleBySpot voids approved/paid sessions still attached to the spot
// whose expiry has passed: the stale occupant being displaced by a new
// vehicle. Active sessions are untouched; those surface as SpotOccupied.
func (r *SessionRepository) VoidStaleBySpot(ctx context.Context, q db.DBTX, spotID uuid.UUID, now time.Time, note string) (int64, error) {
	const query = `
		UPDATE sessions
		SET status = 'void',
		    notes  = CASE WHEN notes IS NULL OR notes = '' THEN $3 ELSE notes || ' | ' || $3 END
		WHERE spot_id = $1
		  AND status IN ('approved', 'paid')
		  AND expires_at IS NOT NULL AND expires_at <= $2`

	tag, err := q.Exec(ctx, query, spotID, now, note)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to void stale sessions for spot", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SessionRepository) Create(ctx context.Context, q db.DBTX, s *session.Session) (uuid.UUID, error) {
	const query = `
		INSERT INTO sessions (id, vehicle_id, spot_id, status, origin, started_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id uuid.UUID
	err := q.QueryRow(ctx, query,
		s.ID(), s.VehicleID(), s.SpotID(), s.Status().String(), string(s.Origin()), s.StartedAt(), s.ExpiresAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create session", err)
	}
	return id, nil
}

func (r *SessionRepository) FindByID(ctx context.Context, q db.DBTX, id uuid.UUID) (*shared.SessionSnapshot, error) {
	const query = `
		SELECT id, vehicle_id, spot_id, status, origin, started_at, expires_at, notes, notified_at
		FROM sessions WHERE id = $1`

	var s shared.SessionSnapshot
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.VehicleID, &s.SpotID, &s.Status, &s.Origin, &s.StartedAt, &s.ExpiresAt, &s.Notes, &s.NotifiedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find session by ID", err)
	}
	return &s, nil
}

// UpdateExpiry moves expires_at and appends the audit note.
func (r *SessionRepository) UpdateExpiry(ctx context.Context, q db.DBTX, id uuid.UUID, expiresAt time.Time, note string) error {
	const query = `
		UPDATE sessions
		SET expires_at = $2,
		    notes      = CASE WHEN notes IS NULL OR notes = '' THEN $3 ELSE notes || ' | ' || $3 END
		WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, expiresAt, note)
	if err != nil {
		return infra.WrapRepoErr("failed to update session expiry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("session not found", nil, infra.KindNotFound)
	}
	return nil
}

// FindExpiring selects paid sessions expiring inside [from, to] that have a
// phone number and no one-shot marker set.
func (r *SessionRepository) FindExpiring(ctx context.Context, q db.DBTX, from, to time.Time) ([]shared.ExpiringSession, error) {
	const query = `
		SELECT se.id, sp.label, v.license_plate, v.owner_phone, se.expires_at
		FROM sessions se
		JOIN spots sp ON sp.id = se.spot_id
		JOIN vehicles v ON v.id = se.vehicle_id
		WHERE se.status = 'paid'
		  AND se.expires_at >= $1 AND se.expires_at <= $2
		  AND se.notified_at IS NULL
		  AND v.owner_phone IS NOT NULL AND v.owner_phone <> ''
		ORDER BY se.expires_at`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find expiring sessions", err)
	}
	defer rows.Close()

	var result []shared.ExpiringSession
	for rows.Next() {
		var e shared.ExpiringSession
		if err := rows.Scan(&e.SessionID, &e.SpotLabel, &e.Plate, &e.Phone, &e.ExpiresAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan expiring session", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate expiring sessions", err)
	}
	return result, nil
}

// MarkNotified sets the one-shot marker. The WHERE guard keeps a racing
// overlapping tick from double-marking (and the caller from double-sending
// on the next tick either way).
func (r *SessionRepository) MarkNotified(ctx context.Context, q db.DBTX, id uuid.UUID, at time.Time) error {
	const query = `UPDATE sessions SET notified_at = $2 WHERE id = $1 AND notified_at IS NULL`

	if _, err := q.Exec(ctx, query, id, at); err != nil {
		return infra.WrapRepoErr("failed to mark session notified", err)
	}
	return nil
}

// ListAdmin returns the joined admin view filtered by status, plate
// substring and spot label.
func (r *SessionRepository) ListAdmin(ctx context.Context, q db.DBTX, filter shared.SessionFilter, now time.Time) ([]shared.AdminSessionRow, error) {
	query := `
		SELECT se.id, se.status, se.origin, se.started_at, se.expires_at, se.notes,
		       v.license_plate, v.owner_email, v.owner_phone, sp.label
		FROM sessions se
		JOIN vehicles v ON v.id = se.vehicle_id
		JOIN spots sp ON sp.id = se.spot_id
		WHERE se.status IN ('approved', 'paid')`

	args := []any{now}
	switch filter.Status {
	case "expired":
		query += ` AND se.expires_at IS NOT NULL AND se.expires_at < $1`
	default:
		query += ` AND (se.expires_at IS NULL OR se.expires_at > $1)`
	}
	if filter.PlateQuery != "" {
		args = append(args, "%"+filter.PlateQuery+"%")
		query += ` AND v.license_plate LIKE $` + strconv.Itoa(len(args))
	}
	if filter.SpotLabel != "" {
		args = append(args, filter.SpotLabel)
		query += ` AND sp.label = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY se.started_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list sessions", err)
	}
	defer rows.Close()

	var result []shared.AdminSessionRow
	for rows.Next() {
		var row shared.AdminSessionRow
		if err := rows.Scan(
			&row.ID, &row.Status, &row.Origin, &row.StartedAt, &row.ExpiresAt, &row.Notes,
			&row.Plate, &row.OwnerEmail, &row.OwnerPhone, &row.SpotLabel,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan session row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate session rows", err)
	}
	return result, nil
}
