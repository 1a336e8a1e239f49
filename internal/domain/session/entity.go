package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotExtendable   = errors.New("session is not extendable")
	ErrExpiredTooLong  = errors.New("session expired outside the grace window")
	ErrInvalidDuration = errors.New("invalid duration")
)

type Session struct {
	id         uuid.UUID
	vehicleID  uuid.UUID
	spotID     uuid.UUID
	status     Status
	origin     Origin
	startedAt  time.Time
	expiresAt  *time.Time
	notes      string
	notifiedAt *time.Time
}

// NewApproved builds a free-access session expiring after the configured
// default duration.
func NewApproved(vehicleID, spotID uuid.UUID, origin Origin, now time.Time, duration time.Duration) (*Session, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	expiresAt := now.Add(duration)
	return &Session{
		id:        uuid.New(),
		vehicleID: vehicleID,
		spotID:    spotID,
		status:    StatusApproved,
		origin:    origin,
		startedAt: now,
		expiresAt: &expiresAt,
	}, nil
}

// NewPaid builds a visitor session at payment-confirmation time, covering
// the purchased duration from confirmation, not from checkout initiation.
func NewPaid(vehicleID, spotID uuid.UUID, now time.Time, duration time.Duration) (*Session, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	expiresAt := now.Add(duration)
	return &Session{
		id:        uuid.New(),
		vehicleID: vehicleID,
		spotID:    spotID,
		status:    StatusPaid,
		origin:    OriginVisitorPayment,
		startedAt: now,
		expiresAt: &expiresAt,
	}, nil
}

func Reconstruct(
	id, vehicleID, spotID uuid.UUID,
	status Status,
	origin Origin,
	startedAt time.Time,
	expiresAt *time.Time,
	notes string,
	notifiedAt *time.Time,
) *Session {
	return &Session{
		id:         id,
		vehicleID:  vehicleID,
		spotID:     spotID,
		status:     status,
		origin:     origin,
		startedAt:  startedAt,
		expiresAt:  expiresAt,
		notes:      notes,
		notifiedAt: notifiedAt,
	}
}

// IsActive is the occupancy predicate: approved or paid, and either
// open-ended or not yet past expires_at.
func (s *Session) IsActive(now time.Time) bool {
	if !s.status.Occupying() {
		return false
	}
	return s.expiresAt == nil || s.expiresAt.After(now)
}

func (s *Session) HasExpired(now time.Time) bool {
	return s.status.Occupying() && s.expiresAt != nil && !s.expiresAt.After(now)
}

// ValidateExtendable enforces the self-service extension preconditions:
// only paid sessions, and an expired one only within the grace window.
func (s *Session) ValidateExtendable(now time.Time, grace time.Duration) error {
	if s.status != StatusPaid {
		return ErrNotExtendable
	}
	if s.expiresAt != nil && s.expiresAt.Before(now.Add(-grace)) {
		return ErrExpiredTooLong
	}
	return nil
}

// ExtendedExpiry advances from max(now, current expiry) so a late webhook
// never appends purchased time to a stale base, and the result never moves
// backward.
func (s *Session) ExtendedExpiry(now time.Time, add time.Duration) time.Time {
	base := now
	if s.expiresAt != nil && s.expiresAt.After(now) {
		base = *s.expiresAt
	}
	return base.Add(add)
}

func (s *Session) ID() uuid.UUID          { return s.id }
func (s *Session) VehicleID() uuid.UUID   { return s.vehicleID }
func (s *Session) SpotID() uuid.UUID      { return s.spotID }
func (s *Session) Status() Status         { return s.status }
func (s *Session) Origin() Origin         { return s.origin }
func (s *Session) StartedAt() time.Time   { return s.startedAt }
func (s *Session) ExpiresAt() *time.Time  { return s.expiresAt }
func (s *Session) Notes() string          { return s.notes }
func (s *Session) NotifiedAt() *time.Time { return s.notifiedAt }
