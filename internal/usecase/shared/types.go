package shared

import (
	"time"

	"github.com/google/uuid"
)

// Minimal snapshots for command-side reads. Handlers never see these
// directly; they are converted to response DTOs at the boundary.

type SpotSnapshot struct {
	ID       uuid.UUID
	Label    string
	IsActive bool
}

type VehicleSnapshot struct {
	ID         uuid.UUID
	Plate      string
	OwnerEmail *string
	OwnerPhone *string
}

type SessionSnapshot struct {
	ID         uuid.UUID
	VehicleID  uuid.UUID
	SpotID     uuid.UUID
	Status     string
	Origin     string
	StartedAt  time.Time
	ExpiresAt  *time.Time
	Notes      *string
	NotifiedAt *time.Time
}

type UserSnapshot struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}

// ExpiringSession is one row of the notification scheduler's scan, joined
// with the contact data needed to dispatch.
type ExpiringSession struct {
	SessionID uuid.UUID
	SpotLabel string
	Plate     string
	Phone     string
	ExpiresAt time.Time
}

// SessionFilter narrows the admin session listing.
type SessionFilter struct {
	Status     string // "expired" selects lapsed sessions; anything else selects active ones
	PlateQuery string // substring match on the normalized plate
	SpotLabel  string
}

// AdminSessionRow is the joined spot+vehicle+session read model.
type AdminSessionRow struct {
	ID         uuid.UUID
	Status     string
	Origin     string
	StartedAt  time.Time
	ExpiresAt  *time.Time
	Notes      *string
	Plate      string
	OwnerEmail *string
	OwnerPhone *string
	SpotLabel  string
}

type PermitRow struct {
	ID        uuid.UUID
	Plate     string
	Kind      string
	ValidFrom time.Time
	ValidTo   time.Time
	CreatedAt time.Time
}

type RevenueRow struct {
	Day        time.Time
	TotalCents int64
	Payments   int64
}

// SpotStatusRow backs the public availability listing.
type SpotStatusRow struct {
	Label     string
	IsActive  bool
	Occupied  bool
	ExpiresAt *time.Time
}

// OpConfig is the immutable snapshot of admin-editable operating parameters,
// loaded from the config table and passed into request handling so pricing
// decisions stay deterministic.
type OpConfig struct {
	RateCents        int64
	WeekendRateCents int64
	DurationMinutes  int
	GraceMinutes     int
	AccessCode       string
}

func (c OpConfig) DefaultDuration() time.Duration {
	return time.Duration(c.DurationMinutes) * time.Minute
}

func (c OpConfig) Grace() time.Duration {
	return time.Duration(c.GraceMinutes) * time.Minute
}
