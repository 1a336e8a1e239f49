package usecase

import (
	"context"
	"time"

	"clinic-parking/internal/domain/session"
	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/usecase/shared"

	"github.com/google/uuid"
)

// Persistence ports. Implementations live in infra/repository; every method
// takes the query surface so the usecase chooses the transaction boundary.

type SpotRepository interface {
	FindByLabel(ctx context.Context, q db.DBTX, label string) (*shared.SpotSnapshot, error)
	FindByID(ctx context.Context, q db.DBTX, id uuid.UUID) (*shared.SpotSnapshot, error)
	LockByLabel(ctx context.Context, q db.DBTX, label string) (*shared.SpotSnapshot, error)
	SetActive(ctx context.Context, q db.DBTX, label string, active bool) error
	ListWithOccupancy(ctx context.Context, q db.DBTX) ([]shared.SpotStatusRow, error)
}

type VehicleRepository interface {
	Upsert(ctx context.Context, q db.DBTX, plate string, email, phone *string) (*shared.VehicleSnapshot, error)
	EnsureByPlate(ctx context.Context, q db.DBTX, plate string) (*shared.VehicleSnapshot, error)
	FindByID(ctx context.Context, q db.DBTX, id uuid.UUID) (*shared.VehicleSnapshot, error)
	FindByPlate(ctx context.Context, q db.DBTX, plate string) (*shared.VehicleSnapshot, error)
}

type PermitRepository interface {
	HasValid(ctx context.Context, q db.DBTX, vehicleID uuid.UUID, at time.Time) (bool, error)
	Create(ctx context.Context, q db.DBTX, vehicleID uuid.UUID, kind string, validFrom, validTo time.Time) (uuid.UUID, error)
	List(ctx context.Context, q db.DBTX) ([]shared.PermitRow, error)
}

type SessionRepository interface {
	SpotOccupied(ctx context.Context, q db.DBTX, spotID uuid.UUID, now time.Time) (bool, error)
	VoidActiveByVehicle(ctx context.Context, q db.DBTX, vehicleID uuid.UUID, now time.Time, note string) (int64, error)
	VoidStaleBySpot(ctx context.Context, q db.DBTX, spotID uuid.UUID, now time.Time, note string) (int64, error)
	Create(ctx context.Context, q db.DBTX, s *session.Session) (uuid.UUID, error)
	FindByID(ctx context.Context, q db.DBTX, id uuid.UUID) (*shared.SessionSnapshot, error)
	UpdateExpiry(ctx context.Context, q db.DBTX, id uuid.UUID, expiresAt time.Time, note string) error
	FindExpiring(ctx context.Context, q db.DBTX, from, to time.Time) ([]shared.ExpiringSession, error)
	MarkNotified(ctx context.Context, q db.DBTX, id uuid.UUID, at time.Time) error
	ListAdmin(ctx context.Context, q db.DBTX, filter shared.SessionFilter, now time.Time) ([]shared.AdminSessionRow, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, q db.DBTX, checkoutRef string, amountCents int64) error
	MarkPaid(ctx context.Context, q db.DBTX, checkoutRef string, paidAt time.Time) (bool, error)
	RevenueByDay(ctx context.Context, q db.DBTX, from, to time.Time) ([]shared.RevenueRow, error)
}

type ConfigRepository interface {
	GetAll(ctx context.Context, q db.DBTX) (map[string]string, error)
	Set(ctx context.Context, q db.DBTX, key, value string) error
}

type UserRepository interface {
	FindByEmail(ctx context.Context, q db.DBTX, email string) (*shared.UserSnapshot, error)
	UpdateLastLogin(ctx context.Context, q db.DBTX, id uuid.UUID, at time.Time) error
}

// Checkout is the handle returned by the payment provider: the reference is
// the reconciliation idempotency key, the URL is where the caller is sent.
type Checkout struct {
	Ref string
	URL string
}

type CheckinCheckoutParams struct {
	Plate           string
	SpotLabel       string
	Hours           int
	DurationMinutes int
	AmountCents     int64
}

type ExtensionCheckoutParams struct {
	SessionID   uuid.UUID
	SpotLabel   string
	Hours       int
	Token       string
	AmountCents int64
}

// CheckoutProvider creates provider-hosted checkouts. Implementations must
// bound the call with a timeout.
type CheckoutProvider interface {
	CreateCheckinCheckout(ctx context.Context, p CheckinCheckoutParams) (*Checkout, error)
	CreateExtensionCheckout(ctx context.Context, p ExtensionCheckoutParams) (*Checkout, error)
}

// CheckoutIntent is the closed set of things a confirmed checkout can mean.
// The webhook boundary decodes provider metadata into exactly one of these;
// reconciliation branches on the variant, never on raw metadata keys.
type CheckoutIntent interface {
	checkoutIntent()
}

type CheckinIntent struct {
	Plate           string
	SpotLabel       string
	DurationMinutes int
}

type ExtensionIntent struct {
	SessionID uuid.UUID
	Hours     int
}

func (CheckinIntent) checkoutIntent()   {}
func (ExtensionIntent) checkoutIntent() {}

// Notifier dispatches a reminder to a phone number. Implementations must be
// bounded by a timeout; an error counts as a failed dispatch for this tick.
type Notifier interface {
	Send(ctx context.Context, phone, message string) error
}
