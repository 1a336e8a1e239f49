//go:build unit

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-parking/internal/domain/session"
	"clinic-parking/internal/infra"
	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/usecase"
	"clinic-parking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ---------------------------------------------------------------------------
// Fake pool and transaction. The fake repositories ignore the query handle,
// so only Begin/Commit/Rollback matter here.
// ---------------------------------------------------------------------------

type fakePool struct{}

func (p *fakePool) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("unexpected direct Exec on fake pool")
}

func (p *fakePool) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("unexpected direct Query on fake pool")
}

func (p *fakePool) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("unexpected direct QueryRow on fake pool")
}

func (p *fakePool) Begin(context.Context) (pgx.Tx, error) {
	return &fakeTx{}, nil
}

var _ db.Pool = (*fakePool)(nil)

type fakeTx struct{ committed bool }

func (t *fakeTx) Begin(context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	return nil
}

func (t *fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}

func (t *fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { panic("not implemented") }

func (t *fakeTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }

func (t *fakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}

func (t *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}

func (t *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("not implemented")
}

func (t *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row { panic("not implemented") }

func (t *fakeTx) Conn() *pgx.Conn { return nil }

func notFoundErr(msg string) error {
	return infra.WrapRepoErr(msg, errors.New("no rows"), infra.KindNotFound)
}

// ---------------------------------------------------------------------------
// In-memory repositories
// ---------------------------------------------------------------------------

type fakeSpotRepo struct {
	spots      map[string]*shared.SpotSnapshot
	statusRows []shared.SpotStatusRow
}

func newFakeSpotRepo() *fakeSpotRepo {
	return &fakeSpotRepo{spots: make(map[string]*shared.SpotSnapshot)}
}

func (r *fakeSpotRepo) add(label string, active bool) uuid.UUID {
	id := uuid.New()
	r.spots[label] = &shared.SpotSnapshot{ID: id, Label: label, IsActive: active}
	return id
}

func (r *fakeSpotRepo) FindByLabel(_ context.Context, _ db.DBTX, label string) (*shared.SpotSnapshot, error) {
	s, ok := r.spots[label]
	if !ok {
		return nil, notFoundErr("spot not found")
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSpotRepo) LockByLabel(ctx context.Context, q db.DBTX, label string) (*shared.SpotSnapshot, error) {
	return r.FindByLabel(ctx, q, label)
}

func (r *fakeSpotRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*shared.SpotSnapshot, error) {
	for _, s := range r.spots {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, notFoundErr("spot not found")
}

func (r *fakeSpotRepo) SetActive(_ context.Context, _ db.DBTX, label string, active bool) error {
	s, ok := r.spots[label]
	if !ok {
		return notFoundErr("spot not found")
	}
	s.IsActive = active
	return nil
}

func (r *fakeSpotRepo) ListWithOccupancy(context.Context, db.DBTX) ([]shared.SpotStatusRow, error) {
	return r.statusRows, nil
}

type fakeVehicleRepo struct {
	vehicles map[string]*shared.VehicleSnapshot
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: make(map[string]*shared.VehicleSnapshot)}
}

func (r *fakeVehicleRepo) Upsert(_ context.Context, _ db.DBTX, plate string, email, phone *string) (*shared.VehicleSnapshot, error) {
	v, ok := r.vehicles[plate]
	if !ok {
		v = &shared.VehicleSnapshot{ID: uuid.New(), Plate: plate}
		r.vehicles[plate] = v
	}
	v.OwnerEmail = email
	v.OwnerPhone = phone
	cp := *v
	return &cp, nil
}

func (r *fakeVehicleRepo) EnsureByPlate(_ context.Context, _ db.DBTX, plate string) (*shared.VehicleSnapshot, error) {
	v, ok := r.vehicles[plate]
	if !ok {
		v = &shared.VehicleSnapshot{ID: uuid.New(), Plate: plate}
		r.vehicles[plate] = v
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	for _, v := range r.vehicles {
		if v.ID == id {
			cp := *v
			return &cp, nil
		}
	}
	return nil, notFoundErr("vehicle not found")
}

func (r *fakeVehicleRepo) FindByPlate(_ context.Context, _ db.DBTX, plate string) (*shared.VehicleSnapshot, error) {
	v, ok := r.vehicles[plate]
	if !ok {
		return nil, notFoundErr("vehicle not found")
	}
	cp := *v
	return &cp, nil
}

type permitWindow struct {
	vehicleID uuid.UUID
	kind      string
	validFrom time.Time
	validTo   time.Time
}

type fakePermitRepo struct {
	permits []permitWindow
}

func (r *fakePermitRepo) HasValid(_ context.Context, _ db.DBTX, vehicleID uuid.UUID, at time.Time) (bool, error) {
	for _, p := range r.permits {
		if p.vehicleID == vehicleID && !at.Before(p.validFrom) && at.Before(p.validTo) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePermitRepo) Create(_ context.Context, _ db.DBTX, vehicleID uuid.UUID, kind string, validFrom, validTo time.Time) (uuid.UUID, error) {
	r.permits = append(r.permits, permitWindow{vehicleID: vehicleID, kind: kind, validFrom: validFrom, validTo: validTo})
	return uuid.New(), nil
}

func (r *fakePermitRepo) List(context.Context, db.DBTX) ([]shared.PermitRow, error) {
	rows := make([]shared.PermitRow, 0, len(r.permits))
	for _, p := range r.permits {
		rows = append(rows, shared.PermitRow{ID: uuid.New(), Kind: p.kind, ValidFrom: p.validFrom, ValidTo: p.validTo})
	}
	return rows, nil
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*shared.SessionSnapshot
	spots    *fakeSpotRepo
	vehicles *fakeVehicleRepo
}

func newFakeSessionRepo(spots *fakeSpotRepo, vehicles *fakeVehicleRepo) *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: make(map[uuid.UUID]*shared.SessionSnapshot),
		spots:    spots,
		vehicles: vehicles,
	}
}

func (r *fakeSessionRepo) add(snap shared.SessionSnapshot) uuid.UUID {
	if snap.ID == uuid.Nil {
		snap.ID = uuid.New()
	}
	cp := snap
	r.sessions[snap.ID] = &cp
	return snap.ID
}

func occupying(s *shared.SessionSnapshot, now time.Time) bool {
	if !session.Status(s.Status).Occupying() {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

func (r *fakeSessionRepo) SpotOccupied(_ context.Context, _ db.DBTX, spotID uuid.UUID, now time.Time) (bool, error) {
	for _, s := range r.sessions {
		if s.SpotID == spotID && occupying(s, now) {
			return true, nil
		}
	}
	return false, nil
}

func appendNote(s *shared.SessionSnapshot, note string) {
	if s.Notes == nil || *s.Notes == "" {
		s.Notes = &note
		return
	}
	joined := *s.Notes + " | " + note
	s.Notes = &joined
}

func (r *fakeSessionRepo) VoidActiveByVehicle(_ context.Context, _ db.DBTX, vehicleID uuid.UUID, now time.Time, note string) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if s.VehicleID == vehicleID && occupying(s, now) {
			s.Status = session.StatusVoid.String()
			appendNote(s, note)
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) VoidStaleBySpot(_ context.Context, _ db.DBTX, spotID uuid.UUID, now time.Time, note string) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if s.SpotID == spotID && session.Status(s.Status).Occupying() &&
			s.ExpiresAt != nil && !s.ExpiresAt.After(now) {
			s.Status = session.StatusVoid.String()
			appendNote(s, note)
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) Create(_ context.Context, _ db.DBTX, s *session.Session) (uuid.UUID, error) {
	snap := &shared.SessionSnapshot{
		ID:        s.ID(),
		VehicleID: s.VehicleID(),
		SpotID:    s.SpotID(),
		Status:    s.Status().String(),
		Origin:    string(s.Origin()),
		StartedAt: s.StartedAt(),
		ExpiresAt: s.ExpiresAt(),
	}
	r.sessions[snap.ID] = snap
	return snap.ID, nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*shared.SessionSnapshot, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, notFoundErr("session not found")
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) UpdateExpiry(_ context.Context, _ db.DBTX, id uuid.UUID, expiresAt time.Time, note string) error {
	s, ok := r.sessions[id]
	if !ok {
		return notFoundErr("session not found")
	}
	cp := expiresAt
	s.ExpiresAt = &cp
	appendNote(s, note)
	return nil
}

func (r *fakeSessionRepo) FindExpiring(_ context.Context, _ db.DBTX, from, to time.Time) ([]shared.ExpiringSession, error) {
	var result []shared.ExpiringSession
	for _, s := range r.sessions {
		if s.Status != session.StatusPaid.String() || s.NotifiedAt != nil || s.ExpiresAt == nil {
			continue
		}
		if s.ExpiresAt.Before(from) || s.ExpiresAt.After(to) {
			continue
		}

		var phone, plateStr, label string
		for _, v := range r.vehicles.vehicles {
			if v.ID == s.VehicleID {
				plateStr = v.Plate
				if v.OwnerPhone != nil {
					phone = *v.OwnerPhone
				}
			}
		}
		if phone == "" {
			continue
		}
		for _, sp := range r.spots.spots {
			if sp.ID == s.SpotID {
				label = sp.Label
			}
		}

		result = append(result, shared.ExpiringSession{
			SessionID: s.ID,
			SpotLabel: label,
			Plate:     plateStr,
			Phone:     phone,
			ExpiresAt: *s.ExpiresAt,
		})
	}
	return result, nil
}

func (r *fakeSessionRepo) MarkNotified(_ context.Context, _ db.DBTX, id uuid.UUID, at time.Time) error {
	s, ok := r.sessions[id]
	if !ok {
		return nil
	}
	if s.NotifiedAt == nil {
		cp := at
		s.NotifiedAt = &cp
	}
	return nil
}

func (r *fakeSessionRepo) ListAdmin(_ context.Context, _ db.DBTX, filter shared.SessionFilter, now time.Time) ([]shared.AdminSessionRow, error) {
	var result []shared.AdminSessionRow
	for _, s := range r.sessions {
		if !session.Status(s.Status).Occupying() {
			continue
		}
		expired := s.ExpiresAt != nil && s.ExpiresAt.Before(now)
		if filter.Status == "expired" && !expired {
			continue
		}
		if filter.Status != "expired" && expired {
			continue
		}

		row := shared.AdminSessionRow{
			ID: s.ID, Status: s.Status, Origin: s.Origin,
			StartedAt: s.StartedAt, ExpiresAt: s.ExpiresAt, Notes: s.Notes,
		}
		for _, v := range r.vehicles.vehicles {
			if v.ID == s.VehicleID {
				row.Plate = v.Plate
				row.OwnerEmail = v.OwnerEmail
				row.OwnerPhone = v.OwnerPhone
			}
		}
		for _, sp := range r.spots.spots {
			if sp.ID == s.SpotID {
				row.SpotLabel = sp.Label
			}
		}
		if filter.PlateQuery != "" && !strings.Contains(row.Plate, filter.PlateQuery) {
			continue
		}
		if filter.SpotLabel != "" && row.SpotLabel != filter.SpotLabel {
			continue
		}
		result = append(result, row)
	}
	return result, nil
}

type paymentRec struct {
	status      string
	amountCents int64
}

type fakePaymentRepo struct {
	payments map[string]*paymentRec
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*paymentRec)}
}

func (r *fakePaymentRepo) Create(_ context.Context, _ db.DBTX, checkoutRef string, amountCents int64) error {
	if _, ok := r.payments[checkoutRef]; ok {
		return infra.WrapRepoErr("duplicate checkout ref", errors.New("unique violation"), infra.KindDuplicateKey)
	}
	r.payments[checkoutRef] = &paymentRec{status: "initiated", amountCents: amountCents}
	return nil
}

func (r *fakePaymentRepo) MarkPaid(_ context.Context, _ db.DBTX, checkoutRef string, _ time.Time) (bool, error) {
	p, ok := r.payments[checkoutRef]
	if !ok || p.status != "initiated" {
		return false, nil
	}
	p.status = "paid"
	return true, nil
}

func (r *fakePaymentRepo) RevenueByDay(context.Context, db.DBTX, time.Time, time.Time) ([]shared.RevenueRow, error) {
	return nil, nil
}

type fakeConfigRepo struct {
	values map[string]string
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{values: map[string]string{
		"rate_cents":         "200",
		"weekend_rate_cents": "400",
		"duration_minutes":   "60",
		"grace_minutes":      "30",
		"access_code":        "NVPT2025",
	}}
}

func (r *fakeConfigRepo) GetAll(context.Context, db.DBTX) (map[string]string, error) {
	cp := make(map[string]string, len(r.values))
	for k, v := range r.values {
		cp[k] = v
	}
	return cp, nil
}

func (r *fakeConfigRepo) Set(_ context.Context, _ db.DBTX, key, value string) error {
	r.values[key] = value
	return nil
}

// ---------------------------------------------------------------------------
// Fake gateways
// ---------------------------------------------------------------------------

type fakeCheckoutProvider struct {
	nextRef           string
	failNext          bool
	lastCheckinParams *usecase.CheckinCheckoutParams
	lastExtParams     *usecase.ExtensionCheckoutParams
}

func (p *fakeCheckoutProvider) ref() string {
	if p.nextRef != "" {
		return p.nextRef
	}
	return "cs_test_" + uuid.NewString()[:8]
}

func (p *fakeCheckoutProvider) CreateCheckinCheckout(_ context.Context, params usecase.CheckinCheckoutParams) (*usecase.Checkout, error) {
	if p.failNext {
		return nil, errors.New("provider down")
	}
	p.lastCheckinParams = &params
	ref := p.ref()
	return &usecase.Checkout{Ref: ref, URL: "https://checkout.example/" + ref}, nil
}

func (p *fakeCheckoutProvider) CreateExtensionCheckout(_ context.Context, params usecase.ExtensionCheckoutParams) (*usecase.Checkout, error) {
	if p.failNext {
		return nil, errors.New("provider down")
	}
	p.lastExtParams = &params
	ref := p.ref()
	return &usecase.Checkout{Ref: ref, URL: "https://checkout.example/" + ref}, nil
}

type sentMessage struct {
	phone   string
	message string
}

type fakeNotifier struct {
	sent    []sentMessage
	failAll bool
}

func (n *fakeNotifier) Send(_ context.Context, phone, message string) error {
	if n.failAll {
		return errors.New("sms gateway down")
	}
	n.sent = append(n.sent, sentMessage{phone: phone, message: message})
	return nil
}
