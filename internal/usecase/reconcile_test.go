//go:build unit

package usecase_test

import (
	"context"
	"testing"
	"time"

	"clinic-parking/internal/domain/session"
	"clinic-parking/internal/usecase"
	"clinic-parking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) reconcileCommands() usecase.ReconcileCommands {
	return usecase.NewReconcileCommands(
		f.spots, f.vehicles, f.sessions, f.payments, f.pool, f.clock,
	)
}

// initiatedPayment records a checkout the way the check-in flow would have,
// so reconciliation finds an initiated row to latch on.
func (f *fixture) initiatedPayment(t *testing.T, ref string, amountCents int64) {
	t.Helper()
	require.NoError(t, f.payments.Create(context.Background(), nil, ref, amountCents))
}

func TestReconcileCheckin(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed payment creates a paid session", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		f.spots.add("A1", true)
		_, err := f.vehicles.EnsureByPlate(ctx, nil, "ABC123")
		require.NoError(t, err)
		f.initiatedPayment(t, "cs_1", 400)

		result, err := f.reconcileCommands().Reconcile(ctx, "cs_1", usecase.CheckinIntent{
			Plate: "ABC123", SpotLabel: "A1", DurationMinutes: 120,
		})
		require.NoError(t, err)
		assert.Equal(t, usecase.OutcomeSessionCreated, result.Outcome)

		active := f.activeSessions()
		require.Len(t, active, 1)
		assert.Equal(t, session.StatusPaid.String(), active[0].Status)
		assert.Equal(t, string(session.OriginVisitorPayment), active[0].Origin)
		require.NotNil(t, active[0].ExpiresAt)
		assert.Equal(t, tuesdayNoon.Add(2*time.Hour), *active[0].ExpiresAt)
		assert.Equal(t, "paid", f.payments.payments["cs_1"].status)
	})

	t.Run("redelivered event is acknowledged without a second session", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		f.spots.add("A1", true)
		_, err := f.vehicles.EnsureByPlate(ctx, nil, "ABC123")
		require.NoError(t, err)
		f.initiatedPayment(t, "cs_1", 400)

		intent := usecase.CheckinIntent{Plate: "ABC123", SpotLabel: "A1", DurationMinutes: 120}
		cmd := f.reconcileCommands()

		first, err := cmd.Reconcile(ctx, "cs_1", intent)
		require.NoError(t, err)
		assert.Equal(t, usecase.OutcomeSessionCreated, first.Outcome)

		second, err := cmd.Reconcile(ctx, "cs_1", intent)
		require.NoError(t, err)
		assert.Equal(t, usecase.OutcomeReplayed, second.Outcome)
		assert.Len(t, f.activeSessions(), 1)
	})

	t.Run("checkout we never recorded is acknowledged with no effects", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		f.spots.add("A1", true)

		result, err := f.reconcileCommands().Reconcile(ctx, "cs_unknown", usecase.CheckinIntent{
			Plate: "ABC123", SpotLabel: "A1", DurationMinutes: 120,
		})
		require.NoError(t, err)
		assert.Equal(t, usecase.OutcomeReplayed, result.Outcome)
		assert.Empty(t, f.activeSessions())
	})

	t.Run("spot taken between checkout and confirmation is skipped", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		spotID := f.spots.add("A1", true)
		_, err := f.vehicles.EnsureByPlate(ctx, nil, "ABC123")
		require.NoError(t, err)
		f.sessions.add(shared.SessionSnapshot{
			VehicleID: uuid.New(),
			SpotID:    spotID,
			Status:    session.StatusApproved.String(),
			Origin:    string(session.OriginAccessCode),
			StartedAt: tuesdayNoon,
			ExpiresAt: ptrTime(tuesdayNoon.Add(time.Hour)),
		})
		f.initiatedPayment(t, "cs_1", 400)

		result, err := f.reconcileCommands().Reconcile(ctx, "cs_1", usecase.CheckinIntent{
			Plate: "ABC123", SpotLabel: "A1", DurationMinutes: 120,
		})
		require.NoError(t, err)
		assert.Equal(t, usecase.OutcomeSkipped, result.Outcome)

		// The payment stays latched: a later redelivery must not retry the claim
		assert.Equal(t, "paid", f.payments.payments["cs_1"].status)
		assert.Len(t, f.activeSessions(), 1)
	})

	t.Run("unknown spot at confirmation is skipped", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		f.initiatedPayment(t, "cs_1", 400)

		result, err := f.reconcileCommands().Reconcile(ctx, "cs_1", usecase.CheckinIntent{
			Plate: "ABC123", SpotLabel: "Z9", DurationMinutes: 120,
		})
		require.NoError(t, err)
		assert.Equal(t, usecase.OutcomeSkipped, result.Outcome)
	})
}

func TestReconcileExtension(t *testing.T) {
	ctx := context.Background()

	paidSession := func(f *fixture, expiresAt time.Time) uuid.UUID {
		spotID := f.spots.add("A1", true)
		return f.sessions.add(shared.SessionSnapshot{
			VehicleID: uuid.New(),
			SpotID:    spotID,
			Status:    session.StatusPaid.String(),
			Origin:    string(session.OriginVisitorPayment),
			StartedAt: expiresAt.Add(-2 * time.Hour),
			ExpiresAt: ptrTime(expiresAt),
		})
	}

	t.Run("extension pushes expiry out from the current expiry", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		id := paidSession(f, tuesdayNoon.Add(30*time.Minute))
		f.initiatedPayment(t, "cs_ext", 200)

		result, err := f.reconcileCommands().Reconcile(ctx, "cs_ext", usecase.ExtensionIntent{
			SessionID: id, Hours: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, usecase.OutcomeSessionExtended, result.Outcome)

		s := f.sessions.sessions[id]
		assert.Equal(t, tuesdayNoon.Add(90*time.Minute), *s.ExpiresAt)
		require.NotNil(t, s.Notes)
		assert.Contains(t, *s.Notes, "extended by 1h")
	})

	t.Run("extension of an already-lapsed session counts from now", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		id := paidSession(f, tuesdayNoon.Add(-10*time.Minute))
		f.initiatedPayment(t, "cs_ext", 200)

		result, err := f.reconcileCommands().Reconcile(ctx, "cs_ext", usecase.ExtensionIntent{
			SessionID: id, Hours: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, usecase.OutcomeSessionExtended, result.Outcome)
		assert.Equal(t, tuesdayNoon.Add(2*time.Hour), *f.sessions.sessions[id].ExpiresAt)
	})

	t.Run("redelivered extension applies once", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		id := paidSession(f, tuesdayNoon.Add(30*time.Minute))
		f.initiatedPayment(t, "cs_ext", 200)

		intent := usecase.ExtensionIntent{SessionID: id, Hours: 1}
		cmd := f.reconcileCommands()

		_, err := cmd.Reconcile(ctx, "cs_ext", intent)
		require.NoError(t, err)
		second, err := cmd.Reconcile(ctx, "cs_ext", intent)
		require.NoError(t, err)

		assert.Equal(t, usecase.OutcomeReplayed, second.Outcome)
		assert.Equal(t, tuesdayNoon.Add(90*time.Minute), *f.sessions.sessions[id].ExpiresAt)
	})

	t.Run("extension for a missing session is skipped", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		f.initiatedPayment(t, "cs_ext", 200)

		result, err := f.reconcileCommands().Reconcile(ctx, "cs_ext", usecase.ExtensionIntent{
			SessionID: uuid.New(), Hours: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, usecase.OutcomeSkipped, result.Outcome)
	})

	t.Run("extension for a voided session is skipped", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		id := paidSession(f, tuesdayNoon.Add(30*time.Minute))
		f.sessions.sessions[id].Status = session.StatusVoid.String()
		f.initiatedPayment(t, "cs_ext", 200)

		result, err := f.reconcileCommands().Reconcile(ctx, "cs_ext", usecase.ExtensionIntent{
			SessionID: id, Hours: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, usecase.OutcomeSkipped, result.Outcome)
	})
}
