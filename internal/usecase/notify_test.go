//go:build unit

package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"clinic-parking/internal/domain/session"
	"clinic-parking/internal/pkg/config"
	"clinic-parking/internal/pkg/exttoken"
	"clinic-parking/internal/usecase"
	"clinic-parking/internal/usecase/shared"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notifyBaseURL = "https://parking.example.com"

func (f *fixture) notifyCommands(tokens *exttoken.Service) usecase.NotifyCommands {
	cfg := config.NotifyConfig{
		LeadWindowFrom: 10 * time.Minute,
		LeadWindowTo:   15 * time.Minute,
	}
	return usecase.NewNotifyCommands(
		f.sessions, f.notifier, tokens, cfg, notifyBaseURL, f.pool, f.clock, f.loc,
	)
}

// expiringSession seeds a paid session with a reachable owner whose expiry
// lands the given duration from now.
func expiringSession(ctx context.Context, t *testing.T, f *fixture, label, plate string, expiresIn time.Duration) uuid.UUID {
	t.Helper()
	spotID := f.spots.add(label, true)
	phone := "+15551234567"
	v, err := f.vehicles.Upsert(ctx, nil, plate, nil, &phone)
	require.NoError(t, err)
	now := f.clock.Now()
	return f.sessions.add(shared.SessionSnapshot{
		VehicleID: v.ID,
		SpotID:    spotID,
		Status:    session.StatusPaid.String(),
		Origin:    string(session.OriginVisitorPayment),
		StartedAt: now.Add(-time.Hour),
		ExpiresAt: ptrTime(now.Add(expiresIn)),
	})
}

func TestNotifyTick(t *testing.T) {
	ctx := context.Background()
	tokens := exttoken.NewService("test-token-secret")

	t.Run("sends a reminder with the extension link and marks the session", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		id := expiringSession(ctx, t, f, "A1", "ABC123", 12*time.Minute)
		cmd := f.notifyCommands(tokens)

		report, err := cmd.Tick(ctx)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(&usecase.TickReport{Scanned: 1, Sent: 1}, report))

		require.Len(t, f.notifier.sent, 1)
		assert.Equal(t, "+15551234567", f.notifier.sent[0].phone)

		link := fmt.Sprintf("%s/extend/%s?token=%s", notifyBaseURL, id, tokens.Generate(id))
		expected := fmt.Sprintf(
			"Your parking at spot A1 expires at 12:12 PM. Extend here: %s", link)
		assert.Equal(t, expected, f.notifier.sent[0].message)

		assert.NotNil(t, f.sessions.sessions[id].NotifiedAt)
	})

	t.Run("reminder shows the expiry on the lot's wall clock", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		f.loc = time.FixedZone("UTC-5", -5*60*60)
		expiringSession(ctx, t, f, "A1", "ABC123", 12*time.Minute)

		_, err := f.notifyCommands(tokens).Tick(ctx)
		require.NoError(t, err)

		require.Len(t, f.notifier.sent, 1)
		assert.Contains(t, f.notifier.sent[0].message, "expires at 7:12 AM")
	})

	t.Run("marked sessions are not reminded again", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		expiringSession(ctx, t, f, "A1", "ABC123", 12*time.Minute)
		cmd := f.notifyCommands(tokens)

		_, err := cmd.Tick(ctx)
		require.NoError(t, err)

		second, err := cmd.Tick(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, second.Scanned)
		assert.Len(t, f.notifier.sent, 1)
	})

	t.Run("sessions outside the lead window are not scanned", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		expiringSession(ctx, t, f, "A1", "ABC123", 5*time.Minute)
		expiringSession(ctx, t, f, "A2", "DEF456", 30*time.Minute)

		report, err := f.notifyCommands(tokens).Tick(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Scanned)
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("failed dispatch stays unmarked and is retried next tick", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		id := expiringSession(ctx, t, f, "A1", "ABC123", 12*time.Minute)
		f.notifier.failAll = true
		cmd := f.notifyCommands(tokens)

		report, err := cmd.Tick(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Scanned)
		assert.Equal(t, 0, report.Sent)
		assert.Equal(t, 1, report.Failed)
		assert.Nil(t, f.sessions.sessions[id].NotifiedAt)

		f.notifier.failAll = false
		retry, err := cmd.Tick(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, retry.Sent)
		assert.NotNil(t, f.sessions.sessions[id].NotifiedAt)
	})

	t.Run("sessions without a phone on file are skipped", func(t *testing.T) {
		f := newFixture(tuesdayNoon)
		spotID := f.spots.add("A1", true)
		v, err := f.vehicles.EnsureByPlate(ctx, nil, "ABC123")
		require.NoError(t, err)
		f.sessions.add(shared.SessionSnapshot{
			VehicleID: v.ID,
			SpotID:    spotID,
			Status:    session.StatusPaid.String(),
			Origin:    string(session.OriginVisitorPayment),
			StartedAt: tuesdayNoon.Add(-time.Hour),
			ExpiresAt: ptrTime(tuesdayNoon.Add(12 * time.Minute)),
		})

		report, err := f.notifyCommands(tokens).Tick(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Scanned)
		assert.Empty(t, f.notifier.sent)
	})
}
