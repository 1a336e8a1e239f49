//go:build unit

package usecase_test

import (
	"context"
	"testing"
	"time"

	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/pkg/jwt"
	"clinic-parking/internal/pkg/password"
	"clinic-parking/internal/usecase"
	"clinic-parking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users      map[string]*shared.UserSnapshot
	lastLogins map[uuid.UUID]time.Time
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[string]*shared.UserSnapshot),
		lastLogins: make(map[uuid.UUID]time.Time),
	}
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, _ db.DBTX, email string) (*shared.UserSnapshot, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, notFoundErr("user not found")
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, _ db.DBTX, id uuid.UUID, at time.Time) error {
	r.lastLogins[id] = at
	return nil
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := password.Hash("correct horse")
	require.NoError(t, err)

	seed := func(active bool) (*fakeUserRepo, usecase.AuthCommands, uuid.UUID) {
		f := newFixture(tuesdayNoon)
		users := newFakeUserRepo()
		id := uuid.New()
		users.users["admin@clinic.example"] = &shared.UserSnapshot{
			ID:           id,
			Email:        "admin@clinic.example",
			PasswordHash: hash,
			Role:         "admin",
			IsActive:     active,
		}
		svc := jwt.NewService("test-jwt-secret", time.Hour)
		return users, usecase.NewAuthCommands(users, svc, f.pool, f.clock), id
	}

	t.Run("valid credentials return a signed token", func(t *testing.T) {
		users, cmd, id := seed(true)

		result, err := cmd.Login(ctx, "admin@clinic.example", "correct horse")
		require.NoError(t, err)

		assert.Equal(t, "admin@clinic.example", result.Email)
		assert.Equal(t, "admin", result.Role)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, tuesdayNoon, users.lastLogins[id])
	})

	t.Run("email lookup is case and whitespace insensitive", func(t *testing.T) {
		_, cmd, _ := seed(true)

		result, err := cmd.Login(ctx, "  Admin@Clinic.Example ", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "admin@clinic.example", result.Email)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		_, cmd, _ := seed(true)

		_, wrongPass := cmd.Login(ctx, "admin@clinic.example", "wrong")
		_, unknownEmail := cmd.Login(ctx, "nobody@clinic.example", "correct horse")

		assert.ErrorIs(t, wrongPass, usecase.ErrAuthenticationFailed)
		assert.ErrorIs(t, unknownEmail, usecase.ErrAuthenticationFailed)
		assert.EqualError(t, wrongPass, unknownEmail.Error())
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		_, cmd, _ := seed(false)

		_, err := cmd.Login(ctx, "admin@clinic.example", "correct horse")
		assert.ErrorIs(t, err, usecase.ErrAuthenticationFailed)
	})
}
