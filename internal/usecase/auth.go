package usecase

import (
	"context"
	"log/slog"
	"strings"

	"clinic-parking/internal/infra"
	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/pkg/clock"
	"clinic-parking/internal/pkg/errs"
	"clinic-parking/internal/pkg/jwt"
	"clinic-parking/internal/pkg/password"
)

// Login failures deliberately collapse into one error so the response never
// reveals whether the email exists.
var ErrAuthenticationFailed = errs.New("authentication failed")

type LoginResult struct {
	Token string
	Email string
	Role  string
}

type AuthCommands interface {
	Login(ctx context.Context, email, rawPassword string) (*LoginResult, error)
}

type authUseCaseImpl struct {
	userRepo UserRepository
	jwt      *jwt.Service
	pool     db.Pool
	clock    clock.Clock
}

func NewAuthCommands(userRepo UserRepository, jwtService *jwt.Service, pool db.Pool, clock clock.Clock) AuthCommands {
	return &authUseCaseImpl{
		userRepo: userRepo,
		jwt:      jwtService,
		pool:     pool,
		clock:    clock,
	}
}

func (u *authUseCaseImpl) Login(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	user, err := u.userRepo.FindByEmail(ctx, u.pool, normalized)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !user.IsActive {
		return nil, ErrAuthenticationFailed
	}
	if !password.Verify(user.PasswordHash, rawPassword) {
		return nil, ErrAuthenticationFailed
	}

	token, err := u.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	// Last-login is bookkeeping; a failure here must not fail the login.
	if err := u.userRepo.UpdateLastLogin(ctx, u.pool, user.ID, u.clock.Now()); err != nil {
		slog.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	return &LoginResult{Token: token, Email: user.Email, Role: user.Role}, nil
}
