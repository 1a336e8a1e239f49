package repository

import (
	"context"
	"time"

	"clinic-parking/internal/infra"
	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/usecase/shared"

	"github.com/google/uuid"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) FindByEmail(ctx context.Context, q db.DBTX, email string) (*shared.UserSnapshot, error) {
	const query = `SELECT id, email, password_hash, role, is_active FROM users WHERE email = $1`

	var u shared.UserSnapshot
	err := q.QueryRow(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by email", err)
	}
	return &u, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, q db.DBTX, id uuid.UUID, at time.Time) error {
	const query = `UPDATE users SET last_login = $2 WHERE id = $1`

	if _, err := q.Exec(ctx, query, id, at); err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	return nil
}
