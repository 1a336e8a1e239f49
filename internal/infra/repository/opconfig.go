package repository

import (
	"context"

	"clinic-parking/internal/infra"
	"clinic-parking/internal/infra/db"
)

type ConfigRepository struct{}

func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{}
}

func (r *ConfigRepository) GetAll(ctx context.Context, q db.DBTX) (map[string]string, error) {
	const query = `SELECT key, value FROM config`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read config", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, infra.WrapRepoErr("failed to scan config row", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate config rows", err)
	}
	return values, nil
}

func (r *ConfigRepository) Set(ctx context.Context, q db.DBTX, key, value string) error {
	const query = `
		INSERT INTO config (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	if _, err := q.Exec(ctx, query, key, value); err != nil {
		return infra.WrapRepoErr("failed to set config value", err)
	}
	return nil
}
