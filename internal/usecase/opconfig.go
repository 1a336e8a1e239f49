package usecase

import (
	"context"
	"strconv"
	"time"

	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/pkg/errs"
	"clinic-parking/internal/usecase/shared"

	gocache "github.com/patrickmn/go-cache"
)

var ErrConfigLoadFailed = errs.New("failed to load operating config")

const (
	opConfigCacheKey = "opconfig"
	opConfigTTL      = 30 * time.Second
)

// Defaults used when a key is missing from the config table.
var defaultOpConfig = shared.OpConfig{
	RateCents:        200,
	WeekendRateCents: 400,
	DurationMinutes:  60,
	GraceMinutes:     30,
	AccessCode:       "NVPT2025",
}

// OpConfigProvider serves the admin-editable operating parameters as an
// immutable snapshot. Read-mostly, so snapshots are cached briefly; admin
// updates invalidate the cache explicitly.
type OpConfigProvider interface {
	Snapshot(ctx context.Context) (shared.OpConfig, error)
	Update(ctx context.Context, values map[string]string) error
}

type opConfigProviderImpl struct {
	configRepo ConfigRepository
	pool       db.Pool
	cache      *gocache.Cache
}

func NewOpConfigProvider(configRepo ConfigRepository, pool db.Pool) OpConfigProvider {
	return &opConfigProviderImpl{
		configRepo: configRepo,
		pool:       pool,
		cache:      gocache.New(opConfigTTL, 2*opConfigTTL),
	}
}

func (p *opConfigProviderImpl) Snapshot(ctx context.Context) (shared.OpConfig, error) {
	if cached, ok := p.cache.Get(opConfigCacheKey); ok {
		return cached.(shared.OpConfig), nil
	}

	values, err := p.configRepo.GetAll(ctx, p.pool)
	if err != nil {
		return shared.OpConfig{}, errs.Mark(err, ErrConfigLoadFailed)
	}

	cfg := defaultOpConfig
	if v, ok := parseInt64(values["rate_cents"]); ok {
		cfg.RateCents = v
	}
	if v, ok := parseInt64(values["weekend_rate_cents"]); ok {
		cfg.WeekendRateCents = v
	}
	if v, ok := parseInt64(values["duration_minutes"]); ok {
		cfg.DurationMinutes = int(v)
	}
	if v, ok := parseInt64(values["grace_minutes"]); ok {
		cfg.GraceMinutes = int(v)
	}
	if v := values["access_code"]; v != "" {
		cfg.AccessCode = v
	}

	p.cache.SetDefault(opConfigCacheKey, cfg)
	return cfg, nil
}

// Update persists the given keys and drops the cached snapshot so the next
// request observes the new values.
func (p *opConfigProviderImpl) Update(ctx context.Context, values map[string]string) error {
	for key, value := range values {
		if err := p.configRepo.Set(ctx, p.pool, key, value); err != nil {
			return errs.Mark(err, ErrConfigLoadFailed)
		}
	}
	p.cache.Delete(opConfigCacheKey)
	return nil
}

func parseInt64(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
