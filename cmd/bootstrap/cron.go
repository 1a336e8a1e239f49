package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"clinic-parking/internal/pkg/config"
	"clinic-parking/internal/usecase"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

var CronModule = fx.Module("cron",
	fx.Invoke(StartNotifyCron),
)

// StartNotifyCron runs the expiry-reminder sweep on the configured schedule.
// Disabled deployments rely on the HTTP trigger instead.
func StartNotifyCron(lc fx.Lifecycle, cfg config.Config, notify usecase.NotifyCommands) error {
	if !cfg.Notify.CronEnabled {
		slog.Info("notify cron disabled")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.Notify.CronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		report, err := notify.Tick(ctx)
		if err != nil {
			slog.Error("expiry sweep failed", "error", err)
			return
		}
		if report.Scanned > 0 {
			slog.Info("expiry sweep completed",
				"scanned", report.Scanned, "sent", report.Sent, "failed", report.Failed)
		}
	})
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			c.Start()
			slog.Info("notify cron started", "schedule", cfg.Notify.CronSchedule)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopCtx := c.Stop()
			select {
			case <-stopCtx.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}
