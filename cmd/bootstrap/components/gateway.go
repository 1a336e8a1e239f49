package components

import (
	"clinic-parking/internal/infra/sms"
	"clinic-parking/internal/infra/stripecheckout"
	"clinic-parking/internal/pkg/config"
	"clinic-parking/internal/pkg/exttoken"
	"clinic-parking/internal/usecase"

	"go.uber.org/fx"
)

// GatewayModule wires the outbound adapters: the payment provider, the SMS
// notifier, and the extension-token signer.
var GatewayModule = fx.Module("gateway",
	fx.Provide(
		func(cfg config.Config) *exttoken.Service {
			return exttoken.NewService(cfg.Notify.TokenSecret)
		},
		fx.Annotate(
			func(cfg config.Config) *stripecheckout.Provider {
				return stripecheckout.NewProvider(cfg.Stripe, cfg.Server.BaseURL)
			},
			fx.As(new(usecase.CheckoutProvider)),
		),
		func(cfg config.Config) *stripecheckout.WebhookDecoder {
			return stripecheckout.NewWebhookDecoder(cfg.Stripe.WebhookSecret)
		},
		fx.Annotate(
			func(cfg config.Config) *sms.Notifier {
				return sms.NewNotifier(cfg.Twilio)
			},
			fx.As(new(usecase.Notifier)),
		),
	),
)
