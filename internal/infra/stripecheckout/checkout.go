// Package stripecheckout adapts Stripe-hosted checkout sessions to the
// payment ports: creating sessions at check-in or extension time and
// decoding verified webhook events back into checkout intents.
package stripecheckout

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"clinic-parking/internal/pkg/config"
	"clinic-parking/internal/pkg/errs"
	"clinic-parking/internal/usecase"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var ErrCheckoutCreateFailed = errs.New("failed to create checkout session")

type Provider struct {
	api     *client.API
	baseURL string
}

func NewProvider(cfg config.StripeConfig, baseURL string) *Provider {
	api := &client.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{
		API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			HTTPClient: &http.Client{Timeout: cfg.Timeout},
		}),
	})
	return &Provider{api: api, baseURL: baseURL}
}

func (p *Provider) CreateCheckinCheckout(ctx context.Context, params usecase.CheckinCheckoutParams) (*usecase.Checkout, error) {
	sessionParams := p.sessionParams(
		fmt.Sprintf("Parking spot %s (%dh)", params.SpotLabel, params.Hours),
		params.AmountCents,
	)
	sessionParams.AddMetadata("type", "checkin")
	sessionParams.AddMetadata("plate", params.Plate)
	sessionParams.AddMetadata("spotLabel", params.SpotLabel)
	sessionParams.AddMetadata("hours", strconv.Itoa(params.Hours))
	sessionParams.AddMetadata("durationMinutes", strconv.Itoa(params.DurationMinutes))

	return p.create(ctx, sessionParams)
}

func (p *Provider) CreateExtensionCheckout(ctx context.Context, params usecase.ExtensionCheckoutParams) (*usecase.Checkout, error) {
	sessionParams := p.sessionParams(
		fmt.Sprintf("Parking extension, spot %s (%dh)", params.SpotLabel, params.Hours),
		params.AmountCents,
	)
	sessionParams.AddMetadata("type", "extension")
	sessionParams.AddMetadata("sessionId", params.SessionID.String())
	sessionParams.AddMetadata("hours", strconv.Itoa(params.Hours))
	sessionParams.SuccessURL = stripe.String(
		fmt.Sprintf("%s/extend/%s?token=%s&paid=1", p.baseURL, params.SessionID, params.Token))
	sessionParams.CancelURL = stripe.String(
		fmt.Sprintf("%s/extend/%s?token=%s", p.baseURL, params.SessionID, params.Token))

	return p.create(ctx, sessionParams)
}

func (p *Provider) sessionParams(description string, amountCents int64) *stripe.CheckoutSessionParams {
	return &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(amountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.baseURL + "/?paid=1"),
		CancelURL:  stripe.String(p.baseURL + "/"),
	}
}

func (p *Provider) create(ctx context.Context, params *stripe.CheckoutSessionParams) (*usecase.Checkout, error) {
	params.Context = ctx
	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "stripe checkout session"), ErrCheckoutCreateFailed)
	}
	return &usecase.Checkout{Ref: s.ID, URL: s.URL}, nil
}
