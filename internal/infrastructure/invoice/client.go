package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"dealdesk/internal/config"
	"dealdesk/internal/infrastructure/metrics"
	"dealdesk/internal/utils/platformerrors"
)

// Client triggers invoice generation in the billing service. Generation is
// fire-and-forget from the caller's point of view: the billing side owns
// retries and idempotency on deal_id.
type Client struct {
	httpClient *resty.Client
	log        zerolog.Logger
}

type generateRequest struct {
	DealID string `json:"deal_id"`
}

// NewClient constructs the invoice client, or nil when no billing service
// is configured.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	if cfg.InvoiceAPIURL == "" {
		return nil
	}
	return &Client{
		httpClient: resty.New().
			SetBaseURL(cfg.InvoiceAPIURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(15 * time.Second),
		log: log.With().Str("component", "invoice-client").Logger(),
	}
}

// Generate requests an invoice for a deal.
func (c *Client) Generate(ctx context.Context, dealID string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(generateRequest{DealID: dealID}).
		Post("/v1/invoices")

	if err != nil {
		metrics.RecordInvoiceTrigger("transport_error")
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"billing service unreachable",
			err,
			"invoice-generate-transport-001",
		)
	}

	if resp.IsError() {
		metrics.RecordInvoiceTrigger("provider_error")
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			fmt.Sprintf("billing service rejected invoice request (status %d)", resp.StatusCode()),
			nil,
			"invoice-generate-provider-001",
		)
	}

	metrics.RecordInvoiceTrigger("triggered")
	c.log.Info().Str("deal_id", dealID).Msg("invoice generation triggered")
	return nil
}
