package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"dealdesk/internal/config"
	"dealdesk/internal/infrastructure/metrics"
	"dealdesk/internal/utils/platformerrors"
)

// Client sends transactional email through the Resend HTTP API.
type Client struct {
	httpClient *resty.Client
	from       string
	log        zerolog.Logger
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// NewClient constructs the email client from configuration. Returns nil
// when sending is disabled so callers skip dispatch entirely.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	if !cfg.EmailEnabled {
		return nil
	}
	client := resty.New().
		SetBaseURL(cfg.EmailAPIURL).
		SetAuthToken(cfg.EmailAPIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &Client{
		httpClient: client,
		from:       cfg.EmailFrom,
		log:        log.With().Str("component", "email-client").Logger(),
	}
}

// Send delivers one HTML email. Callers treat delivery as best-effort; the
// error is for their logs, not their control flow.
func (c *Client) Send(ctx context.Context, to, subject, html string) error {
	to = strings.TrimSpace(to)
	if to == "" || !strings.Contains(to, "@") {
		metrics.RecordEmailSend("invalid_recipient")
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeValidation,
			"invalid email recipient",
			nil,
			"email-send-recipient-001",
		)
	}

	var result sendResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(sendRequest{
			From:    c.from,
			To:      []string{to},
			Subject: subject,
			HTML:    html,
		}).
		SetResult(&result).
		Post("/emails")

	if err != nil {
		metrics.RecordEmailSend("transport_error")
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"email provider unreachable",
			err,
			"email-send-transport-001",
		)
	}

	if resp.IsError() {
		metrics.RecordEmailSend("provider_error")
		errType := platformerrors.ErrorTypeExternal
		switch resp.StatusCode() {
		case 401, 403:
			errType = platformerrors.ErrorTypeUnauthorized
		case 422:
			errType = platformerrors.ErrorTypeValidation
		}
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			errType,
			fmt.Sprintf("email provider rejected send (status %d)", resp.StatusCode()),
			nil,
			"email-send-provider-001",
		)
	}

	metrics.RecordEmailSend("sent")
	c.log.Debug().Str("message_id", result.ID).Str("subject", subject).Msg("email sent")
	return nil
}
