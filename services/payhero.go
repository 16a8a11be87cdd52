// services/payhero.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"github.com/beratech/payhero-backend/config"
	"github.com/beratech/payhero-backend/models"
)

// ErrGatewayUnreachable indicates a transport-level failure talking to the
// payment provider. It is never retried.
var ErrGatewayUnreachable = errors.New("payment gateway unreachable")

const mpesaProvider = "m-pesa"

// PayHeroClient forwards STK push requests to the PayHero gateway. One
// outbound HTTP call per invocation, no retries.
type PayHeroClient struct {
	http      *resty.Client
	baseURL   string
	channelID string
	callback  string
}

// NewPayHeroClient creates a gateway client from configuration.
func NewPayHeroClient(cfg *config.Config) *PayHeroClient {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(0). // no automatic retries, failures propagate to the handler
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", cfg.PayHeroAuthToken)

	return &PayHeroClient{
		http:      client,
		baseURL:   cfg.PayHeroBaseURL,
		channelID: cfg.PayHeroChannelID,
		callback:  cfg.CallbackURL,
	}
}

// GatewayResult is the raw outcome of one upstream call, before
// normalization.
type GatewayResult struct {
	StatusCode int
	Body       []byte
	Reference  string
}

// newExternalReference derives a per-call reference from the current time.
// Uniqueness holds at millisecond granularity, which matches the gateway's
// duplicate-detection needs for a single-process deployment.
func newExternalReference() string {
	return fmt.Sprintf("BT-TX-%d", time.Now().UnixMilli())
}

// InitiateSTKPush sends one validated payment request upstream and returns
// the raw gateway status code and body. Transport failures are wrapped in
// ErrGatewayUnreachable. The result is non-nil even on failure so the
// external reference of the attempt can still be audited.
func (c *PayHeroClient) InitiateSTKPush(ctx context.Context, req models.PaymentRequest) (*GatewayResult, error) {
	payload := models.GatewayPayload{
		Amount:            req.Amount,
		PhoneNumber:       req.Phone,
		ChannelID:         c.channelID,
		Provider:          mpesaProvider,
		ExternalReference: newExternalReference(),
		CallbackURL:       c.callback,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.baseURL)
	if err != nil {
		return &GatewayResult{Reference: payload.ExternalReference},
			fmt.Errorf("%w: %v", ErrGatewayUnreachable, err)
	}

	log.WithFields(log.Fields{
		"status_code": resp.StatusCode(),
		"reference":   payload.ExternalReference,
	}).Debug("PayHero raw response: ", resp.String())

	return &GatewayResult{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Reference:  payload.ExternalReference,
	}, nil
}

// Normalize interprets a raw gateway response. A JSON object body yields the
// structured variant; anything else falls back to the raw-text envelope.
// Never an error: the upstream call itself already succeeded at the
// transport level.
func Normalize(statusCode int, body []byte) models.GatewayResponse {
	raw := string(body)

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed == nil {
		return models.GatewayResponse{
			StatusCode: statusCode,
			Parsed:     false,
			RawText:    raw,
		}
	}

	return models.GatewayResponse{
		StatusCode: statusCode,
		Parsed:     true,
		Body:       parsed,
		RawText:    raw,
	}
}
