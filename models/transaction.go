// models/transaction.go
package models

import (
	"time"
)

type TransactionStatus string
type ErrorKind string

const (
	// Transaction statuses as reported by the gateway or assigned locally
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"

	// Error kinds carried in failure envelopes and operator logs
	ErrorKindValidation          ErrorKind = "validation_error"
	ErrorKindGatewayUnreachable  ErrorKind = "gateway_unreachable"
	ErrorKindGatewayRejected     ErrorKind = "gateway_rejected"
	ErrorKindUnparseableResponse ErrorKind = "unparseable_gateway_response"
	ErrorKindPersistenceFailure  ErrorKind = "persistence_failure"
)

// PaymentRequest is a validated, normalized inbound payment request.
// Immutable once produced by the validator.
type PaymentRequest struct {
	Phone  string `json:"phone"`
	Amount int    `json:"amount"`
}

// GatewayPayload is the body sent upstream for one STK push attempt.
// Owned by the gateway client for the duration of a single call.
type GatewayPayload struct {
	Amount            int    `json:"amount"`
	PhoneNumber       string `json:"phone_number"`
	ChannelID         string `json:"channel_id"`
	Provider          string `json:"provider"`
	ExternalReference string `json:"external_reference"`
	CallbackURL       string `json:"callback_url"`
}

// GatewayResponse holds the interpreted upstream response. Exactly one of
// Body or Raw is populated; RawText always keeps the verbatim body for
// logging regardless of which variant won.
type GatewayResponse struct {
	StatusCode int
	Parsed     bool
	Body       map[string]interface{}
	RawText    string
}

// Status returns the gateway-reported status field, or "failed" when the
// response carries none.
func (r *GatewayResponse) Status() string {
	if r.Parsed {
		if s, ok := r.Body["status"].(string); ok && s != "" {
			return s
		}
	}
	return string(TransactionStatusFailed)
}

// Message returns the gateway-reported message field, or a default.
func (r *GatewayResponse) Message() string {
	if r.Parsed {
		if m, ok := r.Body["message"].(string); ok && m != "" {
			return m
		}
	}
	return "No message"
}

// TransactionLogEntry is one append-only audit record. Never mutated or
// deleted once written.
type TransactionLogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"date"`
	Phone     string    `json:"phone"`
	Amount    int       `json:"amount"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Reference string    `json:"reference,omitempty"`
}

// PaymentOutcome is the single response envelope all payment handlers
// return, replacing the divergent shapes of the variant handlers.
type PaymentOutcome struct {
	Success           bool                   `json:"success"`
	Message           string                 `json:"message"`
	Reference         string                 `json:"reference,omitempty"`
	GatewayStatusCode int                    `json:"gateway_status_code,omitempty"`
	Data              map[string]interface{} `json:"data,omitempty"`
	Raw               string                 `json:"raw,omitempty"`
}

// ErrorResponse is the envelope for 4xx/5xx failures.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Kind    ErrorKind `json:"kind,omitempty"`
	Error   string    `json:"error"`
}
