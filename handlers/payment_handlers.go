// handlers/payment_handlers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/beratech/payhero-backend/models"
	"github.com/beratech/payhero-backend/services"
	"github.com/beratech/payhero-backend/validation"
)

// stkPushRequest accepts both field spellings the old handler variants used.
type stkPushRequest struct {
	Phone       string      `json:"phone"`
	PhoneNumber string      `json:"phone_number"`
	Amount      interface{} `json:"amount"`
}

func (r *stkPushRequest) phone() string {
	if r.Phone != "" {
		return r.Phone
	}
	return r.PhoneNumber
}

// decodeSTKPushRequest reads a payment request from a JSON or form body.
func decodeSTKPushRequest(r *http.Request) (*stkPushRequest, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var req stkPushRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, errors.New("invalid request body")
		}
		return &req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, errors.New("invalid form body")
	}
	req := &stkPushRequest{
		Phone:       r.PostFormValue("phone"),
		PhoneNumber: r.PostFormValue("phone_number"),
	}
	if amount := r.PostFormValue("amount"); amount != "" {
		req.Amount = amount
	}
	return req, nil
}

// HandleSTKPush validates a payment request, forwards it to the gateway,
// records the outcome, and responds with the canonical outcome envelope.
// Both gateway success and gateway failure are logged; a log-write failure
// after a completed gateway call is reported to the operator only and never
// hides the gateway outcome from the caller.
func (h *Handlers) HandleSTKPush(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeSTKPushRequest(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, models.ErrorKindValidation, err.Error())
		return
	}

	req, err := validation.ValidateRequest(raw.phone(), raw.Amount)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, models.ErrorKindValidation, err.Error())
		return
	}

	result, err := h.gateway.InitiateSTKPush(r.Context(), req)
	if err != nil {
		log.WithFields(log.Fields{
			"phone":     req.Phone,
			"amount":    req.Amount,
			"reference": result.Reference,
		}).Error("STK push failed: ", err)

		h.appendEntry(r, models.TransactionLogEntry{
			Timestamp: time.Now().UTC(),
			Phone:     req.Phone,
			Amount:    req.Amount,
			Status:    string(models.TransactionStatusFailed),
			Message:   "Gateway unreachable",
			Reference: result.Reference,
		})

		respondWithError(w, http.StatusInternalServerError, models.ErrorKindGatewayUnreachable, "STK push failed")
		return
	}

	resp := services.Normalize(result.StatusCode, result.Body)
	entry := models.TransactionLogEntry{
		Timestamp: time.Now().UTC(),
		Phone:     req.Phone,
		Amount:    req.Amount,
		Status:    resp.Status(),
		Message:   resp.Message(),
		Reference: result.Reference,
	}
	if !resp.Parsed {
		// Keep the verbatim gateway body in the audit trail.
		entry.Message = resp.RawText
	}

	h.appendEntry(r, entry)

	respondWithJSON(w, http.StatusOK, buildOutcome(resp, result.Reference))
}

// buildOutcome maps a normalized gateway response to the response envelope.
func buildOutcome(resp models.GatewayResponse, reference string) models.PaymentOutcome {
	if !resp.Parsed {
		// The gateway answered but the body is not JSON. Not treated as an
		// error; the caller gets the text verbatim.
		return models.PaymentOutcome{
			Success:           resp.StatusCode < http.StatusBadRequest,
			Message:           "Gateway response could not be interpreted",
			Reference:         reference,
			GatewayStatusCode: resp.StatusCode,
			Raw:               resp.RawText,
		}
	}

	if resp.Status() == string(models.TransactionStatusSuccess) {
		return models.PaymentOutcome{
			Success:           true,
			Message:           "STK push sent. Check your phone to complete payment.",
			Reference:         reference,
			GatewayStatusCode: resp.StatusCode,
			Data:              resp.Body,
		}
	}

	return models.PaymentOutcome{
		Success:           false,
		Message:           resp.Message(),
		Reference:         reference,
		GatewayStatusCode: resp.StatusCode,
		Data:              resp.Body,
	}
}

// appendEntry records one transaction outcome. Failures are operator-facing
// diagnostics only.
func (h *Handlers) appendEntry(r *http.Request, entry models.TransactionLogEntry) {
	if err := h.Store.Append(r.Context(), entry); err != nil {
		log.WithFields(log.Fields{
			"kind":      models.ErrorKindPersistenceFailure,
			"phone":     entry.Phone,
			"amount":    entry.Amount,
			"reference": entry.Reference,
		}).Error("Failed to append transaction log entry: ", err)
	}
}
