// validation/validation.go
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/beratech/payhero-backend/models"
)

var (
	// ErrMissingPhone is returned when no phone number was supplied.
	ErrMissingPhone = errors.New("phone number is required")
	// ErrMissingAmount is returned when no amount was supplied.
	ErrMissingAmount = errors.New("amount is required")
	// ErrInvalidPhone is returned when a phone number does not match the
	// expected Kenyan mobile format (2547XXXXXXXX or 2541XXXXXXXX).
	ErrInvalidPhone = errors.New("invalid phone number format, expected 2547XXXXXXXX")
	// ErrInvalidAmount is returned when an amount is not a positive whole number.
	ErrInvalidAmount = errors.New("amount must be a positive whole number")
)

// Country code 254 followed by a Safaricom/Airtel carrier digit and an
// 8-digit subscriber number.
var phonePattern = regexp.MustCompile(`^254[17]\d{8}$`)

// NormalizePhone validates a phone number against the national mobile
// format and returns the trimmed value.
func NormalizePhone(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrMissingPhone
	}
	if !phonePattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, trimmed)
	}
	return trimmed, nil
}

// NormalizeAmount coerces an amount supplied as a JSON number or string
// into a positive integer.
func NormalizeAmount(value interface{}) (int, error) {
	switch v := value.(type) {
	case nil:
		return 0, ErrMissingAmount
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%w: got %v", ErrInvalidAmount, v)
		}
		return checkPositive(int(v))
	case int:
		return checkPositive(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, ErrMissingAmount
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, trimmed)
		}
		return checkPositive(n)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidAmount, value)
	}
}

func checkPositive(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidAmount, n)
	}
	return n, nil
}

// ValidateRequest validates and normalizes a raw phone/amount pair into an
// immutable PaymentRequest. Pure function, no side effects.
func ValidateRequest(phone string, amount interface{}) (models.PaymentRequest, error) {
	normalizedPhone, err := NormalizePhone(phone)
	if err != nil {
		return models.PaymentRequest{}, err
	}
	normalizedAmount, err := NormalizeAmount(amount)
	if err != nil {
		return models.PaymentRequest{}, err
	}
	return models.PaymentRequest{Phone: normalizedPhone, Amount: normalizedAmount}, nil
}
