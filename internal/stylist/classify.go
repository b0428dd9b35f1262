package stylist

import (
	"errors"
	"strings"
)

// ErrorKind classifies a gateway failure for the degraded-response policy.
type ErrorKind int

const (
	// KindOther is any failure without a dedicated handling policy.
	KindOther ErrorKind = iota
	// KindQuotaExhausted means a rate or usage-credit limit was hit.
	KindQuotaExhausted
)

// Classify decides whether a gateway failure is quota exhaustion. Match
// rules, in order: a wrapped GatewayError with HTTP status 429 or the
// RESOURCE_EXHAUSTED status marker, then a "429" or "RESOURCE_EXHAUSTED"
// substring anywhere in the error text.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindOther
	}

	var gerr *GatewayError
	if errors.As(err, &gerr) {
		if gerr.StatusCode == 429 || gerr.Status == "RESOURCE_EXHAUSTED" {
			return KindQuotaExhausted
		}
	}

	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED") {
		return KindQuotaExhausted
	}

	return KindOther
}
