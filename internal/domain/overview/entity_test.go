package overview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferReason(t *testing.T) {
	// Explicit value wins over notes.
	assert.Equal(t, ReasonCustomerRequest, InferReason("customer_request", "payment bounced"))

	// Notes heuristics: payment before request.
	assert.Equal(t, ReasonPaymentFailed, InferReason("", "Payment overdue for months"))
	assert.Equal(t, ReasonCustomerRequest, InferReason("", "closed on subscriber request"))
	assert.Equal(t, ReasonPaymentFailed, InferReason("", "payment failure after request"))

	// Default.
	assert.Equal(t, ReasonServiceEnded, InferReason("", ""))
	assert.Equal(t, ReasonServiceEnded, InferReason("something else", "no keywords here"))
}
