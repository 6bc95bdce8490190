package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"event":"payment.captured"}`)

	sig := SignPayload(body, secret)
	require.NoError(t, VerifySignature(body, sig, secret))
}

func TestVerifySignature_Rejections(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"event":"payment.captured"}`)
	sig := SignPayload(body, secret)

	tests := []struct {
		name   string
		body   []byte
		sig    string
		secret string
	}{
		{"wrong secret", body, sig, "whsec_other"},
		{"tampered body", []byte(`{"event":"payment.failed"}`), sig, secret},
		{"truncated signature", body, sig[:10], secret},
		{"non-hex signature", body, "not-a-hex-string!", secret},
		{"empty signature", body, "", secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignature(tt.body, tt.sig, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}

func TestVerifySignature_CoversExactBytes(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"a":1, "b":2}`)
	reordered := []byte(`{"b":2, "a":1}`)

	sig := SignPayload(body, secret)
	// Semantically equal JSON with different bytes must not verify
	assert.ErrorIs(t, VerifySignature(reordered, sig, secret), ErrInvalidSignature)
}
