package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature recomputes the HMAC-SHA256 of the exact raw payload
// bytes and compares in constant time. The hex decode step means a
// malformed header can never pass.
func VerifySignature(rawBody []byte, signatureHeader, secret string) error {
	provided, err := hex.DecodeString(signatureHeader)
	if err != nil {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := mac.Sum(nil)

	if !hmac.Equal(provided, expected) {
		return ErrInvalidSignature
	}
	return nil
}

// SignPayload computes the hex HMAC-SHA256 of a payload, used by tests
// and by outbound request signing
func SignPayload(rawBody []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}
