package gateway

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerRoundTrip(t *testing.T) {
	signer := NewSigner("test-secret")

	sig := signer.Sign("BUS-20260101-120000-ABC123", "pay_001")
	assert.True(t, signer.Verify("BUS-20260101-120000-ABC123", "pay_001", sig))
}

func TestSignerOutputFormat(t *testing.T) {
	signer := NewSigner("test-secret")

	sig := signer.Sign("order", "payment")
	require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), sig)

	// Deterministic for the same inputs.
	assert.Equal(t, sig, signer.Sign("order", "payment"))
}

func TestSignerRejectsTamperedPayload(t *testing.T) {
	signer := NewSigner("test-secret")
	sig := signer.Sign("order-1", "pay-1")

	assert.False(t, signer.Verify("order-2", "pay-1", sig))
	assert.False(t, signer.Verify("order-1", "pay-2", sig))

	tampered := "f"
	if sig[63] == 'f' {
		tampered = "0"
	}
	assert.False(t, signer.Verify("order-1", "pay-1", sig[:63]+tampered))
}

func TestSignerRejectsWrongSecret(t *testing.T) {
	sig := NewSigner("secret-a").Sign("order-1", "pay-1")

	assert.False(t, NewSigner("secret-b").Verify("order-1", "pay-1", sig))
}

func TestSignerFieldSeparation(t *testing.T) {
	signer := NewSigner("test-secret")

	// "ab|c" and "a|bc" must not collide.
	assert.NotEqual(t, signer.Sign("ab", "c"), signer.Sign("a", "bc"))
}
