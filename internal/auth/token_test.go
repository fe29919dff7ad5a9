package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", "expense-tracker-api", time.Hour)

	token, err := tm.Generate("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", "expense-tracker-api", -time.Minute)

	token, err := tm.Generate("user-123")
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenTamperedSignature(t *testing.T) {
	tm := NewTokenManager("test-secret", "expense-tracker-api", time.Hour)

	token, err := tm.Generate("user-123")
	require.NoError(t, err)

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'a' {
		sig[0] = 'b'
	} else {
		sig[0] = 'a'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tm.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-one", "expense-tracker-api", time.Hour)
	verifier := NewTokenManager("secret-two", "expense-tracker-api", time.Hour)

	token, err := issuer.Generate("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenWrongIssuer(t *testing.T) {
	issuer := NewTokenManager("test-secret", "some-other-service", time.Hour)
	verifier := NewTokenManager("test-secret", "expense-tracker-api", time.Hour)

	token, err := issuer.Generate("user-123")
	require.NoError(t, err)

	// Same secret is not enough; the issuer claim must match too.
	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenMalformed(t *testing.T) {
	tm := NewTokenManager("test-secret", "expense-tracker-api", time.Hour)

	for _, input := range []string{"", "garbage", "a.b.c"} {
		_, err := tm.Verify(input)
		assert.ErrorIs(t, err, ErrTokenInvalid, "input %q", input)
	}
}
