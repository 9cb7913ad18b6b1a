package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testSecret = []byte("test-secret")

func TestSignVerify_RoundTrip(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tok := Token{UserID: 42, Timestamp: now.Unix()}
	raw := Sign(testSecret, tok)

	userID, err := Verify(testSecret, raw, 24*time.Hour, now)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestVerify_MissingToken(t *testing.T) {
	_, err := Verify(testSecret, "", 24*time.Hour, time.Now())
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestVerify_MalformedToken(t *testing.T) {
	_, err := Verify(testSecret, "not-a-token", 24*time.Hour, time.Now())
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestVerify_BadSignature(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	raw := Sign([]byte("other-secret"), Token{UserID: 1, Timestamp: now.Unix()})
	_, err := Verify(testSecret, raw, 24*time.Hour, now)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerify_ExpiredToken(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	raw := Sign(testSecret, Token{UserID: 1, Timestamp: now.Add(-25 * time.Hour).Unix()})
	_, err := Verify(testSecret, raw, 24*time.Hour, now)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_FutureTokenBeyondWindowRejected(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	raw := Sign(testSecret, Token{UserID: 1, Timestamp: now.Add(25 * time.Hour).Unix()})
	_, err := Verify(testSecret, raw, 24*time.Hour, now)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_TamperedUserIDBreaksSignature(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	raw := Sign(testSecret, Token{UserID: 1, Timestamp: now.Unix()})
	tampered := "user_id=2" + raw[len("user_id=1"):]
	_, err := Verify(testSecret, tampered, 24*time.Hour, now)
	assert.ErrorIs(t, err, ErrBadSignature)
}
