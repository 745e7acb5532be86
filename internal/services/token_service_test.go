package services

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Al-amen/stock-prediction-portal-backend/internal/models"
)

var testSecret = []byte("test-secret")

func newTestTokenService(verificationTTL, resetTTL time.Duration) TokenService {
	return NewTokenService(testSecret, verificationTTL, resetTTL)
}

func testUser() *models.User {
	return &models.User{
		ID:           42,
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: "$2a$10$somestoredbcrypthashvalue",
	}
}

func TestVerificationToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(24*time.Hour, time.Hour)
	tok, err := svc.IssueVerificationToken(testUser())
	require.NoError(t, err)

	userID, err := svc.ValidateVerificationToken(tok)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestVerificationToken_Expired(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(-time.Second, time.Hour)
	tok, err := svc.IssueVerificationToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateVerificationToken(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerificationToken_TamperedSignature(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(24*time.Hour, time.Hour)
	tok, err := svc.IssueVerificationToken(testUser())
	require.NoError(t, err)

	// flip one character of the signature segment
	flipped := []byte(tok)
	last := flipped[len(flipped)-1]
	if last == 'A' {
		flipped[len(flipped)-1] = 'B'
	} else {
		flipped[len(flipped)-1] = 'A'
	}

	_, err = svc.ValidateVerificationToken(string(flipped))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerificationToken_TamperedSubject(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(24*time.Hour, time.Hour)
	tok, err := svc.IssueVerificationToken(testUser())
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	payload = bytes.Replace(payload, []byte(`"user_id":42`), []byte(`"user_id":43`), 1)
	parts[1] = base64.RawURLEncoding.EncodeToString(payload)

	_, err = svc.ValidateVerificationToken(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerificationToken_WrongPurpose(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(24*time.Hour, time.Hour)

	// correctly signed token without the email_verification claim
	claims := jwt.MapClaims{
		"user_id": 42,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = svc.ValidateVerificationToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerificationToken_WrongPurposeBeatsExpiry(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(24*time.Hour, time.Hour)

	// expired AND without the purpose claim: the purpose check runs first
	claims := jwt.MapClaims{
		"user_id": 42,
		"iat":     time.Now().Add(-2 * time.Hour).Unix(),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = svc.ValidateVerificationToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerificationToken_MissingExpiry(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(24*time.Hour, time.Hour)

	// correctly signed and purposed, but structurally incomplete: no exp
	claims := jwt.MapClaims{
		"user_id":            42,
		"email_verification": true,
		"iat":                time.Now().Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = svc.ValidateVerificationToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerificationToken_Garbage(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(24*time.Hour, time.Hour)
	_, err := svc.ValidateVerificationToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(24*time.Hour, time.Hour)
	user := testUser()

	uidb64, tok := svc.IssuePasswordResetToken(user)

	id, err := DecodeUID(uidb64)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	assert.NoError(t, svc.CheckPasswordResetToken(user, tok))
}

func TestResetToken_InvalidatedByPasswordChange(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(24*time.Hour, time.Hour)
	user := testUser()
	_, tok := svc.IssuePasswordResetToken(user)

	// the stored hash changes, so the fingerprint in the MAC no longer
	// matches
	user.PasswordHash = "$2a$10$anentirelydifferenthash"
	assert.ErrorIs(t, svc.CheckPasswordResetToken(user, tok), ErrInvalidToken)
}

func TestResetToken_Expired(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(24*time.Hour, -time.Second)
	user := testUser()
	_, tok := svc.IssuePasswordResetToken(user)

	assert.ErrorIs(t, svc.CheckPasswordResetToken(user, tok), ErrExpiredToken)
}

func TestResetToken_Tampered(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(24*time.Hour, time.Hour)
	user := testUser()
	_, tok := svc.IssuePasswordResetToken(user)

	for _, bad := range []string{
		tok + "a",
		tok[:len(tok)-1],
		"zzzz-" + strings.SplitN(tok, "-", 2)[1],
		"no-dash-at-all",
		"",
		"-",
	} {
		assert.ErrorIs(t, svc.CheckPasswordResetToken(user, bad), ErrInvalidToken, "token %q", bad)
	}
}

func TestDecodeUID_Bad(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"", "!!!", base64.RawURLEncoding.EncodeToString([]byte("abc")), base64.RawURLEncoding.EncodeToString([]byte("-1"))} {
		_, err := DecodeUID(bad)
		assert.ErrorIs(t, err, ErrInvalidToken, "uid %q", bad)
	}
}
