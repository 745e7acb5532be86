package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Al-amen/stock-prediction-portal-backend/internal/models"
)

// TokenService mints and validates the two kinds of single-purpose tokens:
// email-verification tokens (signed JWTs carrying an email_verification
// claim) and password-reset tokens (stateless HMAC values fingerprinting
// the current password hash). Neither kind is ever stored server-side.
type TokenService interface {
	IssueVerificationToken(user *models.User) (string, error)
	// ValidateVerificationToken returns the subject user id. Expiry is only
	// reported once the signature and the purpose claim checked out, so a
	// tampered token is rejected the same way regardless of its timestamps.
	ValidateVerificationToken(tokenStr string) (int, error)

	// IssuePasswordResetToken returns the two link components
	// <uidb64>/<token>. The token embeds the current password hash in its
	// MAC, so changing the password invalidates every outstanding token
	// without any revocation bookkeeping.
	IssuePasswordResetToken(user *models.User) (uidb64, token string)
	CheckPasswordResetToken(user *models.User, token string) error
}

type verificationClaims struct {
	UserID            int  `json:"user_id"`
	EmailVerification bool `json:"email_verification"`
	jwt.RegisteredClaims
}

type tokenService struct {
	secret          []byte
	verificationTTL time.Duration
	resetTTL        time.Duration
}

func NewTokenService(secret []byte, verificationTTL, resetTTL time.Duration) TokenService {
	return &tokenService{
		secret:          secret,
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
	}
}

func (s *tokenService) IssueVerificationToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &verificationClaims{
		UserID:            user.ID,
		EmailVerification: true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.verificationTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *tokenService) ValidateVerificationToken(tokenStr string) (int, error) {
	claims := &verificationClaims{}
	// claims validation is done by hand below so that the purpose check
	// runs before the expiry check
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	if !claims.EmailVerification || claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}
	// a token we never minted without an expiry is malformed, not expired
	if claims.ExpiresAt == nil {
		return 0, ErrInvalidToken
	}
	if time.Now().After(claims.ExpiresAt.Time) {
		return 0, ErrExpiredToken
	}
	return claims.UserID, nil
}

func (s *tokenService) IssuePasswordResetToken(user *models.User) (string, string) {
	uidb64 := base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(user.ID)))
	return uidb64, s.makeResetToken(user, time.Now().Unix())
}

func (s *tokenService) CheckPasswordResetToken(user *models.User, token string) error {
	i := strings.IndexByte(token, '-')
	if i <= 0 {
		return ErrInvalidToken
	}
	ts, err := strconv.ParseInt(token[:i], 36, 64)
	if err != nil {
		return ErrInvalidToken
	}
	// MAC comparison first; only a token we actually minted for the current
	// password state can be reported as expired
	if !hmac.Equal([]byte(token), []byte(s.makeResetToken(user, ts))) {
		return ErrInvalidToken
	}
	if time.Now().After(time.Unix(ts, 0).Add(s.resetTTL)) {
		return ErrExpiredToken
	}
	return nil
}

func (s *tokenService) makeResetToken(user *models.User, ts int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "password-reset:%d:%s:%s:%d", user.ID, user.PasswordHash, user.Email, ts)
	return strconv.FormatInt(ts, 36) + "-" + hex.EncodeToString(mac.Sum(nil))[:32]
}

// DecodeUID reverses the uidb64 path component of a reset link.
func DecodeUID(uidb64 string) (int, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uidb64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	id, err := strconv.Atoi(string(raw))
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}
