package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Al-amen/stock-prediction-portal-backend/internal/middleware"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/models"
)

type AuthService interface {
	HashPassword(plain string) (string, error)
	CheckPassword(hash, plain string) bool
	GenerateAccessToken(user *models.User) (string, error)
}

type authService struct {
	jwtKey    []byte
	accessTTL time.Duration
}

func NewAuthService(jwtKey []byte, accessTTL time.Duration) AuthService {
	return &authService{jwtKey: jwtKey, accessTTL: accessTTL}
}

func (s *authService) HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (s *authService) CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (s *authService) GenerateAccessToken(user *models.User) (string, error) {
	claims := &middleware.Claims{
		UserID:      user.ID,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}
