package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Al-amen/stock-prediction-portal-backend/internal/models"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/repositories"
)

type PasswordResetService interface {
	// RequestReset always reports success so that callers cannot probe
	// which addresses have accounts.
	RequestReset(email string) error
	ConfirmReset(uidb64, token, newPassword, confirmPassword string) (*models.User, error)
}

type passwordResetService struct {
	userRepo repositories.UserRepository
	tokens   TokenService
	auth     AuthService
	emails   EmailService
}

func NewPasswordResetService(userRepo repositories.UserRepository, tokens TokenService, auth AuthService, emails EmailService) PasswordResetService {
	return &passwordResetService{
		userRepo: userRepo,
		tokens:   tokens,
		auth:     auth,
		emails:   emails,
	}
}

func (s *passwordResetService) RequestReset(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil || user == nil {
		// don't leak existence
		log.Printf("[password-reset] request for unknown address: %v", err)
		return nil
	}

	uidb64, token := s.tokens.IssuePasswordResetToken(user)
	if s.emails != nil {
		if err := s.emails.SendPasswordResetEmail(user.Email, uidb64, token); err != nil {
			log.Printf("[password-reset] failed to send email to %s: %v", user.Email, err)
		}
	}
	return nil
}

func (s *passwordResetService) ConfirmReset(uidb64, token, newPassword, confirmPassword string) (*models.User, error) {
	userID, err := DecodeUID(uidb64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if err := s.tokens.CheckPasswordResetToken(user, strings.TrimSpace(token)); err != nil {
		return nil, err
	}
	if newPassword != confirmPassword {
		return nil, ErrPasswordMismatch
	}
	if strings.TrimSpace(newPassword) == "" {
		return nil, fmt.Errorf("password is required")
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	// the new hash changes the token fingerprint, so the token just used
	// (and any other outstanding one) stops validating
	if err := s.userRepo.UpdatePassword(user.ID, hash); err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	return user, nil
}
