package services

import (
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/Al-amen/stock-prediction-portal-backend/internal/models"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/repositories"
)

// VerifyOutcome distinguishes a first successful activation from the
// idempotent re-verification of an already active account.
type VerifyOutcome int

const (
	Verified VerifyOutcome = iota
	AlreadyVerified
)

type UserService interface {
	// Register creates an inactive account and emails a verification link.
	// A duplicate active email is rejected with ErrEmailTaken; a duplicate
	// inactive email gets a fresh verification link for the existing
	// account instead of a second row.
	Register(username, email, password string) (*models.User, error)
	CreateSuperuser(username, email, password string, isStaff, isSuperuser bool) (*models.User, error)
	VerifyEmail(token string) (VerifyOutcome, error)
	ResendVerification(email string) error
	ChangePassword(userID int, oldPassword, newPassword, confirmPassword string) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id int) (*models.User, error)

	// refresh helpers
	UpdateRefresh(userID int, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error)
	ClearRefresh(userID int) error
	GetByRefreshToken(token string) (*models.User, error)
}

type userService struct {
	repo   repositories.UserRepository
	tokens TokenService
	auth   AuthService
	emails EmailService
	alerts AlertService
}

func NewUserService(repo repositories.UserRepository, tokens TokenService, auth AuthService, emails EmailService, alerts AlertService) UserService {
	return &userService{
		repo:   repo,
		tokens: tokens,
		auth:   auth,
		emails: emails,
		alerts: alerts,
	}
}

// NormalizeEmail trims and lowercases an address so that uniqueness checks
// and lookups see one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (s *userService) Register(username, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !validEmail(email) {
		return nil, fmt.Errorf("%w: malformed address", ErrEmailRequired)
	}
	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("password is required")
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.IsActive {
			return nil, ErrEmailTaken
		}
		// the earlier registration never finished verification: reuse the
		// row and send a fresh link
		s.sendVerification(existing)
		return existing, nil
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsActive:     false,
	}
	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.sendVerification(user)
	if s.alerts != nil {
		s.alerts.NotifySignup(user.Email)
	}
	return user, nil
}

func (s *userService) sendVerification(user *models.User) {
	token, err := s.tokens.IssueVerificationToken(user)
	if err != nil {
		log.Printf("[users][register] issue verification token for userID=%d: err=%v", user.ID, err)
		return
	}
	if s.emails == nil {
		return
	}
	if err := s.emails.SendVerificationEmail(user.Email, user.Username, token); err != nil {
		// delivery failure must not fail the registration
		log.Printf("[users][register] warning: failed to send verification email to %s: %v", user.Email, err)
	}
}

func (s *userService) CreateSuperuser(username, email, password string, isStaff, isSuperuser bool) (*models.User, error) {
	if !isStaff {
		return nil, fmt.Errorf("superuser must have is_staff=true")
	}
	if !isSuperuser {
		return nil, fmt.Errorf("superuser must have is_superuser=true")
	}

	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !validEmail(email) {
		return nil, fmt.Errorf("%w: malformed address", ErrEmailRequired)
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// VerifyEmail drives the activation state machine. A valid token for an
// already active account is reported as AlreadyVerified, never as an error.
func (s *userService) VerifyEmail(token string) (VerifyOutcome, error) {
	userID, err := s.tokens.ValidateVerificationToken(token)
	if err != nil {
		return 0, err
	}

	user, err := s.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// a signed token for a subject we do not know is just invalid
			return 0, ErrInvalidToken
		}
		return 0, err
	}

	activated, err := s.repo.Activate(user.ID)
	if err != nil {
		return 0, err
	}
	if !activated {
		return AlreadyVerified, nil
	}
	log.Printf("[users][verify] account activated userID=%d", user.ID)
	return Verified, nil
}

func (s *userService) ResendVerification(email string) error {
	user, err := s.repo.GetByEmail(NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if user.IsActive {
		// resend is only for accounts still pending verification
		return ErrNotFound
	}

	token, err := s.tokens.IssueVerificationToken(user)
	if err != nil {
		return err
	}
	if s.emails != nil {
		if err := s.emails.SendResendVerificationEmail(user.Email, token); err != nil {
			log.Printf("[users][resend] warning: failed to send verification email to %s: %v", user.Email, err)
		}
	}
	return nil
}

func (s *userService) ChangePassword(userID int, oldPassword, newPassword, confirmPassword string) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !s.auth.CheckPassword(user.PasswordHash, oldPassword) {
		return ErrWrongPassword
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if newPassword == oldPassword {
		return ErrSamePassword
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	// rehashing also invalidates every outstanding reset token, since the
	// reset MAC fingerprints the stored hash
	return s.repo.UpdatePassword(user.ID, hash)
}

func (s *userService) GetByEmail(email string) (*models.User, error) {
	user, err := s.repo.GetByEmail(NormalizeEmail(email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

func (s *userService) GetByID(id int) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

func (s *userService) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	return s.repo.UpdateRefresh(userID, token, expiresAt)
}

func (s *userService) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	return s.repo.RotateRefresh(oldToken, newToken, newExpiresAt)
}

func (s *userService) ClearRefresh(userID int) error {
	return s.repo.ClearRefresh(userID)
}

func (s *userService) GetByRefreshToken(token string) (*models.User, error) {
	return s.repo.GetByRefreshToken(token)
}
