package services

import (
	"sync"
	"time"

	"github.com/Al-amen/stock-prediction-portal-backend/internal/models"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/repositories"
)

// in-memory UserRepository used by the service tests
type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) clone(u *models.User) *models.User {
	cp := *u
	return &cp
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	r.seq++
	user.ID = r.seq
	user.DateJoined = time.Now()
	r.users[user.ID] = r.clone(user)
	return nil
}

func (r *fakeUserRepo) GetByID(id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.clone(u), nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return r.clone(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) Activate(userID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if u.IsActive {
		return false, nil
	}
	u.IsActive = true
	return true, nil
}

func (r *fakeUserRepo) UpdatePassword(userID int, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.RefreshToken = &token
	u.RefreshExpiresAt = &expiresAt
	u.RefreshRevoked = false
	return nil
}

func (r *fakeUserRepo) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == oldToken {
			u.RefreshToken = &newToken
			u.RefreshExpiresAt = &newExpiresAt
			u.RefreshRevoked = false
			return r.clone(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) ClearRefresh(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.RefreshToken = nil
	u.RefreshExpiresAt = nil
	u.RefreshRevoked = true
	return nil
}

func (r *fakeUserRepo) GetByRefreshToken(token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			return r.clone(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// fakeEmailService records what would have been sent
type sentMail struct {
	kind   string
	to     string
	uidb64 string
	token  string
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeEmailService) SendVerificationEmail(email, username, token string) error {
	f.record(sentMail{kind: "verify", to: email, token: token})
	return nil
}

func (f *fakeEmailService) SendResendVerificationEmail(email, token string) error {
	f.record(sentMail{kind: "resend", to: email, token: token})
	return nil
}

func (f *fakeEmailService) SendPasswordResetEmail(email, uidb64, token string) error {
	f.record(sentMail{kind: "reset", to: email, uidb64: uidb64, token: token})
	return nil
}

func (f *fakeEmailService) record(m sentMail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
}

func (f *fakeEmailService) last() (sentMail, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMail{}, false
	}
	return f.sent[len(f.sent)-1], true
}

func (f *fakeEmailService) countSent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
