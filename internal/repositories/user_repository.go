package repositories

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/Al-amen/stock-prediction-portal-backend/internal/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	// Activate reports whether the row actually transitioned; false with a
	// nil error means the account was already active.
	Activate(userID int) (bool, error)
	UpdatePassword(userID int, passwordHash string) error

	// refresh helpers
	UpdateRefresh(userID int, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error)
	ClearRefresh(userID int) error
	GetByRefreshToken(token string) (*models.User, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, email, username, password_hash,
	is_active, is_staff, is_superuser, date_joined,
	refresh_token, refresh_expires_at, refresh_revoked
`

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			email, username, password_hash,
			is_active, is_staff, is_superuser,
			refresh_token, refresh_expires_at, refresh_revoked
		)
		VALUES ($1,$2,$3,$4,$5,$6,NULL,NULL,FALSE)
		RETURNING id, date_joined
	`
	err := r.DB.QueryRow(q,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.IsActive,
		user.IsStaff,
		user.IsSuperuser,
	).Scan(&user.ID, &user.DateJoined)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		rt  sql.NullString
		rte sql.NullTime
		rr  sql.NullBool
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.DateJoined,
		&rt, &rte, &rr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rt.Valid {
		s := rt.String
		u.RefreshToken = &s
	}
	if rte.Valid {
		t := rte.Time
		u.RefreshExpiresAt = &t
	}
	if rr.Valid {
		u.RefreshRevoked = rr.Bool
	}
	return u, nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	return scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// Activate flips is_active exactly once. The single UPDATE is the
// serialization point for concurrent verification attempts: only one of
// them observes RowsAffected == 1.
func (r *userRepository) Activate(userID int) (bool, error) {
	res, err := r.DB.Exec(`
		UPDATE users
		SET is_active = TRUE
		WHERE id = $1 AND is_active = FALSE
	`, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	res, err := r.DB.Exec(`
		UPDATE users SET password_hash = $1 WHERE id = $2
	`, passwordHash, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ===== refresh helpers =====

func (r *userRepository) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, token, expiresAt, userID)
	return err
}

func (r *userRepository) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	const q = `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE refresh_token=$3
		RETURNING ` + userColumns
	return scanUser(r.DB.QueryRow(q, newToken, newExpiresAt, oldToken))
}

func (r *userRepository) ClearRefresh(userID int) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET refresh_token=NULL, refresh_expires_at=NULL, refresh_revoked=TRUE
		WHERE id=$1
	`, userID)
	return err
}

func (r *userRepository) GetByRefreshToken(token string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE refresh_token = $1`, token))
}
