package repository

import (
	"context"
	"database/sql"
	"time"

	"openschool/internal/model"
)

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, u *model.User) error
	DeleteUser(ctx context.Context, id int64) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	// DeactivateInactiveSince disables active accounts whose last login is
	// older than the cutoff and returns how many were affected.
	DeactivateInactiveSince(ctx context.Context, cutoff time.Time) (int64, error)
}

type userRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepository.
func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, phone_number, town, avatar_url, role, is_active, last_login, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	return row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.PhoneNumber,
		&u.Town,
		&u.AvatarURL,
		&u.Role,
		&u.IsActive,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

// CreateUser inserts a new user and fills in the generated fields.
func (r *userRepo) CreateUser(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, phone_number, town, avatar_url, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.PhoneNumber, u.Town, u.AvatarURL, u.Role, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

// GetUserByID retrieves a user by id; returns nil when absent.
func (r *userRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var u model.User
	err := scanUser(r.db.QueryRowContext(ctx, query, id), &u)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by email; returns nil when absent.
func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	var u model.User
	err := scanUser(r.db.QueryRowContext(ctx, query, email), &u)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// ListUsers retrieves all users ordered by id.
func (r *userRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser updates the profile fields of an existing user.
func (r *userRepo) UpdateUser(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, phone_number = $4, town = $5, avatar_url = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		u.Email, u.FirstName, u.LastName, u.PhoneNumber, u.Town, u.AvatarURL, u.ID,
	).Scan(&u.UpdatedAt)
}

// DeleteUser removes a user. Ownership references on courses, lessons and
// payments are nulled by the schema, not cascaded.
func (r *userRepo) DeleteUser(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

// UpdateLastLogin records a successful login.
func (r *userRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	return err
}

// DeactivateInactiveSince disables stale accounts.
func (r *userRepo) DeactivateInactiveSince(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = FALSE WHERE is_active = TRUE AND last_login IS NOT NULL AND last_login < $1`,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
