package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/event-booking/internal/model"
)

// UserRepo persists accounts and their profiles.  The users and
// user_profiles tables are always read together.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NewUser carries the registration fields.  PasswordHash must already be
// hashed by the caller.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	Phone        string
	Address      string
}

const userColumns = `u.id, u.username, u.email, u.password_hash, u.date_joined,
	p.user_id, p.phone, p.address, p.role, p.is_active, p.failed_login_attempts, p.locked_until, p.created_at`

const userFrom = ` FROM users u JOIN user_profiles p ON p.user_id = u.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		u      model.User
		role   string
		locked sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DateJoined,
		&u.Profile.UserID, &u.Profile.Phone, &u.Profile.Address, &role, &u.Profile.IsActive,
		&u.Profile.FailedLoginAttempts, &locked, &u.Profile.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Profile.Role = model.Role(role)
	if locked.Valid {
		t := locked.Time
		u.Profile.LockedUntil = &t
	}
	return u, nil
}

// Create inserts the user and its profile (role "user") in one
// transaction and returns the new user id.
func (r *UserRepo) Create(ctx context.Context, nu NewUser) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?,?,?)",
		strings.TrimSpace(nu.Username), strings.ToLower(strings.TrimSpace(nu.Email)), nu.PasswordHash)
	if err != nil {
		if isMySQLError(err, mysqlDuplicateEntry) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO user_profiles (user_id, phone, address, role) VALUES (?,?,?,?)",
		id, nu.Phone, nu.Address, string(model.RoleUser)); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user and profile by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+userFrom+" WHERE u.username=? LIMIT 1", strings.TrimSpace(username))
	u, err := scanUser(row)
	return u, notFound(err)
}

// GetByID fetches a user and profile by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+userColumns+userFrom+" WHERE u.id=? LIMIT 1", id)
	u, err := scanUser(row)
	return u, notFound(err)
}

// List returns every account, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+userFrom+" ORDER BY u.date_joined DESC, u.id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateLoginState performs an atomic read-modify-write of the lockout
// counters.  The profile row is locked with SELECT ... FOR UPDATE, handed
// to mutate, and the resulting counters are written back before commit.
// Concurrent login attempts for the same account are serialised here.
func (r *UserRepo) UpdateLoginState(ctx context.Context, userID uint64, mutate func(p *model.UserProfile)) (model.UserProfile, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.UserProfile{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		p      model.UserProfile
		role   string
		locked sql.NullTime
	)
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, phone, address, role, is_active, failed_login_attempts, locked_until, created_at
		 FROM user_profiles WHERE user_id=? FOR UPDATE`, userID).
		Scan(&p.UserID, &p.Phone, &p.Address, &role, &p.IsActive, &p.FailedLoginAttempts, &locked, &p.CreatedAt)
	if err != nil {
		return model.UserProfile{}, notFound(err)
	}
	p.Role = model.Role(role)
	if locked.Valid {
		t := locked.Time
		p.LockedUntil = &t
	}

	mutate(&p)

	if _, err := tx.ExecContext(ctx,
		"UPDATE user_profiles SET failed_login_attempts=?, locked_until=? WHERE user_id=?",
		p.FailedLoginAttempts, p.LockedUntil, userID); err != nil {
		return model.UserProfile{}, fmt.Errorf("update login state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.UserProfile{}, err
	}
	return p, nil
}

// ToggleActive flips is_active and returns the new value.
func (r *UserRepo) ToggleActive(ctx context.Context, userID uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE user_profiles SET is_active = NOT is_active WHERE user_id=?", userID)
	if err := affectedOrNotFound(res, err); err != nil {
		return false, err
	}
	var active bool
	err = r.DB.QueryRowContext(ctx,
		"SELECT is_active FROM user_profiles WHERE user_id=?", userID).Scan(&active)
	return active, notFound(err)
}

// PromoteToAdmin gives an existing username the admin role, creating the
// profile if the account has none, and re-activates it.
func (r *UserRepo) PromoteToAdmin(ctx context.Context, username string) (created bool, err error) {
	var (
		id      uint64
		profile sql.NullInt64
	)
	err = r.DB.QueryRowContext(ctx,
		"SELECT u.id, p.user_id FROM users u LEFT JOIN user_profiles p ON p.user_id = u.id WHERE u.username=? LIMIT 1",
		strings.TrimSpace(username)).Scan(&id, &profile)
	if err != nil {
		return false, notFound(err)
	}
	if _, err := r.DB.ExecContext(ctx,
		`INSERT INTO user_profiles (user_id, phone, address, role, is_active, created_at)
		 VALUES (?, '0000000000', 'Admin Address', 'admin', 1, ?)
		 ON DUPLICATE KEY UPDATE role='admin', is_active=1`, id, time.Now().UTC()); err != nil {
		return false, err
	}
	return !profile.Valid, nil
}
