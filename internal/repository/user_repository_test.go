package repository

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-booking/internal/model"
)

func TestUserRepo_UpdateLoginStateLocksRowAndWritesBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 1, 2, 10, 5, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM user_profiles WHERE user_id=\? FOR UPDATE`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "phone", "address", "role", "is_active",
			"failed_login_attempts", "locked_until", "created_at"}).
			AddRow(4, "555", "street", "user", true, 2, nil, created))
	mock.ExpectExec(`UPDATE user_profiles SET failed_login_attempts=\?, locked_until=\? WHERE user_id=\?`).
		WithArgs(0, until, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, err := repo.UpdateLoginState(context.Background(), 4, func(p *model.UserProfile) {
		assert.Equal(t, 2, p.FailedLoginAttempts)
		p.FailedLoginAttempts = 0
		p.LockedUntil = &until
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, p.Role)
	require.NotNil(t, p.LockedUntil)
	assert.True(t, p.LockedUntil.Equal(until))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_UpdateLoginStateMissingProfile(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectRollback()

	called := false
	_, err := repo.UpdateLoginState(context.Background(), 4, func(*model.UserProfile) { called = true })
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_CreateDuplicateUsername(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("alice", "alice@example.com", "hash").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), NewUser{Username: " alice ", Email: "Alice@Example.com ", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrUsernameExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_CreateInsertsProfileWithUserRole(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec(`INSERT INTO user_profiles`).
		WithArgs(12, "555-0100", "1 Main St", "user").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), NewUser{Username: "bob", Email: "bob@example.com",
		PasswordHash: "hash", Phone: "555-0100", Address: "1 Main St"})
	require.NoError(t, err)
	assert.EqualValues(t, 12, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_PromoteToAdmin(t *testing.T) {
	t.Run("creates missing profile", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewUserRepo(db)
		mock.ExpectQuery(`LEFT JOIN user_profiles`).WithArgs("root").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, nil))
		mock.ExpectExec(`ON DUPLICATE KEY UPDATE role='admin', is_active=1`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		created, err := repo.PromoteToAdmin(context.Background(), "root")
		require.NoError(t, err)
		assert.True(t, created)
	})
	t.Run("updates existing profile", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewUserRepo(db)
		mock.ExpectQuery(`LEFT JOIN user_profiles`).WithArgs("root").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, 1))
		mock.ExpectExec(`ON DUPLICATE KEY UPDATE`).WillReturnResult(sqlmock.NewResult(0, 2))

		created, err := repo.PromoteToAdmin(context.Background(), "root")
		require.NoError(t, err)
		assert.False(t, created)
	})
	t.Run("unknown username", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewUserRepo(db)
		mock.ExpectQuery(`LEFT JOIN user_profiles`).WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))

		_, err := repo.PromoteToAdmin(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTokenRepo_ValidateRefreshRowStates(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	cols := []string{"user_id", "expires_at", "revoked_at"}

	tests := []struct {
		name    string
		row     []driver.Value
		wantID  uint64
		wantErr error
	}{
		{"active", []driver.Value{7, now.Add(time.Hour), nil}, 7, nil},
		{"expired", []driver.Value{7, now, nil}, 0, ErrNotFound},
		{"revoked", []driver.Value{7, now.Add(time.Hour), now.Add(-time.Minute)}, 0, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewTokenRepo(db)
			mock.ExpectQuery(`FROM refresh_tokens WHERE token_hash=\?`).WithArgs("h").
				WillReturnRows(sqlmock.NewRows(cols).AddRow(tt.row...))

			id, err := repo.ValidateRefresh(context.Background(), "h", now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
