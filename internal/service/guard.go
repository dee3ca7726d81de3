package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/juju/clock"

	"github.com/iliyamo/event-booking/internal/metrics"
	"github.com/iliyamo/event-booking/internal/model"
)

// Lockout policy.
const (
	MaxFailedLogins = 3
	LockoutDuration = 5 * time.Minute
)

// CredentialStore is the part of the user repository the guard needs.
// UpdateLoginState must run mutate under a row lock and persist the
// counters it leaves behind.
type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
	UpdateLoginState(ctx context.Context, userID uint64, mutate func(p *model.UserProfile)) (model.UserProfile, error)
}

// PasswordVerifier checks a plain password against a stored hash.
type PasswordVerifier interface {
	Verify(hash, plain string) bool
}

// AccountGuard authenticates usernames and passwords and enforces the
// failed-login lockout.
type AccountGuard struct {
	store    CredentialStore
	verifier PasswordVerifier
	clock    clock.Clock
	logger   *slog.Logger
}

func NewAccountGuard(store CredentialStore, verifier PasswordVerifier, clk clock.Clock, logger *slog.Logger) *AccountGuard {
	if clk == nil {
		clk = clock.WallClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountGuard{store: store, verifier: verifier, clock: clk, logger: logger}
}

// AttemptLogin returns the user when the credentials are valid and the
// account is neither locked nor inactive.
//
// A locked account is rejected before the password is looked at and its
// counters are left alone.  A wrong password increments the counter; the
// MaxFailedLogins-th consecutive failure locks the account for
// LockoutDuration.  A lock that has already expired starts a fresh window.
func (g *AccountGuard) AttemptLogin(ctx context.Context, username, password string) (model.User, error) {
	u, err := g.store.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		metrics.LoginAttempt(metrics.LoginUnknown)
		return model.User{}, &InvalidCredentialsError{}
	}
	if err != nil {
		return model.User{}, err
	}

	now := g.clock.Now()
	if u.Profile.IsLocked(now) {
		metrics.LoginAttempt(metrics.LoginLocked)
		return model.User{}, &AccountLockedError{Until: *u.Profile.LockedUntil}
	}

	if g.verifier.Verify(u.PasswordHash, password) {
		p, err := g.store.UpdateLoginState(ctx, u.ID, func(p *model.UserProfile) {
			p.FailedLoginAttempts = 0
			p.LockedUntil = nil
		})
		if err != nil {
			return model.User{}, err
		}
		u.Profile = p
		if !p.IsActive {
			metrics.LoginAttempt(metrics.LoginInactive)
			return model.User{}, ErrAccountInactive
		}
		metrics.LoginAttempt(metrics.LoginSuccess)
		return u, nil
	}

	var (
		lockedUntil *time.Time
		justLocked  bool
		remaining   int
	)
	_, err = g.store.UpdateLoginState(ctx, u.ID, func(p *model.UserProfile) {
		// Another request may have locked the account since it was read.
		if p.IsLocked(now) {
			t := *p.LockedUntil
			lockedUntil = &t
			return
		}
		if p.LockedUntil != nil {
			p.FailedLoginAttempts = 0
			p.LockedUntil = nil
		}
		p.FailedLoginAttempts++
		if p.FailedLoginAttempts >= MaxFailedLogins {
			t := now.Add(LockoutDuration)
			p.LockedUntil = &t
			lockedUntil = &t
			justLocked = true
			return
		}
		remaining = MaxFailedLogins - p.FailedLoginAttempts
	})
	if err != nil {
		return model.User{}, err
	}
	if lockedUntil != nil {
		if justLocked {
			metrics.AccountLocked()
			g.logger.Warn("account locked after failed logins", "user_id", u.ID, "until", *lockedUntil)
		}
		metrics.LoginAttempt(metrics.LoginLocked)
		return model.User{}, &AccountLockedError{Until: *lockedUntil}
	}
	metrics.LoginAttempt(metrics.LoginFailure)
	return model.User{}, &InvalidCredentialsError{AttemptsRemaining: remaining}
}
