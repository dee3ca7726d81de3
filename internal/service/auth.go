package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/juju/clock"

	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/repository"
	"github.com/iliyamo/event-booking/internal/utils"
)

// AccountStore creates and loads accounts.
type AccountStore interface {
	Create(ctx context.Context, nu repository.NewUser) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore persists refresh token hashes.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string, now time.Time) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string, at time.Time) error
	RevokeAllForUser(ctx context.Context, userID uint64, at time.Time) error
}

// PasswordHasher produces password hashes for new accounts.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// Authenticator is satisfied by AccountGuard.
type Authenticator interface {
	AttemptLogin(ctx context.Context, username, password string) (model.User, error)
}

// TokenSettings configures issued tokens.
type TokenSettings struct {
	Secret         string
	AccessTTLMin   int
	RefreshTTLDays int
}

// Session is an access and refresh token pair.
type Session struct {
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Phone    string
	Address  string
}

// AuthService registers accounts and issues sessions.  Password checks
// and lockout are delegated to the Authenticator.
type AuthService struct {
	accounts AccountStore
	tokens   TokenStore
	hasher   PasswordHasher
	guard    Authenticator
	settings TokenSettings
	clock    clock.Clock
	logger   *slog.Logger
}

func NewAuthService(accounts AccountStore, tokens TokenStore, hasher PasswordHasher, guard Authenticator,
	settings TokenSettings, clk clock.Clock, logger *slog.Logger) *AuthService {
	if clk == nil {
		clk = clock.WallClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{accounts: accounts, tokens: tokens, hasher: hasher, guard: guard,
		settings: settings, clock: clk, logger: logger}
}

const minPasswordLen = 8

// Register creates an account with role user and opens a session.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.User, Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	fields := map[string]string{}
	if in.Username == "" {
		fields["username"] = "is required"
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		fields["email"] = "must be a valid email address"
	}
	if len(in.Password) < minPasswordLen {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		return model.User{}, Session{}, ValidationError{Fields: fields}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, Session{}, err
	}
	id, err := s.accounts.Create(ctx, repository.NewUser{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
	})
	if errors.Is(err, repository.ErrUsernameExists) {
		return model.User{}, Session{}, ErrUsernameTaken
	}
	if err != nil {
		return model.User{}, Session{}, err
	}
	u, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return model.User{}, Session{}, err
	}
	sess, err := s.issue(ctx, u)
	if err != nil {
		return model.User{}, Session{}, err
	}
	s.logger.Info("user registered", "user_id", u.ID)
	return u, sess, nil
}

// Login authenticates through the guard and opens a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (model.User, Session, error) {
	u, err := s.guard.AttemptLogin(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return model.User{}, Session{}, err
	}
	sess, err := s.issue(ctx, u)
	if err != nil {
		return model.User{}, Session{}, err
	}
	return u, sess, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, raw string) (model.User, Session, error) {
	u, hash, err := s.validate(ctx, raw)
	if err != nil {
		return model.User{}, Session{}, err
	}
	if err := s.tokens.RevokeByHash(ctx, hash, s.clock.Now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			// rotated by a concurrent request
			return model.User{}, Session{}, ErrInvalidRefreshToken
		}
		return model.User{}, Session{}, err
	}
	sess, err := s.issue(ctx, u)
	if err != nil {
		return model.User{}, Session{}, err
	}
	return u, sess, nil
}

// RefreshAccess issues a new access token and keeps the refresh token.
func (s *AuthService) RefreshAccess(ctx context.Context, raw string) (utils.AccessToken, error) {
	u, _, err := s.validate(ctx, raw)
	if err != nil {
		return utils.AccessToken{}, err
	}
	return utils.NewAccessToken(s.settings.Secret, u.ID, u.Username, string(u.Profile.Role),
		s.settings.AccessTTLMin, s.clock.Now())
}

// Logout revokes the given refresh token, or every token of userID when
// raw is empty.
func (s *AuthService) Logout(ctx context.Context, userID uint64, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if userID == 0 {
			return ErrInvalidRefreshToken
		}
		return s.tokens.RevokeAllForUser(ctx, userID, s.clock.Now())
	}
	hash := utils.HashRefreshRaw(raw)
	if _, err := s.tokens.ValidateRefresh(ctx, hash, s.clock.Now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidRefreshToken
		}
		return err
	}
	if err := s.tokens.RevokeByHash(ctx, hash, s.clock.Now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidRefreshToken
		}
		return err
	}
	return nil
}

// Me loads the caller's account.
func (s *AuthService) Me(ctx context.Context, userID uint64) (model.User, error) {
	return s.accounts.GetByID(ctx, userID)
}

// validate resolves a raw refresh token to an active account.
func (s *AuthService) validate(ctx context.Context, raw string) (model.User, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.User{}, "", ErrInvalidRefreshToken
	}
	hash := utils.HashRefreshRaw(raw)
	userID, err := s.tokens.ValidateRefresh(ctx, hash, s.clock.Now())
	if errors.Is(err, ErrNotFound) {
		return model.User{}, "", ErrInvalidRefreshToken
	}
	if err != nil {
		return model.User{}, "", err
	}
	u, err := s.accounts.GetByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return model.User{}, "", ErrInvalidRefreshToken
	}
	if err != nil {
		return model.User{}, "", err
	}
	if !u.Profile.IsActive {
		return model.User{}, "", ErrAccountInactive
	}
	return u, hash, nil
}

func (s *AuthService) issue(ctx context.Context, u model.User) (Session, error) {
	now := s.clock.Now()
	access, err := utils.NewAccessToken(s.settings.Secret, u.ID, u.Username, string(u.Profile.Role),
		s.settings.AccessTTLMin, now)
	if err != nil {
		return Session{}, err
	}
	refresh, err := utils.NewRefreshToken(s.settings.RefreshTTLDays, now)
	if err != nil {
		return Session{}, err
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return Session{}, err
	}
	return Session{Access: access, Refresh: refresh}, nil
}
