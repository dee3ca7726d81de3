package model

import "time"

// User represents an application account as stored in the `users`
// table, joined with its one-to-one `user_profiles` row.  The
// password hash never leaves the server, so it is excluded from JSON.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  Email        – contact address supplied at registration.
//  PasswordHash – bcrypt hashed password.
//  DateJoined   – timestamp of registration.
//  Profile      – role, activation and login lockout state.
type User struct {
    ID           uint64      `json:"id"`         // users.id
    Username     string      `json:"username"`   // users.username
    Email        string      `json:"email"`      // users.email
    PasswordHash string      `json:"-"`          // users.password_hash
    DateJoined   time.Time   `json:"date_joined"` // users.date_joined
    Profile      UserProfile `json:"profile"`
}

// UserProfile models a row in the `user_profiles` table.  The lockout
// counters live here so they survive restarts and are shared by every
// server instance.
//
// Fields:
//  UserID              – owner of the profile (primary key).
//  Phone               – contact phone number.
//  Address             – postal address.
//  Role                – user, staff or admin.
//  IsActive            – whether the account may sign in.
//  FailedLoginAttempts – consecutive failed password checks.
//  LockedUntil         – end of the current lockout (null when open).
//  CreatedAt           – timestamp of creation.
type UserProfile struct {
    UserID              uint64     `json:"user_id"`               // user_profiles.user_id
    Phone               string     `json:"phone"`                 // user_profiles.phone
    Address             string     `json:"address"`               // user_profiles.address
    Role                Role       `json:"role"`                  // user_profiles.role
    IsActive            bool       `json:"is_active"`             // user_profiles.is_active
    FailedLoginAttempts int        `json:"failed_login_attempts"` // user_profiles.failed_login_attempts
    LockedUntil         *time.Time `json:"locked_until,omitempty"` // user_profiles.locked_until (nullable)
    CreatedAt           time.Time  `json:"created_at"`            // user_profiles.created_at
}

// IsLocked reports whether the profile is inside an active lockout at
// the given instant.  A stale locked_until in the past does not count.
func (p UserProfile) IsLocked(now time.Time) bool {
    return p.LockedUntil != nil && p.LockedUntil.After(now)
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token handed to the client is stored.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
