package model

import (
    "fmt"
    "strings"
)

// Role is the closed set of account roles stored in user_profiles.role.
type Role string

const (
    RoleUser  Role = "user"
    RoleStaff Role = "staff"
    RoleAdmin Role = "admin"
)

// Capability names an action in the back-office that is granted per role.
type Capability string

const (
    CapManageBookings Capability = "manage_bookings"
    CapViewDashboard  Capability = "view_dashboard"
    CapManageCatalog  Capability = "manage_catalog"
    CapManageUsers    Capability = "manage_users"
)

var roleCapabilities = map[Role]map[Capability]bool{
    RoleUser: {},
    RoleStaff: {
        CapManageBookings: true,
        CapViewDashboard:  true,
    },
    RoleAdmin: {
        CapManageBookings: true,
        CapViewDashboard:  true,
        CapManageCatalog:  true,
        CapManageUsers:    true,
    },
}

// ParseRole converts a stored or claimed role name into a Role.  Unknown
// names are an error rather than silently degrading to RoleUser.
func ParseRole(s string) (Role, error) {
    r := Role(strings.ToLower(strings.TrimSpace(s)))
    if _, ok := roleCapabilities[r]; !ok {
        return "", fmt.Errorf("unknown role %q", s)
    }
    return r, nil
}

// Can reports whether the role is granted the capability.
func (r Role) Can(c Capability) bool {
    return roleCapabilities[r][c]
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
    _, ok := roleCapabilities[r]
    return ok
}
