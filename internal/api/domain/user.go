package domain

import "time"

// Role values a user account may carry. An account with an empty role set
// is treated as unauthorized for any role-gated operation.
const (
	RoleUsers      = "users"
	RoleAdmins     = "admins"
	RoleSuperusers = "superusers"
)

// KnownRole reports whether r is one of the enumerated role values.
func KnownRole(r string) bool {
	switch r {
	case RoleUsers, RoleAdmins, RoleSuperusers:
		return true
	}
	return false
}

type User struct {
	ID           string
	Email        string
	PasswordHash string   // argon2id encoded, never serialized to clients
	Username     string   // derived: email local part with dots removed
	Roles        []string // non-empty for any authorized account
	Token        string   // server-generated bearer credential, immutable
	MD5Email     string   // hex md5 of email for gravatar-style display
	FirstName    string
	LastName     string
	Location     string
	Avatar       string
	Owner        string // self id after creation, scopes the "me" view
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
