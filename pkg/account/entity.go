package account

import "time"

// DefaultBalance is credited to every newly registered account.
const DefaultBalance = 100000.00

// Role is the authorization level carried in session tokens.
type Role string

const (
	RoleCustomer Role = "Customer"
	RoleManager  Role = "Manager"
	RoleAdmin    Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Account is a domain entity representing a bank customer.
// PasswordHash holds a bcrypt hash, never the plaintext secret.
type Account struct {
	UID          int64
	Username     string
	Email        string
	PasswordHash string
	Balance      float64
	Phone        string
	Role         Role
	CreatedAt    time.Time
}
