package models

// RoleMember is the default role for new accounts; members manage their own
// assets and must go through the deletion-request workflow to remove one.
const RoleMember = "member"

// RoleAdmin may review deletion requests and delete assets directly.
const RoleAdmin = "admin"

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
