package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Authorization is decided by the role column, not by a
// well-known user id.
const (
	RoleRequester = "requester"
	RoleManager   = "manager"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Email        string    `json:"email" db:"email"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Creator is the identity shape inlined into animal responses: username only,
// never the credential.
type Creator struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

func (u *User) IsManager() bool {
	return u != nil && u.Role == RoleManager
}
