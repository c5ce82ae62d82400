package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the opaque role value supplied by the identity collaborator.
// The core only ranks roles for discount-tier checks — it is not an auth
// mechanism.
type Role string

const (
	RoleCashier Role = "CASHIER"
	RoleAdmin   Role = "ADMIN"
	RoleOwner   Role = "OWNER"
)

var roleRank = map[Role]int{
	RoleCashier: 1,
	RoleAdmin:   2,
	RoleOwner:   3,
}

// AtLeast reports whether r ranks at or above other. Unknown roles rank below
// every known role.
func (r Role) AtLeast(other Role) bool {
	return roleRank[r] >= roleRank[other]
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// User stores staff accounts with role-based access.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	Email        *string
	PasswordHash string    `gorm:"not null"`
	Role         Role      `gorm:"type:varchar(20);not null"`
	StoreID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
