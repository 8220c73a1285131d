package models

import (
	"time"
)

const UserTable = "lib_users"

// Role is the closed eligibility class for a user.
// Managers run the catalog; only members may hold loans.
type Role string

const (
	RoleMember  Role = "member"
	RoleManager Role = "manager"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleManager:
		return true
	}
	return false
}

// CanBorrow reports whether a user with this role may hold loans.
func (r Role) CanBorrow() bool {
	switch r {
	case RoleMember:
		return true
	case RoleManager:
		return false
	}
	return false
}

type User struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Email     string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName string `gorm:"size:120;not null" json:"firstName"`
	LastName  string `gorm:"size:120;not null" json:"lastName"`
	Role      Role   `gorm:"size:20;not null;default:'member';index" json:"role"`

	PasswordHash string `gorm:"size:100;not null" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }
