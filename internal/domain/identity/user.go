package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
)

// Role distinguishes buyers from vendors at the API boundary
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleVendor   Role = "VENDOR"
	RoleAdmin    Role = "ADMIN"
)

// User represents an account in the user/vendor directory
type User struct {
	shared.BaseEntity
	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
	Email     string `gorm:"size:255;not null;uniqueIndex"`
	Phone     string `gorm:"size:30"`
	Role      Role   `gorm:"size:20;not null;default:'CUSTOMER'"`
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsVendor returns true for vendor accounts
func (u *User) IsVendor() bool {
	return u.Role == RoleVendor
}

// UserRepository defines the interface for directory lookups
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email address
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}
