// File: internal/user/model.go
package user

import (
	"github.com/RulerDevansh/SecretSanta/internal/common"
	"github.com/RulerDevansh/SecretSanta/internal/shared"

	"github.com/google/uuid"
)

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User represents the user model in the database.
type User struct {
	common.BaseModel         // Embeds ID, CreatedAt, UpdatedAt
	Name             string  `gorm:"type:varchar(100);not null"`
	Email            string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash     *string `gorm:"type:varchar(255)"` // Pointer to allow NULL for OAuth-only accounts
	AuthProvider     string  `gorm:"type:varchar(50);not null;default:'local'"`
	HasAssignedGift  bool    `gorm:"not null;default:false"` // Set once the user has been picked as someone's Santa
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetEmail() string {
	return u.Email
}

func (u *User) GetName() string {
	return u.Name
}

// ToShared converts a GORM User model to the transport-facing shared.User.
func ToShared(u *User) *shared.User {
	return &shared.User{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		AuthProvider:    u.AuthProvider,
		HasAssignedGift: u.HasAssignedGift,
		CreatedAt:       u.CreatedAt,
	}
}
