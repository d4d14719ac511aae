package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RolePassenger Role = "PASSENGER"
	RoleDriver    Role = "DRIVER"
	RoleMechanic  Role = "MECHANIC"
)

// ParseRole normalizes a role string from a request or a token claim.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RolePassenger, RoleDriver, RoleMechanic:
		return r, true
	default:
		return "", false
	}
}

// internal/models/user.go
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email string    `gorm:"uniqueIndex;not null" json:"email"`
	Name  string    `gorm:"not null" json:"name"`
	Phone string    `gorm:"type:varchar(30)" json:"phone"`

	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;index" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	DriverProfile   *DriverProfile   `gorm:"foreignKey:UserID;references:ID" json:"driverProfile,omitempty"`
	MechanicProfile *MechanicProfile `gorm:"foreignKey:UserID;references:ID" json:"mechanicProfile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// Actor is the authenticated caller of a business operation.
type Actor struct {
	ID   uuid.UUID
	Role Role
}
