// internal/models/service_request.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ServiceRequest is a roadside mechanic dispatch request.
type ServiceRequest struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"userId"`
	MechanicID *uuid.UUID `gorm:"type:uuid;index" json:"mechanicId"`

	Location    string `gorm:"type:text;not null" json:"location"`
	VehicleType string `gorm:"type:varchar(50);not null" json:"vehicleType"`
	Description string `gorm:"type:text;not null" json:"description"`

	// stored as-is, no size or type checks
	Photos datatypes.JSON `json:"photos"`

	Status Status `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	User     *User `gorm:"foreignKey:UserID" json:"-"`
	Mechanic *User `gorm:"foreignKey:MechanicID" json:"-"`
}

func (r *ServiceRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

func (r *ServiceRequest) CurrentStatus() Status   { return r.Status }
func (r *ServiceRequest) OwnerID() uuid.UUID      { return r.UserID }
func (r *ServiceRequest) ResponderID() *uuid.UUID { return r.MechanicID }
