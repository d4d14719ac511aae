// internal/models/ride.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ride struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PassengerID uuid.UUID  `gorm:"type:uuid;index;not null" json:"passengerId"`
	DriverID    *uuid.UUID `gorm:"type:uuid;index" json:"driverId"`

	Pickup        string     `gorm:"type:text;not null" json:"pickup"`
	Dropoff       string     `gorm:"type:text;not null" json:"dropoff"`
	Type          string     `gorm:"type:varchar(50);not null" json:"type"` // Economy, Premium, ...
	ScheduledTime *time.Time `json:"scheduledTime"`
	Price         float64    `gorm:"not null" json:"price"`

	Status Status `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Passenger *User `gorm:"foreignKey:PassengerID" json:"-"`
	Driver    *User `gorm:"foreignKey:DriverID" json:"-"`
}

func (r *Ride) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

func (r *Ride) CurrentStatus() Status   { return r.Status }
func (r *Ride) OwnerID() uuid.UUID      { return r.PassengerID }
func (r *Ride) ResponderID() *uuid.UUID { return r.DriverID }
