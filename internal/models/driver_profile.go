package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultVehicleDetails = "Unknown Vehicle"
	DefaultLicenseNumber  = "Unknown License"
	DefaultLocation       = "Unknown Location"
)

type DriverProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`

	VehicleDetails  string   `gorm:"type:varchar(200);not null" json:"vehicleDetails"`
	LicenseNumber   string   `gorm:"type:varchar(80);not null" json:"licenseNumber"`
	CurrentLocation string   `gorm:"type:text;not null" json:"currentLocation"`
	IsAvailable     bool     `gorm:"not null;index" json:"isAvailable"`
	CostPerKm       *float64 `json:"costPerKm"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *DriverProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
