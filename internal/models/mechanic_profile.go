package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultShopName        = "Independent Mechanic"
	DefaultServicesOffered = "General Repair"
)

type MechanicProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`

	ShopName        string `gorm:"type:varchar(200);not null" json:"shopName"`
	ServicesOffered string `gorm:"type:text;not null" json:"servicesOffered"`
	Location        string `gorm:"type:text;not null" json:"location"`
	IsAvailable     bool   `gorm:"not null;index" json:"isAvailable"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *MechanicProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
