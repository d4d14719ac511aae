package matching

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightride/brightride-api/internal/db"
	"github.com/brightride/brightride-api/internal/models"
)

// Service answers "who is available near X". Location matching is a
// case-sensitive substring test on the free-text location; a geographic
// filter would keep the same signatures.
type Service struct {
	DB *gorm.DB
}

func NewService(gdb *gorm.DB) *Service {
	return &Service{DB: gdb}
}

type DriverPublic struct {
	VehicleDetails  string   `json:"vehicleDetails"`
	LicenseNumber   string   `json:"licenseNumber"`
	CurrentLocation string   `json:"currentLocation"`
	IsAvailable     bool     `json:"isAvailable"`
	CostPerKm       *float64 `json:"costPerKm"`
}

type DriverListing struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Phone         string       `json:"phone"`
	DriverProfile DriverPublic `json:"driverProfile"`
}

type MechanicPublic struct {
	ShopName        string `json:"shopName"`
	ServicesOffered string `json:"servicesOffered"`
	Location        string `json:"location"`
	IsAvailable     bool   `json:"isAvailable"`
}

type MechanicListing struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	Phone           string         `json:"phone"`
	MechanicProfile MechanicPublic `json:"mechanicProfile"`
}

// AvailableDrivers lists drivers whose profile is available, optionally
// narrowed to profiles whose current location contains location.
func (s *Service) AvailableDrivers(ctx context.Context, location string) ([]DriverListing, error) {
	q := s.DB.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN driver_profiles ON driver_profiles.user_id = users.id").
		Where("users.role = ? AND driver_profiles.is_available = ?", models.RoleDriver, true)
	if location != "" {
		q = q.Where(db.Contains(s.DB, "driver_profiles.current_location"), location)
	}

	var users []models.User
	if err := q.Preload("DriverProfile").Order("users.name ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list available drivers: %w", err)
	}

	out := make([]DriverListing, 0, len(users))
	for _, u := range users {
		if u.DriverProfile == nil {
			continue
		}
		p := u.DriverProfile
		out = append(out, DriverListing{
			ID:    u.ID,
			Name:  u.Name,
			Phone: u.Phone,
			DriverProfile: DriverPublic{
				VehicleDetails:  p.VehicleDetails,
				LicenseNumber:   p.LicenseNumber,
				CurrentLocation: p.CurrentLocation,
				IsAvailable:     p.IsAvailable,
				CostPerKm:       p.CostPerKm,
			},
		})
	}
	return out, nil
}

func (s *Service) AvailableMechanics(ctx context.Context, location string) ([]MechanicListing, error) {
	q := s.DB.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN mechanic_profiles ON mechanic_profiles.user_id = users.id").
		Where("users.role = ? AND mechanic_profiles.is_available = ?", models.RoleMechanic, true)
	if location != "" {
		q = q.Where(db.Contains(s.DB, "mechanic_profiles.location"), location)
	}

	var users []models.User
	if err := q.Preload("MechanicProfile").Order("users.name ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list available mechanics: %w", err)
	}

	out := make([]MechanicListing, 0, len(users))
	for _, u := range users {
		if u.MechanicProfile == nil {
			continue
		}
		p := u.MechanicProfile
		out = append(out, MechanicListing{
			ID:    u.ID,
			Name:  u.Name,
			Phone: u.Phone,
			MechanicProfile: MechanicPublic{
				ShopName:        p.ShopName,
				ServicesOffered: p.ServicesOffered,
				Location:        p.Location,
				IsAvailable:     p.IsAvailable,
			},
		})
	}
	return out, nil
}
