package matching

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/brightride/brightride-api/internal/apperrors"
	"github.com/brightride/brightride-api/internal/models"
)

// DriverAvailability is a partial update; nil fields are left alone.
type DriverAvailability struct {
	IsAvailable     *bool
	CurrentLocation *string
	CostPerKm       *float64
}

type MechanicAvailability struct {
	IsAvailable     *bool
	Location        *string
	ServicesOffered *string
}

func (s *Service) UpdateDriverAvailability(ctx context.Context, actor models.Actor, in DriverAvailability) (*models.DriverProfile, error) {
	if actor.Role != models.RoleDriver {
		return nil, apperrors.New(apperrors.ErrForbidden, "Access denied")
	}

	changes := map[string]any{}
	if in.IsAvailable != nil {
		changes["is_available"] = *in.IsAvailable
	}
	if in.CurrentLocation != nil {
		changes["current_location"] = *in.CurrentLocation
	}
	if in.CostPerKm != nil {
		changes["cost_per_km"] = *in.CostPerKm
	}

	var p models.DriverProfile
	if err := updateProfile(ctx, s.DB, &p, actor, changes); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) UpdateMechanicAvailability(ctx context.Context, actor models.Actor, in MechanicAvailability) (*models.MechanicProfile, error) {
	if actor.Role != models.RoleMechanic {
		return nil, apperrors.New(apperrors.ErrForbidden, "Access denied")
	}

	changes := map[string]any{}
	if in.IsAvailable != nil {
		changes["is_available"] = *in.IsAvailable
	}
	if in.Location != nil {
		changes["location"] = *in.Location
	}
	if in.ServicesOffered != nil {
		changes["services_offered"] = *in.ServicesOffered
	}

	var p models.MechanicProfile
	if err := updateProfile(ctx, s.DB, &p, actor, changes); err != nil {
		return nil, err
	}
	return &p, nil
}

// updateProfile applies changes to the actor's profile row and loads it into dst.
func updateProfile(ctx context.Context, gdb *gorm.DB, dst any, actor models.Actor, changes map[string]any) error {
	tx := gdb.WithContext(ctx)
	if len(changes) > 0 {
		res := tx.Model(dst).Where("user_id = ?", actor.ID).Updates(changes)
		if res.Error != nil {
			return fmt.Errorf("update profile: %w", res.Error)
		}
	}
	if err := tx.Where("user_id = ?", actor.ID).First(dst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.ErrNotFound, "Profile not found")
		}
		return fmt.Errorf("load profile: %w", err)
	}
	return nil
}
