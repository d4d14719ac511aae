package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightride/brightride-api/internal/apperrors"
	"github.com/brightride/brightride-api/internal/events"
	"github.com/brightride/brightride-api/internal/models"
)

type RideService struct {
	engine
}

func NewRideService(db *gorm.DB, policy Policy, pub events.Publisher) *RideService {
	return &RideService{engine{db: db, policy: policy, events: pub}}
}

// NewRide is what a passenger submits when booking.
type NewRide struct {
	Pickup        string
	Dropoff       string
	Type          string
	ScheduledTime *time.Time
	Price         *float64
	DriverID      *uuid.UUID // pre-selected driver, skips the claim
}

// Create books a ride. With a pre-selected driver the ride is inserted
// ACCEPTED and bound in the same statement.
func (s *RideService) Create(ctx context.Context, passenger models.Actor, in NewRide) (*models.Ride, error) {
	ride := models.Ride{
		PassengerID:   passenger.ID,
		DriverID:      in.DriverID,
		Pickup:        in.Pickup,
		Dropoff:       in.Dropoff,
		Type:          in.Type,
		ScheduledTime: in.ScheduledTime,
		Status:        models.StatusPending,
	}
	if in.Price != nil {
		ride.Price = *in.Price
	}
	if in.DriverID != nil {
		ride.Status = models.StatusAccepted
	}

	if err := s.db.WithContext(ctx).Create(&ride).Error; err != nil {
		return nil, fmt.Errorf("create ride: %w", err)
	}

	s.publish(ctx, rideKind, ride.ID, ride.Status, passenger)
	return &ride, nil
}

// ListMine returns the passenger's bookings or the driver's assigned rides.
// Any other role gets an empty list, not an error.
func (s *RideService) ListMine(ctx context.Context, actor models.Actor) ([]models.Ride, error) {
	rides := []models.Ride{}

	var column string
	switch actor.Role {
	case models.RolePassenger:
		column = "passenger_id"
	case models.RoleDriver:
		column = "driver_id"
	default:
		return rides, nil
	}

	if err := s.db.WithContext(ctx).
		Where(column+" = ?", actor.ID).
		Order("created_at DESC").
		Find(&rides).Error; err != nil {
		return nil, fmt.Errorf("list rides: %w", err)
	}
	return rides, nil
}

// ListPending returns unclaimed rides with the passenger's name and phone.
func (s *RideService) ListPending(ctx context.Context, actor models.Actor) ([]models.Ride, error) {
	if actor.Role != models.RoleDriver {
		return nil, apperrors.New(apperrors.ErrForbidden, "Access denied")
	}

	rides := []models.Ride{}
	if err := s.db.WithContext(ctx).
		Preload("Passenger", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "phone")
		}).
		Where("status = ?", models.StatusPending).
		Order("created_at ASC").
		Find(&rides).Error; err != nil {
		return nil, fmt.Errorf("list pending rides: %w", err)
	}
	return rides, nil
}

func (s *RideService) UpdateStatus(ctx context.Context, id uuid.UUID, next models.Status, actor models.Actor) (*models.Ride, error) {
	return updateStatus[models.Ride](ctx, &s.engine, rideKind, id, next, actor)
}
