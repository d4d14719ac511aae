package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/brightride/brightride-api/internal/apperrors"
	"github.com/brightride/brightride-api/internal/events"
	"github.com/brightride/brightride-api/internal/models"
)

// RequestService handles roadside mechanic requests.
type RequestService struct {
	engine
}

func NewRequestService(db *gorm.DB, policy Policy, pub events.Publisher) *RequestService {
	return &RequestService{engine{db: db, policy: policy, events: pub}}
}

type NewRequest struct {
	Location    string
	VehicleType string
	Description string
	Photos      json.RawMessage // any JSON, kept as sent
}

func (s *RequestService) Create(ctx context.Context, requester models.Actor, in NewRequest) (*models.ServiceRequest, error) {
	req := models.ServiceRequest{
		UserID:      requester.ID,
		Location:    in.Location,
		VehicleType: in.VehicleType,
		Description: in.Description,
		Status:      models.StatusPending,
	}
	if b := bytes.TrimSpace(in.Photos); len(b) > 0 && !bytes.Equal(b, []byte("null")) {
		req.Photos = datatypes.JSON(b)
	}

	if err := s.db.WithContext(ctx).Create(&req).Error; err != nil {
		return nil, fmt.Errorf("create service request: %w", err)
	}

	s.publish(ctx, requestKind, req.ID, req.Status, requester)
	return &req, nil
}

// ListMine mirrors RideService.ListMine: requester for passengers, bound
// mechanic for mechanics, empty for drivers.
func (s *RequestService) ListMine(ctx context.Context, actor models.Actor) ([]models.ServiceRequest, error) {
	reqs := []models.ServiceRequest{}

	var column string
	switch actor.Role {
	case models.RolePassenger:
		column = "user_id"
	case models.RoleMechanic:
		column = "mechanic_id"
	default:
		return reqs, nil
	}

	if err := s.db.WithContext(ctx).
		Where(column+" = ?", actor.ID).
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("list service requests: %w", err)
	}
	return reqs, nil
}

func (s *RequestService) ListPending(ctx context.Context, actor models.Actor) ([]models.ServiceRequest, error) {
	if actor.Role != models.RoleMechanic {
		return nil, apperrors.New(apperrors.ErrForbidden, "Access denied")
	}

	reqs := []models.ServiceRequest{}
	if err := s.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "phone")
		}).
		Where("status = ?", models.StatusPending).
		Order("created_at ASC").
		Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("list pending service requests: %w", err)
	}
	return reqs, nil
}

func (s *RequestService) UpdateStatus(ctx context.Context, id uuid.UUID, next models.Status, actor models.Actor) (*models.ServiceRequest, error) {
	return updateStatus[models.ServiceRequest](ctx, &s.engine, requestKind, id, next, actor)
}
