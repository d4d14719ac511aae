package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightride/brightride-api/internal/apperrors"
	"github.com/brightride/brightride-api/internal/events"
	"github.com/brightride/brightride-api/internal/models"
)

// kind describes one dispatchable table.
type kind struct {
	event           string      // events.KindRide, events.KindServiceRequest
	label           string      // used in client messages
	responderRole   models.Role // who may claim
	responderColumn string
}

var (
	rideKind = kind{
		event:           events.KindRide,
		label:           "Ride",
		responderRole:   models.RoleDriver,
		responderColumn: "driver_id",
	}
	requestKind = kind{
		event:           events.KindServiceRequest,
		label:           "Request",
		responderRole:   models.RoleMechanic,
		responderColumn: "mechanic_id",
	}
)

type engine struct {
	db     *gorm.DB
	policy Policy
	events events.Publisher
}

// updateStatus applies a requested status to the entity with id.
//
// A responder asking for ACCEPTED claims the entity: one conditional UPDATE
// on status = PENDING binds the responder column, and zero affected rows
// means another claim won. Every other request goes through the policy.
func updateStatus[T any, PT interface {
	*T
	models.Dispatchable
}](ctx context.Context, e *engine, k kind, id uuid.UUID, next models.Status, actor models.Actor) (PT, error) {
	db := e.db.WithContext(ctx)

	cur := PT(new(T))
	if err := db.First(cur, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, k.label+" not found")
		}
		return nil, fmt.Errorf("load %s: %w", k.event, err)
	}

	if next == models.StatusAccepted && actor.Role == k.responderRole {
		res := db.Model(PT(new(T))).
			Where("id = ? AND status = ?", id, models.StatusPending).
			Updates(map[string]any{
				"status":          models.StatusAccepted,
				k.responderColumn: actor.ID,
			})
		if res.Error != nil {
			return nil, fmt.Errorf("claim %s: %w", k.event, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, apperrors.New(apperrors.ErrConflict, k.label+" already taken")
		}
	} else {
		if err := e.policy.Check(cur, next, actor); err != nil {
			return nil, err
		}
		q := db.Model(PT(new(T))).Where("id = ?", id)
		if e.policy.Guarded() {
			q = q.Where("status = ?", cur.CurrentStatus())
		}
		res := q.Update("status", next)
		if res.Error != nil {
			return nil, fmt.Errorf("update %s status: %w", k.event, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, apperrors.New(apperrors.ErrConflict, k.label+" status changed concurrently")
		}
	}

	updated := PT(new(T))
	if err := db.First(updated, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("reload %s: %w", k.event, err)
	}

	e.publish(ctx, k, id, updated.CurrentStatus(), actor)
	return updated, nil
}

// publish is best-effort; a broker outage never fails the request.
func (e *engine) publish(ctx context.Context, k kind, id uuid.UUID, status models.Status, actor models.Actor) {
	ev := events.Event{
		Kind:       k.event,
		EntityID:   id,
		Status:     status,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		OccurredAt: time.Now().UTC(),
	}
	if err := e.events.Publish(ctx, ev); err != nil {
		log.Warnw("publish dispatch event failed", "routing_key", ev.RoutingKey(), "entity_id", id, "error", err)
	}
}
