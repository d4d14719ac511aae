package dispatch

import (
	"github.com/brightride/brightride-api/internal/apperrors"
	"github.com/brightride/brightride-api/internal/models"
)

// Policy decides whether a non-claim status change may be applied.
// The claim path (responder asking for ACCEPTED) never consults it.
type Policy interface {
	Check(cur models.Dispatchable, next models.Status, actor models.Actor) error
	// Guarded reports whether the update must be conditional on the
	// status that Check saw.
	Guarded() bool
}

// PermissivePolicy applies any status from any actor. This is the behavior
// existing clients rely on: a passenger may complete their own PENDING ride
// or re-open a CANCELLED one.
type PermissivePolicy struct{}

func (PermissivePolicy) Check(models.Dispatchable, models.Status, models.Actor) error { return nil }

func (PermissivePolicy) Guarded() bool { return false }

// StrictPolicy enforces the lifecycle graph and requires the actor to be a
// party to the entity.
type StrictPolicy struct{}

func (StrictPolicy) Check(cur models.Dispatchable, next models.Status, actor models.Actor) error {
	if !isParty(cur, actor) {
		return apperrors.New(apperrors.ErrForbidden, "Access denied")
	}
	if next == models.StatusAccepted {
		// binding a responder only happens through a claim
		return apperrors.New(apperrors.ErrForbidden, "Only the assigned responder can accept")
	}
	if cur.CurrentStatus().Terminal() {
		return apperrors.New(apperrors.ErrConflict, "Status is final")
	}
	if !cur.CurrentStatus().CanTransitionTo(next) {
		return apperrors.New(apperrors.ErrConflict, "Invalid status transition")
	}
	return nil
}

func (StrictPolicy) Guarded() bool { return true }

func isParty(cur models.Dispatchable, actor models.Actor) bool {
	if cur.OwnerID() == actor.ID {
		return true
	}
	r := cur.ResponderID()
	return r != nil && *r == actor.ID
}

func NewPolicy(strict bool) Policy {
	if strict {
		return StrictPolicy{}
	}
	return PermissivePolicy{}
}
