package models

import (
	"strings"

	"github.com/google/uuid"
)

// Status is the lifecycle state shared by rides and service requests.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

var transitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusCancelled},
	StatusAccepted: {StatusCompleted, StatusCancelled},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusAccepted, StatusCompleted, StatusCancelled:
		return st, true
	default:
		return "", false
	}
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether next is an edge of the lifecycle graph.
func (s Status) CanTransitionTo(next Status) bool {
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

// Dispatchable is implemented by entities that go through the
// PENDING -> ACCEPTED -> COMPLETED/CANCELLED lifecycle.
type Dispatchable interface {
	CurrentStatus() Status
	OwnerID() uuid.UUID
	ResponderID() *uuid.UUID
}
