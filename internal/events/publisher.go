package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brightride/brightride-api/internal/models"
)

const (
	KindRide           = "ride"
	KindServiceRequest = "service_request"
)

// Event describes a lifecycle change of a ride or service request.
type Event struct {
	Kind       string        `json:"kind"`
	EntityID   uuid.UUID     `json:"entityId"`
	Status     models.Status `json:"status"`
	ActorID    uuid.UUID     `json:"actorId"`
	ActorRole  models.Role   `json:"actorRole"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// RoutingKey is "<kind>.requested" for new entities and "<kind>.<status>" otherwise.
func (e Event) RoutingKey() string {
	if e.Status == models.StatusPending {
		return e.Kind + ".requested"
	}
	return e.Kind + "." + strings.ToLower(string(e.Status))
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type broker interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
}

// AMQPPublisher sends events to a topic exchange.
type AMQPPublisher struct {
	broker   broker
	exchange string
}

func NewAMQPPublisher(b broker, exchange string) *AMQPPublisher {
	return &AMQPPublisher{broker: b, exchange: exchange}
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.broker.Publish(ctx, p.exchange, e.RoutingKey(), payload); err != nil {
		return fmt.Errorf("publish %s: %w", e.RoutingKey(), err)
	}
	return nil
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory. Used by tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
