package events

import "time"

// Domain constants
const (
	CategoryDomain   = "category"
	CategoryExchange = "catalog.category"
)

// Event names
const (
	CategoryCreatedEvent = "category.created"
	CategoryUpdatedEvent = "category.updated"
	CategoryDeletedEvent = "category.deleted"
)

// Event versions
const (
	EventVersionV1 = "v1"
)

// CategoryCreatedPayload represents the payload for category.created event
type CategoryCreatedPayload struct {
	Name      string    `json:"name"`
	ActorID   string    `json:"actorId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryUpdatedPayload represents the payload for category.updated event
type CategoryUpdatedPayload struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ActorID   string    `json:"actorId,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CategoryDeletedPayload struct {
	ID        int64     `json:"id"`
	ActorID   string    `json:"actorId,omitempty"`
	DeletedAt time.Time `json:"deletedAt"`
}
