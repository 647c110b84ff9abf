package services

import (
	"context"
	"time"

	"catalog/internal/models"
)

const (
	EventProductCreated = "product.created"
	EventProductDeleted = "product.deleted"
)

// ProductEvent is published after every successful catalog mutation.
type ProductEvent struct {
	Event      string         `json:"event"`
	Product    models.Product `json:"product"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// EventPublisher delivers product events to a message broker. The payload is
// encoded by the publisher.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
