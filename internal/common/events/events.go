// Package events publishes domain events (signups, predictions) to a broker.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	UserSignup       = "user.signup"
	CareerPredicted  = "prediction.career"
	StreamPredicted  = "prediction.stream"
	ProfileSaved     = "profile.saved"
	PortfolioCreated = "portfolio.generated"
)

// Publisher delivers an event payload under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
	Close() error
}

// Envelope is the wire format shared by every driver.
type Envelope struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

func encode(routingKey string, payload interface{}) (string, []byte, error) {
	env := Envelope{
		ID:         uuid.New().String(),
		Type:       routingKey,
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	}
	body, err := json.Marshal(env)
	return env.ID, body, err
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

func (NopPublisher) Close() error { return nil }
