package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/Tin21habesha/primetrade.ai-backend/ports"
)

// LogoutTopic is the topic logout events are published to.
const LogoutTopic = "auth.logout"

// LogoutEvent announces that a principal's sessions were revoked.
type LogoutEvent struct {
	PrincipalID string `json:"principal_id"`
	Revoked     int64  `json:"revoked"`
}

// WatermillPublisher implements ports.EventPublisher using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill-backed publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishLogout publishes a logout event. Failures are returned for logging
// but must not fail the logout itself.
func (p *WatermillPublisher) PublishLogout(ctx context.Context, principalID string, revoked int64) error {
	event := LogoutEvent{
		PrincipalID: principalID,
		Revoked:     revoked,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)

	if err := p.publisher.Publish(LogoutTopic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
