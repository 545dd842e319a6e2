// Package notification publishes marketplace domain events to MQTT so that
// downstream consumers (mailers, push gateways, the web client) can react.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"artmarket/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EventUserBlocked        = "user.blocked"
	EventArtworkModerated   = "artwork.moderated"
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is addressed to one recipient user.
type Event struct {
	ID          uuid.UUID              `json:"id"`
	Type        string                 `json:"type"`
	RecipientID uuid.UUID              `json:"recipientId"`
	Data        map[string]interface{} `json:"data,omitempty"`
	OccurredAt  time.Time              `json:"occurredAt"`
}

func NewEvent(eventType string, recipientID uuid.UUID, data map[string]interface{}) Event {
	return Event{
		ID:          uuid.New(),
		Type:        eventType,
		RecipientID: recipientID,
		Data:        data,
		OccurredAt:  time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// messageClient is the subset of pkg/mqtt.Client the publisher needs.
type messageClient interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

type MQTTPublisher struct {
	client      messageClient
	topicPrefix string
	qos         byte
}

func NewMQTTPublisher(client messageClient, topicPrefix string, qos byte) *MQTTPublisher {
	return &MQTTPublisher{
		client:      client,
		topicPrefix: strings.TrimSuffix(topicPrefix, "/"),
		qos:         qos,
	}
}

// Topic is <prefix>/users/<recipient>/<event type>.
func (p *MQTTPublisher) Topic(event Event) string {
	return fmt.Sprintf("%s/users/%s/%s", p.topicPrefix, event.RecipientID, event.Type)
}

func (p *MQTTPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	topic := p.Topic(event)
	if err := p.client.Publish(topic, p.qos, false, payload); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	logger.Debug("Event published",
		zap.String("topic", topic),
		zap.String("event", event.Type),
		zap.String("event_id", event.ID.String()),
	)

	return nil
}

// NopPublisher only logs events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(_ context.Context, event Event) error {
	logger.Debug("Event dropped, no broker configured",
		zap.String("event", event.Type),
		zap.String("recipient_id", event.RecipientID.String()),
	)
	return nil
}
