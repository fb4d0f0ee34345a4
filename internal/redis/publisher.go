package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hackgods/hospital-scheduling/internal/appointment"
)

// Publisher fans appointment events out over Redis pub/sub.
type Publisher struct {
	client  *redis.Client
	channel string
}

func NewPublisher(client *redis.Client, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

type eventMessage struct {
	Type          string          `json:"type"`
	AppointmentID string          `json:"appointment_id"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func encodeEvent(ev appointment.Event) ([]byte, error) {
	msg := eventMessage{
		Type:          ev.Type,
		AppointmentID: ev.AppointmentID,
		CreatedAt:     ev.CreatedAt,
	}
	if len(ev.Payload) > 0 {
		msg.Payload = json.RawMessage(ev.Payload)
	}
	return json.Marshal(msg)
}

func (p *Publisher) Record(ctx context.Context, ev appointment.Event) error {
	data, err := encodeEvent(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}
