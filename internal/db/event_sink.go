package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/hospital-scheduling/internal/appointment"
)

const createEventLogs = `
CREATE TABLE IF NOT EXISTS event_logs (
	id             BIGSERIAL PRIMARY KEY,
	event_type     TEXT        NOT NULL,
	appointment_id TEXT,
	payload        JSONB,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EventLog is a write only audit trail of appointment events. Nothing reads
// it back into the scheduling engine.
type EventLog struct {
	pool *pgxpool.Pool
}

func NewEventLog(pool *pgxpool.Pool) *EventLog {
	return &EventLog{pool: pool}
}

// EnsureSchema creates the event table when missing.
func (l *EventLog) EnsureSchema(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, createEventLogs); err != nil {
		return fmt.Errorf("create event_logs: %w", err)
	}
	return nil
}

func (l *EventLog) Record(ctx context.Context, ev appointment.Event) error {
	var apptID *string
	if ev.AppointmentID != "" {
		apptID = &ev.AppointmentID
	}

	var payload any
	if len(ev.Payload) > 0 {
		payload = string(ev.Payload)
	}

	_, err := l.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3::jsonb, COALESCE($4, now()))
	`, ev.Type, apptID, payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
