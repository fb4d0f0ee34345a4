package appointment

import (
	"context"
	"errors"
	"time"
)

const (
	EventAppointmentBooked    = "APPOINTMENT_BOOKED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
	EventBillComputed         = "BILL_COMPUTED"
)

type Event struct {
	Type          string
	AppointmentID string
	Payload       []byte
	CreatedAt     time.Time
}

// EventSink receives appointment lifecycle events. Sinks are write only: the
// service never reads events back.
type EventSink interface {
	Record(ctx context.Context, ev Event) error
}

// MultiSink forwards each event to every sink and joins their errors.
type MultiSink []EventSink

func (m MultiSink) Record(ctx context.Context, ev Event) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
