package billing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/hackgods/hospital-scheduling/internal/appointment"
	"github.com/hackgods/hospital-scheduling/internal/logging"
)

type fakeFinder struct {
	appts map[string]appointment.AppointmentDetail
}

func (f fakeFinder) FindAppointment(_ context.Context, id string) (appointment.AppointmentDetail, error) {
	a, ok := f.appts[id]
	if !ok {
		return appointment.AppointmentDetail{}, appointment.ErrAppointmentNotFound
	}
	return a, nil
}

type emitted struct {
	appointmentID string
	eventType     string
	payload       map[string]any
}

type fakeEmitter struct {
	events []emitted
}

func (f *fakeEmitter) Emit(_ context.Context, appointmentID, eventType string, payload map[string]any) {
	f.events = append(f.events, emitted{appointmentID, eventType, payload})
}

func newCalculator(emitter *fakeEmitter) *Calculator {
	finder := fakeFinder{appts: map[string]appointment.AppointmentDetail{
		"A1B2C3D": {
			Appointment: appointment.Appointment{ID: "A1B2C3D", Date: "2025-07-15", Time: "14:00", Status: appointment.StatusScheduled},
			PatientName: "Jane Doe",
			DoctorName:  "Amara Cole",
		},
	}}
	return NewCalculator(finder, emitter, logging.NewWithOutput(&bytes.Buffer{}, "info", "json"))
}

func TestComputeBill(t *testing.T) {
	cases := []struct {
		raw     string
		total   string
		coerced bool
	}{
		{"500", "3500", false},
		{" 120.50 ", "3120.5", false},
		{"0", "3000", false},
		{"-5", "3000", true},
		{"abc", "3000", true},
		{"", "3000", true},
		{"NaN", "3000", true},
		{"1e50000000", "3000", true},
		{"1e-50000000", "3000", true},
		{"12345678901234567890", "3000", true},
		{"1e3", "4000", false},
		{"00000000000000000000000000000000001", "3000", true},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			emitter := &fakeEmitter{}
			bill, err := newCalculator(emitter).ComputeBill(context.Background(), "A1B2C3D", tc.raw)
			if err != nil {
				t.Fatalf("compute: %v", err)
			}
			if bill.Total.String() != tc.total {
				t.Fatalf("expected total %s, got %s", tc.total, bill.Total)
			}
			if bill.FeeCoerced != tc.coerced {
				t.Fatalf("expected coerced=%v, got %v", tc.coerced, bill.FeeCoerced)
			}
			if tc.coerced && bill.Warning == "" {
				t.Fatal("expected a warning when coercing")
			}
			if !bill.ConsultationFee.Equal(ConsultationFee) {
				t.Fatalf("unexpected consultation fee %s", bill.ConsultationFee)
			}
			if bill.PatientName != "Jane Doe" || bill.DoctorName != "Amara Cole" || bill.Date != "2025-07-15" {
				t.Fatalf("receipt details missing: %+v", bill)
			}
			if len(emitter.events) != 1 || emitter.events[0].eventType != appointment.EventBillComputed {
				t.Fatalf("expected one bill event, got %+v", emitter.events)
			}
		})
	}
}

func TestComputeBillUnknownAppointment(t *testing.T) {
	emitter := &fakeEmitter{}
	_, err := newCalculator(emitter).ComputeBill(context.Background(), "AZZZZZZ", "500")
	if !errors.Is(err, appointment.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
	if len(emitter.events) != 0 {
		t.Fatalf("no event expected for a failed bill")
	}
}

func TestComputeBillAgainstService(t *testing.T) {
	ctx := context.Background()
	quiet := logging.NewWithOutput(&bytes.Buffer{}, "info", "json")
	svc := appointment.NewService(appointment.WithLogger(quiet))

	p, err := svc.RegisterPatient(ctx, appointment.PatientInput{Name: "Jane Doe", Age: 30})
	if err != nil {
		t.Fatalf("register patient: %v", err)
	}
	d, err := svc.RegisterDoctor(ctx, appointment.DoctorInput{Name: "Amara Cole", Age: 45, RawSlots: "2025-07-15 14:00"})
	if err != nil {
		t.Fatalf("register doctor: %v", err)
	}
	conf, err := svc.Book(ctx, p.ID, d.ID, "2025-07-15", "14:00")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	bill, err := NewCalculator(svc, svc, quiet).ComputeBill(ctx, conf.Appointment.ID, "500")
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if bill.Total.String() != "3500" {
		t.Fatalf("expected 3500, got %s", bill.Total)
	}

	after, err := svc.FindAppointment(ctx, conf.Appointment.ID)
	if err != nil || after.Status != appointment.StatusScheduled {
		t.Fatalf("billing must not change appointment state: %+v %v", after, err)
	}
}
