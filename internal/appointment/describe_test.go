package appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestDescribePatient(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	p := mustPatient(t, s, "Jane Doe", 30)
	d := mustDoctor(t, s, "Amara Cole", 45, "2025-07-15 14:00,2025-07-16 09:00")

	empty, err := s.DescribePatient(ctx, p.ID)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	wantEmpty := fmt.Sprintf("Patient ID: %s\nName: Jane Doe, Age: 30, Gender: F\nNo appointments.\n", p.ID)
	if empty != wantEmpty {
		t.Fatalf("unexpected profile:\n%s\nwant:\n%s", empty, wantEmpty)
	}

	first, err := s.Book(ctx, p.ID, d.ID, "2025-07-15", "14:00")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	second, err := s.Book(ctx, p.ID, d.ID, "2025-07-16", "09:00")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if _, err := s.Cancel(ctx, first.Appointment.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	got, err := s.DescribePatient(ctx, p.ID)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	want := fmt.Sprintf("Patient ID: %s\nName: Jane Doe, Age: 30, Gender: F\nAppointments:\n"+
		" - %s: Dr. Amara Cole on 2025-07-15 at 14:00 (Cancelled)\n"+
		" - %s: Dr. Amara Cole on 2025-07-16 at 09:00 (Scheduled)\n",
		p.ID, first.Appointment.ID, second.Appointment.ID)
	if got != want {
		t.Fatalf("unexpected profile:\n%s\nwant:\n%s", got, want)
	}
}

func TestDescribeDoctor(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	p := mustPatient(t, s, "Jane Doe", 30)
	d := mustDoctor(t, s, "Amara Cole", 45, "2025-07-15 14:00,2025-07-16 09:00")

	if _, err := s.Book(ctx, p.ID, d.ID, "2025-07-15", "14:00"); err != nil {
		t.Fatalf("book: %v", err)
	}

	got, err := s.DescribeDoctor(ctx, d.ID)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	want := fmt.Sprintf("Doctor ID: %s\nName: Amara Cole, Age: 45, Gender: F\nSpecialty: Cardiology\nAvailable Slots:\n - 2025-07-16 09:00\n", d.ID)
	if got != want {
		t.Fatalf("unexpected schedule:\n%s\nwant:\n%s", got, want)
	}
}

func TestDescribeUnknown(t *testing.T) {
	s := newTestService(t)
	if _, err := s.DescribePatient(context.Background(), "P000000"); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
	if _, err := s.DescribeDoctor(context.Background(), "DR000000"); !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}
