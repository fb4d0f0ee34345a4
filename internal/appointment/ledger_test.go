package appointment

import (
	"context"
	"errors"
	"testing"
)

func TestParseSlots(t *testing.T) {
	cases := map[string][]string{
		"":                                     nil,
		" , ,":                                 nil,
		"2025-07-15 14:00":                     {"2025-07-15 14:00"},
		"2025-07-15 14:00 , 2025-07-16 09:00 ": {"2025-07-15 14:00", "2025-07-16 09:00"},
		"a,b,a,c":                              {"a", "b", "c"},
	}
	for raw, want := range cases {
		if got := ParseSlots(raw); !equalStrings(got, want) {
			t.Errorf("ParseSlots(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestLedgerTakeAndRelease(t *testing.T) {
	l := newLedger()
	l.open("DR1", []string{"s1", "s2"})

	if !l.take("DR1", "s1") {
		t.Fatal("expected take to succeed")
	}
	if l.take("DR1", "s1") {
		t.Fatal("slot taken twice")
	}
	if l.isOpen("DR1", "s1") {
		t.Fatal("taken slot still open")
	}
	if !l.release("DR1", "s1") {
		t.Fatal("expected release to reopen")
	}
	if l.release("DR1", "s1") {
		t.Fatal("release must not duplicate an open slot")
	}
	if got := l.openSlots("DR1"); !equalStrings(got, []string{"s2", "s1"}) {
		t.Fatalf("expected reopened slot appended, got %v", got)
	}
	if l.take("DR9", "s1") {
		t.Fatal("unknown doctor has no slots")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	_, err := NewDoctor("DR000001", DoctorInput{Name: "4", Age: 81})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	want := "validation failed: age: age must be at most 80; name: name must be non-empty and contain only letters and spaces"
	if vErr.Error() != want {
		t.Fatalf("unexpected message %q", vErr.Error())
	}
	if !errors.Is(err, ErrInvalidAge) || !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected both kinds, got %v", err)
	}
	if ErrorKind(err) != "validation" {
		t.Fatalf("unexpected kind %s", ErrorKind(err))
	}
}

func TestMergeValidation(t *testing.T) {
	_, ageErr := ParseAge("thirty")
	err := MergeValidation(ageErr, CheckName("J4ne"), nil)

	want := "validation failed: age: age must be a whole number; name: " + nameMessage
	if err == nil || err.Error() != want {
		t.Fatalf("unexpected merged error %v", err)
	}
	if !errors.Is(err, ErrInvalidAge) || !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected both kinds, got %v", err)
	}

	if err := MergeValidation(ageErr, CheckName("Jane Doe")); !errors.Is(err, ErrInvalidAge) || errors.Is(err, ErrInvalidName) {
		t.Fatalf("a valid name must not add a name error, got %v", err)
	}
	if err := MergeValidation(nil, CheckName("Jane")); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	other := errors.New("boom")
	if err := MergeValidation(ageErr, other); err != other {
		t.Fatalf("non validation errors pass through, got %v", err)
	}
}

func TestErrorKind(t *testing.T) {
	cases := map[error]string{
		nil:                  "",
		ErrPatientNotFound:   "not_found",
		ErrSlotAlreadyBooked: "conflict",
		ErrAlreadyCancelled:  "conflict",
		ErrDoctorBusy:        "busy",
		context.Canceled:     "unexpected",
	}
	for err, want := range cases {
		if got := ErrorKind(err); got != want {
			t.Errorf("ErrorKind(%v) = %q, want %q", err, got, want)
		}
	}
}
