package db

import (
	"testing"
	"time"
)

func TestNullableTime(t *testing.T) {
	if nullableTime(time.Time{}) != nil {
		t.Fatal("zero time should map to NULL")
	}
	now := time.Date(2025, 7, 15, 14, 0, 0, 0, time.UTC)
	if got := nullableTime(now); got == nil || !got.Equal(now) {
		t.Fatalf("expected %s, got %v", now, got)
	}
}
