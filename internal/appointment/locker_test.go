package appointment

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLocalLockerSerialisesPerDoctor(t *testing.T) {
	l := NewLocalLocker()
	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- l.WithDoctorLock(context.Background(), "DR1", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.WithDoctorLock(ctx, "DR1", func(context.Context) error {
		t.Fatal("second holder must not enter while the first holds the lock")
		return nil
	})
	if !errors.Is(err, ErrDoctorBusy) {
		t.Fatalf("expected ErrDoctorBusy, got %v", err)
	}

	ran := false
	if err := l.WithDoctorLock(context.Background(), "DR2", func(context.Context) error {
		ran = true
		return nil
	}); err != nil || !ran {
		t.Fatalf("other doctors must not be blocked: ran=%v err=%v", ran, err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first holder: %v", err)
	}
}

func TestLocalLockerPropagatesError(t *testing.T) {
	l := NewLocalLocker()
	boom := errors.New("boom")
	if err := l.WithDoctorLock(context.Background(), "DR1", func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	// lock must be free again
	if err := l.WithDoctorLock(context.Background(), "DR1", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("relock: %v", err)
	}
}
