package main

import (
	"testing"
	"time"
)

func TestOperationMetricsStats(t *testing.T) {
	var om OperationMetrics
	for i := 1; i <= 100; i++ {
		om.Record(time.Duration(i)*time.Millisecond, i%10 != 0, i%10 == 0)
	}

	if om.Total != 100 || om.Success != 90 || om.Conflict != 10 || om.Error != 0 {
		t.Fatalf("unexpected counters total=%d success=%d conflict=%d error=%d", om.Total, om.Success, om.Conflict, om.Error)
	}

	avg, lo, hi, p50, p95 := om.Stats()
	if lo != time.Millisecond || hi != 100*time.Millisecond {
		t.Fatalf("unexpected range %s..%s", lo, hi)
	}
	if p50 != 51*time.Millisecond || p95 != 96*time.Millisecond {
		t.Fatalf("unexpected percentiles p50=%s p95=%s", p50, p95)
	}
	if avg != 50500*time.Microsecond {
		t.Fatalf("unexpected avg %s", avg)
	}
}

func TestOperationMetricsEmpty(t *testing.T) {
	var om OperationMetrics
	if avg, lo, hi, p50, p95 := om.Stats(); avg+lo+hi+p50+p95 != 0 {
		t.Fatal("expected zero stats")
	}
}
