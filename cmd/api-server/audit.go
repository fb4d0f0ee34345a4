package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hackgods/hospital-scheduling/internal/appointment"
)

// runAudit checks the ledger against appointment statuses once at startup and
// then on every tick until ctx is done.
func runAudit(ctx context.Context, log *logrus.Logger, svc *appointment.Service, interval time.Duration) {
	if interval <= 0 {
		log.Info("consistency audit disabled")
		return
	}

	auditOnce(log, svc)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping consistency audit")
			return
		case <-ticker.C:
			auditOnce(log, svc)
		}
	}
}

func auditOnce(log *logrus.Logger, svc *appointment.Service) {
	start := time.Now()
	violations := svc.CheckConsistency()

	entry := log.WithFields(logrus.Fields{
		"operation":   "consistency_audit",
		"violations":  len(violations),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if len(violations) == 0 {
		entry.Debug("consistency audit clean")
		return
	}
	for _, v := range violations {
		entry.WithField("doctor_id", v.DoctorID).Error(v.String())
	}
}
