package services

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	cron          *cron.Cron
	audit         *AuditService
	retentionDays int
}

func NewScheduler(audit *AuditService, retentionDays int) *Scheduler {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:          cron.New(cron.WithLocation(loc)),
		audit:         audit,
		retentionDays: retentionDays,
	}
}

// Start registers the jobs and launches the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 2 * * *", s.clearOldActivityLogs); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[Scheduler] started, activity logs kept for %d days", s.retentionDays)
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) clearOldActivityLogs() {
	removed, err := s.audit.ClearOldEntries(s.retentionDays)
	if err != nil {
		log.Printf("[Scheduler] activity log cleanup failed: %v", err)
		return
	}
	log.Printf("[Scheduler] activity log cleanup removed %d entries", removed)
}
