package service

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/wojo-o/inker-sub001/internal/cache"
	"github.com/wojo-o/inker-sub001/internal/domain"
	"github.com/wojo-o/inker-sub001/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Scheduler — periodic maintenance jobs
// ─────────────────────────────────────────────────────────────

// Scheduler runs two background jobs: sweeping expired lookup cache
// entries, and pre-rendering designs for devices flagged refresh
// pending so their next poll is a cache hit.
type Scheduler struct {
	renderer *RenderService
	devices  *storage.DeviceStore
	lookups  *cache.TTLCache

	sched *cron.Cron
}

func NewScheduler(renderer *RenderService, devices *storage.DeviceStore, lookups *cache.TTLCache) *Scheduler {
	return &Scheduler{renderer: renderer, devices: devices, lookups: lookups}
}

// Start registers and starts the cron jobs. Invalid expressions are a
// programming error and reported at startup.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New()

	if _, err := c.AddFunc("@hourly", func() {
		if n := s.lookups.Sweep(); n > 0 {
			log.Printf("scheduler: swept %d stale lookup entries", n)
		}
	}); err != nil {
		return err
	}

	if _, err := c.AddFunc("@every 1m", func() {
		s.warmPending(ctx)
	}); err != nil {
		return err
	}

	c.Start()
	s.sched = c
	return nil
}

// warmPending re-renders the assigned design of every refresh-pending
// device. The device keeps its flag until it polls; this job only
// makes sure the capture is ready when it does.
func (s *Scheduler) warmPending(ctx context.Context) {
	devices, err := s.devices.ListRefreshPending()
	if err != nil {
		log.Printf("scheduler: list refresh-pending devices: %v", err)
		return
	}

	rendered := make(map[string]bool)
	for _, d := range devices {
		if d.DesignID == "" || rendered[d.DesignID] {
			continue
		}
		rendered[d.DesignID] = true
		if _, err := s.renderer.RenderDesign(ctx, d.DesignID, domain.ModeDevice, d.Context()); err != nil {
			log.Printf("scheduler: pre-render design %s for device %s failed: %v", d.DesignID, d.ID, err)
		}
	}
	if len(rendered) > 0 {
		log.Printf("scheduler: pre-rendered %d design(s) for pending devices", len(rendered))
	}
}

// Stop halts the cron jobs, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	if s.sched != nil {
		<-s.sched.Stop().Done()
		s.sched = nil
	}
}
