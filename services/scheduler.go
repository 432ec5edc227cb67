// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRollupScheduler runs the analytics rollup hourly for the current day
// and shortly after midnight for the day that just closed.
func (s *AnalyticsService) StartRollupScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every hour: refresh today's row so the dashboard stays fresh.
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			if err := s.RollupDay(time.Now().UTC()); err != nil {
				log.Printf("[ANALYTICS] hourly rollup failed: %v", err)
			}
		}),
	)

	// Daily at 00:10 UTC: finalize yesterday.
	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 10, 0))),
		gocron.NewTask(func() {
			if err := s.RollupDay(time.Now().UTC().AddDate(0, 0, -1)); err != nil {
				log.Printf("[ANALYTICS] daily rollup failed: %v", err)
			}
		}),
	)
}
