// services/scheduler.go
package services

import (
	"log"
	"time"

	"sports-prediction-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartContestScheduler periodically deactivates contests whose end time
// has passed so listings only surface live seasons.
func (s *ContestService) StartContestScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			now := time.Now()
			result := s.DB.Model(&models.Contest{}).
				Where("is_active = ? AND end_time <= ?", true, now).
				Update("is_active", false)
			if result.Error != nil {
				log.Printf("[Scheduler] DB error: %v", result.Error)
				return
			}
			if result.RowsAffected > 0 {
				log.Printf("✅ Deactivated %d ended contest(s)", result.RowsAffected)
			}
		}),
	)
}
