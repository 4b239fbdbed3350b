// services/scheduler.go
package services

import (
	"log"
	"time"

	"wellness-dashboard-system/models"

	"github.com/go-co-op/gocron/v2"
)

func (s *CatalogService) StartPublishScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: publish scheduled products
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var products []models.Product
			now := time.Now()
			err := s.DB.Where("status = ? AND publish_at <= ?", models.ProductStatusScheduled, now).
				Find(&products).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, p := range products {
				p.Status = models.ProductStatusPublished
				p.PublishAt = nil
				if err := s.DB.Save(&p).Error; err != nil {
					log.Printf("[Scheduler] Failed to publish product %s: %v", p.ID, err)
				} else {
					log.Printf("✅ Auto-published product: %s", p.Name)
				}
			}
		}),
	)
}

// StartRolloverScheduler finalizes the previous calendar day shortly after
// midnight UTC: day records are re-evaluated and broken streaks reset.
func (s *DailyService) StartRolloverScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(func() {
			log.Println("[Rollover] Finalizing previous day...")
			s.RolloverDay()
		}),
	)
}
