package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"wellness-dashboard-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// progressEvent is the SSE payload for a daily-progress change.
type progressEvent struct {
	Day              string  `json:"day"`
	Complete         bool    `json:"complete"`
	PerfectDay       bool    `json:"perfect_day"`
	ConsistencyScore float64 `json:"consistency_score"`
	TotalXP          int64   `json:"total_xp"`
	Level            int     `json:"level"`
	CurrentStreak    int     `json:"current_streak"`
}

// StreamUserProgressSSE streams daily-progress and XP updates for the
// authenticated user. Dashboards subscribe here instead of polling the state
// every second or two.
func (s *DailyService) StreamUserProgressSSE(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	// Use fasthttp stream writer (THIS replaces Flush)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		var lastChange time.Time

		// Initialize cursor from the most recent day record.
		var latest models.DayRecord
		if err := s.DB.
			Where("external_user_id = ?", userID).
			Order("updated_at DESC").
			First(&latest).Error; err == nil {
			lastChange = latest.UpdatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("SSE init error for user %s: %v", userID, err)
		}

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				var changed []models.DayRecord

				err := s.DB.
					Where("external_user_id = ?", userID).
					Where("updated_at > ?", lastChange).
					Order("updated_at ASC").
					Find(&changed).Error
				if err != nil {
					log.Printf("SSE query error for user %s: %v", userID, err)
					continue
				}

				if len(changed) == 0 {
					continue
				}

				lastChange = changed[len(changed)-1].UpdatedAt

				var prof models.UserProfile
				if err := s.DB.Where("external_user_id = ?", userID).First(&prof).Error; err != nil {
					log.Printf("SSE profile error for user %s: %v", userID, err)
					continue
				}

				for _, r := range changed {
					payload, _ := json.Marshal(progressEvent{
						Day:              r.Day,
						Complete:         r.Complete,
						PerfectDay:       r.PerfectDay,
						ConsistencyScore: r.ConsistencyScore,
						TotalXP:          prof.TotalXP,
						Level:            prof.Level,
						CurrentStreak:    prof.CurrentStreak,
					})

					fmt.Fprintf(w,
						"event: progress\ndata: %s\n\n",
						payload,
					)
				}

				// This is the REAL "flush"
				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-c.Context().Done():
				// Client closed connection
				return
			}
		}
	})

	return nil
}
