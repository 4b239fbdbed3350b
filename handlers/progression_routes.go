// handlers/progression_routes.go
package handlers

import (
	"strconv"
	"time"

	"wellness-dashboard-system/middleware"
	"wellness-dashboard-system/models"
	"wellness-dashboard-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(
	app *fiber.App,
	progressionService *services.ProgressionService,
	dailyService *services.DailyService,
	badgeService *services.BadgeService,
	authClient *services.AuthServiceClient,
) {
	// 🔐 Secured routes — require user context (userID, roles)
	// The gateway forwards paths like /api/v1/dashboard/s/user/progress -> /s/user/progress
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prof, err := progressionService.EnsureProfile(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load progress",
				"cause": err.Error(),
			})
		}

		tier := services.LevelInfo(prof.Level)

		recent, err := progressionService.GetRecentDayRecords(userID, 30)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load day records",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"external_user_id": prof.ExternalUserID,
			"total_xp":         prof.TotalXP,
			"level":            prof.Level,
			"tier":             tier.Tier,
			"tier_badge":       tier.Badge,
			"level_progress":   services.LevelProgress(prof.TotalXP, prof.Level),
			"xp_to_next_level": services.XPToNextLevel(prof.TotalXP, prof.Level),
			"current_streak":   prof.CurrentStreak,
			"longest_streak":   prof.LongestStreak,
			"total_workouts":   prof.TotalWorkouts,
			"supplement_days":  prof.SupplementDays,
			"water_days":       prof.WaterDays,
			"perfect_days":     prof.PerfectDays,
			"last_level_up_at": prof.LastLevelUpAt,
			"recent_days":      recent,
		})
	})

	securedGroup.Get("/user/progress/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))

		entries, total, err := progressionService.GetXPHistory(userID, page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load XP history",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"entries": entries,
			"total":   total,
			"page":    page,
			"size":    size,
		})
	})

	securedGroup.Get("/user/progress/badges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type unlockedBadge struct {
			Code        string    `json:"code"`
			Name        string    `json:"name"`
			Description string    `json:"description"`
			Emoji       string    `json:"emoji"`
			Rarity      string    `json:"rarity"`
			UnlockedAt  time.Time `json:"unlocked_at"`
		}

		var unlocked []unlockedBadge
		err := badgeService.DB.
			Model(&models.UserBadge{}).
			Select("badge_types.code, badge_types.name, badge_types.description, badge_types.emoji, badge_types.rarity, user_badges.unlocked_at").
			Joins("JOIN badge_types ON badge_types.id = user_badges.badge_type_id").
			Where("user_badges.external_user_id = ?", userID).
			Order("user_badges.unlocked_at ASC").
			Scan(&unlocked).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load badges",
				"cause": err.Error(),
			})
		}

		var catalog []models.BadgeType
		if err := badgeService.DB.Order("created_at ASC").Find(&catalog).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load badge catalog",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"unlocked": unlocked,
			"catalog":  catalog,
		})
	})

	// Today's aggregated summary (recomputed on read, same path the trackers use)
	securedGroup.Get("/user/today", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		day := services.DayKey(time.Now())

		summary, err := dailyService.Evaluate(userID, day)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to evaluate today",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"day":     day,
			"summary": summary,
		})
	})

	// ✍️ Manual XP grant (admin/back-office). Deduped per (user, day, action).
	securedGroup.Post("/admin/xp/grant", middleware.RequireAdmin(), func(c *fiber.Ctx) error {
		var req struct {
			ExternalUserID string `json:"external_user_id"`
			XP             int64  `json:"xp"`
			Action         string `json:"action"`
		}
		if err := c.BodyParser(&req); err != nil || req.ExternalUserID == "" || req.XP <= 0 || req.Action == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "external_user_id, positive xp and action are required",
			})
		}

		if _, err := progressionService.EnsureProfile(req.ExternalUserID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to ensure profile",
				"cause": err.Error(),
			})
		}

		prof, err := progressionService.AwardXP(req.ExternalUserID, req.XP, req.Action)
		if err != nil {
			if err == services.ErrDuplicateAward {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "xp already granted for this action today",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to grant XP",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message":  "XP granted",
			"total_xp": prof.TotalXP,
			"level":    prof.Level,
		})
	})

	// 📡 SSE progress stream. EventSource can't set headers, so auth rides the
	// query string and is validated against the auth service.
	app.Get("/user/progress/stream", middleware.SSEAuthMiddleware(authClient), dailyService.StreamUserProgressSSE)
}
