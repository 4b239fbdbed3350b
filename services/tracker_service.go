package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"wellness-dashboard-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrackerService owns the daily tracker logs (water, sleep, meals, macros,
// supplements, workout). Every mutation re-runs the daily aggregator so the
// day record, streaks, and perfect-day bonus stay current without polling.
type TrackerService struct {
	DB          *gorm.DB
	Daily       *DailyService
	Progression *ProgressionService
}

func NewTrackerService(db *gorm.DB, daily *DailyService, progression *ProgressionService) *TrackerService {
	return &TrackerService{DB: db, Daily: daily, Progression: progression}
}

func (s *TrackerService) respondWithSummary(c *fiber.Ctx, userID, day string, extra fiber.Map) error {
	summary, err := s.Daily.Evaluate(userID, day)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to evaluate day",
			"cause": err.Error(),
		})
	}
	resp := fiber.Map{
		"day":     day,
		"summary": summary,
	}
	for k, v := range extra {
		resp[k] = v
	}
	return c.JSON(resp)
}

// AddWater adds milliliters to today's hydration log.
func (s *TrackerService) AddWater(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	day := DayKey(time.Now())

	var req struct {
		Milliliters int `json:"milliliters"`
	}
	if err := c.BodyParser(&req); err != nil || req.Milliliters <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "milliliters must be a positive integer"})
	}

	// Profile must exist before the counter update and XP award below.
	if _, err := s.Progression.EnsureProfile(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to ensure profile",
			"cause": err.Error(),
		})
	}

	goals := s.Daily.Goals(userID)

	var water models.WaterLog
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("external_user_id = ? AND day = ?", userID, day).First(&water).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			water = models.WaterLog{ExternalUserID: userID, Day: day}
		}
		water.Milliliters += req.Milliliters

		if !water.GoalMet && water.Milliliters >= goals.WaterMilliliters {
			water.GoalMet = true
			if err := tx.Model(&models.UserProfile{}).
				Where("external_user_id = ?", userID).
				UpdateColumn("water_days", gorm.Expr("water_days + 1")).Error; err != nil {
				return err
			}
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}, {Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"milliliters", "goal_met", "updated_at"}),
		}).Create(&water).Error
	})
	if err != nil {
		log.Printf("DB Error logging water: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to log water"})
	}

	if water.GoalMet {
		// Small daily bonus the first time the goal is hit; engine dedupes.
		if _, err := s.Progression.AwardXP(userID, DefaultXPWeights.WaterGoalXP, "water_goal"); err != nil &&
			!errors.Is(err, ErrDuplicateAward) {
			log.Printf("Water XP award failed for %s: %v", userID, err)
		}
	}

	return s.respondWithSummary(c, userID, day, fiber.Map{"water": water})
}

// LogSleep records last night's sleep on today's log.
func (s *TrackerService) LogSleep(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	day := DayKey(time.Now())

	var req struct {
		Hours   float64 `json:"hours"`
		Quality bool    `json:"quality"`
	}
	if err := c.BodyParser(&req); err != nil || req.Hours < 0 || req.Hours > 24 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "hours must be between 0 and 24"})
	}

	sleep := models.SleepLog{
		ExternalUserID: userID,
		Day:            day,
		Hours:          req.Hours,
		Quality:        req.Quality,
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_user_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"hours", "quality", "updated_at"}),
	}).Create(&sleep).Error; err != nil {
		log.Printf("DB Error logging sleep: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to log sleep"})
	}

	return s.respondWithSummary(c, userID, day, fiber.Map{"sleep": sleep})
}

// LogMeal marks a single meal as eaten (or not) on today's log.
func (s *TrackerService) LogMeal(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	day := DayKey(time.Now())

	var req struct {
		Meal  string `json:"meal"`
		Eaten bool   `json:"eaten"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var meals models.MealLog
	if err := s.DB.Where("external_user_id = ? AND day = ?", userID, day).First(&meals).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		meals = models.MealLog{ExternalUserID: userID, Day: day}
	}

	switch strings.ToLower(strings.TrimSpace(req.Meal)) {
	case "breakfast":
		meals.Breakfast = req.Eaten
	case "lunch":
		meals.Lunch = req.Eaten
	case "dinner":
		meals.Dinner = req.Eaten
	case "snack":
		meals.Snack = req.Eaten
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "meal must be breakfast, lunch, dinner or snack"})
	}

	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_user_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"breakfast", "lunch", "dinner", "snack", "updated_at"}),
	}).Create(&meals).Error; err != nil {
		log.Printf("DB Error logging meal: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to log meal"})
	}

	return s.respondWithSummary(c, userID, day, fiber.Map{"meals": meals})
}

// LogMacros sets today's macro totals in grams.
func (s *TrackerService) LogMacros(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	day := DayKey(time.Now())

	var req struct {
		Protein float64 `json:"protein"`
		Carbs   float64 `json:"carbs"`
		Fats    float64 `json:"fats"`
	}
	if err := c.BodyParser(&req); err != nil || req.Protein < 0 || req.Carbs < 0 || req.Fats < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "macros must be non-negative"})
	}

	macros := models.MacroLog{
		ExternalUserID: userID,
		Day:            day,
		Protein:        req.Protein,
		Carbs:          req.Carbs,
		Fats:           req.Fats,
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_user_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"protein", "carbs", "fats", "updated_at"}),
	}).Create(&macros).Error; err != nil {
		log.Printf("DB Error logging macros: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to log macros"})
	}

	return s.respondWithSummary(c, userID, day, fiber.Map{"macros": macros})
}

// LogSupplements sets today's supplement adherence (taken of total).
func (s *TrackerService) LogSupplements(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	day := DayKey(time.Now())

	var req struct {
		Taken int `json:"taken"`
		Total int `json:"total"`
	}
	if err := c.BodyParser(&req); err != nil || req.Taken < 0 || req.Total <= 0 || req.Taken > req.Total {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "taken must be within 0..total, total positive"})
	}

	if _, err := s.Progression.EnsureProfile(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to ensure profile",
			"cause": err.Error(),
		})
	}

	var supp models.SupplementLog
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("external_user_id = ? AND day = ?", userID, day).First(&supp).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			supp = models.SupplementLog{ExternalUserID: userID, Day: day}
		}
		supp.Taken = req.Taken
		supp.Total = req.Total

		adherent := float64(supp.Taken) >= SupplementAdherenceRate*float64(supp.Total)
		if !supp.AdherenceMet && adherent {
			supp.AdherenceMet = true
			if err := tx.Model(&models.UserProfile{}).
				Where("external_user_id = ?", userID).
				UpdateColumn("supplement_days", gorm.Expr("supplement_days + 1")).Error; err != nil {
				return err
			}
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}, {Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"taken", "total", "adherence_met", "updated_at"}),
		}).Create(&supp).Error
	})
	if err != nil {
		log.Printf("DB Error logging supplements: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to log supplements"})
	}

	if supp.AdherenceMet {
		if _, err := s.Progression.AwardXP(userID, DefaultXPWeights.SupplementXP, "supplements_taken"); err != nil &&
			!errors.Is(err, ErrDuplicateAward) {
			log.Printf("Supplement XP award failed for %s: %v", userID, err)
		}
	}

	return s.respondWithSummary(c, userID, day, fiber.Map{"supplements": supp})
}

// CompleteWorkout marks today's scheduled workout as done.
func (s *TrackerService) CompleteWorkout(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	day := DayKey(time.Now())

	var req struct {
		Name string `json:"name"`
	}
	_ = c.BodyParser(&req) // name is optional

	if _, err := s.Progression.EnsureProfile(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to ensure profile",
			"cause": err.Error(),
		})
	}

	var workout models.WorkoutLog
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("external_user_id = ? AND day = ?", userID, day).First(&workout).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			workout = models.WorkoutLog{ExternalUserID: userID, Day: day}
		}
		if req.Name != "" {
			workout.Name = req.Name
		}
		if !workout.Completed {
			workout.Completed = true
			if err := tx.Model(&models.UserProfile{}).
				Where("external_user_id = ?", userID).
				UpdateColumn("total_workouts", gorm.Expr("total_workouts + 1")).Error; err != nil {
				return err
			}
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}, {Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed", "name", "updated_at"}),
		}).Create(&workout).Error
	})
	if err != nil {
		log.Printf("DB Error completing workout: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to complete workout"})
	}

	if _, err := s.Progression.AwardXP(userID, DefaultXPWeights.WorkoutXP, "workout_complete"); err != nil &&
		!errors.Is(err, ErrDuplicateAward) {
		log.Printf("Workout XP award failed for %s: %v", userID, err)
	}

	return s.respondWithSummary(c, userID, day, fiber.Map{"workout": workout})
}

// GetGoals returns the user's daily targets (defaults when never set).
func (s *TrackerService) GetGoals(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	return c.JSON(s.Daily.Goals(userID))
}

// UpdateGoals upserts the user's daily targets.
func (s *TrackerService) UpdateGoals(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		WaterMilliliters *int     `json:"water_milliliters"`
		Protein          *float64 `json:"protein"`
		Carbs            *float64 `json:"carbs"`
		Fats             *float64 `json:"fats"`
		SleepHours       *float64 `json:"sleep_hours"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	goals := s.Daily.Goals(userID)
	if req.WaterMilliliters != nil && *req.WaterMilliliters > 0 {
		goals.WaterMilliliters = *req.WaterMilliliters
	}
	if req.Protein != nil && *req.Protein > 0 {
		goals.Protein = *req.Protein
	}
	if req.Carbs != nil && *req.Carbs > 0 {
		goals.Carbs = *req.Carbs
	}
	if req.Fats != nil && *req.Fats > 0 {
		goals.Fats = *req.Fats
	}
	if req.SleepHours != nil && *req.SleepHours > 0 {
		goals.SleepHours = *req.SleepHours
	}

	if err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"water_milliliters", "protein", "carbs", "fats", "sleep_hours", "updated_at",
		}),
	}).Create(&goals).Error; err != nil {
		log.Printf("DB Error updating goals: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update goals"})
	}

	return c.JSON(goals)
}
