package services

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wellness-dashboard-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory sqlite database. The schema is created
// by hand because the models declare Postgres uuid defaults sqlite can't parse.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	schema := []string{
		`CREATE TABLE user_profiles (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			external_user_id TEXT NOT NULL UNIQUE,
			total_xp INTEGER DEFAULT 0,
			level INTEGER DEFAULT 1,
			current_streak INTEGER DEFAULT 0,
			longest_streak INTEGER DEFAULT 0,
			total_workouts INTEGER DEFAULT 0,
			supplement_days INTEGER DEFAULT 0,
			water_days INTEGER DEFAULT 0,
			perfect_days INTEGER DEFAULT 0,
			last_level_up_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE xp_entries (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			external_user_id TEXT NOT NULL,
			day TEXT NOT NULL,
			action TEXT NOT NULL,
			xp INTEGER NOT NULL,
			created_at DATETIME,
			UNIQUE (external_user_id, day, action)
		)`,
		`CREATE TABLE day_records (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			external_user_id TEXT NOT NULL,
			day TEXT NOT NULL,
			complete NUMERIC DEFAULT 0,
			perfect_day NUMERIC DEFAULT 0,
			core_score REAL DEFAULT 0,
			bonus_score REAL DEFAULT 0,
			consistency_score REAL DEFAULT 0,
			xp INTEGER DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (external_user_id, day)
		)`,
		`CREATE TABLE workout_logs (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			external_user_id TEXT NOT NULL,
			day TEXT NOT NULL,
			completed NUMERIC DEFAULT 0,
			name TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (external_user_id, day)
		)`,
		`CREATE TABLE water_logs (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			external_user_id TEXT NOT NULL,
			day TEXT NOT NULL,
			milliliters INTEGER DEFAULT 0,
			goal_met NUMERIC DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (external_user_id, day)
		)`,
		`CREATE TABLE supplement_logs (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			external_user_id TEXT NOT NULL,
			day TEXT NOT NULL,
			taken INTEGER DEFAULT 0,
			total INTEGER DEFAULT 0,
			adherence_met NUMERIC DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (external_user_id, day)
		)`,
		`CREATE TABLE meal_logs (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			external_user_id TEXT NOT NULL,
			day TEXT NOT NULL,
			breakfast NUMERIC DEFAULT 0,
			lunch NUMERIC DEFAULT 0,
			dinner NUMERIC DEFAULT 0,
			snack NUMERIC DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (external_user_id, day)
		)`,
		`CREATE TABLE macro_logs (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			external_user_id TEXT NOT NULL,
			day TEXT NOT NULL,
			protein REAL DEFAULT 0,
			carbs REAL DEFAULT 0,
			fats REAL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (external_user_id, day)
		)`,
		`CREATE TABLE sleep_logs (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			external_user_id TEXT NOT NULL,
			day TEXT NOT NULL,
			hours REAL DEFAULT 0,
			quality NUMERIC DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (external_user_id, day)
		)`,
		`CREATE TABLE tracker_goals (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			external_user_id TEXT NOT NULL UNIQUE,
			water_milliliters INTEGER DEFAULT 2000,
			protein REAL DEFAULT 120,
			carbs REAL DEFAULT 250,
			fats REAL DEFAULT 70,
			sleep_hours REAL DEFAULT 8,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE badge_types (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			code TEXT NOT NULL UNIQUE,
			name TEXT,
			description TEXT,
			emoji TEXT,
			rarity TEXT,
			threshold TEXT,
			created_at DATETIME
		)`,
		`CREATE TABLE user_badges (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			external_user_id TEXT NOT NULL,
			badge_type_id TEXT NOT NULL,
			unlocked_at DATETIME,
			UNIQUE (external_user_id, badge_type_id)
		)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to create schema: %v", err)
		}
	}
	return db
}

func TestAwardXPDuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	if _, err := svc.EnsureProfile("user-1"); err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}

	prof, err := svc.AwardXP("user-1", DefaultXPWeights.WorkoutXP, "workout_complete")
	if err != nil {
		t.Fatalf("first AwardXP: %v", err)
	}
	if prof.TotalXP != DefaultXPWeights.WorkoutXP {
		t.Fatalf("TotalXP = %d, want %d", prof.TotalXP, DefaultXPWeights.WorkoutXP)
	}

	// Same (user, day, action) again: rejected, state untouched.
	if _, err := svc.AwardXP("user-1", DefaultXPWeights.WorkoutXP, "workout_complete"); !errors.Is(err, ErrDuplicateAward) {
		t.Fatalf("second AwardXP error = %v, want ErrDuplicateAward", err)
	}

	var after models.UserProfile
	if err := db.Where("external_user_id = ?", "user-1").First(&after).Error; err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if after.TotalXP != DefaultXPWeights.WorkoutXP {
		t.Errorf("TotalXP after duplicate = %d, want %d (unchanged)", after.TotalXP, DefaultXPWeights.WorkoutXP)
	}

	var entries int64
	db.Model(&models.XPEntry{}).Where("external_user_id = ?", "user-1").Count(&entries)
	if entries != 1 {
		t.Errorf("ledger has %d entries, want 1", entries)
	}

	// A different action on the same day still lands.
	if _, err := svc.AwardXP("user-1", DefaultXPWeights.WaterGoalXP, "water_goal"); err != nil {
		t.Errorf("distinct action rejected: %v", err)
	}
}

func TestEvaluateDerivesDayXPFromLedger(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)
	daily := NewDailyService(db, svc)

	if _, err := svc.EnsureProfile("user-1"); err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}

	// Awards land before any day record exists.
	if _, err := svc.AwardXP("user-1", DefaultXPWeights.WorkoutXP, "workout_complete"); err != nil {
		t.Fatalf("AwardXP workout: %v", err)
	}
	if _, err := svc.AwardXP("user-1", DefaultXPWeights.WaterGoalXP, "water_goal"); err != nil {
		t.Fatalf("AwardXP water: %v", err)
	}

	day := DayKey(time.Now())
	if _, err := daily.Evaluate("user-1", day); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	var rec models.DayRecord
	if err := db.Where("external_user_id = ? AND day = ?", "user-1", day).First(&rec).Error; err != nil {
		t.Fatalf("load day record: %v", err)
	}
	want := DefaultXPWeights.WorkoutXP + DefaultXPWeights.WaterGoalXP
	if rec.XP != want {
		t.Errorf("DayRecord.XP = %d, want %d (ledger sum)", rec.XP, want)
	}
}

func TestFirstWorkoutCreatesProfileAndCounts(t *testing.T) {
	db := newTestDB(t)
	prog := NewProgressionService(db)
	daily := NewDailyService(db, prog)
	tracker := NewTrackerService(db, daily, prog)

	app := fiber.New()
	withUser := func(c *fiber.Ctx) error {
		c.Locals("user_id", "new-user")
		return c.Next()
	}
	app.Post("/workout", withUser, tracker.CompleteWorkout)
	app.Post("/supplements", withUser, tracker.LogSupplements)

	// Very first request from a user who has no profile row yet.
	req := httptest.NewRequest("POST", "/workout", strings.NewReader(`{"name":"Push Day"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("workout request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("workout status = %d, want 200", resp.StatusCode)
	}

	var prof models.UserProfile
	if err := db.Where("external_user_id = ?", "new-user").First(&prof).Error; err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	if prof.TotalWorkouts != 1 {
		t.Errorf("TotalWorkouts = %d, want 1", prof.TotalWorkouts)
	}
	if prof.TotalXP != DefaultXPWeights.WorkoutXP {
		t.Errorf("TotalXP = %d, want %d", prof.TotalXP, DefaultXPWeights.WorkoutXP)
	}

	day := DayKey(time.Now())
	var rec models.DayRecord
	if err := db.Where("external_user_id = ? AND day = ?", "new-user", day).First(&rec).Error; err != nil {
		t.Fatalf("day record not created: %v", err)
	}
	if rec.XP != DefaultXPWeights.WorkoutXP {
		t.Errorf("DayRecord.XP = %d, want %d", rec.XP, DefaultXPWeights.WorkoutXP)
	}

	// Supplement adherence on the same fresh profile bumps its own counter.
	req = httptest.NewRequest("POST", "/supplements", strings.NewReader(`{"taken":4,"total":5}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, 5000)
	if err != nil {
		t.Fatalf("supplements request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("supplements status = %d, want 200", resp.StatusCode)
	}

	if err := db.Where("external_user_id = ?", "new-user").First(&prof).Error; err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if prof.SupplementDays != 1 {
		t.Errorf("SupplementDays = %d, want 1", prof.SupplementDays)
	}
	if want := DefaultXPWeights.WorkoutXP + DefaultXPWeights.SupplementXP; prof.TotalXP != want {
		t.Errorf("TotalXP = %d, want %d", prof.TotalXP, want)
	}
}
