package models

import (
	"time"
)

// Daily tracker logs: one row per user per calendar day, upserted in place.
// A missing row for a day means "nothing logged yet" and aggregates as zero —
// never as an error.

// WaterLog accumulates hydration for a day.
type WaterLog struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex:idx_water_user_day;not null" json:"external_user_id"`
	Day            string `gorm:"uniqueIndex:idx_water_user_day;size:10;not null" json:"day"`

	Milliliters int  `gorm:"default:0" json:"milliliters"`
	GoalMet     bool `gorm:"default:false" json:"goal_met"` // flipped once when the goal is first reached

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// SleepLog records the previous night's sleep for a day.
type SleepLog struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex:idx_sleep_user_day;not null" json:"external_user_id"`
	Day            string `gorm:"uniqueIndex:idx_sleep_user_day;size:10;not null" json:"day"`

	Hours   float64 `gorm:"default:0" json:"hours"`
	Quality bool    `gorm:"default:false" json:"quality"` // self-reported "slept well"

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// MealLog tracks which meals were eaten on a day. Breakfast, lunch and dinner
// are the required subset for the meals goal; snack is informational.
type MealLog struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex:idx_meal_user_day;not null" json:"external_user_id"`
	Day            string `gorm:"uniqueIndex:idx_meal_user_day;size:10;not null" json:"day"`

	Breakfast bool `gorm:"default:false" json:"breakfast"`
	Lunch     bool `gorm:"default:false" json:"lunch"`
	Dinner    bool `gorm:"default:false" json:"dinner"`
	Snack     bool `gorm:"default:false" json:"snack"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// MacroLog tracks macro intake in grams for a day.
type MacroLog struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex:idx_macro_user_day;not null" json:"external_user_id"`
	Day            string `gorm:"uniqueIndex:idx_macro_user_day;size:10;not null" json:"day"`

	Protein float64 `gorm:"default:0" json:"protein"`
	Carbs   float64 `gorm:"default:0" json:"carbs"`
	Fats    float64 `gorm:"default:0" json:"fats"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// SupplementLog tracks supplement adherence for a day (taken of total scheduled).
type SupplementLog struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex:idx_supp_user_day;not null" json:"external_user_id"`
	Day            string `gorm:"uniqueIndex:idx_supp_user_day;size:10;not null" json:"day"`

	Taken        int  `gorm:"default:0" json:"taken"`
	Total        int  `gorm:"default:0" json:"total"`
	AdherenceMet bool `gorm:"default:false" json:"adherence_met"` // flipped once at >=80%

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// WorkoutLog records whether the scheduled workout was completed on a day.
type WorkoutLog struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex:idx_workout_user_day;not null" json:"external_user_id"`
	Day            string `gorm:"uniqueIndex:idx_workout_user_day;size:10;not null" json:"day"`

	Completed bool   `gorm:"default:false" json:"completed"`
	Name      string `json:"name"` // e.g., "Push Day", optional

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TrackerGoals holds each user's daily targets. Absent rows fall back to
// DefaultTrackerGoals at read time.
type TrackerGoals struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"`

	WaterMilliliters int     `gorm:"default:2000" json:"water_milliliters"`
	Protein          float64 `gorm:"default:120" json:"protein"`
	Carbs            float64 `gorm:"default:250" json:"carbs"`
	Fats             float64 `gorm:"default:70" json:"fats"`
	SleepHours       float64 `gorm:"default:8" json:"sleep_hours"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DefaultTrackerGoals is used when a user has never set goals.
func DefaultTrackerGoals(externalUserID string) TrackerGoals {
	return TrackerGoals{
		ExternalUserID:   externalUserID,
		WaterMilliliters: 2000,
		Protein:          120,
		Carbs:            250,
		Fats:             70,
		SleepHours:       8,
	}
}
