package models

import (
	"time"

	"gorm.io/gorm"
)

// UserProfile tracks gamified progression for each user (denormalized for performance)
type UserProfile struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // links to profile service

	// Core progression
	TotalXP int64 `json:"total_xp" gorm:"default:0"`
	Level   int   `json:"level" gorm:"default:1"`

	// Streaks (consecutive core-complete days)
	CurrentStreak int `json:"current_streak" gorm:"default:0"`
	LongestStreak int `json:"longest_streak" gorm:"default:0"`

	// Activity counters
	TotalWorkouts  int64 `json:"total_workouts" gorm:"default:0"`
	SupplementDays int64 `json:"supplement_days" gorm:"default:0"` // days with >=80% adherence
	WaterDays      int64 `json:"water_days" gorm:"default:0"`      // days the hydration goal was hit
	PerfectDays    int64 `json:"perfect_days" gorm:"default:0"`    // days with every goal complete

	// Milestones
	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
