package models

import (
	"time"
)

// BadgeType: static achievement catalog (seeded into DB at startup)
type BadgeType struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code        string `gorm:"uniqueIndex;not null"` // e.g., "STREAK_7", "WORKOUT_50"
	Name        string `gorm:"not null"`             // "Week Warrior", "Iron Fifty"
	Description string
	Emoji       string           `gorm:"size:10"`
	Rarity      string           `gorm:"type:varchar(16);default:'common'"` // common, rare, epic, legendary
	Threshold   map[string]int64 `gorm:"type:jsonb;serializer:json"`        // e.g., {"streak_days": 7}, {"total_workouts": 50}
	CreatedAt   time.Time        `gorm:"autoCreateTime"`
}

// UserBadge: awarded instance (many-to-many). A badge code can only ever be
// unlocked once per user; unlock is monotonic.
type UserBadge struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string    `gorm:"uniqueIndex:idx_user_badge;not null" json:"external_user_id"`
	BadgeTypeID    string    `gorm:"uniqueIndex:idx_user_badge;not null" json:"badge_type_id"`
	UnlockedAt     time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

// Predefined badge triggers. Condition kinds are fixed: streak_days,
// total_workouts, supplement_days, water_days, perfect_days, level, total_xp.
var BadgeTriggers = []BadgeType{
	{
		Code:        "FIRST_STEPS",
		Name:        "First Steps",
		Description: "Earned your first XP",
		Emoji:       "🌱",
		Rarity:      "common",
		Threshold:   map[string]int64{"total_xp": 1},
	},
	{
		Code:        "STREAK_3",
		Name:        "Warming Up",
		Description: "3-day streak",
		Emoji:       "🔥",
		Rarity:      "common",
		Threshold:   map[string]int64{"streak_days": 3},
	},
	{
		Code:        "STREAK_7",
		Name:        "Week Warrior",
		Description: "7-day streak",
		Emoji:       "⚡",
		Rarity:      "rare",
		Threshold:   map[string]int64{"streak_days": 7},
	},
	{
		Code:        "STREAK_30",
		Name:        "Unstoppable",
		Description: "30-day streak",
		Emoji:       "🏔️",
		Rarity:      "legendary",
		Threshold:   map[string]int64{"streak_days": 30},
	},
	{
		Code:        "WORKOUT_10",
		Name:        "Getting Strong",
		Description: "Completed 10 workouts",
		Emoji:       "💪",
		Rarity:      "common",
		Threshold:   map[string]int64{"total_workouts": 10},
	},
	{
		Code:        "WORKOUT_50",
		Name:        "Iron Fifty",
		Description: "Completed 50 workouts",
		Emoji:       "🏋️",
		Rarity:      "epic",
		Threshold:   map[string]int64{"total_workouts": 50},
	},
	{
		Code:        "SUPPLEMENT_14",
		Name:        "Routine Builder",
		Description: "14 days of supplement adherence",
		Emoji:       "💊",
		Rarity:      "rare",
		Threshold:   map[string]int64{"supplement_days": 14},
	},
	{
		Code:        "HYDRATED_7",
		Name:        "Well Watered",
		Description: "Hit the hydration goal 7 times",
		Emoji:       "💧",
		Rarity:      "common",
		Threshold:   map[string]int64{"water_days": 7},
	},
	{
		Code:        "PERFECT_5",
		Name:        "Perfectionist",
		Description: "5 perfect days",
		Emoji:       "🌟",
		Rarity:      "epic",
		Threshold:   map[string]int64{"perfect_days": 5},
	},
	{
		Code:        "LEVEL_5",
		Name:        "Gold Standard",
		Description: "Reached Level 5 (Gold!)",
		Emoji:       "🥇",
		Rarity:      "rare",
		Threshold:   map[string]int64{"level": 5},
	},
	{
		Code:        "LEVEL_10",
		Name:        "Apex",
		Description: "Reached the top level",
		Emoji:       "👑",
		Rarity:      "legendary",
		Threshold:   map[string]int64{"level": 10},
	},
}
