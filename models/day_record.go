package models

import (
	"time"
)

// DayRecord is the per-calendar-day completion record, one row per user per
// day, upserted whenever the day is re-evaluated. Complete reflects the core
// goal set only (supplements + workout); bonus goals feed the consistency
// score but never streak eligibility.
type DayRecord struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex:idx_day_user_day;not null" json:"external_user_id"`
	Day            string `gorm:"uniqueIndex:idx_day_user_day;size:10;not null" json:"day"` // YYYY-MM-DD

	Complete   bool `gorm:"default:false" json:"complete"`
	PerfectDay bool `gorm:"default:false" json:"perfect_day"`

	// Scores as percentages, 0-100
	CoreScore        float64 `json:"core_score"`
	BonusScore       float64 `json:"bonus_score"`
	ConsistencyScore float64 `json:"consistency_score"`

	XP int64 `gorm:"default:0" json:"xp"` // XP earned on this day

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
