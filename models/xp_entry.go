package models

import (
	"time"
)

// XPEntry is the append-only XP ledger. One row per award; rows are never
// mutated after insertion. The unique index on (external_user_id, day, action)
// is what makes AwardXP idempotent — a second grant for the same action on the
// same day violates the index and is rejected by the engine.
type XPEntry struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string    `gorm:"uniqueIndex:idx_xp_user_day_action;not null" json:"external_user_id"`
	Day            string    `gorm:"uniqueIndex:idx_xp_user_day_action;size:10;not null" json:"day"` // YYYY-MM-DD
	Action         string    `gorm:"uniqueIndex:idx_xp_user_day_action;size:64;not null" json:"action"`
	XP             int64     `gorm:"not null" json:"xp"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
