package services

import (
	"errors"
	"fmt"
	"time"

	"wellness-dashboard-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// XPWeights define relative values (tunable via config/env later)
type XPWeights struct {
	WorkoutXP    int64 `default:"15"`
	SupplementXP int64 `default:"10"`
	WaterGoalXP  int64 `default:"5"`
	PerfectDayXP int64 `default:"50"`
	QuizXP       int64 `default:"20"`
}

var DefaultXPWeights = XPWeights{
	WorkoutXP:    15,
	SupplementXP: 10,
	WaterGoalXP:  5,
	PerfectDayXP: 50,
	QuizXP:       20,
}

// ErrDuplicateAward is returned when the same (user, day, action) pair is
// granted twice. Idempotency is enforced by the engine, not the caller.
var ErrDuplicateAward = errors.New("xp already awarded for this action today")

// levelBandWidths[i] is the XP span of level i+1. The last level is unbounded.
// Bands: 0-99, 100-299, 300-599, 600-1099, 1100-1849, 1850-2849, 2850-4349,
// 4350-6349, 6350-9349, 9350+.
var levelBandWidths = []int64{100, 200, 300, 500, 750, 1000, 1500, 2000, 3000}

// MaxLevel is the top defined level; progress there is always 100%.
const MaxLevel = 10

// LevelTier maps a level to its display tier.
type LevelTier struct {
	Tier  string `json:"tier"`
	Badge string `json:"badge"`
}

var levelTiers = []struct {
	minLevel int
	tier     LevelTier
}{
	{9, LevelTier{Tier: "Diamond", Badge: "👑"}},
	{7, LevelTier{Tier: "Platinum", Badge: "💎"}},
	{5, LevelTier{Tier: "Gold", Badge: "🥇"}},
	{3, LevelTier{Tier: "Silver", Badge: "🥈"}},
	{1, LevelTier{Tier: "Bronze", Badge: "🥉"}},
}

// LevelInfo returns the tier and badge for a level (pure lookup).
func LevelInfo(level int) LevelTier {
	for _, lt := range levelTiers {
		if level >= lt.minLevel {
			return lt.tier
		}
	}
	return levelTiers[len(levelTiers)-1].tier
}

// XPForLevel returns the cumulative XP required to reach the given level.
// Level 1 requires 0 XP; levels past MaxLevel clamp to the top threshold.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	var total int64
	for i := 0; i < level-1; i++ {
		total += levelBandWidths[i]
	}
	return total
}

// LevelForTotalXP is the inverse: the highest level whose cumulative
// threshold is <= totalXP. Non-decreasing in totalXP.
func LevelForTotalXP(totalXP int64) int {
	if totalXP < 0 {
		return 1
	}
	level := 1
	for level < MaxLevel && totalXP >= XPForLevel(level+1) {
		level++
	}
	return level
}

// LevelProgress returns percentage progress through the current band,
// clamped to [0,100]. At MaxLevel it is always 100.
func LevelProgress(totalXP int64, level int) float64 {
	if level >= MaxLevel {
		return 100
	}
	floor := XPForLevel(level)
	ceil := XPForLevel(level + 1)
	if totalXP <= floor {
		return 0
	}
	if totalXP >= ceil {
		return 100
	}
	return float64(totalXP-floor) / float64(ceil-floor) * 100
}

// XPToNextLevel returns the absolute XP remaining to the next band,
// or 0 at MaxLevel.
func XPToNextLevel(totalXP int64, level int) int64 {
	if level >= MaxLevel {
		return 0
	}
	remaining := XPForLevel(level+1) - totalXP
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DayKey formats a time as the canonical per-day key (UTC calendar day).
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// SeedBadgeCatalog upserts the static badge catalog (idempotent, run at startup).
func (s *ProgressionService) SeedBadgeCatalog() error {
	for _, trigger := range models.BadgeTriggers {
		t := trigger
		if err := s.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "emoji", "rarity", "threshold",
			}),
		}).Create(&t).Error; err != nil {
			return fmt.Errorf("failed to seed badge %s: %w", trigger.Code, err)
		}
	}
	return nil
}

// EnsureProfile ensures a UserProfile row exists (idempotent)
func (s *ProgressionService) EnsureProfile(externalUserID string) (*models.UserProfile, error) {
	var prof models.UserProfile
	err := s.DB.Where("external_user_id = ?", externalUserID).First(&prof).Error
	if err == gorm.ErrRecordNotFound {
		prof = models.UserProfile{
			ExternalUserID: externalUserID,
			TotalXP:        0,
			Level:          1,
		}
		if err := s.DB.Create(&prof).Error; err != nil {
			return nil, err
		}
		return &prof, nil
	}
	if err != nil {
		return nil, err
	}
	return &prof, nil
}

// AwardXP atomically appends an XP ledger entry and updates TotalXP and Level.
// A second grant for the same (user, day, action) returns ErrDuplicateAward
// and leaves state untouched.
func (s *ProgressionService) AwardXP(externalUserID string, xp int64, action string) (*models.UserProfile, error) {
	day := DayKey(time.Now())
	var updatedProf *models.UserProfile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prof models.UserProfile
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
			return fmt.Errorf("profile record not found for %s", externalUserID)
		}

		// Engine-enforced idempotency: reject a repeat of the same action today.
		var count int64
		if err := tx.Model(&models.XPEntry{}).
			Where("external_user_id = ? AND day = ? AND action = ?", externalUserID, day, action).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateAward
		}

		entry := models.XPEntry{
			ExternalUserID: externalUserID,
			Day:            day,
			Action:         action,
			XP:             xp,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		oldLevel := prof.Level
		prof.TotalXP += xp
		prof.Level = LevelForTotalXP(prof.TotalXP)
		if prof.Level > oldLevel {
			now := time.Now()
			prof.LastLevelUpAt = &now
		}

		if err := tx.Save(&prof).Error; err != nil {
			return err
		}

		// Keep the day record's XP column in step with the ledger.
		if err := tx.Model(&models.DayRecord{}).
			Where("external_user_id = ? AND day = ?", externalUserID, day).
			UpdateColumn("xp", gorm.Expr("xp + ?", xp)).Error; err != nil {
			return err
		}

		// Copy for return (avoid pointer to stack var)
		updatedProf = &models.UserProfile{}
		*updatedProf = prof

		fmt.Printf("🎮 XP Awarded: %s → XP=%d, Lvl=%d (action: %s)\n",
			externalUserID, prof.TotalXP, prof.Level, action)

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Auto-award badges outside the tx (fire-and-forget, like a notification)
	badgeSvc := NewBadgeService(s.DB)
	_, _ = badgeSvc.AutoAwardBadges(externalUserID)

	return updatedProf, nil
}

// GetXPHistory returns paginated ledger entries, newest first.
func (s *ProgressionService) GetXPHistory(externalUserID string, page, size int) ([]models.XPEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	var total int64
	s.DB.Model(&models.XPEntry{}).Where("external_user_id = ?", externalUserID).Count(&total)

	var entries []models.XPEntry
	err := s.DB.Where("external_user_id = ?", externalUserID).
		Order("created_at DESC").
		Limit(size).Offset(offset).
		Find(&entries).Error
	return entries, total, err
}

// GetRecentDayRecords returns day records in the last N days, oldest first.
func (s *ProgressionService) GetRecentDayRecords(externalUserID string, days int) ([]models.DayRecord, error) {
	since := DayKey(time.Now().AddDate(0, 0, -days))
	var records []models.DayRecord
	err := s.DB.Where("external_user_id = ? AND day >= ?", externalUserID, since).
		Order("day ASC").
		Find(&records).Error
	return records, err
}
