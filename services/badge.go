package services

import (
	"fmt"

	"wellness-dashboard-system/models"

	"gorm.io/gorm"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// AutoAwardBadges checks all badge triggers for a user after a progress update
// and returns the newly unlocked badge types. Running it twice on unchanged
// state unlocks nothing the second time.
func (s *BadgeService) AutoAwardBadges(externalUserID string) ([]models.BadgeType, error) {
	var prof models.UserProfile
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
		return nil, err
	}

	var catalog []models.BadgeType
	if err := s.DB.Find(&catalog).Error; err != nil {
		return nil, err
	}

	var awarded []models.BadgeType
	for _, trigger := range catalog {
		if MeetsThreshold(&prof, trigger.Threshold) {
			// Check if already unlocked
			var count int64
			s.DB.Model(&models.UserBadge{}).
				Where("external_user_id = ? AND badge_type_id = ?", externalUserID, trigger.ID).
				Count(&count)
			if count == 0 {
				userBadge := models.UserBadge{
					ExternalUserID: externalUserID,
					BadgeTypeID:    trigger.ID,
				}
				if err := s.DB.Create(&userBadge).Error; err != nil {
					return awarded, err
				}
				awarded = append(awarded, trigger)
				fmt.Printf("🎖️ Badge unlocked: %s → %s\n", trigger.Name, externalUserID)
			}
		}
	}
	return awarded, nil
}

// MeetsThreshold evaluates a badge condition map against a profile.
// Every named condition must hold; unknown keys never match.
func MeetsThreshold(prof *models.UserProfile, req map[string]int64) bool {
	for key, required := range req {
		switch key {
		case "streak_days":
			if int64(prof.CurrentStreak) < required {
				return false
			}
		case "total_workouts":
			if prof.TotalWorkouts < required {
				return false
			}
		case "supplement_days":
			if prof.SupplementDays < required {
				return false
			}
		case "water_days":
			if prof.WaterDays < required {
				return false
			}
		case "perfect_days":
			if prof.PerfectDays < required {
				return false
			}
		case "level":
			if int64(prof.Level) < required {
				return false
			}
		case "total_xp":
			if prof.TotalXP < required {
				return false
			}
		default:
			return false
		}
	}
	return true
}
