package services

import (
	"errors"
	"log"
	"time"

	"wellness-dashboard-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SupplementAdherenceRate is the fraction of scheduled supplements that must
// be taken for the supplements goal to count as complete.
const SupplementAdherenceRate = 0.8

// Consistency score weights: core goals carry 70%, bonus goals 30%.
const (
	CoreWeight  = 0.7
	BonusWeight = 0.3
)

// DayInputs is everything the aggregator needs to score one calendar day.
// Missing logs arrive zero-valued and score as incomplete, never as errors.
type DayInputs struct {
	SupplementsTaken int
	SupplementsTotal int

	WorkoutCompleted bool

	WaterMilliliters int
	WaterGoal        int

	Breakfast bool
	Lunch     bool
	Dinner    bool

	// Sleep is scored from the night *before* the day being evaluated.
	PrevSleepQuality bool

	Protein     float64
	Carbs       float64
	Fats        float64
	ProteinGoal float64
	CarbsGoal   float64
	FatsGoal    float64
}

// DayGoals holds the named per-goal outcomes for a day.
type DayGoals struct {
	Supplements bool `json:"supplements"`
	Workout     bool `json:"workout"`
	Water       bool `json:"water"`
	Meals       bool `json:"meals"`
	Sleep       bool `json:"sleep"`
	Macros      bool `json:"macros"`
}

// DaySummary is the aggregated result for one day.
type DaySummary struct {
	Goals DayGoals `json:"goals"`

	// Fractions in [0,1]
	CoreFraction  float64 `json:"core_fraction"`
	BonusFraction float64 `json:"bonus_fraction"`

	// ConsistencyScore = core*0.7 + bonus*0.3, as a percentage
	ConsistencyScore float64 `json:"consistency_score"`

	// Complete is streak eligibility: core goals only.
	Complete bool `json:"complete"`
	// PerfectDay means every core and bonus goal was met.
	PerfectDay bool `json:"perfect_day"`
}

// EvaluateDay scores one day's goals. Pure: same inputs, same summary.
func EvaluateDay(in DayInputs) DaySummary {
	goals := DayGoals{
		Supplements: in.SupplementsTotal > 0 &&
			float64(in.SupplementsTaken) >= SupplementAdherenceRate*float64(in.SupplementsTotal),
		Workout: in.WorkoutCompleted,
		Water:   in.WaterGoal > 0 && in.WaterMilliliters >= in.WaterGoal,
		Meals:   in.Breakfast && in.Lunch && in.Dinner,
		Sleep:   in.PrevSleepQuality,
		Macros: in.ProteinGoal > 0 && in.CarbsGoal > 0 && in.FatsGoal > 0 &&
			in.Protein >= in.ProteinGoal && in.Carbs >= in.CarbsGoal && in.Fats >= in.FatsGoal,
	}

	coreDone := 0
	if goals.Supplements {
		coreDone++
	}
	if goals.Workout {
		coreDone++
	}
	bonusDone := 0
	for _, met := range []bool{goals.Water, goals.Meals, goals.Sleep, goals.Macros} {
		if met {
			bonusDone++
		}
	}

	core := float64(coreDone) / 2
	bonus := float64(bonusDone) / 4

	return DaySummary{
		Goals:            goals,
		CoreFraction:     core,
		BonusFraction:    bonus,
		ConsistencyScore: (core*CoreWeight + bonus*BonusWeight) * 100,
		Complete:         coreDone == 2,
		PerfectDay:       coreDone == 2 && bonusDone == 4,
	}
}

// ComputeStreaks walks the set of complete days. current is the length of the
// consecutive run ending exactly at asOf (0 when asOf itself is not complete);
// longest is the longest run anywhere in the set.
func ComputeStreaks(completeDays map[string]bool, asOf string) (current, longest int) {
	asOfDate, err := time.Parse("2006-01-02", asOf)
	if err != nil {
		return 0, 0
	}

	for d := asOfDate; completeDays[d.Format("2006-01-02")]; d = d.AddDate(0, 0, -1) {
		current++
	}

	for day, complete := range completeDays {
		if !complete {
			continue
		}
		start, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		// Only count runs from their first day.
		if completeDays[start.AddDate(0, 0, -1).Format("2006-01-02")] {
			continue
		}
		run := 0
		for d := start; completeDays[d.Format("2006-01-02")]; d = d.AddDate(0, 0, 1) {
			run++
		}
		if run > longest {
			longest = run
		}
	}
	return current, longest
}

// DailyService re-derives the day record, streaks, and perfect-day awards
// whenever a tracker changes. This is the push-based replacement for the
// dashboard's old poll-and-recompute loop.
type DailyService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewDailyService(db *gorm.DB, progression *ProgressionService) *DailyService {
	return &DailyService{DB: db, Progression: progression}
}

// Goals returns the user's tracker goals, falling back to defaults.
func (s *DailyService) Goals(externalUserID string) models.TrackerGoals {
	var goals models.TrackerGoals
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&goals).Error; err != nil {
		return models.DefaultTrackerGoals(externalUserID)
	}
	return goals
}

// LoadDayInputs assembles DayInputs for a user and day from whatever logs
// exist. Missing rows stay zero-valued.
func (s *DailyService) LoadDayInputs(externalUserID, day string) DayInputs {
	goals := s.Goals(externalUserID)
	in := DayInputs{
		WaterGoal:   goals.WaterMilliliters,
		ProteinGoal: goals.Protein,
		CarbsGoal:   goals.Carbs,
		FatsGoal:    goals.Fats,
	}

	var supp models.SupplementLog
	if err := s.DB.Where("external_user_id = ? AND day = ?", externalUserID, day).First(&supp).Error; err == nil {
		in.SupplementsTaken = supp.Taken
		in.SupplementsTotal = supp.Total
	}

	var workout models.WorkoutLog
	if err := s.DB.Where("external_user_id = ? AND day = ?", externalUserID, day).First(&workout).Error; err == nil {
		in.WorkoutCompleted = workout.Completed
	}

	var water models.WaterLog
	if err := s.DB.Where("external_user_id = ? AND day = ?", externalUserID, day).First(&water).Error; err == nil {
		in.WaterMilliliters = water.Milliliters
	}

	var meals models.MealLog
	if err := s.DB.Where("external_user_id = ? AND day = ?", externalUserID, day).First(&meals).Error; err == nil {
		in.Breakfast = meals.Breakfast
		in.Lunch = meals.Lunch
		in.Dinner = meals.Dinner
	}

	var macros models.MacroLog
	if err := s.DB.Where("external_user_id = ? AND day = ?", externalUserID, day).First(&macros).Error; err == nil {
		in.Protein = macros.Protein
		in.Carbs = macros.Carbs
		in.Fats = macros.Fats
	}

	// Sleep goal looks at the night before the day being scored.
	if dayDate, err := time.Parse("2006-01-02", day); err == nil {
		prevDay := dayDate.AddDate(0, 0, -1).Format("2006-01-02")
		var sleep models.SleepLog
		if err := s.DB.Where("external_user_id = ? AND day = ?", externalUserID, prevDay).First(&sleep).Error; err == nil {
			in.PrevSleepQuality = sleep.Quality
		}
	}

	return in
}

// Evaluate recomputes the summary for a user and day, upserts the DayRecord,
// refreshes profile streaks, and hands out the perfect-day bonus (deduped by
// the XP engine). Returns the fresh summary.
func (s *DailyService) Evaluate(externalUserID, day string) (DaySummary, error) {
	if _, err := s.Progression.EnsureProfile(externalUserID); err != nil {
		return DaySummary{}, err
	}

	summary := EvaluateDay(s.LoadDayInputs(externalUserID, day))

	// The day's XP is re-derived from the ledger: awards can land before the
	// day record exists, so an increment-only column would undercount.
	var dayXP int64
	if err := s.DB.Model(&models.XPEntry{}).
		Where("external_user_id = ? AND day = ?", externalUserID, day).
		Select("COALESCE(SUM(xp), 0)").
		Scan(&dayXP).Error; err != nil {
		return summary, err
	}

	record := models.DayRecord{
		ExternalUserID:   externalUserID,
		Day:              day,
		Complete:         summary.Complete,
		PerfectDay:       summary.PerfectDay,
		CoreScore:        summary.CoreFraction * 100,
		BonusScore:       summary.BonusFraction * 100,
		ConsistencyScore: summary.ConsistencyScore,
		XP:               dayXP,
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_user_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"complete", "perfect_day", "core_score", "bonus_score", "consistency_score", "xp", "updated_at",
		}),
	}).Create(&record).Error; err != nil {
		return summary, err
	}

	if err := s.RefreshStreaks(externalUserID, day); err != nil {
		return summary, err
	}

	// Streak changes can unlock badges without any XP grant.
	_, _ = NewBadgeService(s.DB).AutoAwardBadges(externalUserID)

	if summary.PerfectDay {
		if _, err := s.Progression.AwardXP(externalUserID, DefaultXPWeights.PerfectDayXP, "perfect_day"); err != nil &&
			!errors.Is(err, ErrDuplicateAward) {
			return summary, err
		}
		if err := s.bumpPerfectDays(externalUserID, day); err != nil {
			return summary, err
		}
	}

	return summary, nil
}

// RefreshStreaks recomputes CurrentStreak/LongestStreak from the last 90 days
// of day records as of the given day.
func (s *DailyService) RefreshStreaks(externalUserID, asOf string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var prof models.UserProfile
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
			return err
		}

		asOfDate, err := time.Parse("2006-01-02", asOf)
		if err != nil {
			return err
		}
		since := asOfDate.AddDate(0, 0, -90).Format("2006-01-02")

		var records []models.DayRecord
		if err := tx.Where("external_user_id = ? AND day >= ? AND day <= ?", externalUserID, since, asOf).
			Find(&records).Error; err != nil {
			return err
		}

		completeDays := make(map[string]bool, len(records))
		for _, r := range records {
			if r.Complete {
				completeDays[r.Day] = true
			}
		}

		current, longest := ComputeStreaks(completeDays, asOf)
		prof.CurrentStreak = current
		if longest > prof.LongestStreak {
			prof.LongestStreak = longest
		}
		if prof.CurrentStreak > prof.LongestStreak {
			prof.LongestStreak = prof.CurrentStreak
		}
		return tx.Save(&prof).Error
	})
}

// bumpPerfectDays increments the profile counter once per perfect day.
func (s *DailyService) bumpPerfectDays(externalUserID, day string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var record models.DayRecord
		if err := tx.Where("external_user_id = ? AND day = ?", externalUserID, day).First(&record).Error; err != nil {
			return err
		}
		// Counted already during a previous evaluation of this day?
		var counted int64
		if err := tx.Model(&models.XPEntry{}).
			Where("external_user_id = ? AND day = ? AND action = ?", externalUserID, day, "perfect_day").
			Count(&counted).Error; err != nil {
			return err
		}
		if counted == 0 {
			return nil // award didn't land, nothing to count
		}
		// The XP entry is unique per day, so counting profiles off it stays exact.
		var prof models.UserProfile
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
			return err
		}
		var total int64
		if err := tx.Model(&models.DayRecord{}).
			Where("external_user_id = ? AND perfect_day = ?", externalUserID, true).
			Count(&total).Error; err != nil {
			return err
		}
		if prof.PerfectDays != total {
			prof.PerfectDays = total
			return tx.Save(&prof).Error
		}
		return nil
	})
}

// RolloverDay finalizes yesterday for every profile: re-evaluate the day
// record and reset streaks broken by a gap. Run nightly by the scheduler.
func (s *DailyService) RolloverDay() {
	yesterday := DayKey(time.Now().AddDate(0, 0, -1))

	var profiles []models.UserProfile
	if err := s.DB.Find(&profiles).Error; err != nil {
		log.Printf("[Rollover] DB error: %v", err)
		return
	}

	for _, prof := range profiles {
		if _, err := s.Evaluate(prof.ExternalUserID, yesterday); err != nil {
			log.Printf("[Rollover] Failed to finalize %s for %s: %v", yesterday, prof.ExternalUserID, err)
			continue
		}
	}
	log.Printf("✅ Rolled over %d profile(s) for %s", len(profiles), yesterday)
}
