package services

import (
	"testing"

	"wellness-dashboard-system/models"
)

func TestMeetsThreshold(t *testing.T) {
	prof := &models.UserProfile{
		TotalXP:        500,
		Level:          3,
		CurrentStreak:  7,
		LongestStreak:  12,
		TotalWorkouts:  15,
		SupplementDays: 14,
		WaterDays:      6,
		PerfectDays:    2,
	}

	cases := []struct {
		name      string
		threshold map[string]int64
		want      bool
	}{
		{"streak met exactly", map[string]int64{"streak_days": 7}, true},
		{"streak not met", map[string]int64{"streak_days": 8}, false},
		{"workouts met", map[string]int64{"total_workouts": 10}, true},
		{"supplement days met exactly", map[string]int64{"supplement_days": 14}, true},
		{"water days short by one", map[string]int64{"water_days": 7}, false},
		{"perfect days not met", map[string]int64{"perfect_days": 5}, false},
		{"level met", map[string]int64{"level": 3}, true},
		{"level not met", map[string]int64{"level": 5}, false},
		{"total xp met", map[string]int64{"total_xp": 1}, true},
		{"all conditions must hold", map[string]int64{"streak_days": 7, "level": 5}, false},
		{"multiple conditions all met", map[string]int64{"streak_days": 3, "total_workouts": 10}, true},
		{"unknown key never matches", map[string]int64{"meditation_days": 1}, false},
		{"empty threshold matches", map[string]int64{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MeetsThreshold(prof, tc.threshold); got != tc.want {
				t.Errorf("MeetsThreshold(%v) = %v, want %v", tc.threshold, got, tc.want)
			}
		})
	}
}

func TestBadgeTriggersCatalog(t *testing.T) {
	seen := make(map[string]bool)
	for _, trigger := range models.BadgeTriggers {
		if trigger.Code == "" {
			t.Error("badge trigger with empty code")
		}
		if seen[trigger.Code] {
			t.Errorf("duplicate badge code %q", trigger.Code)
		}
		seen[trigger.Code] = true

		if len(trigger.Threshold) == 0 {
			t.Errorf("badge %q has no threshold conditions", trigger.Code)
		}
		// Every trigger must be satisfiable by some profile state.
		maxed := &models.UserProfile{
			TotalXP:        1_000_000,
			Level:          MaxLevel,
			CurrentStreak:  10_000,
			TotalWorkouts:  10_000,
			SupplementDays: 10_000,
			WaterDays:      10_000,
			PerfectDays:    10_000,
		}
		if !MeetsThreshold(maxed, trigger.Threshold) {
			t.Errorf("badge %q can never unlock (unknown threshold key?)", trigger.Code)
		}
	}
}

func TestNewProfileUnlocksNothing(t *testing.T) {
	fresh := &models.UserProfile{Level: 1}
	for _, trigger := range models.BadgeTriggers {
		if MeetsThreshold(fresh, trigger.Threshold) {
			t.Errorf("fresh profile should not unlock %q", trigger.Code)
		}
	}
}
