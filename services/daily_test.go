package services

import (
	"testing"
	"time"
)

func allGoalsMetInputs() DayInputs {
	return DayInputs{
		SupplementsTaken: 5,
		SupplementsTotal: 5,
		WorkoutCompleted: true,
		WaterMilliliters: 2500,
		WaterGoal:        2000,
		Breakfast:        true,
		Lunch:            true,
		Dinner:           true,
		PrevSleepQuality: true,
		Protein:          130,
		Carbs:            260,
		Fats:             75,
		ProteinGoal:      120,
		CarbsGoal:        250,
		FatsGoal:         70,
	}
}

func TestEvaluateDayPerfect(t *testing.T) {
	sum := EvaluateDay(allGoalsMetInputs())

	if !sum.Complete {
		t.Error("expected complete day when both core goals met")
	}
	if !sum.PerfectDay {
		t.Error("expected perfect day when all six goals met")
	}
	if sum.ConsistencyScore != 100 {
		t.Errorf("ConsistencyScore = %v, want 100", sum.ConsistencyScore)
	}
}

func TestEvaluateDayCoreOnlyDrivesComplete(t *testing.T) {
	in := allGoalsMetInputs()
	in.WaterMilliliters = 0
	in.Breakfast = false
	in.PrevSleepQuality = false
	in.Protein = 0

	sum := EvaluateDay(in)
	if !sum.Complete {
		t.Error("day should stay complete when only bonus goals are missed")
	}
	if sum.PerfectDay {
		t.Error("day must not be perfect with bonus goals missed")
	}

	in = allGoalsMetInputs()
	in.WorkoutCompleted = false
	sum = EvaluateDay(in)
	if sum.Complete {
		t.Error("day must not be complete when a core goal is missed")
	}
}

func TestEvaluateDayConsistencyWeighting(t *testing.T) {
	// Both core goals plus 2 of 4 bonus goals: 1.0*0.7 + 0.5*0.3 = 0.85
	in := allGoalsMetInputs()
	in.PrevSleepQuality = false
	in.Protein = 0 // macros goal missed

	sum := EvaluateDay(in)
	if sum.ConsistencyScore != 85 {
		t.Errorf("ConsistencyScore = %v, want 85", sum.ConsistencyScore)
	}
	if sum.CoreFraction != 1 {
		t.Errorf("CoreFraction = %v, want 1", sum.CoreFraction)
	}
	if sum.BonusFraction != 0.5 {
		t.Errorf("BonusFraction = %v, want 0.5", sum.BonusFraction)
	}
}

func TestEvaluateDaySupplementAdherence(t *testing.T) {
	cases := []struct {
		name  string
		taken int
		total int
		want  bool
	}{
		{"exactly 80 percent counts", 4, 5, true},
		{"just below 80 percent fails", 3, 5, false},
		{"all taken counts", 5, 5, true},
		{"no schedule never counts", 0, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := allGoalsMetInputs()
			in.SupplementsTaken = tc.taken
			in.SupplementsTotal = tc.total
			if got := EvaluateDay(in).Goals.Supplements; got != tc.want {
				t.Errorf("Supplements goal with %d/%d = %v, want %v", tc.taken, tc.total, got, tc.want)
			}
		})
	}
}

func TestEvaluateDayMissingDataIsIncomplete(t *testing.T) {
	sum := EvaluateDay(DayInputs{})
	if sum.Complete || sum.PerfectDay {
		t.Error("zero-valued inputs must score as incomplete, not error")
	}
	if sum.ConsistencyScore != 0 {
		t.Errorf("ConsistencyScore = %v, want 0", sum.ConsistencyScore)
	}
}

func TestEvaluateDayDeterministic(t *testing.T) {
	in := allGoalsMetInputs()
	first := EvaluateDay(in)
	for i := 0; i < 5; i++ {
		if EvaluateDay(in) != first {
			t.Fatal("EvaluateDay must return identical results for identical inputs")
		}
	}
}

func TestComputeStreaks(t *testing.T) {
	cases := []struct {
		name        string
		complete    []string
		asOf        string
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "empty history",
			complete:    nil,
			asOf:        "2026-08-29",
			wantCurrent: 0,
			wantLongest: 0,
		},
		{
			name:        "single complete day",
			complete:    []string{"2026-08-29"},
			asOf:        "2026-08-29",
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "run ending today",
			complete:    []string{"2026-08-27", "2026-08-28", "2026-08-29"},
			asOf:        "2026-08-29",
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "gap on asOf resets current but keeps longest",
			complete:    []string{"2026-08-25", "2026-08-26", "2026-08-27"},
			asOf:        "2026-08-29",
			wantCurrent: 0,
			wantLongest: 3,
		},
		{
			name:        "longest run earlier than current",
			complete:    []string{"2026-08-20", "2026-08-21", "2026-08-22", "2026-08-23", "2026-08-28", "2026-08-29"},
			asOf:        "2026-08-29",
			wantCurrent: 2,
			wantLongest: 4,
		},
		{
			name:        "month boundary spans correctly",
			complete:    []string{"2026-07-31", "2026-08-01", "2026-08-02"},
			asOf:        "2026-08-02",
			wantCurrent: 3,
			wantLongest: 3,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days := make(map[string]bool, len(tc.complete))
			for _, d := range tc.complete {
				days[d] = true
			}
			current, longest := ComputeStreaks(days, tc.asOf)
			if current != tc.wantCurrent {
				t.Errorf("current = %d, want %d", current, tc.wantCurrent)
			}
			if longest != tc.wantLongest {
				t.Errorf("longest = %d, want %d", longest, tc.wantLongest)
			}
		})
	}
}

func TestDayKeyIsUTC(t *testing.T) {
	// DayKey must normalize to the UTC calendar day regardless of zone.
	loc := time.FixedZone("UTC-4", -4*60*60)
	local := time.Date(2026, 8, 29, 22, 30, 0, 0, loc)
	if got := DayKey(local); got != "2026-08-30" {
		t.Errorf("DayKey(late evening UTC-4) = %q, want 2026-08-30", got)
	}
}
