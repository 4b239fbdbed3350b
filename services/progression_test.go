package services

import "testing"

func TestLevelForTotalXPBands(t *testing.T) {
	cases := []struct {
		name    string
		totalXP int64
		want    int
	}{
		{"zero XP starts at level 1", 0, 1},
		{"negative XP clamps to level 1", -50, 1},
		{"just below first threshold", 99, 1},
		{"first threshold exactly", 100, 2},
		{"inside second band", 250, 2},
		{"second threshold exactly", 300, 3},
		{"third threshold exactly", 600, 4},
		{"fourth threshold exactly", 1100, 5},
		{"fifth threshold exactly", 1850, 6},
		{"sixth threshold exactly", 2850, 7},
		{"seventh threshold exactly", 4350, 8},
		{"eighth threshold exactly", 6350, 9},
		{"top threshold exactly", 9350, 10},
		{"far beyond top stays at max", 1_000_000, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LevelForTotalXP(tc.totalXP); got != tc.want {
				t.Errorf("LevelForTotalXP(%d) = %d, want %d", tc.totalXP, got, tc.want)
			}
		})
	}
}

func TestLevelForTotalXPMonotonic(t *testing.T) {
	prev := 1
	for xp := int64(0); xp <= 12000; xp += 7 {
		level := LevelForTotalXP(xp)
		if level < prev {
			t.Fatalf("level decreased from %d to %d at xp=%d", prev, level, xp)
		}
		prev = level
	}
}

func TestXPForLevelRoundTrip(t *testing.T) {
	for level := 1; level <= MaxLevel; level++ {
		threshold := XPForLevel(level)
		if got := LevelForTotalXP(threshold); got != level {
			t.Errorf("LevelForTotalXP(XPForLevel(%d)=%d) = %d, want %d", level, threshold, got, level)
		}
	}
}

func TestLevelProgress(t *testing.T) {
	cases := []struct {
		name    string
		totalXP int64
		level   int
		want    float64
	}{
		{"fresh level 1", 0, 1, 0},
		{"90 into first band", 90, 1, 90},
		{"start of second band", 100, 2, 0},
		{"halfway through second band", 200, 2, 50},
		{"max level always full", 9350, 10, 100},
		{"beyond max level always full", 20000, 10, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := LevelProgress(tc.totalXP, tc.level)
			if got != tc.want {
				t.Errorf("LevelProgress(%d, %d) = %v, want %v", tc.totalXP, tc.level, got, tc.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("LevelProgress(%d, %d) = %v, outside [0,100]", tc.totalXP, tc.level, got)
			}
		})
	}
}

func TestXPToNextLevel(t *testing.T) {
	if got := XPToNextLevel(90, 1); got != 10 {
		t.Errorf("XPToNextLevel(90, 1) = %d, want 10", got)
	}
	if got := XPToNextLevel(100, 2); got != 200 {
		t.Errorf("XPToNextLevel(100, 2) = %d, want 200", got)
	}
	if got := XPToNextLevel(9350, MaxLevel); got != 0 {
		t.Errorf("XPToNextLevel at max level = %d, want 0", got)
	}
}

func TestWorkoutCrossesLevelBoundary(t *testing.T) {
	// 90 XP at level 1, a workout (15 XP) lands at 105 → level 2
	total := int64(90)
	if LevelForTotalXP(total) != 1 {
		t.Fatalf("precondition failed: 90 XP should be level 1")
	}
	total += DefaultXPWeights.WorkoutXP
	if got := LevelForTotalXP(total); got != 2 {
		t.Errorf("LevelForTotalXP(%d) = %d, want 2 after crossing boundary", total, got)
	}
}

func TestLevelInfoTiers(t *testing.T) {
	cases := []struct {
		level int
		tier  string
	}{
		{1, "Bronze"},
		{2, "Bronze"},
		{3, "Silver"},
		{4, "Silver"},
		{5, "Gold"},
		{6, "Gold"},
		{7, "Platinum"},
		{8, "Platinum"},
		{9, "Diamond"},
		{10, "Diamond"},
	}

	for _, tc := range cases {
		if got := LevelInfo(tc.level); got.Tier != tc.tier {
			t.Errorf("LevelInfo(%d).Tier = %q, want %q", tc.level, got.Tier, tc.tier)
		}
	}
}
