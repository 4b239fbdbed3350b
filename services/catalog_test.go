package services

import (
	"reflect"
	"testing"

	"wellness-dashboard-system/models"
)

func TestDerivedGoals(t *testing.T) {
	cases := []struct {
		name    string
		answers QuizAnswers
		want    []string
	}{
		{
			name:    "explicit goals pass through lowercased",
			answers: QuizAnswers{Goals: []string{"Muscle", " ENERGY "}},
			want:    []string{"muscle", "energy"},
		},
		{
			name:    "heavy training adds recovery",
			answers: QuizAnswers{TrainingDays: 4},
			want:    []string{"recovery"},
		},
		{
			name:    "light training adds nothing",
			answers: QuizAnswers{TrainingDays: 3},
			want:    []string{},
		},
		{
			name:    "sleep trouble adds sleep",
			answers: QuizAnswers{SleepTrouble: true},
			want:    []string{"sleep"},
		},
		{
			name:    "morning fatigue adds energy",
			answers: QuizAnswers{LowEnergyMorning: true},
			want:    []string{"energy"},
		},
		{
			name:    "plant based diet adds plant-based",
			answers: QuizAnswers{PlantBased: true},
			want:    []string{"plant-based"},
		},
		{
			name: "everything combined",
			answers: QuizAnswers{
				Goals:            []string{"muscle"},
				TrainingDays:     5,
				SleepTrouble:     true,
				PlantBased:       true,
				LowEnergyMorning: true,
			},
			want: []string{"muscle", "recovery", "sleep", "energy", "plant-based"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := derivedGoals(tc.answers)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("derivedGoals(%+v) = %v, want %v", tc.answers, got, tc.want)
			}
		})
	}
}

func TestScoreProducts(t *testing.T) {
	products := []models.Product{
		{Name: "Creatine", Slug: "creatine", GoalTags: "muscle,recovery"},
		{Name: "Magnesium Glycinate", Slug: "magnesium", GoalTags: "sleep,recovery"},
		{Name: "Vegan Protein", Slug: "vegan-protein", GoalTags: "muscle,plant-based", Featured: true},
		{Name: "Greens Blend", Slug: "greens", GoalTags: "immunity"},
	}

	answers := QuizAnswers{Goals: []string{"muscle"}, TrainingDays: 5}

	recs := ScoreProducts(answers, products)

	if len(recs) != 3 {
		t.Fatalf("got %d recommendations, want 3 (no-match product must be excluded)", len(recs))
	}

	// Creatine matches muscle+recovery (4); Vegan Protein matches muscle (2) + featured (1) = 3;
	// Magnesium matches recovery (2).
	if recs[0].Product.Slug != "creatine" || recs[0].Score != 4 {
		t.Errorf("top rec = %s (score %d), want creatine with score 4", recs[0].Product.Slug, recs[0].Score)
	}
	if recs[1].Product.Slug != "vegan-protein" || recs[1].Score != 3 {
		t.Errorf("second rec = %s (score %d), want vegan-protein with score 3", recs[1].Product.Slug, recs[1].Score)
	}
	if recs[2].Product.Slug != "magnesium" || recs[2].Score != 2 {
		t.Errorf("third rec = %s (score %d), want magnesium with score 2", recs[2].Product.Slug, recs[2].Score)
	}
}

func TestScoreProductsTieBreaks(t *testing.T) {
	products := []models.Product{
		{Name: "Zinc", Slug: "zinc", GoalTags: "immunity"},
		{Name: "Elderberry", Slug: "elderberry", GoalTags: "immunity"},
	}

	recs := ScoreProducts(QuizAnswers{Goals: []string{"immunity"}}, products)
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	// Equal score, neither featured: alphabetical by name.
	if recs[0].Product.Name != "Elderberry" {
		t.Errorf("tie should break alphabetically, got %s first", recs[0].Product.Name)
	}

	// Featured wins the tie when scores match.
	products[0].Featured = true // Zinc: 2 match + 1 featured = 3 vs Elderberry 2
	recs = ScoreProducts(QuizAnswers{Goals: []string{"immunity"}}, products)
	if recs[0].Product.Name != "Zinc" {
		t.Errorf("featured product should outrank on tie, got %s first", recs[0].Product.Name)
	}
}

func TestScoreProductsNoMatches(t *testing.T) {
	products := []models.Product{
		{Name: "Creatine", GoalTags: "muscle", Featured: true},
	}
	recs := ScoreProducts(QuizAnswers{Goals: []string{"sleep"}}, products)
	if len(recs) != 0 {
		t.Errorf("featured flag alone must not produce a recommendation, got %d", len(recs))
	}
}

func TestProductTagList(t *testing.T) {
	cases := []struct {
		name string
		tags string
		want []string
	}{
		{"empty", "", nil},
		{"single", "muscle", []string{"muscle"}},
		{"trims and lowercases", " Muscle , ENERGY ", []string{"muscle", "energy"}},
		{"skips empty segments", "muscle,,energy,", []string{"muscle", "energy"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := models.Product{GoalTags: tc.tags}
			if got := p.TagList(); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("TagList(%q) = %v, want %v", tc.tags, got, tc.want)
			}
		})
	}
}
