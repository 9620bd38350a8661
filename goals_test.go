package main

import (
	"math"
	"testing"
	"time"
)

// fixedNow pins goal calculations to a known date so ages derived from DOB
// don't drift as the test suite ages.
var fixedNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

// makeRecord constructs a fully-populated onboardingRecord for goal
// calculation tests. Individual tests mutate specific fields to exercise the
// defensive guards.
func makeRecord(goal, gender string, heightCM, weightKG float64, age int, activity string) onboardingRecord {
	return onboardingRecord{
		Goal:          goal,
		Gender:        gender,
		HeightCM:      heightCM,
		WeightKG:      weightKG,
		DateOfBirth:   time.Date(fixedNow.Year()-age, time.January, 1, 0, 0, 0, 0, time.UTC),
		ActivityLevel: activity,
	}
}

/* ─── Defensive guard tests ──────────────────────────────────────────── */

// TestCalculateNutritionGoals_InvalidInputs verifies that each required field
// failing its defensive check produces a ComputationError rather than a
// defaulted result.
func TestCalculateNutritionGoals_InvalidInputs(t *testing.T) {
	cases := []struct {
		name  string
		mutFn func(r *onboardingRecord)
	}{
		{"zero weight", func(r *onboardingRecord) { r.WeightKG = 0 }},
		{"negative weight", func(r *onboardingRecord) { r.WeightKG = -70 }},
		{"zero height", func(r *onboardingRecord) { r.HeightCM = 0 }},
		{"zero DOB", func(r *onboardingRecord) { r.DateOfBirth = time.Time{} }},
		{"future DOB", func(r *onboardingRecord) { r.DateOfBirth = fixedNow.AddDate(1, 0, 0) }},
		{"age over 130", func(r *onboardingRecord) { r.DateOfBirth = fixedNow.AddDate(-200, 0, 0) }},
		{"unknown gender", func(r *onboardingRecord) { r.Gender = "unknown" }},
		{"unknown activity level", func(r *onboardingRecord) { r.ActivityLevel = "couch" }},
		{"unknown goal", func(r *onboardingRecord) { r.Goal = "bulk" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := makeRecord("maintain", "male", 180, 80, 25, "moderate")
			tc.mutFn(&rec)
			if _, err := calculateNutritionGoals(rec, fixedNow); err == nil {
				t.Error("expected ComputationError, got nil")
			}
		})
	}
}

/* ─── BMR / TDEE accuracy tests ──────────────────────────────────────── */

// TestCalculateNutritionGoals_MaintainMale verifies the male Mifflin-St Jeor
// pipeline with known inputs.
//
// male, 180cm, 80kg, age 25, moderate:
// BMR = 10*80 + 6.25*180 - 5*25 + 5 = 1805; TDEE = 1805*1.55 = 2797.75 → 2798.
func TestCalculateNutritionGoals_MaintainMale(t *testing.T) {
	got, err := calculateNutritionGoals(makeRecord("maintain", "male", 180, 80, 25, "moderate"), fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Calories != 2798 {
		t.Errorf("calories = %d, want 2798", got.Calories)
	}
}

// TestCalculateNutritionGoals_MaintainFemale verifies the female constant:
// same biometrics as the male test but -161 instead of +5.
//
// BMR = 1805 - 166 = 1639; TDEE = 1639*1.55 = 2540.45 → 2540.
func TestCalculateNutritionGoals_MaintainFemale(t *testing.T) {
	got, err := calculateNutritionGoals(makeRecord("maintain", "female", 180, 80, 25, "moderate"), fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Calories != 2540 {
		t.Errorf("calories = %d, want 2540", got.Calories)
	}
}

// TestCalculateNutritionGoals_OtherGenderIsMean verifies that gender "other"
// lands exactly between the male and female results for identical biometrics.
func TestCalculateNutritionGoals_OtherGenderIsMean(t *testing.T) {
	male, err := calculateNutritionGoals(makeRecord("maintain", "male", 180, 80, 25, "moderate"), fixedNow)
	if err != nil {
		t.Fatalf("male: %v", err)
	}
	female, err := calculateNutritionGoals(makeRecord("maintain", "female", 180, 80, 25, "moderate"), fixedNow)
	if err != nil {
		t.Fatalf("female: %v", err)
	}
	other, err := calculateNutritionGoals(makeRecord("maintain", "other", 180, 80, 25, "moderate"), fixedNow)
	if err != nil {
		t.Fatalf("other: %v", err)
	}

	mean := float64(male.Calories+female.Calories) / 2
	if math.Abs(float64(other.Calories)-mean) > 1 {
		t.Errorf("other calories = %d, want mean of male/female ≈ %.0f (±1 for rounding)", other.Calories, mean)
	}
}

/* ─── Goal adjustment tests ──────────────────────────────────────────── */

// TestCalculateNutritionGoals_LoseBelowMaintain verifies the end-to-end
// scenario: a "lose" goal with no explicit pace defaults to 0.5 kg/week and
// produces a calorie target strictly below "maintain" for the same biometrics.
func TestCalculateNutritionGoals_LoseBelowMaintain(t *testing.T) {
	lose, err := calculateNutritionGoals(makeRecord("lose", "male", 180, 80, 25, "moderate"), fixedNow)
	if err != nil {
		t.Fatalf("lose: %v", err)
	}
	maintain, err := calculateNutritionGoals(makeRecord("maintain", "male", 180, 80, 25, "moderate"), fixedNow)
	if err != nil {
		t.Fatalf("maintain: %v", err)
	}

	if lose.Calories >= maintain.Calories {
		t.Errorf("lose calories (%d) not below maintain calories (%d)", lose.Calories, maintain.Calories)
	}
	// Default pace 0.5 kg/week is a 550 kcal/day deficit.
	if diff := maintain.Calories - lose.Calories; diff != 550 {
		t.Errorf("lose deficit = %d, want 550 (0.5 kg/week × 1100)", diff)
	}
}

// TestCalculateNutritionGoals_GainAddsSurplus verifies the gain adjustment
// with an explicit pace: +0.25 kg/week adds 275 kcal/day over maintain.
func TestCalculateNutritionGoals_GainAddsSurplus(t *testing.T) {
	rec := makeRecord("gain", "male", 180, 80, 25, "moderate")
	pace := 0.25
	rec.GoalPaceKG = &pace

	gain, err := calculateNutritionGoals(rec, fixedNow)
	if err != nil {
		t.Fatalf("gain: %v", err)
	}
	maintain, err := calculateNutritionGoals(makeRecord("maintain", "male", 180, 80, 25, "moderate"), fixedNow)
	if err != nil {
		t.Fatalf("maintain: %v", err)
	}

	if diff := gain.Calories - maintain.Calories; diff != 275 {
		t.Errorf("gain surplus = %d, want 275 (0.25 kg/week × 1100)", diff)
	}
}

/* ─── Clamp and macro-split invariants ──────────────────────────────── */

// TestCalculateNutritionGoals_CalorieFloor verifies the 1200 kcal clamp: an
// aggressive deficit on a small sedentary profile is raised to the floor, not
// rejected.
func TestCalculateNutritionGoals_CalorieFloor(t *testing.T) {
	rec := makeRecord("lose", "female", 150, 45, 70, "sedentary")
	pace := 2.0 // 2200 kcal/day deficit, far below any plausible TDEE
	rec.GoalPaceKG = &pace

	got, err := calculateNutritionGoals(rec, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Calories != minDailyCalories {
		t.Errorf("calories = %d, want clamped to %d", got.Calories, minDailyCalories)
	}
}

// TestCalculateNutritionGoals_CarbsNeverNegative verifies the degenerate
// macro-split case: when protein + fat calories alone exceed the target, fat
// is reduced first and carbs floor at zero.
func TestCalculateNutritionGoals_CarbsNeverNegative(t *testing.T) {
	// 130 kg at a clamped 1200 kcal target: protein alone is 260 g = 1040
	// kcal, so the default 25% fat share cannot fit.
	rec := makeRecord("lose", "female", 150, 130, 40, "sedentary")
	pace := 2.0
	rec.GoalPaceKG = &pace

	got, err := calculateNutritionGoals(rec, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CarbsG < 0 {
		t.Errorf("carbs = %v, must never be negative", got.CarbsG)
	}
	// Fat yields before protein: protein stays at 2.0 g/kg.
	if math.Abs(got.ProteinG-260) >= 0.01 {
		t.Errorf("protein = %v, want 260 (untouched while fat absorbs the shortfall)", got.ProteinG)
	}
	// The macro calories must re-sum to the target.
	total := got.ProteinG*4 + got.CarbsG*4 + got.FatG*9
	if math.Abs(total-float64(got.Calories)) >= 1 {
		t.Errorf("macro calories = %v, want %d", total, got.Calories)
	}
}

// TestCalculateNutritionGoals_ProteinReducedLast verifies the second
// degenerate step: when protein alone exceeds the target, fat zeroes out and
// protein absorbs the rest.
func TestCalculateNutritionGoals_ProteinReducedLast(t *testing.T) {
	// 200 kg: protein would be 400 g = 1600 kcal against a 1200 kcal floor.
	rec := makeRecord("lose", "female", 150, 200, 40, "sedentary")
	pace := 3.0
	rec.GoalPaceKG = &pace

	got, err := calculateNutritionGoals(rec, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FatG != 0 {
		t.Errorf("fat = %v, want 0 when protein alone exceeds the target", got.FatG)
	}
	if got.CarbsG != 0 {
		t.Errorf("carbs = %v, want 0", got.CarbsG)
	}
	if math.Abs(got.ProteinG*4-float64(got.Calories)) >= 0.01 {
		t.Errorf("protein calories = %v, want exactly the %d target", got.ProteinG*4, got.Calories)
	}
}

// TestCalculateNutritionGoals_ProteinUsesGoalWeight verifies that the protein
// target tracks goal weight when one was supplied, else current weight.
func TestCalculateNutritionGoals_ProteinUsesGoalWeight(t *testing.T) {
	rec := makeRecord("lose", "male", 180, 90, 30, "moderate")
	goalWeight := 75.0
	rec.GoalWeightKG = &goalWeight

	got, err := calculateNutritionGoals(rec, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got.ProteinG-150) >= 0.01 {
		t.Errorf("protein = %v, want 150 (2.0 × goal weight 75)", got.ProteinG)
	}

	rec.GoalWeightKG = nil
	got, err = calculateNutritionGoals(rec, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got.ProteinG-180) >= 0.01 {
		t.Errorf("protein = %v, want 180 (2.0 × current weight 90)", got.ProteinG)
	}
}

/* ─── Age derivation ─────────────────────────────────────────────────── */

// TestAgeInYears_BirthdayBoundary verifies the whole-year floor around the
// birthday: the day before you're still the old age.
func TestAgeInYears_BirthdayBoundary(t *testing.T) {
	dob := time.Date(2000, 6, 16, 0, 0, 0, 0, time.UTC)
	if age := ageInYears(dob, fixedNow); age != 25 {
		t.Errorf("age the day before the 26th birthday = %d, want 25", age)
	}

	dob = time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)
	if age := ageInYears(dob, fixedNow); age != 26 {
		t.Errorf("age on the 26th birthday = %d, want 26", age)
	}
}

// TestCalculateNutritionGoals_Idempotent verifies the pure-function property:
// two calls with identical inputs yield identical outputs.
func TestCalculateNutritionGoals_Idempotent(t *testing.T) {
	rec := makeRecord("lose", "other", 172, 68, 33, "light")
	a, err := calculateNutritionGoals(rec, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := calculateNutritionGoals(rec, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("results differ across identical calls: %+v vs %+v", a, b)
	}
}
