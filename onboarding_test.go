package main

import (
	"math"
	"testing"
	"time"
)

// makeForm constructs a fully valid metric onboarding form. Tests mutate
// individual fields to exercise validation.
func makeForm() onboardingForm {
	return onboardingForm{
		Name:        "Sam",
		Goal:        "lose",
		Age:         "30",
		Gender:      "female",
		HeightUnit:  "cm",
		HeightValue: "168",
		WeightUnit:  "kg",
		WeightValue: "72.5",
		ActivityLvl: "light",
	}
}

// TestAssembleOnboarding_ValidMetric verifies the happy path: a metric form
// normalizes straight through, with DOB approximated to January 1st of
// (current year − age).
func TestAssembleOnboarding_ValidMetric(t *testing.T) {
	rec, errs := assembleOnboardingRecord(makeForm(), fixedNow)
	if len(errs) > 0 {
		t.Fatalf("unexpected field errors: %v", errs)
	}

	if rec.HeightCM != 168 {
		t.Errorf("height = %v, want 168", rec.HeightCM)
	}
	if rec.WeightKG != 72.5 {
		t.Errorf("weight = %v, want 72.5", rec.WeightKG)
	}
	wantDOB := time.Date(fixedNow.Year()-30, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !rec.DateOfBirth.Equal(wantDOB) {
		t.Errorf("dob = %v, want %v", rec.DateOfBirth, wantDOB)
	}
	if rec.GoalWeightKG != nil || rec.GoalPaceKG != nil {
		t.Error("optional fields should be nil when left empty")
	}
}

// TestAssembleOnboarding_ImperialUnits verifies delegation to the unit
// conversions: 5 ft 9 in ≈ 175.26 cm, 150 lbs ≈ 68.04 kg, and an optional
// goal weight in the same unit as the weight field.
func TestAssembleOnboarding_ImperialUnits(t *testing.T) {
	form := makeForm()
	form.HeightUnit = "ft_in"
	form.HeightValue = ""
	form.HeightFeet = "5"
	form.HeightInches = "9"
	form.WeightUnit = "lbs"
	form.WeightValue = "150"
	form.GoalWeight = "140"

	rec, errs := assembleOnboardingRecord(form, fixedNow)
	if len(errs) > 0 {
		t.Fatalf("unexpected field errors: %v", errs)
	}

	if math.Abs(rec.HeightCM-175.26) >= 0.01 {
		t.Errorf("height = %v, want 175.26 (±0.01)", rec.HeightCM)
	}
	if math.Abs(rec.WeightKG-68.04) >= 0.01 {
		t.Errorf("weight = %v, want 68.04 (±0.01)", rec.WeightKG)
	}
	if rec.GoalWeightKG == nil || math.Abs(*rec.GoalWeightKG-63.50) >= 0.01 {
		t.Errorf("goal weight = %v, want 63.50 (±0.01)", rec.GoalWeightKG)
	}
}

// TestAssembleOnboarding_FieldValidation verifies per-field rejection: each
// sub-test breaks one field and expects exactly that field in the error map.
func TestAssembleOnboarding_FieldValidation(t *testing.T) {
	cases := []struct {
		name      string
		mutFn     func(f *onboardingForm)
		wantField string
	}{
		{"missing goal", func(f *onboardingForm) { f.Goal = "" }, "goal"},
		{"unknown goal", func(f *onboardingForm) { f.Goal = "bulk" }, "goal"},
		{"missing age", func(f *onboardingForm) { f.Age = "" }, "age"},
		{"non-numeric age", func(f *onboardingForm) { f.Age = "thirty" }, "age"},
		{"fractional age", func(f *onboardingForm) { f.Age = "30.5" }, "age"},
		{"age out of range", func(f *onboardingForm) { f.Age = "150" }, "age"},
		{"missing gender", func(f *onboardingForm) { f.Gender = "" }, "gender"},
		{"unknown gender", func(f *onboardingForm) { f.Gender = "x" }, "gender"},
		{"missing activity", func(f *onboardingForm) { f.ActivityLvl = "" }, "activity_level"},
		{"unknown activity", func(f *onboardingForm) { f.ActivityLvl = "couch" }, "activity_level"},
		{"missing height unit", func(f *onboardingForm) { f.HeightUnit = "" }, "height_unit"},
		{"unknown height unit", func(f *onboardingForm) { f.HeightUnit = "m" }, "height_unit"},
		{"missing height", func(f *onboardingForm) { f.HeightValue = "" }, "height"},
		{"non-numeric height", func(f *onboardingForm) { f.HeightValue = "tall" }, "height"},
		{"zero height", func(f *onboardingForm) { f.HeightValue = "0" }, "height"},
		{"missing weight unit", func(f *onboardingForm) { f.WeightUnit = "" }, "weight_unit"},
		{"missing weight", func(f *onboardingForm) { f.WeightValue = "" }, "weight"},
		{"negative weight", func(f *onboardingForm) { f.WeightValue = "-70" }, "weight"},
		{"non-numeric goal weight", func(f *onboardingForm) { f.GoalWeight = "soon" }, "goal_weight"},
		{"negative pace", func(f *onboardingForm) { f.GoalPace = "-0.5" }, "goal_pace"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := makeForm()
			tc.mutFn(&form)
			_, errs := assembleOnboardingRecord(form, fixedNow)
			if len(errs) == 0 {
				t.Fatal("expected field errors, got none")
			}
			if _, ok := errs[tc.wantField]; !ok {
				t.Errorf("error map %v missing field %q", errs, tc.wantField)
			}
		})
	}
}

// TestAssembleOnboarding_AllOrNothing verifies that multiple broken fields
// are all reported in one pass and no partial record leaks out.
func TestAssembleOnboarding_AllOrNothing(t *testing.T) {
	form := makeForm()
	form.Age = "abc"
	form.WeightValue = ""
	form.Gender = ""

	rec, errs := assembleOnboardingRecord(form, fixedNow)
	if len(errs) != 3 {
		t.Errorf("error count = %d (%v), want 3", len(errs), errs)
	}
	if rec.HeightCM != 0 || rec.WeightKG != 0 {
		t.Errorf("record must stay zero-valued on failure, got %+v", rec)
	}
}

// TestAssembleOnboarding_FeetZeroInches verifies "5 ft 0 in" is accepted —
// zero is valid for one component as long as the total is positive.
func TestAssembleOnboarding_FeetZeroInches(t *testing.T) {
	form := makeForm()
	form.HeightUnit = "ft_in"
	form.HeightValue = ""
	form.HeightFeet = "5"
	form.HeightInches = "0"

	rec, errs := assembleOnboardingRecord(form, fixedNow)
	if len(errs) > 0 {
		t.Fatalf("unexpected field errors: %v", errs)
	}
	if math.Abs(rec.HeightCM-152.4) >= 0.01 {
		t.Errorf("height = %v, want 152.4 (±0.01)", rec.HeightCM)
	}
}

// TestAssembleOnboarding_FeedsGoalCalculation verifies the assembled record
// is accepted by goal calculation without further massaging.
func TestAssembleOnboarding_FeedsGoalCalculation(t *testing.T) {
	rec, errs := assembleOnboardingRecord(makeForm(), fixedNow)
	if len(errs) > 0 {
		t.Fatalf("unexpected field errors: %v", errs)
	}

	targets, err := calculateNutritionGoals(rec, fixedNow)
	if err != nil {
		t.Fatalf("goal calculation rejected an assembled record: %v", err)
	}
	if targets.Calories < minDailyCalories {
		t.Errorf("calories = %d, below the %d floor", targets.Calories, minDailyCalories)
	}
}
