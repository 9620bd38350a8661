package main

import (
	"math"
	"time"
)

// activityMultipliers maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels — also used for
// input validation in the onboarding assembler and patchProfile.
var activityMultipliers = map[string]float64{
	"sedentary":    1.2,
	"light":        1.375,
	"moderate":     1.55,
	"active":       1.725,
	"extra_active": 1.9,
}

// validGenders is the set of accepted gender values. "other" gets the mean of
// the male and female BMR formulas.
var validGenders = map[string]bool{
	"male":   true,
	"female": true,
	"other":  true,
}

// validGoals is the set of accepted goal values.
var validGoals = map[string]bool{
	"lose":     true,
	"maintain": true,
	"gain":     true,
}

const (
	// defaultPaceKGPerWeek is assumed when the user never picked a pace.
	defaultPaceKGPerWeek = 0.5
	// kcalPerKGPace is the daily calorie adjustment for a 1 kg/week pace
	// (1100 kcal/day ≈ 0.5 kg/week of fat mass, scaled linearly).
	kcalPerKGPace = 1100
	// minDailyCalories is the safe floor. Results below it are raised to it,
	// not rejected — testers should expect the floor for extreme inputs.
	minDailyCalories = 1200

	proteinGPerKG   = 2.0
	fatCalorieShare = 0.25
	kcalPerGProtein = 4
	kcalPerGCarbs   = 4
	kcalPerGFat     = 9
)

// onboardingRecord is the fully normalized profile the goal calculation
// consumes: metric units, resolved date of birth. Assembled once per
// onboarding session; never persisted as-is.
type onboardingRecord struct {
	Name          string
	Goal          string
	HeightCM      float64
	WeightKG      float64
	DateOfBirth   time.Time
	Gender        string
	ActivityLevel string
	GoalWeightKG  *float64
	GoalPaceKG    *float64
}

// goalTargets is the output of goal calculation: a daily calorie target and
// its macro split.
type goalTargets struct {
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// ageInYears returns whole years between dob and now, accounting for whether
// the birthday has happened yet this year (integer floor, never rounded up).
func ageInYears(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Before(dob.AddDate(age, 0, 0)) {
		age--
	}
	return age
}

// calculateNutritionGoals derives the daily calorie target and macro split
// from a normalized onboarding record.
//
// Pipeline: BMR (Mifflin-St Jeor) → TDEE (activity multiplier) → goal pace
// adjustment → 1200 kcal safety clamp → macro split. All arithmetic stays in
// float64; math.Round is applied only to the final calorie value.
//
// The checks here are defensive — the assembler validates the same things on
// raw input, but a zero weight or unknown activity level reaching this far
// must fail loudly rather than produce a garbage target.
func calculateNutritionGoals(rec onboardingRecord, now time.Time) (goalTargets, error) {
	if rec.WeightKG <= 0 {
		return goalTargets{}, &ComputationError{Reason: "weight must be greater than zero"}
	}
	if rec.HeightCM <= 0 {
		return goalTargets{}, &ComputationError{Reason: "height must be greater than zero"}
	}
	if rec.DateOfBirth.IsZero() {
		return goalTargets{}, &ComputationError{Reason: "date of birth is missing"}
	}
	if !validGenders[rec.Gender] {
		return goalTargets{}, &ComputationError{Reason: "unknown gender " + rec.Gender}
	}
	mult, ok := activityMultipliers[rec.ActivityLevel]
	if !ok {
		return goalTargets{}, &ComputationError{Reason: "unknown activity level " + rec.ActivityLevel}
	}
	if !validGoals[rec.Goal] {
		return goalTargets{}, &ComputationError{Reason: "unknown goal " + rec.Goal}
	}

	age := ageInYears(rec.DateOfBirth, now)
	if age < 0 || age > 130 {
		return goalTargets{}, &ComputationError{Reason: "implausible date of birth"}
	}

	// BMR via Mifflin-St Jeor. "other" uses the mean of the two gendered
	// formulas, which works out to the shared terms minus 78.
	base := 10*rec.WeightKG + 6.25*rec.HeightCM - 5*float64(age)
	var bmr float64
	switch rec.Gender {
	case "male":
		bmr = base + 5
	case "female":
		bmr = base - 161
	case "other":
		bmr = ((base + 5) + (base - 161)) / 2
	}

	tdee := bmr * mult

	// Pace-scaled goal adjustment. Maintain ignores pace entirely.
	pace := defaultPaceKGPerWeek
	if rec.GoalPaceKG != nil {
		pace = *rec.GoalPaceKG
	}
	calories := tdee
	switch rec.Goal {
	case "lose":
		calories = tdee - pace*kcalPerKGPace
	case "gain":
		calories = tdee + pace*kcalPerKGPace
	}

	// Safety floor — a clamp, not a failure.
	if calories < minDailyCalories {
		calories = minDailyCalories
	}

	return goalTargets{
		Calories: int(math.Round(calories)),
		ProteinG: splitProtein(rec),
		CarbsG:   0, // filled by splitMacros below
		FatG:     0,
	}.splitMacros(), nil
}

// splitProtein returns the protein target in grams: 2.0 g per kg of goal
// weight when one was supplied, else current weight.
func splitProtein(rec onboardingRecord) float64 {
	w := rec.WeightKG
	if rec.GoalWeightKG != nil {
		w = *rec.GoalWeightKG
	}
	return proteinGPerKG * w
}

// splitMacros fills CarbsG and FatG from Calories and ProteinG.
//
// Fat gets 25% of calories; carbs take the remainder. When protein + fat
// alone exceed the calorie target the resolution order is fixed for
// reproducibility: fat is reduced first (down to zero), then protein, so
// carbs never go negative.
func (t goalTargets) splitMacros() goalTargets {
	calories := float64(t.Calories)
	proteinKcal := t.ProteinG * kcalPerGProtein
	fatKcal := calories * fatCalorieShare

	if proteinKcal+fatKcal > calories {
		fatKcal = calories - proteinKcal
		if fatKcal < 0 {
			fatKcal = 0
			proteinKcal = calories
			t.ProteinG = proteinKcal / kcalPerGProtein
		}
	}

	t.FatG = fatKcal / kcalPerGFat
	carbsKcal := calories - proteinKcal - fatKcal
	if carbsKcal < 0 {
		carbsKcal = 0
	}
	t.CarbsG = carbsKcal / kcalPerGCarbs
	return t
}
