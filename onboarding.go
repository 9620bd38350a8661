package main

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// The onboarding assembler turns raw string-typed form fields into a fully
// normalized onboardingRecord. Validation is all-or-nothing: every field is
// checked and every problem collected before any numeric work runs, so goal
// calculation never sees a partially valid record.

// parseRequiredFloat parses a required positive number, recording a field
// error on failure and returning ok=false.
func parseRequiredFloat(errs fieldErrors, field, raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs.add(field, "is required")
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs.add(field, "must be a number")
		return 0, false
	}
	if v <= 0 {
		errs.add(field, "must be greater than zero")
		return 0, false
	}
	return v, true
}

// parseOptionalFloat parses an optional positive number. Returns nil when the
// field was left empty.
func parseOptionalFloat(errs fieldErrors, field, raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs.add(field, "must be a number")
		return nil
	}
	if v <= 0 {
		errs.add(field, "must be greater than zero")
		return nil
	}
	return &v
}

// parseOptionalNonNegFloat parses an optional number that may be zero (used
// for the feet/inches pair, where "5 ft 0 in" is valid). Returns nil when the
// field was left empty.
func parseOptionalNonNegFloat(errs fieldErrors, field, raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs.add(field, "must be a number")
		return nil
	}
	if v < 0 {
		errs.add(field, "must not be negative")
		return nil
	}
	return &v
}

// assembleOnboardingRecord validates and normalizes an onboarding form.
// On success the returned record has metric units and a resolved date of
// birth; on failure the fieldErrors map names every invalid field and the
// record must be ignored.
//
// Date of birth is approximated from the age input as January 1st of
// (current year − age) — the exact birth date is intentionally not collected.
func assembleOnboardingRecord(form onboardingForm, now time.Time) (onboardingRecord, fieldErrors) {
	errs := fieldErrors{}

	goal := strings.TrimSpace(form.Goal)
	if goal == "" {
		errs.add("goal", "is required")
	} else if !validGoals[goal] {
		errs.add("goal", "must be one of: lose, maintain, gain")
	}

	gender := strings.TrimSpace(form.Gender)
	if gender == "" {
		errs.add("gender", "is required")
	} else if !validGenders[gender] {
		errs.add("gender", "must be one of: male, female, other")
	}

	activity := strings.TrimSpace(form.ActivityLvl)
	if activity == "" {
		errs.add("activity_level", "is required")
	} else if _, ok := activityMultipliers[activity]; !ok {
		errs.add("activity_level", "must be one of: sedentary, light, moderate, active, extra_active")
	}

	var age int
	if raw := strings.TrimSpace(form.Age); raw == "" {
		errs.add("age", "is required")
	} else if v, err := strconv.Atoi(raw); err != nil {
		errs.add("age", "must be a whole number")
	} else if v <= 0 || v > 130 {
		errs.add("age", "must be between 1 and 130")
	} else {
		age = v
	}

	// Height: unit selector decides which raw fields matter.
	var heightCM float64
	switch strings.TrimSpace(form.HeightUnit) {
	case "cm":
		if v, ok := parseRequiredFloat(errs, "height", form.HeightValue); ok {
			cm, err := heightToCM(v, "cm", nil, nil)
			if err != nil {
				addConversionError(errs, err)
			} else {
				heightCM = cm
			}
		}
	case "ft_in":
		feet := parseOptionalNonNegFloat(errs, "height", form.HeightFeet)
		inches := parseOptionalNonNegFloat(errs, "height", form.HeightInches)
		if _, clash := errs["height"]; !clash {
			cm, err := heightToCM(0, "ft_in", feet, inches)
			if err != nil {
				addConversionError(errs, err)
			} else {
				heightCM = cm
			}
		}
	case "":
		errs.add("height_unit", "is required")
	default:
		errs.add("height_unit", "must be cm or ft_in")
	}

	weightUnit := strings.TrimSpace(form.WeightUnit)
	if weightUnit == "" {
		errs.add("weight_unit", "is required")
	} else if weightUnit != "kg" && weightUnit != "lbs" {
		errs.add("weight_unit", "must be kg or lbs")
	}

	var weightKG float64
	if v, ok := parseRequiredFloat(errs, "weight", form.WeightValue); ok && weightUnit != "" {
		kg, err := weightToKG(v, weightUnit)
		if err != nil {
			addConversionError(errs, err)
		} else {
			weightKG = kg
		}
	}

	var goalWeightKG *float64
	if v := parseOptionalFloat(errs, "goal_weight", form.GoalWeight); v != nil && weightUnit != "" {
		kg, err := weightToKG(*v, weightUnit)
		if err != nil {
			errs.add("goal_weight", err.Error())
		} else {
			goalWeightKG = &kg
		}
	}

	goalPace := parseOptionalFloat(errs, "goal_pace", form.GoalPace)

	if len(errs) > 0 {
		return onboardingRecord{}, errs
	}

	return onboardingRecord{
		Name:          strings.TrimSpace(form.Name),
		Goal:          goal,
		HeightCM:      heightCM,
		WeightKG:      weightKG,
		DateOfBirth:   time.Date(now.Year()-age, time.January, 1, 0, 0, 0, 0, time.UTC),
		Gender:        gender,
		ActivityLevel: activity,
		GoalWeightKG:  goalWeightKG,
		GoalPaceKG:    goalPace,
	}, nil
}

// addConversionError maps a conversion FieldError onto the assembler's error
// map, falling back to a generic key for unexpected error types.
func addConversionError(errs fieldErrors, err error) {
	if fe, ok := err.(*FieldError); ok {
		errs.add(fe.Field, fe.Message)
		return
	}
	errs.add("form", err.Error())
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// completeOnboarding assembles the onboarding form, computes nutrition goals,
// and persists the profile in one statement.
// POST /api/onboarding. Returns 422 with {"errors": {field: message}} when any
// field is invalid — partial success is never possible.
func (h *Handler) completeOnboarding(c *gin.Context) {
	userID := c.GetInt("user_id")

	var form onboardingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, errs := assembleOnboardingRecord(form, time.Now())
	if len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	targets, err := calculateNutritionGoals(rec, time.Now())
	if err != nil {
		apiError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	p, err := queryOne[profile](h.db, c,
		`INSERT INTO profiles (user_id, height_cm, date_of_birth, gender, activity_level, goal,
		                       weight_kg, goal_weight_kg, goal_pace_kg_per_week,
		                       target_calories, target_protein_g, target_carbs_g, target_fat_g)
		 VALUES (@userID, @heightCM, @dob, @gender, @activityLevel, @goal,
		         @weightKG, @goalWeightKG, @goalPaceKG,
		         @calories, @proteinG, @carbsG, @fatG)
		 ON CONFLICT (user_id) DO UPDATE SET
			height_cm = EXCLUDED.height_cm,
			date_of_birth = EXCLUDED.date_of_birth,
			gender = EXCLUDED.gender,
			activity_level = EXCLUDED.activity_level,
			goal = EXCLUDED.goal,
			weight_kg = EXCLUDED.weight_kg,
			goal_weight_kg = EXCLUDED.goal_weight_kg,
			goal_pace_kg_per_week = EXCLUDED.goal_pace_kg_per_week,
			target_calories = EXCLUDED.target_calories,
			target_protein_g = EXCLUDED.target_protein_g,
			target_carbs_g = EXCLUDED.target_carbs_g,
			target_fat_g = EXCLUDED.target_fat_g
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "heightCM": rec.HeightCM,
			"dob": rec.DateOfBirth.Format("2006-01-02"), "gender": rec.Gender,
			"activityLevel": rec.ActivityLevel, "goal": rec.Goal,
			"weightKG": rec.WeightKG, "goalWeightKG": rec.GoalWeightKG,
			"goalPaceKG": rec.GoalPaceKG,
			"calories":   targets.Calories, "proteinG": targets.ProteinG,
			"carbsG": targets.CarbsG, "fatG": targets.FatG,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save profile")
		return
	}

	// Name is optional and lives on users, not profiles.
	if rec.Name != "" {
		if _, err := h.db.Exec(c,
			"UPDATE users SET name = @name WHERE id = @userID",
			pgx.NamedArgs{"name": rec.Name, "userID": userID}); err != nil {
			log.Printf("[completeOnboarding] name update failed for user %d: %v", userID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"profile": p, "targets": targets})
}
