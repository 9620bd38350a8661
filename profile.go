package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// getProfile returns the authenticated user's profile with its persisted
// targets. GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[profile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	c.JSON(http.StatusOK, p)
}

// patchProfile updates only the provided profile fields. Pointer fields in
// the request body distinguish "not provided" from zero — only non-nil
// fields get written. When a field that feeds goal calculation changes and
// the profile is complete, the calorie/macro targets are recomputed and
// persisted in the same request.
// PATCH /api/profile.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validate enum fields before saving — an unknown value silently breaks
	// every future goal recomputation with no visible error.
	if body.ActivityLevel != nil {
		if _, ok := activityMultipliers[*body.ActivityLevel]; !ok {
			apiError(c, http.StatusBadRequest, "activity_level must be one of: sedentary, light, moderate, active, extra_active")
			return
		}
	}
	if body.Gender != nil && !validGenders[*body.Gender] {
		apiError(c, http.StatusBadRequest, "gender must be one of: male, female, other")
		return
	}
	if body.Goal != nil && !validGoals[*body.Goal] {
		apiError(c, http.StatusBadRequest, "goal must be one of: lose, maintain, gain")
		return
	}
	if body.DateOfBirth != nil {
		if _, err := time.Parse("2006-01-02", *body.DateOfBirth); err != nil {
			apiError(c, http.StatusBadRequest, "invalid date_of_birth, expected YYYY-MM-DD")
			return
		}
	}
	if body.HeightCM != nil && *body.HeightCM <= 0 {
		apiError(c, http.StatusBadRequest, "height_cm must be greater than zero")
		return
	}
	if body.WeightKG != nil && *body.WeightKG <= 0 {
		apiError(c, http.StatusBadRequest, "weight_kg must be greater than zero")
		return
	}
	if body.GoalWeightKG != nil && *body.GoalWeightKG <= 0 {
		apiError(c, http.StatusBadRequest, "goal_weight_kg must be greater than zero")
		return
	}
	if body.GoalPaceKG != nil && *body.GoalPaceKG <= 0 {
		apiError(c, http.StatusBadRequest, "goal_pace_kg_per_week must be greater than zero")
		return
	}

	// Build SET clause dynamically — only update fields the client actually sent.
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}

	if body.HeightCM != nil {
		setClauses = append(setClauses, "height_cm = @heightCM")
		args["heightCM"] = *body.HeightCM
	}
	if body.DateOfBirth != nil {
		setClauses = append(setClauses, "date_of_birth = @dob")
		args["dob"] = *body.DateOfBirth
	}
	if body.Gender != nil {
		setClauses = append(setClauses, "gender = @gender")
		args["gender"] = *body.Gender
	}
	if body.ActivityLevel != nil {
		setClauses = append(setClauses, "activity_level = @activityLevel")
		args["activityLevel"] = *body.ActivityLevel
	}
	if body.Goal != nil {
		setClauses = append(setClauses, "goal = @goal")
		args["goal"] = *body.Goal
	}
	if body.WeightKG != nil {
		setClauses = append(setClauses, "weight_kg = @weightKG")
		args["weightKG"] = *body.WeightKG
	}
	if body.GoalWeightKG != nil {
		setClauses = append(setClauses, "goal_weight_kg = @goalWeightKG")
		args["goalWeightKG"] = *body.GoalWeightKG
	}
	if body.GoalPaceKG != nil {
		setClauses = append(setClauses, "goal_pace_kg_per_week = @goalPaceKG")
		args["goalPaceKG"] = *body.GoalPaceKG
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE profiles SET " +
		strings.Join(setClauses, ", ") +
		" WHERE user_id = @userID RETURNING *"

	p, err := queryOne[profile](h.db, c, query, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	// Every patchable field feeds goal calculation, so any successful patch
	// triggers a recompute. A profile still missing required fields keeps its
	// existing targets.
	if rec, ok := p.asOnboardingRecord(); ok {
		targets, err := calculateNutritionGoals(rec, time.Now())
		if err != nil {
			log.Printf("[patchProfile] goal recompute failed for user %d: %v", userID, err)
		} else {
			updated, err := queryOne[profile](h.db, c,
				`UPDATE profiles SET
					target_calories = @calories,
					target_protein_g = @proteinG,
					target_carbs_g = @carbsG,
					target_fat_g = @fatG
				 WHERE user_id = @userID RETURNING *`,
				pgx.NamedArgs{
					"calories": targets.Calories, "proteinG": targets.ProteinG,
					"carbsG": targets.CarbsG, "fatG": targets.FatG,
					"userID": userID,
				})
			if err != nil {
				log.Printf("[patchProfile] target update failed for user %d: %v", userID, err)
			} else {
				p = updated
			}
		}
	}

	c.JSON(http.StatusOK, p)
}

// asOnboardingRecord converts a persisted profile back into the normalized
// record goal calculation consumes. ok=false when any required field is still
// NULL — an incomplete profile never reaches the calculator.
func (p *profile) asOnboardingRecord() (onboardingRecord, bool) {
	if p.HeightCM == nil || p.WeightKG == nil || p.DateOfBirth == nil ||
		p.Gender == nil || p.ActivityLevel == nil || p.Goal == nil {
		return onboardingRecord{}, false
	}
	return onboardingRecord{
		Goal:          *p.Goal,
		HeightCM:      *p.HeightCM,
		WeightKG:      *p.WeightKG,
		DateOfBirth:   p.DateOfBirth.Time,
		Gender:        *p.Gender,
		ActivityLevel: *p.ActivityLevel,
		GoalWeightKG:  p.GoalWeightKG,
		GoalPaceKG:    p.GoalPaceKG,
	}, true
}
