package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns into DateOnly. NULL values zero the time and return nil so that
// *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Email     string     `json:"email" db:"email"`
	Name      *string    `json:"name" db:"name"`
	Password  string     `json:"-" db:"password"`
	AuthToken string     `json:"-" db:"auth_token"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// foodLogEntry maps to food_log_entries. Macro values are per one ServingUnit;
// ServingSize is the multiplier applied at aggregation time. Entries are
// immutable once logged — an edit is modeled as delete + recreate, so there is
// no update path and no updated_at column.
type foodLogEntry struct {
	ID          int        `json:"id" db:"id"`
	UserID      int        `json:"user_id" db:"user_id"`
	FoodName    string     `json:"food_name" db:"food_name"`
	Calories    float64    `json:"calories" db:"calories"`
	Protein     float64    `json:"protein" db:"protein"`
	Carbs       float64    `json:"carbs" db:"carbs"`
	Fat         float64    `json:"fat" db:"fat"`
	ServingSize float64    `json:"serving_size" db:"serving_size"`
	ServingUnit string     `json:"serving_unit" db:"serving_unit"`
	LogDate     DateOnly   `json:"log_date" db:"log_date"`
	CreatedAt   *time.Time `json:"created_at" db:"created_at"`
}

// weightEntry maps to weight_log_entries. Unit is "kg" or "lbs"; multiple
// entries per date are allowed, so ordering ties are broken by id
// (insertion order).
type weightEntry struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	Weight    float64    `json:"weight" db:"weight"`
	Unit      string     `json:"unit" db:"unit"`
	LogDate   DateOnly   `json:"log_date" db:"log_date"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// profile maps to profiles. One row per user; all biometric and target fields
// are pointers so a freshly created row (everything NULL) scans and serializes
// cleanly. Targets are populated by onboarding and refreshed whenever a
// biometric field changes through PATCH /api/profile.
type profile struct {
	UserID        int       `json:"user_id" db:"user_id"`
	HeightCM      *float64  `json:"height_cm" db:"height_cm"`
	DateOfBirth   *DateOnly `json:"date_of_birth" db:"date_of_birth"`
	Gender        *string   `json:"gender" db:"gender"`
	ActivityLevel *string   `json:"activity_level" db:"activity_level"`
	Goal          *string   `json:"goal" db:"goal"`
	WeightKG      *float64  `json:"weight_kg" db:"weight_kg"`
	GoalWeightKG  *float64  `json:"goal_weight_kg" db:"goal_weight_kg"`
	GoalPaceKG    *float64  `json:"goal_pace_kg_per_week" db:"goal_pace_kg_per_week"`

	TargetCalories *int     `json:"target_calories" db:"target_calories"`
	TargetProteinG *float64 `json:"target_protein_g" db:"target_protein_g"`
	TargetCarbsG   *float64 `json:"target_carbs_g" db:"target_carbs_g"`
	TargetFatG     *float64 `json:"target_fat_g" db:"target_fat_g"`
}

// targets extracts the profile's persisted goal fields as a goalTargets value,
// defaulting missing fields to zero so aggregation still produces a usable
// summary for an incomplete profile.
func (p *profile) targets() goalTargets {
	var t goalTargets
	if p == nil {
		return t
	}
	if p.TargetCalories != nil {
		t.Calories = *p.TargetCalories
	}
	if p.TargetProteinG != nil {
		t.ProteinG = *p.TargetProteinG
	}
	if p.TargetCarbsG != nil {
		t.CarbsG = *p.TargetCarbsG
	}
	if p.TargetFatG != nil {
		t.FatG = *p.TargetFatG
	}
	return t
}

/* ─── Derived view types ─────────────────────────────────────────────── */

// macroProgress is one consumed-vs-goal pair inside a dailySummary.
type macroProgress struct {
	Consumed int     `json:"consumed"`
	Goal     float64 `json:"goal"`
}

// dailySummary is the response shape for GET /api/summary/daily. Derived on
// every request and owned by the caller; nothing in it is persisted.
type dailySummary struct {
	Date     string        `json:"date"`
	Calories macroProgress `json:"calories"`
	Protein  macroProgress `json:"protein"`
	Carbs    macroProgress `json:"carbs"`
	Fat      macroProgress `json:"fat"`

	RecentLogs []foodLogEntry `json:"recent_logs"`
}

// weekDayDBRow is the shape of each row returned by the week-summary GROUP BY
// query. Used only for scanning; the response uses weekDaySummary.
type weekDayDBRow struct {
	LogDate  DateOnly `db:"log_date"`
	Calories float64  `db:"calories"`
	Protein  float64  `db:"protein"`
	Carbs    float64  `db:"carbs"`
	Fat      float64  `db:"fat"`
}

// weekDaySummary is one day's entry in the GET /api/summary/week response.
// Days with no logged entries have HasData=false and zero consumed fields.
type weekDaySummary struct {
	Date          DateOnly `json:"date"`
	Calories      int      `json:"calories"`
	Protein       float64  `json:"protein"`
	Carbs         float64  `json:"carbs"`
	Fat           float64  `json:"fat"`
	CalorieTarget int      `json:"calorie_target"`
	CaloriesLeft  int      `json:"calories_left"`
	HasData       bool     `json:"has_data"`
}

// weightChart is the bounded chart series inside a weightTrendView.
type weightChart struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// weightTrendView is the response shape for GET /api/weight-log/trend.
// CurrentKG is nil when the history is empty.
type weightTrendView struct {
	Chart       weightChart   `json:"chart"`
	TrendKG     float64       `json:"trend_kg"`
	CurrentKG   *float64      `json:"current_kg"`
	HistoryDesc []weightEntry `json:"history"`
}

/* ─── Request DTOs ───────────────────────────────────────────────────── */

// createFoodLogRequest is the request body for POST /api/food-log.
type createFoodLogRequest struct {
	FoodName    string  `json:"food_name"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	ServingSize float64 `json:"serving_size"`
	ServingUnit string  `json:"serving_unit"`
	LogDate     string  `json:"log_date"`
}

// createWeightEntryRequest is the request body for POST /api/weight-log.
type createWeightEntryRequest struct {
	Weight  float64 `json:"weight"`
	Unit    string  `json:"unit"`
	LogDate string  `json:"log_date"`
}

// patchProfileRequest is the request body for PATCH /api/profile. All fields
// are pointers — only non-nil fields get written to the database.
type patchProfileRequest struct {
	HeightCM      *float64 `json:"height_cm"`
	DateOfBirth   *string  `json:"date_of_birth"` // YYYY-MM-DD, stored as date
	Gender        *string  `json:"gender"`
	ActivityLevel *string  `json:"activity_level"`
	Goal          *string  `json:"goal"`
	WeightKG      *float64 `json:"weight_kg"`
	GoalWeightKG  *float64 `json:"goal_weight_kg"`
	GoalPaceKG    *float64 `json:"goal_pace_kg_per_week"`
}

// onboardingForm is the request body for POST /api/onboarding. Everything
// arrives as raw strings straight from form fields; the assembler owns all
// parsing and validation.
type onboardingForm struct {
	Name         string `json:"name"`
	Goal         string `json:"goal"`
	Age          string `json:"age"`
	Gender       string `json:"gender"`
	HeightUnit   string `json:"height_unit"` // "cm" or "ft_in"
	HeightValue  string `json:"height_value"`
	HeightFeet   string `json:"height_feet"`
	HeightInches string `json:"height_inches"`
	WeightUnit   string `json:"weight_unit"` // "kg" or "lbs"
	WeightValue  string `json:"weight_value"`
	ActivityLvl  string `json:"activity_level"`
	GoalWeight   string `json:"goal_weight"` // optional, in WeightUnit
	GoalPace     string `json:"goal_pace"`   // optional, kg/week
}
