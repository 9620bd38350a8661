package main

import (
	"errors"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// recentLogLimit bounds the "recently logged" view in the daily summary.
const recentLogLimit = 3

// aggregateDailyConsumption reduces one day's food log entries into
// consumed-vs-goal totals. A single float64 pass sums each macro scaled by its
// serving multiplier; rounding to integers happens only here at the output
// boundary so many small entries don't compound rounding error.
//
// Targets default to zero for an incomplete profile — the summary is always
// usable. The recent list is passed through bounded to recentLogLimit, as an
// empty slice (never nil) so JSON renders [].
func aggregateDailyConsumption(date string, entries []foodLogEntry, targets goalTargets, recent []foodLogEntry) dailySummary {
	var calories, protein, carbs, fat float64
	for _, e := range entries {
		calories += e.Calories * e.ServingSize
		protein += e.Protein * e.ServingSize
		carbs += e.Carbs * e.ServingSize
		fat += e.Fat * e.ServingSize
	}

	if len(recent) > recentLogLimit {
		recent = recent[:recentLogLimit]
	}
	if recent == nil {
		recent = []foodLogEntry{}
	}

	return dailySummary{
		Date:       date,
		Calories:   macroProgress{Consumed: int(math.Round(calories)), Goal: float64(targets.Calories)},
		Protein:    macroProgress{Consumed: int(math.Round(protein)), Goal: targets.ProteinG},
		Carbs:      macroProgress{Consumed: int(math.Round(carbs)), Goal: targets.CarbsG},
		Fat:        macroProgress{Consumed: int(math.Round(fat)), Goal: targets.FatG},
		RecentLogs: recent,
	}
}

// buildWeekSummary merges sparse per-day GROUP BY rows into a dense Mon–Sun
// series starting at weekStart. Days with no logged entries are present with
// HasData=false so the client never has to gap-fill.
func buildWeekSummary(weekStart time.Time, rows []weekDayDBRow, targets goalTargets) []weekDaySummary {
	rowByDate := make(map[string]weekDayDBRow, len(rows))
	for _, r := range rows {
		rowByDate[r.LogDate.Time.Format("2006-01-02")] = r
	}

	week := make([]weekDaySummary, 7)
	for i := 0; i < 7; i++ {
		d := weekStart.AddDate(0, 0, i)
		day := weekDaySummary{
			Date:          DateOnly{d},
			CalorieTarget: targets.Calories,
		}
		if row, ok := rowByDate[d.Format("2006-01-02")]; ok {
			day.HasData = true
			day.Calories = int(math.Round(row.Calories))
			day.Protein = row.Protein
			day.Carbs = row.Carbs
			day.Fat = row.Fat
		}
		day.CaloriesLeft = targets.Calories - day.Calories
		week[i] = day
	}
	return week
}

// currentMonday returns the Monday of the current week at midnight UTC.
// Uses AddDate to safely handle month/year boundaries — direct day subtraction
// can produce day=0 or negative, which time.Date normalizes but is confusing.
func currentMonday() time.Time {
	now := time.Now().UTC()
	weekday := int(now.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7 // treat Sunday as day 7 so Mon=1..Sun=7
	}
	daysBack := weekday - 1
	return now.AddDate(0, 0, -daysBack).Truncate(24 * time.Hour)
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// getDailySummary returns consumed-vs-goal totals and recent logs for a date.
// GET /api/summary/daily?date=YYYY-MM-DD (defaults to today).
// Profile, the day's entries, and recent entries are fetched concurrently; if
// any fetch fails the whole request fails — no partial or zeroed summaries.
func (h *Handler) getDailySummary(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	// Validate date format before querying — an invalid value silently returns no rows.
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	summary, stale, err := h.summaries.Load(c.Request.Context(), userID, date)
	if err != nil {
		if errors.Is(err, ErrDataUnavailable) {
			apiError(c, http.StatusBadGateway, "summary data unavailable")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to build summary")
		}
		return
	}
	if stale {
		// A newer date was requested while this one was loading; the client
		// that asked for it has already moved on.
		log.Printf("[getDailySummary] discarding stale result for user %d date %s", userID, date)
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// getWeekSummary returns per-day consumed totals for the Mon–Sun week
// containing week_start, with the calorie target from the user's profile.
// GET /api/summary/week?week_start=YYYY-MM-DD (defaults to the current week).
func (h *Handler) getWeekSummary(c *gin.Context) {
	userID := c.GetInt("user_id")

	var weekStart time.Time
	if s := c.Query("week_start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid week_start, expected YYYY-MM-DD")
			return
		}
		weekStart = t
	} else {
		weekStart = currentMonday()
	}
	weekEnd := weekStart.AddDate(0, 0, 6)

	p, err := queryOne[profile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	// Per-day serving-scaled totals across the 7-day window.
	rows, err := queryMany[weekDayDBRow](h.db, c,
		`SELECT
			log_date,
			COALESCE(SUM(calories * serving_size), 0) AS calories,
			COALESCE(SUM(protein  * serving_size), 0) AS protein,
			COALESCE(SUM(carbs    * serving_size), 0) AS carbs,
			COALESCE(SUM(fat      * serving_size), 0) AS fat
		 FROM food_log_entries
		 WHERE user_id = @userID AND log_date >= @weekStart AND log_date <= @weekEnd
		 GROUP BY log_date`,
		pgx.NamedArgs{
			"userID":    userID,
			"weekStart": weekStart.Format("2006-01-02"),
			"weekEnd":   weekEnd.Format("2006-01-02"),
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch week data")
		return
	}

	c.JSON(http.StatusOK, buildWeekSummary(weekStart, rows, p.targets()))
}
