package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// getWeightLog returns the user's full weight history in reverse-chronological
// order for list display. GET /api/weight-log.
// Returns an empty array (not null) for users with no entries.
func (h *Handler) getWeightLog(c *gin.Context) {
	userID := c.GetInt("user_id")

	entries, err := queryMany[weightEntry](h.db, c,
		`SELECT * FROM weight_log_entries
		 WHERE user_id = @userID
		 ORDER BY log_date DESC, id DESC`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}
	if entries == nil {
		entries = []weightEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// getWeightTrend returns the chart window, trend delta, current weight, and
// reverse-chronological history derived from the user's full weight log.
// GET /api/weight-log/trend.
func (h *Handler) getWeightTrend(c *gin.Context) {
	userID := c.GetInt("user_id")

	// Ascending with id as tiebreak preserves insertion order within a date.
	entries, err := queryMany[weightEntry](h.db, c,
		`SELECT * FROM weight_log_entries
		 WHERE user_id = @userID
		 ORDER BY log_date ASC, id ASC`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}

	c.JSON(http.StatusOK, deriveWeightTrend(entries))
}

// createWeightEntry logs a weight measurement. Multiple entries per date are
// allowed — no upsert; every POST is a new row.
// POST /api/weight-log. Body: { "weight": 82.5, "unit": "kg", "log_date": "YYYY-MM-DD" }.
func (h *Handler) createWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createWeightEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Weight <= 0 {
		apiError(c, http.StatusBadRequest, "weight must be greater than zero")
		return
	}
	if body.Unit != "kg" && body.Unit != "lbs" {
		apiError(c, http.StatusBadRequest, "unit must be kg or lbs")
		return
	}
	if body.LogDate == "" {
		body.LogDate = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", body.LogDate); err != nil {
		apiError(c, http.StatusBadRequest, "invalid log_date, expected YYYY-MM-DD")
		return
	}

	entry, err := queryOne[weightEntry](h.db, c,
		`INSERT INTO weight_log_entries (user_id, weight, unit, log_date)
		 VALUES (@userID, @weight, @unit, @logDate)
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "weight": body.Weight, "unit": body.Unit, "logDate": body.LogDate})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create weight entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// deleteWeightEntry removes a weight log entry by ID.
// DELETE /api/weight-log/:id. Returns 204 on success, 404 if not found.
func (h *Handler) deleteWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM weight_log_entries WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete weight entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "weight entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}
