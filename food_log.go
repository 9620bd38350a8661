package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// getFoodLog returns the authenticated user's food log entries for one date.
// GET /api/food-log?date=YYYY-MM-DD (defaults to today).
// Returns an empty array (not null) if nothing was logged.
func (h *Handler) getFoodLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	entries, err := queryMany[foodLogEntry](h.db, c,
		`SELECT * FROM food_log_entries
		 WHERE user_id = @userID AND log_date = @date
		 ORDER BY created_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch food log")
		return
	}
	if entries == nil {
		entries = []foodLogEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// getRecentFoodLogs returns the user's most recently logged entries across all
// dates, newest first. GET /api/food-log/recent?limit=N (default 3, max 20).
func (h *Handler) getRecentFoodLogs(c *gin.Context) {
	userID := c.GetInt("user_id")

	limit := recentLogLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 20 {
			apiError(c, http.StatusBadRequest, "limit must be between 1 and 20")
			return
		}
		limit = n
	}

	entries, err := queryMany[foodLogEntry](h.db, c,
		`SELECT * FROM food_log_entries
		 WHERE user_id = @userID
		 ORDER BY created_at DESC
		 LIMIT @limit`,
		pgx.NamedArgs{"userID": userID, "limit": limit})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch recent logs")
		return
	}
	if entries == nil {
		entries = []foodLogEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// createFoodLogEntry inserts a new food log entry.
// POST /api/food-log. Defaults log_date to today if omitted.
// Entries are immutable once logged — there is no update endpoint; an edit is
// a delete followed by a fresh create.
func (h *Handler) createFoodLogEntry(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createFoodLogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.FoodName == "" {
		apiError(c, http.StatusBadRequest, "food_name is required")
		return
	}
	if body.ServingSize <= 0 {
		apiError(c, http.StatusBadRequest, "serving_size must be greater than zero")
		return
	}
	if body.Calories < 0 || body.Protein < 0 || body.Carbs < 0 || body.Fat < 0 {
		apiError(c, http.StatusBadRequest, "nutrition values must not be negative")
		return
	}
	if body.ServingUnit == "" {
		body.ServingUnit = "serving"
	}
	if body.LogDate == "" {
		body.LogDate = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", body.LogDate); err != nil {
		apiError(c, http.StatusBadRequest, "invalid log_date, expected YYYY-MM-DD")
		return
	}

	entry, err := queryOne[foodLogEntry](h.db, c,
		`INSERT INTO food_log_entries (user_id, food_name, calories, protein, carbs, fat, serving_size, serving_unit, log_date)
		 VALUES (@userID, @foodName, @calories, @protein, @carbs, @fat, @servingSize, @servingUnit, @logDate)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "foodName": body.FoodName,
			"calories": body.Calories, "protein": body.Protein,
			"carbs": body.Carbs, "fat": body.Fat,
			"servingSize": body.ServingSize, "servingUnit": body.ServingUnit,
			"logDate": body.LogDate,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// deleteFoodLogEntry removes a food log entry. Returns 204 on success.
// DELETE /api/food-log/:id. Ownership is enforced by matching both id and user_id.
func (h *Handler) deleteFoodLogEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM food_log_entries WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}
