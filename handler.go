package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	openai "github.com/sashabaranov/go-openai"
)

// Handler holds shared dependencies for all route handlers.
type Handler struct {
	db        *pgxpool.Pool
	summaries *summaryLoader
	ai        *openai.Client // nil when OPENAI_API_KEY is unset; suggest returns 503
}

// newHandler wires the handler's dependencies from the pool and environment.
func newHandler(pool *pgxpool.Pool) *Handler {
	h := &Handler{
		db:        pool,
		summaries: newSummaryLoader(pool),
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		h.ai = openai.NewClient(key)
	}
	return h
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Takes a plain context so callers outside gin handlers (the summary loader,
// CLI tools in tests) can use it too. Logs query and scan errors for
// debugging struct/column mismatches.
func queryOne[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn)
// because serverless Postgres providers close idle connections after a few
// minutes.
func getDBPool() *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Simple query protocol avoids "cached plan must not change result type"
	// errors from server-side prepared statement caches after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	return pool
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.POST("/onboarding", h.completeOnboarding)

	api.GET("/summary/daily", h.getDailySummary)
	api.GET("/summary/week", h.getWeekSummary)

	api.GET("/food-log", h.getFoodLog)
	api.GET("/food-log/recent", h.getRecentFoodLogs)
	api.POST("/food-log", h.createFoodLogEntry)
	api.DELETE("/food-log/:id", h.deleteFoodLogEntry)
	api.POST("/food-log/suggest", h.suggestFoodEntry)

	api.GET("/weight-log", h.getWeightLog)
	api.GET("/weight-log/trend", h.getWeightTrend)
	api.POST("/weight-log", h.createWeightEntry)
	api.DELETE("/weight-log/:id", h.deleteWeightEntry)

	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)
}
