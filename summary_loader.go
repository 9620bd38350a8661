package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// summaryLoader joins the three independent fetches a daily summary needs —
// profile, the date's food log, and the recent-log list — and runs the
// aggregation over the joined result.
//
// Two rules from the surrounding app's refresh behavior live here:
//   - all-or-nothing: if any fetch fails the whole load fails; a summary is
//     never built from partial data.
//   - last-request-wins: loads are keyed per user by the requested date. A
//     load that finishes after a newer date was requested for the same user
//     reports stale=true and its result must be discarded, so a slow fetch
//     can't overwrite the view for the date the user is now looking at.
//
// The loader keeps no result cache — only the latest date key. Every load
// recomputes the summary from fresh rows.
type summaryLoader struct {
	fetchProfile func(ctx context.Context, userID int) (profile, error)
	fetchDayLogs func(ctx context.Context, userID int, date string) ([]foodLogEntry, error)
	fetchRecent  func(ctx context.Context, userID, limit int) ([]foodLogEntry, error)

	mu     sync.Mutex
	latest map[int]string // userID → most recently requested date
}

// newSummaryLoader wires a loader to the database pool.
func newSummaryLoader(pool *pgxpool.Pool) *summaryLoader {
	return &summaryLoader{
		fetchProfile: func(ctx context.Context, userID int) (profile, error) {
			return queryOne[profile](pool, ctx,
				"SELECT * FROM profiles WHERE user_id = @userID",
				pgx.NamedArgs{"userID": userID})
		},
		fetchDayLogs: func(ctx context.Context, userID int, date string) ([]foodLogEntry, error) {
			return queryMany[foodLogEntry](pool, ctx,
				`SELECT * FROM food_log_entries
				 WHERE user_id = @userID AND log_date = @date
				 ORDER BY created_at`,
				pgx.NamedArgs{"userID": userID, "date": date})
		},
		fetchRecent: func(ctx context.Context, userID, limit int) ([]foodLogEntry, error) {
			return queryMany[foodLogEntry](pool, ctx,
				`SELECT * FROM food_log_entries
				 WHERE user_id = @userID
				 ORDER BY created_at DESC
				 LIMIT @limit`,
				pgx.NamedArgs{"userID": userID, "limit": limit})
		},
		latest: make(map[int]string),
	}
}

// begin records date as the user's current request and returns a check that
// reports whether this request is still the latest one.
func (l *summaryLoader) begin(userID int, date string) func() bool {
	l.mu.Lock()
	l.latest[userID] = date
	l.mu.Unlock()
	return func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.latest[userID] == date
	}
}

// Load fetches the three inputs concurrently and aggregates them. stale=true
// means a newer date was requested for this user while the load was running;
// the returned summary must be discarded.
func (l *summaryLoader) Load(ctx context.Context, userID int, date string) (dailySummary, bool, error) {
	stillCurrent := l.begin(userID, date)

	var (
		prof    profile
		dayLogs []foodLogEntry
		recent  []foodLogEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prof, err = l.fetchProfile(gctx, userID)
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		dayLogs, err = l.fetchDayLogs(gctx, userID, date)
		if err != nil {
			return fmt.Errorf("food log: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		recent, err = l.fetchRecent(gctx, userID, recentLogLimit)
		if err != nil {
			return fmt.Errorf("recent logs: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return dailySummary{}, false, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	summary := aggregateDailyConsumption(date, dayLogs, prof.targets(), recent)
	return summary, !stillCurrent(), nil
}
