// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/models"
)

const memoryPath = ":memory:"

var schemaQueries = []string{
	`CREATE TABLE IF NOT EXISTS ratings (
		user_id    INTEGER NOT NULL,
		movie_id   INTEGER NOT NULL,
		value      INTEGER NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, movie_id)
	)`,
	`CREATE TABLE IF NOT EXISTS watchlist (
		user_id  INTEGER NOT NULL,
		movie_id INTEGER NOT NULL,
		added_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, movie_id)
	)`,
	`CREATE TABLE IF NOT EXISTS views (
		user_id     INTEGER NOT NULL,
		movie_id    INTEGER NOT NULL,
		last_viewed TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, movie_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_movie ON ratings(movie_id)`,
}

// DuckDBStore persists interactions in DuckDB.
type DuckDBStore struct {
	conn    *sql.DB
	scale   models.RatingScale
	timeout time.Duration
	logger  zerolog.Logger
}

var _ Store = (*DuckDBStore)(nil)

// NewDuckDBStore opens the database and creates the schema.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDuckDBStore(ctx context.Context, cfg DuckDBConfig, scale models.RatingScale, logger zerolog.Logger) (*DuckDBStore, error) {
	path := cfg.Path
	if path == "" {
		path = memoryPath
	}
	if path != memoryPath {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	// Disable auto-install/auto-load so startup never reaches the network.
	params := []string{
		fmt.Sprintf("threads=%d", threads),
		"autoinstall_known_extensions=false",
		"autoload_known_extensions=false",
	}
	if path != memoryPath {
		params = append(params, "access_mode=read_write")
	}
	if cfg.MaxMemory != "" {
		params = append(params, "max_memory="+cfg.MaxMemory)
	}
	connStr := path + "?" + strings.Join(params, "&")

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(runtime.NumCPU())
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	s := &DuckDBStore{
		conn:    conn,
		scale:   scale,
		timeout: timeout,
		logger:  logger.With().Str("component", "store").Str("backend", BackendDuckDB).Logger(),
	}

	if err := s.createSchema(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s.logger.Info().Str("path", path).Int("threads", threads).Msg("interaction store opened")
	return s, nil
}

func (s *DuckDBStore) createSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	for _, q := range schemaQueries {
		if _, err := s.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(q), err)
		}
	}
	return nil
}

// queryContext bounds a statement by the configured timeout.
func (s *DuckDBStore) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// exec runs a write statement and records its metrics.
func (s *DuckDBStore) exec(ctx context.Context, operation, table, query string, args ...interface{}) error {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := s.conn.ExecContext(ctx, query, args...)
	metrics.RecordStoreQuery(operation, table, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("%s %s: %w", operation, table, err)
	}
	return nil
}

// GetRatings returns the user's ratings keyed by movie ID.
func (s *DuckDBStore) GetRatings(ctx context.Context, userID int) (map[int]int, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, `SELECT movie_id, value FROM ratings WHERE user_id = ?`, userID)
	if err != nil {
		metrics.RecordStoreQuery("select", "ratings", time.Since(start), err)
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer closeQuietly(rows)

	out := make(map[int]int)
	for rows.Next() {
		var movieID, value int
		if err := rows.Scan(&movieID, &value); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out[movieID] = value
	}
	err = rows.Err()
	metrics.RecordStoreQuery("select", "ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return out, nil
}

// GetAllRatings returns every rating ordered by user then movie.
func (s *DuckDBStore) GetAllRatings(ctx context.Context) ([]models.Rating, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx,
		`SELECT user_id, movie_id, value, updated_at FROM ratings ORDER BY user_id, movie_id`)
	if err != nil {
		metrics.RecordStoreQuery("select_all", "ratings", time.Since(start), err)
		return nil, fmt.Errorf("query all ratings: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Value, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, r)
	}
	err = rows.Err()
	metrics.RecordStoreQuery("select_all", "ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return out, nil
}

// GetWatchlist returns the user's watchlist ordered by movie ID.
func (s *DuckDBStore) GetWatchlist(ctx context.Context, userID int) ([]models.WatchlistEntry, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx,
		`SELECT movie_id, added_at FROM watchlist WHERE user_id = ? ORDER BY movie_id`, userID)
	if err != nil {
		metrics.RecordStoreQuery("select", "watchlist", time.Since(start), err)
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer closeQuietly(rows)

	out := []models.WatchlistEntry{}
	for rows.Next() {
		w := models.WatchlistEntry{UserID: userID}
		if err := rows.Scan(&w.MovieID, &w.AddedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist: %w", err)
		}
		out = append(out, w)
	}
	err = rows.Err()
	metrics.RecordStoreQuery("select", "watchlist", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("iterate watchlist: %w", err)
	}
	return out, nil
}

// GetViews returns the user's views ordered by movie ID.
func (s *DuckDBStore) GetViews(ctx context.Context, userID int) ([]models.ViewRecord, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx,
		`SELECT movie_id, last_viewed FROM views WHERE user_id = ? ORDER BY movie_id`, userID)
	if err != nil {
		metrics.RecordStoreQuery("select", "views", time.Since(start), err)
		return nil, fmt.Errorf("query views: %w", err)
	}
	defer closeQuietly(rows)

	out := []models.ViewRecord{}
	for rows.Next() {
		v := models.ViewRecord{UserID: userID}
		if err := rows.Scan(&v.MovieID, &v.LastViewed); err != nil {
			return nil, fmt.Errorf("scan view: %w", err)
		}
		out = append(out, v)
	}
	err = rows.Err()
	metrics.RecordStoreQuery("select", "views", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("iterate views: %w", err)
	}
	return out, nil
}

// UpsertRating inserts or replaces a rating.
func (s *DuckDBStore) UpsertRating(ctx context.Context, userID, movieID, value int) error {
	if err := checkIDs(userID, movieID); err != nil {
		return err
	}
	if err := s.scale.Check(value); err != nil {
		return err
	}
	return s.exec(ctx, "upsert", "ratings",
		`INSERT INTO ratings (user_id, movie_id, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at`,
		userID, movieID, value, time.Now().UTC())
}

// DeleteRating removes a rating.
func (s *DuckDBStore) DeleteRating(ctx context.Context, userID, movieID int) error {
	if err := checkIDs(userID, movieID); err != nil {
		return err
	}
	return s.exec(ctx, "delete", "ratings",
		`DELETE FROM ratings WHERE user_id = ? AND movie_id = ?`, userID, movieID)
}

// UpsertWatchlist adds a movie to the watchlist. Re-adding keeps the
// original added_at.
func (s *DuckDBStore) UpsertWatchlist(ctx context.Context, userID, movieID int) error {
	if err := checkIDs(userID, movieID); err != nil {
		return err
	}
	return s.exec(ctx, "upsert", "watchlist",
		`INSERT INTO watchlist (user_id, movie_id, added_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id, movie_id) DO NOTHING`,
		userID, movieID, time.Now().UTC())
}

// DeleteWatchlist removes a movie from the watchlist.
func (s *DuckDBStore) DeleteWatchlist(ctx context.Context, userID, movieID int) error {
	if err := checkIDs(userID, movieID); err != nil {
		return err
	}
	return s.exec(ctx, "delete", "watchlist",
		`DELETE FROM watchlist WHERE user_id = ? AND movie_id = ?`, userID, movieID)
}

// RecordView records a view, refreshing last_viewed on re-views.
func (s *DuckDBStore) RecordView(ctx context.Context, userID, movieID int) error {
	if err := checkIDs(userID, movieID); err != nil {
		return err
	}
	return s.exec(ctx, "upsert", "views",
		`INSERT INTO views (user_id, movie_id, last_viewed) VALUES (?, ?, ?)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			last_viewed = EXCLUDED.last_viewed`,
		userID, movieID, time.Now().UTC())
}

// DeleteUser removes all interactions of a user in one transaction.
func (s *DuckDBStore) DeleteUser(ctx context.Context, userID int) error {
	if err := checkUser(userID); err != nil {
		return err
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	start := time.Now()
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete user: %w", err)
	}
	for _, table := range []string{"ratings", "watchlist", "views"} {
		// Table names come from the fixed list above.
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", userID); err != nil {
			_ = tx.Rollback() //nolint:errcheck // rollback after failed statement
			metrics.RecordStoreQuery("delete_user", table, time.Since(start), err)
			return fmt.Errorf("delete user %d from %s: %w", userID, table, err)
		}
	}
	err = tx.Commit()
	metrics.RecordStoreQuery("delete_user", "all", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("commit delete user: %w", err)
	}
	return nil
}

// GetEngagement aggregates interaction counts for the given movies.
func (s *DuckDBStore) GetEngagement(ctx context.Context, movieIDs []int) (map[int]models.Engagement, error) {
	out := make(map[int]models.Engagement)
	if len(movieIDs) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(movieIDs)), ",")
	args := make([]interface{}, 0, 3*len(movieIDs))
	for i := 0; i < 3; i++ {
		for _, id := range movieIDs {
			args = append(args, id)
		}
	}

	//nolint:gosec // placeholders contain only "?" and ","
	query := `
		SELECT movie_id,
			CAST(SUM(views) AS BIGINT), CAST(SUM(watchlisted) AS BIGINT),
			CAST(SUM(ratings) AS BIGINT), CAST(SUM(rating_sum) AS BIGINT)
		FROM (
			SELECT movie_id, COUNT(*) AS views, 0 AS watchlisted, 0 AS ratings, 0 AS rating_sum
			FROM views WHERE movie_id IN (` + placeholders + `) GROUP BY movie_id
			UNION ALL
			SELECT movie_id, 0, COUNT(*), 0, 0
			FROM watchlist WHERE movie_id IN (` + placeholders + `) GROUP BY movie_id
			UNION ALL
			SELECT movie_id, 0, 0, COUNT(*), CAST(SUM(value) AS BIGINT)
			FROM ratings WHERE movie_id IN (` + placeholders + `) GROUP BY movie_id
		) GROUP BY movie_id`

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordStoreQuery("engagement", "all", time.Since(start), err)
		return nil, fmt.Errorf("query engagement: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var movieID int
		var views, watchlisted, ratings, ratingSum int64
		if err := rows.Scan(&movieID, &views, &watchlisted, &ratings, &ratingSum); err != nil {
			return nil, fmt.Errorf("scan engagement: %w", err)
		}
		out[movieID] = models.Engagement{
			Views:       int(views),
			Watchlisted: int(watchlisted),
			Ratings:     int(ratings),
			RatingSum:   int(ratingSum),
		}
	}
	err = rows.Err()
	metrics.RecordStoreQuery("engagement", "all", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("iterate engagement: %w", err)
	}
	return out, nil
}

// Ping checks the connection.
func (s *DuckDBStore) Ping(ctx context.Context) error {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	return s.conn.PingContext(ctx)
}

// Close closes the database.
func (s *DuckDBStore) Close() error {
	return s.conn.Close()
}

func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}

func firstLine(q string) string {
	q = strings.TrimSpace(q)
	if i := strings.IndexByte(q, '\n'); i >= 0 {
		return q[:i]
	}
	return q
}
