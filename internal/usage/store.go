package usage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/streamly/internal/db"
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store persists exchanges in SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts an exchange. Empty ID and zero CreatedAt are filled in.
func (s *Store) Record(ctx context.Context, e Exchange) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exchanges (
			id, session_id, created_at, path, provider, model,
			input_tokens, output_tokens, cost_usd, latency_ms, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.SessionID,
		e.CreatedAt.UTC().Format(timeLayout),
		e.Path,
		e.Provider,
		e.Model,
		e.InputTokens,
		e.OutputTokens,
		e.CostUSD,
		e.LatencyMS,
		e.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting exchange: %w", err)
	}
	return nil
}

// Recent returns matching exchanges, newest first.
func (s *Store) Recent(ctx context.Context, filter QueryFilter) ([]Exchange, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Path != "" {
		clauses = append(clauses, "path = ?")
		args = append(args, filter.Path)
	}

	query := "SELECT id, session_id, created_at, path, provider, model, input_tokens, output_tokens, cost_usd, latency_ms, error FROM exchanges"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exchanges: %w", err)
	}
	defer rows.Close()

	var out []Exchange
	for rows.Next() {
		var (
			e  Exchange
			ts string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &ts, &e.Path, &e.Provider, &e.Model,
			&e.InputTokens, &e.OutputTokens, &e.CostUSD, &e.LatencyMS, &e.Error); err != nil {
			return nil, fmt.Errorf("scanning exchange: %w", err)
		}
		if e.CreatedAt, err = time.Parse(timeLayout, ts); err != nil {
			return nil, fmt.Errorf("parsing exchange time %q: %w", ts, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Summary aggregates every recorded exchange.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN path = 'direct' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN path = 'delegated' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN error != '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(input_tokens), 0),
			COALESCE(SUM(output_tokens), 0),
			COALESCE(SUM(cost_usd), 0)
		FROM exchanges`).Scan(
		&sum.Exchanges, &sum.Direct, &sum.Delegated, &sum.Failed,
		&sum.InputTokens, &sum.OutputTokens, &sum.CostUSD,
	)
	if err != nil {
		return Summary{}, fmt.Errorf("summarising exchanges: %w", err)
	}
	return sum, nil
}

// Shutdown closes the underlying database.
func (s *Store) Shutdown() error {
	return s.db.Close()
}
