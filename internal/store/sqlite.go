package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Episode struct {
	ID            string    `json:"id"`
	EnvID         string    `json:"env_id"`
	Policy        string    `json:"policy"`
	Seed          int64     `json:"seed"`
	Turns         int       `json:"turns"`
	Return        float64   `json:"return"`
	Result        string    `json:"result"`
	Truncated     bool      `json:"truncated"`
	RogueHealth   float64   `json:"rogue_health"`
	FighterHealth float64   `json:"fighter_health"`
	CreatedAt     time.Time `json:"created_at"`
}

type Stats struct {
	Episodes  int     `json:"episodes"`
	Victories int     `json:"victories"`
	Defeats   int     `json:"defeats"`
	MutualKOs int     `json:"mutual_kos"`
	Truncated int     `json:"truncated"`
	AvgTurns  float64 `json:"avg_turns"`
	AvgReturn float64 `json:"avg_return"`
}

type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the episode database at path.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) SaveEpisode(ctx context.Context, ep Episode) error {
	if ep.CreatedAt.IsZero() {
		ep.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO episodes (id, env_id, policy, seed, turns, total_reward, result, truncated,
			rogue_health, fighter_health, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ep.ID, ep.EnvID, ep.Policy, ep.Seed, ep.Turns, ep.Return, ep.Result, boolToInt(ep.Truncated),
		ep.RogueHealth, ep.FighterHealth, ep.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save episode %s: %w", ep.ID, err)
	}
	return nil
}

// SaveEpisodes writes a batch in one transaction.
func (s *SQLiteStore) SaveEpisodes(ctx context.Context, eps []Episode) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO episodes (id, env_id, policy, seed, turns, total_reward, result, truncated,
			rogue_health, fighter_health, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, ep := range eps {
		if ep.CreatedAt.IsZero() {
			ep.CreatedAt = now
		}
		if _, err := stmt.ExecContext(ctx,
			ep.ID, ep.EnvID, ep.Policy, ep.Seed, ep.Turns, ep.Return, ep.Result, boolToInt(ep.Truncated),
			ep.RogueHealth, ep.FighterHealth, ep.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("failed to save episode %s: %w", ep.ID, err)
		}
	}
	return tx.Commit()
}

// Recent returns up to limit episodes, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Episode, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, env_id, policy, seed, turns, total_reward, result, truncated,
			rogue_health, fighter_health, created_at
		FROM episodes ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query episodes: %w", err)
	}
	defer rows.Close()

	var out []Episode
	for rows.Next() {
		var ep Episode
		var truncated int
		var created string
		if err := rows.Scan(&ep.ID, &ep.EnvID, &ep.Policy, &ep.Seed, &ep.Turns, &ep.Return, &ep.Result,
			&truncated, &ep.RogueHealth, &ep.FighterHealth, &created); err != nil {
			return nil, fmt.Errorf("failed to scan episode: %w", err)
		}
		ep.Truncated = truncated != 0
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			ep.CreatedAt = t
		}
		out = append(out, ep)
	}
	return out, rows.Err()
}

// Stats aggregates stored episodes; an empty policy covers all of them.
func (s *SQLiteStore) Stats(ctx context.Context, policy string) (Stats, error) {
	var st Stats
	var avgTurns, avgReturn sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(result = 'victory'), 0),
			COALESCE(SUM(result = 'defeat'), 0),
			COALESCE(SUM(result = 'mutual_ko'), 0),
			COALESCE(SUM(truncated), 0),
			AVG(turns), AVG(total_reward)
		FROM episodes WHERE ? = '' OR policy = ?`, policy, policy).
		Scan(&st.Episodes, &st.Victories, &st.Defeats, &st.MutualKOs, &st.Truncated, &avgTurns, &avgReturn)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate episodes: %w", err)
	}
	st.AvgTurns = avgTurns.Float64
	st.AvgReturn = avgReturn.Float64
	return st, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
