package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/edupath-lk/pathfinder/internal/ranker"
)

const candidateColumns = `id, kind, display_name, description, category, tags,
	tier_weight, location_tag, status`

// UpsertCandidates inserts or replaces candidates in one transaction and returns how many were written
func (db *DB) UpsertCandidates(ctx context.Context, candidates []ranker.Candidate) (int, error) {
	written := 0
	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		var err error
		written, err = upsertCandidates(ctx, tx, candidates)
		return err
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// ReplaceCandidates deletes every stored candidate and writes candidates in their place.
// Both happen in one transaction, so a failed write keeps the previous pool.
func (db *DB) ReplaceCandidates(ctx context.Context, candidates []ranker.Candidate) (removed int64, written int, err error) {
	err = db.Transaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM candidates`)
		if err != nil {
			return fmt.Errorf("failed to clear candidates: %w", err)
		}
		if removed, err = result.RowsAffected(); err != nil {
			return err
		}
		written, err = upsertCandidates(ctx, tx, candidates)
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	return removed, written, nil
}

func upsertCandidates(ctx context.Context, tx *sql.Tx, candidates []ranker.Candidate) (int, error) {
	now := time.Now().UTC()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candidates (`+candidateColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			display_name = excluded.display_name,
			description = excluded.description,
			category = excluded.category,
			tags = excluded.tags,
			tier_weight = excluded.tier_weight,
			location_tag = excluded.location_tag,
			status = excluded.status,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	written := 0
	for _, c := range candidates {
		tags, err := json.Marshal(nonNil(c.CategoryTags))
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx,
			c.ID, string(c.Kind), c.DisplayName, c.Description, c.Category, string(tags),
			NullFloat64(c.TierWeight), emptyNull(c.LocationTag), emptyNull(c.Status),
			now, now,
		); err != nil {
			return 0, fmt.Errorf("candidate %q: %w", c.ID, err)
		}
		written++
	}
	return written, nil
}

// ListCandidates retrieves candidates ordered by display name
func (db *DB) ListCandidates(ctx context.Context, opts ListOptions) ([]ranker.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE 1=1`
	args := []interface{}{}

	if opts.Kind != nil {
		query += " AND kind = ?"
		args = append(args, *opts.Kind)
	}
	if opts.Category != nil {
		query += " AND LOWER(category) = LOWER(?)"
		args = append(args, *opts.Category)
	}

	query += " ORDER BY display_name COLLATE NOCASE, id"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []ranker.Candidate{}
	for rows.Next() {
		var (
			c        ranker.Candidate
			kind     string
			tags     string
			weight   sql.NullFloat64
			location sql.NullString
			status   sql.NullString
		)
		if err := rows.Scan(
			&c.ID, &kind, &c.DisplayName, &c.Description, &c.Category, &tags,
			&weight, &location, &status,
		); err != nil {
			return nil, err
		}

		c.Kind = ranker.Kind(kind)
		if err := json.Unmarshal([]byte(tags), &c.CategoryTags); err != nil {
			return nil, fmt.Errorf("candidate %q has malformed tags: %w", c.ID, err)
		}
		c.TierWeight = Float64Ptr(weight)
		c.LocationTag = location.String
		c.Status = status.String
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}

// CountCandidates returns the number of candidates per kind
func (db *DB) CountCandidates(ctx context.Context) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM candidates GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// DeleteCandidates removes candidates of one kind, or every candidate when kind is empty
func (db *DB) DeleteCandidates(ctx context.Context, kind string) (int64, error) {
	var (
		result sql.Result
		err    error
	)
	if kind == "" {
		result, err = db.ExecContext(ctx, `DELETE FROM candidates`)
	} else {
		result, err = db.ExecContext(ctx, `DELETE FROM candidates WHERE kind = ?`, kind)
	}
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CreateMatchRun inserts a match run, assigning its ID and timestamp
func (db *DB) CreateMatchRun(ctx context.Context, run *MatchRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	run.CreatedAt = time.Now().UTC()

	keywords, err := json.Marshal(nonNil(run.Keywords))
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO match_runs (id, command, keywords, profile, results, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Command, string(keywords), rawOrNull(run.Profile), rawOrNull(run.Results), run.CreatedAt)
	return err
}

// GetMatchRun retrieves a match run by ID
func (db *DB) GetMatchRun(ctx context.Context, id string) (*MatchRun, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, command, keywords, profile, results, created_at
		FROM match_runs WHERE id = ?
	`, id)

	run, err := scanMatchRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListMatchRuns returns the most recent match runs first
func (db *DB) ListMatchRuns(ctx context.Context, limit int) ([]MatchRun, error) {
	query := `
		SELECT id, command, keywords, profile, results, created_at
		FROM match_runs ORDER BY created_at DESC, id
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []MatchRun{}
	for rows.Next() {
		run, err := scanMatchRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMatchRun(s scanner) (*MatchRun, error) {
	var (
		run      MatchRun
		keywords string
		profile  string
		results  string
	)
	if err := s.Scan(&run.ID, &run.Command, &keywords, &profile, &results, &run.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(keywords), &run.Keywords); err != nil {
		return nil, fmt.Errorf("match run %q has malformed keywords: %w", run.ID, err)
	}
	run.Profile = json.RawMessage(profile)
	run.Results = json.RawMessage(results)
	return &run, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func rawOrNull(m json.RawMessage) string {
	if len(m) == 0 {
		return "null"
	}
	return string(m)
}
