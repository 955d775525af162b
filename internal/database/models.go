package database

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Commands recorded in match_runs
const (
	CommandMatch    = "match"
	CommandRank     = "rank"
	CommandClassify = "classify"
)

// MatchRun records one engine invocation with its inputs and outputs
type MatchRun struct {
	ID        string          `json:"id"`
	Command   string          `json:"command"`
	Keywords  []string        `json:"keywords,omitempty"`
	Profile   json.RawMessage `json:"profile"`
	Results   json.RawMessage `json:"results"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListOptions filters ListCandidates. Nil fields match everything.
type ListOptions struct {
	Kind     *string
	Category *string
	Limit    int
}

// NullString is a helper to convert string pointers to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// NullFloat64 is a helper to convert *float64 to sql.NullFloat64
func NullFloat64(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// emptyNull stores empty strings as NULL
func emptyNull(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Float64Ptr converts sql.NullFloat64 to *float64
func Float64Ptr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Float64
}
