// Package catalog imports candidate pools from JSON catalog files.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/edupath-lk/pathfinder/internal/ranker"
)

var (
	//go:embed schema.json
	schemaJSON []byte

	//go:embed seed.json
	seedJSON []byte
)

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// File is the on-disk catalog format
type File struct {
	Version string   `json:"version"`
	Records []Record `json:"candidates"`
}

// Record is one candidate as written in a catalog file
type Record struct {
	ID          string   `json:"id,omitempty"`
	Kind        string   `json:"kind"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	TierWeight  *float64 `json:"tier_weight,omitempty"`
	Location    string   `json:"location,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// Parse validates data against the catalog schema and decodes it.
// Records without an id are given a random one.
func Parse(data []byte) (*File, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile catalog schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if !result.Valid() {
		errs := make([]error, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			errs = append(errs, errors.New(desc.String()))
		}
		return nil, fmt.Errorf("catalog validation failed: %w", errors.Join(errs...))
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Records))
	for i := range f.Records {
		rec := &f.Records[i]
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if seen[rec.ID] {
			return nil, fmt.Errorf("catalog validation failed: duplicate id %q", rec.ID)
		}
		seen[rec.ID] = true
	}

	return &f, nil
}

// Load reads and parses a catalog file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Seed returns the built-in catalog of institutions, programs and scholarships
func Seed() (*File, error) {
	return Parse(seedJSON)
}

// Candidates converts the records to ranker candidates, in file order
func (f *File) Candidates() []ranker.Candidate {
	out := make([]ranker.Candidate, 0, len(f.Records))
	for _, rec := range f.Records {
		out = append(out, rec.Candidate())
	}
	return out
}

// Candidate converts one record
func (r Record) Candidate() ranker.Candidate {
	kind, _ := ranker.ParseKind(r.Kind)
	return ranker.Candidate{
		ID:           r.ID,
		Kind:         kind,
		DisplayName:  strings.TrimSpace(r.Name),
		Description:  r.Description,
		Category:     r.Category,
		CategoryTags: r.Tags,
		TierWeight:   r.TierWeight,
		LocationTag:  r.Location,
		Status:       r.Status,
	}
}
