package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/edupath-lk/pathfinder/internal/database"
	"github.com/edupath-lk/pathfinder/internal/matcher"
	"github.com/edupath-lk/pathfinder/internal/profile"
	"github.com/edupath-lk/pathfinder/internal/ranker"
)

func (s *Server) registerHandlers() {
	s.handlers["normalize_profile"] = s.handleNormalizeProfile
	s.handlers["rank_candidates"] = s.handleRankCandidates
	s.handlers["classify_eligibility"] = s.handleClassifyEligibility
	s.handlers["match_profile"] = s.handleMatchProfile
	s.handlers["list_candidates"] = s.handleListCandidates
}

func decodeParams(params json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

func decodeProfile(raw json.RawMessage) (profile.Profile, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return profile.Profile{}, fmt.Errorf("profile is required")
	}
	return profile.Decode(raw)
}

type profileParams struct {
	Profile json.RawMessage `json:"profile"`
}

func (s *Server) handleNormalizeProfile(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p profileParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	prof, err := decodeProfile(p.Profile)
	if err != nil {
		return nil, err
	}
	return s.matcher.Signals(prof)
}

type rankParams struct {
	Kind              string          `json:"kind"`
	Keywords          []string        `json:"keywords"`
	Profile           json.RawMessage `json:"profile"`
	TopN              int             `json:"top_n"`
	Categories        []string        `json:"categories"`
	AdmissionFallback bool            `json:"admission_fallback"`
}

func (s *Server) handleRankCandidates(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p rankParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	prof, err := decodeProfile(p.Profile)
	if err != nil {
		return nil, err
	}
	if p.TopN < 0 {
		return nil, fmt.Errorf("top_n must be positive, got %d", p.TopN)
	}

	kind := ranker.KindProgram
	if p.Kind != "" {
		k, ok := ranker.ParseKind(p.Kind)
		if !ok {
			return nil, fmt.Errorf("unknown kind: %s", p.Kind)
		}
		kind = k
	}

	keywords := p.Keywords
	if len(keywords) == 0 {
		keywords = matcher.Keywords(prof)
	}

	return s.matcher.Rank(ctx, matcher.RankRequest{
		Kind:              kind,
		Keywords:          keywords,
		Profile:           prof,
		TopN:              p.TopN,
		AllowedCategories: p.Categories,
		AdmissionFallback: p.AdmissionFallback,
	})
}

type classifyParams struct {
	Profile       json.RawMessage `json:"profile"`
	ClosedWindows []string        `json:"closed_windows"`
}

func (s *Server) handleClassifyEligibility(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p classifyParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	prof, err := decodeProfile(p.Profile)
	if err != nil {
		return nil, err
	}
	return s.matcher.Classify(prof, p.ClosedWindows)
}

type matchParams struct {
	Profile       json.RawMessage `json:"profile"`
	Keywords      []string        `json:"keywords"`
	TopN          int             `json:"top_n"`
	ClosedWindows []string        `json:"closed_windows"`
	Record        bool            `json:"record"`
}

func (s *Server) handleMatchProfile(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p matchParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	prof, err := decodeProfile(p.Profile)
	if err != nil {
		return nil, err
	}
	if p.TopN < 0 {
		return nil, fmt.Errorf("top_n must be positive, got %d", p.TopN)
	}

	return s.matcher.Match(ctx, prof, matcher.MatchOptions{
		Keywords: p.Keywords,
		TopN:     p.TopN,
		Closed:   p.ClosedWindows,
		Record:   p.Record,
	})
}

type listCandidatesParams struct {
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Limit    int    `json:"limit"`
}

func (s *Server) handleListCandidates(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p listCandidatesParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	opts := database.ListOptions{Limit: 50}
	if p.Limit > 0 {
		opts.Limit = p.Limit
	}
	if p.Kind != "" {
		k, ok := ranker.ParseKind(p.Kind)
		if !ok {
			return nil, fmt.Errorf("unknown kind: %s", p.Kind)
		}
		kind := string(k)
		opts.Kind = &kind
	}
	if p.Category != "" {
		opts.Category = &p.Category
	}

	candidates, err := s.db.ListCandidates(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return candidates, nil
}

// Resource handlers

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case uriCatalog:
		return s.getResourceCatalog(ctx)
	case uriRules:
		return s.getResourceRules()
	case uriStreams:
		return s.getResourceStreams()
	case uriHistory:
		return s.getResourceHistory(ctx)
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func (s *Server) getResourceCatalog(ctx context.Context) (string, error) {
	counts, err := s.db.CountCandidates(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Candidate Catalog\n=================\n\n")

	if len(counts) == 0 {
		b.WriteString("No candidates stored. Run 'pathfinder catalog seed' to load the built-in catalog.\n")
		return b.String(), nil
	}

	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	total := 0
	for _, k := range kinds {
		fmt.Fprintf(&b, "  - %-12s %d\n", k+":", counts[k])
		total += counts[k]
	}
	fmt.Fprintf(&b, "\nTotal: %d\n", total)
	return b.String(), nil
}

func (s *Server) getResourceRules() (string, error) {
	var b strings.Builder
	b.WriteString("Eligibility Rules\n=================\n\n")

	rules := s.matcher.Rules()
	if len(rules) == 0 {
		b.WriteString("No rules loaded.\n")
		return b.String(), nil
	}

	for _, r := range rules {
		fmt.Fprintf(&b, "- %s (%s)\n", r.Name, r.ID)
		if r.Provider != "" {
			fmt.Fprintf(&b, "    Provider: %s\n", r.Provider)
		}
		if r.Amount != "" {
			fmt.Fprintf(&b, "    Amount:   %s\n", r.Amount)
		}
		if r.Explanation != "" {
			fmt.Fprintf(&b, "    %s\n", r.Explanation)
		}
	}
	return b.String(), nil
}

func (s *Server) getResourceStreams() (string, error) {
	var b strings.Builder
	b.WriteString("A/L Streams\n===========\n\n")

	for _, st := range profile.Streams {
		fmt.Fprintf(&b, "%s (%s)\n", st.Name, st.ID)
		fmt.Fprintf(&b, "  Subjects: %s\n", strings.Join(st.Subjects, ", "))
		fmt.Fprintf(&b, "  Fields:   %s\n", strings.Join(st.Fields, ", "))
		fmt.Fprintf(&b, "  Careers:  %s\n\n", strings.Join(st.Careers, ", "))
	}
	return b.String(), nil
}

func (s *Server) getResourceHistory(ctx context.Context) (string, error) {
	runs, err := s.db.ListMatchRuns(ctx, 10)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Recent Matches (Last 10)\n========================\n\n")

	if len(runs) == 0 {
		b.WriteString("No match runs recorded.\n")
		return b.String(), nil
	}

	for _, r := range runs {
		days := int(time.Since(r.CreatedAt).Hours() / 24)
		fmt.Fprintf(&b, "- %s | %s | %s | %d day(s) ago\n",
			r.ID, r.Command, strings.Join(r.Keywords, ", "), days)
	}
	return b.String(), nil
}
