// Package ranker scores a candidate pool against a profile and keyword set.
//
// Ranking is a two-step algorithm. KeywordPass scores candidates by category tag, name
// and goal matches and keeps only genuine matches. When it finds nothing, the caller
// may supply a fallback pool that FallbackPass orders by tier weight alone.
// A Ranker holds only configuration and is safe for concurrent use.
package ranker

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/edupath-lk/pathfinder/internal/normalize"
	"github.com/edupath-lk/pathfinder/internal/profile"
)

// Config holds the point values of each match signal
type Config struct {
	TagMatchPoints    float64 // a category tag equals a keyword
	NameMatchPoints   float64 // the display name contains a keyword
	GoalMatchPoints   float64 // the name or description contains the profile goal
	TierMaxPoints     float64 // awarded in full at TierWeightCeiling
	TierWeightCeiling float64
	DefaultTopN       int
	Locale            string // BCP 47 tag used to order display names
}

// DefaultConfig returns the documented default points
func DefaultConfig() Config {
	return Config{
		TagMatchPoints:    50,
		NameMatchPoints:   25,
		GoalMatchPoints:   15,
		TierMaxPoints:     10,
		TierWeightCeiling: 5.0,
		DefaultTopN:       3,
		Locale:            "en",
	}
}

// Query describes one ranking request
type Query struct {
	Keywords          []string
	Profile           profile.Profile
	TopN              int // 0 means Config.DefaultTopN
	AllowedCategories []string
	Fallback          []Candidate // nil disables the fallback pass
}

// Ranker ranks candidate pools
type Ranker struct {
	config Config
	locale language.Tag
}

// New creates a Ranker. An unparsable locale falls back to English.
func New(config Config) *Ranker {
	tag, err := language.Parse(config.Locale)
	if err != nil {
		tag = language.English
	}
	return &Ranker{config: config, locale: tag}
}

// Rank returns the topN candidates best matching keywords and the profile goal
func (r *Ranker) Rank(candidates []Candidate, keywords []string, p profile.Profile, topN int) ([]Result, error) {
	if topN <= 0 {
		return nil, &InvalidCandidatePoolError{Reason: fmt.Sprintf("topN must be positive, got %d", topN)}
	}
	return r.RankQuery(candidates, Query{Keywords: keywords, Profile: p, TopN: topN})
}

// RankQuery runs the keyword pass and, if it matched nothing, the fallback pass
func (r *Ranker) RankQuery(candidates []Candidate, q Query) ([]Result, error) {
	topN := q.TopN
	if topN == 0 {
		topN = r.config.DefaultTopN
	}
	if topN <= 0 {
		return nil, &InvalidCandidatePoolError{Reason: fmt.Sprintf("topN must be positive, got %d", topN)}
	}
	if err := validatePool(candidates); err != nil {
		return nil, err
	}

	pool := FilterCategories(candidates, q.AllowedCategories)
	results := r.KeywordPass(pool, q.Keywords, q.Profile.Goal, topN)
	if len(results) > 0 || q.Fallback == nil {
		return results, nil
	}

	if err := validatePool(q.Fallback); err != nil {
		return nil, fmt.Errorf("fallback pool: %w", err)
	}
	return r.FallbackPass(FilterCategories(q.Fallback, q.AllowedCategories), topN), nil
}

// KeywordPass scores every candidate and returns the topN with a positive score.
// It never pads the result.
func (r *Ranker) KeywordPass(candidates []Candidate, keywords []string, goal string, topN int) []Result {
	kws := normalizeKeywords(keywords)
	goal = strings.ToLower(strings.TrimSpace(goal))

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		score, reasons := r.score(c, kws, goal)
		if score <= 0 {
			continue
		}
		scored = append(scored, scoredCandidate{candidate: c, score: score, reasons: reasons})
	}

	return r.finish(scored, topN, PassKeyword)
}

// FallbackPass orders candidates by tier weight alone
func (r *Ranker) FallbackPass(candidates []Candidate, topN int) []Result {
	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		score := 100 * r.tierFraction(c.TierWeight)
		reason := "no tier weight"
		if c.TierWeight != nil {
			reason = fmt.Sprintf("tier weight %.1f", *c.TierWeight)
		}
		scored = append(scored, scoredCandidate{candidate: c, score: score, reasons: []string{reason}})
	}

	return r.finish(scored, topN, PassFallback)
}

type scoredCandidate struct {
	candidate Candidate
	score     float64
	reasons   []string
}

// score computes the keyword-pass score of one candidate.
// The tier weight only refines candidates that already matched.
func (r *Ranker) score(c Candidate, keywords []string, goal string) (float64, []string) {
	var score float64
	var reasons []string

	if tag, ok := matchTag(c.CategoryTags, keywords); ok {
		score += r.config.TagMatchPoints
		reasons = append(reasons, "field match: "+tag)
	}

	name := strings.ToLower(c.DisplayName)
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			score += r.config.NameMatchPoints
			reasons = append(reasons, fmt.Sprintf("name contains %q", kw))
			break
		}
	}

	if goal != "" && (strings.Contains(name, goal) || strings.Contains(strings.ToLower(c.Description), goal)) {
		score += r.config.GoalMatchPoints
		reasons = append(reasons, fmt.Sprintf("matches goal %q", goal))
	}

	if score > 0 && c.TierWeight != nil {
		bonus := r.config.TierMaxPoints * r.tierFraction(c.TierWeight)
		score += bonus
		reasons = append(reasons, fmt.Sprintf("tier weight %.1f (+%.1f)", *c.TierWeight, bonus))
	}

	return normalize.Clamp(round2(score), 0, 100), reasons
}

func (r *Ranker) tierFraction(tw *float64) float64 {
	if tw == nil || r.config.TierWeightCeiling <= 0 {
		return 0
	}
	return normalize.Clamp(*tw/r.config.TierWeightCeiling, 0, 1)
}

// finish sorts, truncates and numbers the results
func (r *Ranker) finish(scored []scoredCandidate, topN int, pass Pass) []Result {
	// Collators keep internal buffers, so each call gets its own.
	col := collate.New(r.locale, collate.IgnoreCase)

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if cmp := col.CompareString(a.candidate.DisplayName, b.candidate.DisplayName); cmp != 0 {
			return cmp < 0
		}
		return a.candidate.ID < b.candidate.ID
	})

	if topN > 0 && len(scored) > topN {
		scored = scored[:topN]
	}

	results := make([]Result, 0, len(scored))
	for i, s := range scored {
		results = append(results, Result{
			CandidateID: s.candidate.ID,
			DisplayName: s.candidate.DisplayName,
			Score:       s.score,
			Rank:        i + 1,
			Pass:        pass,
			Reasons:     s.reasons,
		})
	}
	return results
}

func matchTag(tags, keywords []string) (string, bool) {
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		for _, kw := range keywords {
			if t == kw {
				return tag, true
			}
		}
	}
	return "", false
}

// normalizeKeywords lowercases, trims and drops empty keywords
func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
