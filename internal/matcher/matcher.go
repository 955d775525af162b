// Package matcher wires the profile engines to the candidate store.
package matcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/edupath-lk/pathfinder/internal/config"
	"github.com/edupath-lk/pathfinder/internal/database"
	"github.com/edupath-lk/pathfinder/internal/eligibility"
	"github.com/edupath-lk/pathfinder/internal/normalize"
	"github.com/edupath-lk/pathfinder/internal/profile"
	"github.com/edupath-lk/pathfinder/internal/ranker"
)

// ErrClosedWindow is returned when a closed window names a rule that is unknown
// or has no application window
var ErrClosedWindow = errors.New("closed window does not name a time-sensitive rule")

// Matcher runs normalization, ranking and classification against the stored candidate pool
type Matcher struct {
	db         *database.DB
	normalizer *normalize.Normalizer
	ranker     *ranker.Ranker
	rules      []eligibility.Rule
	options    eligibility.Options
	tiers      []ranker.AdmissionTier
	topN       int
	logger     *zap.Logger
}

// New creates a Matcher. rules come from LoadRules.
func New(db *database.DB, cfg *config.Config, rules []eligibility.Rule, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{
		db:         db,
		normalizer: normalize.New(cfg.NormalizerConfig()),
		ranker:     ranker.New(cfg.RankerConfig()),
		rules:      rules,
		options:    cfg.ClassifyOptions(),
		tiers:      cfg.Tiers(),
		topN:       cfg.Ranker.TopN,
		logger:     logger,
	}
}

// LoadRules compiles the configured rule catalog, or the built-in one when no path is set
func LoadRules(cfg *config.Config) ([]eligibility.Rule, error) {
	if cfg.Classifier.CatalogPath == "" {
		return eligibility.DefaultRules()
	}

	catalog, err := eligibility.LoadCatalog(cfg.Classifier.CatalogPath)
	if err != nil {
		return nil, err
	}
	return catalog.Compile()
}

// Rules returns the compiled rule catalog
func (m *Matcher) Rules() []eligibility.Rule {
	return m.rules
}

// Signals normalizes a profile
func (m *Matcher) Signals(p profile.Profile) (normalize.Signals, error) {
	return m.normalizer.Signals(p)
}

func (m *Matcher) timeSensitive(id string) bool {
	for _, r := range m.rules {
		if r.ID == id {
			return r.TimeSensitive
		}
	}
	return false
}

// Classification is a classified profile together with its signals
type Classification struct {
	Signals normalize.Signals  `json:"signals"`
	Result  eligibility.Result `json:"result"`
}

// Classify normalizes p and classifies it against the rule catalog.
// closed adds rule ids whose application windows are closed.
func (m *Matcher) Classify(p profile.Profile, closed []string) (*Classification, error) {
	signals, err := m.normalizer.Signals(p)
	if err != nil {
		return nil, err
	}

	opts := eligibility.Options{
		SoftMargin:    m.options.SoftMargin,
		ClosedWindows: make(map[string]bool, len(m.options.ClosedWindows)+len(closed)),
	}
	for id := range m.options.ClosedWindows {
		opts.ClosedWindows[id] = true
	}
	for _, id := range closed {
		id = strings.TrimSpace(id)
		if !m.timeSensitive(id) {
			m.logger.Warn("closed window rejected", zap.String("rule", id))
			return nil, fmt.Errorf("%w: %q", ErrClosedWindow, id)
		}
		opts.ClosedWindows[id] = true
	}

	res, err := eligibility.Classify(m.rules, signals, opts)
	if err != nil {
		m.logger.Error("classification failed", zap.Error(err))
		return nil, err
	}

	m.logger.Debug("classified profile",
		zap.Int("eligible", len(res.Eligible)),
		zap.Int("conditional", len(res.Conditional)),
		zap.Int("blocked", len(res.Blocked)),
	)
	return &Classification{Signals: signals, Result: res}, nil
}

// RankRequest selects candidates from the store and ranks them
type RankRequest struct {
	Kind              ranker.Kind
	Keywords          []string
	Profile           profile.Profile
	TopN              int
	AllowedCategories []string
	// AdmissionFallback ranks the institutions admissible at the profile's
	// academic index when nothing matches the keywords
	AdmissionFallback bool
}

// Rank ranks the stored candidates of one kind
func (m *Matcher) Rank(ctx context.Context, req RankRequest) ([]ranker.Result, error) {
	if m.db == nil {
		return nil, fmt.Errorf("no candidate store configured")
	}

	kind := string(req.Kind)
	candidates, err := m.db.ListCandidates(ctx, database.ListOptions{Kind: &kind})
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	q := ranker.Query{
		Keywords:          req.Keywords,
		Profile:           req.Profile,
		TopN:              req.TopN,
		AllowedCategories: req.AllowedCategories,
	}
	if q.TopN == 0 {
		q.TopN = m.topN
	}

	if req.AdmissionFallback {
		pool, err := m.admissiblePool(ctx, req.Profile)
		if err != nil {
			return nil, err
		}
		q.Fallback = pool
	}

	results, err := m.ranker.RankQuery(candidates, q)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("ranked candidates",
		zap.String("kind", kind),
		zap.Int("pool", len(candidates)),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// admissiblePool returns the institutions open at the profile's raw academic index
func (m *Matcher) admissiblePool(ctx context.Context, p profile.Profile) ([]ranker.Candidate, error) {
	raw, err := m.normalizer.RawAcademicIndex(p)
	if err != nil {
		return nil, err
	}

	kind := string(ranker.KindInstitution)
	institutions, err := m.db.ListCandidates(ctx, database.ListOptions{Kind: &kind})
	if err != nil {
		return nil, fmt.Errorf("failed to load institutions: %w", err)
	}
	return ranker.TierPool(institutions, m.tiers, raw), nil
}

// Report is the outcome of one full match
type Report struct {
	RunID        string             `json:"run_id,omitempty"`
	Keywords     []string           `json:"keywords"`
	Signals      normalize.Signals  `json:"signals"`
	Tier         float64            `json:"admission_tier"`
	Programs     []ranker.Result    `json:"programs"`
	Institutions []ranker.Result    `json:"institutions"`
	Scholarships eligibility.Result `json:"scholarships"`
}

// MatchOptions tune a full match
type MatchOptions struct {
	Keywords []string // empty derives keywords from the interest or stream
	TopN     int
	Closed   []string
	Record   bool
}

// Match normalizes the profile, classifies scholarships, ranks programs and
// ranks admissible institutions, optionally recording the run
func (m *Matcher) Match(ctx context.Context, p profile.Profile, opts MatchOptions) (*Report, error) {
	classification, err := m.Classify(p, opts.Closed)
	if err != nil {
		return nil, err
	}
	signals := classification.Signals

	keywords := opts.Keywords
	if len(keywords) == 0 {
		keywords = Keywords(p)
	}

	programs, err := m.Rank(ctx, RankRequest{
		Kind:     ranker.KindProgram,
		Keywords: keywords,
		Profile:  p,
		TopN:     opts.TopN,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rank programs: %w", err)
	}

	pool, err := m.admissiblePool(ctx, p)
	if err != nil {
		return nil, err
	}
	topN := opts.TopN
	if topN == 0 {
		topN = m.topN
	}
	institutions, err := m.ranker.RankQuery(pool, ranker.Query{
		Keywords: keywords,
		Profile:  p,
		TopN:     topN,
		Fallback: pool,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rank institutions: %w", err)
	}

	report := &Report{
		Keywords:     keywords,
		Signals:      signals,
		Programs:     programs,
		Institutions: institutions,
		Scholarships: classification.Result,
	}
	if tier, ok := ranker.TierFor(m.tiers, signals.RawIndex); ok {
		report.Tier = tier.MinIndex
	}

	if opts.Record {
		run, err := m.Record(ctx, database.CommandMatch, keywords, p, report)
		if err != nil {
			return nil, err
		}
		report.RunID = run.ID
	}

	m.logger.Info("match complete",
		zap.Strings("keywords", keywords),
		zap.Int("programs", len(programs)),
		zap.Int("institutions", len(institutions)),
		zap.Int("eligible_scholarships", len(classification.Result.Eligible)),
	)
	return report, nil
}

// Record stores a match run
func (m *Matcher) Record(ctx context.Context, command string, keywords []string, p profile.Profile, results interface{}) (*database.MatchRun, error) {
	if m.db == nil {
		return nil, fmt.Errorf("no candidate store configured")
	}

	profileJSON, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return nil, err
	}

	run := &database.MatchRun{
		Command:  command,
		Keywords: keywords,
		Profile:  profileJSON,
		Results:  resultsJSON,
	}
	if err := m.db.CreateMatchRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record match run: %w", err)
	}
	m.logger.Debug("recorded match run", zap.String("id", run.ID), zap.String("command", command))
	return run, nil
}

// Keywords derives ranking keywords from the interest, falling back to the stream fields
func Keywords(p profile.Profile) []string {
	if field := profile.InterestField(p.Interest); field != "" {
		return []string{field}
	}
	if s, err := profile.LookupStream(p.Stream); err == nil {
		return append([]string(nil), s.Fields...)
	}
	return nil
}
