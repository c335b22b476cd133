// Package match resolves free-text task references to concrete tasks using
// containment and token-intersection scoring.
package match

import (
	"regexp"
	"sort"
	"strings"

	"github.com/colonyops/taskwise/internal/core/nlp"
	"github.com/colonyops/taskwise/internal/core/task"
)

var idRefRe = regexp.MustCompile(`\bid:([a-zA-Z0-9]+)\b`)

// Config holds the scoring thresholds. These are tuned policy values, not
// derived constants; defaults reproduce the documented behavior.
type Config struct {
	// ScoreThreshold keeps candidates whose score reaches this value.
	ScoreThreshold float64
	// MinIntersection keeps candidates sharing at least this many tokens
	// with the reference.
	MinIntersection int
	// ShortReferenceTokens is the reference length (in tokens) under which
	// a single shared token is enough to qualify.
	ShortReferenceTokens int
	// MaxSuggestions caps the candidates returned on ambiguity.
	MaxSuggestions int
}

// DefaultConfig returns the documented threshold defaults.
func DefaultConfig() Config {
	return Config{
		ScoreThreshold:       0.5,
		MinIntersection:      2,
		ShortReferenceTokens: 3,
		MaxSuggestions:       3,
	}
}

// Kind classifies a resolution outcome.
type Kind int

const (
	// KindNone means no task matched the reference.
	KindNone Kind = iota
	// KindExact means a single task outscored every other candidate.
	KindExact
	// KindAmbiguous means several tasks tied at the top score.
	KindAmbiguous
)

// Resolution is the outcome of resolving a reference against a task list.
type Resolution struct {
	Kind       Kind
	Exact      *task.Task
	Candidates []task.MatchCandidate

	// ByID is set when the reference carried an explicit id: token; Kind
	// is then either KindExact or KindNone with no scoring involved.
	ByID bool
	ID   string
}

// Resolver scores task references. The zero value is not usable; construct
// with New.
type Resolver struct {
	cfg Config
}

// New creates a resolver with the given thresholds.
func New(cfg Config) *Resolver {
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = DefaultConfig().MaxSuggestions
	}
	return &Resolver{cfg: cfg}
}

// ExtractID returns the explicit id:<value> token from a reference, if any.
func ExtractID(text string) (string, bool) {
	m := idRefRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Resolve matches a free-text reference against the task list and returns
// an exact match, a ranked set of ambiguous candidates, or nothing.
//
// An explicit id:<value> token short-circuits to a direct lookup.
func (r *Resolver) Resolve(reference string, tasks []task.Task) Resolution {
	if id, ok := ExtractID(reference); ok {
		for i := range tasks {
			if tasks[i].ID == id {
				t := tasks[i]
				return Resolution{Kind: KindExact, Exact: &t, ByID: true, ID: id}
			}
		}
		return Resolution{Kind: KindNone, ByID: true, ID: id}
	}

	ref := nlp.NormalizeForMatching(reference)
	if !ref.HasTokens() {
		return Resolution{Kind: KindNone}
	}

	var scored []task.MatchCandidate
	for _, t := range tasks {
		cand, ok := score(ref, t)
		if ok {
			scored = append(scored, cand)
		}
	}

	candidates := r.filter(ref, scored)
	if len(candidates) == 0 {
		return Resolution{Kind: KindNone}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].IntersectionCount > candidates[j].IntersectionCount
	})

	if len(candidates) == 1 || candidates[0].Score > candidates[1].Score {
		t := candidates[0].Task
		return Resolution{Kind: KindExact, Exact: &t, Candidates: candidates}
	}

	top := candidates
	if len(top) > r.cfg.MaxSuggestions {
		top = top[:r.cfg.MaxSuggestions]
	}
	return Resolution{Kind: KindAmbiguous, Candidates: top}
}

// score computes a candidate score for one task, or ok=false when the task
// shares nothing with the reference.
func score(ref nlp.Normalized, t task.Task) (task.MatchCandidate, bool) {
	norm := nlp.NormalizeForMatching(t.Text)

	if norm.Text == ref.Text {
		return task.MatchCandidate{Task: t, Score: 100, IntersectionCount: len(ref.Tokens)}, true
	}

	intersection := countShared(ref.Tokens, norm.Tokens)

	if norm.Text != "" && (strings.Contains(norm.Text, ref.Text) || strings.Contains(ref.Text, norm.Text)) {
		shorter := len([]rune(norm.Text))
		if l := len([]rune(ref.Text)); l < shorter {
			shorter = l
		}
		return task.MatchCandidate{Task: t, Score: float64(shorter), IntersectionCount: intersection}, true
	}

	if intersection == 0 {
		return task.MatchCandidate{}, false
	}

	// Substring overlap was already handled by the containment branch, so
	// the remaining candidates score on shared tokens alone.
	return task.MatchCandidate{Task: t, Score: float64(intersection), IntersectionCount: intersection}, true
}

// filter applies the qualification thresholds, falling back to the full
// scored set so callers can still present closest guesses.
func (r *Resolver) filter(ref nlp.Normalized, scored []task.MatchCandidate) []task.MatchCandidate {
	var qualified []task.MatchCandidate
	for _, c := range scored {
		switch {
		case c.Score >= r.cfg.ScoreThreshold,
			c.IntersectionCount >= r.cfg.MinIntersection,
			c.IntersectionCount >= 1 && len(ref.Tokens) <= r.cfg.ShortReferenceTokens:
			qualified = append(qualified, c)
		}
	}
	if len(qualified) > 0 {
		return qualified
	}
	return scored
}

func countShared(a, b []string) int {
	set := make(map[string]struct{}, len(b))
	for _, tok := range b {
		set[tok] = struct{}{}
	}
	n := 0
	for _, tok := range a {
		if _, ok := set[tok]; ok {
			n++
		}
	}
	return n
}
