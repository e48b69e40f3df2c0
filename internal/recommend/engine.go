package recommend

import (
	"context"
	"fmt"
	"sort"

	"foody/internal/models"
)

// DefaultTopN is the shortlist length used when the caller does not ask for one
const DefaultTopN = 3

// FallbackCategories are the categories offered when no item survives scoring
var FallbackCategories = []string{models.CategoryCombos, models.CategorySpecials}

// Fallback picks up to topN items when every catalog item hard-failed
type Fallback func(catalog []models.MenuItem, prefs Preferences, topN int) []models.MenuItem

// CategoryFallback returns combos and chef's specials in catalog order,
// whatever the guest asked for. It can surface items that break the
// dietary restriction; use DietaryFallback where that is not acceptable.
func CategoryFallback(catalog []models.MenuItem, _ Preferences, topN int) []models.MenuItem {
	return pickFallback(catalog, topN, func(models.MenuItem) bool { return true })
}

// DietaryFallback is CategoryFallback restricted to items that pass the
// dietary axis.
func DietaryFallback(catalog []models.MenuItem, prefs Preferences, topN int) []models.MenuItem {
	return pickFallback(catalog, topN, func(item models.MenuItem) bool {
		return !HardFails(item, prefs)
	})
}

func pickFallback(catalog []models.MenuItem, topN int, keep func(models.MenuItem) bool) []models.MenuItem {
	out := make([]models.MenuItem, 0, topN)
	for _, item := range catalog {
		if len(out) == topN {
			break
		}
		if isFallbackCategory(item) && keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func isFallbackCategory(item models.MenuItem) bool {
	for _, c := range FallbackCategories {
		if item.IsInCategory(c) {
			return true
		}
	}
	return false
}

// CatalogSource supplies the catalog snapshot to rank
type CatalogSource interface {
	Catalog(ctx context.Context) ([]models.MenuItem, error)
}

// Result is the outcome of one ranking pass
type Result struct {
	Items      []models.MenuItem `json:"items"`
	Candidates []ScoredCandidate `json:"candidates,omitempty"`
	Fallback   bool              `json:"fallback"`
}

// Empty reports whether there is nothing to suggest at all
func (r Result) Empty() bool {
	return len(r.Items) == 0
}

// Engine ranks a catalog against guest preferences. It holds configuration
// only and is safe for concurrent use.
type Engine struct {
	topN     int
	fallback Fallback
}

// Option configures an Engine
type Option func(*Engine)

// WithTopN sets the default shortlist length
func WithTopN(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topN = n
		}
	}
}

// WithFallback replaces the zero-survivor policy
func WithFallback(f Fallback) Option {
	return func(e *Engine) {
		if f != nil {
			e.fallback = f
		}
	}
}

// NewEngine creates an engine with CategoryFallback and DefaultTopN unless
// overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		topN:     DefaultTopN,
		fallback: CategoryFallback,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TopN returns the engine's default shortlist length
func (e *Engine) TopN() int {
	return e.topN
}

// Rank scores every item, drops hard failures, stable-sorts the rest by
// score and keeps the first topN. A topN of zero or less uses the engine
// default. Availability is not considered.
func (e *Engine) Rank(catalog []models.MenuItem, prefs Preferences, topN int) Result {
	if topN <= 0 {
		topN = e.topN
	}

	candidates := make([]ScoredCandidate, 0, len(catalog))
	for _, item := range catalog {
		score := Score(item, prefs)
		if score == HardFail {
			continue
		}
		candidates = append(candidates, ScoredCandidate{Item: item, Score: score})
	}

	if len(candidates) == 0 {
		return Result{
			Items:    e.fallback(catalog, prefs, topN),
			Fallback: true,
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	items := make([]models.MenuItem, len(candidates))
	for i, c := range candidates {
		items[i] = c.Item
	}

	return Result{Items: items, Candidates: candidates}
}

// RankFrom loads a catalog snapshot from src and ranks it
func (e *Engine) RankFrom(ctx context.Context, src CatalogSource, prefs Preferences, topN int) (Result, error) {
	catalog, err := src.Catalog(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load catalog: %w", err)
	}
	return e.Rank(catalog, prefs, topN), nil
}

var defaultEngine = NewEngine()

// Recommend returns up to topN items for prefs using the default engine
func Recommend(catalog []models.MenuItem, prefs Preferences, topN int) []models.MenuItem {
	return defaultEngine.Rank(catalog, prefs, topN).Items
}
