package insights

import (
	"sort"

	"financial-clinic-workers/internal/assessment/rules"
	"financial-clinic-workers/internal/models"
)

// DefaultMaxInsights caps the insight list when no positive limit is given.
const DefaultMaxInsights = 5

type Option func(*Generator)

func WithMatrix(m *Matrix) Option {
	return func(g *Generator) { g.matrix = m }
}

// WithDefaultMax changes the cap used when Generate is called with a non-positive limit.
func WithDefaultMax(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.defaultMax = n
		}
	}
}

// Generator selects the most actionable insights for a score breakdown.
type Generator struct {
	matrix     *Matrix
	defaultMax int
}

func New(opts ...Option) (*Generator, error) {
	g := &Generator{defaultMax: DefaultMaxInsights}
	for _, opt := range opts {
		opt(g)
	}
	if g.matrix == nil {
		m, err := DefaultMatrix()
		if err != nil {
			return nil, err
		}
		g.matrix = m
	}
	return g, nil
}

// Generate ranks categories weakest first, breaking ties by category
// priority and then name, and returns at most limit insights. Categories
// without a matching text are skipped.
func (g *Generator) Generate(scores map[models.Category]models.CategoryScore, ctx rules.Context, limit int, lang models.Language) []models.Insight {
	if limit <= 0 {
		limit = g.defaultMax
	}

	ranked := make([]models.CategoryScore, 0, len(scores))
	for category, cs := range scores {
		if cs.Category == "" {
			cs.Category = category
		}
		ranked = append(ranked, cs)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		pa, pb := g.matrix.Priority(a.Category), g.matrix.Priority(b.Category)
		if pa != pb {
			return pa < pb
		}
		return a.Category < b.Category
	})

	out := make([]models.Insight, 0, limit)
	for _, cs := range ranked {
		if len(out) == limit {
			break
		}
		text, ok := g.matrix.Text(cs.Category, cs.StatusLevel, ctx, lang)
		if !ok {
			continue
		}
		out = append(out, models.Insight{
			Category:    cs.Category,
			StatusLevel: cs.StatusLevel,
			Text:        text,
			Priority:    g.matrix.Priority(cs.Category),
		})
	}
	return out
}
