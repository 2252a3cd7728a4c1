// internal/assessment/scoring/engine.go
package scoring

import (
	"math"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/models"
)

type Option func(*Engine)

// WithSchemes overrides the variant's default band schemes.
func WithSchemes(category, overall Scheme) Option {
	return func(e *Engine) {
		e.categoryScheme = category
		e.overallScheme = overall
	}
}

// Engine turns validated answer sets into category and total scores.
type Engine struct {
	catalog        *catalog.Catalog
	categoryScheme Scheme
	overallScheme  Scheme
}

// New builds an engine for the catalog's variant. Custom variants without
// built-in schemes fall back to the Financial Clinic schemes unless
// WithSchemes is given.
func New(c *catalog.Catalog, opts ...Option) *Engine {
	category, overall, err := SchemesFor(c.Variant())
	if err != nil {
		category, overall = FinancialClinicCategory, FinancialClinicOverall
	}
	e := &Engine{
		catalog:        c,
		categoryScheme: category,
		overallScheme:  overall,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) CategoryScheme() Scheme { return e.categoryScheme }
func (e *Engine) OverallScheme() Scheme  { return e.overallScheme }

// Score computes the weighted score. The answer set must already be
// validated; missing answers contribute nothing.
func (e *Engine) Score(answers models.AnswerSet, children int) models.ScoreResult {
	applicable := e.catalog.QuestionsForProfile(children)

	raw := make(map[models.Category]float64)
	maxPts := make(map[models.Category]float64)
	counts := make(map[models.Category]int)
	for _, q := range applicable {
		raw[q.Category] += float64(answers[q.ID] * q.Weight)
		maxPts[q.Category] += float64(models.MaxOptionValue * q.Weight)
		counts[q.Category]++
	}

	result := models.ScoreResult{
		Variant:           e.catalog.Variant(),
		CategoryScores:    make(map[models.Category]models.CategoryScore, len(counts)),
		QuestionsAnswered: len(answers),
		TotalQuestions:    len(applicable),
	}

	var sumRaw, sumMax float64
	for _, category := range e.catalog.Categories() {
		if counts[category] == 0 {
			continue
		}
		pct := Round2(raw[category] / maxPts[category] * 100)
		result.CategoryScores[category] = models.CategoryScore{
			Category:      category,
			Score:         raw[category],
			MaxPossible:   maxPts[category],
			Percentage:    pct,
			StatusLevel:   e.categoryScheme.Classify(pct),
			QuestionCount: counts[category],
		}
		result.CategoryOrder = append(result.CategoryOrder, category)
		sumRaw += raw[category]
		sumMax += maxPts[category]
	}

	if sumMax > 0 {
		result.TotalScore = Round2(sumRaw / sumMax * 100)
	}
	result.StatusBand = e.overallScheme.Classify(result.TotalScore)
	return result
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
