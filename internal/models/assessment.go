// internal/models/assessment.go
package models

import "sort"

// AnswerSet maps question id to the chosen option value.
type AnswerSet map[string]int

type CategoryScore struct {
	Category      Category `json:"category"`
	Score         float64  `json:"score"`
	MaxPossible   float64  `json:"max_possible"`
	Percentage    float64  `json:"percentage"`
	StatusLevel   string   `json:"status_level"`
	QuestionCount int      `json:"question_count,omitempty"`
}

type ScoreResult struct {
	Variant           Variant                    `json:"variant"`
	TotalScore        float64                    `json:"total_score"`
	StatusBand        string                     `json:"status_band"`
	CategoryScores    map[Category]CategoryScore `json:"category_scores"`
	CategoryOrder     []Category                 `json:"category_order,omitempty"`
	QuestionsAnswered int                        `json:"questions_answered"`
	TotalQuestions    int                        `json:"total_questions"`
}

// Ordered returns category scores in CategoryOrder, followed by any category
// missing from the order list sorted by name.
func (r ScoreResult) Ordered() []CategoryScore {
	out := make([]CategoryScore, 0, len(r.CategoryScores))
	seen := make(map[Category]bool, len(r.CategoryScores))
	for _, c := range r.CategoryOrder {
		if cs, ok := r.CategoryScores[c]; ok && !seen[c] {
			out = append(out, cs)
			seen[c] = true
		}
	}
	var rest []CategoryScore
	for c, cs := range r.CategoryScores {
		if !seen[c] {
			rest = append(rest, cs)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Category < rest[j].Category })
	return append(out, rest...)
}

type Insight struct {
	Category    Category `json:"category"`
	StatusLevel string   `json:"status_level"`
	Text        string   `json:"text"`
	Priority    int      `json:"priority"`
}

// RiskTolerance is derived from the legacy survey answers.
type RiskTolerance string

const (
	RiskToleranceLow      RiskTolerance = "low"
	RiskToleranceModerate RiskTolerance = "moderate"
	RiskToleranceHigh     RiskTolerance = "high"
)
