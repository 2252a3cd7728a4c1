// internal/workers/assessment/calculate-result/models.go
package calculateresult

import (
	"time"

	"financial-clinic-workers/internal/models"
)

type Input struct {
	Variant            models.Variant     `json:"variant"`
	Language           models.Language    `json:"language"`
	Answers            models.AnswerSet   `json:"answers"`
	Profile            models.Profile     `json:"profile"`
	ScoringAdjustments map[string]float64 `json:"scoringAdjustments,omitempty"`
	MaxInsights        int                `json:"maxInsights,omitempty"`
}

// Output is the complete assessment result handed back to the process.
type Output struct {
	AssessmentID      string                                   `json:"assessmentId"`
	Variant           models.Variant                           `json:"variant"`
	Language          models.Language                          `json:"language"`
	TotalScore        float64                                  `json:"totalScore"`
	StatusBand        string                                   `json:"statusBand"`
	CategoryScores    map[models.Category]models.CategoryScore `json:"categoryScores"`
	Insights          []models.Insight                         `json:"insights"`
	Products          []models.Recommendation                  `json:"products"`
	QuestionsAnswered int                                      `json:"questionsAnswered"`
	TotalQuestions    int                                      `json:"totalQuestions"`
	RiskTolerance     models.RiskTolerance                     `json:"riskTolerance,omitempty"`
	CompletedAt       time.Time                                `json:"completedAt"`
}
