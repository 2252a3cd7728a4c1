// internal/workers/assessment/calculate-score/models.go
package calculatescore

import "financial-clinic-workers/internal/models"

type Input struct {
	Variant            models.Variant     `json:"variant"`
	Answers            models.AnswerSet   `json:"answers"`
	Profile            models.Profile     `json:"profile"`
	ScoringAdjustments map[string]float64 `json:"scoringAdjustments,omitempty"`
}

type Output struct {
	Variant           models.Variant                           `json:"variant"`
	TotalScore        float64                                  `json:"totalScore"`
	StatusBand        string                                   `json:"statusBand"`
	CategoryScores    map[models.Category]models.CategoryScore `json:"categoryScores"`
	CategoryOrder     []models.Category                        `json:"categoryOrder"`
	QuestionsAnswered int                                      `json:"questionsAnswered"`
	TotalQuestions    int                                      `json:"totalQuestions"`
	RiskTolerance     models.RiskTolerance                     `json:"riskTolerance,omitempty"`
}
