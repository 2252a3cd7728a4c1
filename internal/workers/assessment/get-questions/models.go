// internal/workers/assessment/get-questions/models.go
package getquestions

import (
	"financial-clinic-workers/internal/assessment/rules"
	"financial-clinic-workers/internal/models"
)

type Input struct {
	Variant   models.Variant  `json:"variant"`
	Language  models.Language `json:"language"`
	CompanyID string          `json:"companyId"`
	Profile   models.Profile  `json:"profile"`
}

type AppliedVariation struct {
	QuestionID        string  `json:"questionId"`
	VariationID       int64   `json:"variationId"`
	Name              string  `json:"name"`
	Matched           bool    `json:"matched"`
	ScoringAdjustment float64 `json:"scoringAdjustment"`
}

type Output struct {
	Variant            models.Variant             `json:"variant"`
	Language           models.Language            `json:"language"`
	Questions          []models.LocalizedQuestion `json:"questions"`
	TotalQuestions     int                        `json:"totalQuestions"`
	ProfileHash        string                     `json:"profileHash"`
	AppliedRules       []rules.AppliedRule        `json:"appliedRules"`
	ExcludedQuestions  []string                   `json:"excludedQuestions"`
	AddedQuestions     []string                   `json:"addedQuestions"`
	VariationsApplied  []AppliedVariation         `json:"variationsApplied"`
	ScoringAdjustments map[string]float64         `json:"scoringAdjustments,omitempty"`
	Cached             bool                       `json:"cached"`
}
