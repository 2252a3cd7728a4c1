// internal/workers/assessment/generate-insights/models.go
package generateinsights

import "financial-clinic-workers/internal/models"

// Input accepts category scores as stored by an earlier scoring task, either
// full score objects or bare numbers.
type Input struct {
	Variant        models.Variant         `json:"variant"`
	CategoryScores map[string]interface{} `json:"categoryScores"`
	Profile        models.Profile         `json:"profile"`
	Language       models.Language        `json:"language"`
	MaxInsights    int                    `json:"maxInsights"`
}

type Output struct {
	Insights []models.Insight `json:"insights"`
	Count    int              `json:"count"`
	Language models.Language  `json:"language"`
	Warnings []string         `json:"warnings,omitempty"`
}
