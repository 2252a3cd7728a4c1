// internal/workers/assessment/recommend-products/models.go
package recommendproducts

import "financial-clinic-workers/internal/models"

type Input struct {
	Variant        models.Variant         `json:"variant"`
	CategoryScores map[string]interface{} `json:"categoryScores"`
	Profile        models.Profile         `json:"profile"`
}

type Output struct {
	Products []models.Recommendation `json:"products"`
	Count    int                     `json:"count"`
	Warnings []string                `json:"warnings,omitempty"`
}
