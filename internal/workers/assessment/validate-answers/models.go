// internal/workers/assessment/validate-answers/models.go
package validateanswers

import "financial-clinic-workers/internal/models"

type Input struct {
	Variant models.Variant   `json:"variant"`
	Answers models.AnswerSet `json:"answers"`
	Profile models.Profile   `json:"profile"`
}

type Output struct {
	Valid         bool           `json:"valid"`
	Variant       models.Variant `json:"variant"`
	Errors        []string       `json:"errors"`
	AnswerCount   int            `json:"answerCount"`
	ExpectedCount int            `json:"expectedCount"`
}
