// internal/workers/assessment/lint-rule/models.go
package lintrule

import "financial-clinic-workers/internal/models"

// Input carries a demographic rule document of the form
// {"conditions": ..., "actions": ...}.
type Input struct {
	Rule          map[string]interface{} `json:"rule"`
	Variant       models.Variant         `json:"variant"`
	FailOnInvalid bool                   `json:"failOnInvalid"`
}

type Output struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
