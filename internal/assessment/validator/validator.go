// internal/assessment/validator/validator.go
package validator

import (
	"fmt"
	"sort"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/models"
)

// Result carries every violation found in an answer set. Valid is true only
// when Errors is empty.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validator checks answer sets against a question catalog.
type Validator struct {
	catalog *catalog.Catalog
}

func New(c *catalog.Catalog) *Validator {
	return &Validator{catalog: c}
}

// Validate checks count, then missing ids, then unexpected ids, then values.
// All violations are reported; nothing is returned early.
func (v *Validator) Validate(answers models.AnswerSet, children int) Result {
	applicable := v.catalog.QuestionsForProfile(children)
	var errs []string

	if len(answers) != len(applicable) {
		errs = append(errs, fmt.Sprintf("Expected %d answers, got %d", len(applicable), len(answers)))
	}

	expected := make(map[string]models.Question, len(applicable))
	for _, q := range applicable {
		expected[q.ID] = q
		if _, ok := answers[q.ID]; !ok {
			errs = append(errs, fmt.Sprintf("Missing answer for question %d", q.Number))
		}
	}

	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, ok := expected[id]; !ok {
			errs = append(errs, fmt.Sprintf("Unexpected answer for %s", id))
		}
	}

	for _, q := range applicable {
		value, ok := answers[q.ID]
		if !ok {
			continue
		}
		if !q.HasOption(value) {
			errs = append(errs, fmt.Sprintf("Invalid answer value %d for %s. Must be %d-%d.",
				value, q.ID, models.MinOptionValue, models.MaxOptionValue))
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}
