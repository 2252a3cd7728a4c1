package rules

import (
	"fmt"
	"sort"

	"financial-clinic-workers/internal/models"
)

// AllowedFields are the profile fields rules may reference.
var AllowedFields = map[string]bool{
	"age": true, "nationality": true, "emirate": true, "employment_status": true,
	"monthly_income": true, "income_range": true, "education_level": true,
	"years_in_uae": true, "family_status": true, "housing_status": true,
	"banking_relationship": true, "investment_experience": true,
	"islamic_finance_preference": true, "household_size": true, "children": true,
	"industry": true, "position": true, "gender": true, "company_id": true,
}

// ProtectedFields produce a compliance warning whenever a rule uses them.
var ProtectedFields = map[string]bool{
	"gender": true, "nationality": true, "religion": true, "race": true, "ethnicity": true,
}

// Rule actions.
const (
	ActionIncludeQuestions = "include_questions"
	ActionExcludeQuestions = "exclude_questions"
	ActionAddQuestions     = "add_questions"
)

var validActions = map[string]bool{
	ActionIncludeQuestions: true,
	ActionExcludeQuestions: true,
	ActionAddQuestions:     true,
}

// QuestionLookup resolves question ids referenced by rule actions.
type QuestionLookup interface {
	Question(id string) (models.Question, bool)
}

type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Lint checks a rule document of the form {"conditions": ..., "actions": ...}.
func Lint(doc map[string]interface{}, questions QuestionLookup) Report {
	errs := []string{}
	warnings := []string{}

	conditions, hasConditions := doc["conditions"]
	if !hasConditions {
		errs = append(errs, "Rule must have 'conditions' field")
	} else {
		errs = append(errs, lintConditions(conditions)...)
		warnings = append(warnings, protectedFieldWarnings(conditions)...)
	}

	if actions, ok := doc["actions"]; !ok {
		errs = append(errs, "Rule must have 'actions' field")
	} else {
		errs = append(errs, lintActions(actions, questions)...)
	}

	return Report{Valid: len(errs) == 0, Errors: errs, Warnings: warnings}
}

func lintConditions(raw interface{}) []string {
	node, ok := raw.(map[string]interface{})
	if !ok {
		return []string{"Conditions must be a dictionary"}
	}

	var errs []string
	logical := false
	for _, op := range []string{KeyAnd, KeyOr, KeyNot} {
		v, ok := node[op]
		if !ok {
			continue
		}
		logical = true
		if op == KeyNot {
			if _, ok := v.(map[string]interface{}); !ok {
				errs = append(errs, fmt.Sprintf("'%s' operator must contain a dictionary", op))
				continue
			}
			errs = append(errs, lintConditions(v)...)
			continue
		}
		items, ok := v.([]interface{})
		if !ok {
			errs = append(errs, fmt.Sprintf("'%s' operator must contain a list", op))
			continue
		}
		for i, item := range items {
			if _, ok := item.(map[string]interface{}); !ok {
				errs = append(errs, fmt.Sprintf("'%s' condition %d must be a dictionary", op, i))
				continue
			}
			errs = append(errs, lintConditions(item)...)
		}
	}
	if logical {
		return errs
	}

	fields := make([]string, 0, len(node))
	for f := range node {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, field := range fields {
		if !AllowedFields[field] {
			errs = append(errs, fmt.Sprintf("Field '%s' is not allowed in rules", field))
		}
		switch cond := node[field].(type) {
		case map[string]interface{}:
			ops := make([]string, 0, len(cond))
			for op := range cond {
				ops = append(ops, op)
			}
			sort.Strings(ops)
			for _, op := range ops {
				if !Operator(op).Known() {
					errs = append(errs, fmt.Sprintf("Unknown operator '%s' for field '%s'", op, field))
				}
			}
		case string, bool, float64:
		default:
			errs = append(errs, fmt.Sprintf("Condition for field '%s' must be a value or an operator dictionary", field))
		}
	}
	return errs
}

func lintActions(raw interface{}, questions QuestionLookup) []string {
	actions, ok := raw.(map[string]interface{})
	if !ok {
		return []string{"Actions must be a dictionary"}
	}

	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []string
	for _, action := range names {
		if !validActions[action] {
			errs = append(errs, fmt.Sprintf("Unknown action '%s'", action))
			continue
		}
		ids, ok := actions[action].([]interface{})
		if !ok {
			errs = append(errs, fmt.Sprintf("Action '%s' must contain a list of question IDs", action))
			continue
		}
		for _, rawID := range ids {
			id, ok := rawID.(string)
			if !ok {
				errs = append(errs, fmt.Sprintf("Question ID in '%s' must be a string", action))
				continue
			}
			if questions == nil {
				continue
			}
			if _, ok := questions.Question(id); !ok {
				errs = append(errs, fmt.Sprintf("Question ID '%s' in '%s' does not exist", id, action))
			}
		}
	}
	return errs
}

func protectedFieldWarnings(raw interface{}) []string {
	var warnings []string
	var walk func(v interface{})
	walk = func(v interface{}) {
		switch node := v.(type) {
		case map[string]interface{}:
			keys := make([]string, 0, len(node))
			for k := range node {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if ProtectedFields[k] {
					warnings = append(warnings, fmt.Sprintf(
						"Rule uses protected field '%s' which may be discriminatory. Please ensure this is legally compliant and necessary.", k))
					continue
				}
				walk(node[k])
			}
		case []interface{}:
			for _, item := range node {
				walk(item)
			}
		}
	}
	walk(raw)
	return warnings
}
