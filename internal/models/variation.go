package models

import "encoding/json"

// QuestionVariation is an alternate phrasing or option set for a base
// question, selected per demographic segment or company.
type QuestionVariation struct {
	ID                int64           `json:"id"`
	BaseQuestionID    string          `json:"base_question_id"`
	Name              string          `json:"name"`
	Language          Language        `json:"language"`
	Text              string          `json:"text"`
	Options           []Option        `json:"options,omitempty"`
	Rule              json.RawMessage `json:"rule,omitempty"`
	CompanyID         string          `json:"company_id,omitempty"`
	ScoringAdjustment float64         `json:"scoring_adjustment"`
	Active            bool            `json:"active"`
}

// RuleActions lists the question ids a matched demographic rule touches.
type RuleActions struct {
	IncludeQuestions []string `json:"include_questions,omitempty"`
	ExcludeQuestions []string `json:"exclude_questions,omitempty"`
	AddQuestions     []string `json:"add_questions,omitempty"`
}

type DemographicRule struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Conditions json.RawMessage `json:"conditions"`
	Actions    RuleActions     `json:"actions"`
	Priority   int             `json:"priority"`
	CompanyID  string          `json:"company_id,omitempty"`
	Active     bool            `json:"active"`
}
