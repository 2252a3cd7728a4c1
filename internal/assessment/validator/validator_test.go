package validator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func fullAnswers(n int, value int) models.AnswerSet {
	answers := make(models.AnswerSet, n)
	for i := 1; i <= n; i++ {
		answers[fmt.Sprintf("fc_q%d", i)] = value
	}
	return answers
}

func newFinancialClinicValidator(t *testing.T) *Validator {
	c, err := catalog.Load(models.VariantFinancialClinic)
	require.NoError(t, err)
	return New(c)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestValidator_Validate(t *testing.T) {
	v := newFinancialClinicValidator(t)

	tests := []struct {
		name           string
		answers        models.AnswerSet
		children       int
		expectedValid  bool
		expectedErrors []string
	}{
		{
			name:          "14 answers without children",
			answers:       fullAnswers(14, 3),
			children:      0,
			expectedValid: true,
		},
		{
			name:          "15 answers with children",
			answers:       fullAnswers(15, 5),
			children:      2,
			expectedValid: true,
		},
		{
			name:     "14 answers with children misses conditional question",
			answers:  fullAnswers(14, 3),
			children: 1,
			expectedErrors: []string{
				"Expected 15 answers, got 14",
				"Missing answer for question 15",
			},
		},
		{
			name:     "conditional answer without children is unexpected",
			answers:  fullAnswers(15, 3),
			children: 0,
			expectedErrors: []string{
				"Expected 14 answers, got 15",
				"Unexpected answer for fc_q15",
			},
		},
		{
			name: "value out of range",
			answers: func() models.AnswerSet {
				a := fullAnswers(14, 4)
				a["fc_q3"] = 0
				a["fc_q7"] = 6
				return a
			}(),
			expectedErrors: []string{
				"Invalid answer value 0 for fc_q3. Must be 1-5.",
				"Invalid answer value 6 for fc_q7. Must be 1-5.",
			},
		},
		{
			name: "extra unknown id replaces a required one",
			answers: func() models.AnswerSet {
				a := fullAnswers(14, 4)
				delete(a, "fc_q2")
				a["fc_q99"] = 3
				return a
			}(),
			expectedErrors: []string{
				"Missing answer for question 2",
				"Unexpected answer for fc_q99",
			},
		},
		{
			name:    "empty answer set",
			answers: models.AnswerSet{},
			expectedErrors: []string{
				"Expected 14 answers, got 0",
				"Missing answer for question 1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.answers, tt.children)

			if tt.expectedValid {
				assert.True(t, result.Valid)
				assert.Empty(t, result.Errors)
				return
			}

			assert.False(t, result.Valid)
			for _, e := range tt.expectedErrors {
				assert.Contains(t, result.Errors, e)
			}
		})
	}
}

func TestValidator_ErrorOrder(t *testing.T) {
	v := newFinancialClinicValidator(t)

	answers := fullAnswers(14, 3)
	delete(answers, "fc_q1")
	answers["fc_q2"] = 9

	result := v.Validate(answers, 0)
	require.False(t, result.Valid)
	assert.Equal(t, []string{
		"Expected 14 answers, got 13",
		"Missing answer for question 1",
		"Invalid answer value 9 for fc_q2. Must be 1-5.",
	}, result.Errors)
}

func TestValidator_Legacy(t *testing.T) {
	c, err := catalog.Load(models.VariantLegacy)
	require.NoError(t, err)
	v := New(c)

	answers := models.AnswerSet{}
	for _, q := range c.QuestionsForProfile(0) {
		answers[q.ID] = 4
	}
	assert.True(t, v.Validate(answers, 0).Valid)

	result := v.Validate(answers, 1)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "Missing answer for question 16")
}
