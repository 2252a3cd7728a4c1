// internal/workers/assessment/calculate-score/handler_test.go
package calculatescore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/assessment/scoring"
	apperrors "financial-clinic-workers/internal/common/errors"
	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:        5 * time.Second,
		DefaultVariant: models.VariantFinancialClinic,
	}
}

func createTestHandler(t *testing.T, config *Config) *Handler {
	if config == nil {
		config = createTestConfig()
	}
	catalogs, err := catalog.LoadAll()
	require.NoError(t, err)
	return NewHandler(config, catalogs, logger.NewTestLogger(t))
}

func uniform(variant models.Variant, children, value int) models.AnswerSet {
	answers := models.AnswerSet{}
	for _, q := range catalog.MustLoad(variant).QuestionsForProfile(children) {
		answers[q.ID] = value
	}
	return answers
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	h := createTestHandler(t, nil)

	tests := []struct {
		name           string
		input          *Input
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:  "all best answers",
			input: &Input{Answers: uniform(models.VariantFinancialClinic, 0, 5)},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 100.0, output.TotalScore)
				assert.Equal(t, scoring.BandExcellent, output.StatusBand)
				assert.Len(t, output.CategoryScores, 6)
				assert.Equal(t, 14, output.TotalQuestions)
				assert.Empty(t, output.RiskTolerance)
			},
		},
		{
			name: "children add the family question",
			input: &Input{
				Answers: uniform(models.VariantFinancialClinic, 1, 2),
				Profile: models.Profile{Children: 1},
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 40.0, output.TotalScore)
				assert.Equal(t, scoring.BandNeedsImmediateAttention, output.StatusBand)
				assert.Equal(t, 15, output.TotalQuestions)
				assert.Equal(t, 50.0, output.CategoryScores[models.CategoryProtectingFamily].MaxPossible)
			},
		},
		{
			name:  "legacy variant reports risk tolerance",
			input: &Input{Variant: models.VariantLegacy, Answers: uniform(models.VariantLegacy, 0, 4)},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, models.VariantLegacy, output.Variant)
				assert.Equal(t, 80.0, output.TotalScore)
				assert.Equal(t, models.RiskToleranceHigh, output.RiskTolerance)
				assert.Len(t, output.CategoryOrder, 7)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := h.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			require.NotNil(t, output)
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_Execute_ScoringAdjustments(t *testing.T) {
	h := createTestHandler(t, nil)

	answers := uniform(models.VariantFinancialClinic, 0, 4)
	output, err := h.Execute(context.Background(), &Input{
		Answers:            answers,
		ScoringAdjustments: map[string]float64{"fc_q1": 1, "fc_q2": 3},
	})
	require.NoError(t, err)

	income := output.CategoryScores[models.CategoryIncomeStream]
	assert.Equal(t, 75.0, income.Score)
	assert.Equal(t, 100.0, income.Percentage)
	assert.Equal(t, 4, answers["fc_q1"], "input answers must not be modified")
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		input    *Input
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "unknown variant",
			input:    &Input{Variant: "pilot", Answers: models.AnswerSet{"a": 1}},
			wantCode: apperrors.ErrCodeUnknownVariant,
		},
		{
			name:     "incomplete answers",
			input:    &Input{Answers: models.AnswerSet{"fc_q1": 3}},
			wantCode: apperrors.ErrCodeAnswersValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, tt.config)
			output, err := h.Execute(context.Background(), tt.input)
			assert.Nil(t, output)

			var stdErr *apperrors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, tt.wantCode, stdErr.Code)
		})
	}
}

func TestHandler_Execute_SkipValidation(t *testing.T) {
	config := createTestConfig()
	config.SkipValidation = true
	h := createTestHandler(t, config)

	output, err := h.Execute(context.Background(), &Input{Answers: models.AnswerSet{"fc_q1": 5}})
	require.NoError(t, err)
	assert.Equal(t, 1, output.QuestionsAnswered)
	assert.Equal(t, 14, output.TotalQuestions)
	assert.Equal(t, scoring.BandAtRisk, output.StatusBand)
}
