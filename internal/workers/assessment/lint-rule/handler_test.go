// internal/workers/assessment/lint-rule/handler_test.go
package lintrule

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-clinic-workers/internal/assessment/catalog"
	apperrors "financial-clinic-workers/internal/common/errors"
	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T) *Handler {
	catalogs, err := catalog.LoadAll()
	require.NoError(t, err)
	config := &Config{Timeout: 5 * time.Second, DefaultVariant: models.VariantFinancialClinic}
	return NewHandler(config, catalogs, logger.NewTestLogger(t))
}

func ruleDoc(t *testing.T, raw string) map[string]interface{} {
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	h := createTestHandler(t)

	tests := []struct {
		name           string
		input          func(t *testing.T) *Input
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name: "valid rule",
			input: func(t *testing.T) *Input {
				return &Input{Rule: ruleDoc(t, `{"conditions": {"age": {"gte": 25}}, "actions": {"exclude_questions": ["fc_q15"]}}`)}
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.True(t, output.Valid)
				assert.Empty(t, output.Errors)
				assert.Empty(t, output.Warnings)
			},
		},
		{
			name: "protected field warns but passes",
			input: func(t *testing.T) *Input {
				return &Input{Rule: ruleDoc(t, `{"conditions": {"gender": "female"}, "actions": {"add_questions": ["fc_q14"]}}`)}
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.True(t, output.Valid)
				assert.Len(t, output.Warnings, 1)
			},
		},
		{
			name: "question ids are checked against the requested variant",
			input: func(t *testing.T) *Input {
				return &Input{
					Variant: models.VariantLegacy,
					Rule:    ruleDoc(t, `{"conditions": {"age": {"lt": 30}}, "actions": {"exclude_questions": ["fc_q15"]}}`),
				}
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.False(t, output.Valid)
				assert.Equal(t, []string{"Question ID 'fc_q15' in 'exclude_questions' does not exist"}, output.Errors)
			},
		},
		{
			name:  "missing rule reports both sections",
			input: func(t *testing.T) *Input { return &Input{} },
			validateOutput: func(t *testing.T, output *Output) {
				assert.False(t, output.Valid)
				assert.Len(t, output.Errors, 2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := h.Execute(context.Background(), tt.input(t))
			require.NoError(t, err)
			tt.validateOutput(t, output)
		})
	}
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_FailOnInvalid(t *testing.T) {
	h := createTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{
		Rule:          ruleDoc(t, `{"conditions": {"religion": "x"}, "actions": {}}`),
		FailOnInvalid: true,
	})

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeRuleInvalid, stdErr.Code)
	assert.Equal(t, []string{"Field 'religion' is not allowed in rules"}, stdErr.Metadata["ruleErrors"])

	bpmn := apperrors.ConvertToBPMNError(stdErr)
	assert.Equal(t, "RULE_INVALID", bpmn.Code)
	assert.Contains(t, bpmn.ErrorVariables, "ruleErrors")
}
