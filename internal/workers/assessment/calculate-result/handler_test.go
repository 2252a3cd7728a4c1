// internal/workers/assessment/calculate-result/handler_test.go
package calculateresult

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/assessment/insights"
	"financial-clinic-workers/internal/assessment/products"
	"financial-clinic-workers/internal/assessment/scoring"
	apperrors "financial-clinic-workers/internal/common/errors"
	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/common/observability"
	"financial-clinic-workers/internal/common/validation"
	"financial-clinic-workers/internal/models"
	"financial-clinic-workers/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeStore struct {
	products []models.Product
	err      error
}

func (f *fakeStore) ActiveProducts(_ context.Context, category models.Category, status string) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Product
	for _, p := range f.products {
		if p.Category == category && p.StatusLevel == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func createTestConfig() *Config {
	return &Config{
		Timeout:         15 * time.Second,
		DefaultVariant:  models.VariantFinancialClinic,
		DefaultLanguage: models.LanguageEnglish,
		MaxInsights:     5,
	}
}

func createTestHandler(t *testing.T, store products.Store, schemas *validation.SchemaSet, tracer *observability.Tracer) *Handler {
	catalogs, err := catalog.LoadAll()
	require.NoError(t, err)
	generator, err := insights.New()
	require.NoError(t, err)

	h := NewHandler(createTestConfig(), catalogs, generator, products.NewRecommender(store), schemas, tracer, logger.NewTestLogger(t))
	h.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	return h
}

func defaultSchemas(t *testing.T) *validation.SchemaSet {
	schemas, err := validation.DefaultSchemaSet()
	require.NoError(t, err)
	return schemas
}

func uniformAnswers(variant models.Variant, children, value int) models.AnswerSet {
	answers := models.AnswerSet{}
	for _, q := range catalog.MustLoad(variant).QuestionsForProfile(children) {
		answers[q.ID] = value
	}
	return answers
}

func savingsProducts() []models.Product {
	return []models.Product{
		{ID: 7, Name: "Smart Saver", Category: models.CategorySavingsHabit, StatusLevel: scoring.StatusGood, Priority: 1, Active: true},
		{ID: 8, Name: "Goal Account", Category: models.CategorySavingsHabit, StatusLevel: scoring.StatusGood, Priority: 2, Active: true},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	h := createTestHandler(t, &fakeStore{products: savingsProducts()}, defaultSchemas(t), nil)

	output, err := h.Execute(context.Background(), &Input{
		Answers: uniformAnswers(models.VariantFinancialClinic, 0, 4),
		Profile: models.Profile{Nationality: "Emirati", Children: 0},
	})
	require.NoError(t, err)

	assert.Len(t, output.AssessmentID, 36)
	assert.Equal(t, models.VariantFinancialClinic, output.Variant)
	assert.Equal(t, models.LanguageEnglish, output.Language)
	assert.Equal(t, 80.0, output.TotalScore)
	assert.Equal(t, scoring.BandGood, output.StatusBand)
	assert.Len(t, output.CategoryScores, 6)
	assert.Equal(t, 14, output.QuestionsAnswered)
	assert.Equal(t, 14, output.TotalQuestions)
	assert.Empty(t, output.RiskTolerance)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), output.CompletedAt)

	assert.NotEmpty(t, output.Insights)
	assert.LessOrEqual(t, len(output.Insights), 5)

	require.Len(t, output.Products, 2)
	assert.Equal(t, int64(7), output.Products[0].ID)
	assert.Equal(t, int64(8), output.Products[1].ID)
}

func TestHandler_Execute_Variants(t *testing.T) {
	h := createTestHandler(t, &fakeStore{}, defaultSchemas(t), nil)

	tests := []struct {
		name           string
		input          *Input
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name: "legacy variant derives risk tolerance",
			input: &Input{
				Variant: models.VariantLegacy,
				Answers: uniformAnswers(models.VariantLegacy, 1, 5),
				Profile: models.Profile{Children: 1},
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 100.0, output.TotalScore)
				assert.Len(t, output.CategoryScores, 7)
				assert.NotEmpty(t, output.RiskTolerance)
			},
		},
		{
			name: "arabic insights",
			input: &Input{
				Language: models.LanguageArabic,
				Answers:  uniformAnswers(models.VariantFinancialClinic, 2, 1),
				Profile:  models.Profile{Children: 2},
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, models.LanguageArabic, output.Language)
				assert.Equal(t, 15, output.TotalQuestions)
				assert.Equal(t, scoring.BandAtRisk, output.StatusBand)
				assert.NotEmpty(t, output.Insights)
			},
		},
		{
			name: "insight limit and unsupported language",
			input: &Input{
				Language:    "fr",
				MaxInsights: 2,
				Answers:     uniformAnswers(models.VariantFinancialClinic, 0, 2),
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, models.LanguageEnglish, output.Language)
				assert.LessOrEqual(t, len(output.Insights), 2)
				assert.NotNil(t, output.Products)
				assert.Empty(t, output.Products)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := h.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_Execute_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := observability.NewTracerWithProvider(provider)

	h := createTestHandler(t, &fakeStore{}, nil, tracer)
	_, err := h.Execute(context.Background(), &Input{
		Answers: uniformAnswers(models.VariantFinancialClinic, 0, 3),
	})
	require.NoError(t, err)

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	assert.ElementsMatch(t, []string{
		observability.SpanValidate,
		observability.SpanScore,
		observability.SpanInsights,
		observability.SpanRecommend,
	}, names)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	incomplete := uniformAnswers(models.VariantFinancialClinic, 0, 3)
	delete(incomplete, "fc_q1")

	tests := []struct {
		name         string
		store        products.Store
		input        *Input
		expectedCode apperrors.ErrorCode
	}{
		{
			name:         "unknown variant",
			store:        &fakeStore{},
			input:        &Input{Variant: "quarterly", Answers: incomplete},
			expectedCode: apperrors.ErrCodeUnknownVariant,
		},
		{
			name:         "incomplete answers",
			store:        &fakeStore{},
			input:        &Input{Answers: incomplete},
			expectedCode: apperrors.ErrCodeAnswersValidationFailed,
		},
		{
			name:         "product store failure",
			store:        &fakeStore{err: errors.New("connection refused")},
			input:        &Input{Answers: uniformAnswers(models.VariantFinancialClinic, 0, 3)},
			expectedCode: apperrors.ErrCodeProductLookupFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, tt.store, defaultSchemas(t), nil)

			output, err := h.Execute(context.Background(), tt.input)
			assert.Nil(t, output)

			var stdErr *apperrors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
		})
	}
}

func TestHandler_Execute_SchemaViolation(t *testing.T) {
	reg, err := registry.Parse([]byte(`{
		"version": "1.0.0",
		"activities": [{
			"id": "assessment.result.calculate",
			"taskType": "calculate-assessment-result",
			"outputSchema": {"type": "object", "required": ["customerTier"]}
		}]
	}`))
	require.NoError(t, err)
	schemas, err := validation.NewSchemaSet(reg)
	require.NoError(t, err)

	h := createTestHandler(t, &fakeStore{}, schemas, nil)
	_, err = h.Execute(context.Background(), &Input{
		Answers: uniformAnswers(models.VariantFinancialClinic, 0, 3),
	})

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeResultSchemaViolation, stdErr.Code)
	assert.Contains(t, stdErr.Details, "customerTier")
}
