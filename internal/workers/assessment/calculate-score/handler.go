// internal/workers/assessment/calculate-score/handler.go
package calculatescore

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/assessment/scoring"
	"financial-clinic-workers/internal/assessment/validator"
	apperrors "financial-clinic-workers/internal/common/errors"
	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/common/metrics"
	"financial-clinic-workers/internal/models"
)

const (
	TaskType = "calculate-assessment-score"
)

type Handler struct {
	config     *Config
	catalogs   catalog.Set
	engines    map[models.Variant]*scoring.Engine
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, catalogs catalog.Set, log logger.Logger) *Handler {
	engines := make(map[models.Variant]*scoring.Engine, len(catalogs))
	for v, c := range catalogs {
		engines[v] = scoring.New(c)
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		catalogs:   catalogs,
		engines:    engines,
		logger:     l,
		errHandler: apperrors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errHandler.HandleJobError(ctx, client, job, apperrors.NewParseError(err))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	c, err := h.catalogs.Get(input.Variant, h.config.DefaultVariant)
	if err != nil {
		return nil, apperrors.NewUnknownVariantError(string(input.Variant))
	}
	variant := c.Variant()
	children := input.Profile.Children

	if !h.config.SkipValidation {
		if res := validator.New(c).Validate(input.Answers, children); !res.Valid {
			metrics.AssessmentValidationFailures.WithLabelValues(string(variant)).Inc()
			return nil, apperrors.NewAnswersValidationFailedError(res.Errors)
		}
	}

	answers := scoring.NormalizeAnswers(input.Answers, input.ScoringAdjustments)
	result := h.engines[variant].Score(answers, children)

	output := &Output{
		Variant:           variant,
		TotalScore:        result.TotalScore,
		StatusBand:        result.StatusBand,
		CategoryScores:    result.CategoryScores,
		CategoryOrder:     result.CategoryOrder,
		QuestionsAnswered: result.QuestionsAnswered,
		TotalQuestions:    result.TotalQuestions,
	}
	if variant == models.VariantLegacy {
		output.RiskTolerance = scoring.RiskTolerance(answers)
	}

	metrics.AssessmentScores.WithLabelValues(string(variant)).Observe(result.TotalScore)
	metrics.AssessmentStatusBands.WithLabelValues(string(variant), result.StatusBand).Inc()

	h.logger.Info("assessment scored", map[string]interface{}{
		"variant":    variant,
		"totalScore": result.TotalScore,
		"statusBand": result.StatusBand,
		"categories": len(result.CategoryScores),
		"adjusted":   len(input.ScoringAdjustments),
	})

	return output, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
