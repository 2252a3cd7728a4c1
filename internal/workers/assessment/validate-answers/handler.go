// internal/workers/assessment/validate-answers/handler.go
package validateanswers

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/assessment/validator"
	apperrors "financial-clinic-workers/internal/common/errors"
	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/common/metrics"
	"financial-clinic-workers/internal/common/validation"
)

const (
	TaskType = "validate-assessment-answers"
)

type Handler struct {
	config     *Config
	catalogs   catalog.Set
	schemas    *validation.SchemaSet
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, catalogs catalog.Set, schemas *validation.SchemaSet, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		catalogs:   catalogs,
		schemas:    schemas,
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

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &doc); err != nil {
		h.errHandler.HandleJobError(ctx, client, job, apperrors.NewParseError(err))
		return
	}
	if h.schemas != nil {
		if res := h.schemas.ValidateInput(TaskType, doc); !res.Valid {
			h.errHandler.HandleJobError(ctx, client, job, apperrors.NewAnswersValidationFailedError(res.GetErrorMessages()))
			return
		}
	}

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

	result := validator.New(c).Validate(input.Answers, input.Profile.Children)
	expected := len(c.QuestionsForProfile(input.Profile.Children))

	h.logger.Info("answers validated", map[string]interface{}{
		"variant":    c.Variant(),
		"valid":      result.Valid,
		"errorCount": len(result.Errors),
		"answers":    len(input.Answers),
		"expected":   expected,
	})

	if !result.Valid {
		metrics.AssessmentValidationFailures.WithLabelValues(string(c.Variant())).Inc()
		return nil, apperrors.NewAnswersValidationFailedError(result.Errors)
	}

	return &Output{
		Valid:         true,
		Variant:       c.Variant(),
		Errors:        []string{},
		AnswerCount:   len(input.Answers),
		ExpectedCount: expected,
	}, nil
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
