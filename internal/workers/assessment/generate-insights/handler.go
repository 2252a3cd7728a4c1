// internal/workers/assessment/generate-insights/handler.go
package generateinsights

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"financial-clinic-workers/internal/assessment/insights"
	"financial-clinic-workers/internal/assessment/rules"
	"financial-clinic-workers/internal/assessment/scoring"
	apperrors "financial-clinic-workers/internal/common/errors"
	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/models"
)

const (
	TaskType = "generate-assessment-insights"
)

type Handler struct {
	config     *Config
	generator  *insights.Generator
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, generator *insights.Generator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		generator:  generator,
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
	scores, problems := scoring.ExtractCategoryScores(input.CategoryScores)
	if len(problems) > 0 {
		h.logger.Warn("malformed category scores", map[string]interface{}{
			"problems": problems,
		})
	}

	variant := input.Variant
	if variant == "" {
		variant = h.config.DefaultVariant
	}
	categoryScheme, _, err := scoring.SchemesFor(variant)
	if err != nil {
		return nil, apperrors.NewUnknownVariantError(string(variant))
	}
	scoring.FillStatus(scores, categoryScheme)

	lang := input.Language
	if lang != models.LanguageEnglish && lang != models.LanguageArabic {
		lang = h.config.DefaultLanguage
	}
	limit := input.MaxInsights
	if limit <= 0 {
		limit = h.config.MaxInsights
	}

	list := h.generator.Generate(scores, rules.Context(input.Profile.Context()), limit, lang)

	h.logger.Info("insights generated", map[string]interface{}{
		"categories": len(scores),
		"insights":   len(list),
		"language":   lang,
	})

	return &Output{
		Insights: list,
		Count:    len(list),
		Language: lang,
		Warnings: problems,
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

