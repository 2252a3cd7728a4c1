// internal/workers/assessment/recommend-products/handler.go
package recommendproducts

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/assessment/products"
	"financial-clinic-workers/internal/assessment/scoring"
	apperrors "financial-clinic-workers/internal/common/errors"
	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/common/metrics"
)

const (
	TaskType = "recommend-products"
)

type Handler struct {
	config      *Config
	catalogs    catalog.Set
	recommender *products.Recommender
	logger      logger.Logger
	errHandler  *apperrors.ErrorHandler
}

func NewHandler(config *Config, catalogs catalog.Set, recommender *products.Recommender, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:      config,
		catalogs:    catalogs,
		recommender: recommender,
		logger:      l,
		errHandler:  apperrors.NewErrorHandler(l),
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	c, err := h.catalogs.Get(input.Variant, h.config.DefaultVariant)
	if err != nil {
		return nil, apperrors.NewUnknownVariantError(string(input.Variant))
	}
	categoryScheme, _, err := scoring.SchemesFor(c.Variant())
	if err != nil {
		return nil, apperrors.NewUnknownVariantError(string(c.Variant()))
	}

	scores, problems := scoring.ExtractCategoryScores(input.CategoryScores)
	if len(problems) > 0 {
		h.logger.Warn("malformed category scores", map[string]interface{}{
			"problems": problems,
		})
	}
	scoring.FillStatus(scores, categoryScheme)

	p := input.Profile
	recs, err := h.recommender.Recommend(ctx, scoring.Order(scores, c.Categories()), p.Nationality, p.Gender, p.Children)
	if err != nil {
		return nil, apperrors.NewProductLookupFailedError(err)
	}
	metrics.ProductRecommendations.Observe(float64(len(recs)))

	h.logger.Info("products recommended", map[string]interface{}{
		"categories": len(scores),
		"products":   len(recs),
	})

	return &Output{
		Products: recs,
		Count:    len(recs),
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
