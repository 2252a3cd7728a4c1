// internal/workers/assessment/calculate-result/handler.go
package calculateresult

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/assessment/insights"
	"financial-clinic-workers/internal/assessment/products"
	"financial-clinic-workers/internal/assessment/rules"
	"financial-clinic-workers/internal/assessment/scoring"
	"financial-clinic-workers/internal/assessment/validator"
	apperrors "financial-clinic-workers/internal/common/errors"
	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/common/metrics"
	"financial-clinic-workers/internal/common/observability"
	"financial-clinic-workers/internal/common/validation"
	"financial-clinic-workers/internal/models"
)

const (
	TaskType = "calculate-assessment-result"
)

// Handler runs the whole assessment pipeline in one job: validation,
// scoring, then insights and product recommendations side by side.
type Handler struct {
	config      *Config
	catalogs    catalog.Set
	engines     map[models.Variant]*scoring.Engine
	generator   *insights.Generator
	recommender *products.Recommender
	schemas     *validation.SchemaSet
	tracer      *observability.Tracer
	logger      logger.Logger
	errHandler  *apperrors.ErrorHandler
	now         func() time.Time
}

func NewHandler(
	config *Config,
	catalogs catalog.Set,
	generator *insights.Generator,
	recommender *products.Recommender,
	schemas *validation.SchemaSet,
	tracer *observability.Tracer,
	log logger.Logger,
) *Handler {
	engines := make(map[models.Variant]*scoring.Engine, len(catalogs))
	for v, c := range catalogs {
		engines[v] = scoring.New(c)
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:      config,
		catalogs:    catalogs,
		engines:     engines,
		generator:   generator,
		recommender: recommender,
		schemas:     schemas,
		tracer:      tracer,
		logger:      l,
		errHandler:  apperrors.NewErrorHandler(l),
		now:         time.Now,
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
	variant := c.Variant()
	profile := input.Profile

	if err := h.validate(ctx, c, input); err != nil {
		return nil, err
	}

	_, span := h.tracer.StartSpan(ctx, observability.SpanScore, attribute.String("variant", string(variant)))
	answers := scoring.NormalizeAnswers(input.Answers, input.ScoringAdjustments)
	result := h.engines[variant].Score(answers, profile.Children)
	span.SetAttributes(attribute.Float64("total_score", result.TotalScore))
	span.End()

	lang := input.Language
	if lang != models.LanguageEnglish && lang != models.LanguageArabic {
		lang = h.config.DefaultLanguage
	}
	limit := input.MaxInsights
	if limit <= 0 {
		limit = h.config.MaxInsights
	}

	var (
		list []models.Insight
		recs []models.Recommendation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, span := h.tracer.StartSpan(gctx, observability.SpanInsights)
		defer span.End()
		list = h.generator.Generate(result.CategoryScores, rules.Context(profile.Context()), limit, lang)
		return nil
	})
	g.Go(func() error {
		sctx, span := h.tracer.StartSpan(gctx, observability.SpanRecommend)
		defer span.End()
		var err error
		recs, err = h.recommender.Recommend(sctx, result.Ordered(), profile.Nationality, profile.Gender, profile.Children)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.NewProductLookupFailedError(err)
	}
	if list == nil {
		list = []models.Insight{}
	}
	if recs == nil {
		recs = []models.Recommendation{}
	}

	output := &Output{
		AssessmentID:      uuid.NewString(),
		Variant:           variant,
		Language:          lang,
		TotalScore:        result.TotalScore,
		StatusBand:        result.StatusBand,
		CategoryScores:    result.CategoryScores,
		Insights:          list,
		Products:          recs,
		QuestionsAnswered: result.QuestionsAnswered,
		TotalQuestions:    result.TotalQuestions,
		CompletedAt:       h.now().UTC(),
	}
	if variant == models.VariantLegacy {
		output.RiskTolerance = scoring.RiskTolerance(answers)
	}

	if h.schemas != nil {
		if res := h.schemas.ValidateOutput(TaskType, output); !res.Valid {
			msgs := res.GetErrorMessages()
			h.logger.Error("assessment result violates output schema", map[string]interface{}{
				"errors": msgs,
			})
			return nil, apperrors.NewResultSchemaViolationError(strings.Join(msgs, "; "))
		}
	}

	metrics.AssessmentScores.WithLabelValues(string(variant)).Observe(result.TotalScore)
	metrics.AssessmentStatusBands.WithLabelValues(string(variant), result.StatusBand).Inc()
	metrics.ProductRecommendations.Observe(float64(len(recs)))

	h.logger.Info("assessment result calculated", map[string]interface{}{
		"assessmentId": output.AssessmentID,
		"variant":      variant,
		"totalScore":   result.TotalScore,
		"statusBand":   result.StatusBand,
		"insights":     len(list),
		"products":     len(recs),
	})

	return output, nil
}

func (h *Handler) validate(ctx context.Context, c *catalog.Catalog, input *Input) error {
	_, span := h.tracer.StartSpan(ctx, observability.SpanValidate,
		attribute.String("variant", string(c.Variant())),
		attribute.Int("answers", len(input.Answers)),
	)
	defer span.End()

	res := validator.New(c).Validate(input.Answers, input.Profile.Children)
	if res.Valid {
		return nil
	}
	span.SetStatus(codes.Error, "answers rejected")
	metrics.AssessmentValidationFailures.WithLabelValues(string(c.Variant())).Inc()
	return apperrors.NewAnswersValidationFailedError(res.Errors)
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
