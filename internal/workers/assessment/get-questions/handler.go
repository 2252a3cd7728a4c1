// internal/workers/assessment/get-questions/handler.go
package getquestions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/assessment/rules"
	"financial-clinic-workers/internal/common/database"
	apperrors "financial-clinic-workers/internal/common/errors"
	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/models"
)

const (
	TaskType = "get-assessment-questions"
)

type Handler struct {
	config     *Config
	catalogs   catalog.Set
	repo       Repository
	compiler   *rules.Compiler
	redis      redis.Cmdable
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

// NewHandler wires the question resolver. repo and redisClient may be nil,
// in which case only the catalog questions are served and nothing is cached.
func NewHandler(config *Config, catalogs catalog.Set, repo Repository, compiler *rules.Compiler, redisClient redis.Cmdable, log logger.Logger) *Handler {
	if compiler == nil {
		compiler, _ = rules.NewCompiler(rules.DefaultCacheSize)
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		catalogs:   catalogs,
		repo:       repo,
		compiler:   compiler,
		redis:      redisClient,
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

// CachePrefix starts every resolved question set key.
const CachePrefix = "questions:"

// CacheKey names the resolved question set for one profile segment.
func CacheKey(variant models.Variant, lang models.Language, companyID, profileHash string) string {
	if companyID == "" {
		companyID = "default"
	}
	return fmt.Sprintf("%s%s:%s:%s:%s", CachePrefix, variant, lang, companyID, profileHash)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	c, err := h.catalogs.Get(input.Variant, h.config.DefaultVariant)
	if err != nil {
		return nil, apperrors.NewUnknownVariantError(string(input.Variant))
	}
	lang := input.Language
	if lang != models.LanguageEnglish && lang != models.LanguageArabic {
		lang = h.config.DefaultLanguage
	}
	companyID := input.CompanyID
	if companyID == "" {
		companyID = input.Profile.CompanyID
	}

	profileCtx := rules.Context(input.Profile.Context())
	if companyID != "" {
		profileCtx["company_id"] = companyID
	}
	hash := rules.ProfileHash(profileCtx)
	key := CacheKey(c.Variant(), lang, companyID, hash)

	if cached, ok := h.fromCache(ctx, key); ok {
		return cached, nil
	}

	base := c.QuestionsForProfile(input.Profile.Children)
	baseIDs := make([]string, len(base))
	for i, q := range base {
		baseIDs[i] = q.ID
	}

	demographicRules, variations, err := h.load(ctx, lang, companyID)
	if err != nil {
		return nil, err
	}

	sel := h.compiler.SelectQuestions(demographicRules, profileCtx, baseIDs)

	byBase := make(map[string][]models.QuestionVariation)
	for _, v := range variations {
		byBase[v.BaseQuestionID] = append(byBase[v.BaseQuestionID], v)
	}

	output := &Output{
		Variant:           c.Variant(),
		Language:          lang,
		Questions:         make([]models.LocalizedQuestion, 0, len(sel.Selected)),
		ProfileHash:       sel.ProfileHash,
		AppliedRules:      sel.AppliedRules,
		ExcludedQuestions: sel.Excluded,
		AddedQuestions:    sel.Added,
		VariationsApplied: []AppliedVariation{},
	}

	for _, id := range sel.Selected {
		q, ok := c.Question(id)
		if !ok {
			h.logger.Warn("rule added unknown question", map[string]interface{}{
				"questionId": id,
			})
			continue
		}
		lq := q.Localized(lang)

		if v, matched, ok := h.compiler.SelectVariation(byBase[id], profileCtx); ok {
			applyVariation(&lq, v, lang)
			output.VariationsApplied = append(output.VariationsApplied, AppliedVariation{
				QuestionID:        id,
				VariationID:       v.ID,
				Name:              v.Name,
				Matched:           matched,
				ScoringAdjustment: v.ScoringAdjustment,
			})
			if v.ScoringAdjustment != 0 {
				if output.ScoringAdjustments == nil {
					output.ScoringAdjustments = make(map[string]float64)
				}
				output.ScoringAdjustments[id] = v.ScoringAdjustment
			}
		}
		output.Questions = append(output.Questions, lq)
	}
	output.TotalQuestions = len(output.Questions)

	h.logger.Info("questions resolved", map[string]interface{}{
		"variant":      c.Variant(),
		"language":     lang,
		"questions":    output.TotalQuestions,
		"rulesApplied": len(sel.AppliedRules),
		"variations":   len(output.VariationsApplied),
	})

	h.toCache(ctx, key, output)
	return output, nil
}

// load treats missing variation tables as an empty rule set so a fresh
// database still serves the catalog.
func (h *Handler) load(ctx context.Context, lang models.Language, companyID string) ([]models.DemographicRule, []models.QuestionVariation, error) {
	if h.repo == nil {
		return nil, nil, nil
	}

	demographicRules, err := h.repo.ActiveRules(ctx, companyID)
	if err != nil && !database.IsUndefinedTable(err) {
		return nil, nil, h.lookupError(ctx, err)
	}
	variations, err := h.repo.ActiveVariations(ctx, lang, companyID)
	if err != nil && !database.IsUndefinedTable(err) {
		return nil, nil, h.lookupError(ctx, err)
	}
	return demographicRules, variations, nil
}

func (h *Handler) lookupError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.NewQueryTimeoutError("question_variations")
	}
	return apperrors.NewVariationLookupFailedError(err)
}

func applyVariation(q *models.LocalizedQuestion, v models.QuestionVariation, lang models.Language) {
	if v.Text != "" {
		q.Text = v.Text
	}
	if len(v.Options) > 0 {
		opts := make([]models.LocalizedOption, len(v.Options))
		for i, o := range v.Options {
			opts[i] = models.LocalizedOption{Value: o.Value, Label: o.Label.In(lang)}
		}
		q.Options = opts
	}
	q.VariationID = v.ID
}

func (h *Handler) fromCache(ctx context.Context, key string) (*Output, bool) {
	if h.redis == nil {
		return nil, false
	}
	val, err := h.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.Warn("question cache read failed", map[string]interface{}{
				"key":   key,
				"error": err,
			})
		}
		return nil, false
	}
	var out Output
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, false
	}
	out.Cached = true
	return &out, true
}

func (h *Handler) toCache(ctx context.Context, key string, output *Output) {
	if h.redis == nil {
		return
	}
	data, err := json.Marshal(output)
	if err != nil {
		return
	}
	ttl := h.config.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if err := h.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		h.logger.Warn("question cache write failed", map[string]interface{}{
			"key":   key,
			"error": err,
		})
	}
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
