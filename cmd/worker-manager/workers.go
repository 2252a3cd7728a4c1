// cmd/worker-manager/workers.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/assessment/insights"
	"financial-clinic-workers/internal/assessment/products"
	"financial-clinic-workers/internal/assessment/rules"
	"financial-clinic-workers/internal/assessment/scoring"
	"financial-clinic-workers/internal/common/aws"
	"financial-clinic-workers/internal/common/camunda"
	"financial-clinic-workers/internal/common/config"
	"financial-clinic-workers/internal/common/database"
	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/common/metrics"
	"financial-clinic-workers/internal/common/observability"
	"financial-clinic-workers/internal/common/validation"
	"financial-clinic-workers/internal/models"

	cr "financial-clinic-workers/internal/workers/assessment/calculate-result"
	cs "financial-clinic-workers/internal/workers/assessment/calculate-score"
	gi "financial-clinic-workers/internal/workers/assessment/generate-insights"
	gq "financial-clinic-workers/internal/workers/assessment/get-questions"
	lr "financial-clinic-workers/internal/workers/assessment/lint-rule"
	pr "financial-clinic-workers/internal/workers/assessment/publish-result"
	rp "financial-clinic-workers/internal/workers/assessment/recommend-products"
	va "financial-clinic-workers/internal/workers/assessment/validate-answers"
)

// dependencies are shared by every worker.
type dependencies struct {
	catalogs    catalog.Set
	compiler    *rules.Compiler
	generator   *insights.Generator
	recommender *products.Recommender
	schemas     *validation.SchemaSet
	repo        gq.Repository
	redis       *database.RedisClient
	publisher   pr.Publisher
	tracer      *observability.Tracer
}

func buildDependencies(
	ctx context.Context,
	cfg *config.Config,
	pg *database.PostgresClient,
	rdb *database.RedisClient,
	es *database.ElasticsearchClient,
	tracer *observability.Tracer,
	log logger.Logger,
) (*dependencies, error) {
	a := cfg.Assessment

	catalogs, err := catalog.LoadAll()
	if err != nil {
		return nil, err
	}
	if a.CatalogFile != "" {
		c, err := catalog.LoadFile(a.CatalogFile)
		if err != nil {
			return nil, err
		}
		catalogs[c.Variant()] = c
		log.Info("custom catalog loaded", map[string]interface{}{
			"variant": c.Variant(),
			"file":    a.CatalogFile,
		})
	}

	initBandSeries(catalogs)

	compiler, err := rules.NewCompiler(a.RuleCacheSize)
	if err != nil {
		return nil, fmt.Errorf("rule compiler: %w", err)
	}
	generator, err := insights.New(insights.WithDefaultMax(a.MaxInsights))
	if err != nil {
		return nil, fmt.Errorf("insight matrix: %w", err)
	}
	schemas, err := validation.DefaultSchemaSet()
	if err != nil {
		return nil, fmt.Errorf("activity schemas: %w", err)
	}

	var store products.Store = products.NewPostgresStore(pg.DB)
	if a.ProductSource == config.ProductSourceElasticsearch {
		if _, err := es.EnsureIndex(ctx, a.ProductIndex, products.IndexMapping); err != nil {
			return nil, fmt.Errorf("product index: %w", err)
		}
		store = products.NewSearchStore(es.Client, a.ProductIndex)
	}
	store = products.NewCachedStore(store, rdb.Client, config.GetDuration(a.ProductCacheTTL), log)

	deps := &dependencies{
		catalogs:    catalogs,
		compiler:    compiler,
		generator:   generator,
		recommender: products.NewRecommender(store, products.WithMax(a.MaxRecommendations)),
		schemas:     schemas,
		repo:        gq.NewPostgresRepository(pg.DB),
		redis:       rdb,
		tracer:      tracer,
	}

	sns := cfg.Integrations.AWS.SNS
	if sns.Enabled {
		client, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region, sns.TopicARN)
		if err != nil {
			return nil, fmt.Errorf("sns client: %w", err)
		}
		deps.publisher = client
	}
	return deps, nil
}

// initBandSeries exports a zero count for every overall band of the
// loaded variants.
func initBandSeries(catalogs catalog.Set) {
	for variant := range catalogs {
		_, overall, err := scoring.SchemesFor(variant)
		if err != nil {
			continue
		}
		metrics.InitStatusBands(string(variant), overall.Labels())
	}
}

// registerWorkers opens one job worker per enabled task type.
func registerWorkers(zeebe *camunda.Client, cfg *config.Config, deps *dependencies, obs *observability.Observability, log logger.Logger) []*camunda.Worker {
	a := cfg.Assessment
	variant := models.Variant(a.Variant)
	lang := models.Language(a.DefaultLanguage)

	var started []*camunda.Worker
	open := func(taskType string, handler workerHandler) {
		if !config.IsWorkerEnabled(cfg, taskType) {
			log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
			return
		}
		wcfg := config.GetWorkerConfig(cfg, taskType)
		started = append(started, camunda.NewWorker(zeebe.GetClient(), camunda.WorkerConfig{
			TaskType:      taskType,
			Name:          cfg.App.Name,
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
		}, handler.Handle, obs, log))
	}
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	open(gq.TaskType, gq.NewHandler(&gq.Config{
		Timeout:         timeout(gq.TaskType),
		DefaultVariant:  variant,
		DefaultLanguage: lang,
		CacheTTL:        config.GetDuration(a.QuestionCacheTTL),
	}, deps.catalogs, deps.repo, deps.compiler, deps.redis.Client, log))

	open(va.TaskType, va.NewHandler(&va.Config{
		Timeout:        timeout(va.TaskType),
		DefaultVariant: variant,
	}, deps.catalogs, deps.schemas, log))

	open(cs.TaskType, cs.NewHandler(&cs.Config{
		Timeout:        timeout(cs.TaskType),
		DefaultVariant: variant,
	}, deps.catalogs, log))

	open(gi.TaskType, gi.NewHandler(&gi.Config{
		Timeout:         timeout(gi.TaskType),
		DefaultVariant:  variant,
		DefaultLanguage: lang,
		MaxInsights:     a.MaxInsights,
	}, deps.generator, log))

	open(rp.TaskType, rp.NewHandler(&rp.Config{
		Timeout:        timeout(rp.TaskType),
		DefaultVariant: variant,
	}, deps.catalogs, deps.recommender, log))

	open(cr.TaskType, cr.NewHandler(&cr.Config{
		Timeout:         timeout(cr.TaskType),
		DefaultVariant:  variant,
		DefaultLanguage: lang,
		MaxInsights:     a.MaxInsights,
	}, deps.catalogs, deps.generator, deps.recommender, deps.schemas, deps.tracer, log))

	open(lr.TaskType, lr.NewHandler(&lr.Config{
		Timeout:        timeout(lr.TaskType),
		DefaultVariant: variant,
	}, deps.catalogs, log))

	publishCfg := pr.LoadConfig()
	publishCfg.Timeout = timeout(pr.TaskType)
	publishCfg.Enabled = cfg.Integrations.AWS.SNS.Enabled
	if cfg.App.Name != "" {
		publishCfg.Source = cfg.App.Name
	}
	open(pr.TaskType, pr.NewHandler(publishCfg, deps.publisher, deps.tracer, log))

	return started
}

type workerHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}
