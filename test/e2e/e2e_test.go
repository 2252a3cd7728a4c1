// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/assessment/insights"
	"financial-clinic-workers/internal/assessment/products"
	"financial-clinic-workers/internal/assessment/rules"
	"financial-clinic-workers/internal/assessment/scoring"
	"financial-clinic-workers/internal/common/config"
	"financial-clinic-workers/internal/common/database"
	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/common/migrations"
	"financial-clinic-workers/internal/common/observability"
	"financial-clinic-workers/internal/common/validation"
	"financial-clinic-workers/internal/models"

	calculateresult "financial-clinic-workers/internal/workers/assessment/calculate-result"
	getquestions "financial-clinic-workers/internal/workers/assessment/get-questions"
	validateanswers "financial-clinic-workers/internal/workers/assessment/validate-answers"
)

const productPrefix = "e2e-"

var zeebeClient zbc.Client

// TestMain runs the suite only when E2E is set, against the services from
// docker compose or the environment.
func TestMain(m *testing.M) {
	if os.Getenv("E2E") == "" {
		fmt.Println("skipping e2e tests: set E2E=1 to run against live services")
		os.Exit(0)
	}

	gateway := os.Getenv("ZEEBE_ADDRESS")
	if gateway == "" {
		gateway = "localhost:26500"
	}

	var err error
	zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         gateway,
		UsePlaintextConnection: true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect to Zeebe: %v", err))
	}

	code := m.Run()

	zeebeClient.Close()
	os.Exit(code)
}

type services struct {
	cfg *config.Config
	pg  *database.PostgresClient
	rdb *database.RedisClient
}

func TestFullE2E(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)

	svc := connect(t, ctx, cfg)
	prepareDatabase(t, ctx, svc.pg.GetDB())
	deployBPMN(t, ctx)

	t.Run("assessment-pipeline", func(t *testing.T) {
		testAssessmentPipeline(t, ctx, svc)
	})
	t.Run("question-cache", func(t *testing.T) {
		testQuestionCache(t, ctx, svc)
	})
}

// ==========================
// 1. Connectivity
// ==========================

func connect(t *testing.T, ctx context.Context, cfg *config.Config) *services {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "PostgreSQL connection failed")
	t.Cleanup(func() { pg.Close() })
	require.NoError(t, pg.Ping(ctx), "PostgreSQL ping failed")

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err, "Redis client creation failed")
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(ctx), "Redis ping failed")

	if cfg.Assessment.ProductSource == config.ProductSourceElasticsearch {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		require.NoError(t, err, "Elasticsearch client creation failed")
		require.NoError(t, es.Ping(ctx), "Elasticsearch ping failed")
	}

	_, err = zeebeClient.NewTopologyCommand().Send(ctx)
	require.NoError(t, err, "Zeebe topology request failed")

	return &services{cfg: cfg, pg: pg, rdb: rdb}
}

// ==========================
// 2. Schema + Test Data
// ==========================

func prepareDatabase(t *testing.T, ctx context.Context, db *sql.DB) {
	require.NoError(t, migrations.Up(ctx, db))

	_, err := db.ExecContext(ctx, `DELETE FROM products WHERE name LIKE $1`, productPrefix+"%")
	require.NoError(t, err)

	c := catalog.MustLoad(models.VariantFinancialClinic)
	for i, category := range c.Categories() {
		_, err := db.ExecContext(ctx,
			`INSERT INTO products (name, category, status_level, description, priority, active)
			 VALUES ($1, $2, $3, $4, $5, true)`,
			fmt.Sprintf("%s%d", productPrefix, i), string(category), scoring.StatusAtRisk,
			"seeded by the e2e suite", i+1,
		)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		db.ExecContext(context.Background(), `DELETE FROM products WHERE name LIKE $1`, productPrefix+"%")
	})
}

// ==========================
// 3. BPMN Deployment
// ==========================

func deployBPMN(t *testing.T, ctx context.Context) {
	var dir string
	for _, p := range []string{"bpmn", "../bpmn", "../../bpmn"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			dir = p
			break
		}
	}
	if dir == "" {
		t.Log("no bpmn directory found, skipping deployment")
		return
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".bpmn") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		_, err := zeebeClient.NewDeployResourceCommand().AddResourceFile(path).Send(ctx)
		assert.NoError(t, err, "deploy %s", path)
	}
}

// ==========================
// 4. Worker Scenarios
// ==========================

func testAssessmentPipeline(t *testing.T, ctx context.Context, svc *services) {
	log := logger.NewTestLogger(t)
	catalogs, err := catalog.LoadAll()
	require.NoError(t, err)
	compiler, err := rules.NewCompiler(16)
	require.NoError(t, err)
	schemas, err := validation.DefaultSchemaSet()
	require.NoError(t, err)
	generator, err := insights.New()
	require.NoError(t, err)

	store := products.NewCachedStore(products.NewPostgresStore(svc.pg.GetDB()), svc.rdb.Client, time.Minute, log)
	recommender := products.NewRecommender(store)
	tracer := observability.NewTracerWithProvider(sdktrace.NewTracerProvider())

	profile := models.Profile{Nationality: "Emirati", Gender: "Female", Children: 0}

	questions := getquestions.NewHandler(&getquestions.Config{
		Timeout:         10 * time.Second,
		DefaultVariant:  models.VariantFinancialClinic,
		DefaultLanguage: models.LanguageEnglish,
		CacheTTL:        time.Minute,
	}, catalogs, getquestions.NewPostgresRepository(svc.pg.GetDB()), compiler, svc.rdb.Client, log)

	qOut, err := questions.Execute(ctx, &getquestions.Input{Profile: profile})
	require.NoError(t, err)
	require.Equal(t, 14, qOut.TotalQuestions)

	answers := models.AnswerSet{}
	for _, q := range qOut.Questions {
		answers[q.ID] = 2
	}

	validator := validateanswers.NewHandler(&validateanswers.Config{
		Timeout:        10 * time.Second,
		DefaultVariant: models.VariantFinancialClinic,
	}, catalogs, schemas, log)

	vOut, err := validator.Execute(ctx, &validateanswers.Input{Answers: answers, Profile: profile})
	require.NoError(t, err)
	assert.True(t, vOut.Valid)

	result := calculateresult.NewHandler(&calculateresult.Config{
		Timeout:         15 * time.Second,
		DefaultVariant:  models.VariantFinancialClinic,
		DefaultLanguage: models.LanguageEnglish,
		MaxInsights:     5,
	}, catalogs, generator, recommender, schemas, tracer, log)

	rOut, err := result.Execute(ctx, &calculateresult.Input{
		Answers:            answers,
		Profile:            profile,
		ScoringAdjustments: qOut.ScoringAdjustments,
	})
	require.NoError(t, err)

	assert.Equal(t, 40.0, rOut.TotalScore)
	assert.Equal(t, scoring.BandNeedsImmediateAttention, rOut.StatusBand)
	assert.NotEmpty(t, rOut.AssessmentID)
	assert.NotEmpty(t, rOut.Insights)
	require.NotEmpty(t, rOut.Products)
	for _, p := range rOut.Products {
		assert.True(t, strings.HasPrefix(p.Name, productPrefix), p.Name)
		assert.Equal(t, scoring.StatusAtRisk, p.StatusLevel)
	}
}

func testQuestionCache(t *testing.T, ctx context.Context, svc *services) {
	log := logger.NewTestLogger(t)
	catalogs, err := catalog.LoadAll()
	require.NoError(t, err)
	compiler, err := rules.NewCompiler(16)
	require.NoError(t, err)

	var client redis.Cmdable = svc.rdb.Client
	h := getquestions.NewHandler(&getquestions.Config{
		Timeout:         10 * time.Second,
		DefaultVariant:  models.VariantFinancialClinic,
		DefaultLanguage: models.LanguageArabic,
		CacheTTL:        time.Minute,
	}, catalogs, getquestions.NewPostgresRepository(svc.pg.GetDB()), compiler, client, log)

	input := &getquestions.Input{
		Profile:   models.Profile{Nationality: "Expat", Children: 2},
		CompanyID: fmt.Sprintf("e2e-%d", time.Now().UnixNano()),
	}

	first, err := h.Execute(ctx, input)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 15, first.TotalQuestions)

	second, err := h.Execute(ctx, input)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.ProfileHash, second.ProfileHash)
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkScoring_FinancialClinic(b *testing.B) {
	c := catalog.MustLoad(models.VariantFinancialClinic)
	engine := scoring.New(c)
	answers := models.AnswerSet{}
	for _, q := range c.QuestionsForProfile(1) {
		answers[q.ID] = 3
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Score(answers, 1)
	}
}

func BenchmarkHandler_CalculateResult(b *testing.B) {
	cfg, _ := config.Load()
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		b.Skip(err)
	}
	defer pg.Close()

	catalogs, _ := catalog.LoadAll()
	generator, _ := insights.New()
	h := calculateresult.NewHandler(&calculateresult.Config{
		Timeout:         15 * time.Second,
		DefaultVariant:  models.VariantFinancialClinic,
		DefaultLanguage: models.LanguageEnglish,
		MaxInsights:     5,
	}, catalogs, generator, products.NewRecommender(products.NewPostgresStore(pg.GetDB())), nil,
		observability.NewTracerWithProvider(sdktrace.NewTracerProvider()), logger.NewNoOpLogger())

	answers := models.AnswerSet{}
	for _, q := range catalogs[models.VariantFinancialClinic].QuestionsForProfile(0) {
		answers[q.ID] = 4
	}
	input := &calculateresult.Input{Answers: answers}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Execute(context.Background(), input)
	}
}
