// cmd/tools/migrate/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/assessment/products"
	"financial-clinic-workers/internal/assessment/scoring"
	"financial-clinic-workers/internal/common/config"
	"financial-clinic-workers/internal/common/database"
	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/common/migrations"

	getquestions "financial-clinic-workers/internal/workers/assessment/get-questions"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: configs/config.yaml lookup)")
	withIndex := flag.Bool("index", false, "Also create the Elasticsearch products index")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall timeout")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: migrate [flags] <up|down|status|flush-cache>")
		flag.PrintDefaults()
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, "console")
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if command == "flush-cache" {
		if err := runFlushCache(ctx, cfg, log); err != nil {
			log.Fatal("cache flush failed", zap.Error(err))
		}
		return
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		log.Fatal("postgres open failed", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		log.Fatal("postgres unreachable", zap.Error(err))
	}

	switch command {
	case "up":
		err = migrations.Up(ctx, pg.DB)
	case "down":
		err = migrations.Down(ctx, pg.DB)
	case "status":
		var version int64
		version, err = migrations.Version(ctx, pg.DB)
		if err == nil {
			files, _ := migrations.Files()
			log.Info("schema version", zap.Int64("version", version), zap.Int("available", len(files)))
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("migration failed", zap.String("command", command), zap.Error(err))
	}
	log.Info("migrations done", zap.String("command", command))

	if *withIndex {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			log.Fatal("elasticsearch init failed", zap.Error(err))
		}
		created, err := es.EnsureIndex(ctx, cfg.Assessment.ProductIndex, products.IndexMapping)
		if err != nil {
			log.Fatal("products index failed", zap.Error(err))
		}
		log.Info("products index ready", zap.String("index", cfg.Assessment.ProductIndex), zap.Bool("created", created))
	}
}

// runFlushCache drops cached product lists and question sets so that rows
// edited directly in Postgres are served on the next lookup.
func runFlushCache(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	catalogs, err := catalog.LoadAll()
	if err != nil {
		return err
	}
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	store := products.NewCachedStore(nil, rdb.Client, 0, logger.NewZapAdapter(log))
	removed, err := flushProductCache(ctx, store, catalogs)
	if err != nil {
		return err
	}
	questions, err := rdb.DeletePrefix(ctx, getquestions.CachePrefix)
	if err != nil {
		return err
	}
	log.Info("caches flushed", zap.Int("products", removed), zap.Int("questionSets", questions))
	return nil
}

// flushProductCache invalidates every category and status pair the
// catalogs can produce.
func flushProductCache(ctx context.Context, store *products.CachedStore, catalogs catalog.Set) (int, error) {
	removed := 0
	for _, v := range catalog.Variants() {
		c, ok := catalogs[v]
		if !ok {
			continue
		}
		category, _, err := scoring.SchemesFor(v)
		if err != nil {
			return removed, err
		}
		n, err := store.InvalidateAll(ctx, c.Categories(), category.Labels())
		removed += n
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}
