// Package main starts the deterministic intent resolution service.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/intentflow/resolver/pkg/api"
	"github.com/intentflow/resolver/pkg/apperr"
	"github.com/intentflow/resolver/pkg/config"
	"github.com/intentflow/resolver/pkg/corpus"
	"github.com/intentflow/resolver/pkg/crm"
	"github.com/intentflow/resolver/pkg/database"
	"github.com/intentflow/resolver/pkg/embedding"
	"github.com/intentflow/resolver/pkg/feedback"
	"github.com/intentflow/resolver/pkg/memory"
	"github.com/intentflow/resolver/pkg/metrics"
	"github.com/intentflow/resolver/pkg/normalize"
	"github.com/intentflow/resolver/pkg/notify"
	"github.com/intentflow/resolver/pkg/resolver"
	"github.com/intentflow/resolver/pkg/retention"
	"github.com/intentflow/resolver/pkg/review"
	"github.com/intentflow/resolver/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("could not load .env file, continuing with existing environment", "path", envPath, "error", err)
	}

	setupLogger()

	ctx := context.Background()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		slog.Error("failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	var ready atomic.Bool

	dbClient, corp, res, mgr, stats, reviewQueue, reg, redisClient, retentionSvc := mustBuildService(ctx, cfg)
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("error closing database client", "error", err)
		}
	}()
	defer redisClient.Close()

	retentionSvc.Start(ctx)
	defer retentionSvc.Stop()

	srv := api.NewServer(dbClient, res, mgr, stats, reviewQueue, reg, ready.Load)
	srv.SetRedisPing(func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})

	ready.Store(true)
	slog.Info("service ready", "version", version.Full(), "corpus_size", corp.Len())

	ln, err := net.Listen("tcp", cfg.HTTP.BindAddress)
	if err != nil {
		slog.Error("failed to bind", "address", cfg.HTTP.BindAddress, "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("shutting down gracefully")

		shutdownTimeout, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownTimeout); err != nil {
			slog.Error("error during server shutdown", "error", err)
		}
		cancel()
	}()

	slog.Info("http server listening", "address", cfg.HTTP.BindAddress)
	if err := srv.StartWithListener(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server exited with error", "error", err)
		os.Exit(1)
	}

	<-shutdownCtx.Done()
}

// setupLogger wires slog's default logger: JSON in production, text in
// development, mirroring tarsy's GIN_MODE-driven dev/prod split.
func setupLogger() {
	level := slog.LevelInfo
	if getEnv("LOG_LEVEL", "") == "debug" {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if getEnv("ENV", "production") == "development" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}

// mustBuildService wires every component of the resolution engine: corpus
// and slang map load, database connect + migrate + model-identity check,
// Redis connect, and the Resolver/Manager/Queue/Retention graph. Exits the
// process on any unrecoverable startup failure, matching tarsy's
// log.Fatalf-on-init-error convention.
func mustBuildService(ctx context.Context, cfg *config.Config) (
	*database.Client, *corpus.Corpus, *resolver.Resolver,
	*feedback.Manager, *feedback.Stats, *review.Queue, *metrics.Registry,
	*redis.Client, *retention.Service,
) {
	corpusPath := getEnv("CORPUS_FILE", filepath.Join(cfg.ConfigDir(), "intents.json"))
	corp, err := corpus.LoadFile(corpusPath)
	if err != nil {
		slog.Error("failed to load intent corpus", "path", corpusPath, "error", err)
		os.Exit(1)
	}

	slangPath := getEnv("SLANG_MAP_FILE", filepath.Join(cfg.ConfigDir(), "slang.json"))
	slangMap, err := normalize.LoadSlangMapFile(slangPath)
	if err != nil {
		slog.Warn("no slang map loaded, normalisation will pass text through unchanged", "path", slangPath, "error", err)
		slangMap = normalize.SlangMap{}
	}
	normaliser := normalize.New(slangMap)
	embedder := embedding.New(cfg.Embedder.Dimension)

	dbConfig, err := database.FromServiceConfig(
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.Database,
		cfg.Postgres.User, cfg.Postgres.PasswordEnv, cfg.Postgres.SSLMode)
	if err != nil {
		slog.Error("invalid database configuration", "error", err)
		os.Exit(1)
	}

	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to postgres and applied migrations")

	fastMemory := memory.New()
	if err := loadFastMemory(ctx, dbClient, fastMemory, cfg.Embedder, cfg.Memory.ModelMismatchPolicy); err != nil {
		slog.Error("failed to reconcile fast memory with persisted model identity", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address})
	pending := feedback.NewPendingCache(redisClient, "resolver:pending", cfg.Feedback.PendingCacheTTL)

	reviewQueue := review.New(dbClient)
	if err := reviewQueue.Load(ctx); err != nil {
		slog.Error("failed to load review queue from database", "error", err)
		os.Exit(1)
	}

	stats, err := feedback.NewStats(dbClient)
	if err != nil {
		slog.Error("failed to load learning stats", "error", err)
		os.Exit(1)
	}

	res := resolver.New(corp, normaliser, embedder, fastMemory, resolver.UUIDGenerator{}, resolver.Config{
		StageOneK:         cfg.Resolver.StageOneK,
		MemoryK:           cfg.Resolver.MemoryK,
		MemoryBoostAlpha:  cfg.Resolver.MemoryBoostAlpha,
		FallbackThreshold: cfg.Resolver.FallbackThreshold,
		CRMWeights: crm.Weights{
			AssociationHistoryBoost:   cfg.CRM.AssociationHistoryBoost,
			GoalAlignmentBoost:        cfg.CRM.GoalAlignmentBoost,
			SituationContextBoost:     cfg.CRM.SituationContextBoost,
			LinguisticIndicatorsBoost: cfg.CRM.LinguisticIndicatorsBoost,
			SemanticCapacityBoost:     cfg.CRM.SemanticCapacityBoost,
			LocationContextBoost:      cfg.CRM.LocationContextBoost,
			TemporalContextBoost:      cfg.CRM.TemporalContextBoost,
			UserProfileBoost:          cfg.CRM.UserProfileBoost,
			ProsodicFeaturesBoost:     cfg.CRM.ProsodicFeaturesBoost,
		},
	})

	mgr := feedback.New(corp, fastMemory, reviewQueue, pending, dbClient, stats)
	res.SetPendingRecorder(feedback.NewPendingCacheRecorder(pending))

	if cfg.Slack != nil && cfg.Slack.Enabled {
		notifySvc := notify.NewService(notify.ServiceConfig{
			Token:        os.Getenv(cfg.Slack.TokenEnv),
			Channel:      cfg.Slack.Channel,
			DashboardURL: cfg.Slack.DashboardURL,
		})
		mgr.SetNotifier(notifySvc)
	}

	reg := metrics.NewRegistry(prometheus.DefaultRegisterer)
	startGaugeUpdater(ctx, reg, fastMemory, reviewQueue, dbClient)

	retentionSvc := retention.NewService(retention.Config{
		FastMemoryCap: cfg.Memory.EvictionCap,
		SweepInterval: cfg.Retention.SweepInterval,
	}, fastMemory)

	return dbClient, corp, res, mgr, stats, reviewQueue, reg, redisClient, retentionSvc
}

// loadFastMemory replays persisted golden records into Fast Memory,
// applying the MemoryModelMismatch policy (spec.md §4.7, §7) when the
// persisted embedder model identity doesn't match the one running now.
func loadFastMemory(ctx context.Context, dbClient *database.Client, fastMemory *memory.Store, embedderCfg config.EmbedderConfig, policy string) error {
	persisted, found, err := dbClient.LoadModelIdentity(ctx)
	if err != nil {
		return err
	}

	mismatch := found && (persisted.ModelID != embedderCfg.ModelID || persisted.Dimension != embedderCfg.Dimension)

	if mismatch {
		slog.Warn("embedder model identity mismatch",
			"persisted_model", persisted.ModelID, "persisted_dimension", persisted.Dimension,
			"current_model", embedderCfg.ModelID, "current_dimension", embedderCfg.Dimension,
			"policy", policy)

		if policy != "clear" {
			return apperr.New(apperr.KindMemoryModelMismatch,
				"persisted embedder model identity ("+persisted.ModelID+
					") does not match the running embedder ("+embedderCfg.ModelID+"); refusing to start under fail_fast policy")
		}

		if err := dbClient.ClearGoldenRecords(ctx); err != nil {
			return err
		}
	} else {
		records, err := dbClient.ListGoldenRecords(ctx)
		if err != nil {
			return err
		}
		fastMemory.Restore(records)
	}

	return dbClient.SaveModelIdentity(ctx, database.ModelIdentity{
		ModelID:   embedderCfg.ModelID,
		Dimension: embedderCfg.Dimension,
	})
}

// startGaugeUpdater periodically refreshes the gauges that have no natural
// write-time hook (fast memory size, review queue depth, breaker state),
// following the same ticker-driven pattern pkg/retention uses for eviction.
func startGaugeUpdater(ctx context.Context, reg *metrics.Registry, fastMemory *memory.Store, reviewQueue *review.Queue, dbClient *database.Client) {
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				reg.FastMemorySize.Set(float64(fastMemory.Count()))
				reg.ReviewQueuePending.Set(float64(len(reviewQueue.ListPending())))
				reg.CircuitBreakerState.Set(float64(dbClient.BreakerState()))
			}
		}
	}()
}

