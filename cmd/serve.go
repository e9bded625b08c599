package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/urfave/cli/v3"

	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/crypto"
	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/isolation/docker"
	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/isolation/localproc"
	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/metrics"
	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/postgres/questionrepository"
	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/postgres/scorerepository"
	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/postgres/submissionrepository"
	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/redis/casecache"
	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/sandbox"
	"gitlab.com/fcv-2025.net/codejudge/internal/config"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/services/judge"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/services/language"
	logger2 "gitlab.com/fcv-2025.net/codejudge/internal/global/logger"
	"gitlab.com/fcv-2025.net/codejudge/internal/handlers/ratelimit"
	http2 "gitlab.com/fcv-2025.net/codejudge/internal/http"
	"gitlab.com/fcv-2025.net/codejudge/internal/schedulerengine"
)

const (
	serviceName       = "codejudge"
	shutdownTimeout   = 30 * time.Second
	limiterIdleWindow = 10 * time.Minute
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start the judge HTTP service",
		Flags: []cli.Flag{envFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := loadEnv(cmd.String("env")); err != nil {
				return err
			}
			return serve(ctx, config.NewSystemConfig())
		},
	}
}

func serve(ctx context.Context, sysCfg *config.AppConfig) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger2.Configure(sysCfg.DebugMode)
	logger := logger2.Logger
	defer func() { _ = logger.Sync() }()
	logger.Info("Starting judge service", "backend", sysCfg.JudgeConfig.IsolationBackend)

	db, err := setupDatabase(ctx, sysCfg.PostgresConfig)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := setupRedis(sysCfg.RedisConfig)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, test cases will be read from postgres", "error", err)
	}

	registry, err := setupLanguages(sysCfg.JudgeConfig)
	if err != nil {
		return err
	}

	// SECONDARY PORTS
	scoreRepo := scorerepository.NewScoreRepository(db, logger, sysCfg.PostgresConfig.Schema)
	submissionRepo := submissionrepository.NewSubmissionRepository(db, logger, sysCfg.PostgresConfig.Schema)
	if err := scoreRepo.EnsureTableExists(ctx); err != nil {
		return err
	}
	if err := submissionRepo.EnsureTableExists(ctx); err != nil {
		return err
	}
	caseCache, err := casecache.NewCaseCache(
		redisClient,
		questionrepository.NewQuestionRepository(db, logger, sysCfg.PostgresConfig.Schema),
		sysCfg.RedisConfig.CaseCacheTTL,
		logger,
	)
	if err != nil {
		return err
	}

	isolator, closeIsolator, err := setupIsolator(ctx, sysCfg.JudgeConfig, registry, logger)
	if err != nil {
		return err
	}
	defer closeIsolator()
	executor := sandbox.NewExecutor(isolator, sandboxConfig(sysCfg.JudgeConfig), logger)
	schedulerengine.NewSchedulerEngine(sysCfg.JudgeConfig, executor, logger).StartMaintenanceEngine(ctx)

	//services
	judgeSvc := judge.NewJudgeService(
		registry,
		executor,
		caseCache,
		scoreRepo,
		submissionRepo,
		metrics.Recorder{},
		logger,
		sysCfg.JudgeConfig.CaseTimeout,
	)

	//primary ports
	tokens := crypto.NewJWTService(sysCfg.JwtConfig.Secret)
	limiter := ratelimit.NewRateLimiter(ratelimit.Config{
		GlobalRPS:         sysCfg.HttpConfig.RateLimitRPS,
		PerClientRPS:      sysCfg.HttpConfig.RateLimitPerClientRPS,
		Burst:             sysCfg.HttpConfig.RateLimitBurst,
		MaxConcurrent:     sysCfg.HttpConfig.MaxConcurrentEvals,
		TrustForwardedFor: sysCfg.HttpConfig.TrustProxyHeaders,
	})
	limiter.StartCleanup(ctx, limiterIdleWindow)

	serviceProvider := http2.NewServiceProvider(judgeSvc, registry, submissionRepo, tokens, limiter)

	//server
	httpServer := http2.NewServer(sysCfg.HttpConfig.Port, serviceName, *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		return err
	}
	httpServer.Start()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	httpServer.Stop(shutdownCtx)

	logger.Info("successfully shutdown server")
	return nil
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(ctx context.Context, cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	return db, nil
}

// setupRedis sets up the Redis connection
func setupRedis(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Url,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func setupLanguages(cfg *config.JudgeConfig) (*language.Registry, error) {
	profiles, err := config.LoadLanguageProfiles(cfg.LanguagesFile)
	if err != nil {
		return nil, err
	}
	return language.NewRegistry(profiles)
}

func sandboxConfig(cfg *config.JudgeConfig) sandbox.Config {
	return sandbox.Config{
		WorkspaceRoot: cfg.WorkspaceRoot,
		Limits: secondary.Limits{
			MemoryBytes:    cfg.MemoryLimitBytes,
			PidsLimit:      cfg.PidsLimit,
			MaxOutputBytes: cfg.MaxOutputBytes,
		},
	}
}

// setupIsolator builds the configured isolation backend. The returned func
// releases it.
func setupIsolator(ctx context.Context, cfg *config.JudgeConfig, registry language.ILanguageRegistry, logger primary.Logger) (secondary.Isolator, func(), error) {
	if cfg.IsolationBackend == config.BackendLocal {
		logger.Warn("Using local process isolation, submissions run unconfined on this host")
		return localproc.NewIsolator(logger), func() {}, nil
	}

	isolator, err := docker.NewIsolator(docker.Config{
		LocalRoot: cfg.WorkspaceRoot,
		HostRoot:  cfg.WorkspaceHostRoot,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	release := func() { _ = isolator.Close() }

	if err := isolator.Ping(ctx); err != nil {
		release()
		return nil, nil, fmt.Errorf("docker daemon unavailable: %w", err)
	}
	if cfg.PullImages {
		if err := isolator.EnsureImages(ctx, registry.Images()); err != nil {
			release()
			return nil, nil, err
		}
	}
	return isolator, release, nil
}
