package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/meshopt-cloud.net/internal/adapter/automation"
	"gitlab.com/meshopt-cloud.net/internal/adapter/crypto"
	"gitlab.com/meshopt-cloud.net/internal/adapter/objectstore"
	"gitlab.com/meshopt-cloud.net/internal/adapter/postgres/jobrepository"
	"gitlab.com/meshopt-cloud.net/internal/adapter/redis/resultcache"
	"gitlab.com/meshopt-cloud.net/internal/adapter/report"
	"gitlab.com/meshopt-cloud.net/internal/adapter/token"
	"gitlab.com/meshopt-cloud.net/internal/config"
	"gitlab.com/meshopt-cloud.net/internal/core/services/catalog"
	"gitlab.com/meshopt-cloud.net/internal/core/services/notification"
	"gitlab.com/meshopt-cloud.net/internal/core/services/submission"
	logger2 "gitlab.com/meshopt-cloud.net/internal/global/logger"
	http2 "gitlab.com/meshopt-cloud.net/internal/http"
	"gitlab.com/meshopt-cloud.net/internal/sweeper"
	"gitlab.com/meshopt-cloud.net/internal/ws"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting mesh optimization service")

	logger := logger2.Logger

	sysCfg := config.NewSystemConfig()
	if !sysCfg.CredentialConfig.Valid() {
		logger.Error("Missing CLIENT_ID or CLIENT_SECRET env. variables.")
		os.Exit(1)
	}

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		panic(err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})

	// SECONDARY PORTS
	tokens := token.NewSource(sysCfg.CredentialConfig)
	automationClient := automation.NewClient(sysCfg.AutomationConfig.BaseURL, tokens, logger)
	store := objectstore.NewClient(sysCfg.AutomationConfig.ObjectStoreURL, tokens, logger)
	reports := report.NewFetcher()
	jobRepo := jobrepository.NewJobRepository(db, logger)
	cache := resultcache.NewResultCache(redisClient, logger)

	// primary ports
	signer, err := crypto.NewCallbackSigner(sysCfg.CredentialConfig.ClientSecret)
	if err != nil {
		panic(err)
	}

	// push channel
	hub := ws.NewHub()

	// services
	catalogSvc := catalog.NewCatalogService(automationClient, logger, sysCfg.AutomationConfig)
	submissionSvc := submission.NewSubmissionService(
		automationClient, store, tokens, jobRepo, signer, logger,
		sysCfg.AutomationConfig, sysCfg.CredentialConfig.WebhookURL)
	notificationSvc := notification.NewNotificationService(
		store, reports, jobRepo, cache, signer, hub, logger, sysCfg.AutomationConfig)
	serviceProvider := http2.NewServiceProvider(catalogSvc, submissionSvc, notificationSvc, jobRepo)

	// server
	httServer := http2.NewServer(3000, "meshOptimization", *serviceProvider, hub, logger)
	err = httServer.Init()
	if err != nil {
		panic(err)
	}
	ctxBg, stopBg := context.WithCancel(context.Background())
	httServer.Start(ctxBg)

	sweepEngine := sweeper.NewEngine(sysCfg.SweepConfig, jobRepo, hub, logger)
	if !sysCfg.DebugMode {
		sweepEngine.Start(ctxBg)
	}

	<-quit
	logger.Info("Shutting down server...")

	stopBg()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httServer.Stop(ctx)
	db.Close()
	redisClient.Close()

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
