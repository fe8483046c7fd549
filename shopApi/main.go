package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"gitlab.connectwisedev.com/serverless-shop/pkg/cache"
	"gitlab.connectwisedev.com/serverless-shop/pkg/config"
	"gitlab.connectwisedev.com/serverless-shop/pkg/database"
	"gitlab.connectwisedev.com/serverless-shop/pkg/logging"
	"gitlab.connectwisedev.com/serverless-shop/pkg/shopapi"
)

var (
	dbClient    *database.DBClient
	redisClient *cache.RedisClient
	handler     *shopapi.Handler
	flushLogs   func()
)

func init() {
	if _, err := config.LoadEnv(); err != nil {
		log.Printf("Warning: %v. Assuming environment variables are set.", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	flushLogs, err = logging.Init(logging.Options{Development: cfg.IsLocal(), Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	dbClient, err = database.NewPostgresClient(cfg.Database)
	if err != nil {
		zap.S().Fatalf("Failed to initialize DB client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := dbClient.EnsureSchema(ctx); err != nil {
		zap.S().Fatalf("Failed to apply schema: %v", err)
	}

	// the API still serves from PostgreSQL when Redis is unavailable
	var productCache shopapi.ProductCache
	redisClient, err = cache.NewRedisClient(cfg.Redis)
	if err != nil {
		zap.S().Warnf("Redis cache disabled: %v", err)
	} else {
		productCache = redisClient
	}

	handler = shopapi.NewHandler(dbClient.GetDB(), productCache)
}

func main() {
	defer flushLogs()
	defer dbClient.Close()
	if redisClient != nil {
		defer redisClient.Close()
	}
	lambda.Start(handler.Handle)
}
