package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"gitlab.connectwisedev.com/serverless-shop/pkg/cache"
	"gitlab.connectwisedev.com/serverless-shop/pkg/config"
	"gitlab.connectwisedev.com/serverless-shop/pkg/database"
	"gitlab.connectwisedev.com/serverless-shop/pkg/importer"
	"gitlab.connectwisedev.com/serverless-shop/pkg/logging"
)

// localCSVFile stands in for the S3 object when APP_ENV is "local".
const localCSVFile = "products.csv"

var (
	cfg         *config.Config
	dbClient    *database.DBClient
	redisClient *cache.RedisClient
	s3Client    *s3.Client
	flushLogs   func()
)

func init() {
	if _, err := config.LoadEnv(); err != nil {
		log.Printf("Warning: %v. Assuming environment variables are set.", err)
	}

	var err error
	cfg, err = config.Load()
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

	redisClient, err = cache.NewRedisClient(cfg.Redis)
	if err != nil {
		zap.S().Fatalf("Failed to initialize Redis client: %v", err)
	}

	if cfg.AppEnv != "local" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			zap.S().Fatalf("Failed to load AWS config: %v", err)
		}
		s3Client = s3.NewFromConfig(awsCfg)
	}
}

// S3EventWrapper is a custom struct to handle either S3 events or direct CSV payload
type S3EventWrapper struct {
	Records []events.S3EventRecord `json:"Records,omitempty"`
	CSVData string                 `json:"csv_data,omitempty"` // For local testing
}

func readCSV(ctx context.Context, event S3EventWrapper) ([]byte, error) {
	switch {
	case len(event.Records) > 0:
		record := event.Records[0].S3
		zap.S().Infof("Processing S3 event for bucket: %s, key: %s", record.Bucket.Name, record.Object.Key)

		if s3Client == nil {
			zap.S().Infof("Running in local environment, reading %s for S3 simulation.", localCSVFile)
			data, err := os.ReadFile(localCSVFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read local %s for S3 simulation: %w", localCSVFile, err)
			}
			return data, nil
		}
		return importer.FetchObject(ctx, s3Client, record.Bucket.Name, record.Object.Key)
	case event.CSVData != "":
		zap.S().Info("Processing direct CSV data payload.")
		return []byte(event.CSVData), nil
	}
	return nil, errors.New("no S3 event record or direct CSV data found in the payload")
}

func handler(ctx context.Context, event S3EventWrapper) error {
	data, err := readCSV(ctx, event)
	if err != nil {
		return err
	}

	rows, err := importer.ParseProducts(data)
	if err != nil {
		return err
	}

	if _, err := importer.New(dbClient.GetDB(), redisClient).Import(ctx, rows); err != nil {
		return err
	}
	zap.S().Info("Products processed successfully and cache updated.")
	return nil
}

func main() {
	defer flushLogs()
	defer dbClient.Close()
	defer redisClient.Close()
	lambda.Start(handler)
}
