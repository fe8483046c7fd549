package catalog

import (
	"time"

	"gitlab.connectwisedev.com/serverless-shop/models"
)

// SeedRecords is the default catalog used when nothing valid is persisted.
func SeedRecords(now time.Time) []models.Record {
	ms := now.UnixMilli()
	return []models.Record{
		{ID: "svc-lambda", Title: "AWS Lambda", Description: "Serverless compute that runs your functions on demand.", Tag: "compute", Image: "assets/lambda.svg", CreatedAt: ms - 40000},
		{ID: "svc-apigw", Title: "API Gateway", Description: "Managed API front door for your serverless endpoints.", Tag: "api", Image: "assets/api-gateway.svg", CreatedAt: ms - 30000},
		{ID: "svc-dynamodb", Title: "DynamoDB", Description: "Serverless NoSQL database for high-scale workloads.", Tag: "database", Image: "assets/dynamodb.svg", CreatedAt: ms - 20000},
		{ID: "svc-s3", Title: "Amazon S3", Description: "Object storage for assets, logs, and static hosting.", Tag: "storage", Image: "assets/s3.svg", CreatedAt: ms - 10000},
	}
}

// FallbackPolicy picks the records to use after a StorageCorruptError.
type FallbackPolicy func(err *StorageCorruptError, now time.Time) []models.Record

// SeedFallback discards the corrupt state and starts from the seed list.
func SeedFallback(_ *StorageCorruptError, now time.Time) []models.Record {
	return SeedRecords(now)
}
