package store

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Client is the subset of the DynamoDB API used by Store.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

var _ Client = (*dynamodb.Client)(nil)

var urlEndpoint = regexp.MustCompile(`(?i)^https?://`)

// IsEndpointURL reports whether endpoint is an http(s) URL rather than a region.
func IsEndpointURL(endpoint string) bool {
	return urlEndpoint.MatchString(endpoint)
}

// NewClient builds a DynamoDB client for endpoint, which is either a region
// name (e.g. "eu-west-1") or the URL of a DynamoDB-compatible endpoint
// (e.g. "http://127.0.0.1:8000").
func NewClient(ctx context.Context, endpoint string, optFns ...func(*Config)) (*dynamodb.Client, error) {
	cfg := DefaultConfig()
	for _, fn := range optFns {
		fn(&cfg)
	}
	cfg.validate()

	if !IsEndpointURL(endpoint) {
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(endpoint))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return dynamodb.NewFromConfig(awsCfg), nil
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.LocalRegion),
	}
	if os.Getenv("AWS_ACCESS_KEY_ID") == "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.LocalAccessKeyID, cfg.LocalSecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	}), nil
}
