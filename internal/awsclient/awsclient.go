// Package awsclient builds the AWS SDK clients shared by the functions. Clients are
// created once per cold start and reused across invocations.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"
)

// Clients holds one client per service.
type Clients struct {
	DynamoDB       *dynamodb.Client
	S3             *s3.Client
	SecretsManager *secretsmanager.Client
}

// New loads the default credential chain for region and constructs the clients.
// dynamoEndpoint, when set, points only the DynamoDB client at e.g. DynamoDB Local.
func New(ctx context.Context, region, dynamoEndpoint string, log *zap.Logger) (*Clients, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	c := &Clients{
		DynamoDB:       dynamodb.NewFromConfig(cfg, dynamoOptions(dynamoEndpoint)),
		S3:             s3.NewFromConfig(cfg),
		SecretsManager: secretsmanager.NewFromConfig(cfg),
	}
	log.Info("aws clients initialized", zap.String("region", region), zap.String("dynamodb_endpoint", dynamoEndpoint))
	return c, nil
}

func dynamoOptions(endpoint string) func(*dynamodb.Options) {
	return func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}
}
