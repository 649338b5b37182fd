package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/smartgolf/smartgolf-api/internal/models"
)

// FlagStore reads flags from a table whose items carry environment and flagname.
type FlagStore struct {
	client API
	table  string
}

func (s *FlagStore) ListByEnvironment(ctx context.Context, env string) ([]models.FeatureFlag, error) {
	filter := expression.Name("environment").Equal(expression.Value(env))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build filter expression: %w", err)
	}

	flags := []models.FeatureFlag{}
	pages := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:                 aws.String(s.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flags: %w", err)
		}
		var batch []models.FeatureFlag
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal flags: %w", err)
		}
		flags = append(flags, batch...)
	}
	return flags, nil
}
