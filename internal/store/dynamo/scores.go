package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/smartgolf/smartgolf-api/internal/models"
	"github.com/smartgolf/smartgolf-api/internal/store"
)

// ScoreStore keeps rounds in a table with partition key userID and sort key scoreID.
type ScoreStore struct {
	client API
	table  string
}

// Put writes the flat score item, replacing a previous submission with the same keys.
func (s *ScoreStore) Put(ctx context.Context, score *models.Score) error {
	item, err := attributevalue.MarshalMap(score)
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to store score: %w", err)
	}
	return nil
}

// Recent queries the user's partition and orders by Date in memory: the sort key is a
// random score id, so DynamoDB cannot order by date for us.
func (s *ScoreStore) Recent(ctx context.Context, userID string, limit int) ([]models.Score, error) {
	keyCond := expression.Key(models.AttrUserID).Equal(expression.Value(userID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key expression: %w", err)
	}

	var scores []models.Score
	pages := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query scores: %w", err)
		}
		for _, item := range page.Items {
			var score models.Score
			if err := attributevalue.UnmarshalMap(item, &score); err != nil {
				return nil, fmt.Errorf("failed to unmarshal score: %w", err)
			}
			scores = append(scores, score)
		}
	}
	return store.NewestFirst(scores, limit), nil
}
