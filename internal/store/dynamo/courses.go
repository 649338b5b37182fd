package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/smartgolf/smartgolf-api/internal/models"
	"github.com/smartgolf/smartgolf-api/internal/store"
)

// ErrCourseExists is returned by Create when the course id is already taken.
var ErrCourseExists = errors.New("course already exists")

// CourseStore keeps courses in a table keyed by courseID.
type CourseStore struct {
	client API
	table  string
}

// FindByExternalID scans the table page by page until a course with the given external
// id turns up. The table has no index on externalCourseID.
func (s *CourseStore) FindByExternalID(ctx context.Context, externalID string) (*models.Course, error) {
	filter := expression.Name("externalCourseID").Equal(expression.Value(externalID))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build filter expression: %w", err)
	}

	pages := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:                 aws.String(s.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan courses: %w", err)
		}
		if len(page.Items) == 0 {
			continue
		}
		var course models.Course
		if err := attributevalue.UnmarshalMap(page.Items[0], &course); err != nil {
			return nil, fmt.Errorf("failed to unmarshal course: %w", err)
		}
		return &course, nil
	}
	return nil, store.ErrNotFound
}

// Search returns every course whose name contains query, ignoring case.
// Only the summary attributes are read back.
func (s *CourseStore) Search(ctx context.Context, query string) ([]models.CourseSummary, error) {
	proj := expression.NamesList(
		expression.Name("courseID"),
		expression.Name("externalCourseID"),
		expression.Name("courseName"),
	)
	expr, err := expression.NewBuilder().WithProjection(proj).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build projection expression: %w", err)
	}

	needle := strings.ToLower(query)
	matches := []models.CourseSummary{}

	pages := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:                aws.String(s.table),
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan courses: %w", err)
		}
		var batch []models.CourseSummary
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal courses: %w", err)
		}
		for _, c := range batch {
			if c.CourseName != "" && strings.Contains(strings.ToLower(c.CourseName), needle) {
				matches = append(matches, c)
			}
		}
	}
	return matches, nil
}

// Create stores a new course. It refuses to overwrite an existing courseID.
func (s *CourseStore) Create(ctx context.Context, course *models.Course) error {
	item, err := attributevalue.MarshalMap(course)
	if err != nil {
		return fmt.Errorf("failed to marshal course: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name("courseID"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build condition expression: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.table),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var conditionalCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionalCheckFailed) {
			return ErrCourseExists
		}
		return fmt.Errorf("failed to store course: %w", err)
	}
	return nil
}
