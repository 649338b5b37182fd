// Package dynamo implements the store interfaces on DynamoDB, one table per entity.
package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/smartgolf/smartgolf-api/internal/store"
)

// API is the subset of *dynamodb.Client the stores use. It satisfies the paginators'
// ScanAPIClient and QueryAPIClient, and lets tests substitute an in-memory fake.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Tables names the table behind each store.
type Tables struct {
	Courses string
	Scores  string
	Users   string
	Flags   string
}

// New returns all four stores backed by the given client.
func New(client API, tables Tables) store.Stores {
	return store.Stores{
		Courses: &CourseStore{client: client, table: tables.Courses},
		Scores:  &ScoreStore{client: client, table: tables.Scores},
		Users:   &UserStore{client: client, table: tables.Users},
		Flags:   &FlagStore{client: client, table: tables.Flags},
	}
}
