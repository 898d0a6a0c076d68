package store

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Store provides the DynamoDB operations behind each action verb.
type Store struct {
	client Client
	logger *slog.Logger
}

// New creates a new Store instance.
func New(client Client, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: client,
		logger: logger,
	}
}

// Get reads an item by key. A missing item is returned as (nil, nil).
func (s *Store) Get(ctx context.Context, table string, key Key, consistent bool) (Item, error) {
	k, err := MarshalKey(key)
	if err != nil {
		return nil, err
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(table),
		Key:            k,
		ConsistentRead: aws.Bool(consistent),
	})
	if err != nil {
		return nil, &StoreError{Op: "GetItem", Table: table, Err: err}
	}
	if result.Item == nil {
		return nil, nil
	}

	return UnmarshalItem(result.Item)
}

// Put writes a single item, replacing any item with the same key.
func (s *Store) Put(ctx context.Context, table string, item Item) error {
	av, err := MarshalItem(item)
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	})
	if err != nil {
		return &StoreError{Op: "PutItem", Table: table, Err: err}
	}
	return nil
}

// Delete removes an item by key. Deleting a missing item is not an error.
func (s *Store) Delete(ctx context.Context, table string, key Key) error {
	k, err := MarshalKey(key)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       k,
	})
	if err != nil {
		return &StoreError{Op: "DeleteItem", Table: table, Err: err}
	}
	return nil
}

// Update applies a SET update expression to the item addressed by key.
func (s *Store) Update(ctx context.Context, table string, key Key, update UpdateExpression) error {
	k, err := MarshalKey(key)
	if err != nil {
		return err
	}
	values, err := update.attributeValues()
	if err != nil {
		return err
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       k,
		UpdateExpression:          aws.String(update.Expression),
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return &StoreError{Op: "UpdateItem", Table: table, Err: err}
	}
	return nil
}
