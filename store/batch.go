package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// BatchSize is the maximum number of items submitted in one BatchWriteItem call.
const BatchSize = 20

// Chunk splits items into consecutive slices of at most size elements.
// An empty input yields no chunks.
func Chunk[T any](items []T, size int) [][]T {
	if size < 1 {
		size = 1
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// BatchPut writes items in chunks of BatchSize, one chunk at a time.
// It stops at the first chunk for which DynamoDB reports unprocessed items
// and returns an *UnprocessedItemsError; no retries are attempted.
func (s *Store) BatchPut(ctx context.Context, table string, items []Item) error {
	chunks := Chunk(items, BatchSize)

	for i, chunk := range chunks {
		requests := make([]types.WriteRequest, 0, len(chunk))
		for _, item := range chunk {
			av, err := MarshalItem(item)
			if err != nil {
				return err
			}
			requests = append(requests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: av},
			})
		}

		res, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				table: requests,
			},
		})
		if err != nil {
			return &StoreError{Op: "BatchWriteItem", Table: table, Err: err}
		}

		s.logger.Debug("wrote batch chunk",
			"table", table,
			"chunk", i+1,
			"chunks", len(chunks),
			"items", len(chunk),
		)

		unprocessed := res.UnprocessedItems[table]
		if len(unprocessed) > 0 {
			s.logger.Error("batch chunk has unprocessed items",
				"table", table,
				"chunk", i+1,
				"unprocessed", len(unprocessed),
			)
			return &UnprocessedItemsError{
				Table:    table,
				Chunk:    i + 1,
				Count:    len(unprocessed),
				Requests: unprocessed,
			}
		}
	}

	return nil
}
