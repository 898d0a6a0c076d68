package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/dynamodb-actions/internal/ddbtest"
	"github.com/jacentio/dynamodb-actions/store"
)

const tableName = "dynamodb-actions-test"

func newStore(t *testing.T) (*store.Store, *ddbtest.Fake) {
	t.Helper()
	fake := ddbtest.New(ddbtest.Table{Name: tableName, HashKey: "key"})
	return store.New(fake, nil), fake
}

func TestDefaultConfig(t *testing.T) {
	cfg := store.DefaultConfig()

	if cfg.LocalRegion != "us-east-1" {
		t.Errorf("expected LocalRegion 'us-east-1', got %q", cfg.LocalRegion)
	}
	if cfg.LocalAccessKeyID != "local" {
		t.Errorf("expected LocalAccessKeyID 'local', got %q", cfg.LocalAccessKeyID)
	}
}

func TestIsEndpointURL(t *testing.T) {
	tests := []struct {
		endpoint string
		expected bool
	}{
		{"http://127.0.0.1:8000", true},
		{"https://dynamodb.eu-west-1.amazonaws.com", true},
		{"HTTP://LOCALHOST:8000", true},
		{"us-east-1", false},
		{"ap-northeast-1", false},
		{"", false},
		{"httpbin", false},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			if got := store.IsEndpointURL(tt.endpoint); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNewClient_URL(t *testing.T) {
	client, err := store.NewClient(context.Background(), "http://127.0.0.1:8000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts := client.Options()
	if opts.Region != "us-east-1" {
		t.Errorf("expected placeholder region 'us-east-1', got %q", opts.Region)
	}
	if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://127.0.0.1:8000" {
		t.Errorf("expected BaseEndpoint to be the URL, got %v", opts.BaseEndpoint)
	}
}

func TestNewClient_Region(t *testing.T) {
	client, err := store.NewClient(context.Background(), "eu-central-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts := client.Options()
	if opts.Region != "eu-central-1" {
		t.Errorf("expected region 'eu-central-1', got %q", opts.Region)
	}
	if opts.BaseEndpoint != nil {
		t.Errorf("expected no BaseEndpoint, got %q", *opts.BaseEndpoint)
	}
}

func TestNewClient_LocalRegionOption(t *testing.T) {
	client, err := store.NewClient(context.Background(), "http://localhost:4566", func(c *store.Config) {
		c.LocalRegion = "eu-west-1"
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := client.Options().Region; got != "eu-west-1" {
		t.Errorf("expected region 'eu-west-1', got %q", got)
	}
}

// --- Get / Put / Delete ---

func TestPutThenGet_RoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	item := store.Item{
		"key":       "foo",
		"value":     "bar",
		"createdAt": json.Number("12345"),
		"nested":    map[string]any{"list": []any{"a", json.Number("1.5"), true, nil}},
	}
	if err := s.Put(ctx, tableName, item); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, tableName, store.Key{"key": "foo"}, false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	want, _ := json.Marshal(item)
	have, _ := json.Marshal(got)
	if string(want) != string(have) {
		t.Errorf("expected %s, got %s", want, have)
	}
}

func TestPut_NumbersStoredAsN(t *testing.T) {
	s, fake := newStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, tableName, store.Item{"key": "foo", "timestamp": json.Number("12345")}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	raw := fake.Item(tableName, map[string]types.AttributeValue{
		"key": &types.AttributeValueMemberS{Value: "foo"},
	})
	n, ok := raw["timestamp"].(*types.AttributeValueMemberN)
	if !ok {
		t.Fatalf("expected timestamp stored as N, got %#v", raw["timestamp"])
	}
	if n.Value != "12345" {
		t.Errorf("expected '12345', got %q", n.Value)
	}
}

func TestGet_NotFound(t *testing.T) {
	s, _ := newStore(t)

	item, err := s.Get(context.Background(), tableName, store.Key{"key": "missing"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil item, got %v", item)
	}
}

func TestGet_ConsistentFlag(t *testing.T) {
	s, fake := newStore(t)
	ctx := context.Background()

	_, _ = s.Get(ctx, tableName, store.Key{"key": "a"}, true)
	_, _ = s.Get(ctx, tableName, store.Key{"key": "a"}, false)

	if len(fake.ConsistentReads) != 2 {
		t.Fatalf("expected 2 reads, got %d", len(fake.ConsistentReads))
	}
	if !fake.ConsistentReads[0] || fake.ConsistentReads[1] {
		t.Errorf("expected [true false], got %v", fake.ConsistentReads)
	}
}

func TestGet_StoreError(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.Get(context.Background(), tableName, store.Key{"unknownKey": "123"}, false)
	var storeErr *store.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if storeErr.Op != "GetItem" {
		t.Errorf("expected Op 'GetItem', got %q", storeErr.Op)
	}
	if storeErr.APICode() != "ValidationException" {
		t.Errorf("expected APICode 'ValidationException', got %q", storeErr.APICode())
	}
}

func TestStoreError_APICodeWithoutService(t *testing.T) {
	err := &store.StoreError{Op: "PutItem", Table: "t", Err: errors.New("dial tcp: refused")}
	if err.APICode() != "" {
		t.Errorf("expected empty APICode, got %q", err.APICode())
	}
	if err.Error() != "PutItem on table t: dial tcp: refused" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestDelete_RemovesItem(t *testing.T) {
	s, fake := newStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, tableName, store.Item{"key": "foo", "value": "bar"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Delete(ctx, tableName, store.Key{"key": "foo"}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if fake.Len(tableName) != 0 {
		t.Errorf("expected empty table, got %d items", fake.Len(tableName))
	}
}

func TestDelete_AbsentKeyIsIdempotent(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := s.Delete(ctx, tableName, store.Key{"key": "never-existed"}); err != nil {
			t.Fatalf("delete %d: unexpected error: %v", i+1, err)
		}
	}
}

// --- BatchPut ---

func makeItems(n int) []store.Item {
	items := make([]store.Item, n)
	for i := range items {
		items[i] = store.Item{"key": fmt.Sprintf("item-%02d", i), "n": json.Number(fmt.Sprint(i))}
	}
	return items
}

func TestBatchPut_ChunksOf20(t *testing.T) {
	s, fake := newStore(t)

	if err := s.BatchPut(context.Background(), tableName, makeItems(45)); err != nil {
		t.Fatalf("BatchPut failed: %v", err)
	}

	expected := []int{20, 20, 5}
	if len(fake.BatchSizes) != len(expected) {
		t.Fatalf("expected %d chunks, got %d", len(expected), len(fake.BatchSizes))
	}
	for i, n := range expected {
		if fake.BatchSizes[i] != n {
			t.Errorf("chunk %d: expected %d items, got %d", i+1, n, fake.BatchSizes[i])
		}
	}
	if fake.Len(tableName) != 45 {
		t.Errorf("expected 45 items stored, got %d", fake.Len(tableName))
	}
}

func TestBatchPut_Empty(t *testing.T) {
	s, fake := newStore(t)

	if err := s.BatchPut(context.Background(), tableName, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.Calls) != 0 {
		t.Errorf("expected no store calls, got %v", fake.Calls)
	}
}

func TestBatchPut_UnprocessedFailsFast(t *testing.T) {
	s, fake := newStore(t)
	fake.Unprocessed = func(call int, table string, reqs []types.WriteRequest) []types.WriteRequest {
		if call == 2 {
			return reqs[:3]
		}
		return nil
	}

	err := s.BatchPut(context.Background(), tableName, makeItems(45))

	var unprocessed *store.UnprocessedItemsError
	if !errors.As(err, &unprocessed) {
		t.Fatalf("expected UnprocessedItemsError, got %v", err)
	}
	if unprocessed.Chunk != 2 {
		t.Errorf("expected chunk 2, got %d", unprocessed.Chunk)
	}
	if unprocessed.Count != 3 || len(unprocessed.Requests) != 3 {
		t.Errorf("expected 3 unprocessed requests, got %d/%d", unprocessed.Count, len(unprocessed.Requests))
	}
	if unprocessed.Table != tableName {
		t.Errorf("expected table %q, got %q", tableName, unprocessed.Table)
	}
	if len(fake.BatchSizes) != 2 {
		t.Errorf("expected chunk 3 never submitted, got %d calls", len(fake.BatchSizes))
	}
}

func TestBatchPut_RequestError(t *testing.T) {
	s, fake := newStore(t)
	fake.Errors["BatchWriteItem"] = ddbtest.APIError("ProvisionedThroughputExceededException", "slow down")

	err := s.BatchPut(context.Background(), tableName, makeItems(2))

	var storeErr *store.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if storeErr.APICode() != "ProvisionedThroughputExceededException" {
		t.Errorf("unexpected APICode %q", storeErr.APICode())
	}
}

// --- Update ---

func TestUpdate_SetsAttributes(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, tableName, store.Item{"key": "foo", "a": "old"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	update, err := store.BuildUpdate([]string{"a", "b"}, []any{"new", map[string]any{"n": json.Number("7")}})
	if err != nil {
		t.Fatalf("BuildUpdate failed: %v", err)
	}
	if err := s.Update(ctx, tableName, store.Key{"key": "foo"}, update); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := s.Get(ctx, tableName, store.Key{"key": "foo"}, true)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	have, _ := json.Marshal(got)
	if string(have) != `{"a":"new","b":{"n":7},"key":"foo"}` {
		t.Errorf("unexpected item %s", have)
	}
}

func TestUpdate_StoreError(t *testing.T) {
	s, fake := newStore(t)
	fake.Errors["UpdateItem"] = ddbtest.APIError("ValidationException", "Attribute name is a reserved keyword; reserved keyword: name")

	update, _ := store.BuildInlineUpdate("name", "x")
	err := s.Update(context.Background(), tableName, store.Key{"key": "foo"}, update)

	var storeErr *store.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if storeErr.Op != "UpdateItem" {
		t.Errorf("expected Op 'UpdateItem', got %q", storeErr.Op)
	}
}
