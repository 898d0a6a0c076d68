// Package ddbtest provides an in-memory stand-in for the DynamoDB item API,
// for tests that need a store without running DynamoDB Local.
package ddbtest

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// Table describes the key schema of a fake table.
type Table struct {
	Name     string
	HashKey  string
	RangeKey string
}

// UnprocessedFunc decides which requests of a BatchWriteItem call are
// returned as unprocessed. call is 1-based.
type UnprocessedFunc func(call int, table string, requests []types.WriteRequest) []types.WriteRequest

// Fake implements the item-level DynamoDB operations used by the store.
type Fake struct {
	mu     sync.Mutex
	tables map[string]*table

	// Unprocessed, when set, is consulted on every BatchWriteItem call.
	// Requests it returns are not applied.
	Unprocessed UnprocessedFunc

	// Errors forces an operation (e.g. "PutItem") to fail with the given error.
	Errors map[string]error

	// Calls records operation names in call order.
	Calls []string

	// BatchSizes records the number of write requests of each BatchWriteItem call.
	BatchSizes []int

	// Updates records the input of each UpdateItem call.
	Updates []*dynamodb.UpdateItemInput

	// ConsistentReads records the ConsistentRead flag of each GetItem call.
	ConsistentReads []bool
}

type table struct {
	def   Table
	items map[string]map[string]types.AttributeValue
}

// New creates a Fake with the given tables.
func New(tables ...Table) *Fake {
	f := &Fake{
		tables: make(map[string]*table),
		Errors: make(map[string]error),
	}
	for _, t := range tables {
		f.tables[t.Name] = &table{def: t, items: make(map[string]map[string]types.AttributeValue)}
	}
	return f
}

// APIError builds an error shaped like a DynamoDB service error.
func APIError(code, message string) error {
	return &smithy.GenericAPIError{Code: code, Message: message, Fault: smithy.FaultClient}
}

// Seed stores items directly, bypassing call recording.
func (f *Fake) Seed(tableName string, items ...map[string]types.AttributeValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.table(tableName)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := t.put(item); err != nil {
			return err
		}
	}
	return nil
}

// Item returns the stored item for key, or nil.
func (f *Fake) Item(tableName string, key map[string]types.AttributeValue) map[string]types.AttributeValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tables[tableName]
	if !ok {
		return nil
	}
	k, err := t.keyOf(key, true)
	if err != nil {
		return nil
	}
	return t.items[k]
}

// Len returns the number of items stored in a table.
func (f *Fake) Len(tableName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tables[tableName]; ok {
		return len(t.items)
	}
	return 0
}

func (f *Fake) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetItem"); err != nil {
		return nil, err
	}
	f.ConsistentReads = append(f.ConsistentReads, params.ConsistentRead != nil && *params.ConsistentRead)

	t, err := f.table(deref(params.TableName))
	if err != nil {
		return nil, err
	}
	k, err := t.keyOf(params.Key, true)
	if err != nil {
		return nil, err
	}
	item, ok := t.items[k]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: maps.Clone(item)}, nil
}

func (f *Fake) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("PutItem"); err != nil {
		return nil, err
	}

	t, err := f.table(deref(params.TableName))
	if err != nil {
		return nil, err
	}
	if err := t.put(params.Item); err != nil {
		return nil, err
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *Fake) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteItem"); err != nil {
		return nil, err
	}

	t, err := f.table(deref(params.TableName))
	if err != nil {
		return nil, err
	}
	k, err := t.keyOf(params.Key, true)
	if err != nil {
		return nil, err
	}
	delete(t.items, k)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *Fake) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateItem"); err != nil {
		return nil, err
	}
	f.Updates = append(f.Updates, params)

	t, err := f.table(deref(params.TableName))
	if err != nil {
		return nil, err
	}
	k, err := t.keyOf(params.Key, true)
	if err != nil {
		return nil, err
	}

	assignments, err := parseSet(deref(params.UpdateExpression))
	if err != nil {
		return nil, err
	}

	item := maps.Clone(t.items[k])
	if item == nil {
		item = maps.Clone(params.Key)
	}
	for _, a := range assignments {
		v, ok := params.ExpressionAttributeValues[a.placeholder]
		if !ok {
			return nil, APIError("ValidationException", "An expression attribute value used in expression is not defined; attribute value: "+a.placeholder)
		}
		item[a.path] = v
	}
	t.items[k] = item
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *Fake) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("BatchWriteItem"); err != nil {
		return nil, err
	}

	total := 0
	for _, reqs := range params.RequestItems {
		total += len(reqs)
	}
	if total == 0 || total > 25 {
		return nil, APIError("ValidationException", fmt.Sprintf("batch write must contain between 1 and 25 requests, got %d", total))
	}
	f.BatchSizes = append(f.BatchSizes, total)
	call := len(f.BatchSizes)

	out := &dynamodb.BatchWriteItemOutput{
		UnprocessedItems: map[string][]types.WriteRequest{},
	}
	for name, reqs := range params.RequestItems {
		t, err := f.table(name)
		if err != nil {
			return nil, err
		}

		var unprocessed []types.WriteRequest
		if f.Unprocessed != nil {
			unprocessed = f.Unprocessed(call, name, reqs)
		}
		skip := make(map[*types.PutRequest]bool, len(unprocessed))
		for _, u := range unprocessed {
			skip[u.PutRequest] = true
		}

		for _, req := range reqs {
			switch {
			case req.PutRequest != nil && skip[req.PutRequest]:
			case req.PutRequest != nil:
				if err := t.put(req.PutRequest.Item); err != nil {
					return nil, err
				}
			case req.DeleteRequest != nil:
				k, err := t.keyOf(req.DeleteRequest.Key, true)
				if err != nil {
					return nil, err
				}
				delete(t.items, k)
			}
		}
		if len(unprocessed) > 0 {
			out.UnprocessedItems[name] = unprocessed
		}
	}
	return out, nil
}

func (f *Fake) record(op string) error {
	f.Calls = append(f.Calls, op)
	if err, ok := f.Errors[op]; ok {
		return err
	}
	return nil
}

func (f *Fake) table(name string) (*table, error) {
	t, ok := f.tables[name]
	if !ok {
		return nil, APIError("ResourceNotFoundException", "Cannot do operations on a non-existent table")
	}
	return t, nil
}

func (t *table) put(item map[string]types.AttributeValue) error {
	k, err := t.keyOf(item, false)
	if err != nil {
		return err
	}
	t.items[k] = maps.Clone(item)
	return nil
}

// keyOf derives the storage key of an item or key map. With exact set, the
// map must contain the key attributes and nothing else.
func (t *table) keyOf(av map[string]types.AttributeValue, exact bool) (string, error) {
	names := []string{t.def.HashKey}
	if t.def.RangeKey != "" {
		names = append(names, t.def.RangeKey)
	}
	if exact && len(av) != len(names) {
		return "", APIError("ValidationException", "The provided key element does not match the schema")
	}

	parts := make([]string, 0, len(names))
	for _, name := range names {
		switch v := av[name].(type) {
		case *types.AttributeValueMemberS:
			parts = append(parts, "S:"+v.Value)
		case *types.AttributeValueMemberN:
			parts = append(parts, "N:"+v.Value)
		case *types.AttributeValueMemberB:
			parts = append(parts, "B:"+string(v.Value))
		default:
			return "", APIError("ValidationException", "The provided key element does not match the schema")
		}
	}
	return strings.Join(parts, "|"), nil
}

type assignment struct {
	path        string
	placeholder string
}

// parseSet understands the "set a = :a, b = :b" form produced by the store.
func parseSet(expr string) ([]assignment, error) {
	expr = strings.TrimSpace(expr)
	if len(expr) < 4 || !strings.EqualFold(expr[:4], "set ") {
		return nil, APIError("ValidationException", "Invalid UpdateExpression: only SET is supported: "+expr)
	}

	var out []assignment
	for _, clause := range strings.Split(expr[4:], ",") {
		path, placeholder, ok := strings.Cut(clause, "=")
		path = strings.TrimSpace(path)
		placeholder = strings.TrimSpace(placeholder)
		if !ok || path == "" || !strings.HasPrefix(placeholder, ":") {
			return nil, APIError("ValidationException", "Invalid UpdateExpression: Syntax error; token: "+clause)
		}
		out = append(out, assignment{path: path, placeholder: placeholder})
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
