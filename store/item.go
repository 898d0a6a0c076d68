package store

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Key represents a DynamoDB primary key: one (hash) or two (hash and range)
// attributes whose values are strings or numbers.
type Key map[string]any

// Item represents a DynamoDB item as a JSON-like document.
type Item map[string]any

// MarshalKey converts a key into its attribute value form.
func MarshalKey(key Key) (map[string]types.AttributeValue, error) {
	return marshalMap(key)
}

// MarshalItem converts an item into its attribute value form.
func MarshalItem(item Item) (map[string]types.AttributeValue, error) {
	return marshalMap(item)
}

// MarshalValue converts a single JSON-like value into an attribute value.
func MarshalValue(v any) (types.AttributeValue, error) {
	return attributevalue.Marshal(toWire(v))
}

// UnmarshalItem converts a raw DynamoDB item back into a JSON-like document.
// Numbers are returned as json.Number.
func UnmarshalItem(raw map[string]types.AttributeValue) (Item, error) {
	if raw == nil {
		return nil, nil
	}
	var out map[string]any
	err := attributevalue.UnmarshalMapWithOptions(raw, &out, func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	item := make(Item, len(out))
	for k, v := range out {
		item[k] = fromWire(v)
	}
	return item, nil
}

func marshalMap[M ~map[string]any](m M) (map[string]types.AttributeValue, error) {
	wire := make(map[string]any, len(m))
	for k, v := range m {
		wire[k] = toWire(v)
	}
	av, err := attributevalue.MarshalMap(wire)
	if err != nil {
		return nil, fmt.Errorf("marshal attributes: %w", err)
	}
	return av, nil
}

// toWire swaps json.Number for attributevalue.Number so numbers are encoded
// as N with their original text instead of as S.
func toWire(v any) any {
	switch t := v.(type) {
	case json.Number:
		return attributevalue.Number(t)
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = toWire(e)
		}
		return m
	case Item:
		return toWire(map[string]any(t))
	case Key:
		return toWire(map[string]any(t))
	case []any:
		l := make([]any, len(t))
		for i, e := range t {
			l[i] = toWire(e)
		}
		return l
	default:
		return v
	}
}

func fromWire(v any) any {
	switch t := v.(type) {
	case attributevalue.Number:
		return json.Number(t)
	case []attributevalue.Number:
		l := make([]any, len(t))
		for i, e := range t {
			l[i] = json.Number(e)
		}
		return l
	case map[string]any:
		for k, e := range t {
			t[k] = fromWire(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = fromWire(e)
		}
		return t
	default:
		return v
	}
}
