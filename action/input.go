package action

import (
	"maps"
	"strings"

	"github.com/jacentio/dynamodb-actions/internal/loosejson"
	"github.com/jacentio/dynamodb-actions/store"
)

// Input field names.
const (
	FieldOperation                 = "operation"
	FieldRegion                    = "region"
	FieldTable                     = "table"
	FieldKey                       = "key"
	FieldConsistent                = "consistent"
	FieldItem                      = "item"
	FieldFile                      = "file"
	FieldItems                     = "items"
	FieldFiles                     = "files"
	FieldUpdateExpression          = "updateExpression"
	FieldExpressionAttributeValues = "expressionAttributeValues"
	FieldExpressionAttributeFiles  = "expressionAttributeFiles"
)

// Fields lists every input field understood by some operation.
var Fields = []string{
	FieldOperation,
	FieldRegion,
	FieldTable,
	FieldKey,
	FieldConsistent,
	FieldItem,
	FieldFile,
	FieldItems,
	FieldFiles,
	FieldUpdateExpression,
	FieldExpressionAttributeValues,
	FieldExpressionAttributeFiles,
}

// literalFields hold JSON-like literals when supplied as strings.
var literalFields = []string{FieldKey, FieldConsistent, FieldItem, FieldItems}

// RawInput is the untrusted input of one invocation: field name to string,
// string list, or an already decoded value.
type RawInput map[string]any

// NewRawInput builds a RawInput from string fields, as supplied by the CLI
// or the environment. Literal fields are parsed forgivingly; ones that do
// not parse are dropped, except consistent, which keeps its text.
func NewRawInput(fields map[string]string) RawInput {
	raw := make(RawInput, len(fields))
	for k, v := range fields {
		raw[k] = v
	}
	raw.normalize()
	return raw
}

// FromMap builds a RawInput from decoded values, e.g. a JSON event. String
// values of literal fields are parsed the same way as NewRawInput does.
func FromMap(m map[string]any) RawInput {
	raw := RawInput(maps.Clone(m))
	if raw == nil {
		raw = RawInput{}
	}
	raw.normalize()
	return raw
}

func (r RawInput) normalize() {
	for _, f := range literalFields {
		s, ok := r[f].(string)
		if !ok {
			continue
		}
		switch v, ok := loosejson.Parse(s); {
		case ok:
			r[f] = v
		case f == FieldConsistent:
			// left as text, e.g. "TRUE", for decodeBool to accept or reject
		default:
			delete(r, f)
		}
	}
}

// stringField returns a string field; absent and empty are the same.
func (r RawInput) stringField(field string) (string, error) {
	switch v := r[field].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", invalid(field, "must be a string")
	}
}

// listField returns a comma-separated string field (or a string list) split into
// trimmed entries; nil when absent or blank.
func (r RawInput) listField(field string) ([]string, error) {
	switch v := r[field].(type) {
	case nil:
		return nil, nil
	case []string:
		if len(v) == 0 {
			return nil, nil
		}
		return v, nil
	case []any:
		if len(v) == 0 {
			return nil, nil
		}
		out := make([]string, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, invalid(field, "must be a list of strings")
			}
			out[i] = s
		}
		return out, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return store.SplitList(v), nil
	default:
		return nil, invalid(field, "must be a comma-separated string")
	}
}
