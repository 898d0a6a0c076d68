package store

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UpdateExpression is a SET update expression with its placeholder values.
type UpdateExpression struct {
	// Expression is the DynamoDB update expression, e.g. "set a = :a, b = :b".
	Expression string

	// Values maps each placeholder (":a") to its JSON-like value.
	Values map[string]any
}

// SplitList splits a comma-separated list and trims whitespace around each
// entry. An empty or blank string yields an empty list.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// BuildUpdate pairs names with values positionally and emits one "A = :A"
// clause per attribute. Attribute names are used verbatim as both the
// document path and the placeholder suffix, so they must already be valid
// placeholder identifiers and must not be DynamoDB reserved words.
func BuildUpdate(names []string, values []any) (UpdateExpression, error) {
	if len(names) == 0 {
		return UpdateExpression{}, ErrUpdateEmpty
	}
	if len(names) != len(values) {
		return UpdateExpression{}, fmt.Errorf("%w: %d names, %d values", ErrUpdateMismatch, len(names), len(values))
	}

	clauses := make([]string, 0, len(names))
	subs := make(map[string]any, len(names))
	for i, name := range names {
		if name == "" {
			return UpdateExpression{}, fmt.Errorf("%w: position %d", ErrUpdateEmptyName, i+1)
		}
		placeholder := ":" + name
		if _, ok := subs[placeholder]; ok {
			return UpdateExpression{}, fmt.Errorf("%w: %s", ErrUpdateDuplicateName, name)
		}
		subs[placeholder] = values[i]
		clauses = append(clauses, fmt.Sprintf("%s = %s", name, placeholder))
	}

	return UpdateExpression{
		Expression: "set " + strings.Join(clauses, ", "),
		Values:     subs,
	}, nil
}

// BuildInlineUpdate builds an update from two comma-separated lists of
// attribute names and literal string values.
func BuildInlineUpdate(names, values string) (UpdateExpression, error) {
	vals := SplitList(values)
	anys := make([]any, len(vals))
	for i, v := range vals {
		anys[i] = v
	}
	return BuildUpdate(SplitList(names), anys)
}

func (u UpdateExpression) attributeValues() (map[string]types.AttributeValue, error) {
	values := make(map[string]types.AttributeValue, len(u.Values))
	for placeholder, v := range u.Values {
		av, err := MarshalValue(v)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", placeholder, err)
		}
		values[placeholder] = av
	}
	return values, nil
}
