package action

import (
	"strings"

	"github.com/jacentio/dynamodb-actions/store"
)

// OperationName identifies an action verb.
type OperationName string

const (
	OperationGet      OperationName = "get"
	OperationPut      OperationName = "put"
	OperationBatchPut OperationName = "batch-put"
	OperationDelete   OperationName = "delete"
	OperationUpdate   OperationName = "update"
)

// Operations lists every supported verb.
var Operations = []OperationName{
	OperationGet,
	OperationPut,
	OperationBatchPut,
	OperationDelete,
	OperationUpdate,
}

// ParseOperationName resolves a verb case-insensitively.
func ParseOperationName(s string) (OperationName, error) {
	name := OperationName(strings.ToLower(strings.TrimSpace(s)))
	for _, op := range Operations {
		if op == name {
			return op, nil
		}
	}
	if name == "" {
		return "", invalid(FieldOperation, "is required")
	}
	return "", invalid(FieldOperation, "must be one of %s", joinOperations())
}

func joinOperations() string {
	names := make([]string, len(Operations))
	for i, op := range Operations {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}

func (o OperationName) String() string { return string(o) }

// Request is a validated request for exactly one verb. It is implemented only
// by the request types of this package.
type Request interface {
	// Operation returns the verb the request was validated for.
	Operation() OperationName

	// Endpoint returns the region name or endpoint URL to connect to.
	Endpoint() string

	// TableName returns the target table.
	TableName() string

	isRequest()
}

// Target holds the fields shared by every request.
type Target struct {
	// Region is an AWS region name or an endpoint URL, lowercased.
	Region string `json:"region" validate:"required"`

	Table string `json:"table" validate:"required"`
}

func (t Target) Endpoint() string  { return t.Region }
func (t Target) TableName() string { return t.Table }
func (Target) isRequest()          {}

// GetRequest reads one item by key.
type GetRequest struct {
	Target
	Key        store.Key `json:"key" validate:"required,min=1,max=2,dive,keys,required,endkeys,keyvalue"`
	Consistent bool      `json:"consistent"`
}

// PutRequest writes one item given inline or as a JSON file.
type PutRequest struct {
	Target
	Item store.Item `json:"item,omitempty" validate:"required_without=File,excluded_with=File"`
	File string     `json:"file,omitempty" validate:"required_without=Item,excluded_with=Item"`
}

// BatchPutRequest writes many items given inline or as a glob of JSON files.
type BatchPutRequest struct {
	Target
	Items []store.Item `json:"items,omitempty" validate:"required_without=Files,excluded_with=Files"`
	Files string       `json:"files,omitempty" validate:"required_without=Items,excluded_with=Items"`
}

// DeleteRequest removes one item by key.
type DeleteRequest struct {
	Target
	Key store.Key `json:"key" validate:"required,min=1,max=2,dive,keys,required,endkeys,keyvalue"`
}

// UpdateRequest sets attributes of one item. Values holds literal strings;
// ValueFiles holds paths of JSON files, one per attribute. When both are
// given, Values is used.
type UpdateRequest struct {
	Target
	Key        store.Key `json:"key" validate:"required,min=1,max=2,dive,keys,required,endkeys,keyvalue"`
	Attributes []string  `json:"updateExpression" validate:"required,dive,required"`
	Values     []string  `json:"expressionAttributeValues,omitempty" validate:"required_without=ValueFiles"`
	ValueFiles []string  `json:"expressionAttributeFiles,omitempty" validate:"required_without=Values,dive,required"`
}

func (*GetRequest) Operation() OperationName      { return OperationGet }
func (*PutRequest) Operation() OperationName      { return OperationPut }
func (*BatchPutRequest) Operation() OperationName { return OperationBatchPut }
func (*DeleteRequest) Operation() OperationName   { return OperationDelete }
func (*UpdateRequest) Operation() OperationName   { return OperationUpdate }

var (
	_ Request = (*GetRequest)(nil)
	_ Request = (*PutRequest)(nil)
	_ Request = (*BatchPutRequest)(nil)
	_ Request = (*DeleteRequest)(nil)
	_ Request = (*UpdateRequest)(nil)
)
