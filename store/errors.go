package store

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

var (
	// ErrUpdateMismatch is returned when update attribute names and values differ in length.
	ErrUpdateMismatch = errors.New("update attribute names and values must have the same length")

	// ErrUpdateEmpty is returned when an update names no attributes.
	ErrUpdateEmpty = errors.New("update must name at least one attribute")

	// ErrUpdateEmptyName is returned when an update attribute name is blank.
	ErrUpdateEmptyName = errors.New("update attribute name must not be empty")

	// ErrUpdateDuplicateName is returned when an update names the same attribute twice.
	ErrUpdateDuplicateName = errors.New("update attribute name is duplicated")
)

// StoreError is returned when a DynamoDB call fails. The underlying error is
// kept verbatim.
type StoreError struct {
	Op    string
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s on table %s: %v", e.Op, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// APICode returns the DynamoDB error code (e.g. "ResourceNotFoundException"),
// or an empty string when the failure did not come from the service.
func (e *StoreError) APICode() string {
	var ae smithy.APIError
	if errors.As(e.Err, &ae) {
		return ae.ErrorCode()
	}
	return ""
}

// UnprocessedItemsError is returned by BatchPut when DynamoDB reports items
// of a chunk that it could not write. Remaining chunks are not submitted.
type UnprocessedItemsError struct {
	Table string

	// Chunk is the 1-based index of the failed chunk.
	Chunk int

	// Count is the number of unprocessed write requests for Table.
	Count int

	// Requests are the unprocessed write requests as returned by DynamoDB.
	Requests []types.WriteRequest
}

func (e *UnprocessedItemsError) Error() string {
	return fmt.Sprintf("got %d unprocessed items from DynamoDB for table %s in chunk %d", e.Count, e.Table, e.Chunk)
}
