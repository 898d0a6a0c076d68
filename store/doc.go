// Package store provides the DynamoDB access layer used by the operations.
//
// It turns plain JSON-like values into DynamoDB attribute values and back,
// builds clients for real regions or local emulators, and implements the two
// pieces of store logic the operations rely on: chunked batch writes with
// fail-fast detection of unprocessed items, and SET update expressions built
// from attribute lists.
//
// # Client
//
// All operations go through the [Client] interface, a subset of the
// aws-sdk-go-v2 *dynamodb.Client:
//
//	client, err := store.NewClient(ctx, "http://127.0.0.1:8000")
//	s := store.New(client, nil)
//
// An endpoint matching http(s):// points the client at that URL with a
// placeholder region; anything else is treated as a region name.
//
// # Values
//
// Items and keys are plain Go values as produced by encoding/json with
// UseNumber: map[string]any, []any, string, json.Number, bool and nil.
// Numbers keep their original text across a round trip, so 12345 is written
// as N "12345" and read back as 12345.
//
// # Errors
//
//   - [*StoreError] - the underlying DynamoDB call failed
//   - [*UnprocessedItemsError] - a batch chunk came back with unprocessed items
//   - [ErrUpdateMismatch] and friends - an update expression could not be built
package store
