// Package action validates and executes DynamoDB operation requests supplied
// as loosely typed string input.
//
// A request goes through three steps:
//
//	raw := action.NewRawInput(map[string]string{
//	    "operation": "get",
//	    "region":    "http://127.0.0.1:8000",
//	    "table":     "my-table",
//	    "key":       `{key: "foo"}`,
//	})
//	out, err := action.NewProcessor().Process(ctx, raw)
//
// [Validate] turns the raw input into one of the request types
// ([GetRequest], [PutRequest], [BatchPutRequest], [DeleteRequest],
// [UpdateRequest]); [Execute] runs it against a [store.Store]. [Processor]
// wires the two together with a fresh client per call.
//
// Errors are [*ValidationError] for bad input, [*FileError] for file and
// glob problems, and the store package's error types for DynamoDB failures.
package action
