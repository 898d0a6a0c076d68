package action

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jacentio/dynamodb-actions/store"
)

// OutputItem is the output name under which get reports the item.
const OutputItem = "item"

// Output holds the named outputs of a request. Only get produces any; the
// other operations return a nil Output.
type Output map[string]string

// Execute runs a validated request against s. Files named by the request are
// read here, so a missing file surfaces as a *FileError from Execute rather
// than from Validate.
func Execute(ctx context.Context, s *store.Store, req Request) (Output, error) {
	switch r := req.(type) {
	case *GetRequest:
		return executeGet(ctx, s, r)
	case *PutRequest:
		return nil, executePut(ctx, s, r)
	case *BatchPutRequest:
		return nil, executeBatchPut(ctx, s, r)
	case *DeleteRequest:
		return nil, s.Delete(ctx, r.Table, r.Key)
	case *UpdateRequest:
		return nil, executeUpdate(ctx, s, r)
	default:
		return nil, fmt.Errorf("unsupported request type %T", req)
	}
}

func executeGet(ctx context.Context, s *store.Store, r *GetRequest) (Output, error) {
	item, err := s.Get(ctx, r.Table, r.Key, r.Consistent)
	if err != nil {
		return nil, err
	}
	out, err := encodeJSON(item)
	if err != nil {
		return nil, err
	}
	return Output{OutputItem: out}, nil
}

func executePut(ctx context.Context, s *store.Store, r *PutRequest) error {
	item := r.Item
	if r.File != "" {
		var err error
		if item, err = readItemFile(r.File); err != nil {
			return err
		}
	}
	return s.Put(ctx, r.Table, item)
}

func executeBatchPut(ctx context.Context, s *store.Store, r *BatchPutRequest) error {
	items := r.Items
	if r.Files != "" {
		paths, err := globFiles(r.Files)
		if err != nil {
			return err
		}
		items = make([]store.Item, 0, len(paths))
		for _, path := range paths {
			item, err := readItemFile(path)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
	}
	return s.BatchPut(ctx, r.Table, items)
}

func executeUpdate(ctx context.Context, s *store.Store, r *UpdateRequest) error {
	values := make([]any, 0, len(r.Attributes))
	if r.Values != nil {
		for _, v := range r.Values {
			values = append(values, v)
		}
	} else {
		for _, path := range r.ValueFiles {
			v, err := readJSONFile(path)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
	}

	update, err := store.BuildUpdate(r.Attributes, values)
	if err != nil {
		return err
	}
	return s.Update(ctx, r.Table, r.Key, update)
}

// encodeJSON renders v as compact JSON without HTML escaping.
func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode output: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
