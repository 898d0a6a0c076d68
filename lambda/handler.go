// Package lambda adapts the action processor to AWS Lambda invocations.
package lambda

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/jacentio/dynamodb-actions/action"
)

// Handler processes one action per invocation. The event is a JSON object
// holding the same fields as the CLI inputs; the response is the output map.
type Handler struct {
	processor *action.Processor
	logger    *slog.Logger
}

// NewHandler creates a new Lambda handler.
func NewHandler(p *action.Processor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if p == nil {
		p = action.NewProcessor(action.WithLogger(logger))
	}
	return &Handler{
		processor: p,
		logger:    logger,
	}
}

// Handle processes a single invocation. This function is designed to be used
// as an AWS Lambda handler.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (action.Output, error) {
	logger := h.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With("requestId", lc.AwsRequestID)
	}

	fields, err := decodeEvent(event)
	if err != nil {
		logger.Error("failed to decode event", "error", err)
		return nil, err
	}

	out, err := h.processor.Process(ctx, action.FromMap(fields))
	if err != nil {
		logger.Error("failed to process event",
			"operation", fields[action.FieldOperation],
			"error", err,
		)
		return nil, err
	}
	if out == nil {
		out = action.Output{}
	}
	return out, nil
}

// decodeEvent decodes an event object, keeping numbers as json.Number.
func decodeEvent(event json.RawMessage) (map[string]any, error) {
	if len(bytes.TrimSpace(event)) == 0 {
		return nil, errors.New("empty event")
	}

	dec := json.NewDecoder(bytes.NewReader(event))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if fields == nil {
		return nil, errors.New("event must be a JSON object")
	}
	return fields, nil
}
