package action

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jacentio/dynamodb-actions/store"
)

// ClientFactory builds the DynamoDB client for a region name or endpoint URL.
type ClientFactory func(ctx context.Context, endpoint string) (store.Client, error)

// DefaultClientFactory builds clients with store.NewClient.
func DefaultClientFactory(ctx context.Context, endpoint string) (store.Client, error) {
	client, err := store.NewClient(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Processor runs one request per Process call: validate, build a client,
// execute.
type Processor struct {
	newClient ClientFactory
	logger    *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithClientFactory replaces the client factory, e.g. with a test fake.
func WithClientFactory(f ClientFactory) Option {
	return func(p *Processor) {
		p.newClient = f
	}
}

// WithLogger sets the logger used by the processor and its store.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// NewProcessor creates a new Processor.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		newClient: DefaultClientFactory,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.newClient == nil {
		p.newClient = DefaultClientFactory
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Process validates raw and executes it. No client is created when
// validation fails.
func (p *Processor) Process(ctx context.Context, raw RawInput) (Output, error) {
	req, err := Validate(raw)
	if err != nil {
		p.logger.Debug("input rejected", "error", err)
		return nil, err
	}

	logger := p.logger.With(
		"operation", req.Operation().String(),
		"table", req.TableName(),
		"endpoint", req.Endpoint(),
	)
	logger.Debug("input validated", "request", req)

	client, err := p.newClient(ctx, req.Endpoint())
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	out, err := Execute(ctx, store.New(client, logger), req)
	if err != nil {
		logger.Debug("operation failed", "error", err)
		return nil, err
	}

	logger.Info("operation completed", "outputs", len(out))
	return out, nil
}
