package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable means the provider has no credential configured. The
// chat surface maps it to a structured error before any streaming starts.
var ErrUnavailable = errors.New("ai provider not configured")

// DeltaFunc receives one incremental text fragment of a streamed
// generation. Returning an error stops the relay.
type DeltaFunc func(text string) error

// IProvider is a black-box streaming text generator. GenerateStream
// invokes onDelta for each incremental fragment, in order, and returns
// once the upstream signals completion.
type IProvider interface {
	Name() string
	// Configured reports whether a credential is present. Callers check
	// it before opening a client stream so a missing credential fails
	// fast instead of mid-relay.
	Configured() bool
	GenerateStream(ctx context.Context, model string, prompt string, onDelta DeltaFunc) error
}

type ProviderFactory func(args interface{}) (IProvider, error)

var registry = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string, args interface{}) (IProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("chat.provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("ai provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode ai provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode ai provider config: %w", err)
	}
	return nil
}
