// Package gateway defines the Agent Gateway capability: executing one prompt
// against an external language-model CLI and returning its message, event
// stream, and usage accounting. Three interchangeable adapters (codex,
// claude, mock) are selected at startup; callers never branch on which one
// is active.
package gateway

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/koushik24k/AgentFlow/types"
)

type Adapter interface {
	Name() string
	Invoke(ctx context.Context, prompt string) (types.AgentResult, error)
}

// InvocationError is the typed failure of an Agent Gateway call: non-zero
// exit, malformed transport output, or an unreachable binary.
type InvocationError struct {
	Adapter string
	Message string
	Err     error
}

func (e *InvocationError) Error() string {
	if e == nil {
		return "gateway invocation failed"
	}
	if e.Message != "" {
		return fmt.Sprintf("%s invocation failed: %s", e.Adapter, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s invocation failed: %v", e.Adapter, e.Err)
	}
	return fmt.Sprintf("%s invocation failed", e.Adapter)
}

func (e *InvocationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Config carries adapter construction settings resolved from the
// environment by the caller.
type Config struct {
	CodexBinary  string
	ClaudeBinary string
}

type Factory func(cfg Config) (Adapter, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

func Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("adapter name is required")
	}
	if factory == nil {
		return fmt.Errorf("adapter factory for %q is nil", name)
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		return fmt.Errorf("adapter %q already registered", name)
	}
	factories[name] = factory
	return nil
}

func MustRegister(name string, factory Factory) {
	if err := Register(name, factory); err != nil {
		panic(err)
	}
}

// New constructs the named adapter.
func New(name string, cfg Config) (Adapter, error) {
	mu.RLock()
	factory, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown adapter %q (use one of %v)", name, Names())
	}
	return factory(cfg)
}

func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for name := range factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
