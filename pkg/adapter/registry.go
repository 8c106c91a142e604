package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/querygraph/pkg/core"
)

// Factory creates an unconnected adapter logging to the given logger.
type Factory func(*slog.Logger) Adapter

// ErrNoAdapterType is returned by NewAdapter for a config without a type.
var ErrNoAdapterType = errors.New("adapter type not specified")

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// aliases maps alternate spellings onto registered names.
	aliases = make(map[string]string)
)

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds an adapter factory under name and any aliases. Names are
// case-insensitive. Adapters call it from init().
func Register(name string, factory Factory, alias ...string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	name = key(name)
	factories[name] = factory
	for _, a := range alias {
		aliases[key(a)] = name
	}
}

// resolve returns the registered name for name or one of its aliases.
// Callers hold registryMu.
func resolve(name string) (string, bool) {
	name = key(name)
	if target, ok := aliases[name]; ok {
		name = target
	}
	_, ok := factories[name]
	return name, ok
}

// Get retrieves an adapter factory by name or alias.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	name, ok := resolve(name)
	if !ok {
		return nil, false
	}
	return factories[name], true
}

// NewAdapter creates an unconnected adapter for cfg.Type. A nil logger
// discards.
func NewAdapter(cfg core.AdapterConfig, logger *slog.Logger) (Adapter, error) {
	if key(cfg.Type) == "" {
		return nil, ErrNoAdapterType
	}
	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownAdapterError{Type: cfg.Type, Available: ListAdapters()}
	}
	return factory(logger), nil
}

// ListAdapters returns the registered adapter names, sorted. Aliases are
// not listed.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether name or an alias of it is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := resolve(name)
	return ok
}

// UnknownAdapterError is returned when an unknown adapter type is requested.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q\nAvailable adapters: %v\nHint: Check target.type in querygraph.yaml", e.Type, e.Available)
}
