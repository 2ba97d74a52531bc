package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/arthur-debert/gffrules/pkg/errors"
)

// Registry is a generic, thread-safe registry for storing and retrieving items by name
type Registry[T any] interface {
	// Register adds an item to the registry
	Register(name string, item T) error

	// Get retrieves an item from the registry
	Get(name string) (T, error)

	// Lookup is Get without the error allocation, for hot paths
	Lookup(name string) (T, bool)

	// List returns all registered names in registration order
	List() []string

	// Has checks if an item is registered
	Has(name string) bool

	// Count returns the number of registered items
	Count() int
}

type registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

// New creates a new Registry instance
func New[T any]() Registry[T] {
	return &registry[T]{
		items: make(map[string]T),
	}
}

// Normalize is the key form used for every lookup.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *registry[T]) Register(name string, item T) error {
	key := Normalize(name)
	if key == "" {
		return errors.New(errors.ErrInvalidInput, "registry name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[key]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "item '%s' is already registered", key)
	}

	r.items[key] = item
	r.order = append(r.order, key)
	return nil
}

func (r *registry[T]) Get(name string) (T, error) {
	item, ok := r.Lookup(name)
	if !ok {
		var zero T
		return zero, errors.Newf(errors.ErrNotFound, "item '%s' not found in registry", Normalize(name))
	}
	return item, nil
}

func (r *registry[T]) Lookup(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[Normalize(name)]
	return item, ok
}

func (r *registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *registry[T]) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

func (r *registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

// MustRegister registers an item and panics if registration fails.
// Registration errors at wiring time are programming errors.
func MustRegister[T any](reg Registry[T], name string, item T) {
	if err := reg.Register(name, item); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", name, err))
	}
}
