package param

import (
	"errors"
	"fmt"
	"sync"
)

// Registry errors
var (
	ErrDuplicateParameter = errors.New("duplicate parameter")
	ErrUnknownParameter   = errors.New("unknown parameter")
)

// Registry manages plugin parameters.
//
// Parameters are registered once during construction. The audio goroutine
// should hold direct *Parameter pointers instead of going through the
// registry, since lookups take a read lock.
type Registry struct {
	params map[uint32]*Parameter
	keys   map[string]uint32
	order  []uint32 // Maintain order for indexed access
	mu     sync.RWMutex
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[uint32]*Parameter),
		keys:   make(map[string]uint32),
		order:  make([]uint32, 0),
	}
}

// Add registers new parameters. IDs and keys must be unique.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if _, exists := r.params[p.ID]; exists {
			return fmt.Errorf("%w: id %d", ErrDuplicateParameter, p.ID)
		}
		if _, exists := r.keys[p.Key]; exists {
			return fmt.Errorf("%w: key %q", ErrDuplicateParameter, p.Key)
		}
		r.params[p.ID] = p
		r.keys[p.Key] = p.ID
		r.order = append(r.order, p.ID)
	}

	return nil
}

// Get retrieves a parameter by ID
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// GetByKey retrieves a parameter by its stable key
func (r *Registry) GetByKey(key string) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.keys[key]
	if !ok {
		return nil
	}
	return r.params[id]
}

// Lookup is GetByKey with an error for unknown keys.
func (r *Registry) Lookup(key string) (*Parameter, error) {
	if p := r.GetByKey(key); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, key)
}

// GetByIndex retrieves a parameter by index
func (r *Registry) GetByIndex(index int32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= int32(len(r.order)) {
		return nil
	}

	id := r.order[index]
	return r.params[id]
}

// Count returns the number of parameters
func (r *Registry) Count() int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int32(len(r.order))
}

// All returns all parameters in order
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}

	return result
}

// Value is a read-only view of a parameter at one point in time.
type Value struct {
	ID         uint32
	Key        string
	Name       string
	Normalized float64
	Plain      float64
	Display    string
}

// Snapshot returns the current values of all parameters in order.
func (r *Registry) Snapshot() []Value {
	params := r.All()
	values := make([]Value, len(params))
	for i, p := range params {
		n := p.GetValue()
		values[i] = Value{
			ID:         p.ID,
			Key:        p.Key,
			Name:       p.Name,
			Normalized: n,
			Plain:      p.Denormalize(n),
			Display:    p.FormatValue(n),
		}
	}
	return values
}

// ResetAll restores every parameter to its default.
func (r *Registry) ResetAll() {
	for _, p := range r.All() {
		p.Reset()
	}
}
