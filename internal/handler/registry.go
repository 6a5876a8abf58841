package handler

import (
	"fmt"
	"sort"
	"sync"

	"github.com/famomatic/bilidown/internal/types"
)

// Registry maps categories to handlers. It is assembled once and then only read.
type Registry struct {
	mu       sync.RWMutex
	handlers map[types.Category]Handler
}

// NewRegistry registers every handler, failing on the first duplicate.
func NewRegistry(handlers ...Handler) (*Registry, error) {
	r := &Registry{handlers: make(map[types.Category]Handler, len(handlers))}
	for _, h := range handlers {
		if err := r.Register(h); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds h under its category.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("%w: nil handler", types.ErrUnknownCategory)
	}
	category := h.Category()
	if !category.Valid() {
		return fmt.Errorf("%w: %q", types.ErrUnknownCategory, category)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[category]; exists {
		return fmt.Errorf("%w: %q", types.ErrDuplicateRegistration, category)
	}
	r.handlers[category] = h
	return nil
}

// Resolve returns the handler registered for category.
func (r *Registry) Resolve(category types.Category) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownCategory, category)
	}
	return h, nil
}

// Categories returns the registered tags in sorted order.
func (r *Registry) Categories() []types.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Category, 0, len(r.handlers))
	for c := range r.handlers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
