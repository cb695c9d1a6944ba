package filehandler

import (
	"fmt"
	"sync"

	rperrors "github.com/nagare-go/nagare/internal/errors"
)

// Registry holds an ordered list of handlers. Find iterates in registration
// order, returning the first whose Detector matches — built-ins are
// registered first, custom handlers are appended after them, so a custom
// handler can only take priority by being more specific than it is early.
type Registry struct {
	mu       sync.RWMutex
	handlers []*Handler
}

// NewRegistry returns a registry pre-populated with the built-in handlers.
func NewRegistry() *Registry {
	r := &Registry{}
	for _, h := range BuiltinHandlers() {
		r.handlers = append(r.handlers, h)
	}
	return r
}

// Register appends a handler to the registry. Custom handlers registered
// via configuration are appended after the built-ins, per spec: plugin
// registration becomes "an ordered list built at startup; custom handlers
// are provided via configuration and appended after the built-ins."
func (r *Registry) Register(h *Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, h)
}

// Find returns the first handler whose Detector matches path.
func (r *Registry) Find(path string) (*Handler, error) {
	const op = "filehandler.Find"

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.handlers {
		if h.Detector(path) {
			return h, nil
		}
	}
	return nil, rperrors.NotFound(op, fmt.Sprintf("no file handler registered for %s", path)).WithCode(rperrors.CodeFileHandlerNotFound)
}

// Update locates the handler for path and applies it, writing the result
// atomically.
func (r *Registry) Update(root, path, newVersion string) (*UpdateResult, error) {
	h, err := r.Find(path)
	if err != nil {
		return nil, err
	}
	return h.Update(root, path, newVersion)
}

// Preview locates the handler for path and computes its would-be change
// against the supplied content, without touching disk.
func (r *Registry) Preview(path string, content []byte, newVersion string) (*UpdateResult, error) {
	h, err := r.Find(path)
	if err != nil {
		return nil, err
	}
	return h.Preview(content, newVersion)
}

// Handlers returns a snapshot of the registered handlers, in order.
func (r *Registry) Handlers() []*Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Handler, len(r.handlers))
	copy(out, r.handlers)
	return out
}
