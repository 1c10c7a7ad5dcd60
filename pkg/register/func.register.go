package register

import "sync"

// registry collects init-time hooks keyed by an arbitrary comparable value,
// typically an empty struct type owned by the resolving package. Stores use
// it to attach themselves to the provider before the provider exists.
type registry struct {
	mu       sync.Mutex
	handlers map[any][]any
}

var global = &registry{
	handlers: make(map[any][]any),
}

type Handler[T any] func(T)

// RegisterFunc queues a hook under key. Safe to call from init().
func RegisterFunc[T any](key any, handler Handler[T]) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.handlers[key] = append(global.handlers[key], handler)
}

// ResolveFuncHandlers returns the hooks queued under key whose argument type
// matches T, in registration order.
func ResolveFuncHandlers[T any](key any) []Handler[T] {
	global.mu.Lock()
	defer global.mu.Unlock()

	var matched []Handler[T]
	for _, raw := range global.handlers[key] {
		if h, ok := raw.(Handler[T]); ok {
			matched = append(matched, h)
		}
	}
	return matched
}
