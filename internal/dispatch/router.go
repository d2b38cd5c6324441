package dispatch

import "fmt"

// Handler replays one view kind from its persisted params. The handler owns
// decoding the params onto its typed options (with defaults pre-filled) and
// re-running the view against current repository data.
type Handler func(params map[string]any) error

// Router maps view kinds to replay handlers. Each list command registers
// itself once at startup.
type Router struct {
	handlers map[ViewKind]Handler
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{handlers: make(map[ViewKind]Handler)}
}

// Register installs the handler for a view kind. Later registrations for
// the same kind overwrite earlier ones.
func (r *Router) Register(kind ViewKind, handler Handler) {
	r.handlers[kind] = handler
}

// Replay re-invokes the handler matching the record's kind. A kind with no
// handler (deprecated or written by a newer build) returns
// ErrDeprecatedViewKind so the caller can skip instead of crash.
func (r *Router) Replay(rec Record) error {
	handler, ok := r.handlers[rec.Kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrDeprecatedViewKind, rec.Kind)
	}

	return handler(rec.Params)
}
