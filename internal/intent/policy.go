package intent

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// Verdict is the outcome of a policy check.
type Verdict struct {
	rejected bool
	Code     int
	Reason   string
}

// Allow lets the operation proceed.
func Allow() Verdict {
	return Verdict{}
}

// Reject aborts the operation. code is reported to the caller as-is when it is a valid
// HTTP status; otherwise 403 is used.
func Reject(code int, reason string) Verdict {
	return Verdict{rejected: true, Code: code, Reason: reason}
}

// Rejected reports whether the verdict vetoes the operation.
func (v Verdict) Rejected() bool {
	return v.rejected
}

// Err converts a rejecting verdict into a RejectionError, or returns nil.
func (v Verdict) Err() error {
	if !v.rejected {
		return nil
	}
	return &RejectionError{Code: v.Code, Reason: v.Reason}
}

// RejectionError is returned by services when a policy vetoed the operation.
type RejectionError struct {
	Code   int
	Reason string
}

func (e *RejectionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("rejected by policy (code %d)", e.Code)
	}
	return fmt.Sprintf("rejected by policy: %s", e.Reason)
}

// StatusCode is the status to report for the rejection. Codes outside 200..599 become 403;
// a 1xx cannot carry the error body and would reach the client as a 200.
func (e *RejectionError) StatusCode() int {
	if e.Code < 200 || e.Code > 599 {
		return http.StatusForbidden
	}
	return e.Code
}

// Handler inspects an intent and decides whether it may commit. Handlers run synchronously
// on the request path.
type Handler func(ctx context.Context, in Intent) Verdict

// Checker is what write paths depend on to gate mutations.
type Checker interface {
	Check(ctx context.Context, in Intent) Verdict
}

type handlerKey struct {
	op           Op
	resourceType string
}

// Registry holds at most one handler per (op, resource type). The zero value is not usable;
// call NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	handlers map[handlerKey]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[handlerKey]Handler)}
}

// Before registers h to run before op on resourceType commits, replacing any previous handler.
func (r *Registry) Before(op Op, resourceType string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h == nil {
		delete(r.handlers, handlerKey{op: op, resourceType: resourceType})
		return
	}
	r.handlers[handlerKey{op: op, resourceType: resourceType}] = h
}

// ClearAll removes every registered handler.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = make(map[handlerKey]Handler)
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Check runs the handler matching the intent. Intents without a handler are allowed.
func (r *Registry) Check(ctx context.Context, in Intent) Verdict {
	r.mu.RLock()
	h := r.handlers[handlerKey{op: in.Op, resourceType: in.Target.Type}]
	r.mu.RUnlock()
	if h == nil {
		return Allow()
	}
	return h(ctx, in)
}
