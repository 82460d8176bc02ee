package trace

import "context"

type ctxKey struct{}

// FromContext returns the tracer the command attached for this run, or Nop.
// The driver and the watcher pull their tracer from here instead of taking it
// as an option.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer returns a copy of ctx carrying t. A nil t stores Nop, so
// FromContext never hands back nil.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}
