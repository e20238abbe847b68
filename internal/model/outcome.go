package model

// Outcome is the result of one external capability call.
// Value is always usable: on failure or skip it holds the documented default.
type Outcome[T any] struct {
	Value   T
	Err     error // Call failed
	Skipped bool  // Capability not configured, call never made
}

// Succeeded wraps a value returned by a capability
func Succeeded[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Failed wraps the default substituted after a failed call
func Failed[T any](fallback T, err error) Outcome[T] {
	return Outcome[T]{Value: fallback, Err: err}
}

// Skipped wraps the default used when a capability is unconfigured
func Skipped[T any](fallback T) Outcome[T] {
	return Outcome[T]{Value: fallback, Skipped: true}
}

// OK reports whether the capability produced the value itself
func (o Outcome[T]) OK() bool {
	return o.Err == nil && !o.Skipped
}

// Label names the outcome for logs and metrics
func (o Outcome[T]) Label() string {
	switch {
	case o.Skipped:
		return "skipped"
	case o.Err != nil:
		return "failed"
	default:
		return "ok"
	}
}
