// Package result provides a small tagged result type for read paths
// that degrade gracefully: callers can tell "confirmed empty" apart
// from "failed to determine" instead of both collapsing into a zero
// value.
package result

// Result holds either a value or the error that prevented reading it.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successfully read value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err wraps a read failure.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// From builds a Result from a conventional (value, error) pair.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(v)
}

// IsOk reports whether the read succeeded.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Value returns the value and whether it is trustworthy.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.err == nil
}

// OrDefault returns the value on success, or fallback on failure.
func (r Result[T]) OrDefault(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// Err returns the read error, nil on success.
func (r Result[T]) Err() error {
	return r.err
}
