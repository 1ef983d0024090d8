package gamedata

// Result carries either a value or the reason it could not be produced.
// Exported fail-soft methods flatten it; Fetch* methods hand it to callers
// that need to tell "empty" apart from "failed".
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps an error.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// OK reports whether the result succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// OrElse returns the value, or fallback when the result failed.
func (r Result[T]) OrElse(fallback T) T {
	if r.Err != nil {
		return fallback
	}
	return r.Value
}
