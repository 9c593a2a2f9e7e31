package domain

// Result is the all-or-nothing outcome of a privileged call: either Value is
// set and Failure is nil, or Failure is set and Value is the zero value.
type Result[T any] struct {
	Value   T
	Failure *Failure
}

func Success[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

func Fail[T any](failure *Failure) Result[T] {
	return Result[T]{Failure: failure}
}

func (r Result[T]) OK() bool {
	return r.Failure == nil
}

func (r Result[T]) Unwrap() (T, error) {
	if r.Failure != nil {
		var zero T
		return zero, r.Failure
	}

	return r.Value, nil
}
