// Package options implements the functional options shared by strcol readers and writers.
package options

// Option configures a target of type T, typically a pointer to a config struct.
type Option[T any] interface {
	apply(T) error
}

// Func adapts a function to Option.
type Func[T any] struct {
	fn func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.fn(target)
}

// New creates an option whose function may reject its argument.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{fn: fn}
}

// NoError creates an option that cannot fail.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{fn: func(target T) error {
		fn(target)
		return nil
	}}
}

// Apply applies opts to target in order and stops at the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}

// Prepend returns base followed by opts in a new slice, so options derived from data,
// such as a column's null bitmap, can be overridden by the caller's.
func Prepend[T any](opts []Option[T], base ...Option[T]) []Option[T] {
	all := make([]Option[T], 0, len(base)+len(opts))
	all = append(all, base...)

	return append(all, opts...)
}
