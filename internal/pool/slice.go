package pool

// Ensure returns s resized to length n, reusing its backing array when the capacity
// suffices. Capacity only ever grows, so a reader that reuses the returned slice
// across batches settles at the size of its largest batch.
//
// Contents are preserved up to min(len(s), n); anything beyond is unspecified.
func Ensure[T any](s []T, n int) []T {
	if cap(s) >= n {
		return s[:n]
	}

	grown := make([]T, n, max(n, 2*cap(s)))
	copy(grown, s)

	return grown
}
