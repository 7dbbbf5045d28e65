package sliceutils

func Cut[T any](slice []T, start, end int) []T {
	if len(slice) == 0 {
		return slice
	}

	if start < 0 {
		start = len(slice) + start
	}
	if end < 0 {
		end = len(slice) + end
	}

	return slice[max(start, 0):max(min(end, len(slice)), max(start, 0))]
}

// Head returns at most the first n elements of slice.
func Head[T any](slice []T, n int) []T {
	if n < 0 {
		return slice
	}
	return Cut(slice, 0, n)
}
