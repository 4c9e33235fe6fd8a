package fn

// Map applies the given mapping function to each element of the given slice
// and generates a new slice.
func Map[I, O any, S []I](s S, f func(I) O) []O {
	output := make([]O, len(s))

	for i, x := range s {
		output[i] = f(x)
	}

	return output
}

// MapErr applies the given fallible mapping function to each element of the
// given slice and generates a new slice. This is identical to Map, but
// returns early if any single mapping fails.
func MapErr[I, O any, S []I](s S, f func(I) (O, error)) ([]O, error) {
	output := make([]O, 0, len(s))

	for _, x := range s {
		outputX, err := f(x)
		if err != nil {
			return nil, err
		}

		output = append(output, outputX)
	}

	return output, nil
}

// Reduce takes a slice of something, an initial accumulator, and a reducer,
// and produces a final accumulated value.
func Reduce[T, V any](s []V, initial T, f func(accum T, value V) T) T {
	accum := initial

	for _, x := range s {
		accum = f(accum, x)
	}

	return accum
}

// All returns true if the passed predicate returns true for all items in the
// slice.
func All[T any](xs []T, pred func(T) bool) bool {
	for _, x := range xs {
		if !pred(x) {
			return false
		}
	}

	return true
}

// Any returns true if the passed predicate returns true for any item in the
// slice.
func Any[T any](xs []T, pred func(T) bool) bool {
	for _, x := range xs {
		if pred(x) {
			return true
		}
	}

	return false
}
