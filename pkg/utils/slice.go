package utils

// apply mapper to each element of sli and collect the results.
//
// The result has the same length and ordering as sli.
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}

// apply mapper to each element of sli, stopping at the first error.
//
// On error, it returns (nil, the error). No partial result is exposed.
func MapUntilError[T any, R any](sli []T, mapper func(v T) (R, error)) ([]R, error) {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		r, err := mapper(v)
		if err != nil {
			return nil, err
		}
		ret[nth] = r
	}
	return ret, nil
}

// index sli by the key getkey extracts from each element.
//
// When keys collide, the later element wins.
func ToMap[T any, K comparable](sli []T, getkey func(v T) K) map[K]T {
	m := make(map[K]T, len(sli))
	for _, v := range sli {
		m[getkey(v)] = v
	}
	return m
}

// collect keys of m. Ordering is not specified.
func KeysOf[T any, K comparable](m map[K]T) []K {
	sli := make([]K, 0, len(m))
	for k := range m {
		sli = append(sli, k)
	}
	return sli
}

// collect values of m. Ordering is not specified.
func ValuesOf[T any, K comparable](m map[K]T) []T {
	sli := make([]T, 0, len(m))
	for _, v := range m {
		sli = append(sli, v)
	}
	return sli
}
