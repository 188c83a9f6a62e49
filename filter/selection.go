package filter

import (
	"cmp"
	"slices"
)

// Selection is the choice for one filter dimension. The zero value selects
// everything; Only builds an explicit subset, which may be empty and then
// matches nothing.
type Selection[T cmp.Ordered] struct {
	explicit bool
	values   map[T]struct{}
}

func All[T cmp.Ordered]() Selection[T] {
	return Selection[T]{}
}

func Only[T cmp.Ordered](values ...T) Selection[T] {
	set := make(map[T]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return Selection[T]{explicit: true, values: set}
}

// IsAll reports whether the dimension is unfiltered.
func (s Selection[T]) IsAll() bool {
	return !s.explicit
}

func (s Selection[T]) Contains(value T) bool {
	if !s.explicit {
		return true
	}
	_, ok := s.values[value]
	return ok
}

func (s Selection[T]) Len() int {
	return len(s.values)
}

// Values returns the explicit subset in ascending order; nil for All.
func (s Selection[T]) Values() []T {
	if !s.explicit {
		return nil
	}
	out := make([]T, 0, len(s.values))
	for value := range s.values {
		out = append(out, value)
	}
	slices.Sort(out)
	return out
}

// covers reports whether an explicit selection contains every value in available.
func (s Selection[T]) covers(available []T) bool {
	if !s.explicit {
		return true
	}
	for _, value := range available {
		if _, ok := s.values[value]; !ok {
			return false
		}
	}
	return true
}
