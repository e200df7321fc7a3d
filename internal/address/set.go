package address

// Set is an unordered collection of unique addresses. The zero value is not
// usable; construct sets with NewSet. Union and Difference return fresh
// sets rather than mutating their receivers, so fixed-point iterations can
// snapshot each round cheaply.
type Set struct {
	m map[Address]struct{}
}

// NewSet creates a Set containing the given addresses.
func NewSet(addrs ...Address) Set {
	s := Set{m: make(map[Address]struct{}, len(addrs))}
	for _, a := range addrs {
		s.m[a] = struct{}{}
	}
	return s
}

// Add inserts an address into the set.
func (s Set) Add(a Address) {
	s.m[a] = struct{}{}
}

// Contains reports whether the set holds the given address.
func (s Set) Contains(a Address) bool {
	_, ok := s.m[a]
	return ok
}

// Len returns the number of addresses in the set.
func (s Set) Len() int {
	return len(s.m)
}

// IsEmpty reports whether the set holds no addresses.
func (s Set) IsEmpty() bool {
	return len(s.m) == 0
}

// Union returns a new set holding every address present in either set.
func (s Set) Union(other Set) Set {
	out := NewSet()
	for a := range s.m {
		out.m[a] = struct{}{}
	}
	for a := range other.m {
		out.m[a] = struct{}{}
	}
	return out
}

// Difference returns a new set holding the addresses of s that are not in
// other.
func (s Set) Difference(other Set) Set {
	out := NewSet()
	for a := range s.m {
		if !other.Contains(a) {
			out.m[a] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members of the set ordered by canonical string form.
// Consumers that surface results externally rely on this for deterministic
// output.
func (s Set) Sorted() []Address {
	out := make([]Address, 0, len(s.m))
	for a := range s.m {
		out = append(out, a)
	}
	Sort(out)
	return out
}
