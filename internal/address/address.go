package address

import (
	"slices"
	"strings"
)

// Address identifies a single build target within a workspace. The zero
// value is not a valid address; use Parse or New to construct one.
type Address struct {
	dir  string
	name string
}

// New constructs an Address from an already-validated directory path and
// target name. Callers holding unvalidated user input should use Parse.
func New(dir, name string) Address {
	return Address{dir: dir, name: name}
}

// Dir returns the workspace-relative directory of the declaring file.
// The workspace root is the empty string.
func (a Address) Dir() string {
	return a.dir
}

// Name returns the target name.
func (a Address) Name() string {
	return a.name
}

// IsZero reports whether the address is the invalid zero value.
func (a Address) IsZero() bool {
	return a.name == ""
}

// String serializes the Address into its canonical spec representation,
// `dir/path:name`, or `//:name` for root-level targets.
func (a Address) String() string {
	if a.dir == "" {
		return "//:" + a.name
	}
	return a.dir + ":" + a.name
}

// Equal reports whether two addresses identify the same target.
func (a Address) Equal(other Address) bool {
	return a == other
}

// Compare orders addresses by their canonical string form. It returns
// -1, 0, or +1 in the manner of strings.Compare.
func (a Address) Compare(other Address) int {
	return strings.Compare(a.String(), other.String())
}

// Less reports whether a sorts before other.
func (a Address) Less(other Address) bool {
	return a.Compare(other) < 0
}

// Sort orders a slice of addresses in place by canonical string form.
func Sort(addrs []Address) {
	slices.SortFunc(addrs, Address.Compare)
}

// Specs converts a slice of addresses into their canonical spec strings,
// preserving order.
func Specs(addrs []Address) []string {
	specs := make([]string, len(addrs))
	for i, a := range addrs {
		specs[i] = a.String()
	}
	return specs
}
