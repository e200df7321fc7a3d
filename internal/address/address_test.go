package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	testCases := []struct {
		name        string
		addr        Address
		expectedStr string
	}{
		{
			name:        "simple path",
			addr:        New("src/app", "main"),
			expectedStr: "src/app:main",
		},
		{
			name:        "nested path",
			addr:        New("src/lib/core", "core"),
			expectedStr: "src/lib/core:core",
		},
		{
			name:        "workspace root",
			addr:        New("", "tools"),
			expectedStr: "//:tools",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.addr.String())
		})
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	testSpecs := []string{
		"src/app:main",
		"src/lib-v2:http.client",
		"//:root",
	}

	for _, spec := range testSpecs {
		t.Run(spec, func(t *testing.T) {
			addr, err := Parse(spec)
			require.NoError(t, err)

			roundTripSpec := addr.String()
			assert.Equal(t, spec, roundTripSpec)

			roundTripAddr, err := Parse(roundTripSpec)
			require.NoError(t, err)
			assert.True(t, addr.Equal(roundTripAddr))
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		spec string
	}{
		{name: "empty", spec: ""},
		{name: "missing separator", spec: "src/app"},
		{name: "double separator", spec: "src:app:main"},
		{name: "empty name", spec: "src/app:"},
		{name: "empty dir segment", spec: "src//app:main"},
		{name: "dot segment", spec: "src/./app:main"},
		{name: "parent segment", spec: "../app:main"},
		{name: "leading slash segment", spec: "/src:main"},
		{name: "space in name", spec: "src:my target"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.spec)
			assert.Error(t, err)
		})
	}
}

func TestParseRelative(t *testing.T) {
	addr, err := ParseRelative(":sibling", "src/app")
	require.NoError(t, err)
	assert.Equal(t, "src/app:sibling", addr.String())

	addr, err = ParseRelative("src/lib:core", "src/app")
	require.NoError(t, err)
	assert.Equal(t, "src/lib:core", addr.String())

	_, err = ParseRelative(":", "src/app")
	assert.Error(t, err)
}

func TestAddress_Ordering(t *testing.T) {
	a := New("src/a", "x")
	b := New("src/b", "x")
	root := New("", "x")

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.Equal(t, 0, a.Compare(New("src/a", "x")))

	addrs := []Address{b, a, root}
	Sort(addrs)
	assert.Equal(t, []string{"//:x", "src/a:x", "src/b:x"}, Specs(addrs))
}

func TestSet_Operations(t *testing.T) {
	a := New("src", "a")
	b := New("src", "b")
	c := New("src", "c")

	s := NewSet(a, b)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(a))
	assert.False(t, s.Contains(c))

	union := s.Union(NewSet(b, c))
	assert.Equal(t, 3, union.Len())
	// Union must not mutate its inputs.
	assert.Equal(t, 2, s.Len())

	diff := union.Difference(NewSet(b))
	assert.Equal(t, []string{"src:a", "src:c"}, Specs(diff.Sorted()))

	assert.True(t, NewSet().IsEmpty())
	assert.False(t, s.IsEmpty())
}
