package address

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// dirSegmentRegex validates a single directory segment, e.g. `src` or `my-lib.v2`.
	dirSegmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]*$`)

	// nameRegex validates a target name.
	nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]*$`)
)

// isValidDirSegment rejects undesirable but technically matching segments.
func isValidDirSegment(segment string) bool {
	return segment != "." && segment != ".."
}

// Parse creates an Address by parsing its canonical spec string, e.g.
// `src/app:main` or `//:root-target`.
func Parse(spec string) (Address, error) {
	if spec == "" {
		return Address{}, fmt.Errorf("address spec cannot be empty")
	}

	colon := strings.IndexByte(spec, ':')
	if colon < 0 {
		return Address{}, fmt.Errorf("address spec %q is missing a ':' separator", spec)
	}
	if strings.IndexByte(spec[colon+1:], ':') >= 0 {
		return Address{}, fmt.Errorf("address spec %q contains more than one ':'", spec)
	}

	dir := spec[:colon]
	name := spec[colon+1:]

	// `//` is the explicit marker for the workspace root directory.
	if dir == "//" {
		dir = ""
	}

	if dir != "" {
		for _, segment := range strings.Split(dir, "/") {
			if segment == "" {
				return Address{}, fmt.Errorf("address spec %q contains an empty directory segment", spec)
			}
			if !dirSegmentRegex.MatchString(segment) || !isValidDirSegment(segment) {
				return Address{}, fmt.Errorf("invalid directory segment %q in address spec %q", segment, spec)
			}
		}
	}

	if !nameRegex.MatchString(name) {
		return Address{}, fmt.Errorf("invalid target name %q in address spec %q", name, spec)
	}

	return Address{dir: dir, name: name}, nil
}

// ParseRelative parses a dependency spec as written inside a target block.
// A spec of the form `:name` refers to a sibling target in the same
// directory as the declaring target.
func ParseRelative(spec, dir string) (Address, error) {
	if strings.HasPrefix(spec, ":") {
		if !nameRegex.MatchString(spec[1:]) {
			return Address{}, fmt.Errorf("invalid target name %q in relative spec %q", spec[1:], spec)
		}
		return Address{dir: dir, name: spec[1:]}, nil
	}
	return Parse(spec)
}
