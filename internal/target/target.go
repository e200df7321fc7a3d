// Package target defines the build-graph vertex: a declared target with its
// address and forward dependency edges.
//
// A target's dependencies come in two kinds. Unconditional deps are always
// edges of the graph. Conditional groups carry a `when` HCL expression that
// is evaluated once, at load time, against the workspace variables. The
// expression is kept on the group (rather than evaluated and discarded) so
// diagnostics can point back at the source, matching how step attributes
// stay deferred in the configuration model.
package target

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/depgridgo/internal/address"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Policy selects which declared dependency edges a traversal follows.
type Policy int

const (
	// PolicyAll follows every declared edge, including conditional groups
	// regardless of their `when` predicate. Dependents analysis and path
	// finding use this policy so they never under-count edges.
	PolicyAll Policy = iota

	// PolicyEnabled follows unconditional edges plus conditional groups
	// whose `when` predicate evaluated to true.
	PolicyEnabled
)

// OptionalDeps is one conditional dependency group of a target.
type OptionalDeps struct {
	// When is the raw predicate expression as written in the workspace
	// file. A nil expression means the group is unconditionally enabled.
	When hcl.Expression

	// Enabled is the result of evaluating When against the workspace
	// variables; set by Evaluate during loading.
	Enabled bool

	// Deps are the addresses the group contributes when followed.
	Deps []address.Address
}

// Target is a single build-graph vertex. It is read-only once the
// workspace load phase completes; concurrent queries share it freely.
type Target struct {
	Address     address.Address
	Description string
	Tags        []string

	// Deps are the unconditional forward dependencies, in declaration
	// order. Path enumeration relies on that order.
	Deps []address.Address

	// Optional holds the conditional dependency groups, in declaration
	// order.
	Optional []OptionalDeps

	// File is the workspace file that declared the target, for diagnostics.
	File string
}

// Dependencies returns the forward dependency addresses selected by the
// given policy, in declaration order with duplicates removed.
func (t *Target) Dependencies(policy Policy) []address.Address {
	out := make([]address.Address, 0, len(t.Deps))
	seen := make(map[address.Address]struct{}, len(t.Deps))

	appendDep := func(a address.Address) {
		if _, ok := seen[a]; ok {
			return
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}

	for _, d := range t.Deps {
		appendDep(d)
	}
	for _, group := range t.Optional {
		if policy == PolicyEnabled && !group.Enabled {
			continue
		}
		for _, d := range group.Deps {
			appendDep(d)
		}
	}
	return out
}

// Evaluate resolves every conditional group's `when` predicate against the
// given evaluation context, recording the result on the group. It is called
// once per target during the workspace load phase.
func (t *Target) Evaluate(evalCtx *hcl.EvalContext) error {
	for i := range t.Optional {
		group := &t.Optional[i]
		if group.When == nil {
			group.Enabled = true
			continue
		}

		val, diags := group.When.Value(evalCtx)
		if diags.HasErrors() {
			return fmt.Errorf("target %s: evaluating optional_deps condition: %w", t.Address, diags)
		}
		enabled, err := truthy(val)
		if err != nil {
			return fmt.Errorf("target %s: optional_deps condition: %w", t.Address, err)
		}
		group.Enabled = enabled
	}
	return nil
}

// truthy converts an evaluated predicate value to a Go bool, accepting
// anything cty can convert to bool (e.g. the strings "true"/"false" from
// command-line variables).
func truthy(val cty.Value) (bool, error) {
	if val.IsNull() {
		return false, nil
	}
	converted, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("cannot convert %s to bool: %w", val.Type().FriendlyName(), err)
	}
	return converted.True(), nil
}
