package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/depgridgo/internal/address"
	"github.com/vk/depgridgo/internal/target"
)

// hclWorkspaceFile represents the top-level structure of a workspace file
// for decoding.
type hclWorkspaceFile struct {
	Targets []*hclTarget    `hcl:"target,block"`
	Vars    []*hclVarsBlock `hcl:"vars,block"`
}

// hclTarget is the HCL-specific representation of a `target` block.
type hclTarget struct {
	Name        string             `hcl:"name,label"`
	Description string             `hcl:"description,optional"`
	Tags        []string           `hcl:"tags,optional"`
	Deps        []string           `hcl:"deps,optional"`
	Optional    []*hclOptionalDeps `hcl:"optional_deps,block"`
}

// hclOptionalDeps is the HCL-specific representation of an `optional_deps`
// block. The `when` predicate stays a raw expression; it is evaluated
// against the workspace variables after all files are loaded.
type hclOptionalDeps struct {
	When hcl.Expression `hcl:"when"`
	Deps []string       `hcl:"deps"`
}

// hclVarsBlock captures a `vars` block. Attributes are free-form, so the
// body is kept raw and decoded with JustAttributes.
type hclVarsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// translateTarget converts a decoded target block declared in the given
// workspace-relative directory into the format-agnostic target model.
func translateTarget(t *hclTarget, dir, file string) (*target.Target, error) {
	addr := address.New(dir, t.Name)

	deps, err := parseDepSpecs(t.Deps, dir)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", addr, err)
	}

	out := &target.Target{
		Address:     addr,
		Description: t.Description,
		Tags:        t.Tags,
		Deps:        deps,
		File:        file,
	}

	for _, group := range t.Optional {
		groupDeps, err := parseDepSpecs(group.Deps, dir)
		if err != nil {
			return nil, fmt.Errorf("target %s: optional_deps: %w", addr, err)
		}
		out.Optional = append(out.Optional, target.OptionalDeps{
			When: group.When,
			Deps: groupDeps,
		})
	}

	return out, nil
}

// parseDepSpecs resolves a list of dependency specs relative to the
// declaring directory, preserving declaration order.
func parseDepSpecs(specs []string, dir string) ([]address.Address, error) {
	deps := make([]address.Address, 0, len(specs))
	for _, spec := range specs {
		addr, err := address.ParseRelative(spec, dir)
		if err != nil {
			return nil, fmt.Errorf("dependency %q: %w", spec, err)
		}
		deps = append(deps, addr)
	}
	return deps, nil
}
