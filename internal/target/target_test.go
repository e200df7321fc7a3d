package target

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/depgridgo/internal/address"
	"github.com/zclconf/go-cty/cty"
)

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return expr
}

func varsCtx(vars map[string]cty.Value) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"vars": cty.ObjectVal(vars)},
	}
}

func TestDependencies_PolicySelection(t *testing.T) {
	tgt := &Target{
		Address: address.New("src/app", "main"),
		Deps:    []address.Address{address.New("src/lib", "core")},
		Optional: []OptionalDeps{
			{
				Enabled: true,
				Deps:    []address.Address{address.New("src/extras", "x")},
			},
			{
				Enabled: false,
				Deps:    []address.Address{address.New("src/extras", "y")},
			},
		},
	}

	all := tgt.Dependencies(PolicyAll)
	assert.Equal(t, []string{"src/lib:core", "src/extras:x", "src/extras:y"}, address.Specs(all))

	enabled := tgt.Dependencies(PolicyEnabled)
	assert.Equal(t, []string{"src/lib:core", "src/extras:x"}, address.Specs(enabled))
}

func TestDependencies_DeduplicatesInDeclarationOrder(t *testing.T) {
	core := address.New("src/lib", "core")
	util := address.New("src/lib", "util")
	tgt := &Target{
		Address: address.New("src/app", "main"),
		Deps:    []address.Address{core, util, core},
		Optional: []OptionalDeps{
			{Enabled: true, Deps: []address.Address{util, core}},
		},
	}

	deps := tgt.Dependencies(PolicyAll)
	assert.Equal(t, []string{"src/lib:core", "src/lib:util"}, address.Specs(deps))
}

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name        string
		when        string
		vars        map[string]cty.Value
		wantEnabled bool
		wantErr     bool
	}{
		{
			name:        "true variable",
			when:        "vars.with_extras",
			vars:        map[string]cty.Value{"with_extras": cty.True},
			wantEnabled: true,
		},
		{
			name:        "false variable",
			when:        "vars.with_extras",
			vars:        map[string]cty.Value{"with_extras": cty.False},
			wantEnabled: false,
		},
		{
			name:        "string converts to bool",
			when:        "vars.flag",
			vars:        map[string]cty.Value{"flag": cty.StringVal("true")},
			wantEnabled: true,
		},
		{
			name:        "comparison expression",
			when:        "vars.count > 2",
			vars:        map[string]cty.Value{"count": cty.NumberIntVal(3)},
			wantEnabled: true,
		},
		{
			name:    "unknown variable",
			when:    "vars.missing",
			vars:    map[string]cty.Value{"other": cty.True},
			wantErr: true,
		},
		{
			name:    "unconvertible value",
			when:    "vars.bad",
			vars:    map[string]cty.Value{"bad": cty.ListValEmpty(cty.String)},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tgt := &Target{
				Address: address.New("src/app", "main"),
				Optional: []OptionalDeps{
					{When: parseExpr(t, tc.when)},
				},
			}
			err := tgt.Evaluate(varsCtx(tc.vars))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantEnabled, tgt.Optional[0].Enabled)
		})
	}
}

func TestEvaluate_NilConditionIsEnabled(t *testing.T) {
	tgt := &Target{
		Address:  address.New("src/app", "main"),
		Optional: []OptionalDeps{{Deps: []address.Address{address.New("src", "x")}}},
	}
	require.NoError(t, tgt.Evaluate(nil))
	assert.True(t, tgt.Optional[0].Enabled)
}
