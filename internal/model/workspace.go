package model

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/depgridgo/internal/address"
	"github.com/vk/depgridgo/internal/ctxlog"
	"github.com/vk/depgridgo/internal/fsutil"
	"github.com/vk/depgridgo/internal/target"
	"github.com/zclconf/go-cty/cty"
)

// Workspace is the loaded, validated snapshot of a target graph.
type Workspace struct {
	Root    string
	Targets []*target.Target
	Vars    map[string]cty.Value
}

// EvalContext returns the HCL evaluation context exposing the workspace
// variables under the `vars` object.
func (w *Workspace) EvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"vars": cty.ObjectVal(w.Vars)},
	}
}

// Load finds and parses all HCL files under rootPath into a Workspace
// snapshot. Variable overrides (typically from --var flags) take precedence
// over `vars` blocks in workspace files. The returned workspace has every
// conditional dependency group evaluated and every dependency reference
// checked against the declared targets.
func Load(ctx context.Context, rootPath string, overrides map[string]cty.Value) (*Workspace, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading workspace from path", "path", rootPath)

	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root %s: %w", rootPath, err)
	}

	files, err := fsutil.FindFilesByExtension(absRoot, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find workspace files in %s: %w", rootPath, err)
	}

	ws := &Workspace{
		Root: absRoot,
		Vars: make(map[string]cty.Value),
	}
	if len(files) == 0 {
		logger.Warn("No .hcl files found in workspace, returning empty snapshot", "path", rootPath)
		return ws, nil
	}

	seen := make(map[address.Address]string)
	parser := hclparse.NewParser()
	for _, file := range files {
		parsed, err := parseWorkspaceFile(file, parser)
		if err != nil {
			return nil, err
		}

		dir, err := workspaceDir(absRoot, file)
		if err != nil {
			return nil, err
		}

		for _, rawTarget := range parsed.Targets {
			tgt, err := translateTarget(rawTarget, dir, file)
			if err != nil {
				return nil, fmt.Errorf("in file %s: %w", file, err)
			}
			// Re-parse the canonical spec so malformed target names and
			// unrepresentable directory paths fail with one consistent error.
			if _, err := address.Parse(tgt.Address.String()); err != nil {
				return nil, fmt.Errorf("in file %s: %w", file, err)
			}
			if prev, dup := seen[tgt.Address]; dup {
				return nil, fmt.Errorf("target %s declared in both %s and %s", tgt.Address, prev, file)
			}
			seen[tgt.Address] = file
			ws.Targets = append(ws.Targets, tgt)
		}

		for _, block := range parsed.Vars {
			if err := ws.mergeVars(block, file); err != nil {
				return nil, err
			}
		}
	}

	for k, v := range overrides {
		ws.Vars[k] = v
	}

	evalCtx := ws.EvalContext()
	for _, tgt := range ws.Targets {
		if err := tgt.Evaluate(evalCtx); err != nil {
			return nil, fmt.Errorf("in file %s: %w", tgt.File, err)
		}
	}

	if err := ws.validateDeps(seen); err != nil {
		return nil, err
	}

	logger.Info("Workspace loaded successfully.", "targets_found", len(ws.Targets), "files", len(files))
	return ws, nil
}

// parseWorkspaceFile parses a single HCL file into its schema form.
func parseWorkspaceFile(filePath string, parser *hclparse.Parser) (*hclWorkspaceFile, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
	}

	var parsed hclWorkspaceFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
	}
	return &parsed, nil
}

// workspaceDir computes the workspace-relative, slash-separated directory
// for a file. Files at the workspace root map to the empty string.
func workspaceDir(root, file string) (string, error) {
	rel, err := filepath.Rel(root, filepath.Dir(file))
	if err != nil {
		return "", fmt.Errorf("file %s is outside workspace root %s: %w", file, root, err)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}

// mergeVars folds one `vars` block into the workspace variable map. Values
// must be constant expressions; duplicate keys across files are an error.
func (w *Workspace) mergeVars(block *hclVarsBlock, file string) error {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("invalid vars block in %s: %w", file, diags)
	}

	// Sort for deterministic error reporting; JustAttributes returns a map.
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, exists := w.Vars[name]; exists {
			return fmt.Errorf("variable %q redeclared in %s", name, file)
		}
		val, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("variable %q in %s must be a constant value: %w", name, file, diags)
		}
		w.Vars[name] = val
	}
	return nil
}

// validateDeps checks that every dependency reference, conditional or not,
// resolves to a declared target. Dangling references are load errors; the
// query layer assumes a fully-consistent snapshot.
func (w *Workspace) validateDeps(declared map[address.Address]string) error {
	for _, tgt := range w.Targets {
		for _, dep := range tgt.Dependencies(target.PolicyAll) {
			if _, ok := declared[dep]; !ok {
				return fmt.Errorf("target %s (in %s) depends on undeclared target %s", tgt.Address, tgt.File, dep)
			}
		}
	}
	return nil
}
