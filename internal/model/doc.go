// Package model defines the Workspace structure, the root container for all
// configuration loaded from a user's .hcl files, and the loader that builds
// it.
//
// Why have a Workspace?
//
// A user splits target declarations across many files and directories. The
// loader discovers all of them and consolidates the declared targets into a
// single, unified view. By aggregating everything into one place we enable
// workspace-wide analysis: dependents and path queries operate on the
// complete set of targets, resolving edges that span across files.
//
// The Workspace is a snapshot. It is built once per invocation, validated,
// and then treated as immutable; every query runs against the same
// consistent view of the graph.
package model
