/*
Package address provides the structured, type-safe identifier for build
targets, based on the canonical format `dir/path:name`.

A target declared as `target "name"` in a workspace file under `dir/path`
has the address `dir/path:name`. Targets declared at the workspace root use
the `//:name` form. Addresses are immutable value types: equality and total
ordering are defined by the canonical string representation.

This package enforces the identifier schema and centralizes all formatting,
parsing, and set logic, so the rest of the system never handles raw strings.
*/
package address
