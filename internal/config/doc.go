// Package config describes a list pipeline and loads it from disk.
//
// A pipeline reads the lines of a source file and passes them through an
// ordered list of stages. Files are TOML or YAML, chosen by extension:
//
//	[source]
//	path = "notes.txt"
//	watch = true
//	debounce = "100ms"
//
//	[[stages]]
//	kind = "filter"
//	expr = 'item:sub(1, 1) ~= "#"'
//
//	[[stages]]
//	kind = "limit"
//	limit = 20
//
// Environment variables prefixed with RANGELIST_ override file values.
package config
