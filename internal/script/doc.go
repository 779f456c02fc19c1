// Package script compiles Lua snippets into item functions for pipeline
// stages.
//
// A snippet is either an expression over the parameter item,
// such as
//
//	#item > 0 and item:sub(1, 1) ~= "#"
//
// or a function body containing an explicit return:
//
//	local n = tonumber(item)
//	return n ~= nil and n % 2 == 0
//
// Snippets run in a sandboxed State: only the base, table, string and
// math libraries are available, file loading functions are removed, and
// every call is bounded by a timeout.
//
// A State is safe for use from several goroutines, but calls are
// serialized.
package script
