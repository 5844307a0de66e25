// Package scan finds candidate ns_* command invocations in raw Tcl text.
//
// Tcl is too dynamic for a real parse to pay off here (command names can be
// computed, held in variables, or eval'd), so this is a union of independent
// lexical heuristics. Dynamic invocation forms are invisible on purpose.
package scan

import (
	"regexp"
	"sort"
)

var (
	// [ns_foo] — command alone inside substitution brackets
	bracketed = regexp.MustCompile(`\[(ns_[a-z_]+)\]`)

	// command preceded by [ or a newline, followed by whitespace and an
	// argument opener: a switch, a variable, a nested bracket, or a quote
	withArgs = regexp.MustCompile(`[\[\n](ns_[a-z_]+)\s+[-$\["']`)

	// command plus one lowercase subcommand word, e.g. "ns_set new"
	twoWord = regexp.MustCompile(`\b(ns_[a-z_]+)[ \t]+([a-z]+)\b`)
)

// Extract returns the deduplicated, sorted set of candidate command names in
// text. Two-word candidates are joined with a single space. Every candidate is
// later looked up as an exact string, so over-capture is harmless.
func Extract(text string) []string {
	seen := map[string]bool{}
	for _, m := range bracketed.FindAllStringSubmatch(text, -1) {
		seen[m[1]] = true
	}
	for _, m := range withArgs.FindAllStringSubmatch(text, -1) {
		seen[m[1]] = true
	}
	for _, m := range twoWord.FindAllStringSubmatch(text, -1) {
		seen[m[1]+" "+m[2]] = true
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
