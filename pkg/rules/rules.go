package rules

import (
	"regexp"

	"gitlab.com/tozd/go/errors"
)

// Rewrite is one ordered rewrite rule. Pattern is anchored on a whole-word
// boundary so a command name never matches as a prefix of a longer identifier.
// Replace may reference capture groups as ${1}, ${2}.
type Rewrite struct {
	Name    string // command the rule targets, e.g. "ns_thread join"
	Pattern *regexp.Regexp
	Replace string
}

// RuleSet holds the migration knowledge: commands that are gone with no
// mechanical replacement, commands whose future is unclear, and the ordered
// rewrite table. Rules run in declaration order against the current text, so
// two-word rules are declared before any one-word rule that could eat them.
type RuleSet struct {
	Deprecated map[string]bool
	Uncertain  map[string]bool
	Rewrites   []Rewrite
}

// Spec is the uncompiled form of a Rewrite, as it appears in config files and
// synced rule documents.
type Spec struct {
	Name    string `json:"name" yaml:"name"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Replace string `json:"replace" yaml:"replace"`
}

func rw(name, pattern, replace string) Rewrite {
	return Rewrite{Name: name, Pattern: regexp.MustCompile(pattern), Replace: replace}
}

// Default returns the built-in tables. The mappings encode the AOLserver 3.x
// to 4.x migration notes and must not be edited casually; disabled entries
// below are disabled on purpose, not forgotten.
func Default() *RuleSet {
	return &RuleSet{
		Deprecated: map[string]bool{
			"ns_share":      true, // per-interpreter copies; needs nsv_* restructuring
			"ns_var":        true,
			"ns_puts":       true, // replacement depends on ADP vs connection context
			"ns_cpfp":       true,
			"ns_getchannel": true,
			"ns_event":      true,
			"ns_geturl":     true, // see the disabled ns_http rule below
			"ns_tmpnam":     true, // see the disabled file tempfile rule below
			"ns_db verbose": true,
		},
		Uncertain: map[string]bool{
			"ns_set new":    true,
			"ns_set copy":   true,
			"ns_hrefs":      true,
			"ns_paren":      true,
			"ns_issmallint": true,
			"ns_tagelement": true,
		},
		Rewrites: []Rewrite{
			// two-word rules first
			rw("ns_thread start", `\bns_thread\s+start\b`, "ns_thread create"),
			rw("ns_thread join", `\bns_thread\s+join\b`, "ns_thread wait"),

			// file ops subsumed by the Tcl file command
			rw("ns_mkdir", `\bns_mkdir\b`, "file mkdir"),
			rw("ns_rmdir", `\bns_rmdir\b`, "file delete"),
			rw("ns_unlink", `\bns_unlink\b`, "file delete"),
			rw("ns_rename", `\bns_rename\b`, "file rename"),
			rw("ns_cp", `\bns_cp\b`, "file copy"),
			rw("ns_normalizepath", `\bns_normalizepath\b`, "file normalize"),

			// argument-rewrapping rules; file link takes linkname before target
			rw("ns_chmod", `\bns_chmod\s+([^\s\]]+)\s+([^\s\]]+)`, "file attributes ${1} -permissions ${2}"),
			rw("ns_link", `\bns_link\s+([^\s\]]+)\s+([^\s\]]+)`, "file link -hard ${2} ${1}"),
			rw("ns_symlink", `\bns_symlink\s+([^\s\]]+)\s+([^\s\]]+)`, "file link -symbolic ${2} ${1}"),

			// rw("ns_tmpnam", `\bns_tmpnam\b`, "file tempfile"),
			//   disabled: file tempfile creates the file, ns_tmpnam only returns
			//   a name, and callers that pass the name to another creator break.
			// rw("ns_geturl", `\bns_geturl\b`, "ns_http run"),
			//   disabled: ns_geturl buffers the body in memory while ns_http may
			//   spool large responses to disk; callers must be converted by hand.
		},
	}
}

// IsDeprecated reports whether name is tracked as deprecated.
func (rs *RuleSet) IsDeprecated(name string) bool {
	return rs.Deprecated[name]
}

// IsUncertain reports whether name is tracked as uncertain-future.
func (rs *RuleSet) IsUncertain(name string) bool {
	return rs.Uncertain[name]
}

// RewriteFor returns the first rewrite rule targeting name, or nil.
func (rs *RuleSet) RewriteFor(name string) *Rewrite {
	for i := range rs.Rewrites {
		if rs.Rewrites[i].Name == name {
			return &rs.Rewrites[i]
		}
	}
	return nil
}

// Merge returns a copy of rs with extra names and rules folded in. Extra
// rewrites are appended after the built-ins so built-in ordering is preserved.
func (rs *RuleSet) Merge(deprecated, uncertain []string, extras []Spec) (*RuleSet, error) {
	out := &RuleSet{
		Deprecated: make(map[string]bool, len(rs.Deprecated)+len(deprecated)),
		Uncertain:  make(map[string]bool, len(rs.Uncertain)+len(uncertain)),
		Rewrites:   make([]Rewrite, len(rs.Rewrites), len(rs.Rewrites)+len(extras)),
	}
	for k := range rs.Deprecated {
		out.Deprecated[k] = true
	}
	for _, k := range deprecated {
		out.Deprecated[k] = true
	}
	for k := range rs.Uncertain {
		out.Uncertain[k] = true
	}
	for _, k := range uncertain {
		out.Uncertain[k] = true
	}
	copy(out.Rewrites, rs.Rewrites)
	for i, s := range extras {
		if s.Pattern == "" {
			return nil, errors.Errorf("extra rule %d (%s): pattern is required", i, s.Name)
		}
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, errors.Errorf("compiling extra rule %d (%s): %w", i, s.Name, err)
		}
		out.Rewrites = append(out.Rewrites, Rewrite{Name: s.Name, Pattern: re, Replace: s.Replace})
	}
	return out, nil
}
