// Package report prints findings for extracted command names. Findings go to
// a plain writer (stdout in the CLI) so report-only runs are byte-stable and
// scriptable; decorated console feedback lives elsewhere.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/walteh/nsdep/pkg/rules"
)

// Printer writes per-file findings.
type Printer struct {
	w io.Writer
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// File cross-references names against rs and prints findings for one file:
// a single header line (at most once per call, however many names match)
// followed by one line per matched name in lexicographic name order. Files
// with no matches produce no output. Returns the number of findings printed.
func (p *Printer) File(path string, names []string, rs *rules.RuleSet) int {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	headerShown := false
	header := func() {
		if !headerShown {
			fmt.Fprintf(p.w, "%s:\n", path)
			headerShown = true
		}
	}

	findings := 0
	for _, name := range sorted {
		switch {
		case rs.IsDeprecated(name):
			header()
			fmt.Fprintf(p.w, "    %s is deprecated and has no direct replacement\n", name)
			findings++
		case rs.IsUncertain(name):
			header()
			fmt.Fprintf(p.w, "    %s may change or be removed in a future release\n", name)
			findings++
		case rs.RewriteFor(name) != nil:
			header()
			fmt.Fprintf(p.w, "    %s is deprecated and can be rewritten automatically (run with --change)\n", name)
			findings++
		}
	}
	return findings
}
