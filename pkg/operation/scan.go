package operation

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/walteh/nsdep/pkg/backup"
	"github.com/walteh/nsdep/pkg/report"
	"github.com/walteh/nsdep/pkg/rewrite"
	"github.com/walteh/nsdep/pkg/scan"
	"github.com/walteh/nsdep/pkg/walker"
	"gitlab.com/tozd/go/errors"
)

// 📊 Summary accumulates the rewrite totals across one scan pass
type Summary struct {
	TotalChanges int
	FilesChanged int
}

// 🔍 NewScanOperation creates the scan/report pass; with change enabled it
// also rewrites each file after reporting on it.
func NewScanOperation(opts Options, change bool) *ScanOperation {
	return &ScanOperation{
		BaseOperation: NewBaseOperation(opts),
		change:        change,
	}
}

// 🔍 ScanOperation implements the per-file extract → report → rewrite walk
type ScanOperation struct {
	BaseOperation
	change  bool
	summary Summary
}

// Name returns the operation name
func (op *ScanOperation) Name() string {
	return "scan"
}

// Summary returns the totals accumulated by the last Execute.
func (op *ScanOperation) Summary() Summary {
	return op.summary
}

// 🏃 Execute walks the tree once. Enumeration failure is fatal; so is any
// per-file read or write failure, since a partial rewrite pass would leave
// the backup bookkeeping in a state reset cannot untangle.
func (op *ScanOperation) Execute(ctx context.Context) error {
	op.summary = Summary{}

	files, err := walker.Walk(op.Root, op.Glob)
	if err != nil {
		return errors.Errorf("enumerating %s: %w", op.Root, err)
	}

	printer := report.New(op.Out)
	for _, path := range files {
		// backups only match wide globs like "*", but never scan them
		if strings.HasSuffix(path, backup.Suffix) {
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Errorf("reading %s: %w", path, err)
		}

		names := scan.Extract(string(content))
		printer.File(path, names, op.Rules)

		if !op.change {
			continue
		}
		result, err := rewrite.File(ctx, path, op.Rules)
		if err != nil {
			return err
		}
		if result.WasModified {
			op.summary.TotalChanges += result.Changes
			op.summary.FilesChanged++
		}
	}

	if op.change {
		fmt.Fprintf(op.Out, "\n%d changes in %d files\n", op.summary.TotalChanges, op.summary.FilesChanged)
	}
	return nil
}
