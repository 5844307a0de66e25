package operation

import (
	"context"

	"github.com/walteh/nsdep/pkg/backup"
	"gitlab.com/tozd/go/errors"
)

// 🔎 NewDiffOperation creates the pass that prints backup-vs-live diffs.
// Diff mode never mutates the tree and excludes scanning and rewriting;
// the driver stops after it.
func NewDiffOperation(opts Options) *DiffOperation {
	return &DiffOperation{BaseOperation: NewBaseOperation(opts)}
}

// 🔎 DiffOperation implements the diff pass
type DiffOperation struct {
	BaseOperation
}

// Name returns the operation name
func (op *DiffOperation) Name() string {
	return "diff"
}

// 🏃 Execute prints the diffs
func (op *DiffOperation) Execute(ctx context.Context) error {
	if err := backup.Diff(ctx, op.Root, op.Out); err != nil {
		return errors.Errorf("diffing %s: %w", op.Root, err)
	}
	return nil
}
