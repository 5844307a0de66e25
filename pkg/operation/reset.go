package operation

import (
	"context"

	"github.com/walteh/nsdep/pkg/backup"
	"gitlab.com/tozd/go/errors"
)

// 🧹 NewResetOperation creates the pass that restores every backup over its
// rewritten counterpart. When combined with a scan it must run first.
func NewResetOperation(opts Options) *ResetOperation {
	return &ResetOperation{BaseOperation: NewBaseOperation(opts)}
}

// 🧹 ResetOperation implements the reset pass
type ResetOperation struct {
	BaseOperation
}

// Name returns the operation name
func (op *ResetOperation) Name() string {
	return "reset"
}

// 🏃 Execute restores the tree
func (op *ResetOperation) Execute(ctx context.Context) error {
	restored, err := backup.Reset(ctx, op.Root)
	if err != nil {
		return errors.Errorf("resetting %s: %w", op.Root, err)
	}
	if op.Console != nil {
		op.Console.Successf("restored %d files", restored)
	}
	return nil
}
