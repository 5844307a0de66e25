// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package operation sequences the tree-level passes: reset, diff, and the
// scan/report/rewrite walk. One Operation is one pass over the whole tree.
package operation

import (
	"context"
	"io"

	"github.com/walteh/nsdep/pkg/log"
	"github.com/walteh/nsdep/pkg/rules"
)

// 🎯 Operation is one unit of work over the target tree
type Operation interface {
	// Name returns the operation name for logging
	Name() string

	// Execute runs the operation
	Execute(ctx context.Context) error
}

// ⚙️ Options carries the collaborators every operation needs
type Options struct {
	Root    string             // root path for enumeration
	Glob    string             // filename glob, e.g. "*.tcl"
	Rules   *rules.RuleSet     // active rule tables
	Out     io.Writer          // findings, diffs and summary lines
	Console *log.ConsoleLogger // operational feedback
}

// 🏗️ BaseOperation provides common functionality for operations
type BaseOperation struct {
	Options
}

// 🏗️ NewBaseOperation creates a new base operation
func NewBaseOperation(opts Options) BaseOperation {
	return BaseOperation{Options: opts}
}
