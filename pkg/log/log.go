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

package log

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 ConsoleLogger provides user-friendly feedback lines. Findings and diffs
// go to stdout directly; this is only for operational chatter, so report
// output stays clean enough to pipe.
type ConsoleLogger struct {
	zlog  zerolog.Logger
	quiet bool
}

// 🏭 NewConsoleLogger creates a console logger bound to the context's zerolog.
func NewConsoleLogger(ctx context.Context) *ConsoleLogger {
	return &ConsoleLogger{zlog: *zerolog.Ctx(ctx)}
}

// 🤫 Quiet suppresses the decorated console lines (zerolog still runs).
func (c *ConsoleLogger) Quiet() *ConsoleLogger {
	c.quiet = true
	return c
}

// 📝 Infof prints an informational line.
func (c *ConsoleLogger) Infof(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !c.quiet {
		pterm.Info.Println(msg)
	}
	c.zlog.Info().Msg(msg)
}

// ✅ Successf prints a success line.
func (c *ConsoleLogger) Successf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !c.quiet {
		pterm.Success.Println(msg)
	}
	c.zlog.Info().Msg(msg)
}

// ⚠️ Warningf prints a warning line.
func (c *ConsoleLogger) Warningf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !c.quiet {
		pterm.Warning.Println(msg)
	}
	c.zlog.Warn().Msg(msg)
}

// ❌ Errorf prints an error line.
func (c *ConsoleLogger) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !c.quiet {
		pterm.Error.Println(msg)
	}
	c.zlog.Error().Msg(msg)
}
