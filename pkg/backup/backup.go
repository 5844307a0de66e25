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

// Package backup manages the -original copies a rewrite pass leaves behind:
// finding them, restoring them over the live files, and diffing them against
// what the rewrite produced.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/walteh/nsdep/pkg/walker"
	"gitlab.com/tozd/go/errors"
)

// Suffix marks the preserved pre-rewrite copy of a file. Its presence next to
// a file is the only persisted record that a rewrite pass touched that file.
const Suffix = "-original"

// PathFor returns the backup path for a live file.
func PathFor(path string) string {
	return path + Suffix
}

// OriginalFor returns the live path for a backup file. ok is false when the
// name does not carry the suffix, in which case the file is not a backup and
// callers should skip it.
func OriginalFor(backupPath string) (string, bool) {
	return strings.CutSuffix(backupPath, Suffix)
}

// Find enumerates every backup file under root.
func Find(root string) ([]string, error) {
	files, err := walker.Walk(root, "*"+Suffix)
	if err != nil {
		return nil, errors.Errorf("enumerating backups under %s: %w", root, err)
	}
	return files, nil
}

// Reset undoes the most recent rewrite pass: every backup is renamed over its
// live counterpart and the backup entry disappears. One-way and destructive.
func Reset(ctx context.Context, root string) (int, error) {
	logger := zerolog.Ctx(ctx)

	backups, err := Find(root)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, b := range backups {
		orig, ok := OriginalFor(b)
		if !ok {
			continue
		}
		if err := os.Remove(orig); err != nil && !os.IsNotExist(err) {
			return restored, errors.Errorf("removing rewritten file %s: %w", orig, err)
		}
		if err := os.Rename(b, orig); err != nil {
			return restored, errors.Errorf("restoring %s: %w", orig, err)
		}
		logger.Debug().Str("file", orig).Msg("restored from backup")
		restored++
	}
	return restored, nil
}

// Diff prints, for every backup under root, a header naming both paths and a
// textual diff of backup (old) against the live file (new). A failure reading
// one pair is reported on w and the loop continues; nothing on disk changes.
func Diff(ctx context.Context, root string, w io.Writer) error {
	logger := zerolog.Ctx(ctx)

	backups, err := Find(root)
	if err != nil {
		return err
	}

	dmp := diffmatchpatch.New()
	for _, b := range backups {
		orig, ok := OriginalFor(b)
		if !ok {
			continue
		}
		old, err := os.ReadFile(b)
		if err != nil {
			fmt.Fprintf(w, "diff failed for %s: %v\n", b, err)
			continue
		}
		live, err := os.ReadFile(orig)
		if err != nil {
			fmt.Fprintf(w, "diff failed for %s: %v\n", orig, err)
			continue
		}

		fmt.Fprintf(w, "--- %s\n+++ %s\n", b, orig)
		diffs := dmp.DiffMain(string(old), string(live), false)
		patches := dmp.PatchMake(string(old), diffs)
		fmt.Fprint(w, dmp.PatchToText(patches))
		logger.Debug().Str("backup", b).Int("hunks", len(patches)).Msg("diffed backup")
	}
	return nil
}
