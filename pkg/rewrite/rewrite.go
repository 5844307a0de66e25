// Package rewrite applies the ordered rewrite table to script text and, when
// anything changed, persists the result with backup-first semantics: the
// original content lands at <path>-original before the live path is replaced.
package rewrite

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/nsdep/pkg/backup"
	"github.com/walteh/nsdep/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// Result holds the outcome of applying the rule table to one file's content.
type Result struct {
	OriginalContent []byte
	ModifiedContent []byte
	Changes         int
	WasModified     bool
}

// Apply runs every rule in table order against content. Later rules see the
// output of earlier rules. Changes is the sum of per-rule replacement counts.
func Apply(content []byte, rs *rules.RuleSet) *Result {
	result := &Result{
		OriginalContent: content,
		ModifiedContent: content,
	}

	current := string(content)
	for _, r := range rs.Rewrites {
		n := len(r.Pattern.FindAllStringIndex(current, -1))
		if n == 0 {
			continue
		}
		current = r.Pattern.ReplaceAllString(current, r.Replace)
		result.Changes += n
		result.WasModified = true
	}

	result.ModifiedContent = []byte(current)
	return result
}

// File reads path, applies the rule table, and persists the result. A file
// with zero changes is left untouched and gets no backup. Otherwise the
// original bytes are written to the backup path first; only after that
// succeeds is the live path replaced, via temp file and rename so a crash
// mid-write never leaves a half-written live file.
//
// Running File twice on the same path without a reset in between clobbers the
// first backup with already-rewritten content; that is the caller's problem,
// documented and not guarded here.
func File(ctx context.Context, path string, rs *rules.RuleSet) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}

	result := Apply(content, rs)
	if !result.WasModified {
		return result, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Errorf("stat %s: %w", path, err)
	}

	// backup first; the live file is never touched unless this succeeded
	bak := backup.PathFor(path)
	if err := os.WriteFile(bak, result.OriginalContent, info.Mode().Perm()); err != nil {
		return nil, errors.Errorf("writing backup %s: %w", bak, err)
	}

	if err := replaceFile(path, result.ModifiedContent, info.Mode().Perm()); err != nil {
		return nil, errors.Errorf("writing rewritten %s: %w", path, err)
	}

	logger.Debug().Str("file", path).Int("changes", result.Changes).Msg("rewrote file")
	return result, nil
}

// replaceFile writes content to a temp file in the same directory and renames
// it over path, so the live path atomically flips from old to new content.
func replaceFile(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return errors.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}
