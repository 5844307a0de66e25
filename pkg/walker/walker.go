package walker

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// Walk enumerates regular files under root whose base name matches glob,
// in deterministic (lexical, depth-first) order. Symbolic links are followed,
// with a resolved-path guard against cycles. A failure to stat or list root
// itself is fatal; unreadable subtrees propagate their error too, since a
// partial enumeration would silently narrow a later reset or rewrite pass.
func Walk(root, glob string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		ok, err := doublestar.Match(glob, filepath.Base(root))
		if err != nil {
			return nil, errors.Errorf("bad glob %q: %w", glob, err)
		}
		if ok {
			return []string{root}, nil
		}
		return nil, nil
	}

	// validate the glob once up front
	if !doublestar.ValidatePattern(glob) {
		return nil, errors.Errorf("bad glob %q", glob)
	}

	visited := map[string]bool{}
	var files []string
	if err := walkDir(root, glob, visited, &files); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func walkDir(dir, glob string, visited map[string]bool, files *[]string) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return errors.Errorf("resolving %s: %w", dir, err)
	}
	if visited[resolved] {
		return nil
	}
	visited[resolved] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Errorf("listing %s: %w", dir, err)
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())

		// stat, not lstat, so links to files and directories both count
		info, err := os.Stat(path)
		if err != nil {
			// dangling symlink
			continue
		}
		if info.IsDir() {
			if err := walkDir(path, glob, visited, files); err != nil {
				return err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if ok, _ := doublestar.Match(glob, e.Name()); ok {
			*files = append(*files, path)
		}
	}
	return nil
}
