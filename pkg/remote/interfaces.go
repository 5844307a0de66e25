// Package remote fetches shared rule documents from a remote repository, so
// a team can keep one rules file and pull it into each script tree.
package remote

import "context"

// Fetcher retrieves one raw file from a remote repository.
type Fetcher interface {
	// Name returns the name of the provider (e.g. "github")
	Name() string

	// GetFile returns the raw content of path in owner/repo at ref.
	// An empty ref means the repository's default branch.
	GetFile(ctx context.Context, owner, repo, ref, path string) ([]byte, error)
}
