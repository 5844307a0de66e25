package github

import (
	"context"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ContentsGetter defines the slice of the GitHub API we need, so tests can
// stub it without network access.
type ContentsGetter interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

// Fetcher implements remote.Fetcher for GitHub.
type Fetcher struct {
	contents ContentsGetter
}

// NewFetcher creates a GitHub fetcher, authenticated via GITHUB_TOKEN when set.
func NewFetcher() *Fetcher {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	return &Fetcher{contents: client.Repositories}
}

// NewFetcherWithContents creates a fetcher around an existing contents getter.
func NewFetcherWithContents(c ContentsGetter) *Fetcher {
	return &Fetcher{contents: c}
}

// Name returns the name of the provider
func (f *Fetcher) Name() string {
	return "github"
}

// GetFile returns the raw content of path in owner/repo at ref.
func (f *Fetcher) GetFile(ctx context.Context, owner, repo, ref, path string) ([]byte, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("owner", owner).Str("repo", repo).Str("ref", ref).Str("path", path).Msg("fetching file")

	opts := &github.RepositoryContentGetOptions{Ref: ref}
	file, _, _, err := f.contents.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return nil, errors.Errorf("getting contents of %s/%s:%s: %w", owner, repo, path, err)
	}
	if file == nil {
		return nil, errors.Errorf("%s/%s:%s is a directory, not a file", owner, repo, path)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding contents of %s/%s:%s: %w", owner, repo, path, err)
	}
	return []byte(content), nil
}

// SplitRepo splits an "owner/repo" reference.
func SplitRepo(name string) (string, string, error) {
	parts := strings.Split(name, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", errors.Errorf("invalid repository name: %s", name)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}
