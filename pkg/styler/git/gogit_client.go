//go:build gogit

package git

import (
	"io"
	"log/slog"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/diff"
)

// gogitClient implements the Client interface using the go-git library, for
// environments without a native git binary.
type gogitClient struct {
	logger *slog.Logger
}

// NewClient creates the default git client for this build (go-git backed).
func NewClient(loggerHandler slog.Handler) Client {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	logger := slog.New(loggerHandler).With(
		slog.String("component", "gitClient"), slog.String("backend", "go-git"))
	return &gogitClient{logger: logger}
}

func (c *gogitClient) openRepo(repoPath string) (*gogit.Repository, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, Errorf("resolving repository path %q: %v", repoPath, err)
	}
	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, Errorf("opening repository at %q: %v", abs, err)
	}
	return repo, nil
}

// ChangedFiles implements Client.
func (c *gogitClient) ChangedFiles(repoPath, mode, ref string) ([]string, error) {
	repo, err := c.openRepo(repoPath)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, Errorf("resolving HEAD: %v", err)
	}
	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, Errorf("loading HEAD commit: %v", err)
	}

	switch mode {
	case "diffOnly":
		wt, err := repo.Worktree()
		if err != nil {
			return nil, Errorf("opening worktree: %v", err)
		}
		status, err := wt.Status()
		if err != nil {
			return nil, Errorf("reading worktree status: %v", err)
		}
		var files []string
		for path, st := range status {
			if st.Worktree != gogit.Unmodified || st.Staging != gogit.Unmodified {
				files = append(files, path)
			}
		}
		return files, nil

	case "since":
		if ref == "" {
			return nil, Errorf("mode %q requires a reference", mode)
		}
		hash, err := repo.ResolveRevision(plumbing.Revision(ref))
		if err != nil {
			return nil, Errorf("resolving revision %q: %v", ref, err)
		}
		baseCommit, err := repo.CommitObject(*hash)
		if err != nil {
			return nil, Errorf("loading commit %s: %v", hash, err)
		}
		patch, err := baseCommit.Patch(headCommit)
		if err != nil {
			return nil, Errorf("diffing %q against HEAD: %v", ref, err)
		}
		seen := make(map[string]struct{})
		var files []string
		for _, fp := range patch.FilePatches() {
			from, to := fp.Files()
			for _, f := range []diff.File{from, to} {
				if f == nil {
					continue
				}
				if _, ok := seen[f.Path()]; !ok {
					seen[f.Path()] = struct{}{}
					files = append(files, f.Path())
				}
			}
		}
		return files, nil

	default:
		return nil, Errorf("unsupported diff mode %q", mode)
	}
}
