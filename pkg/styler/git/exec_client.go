//go:build !gogit

package git

import (
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// execClient implements the Client interface using the native git command.
type execClient struct {
	logger *slog.Logger
}

// NewClient creates the default git client for this build (exec-backed).
func NewClient(loggerHandler slog.Handler) Client {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	logger := slog.New(loggerHandler).With(
		slog.String("component", "gitClient"), slog.String("backend", "exec"))
	return &execClient{logger: logger}
}

// ChangedFiles implements Client by running `git diff --name-only`.
func (c *execClient) ChangedFiles(repoPath, mode, ref string) ([]string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, Errorf("git executable not found in PATH: %v", err)
	}

	args := []string{"-C", repoPath, "diff", "--name-only"}
	switch mode {
	case "diffOnly":
		args = append(args, "HEAD")
	case "since":
		if ref == "" {
			return nil, Errorf("mode %q requires a reference", mode)
		}
		args = append(args, ref+"...HEAD")
	default:
		return nil, Errorf("unsupported diff mode %q", mode)
	}

	c.logger.Debug("Running git", slog.String("args", strings.Join(args, " ")))
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, Errorf("git diff failed for %s: %s", repoPath, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, Errorf("git diff failed for %s: %v", repoPath, err)
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}
