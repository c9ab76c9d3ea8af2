package git

import (
	"errors"
	"fmt"
)

// ErrGitOperation indicates a failure during a Git operation performed via the
// Client. This might be the path not being a repository, an invalid reference,
// or an error from the underlying git command or library. Implementations wrap
// specific causes with this variable for consistent errors.Is checks.
var ErrGitOperation = errors.New("git operation failed")

// Client defines the operations needed to restrict a run to changed files.
// Implementations may shell out to the native `git` command or use a library
// like go-git.
type Client interface {
	// ChangedFiles lists repository-relative paths that changed. Mode
	// "diffOnly" compares the working tree and index against HEAD; mode
	// "since" compares the given ref against HEAD.
	ChangedFiles(repoPath, mode, ref string) ([]string, error)
}

// Errorf returns a formatted error wrapping ErrGitOperation. Helper intended
// for use by Client implementations.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrGitOperation}, args...)...)
}
