package styler

import (
	"fmt"
	"path"
	"path/filepath"
)

// Root identifies one top-level directory submitted for checking. Spelled keeps
// the path exactly as the caller wrote it so display paths stay recognizable;
// Abs is the canonical absolute form used for all file-system work.
type Root struct {
	Spelled string
	Abs     string
}

// NewRoot resolves a caller-supplied path into a Root.
func NewRoot(spelled string) (Root, error) {
	if spelled == "" {
		spelled = "."
	}
	abs, err := filepath.Abs(spelled)
	if err != nil {
		return Root{}, fmt.Errorf("resolving root %q: %w", spelled, err)
	}
	return Root{Spelled: spelled, Abs: abs}, nil
}

// Relativize produces the stable display path for a file beneath the root. A
// root spelled as the current directory yields the bare relative path with no
// leading "./"; any other spelling is joined with the segment between root and
// file. Separators are always forward slashes, so the result is identical no
// matter which worker computes it.
func (r Root) Relativize(file string) string {
	rel, err := filepath.Rel(r.Abs, file)
	if err != nil || rel == "." {
		rel = ""
	}
	rel = filepath.ToSlash(rel)

	spelled := filepath.ToSlash(filepath.Clean(r.Spelled))
	if spelled == "." {
		if rel == "" {
			return "."
		}
		return rel
	}
	if rel == "" {
		return spelled
	}
	return path.Join(spelled, rel)
}

// Job is one unit of work submitted to the scheduler: check Start (which may be
// the root itself or a descendant of it) under the given rules, displaying
// paths relative to Root.
type Job struct {
	Rules RuleSet
	Root  Root
	Start string
}

// NewJob builds a Job whose start path is the root itself.
func NewJob(rules RuleSet, rootPath string) (Job, error) {
	root, err := NewRoot(rootPath)
	if err != nil {
		return Job{}, err
	}
	return Job{Rules: rules, Root: root, Start: root.Abs}, nil
}
