package styler

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/aclev/cljstyle/pkg/styler/language"
	"github.com/aclev/cljstyle/pkg/util"
)

// ruleResolver is the default Resolver: ignore decisions come from the rule
// set's gitignore-style patterns, source-file decisions from filename-based
// language detection, and per-directory overrides from .cljstyle.yaml or
// .cljstyle.toml files. It holds no per-run state and is safe for concurrent use.
type ruleResolver struct {
	detector language.Detector
	logger   *slog.Logger
}

// NewRuleResolver creates the default resolver.
func NewRuleResolver(loggerHandler slog.Handler) Resolver {
	return NewRuleResolverWithDetector(loggerHandler, language.NewGoEnryDetector(nil))
}

// NewRuleResolverWithDetector creates the default resolver with a custom
// language detector.
func NewRuleResolverWithDetector(loggerHandler slog.Handler, detector language.Detector) Resolver {
	logger := slog.New(loggerHandler).With(slog.String("component", "resolver"))
	return &ruleResolver{detector: detector, logger: logger}
}

// IsIgnored matches the entry's root-relative path against the rule set's
// ignore patterns.
func (r *ruleResolver) IsIgnored(rules RuleSet, root Root, file string, isDir bool) bool {
	rel, err := filepath.Rel(root.Abs, file)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range rules.IgnorePatterns {
		if strings.HasSuffix(pattern, "/") && !isDir {
			continue
		}
		if util.MatchesIgnorePattern(pattern, rel) {
			return true
		}
	}
	return false
}

// IsSourceFile reports whether any of the file's detected candidate languages
// is in the rule set's allow-list. Ambiguous extensions produce several
// candidates; matching any of them is enough.
func (r *ruleResolver) IsSourceFile(rules RuleSet, file string) bool {
	langs, ok := r.detector.DetectPath(file)
	if !ok {
		return false
	}
	for _, lang := range langs {
		if slices.Contains(rules.Languages, lang) {
			return true
		}
	}
	return false
}

// LocalOverrides loads the directory's override file, preferring the YAML
// spelling when both exist. A directory with no override file yields (nil, nil).
func (r *ruleResolver) LocalOverrides(dir string) (*Override, error) {
	if o, found, err := loadOverrideYAML(filepath.Join(dir, OverrideFileYAML)); found || err != nil {
		return o, err
	}
	if o, found, err := loadOverrideTOML(filepath.Join(dir, OverrideFileTOML)); found || err != nil {
		return o, err
	}
	return nil, nil
}

// Merge implements Resolver via RuleSet.Merge.
func (r *ruleResolver) Merge(rules RuleSet, o *Override) RuleSet {
	return rules.Merge(o)
}

func loadOverrideYAML(path string) (*Override, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, true, fmt.Errorf("reading %s: %w", path, err)
	}
	var o Override
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, true, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &o, true, nil
}

func loadOverrideTOML(path string) (*Override, bool, error) {
	var o Override
	if _, err := toml.DecodeFile(path, &o); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, true, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &o, true, nil
}

// LoadIgnoreFile reads additional ignore patterns from an ignore file, one
// pattern per line, skipping blanks and '#' comments. A missing file is not an
// error and yields no patterns.
func LoadIgnoreFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ignore file %s: %w", path, err)
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ignore file %s: %w", path, err)
	}
	return patterns, nil
}

// FindIgnoreFile walks up from startPath looking for the nearest ignore file.
// Returns the empty string when none exists.
func FindIgnoreFile(startPath string) (string, error) {
	current, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(current, IgnoreFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("checking for ignore file at %s: %w", candidate, err)
		}
		parent := filepath.Dir(current)
		if parent == current || parent == "" {
			return "", nil
		}
		current = parent
	}
}
