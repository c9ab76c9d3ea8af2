package styler_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aclev/cljstyle/pkg/styler"
)

func newTestResolver(t *testing.T) styler.Resolver {
	t.Helper()
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})
	return styler.NewRuleResolver(handler)
}

func TestIsIgnored(t *testing.T) {
	r := newTestResolver(t)
	dir := t.TempDir()
	root, err := styler.NewRoot(dir)
	require.NoError(t, err)

	rules := styler.DefaultRuleSet()
	rules.IgnorePatterns = []string{".git", "target", "*.tmp", "gen/"}

	tests := []struct {
		rel   string
		isDir bool
		want  bool
	}{
		{".git", true, true},
		{"src/.git", true, true},
		{"target", true, true},
		{"scratch.tmp", false, true},
		{"deep/nested/scratch.tmp", false, true},
		{"gen", true, true},
		{"gen", false, false}, // dir-only pattern does not match files
		{"src/core.clj", false, false},
		{"src", true, false},
	}
	for _, tc := range tests {
		got := r.IsIgnored(rules, root, filepath.Join(dir, filepath.FromSlash(tc.rel)), tc.isDir)
		assert.Equal(t, tc.want, got, "pattern match for %s (dir=%v)", tc.rel, tc.isDir)
	}
}

func TestIsIgnoredNeverMatchesRootItself(t *testing.T) {
	r := newTestResolver(t)
	dir := t.TempDir()
	root, err := styler.NewRoot(dir)
	require.NoError(t, err)

	rules := styler.DefaultRuleSet()
	rules.IgnorePatterns = []string{"*"}
	assert.False(t, r.IsIgnored(rules, root, dir, true))
}

func TestIsSourceFile(t *testing.T) {
	r := newTestResolver(t)
	rules := styler.DefaultRuleSet()

	assert.True(t, r.IsSourceFile(rules, "core.clj"))
	assert.True(t, r.IsSourceFile(rules, "data.edn"))
	assert.True(t, r.IsSourceFile(rules, "shared.cljc"))
	assert.False(t, r.IsSourceFile(rules, "readme.md"))
	assert.False(t, r.IsSourceFile(rules, "noextension"))

	rules.Languages = []string{"markdown"}
	assert.False(t, r.IsSourceFile(rules, "core.clj"))
	assert.True(t, r.IsSourceFile(rules, "readme.md"))
}

func TestLocalOverridesYAML(t *testing.T) {
	r := newTestResolver(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, styler.OverrideFileYAML),
		[]byte("maxLineLength: 80\nignore:\n  - gen\n"), 0644))

	o, err := r.LocalOverrides(dir)
	require.NoError(t, err)
	require.NotNil(t, o)
	require.NotNil(t, o.MaxLineLength)
	assert.Equal(t, 80, *o.MaxLineLength)
	assert.Equal(t, []string{"gen"}, o.IgnorePatterns)
	assert.Nil(t, o.Indent, "unset fields stay nil")
}

func TestLocalOverridesTOML(t *testing.T) {
	r := newTestResolver(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, styler.OverrideFileTOML),
		[]byte("indent = \"tabs\"\nfinalNewline = false\n"), 0644))

	o, err := r.LocalOverrides(dir)
	require.NoError(t, err)
	require.NotNil(t, o)
	require.NotNil(t, o.Indent)
	assert.Equal(t, styler.IndentTabs, *o.Indent)
	require.NotNil(t, o.RequireFinalNewline)
	assert.False(t, *o.RequireFinalNewline)
}

func TestLocalOverridesYAMLWinsOverTOML(t *testing.T) {
	r := newTestResolver(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, styler.OverrideFileYAML),
		[]byte("maxLineLength: 40\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, styler.OverrideFileTOML),
		[]byte("maxLineLength = 99\n"), 0644))

	o, err := r.LocalOverrides(dir)
	require.NoError(t, err)
	require.NotNil(t, o)
	require.NotNil(t, o.MaxLineLength)
	assert.Equal(t, 40, *o.MaxLineLength)
}

func TestLocalOverridesAbsent(t *testing.T) {
	r := newTestResolver(t)
	o, err := r.LocalOverrides(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestLocalOverridesMalformed(t *testing.T) {
	r := newTestResolver(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, styler.OverrideFileYAML),
		[]byte(": not yaml {{{\n"), 0644))

	_, err := r.LocalOverrides(dir)
	assert.Error(t, err)
}

func TestLoadIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, styler.IgnoreFileName)
	require.NoError(t, os.WriteFile(path,
		[]byte("# generated outputs\ntarget\n\n*.tmp\n  gen  \n"), 0644))

	patterns, err := styler.LoadIgnoreFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"target", "*.tmp", "gen"}, patterns)
}

func TestLoadIgnoreFileMissing(t *testing.T) {
	patterns, err := styler.LoadIgnoreFile(filepath.Join(t.TempDir(), styler.IgnoreFileName))
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestFindIgnoreFileWalksUp(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0755))
	want := filepath.Join(dir, styler.IgnoreFileName)
	require.NoError(t, os.WriteFile(want, []byte("target\n"), 0644))

	found, err := styler.FindIgnoreFile(nested)
	require.NoError(t, err)
	assert.Equal(t, want, found)
}

func TestFindIgnoreFileNone(t *testing.T) {
	found, err := styler.FindIgnoreFile(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, found)
}
