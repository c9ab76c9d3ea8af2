package styler_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aclev/cljstyle/pkg/styler"
)

func newTestProcessor(t *testing.T) *styler.StyleProcessor {
	t.Helper()
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})
	return styler.NewStyleProcessor(handler)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestProcessClean(t *testing.T) {
	p := newTestProcessor(t)
	file := writeFile(t, t.TempDir(), "clean.clj", "(ns clean)\n(def x 1)\n")

	ev, err := p.Process(context.Background(), styler.DefaultRuleSet(), "clean.clj", file)
	require.NoError(t, err)
	assert.Equal(t, styler.KindClean, ev.Kind)
	assert.Empty(t, ev.Warning)
}

func TestProcessFlagsProblems(t *testing.T) {
	tests := []struct {
		name    string
		content string
		rules   func(r *styler.RuleSet)
		wantIn  string
	}{
		{
			name:    "trailing whitespace",
			content: "(def x 1)   \n",
			wantIn:  "trailing whitespace",
		},
		{
			name:    "missing final newline",
			content: "(def x 1)",
			wantIn:  "missing final newline",
		},
		{
			name:    "long line",
			content: "(def xxxxxxxxxx 1)\n",
			rules:   func(r *styler.RuleSet) { r.MaxLineLength = 10 },
			wantIn:  "exceeds 10 characters",
		},
		{
			name:    "tab indentation",
			content: "(def a\n\t1)\n",
			wantIn:  "tab indentation",
		},
		{
			name:    "space indentation under tabs policy",
			content: "(def a\n  1)\n",
			rules:   func(r *styler.RuleSet) { r.Indent = styler.IndentTabs },
			wantIn:  "space indentation",
		},
	}

	p := newTestProcessor(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rules := styler.DefaultRuleSet()
			if tc.rules != nil {
				tc.rules(&rules)
			}
			file := writeFile(t, t.TempDir(), "f.clj", tc.content)

			ev, err := p.Process(context.Background(), rules, "f.clj", file)
			require.NoError(t, err)
			assert.Equal(t, styler.KindFlagged, ev.Kind)
			assert.Contains(t, ev.Warning, tc.wantIn)
		})
	}
}

func TestProcessIndentAnyAcceptsBoth(t *testing.T) {
	p := newTestProcessor(t)
	rules := styler.DefaultRuleSet()
	rules.Indent = styler.IndentAny
	file := writeFile(t, t.TempDir(), "f.clj", "(def a\n\t1\n  2)\n")

	ev, err := p.Process(context.Background(), rules, "f.clj", file)
	require.NoError(t, err)
	assert.Equal(t, styler.KindClean, ev.Kind)
}

func TestProcessFixMode(t *testing.T) {
	p := newTestProcessor(t)
	rules := styler.DefaultRuleSet()
	rules.Fix = true
	file := writeFile(t, t.TempDir(), "f.clj", "(def x 1)  \n(def y 2)")

	ev, err := p.Process(context.Background(), rules, "f.clj", file)
	require.NoError(t, err)
	assert.Equal(t, styler.KindFixed, ev.Kind)
	assert.Contains(t, ev.Message, "Reformatting source file f.clj")

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "(def x 1)\n(def y 2)\n", string(content))
}

func TestProcessFixModeReportsRemainingProblems(t *testing.T) {
	// Trailing whitespace is fixable, the long line is not: the file is
	// rewritten, and the leftover problem stays in the event's warning.
	p := newTestProcessor(t)
	rules := styler.DefaultRuleSet()
	rules.Fix = true
	rules.MaxLineLength = 10
	file := writeFile(t, t.TempDir(), "f.clj", "(def xxxxxxxxxx 1)  \n")

	ev, err := p.Process(context.Background(), rules, "f.clj", file)
	require.NoError(t, err)
	assert.Equal(t, styler.KindFixed, ev.Kind)
	assert.Contains(t, ev.Warning, "exceeds 10 characters")
	assert.Contains(t, ev.Warning, "still has 1 style problem")

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "(def xxxxxxxxxx 1)\n", string(content))
}

func TestProcessFixModeUnfixableStaysFlagged(t *testing.T) {
	// A line-length violation has no rewrite; fix mode still reports it.
	p := newTestProcessor(t)
	rules := styler.DefaultRuleSet()
	rules.Fix = true
	rules.MaxLineLength = 5
	original := "(def xxxxxxxxxx 1)\n"
	file := writeFile(t, t.TempDir(), "f.clj", original)

	ev, err := p.Process(context.Background(), rules, "f.clj", file)
	require.NoError(t, err)
	assert.Equal(t, styler.KindFlagged, ev.Kind)

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, original, string(content), "file not rewritten when nothing is fixable")
}

func TestProcessBinaryRejected(t *testing.T) {
	p := newTestProcessor(t)
	file := writeFile(t, t.TempDir(), "blob.clj", "\x00\x01\x02\x03binary\x00\x00garbage\x00")

	_, err := p.Process(context.Background(), styler.DefaultRuleSet(), "blob.clj", file)
	assert.ErrorIs(t, err, styler.ErrBinaryFile)
}

func TestProcessLargeFileRejected(t *testing.T) {
	p := newTestProcessor(t)
	rules := styler.DefaultRuleSet()
	rules.MaxFileSize = 16
	file := writeFile(t, t.TempDir(), "big.clj", "(ns big)\n(def data \"0123456789\")\n")

	_, err := p.Process(context.Background(), rules, "big.clj", file)
	assert.ErrorIs(t, err, styler.ErrLargeFile)
}

func TestProcessMissingFile(t *testing.T) {
	p := newTestProcessor(t)
	_, err := p.Process(context.Background(), styler.DefaultRuleSet(), "gone.clj",
		filepath.Join(t.TempDir(), "gone.clj"))
	assert.ErrorIs(t, err, styler.ErrReadFailed)
}

func TestProcessCancelledContext(t *testing.T) {
	p := newTestProcessor(t)
	file := writeFile(t, t.TempDir(), "f.clj", "(ns f)\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Process(ctx, styler.DefaultRuleSet(), "f.clj", file)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessMaxLineLengthZeroDisables(t *testing.T) {
	p := newTestProcessor(t)
	rules := styler.DefaultRuleSet()
	rules.MaxLineLength = 0
	long := "(def x \"" + strings.Repeat("a", 300) + "\")\n"
	file := writeFile(t, t.TempDir(), "f.clj", long)

	ev, err := p.Process(context.Background(), rules, "f.clj", file)
	require.NoError(t, err)
	assert.Equal(t, styler.KindClean, ev.Kind)
}
