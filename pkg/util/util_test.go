package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aclev/cljstyle/pkg/util"
)

func TestMatchesIgnorePattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		relPath string
		want    bool
	}{
		{"exact segment at root", ".git", ".git", true},
		{"segment at depth", ".git", "src/.git", true},
		{"glob segment", "*.tmp", "deep/nested/scratch.tmp", true},
		{"glob does not cross separators", "*.tmp", "scratch.tmp/inner", true}, // matches the scratch.tmp segment
		{"no match", "target", "src/core.clj", false},
		{"slash pattern at root", "vendor/generated", "vendor/generated", true},
		{"slash pattern below root", "vendor/generated", "third/vendor/generated", true},
		{"slash pattern partial", "vendor/generated", "vendor", false},
		{"trailing slash stripped", "gen/", "gen", true},
		{"empty pattern", "", "anything", false},
		{"dot path", ".git", ".", false},
		{"case sensitive", "Target", "target", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, util.MatchesIgnorePattern(tc.pattern, tc.relPath))
		})
	}
}
