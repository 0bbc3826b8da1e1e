package fsquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name     string
		entry    string
		absPath  string
		patterns []string
		want     bool
	}{
		{"no patterns", "a.py", "/tmp/proj/a.py", nil, false},
		{"name glob", "a.pyc", "/tmp/proj/a.pyc", []string{"*.pyc"}, true},
		{"name glob miss", "a.py", "/tmp/proj/a.py", []string{"*.pyc"}, false},
		{"absolute path glob", "a.py", "/tmp/proj/a.py", []string{"/tmp/proj/*.py"}, true},
		{"dir prefix", "b.py", "/tmp/proj/sub/b.py", []string{"/tmp/proj/sub/*"}, true},
		{"dir prefix matches the directory itself", "sub", "/tmp/proj/sub", []string{"/tmp/proj/sub/*"}, true},
		// The "/*" shortcut is a string prefix test, so siblings sharing the prefix match too.
		{"dir prefix over-matches sibling", "sub-old", "/tmp/proj/sub-old", []string{"/tmp/proj/sub/*"}, true},
		// Relative "dir/*" patterns never match an absolute path prefix.
		{"relative dir prefix", "sub", "/tmp/proj/sub", []string{"sub/*"}, false},
		{"double star one level", "a.py", "/tmp/proj/a.py", []string{"/tmp/**/a.py"}, true},
		// "**" collapses to "*" and does not cross separators.
		{"double star two levels", "a.py", "/tmp/proj/deep/a.py", []string{"/tmp/**/a.py"}, false},
		{"malformed pattern", "a[", "/tmp/a[", []string{"a["}, false},
		{"later pattern wins", "x.log", "/tmp/x.log", []string{"*.pyc", "*.log"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldIgnore(tt.entry, tt.absPath, tt.patterns))
		})
	}
}
