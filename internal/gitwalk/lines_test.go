package gitwalk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffLines(t *testing.T) {
	tests := []struct {
		name      string
		old, new  string
		added     int
		deleted   int
		newRanges []lineRange
		oldRanges []lineRange
	}{
		{"identical", "a\nb\n", "a\nb\n", 0, 0, nil, nil},
		{"added file", "", "a\nb\nc\n", 3, 0, []lineRange{{1, 3}}, nil},
		{"deleted file", "a\nb\n", "", 0, 2, nil, []lineRange{{1, 2}}},
		{"one line replaced", "a\nb\nc\n", "a\nx\nc\n", 1, 1, []lineRange{{2, 2}}, []lineRange{{2, 2}}},
		{"appended", "a\n", "a\nb\nc\n", 2, 0, []lineRange{{2, 3}}, nil},
		{"no trailing newline", "a", "a\nb", 2, 1, []lineRange{{1, 2}}, []lineRange{{1, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := diffLines(tt.old, tt.new)
			assert.Equal(t, tt.added, d.added)
			assert.Equal(t, tt.deleted, d.deleted)
			assert.Equal(t, tt.newRanges, d.newRanges)
			assert.Equal(t, tt.oldRanges, d.oldRanges)
		})
	}
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, countLines(""))
	assert.Equal(t, 1, countLines("a"))
	assert.Equal(t, 1, countLines("a\n"))
	assert.Equal(t, 2, countLines("a\nb"))
	assert.Equal(t, 2, countLines("\n\n"))
}

func TestNonBlankLines(t *testing.T) {
	assert.Equal(t, 0, nonBlankLines(""))
	assert.Equal(t, 2, nonBlankLines("a\n\n   \n\tb\n"))
	assert.Equal(t, 1, nonBlankLines("no newline"))
}
