package gitwalk

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// lineRange is an inclusive, 1-based range of line numbers.
type lineRange struct {
	start, end int
}

func (r lineRange) overlaps(start, end int) bool {
	return r.start <= end && start <= r.end
}

type lineDiff struct {
	added     int
	deleted   int
	newRanges []lineRange // inserted lines, numbered in the new text
	oldRanges []lineRange // deleted lines, numbered in the old text
}

// diffLines runs a line-mode diff of two texts.
func diffLines(oldText, newText string) lineDiff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(a, b, false), lines)

	var d lineDiff
	oldLine, newLine := 1, 1
	for _, diff := range diffs {
		n := countLines(diff.Text)
		if n == 0 {
			continue
		}
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			oldLine += n
			newLine += n
		case diffmatchpatch.DiffInsert:
			d.added += n
			d.newRanges = append(d.newRanges, lineRange{newLine, newLine + n - 1})
			newLine += n
		case diffmatchpatch.DiffDelete:
			d.deleted += n
			d.oldRanges = append(d.oldRanges, lineRange{oldLine, oldLine + n - 1})
			oldLine += n
		}
	}
	return d
}

// countLines counts lines, including a last line without a newline.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

// nonBlankLines is the lines-of-code measure: lines with anything but whitespace.
func nonBlankLines(text string) int {
	n := 0
	for line := range strings.Lines(text) {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
