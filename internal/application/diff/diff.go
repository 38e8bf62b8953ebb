// Package diff describes how a record's text changed between two runs.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"rtmsync/internal/domain"
)

// Lines computes a line diff between oldText and newText. Each resulting
// segment is then split on {{del}}…{{/del}} markup into struck and plain
// subspans. Identical inputs yield a single unchanged segment.
func Lines(oldText, newText string) []domain.Segment {
	if oldText == newText {
		return []domain.Segment{segment(domain.SegmentUnchanged, newText)}
	}

	a, b := splitLines(oldText), splitLines(newText)
	matcher := difflib.NewMatcherWithJunk(a, b, false, nil)

	var segments []domain.Segment
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			segments = append(segments, segment(domain.SegmentUnchanged, join(a[op.I1:op.I2])))
		case 'd':
			segments = append(segments, segment(domain.SegmentRemoved, join(a[op.I1:op.I2])))
		case 'i':
			segments = append(segments, segment(domain.SegmentAdded, join(b[op.J1:op.J2])))
		case 'r':
			segments = append(segments,
				segment(domain.SegmentRemoved, join(a[op.I1:op.I2])),
				segment(domain.SegmentAdded, join(b[op.J1:op.J2])),
			)
		}
	}
	return segments
}

// HasChanges reports whether any segment is added or removed
func HasChanges(segments []domain.Segment) bool {
	for _, s := range segments {
		if s.Kind != domain.SegmentUnchanged {
			return true
		}
	}
	return false
}

func segment(kind domain.SegmentKind, text string) domain.Segment {
	return domain.Segment{Kind: kind, Subspans: domain.SplitStruck(text)}
}

// splitLines keeps line terminators; a final line without "\n" stays as is
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func join(lines []string) string {
	return strings.Join(lines, "")
}
