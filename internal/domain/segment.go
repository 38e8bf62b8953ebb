package domain

import "strings"

// Inline deletion markup carried in plain text
const (
	DelOpen  = "{{del}}"
	DelClose = "{{/del}}"
)

// SegmentKind tags a run of lines in a diff
type SegmentKind int

const (
	SegmentUnchanged SegmentKind = iota
	SegmentAdded
	SegmentRemoved
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentAdded:
		return "added"
	case SegmentRemoved:
		return "removed"
	default:
		return "unchanged"
	}
}

// Segment is a run of lines sharing one change kind
type Segment struct {
	Kind     SegmentKind
	Subspans []Subspan
}

// Subspan is a piece of segment text with its own strike-through state
type Subspan struct {
	Text   string
	Struck bool
}

// Text joins the segment's subspans back into plain text (markup removed)
func (s Segment) Text() string {
	var b strings.Builder
	for _, sp := range s.Subspans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// SplitStruck splits text on {{del}}…{{/del}} markup. Marked spans become
// struck subspans; everything else stays plain. An unterminated {{del}} is
// kept as literal text.
func SplitStruck(text string) []Subspan {
	var spans []Subspan
	rest := text
	for {
		open := strings.Index(rest, DelOpen)
		if open < 0 {
			break
		}
		end := strings.Index(rest[open+len(DelOpen):], DelClose)
		if end < 0 {
			break
		}
		if open > 0 {
			spans = append(spans, Subspan{Text: rest[:open]})
		}
		inner := rest[open+len(DelOpen) : open+len(DelOpen)+end]
		spans = append(spans, Subspan{Text: inner, Struck: true})
		rest = rest[open+len(DelOpen)+end+len(DelClose):]
	}
	if rest != "" || len(spans) == 0 {
		spans = append(spans, Subspan{Text: rest})
	}
	return spans
}

// RecordChange is one entry of a change set
type RecordChange struct {
	Record   Record
	Previous *Record
	Segments []Segment
}

// ChangeSet is the difference between the previous and current record lists
type ChangeSet struct {
	InitialLaunch bool
	Added         []RecordChange
	Updated       []RecordChange
	Deleted       []RecordChange
	Unknown       []Record // Previous records hidden under a failed branch
}

// Empty reports whether nothing changed
func (c ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Deleted) == 0
}
