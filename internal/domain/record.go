package domain

import "regexp"

// Record is a requirement page reduced to its acceptance criteria
type Record struct {
	ID       string
	Title    string
	Text     string // Plain text of the page
	Changed  bool
	Criteria []Criterion
}

// Criterion is one acceptance criterion with its linked test cases
type Criterion struct {
	Name        string
	Automatable bool
	TestCaseIDs []string // Provider-prefixed IDs as written (e.g. "CASE-123")
}

var caseNumberRegex = regexp.MustCompile(`\d+`)

// CaseNumber extracts the canonical identity of a test case ID: its first run
// of digits. "CASE-123", "case-123" and "TC123" all map to "123".
func CaseNumber(id string) (string, bool) {
	n := caseNumberRegex.FindString(id)
	return n, n != ""
}

// AutomationLevel is the automation state reported by the test management service
type AutomationLevel int

const (
	AutomationNone AutomationLevel = iota
	AutomationPlanned
	AutomationAutomated
)

// Automated reports whether the level counts as automated
func (l AutomationLevel) Automated() bool {
	return l >= AutomationAutomated
}

func (l AutomationLevel) String() string {
	switch l {
	case AutomationNone:
		return "Not automated"
	case AutomationPlanned:
		return "To be automated"
	default:
		return "Automated"
	}
}

// AutomationGap lists the criteria of a record that still need automation
type AutomationGap struct {
	RecordID string
	Title    string
	Criteria []string
}
