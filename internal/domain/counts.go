package domain

// Counter keys of a statistics entry, in schema order
const (
	KeyRequirements                   = "requirements"
	KeyAcceptanceCriteria             = "acceptanceCriteria"
	KeyAcceptanceCriteriaWithoutTests = "acceptanceCriteriaWithoutTests"
	KeyAcceptanceCriteriaAutomatable  = "acceptanceCriteriaAutomatable"
	KeyTestCases                      = "testCases"
	KeyAutomationNotValidCases        = "automationNotValidCases"
	KeyAutomatedCases                 = "automatedCases"
	KeyAcceptanceCriteriaAutomated    = "acceptanceCriteriaAutomated"
)

// CounterKeys is the current statistics schema
var CounterKeys = []string{
	KeyRequirements,
	KeyAcceptanceCriteria,
	KeyAcceptanceCriteriaWithoutTests,
	KeyAcceptanceCriteriaAutomatable,
	KeyTestCases,
	KeyAutomationNotValidCases,
	KeyAutomatedCases,
	KeyAcceptanceCriteriaAutomated,
}

// Counts holds the aggregate numbers of one run
type Counts struct {
	Requirements                   int
	AcceptanceCriteria             int
	AcceptanceCriteriaWithoutTests int
	AcceptanceCriteriaAutomatable  int
	TestCases                      int
	AutomationNotValidCases        int
	AutomatedCases                 int
	AcceptanceCriteriaAutomated    int
}

// Map returns the counts keyed by schema key
func (c Counts) Map() map[string]int {
	return map[string]int{
		KeyRequirements:                   c.Requirements,
		KeyAcceptanceCriteria:             c.AcceptanceCriteria,
		KeyAcceptanceCriteriaWithoutTests: c.AcceptanceCriteriaWithoutTests,
		KeyAcceptanceCriteriaAutomatable:  c.AcceptanceCriteriaAutomatable,
		KeyTestCases:                      c.TestCases,
		KeyAutomationNotValidCases:        c.AutomationNotValidCases,
		KeyAutomatedCases:                 c.AutomatedCases,
		KeyAcceptanceCriteriaAutomated:    c.AcceptanceCriteriaAutomated,
	}
}

// CountsFromMap reads counts from a stored entry; missing keys are zero
func CountsFromMap(m map[string]int) Counts {
	return Counts{
		Requirements:                   m[KeyRequirements],
		AcceptanceCriteria:             m[KeyAcceptanceCriteria],
		AcceptanceCriteriaWithoutTests: m[KeyAcceptanceCriteriaWithoutTests],
		AcceptanceCriteriaAutomatable:  m[KeyAcceptanceCriteriaAutomatable],
		TestCases:                      m[KeyTestCases],
		AutomationNotValidCases:        m[KeyAutomationNotValidCases],
		AutomatedCases:                 m[KeyAutomatedCases],
		AcceptanceCriteriaAutomated:    m[KeyAcceptanceCriteriaAutomated],
	}
}

// Tally computes the counts that derive from the records alone.
// AutomatedCases and AcceptanceCriteriaAutomated are left at zero.
func Tally(records []Record) Counts {
	counts := Counts{Requirements: len(records)}

	uniqueCases := make(map[string]struct{})
	notValidCases := make(map[string]struct{})

	for _, r := range records {
		counts.AcceptanceCriteria += len(r.Criteria)

		for _, c := range r.Criteria {
			if len(c.TestCaseIDs) == 0 {
				counts.AcceptanceCriteriaWithoutTests++
			}
			if c.Automatable {
				counts.AcceptanceCriteriaAutomatable++
			}

			for _, id := range c.TestCaseIDs {
				num, ok := CaseNumber(id)
				if !ok {
					continue
				}
				uniqueCases[num] = struct{}{}
				if !c.Automatable {
					notValidCases[num] = struct{}{}
				}
			}
		}
	}

	counts.TestCases = len(uniqueCases)
	counts.AutomationNotValidCases = len(notValidCases)
	return counts
}

// AutomatableCaseNumbers returns the unique case numbers linked to automatable
// criteria, in first-seen order
func AutomatableCaseNumbers(records []Record) []string {
	seen := make(map[string]bool)
	var nums []string
	for _, r := range records {
		for _, c := range r.Criteria {
			if !c.Automatable {
				continue
			}
			for _, id := range c.TestCaseIDs {
				num, ok := CaseNumber(id)
				if !ok || seen[num] {
					continue
				}
				seen[num] = true
				nums = append(nums, num)
			}
		}
	}
	return nums
}
