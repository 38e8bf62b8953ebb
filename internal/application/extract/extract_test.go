package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"rtmsync/internal/application"
	"rtmsync/internal/domain"
)

func testRules() Rules {
	return Rules{
		Trigger:     ParsePattern(`<p>Criterion|`),
		Criterion:   ParsePattern(`<p>(Criterion \w+):\s*(.*?)</p>|g`),
		TestCases:   ParsePattern(`((?:CASE-\d+,?\s*)+)|gi`),
		Automatable: ParsePattern(`\[NA\]`),
	}
}

func TestParsePattern(t *testing.T) {
	tests := []struct {
		in   string
		want Pattern
	}{
		{`AC-\d+`, Pattern{Expr: `AC-\d+`}},
		{`AC-\d+|gi`, Pattern{Expr: `AC-\d+`, Flags: "gi"}},
		{`a|b|`, Pattern{Expr: `a|b`}},
		{`a|b+`, Pattern{Expr: `a|b+`}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePattern(tt.in))
		})
	}
}

func TestRegexExtractor_Extract(t *testing.T) {
	ex, err := NewRegexExtractor(testRules())
	require.NoError(t, err)

	content := `<p>Criterion A: text CASE-123, CASE-124 [NA]</p>`
	require.True(t, ex.Matches(content))

	got := ex.Extract(content)
	require.Len(t, got, 1)
	assert.Equal(t, domain.Criterion{
		Name:        "Criterion A",
		Automatable: false,
		TestCaseIDs: []string{"CASE-123", "CASE-124"},
	}, got[0])
}

func TestRegexExtractor_Polarity(t *testing.T) {
	tests := []struct {
		name        string
		whenMatched bool
		description string
		want        bool
	}{
		{"indicator excludes, present", false, "x [NA]", false},
		{"indicator excludes, absent", false, "x", true},
		{"indicator includes, present", true, "x [NA]", true},
		{"indicator includes, absent", true, "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := testRules()
			rules.AutomatableWhenMatched = tt.whenMatched
			ex, err := NewRegexExtractor(rules)
			require.NoError(t, err)

			got := ex.Extract("<p>Criterion B: " + tt.description + "</p>")
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Automatable)
		})
	}
}

func TestRegexExtractor_OrderAndDuplicates(t *testing.T) {
	ex, err := NewRegexExtractor(testRules())
	require.NoError(t, err)

	content := "<p>Criterion A: none</p><p>Criterion B: case-7,,CASE-8</p><p>Criterion A: again</p>"
	got := ex.Extract(content)

	require.Len(t, got, 3)
	assert.Equal(t, "Criterion A", got[0].Name)
	assert.Empty(t, got[0].TestCaseIDs)
	assert.Equal(t, []string{"case-7", "CASE-8"}, got[1].TestCaseIDs)
	assert.Equal(t, "Criterion A", got[2].Name)
}

func TestNewRegexExtractor_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Rules)
		field  string
	}{
		{"bad criterion pattern", func(r *Rules) { r.Criterion = Pattern{Expr: `(unclosed`} }, "criterion"},
		{"too few groups", func(r *Rules) { r.Criterion = Pattern{Expr: `(\w+)`} }, "criterion"},
		{"unknown flag", func(r *Rules) { r.TestCases.Flags = "x" }, "test_cases"},
		{"test cases without group", func(r *Rules) { r.TestCases = Pattern{Expr: `CASE-\d+`} }, "test_cases"},
		{"missing test cases", func(r *Rules) { r.TestCases = Pattern{} }, "test_cases"},
		{"bad trigger", func(r *Rules) { r.Trigger = Pattern{Expr: `[`} }, "trigger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := testRules()
			tt.mutate(&rules)

			_, err := NewRegexExtractor(rules)
			var cfgErr *application.ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestRegexExtractor_TriggerDefaultsToCriterion(t *testing.T) {
	rules := testRules()
	rules.Trigger = Pattern{}
	ex, err := NewRegexExtractor(rules)
	require.NoError(t, err)

	assert.True(t, ex.Matches("<p>Criterion Z: x</p>"))
	assert.False(t, ex.Matches("<p>Overview</p>"))
}

func TestRecords(t *testing.T) {
	ex, err := NewRegexExtractor(testRules())
	require.NoError(t, err)

	root := &domain.Node{
		ID:       "1",
		Content:  "<p>Catalog</p>",
		ChildIDs: []string{"2", "3", "4"},
		Children: []*domain.Node{
			{ID: "2", Title: "Login", Content: "<p>Criterion A: CASE-1</p>", PlainText: "Criterion A: CASE-1\n", Changed: true},
			domain.FailedNode("3", "timeout"),
			{ID: "4", Content: "<p>Notes</p>"},
		},
	}
	before := root.Children[0].Content

	got := Records(root, ex)

	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "Login", got[0].Title)
	assert.Equal(t, "Criterion A: CASE-1\n", got[0].Text)
	assert.True(t, got[0].Changed)
	assert.Equal(t, []string{"CASE-1"}, got[0].Criteria[0].TestCaseIDs)
	assert.Equal(t, before, root.Children[0].Content, "extraction must not rewrite node content")
}

func TestBaselineRecords_CarriedTombstone(t *testing.T) {
	ex, err := NewRegexExtractor(testRules())
	require.NoError(t, err)

	login := &domain.Node{
		ID: "2", Title: "Login", Content: "<p>Criterion A: CASE-1</p>", Version: 3,
		ChildIDs: []string{"5"},
		Children: []*domain.Node{{ID: "5", Content: "<p>Criterion B: CASE-2</p>", Version: 1}},
	}
	root := &domain.Node{
		ID:       "1",
		ChildIDs: []string{"2", "3"},
		Children: []*domain.Node{
			domain.CarryForward("2", login, "503"),
			domain.FailedNode("3", "timeout"),
		},
	}

	assert.Empty(t, Records(root, ex))

	got := BaselineRecords(root, ex)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "5", got[1].ID)
}

func TestPattern_UnmarshalYAML(t *testing.T) {
	var rules Rules
	doc := `
criterion: '<li>(AC-\d+)(.*?)</li>|gs'
test_cases:
  expr: '(CASE-\d+)'
  flags: i
automatable_when_matched: true
`
	require.NoError(t, yaml.Unmarshal([]byte(doc), &rules))

	assert.Equal(t, Pattern{Expr: `<li>(AC-\d+)(.*?)</li>`, Flags: "gs"}, rules.Criterion)
	assert.Equal(t, Pattern{Expr: `(CASE-\d+)`, Flags: "i"}, rules.TestCases)
	assert.True(t, rules.AutomatableWhenMatched)
}
