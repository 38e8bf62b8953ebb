// Package extract turns raw page content into acceptance criteria records.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"rtmsync/internal/application"
	"rtmsync/internal/domain"
)

// Extractor recognizes requirement pages and pulls their criteria out
type Extractor interface {
	// Matches reports whether content is a requirement page
	Matches(content string) bool
	Extract(content string) []domain.Criterion
}

// Pattern is a regular expression with JavaScript-style flags
type Pattern struct {
	Expr  string `yaml:"expr"`
	Flags string `yaml:"flags"`
}

// ParsePattern reads the "expr|flags" notation. The text after the last "|" is
// taken as flags only when it is made of lowercase letters, so a trailing "|"
// keeps alternations in the expression intact.
func ParsePattern(s string) Pattern {
	i := strings.LastIndex(s, "|")
	if i < 0 {
		return Pattern{Expr: s}
	}
	flags := s[i+1:]
	for _, r := range flags {
		if r < 'a' || r > 'z' {
			return Pattern{Expr: s}
		}
	}
	return Pattern{Expr: s[:i], Flags: flags}
}

// UnmarshalYAML accepts either the "expr|flags" string form or a mapping
// with expr and flags keys
func (p *Pattern) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*p = ParsePattern(node.Value)
		return nil
	}
	type plain Pattern
	var v plain
	if err := node.Decode(&v); err != nil {
		return err
	}
	*p = Pattern(v)
	return nil
}

// Compile builds the regexp; field names the setting in errors
func (p Pattern) Compile(field string) (*regexp.Regexp, error) {
	var inline strings.Builder
	for _, f := range p.Flags {
		switch f {
		case 'i', 'm', 's':
			if !strings.ContainsRune(inline.String(), f) {
				inline.WriteRune(f)
			}
		case 'g', 'u', 'y':
			// global/unicode/sticky have no meaning for RE2 scans
		default:
			return nil, &application.ConfigError{
				Field:   field,
				Message: fmt.Sprintf("unsupported flag %q", f),
			}
		}
	}

	expr := p.Expr
	if inline.Len() > 0 {
		expr = "(?" + inline.String() + ")" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &application.ConfigError{Field: field, Message: "invalid pattern", Err: err}
	}
	return re, nil
}

// Rules configures a RegexExtractor
type Rules struct {
	Trigger     Pattern `yaml:"trigger"`
	Criterion   Pattern `yaml:"criterion"`
	TestCases   Pattern `yaml:"test_cases"`
	Automatable Pattern `yaml:"automatable"`

	// AutomatableWhenMatched sets the indicator's polarity: true means a match
	// marks the criterion automatable, false means it marks it not automatable
	AutomatableWhenMatched bool `yaml:"automatable_when_matched"`
}

// RegexExtractor implements Extractor with regular expressions
type RegexExtractor struct {
	trigger     *regexp.Regexp
	criterion   *regexp.Regexp
	testCases   *regexp.Regexp
	automatable *regexp.Regexp
	whenMatched bool
}

// NewRegexExtractor compiles rules. Any error is a *application.ConfigError.
func NewRegexExtractor(rules Rules) (*RegexExtractor, error) {
	if rules.Criterion.Expr == "" {
		return nil, &application.ConfigError{Field: "criterion", Message: "pattern is required"}
	}
	if rules.TestCases.Expr == "" {
		return nil, &application.ConfigError{Field: "test_cases", Message: "pattern is required"}
	}

	e := &RegexExtractor{whenMatched: rules.AutomatableWhenMatched}

	var err error
	if e.criterion, err = rules.Criterion.Compile("criterion"); err != nil {
		return nil, err
	}
	if e.criterion.NumSubexp() < 2 {
		return nil, &application.ConfigError{Field: "criterion", Message: "pattern needs two capture groups (name, description)"}
	}

	if e.testCases, err = rules.TestCases.Compile("test_cases"); err != nil {
		return nil, err
	}
	if e.testCases.NumSubexp() < 1 {
		return nil, &application.ConfigError{Field: "test_cases", Message: "pattern needs a capture group"}
	}

	if rules.Trigger.Expr == "" {
		e.trigger = e.criterion
	} else if e.trigger, err = rules.Trigger.Compile("trigger"); err != nil {
		return nil, err
	}

	if rules.Automatable.Expr != "" {
		if e.automatable, err = rules.Automatable.Compile("automatable"); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Matches implements Extractor
func (e *RegexExtractor) Matches(content string) bool {
	return e.trigger.MatchString(content)
}

// Extract implements Extractor. Criteria keep their textual order and
// duplicates are not merged.
func (e *RegexExtractor) Extract(content string) []domain.Criterion {
	matches := e.criterion.FindAllStringSubmatch(content, -1)
	criteria := make([]domain.Criterion, 0, len(matches))

	for _, m := range matches {
		description := m[2]
		criteria = append(criteria, domain.Criterion{
			Name:        m[1],
			Automatable: e.isAutomatable(description),
			TestCaseIDs: e.testCaseIDs(description),
		})
	}
	return criteria
}

func (e *RegexExtractor) isAutomatable(description string) bool {
	matched := e.automatable != nil && e.automatable.MatchString(description)
	return matched == e.whenMatched
}

func (e *RegexExtractor) testCaseIDs(description string) []string {
	var ids []string
	for _, m := range e.testCases.FindAllStringSubmatch(description, -1) {
		for _, id := range strings.Split(m[1], ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Records walks the tree and returns one record per matching page.
// Failed pages are skipped and nodes are never modified.
func Records(root *domain.Node, ex Extractor) []domain.Record {
	return collect(root, ex, false)
}

// BaselineRecords is Records for a stored tree used as the comparison
// baseline. Tombstones that carry content from an earlier pass count with
// their subtree, since that content is the last known state of the page.
func BaselineRecords(root *domain.Node, ex Extractor) []domain.Record {
	return collect(root, ex, true)
}

func collect(root *domain.Node, ex Extractor, carried bool) []domain.Record {
	var records []domain.Record
	domain.Walk(root, func(n *domain.Node) bool {
		if n.Failed() && !(carried && n.Carried()) {
			return false
		}
		if n.Content != "" && ex.Matches(n.Content) {
			records = append(records, domain.Record{
				ID:       n.ID,
				Title:    n.Title,
				Text:     n.PlainText,
				Changed:  n.Changed,
				Criteria: ex.Extract(n.Content),
			})
		}
		return true
	})
	return records
}

// ByID indexes records by page ID
func ByID(records []domain.Record) map[string]domain.Record {
	idx := make(map[string]domain.Record, len(records))
	for _, r := range records {
		idx[r.ID] = r
	}
	return idx
}
