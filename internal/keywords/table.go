package keywords

import (
	"strings"

	"github.com/jotbook-dev/jotbook/internal/model"
)

// Rule maps one category to the substrings that select it.
type Rule struct {
	Category model.Category `yaml:"category"`
	Keywords []string       `yaml:"keywords"`
}

// Table provides ordered keyword lookup over the category rules.
// Rule order matters: the first rule whose keyword appears in the text
// wins, so broad categories must come after narrow ones.
type Table struct {
	rules   []Rule
	markers []string
}

// NewTable creates a Table from ordered rules and expense markers.
func NewTable(rules []Rule, markers []string) *Table {
	return &Table{rules: rules, markers: markers}
}

// Rules returns the ordered category rules.
func (t *Table) Rules() []Rule {
	return t.rules
}

// Markers returns the expense-marker substrings.
func (t *Table) Markers() []string {
	return t.markers
}

// Match returns the first category whose keyword occurs in text.
// Matching is case-insensitive for ASCII keywords.
func (t *Table) Match(text string) (model.Category, bool) {
	lower := strings.ToLower(text)
	for _, rule := range t.rules {
		for _, kw := range rule.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(kw)) {
				return rule.Category, true
			}
		}
	}
	return model.CategoryOther, false
}

// MarksExpense reports whether text contains a spending indicator.
func (t *Table) MarksExpense(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range t.markers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
