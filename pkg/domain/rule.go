package domain

import "strings"

// GroupRule assigns categories to Group when their slug contains any of Patterns.
type GroupRule struct {
	Group    string   `json:"group" yaml:"group"`
	Patterns []string `json:"patterns" yaml:"patterns"`

	// Label is carried from object-form rules. Matching ignores it.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Matches reports whether slug contains one of the rule patterns.
// A rule without patterns never matches.
func (r GroupRule) Matches(slug string) bool {
	for _, p := range r.Patterns {
		if strings.Contains(slug, p) {
			return true
		}
	}
	return false
}

// GroupMapping is an ordered set of group rules keyed by group name.
// The zero value is an empty mapping ready to use.
type GroupMapping struct {
	rules []GroupRule
	index map[string]int
}

// NewGroupMapping builds a mapping from rules, applying Set in order.
func NewGroupMapping(rules ...GroupRule) GroupMapping {
	var m GroupMapping
	for _, r := range rules {
		m.Set(r)
	}
	return m
}

// Set adds a rule. A rule for an existing group replaces it in place, so the
// group keeps the position of its first declaration.
func (m *GroupMapping) Set(rule GroupRule) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[rule.Group]; ok {
		m.rules[i] = rule
		return
	}
	m.index[rule.Group] = len(m.rules)
	m.rules = append(m.rules, rule)
}

// Get returns the rule declared for group.
func (m GroupMapping) Get(group string) (GroupRule, bool) {
	i, ok := m.index[group]
	if !ok {
		return GroupRule{}, false
	}
	return m.rules[i], true
}

// Len returns the number of declared rules.
func (m GroupMapping) Len() int {
	return len(m.rules)
}

// Rules returns the rules in evaluation order: declaration order, with a
// declared "other" rule moved to the end.
func (m GroupMapping) Rules() []GroupRule {
	out := make([]GroupRule, 0, len(m.rules))
	var other *GroupRule
	for i := range m.rules {
		if m.rules[i].Group == OtherGroup {
			other = &m.rules[i]
			continue
		}
		out = append(out, m.rules[i])
	}
	if other != nil {
		out = append(out, *other)
	}
	return out
}

// Groups returns every group key a run creates a container for: the declared
// groups in evaluation order, always ending with "other".
func (m GroupMapping) Groups() []string {
	keys := make([]string, 0, len(m.rules)+1)
	for _, r := range m.Rules() {
		if r.Group == OtherGroup {
			continue
		}
		keys = append(keys, r.Group)
	}
	return append(keys, OtherGroup)
}

// Match returns the group for slug. The first rule in evaluation order that
// matches wins, even if a later rule has a more specific pattern.
func (m GroupMapping) Match(slug string) string {
	for _, r := range m.Rules() {
		if r.Matches(slug) {
			return r.Group
		}
	}
	return OtherGroup
}
