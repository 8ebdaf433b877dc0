package mapping

import (
	"encoding/json"
	"strings"

	"github.com/aretw0/catsort/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// EntrySeparator splits a raw mapping string into entries.
const EntrySeparator = "|"

// RuleSeparator splits an entry into group name and rule.
const RuleSeparator = ";"

// Diagnostic describes an entry the parser dropped or reinterpreted.
type Diagnostic struct {
	Entry  string `json:"entry" yaml:"entry"`
	Reason string `json:"reason" yaml:"reason"`
}

// ruleObject is the object form of a rule.
type ruleObject struct {
	Patterns []string `mapstructure:"patterns"`
	Label    string   `mapstructure:"label"`
}

// Parse normalizes a raw mapping string.
func Parse(raw string) domain.GroupMapping {
	m, _ := ParseWithDiagnostics(raw)
	return m
}

// ParseEntries normalizes a mapping that is already split into entries.
func ParseEntries(entries []string) domain.GroupMapping {
	m, _ := ParseEntriesWithDiagnostics(entries)
	return m
}

// ParseWithDiagnostics is Parse, also returning what was dropped or reinterpreted.
func ParseWithDiagnostics(raw string) (domain.GroupMapping, []Diagnostic) {
	if strings.TrimSpace(raw) == "" {
		return domain.GroupMapping{}, nil
	}
	return ParseEntriesWithDiagnostics(strings.Split(raw, EntrySeparator))
}

// ParseEntriesWithDiagnostics is ParseEntries, also returning diagnostics.
func ParseEntriesWithDiagnostics(entries []string) (domain.GroupMapping, []Diagnostic) {
	var (
		m     domain.GroupMapping
		diags []Diagnostic
	)

	for _, entry := range entries {
		group, spec, found := strings.Cut(entry, RuleSeparator)
		group = strings.TrimSpace(group)
		spec = strings.TrimSpace(spec)

		if !found || group == "" || spec == "" {
			if strings.TrimSpace(entry) != "" {
				diags = append(diags, Diagnostic{Entry: entry, Reason: "missing group or rule"})
			}
			continue
		}

		rule, diag := parseRule(group, spec)
		if diag != "" {
			diags = append(diags, Diagnostic{Entry: entry, Reason: diag})
		}
		m.Set(rule)
	}

	return m, diags
}

// parseRule interprets a trimmed rule spec. JSON specs that fail to decode
// fall back to a single literal pattern.
func parseRule(group, spec string) (domain.GroupRule, string) {
	literal := domain.GroupRule{Group: group, Patterns: []string{spec}}

	switch spec[0] {
	case '[':
		var raw []any
		if err := json.Unmarshal([]byte(spec), &raw); err != nil {
			return literal, "invalid JSON array, using literal pattern"
		}
		var patterns []string
		if err := mapstructure.WeakDecode(raw, &patterns); err != nil {
			return literal, "array holds non-text values, using literal pattern"
		}
		return domain.GroupRule{Group: group, Patterns: compact(patterns)}, ""

	case '{':
		var raw map[string]any
		if err := json.Unmarshal([]byte(spec), &raw); err != nil {
			return literal, "invalid JSON object, using literal pattern"
		}
		var obj ruleObject
		if err := mapstructure.WeakDecode(raw, &obj); err != nil {
			return literal, "object patterns are not text, using literal pattern"
		}
		rule := domain.GroupRule{Group: group, Patterns: compact(obj.Patterns), Label: obj.Label}
		if len(rule.Patterns) == 0 {
			return rule, "object rule has no patterns and never matches"
		}
		return rule, ""
	}

	return literal, ""
}

// compact drops empty patterns; an empty substring would match every slug.
func compact(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
