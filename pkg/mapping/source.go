package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/catsort/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Source holds mapping input as it arrives from config files or request
// bodies: either one raw string or a list of entries.
type Source struct {
	Raw     string
	Entries []string
}

// FromString returns a Source for a raw mapping string.
func FromString(raw string) Source {
	return Source{Raw: raw}
}

// IsZero reports whether the source carries no input.
func (s Source) IsZero() bool {
	return s.Raw == "" && len(s.Entries) == 0
}

// Parse normalizes the source.
func (s Source) Parse() (domain.GroupMapping, []Diagnostic) {
	if s.Entries != nil {
		return ParseEntriesWithDiagnostics(s.Entries)
	}
	return ParseWithDiagnostics(s.Raw)
}

// Mapping normalizes the source, discarding diagnostics.
func (s Source) Mapping() domain.GroupMapping {
	m, _ := s.Parse()
	return m
}

// UnmarshalJSON accepts a JSON string or an array of strings.
func (s *Source) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*s = Source{Raw: raw}
		return nil
	}
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("mapping must be a string or a list of strings: %w", err)
	}
	*s = Source{Entries: entries}
	return nil
}

// MarshalJSON writes the form the source was read from.
func (s Source) MarshalJSON() ([]byte, error) {
	if s.Entries != nil {
		return json.Marshal(s.Entries)
	}
	return json.Marshal(s.Raw)
}

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (s *Source) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*s = Source{Raw: value.Value}
		return nil
	case yaml.SequenceNode:
		var entries []string
		if err := value.Decode(&entries); err != nil {
			return fmt.Errorf("mapping entries must be strings: %w", err)
		}
		*s = Source{Entries: entries}
		return nil
	}
	return fmt.Errorf("line %d: mapping must be a string or a list of strings", value.Line)
}

// MarshalYAML writes the form the source was read from.
func (s Source) MarshalYAML() (any, error) {
	if s.Entries != nil {
		return s.Entries, nil
	}
	return s.Raw, nil
}
