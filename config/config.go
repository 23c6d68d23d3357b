// Package config loads and validates the YAML files describing scraping
// targets and runtime settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"prodscrape/parser"
)

// Error reports an invalid targets configuration.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "invalid config: " + e.Reason
}

func configErrorf(format string, args ...any) error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// Mode selects how a target's records are produced.
type Mode int

const (
	// ModeDetail follows links from the list page to separate detail pages.
	ModeDetail Mode = iota
	// ModeListOnly reads complete records from repeated containers on the
	// list page itself.
	ModeListOnly
)

// SelectorMap is a mapping from field name to selector spec that preserves
// the order fields appear in the configuration file.
type SelectorMap struct {
	fields []parser.FieldSelector
}

// NewSelectorMap builds a selector map programmatically, keeping the given
// order.
func NewSelectorMap(fields ...parser.FieldSelector) SelectorMap {
	return SelectorMap{fields: fields}
}

// UnmarshalYAML decodes a YAML mapping while keeping key order.
func (m *SelectorMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("selector mapping must be a YAML mapping, got %s", value.Tag)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		var field, spec string
		if err := value.Content[i].Decode(&field); err != nil {
			return fmt.Errorf("selector mapping key: %w", err)
		}
		if err := value.Content[i+1].Decode(&spec); err != nil {
			return fmt.Errorf("selector for field %q: %w", field, err)
		}
		m.fields = append(m.fields, parser.FieldSelector{Field: field, Spec: spec})
	}
	return nil
}

// Fields returns the field selectors in configuration order.
func (m SelectorMap) Fields() []parser.FieldSelector {
	out := make([]parser.FieldSelector, len(m.fields))
	copy(out, m.fields)
	return out
}

// Len returns the number of configured fields.
func (m SelectorMap) Len() int {
	return len(m.fields)
}

// Target describes one list page and its extraction rules. Exactly one of
// the two selector configurations is used: link_selector plus
// detail_selectors (detail-follow mode) or item_selector plus item_fields
// (list-only mode).
type Target struct {
	Name            string      `yaml:"name"`
	ListURL         string      `yaml:"list_url"`
	LinkSelector    string      `yaml:"link_selector"`
	DetailSelectors SelectorMap `yaml:"detail_selectors"`
	ItemSelector    string      `yaml:"item_selector"`
	ItemFields      SelectorMap `yaml:"item_fields"`
}

// Mode returns the extraction mode the target selects. The presence of any
// item-mode key switches the target to list-only mode.
func (t Target) Mode() Mode {
	if t.ItemSelector != "" || t.ItemFields.Len() > 0 {
		return ModeListOnly
	}
	return ModeDetail
}

// File is the top-level structure of the targets configuration file.
type File struct {
	Targets []Target `yaml:"targets"`
}

// LoadTargets reads and validates a targets configuration file, returning
// its non-empty target list.
func LoadTargets(path string) ([]Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateTargets(file.Targets); err != nil {
		return nil, err
	}
	return file.Targets, nil
}

// SelectTarget picks a target by name, or the first target when name is
// empty.
func SelectTarget(targets []Target, name string) (Target, error) {
	if name == "" {
		if len(targets) == 0 {
			return Target{}, configErrorf("no targets configured")
		}
		return targets[0], nil
	}
	for _, target := range targets {
		if target.Name == name {
			return target, nil
		}
	}
	return Target{}, configErrorf("no target with name %q found in config", name)
}

// validateTargets enforces the descriptor requirements before any network
// activity takes place: a non-empty target list, unique non-empty names, a
// list URL per target, and a complete selector configuration for whichever
// mode the target selects.
func validateTargets(targets []Target) error {
	if len(targets) == 0 {
		return configErrorf("config must contain a non-empty 'targets' list")
	}

	seen := make(map[string]bool, len(targets))
	for i, target := range targets {
		if target.Name == "" {
			return configErrorf("target at index %d must have a non-empty 'name'", i)
		}
		if seen[target.Name] {
			return configErrorf("duplicate target name %q found", target.Name)
		}
		seen[target.Name] = true

		if target.ListURL == "" {
			return configErrorf("target at index %d is missing a non-empty 'list_url'", i)
		}

		switch target.Mode() {
		case ModeListOnly:
			if target.ItemSelector == "" {
				return configErrorf("target at index %d is missing a non-empty 'item_selector'", i)
			}
			if target.ItemFields.Len() == 0 {
				return configErrorf("target at index %d has invalid or empty 'item_fields'", i)
			}
			if err := validateSelectors(i, target.ItemFields); err != nil {
				return err
			}
		case ModeDetail:
			if target.LinkSelector == "" {
				return configErrorf("target at index %d is missing a non-empty 'link_selector'", i)
			}
			if target.DetailSelectors.Len() == 0 {
				return configErrorf("target at index %d has invalid or empty 'detail_selectors'", i)
			}
			if err := validateSelectors(i, target.DetailSelectors); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateSelectors(index int, selectors SelectorMap) error {
	for _, fs := range selectors.Fields() {
		if fs.Spec == "" {
			return configErrorf("target at index %d has empty selector for field %q", index, fs.Field)
		}
	}
	return nil
}
