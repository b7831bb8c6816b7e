package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SetSchema is the top-level structure of a set import document.
type SetSchema struct {
	Set       SetImport        `yaml:"set"`
	Sections  []SectionImport  `yaml:"sections"`
	TestCases []TestCaseImport `yaml:"test_cases"`
}

// SetImport names the set and the team that owns it.
type SetImport struct {
	Team        string `yaml:"team"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// SectionImport defines a section. Parents must appear before their
// children in the list.
type SectionImport struct {
	Ref       string  `yaml:"ref"`
	ParentRef *string `yaml:"parent_ref,omitempty"`
	Name      string  `yaml:"name"`
	Order     int     `yaml:"order"`
}

type TestCaseImport struct {
	SectionRef string `yaml:"section_ref,omitempty"`
	Title      string `yaml:"title"`
	Priority   string `yaml:"priority,omitempty"`
	TCG        string `yaml:"tcg,omitempty"`
}

// LoadSetSchema reads a YAML or JSON set document.
func LoadSetSchema(path string) (*SetSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSetSchema(data)
}

// ParseSetSchema decodes a document already in memory. JSON input works
// because YAML is a superset of it.
func ParseSetSchema(data []byte) (*SetSchema, error) {
	var schema SetSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
