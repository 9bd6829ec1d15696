package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted property binding run.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file
	// and the replication session.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is inline CUE source declaring the classes.
	Schema string `yaml:"schema,omitempty"`

	// SchemaDir is a directory holding a CUE package of classes.
	// Relative paths are resolved against the scenario file location.
	SchemaDir string `yaml:"schema_dir,omitempty"`

	// MaxDepth overrides the session depth guard when non-zero.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// Objects are instantiated in order and tracked under their names.
	Objects []Object `yaml:"objects"`

	// Bindings are wired in order after every object exists.
	Bindings []Binding `yaml:"bindings,omitempty"`

	// Steps run in order once the bindings are wired.
	Steps []Step `yaml:"steps"`
}

// Object declares one node.
type Object struct {
	Name  string `yaml:"name"`
	Class string `yaml:"class"`
}

// Binding declares how a target property is computed from sources.
type Binding struct {
	Type    string   `yaml:"type"`
	Target  string   `yaml:"target"`
	Sources []string `yaml:"sources"`

	// Lazy skips the initial computation of a square or sum target; it
	// first updates when a source changes. It is how a scenario closes a
	// cycle that would otherwise diverge while being wired.
	Lazy bool `yaml:"lazy,omitempty"`
}

// Step is one scenario action. Exactly one of Set, Tick, Expect, Log or
// Detach is given.
type Step struct {
	// Set is the property path to write Value to.
	Set   string `yaml:"set,omitempty"`
	Value any    `yaml:"value,omitempty"`

	// Error, if non-empty, must appear in the failure the write raises.
	Error string `yaml:"error,omitempty"`

	// Tick drains the change log into a batch.
	Tick bool `yaml:"tick,omitempty"`

	// Expect maps property paths to their expected values.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Log is the expected number of pending change log entries.
	Log *int `yaml:"log,omitempty"`

	// Detach is a property path whose binding is removed.
	Detach string `yaml:"detach,omitempty"`
}

// Binding types.
const (
	BindingCopy   = "copy"
	BindingMirror = "mirror"
	BindingCast   = "cast"
	BindingSquare = "square"
	BindingSum    = "sum"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, filepath.Dir(path))
}

// ParseScenario parses scenario YAML, resolving a relative schema_dir
// against basePath.
func ParseScenario(data []byte, basePath string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.SchemaDir != "" && !filepath.IsAbs(scenario.SchemaDir) && basePath != "" {
		scenario.SchemaDir = filepath.Join(basePath, scenario.SchemaDir)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if (s.Schema == "") == (s.SchemaDir == "") {
		return fmt.Errorf("exactly one of schema or schema_dir is required")
	}
	if len(s.Objects) == 0 {
		return fmt.Errorf("objects list is required and must be non-empty")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	names := make(map[string]bool, len(s.Objects))
	for i, o := range s.Objects {
		if o.Name == "" || o.Class == "" {
			return fmt.Errorf("objects[%d]: name and class are required", i)
		}
		if strings.Contains(o.Name, ".") {
			return fmt.Errorf("objects[%d]: name %q must not contain '.'", i, o.Name)
		}
		if names[o.Name] {
			return fmt.Errorf("objects[%d]: duplicate name %q", i, o.Name)
		}
		names[o.Name] = true
	}

	for i, b := range s.Bindings {
		if err := validateBinding(i, &b); err != nil {
			return err
		}
	}
	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	return nil
}

func validateBinding(index int, b *Binding) error {
	if b.Target == "" {
		return fmt.Errorf("bindings[%d]: target is required", index)
	}
	switch b.Type {
	case BindingCopy, BindingMirror, BindingCast, BindingSquare:
		if len(b.Sources) != 1 {
			return fmt.Errorf("bindings[%d]: %s takes exactly one source", index, b.Type)
		}
	case BindingSum:
		if len(b.Sources) == 0 {
			return fmt.Errorf("bindings[%d]: sum needs at least one source", index)
		}
	case "":
		return fmt.Errorf("bindings[%d]: type is required", index)
	default:
		return fmt.Errorf("bindings[%d]: unknown type %q", index, b.Type)
	}
	if b.Lazy && b.Type != BindingSquare && b.Type != BindingSum {
		return fmt.Errorf("bindings[%d]: lazy only applies to square and sum", index)
	}
	return nil
}

func validateStep(index int, s *Step) error {
	actions := 0
	if s.Set != "" {
		actions++
	}
	if s.Tick {
		actions++
	}
	if s.Expect != nil {
		actions++
	}
	if s.Log != nil {
		actions++
	}
	if s.Detach != "" {
		actions++
	}
	if actions != 1 {
		return fmt.Errorf("steps[%d]: exactly one of set, tick, expect, log or detach is required", index)
	}
	if s.Set == "" && (s.Value != nil || s.Error != "") {
		return fmt.Errorf("steps[%d]: value and error only apply to set", index)
	}
	return nil
}
