package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/proplink/internal/schema"
	"github.com/roach88/proplink/internal/value"
)

// PropertySummary describes one compiled property.
type PropertySummary struct {
	ID      uint32 `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Flags   string `json:"flags"`
	Default string `json:"default"`
}

// ClassSummary describes one compiled class.
type ClassSummary struct {
	Name       string            `json:"name"`
	Properties []PropertySummary `json:"properties"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool           `json:"valid"`
	Classes []ClassSummary `json:"classes,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema-dir>",
		Short: "Validate a class schema",
		Long: `Load the CUE package in schema-dir and compile every class.

Reports the first error with its code and position, or lists the classes
with their property ids, kinds and flags.

Exit codes:
  0 - Schema valid
  1 - Schema invalid
  2 - Command error (directory not found, no CUE files)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	sch, err := schema.Load(dir)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	result := ValidationResult{Valid: true, Classes: summarize(sch)}
	if formatter.JSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %d class(es) valid\n", len(result.Classes))
	for _, c := range result.Classes {
		fmt.Fprintf(formatter.Writer, "  %s (%d properties)\n", c.Name, len(c.Properties))
		if !formatter.Verbose {
			continue
		}
		for _, p := range c.Properties {
			fmt.Fprintf(formatter.Writer, "    %d %s %s [%s] = %s\n", p.ID, p.Name, p.Kind, p.Flags, p.Default)
		}
	}
	return nil
}

// summarize lists the classes of a schema in name order.
func summarize(sch *schema.Schema) []ClassSummary {
	classes := make([]ClassSummary, 0, len(sch.Classes))
	for _, c := range sch.Classes {
		cs := ClassSummary{Name: c.Name, Properties: make([]PropertySummary, 0, len(c.Properties))}
		for i, def := range c.Properties {
			b := value.NewBox(def.Default)
			cs.Properties = append(cs.Properties, PropertySummary{
				ID:      def.ID,
				Name:    def.Name,
				Kind:    def.Kind.String(),
				Flags:   def.Flags.String(),
				Default: value.DisplayString(b, c.Spec(i).EnumNames()),
			})
			b.Destroy()
		}
		classes = append(classes, cs)
	}
	return classes
}

// outputLoadError reports a schema load failure. Missing paths are command
// errors (exit 2); anything the schema itself got wrong is a failure (exit 1).
func outputLoadError(formatter *OutputFormatter, err error) error {
	var le *schema.LoadError
	if !errors.As(err, &le) {
		_ = formatter.Error(schema.ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load schema", err)
	}

	var details map[string]any
	if le.Pos.IsValid() {
		details = map[string]any{
			"file":   le.Pos.Filename(),
			"line":   le.Pos.Line(),
			"column": le.Pos.Column(),
		}
	}
	if formatter.JSON() {
		_ = formatter.Error(le.Code, le.Message, details)
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Validation failed")
		if details != nil {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", le.Pos.Filename(), le.Pos.Line(), le.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", le.Code, le.Message)
	}

	switch le.Code {
	case schema.ErrCodeNotFound, schema.ErrCodeNoFiles:
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", le.Code, le.Message))
	default:
		return WrapExitError(ExitFailure, "validation failed", le)
	}
}
