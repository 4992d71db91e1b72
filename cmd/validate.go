package cmd

import (
	"fmt"
	"os"

	"github.com/gotoolcall/extract"
	"github.com/gotoolcall/types"
	"github.com/gotoolcall/validate"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newValidateCmd() *cobra.Command {
	var toolsFile string

	validateCmd := &cobra.Command{
		Use:   "validate --tools <defs.yaml> [file]",
		Short: "check extracted tool calls against tool definitions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tools, err := loadToolDefinitions(toolsFile)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			calls := extract.ExtractToolCalls(text)
			failed := 0
			for _, call := range calls {
				status, verr := validate.ValidateToolCall(cmd.Context(), call, tools)
				fmt.Fprintf(out, "%s: %s\n", call.Name, status)
				if verr != nil {
					fmt.Fprintf(out, "  %v\n", verr)
				}
				for _, d := range validate.ScanToolCall(call) {
					fmt.Fprintf(out, "  hidden unicode %s (%s) in %s\n", d.Hex, d.Category, d.Field)
				}
				if status != types.StatusSucceeded {
					failed++
				}
			}
			if len(calls) == 0 {
				fmt.Fprintln(out, "no tool calls found")
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d tool calls failed validation", failed, len(calls))
			}
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&toolsFile, "tools", "t", "", "YAML or JSON file listing tool definitions")
	validateCmd.MarkFlagRequired("tools")
	return validateCmd
}

// loadToolDefinitions accepts either a bare list or a document with a tools
// key. JSON input parses as YAML.
func loadToolDefinitions(path string) ([]types.ToolDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tool definitions: %w", err)
	}

	var list []types.ToolDefinition
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var doc struct {
		Tools []types.ToolDefinition `yaml:"tools"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tool definitions %s: %w", path, err)
	}
	return doc.Tools, nil
}
