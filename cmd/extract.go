package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/gotoolcall/client"
	"github.com/gotoolcall/extract"
	"github.com/gotoolcall/types"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newExtractCmd() *cobra.Command {
	var output string

	extractCmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "print the tool calls found in a reply",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var calls []types.ToolCall
			if remote := remoteURL(cmd); remote != "" {
				if calls, err = client.NewClient(remote).Extract(cmd.Context(), text); err != nil {
					return fmt.Errorf("remote extract: %w", err)
				}
			} else {
				calls = extract.ExtractToolCalls(text)
			}
			if calls == nil {
				calls = []types.ToolCall{}
			}
			return writeCalls(cmd, calls, output)
		},
	}
	extractCmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	addRemoteFlag(extractCmd)
	return extractCmd
}

func addRemoteFlag(cmd *cobra.Command) {
	cmd.Flags().String("remote", "", "toolcalls server URL; runs the operation remotely")
	cmd.PreRunE = bindFlags(map[string]string{"remote": "remote"})
}

func remoteURL(cmd *cobra.Command) string {
	return viper.GetString("remote")
}

func writeCalls(cmd *cobra.Command, calls []types.ToolCall, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(calls)
	case "yaml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(calls); err != nil {
			return fmt.Errorf("encode tool calls: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", output)
}
