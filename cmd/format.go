package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gotoolcall/client"
	"github.com/gotoolcall/extract"
	"github.com/gotoolcall/handlers"

	"github.com/spf13/cobra"
)

func newFormatCmd() *cobra.Command {
	formatCmd := &cobra.Command{
		Use:   "format <tool-name> [result]",
		Short: "render a tool result as a Markdown section",
		Long: "Renders a tool result as Markdown. A result that parses as JSON is " +
			"formatted as JSON, anything else as plain text. Without a result argument " +
			"the result is read from stdin.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw string
				err error
			)
			if len(args) > 1 {
				raw = args[1]
			} else if raw, err = readInput(cmd, nil); err != nil {
				return err
			}
			value := parseResult(raw)

			out := ""
			if remote := remoteURL(cmd); remote != "" {
				if out, err = client.NewClient(remote).Format(cmd.Context(), args[0], value); err != nil {
					return fmt.Errorf("remote format: %w", err)
				}
			} else {
				out = extract.FormatToolResults(args[0], value)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	addRemoteFlag(formatCmd)
	return formatCmd
}

func parseResult(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return handlers.ResultValue(json.RawMessage(trimmed))
	}
	return trimmed
}
