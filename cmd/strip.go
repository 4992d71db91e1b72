package cmd

import (
	"fmt"

	"github.com/gotoolcall/client"
	"github.com/gotoolcall/extract"

	"github.com/spf13/cobra"
)

func newStripCmd() *cobra.Command {
	stripCmd := &cobra.Command{
		Use:   "strip [file]",
		Short: "print a reply with its tool-call blocks removed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out := ""
			if remote := remoteURL(cmd); remote != "" {
				if out, err = client.NewClient(remote).Strip(cmd.Context(), text); err != nil {
					return fmt.Errorf("remote strip: %w", err)
				}
			} else {
				out = extract.RemoveToolCallBlocks(text)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	addRemoteFlag(stripCmd)
	return stripCmd
}
