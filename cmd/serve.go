package cmd

import (
	"github.com/gotoolcall/handlers"
	"github.com/gotoolcall/logger"
	"github.com/gotoolcall/server"
	"github.com/gotoolcall/stdio"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var useStdio bool

	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "serve the tool-call operations over HTTP or stdio",
		Args:    cobra.NoArgs,
		PreRunE: bindFlags(map[string]string{"addr": "server.addr"}),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := handlers.NewProtocol(logger.NewLogger("serve", uuid.NewString()))
			if err != nil {
				return err
			}
			if useStdio {
				return stdio.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), p)
			}

			return server.NewServer(p, server.ServerConfigs()).Run(cmd.Context())
		},
	}
	serveCmd.Flags().String("addr", server.DefaultAddr, "listen address (config key server.addr)")
	serveCmd.Flags().BoolVar(&useStdio, "stdio", false, "serve JSON-RPC on stdin/stdout instead of HTTP")
	return serveCmd
}
