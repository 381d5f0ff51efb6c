package cmd

import (
	"io"

	"github.com/Sjoshi-TYCS/witsml/ctl"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/server"
	"github.com/spf13/cobra"
)

// Server is global so that tests can control and verify it.
var Server *server.Command

// newServeCmd creates a WITSML server and runs it with command line flags.
func newServeCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	Server = server.NewCommand(stdin, stdout, stderr)
	serveCmd := &cobra.Command{
		Use:   "server",
		Short: "Run the WITSML store.",
		Long: `witsml server runs the WITSML store.

It will load existing data objects from the configured
directory, and serve the store functions and the discovery
endpoints over HTTP on the configured address.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Start & run the server.
			if err := Server.Start(); err != nil {
				return considerUsageError(cmd, errors.Wrap(err, "running server"))
			}
			return errors.Wrap(Server.Wait(), "waiting on server")
		},
	}

	// Attach flags to the command.
	ctl.BuildServerFlags(serveCmd, Server)
	return serveCmd
}

// considerUsageError silences the usage message of an error that is not
// caused by the command line itself.
func considerUsageError(cmd *cobra.Command, err error) error {
	if err != nil && cmd != nil {
		cmd.SilenceUsage = true
	}
	return err
}
