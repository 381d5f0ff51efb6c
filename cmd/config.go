package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sjoshi-TYCS/witsml/ctl"
	"github.com/Sjoshi-TYCS/witsml/server"
)

var Conf *ctl.ConfigCommand

func newConfigCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	Conf = ctl.NewConfigCommand(stdin, stdout, stderr)
	confCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the current configuration.",
		Long: `config prints the configuration the server command would run
with, after flags, environment and config file are applied.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := Conf.Run(context.Background()); err != nil {
				return err
			}
			return nil
		},
	}

	// The server flags write into Conf.Config.
	srv := server.NewCommand(stdin, stdout, stderr, server.OptCommandConfig(Conf.Config))
	ctl.BuildServerFlags(confCmd, srv)
	return confCmd
}
