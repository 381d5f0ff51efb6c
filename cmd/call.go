package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sjoshi-TYCS/witsml/ctl"
)

var caller *ctl.CallCommand

func newCallCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	caller = ctl.NewCallCommand(stdin, stdout, stderr)
	callCmd := &cobra.Command{
		Use:   "call <function>",
		Short: "Call a store function on a running server.",
		Long: `call posts one store function, such as GetFromStore or AddToStore,
to a running server and prints the returned document.

The query or object document is read from --xml, or from stdin
when --xml is "-".
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller.Function = args[0]
			return considerUsageError(cmd, caller.Run(context.Background()))
		},
	}
	flags := callCmd.Flags()
	flags.StringVarP(&caller.Host, "host", "", caller.Host, "host:port of the WITSML server.")
	flags.StringVarP(&caller.WMLTypeIn, "wmltype", "t", "", "Data object type, such as well or log.")
	flags.StringVarP(&caller.XMLFile, "xml", "x", "", "File holding the query or object document.")
	flags.StringVarP(&caller.OptionsIn, "options", "o", "", "Options, as key=value pairs separated by semicolons.")
	flags.StringVar(&caller.CapabilitiesIn, "capabilities", "", "Client capabilities document.")
	flags.IntVar(&caller.ReturnValueIn, "return-value", 0, "Result code for GetBaseMsg.")
	flags.StringVar(&caller.Authorization, "authorization", "", "Authorization header sent with the request.")
	flags.BoolVar(&caller.Insecure, "insecure", false, "Skip verification of the server certificate.")
	return callCmd
}
