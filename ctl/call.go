package ctl

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/http"
)

// CallCommand invokes one store function on a running server.
type CallCommand struct {
	*witsml.CmdIO

	Host     string
	Function string

	WMLTypeIn      string
	XMLFile        string
	OptionsIn      string
	CapabilitiesIn string
	ReturnValueIn  int

	// Authorization is sent as the Authorization header.
	Authorization string
	// Insecure skips verification of the server certificate.
	Insecure bool
}

// NewCallCommand returns a new instance of CallCommand.
func NewCallCommand(stdin io.Reader, stdout, stderr io.Writer) *CallCommand {
	return &CallCommand{
		CmdIO: witsml.NewCmdIO(stdin, stdout, stderr),
		Host:  "localhost:8080",
	}
}

// Run posts the request and prints the response document, or the result code
// and message of a failed function. XMLFile "-" reads stdin.
func (cmd *CallCommand) Run(ctx context.Context) error {
	fn, ok := witsml.ParseFunction(cmd.Function)
	if !ok {
		return errors.Errorf("unknown function '%s'", cmd.Function)
	}

	req := http.FunctionRequest{
		WMLTypeIn:      cmd.WMLTypeIn,
		OptionsIn:      cmd.OptionsIn,
		CapabilitiesIn: cmd.CapabilitiesIn,
		ReturnValueIn:  cmd.ReturnValueIn,
	}
	switch cmd.XMLFile {
	case "":
	case "-":
		buf, err := io.ReadAll(cmd.Stdin)
		if err != nil {
			return errors.Wrap(err, "reading stdin")
		}
		req.XMLIn = string(buf)
	default:
		buf, err := os.ReadFile(cmd.XMLFile)
		if err != nil {
			return errors.Wrap(err, "reading xml file")
		}
		req.XMLIn = string(buf)
	}

	client, err := http.NewClient(cmd.Host, httpClient(cmd.Insecure))
	if err != nil {
		return errors.Wrap(err, "creating client")
	}
	client.Authorization = cmd.Authorization

	resp, err := client.Call(ctx, fn, req)
	if err != nil {
		return errors.Wrapf(err, "calling %s", fn)
	}
	if !resp.IsSuccess() {
		return errors.Errorf("%s failed with %d: %s", fn, resp.Result, resp.SuppMsgOut)
	}
	if resp.XMLOut != "" {
		fmt.Fprintln(cmd.Stdout, resp.XMLOut)
	} else if resp.SuppMsgOut != "" {
		fmt.Fprintln(cmd.Stdout, resp.SuppMsgOut)
	}
	return nil
}
