package witsml

import (
	"io"

	"github.com/Sjoshi-TYCS/witsml/logger"
)

// CmdIO holds standard unix inputs and outputs of a command.
type CmdIO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	logger logger.Logger
}

// NewCmdIO returns a new instance of CmdIO with inputs and outputs set to the
// arguments. It logs to stderr until SetLogger is called.
func NewCmdIO(stdin io.Reader, stdout, stderr io.Writer) *CmdIO {
	return &CmdIO{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		logger: logger.NewStandardLogger(stderr),
	}
}

func (c *CmdIO) Logger() logger.Logger {
	return c.logger
}

// SetLogger replaces the command logger once configuration is known.
func (c *CmdIO) SetLogger(l logger.Logger) {
	c.logger = l
}
