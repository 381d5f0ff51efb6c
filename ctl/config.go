// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package ctl

import (
	"context"
	"fmt"
	"io"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/server"
	toml "github.com/pelletier/go-toml"
)

// ConfigCommand represents a command for printing the effective config,
// after flags, environment and config file are applied.
type ConfigCommand struct {
	*witsml.CmdIO
	Config *server.Config
}

// NewConfigCommand returns a new instance of ConfigCommand.
func NewConfigCommand(stdin io.Reader, stdout, stderr io.Writer) *ConfigCommand {
	return &ConfigCommand{
		CmdIO:  witsml.NewCmdIO(stdin, stdout, stderr),
		Config: server.NewConfig(),
	}
}

// Run prints out the config.
func (cmd *ConfigCommand) Run(_ context.Context) error {
	buf, err := toml.Marshal(*cmd.Config)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Stdout, string(buf))
	return nil
}
