// Copyright 2017 Pilosa Corp.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server contains the `witsml server` subcommand which runs the
// store. The purpose of this package is to define an easily tested Command
// object which handles interpreting configuration and setting up all the
// objects that the store needs.
package server

import (
	"crypto/tls"
	"encoding/json"
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/authn"
	"github.com/Sjoshi-TYCS/witsml/authz"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/http"
	"github.com/Sjoshi-TYCS/witsml/logger"
	"github.com/Sjoshi-TYCS/witsml/storage"
	"github.com/Sjoshi-TYCS/witsml/store"
)

// Command represents the state of the witsml server command.
type Command struct {
	// Configuration.
	Config *Config

	Handler *http.Handler
	Store   *store.Store

	// Started will be closed once Command.Start() has set up the store.
	Started chan struct{}

	// done will be closed when Command.Close() is called
	done chan struct{}

	// Standard input/output
	*witsml.CmdIO

	ln        net.Listener
	listenURI string
	tlsConfig *tls.Config

	// closers release the storage backend and the log file, after the
	// handler has stopped.
	closers []io.Closer

	logger    logger.Logger
	logOutput io.Writer
}

type CommandOption func(c *Command) error

// OptCommandConfig replaces the default configuration.
func OptCommandConfig(config *Config) CommandOption {
	return func(c *Command) error {
		c.Config = config
		return nil
	}
}

// NewCommand returns a new instance of Command.
func NewCommand(stdin io.Reader, stdout, stderr io.Writer, opts ...CommandOption) *Command {
	c := &Command{
		Config: NewConfig(),

		CmdIO: witsml.NewCmdIO(stdin, stdout, stderr),

		Started: make(chan struct{}),
		done:    make(chan struct{}),
	}

	for _, opt := range opts {
		err := opt(c)
		if err != nil {
			panic(err)
		}
	}

	return c
}

// Start starts the store and its HTTP transport.
func (m *Command) Start() (err error) {
	if err := m.setupServer(); err != nil {
		return errors.Wrap(err, "setting up server")
	}

	// Serve HTTP.
	go func() {
		if err := m.Handler.Serve(); err != nil {
			m.logger.Errorf("handler serve error: %v", err)
		}
	}()
	m.logger.Printf("listening as %s", m.listenURI)
	close(m.Started)
	return nil
}

// URL returns the address the server listens on, once started.
func (m *Command) URL() string { return m.listenURI }

// Wait waits for the server to be closed or interrupted.
func (m *Command) Wait() error {
	// First SIGKILL causes server to shut down gracefully.
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-c:
		m.logger.Infof("received signal '%s', gracefully shutting down...", sig.String())

		// Second signal causes a hard shutdown.
		go func() { <-c; os.Exit(1) }()
		return errors.Wrap(m.Close(), "closing command")
	case <-m.done:
		m.logger.Infof("server closed externally")
		return nil
	}
}

// Close shuts down the server.
func (m *Command) Close() error {
	select {
	case <-m.done:
		return nil
	default:
	}
	defer close(m.done)

	var err error
	if m.Handler != nil {
		err = m.Handler.Close()
	}

	eg := errgroup.Group{}
	for _, c := range m.closers {
		eg.Go(c.Close)
	}
	if cerr := eg.Wait(); err == nil {
		err = cerr
	}
	return errors.Wrap(err, "closing everything")
}

// expandDirName expands a leading ~ in path to the home directory.
func expandDirName(path string) (string, error) {
	prefix := "~" + string(filepath.Separator)
	if strings.HasPrefix(path, prefix) {
		HomeDir := os.Getenv("HOME")
		if HomeDir == "" {
			return "", errors.New(errors.ErrUncoded, "data directory not specified and no home dir available")
		}
		return filepath.Join(HomeDir, strings.TrimPrefix(path, prefix)), nil
	}
	return path, nil
}

// setupServer uses the configuration to set up this server.
func (m *Command) setupServer() error {
	if err := m.Config.validate(); err != nil {
		return errors.Wrap(err, "validating config")
	}

	// Set up logger.
	if err := m.setupLogger(); err != nil {
		return errors.Wrap(err, "setting up logger")
	}
	m.logger.Printf("%s", witsml.VersionInfo())
	conf, err := json.MarshalIndent(m.Config.redacted(), "", "\t")
	if err != nil {
		return errors.Wrap(err, "marshalling config")
	}
	m.logger.Debugf("Config: %s", conf)

	dataDir, err := expandDirName(m.Config.DataDir)
	if err != nil {
		return err
	}
	if m.Config.Storage.Backend != storage.InmemBackend {
		if err := os.MkdirAll(dataDir, 0750); err != nil {
			return errors.Wrap(err, "creating data directory")
		}
		m.logger.Infof("using data from: %s", dataDir)
	}

	adapter, closer, err := storage.Open(&m.Config.Storage, dataDir, m.logger)
	if err != nil {
		return errors.Wrap(err, "opening storage")
	}
	m.closers = append(m.closers, closer)

	gate, err := m.setupGate()
	if err != nil {
		return errors.Wrap(err, "setting up authorization")
	}

	m.Store = store.New(adapter,
		store.OptStoreLogger(m.logger),
		store.OptStoreConfig(m.Config.Store),
		store.OptStoreGate(gate),
	)

	handlerOpts := []http.HandlerOption{
		http.OptHandlerStore(m.Store),
		http.OptHandlerLogger(m.logger),
		http.OptHandlerAllowedOrigins(m.Config.Handler.AllowedOrigins),
	}
	if m.Config.Auth.TokenSecret != "" || len(m.Config.Auth.Users) > 0 {
		auth, err := authn.NewAuth(m.logger, m.Config.Auth.TokenSecret, m.Config.Auth.Users)
		if err != nil {
			return errors.Wrap(err, "setting up authentication")
		}
		handlerOpts = append(handlerOpts, http.OptHandlerAuth(auth))
	}

	if m.tlsConfig, err = getTLSConfig(m.Config.TLS, m.logger); err != nil {
		return errors.Wrap(err, "getting tls config")
	}
	if m.ln, err = m.getListener(); err != nil {
		return errors.Wrap(err, "getting listener")
	}
	handlerOpts = append(handlerOpts, http.OptHandlerListener(m.ln))

	m.Handler, err = http.NewHandler(handlerOpts...)
	return errors.Wrap(err, "creating handler")
}

// setupGate builds the authorization gate: per-user permissions first, then
// the group permissions file.
func (m *Command) setupGate() (*authz.Gate, error) {
	var rules []authz.Rule
	if len(m.Config.Auth.UserPermissions) > 0 {
		users := authz.UserRule{}
		for user, p := range m.Config.Auth.UserPermissions {
			perm := authz.Permission(p)
			switch perm {
			case authz.Read, authz.Write, authz.Admin:
			default:
				return nil, errors.Errorf("invalid permission '%s' for user '%s'", p, user)
			}
			users[user] = perm
		}
		rules = append(rules, users)
	}
	if path := m.Config.Auth.Permissions; path != "" {
		perms, err := authz.LoadPermissions(path)
		if err != nil {
			return nil, err
		}
		rules = append(rules, perms)
	}
	if m.Config.Auth.Enable {
		m.logger.Infof("authorization enabled with %d rules", len(rules))
	}
	return authz.NewGate(m.Config.Auth.Enable, authz.OptGateLogger(m.logger), authz.OptGateRules(rules...)), nil
}

// getListener gets a net.Listener based on the config.
func (m *Command) getListener() (ln net.Listener, err error) {
	scheme, hostPort := splitScheme(m.Config.Bind)
	if scheme == "https" {
		if m.tlsConfig == nil {
			return nil, errors.New(errors.ErrUncoded, "https bind without tls config")
		}
		ln, err = tls.Listen("tcp", hostPort, m.tlsConfig)
		if err != nil {
			return nil, errors.Wrap(err, "tls.Listener")
		}
	} else {
		scheme = "http"
		ln, err = net.Listen("tcp", hostPort)
		if err != nil {
			return nil, errors.Wrap(err, "net.Listen")
		}
	}
	m.listenURI = scheme + "://" + ln.Addr().String()
	return ln, nil
}

func (m *Command) setupLogger() error {
	var f *logger.FileWriter
	var err error
	if m.Config.LogPath == "" {
		m.logOutput = m.Stderr
	} else {
		f, err = logger.NewFileWriter(m.Config.LogPath)
		if err != nil {
			return errors.Wrap(err, "opening file")
		}
		m.logOutput = f
		m.closers = append(m.closers, f)
	}
	if m.Config.Verbose {
		m.logger = logger.NewVerboseLogger(m.logOutput)
	} else {
		m.logger = logger.NewStandardLogger(m.logOutput)
	}
	m.CmdIO.SetLogger(m.logger)
	if f != nil {
		sighup := make(chan os.Signal, 1)
		signal.Notify(sighup, syscall.SIGHUP)
		go func() {
			for {
				select {
				case <-m.done:
					signal.Stop(sighup)
					return
				case <-sighup:
				}
				// reopen log file on SIGHUP
				if err := f.Reopen(); err != nil {
					m.logger.Infof("reopen: %s", err.Error())
				}
			}
		}()
	}
	return nil
}
