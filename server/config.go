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

package server

import (
	"net"
	"strings"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/storage"
	"github.com/Sjoshi-TYCS/witsml/store"
)

const (
	defaultBindPort = "8080"

	// DefaultDataDir is the default data directory.
	DefaultDataDir = "~/.witsml"
)

// TLSConfig contains TLS configuration
type TLSConfig struct {
	// CertificatePath contains the path to the certificate (.crt or .pem file)
	CertificatePath string `toml:"certificate"`
	// CertificateKeyPath contains the path to the certificate key (.key file)
	CertificateKeyPath string `toml:"key"`
	// CACertPath is the path to a CA certificate (.crt or .pem file)
	CACertPath string `toml:"ca-certificate"`
	// EnableClientVerification requires clients to present a certificate
	// signed by the CA.
	EnableClientVerification bool `toml:"enable-client-verification"`
}

// Auth holds the settings of caller identification and authorization.
type Auth struct {
	// Enable turns on authorization of every store function.
	Enable bool `toml:"enable"`

	// Permissions is the path of the YAML file mapping user groups to
	// endpoint permissions.
	Permissions string `toml:"permissions"`

	// TokenSecret verifies the HMAC signature of bearer tokens.
	TokenSecret string `toml:"token-secret"`

	// Users are the basic auth credentials, by user name.
	Users map[string]string `toml:"users"`

	// UserPermissions grants permissions to single users ahead of the
	// group permissions file.
	UserPermissions map[string]string `toml:"user-permissions"`
}

// Config represents the configuration for the command.
type Config struct {
	// DataDir is where the on-disk storage backend keeps its files.
	DataDir string `toml:"data-dir"`

	// Bind is the host:port on which the store will listen. A https scheme
	// requires a TLS certificate.
	Bind string `toml:"bind"`

	// LogPath configures where the server will write logs.
	LogPath string `toml:"log-path"`

	// Verbose toggles verbose logging which can be useful for debugging.
	Verbose bool `toml:"verbose"`

	Storage storage.Config `toml:"storage"`
	Store   store.Config   `toml:"store"`
	Auth    Auth           `toml:"auth"`

	// HTTP Handler options
	Handler struct {
		// CORS Allowed Origins
		AllowedOrigins []string `toml:"allowed-origins"`
	} `toml:"handler"`

	// TLS
	TLS TLSConfig `toml:"tls"`
}

// NewConfig returns an instance of Config with default options.
func NewConfig() *Config {
	c := &Config{
		DataDir: DefaultDataDir,
		Bind:    ":" + defaultBindPort,
		Storage: *storage.NewDefaultConfig(),
		Store:   store.NewConfig(),
		Auth: Auth{
			Users:           map[string]string{},
			UserPermissions: map[string]string{},
		},
	}
	c.Handler.AllowedOrigins = []string{}
	return c
}

// validate checks the settings that can be checked without touching the
// network or the filesystem.
func (c *Config) validate() error {
	scheme, hostPort := splitScheme(c.Bind)
	switch scheme {
	case "", "http":
	case "https":
		if c.TLS.CertificatePath == "" || c.TLS.CertificateKeyPath == "" {
			return errors.New(errors.ErrUncoded, "https bind requires tls certificate and key")
		}
	default:
		return errors.Errorf("unsupported scheme: %s", scheme)
	}
	if _, _, err := net.SplitHostPort(hostPort); err != nil {
		return errors.Wrapf(err, "splitting bind address %s", c.Bind)
	}
	if v := c.Store.DefaultDataVersion; v != "" {
		if _, err := witsml.ParseDataVersion(v); err != nil {
			return errors.Wrap(err, "store default-data-version")
		}
	}
	if err := c.Store.Validate(); err != nil {
		return errors.Wrap(err, "store")
	}
	if c.Auth.Enable && c.Auth.Permissions == "" && len(c.Auth.UserPermissions) == 0 {
		return errors.New(errors.ErrUncoded, "auth enabled without permissions")
	}
	return nil
}

// splitScheme returns the scheme and the host:port of addr. An address
// without a port gets the default port.
func splitScheme(addr string) (string, string) {
	scheme, hostPort := "", addr
	if i := strings.Index(addr, "://"); i >= 0 {
		scheme, hostPort = addr[:i], addr[i+3:]
	}
	if !strings.Contains(hostPort, ":") {
		hostPort += ":" + defaultBindPort
	}
	return scheme, hostPort
}

// redacted returns a copy of c without credentials, for logging.
func (c *Config) redacted() Config {
	out := *c
	if out.Auth.TokenSecret != "" {
		out.Auth.TokenSecret = "********"
	}
	users := make(map[string]string, len(c.Auth.Users))
	for name := range c.Auth.Users {
		users[name] = "********"
	}
	out.Auth.Users = users
	return out
}
