package ctl

import (
	"crypto/tls"
	"net/http"

	"github.com/Sjoshi-TYCS/witsml/toml"
	"github.com/spf13/pflag"
)

// SetTLSConfig creates common TLS flags
func SetTLSConfig(flags *pflag.FlagSet, prefix string, certificatePath, certificateKeyPath, caCertPath *string, enableClientVerification *bool) {
	flags.StringVar(certificatePath, prefix+"tls.certificate", *certificatePath, "TLS certificate path (usually has the .crt or .pem extension)")
	flags.StringVar(certificateKeyPath, prefix+"tls.key", *certificateKeyPath, "TLS certificate key path (usually has the .key extension)")
	flags.StringVar(caCertPath, prefix+"tls.ca-certificate", *caCertPath, "TLS CA certificate path (usually has the .pem extension)")
	flags.BoolVar(enableClientVerification, prefix+"tls.enable-client-verification", *enableClientVerification, "Enable TLS certificate verification for incoming connections")
}

// durationEntry binds one entry of a duration map to a flag.
type durationEntry struct {
	m   map[string]toml.Duration
	key string
}

func (d durationEntry) String() string { return d.m[d.key].String() }

func (d durationEntry) Set(s string) error {
	var v toml.Duration
	if err := v.Set(s); err != nil {
		return err
	}
	d.m[d.key] = v
	return nil
}

func (d durationEntry) Type() string { return "duration" }

// httpClient returns a client that skips server certificate verification
// when insecure is set.
func httpClient(insecure bool) *http.Client {
	if !insecure {
		return http.DefaultClient
	}
	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // nolint: gosec
		},
	}
}
