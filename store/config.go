package store

import (
	"time"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/provider"
	"github.com/Sjoshi-TYCS/witsml/toml"
)

// Config holds the engine settings. It is read-only once the store is
// built; tests construct a fresh one per store.
type Config struct {
	// DefaultDataVersion is assumed for request documents that declare no
	// version. Empty means such documents are rejected.
	DefaultDataVersion string `toml:"default-data-version"`

	DepthChunkSize int64 `toml:"depth-chunk-size"`
	TimeChunkSize  int64 `toml:"time-chunk-size"`

	// MaxDataNodes and MaxDataPoints are set per function. A zero limit
	// is unlimited.
	MaxDataNodes  provider.Limits `toml:"max-data-nodes"`
	MaxDataPoints provider.Limits `toml:"max-data-points"`

	// MaxReturnNodes applies to GetFromStore requests without a
	// maxReturnNodes option. Zero returns everything.
	MaxReturnNodes int `toml:"max-return-nodes"`

	// GrowingTimeout maps object types to the period after the last append
	// at which a growing object stops growing.
	GrowingTimeout map[string]toml.Duration `toml:"growing-timeout"`
}

// NewConfig returns the default engine settings.
func NewConfig() Config {
	pc := provider.NewConfig()
	return Config{
		DefaultDataVersion: string(witsml.DataVersion141),
		DepthChunkSize:     pc.DepthChunkSize,
		TimeChunkSize:      pc.TimeChunkSize,
		MaxDataNodes:       pc.MaxDataNodes,
		MaxDataPoints:      pc.MaxDataPoints,
		GrowingTimeout: map[string]toml.Duration{
			string(witsml.ObjectTypeLog):        toml.Duration(5 * time.Minute),
			string(witsml.ObjectTypeTrajectory): toml.Duration(5 * time.Minute),
			string(witsml.ObjectTypeChannelSet): toml.Duration(5 * time.Minute),
		},
	}
}

// Validate reports settings the store cannot run with.
func (c Config) Validate() error {
	return c.provider().Validate()
}

func (c Config) provider() provider.Config {
	return provider.Config{
		DepthChunkSize: c.DepthChunkSize,
		TimeChunkSize:  c.TimeChunkSize,
		MaxDataNodes:   c.MaxDataNodes,
		MaxDataPoints:  c.MaxDataPoints,
	}
}

func (c Config) timeouts() map[witsml.ObjectType]time.Duration {
	out := make(map[witsml.ObjectType]time.Duration, len(c.GrowingTimeout))
	for name, d := range c.GrowingTimeout {
		if typ, ok := witsml.ParseObjectType(name); ok {
			out[typ] = d.Duration()
		}
	}
	return out
}
