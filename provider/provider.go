// Package provider implements the generic data provider: the single
// parse, authorize, validate, merge and persist flow that every object type
// and schema family runs through.
package provider

import (
	"context"
	"time"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/authz"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/growing"
	"github.com/Sjoshi-TYCS/witsml/logger"
)

// Limits holds a ceiling per store function. Zero means unlimited.
type Limits struct {
	Get    int `toml:"get"`
	Add    int `toml:"add"`
	Update int `toml:"update"`
	Delete int `toml:"delete"`
}

// For returns the limit of fn.
func (l Limits) For(fn witsml.Function) int {
	switch fn {
	case witsml.FunctionGetFromStore, witsml.FunctionGetObject:
		return l.Get
	case witsml.FunctionAddToStore, witsml.FunctionPutObject:
		return l.Add
	case witsml.FunctionUpdateInStore:
		return l.Update
	case witsml.FunctionDeleteFromStore, witsml.FunctionDeleteObject:
		return l.Delete
	}
	return 0
}

// Config holds the engine settings a provider reads. It is not modified
// after construction.
type Config struct {
	DepthChunkSize int64
	TimeChunkSize  int64
	MaxDataNodes   Limits
	MaxDataPoints  Limits
}

// NewConfig returns the default settings.
func NewConfig() Config {
	return Config{
		DepthChunkSize: 1000,
		TimeChunkSize:  86400,
		MaxDataNodes:   Limits{Get: 10000, Add: 10000, Update: 10000, Delete: 10000},
		MaxDataPoints:  Limits{Get: 1000000, Add: 1000000, Update: 1000000, Delete: 1000000},
	}
}

// Validate reports settings no provider can run with.
func (c Config) Validate() error {
	if c.DepthChunkSize <= 0 {
		return errors.Errorf("depth chunk size must be positive, got %d", c.DepthChunkSize)
	}
	if c.TimeChunkSize <= 0 {
		return errors.Errorf("time chunk size must be positive, got %d", c.TimeChunkSize)
	}
	return nil
}

// Resolver answers questions about objects of other types, which a provider
// needs for parent checks and cascaded deletes.
type Resolver interface {
	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key witsml.Key) (bool, error)
	// Children returns the keys of the objects whose parent is key.
	Children(ctx context.Context, key witsml.Key) ([]witsml.Key, error)
}

// adapterResolver resolves existence through the adapter and knows of no
// child objects.
type adapterResolver struct {
	adapter witsml.DataAdapter
}

func (r adapterResolver) Exists(ctx context.Context, key witsml.Key) (bool, error) {
	return exists(ctx, r.adapter, key)
}

func (r adapterResolver) Children(context.Context, witsml.Key) ([]witsml.Key, error) {
	return nil, nil
}

func exists(ctx context.Context, adapter witsml.DataAdapter, key witsml.Key) (bool, error) {
	_, err := adapter.Get(ctx, key)
	if errors.Is(err, witsml.ErrDataObjectNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

// Provider serves the store functions for one Kind.
type Provider struct {
	kind     Kind
	adapter  witsml.DataAdapter
	growing  *growing.Manager
	resolver Resolver
	gate     *authz.Gate
	config   Config
	logger   logger.Logger
	now      func() time.Time
	newUID   func() string
}

// ProviderOption is a functional option for New.
type ProviderOption func(*Provider)

func OptProviderLogger(l logger.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = l
	}
}

func OptProviderGrowing(m *growing.Manager) ProviderOption {
	return func(p *Provider) {
		p.growing = m
	}
}

func OptProviderResolver(r Resolver) ProviderOption {
	return func(p *Provider) {
		p.resolver = r
	}
}

// OptProviderGate checks every function against gate before validation.
func OptProviderGate(g *authz.Gate) ProviderOption {
	return func(p *Provider) {
		p.gate = g
	}
}

// OptProviderConfig sets the engine settings. A non-positive chunk size
// keeps its default.
func OptProviderConfig(c Config) ProviderOption {
	return func(p *Provider) {
		def := NewConfig()
		if c.DepthChunkSize <= 0 {
			c.DepthChunkSize = def.DepthChunkSize
		}
		if c.TimeChunkSize <= 0 {
			c.TimeChunkSize = def.TimeChunkSize
		}
		p.config = c
	}
}

func OptProviderClock(now func() time.Time) ProviderOption {
	return func(p *Provider) {
		p.now = now
	}
}

// OptProviderUIDGenerator replaces the generator of identifiers assigned on
// add.
func OptProviderUIDGenerator(fn func() string) ProviderOption {
	return func(p *Provider) {
		p.newUID = fn
	}
}

// New returns a provider for kind backed by adapter.
func New(kind Kind, adapter witsml.DataAdapter, opts ...ProviderOption) *Provider {
	p := &Provider{
		kind:    kind,
		adapter: adapter,
		config:  NewConfig(),
		logger:  logger.NopLogger,
		now:     time.Now,
		newUID:  newUID,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.growing == nil {
		p.growing = growing.NewManager(nil, growing.OptManagerClock(p.now))
	}
	if p.resolver == nil {
		p.resolver = adapterResolver{adapter: adapter}
	}
	if p.gate == nil {
		p.gate = authz.NewGate(false)
	}
	return p
}

// Kind returns the provider's kind.
func (p *Provider) Kind() Kind { return p.kind }

func (p *Provider) key(id witsml.ObjectID) witsml.Key {
	return witsml.Key{Family: p.kind.Family(), Type: p.kind.Type(), ID: id}
}

func (p *Provider) version() witsml.DataVersion {
	return p.kind.Family().Canonical()
}

// authorize checks fn against the gate for the endpoint the request
// arrived on.
func (p *Provider) authorize(ctx context.Context, fn witsml.Function) error {
	op, ok := witsml.OperationFrom(ctx)
	if !ok {
		op = witsml.Operation{Endpoint: witsml.EndpointSoap}
	}
	op.Function = fn
	endpoint := op.Endpoint
	if endpoint == "" {
		endpoint = witsml.EndpointSoap
	}
	return p.gate.CheckAccess(witsml.WithOperation(ctx, op), endpoint)
}

func (p *Provider) chunkSize(isTime bool) int64 {
	if isTime {
		return p.config.TimeChunkSize
	}
	return p.config.DepthChunkSize
}
