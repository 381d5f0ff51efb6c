// Package store is the store facade: a registry of providers keyed by schema
// family and object type, serving the WITSML store functions over request
// documents and option strings.
package store

import (
	"context"
	"strconv"
	"time"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/authz"
	"github.com/Sjoshi-TYCS/witsml/document"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/growing"
	"github.com/Sjoshi-TYCS/witsml/kinds"
	"github.com/Sjoshi-TYCS/witsml/logger"
	"github.com/Sjoshi-TYCS/witsml/provider"
	"github.com/Sjoshi-TYCS/witsml/query"
	"github.com/Sjoshi-TYCS/witsml/schema"
)

// Response is the outcome of one store function: exactly one result code,
// the response document for reads and a supplemental message.
type Response struct {
	Result     witsml.ErrorCode `json:"result"`
	XMLOut     string           `json:"xmlOut,omitempty"`
	SuppMsgOut string           `json:"suppMsgOut,omitempty"`
}

// IsSuccess reports whether the function succeeded.
func (r Response) IsSuccess() bool { return r.Result.IsSuccess() }

type registryKey struct {
	family witsml.Family
	typ    witsml.ObjectType
}

// Store serves the store functions.
type Store struct {
	config  Config
	adapter witsml.DataAdapter
	gate    *authz.Gate
	growing *growing.Manager
	logger  logger.Logger
	now     func() time.Time
	newUID  func() string

	kinds     []provider.Kind
	providers map[registryKey]*provider.Provider
}

// StoreOption is a functional option for New.
type StoreOption func(*Store)

func OptStoreLogger(l logger.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

func OptStoreConfig(c Config) StoreOption {
	return func(s *Store) {
		s.config = c
	}
}

// OptStoreGate checks every function against g.
func OptStoreGate(g *authz.Gate) StoreOption {
	return func(s *Store) {
		s.gate = g
	}
}

func OptStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func OptStoreUIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		s.newUID = fn
	}
}

// OptStoreKinds replaces the registered kinds, which default to
// kinds.All().
func OptStoreKinds(ks ...provider.Kind) StoreOption {
	return func(s *Store) {
		s.kinds = ks
	}
}

// New returns a store over adapter with a provider for every kind.
func New(adapter witsml.DataAdapter, opts ...StoreOption) *Store {
	s := &Store{
		config:    NewConfig(),
		adapter:   adapter,
		gate:      authz.NewGate(false),
		logger:    logger.NopLogger,
		now:       time.Now,
		providers: make(map[registryKey]*provider.Provider),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.kinds == nil {
		s.kinds = kinds.All()
	}
	s.growing = growing.NewManager(s.config.timeouts(),
		growing.OptManagerLogger(s.logger),
		growing.OptManagerClock(s.now),
	)

	popts := []provider.ProviderOption{
		provider.OptProviderLogger(s.logger),
		provider.OptProviderGrowing(s.growing),
		provider.OptProviderResolver(s),
		provider.OptProviderGate(s.gate),
		provider.OptProviderConfig(s.config.provider()),
		provider.OptProviderClock(s.now),
	}
	if s.newUID != nil {
		popts = append(popts, provider.OptProviderUIDGenerator(s.newUID))
	}
	for _, k := range s.kinds {
		s.providers[registryKey{k.Family(), k.Type()}] = provider.New(k, adapter, popts...)
	}
	return s
}

// Provider returns the provider of typ in family.
func (s *Store) Provider(family witsml.Family, typ witsml.ObjectType) (*provider.Provider, bool) {
	p, ok := s.providers[registryKey{family, typ}]
	return p, ok
}

// Exists implements provider.Resolver.
func (s *Store) Exists(ctx context.Context, key witsml.Key) (bool, error) {
	_, err := s.adapter.Get(ctx, key)
	if errors.Is(err, witsml.ErrDataObjectNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

// Children implements provider.Resolver. It returns the keys of the stored
// objects of every registered type whose parent is key.
func (s *Store) Children(ctx context.Context, key witsml.Key) ([]witsml.Key, error) {
	var out []witsml.Key
	for _, k := range s.kinds {
		if k.Family() != key.Family || k.ParentType() != key.Type {
			continue
		}
		objs, err := s.adapter.Query(ctx, witsml.Filter{
			Family: key.Family,
			Type:   k.Type(),
			ID:     childID(key),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "querying children of %s", key)
		}
		for _, obj := range objs {
			out = append(out, obj.Key())
		}
	}
	return out, nil
}

// childID is the filter identifier selecting the children of key.
func childID(key witsml.Key) witsml.ObjectID {
	switch key.Type {
	case witsml.ObjectTypeWell:
		return witsml.ObjectID{UidWell: key.ID.Uid}
	case witsml.ObjectTypeWellbore:
		if key.Family == witsml.Family20 {
			// 2.0 objects reference only their direct parent.
			return witsml.ObjectID{UidWellbore: key.ID.Uid}
		}
		return witsml.ObjectID{UidWell: key.ID.UidWell, UidWellbore: key.ID.Uid}
	}
	return witsml.ObjectID{Uid: "\x00"}
}

// request is a parsed store function call.
type request struct {
	fn       witsml.Function
	typ      witsml.ObjectType
	version  witsml.DataVersion
	options  witsml.OptionsIn
	provider *provider.Provider
	query    *query.Parser
}

// parse turns the arguments of a store function into a request on the
// canonical version of the document's family.
func (s *Store) parse(fn witsml.Function, wmlTypeIn, xmlIn, optionsIn string) (*request, error) {
	opts, err := witsml.ParseOptionsIn(optionsIn)
	if err != nil {
		return nil, err
	}
	if wmlTypeIn == "" {
		return nil, witsml.NewError(witsml.ErrMissingWmlTypeIn, "no object type")
	}
	typ, ok := witsml.ParseObjectType(wmlTypeIn)
	if !ok {
		return nil, witsml.NewErrDataObjectTypeNotSupported(wmlTypeIn, "")
	}

	version, objs, err := schema.Parse(xmlIn, typ, "")
	if witsml.ErrorCodeOf(err) == witsml.ErrorCodeMissingDataSchemaVersion && s.config.DefaultDataVersion != "" {
		dv, verr := witsml.ParseDataVersion(s.config.DefaultDataVersion)
		if verr != nil {
			return nil, verr
		}
		version, objs, err = schema.Parse(xmlIn, typ, dv)
	}
	if err != nil {
		return nil, err
	}

	p, ok := s.Provider(version.Family(), typ)
	if !ok {
		return nil, witsml.NewErrDataObjectTypeNotSupported(string(typ), version)
	}
	canonical := version.Family().Canonical()
	for _, obj := range objs {
		schema.Transform(obj, typ, version, canonical)
	}

	if fn == witsml.FunctionGetFromStore && s.config.MaxReturnNodes > 0 {
		if _, ok := opts[witsml.OptionMaxReturnNodes]; !ok {
			opts[witsml.OptionMaxReturnNodes] = strconv.Itoa(s.config.MaxReturnNodes)
		}
	}
	return &request{
		fn:       fn,
		typ:      typ,
		version:  version,
		options:  opts,
		provider: p,
		query:    query.NewParser(typ, canonical, opts, objs...),
	}, nil
}

// operation returns ctx carrying the operation of fn, keeping the caller
// identity already in ctx.
func operation(ctx context.Context, fn witsml.Function, opts witsml.OptionsIn) context.Context {
	op, _ := witsml.OperationFrom(ctx)
	op.Function = fn
	op.Options = opts
	if op.Endpoint == "" {
		op.Endpoint = witsml.EndpointSoap
	}
	return witsml.WithOperation(ctx, op)
}

// respond records the outcome of fn and maps err to its result code.
func (s *Store) respond(fn witsml.Function, typ string, start time.Time, xmlOut, msg string, err error) Response {
	code := witsml.ErrorCodeOf(err)
	resp := Response{Result: code, XMLOut: xmlOut, SuppMsgOut: msg}
	if err != nil {
		resp.XMLOut = ""
		resp.SuppMsgOut = errors.MessageOf(err)
		if code == witsml.ErrorCodeUnknown {
			s.logger.Errorf("%s %s: %v", fn, typ, err)
		} else {
			s.logger.Debugf("%s %s failed with %d: %v", fn, typ, code, err)
		}
	}
	CounterRequests.WithLabelValues(string(fn), typeLabel(typ), code.String()).Inc()
	HistogramRequestDuration.WithLabelValues(string(fn)).Observe(time.Since(start).Seconds())
	return resp
}

// typeLabel bounds the type label of the request counter to the supported
// object types.
func typeLabel(typ string) string {
	if typ == "" {
		return ""
	}
	if t, ok := witsml.ParseObjectType(typ); ok {
		return string(t)
	}
	return "unknown"
}

// GetFromStore returns the objects of wmlTypeIn matching the query
// templates of xmlIn.
func (s *Store) GetFromStore(ctx context.Context, wmlTypeIn, xmlIn, optionsIn, capabilitiesIn string) Response {
	start := time.Now()
	req, err := s.parse(witsml.FunctionGetFromStore, wmlTypeIn, xmlIn, optionsIn)
	if err != nil {
		return s.respond(witsml.FunctionGetFromStore, wmlTypeIn, start, "", "", err)
	}

	out := req.version
	if v, ok := req.options.DataVersion(); ok {
		if v.Family() != req.version.Family() {
			err := witsml.NewError(witsml.ErrMissingDataSchemaVersion,
				"data version %s cannot be returned for a %s query", v, req.version)
			return s.respond(req.fn, string(req.typ), start, "", "", err)
		}
		out = v
	}
	objs, err := req.provider.Get(operation(ctx, req.fn, req.options), req.query)
	if err != nil {
		return s.respond(req.fn, string(req.typ), start, "", "", err)
	}
	for _, obj := range objs {
		schema.Transform(obj, req.typ, req.query.Version, out)
	}
	CounterObjectsReturned.WithLabelValues(string(req.typ)).Add(float64(len(objs)))
	doc := schema.Encode(req.typ, out, objs)
	return s.respond(req.fn, string(req.typ), start, doc.String(), "", nil)
}

// AddToStore adds the single object of xmlIn. The supplemental message holds
// the identifier of the added object.
func (s *Store) AddToStore(ctx context.Context, wmlTypeIn, xmlIn, optionsIn, capabilitiesIn string) Response {
	start := time.Now()
	req, err := s.parse(witsml.FunctionAddToStore, wmlTypeIn, xmlIn, optionsIn)
	if err != nil {
		return s.respond(witsml.FunctionAddToStore, wmlTypeIn, start, "", "", err)
	}
	id, err := req.provider.Add(operation(ctx, req.fn, req.options), req.query)
	return s.respond(req.fn, string(req.typ), start, "", id.Uid, err)
}

// UpdateInStore merges the single partial object of xmlIn into the stored
// object.
func (s *Store) UpdateInStore(ctx context.Context, wmlTypeIn, xmlIn, optionsIn, capabilitiesIn string) Response {
	start := time.Now()
	req, err := s.parse(witsml.FunctionUpdateInStore, wmlTypeIn, xmlIn, optionsIn)
	if err != nil {
		return s.respond(witsml.FunctionUpdateInStore, wmlTypeIn, start, "", "", err)
	}
	err = req.provider.Update(operation(ctx, req.fn, req.options), req.query)
	return s.respond(req.fn, string(req.typ), start, "", "", err)
}

// DeleteFromStore deletes the object of xmlIn, or the parts of it xmlIn
// names.
func (s *Store) DeleteFromStore(ctx context.Context, wmlTypeIn, xmlIn, optionsIn, capabilitiesIn string) Response {
	start := time.Now()
	req, err := s.parse(witsml.FunctionDeleteFromStore, wmlTypeIn, xmlIn, optionsIn)
	if err != nil {
		return s.respond(witsml.FunctionDeleteFromStore, wmlTypeIn, start, "", "", err)
	}
	err = req.provider.Delete(operation(ctx, req.fn, req.options), req.query)
	return s.respond(req.fn, string(req.typ), start, "", "", err)
}

// uriProvider returns the provider and identifier of the object addressed by
// uri.
func (s *Store) uriProvider(uri string) (witsml.URI, *provider.Provider, witsml.ObjectID, error) {
	u, err := witsml.ParseURI(uri)
	if err != nil {
		return u, nil, witsml.ObjectID{}, witsml.NewError(witsml.ErrInputTemplateNonConforming, "%s", errors.MessageOf(err))
	}
	if u.IsRoot() {
		return u, nil, witsml.ObjectID{}, witsml.NewError(witsml.ErrMissingDataObjectUid, "uri %s addresses no object", u)
	}
	p, ok := s.Provider(u.Version.Family(), u.ObjectType())
	if !ok {
		return u, nil, witsml.ObjectID{}, witsml.NewErrDataObjectTypeNotSupported(string(u.ObjectType()), u.Version)
	}
	id := u.ObjectID()
	if id.Uid == "" {
		return u, nil, witsml.ObjectID{}, witsml.NewError(witsml.ErrMissingDataObjectUid, "uri %s addresses no object", u)
	}
	if u.Version.Family() == witsml.Family20 {
		// 2.0 objects are keyed by uuid alone.
		id = witsml.ObjectID{Uid: id.Uid}
	}
	return u, p, id, nil
}

// GetObject returns the object addressed by uri, in the URI's version.
func (s *Store) GetObject(ctx context.Context, uri string) (*document.Element, error) {
	u, p, id, err := s.uriProvider(uri)
	if err != nil {
		return nil, err
	}
	el, err := p.GetObject(operation(ctx, witsml.FunctionGetObject, nil), id)
	if err != nil {
		return nil, err
	}
	schema.Transform(el, u.ObjectType(), u.Version.Family().Canonical(), u.Version)
	el.Space = schema.Namespace(u.Version)
	return el, nil
}

// PutObject adds or replaces the object addressed by uri with the object
// element in xmlIn. A 2.0 object without a parent reference is given the
// parent addressed by uri.
func (s *Store) PutObject(ctx context.Context, uri, xmlIn string) (witsml.ObjectID, error) {
	u, p, id, err := s.uriProvider(uri)
	if err != nil {
		return witsml.ObjectID{}, err
	}
	el, err := document.ParseString(xmlIn)
	if err != nil {
		return witsml.ObjectID{}, witsml.NewError(witsml.ErrInputTemplateNonConforming, "%v", err)
	}
	typ := u.ObjectType()
	if el.Name == typ.Plural() || el.Name == typ.Name(witsml.Family20)+"s" {
		objs, err := schema.Decode(el, typ, u.Version)
		if err != nil {
			return witsml.ObjectID{}, err
		} else if len(objs) != 1 {
			return witsml.ObjectID{}, witsml.NewError(witsml.ErrInputTemplateMultipleDataObjects, "%d objects in %s", len(objs), el.Name)
		}
		el = objs[0]
	}

	k := p.Kind()
	k.AssignUID(el, id.Uid)
	if ref := k.ParentRef(); ref != "" && el.FindText(ref+"/Uuid") == "" {
		for _, seg := range u.Segments {
			if seg.Type == k.ParentType() && seg.ID != "" {
				el.SetPath(ref+"/Uuid", seg.ID)
			}
		}
	}
	if attrs := k.ParentAttrs(); len(attrs) > 0 {
		parent := witsml.ObjectID{UidWell: id.UidWell, UidWellbore: id.UidWellbore}
		values := map[string]string{"uidWell": parent.UidWell, "uidWellbore": parent.UidWellbore}
		for _, a := range attrs {
			if el.Attr(a) == "" {
				el.SetAttr(a, values[a])
			}
		}
	}
	schema.Transform(el, typ, u.Version, u.Version.Family().Canonical())
	return p.Put(operation(ctx, witsml.FunctionPutObject, nil), el)
}

// DeleteObject deletes the object addressed by uri, and its children when
// cascade is set.
func (s *Store) DeleteObject(ctx context.Context, uri string, cascade bool) error {
	_, p, id, err := s.uriProvider(uri)
	if err != nil {
		return err
	}
	return p.DeleteObject(operation(ctx, witsml.FunctionDeleteObject, nil), id, cascade)
}

// ComputeURI returns the URI of the object of typ identified by id in
// version.
func ComputeURI(version witsml.DataVersion, typ witsml.ObjectType, id witsml.ObjectID) string {
	return witsml.NewURI(version, typ, id).String()
}
