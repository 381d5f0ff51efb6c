package provider

import (
	"context"
	"strings"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/channeldata"
	"github.com/Sjoshi-TYCS/witsml/document"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/merge"
	"github.com/Sjoshi-TYCS/witsml/query"
	"github.com/Sjoshi-TYCS/witsml/validate"
	"golang.org/x/sync/errgroup"
)

// stationLocation are the station elements returned for
// returnElements=station-location-only.
var stationLocation = []string{
	"typeTrajStation", "md", "tvd", "incl", "azi", "mtf", "gtf",
	"dispNs", "dispEw", "vertSect", "dls", "location",
}

// Get returns the stored objects matching each template of q. Templates are
// evaluated concurrently and their results concatenated in template order.
func (p *Provider) Get(ctx context.Context, q *query.Parser) ([]*document.Element, error) {
	p.logger.Debugf("Getting %s", p.kind.Type())
	if err := p.authorize(ctx, witsml.FunctionGetFromStore); err != nil {
		return nil, err
	}

	forks := q.ForkElements()
	v := validate.New(witsml.FunctionGetFromStore, validate.OptValidatorLogger(p.logger))
	if len(forks) == 0 {
		v.Add(validate.SingleObject(q))
	}
	v.Add(validate.ReturnElements(q, p.kind.ReturnElements()...))
	if err := v.Err(ctx); err != nil {
		return nil, err
	}

	results := make([][]*document.Element, len(forks))
	g, gctx := errgroup.WithContext(ctx)
	for i, fork := range forks {
		i, fork := i, fork
		g.Go(func() error {
			out, err := p.query(gctx, fork)
			results[i] = out
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*document.Element
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// GetObject returns the whole object stored under id.
func (p *Provider) GetObject(ctx context.Context, id witsml.ObjectID) (*document.Element, error) {
	if err := p.authorize(ctx, witsml.FunctionGetObject); err != nil {
		return nil, err
	}
	obj, err := p.adapter.Get(ctx, p.key(id))
	if err != nil {
		return nil, err
	}
	tmpl := document.New(obj.Body.Name)
	opts := witsml.OptionsIn{witsml.OptionReturnElements: string(witsml.ReturnElementsAll)}
	return p.render(ctx, query.NewParser(p.kind.Type(), p.version(), opts, tmpl), obj)
}

// query evaluates one template.
func (p *Provider) query(ctx context.Context, q *query.Parser) ([]*document.Element, error) {
	tmpl := q.Element()
	filter := witsml.Filter{Family: p.kind.Family(), Type: p.kind.Type(), ID: p.kind.Identify(tmpl)}
	objs, err := p.adapter.Query(ctx, filter)
	if err != nil {
		return nil, errors.Wrapf(err, "querying %s", p.kind.Type())
	}

	header := q.HeaderTemplate(p.excluded()...)
	var out []*document.Element
	for _, obj := range objs {
		if !document.Matches(obj.Body, header) {
			continue
		}
		el, err := p.render(ctx, q, obj)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// excluded lists the template elements that are not header values: child
// collections, series data, range selectors and the growing flag.
func (p *Provider) excluded() []string {
	var names []string
	if spec := p.kind.Collection(); spec != nil {
		names = append(names, spec.Element)
		if p.kind.CollectionIsData() {
			names = append(names, spec.Min, spec.Max)
		}
	}
	if s := p.kind.Series(); s != nil {
		start, end := s.RangeElements(channeldata.Layout{})
		tstart, tend := s.RangeElements(channeldata.Layout{IsTime: true})
		names = append(names, s.DataElement(), start, end, tstart, tend)
	}
	if g := p.kind.GrowingElement(); g != "" {
		names = append(names, g)
	}
	return names
}

// render shapes a stored object into the response element q asks for.
func (p *Provider) render(ctx context.Context, q *query.Parser, obj *witsml.DataObject) (*document.Element, error) {
	body := obj.Body.Clone()
	state, _ := p.growing.Refresh(p.kind.Type(), obj.Growing)
	p.kind.SetGrowing(body, state.IsGrowing)

	re := q.ReturnElements()
	if re == witsml.ReturnElementsIDOnly {
		return p.identity(body), nil
	}

	spec := p.kind.Collection()
	var out *document.Element
	switch proj := q.Projection(p.dataElements()...); {
	case !q.IncludeHeader():
		out = p.identity(body)
	case proj != nil:
		out = document.Project(body, proj)
	default:
		out = body.Clone()
		if spec != nil && p.kind.CollectionIsData() {
			out.RemoveChildren(spec.Element)
		}
	}

	if spec != nil && p.kind.CollectionIsData() && q.IncludeChildCollection(spec.Element) {
		p.renderCollection(q, body, out, spec)
	}

	if s := p.kind.Series(); s != nil && q.IncludeChildCollection(s.DataElement()) {
		if err := p.renderSeries(ctx, q, obj, out, s); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// dataElements names the elements carrying child data rather than header
// values.
func (p *Provider) dataElements() []string {
	var names []string
	if spec := p.kind.Collection(); spec != nil && p.kind.CollectionIsData() {
		names = append(names, spec.Element)
	}
	if s := p.kind.Series(); s != nil {
		names = append(names, s.DataElement())
	}
	return names
}

// identity returns the identifiers and naming elements of body.
func (p *Provider) identity(body *document.Element) *document.Element {
	out := document.New(body.Name)
	out.Space = body.Space
	for _, a := range body.Attrs {
		switch a.Name {
		case "uid", "uidWell", "uidWellbore", "uuid":
			out.SetAttr(a.Name, a.Value)
		}
	}
	for _, name := range p.kind.IDElements() {
		for _, c := range body.ChildrenNamed(name) {
			out.AddChild(c.Clone())
		}
	}
	return out
}

// renderCollection adds the data collection of body to out, restricted to
// the requested range and shape.
func (p *Provider) renderCollection(q *query.Parser, body, out *document.Element, spec *merge.Spec) {
	increasing := p.kind.Increasing(body)
	r := q.Range(spec.Min, spec.Max, spec.IsTime)

	var tmpl *document.Element
	var uid string
	switch q.ReturnElements() {
	case witsml.ReturnElementsStationLocationOnly:
		tmpl = document.New(spec.Element)
		for _, name := range stationLocation {
			tmpl.AddChild(document.New(name))
		}
	case witsml.ReturnElementsRequested:
		if t := q.Element().Child(spec.Element); t != nil {
			uid = t.Attr(spec.UIDAttr)
			if len(t.Children) > 0 {
				tmpl = t
			}
		}
	}

	var nodes []*document.Element
	for _, n := range spec.Nodes(body) {
		if v, ok := n.Index(); ok && !r.Selects(v, increasing) {
			continue
		}
		if uid != "" && uid != n.UID() {
			continue
		}
		if tmpl != nil {
			nodes = append(nodes, document.Project(n.El, tmpl))
			continue
		}
		nodes = append(nodes, n.El.Clone())
	}
	if max := p.maxNodes(q); max > 0 && len(nodes) > max {
		nodes = nodes[:max]
	}
	out.ReplaceChildren(spec.Element, nodes)
}

// maxNodes is the smaller of maxReturnNodes and the configured ceiling.
func (p *Provider) maxNodes(q *query.Parser) int {
	max := q.MaxReturnNodes()
	if limit := p.config.MaxDataNodes.For(witsml.FunctionGetFromStore); limit > 0 && (max == 0 || limit < max) {
		max = limit
	}
	return max
}

// renderSeries reads the rows of obj in the requested range, touching only
// the chunks that range overlaps, and writes them into out.
func (p *Provider) renderSeries(ctx context.Context, q *query.Parser, obj *witsml.DataObject, out *document.Element, s Series) error {
	layout := s.Layout(obj.Body)
	if layout.IndexMnemonic() == "" {
		return nil
	}
	layout = layout.Select(p.requestedMnemonics(q, s))
	r := rangeOf(s, q.Element(), layout)

	chunks, err := p.adapter.Chunks(ctx, obj.Key(), channeldata.Keep(r, layout.Increasing))
	if err != nil {
		return errors.Wrapf(err, "reading %s data", p.kind.Type())
	}
	rows := channeldata.Filter(channeldata.Collect(chunks, layout.Increasing), r, layout.Increasing)

	if max := p.maxNodes(q); max > 0 && len(rows) > max {
		rows = rows[:max]
	}
	if limit := p.config.MaxDataPoints.For(witsml.FunctionGetFromStore); limit > 0 {
		for len(rows) > 0 && channeldata.Points(rows) > limit {
			rows = rows[:len(rows)-1]
		}
	}
	s.Attach(out, layout, rows)
	return nil
}

// requestedMnemonics returns the columns a requested template asks for, or
// nil for all columns.
func (p *Provider) requestedMnemonics(q *query.Parser, s Series) []string {
	if q.ReturnElements() != witsml.ReturnElementsRequested {
		return nil
	}
	tmpl := q.Element()
	var out []string
	if spec := p.kind.Collection(); spec != nil && !p.kind.CollectionIsData() {
		for _, c := range tmpl.ChildrenNamed(spec.Element) {
			if m := s.Mnemonic(c); m != "" {
				out = append(out, m)
			}
		}
	}
	for _, ld := range tmpl.ChildrenNamed(s.DataElement()) {
		if list := ld.ChildText("mnemonicList"); list != "" {
			out = append(out, strings.Split(list, ",")...)
		}
	}
	return out
}
