package provider

import (
	"context"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/channeldata"
	"github.com/Sjoshi-TYCS/witsml/document"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/merge"
	"github.com/Sjoshi-TYCS/witsml/query"
	"github.com/Sjoshi-TYCS/witsml/validate"
	"github.com/google/uuid"
)

func newUID() string { return uuid.New().String() }

// Add validates the single object of q and persists it. Missing object and
// child identifiers are assigned. It returns the object's identifier.
func (p *Provider) Add(ctx context.Context, q *query.Parser) (witsml.ObjectID, error) {
	p.logger.Debugf("Adding %s", p.kind.Type())
	if err := p.authorize(ctx, witsml.FunctionAddToStore); err != nil {
		return witsml.ObjectID{}, err
	}
	if err := validate.New(witsml.FunctionAddToStore).Add(validate.SingleObject(q)).Err(ctx); err != nil {
		return witsml.ObjectID{}, err
	}

	obj, chunks, err := p.prepare(ctx, witsml.FunctionAddToStore, q.Element().Clone())
	if err != nil {
		return witsml.ObjectID{}, err
	}
	if err := p.adapter.Add(ctx, obj, chunks); err != nil {
		return witsml.ObjectID{}, errors.Wrapf(err, "adding %s", p.kind.Type())
	}
	p.logger.Debugf("Added %s %s", p.kind.Type(), obj.ID)
	return obj.ID, nil
}

// prepare assigns identifiers and defaults to a new object element, runs
// the add rules and returns the object and its series chunks. For
// PutObject an existing object is allowed.
func (p *Provider) prepare(ctx context.Context, fn witsml.Function, el *document.Element) (*witsml.DataObject, []witsml.Chunk, error) {
	if p.kind.Identify(el).Uid == "" {
		p.kind.AssignUID(el, p.newUID())
	}
	spec := p.kind.Collection()
	if spec != nil {
		for _, n := range spec.Nodes(el) {
			if n.UID() == "" {
				n.El.SetAttr(spec.UIDAttr, p.newUID())
			}
		}
	}
	id := p.kind.Identify(el)

	v := validate.New(fn, validate.OptValidatorLogger(p.logger))
	if attrs := p.kind.ParentAttrs(); len(attrs) > 0 {
		v.Add(validate.ParentUIDs(el, attrs...))
	}
	v.Add(validate.Required(el, p.kind.Required()...))
	if spec != nil {
		v.Add(
			validate.ChildUIDs(el, spec, witsml.ErrMissingElementUidForAdd),
			validate.MaxDataNodes(el, spec.Element, p.config.MaxDataNodes.For(fn)),
		)
	}

	var rows []witsml.Row
	var layout channeldata.Layout
	if s := p.kind.Series(); s != nil {
		v.Add(validate.Func("SeriesData", func(context.Context) error {
			layout = s.Layout(el)
			if el.Child(s.DataElement()) == nil {
				return nil
			}
			if err := layout.Check(); err != nil {
				return err
			}
			var err error
			rows, err = s.Extract(el, layout)
			return err
		}))
		v.Add(validate.MaxDataPoints(p.config.MaxDataPoints.For(fn), func() int { return channeldata.Points(rows) }))
	}

	if parent := p.kind.ParentType(); parent != "" {
		pid, _ := p.kind.ParentID(id)
		pkey := witsml.Key{Family: p.kind.Family(), Type: parent, ID: pid}
		v.Add(validate.ParentExists(parent, pid, func(ctx context.Context) (bool, error) {
			return p.resolver.Exists(ctx, pkey)
		}))
	}
	if fn == witsml.FunctionAddToStore {
		v.Add(validate.NotExists(p.kind.Type(), id, func(ctx context.Context) (bool, error) {
			return exists(ctx, p.adapter, p.key(id))
		}))
	}
	if err := v.Err(ctx); err != nil {
		return nil, nil, err
	}

	now := p.now().UTC()
	p.kind.SetDefaults(el, now)
	increasing := p.kind.Increasing(el)
	if spec != nil {
		merge.Order(el, spec, increasing)
	}

	var chunks []witsml.Chunk
	if s := p.kind.Series(); s != nil {
		rows = channeldata.Merge(nil, rows, layout.Increasing)
		var first, last string
		if f, l := channeldata.Extent(rows); f != nil {
			first, last = f.Text, l.Text
		}
		s.Summarize(el, layout, first, last)
		chunks = channeldata.Partition(rows, p.chunkSize(layout.IsTime), layout.Increasing)
	}

	state := p.growing.Initial(p.kind.Type())
	p.kind.SetGrowing(el, state.IsGrowing)
	obj := &witsml.DataObject{
		Type:        p.kind.Type(),
		Version:     p.version(),
		ID:          id,
		Body:        el,
		Growing:     state,
		Created:     now,
		LastUpdated: now,
	}
	return obj, chunks, nil
}

// Put adds the object el, or replaces the stored object with the same
// identifier, data included.
func (p *Provider) Put(ctx context.Context, el *document.Element) (witsml.ObjectID, error) {
	p.logger.Debugf("Putting %s", p.kind.Type())
	if err := p.authorize(ctx, witsml.FunctionPutObject); err != nil {
		return witsml.ObjectID{}, err
	}
	obj, chunks, err := p.prepare(ctx, witsml.FunctionPutObject, el.Clone())
	if err != nil {
		return witsml.ObjectID{}, err
	}

	ok, err := exists(ctx, p.adapter, obj.Key())
	if err != nil {
		return witsml.ObjectID{}, err
	} else if !ok {
		return obj.ID, errors.Wrapf(p.adapter.Add(ctx, obj, chunks), "adding %s", p.kind.Type())
	}

	err = p.adapter.Update(ctx, obj.Key(), func(txn witsml.Txn) (*witsml.DataObject, error) {
		old := txn.Object()
		obj.Created = old.Created
		if created := old.Body.Find("commonData/dTimCreation"); created != nil {
			obj.Body.SetPath("commonData/dTimCreation", created.Text)
		}
		existing, err := txn.Chunks(nil)
		if err != nil {
			return nil, err
		}
		for _, c := range existing {
			if err := txn.DeleteChunk(c.Start); err != nil {
				return nil, err
			}
		}
		for _, c := range chunks {
			if err := txn.PutChunk(c); err != nil {
				return nil, err
			}
		}
		return obj, nil
	})
	return obj.ID, errors.Wrapf(err, "replacing %s", p.kind.Type())
}
