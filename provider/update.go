package provider

import (
	"context"
	"strings"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/channeldata"
	"github.com/Sjoshi-TYCS/witsml/document"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/growing"
	"github.com/Sjoshi-TYCS/witsml/merge"
	"github.com/Sjoshi-TYCS/witsml/query"
	"github.com/Sjoshi-TYCS/witsml/validate"
)

// Update merges the single partial object of q into the stored object. The
// merge runs against a consistent snapshot; any failure leaves the stored
// object unchanged.
func (p *Provider) Update(ctx context.Context, q *query.Parser) error {
	p.logger.Debugf("Updating %s", p.kind.Type())
	if err := p.authorize(ctx, witsml.FunctionUpdateInStore); err != nil {
		return err
	}

	v := validate.New(witsml.FunctionUpdateInStore, validate.OptValidatorLogger(p.logger))
	v.Add(validate.SingleObject(q))
	if err := v.Err(ctx); err != nil {
		return err
	}

	upd := q.Element().Clone()
	id := p.kind.Identify(upd)
	spec := p.kind.Collection()
	s := p.kind.Series()

	v = validate.New(witsml.FunctionUpdateInStore, validate.OptValidatorLogger(p.logger))
	v.Add(p.uidRule(id))
	if attrs := p.kind.ParentAttrs(); len(attrs) > 0 {
		v.Add(validate.ParentUIDs(upd, attrs...))
	}
	if spec != nil {
		v.Add(
			validate.ChildUIDs(upd, spec, witsml.ErrMissingElementUidForUpdate),
			validate.MaxDataNodes(upd, spec.Element, p.config.MaxDataNodes.For(witsml.FunctionUpdateInStore)),
		)
	}

	var stored *witsml.DataObject
	v.Add(validate.Exists(p.kind.Type(), id, func(ctx context.Context) (bool, error) {
		obj, err := p.adapter.Get(ctx, p.key(id))
		if errors.Is(err, witsml.ErrDataObjectNotExist) {
			return false, nil
		} else if err != nil {
			return false, err
		}
		stored = obj
		return true, nil
	}))

	var rows []witsml.Row
	if s != nil {
		v.Add(validate.Func("SeriesData", func(context.Context) error {
			if upd.Child(s.DataElement()) == nil {
				return nil
			}
			// Curves added by this update are part of the layout.
			header := stored.Body.Clone()
			if spec != nil && len(upd.ChildrenNamed(spec.Element)) > 0 {
				if err := merge.Elements(header, upd, spec, true); err != nil {
					return err
				}
			}
			layout := s.Layout(header)
			if err := layout.Check(); err != nil {
				return err
			}
			var err error
			rows, err = s.Extract(upd, layout)
			return err
		}))
		v.Add(validate.MaxDataPoints(p.config.MaxDataPoints.For(witsml.FunctionUpdateInStore), func() int { return channeldata.Points(rows) }))
	}
	v.Add(p.growingRule(upd, &stored))

	if err := v.Err(ctx); err != nil {
		return err
	}

	err := p.adapter.Update(ctx, p.key(id), func(txn witsml.Txn) (*witsml.DataObject, error) {
		return p.apply(txn, upd, rows)
	})
	if err != nil {
		return errors.Wrapf(err, "updating %s", p.kind.Type())
	}
	p.logger.Debugf("Updated %s %s", p.kind.Type(), id)
	return nil
}

// uidRule requires the object identifier.
func (p *Provider) uidRule(id witsml.ObjectID) validate.Rule {
	return validate.Func("UID", func(context.Context) error {
		if strings.TrimSpace(id.Uid) == "" {
			return witsml.NewError(witsml.ErrMissingDataObjectUid, "%s has no identifier", p.kind.Type())
		}
		return nil
	})
}

// growingRule rejects a header-only update that clears the growing flag of
// an object still growing.
func (p *Provider) growingRule(upd *document.Element, stored **witsml.DataObject) validate.Rule {
	return validate.Func("ObjectGrowing", func(context.Context) error {
		name := p.kind.GrowingElement()
		if name == "" || *stored == nil {
			return nil
		}
		g := upd.Child(name)
		if g == nil || !isFalse(g.Text) {
			return nil
		}
		for _, data := range p.dataElements() {
			if upd.Child(data) != nil {
				return nil
			}
		}
		state, _ := p.growing.Refresh(p.kind.Type(), (*stored).Growing)
		if state.IsGrowing {
			return witsml.NewError(witsml.ErrUpdateObjectGrowingNotAllowed, "%s %s is growing", p.kind.Type(), (*stored).ID)
		}
		return nil
	})
}

func isFalse(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false", "0", "inactive", "closed":
		return true
	}
	return false
}

// apply merges upd and rows into the object of txn.
func (p *Provider) apply(txn witsml.Txn, upd *document.Element, rows []witsml.Row) (*witsml.DataObject, error) {
	obj := txn.Object()
	body := obj.Body
	state, _ := p.growing.Refresh(p.kind.Type(), obj.Growing)

	spec := p.kind.Collection()
	s := p.kind.Series()

	skip := map[string]bool{}
	for _, name := range p.dataElements() {
		skip[name] = true
	}
	if spec != nil {
		skip[spec.Element] = true
	}
	if g := p.kind.GrowingElement(); g != "" {
		skip[g] = true
	}
	document.Merge(body, upd, skip)

	increasing := p.kind.Increasing(body)
	appended := false
	if spec != nil && len(upd.ChildrenNamed(spec.Element)) > 0 {
		prev := extreme(spec.Nodes(body), increasing)
		if err := merge.Elements(body, upd, spec, increasing); err != nil {
			return nil, err
		}
		if p.kind.CollectionIsData() {
			if last := extreme(spec.Nodes(body), increasing); last != nil {
				appended = growing.IsAppend(prev, *last, increasing)
			}
		}
	}

	if s != nil && len(rows) > 0 {
		layout := s.Layout(body)
		prevFirst, prevLast := s.Extent(body, layout)
		if err := p.writeRows(txn, layout, rows); err != nil {
			return nil, err
		}
		first, last := extend(layout, prevFirst, prevLast, rows)
		s.Summarize(body, layout, first, last)
		if v, ok := layout.ParseIndex(prevLast); ok {
			appended = appended || growing.IsAppend(&v, rows[len(rows)-1].Index, layout.Increasing)
		}
	}

	now := p.now().UTC()
	p.kind.Touch(body, now)
	obj.Growing = p.growing.Update(p.kind.Type(), state, appended)
	p.kind.SetGrowing(body, obj.Growing.IsGrowing)
	obj.LastUpdated = now
	return obj, nil
}

// writeRows merges sorted rows into the chunks they fall in.
func (p *Provider) writeRows(txn witsml.Txn, layout channeldata.Layout, rows []witsml.Row) error {
	parts := channeldata.Partition(rows, p.chunkSize(layout.IsTime), layout.Increasing)
	touched := make(map[int64]bool, len(parts))
	for _, c := range parts {
		touched[c.Start] = true
	}
	existing, err := txn.Chunks(func(start, _ int64) bool { return touched[start] })
	if err != nil {
		return err
	}
	old := make(map[int64][]witsml.Row, len(existing))
	for _, c := range existing {
		old[c.Start] = c.Rows
	}
	for _, c := range parts {
		c.Rows = channeldata.Merge(old[c.Start], c.Rows, layout.Increasing)
		if err := txn.PutChunk(c); err != nil {
			return err
		}
	}
	return nil
}

// extreme returns the last index of nodes in the series direction, or nil.
func extreme(nodes []merge.Node, increasing bool) *float64 {
	var out *float64
	for _, n := range nodes {
		v, ok := n.Index()
		if !ok {
			continue
		}
		if out == nil || (increasing && v > *out) || (!increasing && v < *out) {
			v := v
			out = &v
		}
	}
	return out
}

// extend widens the recorded extent first..last to cover sorted rows.
func extend(layout channeldata.Layout, first, last string, rows []witsml.Row) (string, string) {
	before := func(a, b float64) bool {
		if layout.Increasing {
			return a < b
		}
		return a > b
	}
	lo, hi := rows[0], rows[len(rows)-1]
	if v, ok := layout.ParseIndex(first); !ok || before(lo.Index, v) {
		first = lo.Text
	}
	if v, ok := layout.ParseIndex(last); !ok || before(v, hi.Index) {
		last = hi.Text
	}
	return first, last
}
