package provider

import (
	"context"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/channeldata"
	"github.com/Sjoshi-TYCS/witsml/document"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/merge"
	"github.com/Sjoshi-TYCS/witsml/query"
	"github.com/Sjoshi-TYCS/witsml/ranges"
	"github.com/Sjoshi-TYCS/witsml/validate"
)

// Delete removes the object identified by the single template of q. A
// template naming only identifiers deletes the whole object, refusing when
// it has child objects unless cascadedDelete is set. Otherwise the named
// parts are removed: identified collection elements, empty header elements
// and series rows in a requested range.
func (p *Provider) Delete(ctx context.Context, q *query.Parser) error {
	p.logger.Debugf("Deleting %s", p.kind.Type())
	if err := p.authorize(ctx, witsml.FunctionDeleteFromStore); err != nil {
		return err
	}
	if err := validate.New(witsml.FunctionDeleteFromStore).Add(validate.SingleObject(q)).Err(ctx); err != nil {
		return err
	}

	tmpl := q.Element()
	id := p.kind.Identify(tmpl)
	v := validate.New(witsml.FunctionDeleteFromStore, validate.OptValidatorLogger(p.logger))
	v.Add(p.uidRule(id))
	if attrs := p.kind.ParentAttrs(); len(attrs) > 0 {
		v.Add(validate.ParentUIDs(tmpl, attrs...))
	}
	v.Add(validate.Exists(p.kind.Type(), id, func(ctx context.Context) (bool, error) {
		return exists(ctx, p.adapter, p.key(id))
	}))

	if p.isWholeDelete(tmpl) {
		if !q.Options.CascadedDelete() {
			v.Add(validate.NoChildren(p.kind.Type(), id, func(ctx context.Context) (int, error) {
				keys, err := p.resolver.Children(ctx, p.key(id))
				return len(keys), err
			}))
		}
		if err := v.Err(ctx); err != nil {
			return err
		}
		return p.deleteTree(ctx, p.key(id))
	}

	if spec := p.kind.Collection(); spec != nil {
		v.Add(validate.Func("ChildUIDs", func(context.Context) error {
			return merge.CheckUIDs(spec.Nodes(tmpl), spec.Element, witsml.ErrMissingElementUidForDelete)
		}))
	}
	if err := v.Err(ctx); err != nil {
		return err
	}

	err := p.adapter.Update(ctx, p.key(id), func(txn witsml.Txn) (*witsml.DataObject, error) {
		return p.deleteParts(txn, tmpl)
	})
	if err != nil {
		return errors.Wrapf(err, "deleting from %s", p.kind.Type())
	}
	return nil
}

// DeleteObject removes the whole object stored under id. Child objects are
// removed with it when cascade is set.
func (p *Provider) DeleteObject(ctx context.Context, id witsml.ObjectID, cascade bool) error {
	if err := p.authorize(ctx, witsml.FunctionDeleteObject); err != nil {
		return err
	}
	v := validate.New(witsml.FunctionDeleteObject, validate.OptValidatorLogger(p.logger))
	v.Add(validate.Exists(p.kind.Type(), id, func(ctx context.Context) (bool, error) {
		return exists(ctx, p.adapter, p.key(id))
	}))
	if !cascade {
		v.Add(validate.NoChildren(p.kind.Type(), id, func(ctx context.Context) (int, error) {
			keys, err := p.resolver.Children(ctx, p.key(id))
			return len(keys), err
		}))
	}
	if err := v.Err(ctx); err != nil {
		return err
	}
	return p.deleteTree(ctx, p.key(id))
}

// isWholeDelete reports whether tmpl names nothing but the object's
// identity.
func (p *Provider) isWholeDelete(tmpl *document.Element) bool {
	for _, c := range tmpl.Children {
		if c.Name != p.kind.ParentRef() {
			return false
		}
	}
	return true
}

// deleteTree removes key and its descendants. When the adapter supports
// batch deletes the whole tree goes in one transaction; otherwise objects are
// removed one at a time, deepest first, and a failure leaves the objects
// already removed deleted.
func (p *Provider) deleteTree(ctx context.Context, key witsml.Key) error {
	keys, err := p.collectTree(ctx, key)
	if err != nil {
		return err
	}
	p.logger.Debugf("Deleting %s and %d descendants", key, len(keys)-1)
	if b, ok := p.adapter.(witsml.BatchDeleter); ok {
		return errors.Wrapf(b.DeleteAll(ctx, keys), "deleting %s", key)
	}
	for _, k := range keys {
		if err := p.adapter.Delete(ctx, k); err != nil {
			return errors.Wrapf(err, "deleting %s", k)
		}
	}
	return nil
}

// collectTree returns key and its descendants, deepest first.
func (p *Provider) collectTree(ctx context.Context, key witsml.Key) ([]witsml.Key, error) {
	children, err := p.resolver.Children(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "listing children of %s", key)
	}
	var keys []witsml.Key
	for _, child := range children {
		sub, err := p.collectTree(ctx, child)
		if err != nil {
			return nil, err
		}
		keys = append(keys, sub...)
	}
	return append(keys, key), nil
}

// deleteParts removes what tmpl names from the object of txn.
func (p *Provider) deleteParts(txn witsml.Txn, tmpl *document.Element) (*witsml.DataObject, error) {
	obj := txn.Object()
	body := obj.Body
	spec := p.kind.Collection()
	s := p.kind.Series()

	var layout channeldata.Layout
	if s != nil {
		layout = s.Layout(body)
	}

	skip := map[string]bool{p.kind.ParentRef(): true}
	var dropped []string
	if spec != nil && len(tmpl.ChildrenNamed(spec.Element)) > 0 {
		skip[spec.Element] = true
		if s != nil && !p.kind.CollectionIsData() {
			drop := map[string]bool{}
			for _, n := range spec.Nodes(tmpl) {
				drop[n.UID()] = true
			}
			for _, n := range spec.Nodes(body) {
				if m := s.Mnemonic(n.El); drop[n.UID()] && m != layout.IndexMnemonic() {
					dropped = append(dropped, m)
				}
			}
		}
		if err := merge.Delete(body, tmpl, spec); err != nil {
			return nil, err
		}
	}

	if s != nil {
		start, end := s.RangeElements(layout)
		skip[start], skip[end] = true, true
		skip[s.DataElement()] = true
		r := rangeOf(s, tmpl, layout)
		if len(dropped) > 0 || !r.IsOpen() {
			if err := p.deleteRows(txn, body, s, layout, r, dropped); err != nil {
				return nil, err
			}
		}
	}

	removeEmpty(body, tmpl, skip)
	if err := validate.Required(body, p.kind.Required()...).Check(context.Background()); err != nil {
		return nil, err
	}

	now := p.now().UTC()
	p.kind.Touch(body, now)
	obj.LastUpdated = now
	return obj, nil
}

// deleteRows removes the rows in r and the dropped columns from every
// affected chunk, then records the remaining extent.
func (p *Provider) deleteRows(txn witsml.Txn, body *document.Element, s Series, layout channeldata.Layout, r ranges.Range, dropped []string) error {
	var keep witsml.ChunkFilter
	if len(dropped) == 0 {
		keep = channeldata.Keep(r, layout.Increasing)
	}
	chunks, err := txn.Chunks(keep)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		rows := channeldata.DeleteRange(c.Rows, r, layout.Increasing)
		if len(dropped) > 0 {
			rows = channeldata.DropColumns(rows, dropped...)
		}
		if len(rows) == 0 {
			if err := txn.DeleteChunk(c.Start); err != nil {
				return err
			}
			continue
		}
		c.Rows = rows
		if err := txn.PutChunk(c); err != nil {
			return err
		}
	}

	all, err := txn.Chunks(nil)
	if err != nil {
		return err
	}
	var first, last string
	if f, l := channeldata.Extent(channeldata.Collect(all, layout.Increasing)); f != nil {
		first, last = f.Text, l.Text
	}
	s.Summarize(body, layout, first, last)
	return nil
}

// removeEmpty deletes from dst the elements tmpl names with no value. An
// element of tmpl with children recurses into the matching element of dst.
func removeEmpty(dst, tmpl *document.Element, skip map[string]bool) {
	for _, tc := range tmpl.Children {
		if skip[tc.Name] {
			continue
		}
		if len(tc.Children) == 0 {
			if tc.Text == "" {
				dst.RemoveChildren(tc.Name)
			}
			continue
		}
		if dc := dst.Child(tc.Name); dc != nil {
			removeEmpty(dc, tc, nil)
		}
	}
}
