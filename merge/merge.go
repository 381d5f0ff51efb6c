// Package merge merges partial updates of identified child collections, such
// as trajectory stations or log curves, into the persisted collection.
package merge

import (
	"sort"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/document"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/ranges"
)

// Item is an element of a child collection.
type Item interface {
	// UID returns the element identifier, unique within its parent.
	UID() string
	// Index returns the ordering value, if the item has one.
	Index() (float64, bool)
}

// Merge applies update to existing. Items whose uid matches an existing item
// are combined with apply; the rest are added. The result is sorted by index
// in the given direction; items without an index keep their relative order
// after the indexed ones.
func Merge[T Item](existing, update []T, increasing bool, element string, apply func(old, upd T) T) ([]T, error) {
	if err := CheckUIDs(update, element, witsml.ErrMissingElementUidForUpdate); err != nil {
		return nil, err
	}

	out := make([]T, len(existing), len(existing)+len(update))
	copy(out, existing)
	pos := make(map[string]int, len(existing))
	for i, item := range out {
		pos[item.UID()] = i
	}

	for _, u := range update {
		if i, ok := pos[u.UID()]; ok {
			out[i] = apply(out[i], u)
			continue
		}
		pos[u.UID()] = len(out)
		out = append(out, u)
	}

	Sort(out, increasing)
	return out, nil
}

// CheckUIDs fails with missing when an item has no uid and with
// ErrChildUidNotUnique when two items share one.
func CheckUIDs[T Item](items []T, element string, missing errors.Code) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		uid := item.UID()
		if uid == "" {
			if missing == witsml.ErrMissingElementUidForUpdate {
				return witsml.NewErrMissingElementUidForUpdate(element)
			}
			return witsml.NewError(missing, "%s is missing its uid", element)
		}
		if _, ok := seen[uid]; ok {
			return witsml.NewErrChildUidNotUnique(element, uid)
		}
		seen[uid] = struct{}{}
	}
	return nil
}

// Sort orders items by index in the given direction. It is stable.
func Sort[T Item](items []T, increasing bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, aok := items[i].Index()
		b, bok := items[j].Index()
		if !aok || !bok {
			return aok && !bok
		}
		if increasing {
			return a < b
		}
		return a > b
	})
}

// Spec describes a child collection of a data object element.
type Spec struct {
	// Element is the name of the child elements, e.g. "trajectoryStation".
	Element string
	// UIDAttr is the identifier attribute, "uid" or "uuid".
	UIDAttr string
	// Index names the child element holding the ordering value. Collections
	// without one keep submission order.
	Index  string
	IsTime bool
	// Min and Max name the parent elements summarizing the index extremes.
	Min string
	Max string
}

// Node adapts a child element to Item.
type Node struct {
	El   *document.Element
	Spec *Spec
}

func (n Node) UID() string { return n.El.Attr(n.Spec.UIDAttr) }

func (n Node) Index() (float64, bool) {
	if n.Spec.Index == "" {
		return 0, false
	}
	text := n.El.FindText(n.Spec.Index)
	if n.Spec.IsTime {
		v, _, ok := ranges.ParseTime(text)
		return v, ok
	}
	return ranges.ParseDepth(text)
}

// Nodes returns the children of parent described by spec.
func (s *Spec) Nodes(parent *document.Element) []Node {
	els := parent.ChildrenNamed(s.Element)
	out := make([]Node, len(els))
	for i, el := range els {
		out[i] = Node{El: el, Spec: s}
	}
	return out
}

// Elements merges the spec children of update into parent in place and
// recomputes the parent's index summary.
func Elements(parent, update *document.Element, spec *Spec, increasing bool) error {
	updates := spec.Nodes(update)
	for i := range updates {
		updates[i].El = updates[i].El.Clone()
	}

	merged, err := Merge(spec.Nodes(parent), updates, increasing, spec.Element, func(old, upd Node) Node {
		el := old.El.Clone()
		document.Merge(el, upd.El, nil)
		return Node{El: el, Spec: spec}
	})
	if err != nil {
		return err
	}

	els := make([]*document.Element, len(merged))
	for i, n := range merged {
		els[i] = n.El
	}
	parent.ReplaceChildren(spec.Element, els)
	Summarize(parent, spec)
	return nil
}

// Order sorts the spec children of parent in place and recomputes the
// summary. Add uses it since submitted collections may be unordered.
func Order(parent *document.Element, spec *Spec, increasing bool) {
	nodes := spec.Nodes(parent)
	Sort(nodes, increasing)
	els := make([]*document.Element, len(nodes))
	for i, n := range nodes {
		els[i] = n.El
	}
	parent.ReplaceChildren(spec.Element, els)
	Summarize(parent, spec)
}

// Delete removes the spec children of parent identified in del. Every
// element in del must carry a uid.
func Delete(parent, del *document.Element, spec *Spec) error {
	targets := spec.Nodes(del)
	if err := CheckUIDs(targets, spec.Element, witsml.ErrMissingElementUidForDelete); err != nil {
		return err
	}
	drop := make(map[string]bool, len(targets))
	for _, t := range targets {
		drop[t.UID()] = true
	}

	var kept []*document.Element
	for _, n := range spec.Nodes(parent) {
		if !drop[n.UID()] {
			kept = append(kept, n.El)
		}
	}
	parent.ReplaceChildren(spec.Element, kept)
	Summarize(parent, spec)
	return nil
}

// Summarize sets the Min and Max elements of parent from the extremes of its
// indexed children, carrying the unit of the index element. They are
// removed when no child has an index.
func Summarize(parent *document.Element, spec *Spec) {
	if spec.Index == "" || (spec.Min == "" && spec.Max == "") {
		return
	}

	var lo, hi *Node
	var loV, hiV float64
	for _, n := range spec.Nodes(parent) {
		n := n
		v, ok := n.Index()
		if !ok {
			continue
		}
		if lo == nil || v < loV {
			lo, loV = &n, v
		}
		if hi == nil || v > hiV {
			hi, hiV = &n, v
		}
	}

	set := func(name string, n *Node) {
		if name == "" {
			return
		}
		if n == nil {
			parent.RemoveChildren(name)
			return
		}
		idx := n.El.Find(spec.Index)
		el := parent.SetChild(name, idx.Text)
		if uom := idx.Attr("uom"); uom != "" {
			el.SetAttr("uom", uom)
		}
		if datum := idx.Attr("datum"); datum != "" {
			el.SetAttr("datum", datum)
		}
	}
	set(spec.Min, lo)
	set(spec.Max, hi)
}
