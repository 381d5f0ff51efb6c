// Package query turns a request payload into per-object query templates and
// the retrieval options that apply to them.
package query

import (
	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/document"
	"github.com/Sjoshi-TYCS/witsml/ranges"
)

// Parser holds one object template of a request together with the request's
// options. A Parser built from a whole payload covers every object in it;
// ForkElements splits it into one Parser per object.
type Parser struct {
	Type    witsml.ObjectType
	Version witsml.DataVersion
	Options witsml.OptionsIn

	elements []*document.Element
}

// NewParser returns a parser over the object elements of a payload.
func NewParser(typ witsml.ObjectType, version witsml.DataVersion, opts witsml.OptionsIn, elements ...*document.Element) *Parser {
	if opts == nil {
		opts = witsml.OptionsIn{}
	}
	return &Parser{
		Type:     typ,
		Version:  version,
		Options:  opts,
		elements: elements,
	}
}

// ForkElements returns one parser per object template so siblings can be
// validated and executed independently.
func (p *Parser) ForkElements() []*Parser {
	out := make([]*Parser, len(p.elements))
	for i, el := range p.elements {
		out[i] = NewParser(p.Type, p.Version, p.Options, el)
	}
	return out
}

// Count returns the number of object templates.
func (p *Parser) Count() int { return len(p.elements) }

// Element returns the first object template verbatim, or nil. Update
// templates are taken from here so child collections reach the merge
// untouched.
func (p *Parser) Element() *document.Element {
	if len(p.elements) == 0 {
		return nil
	}
	return p.elements[0]
}

// Elements returns every object template.
func (p *Parser) Elements() []*document.Element { return p.elements }

// ReturnElements returns the requested return mode.
func (p *Parser) ReturnElements() witsml.ReturnElements {
	return p.Options.ReturnElements()
}

// MaxReturnNodes returns the maxReturnNodes option, or 0.
func (p *Parser) MaxReturnNodes() int {
	return p.Options.MaxReturnNodes()
}

// Contains reports whether the template explicitly names element.
func (p *Parser) Contains(element string) bool {
	return p.Element().Child(element) != nil
}

// HasElements reports whether the template names any element besides
// element itself; an id-only style template has none.
func (p *Parser) HasElements() bool {
	el := p.Element()
	return el != nil && len(el.Children) > 0
}

// IncludeChildCollection reports whether the child collection called element
// should be materialized. Header and id queries never include it.
func (p *Parser) IncludeChildCollection(element string) bool {
	switch p.ReturnElements() {
	case witsml.ReturnElementsAll, witsml.ReturnElementsDataOnly, witsml.ReturnElementsStationLocationOnly:
		return true
	case witsml.ReturnElementsRequested:
		return p.Contains(element)
	}
	return false
}

// IncludeHeader reports whether header elements are returned.
func (p *Parser) IncludeHeader() bool {
	switch p.ReturnElements() {
	case witsml.ReturnElementsDataOnly, witsml.ReturnElementsIDOnly:
		return false
	}
	return true
}

// Range returns the index range named by the start and end elements of the
// template. Missing or malformed bounds are open.
func (p *Parser) Range(start, end string, isTime bool) ranges.Range {
	el := p.Element()
	return ranges.Parse(el.ChildText(start), el.ChildText(end), isTime)
}

// HeaderTemplate returns a copy of the template without the named child
// collections and range elements, for matching against stored headers.
func (p *Parser) HeaderTemplate(exclude ...string) *document.Element {
	tmpl := p.Element().Clone()
	for _, name := range exclude {
		tmpl.RemoveChildren(name)
	}
	return tmpl
}

// Projection returns the template used to select the returned elements of a
// header, or nil when the whole header is returned.
func (p *Parser) Projection(exclude ...string) *document.Element {
	if p.ReturnElements() != witsml.ReturnElementsRequested {
		return nil
	}
	return p.HeaderTemplate(exclude...)
}
