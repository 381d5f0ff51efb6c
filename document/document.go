// Package document implements the generic structured-document form that data
// objects, query templates and responses are handled in: a namespace-aware
// XML element tree with JSON tags for persistence.
package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/Sjoshi-TYCS/witsml/errors"
)

const (
	ErrInvalidDocument errors.Code = "InvalidDocument"
	ErrEmptyDocument   errors.Code = "EmptyDocument"
)

const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

// Attr is an attribute of an Element. Names are local except for the
// "xsi:" prefix, which is preserved.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Element is one node of a document. Space is only set on the root.
type Element struct {
	Name     string     `json:"name"`
	Space    string     `json:"space,omitempty"`
	Attrs    []Attr     `json:"attrs,omitempty"`
	Text     string     `json:"text,omitempty"`
	Children []*Element `json:"children,omitempty"`
}

// New returns an empty element called name.
func New(name string) *Element {
	return &Element{Name: name}
}

// NewText returns a leaf element called name holding text.
func NewText(name, text string) *Element {
	return &Element{Name: name, Text: text}
}

// Parse decodes an XML document into an element tree.
func Parse(data []byte) (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var root *Element
	var stack []*Element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.New(ErrInvalidDocument, fmt.Sprintf("parsing xml: %v", err))
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local}
			for _, a := range t.Attr {
				switch {
				case a.Name.Space == "xmlns", a.Name.Space == "" && a.Name.Local == "xmlns":
					continue
				case a.Name.Space == xsiNamespace:
					el.Attrs = append(el.Attrs, Attr{Name: "xsi:" + a.Name.Local, Value: a.Value})
				default:
					el.Attrs = append(el.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New(ErrInvalidDocument, "document has more than one root element")
				}
				el.Space = t.Name.Space
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			el := stack[len(stack)-1]
			el.Text = strings.TrimSpace(el.Text)
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New(ErrEmptyDocument, "document is empty")
	}
	return root, nil
}

// ParseString is Parse for string input.
func ParseString(s string) (*Element, error) {
	return Parse([]byte(s))
}

// Encode writes e as compact XML.
func (e *Element) Encode(w io.Writer) error {
	var b bytes.Buffer
	e.encode(&b, true)
	_, err := w.Write(b.Bytes())
	return err
}

// String returns e as compact XML.
func (e *Element) String() string {
	if e == nil {
		return ""
	}
	var b bytes.Buffer
	e.encode(&b, true)
	return b.String()
}

func (e *Element) encode(b *bytes.Buffer, root bool) {
	b.WriteByte('<')
	b.WriteString(e.Name)
	if root && e.Space != "" {
		b.WriteString(` xmlns="`)
		_ = xml.EscapeText(b, []byte(e.Space))
		b.WriteByte('"')
		if e.usesXSI() {
			b.WriteString(` xmlns:xsi="` + xsiNamespace + `"`)
		}
	}
	for _, a := range e.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		_ = xml.EscapeText(b, []byte(a.Value))
		b.WriteByte('"')
	}
	if e.Text == "" && len(e.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	_ = xml.EscapeText(b, []byte(e.Text))
	for _, c := range e.Children {
		c.encode(b, false)
	}
	b.WriteString("</")
	b.WriteString(e.Name)
	b.WriteByte('>')
}

func (e *Element) usesXSI() bool {
	found := false
	e.Walk(func(el *Element) bool {
		for _, a := range el.Attrs {
			if strings.HasPrefix(a.Name, "xsi:") {
				found = true
			}
		}
		return !found
	})
	return found
}

// Clone returns a deep copy of e.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := &Element{Name: e.Name, Space: e.Space, Text: e.Text}
	if len(e.Attrs) > 0 {
		out.Attrs = make([]Attr, len(e.Attrs))
		copy(out.Attrs, e.Attrs)
	}
	if len(e.Children) > 0 {
		out.Children = make([]*Element, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Walk calls fn for e and its descendants, depth first, until fn returns
// false.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether e has no attributes, text or children.
func (e *Element) IsEmpty() bool {
	return len(e.Attrs) == 0 && e.Text == "" && len(e.Children) == 0
}

// HasValues reports whether any attribute or text in e's subtree is
// non-empty.
func (e *Element) HasValues() bool {
	found := false
	e.Walk(func(el *Element) bool {
		if el.Text != "" {
			found = true
		}
		for _, a := range el.Attrs {
			if a.Value != "" {
				found = true
			}
		}
		return !found
	})
	return found
}

// CountNodes returns the number of elements in e's subtree, e included.
func (e *Element) CountNodes() int {
	n := 0
	e.Walk(func(*Element) bool {
		n++
		return true
	})
	return n
}

// Attr returns the value of attribute name, or "".
func (e *Element) Attr(name string) string {
	v, _ := e.LookupAttr(name)
	return v
}

// LookupAttr returns the value of attribute name and whether it is present.
func (e *Element) LookupAttr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets attribute name, adding it if needed.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes attribute name.
func (e *Element) RemoveAttr(name string) {
	out := e.Attrs[:0]
	for _, a := range e.Attrs {
		if a.Name != name {
			out = append(out, a)
		}
	}
	e.Attrs = out
}

// Child returns the first child called name, or nil.
func (e *Element) Child(name string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child called name, in document order.
func (e *Element) ChildrenNamed(name string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// ChildText returns the text of the first child called name.
func (e *Element) ChildText(name string) string {
	if c := e.Child(name); c != nil {
		return c.Text
	}
	return ""
}

// AddChild appends c and returns it.
func (e *Element) AddChild(c *Element) *Element {
	e.Children = append(e.Children, c)
	return c
}

// SetChild sets the text of the first child called name, appending one if
// there is none, and returns it.
func (e *Element) SetChild(name, text string) *Element {
	if c := e.Child(name); c != nil {
		c.Text = text
		return c
	}
	return e.AddChild(NewText(name, text))
}

// RemoveChildren removes every child called name and returns them.
func (e *Element) RemoveChildren(name string) []*Element {
	var removed []*Element
	kept := e.Children[:0]
	for _, c := range e.Children {
		if c.Name == name {
			removed = append(removed, c)
			continue
		}
		kept = append(kept, c)
	}
	e.Children = kept
	return removed
}

// ReplaceChildren replaces the children called name with cs. The new
// children take the position of the first removed one, or are appended.
func (e *Element) ReplaceChildren(name string, cs []*Element) {
	pos := -1
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			if pos < 0 {
				pos = len(out)
			}
			continue
		}
		out = append(out, c)
	}
	if pos < 0 {
		pos = len(out)
	}
	merged := make([]*Element, 0, len(out)+len(cs))
	merged = append(merged, out[:pos]...)
	merged = append(merged, cs...)
	merged = append(merged, out[pos:]...)
	e.Children = merged
}

// Find follows a slash separated path of child names, e.g.
// "commonData/dTimLastChange".
func (e *Element) Find(path string) *Element {
	cur := e
	for _, name := range strings.Split(path, "/") {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// FindText returns the text at path, or "".
func (e *Element) FindText(path string) string {
	if c := e.Find(path); c != nil {
		return c.Text
	}
	return ""
}

// SetPath sets the text at path, creating missing elements.
func (e *Element) SetPath(path, text string) *Element {
	cur := e
	names := strings.Split(path, "/")
	for _, name := range names[:len(names)-1] {
		next := cur.Child(name)
		if next == nil {
			next = cur.AddChild(New(name))
		}
		cur = next
	}
	return cur.SetChild(names[len(names)-1], text)
}
