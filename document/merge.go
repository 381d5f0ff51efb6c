package document

// identifierAttrs are always carried into projections so returned elements
// stay addressable.
var identifierAttrs = map[string]bool{
	"uid":         true,
	"uidWell":     true,
	"uidWellbore": true,
	"uuid":        true,
}

// Merge applies the partial element src onto dst in place. Attributes and
// leaf text in src overwrite dst. An empty element in src clears the
// matching elements of dst. Recurring elements carrying a uid are matched by
// uid and appended when new. Children named in skip are left alone; they are
// merged elsewhere.
func Merge(dst, src *Element, skip map[string]bool) {
	for _, a := range src.Attrs {
		dst.SetAttr(a.Name, a.Value)
	}
	if src.Text != "" {
		dst.Text = src.Text
	}

	for _, c := range src.Children {
		if skip[c.Name] {
			continue
		}
		if c.IsEmpty() {
			dst.RemoveChildren(c.Name)
			continue
		}

		existing := dst.matchChild(c)
		switch {
		case existing == nil:
			dst.AddChild(c.Clone())
		case len(c.Children) > 0:
			Merge(existing, c, nil)
		default:
			existing.Text = c.Text
			for _, a := range c.Attrs {
				existing.SetAttr(a.Name, a.Value)
			}
		}
	}
}

// matchChild finds the child of e that c updates: the child with the same
// name and uid, or the first child with the same name when c has no uid.
func (e *Element) matchChild(c *Element) *Element {
	uid, hasUID := c.LookupAttr("uid")
	for _, ec := range e.Children {
		if ec.Name != c.Name {
			continue
		}
		if !hasUID || uid == "" || ec.Attr("uid") == uid {
			return ec
		}
	}
	return nil
}

// Project returns a copy of src restricted to what tmpl names. A leaf in tmpl
// selects the whole matching subtree of src. Template elements with a uid
// only select the src element with that uid.
func Project(src, tmpl *Element) *Element {
	out := &Element{Name: src.Name, Space: src.Space}
	for _, a := range src.Attrs {
		if _, ok := tmpl.LookupAttr(a.Name); ok || identifierAttrs[a.Name] {
			out.Attrs = append(out.Attrs, a)
		}
	}
	if len(tmpl.Children) == 0 {
		out.Text = src.Text
	}

	for _, sc := range src.Children {
		tc := tmpl.selecting(sc)
		if tc == nil {
			continue
		}
		if len(tc.Children) == 0 {
			out.Children = append(out.Children, sc.Clone())
			continue
		}
		out.Children = append(out.Children, Project(sc, tc))
	}
	return out
}

// selecting returns the child of tmpl that selects sc.
func (e *Element) selecting(sc *Element) *Element {
	for _, tc := range e.Children {
		if tc.Name != sc.Name {
			continue
		}
		if uid := tc.Attr("uid"); uid != "" && uid != sc.Attr("uid") {
			continue
		}
		return tc
	}
	return nil
}

// Matches reports whether src satisfies the query-by-example template tmpl:
// every non-empty attribute and text value in tmpl must be present in src.
// Empty values are wildcards.
func Matches(src, tmpl *Element) bool {
	for _, a := range tmpl.Attrs {
		if a.Value != "" && src.Attr(a.Name) != a.Value {
			return false
		}
	}
	if tmpl.Text != "" && src.Text != tmpl.Text {
		return false
	}

	for _, tc := range tmpl.Children {
		if !tc.HasValues() {
			continue
		}
		found := false
		for _, sc := range src.ChildrenNamed(tc.Name) {
			if Matches(sc, tc) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
