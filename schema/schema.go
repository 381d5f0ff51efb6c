// Package schema maps request documents of each supported data version to
// and from the object elements the store works with. 1.x documents wrap
// objects in a plural root carrying a version attribute; 2.0 documents are a
// single object or a plural container of them.
package schema

import (
	"strings"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/document"
)

const (
	Namespace131 = "http://www.witsml.org/schemas/131"
	Namespace141 = "http://www.witsml.org/schemas/1series"
	Namespace200 = "http://www.energistics.org/energyml/data/witsmlv2"
)

// Namespace returns the default namespace of version.
func Namespace(version witsml.DataVersion) string {
	switch version {
	case witsml.DataVersion131:
		return Namespace131
	case witsml.DataVersion200:
		return Namespace200
	}
	return Namespace141
}

// Detect returns the data version a document is written in, from its
// version attribute or, failing that, its namespace.
func Detect(root *document.Element) (witsml.DataVersion, error) {
	if v := root.Attr("version"); v != "" {
		version, err := witsml.ParseDataVersion(v)
		if err == nil || root.Space != Namespace200 {
			return version, err
		}
	}
	switch root.Space {
	case Namespace131:
		return witsml.DataVersion131, nil
	case Namespace141:
		return witsml.DataVersion141, nil
	case Namespace200:
		return witsml.DataVersion200, nil
	}
	return "", witsml.NewError(witsml.ErrMissingDataSchemaVersion, "document has no data version")
}

// Decode returns the object elements of typ in a request document.
func Decode(root *document.Element, typ witsml.ObjectType, version witsml.DataVersion) ([]*document.Element, error) {
	if version.Family() == witsml.Family20 {
		name := typ.Name(witsml.Family20)
		if root.Name == name {
			return []*document.Element{root}, nil
		}
		if root.Name != name+"s" {
			return nil, witsml.NewError(witsml.ErrInputTemplateNonConforming, "expected %s, got %s", name, root.Name)
		}
		return objects(root, name)
	}

	if root.Name != typ.Plural() {
		return nil, witsml.NewError(witsml.ErrMissingPluralRootElement, "expected plural root %s, got %s", typ.Plural(), root.Name)
	}
	return objects(root, string(typ))
}

func objects(root *document.Element, name string) ([]*document.Element, error) {
	out := make([]*document.Element, 0, len(root.Children))
	for _, c := range root.Children {
		if c.Name != name {
			return nil, witsml.NewError(witsml.ErrInputTemplateNonConforming, "unexpected element %s in %s", c.Name, root.Name)
		}
		out = append(out, c)
	}
	return out, nil
}

// Encode wraps object elements of typ in a response document of version.
func Encode(typ witsml.ObjectType, version witsml.DataVersion, objs []*document.Element) *document.Element {
	var root *document.Element
	if version.Family() == witsml.Family20 {
		root = document.New(typ.Name(witsml.Family20) + "s")
	} else {
		root = document.New(typ.Plural())
		root.SetAttr("version", string(version))
	}
	root.Space = Namespace(version)
	for _, obj := range objs {
		root.AddChild(obj)
	}
	return root
}

// Parse parses a request document and returns its version and object
// elements. An explicit version overrides detection.
func Parse(xml string, typ witsml.ObjectType, version witsml.DataVersion) (witsml.DataVersion, []*document.Element, error) {
	if strings.TrimSpace(xml) == "" {
		return "", nil, witsml.NewError(witsml.ErrMissingInputTemplate, "no input template")
	}
	root, err := document.ParseString(xml)
	if err != nil {
		return "", nil, witsml.NewError(witsml.ErrInputTemplateNonConforming, "%v", err)
	}
	if version == "" {
		if version, err = Detect(root); err != nil {
			return "", nil, err
		}
	}
	objs, err := Decode(root, typ, version)
	if err != nil {
		return "", nil, err
	}
	return version, objs, nil
}
