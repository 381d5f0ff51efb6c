package validate

import (
	"context"
	"strings"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/document"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/merge"
	"github.com/Sjoshi-TYCS/witsml/query"
)

// SingleObject requires the payload to hold exactly one object.
func SingleObject(p *query.Parser) Rule {
	return Rule{
		Name: "SingleObject",
		Check: func(context.Context) error {
			switch p.Count() {
			case 0:
				return witsml.NewError(witsml.ErrMissingInputTemplate, "no %s in input template", p.Type)
			case 1:
				return nil
			}
			return witsml.NewError(witsml.ErrInputTemplateMultipleDataObjects, "input template has %d %s objects", p.Count(), p.Type)
		},
	}
}

// UID requires the object identifier attribute.
func UID(el *document.Element, attr string) Rule {
	return Rule{
		Name: "UID",
		Check: func(context.Context) error {
			if strings.TrimSpace(el.Attr(attr)) == "" {
				return witsml.NewError(witsml.ErrMissingDataObjectUid, "%s has no %s", el.Name, attr)
			}
			return nil
		},
	}
}

// ParentUIDs requires each named parent identifier attribute.
func ParentUIDs(el *document.Element, attrs ...string) Rule {
	return Rule{
		Name: "ParentUIDs",
		Check: func(context.Context) error {
			for _, attr := range attrs {
				if strings.TrimSpace(el.Attr(attr)) == "" {
					return witsml.NewError(witsml.ErrMissingParentUid, "%s has no %s", el.Name, attr)
				}
			}
			return nil
		},
	}
}

// Required requires every path to be present with a value. A path is a
// slash separated element path, optionally ending in "@attr".
func Required(el *document.Element, paths ...string) Rule {
	return Rule{
		Name: "Required",
		Check: func(context.Context) error {
			for _, path := range paths {
				if !hasValue(el, path) {
					return witsml.NewError(witsml.ErrMissingRequiredData, "%s requires %s", el.Name, path)
				}
			}
			return nil
		},
	}
}

func hasValue(el *document.Element, path string) bool {
	elemPath, attr := path, ""
	if i := strings.Index(path, "@"); i >= 0 {
		elemPath, attr = strings.TrimSuffix(path[:i], "/"), path[i+1:]
	}
	target := el
	if elemPath != "" {
		target = el.Find(elemPath)
	}
	if target == nil {
		return false
	}
	if attr != "" {
		return strings.TrimSpace(target.Attr(attr)) != ""
	}
	return strings.TrimSpace(target.Text) != "" || len(target.Children) > 0
}

// ChildUIDs checks the identifiers of a child collection in el. Missing uids
// fail with missing, duplicates with ErrChildUidNotUnique.
func ChildUIDs(el *document.Element, spec *merge.Spec, missing errors.Code) Rule {
	return Rule{
		Name: "ChildUIDs",
		Check: func(context.Context) error {
			return merge.CheckUIDs(spec.Nodes(el), spec.Element, missing)
		},
	}
}

// Exists fails with ErrDataObjectNotExist when the object is absent.
func Exists(typ witsml.ObjectType, id witsml.ObjectID, exists func(ctx context.Context) (bool, error)) Rule {
	return Rule{
		Name: "Exists",
		Check: func(ctx context.Context) error {
			ok, err := exists(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return witsml.NewErrDataObjectNotExist(typ, id)
			}
			return nil
		},
	}
}

// NotExists fails with ErrDataObjectUidAlreadyExists when the object is
// present.
func NotExists(typ witsml.ObjectType, id witsml.ObjectID, exists func(ctx context.Context) (bool, error)) Rule {
	return Rule{
		Name: "NotExists",
		Check: func(ctx context.Context) error {
			ok, err := exists(ctx)
			if err != nil {
				return err
			}
			if ok {
				return witsml.NewErrDataObjectUidAlreadyExists(typ, id)
			}
			return nil
		},
	}
}

// ParentExists fails with ErrMissingParentDataObject when the parent is
// absent.
func ParentExists(typ witsml.ObjectType, id witsml.ObjectID, exists func(ctx context.Context) (bool, error)) Rule {
	return Rule{
		Name: "ParentExists",
		Check: func(ctx context.Context) error {
			ok, err := exists(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return witsml.NewErrMissingParentDataObject(typ, id)
			}
			return nil
		},
	}
}

// NoChildren fails with ErrNotAllowedToDeleteParentWithChildren when count
// reports child objects.
func NoChildren(typ witsml.ObjectType, id witsml.ObjectID, count func(ctx context.Context) (int, error)) Rule {
	return Rule{
		Name: "NoChildren",
		Check: func(ctx context.Context) error {
			n, err := count(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				return witsml.NewError(witsml.ErrNotAllowedToDeleteParentWithChildren, "%s '%s' has %d child objects", typ, id, n)
			}
			return nil
		},
	}
}

// MaxDataNodes limits the number of child collection elements in el.
func MaxDataNodes(el *document.Element, element string, limit int) Rule {
	return Rule{
		Name: "MaxDataNodes",
		Check: func(context.Context) error {
			if n := len(el.ChildrenNamed(element)); limit > 0 && n > limit {
				return witsml.NewError(witsml.ErrExceededMaxDataNodes, "%d %s elements exceed the limit of %d", n, element, limit)
			}
			return nil
		},
	}
}

// MaxDataPoints limits the number of data points reported by count.
func MaxDataPoints(limit int, count func() int) Rule {
	return Rule{
		Name: "MaxDataPoints",
		Check: func(context.Context) error {
			if n := count(); limit > 0 && n > limit {
				return witsml.NewError(witsml.ErrExceededMaxDataPoints, "%d data points exceed the limit of %d", n, limit)
			}
			return nil
		},
	}
}

// ReturnElements restricts the returnElements option to allowed.
func ReturnElements(p *query.Parser, allowed ...witsml.ReturnElements) Rule {
	return Rule{
		Name: "ReturnElements",
		Check: func(context.Context) error {
			re := p.ReturnElements()
			for _, a := range allowed {
				if re == a {
					return nil
				}
			}
			return witsml.NewError(witsml.ErrInvalidReturnElementsForDataObjectType, "returnElements=%s is not valid for %s", re, p.Type)
		},
	}
}

// Func wraps an ad hoc check.
func Func(name string, check func(ctx context.Context) error) Rule {
	return Rule{Name: name, Check: check}
}
