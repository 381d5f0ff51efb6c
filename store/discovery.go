package store

import (
	"context"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/errors"
)

// Resource is one entry of a discovery listing.
type Resource struct {
	URI         string            `json:"uri"`
	Name        string            `json:"name"`
	ObjectType  witsml.ObjectType `json:"objectType"`
	HasChildren bool              `json:"hasChildren"`
}

// GetResources lists the immediate children of uri: the top-level objects
// of a version root, or the stored children of an object.
func (s *Store) GetResources(ctx context.Context, uri string) ([]Resource, error) {
	u, err := witsml.ParseURI(uri)
	if err != nil {
		return nil, err
	}
	ctx = operation(ctx, witsml.FunctionGetFromStore, nil)
	if err := s.gate.CheckEtpAccess(ctx); err != nil {
		return nil, err
	}
	family := u.Version.Family()

	var objs []*witsml.DataObject
	if u.IsRoot() {
		for _, k := range s.kinds {
			if k.Family() != family || k.ParentType() != "" {
				continue
			}
			found, err := s.adapter.Query(ctx, witsml.Filter{Family: family, Type: k.Type()})
			if err != nil {
				return nil, errors.Wrapf(err, "listing %s", k.Type())
			}
			objs = append(objs, found...)
		}
	} else {
		id := u.ObjectID()
		if family == witsml.Family20 {
			id = witsml.ObjectID{Uid: id.Uid}
		}
		keys, err := s.Children(ctx, witsml.Key{Family: family, Type: u.ObjectType(), ID: id})
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			obj, err := s.adapter.Get(ctx, key)
			if err != nil {
				return nil, err
			}
			objs = append(objs, obj)
		}
	}

	out := make([]Resource, 0, len(objs))
	for _, obj := range objs {
		children, err := s.Children(ctx, obj.Key())
		if err != nil {
			return nil, err
		}
		out = append(out, Resource{
			URI:         witsml.NewURI(u.Version, obj.Type, obj.ID).String(),
			Name:        resourceName(obj),
			ObjectType:  obj.Type,
			HasChildren: len(children) > 0,
		})
	}
	return out, nil
}

func resourceName(obj *witsml.DataObject) string {
	if obj.Version.Family() == witsml.Family20 {
		return obj.Body.FindText("Citation/Title")
	}
	return obj.Body.ChildText("name")
}
