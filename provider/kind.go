package provider

import (
	"time"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/channeldata"
	"github.com/Sjoshi-TYCS/witsml/document"
	"github.com/Sjoshi-TYCS/witsml/merge"
	"github.com/Sjoshi-TYCS/witsml/ranges"
)

// Kind is the capability set of one object type in one schema family. The
// provider's control flow is the same for every type; a Kind supplies only
// identifiers, defaults and the shape of the type's child data.
type Kind interface {
	Type() witsml.ObjectType
	Family() witsml.Family

	// ParentType is the type of the parent object, or "" for top-level types.
	ParentType() witsml.ObjectType
	// ParentID returns the identifier of the parent of the object id, and
	// whether it is complete.
	ParentID(id witsml.ObjectID) (witsml.ObjectID, bool)
	// ParentAttrs lists the parent identifier attributes an object element
	// must carry.
	ParentAttrs() []string
	// ParentRef names the element referencing the parent object, for
	// families that reference parents by element.
	ParentRef() string

	// Identify returns the identifier declared by an object element.
	Identify(el *document.Element) witsml.ObjectID
	// AssignUID sets the object identifier of el.
	AssignUID(el *document.Element, uid string)
	// IDElements lists the elements returned with the identifiers for
	// returnElements=id-only.
	IDElements() []string

	// Required lists the element paths an added object must carry.
	Required() []string
	// SetDefaults populates the server-managed values of an added object.
	SetDefaults(el *document.Element, now time.Time)
	// Touch records a change to an updated object.
	Touch(el *document.Element, now time.Time)

	// Collection describes the identified child collection, or nil.
	Collection() *merge.Spec
	// CollectionIsData reports whether the collection is series data, such
	// as trajectory stations, rather than header metadata, such as log
	// curve definitions.
	CollectionIsData() bool
	// Increasing reports the index direction of the object's child data.
	Increasing(el *document.Element) bool
	// Series returns the codec of the object's index series, or nil.
	Series() Series

	// GrowingElement names the element reporting the growing state, or "".
	GrowingElement() string
	// SetGrowing writes the growing state into el.
	SetGrowing(el *document.Element, growing bool)

	// ReturnElements lists the returnElements values valid for the type.
	ReturnElements() []witsml.ReturnElements
}

// Series reads and writes the index series data of an object.
type Series interface {
	// DataElement names the data block of an object element.
	DataElement() string
	// RangeElements names the header elements selecting an index range.
	RangeElements(layout channeldata.Layout) (start, end string)

	// Layout returns the columns declared by a header.
	Layout(header *document.Element) channeldata.Layout
	// Mnemonic returns the mnemonic of a collection element.
	Mnemonic(curve *document.Element) string

	// Extract removes the data blocks of el and returns their rows, sorted.
	Extract(el *document.Element, layout channeldata.Layout) ([]witsml.Row, error)
	// Attach writes rows over layout as the data block of el.
	Attach(el *document.Element, layout channeldata.Layout, rows []witsml.Row)

	// Extent returns the first and last index recorded on a header.
	Extent(header *document.Element, layout channeldata.Layout) (first, last string)
	// Summarize records the first and last index on a header. Empty values
	// remove the summary.
	Summarize(header *document.Element, layout channeldata.Layout, first, last string)
}

// rangeOf returns the range a template requests from a series.
func rangeOf(s Series, tmpl *document.Element, layout channeldata.Layout) ranges.Range {
	start, end := s.RangeElements(layout)
	return ranges.Parse(tmpl.ChildText(start), tmpl.ChildText(end), layout.IsTime)
}
