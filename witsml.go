// Package witsml defines the domain types shared by the data-object store:
// object types, schema versions, identifiers, the persisted DataObject form,
// the closed error-code taxonomy and the backing-store adapter contract.
package witsml

import (
	"fmt"
	"strings"
	"time"

	"github.com/Sjoshi-TYCS/witsml/document"
)

// ObjectType is the data-object type tag, e.g. "well" or "trajectory". The
// canonical form is the 1.x element name; 2.0 names are derived with Name.
type ObjectType string

const (
	ObjectTypeWell       ObjectType = "well"
	ObjectTypeWellbore   ObjectType = "wellbore"
	ObjectTypeRig        ObjectType = "rig"
	ObjectTypeMessage    ObjectType = "message"
	ObjectTypeTrajectory ObjectType = "trajectory"
	ObjectTypeLog        ObjectType = "log"
	ObjectTypeChannelSet ObjectType = "channelSet"
)

// ParseObjectType maps a wmlTypeIn value or 2.0 element name to its type tag,
// ignoring case.
func ParseObjectType(s string) (ObjectType, bool) {
	for _, t := range []ObjectType{
		ObjectTypeWell,
		ObjectTypeWellbore,
		ObjectTypeRig,
		ObjectTypeMessage,
		ObjectTypeTrajectory,
		ObjectTypeLog,
		ObjectTypeChannelSet,
	} {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, true
		}
	}
	return "", false
}

// Name returns the element name of the type in the given family.
func (t ObjectType) Name(f Family) string {
	if f == Family20 && t != "" {
		return strings.ToUpper(string(t[:1])) + string(t[1:])
	}
	return string(t)
}

// Plural returns the 1.x plural root element name, e.g. "trajectorys".
func (t ObjectType) Plural() string {
	return string(t) + "s"
}

// DataVersion is a supported schema generation.
type DataVersion string

const (
	DataVersion131 DataVersion = "1.3.1.1"
	DataVersion141 DataVersion = "1.4.1.1"
	DataVersion200 DataVersion = "2.0"
)

// DataVersions lists the supported versions, oldest first.
var DataVersions = []DataVersion{DataVersion131, DataVersion141, DataVersion200}

// ParseDataVersion accepts the full version string or its ETP short form
// (witsml13, witsml14, witsml20).
func ParseDataVersion(s string) (DataVersion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1.3.1.1", "1.3.1", "witsml13":
		return DataVersion131, nil
	case "1.4.1.1", "1.4.1", "witsml14":
		return DataVersion141, nil
	case "2.0", "2.0.0", "witsml20":
		return DataVersion200, nil
	}
	return "", NewErrDataVersionNotSupported(s)
}

// Family returns the storage family of the version. 1.3.1.1 and 1.4.1.1
// objects share one family and are transformed on the way in and out.
func (v DataVersion) Family() Family {
	if v == DataVersion200 {
		return Family20
	}
	return Family1x
}

// Short returns the ETP form of the version, e.g. "witsml14".
func (v DataVersion) Short() string {
	switch v {
	case DataVersion131:
		return "witsml13"
	case DataVersion200:
		return "witsml20"
	}
	return "witsml14"
}

// Family groups versions that share persisted state.
type Family string

const (
	Family1x Family = "witsml1"
	Family20 Family = "witsml20"
)

// Canonical returns the version objects of the family are stored in.
func (f Family) Canonical() DataVersion {
	if f == Family20 {
		return DataVersion200
	}
	return DataVersion141
}

// Function is a store API operation.
type Function string

const (
	FunctionGetBaseMsg      Function = "GetBaseMsg"
	FunctionGetCap          Function = "GetCap"
	FunctionGetVersion      Function = "GetVersion"
	FunctionGetFromStore    Function = "GetFromStore"
	FunctionAddToStore      Function = "AddToStore"
	FunctionUpdateInStore   Function = "UpdateInStore"
	FunctionDeleteFromStore Function = "DeleteFromStore"
	FunctionGetObject       Function = "GetObject"
	FunctionPutObject       Function = "PutObject"
	FunctionDeleteObject    Function = "DeleteObject"
)

var functionDescriptions = map[Function]string{
	FunctionGetBaseMsg:      "Returns the message text for a result code",
	FunctionGetCap:          "Returns the capabilities of the server",
	FunctionGetVersion:      "Returns the data versions supported by the server",
	FunctionGetFromStore:    "Returns data objects matching a query template",
	FunctionAddToStore:      "Adds a data object to the store",
	FunctionUpdateInStore:   "Updates a data object in the store",
	FunctionDeleteFromStore: "Deletes a data object or parts of it from the store",
	FunctionGetObject:       "Returns a data object by URI",
	FunctionPutObject:       "Adds or replaces a data object by URI",
	FunctionDeleteObject:    "Deletes a data object by URI",
}

// Functions lists every function in API order.
var Functions = []Function{
	FunctionGetBaseMsg,
	FunctionGetCap,
	FunctionGetVersion,
	FunctionGetFromStore,
	FunctionAddToStore,
	FunctionUpdateInStore,
	FunctionDeleteFromStore,
	FunctionGetObject,
	FunctionPutObject,
	FunctionDeleteObject,
}

// ParseFunction matches s against the function names, ignoring case.
func ParseFunction(s string) (Function, bool) {
	for _, f := range Functions {
		if strings.EqualFold(string(f), s) {
			return f, true
		}
	}
	return "", false
}

func (f Function) Description() string { return functionDescriptions[f] }

// IsWrite reports whether the function mutates the store.
func (f Function) IsWrite() bool {
	switch f {
	case FunctionAddToStore, FunctionUpdateInStore, FunctionDeleteFromStore,
		FunctionPutObject, FunctionDeleteObject:
		return true
	}
	return false
}

// EndpointType is the class of endpoint a request arrived on.
type EndpointType string

const (
	EndpointSoap EndpointType = "Soap"
	EndpointEtp  EndpointType = "Etp"
)

// ObjectID identifies a data object. Parent identifiers are empty for types
// that have no parent; empty fields act as wildcards in a Filter.
type ObjectID struct {
	UidWell     string `json:"uidWell,omitempty"`
	UidWellbore string `json:"uidWellbore,omitempty"`
	Uid         string `json:"uid"`
}

func (id ObjectID) String() string {
	var parts []string
	for _, s := range []string{id.UidWell, id.UidWellbore, id.Uid} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// Parent returns the identifier of the parent object of a child of the given
// type.
func (id ObjectID) Parent(parent ObjectType) ObjectID {
	switch parent {
	case ObjectTypeWell:
		return ObjectID{Uid: id.UidWell}
	case ObjectTypeWellbore:
		return ObjectID{UidWell: id.UidWell, Uid: id.UidWellbore}
	}
	return ObjectID{}
}

// Key is the storage key of a data object.
type Key struct {
	Family Family     `json:"family"`
	Type   ObjectType `json:"type"`
	ID     ObjectID   `json:"id"`
}

// String returns the key as a slash separated path. 2.0 identifiers are
// globally unique so their parent references are not part of the key.
func (k Key) String() string {
	if k.Family == Family20 {
		return fmt.Sprintf("%s/%s/%s", k.Family, k.Type, k.ID.Uid)
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s", k.Family, k.Type, k.ID.UidWell, k.ID.UidWellbore, k.ID.Uid)
}

// GrowingState is the growing lifecycle of an object with an appendable
// child series.
type GrowingState struct {
	IsGrowing     bool          `json:"isGrowing"`
	LastAppend    time.Time     `json:"lastAppend,omitempty"`
	TimeoutPeriod time.Duration `json:"timeoutPeriod,omitempty"`
}

// DataObject is the persisted form of one data object. Body holds the single
// object element (no plural root) in the family's canonical version.
type DataObject struct {
	Type        ObjectType        `json:"type"`
	Version     DataVersion       `json:"version"`
	ID          ObjectID          `json:"id"`
	Body        *document.Element `json:"body"`
	Growing     GrowingState      `json:"growing"`
	Created     time.Time         `json:"created"`
	LastUpdated time.Time         `json:"lastUpdated"`
}

// Key returns the storage key of o.
func (o *DataObject) Key() Key {
	return Key{Family: o.Version.Family(), Type: o.Type, ID: o.ID}
}

// Clone returns a deep copy of o.
func (o *DataObject) Clone() *DataObject {
	if o == nil {
		return nil
	}
	out := *o
	out.Body = o.Body.Clone()
	return &out
}

// Row is one row of an index series, e.g. a log data row.
type Row struct {
	Index  float64           `json:"index"`
	Text   string            `json:"text"`
	Values map[string]string `json:"values"`
}

// Chunk is a stored slice of an index series covering [Start, End) in the
// series direction.
type Chunk struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
	Rows  []Row `json:"rows"`
}
