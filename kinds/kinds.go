// Package kinds holds the capability sets of the supported object types:
// Well, Wellbore, Rig, Message, Trajectory and Log in the 1.x family and
// Well, Wellbore, Trajectory and ChannelSet in 2.0.
package kinds

import (
	"strings"
	"time"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/document"
	"github.com/Sjoshi-TYCS/witsml/merge"
	"github.com/Sjoshi-TYCS/witsml/provider"
)

// returnElements are valid for every type.
var returnElements = []witsml.ReturnElements{
	witsml.ReturnElementsAll,
	witsml.ReturnElementsIDOnly,
	witsml.ReturnElementsHeaderOnly,
	witsml.ReturnElementsRequested,
}

// base holds what every kind declares as data.
type base struct {
	typ        witsml.ObjectType
	family     witsml.Family
	parent     witsml.ObjectType
	required   []string
	idElements []string
	collection *merge.Spec
	isData     bool
	growing    string
	series     provider.Series
	extra      []witsml.ReturnElements
}

func (b *base) Type() witsml.ObjectType { return b.typ }
func (b *base) Family() witsml.Family { return b.family }
func (b *base) ParentType() witsml.ObjectType { return b.parent }
func (b *base) IDElements() []string { return b.idElements }
func (b *base) Required() []string { return b.required }
func (b *base) Collection() *merge.Spec { return b.collection }
func (b *base) CollectionIsData() bool { return b.isData }
func (b *base) Series() provider.Series { return b.series }
func (b *base) GrowingElement() string { return b.growing }
func (b *base) Increasing(*document.Element) bool { return true }

func (b *base) ReturnElements() []witsml.ReturnElements {
	out := append([]witsml.ReturnElements{}, returnElements...)
	if b.collection != nil && b.isData || b.series != nil {
		out = append(out, witsml.ReturnElementsDataOnly)
	}
	return append(out, b.extra...)
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// v1 implements the identifier and default handling shared by 1.x kinds.
type v1 struct {
	base
}

func newV1(typ, parent witsml.ObjectType) v1 {
	b := base{
		typ:      typ,
		family:   witsml.Family1x,
		parent:   parent,
		required: []string{"name"},
	}
	switch parent {
	case witsml.ObjectTypeWell:
		b.required = []string{"nameWell", "name"}
		b.idElements = []string{"nameWell", "name"}
	case witsml.ObjectTypeWellbore:
		b.required = []string{"nameWell", "nameWellbore", "name"}
		b.idElements = []string{"nameWell", "nameWellbore", "name"}
	default:
		b.idElements = []string{"name"}
	}
	return v1{base: b}
}

func (k *v1) Identify(el *document.Element) witsml.ObjectID {
	id := witsml.ObjectID{Uid: el.Attr("uid")}
	switch k.parent {
	case witsml.ObjectTypeWell:
		id.UidWell = el.Attr("uidWell")
	case witsml.ObjectTypeWellbore:
		id.UidWell = el.Attr("uidWell")
		id.UidWellbore = el.Attr("uidWellbore")
	}
	return id
}

func (k *v1) ParentID(id witsml.ObjectID) (witsml.ObjectID, bool) {
	switch k.parent {
	case witsml.ObjectTypeWell:
		return id.Parent(witsml.ObjectTypeWell), id.UidWell != ""
	case witsml.ObjectTypeWellbore:
		return id.Parent(witsml.ObjectTypeWellbore), id.UidWell != "" && id.UidWellbore != ""
	}
	return witsml.ObjectID{}, true
}

func (k *v1) ParentAttrs() []string {
	switch k.parent {
	case witsml.ObjectTypeWell:
		return []string{"uidWell"}
	case witsml.ObjectTypeWellbore:
		return []string{"uidWell", "uidWellbore"}
	}
	return nil
}

func (k *v1) ParentRef() string { return "" }

func (k *v1) AssignUID(el *document.Element, uid string) { el.SetAttr("uid", uid) }

func (k *v1) SetDefaults(el *document.Element, now time.Time) {
	if el.FindText("commonData/dTimCreation") == "" {
		el.SetPath("commonData/dTimCreation", timestamp(now))
	}
	el.SetPath("commonData/dTimLastChange", timestamp(now))
}

func (k *v1) Touch(el *document.Element, now time.Time) {
	el.SetPath("commonData/dTimLastChange", timestamp(now))
}

func (k *v1) SetGrowing(el *document.Element, growing bool) {
	if k.growing == "" {
		return
	}
	v := "false"
	if growing {
		v = "true"
	}
	el.SetChild(k.growing, v)
}

// v2 implements the identifier and default handling shared by 2.0 kinds.
// Objects are identified by uuid and reference their parent with a
// DataObjectReference element.
type v2 struct {
	base
}

func newV2(typ, parent witsml.ObjectType) v2 {
	b := base{
		typ:        typ,
		family:     witsml.Family20,
		parent:     parent,
		required:   []string{"Citation/Title"},
		idElements: []string{"Citation"},
	}
	if parent != "" {
		ref := parent.Name(witsml.Family20)
		b.required = append(b.required, ref+"/Uuid")
		b.idElements = append(b.idElements, ref)
	}
	return v2{base: b}
}

func (k *v2) ref() string {
	if k.parent == "" {
		return ""
	}
	return k.parent.Name(witsml.Family20)
}

func (k *v2) Identify(el *document.Element) witsml.ObjectID {
	id := witsml.ObjectID{Uid: el.Attr("uuid")}
	switch k.parent {
	case witsml.ObjectTypeWell:
		id.UidWell = el.FindText(k.ref() + "/Uuid")
	case witsml.ObjectTypeWellbore:
		id.UidWellbore = el.FindText(k.ref() + "/Uuid")
	}
	return id
}

func (k *v2) ParentID(id witsml.ObjectID) (witsml.ObjectID, bool) {
	switch k.parent {
	case witsml.ObjectTypeWell:
		return witsml.ObjectID{Uid: id.UidWell}, id.UidWell != ""
	case witsml.ObjectTypeWellbore:
		return witsml.ObjectID{Uid: id.UidWellbore}, id.UidWellbore != ""
	}
	return witsml.ObjectID{}, true
}

func (k *v2) ParentAttrs() []string { return nil }

func (k *v2) ParentRef() string { return k.ref() }

func (k *v2) AssignUID(el *document.Element, uid string) { el.SetAttr("uuid", uid) }

func (k *v2) SetDefaults(el *document.Element, now time.Time) {
	if el.Attr("schemaVersion") == "" {
		el.SetAttr("schemaVersion", string(witsml.DataVersion200))
	}
	if el.FindText("Citation/Creation") == "" {
		el.SetPath("Citation/Creation", timestamp(now))
	}
	el.SetPath("Citation/LastUpdate", timestamp(now))

	if ref := el.Child(k.ref()); ref != nil {
		if ref.ChildText("ContentType") == "" {
			ref.SetChild("ContentType", "application/x-witsml+xml;version=2.0;type="+k.ref())
		}
		if ref.ChildText("Title") == "" {
			ref.SetChild("Title", ref.ChildText("Uuid"))
		}
	}
}

func (k *v2) Touch(el *document.Element, now time.Time) {
	el.SetPath("Citation/LastUpdate", timestamp(now))
}

func (k *v2) SetGrowing(el *document.Element, growing bool) {
	if k.growing == "" {
		return
	}
	v := "inactive"
	if growing {
		v = "active"
	}
	el.SetChild(k.growing, v)
}

func isDecreasing(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "decreasing")
}

// Well is the 1.x well.
type Well struct{ v1 }

func NewWell() *Well {
	k := &Well{newV1(witsml.ObjectTypeWell, "")}
	k.required = []string{"name", "timeZone"}
	return k
}

// Wellbore is the 1.x wellbore.
type Wellbore struct{ v1 }

func NewWellbore() *Wellbore {
	return &Wellbore{newV1(witsml.ObjectTypeWellbore, witsml.ObjectTypeWell)}
}

// Rig is the 1.x rig.
type Rig struct{ v1 }

func NewRig() *Rig {
	return &Rig{newV1(witsml.ObjectTypeRig, witsml.ObjectTypeWellbore)}
}

// Message is the 1.x message. Its time and type default on add.
type Message struct{ v1 }

func NewMessage() *Message {
	return &Message{newV1(witsml.ObjectTypeMessage, witsml.ObjectTypeWellbore)}
}

func (k *Message) SetDefaults(el *document.Element, now time.Time) {
	k.v1.SetDefaults(el, now)
	if el.ChildText("dTim") == "" {
		el.SetChild("dTim", timestamp(now))
	}
	if el.ChildText("typeMessage") == "" {
		el.SetChild("typeMessage", "unknown")
	}
}

// Trajectory is the 1.x trajectory. Stations are ordered by measured depth.
type Trajectory struct{ v1 }

func NewTrajectory() *Trajectory {
	k := &Trajectory{newV1(witsml.ObjectTypeTrajectory, witsml.ObjectTypeWellbore)}
	k.collection = &merge.Spec{
		Element: "trajectoryStation",
		UIDAttr: "uid",
		Index:   "md",
		Min:     "mdMn",
		Max:     "mdMx",
	}
	k.isData = true
	k.growing = "objectGrowing"
	k.extra = []witsml.ReturnElements{witsml.ReturnElementsStationLocationOnly}
	return k
}

// Log is the 1.x log. Curve definitions are header metadata; rows are
// stored in chunks.
type Log struct{ v1 }

func NewLog() *Log {
	k := &Log{newV1(witsml.ObjectTypeLog, witsml.ObjectTypeWellbore)}
	k.required = append(k.required, "indexType", "indexCurve")
	k.collection = &merge.Spec{Element: "logCurveInfo", UIDAttr: "uid"}
	k.growing = "objectGrowing"
	k.series = logSeries{}
	return k
}

func (k *Log) Increasing(el *document.Element) bool {
	return !isDecreasing(el.ChildText("direction"))
}

// Well20 is the 2.0 Well.
type Well20 struct{ v2 }

func NewWell20() *Well20 {
	return &Well20{newV2(witsml.ObjectTypeWell, "")}
}

// Wellbore20 is the 2.0 Wellbore.
type Wellbore20 struct{ v2 }

func NewWellbore20() *Wellbore20 {
	return &Wellbore20{newV2(witsml.ObjectTypeWellbore, witsml.ObjectTypeWell)}
}

// Trajectory20 is the 2.0 Trajectory.
type Trajectory20 struct{ v2 }

func NewTrajectory20() *Trajectory20 {
	k := &Trajectory20{newV2(witsml.ObjectTypeTrajectory, witsml.ObjectTypeWellbore)}
	k.collection = &merge.Spec{
		Element: "TrajectoryStation",
		UIDAttr: "uid",
		Index:   "Md",
		Min:     "MdMin",
		Max:     "MdMax",
	}
	k.isData = true
	k.growing = "GrowingStatus"
	return k
}

// ChannelSet is the 2.0 ChannelSet. Channels are header metadata; rows
// are stored in chunks.
type ChannelSet struct{ v2 }

func NewChannelSet() *ChannelSet {
	k := &ChannelSet{newV2(witsml.ObjectTypeChannelSet, witsml.ObjectTypeWellbore)}
	k.required = append(k.required, "Index/Mnemonic")
	k.collection = &merge.Spec{Element: "Channel", UIDAttr: "uuid"}
	k.growing = "GrowingStatus"
	k.series = channelSetSeries{}
	return k
}

func (k *ChannelSet) Increasing(el *document.Element) bool {
	return !isDecreasing(el.FindText("Index/Direction"))
}

// All returns a fresh instance of every supported kind.
func All() []provider.Kind {
	return []provider.Kind{
		NewWell(),
		NewWellbore(),
		NewRig(),
		NewMessage(),
		NewTrajectory(),
		NewLog(),
		NewWell20(),
		NewWellbore20(),
		NewTrajectory20(),
		NewChannelSet(),
	}
}
