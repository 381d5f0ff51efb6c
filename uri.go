// Copyright 2017 Pilosa Corp.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package witsml

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Sjoshi-TYCS/witsml/errors"
)

const ErrInvalidURI errors.Code = "InvalidURI"

var uriRegexp = regexp.MustCompile(`^eml://(witsml1[34]|witsml20)((?:/[A-Za-z]+(?:\([^()/]*\))?)*)/?$`)
var segmentRegexp = regexp.MustCompile(`^([A-Za-z]+)(?:\(([^()/]*)\))?$`)

// Segment is one type(id) step of an ETP URI. An empty ID denotes the
// collection of objects of that type.
type Segment struct {
	Type ObjectType
	ID   string
}

// URI is an ETP data-object URI, for example
//
//	eml://witsml14/well(w1)/wellbore(b1)/trajectory(t1)
//	eml://witsml20/Trajectory(8a1d...)
//
// The zero-segment URI (eml://witsml14) is the root of a version.
type URI struct {
	Version  DataVersion
	Segments []Segment
}

// ParseURI parses s into a URI.
func ParseURI(s string) (URI, error) {
	m := uriRegexp.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return URI{}, errors.New(ErrInvalidURI, fmt.Sprintf("invalid uri: '%s'", s))
	}
	version, err := ParseDataVersion(m[1])
	if err != nil {
		return URI{}, err
	}
	u := URI{Version: version}
	for _, part := range strings.Split(strings.Trim(m[2], "/"), "/") {
		if part == "" {
			continue
		}
		sm := segmentRegexp.FindStringSubmatch(part)
		typ, ok := ParseObjectType(sm[1])
		if !ok {
			return URI{}, errors.New(ErrInvalidURI, fmt.Sprintf("unknown object type '%s' in uri '%s'", sm[1], s))
		}
		u.Segments = append(u.Segments, Segment{Type: typ, ID: sm[2]})
	}
	return u, nil
}

// RootURI returns the root URI of version.
func RootURI(version DataVersion) URI {
	return URI{Version: version}
}

// NewURI returns the URI of the object of typ identified by id. 1.x URIs
// include the parent path; 2.0 URIs address the object directly.
func NewURI(version DataVersion, typ ObjectType, id ObjectID) URI {
	u := URI{Version: version}
	if version.Family() == Family1x {
		switch typ {
		case ObjectTypeWell:
		case ObjectTypeWellbore:
			u.Segments = append(u.Segments, Segment{Type: ObjectTypeWell, ID: id.UidWell})
		default:
			u.Segments = append(u.Segments,
				Segment{Type: ObjectTypeWell, ID: id.UidWell},
				Segment{Type: ObjectTypeWellbore, ID: id.UidWellbore},
			)
		}
	}
	u.Segments = append(u.Segments, Segment{Type: typ, ID: id.Uid})
	return u
}

// IsRoot reports whether u has no segments.
func (u URI) IsRoot() bool { return len(u.Segments) == 0 }

// ObjectType returns the type of the last segment.
func (u URI) ObjectType() ObjectType {
	if u.IsRoot() {
		return ""
	}
	return u.Segments[len(u.Segments)-1].Type
}

// ObjectID collects the identifiers along the path.
func (u URI) ObjectID() ObjectID {
	var id ObjectID
	for i, seg := range u.Segments {
		last := i == len(u.Segments)-1
		switch {
		case last:
			id.Uid = seg.ID
		case seg.Type == ObjectTypeWell:
			id.UidWell = seg.ID
		case seg.Type == ObjectTypeWellbore:
			id.UidWellbore = seg.ID
		}
	}
	return id
}

// Parent returns u without its last segment.
func (u URI) Parent() URI {
	if u.IsRoot() {
		return u
	}
	return URI{Version: u.Version, Segments: u.Segments[:len(u.Segments)-1]}
}

// Append returns a copy of u extended by one segment.
func (u URI) Append(typ ObjectType, id string) URI {
	segs := make([]Segment, len(u.Segments), len(u.Segments)+1)
	copy(segs, u.Segments)
	return URI{Version: u.Version, Segments: append(segs, Segment{Type: typ, ID: id})}
}

// String returns the URI in its canonical form.
func (u URI) String() string {
	var b strings.Builder
	b.WriteString("eml://")
	b.WriteString(u.Version.Short())
	f := u.Version.Family()
	for _, seg := range u.Segments {
		b.WriteString("/")
		b.WriteString(seg.Type.Name(f))
		if seg.ID != "" {
			fmt.Fprintf(&b, "(%s)", seg.ID)
		}
	}
	return b.String()
}

// Equals returns true if other addresses the same resource as u.
func (u URI) Equals(other URI) bool {
	return u.String() == other.String()
}
