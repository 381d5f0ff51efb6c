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

package authz

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Sjoshi-TYCS/witsml"
	"gopkg.in/yaml.v2"
)

// GroupPermissions grants permissions to user groups per endpoint class. It
// is loaded from a YAML file such as:
//
//	user-groups:
//	  "readers":
//	    "Soap": "read"
//	    "Etp": "read"
//	  "editors":
//	    "Soap": "write"
//	admin: "store-admins"
type GroupPermissions struct {
	Permissions map[string]map[witsml.EndpointType]Permission `yaml:"user-groups"`
	Admin       string                                        `yaml:"admin"`
}

type Permission string

const (
	None  Permission = ""
	Read  Permission = "read"
	Write Permission = "write"
	Admin Permission = "admin"
)

// Satisfies returns whether `p` satisfies the permissions required by `b`
func (p Permission) Satisfies(b Permission) bool {
	switch p {
	case "":
		return b == ""
	case "read":
		return b == "" || b == "read"
	case "write":
		return b == "" || b == "read" || b == "write"
	case "admin":
		return b == "" || b == "read" || b == "write" || b == "admin"
	}
	return false
}

// Required returns the permission a caller needs to invoke fn.
func Required(fn witsml.Function) Permission {
	switch fn {
	case witsml.FunctionGetBaseMsg, witsml.FunctionGetCap, witsml.FunctionGetVersion:
		return None
	}
	if fn.IsWrite() {
		return Write
	}
	return Read
}

func (p *GroupPermissions) ReadPermissionsFile(permsFile io.Reader) (err error) {
	permsData, err := io.ReadAll(permsFile)

	if err != nil {
		return fmt.Errorf("reading permissions failed with error: %s", err)
	}

	err = yaml.UnmarshalStrict(permsData, &p)
	if err != nil {
		return fmt.Errorf("unmarshalling permissions failed with error: %s", err)
	}

	return
}

// LoadPermissions reads a permissions file from path.
func LoadPermissions(path string) (*GroupPermissions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening permissions file: %s", err)
	}
	defer f.Close()

	p := &GroupPermissions{}
	if err := p.ReadPermissionsFile(f); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPermissions returns the highest permission any of groups holds on
// endpoint. The boolean is false when none of the groups is known.
func (p *GroupPermissions) GetPermissions(groups []string, endpoint witsml.EndpointType) (Permission, bool) {
	if p.IsAdmin(groups) {
		return Admin, true
	}

	known := false
	best := None
	for _, group := range groups {
		perms, ok := p.Permissions[group]
		if !ok {
			continue
		}
		known = true
		if perm := perms[endpoint]; perm.Satisfies(best) {
			best = perm
		}
	}
	return best, known
}

func (p *GroupPermissions) IsAdmin(groups []string) bool {
	for _, group := range groups {
		if p.Admin != "" && p.Admin == group {
			return true
		}
	}
	return false
}

// Authorize implements Rule. Callers in no known group get no decision so
// later rules can decide.
func (p *GroupPermissions) Authorize(_ context.Context, op witsml.Operation) (allowed, decided bool) {
	perm, known := p.GetPermissions(op.Groups, op.Endpoint)
	if !known {
		return false, false
	}
	return perm.Satisfies(Required(op.Function)), true
}
