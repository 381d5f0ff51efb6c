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
package authz_test

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const permissionsYAML = `user-groups:
  "readers":
    "Soap": "read"
    "Etp": "read"
  "editors":
    "Soap": "write"
admin: "store-admins"`

func TestAuth_ReadPermissionsFile(t *testing.T) {
	singleInput := `user-groups:
  "readers":
    "Soap": "read"
admin: "store-admins"`

	singlePermission := authz.GroupPermissions{
		Permissions: map[string]map[witsml.EndpointType]authz.Permission{
			"readers": {witsml.EndpointSoap: authz.Read},
		},
		Admin: "store-admins",
	}

	multiPermission := authz.GroupPermissions{
		Permissions: map[string]map[witsml.EndpointType]authz.Permission{
			"readers": {witsml.EndpointSoap: authz.Read, witsml.EndpointEtp: authz.Read},
			"editors": {witsml.EndpointSoap: authz.Write},
		},
		Admin: "store-admins",
	}

	tests := []struct {
		input  string
		output authz.GroupPermissions
	}{
		{singleInput, singlePermission},
		{permissionsYAML, multiPermission},
	}

	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			var p authz.GroupPermissions
			err := p.ReadPermissionsFile(strings.NewReader(test.input))
			if err != nil {
				t.Fatalf("readPermissionsFile error: %s", err)
			}

			if !reflect.DeepEqual(p, test.output) {
				t.Fatalf("expected output %v, but got %v", test.output, p)
			}
		})
	}

	t.Run("UnknownKey", func(t *testing.T) {
		var p authz.GroupPermissions
		err := p.ReadPermissionsFile(strings.NewReader("groups: {}"))
		assert.Error(t, err)
	})
}

func TestPermission_Satisfies(t *testing.T) {
	assert.True(t, authz.Admin.Satisfies(authz.Write))
	assert.True(t, authz.Write.Satisfies(authz.Read))
	assert.False(t, authz.Read.Satisfies(authz.Write))
	assert.False(t, authz.None.Satisfies(authz.Read))

	assert.Equal(t, authz.None, authz.Required(witsml.FunctionGetCap))
	assert.Equal(t, authz.Read, authz.Required(witsml.FunctionGetFromStore))
	assert.Equal(t, authz.Write, authz.Required(witsml.FunctionUpdateInStore))
}

func opContext(user string, groups []string, fn witsml.Function) context.Context {
	return witsml.WithOperation(context.Background(), witsml.Operation{
		User:     user,
		Groups:   groups,
		Function: fn,
	})
}

func TestGate(t *testing.T) {
	var perms authz.GroupPermissions
	require.NoError(t, perms.ReadPermissionsFile(strings.NewReader(permissionsYAML)))

	t.Run("Disabled", func(t *testing.T) {
		deny := authz.RuleFunc(func(context.Context, witsml.Operation) (bool, bool) { return false, true })
		gate := authz.NewGate(false, authz.OptGateRules(deny))
		for _, fn := range witsml.Functions {
			for _, ep := range []witsml.EndpointType{witsml.EndpointSoap, witsml.EndpointEtp} {
				assert.True(t, gate.IsAuthorized(opContext("anyone", nil, fn), ep))
				assert.True(t, gate.IsAuthorized(context.Background(), ep))
			}
		}
	})

	t.Run("Groups", func(t *testing.T) {
		gate := authz.NewGate(true, authz.OptGateRules(&perms))

		ctx := opContext("alice", []string{"readers"}, witsml.FunctionGetFromStore)
		assert.NoError(t, gate.CheckSoapAccess(ctx))
		assert.NoError(t, gate.CheckEtpAccess(ctx))

		ctx = opContext("alice", []string{"readers"}, witsml.FunctionAddToStore)
		err := gate.CheckSoapAccess(ctx)
		assert.Equal(t, witsml.ErrorCodeInsufficientOperationRights, witsml.ErrorCodeOf(err))

		ctx = opContext("bob", []string{"editors"}, witsml.FunctionAddToStore)
		assert.NoError(t, gate.CheckSoapAccess(ctx))
		assert.Error(t, gate.CheckEtpAccess(ctx))

		ctx = opContext("root", []string{"store-admins"}, witsml.FunctionDeleteFromStore)
		assert.NoError(t, gate.CheckEtpAccess(ctx))
	})

	t.Run("FirstDecisionWins", func(t *testing.T) {
		allowAll := authz.RuleFunc(func(context.Context, witsml.Operation) (bool, bool) { return true, true })
		users := authz.UserRule{"mallory": authz.None}

		gate := authz.NewGate(true, authz.OptGateRules(users, allowAll))
		assert.False(t, gate.IsAuthorized(opContext("mallory", nil, witsml.FunctionGetFromStore), witsml.EndpointSoap))
		assert.True(t, gate.IsAuthorized(opContext("eve", nil, witsml.FunctionGetFromStore), witsml.EndpointSoap))

		gate = authz.NewGate(true, authz.OptGateRules(allowAll, users))
		assert.True(t, gate.IsAuthorized(opContext("mallory", nil, witsml.FunctionGetFromStore), witsml.EndpointSoap))
	})

	t.Run("NoDecisionDenies", func(t *testing.T) {
		gate := authz.NewGate(true, authz.OptGateRules(&perms))
		assert.False(t, gate.IsAuthorized(opContext("stranger", []string{"unknown"}, witsml.FunctionGetFromStore), witsml.EndpointSoap))
		assert.False(t, authz.NewGate(true).IsAuthorized(opContext("x", nil, witsml.FunctionGetCap), witsml.EndpointSoap))
	})
}
