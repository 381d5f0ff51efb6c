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

package witsml_test

import (
	"testing"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURI(t *testing.T) {
	t.Run("Parse1x", func(t *testing.T) {
		u, err := witsml.ParseURI("eml://witsml14/well(w1)/wellbore(b1)/trajectory(t1)")
		require.NoError(t, err)
		assert.Equal(t, witsml.DataVersion141, u.Version)
		assert.Equal(t, witsml.ObjectTypeTrajectory, u.ObjectType())
		assert.Equal(t, witsml.ObjectID{UidWell: "w1", UidWellbore: "b1", Uid: "t1"}, u.ObjectID())
		assert.Equal(t, "eml://witsml14/well(w1)/wellbore(b1)", u.Parent().String())
	})

	t.Run("Parse20", func(t *testing.T) {
		u, err := witsml.ParseURI("eml://witsml20/ChannelSet(c-1)")
		require.NoError(t, err)
		assert.Equal(t, witsml.DataVersion200, u.Version)
		assert.Equal(t, witsml.ObjectTypeChannelSet, u.ObjectType())
		assert.Equal(t, "c-1", u.ObjectID().Uid)
		assert.True(t, u.Parent().IsRoot())
	})

	t.Run("Collection", func(t *testing.T) {
		u, err := witsml.ParseURI("eml://witsml13/well(w1)/wellbore")
		require.NoError(t, err)
		assert.Equal(t, witsml.ObjectTypeWellbore, u.ObjectType())
		assert.Equal(t, "", u.ObjectID().Uid)
		assert.Equal(t, "w1", u.ObjectID().UidWell)
	})

	t.Run("Root", func(t *testing.T) {
		u, err := witsml.ParseURI("eml://witsml14")
		require.NoError(t, err)
		assert.True(t, u.IsRoot())
		assert.Equal(t, "eml://witsml14/well(w1)", u.Append(witsml.ObjectTypeWell, "w1").String())
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, s := range []string{"", "http://x", "eml://witsml15/well(w1)", "eml://witsml14/pump(p1)"} {
			_, err := witsml.ParseURI(s)
			assert.Error(t, err, s)
		}
		_, err := witsml.ParseURI("eml://witsml14/pump(p1)")
		assert.True(t, errors.Is(err, witsml.ErrInvalidURI))
	})

	t.Run("NewURI", func(t *testing.T) {
		id := witsml.ObjectID{UidWell: "w1", UidWellbore: "b1", Uid: "l1"}
		assert.Equal(t, "eml://witsml14/well(w1)/wellbore(b1)/log(l1)",
			witsml.NewURI(witsml.DataVersion141, witsml.ObjectTypeLog, id).String())
		assert.Equal(t, "eml://witsml13/well(w1)/wellbore(b1)",
			witsml.NewURI(witsml.DataVersion131, witsml.ObjectTypeWellbore, witsml.ObjectID{UidWell: "w1", Uid: "b1"}).String())
		assert.Equal(t, "eml://witsml20/Trajectory(t-1)",
			witsml.NewURI(witsml.DataVersion200, witsml.ObjectTypeTrajectory, witsml.ObjectID{Uid: "t-1"}).String())
	})
}
