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

package server_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/Sjoshi-TYCS/witsml/server"
	"github.com/Sjoshi-TYCS/witsml/storage"
	"github.com/Sjoshi-TYCS/witsml/toml"
)

func Test_NewConfig(t *testing.T) {
	c := server.NewConfig()

	if c.Bind != ":8080" {
		t.Fatalf("unexpected Bind: %v", c.Bind)
	}
	if c.DataDir != server.DefaultDataDir {
		t.Fatalf("unexpected DataDir: %v", c.DataDir)
	}
	if c.Storage.Backend != storage.DefaultBackend {
		t.Fatalf("unexpected Storage.Backend: %v", c.Storage.Backend)
	}
	if c.Store.DefaultDataVersion != "1.4.1.1" {
		t.Fatalf("unexpected Store.DefaultDataVersion: %v", c.Store.DefaultDataVersion)
	}
	if c.Auth.Enable || c.Auth.Users == nil || c.Auth.UserPermissions == nil {
		t.Fatalf("unexpected Auth: %+v", c.Auth)
	}
}

func TestDuration(t *testing.T) {
	d := toml.Duration(time.Second * 182)
	if d.String() != "3m2s" {
		t.Fatalf("Unexpected time Duration %s", d)
	}

	b := []byte{51, 109, 50, 115}
	v, _ := d.MarshalText()
	if !reflect.DeepEqual(b, v) {
		t.Fatalf("Unexpected marshalled value %v", v)
	}

	v, _ = d.MarshalTOML()
	if !reflect.DeepEqual(b, v) {
		t.Fatalf("Unexpected marshalled value %v", v)
	}

	err := d.UnmarshalText([]byte("5"))
	if err == nil || err.Error() != "time: missing unit in duration \"5\"" {
		t.Fatalf("expected time: missing unit in duration: %s", err)
	}

	if err := d.UnmarshalText([]byte("3m2s")); err != nil {
		t.Fatalf("unmarshalling: %v", err)
	}
	if d.Duration() != 182*time.Second {
		t.Fatalf("Unexpected duration %v", d.Duration())
	}
}
