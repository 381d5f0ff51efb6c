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

package ctl

import (
	"fmt"
	"sort"

	"github.com/Sjoshi-TYCS/witsml/server"
	"github.com/Sjoshi-TYCS/witsml/storage"
	"github.com/spf13/cobra"
)

// BuildServerFlags attaches a set of flags to the command for a server instance.
func BuildServerFlags(cmd *cobra.Command, srv *server.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&srv.Config.DataDir, "data-dir", "d", srv.Config.DataDir, "Directory to store WITSML data files.")
	flags.StringVarP(&srv.Config.Bind, "bind", "b", srv.Config.Bind, "Default URI on which the store should listen.")
	flags.StringVar(&srv.Config.LogPath, "log-path", srv.Config.LogPath, "Log path")
	flags.BoolVar(&srv.Config.Verbose, "verbose", srv.Config.Verbose, "Enable verbose logging")

	// TLS
	SetTLSConfig(flags, "", &srv.Config.TLS.CertificatePath, &srv.Config.TLS.CertificateKeyPath, &srv.Config.TLS.CACertPath, &srv.Config.TLS.EnableClientVerification)

	// Handler
	flags.StringSliceVar(&srv.Config.Handler.AllowedOrigins, "handler.allowed-origins", []string{}, "Comma separated list of allowed origin URIs (for CORS).")

	// Storage
	flags.StringVar(&srv.Config.Storage.Backend, "storage.backend", storage.DefaultBackend, fmt.Sprintf("storage backend to use: one of %s or %s.", storage.BoltBackend, storage.InmemBackend))
	flags.BoolVar(&srv.Config.Storage.FsyncEnabled, "storage.fsync", true, "enable fsync fully safe flush-to-disk")
	flags.Var(&srv.Config.Storage.CacheTTL, "storage.cache-ttl", "How long objects read from storage stay cached. Zero disables the cache.")

	// Store
	st := &srv.Config.Store
	flags.StringVar(&st.DefaultDataVersion, "store.default-data-version", st.DefaultDataVersion, "Data version assumed for documents that declare none.")
	flags.Int64Var(&st.DepthChunkSize, "store.depth-chunk-size", st.DepthChunkSize, "Span of a depth-indexed data chunk.")
	flags.Int64Var(&st.TimeChunkSize, "store.time-chunk-size", st.TimeChunkSize, "Span in seconds of a time-indexed data chunk.")
	flags.IntVar(&st.MaxReturnNodes, "store.max-return-nodes", st.MaxReturnNodes, "Default maximum of data nodes returned by GetFromStore. Zero returns everything.")
	for _, l := range []struct {
		name string
		get  *int
		add  *int
		upd  *int
		del  *int
	}{
		{"max-data-nodes", &st.MaxDataNodes.Get, &st.MaxDataNodes.Add, &st.MaxDataNodes.Update, &st.MaxDataNodes.Delete},
		{"max-data-points", &st.MaxDataPoints.Get, &st.MaxDataPoints.Add, &st.MaxDataPoints.Update, &st.MaxDataPoints.Delete},
	} {
		flags.IntVar(l.get, "store."+l.name+".get", *l.get, "Limit of "+l.name+" for GetFromStore.")
		flags.IntVar(l.add, "store."+l.name+".add", *l.add, "Limit of "+l.name+" for AddToStore.")
		flags.IntVar(l.upd, "store."+l.name+".update", *l.upd, "Limit of "+l.name+" for UpdateInStore.")
		flags.IntVar(l.del, "store."+l.name+".delete", *l.del, "Limit of "+l.name+" for DeleteFromStore.")
	}
	types := make([]string, 0, len(st.GrowingTimeout))
	for typ := range st.GrowingTimeout {
		types = append(types, typ)
	}
	sort.Strings(types)
	for _, typ := range types {
		flags.Var(durationEntry{m: st.GrowingTimeout, key: typ}, "store.growing-timeout."+typ, "Time after the last append at which a growing "+typ+" stops growing.")
	}

	// Auth
	flags.BoolVar(&srv.Config.Auth.Enable, "auth.enable", srv.Config.Auth.Enable, "Enable authorization of store functions.")
	flags.StringVar(&srv.Config.Auth.Permissions, "auth.permissions", srv.Config.Auth.Permissions, "Path of the YAML group permissions file.")
	flags.StringVar(&srv.Config.Auth.TokenSecret, "auth.token-secret", srv.Config.Auth.TokenSecret, "Secret verifying bearer token signatures.")
	flags.StringToStringVar(&srv.Config.Auth.Users, "auth.users", srv.Config.Auth.Users, "Basic auth credentials as user=password pairs.")
	flags.StringToStringVar(&srv.Config.Auth.UserPermissions, "auth.user-permissions", srv.Config.Auth.UserPermissions, "Permissions of single users as user=read|write|admin pairs.")
}
