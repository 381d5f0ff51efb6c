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
	"runtime"
	"time"
)

// Set at link time.
var Version string
var Commit string
var BuildTime string
var GoVersion string = runtime.Version()

// VersionInfo describes the running build for the startup banner and the
// version endpoint.
func VersionInfo() string {
	suffix := " " + Version
	if Version == "" {
		suffix = " dev"
	}
	buildTime := BuildTime
	if buildTime != "" {
		if t, err := time.Parse("2006-01-02T15:04:05+0000", BuildTime); err == nil {
			buildTime = t.Local().Format("Jan _2 2006 3:04PM")
		}
	}
	switch {
	case Commit != "" && buildTime != "":
		suffix += " (" + buildTime + ", " + Commit + ")"
	case Commit != "":
		suffix += " (" + Commit + ")"
	case buildTime != "":
		suffix += " (" + buildTime + ")"
	}
	return "WITSML store" + suffix + " " + GoVersion
}
