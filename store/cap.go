package store

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/document"
	"github.com/Sjoshi-TYCS/witsml/provider"
	"github.com/Sjoshi-TYCS/witsml/schema"
)

// ServerName is reported in the capabilities document.
const ServerName = "WITSML Store"

// storeFunctions are the functions listed per object type in a
// capabilities document.
var storeFunctions = []witsml.Function{
	witsml.FunctionGetFromStore,
	witsml.FunctionAddToStore,
	witsml.FunctionUpdateInStore,
	witsml.FunctionDeleteFromStore,
}

// GetVersion returns the supported 1.x data versions, comma separated and
// oldest first.
func (s *Store) GetVersion(ctx context.Context) string {
	var out []string
	for _, v := range witsml.DataVersions {
		if v.Family() == witsml.Family1x {
			out = append(out, string(v))
		}
	}
	return strings.Join(out, ",")
}

// GetBaseMsg returns the message of a result code, or "" for an unknown code.
func (s *Store) GetBaseMsg(ctx context.Context, code int) string {
	return witsml.ErrorCode(code).Message()
}

// GetCap returns the capabilities document for the dataVersion option,
// which defaults to 1.4.1.1.
func (s *Store) GetCap(ctx context.Context, optionsIn string) Response {
	start := time.Now()
	opts, err := witsml.ParseOptionsIn(optionsIn)
	if err != nil {
		return s.respond(witsml.FunctionGetCap, "", start, "", "", err)
	}
	version := witsml.DataVersion141
	if v, ok := opts[witsml.OptionDataVersion]; ok {
		if version, err = witsml.ParseDataVersion(v); err != nil {
			return s.respond(witsml.FunctionGetCap, "", start, "", "", err)
		}
	}
	if version.Family() != witsml.Family1x {
		return s.respond(witsml.FunctionGetCap, "", start, "", "", witsml.NewErrDataVersionNotSupported(string(version)))
	}
	return s.respond(witsml.FunctionGetCap, "", start, s.capabilities(version).String(), "", nil)
}

// capabilities builds the capServers document of version.
func (s *Store) capabilities(version witsml.DataVersion) *document.Element {
	api := strings.TrimSuffix(string(version), ".1")
	root := document.New("capServers")
	root.Space = schema.Namespace(version)
	root.SetAttr("version", api)

	cs := root.AddChild(document.New("capServer"))
	cs.SetAttr("apiVers", api)
	cs.SetChild("name", ServerName)
	cs.SetChild("schemaVersion", s.GetVersion(context.Background()))
	if version == witsml.DataVersion141 {
		cs.SetChild("growingTimeoutPeriod", strconv.Itoa(s.maxGrowingTimeout()))
		cs.SetChild("maxRequestLatestValues", "0")
	}

	var types []provider.Kind
	for _, k := range s.kinds {
		if k.Family() == witsml.Family1x {
			types = append(types, k)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Type() < types[j].Type() })

	for _, fn := range storeFunctions {
		f := cs.AddChild(document.New("function"))
		f.SetAttr("name", "WMLS_"+string(fn))
		for _, k := range types {
			obj := f.AddChild(document.NewText("dataObject", string(k.Type())))
			if version != witsml.DataVersion141 {
				continue
			}
			if k.Series() != nil || (k.Collection() != nil && k.CollectionIsData()) {
				if n := s.config.MaxDataNodes.For(fn); n > 0 {
					obj.SetAttr("maxDataNodes", strconv.Itoa(n))
				}
				if n := s.config.MaxDataPoints.For(fn); n > 0 && k.Series() != nil {
					obj.SetAttr("maxDataPoints", strconv.Itoa(n))
				}
			}
		}
	}
	return root
}

// maxGrowingTimeout returns the longest growing timeout in seconds.
func (s *Store) maxGrowingTimeout() int {
	var max time.Duration
	for _, d := range s.config.timeouts() {
		if d > max {
			max = d
		}
	}
	return int(max / time.Second)
}
