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

package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/authn"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/logger"
	"github.com/Sjoshi-TYCS/witsml/store"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler represents an HTTP handler.
type Handler struct {
	Handler http.Handler

	logger logger.Logger

	store *store.Store
	auth  *authn.Auth

	ln net.Listener

	closeTimeout time.Duration

	server *http.Server
}

// HistogramHTTPRequest times every routed request.
var HistogramHTTPRequest = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "witsml",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by route.",
	},
	[]string{"path", "method"},
)

func init() {
	prometheus.MustRegister(HistogramHTTPRequest)
}

type errorResponse struct {
	Error string `json:"error"`
}

// FunctionRequest is the body of POST /api/{function}.
type FunctionRequest struct {
	WMLTypeIn      string `json:"wmlTypeIn"`
	XMLIn          string `json:"xmlIn"`
	OptionsIn      string `json:"optionsIn"`
	CapabilitiesIn string `json:"capabilitiesIn"`

	// ReturnValueIn is the result code whose message GetBaseMsg returns.
	ReturnValueIn int `json:"returnValueIn,omitempty"`
}

// HandlerOption is a functional option type for Handler.
type HandlerOption func(s *Handler) error

func OptHandlerAllowedOrigins(origins []string) HandlerOption {
	return func(h *Handler) error {
		if len(origins) == 0 {
			return nil
		}
		h.Handler = handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE"}),
		)(h.Handler)
		return nil
	}
}

func OptHandlerStore(s *store.Store) HandlerOption {
	return func(h *Handler) error {
		h.store = s
		return nil
	}
}

// OptHandlerAuth identifies callers with a. Without it every request is
// served as the anonymous user.
func OptHandlerAuth(a *authn.Auth) HandlerOption {
	return func(h *Handler) error {
		h.auth = a
		return nil
	}
}

func OptHandlerLogger(logger logger.Logger) HandlerOption {
	return func(h *Handler) error {
		h.logger = logger
		return nil
	}
}

func OptHandlerListener(ln net.Listener) HandlerOption {
	return func(h *Handler) error {
		h.ln = ln
		return nil
	}
}

// OptHandlerCloseTimeout controls how long to wait for the http Server to
// shutdown cleanly before forcibly destroying it. Default is 30 seconds.
func OptHandlerCloseTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) error {
		h.closeTimeout = d
		return nil
	}
}

// NewHandler returns a new instance of Handler with a default logger.
func NewHandler(opts ...HandlerOption) (*Handler, error) {
	handler := &Handler{
		logger:       logger.NopLogger,
		closeTimeout: time.Second * 30,
	}
	handler.Handler = newRouter(handler)

	for _, opt := range opts {
		err := opt(handler)
		if err != nil {
			return nil, errors.Wrap(err, "applying option")
		}
	}

	if handler.store == nil {
		return nil, errors.New(errors.ErrUncoded, "must pass OptHandlerStore")
	}

	if handler.ln == nil {
		return nil, errors.New(errors.ErrUncoded, "must pass OptHandlerListener")
	}

	handler.server = &http.Server{Handler: handler}

	return handler, nil
}

func (h *Handler) Serve() error {
	err := h.server.Serve(h.ln)
	if err != nil && err != http.ErrServerClosed {
		h.logger.Errorf("HTTP handler terminated with error: %s", err)
		return errors.Wrap(err, "serve http")
	}
	return nil
}

// Close tries to cleanly shutdown the HTTP server, and failing that, after a
// timeout, calls Server.Close.
func (h *Handler) Close() error {
	deadlineCtx, cancelFunc := context.WithDeadline(context.Background(), time.Now().Add(h.closeTimeout))
	defer cancelFunc()
	err := h.server.Shutdown(deadlineCtx)
	if err != nil {
		err = h.server.Close()
	}
	return errors.Wrap(err, "shutdown/close http server")
}

// authenticate puts the caller of the request in its context.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := authn.Anonymous
		if h.auth != nil {
			var err error
			if user, err = h.auth.Authenticate(r); err != nil {
				h.logger.Debugf("rejecting %s %s: %v", r.Method, r.URL.Path, err)
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
				return
			}
		}
		ctx := witsml.WithOperation(r.Context(), witsml.Operation{User: user.Name, Groups: user.Groups})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) collectStats(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		next.ServeHTTP(w, r)
		dur := time.Since(t)

		path, err := mux.CurrentRoute(r).GetPathTemplate()
		if err != nil {
			path = "unknown"
		}
		HistogramHTTPRequest.WithLabelValues(path, r.Method).Observe(dur.Seconds())
	})
}

// newRouter creates a new mux http router.
func newRouter(handler *Handler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", handler.handleGetHealth).Methods("GET").Name("GetHealth")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET").Name("GetMetrics")
	router.HandleFunc("/api/version", handler.handleGetVersion).Methods("GET").Name("GetVersion")
	router.HandleFunc("/api/cap", handler.handleGetCap).Methods("GET").Name("GetCap")
	router.HandleFunc("/api/discovery", handler.handleGetDiscovery).Methods("GET").Name("GetDiscovery")
	router.HandleFunc("/api/object", handler.handleGetObject).Methods("GET").Name("GetObject")
	router.HandleFunc("/api/object", handler.handlePutObject).Methods("PUT").Name("PutObject")
	router.HandleFunc("/api/object", handler.handleDeleteObject).Methods("DELETE").Name("DeleteObject")
	router.HandleFunc("/api/{function}", handler.handlePostFunction).Methods("POST").Name("PostFunction")

	router.Use(handler.authenticate)
	router.Use(handler.collectStats)
	return router
}

// ServeHTTP handles an HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if err := recover(); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			stack := debug.Stack()
			msg := "PANIC: %s\n%s"
			h.logger.Errorf(msg, err, stack)
			fmt.Fprintf(w, msg, err, stack)
		}
	}()

	h.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf maps the result code of err to the status of an object endpoint.
func statusOf(err error) int {
	switch witsml.ErrorCodeOf(err) {
	case witsml.ErrorCodeDataObjectNotExist:
		return http.StatusNotFound
	case witsml.ErrorCodeInsufficientOperationRights:
		return http.StatusForbidden
	case witsml.ErrorCodeDataObjectUidAlreadyExists:
		return http.StatusConflict
	case witsml.ErrorCodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// writeError answers an object endpoint with the result code of err.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Errorf("%s %s: %v", r.Method, r.URL, err)
	}
	writeJSON(w, status, store.Response{
		Result:     witsml.ErrorCodeOf(err),
		SuppMsgOut: errors.MessageOf(err),
	})
}

// withEndpoint marks the request context as arriving on endpoint.
func withEndpoint(r *http.Request, endpoint witsml.EndpointType) context.Context {
	op, _ := witsml.OperationFrom(r.Context())
	op.Endpoint = endpoint
	return witsml.WithOperation(r.Context(), op)
}

func (h *Handler) handleGetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
	}{Status: "ok"})
}

// handleGetVersion handles /api/version requests.
func (h *Handler) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Versions string `json:"versions"`
		Build    string `json:"build"`
	}{
		Versions: h.store.GetVersion(r.Context()),
		Build:    witsml.VersionInfo(),
	})
}

// handleGetCap handles /api/cap requests. The options query parameter is
// passed as optionsIn.
func (h *Handler) handleGetCap(w http.ResponseWriter, r *http.Request) {
	ctx := withEndpoint(r, witsml.EndpointSoap)
	writeJSON(w, http.StatusOK, h.store.GetCap(ctx, r.URL.Query().Get("options")))
}

// handlePostFunction handles the store functions posted to /api/{function}.
// Store failures are reported in the result code of a 200 response.
func (h *Handler) handlePostFunction(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["function"]
	fn, ok := witsml.ParseFunction(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown function '%s'", name)})
		return
	}

	var req FunctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "decoding request: " + err.Error()})
		return
	}

	ctx := withEndpoint(r, witsml.EndpointSoap)
	var resp store.Response
	switch fn {
	case witsml.FunctionGetFromStore:
		resp = h.store.GetFromStore(ctx, req.WMLTypeIn, req.XMLIn, req.OptionsIn, req.CapabilitiesIn)
	case witsml.FunctionAddToStore:
		resp = h.store.AddToStore(ctx, req.WMLTypeIn, req.XMLIn, req.OptionsIn, req.CapabilitiesIn)
	case witsml.FunctionUpdateInStore:
		resp = h.store.UpdateInStore(ctx, req.WMLTypeIn, req.XMLIn, req.OptionsIn, req.CapabilitiesIn)
	case witsml.FunctionDeleteFromStore:
		resp = h.store.DeleteFromStore(ctx, req.WMLTypeIn, req.XMLIn, req.OptionsIn, req.CapabilitiesIn)
	case witsml.FunctionGetCap:
		resp = h.store.GetCap(ctx, req.OptionsIn)
	case witsml.FunctionGetVersion:
		resp = store.Response{Result: witsml.ErrorCodeSuccess, SuppMsgOut: h.store.GetVersion(ctx)}
	case witsml.FunctionGetBaseMsg:
		resp = store.Response{Result: witsml.ErrorCodeSuccess, SuppMsgOut: h.store.GetBaseMsg(ctx, req.ReturnValueIn)}
	default:
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("%s is served on /api/object", fn)})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetDiscovery lists the child resources of the uri query parameter.
func (h *Handler) handleGetDiscovery(w http.ResponseWriter, r *http.Request) {
	resources, err := h.store.GetResources(withEndpoint(r, witsml.EndpointEtp), r.URL.Query().Get("uri"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Resources []store.Resource `json:"resources"`
	}{Resources: resources})
}

// handleGetObject returns the XML of the object at the uri query parameter.
func (h *Handler) handleGetObject(w http.ResponseWriter, r *http.Request) {
	el, err := h.store.GetObject(withEndpoint(r, witsml.EndpointEtp), r.URL.Query().Get("uri"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	if _, err := io.WriteString(w, el.String()); err != nil {
		h.logger.Errorf("writing object response: %s", err)
	}
}

// handlePutObject stores the XML request body at the uri query parameter.
func (h *Handler) handlePutObject(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "reading body: " + err.Error()})
		return
	}
	id, err := h.store.PutObject(withEndpoint(r, witsml.EndpointEtp), r.URL.Query().Get("uri"), string(body))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, store.Response{Result: witsml.ErrorCodeSuccess, SuppMsgOut: id.Uid})
}

// handleDeleteObject deletes the object at the uri query parameter, with its
// children when cascade=true.
func (h *Handler) handleDeleteObject(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var cascade bool
	if v := q.Get("cascade"); v != "" {
		var err error
		if cascade, err = strconv.ParseBool(v); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid cascade: " + v})
			return
		}
	}
	if err := h.store.DeleteObject(withEndpoint(r, witsml.EndpointEtp), q.Get("uri"), cascade); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, store.Response{Result: witsml.ErrorCodeSuccess})
}
