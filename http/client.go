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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/store"
)

// Client talks to the JSON transport of a WITSML store.
type Client struct {
	base string

	// Authorization is sent with every request when set.
	Authorization string

	// The client to use for HTTP communication.
	httpClient *http.Client
}

// NewClient returns a client of the store at host, which may omit the scheme.
func NewClient(host string, httpClient *http.Client) (*Client, error) {
	if host == "" {
		return nil, errors.New(errors.ErrUncoded, "host required")
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, errors.Wrap(err, "parsing host")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		base:       strings.TrimSuffix(u.String(), "/"),
		httpClient: httpClient,
	}, nil
}

// Call posts req to fn and returns the store response. A failed store
// function is not an error: its code is in the response.
func (c *Client) Call(ctx context.Context, fn witsml.Function, req FunctionRequest) (store.Response, error) {
	var rsp store.Response
	buf, err := json.Marshal(req)
	if err != nil {
		return rsp, errors.Wrap(err, "marshaling request")
	}
	err = c.do(ctx, "POST", "/api/"+string(fn), nil, "application/json", bytes.NewReader(buf), &rsp)
	return rsp, err
}

// Version returns the supported data versions.
func (c *Client) Version(ctx context.Context) (string, error) {
	var rsp struct {
		Versions string `json:"versions"`
	}
	err := c.do(ctx, "GET", "/api/version", nil, "", nil, &rsp)
	return rsp.Versions, err
}

// Resources lists the child resources of uri.
func (c *Client) Resources(ctx context.Context, uri string) ([]store.Resource, error) {
	var rsp struct {
		Resources []store.Resource `json:"resources"`
	}
	err := c.do(ctx, "GET", "/api/discovery", url.Values{"uri": {uri}}, "", nil, &rsp)
	return rsp.Resources, err
}

// GetObject returns the XML of the object at uri.
func (c *Client) GetObject(ctx context.Context, uri string) (string, error) {
	var buf bytes.Buffer
	err := c.do(ctx, "GET", "/api/object", url.Values{"uri": {uri}}, "", nil, &buf)
	return buf.String(), err
}

// PutObject stores xml at uri and returns the object uid.
func (c *Client) PutObject(ctx context.Context, uri, xml string) (string, error) {
	var rsp store.Response
	err := c.do(ctx, "PUT", "/api/object", url.Values{"uri": {uri}}, "application/xml", strings.NewReader(xml), &rsp)
	return rsp.SuppMsgOut, err
}

// DeleteObject deletes the object at uri.
func (c *Client) DeleteObject(ctx context.Context, uri string, cascade bool) error {
	q := url.Values{"uri": {uri}, "cascade": {strconv.FormatBool(cascade)}}
	return c.do(ctx, "DELETE", "/api/object", q, "", nil, nil)
}

// do executes a request and decodes the response into out: a *bytes.Buffer
// receives the raw body, anything else is decoded as JSON. Object endpoint
// failures come back as errors carrying their result code.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, contentType string, body io.Reader, out interface{}) error {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("User-Agent", "witsml/"+witsml.Version)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Authorization != "" {
		req.Header.Set("Authorization", c.Authorization)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "getting response")
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "reading body of %s", resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var sr store.Response
		if err := json.Unmarshal(buf, &sr); err == nil && sr.Result != 0 {
			return witsml.NewError(sr.Result.Code(), "%s", sr.SuppMsgOut)
		}
		var er errorResponse
		if err := json.Unmarshal(buf, &er); err == nil && er.Error != "" {
			return errors.Errorf("against %s %s: '%s'", req.URL.String(), resp.Status, er.Error)
		}
		return errors.Errorf("against %s %s: '%s'", req.URL.String(), resp.Status, buf)
	}

	switch out := out.(type) {
	case nil:
		return nil
	case *bytes.Buffer:
		_, err := out.Write(buf)
		return err
	default:
		return errors.Wrap(json.Unmarshal(buf, out), "json decode")
	}
}
