/**
 * Copyright 2025-present The TRTL Apps Go Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package trtl

import (
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// DefaultAPIBase is the hosted TRTL Apps API.
const DefaultAPIBase = "https://trtlapps.io/api"

const defaultTimeout = 60 * time.Second

// Doer performs HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type settings struct {
	apiBase    string
	httpClient Doer
	timeout    time.Duration
}

// Option customizes a client during Initialize.
type Option func(*settings)

// WithAPIBase overrides the remote API base location.
func WithAPIBase(apiBase string) Option {
	return func(s *settings) {
		if apiBase != "" {
			s.apiBase = apiBase
		}
	}
}

// WithHTTPClient replaces the default transport.
func WithHTTPClient(d Doer) Option {
	return func(s *settings) {
		if d != nil {
			s.httpClient = d
		}
	}
}

// WithTimeout sets the overall request timeout of the default transport.
// It has no effect together with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Client talks to the TRTL Apps API on behalf of one app.
//
// The zero value is usable but not initialized: every operation returns a
// service/not-initialized error without touching the network until
// Initialize is called. Configure a client once before sharing it between
// goroutines; re-initializing concurrently with calls is not supported.
type Client struct {
	initialized bool
	appID       string
	appSecret   string
	apiBase     string
	httpClient  Doer
}

// New returns a client initialized with the app's id and secret.
func New(appID, appSecret string, opts ...Option) *Client {
	c := &Client{}
	c.Initialize(appID, appSecret, opts...)
	return c
}

// Initialize sets the app identity and credential used for all subsequent
// calls. Calling it again replaces the held configuration. The client stays
// uninitialized if either appID or appSecret is empty.
func (c *Client) Initialize(appID, appSecret string, opts ...Option) {
	s := settings{
		apiBase: DefaultAPIBase,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(&s)
	}

	if s.httpClient == nil {
		s.httpClient = newHTTPClient(s.timeout)
	}

	c.appID = appID
	c.appSecret = appSecret
	c.apiBase = strings.TrimRight(s.apiBase, "/")
	c.httpClient = s.httpClient
	c.initialized = appID != "" && appSecret != ""

	zap.L().Debug("TRTL Apps client initialized",
		zap.String("app_id", appID),
		zap.String("api_base", c.apiBase),
		zap.Bool("initialized", c.initialized))
}

// IsInitialized reports whether Initialize has been called with credentials.
func (c *Client) IsInitialized() bool {
	return c != nil && c.initialized
}

// AppID returns the configured app id.
func (c *Client) AppID() string {
	if c == nil {
		return ""
	}
	return c.appID
}

// APIBase returns the configured API base location.
func (c *Client) APIBase() string {
	if c == nil {
		return ""
	}
	return c.apiBase
}

func newHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		zap.L().Warn("HTTP/2 not available for TRTL Apps transport", zap.Error(err))
	}

	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}
}
