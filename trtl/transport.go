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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zoidbergZA/trtl-apps-go/internal/metrics"
)

// RequestIDHeader carries a per-call id for correlating client and service logs.
const RequestIDHeader = "X-Request-Id"

const maxResponseBytes = 4 << 20

func errNotInitialized() error {
	return NewServiceError(CodeNotInitialized, "")
}

func invalidParams(message string) error {
	return NewServiceError(CodeInvalidParams, message)
}

// appPath joins escaped segments under the app's namespace.
func (c *Client) appPath(segments ...string) string {
	return servicePath(append([]string{c.appID}, segments...)...)
}

func servicePath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/")
}

// do performs a single API call and decodes a 2xx body into a new T.
// Any failure comes back as a *ServiceError. A success body of null is
// treated as undecodable.
func do[T any](ctx context.Context, c *Client, op, method, path string, query url.Values, body any) (*T, error) {
	var out *T
	if err := c.call(ctx, op, method, path, query, body, &out); err != nil {
		return nil, err
	}
	if out == nil {
		zap.L().Warn("Empty TRTL Apps response", zap.String("operation", op))
		return nil, NewServiceError(CodeUnknown, "")
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	if !c.IsInitialized() {
		return errNotInitialized()
	}

	endpoint := c.apiBase + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return invalidParams("unable to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		zap.L().Error("Unable to build TRTL Apps request",
			zap.String("operation", op),
			zap.String("path", path),
			zap.Error(err))
		return NewServiceError(CodeUnknown, "")
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.appSecret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		zap.L().Warn("TRTL Apps request failed",
			zap.String("operation", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return observe(op, start, NewServiceError(CodeUnknown, ""))
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zap.L().Debug("Failed to close response body", zap.Error(err))
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	zap.L().Debug("TRTL Apps API call",
		zap.String("operation", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return observe(op, start, decodeServiceError(raw))
	}
	if err != nil {
		return observe(op, start, NewServiceError(CodeUnknown, ""))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			zap.L().Warn("Unable to decode TRTL Apps response",
				zap.String("operation", op),
				zap.String("request_id", requestID),
				zap.Error(err))
			return observe(op, start, NewServiceError(CodeUnknown, ""))
		}
	}

	metrics.ObserveCall(op, "ok", time.Since(start).Seconds())
	return nil
}

// decodeServiceError maps an error response body onto a ServiceError, falling
// back to the generic unknown error when the body carries no error code.
func decodeServiceError(raw []byte) *ServiceError {
	var se ServiceError
	if err := json.Unmarshal(raw, &se); err != nil || se.Code == "" {
		return NewServiceError(CodeUnknown, "")
	}
	return NewServiceError(se.Code, se.Message)
}

func observe(op string, start time.Time, se *ServiceError) error {
	metrics.ObserveCall(op, string(se.Code), time.Since(start).Seconds())
	return se
}
