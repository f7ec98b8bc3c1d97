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

// Package webhook verifies and decodes the callbacks TRTL Apps posts to an
// app's webhook endpoint.
//
// Each callback body is signed with the app secret. The signature travels in
// the SignatureHeader header as "sha256=" followed by the hex encoded
// HMAC-SHA256 of the raw request body.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SignatureHeader is the request header carrying the body signature.
const SignatureHeader = "x-trtl-apps-signature"

const signaturePrefix = "sha256="

// Event codes sent by the service.
const (
	DepositConfirming    = "deposit/confirming"
	DepositCompleted     = "deposit/completed"
	WithdrawalConfirming = "withdrawal/confirming"
	WithdrawalCompleted  = "withdrawal/completed"
	WithdrawalFailed     = "withdrawal/failed"
)

// Kinds returned by Event.Kind.
const (
	KindDeposit    = "deposit"
	KindWithdrawal = "withdrawal"
)

var (
	ErrMalformedEvent = errors.New("malformed webhook event")
	ErrUnknownEvent   = errors.New("unknown webhook event code")
)

// Sign returns the signature the service attaches to body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches body under secret. An empty secret
// never verifies.
func Verify(secret, signature string, body []byte) bool {
	if secret == "" || !strings.HasPrefix(signature, signaturePrefix) {
		return false
	}
	got, err := hex.DecodeString(strings.TrimPrefix(signature, signaturePrefix))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Event is a single webhook callback. Data holds the deposit or withdrawal the
// event refers to, in the same JSON shape the API returns.
type Event struct {
	Code string          `json:"code"`
	Data json.RawMessage `json:"data"`
}

// ParseEvent decodes body and rejects unknown codes or a missing payload.
func ParseEvent(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if len(ev.Data) == 0 || string(ev.Data) == "null" {
		return Event{}, fmt.Errorf("%w: missing data", ErrMalformedEvent)
	}
	if ev.Kind() == "" {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Code)
	}
	return ev, nil
}

// Kind is KindDeposit or KindWithdrawal, or "" for codes this package does
// not know.
func (e Event) Kind() string {
	switch e.Code {
	case DepositConfirming, DepositCompleted:
		return KindDeposit
	case WithdrawalConfirming, WithdrawalCompleted, WithdrawalFailed:
		return KindWithdrawal
	}
	return ""
}

// EntityID returns the id of the deposit or withdrawal carried in Data.
func (e Event) EntityID() (string, error) {
	var ref struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(e.Data, &ref); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if ref.ID == "" {
		return "", fmt.Errorf("%w: missing id", ErrMalformedEvent)
	}
	return ref.ID, nil
}
