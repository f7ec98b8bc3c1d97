package webhook

import (
	"errors"
	"strings"
	"testing"
)

func TestSignVerify(t *testing.T) {
	body := []byte(`{"code":"deposit/completed","data":{"id":"dep-1"}}`)
	sig := Sign("secret", body)

	if !strings.HasPrefix(sig, "sha256=") {
		t.Fatalf("signature %q lacks prefix", sig)
	}
	if len(sig) != len("sha256=")+64 {
		t.Fatalf("signature length = %d", len(sig))
	}
	if !Verify("secret", sig, body) {
		t.Fatal("valid signature rejected")
	}

	tests := []struct {
		name   string
		secret string
		sig    string
		body   []byte
	}{
		{"wrong secret", "other", sig, body},
		{"tampered body", "secret", sig, []byte(`{"code":"deposit/completed","data":{"id":"dep-2"}}`)},
		{"missing prefix", "secret", strings.TrimPrefix(sig, "sha256="), body},
		{"not hex", "secret", "sha256=zz", body},
		{"empty secret", "", Sign("", body), body},
		{"empty signature", "secret", "", body},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Verify(tt.secret, tt.sig, tt.body) {
				t.Error("expected verification to fail")
			}
		})
	}
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"code":"withdrawal/failed","data":{"id":"wd-9","failed":true}}`))
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	if ev.Kind() != KindWithdrawal {
		t.Errorf("Kind() = %q, want %q", ev.Kind(), KindWithdrawal)
	}
	id, err := ev.EntityID()
	if err != nil || id != "wd-9" {
		t.Errorf("EntityID() = %q, %v", id, err)
	}

	ev, err = ParseEvent([]byte(`{"code":"deposit/confirming","data":{"id":"dep-1"}}`))
	if err != nil || ev.Kind() != KindDeposit {
		t.Errorf("deposit event: %+v, %v", ev, err)
	}
}

func TestParseEventErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"not json", `nope`, ErrMalformedEvent},
		{"no data", `{"code":"deposit/completed"}`, ErrMalformedEvent},
		{"null data", `{"code":"deposit/completed","data":null}`, ErrMalformedEvent},
		{"unknown code", `{"code":"app/created","data":{"id":"x"}}`, ErrUnknownEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent([]byte(tt.body))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEntityIDMissing(t *testing.T) {
	ev := Event{Code: DepositCompleted, Data: []byte(`{"amount":5}`)}
	if _, err := ev.EntityID(); !errors.Is(err, ErrMalformedEvent) {
		t.Errorf("err = %v, want ErrMalformedEvent", err)
	}
}
