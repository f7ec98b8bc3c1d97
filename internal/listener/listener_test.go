package listener

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoidbergZA/trtl-apps-go/internal/models"
	"github.com/zoidbergZA/trtl-apps-go/trtl"
	"github.com/zoidbergZA/trtl-apps-go/webhook"
)

const testSecret = "app-secret"

type stubService struct {
	mu          sync.Mutex
	events      []webhook.Event
	sources     []string
	deposits    []string
	withdrawals []string
	handleErr   error
	syncErr     error
	healthErr   error
}

func (s *stubService) HandleEvent(ctx context.Context, event webhook.Event) (*models.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	s.sources = append(s.sources, models.SyncSource(ctx))
	if s.handleErr != nil {
		return nil, s.handleErr
	}
	id, _ := event.EntityID()
	return &models.SyncResult{Kind: event.Kind(), Id: id, Status: "completed", Advanced: true}, nil
}

func (s *stubService) SyncDeposit(ctx context.Context, id string) (*models.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deposits = append(s.deposits, id)
	s.sources = append(s.sources, models.SyncSource(ctx))
	if s.syncErr != nil {
		return nil, s.syncErr
	}
	return &models.SyncResult{Kind: "deposit", Id: id, Status: "confirming"}, nil
}

func (s *stubService) SyncWithdrawal(ctx context.Context, id string) (*models.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.withdrawals = append(s.withdrawals, id)
	s.sources = append(s.sources, models.SyncSource(ctx))
	if s.syncErr != nil {
		return nil, s.syncErr
	}
	return &models.SyncResult{Kind: "withdrawal", Id: id, Status: "completed", Journaled: true}, nil
}

func (s *stubService) snapshot() ([]webhook.Event, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]webhook.Event(nil), s.events...), append([]string(nil), s.sources...)
}

func (s *stubService) HealthCheck(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthErr
}

type stubTracker struct {
	deposits    []string
	withdrawals []string
	err         error
}

func (t *stubTracker) TrackDeposit(context.Context, trtl.Deposit) (bool, error) { return false, nil }

func (t *stubTracker) TrackWithdrawal(context.Context, trtl.Withdrawal) (bool, error) {
	return false, nil
}

func (t *stubTracker) PendingDeposits(context.Context) ([]string, error) {
	return t.deposits, t.err
}

func (t *stubTracker) PendingWithdrawals(context.Context) ([]string, error) {
	return t.withdrawals, t.err
}

func postWebhook(t *testing.T, srv *httptest.Server, body, signature string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/webhooks", strings.NewReader(body))
	require.NoError(t, err)
	if signature != "" {
		req.Header.Set(webhook.SignatureHeader, signature)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func newTestServer(t *testing.T, svc *stubService, verify bool) *httptest.Server {
	t.Helper()

	server := NewServer(ServerConfig{Service: svc, AppSecret: testSecret, VerifySignatures: verify})
	srv := httptest.NewServer(server.Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestWebhookStatusCodes(t *testing.T) {
	valid := `{"code":"deposit/completed","data":{"id":"dep-1"}}`
	oversized := strings.Repeat(" ", maxWebhookBody) + valid

	tests := []struct {
		name      string
		body      string
		signature string
		handleErr error
		want      int
		handled   int
	}{
		{name: "valid event", body: valid, signature: webhook.Sign(testSecret, []byte(valid)), want: http.StatusOK, handled: 1},
		{name: "missing signature", body: valid, want: http.StatusUnauthorized},
		{name: "wrong secret", body: valid, signature: webhook.Sign("other", []byte(valid)), want: http.StatusUnauthorized},
		{name: "tampered body", body: `{"code":"deposit/completed","data":{"id":"dep-2"}}`, signature: webhook.Sign(testSecret, []byte(valid)), want: http.StatusUnauthorized},
		{name: "malformed json", body: `{`, signature: webhook.Sign(testSecret, []byte(`{`)), want: http.StatusBadRequest},
		{name: "unknown code", body: `{"code":"app/updated","data":{}}`, signature: webhook.Sign(testSecret, []byte(`{"code":"app/updated","data":{}}`)), want: http.StatusBadRequest},
		{name: "oversized body", body: oversized, signature: webhook.Sign(testSecret, []byte(oversized)), want: http.StatusRequestEntityTooLarge},
		{name: "processing failure", body: valid, signature: webhook.Sign(testSecret, []byte(valid)), handleErr: errors.New("boom"), want: http.StatusInternalServerError, handled: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{handleErr: tt.handleErr}
			srv := newTestServer(t, svc, true)

			resp := postWebhook(t, srv, tt.body, tt.signature)
			assert.Equal(t, tt.want, resp.StatusCode)
			events, _ := svc.snapshot()
			assert.Len(t, events, tt.handled)
		})
	}
}

func TestWebhookMarksSource(t *testing.T) {
	svc := &stubService{}
	srv := newTestServer(t, svc, true)

	body := `{"code":"withdrawal/failed","data":{"id":"wd-1"}}`
	resp := postWebhook(t, srv, body, webhook.Sign(testSecret, []byte(body)))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	events, sources := svc.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, webhook.WithdrawalFailed, events[0].Code)
	assert.Equal(t, []string{models.SourceWebhook}, sources)
}

func TestWebhookWithoutVerification(t *testing.T) {
	svc := &stubService{}
	srv := newTestServer(t, svc, false)

	resp := postWebhook(t, srv, `{"code":"deposit/confirming","data":{"id":"dep-1"}}`, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	events, _ := svc.snapshot()
	assert.Len(t, events, 1)
}

func TestHealthAndMetrics(t *testing.T) {
	svc := &stubService{}
	srv := newTestServer(t, svc, true)

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	svc.mu.Lock()
	svc.healthErr = trtl.NewServiceError(trtl.CodeUnauthorized, "")
	svc.mu.Unlock()
	resp, err = srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = srv.Client().Get(srv.URL + "/webhooks")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestPollPending(t *testing.T) {
	svc := &stubService{}
	tracker := &stubTracker{
		deposits:    []string{"dep-1", "dep-2"},
		withdrawals: []string{"wd-1"},
	}
	poller := NewPoller(PollerConfig{Service: svc, Tracker: tracker, PollingInterval: time.Minute})

	stats := poller.pollPending(context.Background())
	assert.Equal(t, pollStats{synced: 3}, stats)
	assert.ElementsMatch(t, []string{"dep-1", "dep-2"}, svc.deposits)
	assert.Equal(t, []string{"wd-1"}, svc.withdrawals)
	for _, source := range svc.sources {
		assert.Equal(t, models.SourcePoller, source)
	}
}

func TestPollPendingCountsFailures(t *testing.T) {
	svc := &stubService{syncErr: trtl.NewServiceError(trtl.CodeServiceHalted, "")}
	tracker := &stubTracker{deposits: []string{"dep-1"}, withdrawals: []string{"wd-1"}}
	poller := NewPoller(PollerConfig{Service: svc, Tracker: tracker, PollingInterval: time.Minute})

	stats := poller.pollPending(context.Background())
	assert.Equal(t, pollStats{failed: 2}, stats)
}

func TestPollPendingNothingToDo(t *testing.T) {
	svc := &stubService{}
	poller := NewPoller(PollerConfig{Service: svc, Tracker: &stubTracker{}, PollingInterval: time.Minute})

	assert.Equal(t, pollStats{}, poller.pollPending(context.Background()))
	assert.Empty(t, svc.deposits)
}

func TestPollerStartStop(t *testing.T) {
	svc := &stubService{}
	tracker := &stubTracker{deposits: []string{"dep-1"}}
	poller := NewPoller(PollerConfig{Service: svc, Tracker: tracker, PollingInterval: time.Hour})

	require.NoError(t, poller.Start(context.Background()))

	assert.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return len(svc.deposits) == 1
	}, time.Second, 10*time.Millisecond)

	poller.Stop()
	poller.Stop()
}

func TestPollerRejectsZeroInterval(t *testing.T) {
	poller := NewPoller(PollerConfig{Service: &stubService{}, Tracker: &stubTracker{}})
	assert.Error(t, poller.Start(context.Background()))
}
