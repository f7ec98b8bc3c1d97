package trtl

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDoer struct {
	calls int
	err   error
}

func (d *countingDoer) Do(*http.Request) (*http.Response, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return nil, errors.New("unexpected call")
}

func TestInitialize(t *testing.T) {
	var c Client
	assert.False(t, c.IsInitialized())

	c.Initialize("app", "secret", WithAPIBase("http://localhost:9000/api/"))
	assert.True(t, c.IsInitialized())
	assert.Equal(t, "app", c.AppID())
	assert.Equal(t, "http://localhost:9000/api", c.APIBase())

	c.Initialize("other", "secret2")
	assert.Equal(t, "other", c.AppID())
	assert.Equal(t, DefaultAPIBase, c.APIBase())

	c.Initialize("app", "")
	assert.False(t, c.IsInitialized())

	var nilClient *Client
	assert.False(t, nilClient.IsInitialized())
	assert.Empty(t, nilClient.AppID())
}

func TestUninitializedClientMakesNoCalls(t *testing.T) {
	doer := &countingDoer{}
	c := New("", "", WithHTTPClient(doer))
	ctx := context.Background()

	checks := map[string]func() error{
		"CreateAccount": func() error { _, err := c.CreateAccount(ctx); return err },
		"GetAccount":    func() error { _, err := c.GetAccount(ctx, "a1"); return err },
		"ListAccounts":  func() error { _, err := c.ListAccounts(ctx, ListAccountsOptions{}); return err },
		"GetDeposit":    func() error { _, err := c.GetDeposit(ctx, "d1"); return err },
		"SetWithdrawAddress": func() error {
			_, err := c.SetWithdrawAddress(ctx, "a1", "TRTLaddr")
			return err
		},
		"Transfer":    func() error { _, err := c.Transfer(ctx, "a1", "a2", 10); return err },
		"GetTransfer": func() error { _, err := c.GetTransfer(ctx, "t1"); return err },
		"GetFee":      func() error { _, err := c.GetFee(ctx); return err },
		"WithdrawalPreview": func() error {
			_, err := c.WithdrawalPreview(ctx, "a1", 10, "")
			return err
		},
		"Withdraw":        func() error { _, err := c.Withdraw(ctx, "p1"); return err },
		"GetWithdrawal":   func() error { _, err := c.GetWithdrawal(ctx, "w1"); return err },
		"ValidateAddress": func() error { _, err := c.ValidateAddress(ctx, "TRTLaddr", false); return err },
	}

	for name, call := range checks {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotInitialized)

			var se *ServiceError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "Service not initialized.", se.Message)
		})
	}

	assert.Zero(t, doer.calls)
}

func TestZeroValueClientIsNotInitialized(t *testing.T) {
	var c Client
	account, err := c.GetAccount(context.Background(), "a1")
	assert.Nil(t, account)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestTransportFailureIsUnknown(t *testing.T) {
	doer := &countingDoer{err: errors.New("connection refused")}
	c := New("app", "secret", WithHTTPClient(doer))

	account, err := c.GetAccount(context.Background(), "a1")
	assert.Nil(t, account)
	assert.ErrorIs(t, err, ErrUnknown)
	assert.Equal(t, 1, doer.calls)
}
