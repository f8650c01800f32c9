package email_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/config"
	"dealdesk/internal/infrastructure/email"
	"dealdesk/internal/utils/platformerrors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*email.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		EmailAPIURL:  srv.URL,
		EmailAPIKey:  "re_test_key",
		EmailFrom:    "deals@dealdesk.app",
		EmailEnabled: true,
	}
	return email.NewClient(cfg, zerolog.Nop()), srv
}

func TestNewClientNilWhenDisabled(t *testing.T) {
	cfg := &config.Config{
		EmailAPIURL:  "https://api.resend.com",
		EmailAPIKey:  "re_test_key",
		EmailEnabled: false,
	}
	assert.Nil(t, email.NewClient(cfg, zerolog.Nop()))
}

func TestSendPostsResendPayload(t *testing.T) {
	var got struct {
		From    string   `json:"from"`
		To      []string `json:"to"`
		Subject string   `json:"subject"`
		HTML    string   `json:"html"`
	}
	var auth string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	})

	err := client.Send(context.Background(), "brand@acme.example", "Deal update", "<p>Hi</p>")
	require.NoError(t, err)
	assert.Equal(t, "Bearer re_test_key", auth)
	assert.Equal(t, "deals@dealdesk.app", got.From)
	assert.Equal(t, []string{"brand@acme.example"}, got.To)
	assert.Equal(t, "Deal update", got.Subject)
}

func TestSendRejectsInvalidRecipient(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	err := client.Send(context.Background(), "not-an-address", "x", "y")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.False(t, called, "no request may reach the provider for a bad recipient")
}

func TestSendMapsAuthFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := client.Send(context.Background(), "brand@acme.example", "x", "y")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized))
}

func TestSendMapsUnprocessablePayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	err := client.Send(context.Background(), "brand@acme.example", "x", "y")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}
