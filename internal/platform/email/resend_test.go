package email

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattdotroberts/on-this-day/internal/config"
)

func TestNotifyComplete_SendsRequest(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewResendNotifier(nil, config.EmailConfig{
		ResendAPIKey: "re_test_key",
		FromAddress:  "A Year's History <noreply@resend.dev>",
		AppURL:       "https://example.com",
	})
	n.endpoint = srv.URL

	bookID := uuid.New()
	err := n.NotifyComplete(context.Background(), "reader@example.com", bookID, "Alex")
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test_key", gotAuth)
	assert.Equal(t, []string{"reader@example.com"}, gotBody.To)
	assert.Equal(t, "A Year's History <noreply@resend.dev>", gotBody.From)
	assert.Contains(t, gotBody.Subject, "is ready")
	assert.Contains(t, gotBody.HTML, bookID.String())
	assert.Contains(t, gotBody.HTML, "365 unique historical entries")
}

func TestNotifyFailed_SendsRequest(t *testing.T) {
	t.Parallel()

	var gotBody sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewResendNotifier(nil, config.EmailConfig{
		ResendAPIKey: "re_test_key",
		AppURL:       "https://example.com",
	})
	n.endpoint = srv.URL

	err := n.NotifyFailed(context.Background(), "reader@example.com", "Alex")
	require.NoError(t, err)

	assert.Contains(t, gotBody.Subject, "Issue with your book")
	assert.Contains(t, gotBody.HTML, "https://example.com/my-books")
}

func TestSend_DisabledWithoutAPIKey(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made when email is disabled")
	}))
	defer srv.Close()

	n := NewResendNotifier(nil, config.EmailConfig{})
	n.endpoint = srv.URL

	assert.NoError(t, n.NotifyComplete(context.Background(), "reader@example.com", uuid.New(), "Alex"))
	assert.NoError(t, n.NotifyFailed(context.Background(), "reader@example.com", "Alex"))
}

func TestSend_ProviderErrorIsReturned(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer srv.Close()

	n := NewResendNotifier(nil, config.EmailConfig{ResendAPIKey: "re_test_key"})
	n.endpoint = srv.URL

	err := n.NotifyFailed(context.Background(), "reader@example.com", "Alex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "invalid from address")
}
