package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Push(t *testing.T) {
	t.Parallel()

	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/message/push", r.URL.Path)
		assert.Equal(t, "Bearer channel-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer server.Close()

	client := New("channel-token", nil, WithBaseURL(server.URL))
	err := client.Push(context.Background(), "U123", TextMessage("hello"))
	require.NoError(t, err)

	assert.Equal(t, "U123", got["to"])
	messages := got["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].(map[string]any)["text"])
}

func TestClient_Broadcast(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/message/broadcast", r.URL.Path)
	}))
	defer server.Close()

	client := New("channel-token", nil, WithBaseURL(server.URL))
	require.NoError(t, client.Broadcast(context.Background(), "news"))
}

func TestClient_MulticastEmptyRecipients(t *testing.T) {
	t.Parallel()

	// Must not hit the API at all.
	client := New("channel-token", nil, WithBaseURL("http://127.0.0.1:1"))
	require.NoError(t, client.Multicast(context.Background(), nil, TextMessage("hi")))
}

func TestClient_MissingTokenSkips(t *testing.T) {
	t.Parallel()

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := New("", nil, WithBaseURL(server.URL))
	require.NoError(t, client.Push(context.Background(), "U123", TextMessage("hello")))
	assert.False(t, called)
}

func TestClient_APIErrorSurfaces(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid reply token"}`))
	}))
	defer server.Close()

	client := New("channel-token", nil, WithBaseURL(server.URL))
	err := client.Reply(context.Background(), "stale-token", TextMessage("hi"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New("channel-token", nil, WithBaseURL(server.URL))
	for i := 0; i < 5; i++ {
		require.Error(t, client.Broadcast(context.Background(), "x"))
	}

	server.Close()
	// The open breaker fails fast without dialing the dead server.
	err := client.Broadcast(context.Background(), "x")
	require.Error(t, err)
}
