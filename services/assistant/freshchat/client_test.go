// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the Freshchat REST client.

package freshchat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		httpClient: srv.Client(),
		baseURL:    srv.URL,
		apiKey:     "test-key",
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", "key", 10)
	require.Error(t, err)

	_, err = NewClient("acme.freshchat.com", "", 10)
	require.Error(t, err)

	client, err := NewClient("acme.freshchat.com/", "key", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.freshchat.com", client.baseURL)
}

func TestListUsersRequestShape(t *testing.T) {
	var gotAuth string
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"users":[{"id":"u1"}],"pagination":{"current_page":1,"total_pages":1}}`))
	}))
	defer srv.Close()

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	page, err := testClient(srv).ListUsers(context.Background(), from, to, 3)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "2026-01-01T00:00:00Z", gotQuery["created_from"])
	assert.Equal(t, "2026-02-01T00:00:00Z", gotQuery["created_to"])
	assert.Equal(t, "3", gotQuery["page"])
	assert.Equal(t, "1000", gotQuery["per_page"])

	require.Len(t, page.Users, 1)
	assert.Equal(t, "u1", page.Users[0].ID)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
}

func TestGetConversationMessagesDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/conversations/c1/messages", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages":[
			{"id":"m1","actor_type":"user","message_type":"normal",
			 "timestamp":"2026-01-01T00:00:00Z",
			 "message_parts":[{"text":{"content":"hello"}}]},
			{"id":"m2","actor_type":"agent","message_type":"normal",
			 "message_parts":[{"image":{"url":"x"}}]}
		]}`))
	}))
	defer srv.Close()

	messages, err := testClient(srv).GetConversationMessages(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "user", messages[0].ActorType)
	require.Len(t, messages[0].MessageParts, 1)
	require.NotNil(t, messages[0].MessageParts[0].Text)
	assert.Equal(t, "hello", messages[0].MessageParts[0].Text.Content)

	// Non-text parts decode with a nil Text.
	require.Len(t, messages[1].MessageParts, 1)
	assert.Nil(t, messages[1].MessageParts[0].Text)
}

func TestGetReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).GetConversation(context.Background(), "c1")
	require.Error(t, err)

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "rate limited")
	assert.Contains(t, apiErr.Endpoint, "/v2/conversations/c1")
}

func TestTestConnectionEchoesUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/agents", r.URL.Path)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer srv.Close()

	status, body, err := testClient(srv).TestConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, body, "invalid credentials")
}

func TestTestConnectionSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"agents":[]}`))
	}))
	defer srv.Close()

	status, _, err := testClient(srv).TestConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}

func TestRateLimiterHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := testClient(srv)
	// A zero-rate limiter never grants a token, so the call must fail with
	// the context error instead of hanging.
	client.limiter = rate.NewLimiter(0, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GetConversation(ctx, "c1")
	require.Error(t, err)
}
