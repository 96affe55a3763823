// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package freshchat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const usersPerPage = 1000

// API is the subset of the Freshchat REST API the crawler needs. The crawler
// depends on this interface so tests can drive it with a scripted fake.
type API interface {
	ListUsers(ctx context.Context, from, to time.Time, page int) (*UserPage, error)
	GetUserConversations(ctx context.Context, userID string, page int) (*ConversationPage, error)
	GetConversation(ctx context.Context, conversationID string) (*ConversationDetail, error)
	GetConversationMessages(ctx context.Context, conversationID string) ([]Message, error)
}

// Client calls the Freshchat REST API with bearer auth and a shared
// token-bucket rate limiter so sequential crawls stay under the vendor's
// request ceiling regardless of which endpoint is hit.
//
// # Thread Safety
//
// Client is safe for concurrent use. The limiter serializes request pacing
// across goroutines.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// NewClient builds a client for the given Freshchat domain (e.g.
// "acme.freshchat.com"). requestsPerSecond <= 0 falls back to 10, which
// matches the vendor's documented per-app ceiling.
func NewClient(domain, apiKey string, requestsPerSecond float64) (*Client, error) {
	if domain == "" {
		return nil, fmt.Errorf("freshchat domain is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("freshchat API key is required")
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}

	baseURL := "https://" + strings.TrimSuffix(domain, "/")
	slog.Info("Initializing Freshchat client", "base_url", baseURL, "rate", requestsPerSecond)

	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}, nil
}

// get performs a rate-limited GET and decodes the JSON body into target.
// Non-2xx responses come back as *APIError.
func (c *Client) get(ctx context.Context, path string, query url.Values, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait canceled: %w", err)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Endpoint: path, Body: string(body)}
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// ListUsers fetches one page of users created inside the [from, to] window.
func (c *Client) ListUsers(ctx context.Context, from, to time.Time, page int) (*UserPage, error) {
	query := url.Values{}
	query.Set("created_from", from.UTC().Format(time.RFC3339))
	query.Set("created_to", to.UTC().Format(time.RFC3339))
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(usersPerPage))

	var result UserPage
	if err := c.get(ctx, "/v2/users", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUserConversations fetches one page of a user's conversation listing.
func (c *Client) GetUserConversations(ctx context.Context, userID string, page int) (*ConversationPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	var result ConversationPage
	if err := c.get(ctx, "/v2/users/"+userID+"/conversations", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetConversation fetches the detail record for one conversation.
func (c *Client) GetConversation(ctx context.Context, conversationID string) (*ConversationDetail, error) {
	var result ConversationDetail
	if err := c.get(ctx, "/v2/conversations/"+conversationID, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetConversationMessages fetches all messages of one conversation.
func (c *Client) GetConversationMessages(ctx context.Context, conversationID string) ([]Message, error) {
	var result messagesResponse
	if err := c.get(ctx, "/v2/conversations/"+conversationID+"/messages", nil, &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}

// TestConnection probes the agents listing and reports the upstream status
// and body verbatim. This is the one path that intentionally leaks upstream
// detail, for operators diagnosing credential or domain problems.
func (c *Client) TestConnection(ctx context.Context) (int, string, error) {
	err := c.get(ctx, "/v2/agents", nil, nil)
	if err == nil {
		return http.StatusOK, "", nil
	}
	if apiErr, ok := IsAPIError(err); ok {
		return apiErr.StatusCode, apiErr.Body, nil
	}
	return 0, "", err
}
