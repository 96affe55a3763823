// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the historical crawler.

package freshchat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianSupport/services/assistant/datatypes"
)

// fakeAPI scripts the Freshchat API for crawler tests.
type fakeAPI struct {
	userPages map[int]*UserPage
	convPages map[string]map[int]*ConversationPage
	details   map[string]*ConversationDetail
	messages  map[string][]Message

	userPageCalls int
	convPageCalls int
	failDetailFor map[string]bool
	failUserPages bool
	failConvPages map[string]bool
}

func (f *fakeAPI) ListUsers(ctx context.Context, from, to time.Time, page int) (*UserPage, error) {
	f.userPageCalls++
	if f.failUserPages {
		return nil, &APIError{StatusCode: 500, Endpoint: "/v2/users", Body: "upstream down"}
	}
	if p, ok := f.userPages[page]; ok {
		return p, nil
	}
	return &UserPage{}, nil
}

func (f *fakeAPI) GetUserConversations(ctx context.Context, userID string, page int) (*ConversationPage, error) {
	f.convPageCalls++
	if f.failConvPages[userID] {
		return nil, &APIError{StatusCode: 500, Endpoint: "/v2/users/" + userID + "/conversations", Body: "boom"}
	}
	if pages, ok := f.convPages[userID]; ok {
		if p, ok := pages[page]; ok {
			return p, nil
		}
	}
	return &ConversationPage{}, nil
}

func (f *fakeAPI) GetConversation(ctx context.Context, conversationID string) (*ConversationDetail, error) {
	if f.failDetailFor[conversationID] {
		return nil, &APIError{StatusCode: 500, Endpoint: "/v2/conversations/" + conversationID, Body: "boom"}
	}
	if d, ok := f.details[conversationID]; ok {
		return d, nil
	}
	return &ConversationDetail{ID: conversationID, Status: "resolved"}, nil
}

func (f *fakeAPI) GetConversationMessages(ctx context.Context, conversationID string) ([]Message, error) {
	return f.messages[conversationID], nil
}

// fakeWriter records every write and can simulate duplicates.
type fakeWriter struct {
	written    []datatypes.NormalizedConversation
	duplicates map[string]bool
	failFor    map[string]bool
}

func (w *fakeWriter) WriteIfAbsent(ctx context.Context, conv datatypes.NormalizedConversation) (bool, error) {
	if w.failFor[conv.SourceID] {
		return false, fmt.Errorf("store unavailable")
	}
	if w.duplicates[conv.SourceID] {
		return false, nil
	}
	w.written = append(w.written, conv)
	return true, nil
}

func convRefs(ids ...string) []ConversationRef {
	refs := make([]ConversationRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, ConversationRef{ID: id})
	}
	return refs
}

func singleUserAPI(userID string, pages map[int]*ConversationPage) *fakeAPI {
	return &fakeAPI{
		userPages: map[int]*UserPage{
			1: {
				Users:      []User{{ID: userID}},
				Pagination: PagePagination{CurrentPage: 1, TotalPages: 1},
			},
		},
		convPages: map[string]map[int]*ConversationPage{userID: pages},
	}
}

func TestIngestHistoryPaginationStopsAfterLastPage(t *testing.T) {
	api := singleUserAPI("user-1", map[int]*ConversationPage{
		1: {Conversations: convRefs("c1", "c2"), Pagination: &CursorPagination{HasNext: true}},
		2: {Conversations: convRefs("c3"), Pagination: &CursorPagination{HasNext: false}},
	})
	writer := &fakeWriter{}

	stats, err := NewCrawler(api, writer).IngestHistory(context.Background(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ProcessedUsers)
	assert.Equal(t, 3, stats.TotalConversations)
	// Exactly two page fetches: the second page reports has_next=false, so
	// no probe request for a third page is made.
	assert.Equal(t, 2, api.convPageCalls)
}

func TestIngestHistoryEmptyPageTerminates(t *testing.T) {
	api := singleUserAPI("user-1", map[int]*ConversationPage{
		1: {Conversations: convRefs("c1"), Pagination: &CursorPagination{HasNext: true}},
		2: {Conversations: nil, Pagination: &CursorPagination{HasNext: true}},
	})
	writer := &fakeWriter{}

	stats, err := NewCrawler(api, writer).IngestHistory(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalConversations)
	assert.Equal(t, 2, api.convPageCalls)
}

func TestIngestHistoryUserPagination(t *testing.T) {
	api := &fakeAPI{
		userPages: map[int]*UserPage{
			1: {Users: []User{{ID: "u1"}, {ID: "u2"}}, Pagination: PagePagination{CurrentPage: 1, TotalPages: 2}},
			2: {Users: []User{{ID: "u3"}}, Pagination: PagePagination{CurrentPage: 2, TotalPages: 2}},
		},
		convPages: map[string]map[int]*ConversationPage{},
	}
	writer := &fakeWriter{}

	stats, err := NewCrawler(api, writer).IngestHistory(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.ProcessedUsers)
	assert.Equal(t, 0, stats.TotalConversations)
	assert.Equal(t, 2, api.userPageCalls)
}

func TestIngestHistoryPartialFailureIsolation(t *testing.T) {
	api := singleUserAPI("user-1", map[int]*ConversationPage{
		1: {Conversations: convRefs("c1", "c2", "c3", "c4", "c5")},
	})
	api.failDetailFor = map[string]bool{"c3": true}
	writer := &fakeWriter{}

	stats, err := NewCrawler(api, writer).IngestHistory(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalConversations)
	require.Len(t, writer.written, 4)
	for _, conv := range writer.written {
		assert.NotEqual(t, "c3", conv.SourceID)
	}
}

func TestIngestHistoryStoreFailureSkipsConversation(t *testing.T) {
	api := singleUserAPI("user-1", map[int]*ConversationPage{
		1: {Conversations: convRefs("c1", "c2")},
	})
	writer := &fakeWriter{failFor: map[string]bool{"c1": true}}

	stats, err := NewCrawler(api, writer).IngestHistory(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalConversations)
}

func TestIngestHistoryDuplicatesCountAsProcessed(t *testing.T) {
	api := singleUserAPI("user-1", map[int]*ConversationPage{
		1: {Conversations: convRefs("c1", "c2")},
	})
	writer := &fakeWriter{duplicates: map[string]bool{"c1": true}}

	stats, err := NewCrawler(api, writer).IngestHistory(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	// A dedup no-op is still a successfully processed conversation.
	assert.Equal(t, 2, stats.TotalConversations)
	require.Len(t, writer.written, 1)
	assert.Equal(t, "c2", writer.written[0].SourceID)
}

func TestIngestHistoryUserEnumerationFailureIsFatal(t *testing.T) {
	api := &fakeAPI{failUserPages: true}
	writer := &fakeWriter{}

	_, err := NewCrawler(api, writer).IngestHistory(context.Background(), time.Now().Add(-time.Hour))
	require.Error(t, err)

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 500, apiErr.StatusCode)
}

func TestIngestHistoryBrokenUserDoesNotAbortCrawl(t *testing.T) {
	api := &fakeAPI{
		userPages: map[int]*UserPage{
			1: {Users: []User{{ID: "bad"}, {ID: "good"}}, Pagination: PagePagination{CurrentPage: 1, TotalPages: 1}},
		},
		convPages: map[string]map[int]*ConversationPage{
			"good": {1: {Conversations: convRefs("c9")}},
		},
		failConvPages: map[string]bool{"bad": true},
	}
	writer := &fakeWriter{}

	stats, err := NewCrawler(api, writer).IngestHistory(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ProcessedUsers)
	assert.Equal(t, 1, stats.TotalConversations)
}

func TestIngestHistoryHonorsCancellation(t *testing.T) {
	api := singleUserAPI("user-1", map[int]*ConversationPage{
		1: {Conversations: convRefs("c1")},
	})
	writer := &fakeWriter{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCrawler(api, writer).IngestHistory(ctx, time.Now().Add(-time.Hour))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngestHistoryNormalizedContent(t *testing.T) {
	api := singleUserAPI("user-1", map[int]*ConversationPage{
		1: {Conversations: convRefs("c1")},
	})
	api.details = map[string]*ConversationDetail{
		"c1": {ID: "c1", Status: "resolved", AssignedAgentID: "agent-7", CreatedTime: "2026-01-01T00:00:00Z"},
	}
	api.messages = map[string][]Message{
		"c1": {
			textMsg("agent", "Merhaba", "2026-01-01T00:01:00Z"),
			textMsg("user", "Sorun var", "2026-01-01T00:00:30Z"),
		},
	}
	writer := &fakeWriter{}

	_, err := NewCrawler(api, writer).IngestHistory(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	require.Len(t, writer.written, 1)
	got := writer.written[0]
	assert.Equal(t, "c1", got.SourceID)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "agent-7", got.AssignedAgentID)
	assert.Equal(t, "User: Sorun var\nAgent: Merhaba", got.Dialog)
	assert.True(t, got.IsResolved)
}
