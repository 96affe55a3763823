// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package freshchat crawls historical conversations out of the Freshchat
// REST API and normalizes them for vector-store ingestion.
package freshchat

import (
	"errors"
	"fmt"
)

// User is one helpdesk user from the users listing.
type User struct {
	ID string `json:"id"`
}

// PagePagination is the page/total style pagination on the users listing.
type PagePagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// UserPage is one page of the users listing.
type UserPage struct {
	Users      []User         `json:"users"`
	Pagination PagePagination `json:"pagination"`
}

// ConversationRef is one conversation id from a user's conversation listing.
type ConversationRef struct {
	ID string `json:"id"`
}

// CursorPagination is the has_next style pagination on conversation listings.
type CursorPagination struct {
	HasNext bool `json:"has_next"`
}

// ConversationPage is one page of a user's conversation listing.
// Pagination may be absent on the last page.
type ConversationPage struct {
	Conversations []ConversationRef `json:"conversations"`
	Pagination    *CursorPagination `json:"pagination"`
}

// ConversationDetail is the per-conversation record with resolution status
// and agent assignment.
type ConversationDetail struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	AssignedAgentID string `json:"assigned_agent_id"`
	CreatedTime     string `json:"created_time"`
}

// TextPart is the text payload of a message part.
type TextPart struct {
	Content string `json:"content"`
}

// MessagePart is one part of a Freshchat message. Non-text parts (images,
// buttons) have a nil Text.
type MessagePart struct {
	Text *TextPart `json:"text"`
}

// Message is one message within a conversation.
type Message struct {
	ID           string        `json:"id"`
	ActorType    string        `json:"actor_type"`
	MessageType  string        `json:"message_type"`
	Timestamp    string        `json:"timestamp"`
	CreatedTime  string        `json:"created_time"`
	MessageParts []MessagePart `json:"message_parts"`
}

// messagesResponse is the wire shape of the conversation messages listing.
type messagesResponse struct {
	Messages []Message `json:"messages"`
}

// RawConversation is the assembled per-conversation record handed to
// Normalize: the listing entry enriched with detail fields and messages.
type RawConversation struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	AssignedAgentID string    `json:"assigned_agent_id"`
	Status          string    `json:"status"`
	CreatedAt       string    `json:"created_at"`
	Messages        []Message `json:"messages"`
}

// APIError is a non-2xx response from the Freshchat API. Callers branch on
// StatusCode; Body is kept for logging and the connectivity probe.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("freshchat API error: %s returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsAPIError extracts an APIError from an error chain, if present.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
