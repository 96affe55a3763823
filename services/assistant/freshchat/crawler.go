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
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianSupport/services/assistant/datatypes"
	"github.com/AleutianAI/AleutianSupport/services/assistant/observability"
)

var tracer = otel.Tracer("aleutian.assistant.freshchat")

// ConversationWriter is the dedup-aware store path the crawler writes
// through. WriteIfAbsent returns true when a new object was created and
// false for a duplicate no-op.
type ConversationWriter interface {
	WriteIfAbsent(ctx context.Context, conv datatypes.NormalizedConversation) (bool, error)
}

// IngestStats summarizes one historical crawl.
type IngestStats struct {
	ProcessedUsers     int
	TotalConversations int
}

// Crawler walks the helpdesk history user by user and feeds every
// conversation through the normalizer into the store.
//
// The crawl is strictly sequential. Failures on a single conversation or a
// single user are logged and skipped so one bad record never aborts a
// multi-hour crawl; only the top-level user enumeration is fatal, because
// without it there is nothing to crawl.
type Crawler struct {
	api     API
	writer  ConversationWriter
	metrics *observability.AssistantMetrics
}

// NewCrawler wires the crawler to a Freshchat API and a conversation store.
func NewCrawler(api API, writer ConversationWriter) *Crawler {
	return &Crawler{
		api:     api,
		writer:  writer,
		metrics: observability.DefaultMetrics,
	}
}

// IngestHistory crawls all conversations of users created since the given
// time. Returns the stats accumulated so far even when it errors out, so
// operators can see how far a failed crawl got.
func (c *Crawler) IngestHistory(ctx context.Context, since time.Time) (IngestStats, error) {
	ctx, span := tracer.Start(ctx, "Crawler.IngestHistory")
	defer span.End()
	span.SetAttributes(attribute.String("crawl.since", since.UTC().Format(time.RFC3339)))

	stats := IngestStats{}

	userIDs, err := c.listAllUsers(ctx, since, time.Now().UTC())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return stats, fmt.Errorf("failed to enumerate users: %w", err)
	}
	slog.Info("User enumeration complete", "users", len(userIDs))

	for i, userID := range userIDs {
		if ctx.Err() != nil {
			span.SetStatus(codes.Error, "crawl canceled")
			return stats, ctx.Err()
		}

		stored, err := c.ingestUserConversations(ctx, userID)
		stats.TotalConversations += stored
		stats.ProcessedUsers++
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			slog.Error("Failed to finish user, skipping",
				"user_id", userID, "stored_before_failure", stored, "error", err)
			continue
		}
		slog.Info("User processed",
			"user", i+1, "of", len(userIDs), "total_conversations", stats.TotalConversations)
	}

	span.SetAttributes(
		attribute.Int("crawl.processed_users", stats.ProcessedUsers),
		attribute.Int("crawl.total_conversations", stats.TotalConversations),
	)
	return stats, nil
}

// listAllUsers pages through the users listing. The listing reports
// current_page/total_pages; the loop also stops on an empty page so a
// miscounting backend cannot spin it forever.
func (c *Crawler) listAllUsers(ctx context.Context, from, to time.Time) ([]string, error) {
	var userIDs []string
	page := 1

	for {
		userPage, err := c.api.ListUsers(ctx, from, to, page)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch users page %d: %w", page, err)
		}
		if len(userPage.Users) == 0 {
			break
		}

		for _, user := range userPage.Users {
			userIDs = append(userIDs, user.ID)
		}

		if userPage.Pagination.CurrentPage >= userPage.Pagination.TotalPages {
			break
		}
		page++
	}

	return userIDs, nil
}

// ingestUserConversations pages through one user's conversations and ingests
// each. Per-conversation failures are logged and skipped; a page fetch
// failure aborts this user and is surfaced to the caller. The count of
// conversations processed before the failure is returned either way.
func (c *Crawler) ingestUserConversations(ctx context.Context, userID string) (int, error) {
	stored := 0
	page := 1

	for {
		convPage, err := c.api.GetUserConversations(ctx, userID, page)
		if err != nil {
			return stored, fmt.Errorf("failed to fetch conversations for user %s page %d: %w", userID, page, err)
		}
		if len(convPage.Conversations) == 0 {
			break
		}

		slog.Debug("Processing conversations",
			"user_id", userID, "page", page, "count", len(convPage.Conversations))

		for _, ref := range convPage.Conversations {
			if ctx.Err() != nil {
				return stored, ctx.Err()
			}
			if err := c.ingestConversation(ctx, userID, ref.ID); err != nil {
				if ctx.Err() != nil {
					return stored, ctx.Err()
				}
				c.metrics.RecordIngestError()
				slog.Error("Failed to ingest conversation, skipping",
					"conversation_id", ref.ID, "user_id", userID, "error", err)
				continue
			}
			stored++
		}

		if convPage.Pagination == nil || !convPage.Pagination.HasNext {
			break
		}
		page++
	}

	return stored, nil
}

// ingestConversation fetches detail and messages for one conversation,
// normalizes it, and writes it through the dedup gate.
func (c *Crawler) ingestConversation(ctx context.Context, userID, conversationID string) error {
	detail, err := c.api.GetConversation(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("failed to fetch conversation detail: %w", err)
	}

	messages, err := c.api.GetConversationMessages(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("failed to fetch conversation messages: %w", err)
	}

	raw := RawConversation{
		ID:              conversationID,
		UserID:          userID,
		AssignedAgentID: detail.AssignedAgentID,
		Status:          detail.Status,
		CreatedAt:       detail.CreatedTime,
		Messages:        messages,
	}

	normalized, err := Normalize(raw)
	if err != nil {
		return fmt.Errorf("failed to normalize conversation: %w", err)
	}

	created, err := c.writer.WriteIfAbsent(ctx, normalized)
	if err != nil {
		return fmt.Errorf("failed to store conversation: %w", err)
	}
	if created {
		c.metrics.RecordIngested()
	} else {
		c.metrics.RecordDuplicateSkip()
	}
	return nil
}
