// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianSupport/services/assistant/datatypes"
)

var tracer = otel.Tracer("aleutian.assistant.vectorstore")

// Embedder computes a vector embedding for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store wraps the Weaviate client with the dedup-aware write path shared by
// the crawler and the import commands.
//
// # Thread Safety
//
// Store is safe for concurrent use. The underlying Weaviate client handles
// connection pooling and the store itself holds no mutable state.
type Store struct {
	client   *weaviate.Client
	embedder Embedder
}

// NewStore creates a store over a connected Weaviate client.
func NewStore(client *weaviate.Client, embedder Embedder) *Store {
	return &Store{client: client, embedder: embedder}
}

// existsResponse matches any Get query that only asks for _additional.id.
// The Get map is keyed by class name.
type existsResponse struct {
	Get map[string][]struct {
		Additional struct {
			ID string `json:"id"`
		} `json:"_additional"`
	} `json:"Get"`
}

// existsByOriginalID reports whether an object with the given original_id is
// already present in the class. This is the authoritative dedup gate; the
// deterministic object UUID is only a second line of defense.
func (s *Store) existsByOriginalID(ctx context.Context, class, originalID string) (bool, error) {
	where := filters.Where().
		WithPath([]string{"original_id"}).
		WithOperator(filters.Equal).
		WithValueString(originalID)

	fields := []graphql.Field{
		{Name: "_additional", Fields: []graphql.Field{{Name: "id"}}},
	}

	resp, err := s.client.GraphQL().Get().
		WithClassName(class).
		WithWhere(where).
		WithFields(fields...).
		WithLimit(1).
		Do(ctx)
	if err != nil {
		return false, fmt.Errorf("error querying %s for original_id %q: %w", class, originalID, err)
	}

	parsed, err := datatypes.ParseGraphQLResponse[existsResponse](resp)
	if err != nil {
		return false, fmt.Errorf("error parsing existence check response: %w", err)
	}

	return len(parsed.Get[class]) > 0, nil
}

// writeIfAbsent runs the shared dedup-then-write sequence for one object.
// Returns true if a new object was created, false if the identity was
// already present.
func (s *Store) writeIfAbsent(ctx context.Context, class, originalID, embedText string,
	props map[string]interface{}) (bool, error) {

	ctx, span := tracer.Start(ctx, "Store.writeIfAbsent")
	defer span.End()
	span.SetAttributes(
		attribute.String("weaviate.class", class),
		attribute.String("store.original_id", originalID),
	)

	exists, err := s.existsByOriginalID(ctx, class, originalID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	if exists {
		slog.Info("Object already stored, skipping", "class", class, "original_id", originalID)
		return false, nil
	}

	vector, err := s.embedder.Embed(ctx, embedText)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to embed content for %q: %w", originalID, err)
	}
	if len(vector) != datatypes.EmbeddingDim {
		err := fmt.Errorf("embedding for %q has dimension %d, want %d",
			originalID, len(vector), datatypes.EmbeddingDim)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	_, err = s.client.Data().Creator().
		WithClassName(class).
		WithID(UUIDFor(originalID)).
		WithProperties(props).
		WithVector(vector).
		Do(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to store object %q in %s: %w", originalID, class, err)
	}

	slog.Info("Stored new object", "class", class, "original_id", originalID)
	return true, nil
}

// WriteIfAbsent persists a normalized conversation unless one with the same
// source id is already stored. Returns true when a new object was written.
func (s *Store) WriteIfAbsent(ctx context.Context, conv datatypes.NormalizedConversation) (bool, error) {
	if conv.SourceID == "" {
		return false, fmt.Errorf("conversation has no source id")
	}

	props := datatypes.ConversationProperties{
		OriginalID:      conv.SourceID,
		Conversation:    conv.Dialog,
		UserID:          conv.UserID,
		AssignedAgentID: conv.AssignedAgentID,
		Summary:         conv.Summary,
		IsResolved:      conv.IsResolved,
		CreatedAt:       conv.CreatedAt,
	}
	return s.writeIfAbsent(ctx, datatypes.ClassSupportConversation, conv.SourceID, conv.Dialog, props.ToMap())
}

// StoreArticle persists a knowledge article under its logical article id.
// The embedding covers title and body together so short titles still
// contribute signal.
func (s *Store) StoreArticle(ctx context.Context, articleID, title, content string) (bool, error) {
	if articleID == "" {
		return false, fmt.Errorf("article has no id")
	}

	props := datatypes.ArticleProperties{
		OriginalID: articleID,
		Title:      title,
		Content:    content,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	embedText := title + "\n" + content
	return s.writeIfAbsent(ctx, datatypes.ClassKnowledgeArticle, articleID, embedText, props.ToMap())
}

// StoreFAQ persists one question/answer pair for one language. faqID must be
// the full logical identity (faq:<id>:<lang>) so imports stay idempotent.
func (s *Store) StoreFAQ(ctx context.Context, faqID, question, answer, language string) (bool, error) {
	if faqID == "" {
		return false, fmt.Errorf("faq has no id")
	}

	props := datatypes.FAQProperties{
		OriginalID: faqID,
		Question:   question,
		Answer:     answer,
		Language:   language,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	embedText := fmt.Sprintf("Question: %s\nAnswer: %s", question, answer)
	return s.writeIfAbsent(ctx, datatypes.ClassFAQ, faqID, embedText, props.ToMap())
}
