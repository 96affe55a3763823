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

	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"

	"github.com/AleutianAI/AleutianSupport/services/assistant/datatypes"
)

// Retrieval limits and the shared score floor. Scores are cosine similarity;
// Weaviate reports certainty = (score + 1) / 2, so the 0.70 floor becomes a
// certainty floor of 0.85.
const (
	ConversationTopK = 10
	KnowledgeTopK    = 5
	FAQTopK          = 4

	ScoreFloor = 0.70
)

// certaintyFloor converts a cosine score floor to Weaviate certainty.
func certaintyFloor(score float64) float32 {
	return float32((score + 1) / 2)
}

// scoreFromCertainty converts Weaviate certainty back to cosine similarity.
func scoreFromCertainty(certainty *float32) float64 {
	if certainty == nil {
		return 0
	}
	return 2*float64(*certainty) - 1
}

// SearchConversations returns the most similar stored conversations for the
// query vector, ordered by descending score, at most ConversationTopK, all at
// or above ScoreFloor.
func (s *Store) SearchConversations(ctx context.Context, vector []float32) ([]datatypes.SearchCandidate, error) {
	ctx, span := tracer.Start(ctx, "Store.SearchConversations")
	defer span.End()

	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector).
		WithCertainty(certaintyFloor(ScoreFloor))

	fields := []graphql.Field{
		{Name: "original_id"},
		{Name: "conversation"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
	}

	resp, err := s.client.GraphQL().Get().
		WithClassName(datatypes.ClassSupportConversation).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(ConversationTopK).
		Do(ctx)
	if err != nil {
		slog.Error("Conversation search failed", "error", err)
		return nil, fmt.Errorf("weaviate conversation search failed: %w", err)
	}

	parsed, err := datatypes.ParseGraphQLResponse[datatypes.ConversationQueryResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse conversation search results: %w", err)
	}

	candidates := conversationCandidates(parsed)
	slog.Debug("Conversation search complete", "hits", len(candidates))
	return candidates, nil
}

// SearchKnowledge returns the most similar knowledge articles for the query
// vector, at most KnowledgeTopK, all at or above ScoreFloor.
func (s *Store) SearchKnowledge(ctx context.Context, vector []float32) ([]datatypes.SearchCandidate, error) {
	ctx, span := tracer.Start(ctx, "Store.SearchKnowledge")
	defer span.End()

	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector).
		WithCertainty(certaintyFloor(ScoreFloor))

	fields := []graphql.Field{
		{Name: "original_id"},
		{Name: "title"},
		{Name: "content"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
	}

	resp, err := s.client.GraphQL().Get().
		WithClassName(datatypes.ClassKnowledgeArticle).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(KnowledgeTopK).
		Do(ctx)
	if err != nil {
		slog.Error("Knowledge search failed", "error", err)
		return nil, fmt.Errorf("weaviate knowledge search failed: %w", err)
	}

	parsed, err := datatypes.ParseGraphQLResponse[datatypes.ArticleQueryResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse knowledge search results: %w", err)
	}

	candidates := articleCandidates(parsed)
	slog.Debug("Knowledge search complete", "hits", len(candidates))
	return candidates, nil
}

// SearchFAQs returns the most similar FAQ pairs for the query vector, at most
// FAQTopK, all at or above ScoreFloor.
func (s *Store) SearchFAQs(ctx context.Context, vector []float32) ([]datatypes.SearchCandidate, error) {
	ctx, span := tracer.Start(ctx, "Store.SearchFAQs")
	defer span.End()

	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector).
		WithCertainty(certaintyFloor(ScoreFloor))

	fields := []graphql.Field{
		{Name: "original_id"},
		{Name: "question"},
		{Name: "answer"},
		{Name: "language"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
	}

	resp, err := s.client.GraphQL().Get().
		WithClassName(datatypes.ClassFAQ).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(FAQTopK).
		Do(ctx)
	if err != nil {
		slog.Error("FAQ search failed", "error", err)
		return nil, fmt.Errorf("weaviate faq search failed: %w", err)
	}

	parsed, err := datatypes.ParseGraphQLResponse[datatypes.FAQQueryResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse faq search results: %w", err)
	}

	candidates := faqCandidates(parsed)
	slog.Debug("FAQ search complete", "hits", len(candidates))
	return candidates, nil
}

// =============================================================================
// Result Converters
// =============================================================================

func conversationCandidates(resp *datatypes.ConversationQueryResponse) []datatypes.SearchCandidate {
	if resp == nil {
		return []datatypes.SearchCandidate{}
	}
	candidates := make([]datatypes.SearchCandidate, 0, len(resp.Get.SupportConversation))
	for _, conv := range resp.Get.SupportConversation {
		candidates = append(candidates, datatypes.SearchCandidate{
			OriginalID: conv.OriginalID,
			Content:    conv.Conversation,
			Score:      scoreFromCertainty(conv.Additional.Certainty),
		})
	}
	return candidates
}

func articleCandidates(resp *datatypes.ArticleQueryResponse) []datatypes.SearchCandidate {
	if resp == nil {
		return []datatypes.SearchCandidate{}
	}
	candidates := make([]datatypes.SearchCandidate, 0, len(resp.Get.KnowledgeArticle))
	for _, article := range resp.Get.KnowledgeArticle {
		candidates = append(candidates, datatypes.SearchCandidate{
			OriginalID: article.OriginalID,
			Title:      article.Title,
			Content:    article.Content,
			Score:      scoreFromCertainty(article.Additional.Certainty),
		})
	}
	return candidates
}

func faqCandidates(resp *datatypes.FAQQueryResponse) []datatypes.SearchCandidate {
	if resp == nil {
		return []datatypes.SearchCandidate{}
	}
	candidates := make([]datatypes.SearchCandidate, 0, len(resp.Get.FAQ))
	for _, faq := range resp.Get.FAQ {
		candidates = append(candidates, datatypes.SearchCandidate{
			OriginalID: faq.OriginalID,
			Title:      faq.Question,
			Content:    fmt.Sprintf("Question: %s\nAnswer: %s", faq.Question, faq.Answer),
			Score:      scoreFromCertainty(faq.Additional.Certainty),
		})
	}
	return candidates
}
