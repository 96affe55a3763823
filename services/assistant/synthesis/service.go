// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package synthesis turns a customer question into a grounded answer: embed
// the question, retrieve similar conversations and knowledge articles in
// parallel, assemble both into a prompt, and ask the LLM.
package synthesis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianSupport/services/assistant/datatypes"
	"github.com/AleutianAI/AleutianSupport/services/llm"
)

var tracer = otel.Tracer("aleutian.assistant.synthesis")

// Embedder computes a vector embedding for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever searches the two retrieval collections for a query vector.
// Implemented by the vector store.
type Retriever interface {
	SearchConversations(ctx context.Context, vector []float32) ([]datatypes.SearchCandidate, error)
	SearchKnowledge(ctx context.Context, vector []float32) ([]datatypes.SearchCandidate, error)
}

// Service is the answer and tab-completion synthesizer.
//
// # Thread Safety
//
// Service is safe for concurrent use; it holds no mutable state and all
// collaborators are required to be concurrency-safe.
type Service struct {
	embedder      Embedder
	retriever     Retriever
	answerLLM     llm.LLMClient
	completionLLM llm.LLMClient
}

// NewService wires the synthesizer. The two LLM clients may point at
// different models; answers favor quality, completions favor latency.
func NewService(embedder Embedder, retriever Retriever, answerLLM, completionLLM llm.LLMClient) *Service {
	return &Service{
		embedder:      embedder,
		retriever:     retriever,
		answerLLM:     answerLLM,
		completionLLM: completionLLM,
	}
}

// retrieve fans out to both collections concurrently. Both searches always
// run to completion; if either fails the whole retrieval fails, because an
// answer grounded on half the evidence is worse than a clean error.
func (s *Service) retrieve(ctx context.Context, vector []float32) (conversations, articles []datatypes.SearchCandidate, err error) {
	var wg sync.WaitGroup
	var convErr, articleErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		conversations, convErr = s.retriever.SearchConversations(ctx, vector)
	}()
	go func() {
		defer wg.Done()
		articles, articleErr = s.retriever.SearchKnowledge(ctx, vector)
	}()
	wg.Wait()

	if convErr != nil {
		return nil, nil, fmt.Errorf("conversation retrieval failed: %w", convErr)
	}
	if articleErr != nil {
		return nil, nil, fmt.Errorf("knowledge retrieval failed: %w", articleErr)
	}
	return conversations, articles, nil
}

// Answer produces a grounded answer for a customer question, plus metadata
// about how much retrieved evidence backed it.
func (s *Service) Answer(ctx context.Context, question string) (string, datatypes.AnswerMetadata, error) {
	ctx, span := tracer.Start(ctx, "Service.Answer")
	defer span.End()

	meta := datatypes.AnswerMetadata{}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", meta, fmt.Errorf("failed to embed question: %w", err)
	}

	conversations, articles, err := s.retrieve(ctx, vector)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", meta, err
	}
	meta.SimilarConversations = len(conversations)
	meta.KnowledgeArticles = len(articles)
	span.SetAttributes(
		attribute.Int("retrieval.conversations", len(conversations)),
		attribute.Int("retrieval.articles", len(articles)),
	)

	userPrompt := fmt.Sprintf(answerUserPromptFormat,
		BuildKnowledgeContext(articles),
		BuildConversationContext(conversations),
		question)

	temperature := float32(0.7)
	answer, err := s.answerLLM.Chat(ctx, answerSystemPrompt, userPrompt,
		llm.GenerationParams{Temperature: &temperature})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", meta, fmt.Errorf("answer generation failed: %w", err)
	}
	if strings.TrimSpace(answer) == "" {
		err := fmt.Errorf("answer generation returned empty completion")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", meta, err
	}

	slog.Debug("Answer synthesized",
		"conversations", meta.SimilarConversations,
		"articles", meta.KnowledgeArticles)
	return answer, meta, nil
}

// TabCompletion suggests the text that should follow what the agent has
// typed so far. lastAnswer is the previous assistant message, used as
// conversational context; it may be empty.
func (s *Service) TabCompletion(ctx context.Context, typedText, lastAnswer string) (string, error) {
	ctx, span := tracer.Start(ctx, "Service.TabCompletion")
	defer span.End()

	vector, err := s.embedder.Embed(ctx, typedText)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to embed typed text: %w", err)
	}

	conversations, articles, err := s.retrieve(ctx, vector)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	userPrompt := fmt.Sprintf(completionUserPromptFormat,
		BuildKnowledgeContext(articles),
		BuildConversationContext(conversations),
		lastAnswer,
		typedText)

	temperature := float32(0.9)
	completion, err := s.completionLLM.Chat(ctx, completionSystemPrompt, userPrompt,
		llm.GenerationParams{Temperature: &temperature})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("completion generation failed: %w", err)
	}
	if strings.TrimSpace(completion) == "" {
		err := fmt.Errorf("completion generation returned empty completion")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return completion, nil
}
