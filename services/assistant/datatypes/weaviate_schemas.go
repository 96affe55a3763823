// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate/entities/models"
)

// Class names for the three support collections. Every object carries an
// original_id property which is the dedup gate for ingestion.
const (
	ClassSupportConversation = "SupportConversation"
	ClassKnowledgeArticle    = "KnowledgeArticle"
	ClassFAQ                 = "FAQ"
)

// EmbeddingDim is the expected vector length for all three collections
// (text-embedding-3-small / ada-002 output size).
const EmbeddingDim = 1536

func GetSupportConversationSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       ClassSupportConversation,
		Description: "A normalized historical support conversation from the helpdesk.",
		Vectorizer:  "none",
		VectorIndexConfig: map[string]interface{}{
			"distance": "cosine",
		},
		InvertedIndexConfig: &models.InvertedIndexConfig{
			IndexNullState:  true,
			IndexTimestamps: true,
		},
		Properties: []*models.Property{
			{
				Name:            "original_id",
				DataType:        []string{"text"},
				Description:     "The helpdesk conversation id. Identity for dedup.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:         "conversation",
				DataType:     []string{"text"},
				Description:  "The normalized dialog transcript (Agent/User lines).",
				Tokenization: "word",
			},
			{
				Name:            "user_id",
				DataType:        []string{"text"},
				Description:     "The helpdesk user id the conversation belongs to.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "assigned_agent_id",
				DataType:        []string{"text"},
				Description:     "The agent assigned to the conversation, if any.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:         "summary",
				DataType:     []string{"text"},
				Description:  "A short summary of the conversation.",
				Tokenization: "word",
			},
			{
				Name:            "is_resolved",
				DataType:        []string{"boolean"},
				Description:     "True if the conversation was resolved at crawl time.",
				IndexFilterable: indexFilterable,
			},
			{
				Name:            "created_at",
				DataType:        []string{"text"},
				Description:     "The conversation creation timestamp from the helpdesk.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
		},
	}
}

func GetKnowledgeArticleSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       ClassKnowledgeArticle,
		Description: "An article from the internal knowledge base.",
		Vectorizer:  "none",
		VectorIndexConfig: map[string]interface{}{
			"distance": "cosine",
		},
		InvertedIndexConfig: &models.InvertedIndexConfig{
			IndexNullState:  true,
			IndexTimestamps: true,
		},
		Properties: []*models.Property{
			{
				Name:            "original_id",
				DataType:        []string{"text"},
				Description:     "The logical article id. Identity for dedup.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:         "title",
				DataType:     []string{"text"},
				Description:  "The article title.",
				Tokenization: "word",
			},
			{
				Name:         "content",
				DataType:     []string{"text"},
				Description:  "The article body.",
				Tokenization: "word",
			},
			{
				Name:            "created_at",
				DataType:        []string{"text"},
				Description:     "When the article was imported.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
		},
	}
}

func GetFAQSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       ClassFAQ,
		Description: "A single-language question/answer pair from the FAQ set.",
		Vectorizer:  "none",
		VectorIndexConfig: map[string]interface{}{
			"distance": "cosine",
		},
		InvertedIndexConfig: &models.InvertedIndexConfig{
			IndexNullState:  true,
			IndexTimestamps: true,
		},
		Properties: []*models.Property{
			{
				Name:            "original_id",
				DataType:        []string{"text"},
				Description:     "The logical faq identity (faq:<id>:<lang>). Identity for dedup.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:         "question",
				DataType:     []string{"text"},
				Description:  "The FAQ question in this language.",
				Tokenization: "word",
			},
			{
				Name:         "answer",
				DataType:     []string{"text"},
				Description:  "The FAQ answer in this language.",
				Tokenization: "word",
			},
			{
				Name:            "language",
				DataType:        []string{"text"},
				Description:     "ISO language code of the pair (e.g., 'en', 'tr').",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "created_at",
				DataType:        []string{"text"},
				Description:     "When the pair was imported.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
		},
	}
}

// EnsureWeaviateSchema creates any of the three support classes that do not
// already exist. Existing classes are left untouched.
func EnsureWeaviateSchema(ctx context.Context, client *weaviate.Client) error {
	schemaGetters := []func() *models.Class{
		GetSupportConversationSchema,
		GetKnowledgeArticleSchema,
		GetFAQSchema,
	}

	for _, getSchema := range schemaGetters {
		class := getSchema()
		slog.Info("Checking schema", "class", class.Class)

		// Check if the class already exists.
		_, err := client.Schema().ClassGetter().WithClassName(class.Class).Do(ctx)
		if err != nil {
			// If it doesn't exist, the client returns an error. We can now create it.
			slog.Info("Schema not found, creating it...", "class", class.Class)
			err := client.Schema().ClassCreator().WithClass(class).Do(ctx)
			if err != nil {
				return fmt.Errorf("failed to create schema for class %s: %w", class.Class, err)
			}
			slog.Info("Successfully created schema", "class", class.Class)
		} else {
			slog.Info("Schema already exists", "class", class.Class)
		}
	}
	return nil
}
