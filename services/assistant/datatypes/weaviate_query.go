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
	"encoding/json"
	"fmt"

	"github.com/weaviate/weaviate/entities/models"
)

// =============================================================================
// Generic GraphQL Response Parser
// =============================================================================

// ParseGraphQLResponse parses a Weaviate GraphQL response into the target type.
//
// # Description
//
// This generic function encapsulates the marshal/unmarshal pattern required to
// convert Weaviate's dynamic response (map[string]models.JSONObject) into a
// strongly-typed Go struct. The target type T must have json tags matching
// the expected response shape.
//
// # Type Parameters
//
//   - T: The target struct type with json tags matching the response shape.
//
// # Inputs
//
//   - resp: The GraphQL response from Weaviate client's Do() method.
//
// # Outputs
//
//   - *T: Pointer to the parsed struct.
//   - error: Non-nil if response is nil or parsing fails.
//
// # Example
//
//	resp, err := client.GraphQL().Get().WithClassName("SupportConversation").Do(ctx)
//	if err != nil { ... }
//
//	parsed, err := ParseGraphQLResponse[ConversationQueryResponse](resp)
//	if err != nil { ... }
//
//	for _, c := range parsed.Get.SupportConversation {
//	    fmt.Println(c.OriginalID)
//	}
//
// # Limitations
//
//   - Requires the target type to exactly match the expected response structure.
//   - Type mismatches will result in zero values, not errors.
//
// # Assumptions
//
//   - The response Data field is JSON-marshalable.
//   - The target type T has correct json tags.
func ParseGraphQLResponse[T any](resp *models.GraphQLResponse) (*T, error) {
	if resp == nil {
		return nil, fmt.Errorf("nil GraphQL response")
	}

	respBytes, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL response data: %w", err)
	}

	var result T
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into target type: %w", err)
	}

	return &result, nil
}

// =============================================================================
// Common Weaviate Response Types
// =============================================================================

// AdditionalFields carries the Weaviate-internal _additional block.
type AdditionalFields struct {
	ID        string   `json:"id"`
	Distance  *float32 `json:"distance"`
	Certainty *float32 `json:"certainty"`
}

// ConversationQueryResponse represents the response from querying the
// SupportConversation class.
type ConversationQueryResponse struct {
	Get struct {
		SupportConversation []ConversationResult `json:"SupportConversation"`
	} `json:"Get"`
}

// ConversationResult represents a single conversation from a query.
type ConversationResult struct {
	OriginalID      string           `json:"original_id"`
	Conversation    string           `json:"conversation"`
	UserID          string           `json:"user_id"`
	AssignedAgentID string           `json:"assigned_agent_id"`
	Summary         string           `json:"summary"`
	IsResolved      *bool            `json:"is_resolved"`
	CreatedAt       string           `json:"created_at"`
	Additional      AdditionalFields `json:"_additional"`
}

// ArticleQueryResponse represents the response from querying the
// KnowledgeArticle class.
type ArticleQueryResponse struct {
	Get struct {
		KnowledgeArticle []ArticleResult `json:"KnowledgeArticle"`
	} `json:"Get"`
}

// ArticleResult represents a single knowledge article from a query.
type ArticleResult struct {
	OriginalID string           `json:"original_id"`
	Title      string           `json:"title"`
	Content    string           `json:"content"`
	Additional AdditionalFields `json:"_additional"`
}

// FAQQueryResponse represents the response from querying the FAQ class.
type FAQQueryResponse struct {
	Get struct {
		FAQ []FAQResult `json:"FAQ"`
	} `json:"Get"`
}

// FAQResult represents a single FAQ pair from a query.
type FAQResult struct {
	OriginalID string           `json:"original_id"`
	Question   string           `json:"question"`
	Answer     string           `json:"answer"`
	Language   string           `json:"language"`
	Additional AdditionalFields `json:"_additional"`
}
