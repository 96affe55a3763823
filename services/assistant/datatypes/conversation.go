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

// NormalizedConversation is the canonical record produced by the Freshchat
// normalizer and consumed by the vector store. SourceID is the helpdesk
// conversation id and is the sole identity for dedup purposes.
type NormalizedConversation struct {
	SourceID        string `json:"original_id"`
	UserID          string `json:"user_id"`
	AssignedAgentID string `json:"assigned_agent_id"`
	Dialog          string `json:"conversation"`
	Summary         string `json:"summary"`
	IsResolved      bool   `json:"is_resolved"`
	CreatedAt       string `json:"created_at"`
}

// ConversationProperties represents the properties for creating a
// SupportConversation object.
type ConversationProperties struct {
	OriginalID      string `json:"original_id"`
	Conversation    string `json:"conversation"`
	UserID          string `json:"user_id"`
	AssignedAgentID string `json:"assigned_agent_id"`
	Summary         string `json:"summary"`
	IsResolved      bool   `json:"is_resolved"`
	CreatedAt       string `json:"created_at"`
}

// ToMap converts ConversationProperties to map[string]interface{} for Weaviate.
func (p *ConversationProperties) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"original_id":       p.OriginalID,
		"conversation":      p.Conversation,
		"user_id":           p.UserID,
		"assigned_agent_id": p.AssignedAgentID,
		"summary":           p.Summary,
		"is_resolved":       p.IsResolved,
		"created_at":        p.CreatedAt,
	}
}

// ArticleProperties represents the properties for creating a KnowledgeArticle object.
type ArticleProperties struct {
	OriginalID string `json:"original_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

// ToMap converts ArticleProperties to map[string]interface{} for Weaviate.
func (p *ArticleProperties) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"original_id": p.OriginalID,
		"title":       p.Title,
		"content":     p.Content,
		"created_at":  p.CreatedAt,
	}
}

// FAQProperties represents the properties for creating a FAQ object.
type FAQProperties struct {
	OriginalID string `json:"original_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Language   string `json:"language"`
	CreatedAt  string `json:"created_at"`
}

// ToMap converts FAQProperties to map[string]interface{} for Weaviate.
func (p *FAQProperties) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"original_id": p.OriginalID,
		"question":    p.Question,
		"answer":      p.Answer,
		"language":    p.Language,
		"created_at":  p.CreatedAt,
	}
}
