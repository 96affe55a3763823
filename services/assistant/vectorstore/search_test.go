// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for score conversion and search result shaping.

package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianSupport/services/assistant/datatypes"
)

func TestCertaintyFloorFromScore(t *testing.T) {
	assert.InDelta(t, 0.85, float64(certaintyFloor(0.70)), 1e-6)
	assert.InDelta(t, 0.5, float64(certaintyFloor(0.0)), 1e-6)
	assert.InDelta(t, 1.0, float64(certaintyFloor(1.0)), 1e-6)
}

func TestScoreFromCertaintyRoundTrip(t *testing.T) {
	for _, score := range []float64{-1, 0, 0.5, 0.7, 1} {
		c := certaintyFloor(score)
		assert.InDelta(t, score, scoreFromCertainty(&c), 1e-6)
	}
}

func TestScoreFromCertaintyNil(t *testing.T) {
	assert.Equal(t, 0.0, scoreFromCertainty(nil))
}

func certaintyPtr(v float32) *float32 { return &v }

func TestConversationCandidates(t *testing.T) {
	resp := &datatypes.ConversationQueryResponse{}
	resp.Get.SupportConversation = []datatypes.ConversationResult{
		{
			OriginalID:   "conv-1",
			Conversation: "User: hello\nAgent: hi",
			Additional:   datatypes.AdditionalFields{Certainty: certaintyPtr(0.95)},
		},
		{
			OriginalID:   "conv-2",
			Conversation: "User: bye",
			Additional:   datatypes.AdditionalFields{Certainty: certaintyPtr(0.88)},
		},
	}

	candidates := conversationCandidates(resp)
	require.Len(t, candidates, 2)
	assert.Equal(t, "conv-1", candidates[0].OriginalID)
	assert.InDelta(t, 0.90, candidates[0].Score, 1e-6)
	assert.InDelta(t, 0.76, candidates[1].Score, 1e-6)
	// Weaviate returns hits by descending certainty; the converted scores
	// must preserve that order.
	assert.GreaterOrEqual(t, candidates[0].Score, candidates[1].Score)
}

func TestConversationCandidatesNilResponse(t *testing.T) {
	candidates := conversationCandidates(nil)
	assert.NotNil(t, candidates)
	assert.Empty(t, candidates)
}

func TestArticleCandidates(t *testing.T) {
	resp := &datatypes.ArticleQueryResponse{}
	resp.Get.KnowledgeArticle = []datatypes.ArticleResult{
		{
			OriginalID: "article_3",
			Title:      "Refund policy",
			Content:    "Refunds are processed within 5 days.",
			Additional: datatypes.AdditionalFields{Certainty: certaintyPtr(0.9)},
		},
	}

	candidates := articleCandidates(resp)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Refund policy", candidates[0].Title)
	assert.InDelta(t, 0.8, candidates[0].Score, 1e-6)
}

func TestFAQCandidatesCombinesPair(t *testing.T) {
	resp := &datatypes.FAQQueryResponse{}
	resp.Get.FAQ = []datatypes.FAQResult{
		{
			OriginalID: "faq:12:tr",
			Question:   "Dersimi nasıl iptal ederim?",
			Answer:     "Panelden iptal edebilirsiniz.",
			Language:   "tr",
			Additional: datatypes.AdditionalFields{Certainty: certaintyPtr(0.92)},
		},
	}

	candidates := faqCandidates(resp)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Question: Dersimi nasıl iptal ederim?\nAnswer: Panelden iptal edebilirsiniz.",
		candidates[0].Content)
}
