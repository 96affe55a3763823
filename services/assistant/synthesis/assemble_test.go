// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for context assembly.

package synthesis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/AleutianSupport/services/assistant/datatypes"
)

func TestBuildConversationContext(t *testing.T) {
	candidates := []datatypes.SearchCandidate{
		{Content: "User: hello\nAgent: hi"},
		{Content: "User: bye\nAgent: goodbye"},
	}

	got := BuildConversationContext(candidates)
	want := "--- Conversation Example ---\nUser: hello\nAgent: hi\n\n" +
		"--- Conversation Example ---\nUser: bye\nAgent: goodbye"
	assert.Equal(t, want, got)
}

func TestBuildConversationContextEmpty(t *testing.T) {
	assert.Equal(t, "", BuildConversationContext(nil))
	assert.Equal(t, "", BuildConversationContext([]datatypes.SearchCandidate{}))
}

func TestBuildKnowledgeContext(t *testing.T) {
	candidates := []datatypes.SearchCandidate{
		{Title: "Refund policy", Content: "Refunds take 5 days."},
	}

	got := BuildKnowledgeContext(candidates)
	assert.Equal(t, "--- Refund policy ---\nRefunds take 5 days.", got)
}

func TestJoinWithinBudgetDropsWholeBlocks(t *testing.T) {
	big := strings.Repeat("a", contextCharBudget-30)
	candidates := []datatypes.SearchCandidate{
		{Content: big},
		{Content: "this one no longer fits"},
	}

	got := BuildConversationContext(candidates)
	assert.Contains(t, got, big)
	assert.NotContains(t, got, "no longer fits")
	// The surviving block is intact, never truncated.
	assert.True(t, strings.HasSuffix(got, big))
}

func TestJoinWithinBudgetBoundary(t *testing.T) {
	blocks := []string{"first", "second"}
	got := joinWithinBudget(blocks, len("first")+2+len("second"))
	assert.Equal(t, "first\n\nsecond", got)

	// One character short of fitting the second block.
	got = joinWithinBudget(blocks, len("first")+2+len("second")-1)
	assert.Equal(t, "first", got)
}
