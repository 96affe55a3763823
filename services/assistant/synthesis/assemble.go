// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package synthesis

import (
	"strings"

	"github.com/AleutianAI/AleutianSupport/services/assistant/datatypes"
)

// contextCharBudget caps the characters each assembled context may occupy in
// the prompt. Once adding a block would exceed the budget, that block and all
// lower-scored ones are dropped whole; a truncated block reads worse than a
// missing one.
const contextCharBudget = 12000

// BuildConversationContext renders retrieved conversations as prompt blocks:
//
//	--- Conversation Example ---
//	<dialog>
//
// Blocks are separated by a blank line. An empty candidate list yields "".
func BuildConversationContext(candidates []datatypes.SearchCandidate) string {
	blocks := make([]string, 0, len(candidates))
	for _, c := range candidates {
		blocks = append(blocks, "--- Conversation Example ---\n"+c.Content)
	}
	return joinWithinBudget(blocks, contextCharBudget)
}

// BuildKnowledgeContext renders retrieved articles as prompt blocks:
//
//	--- <title> ---
//	<content>
//
// Blocks are separated by a blank line. An empty candidate list yields "".
func BuildKnowledgeContext(candidates []datatypes.SearchCandidate) string {
	blocks := make([]string, 0, len(candidates))
	for _, c := range candidates {
		blocks = append(blocks, "--- "+c.Title+" ---\n"+c.Content)
	}
	return joinWithinBudget(blocks, contextCharBudget)
}

// joinWithinBudget joins blocks with blank lines, stopping before the first
// block that would push the total past the budget. Candidates arrive ordered
// by descending score, so what survives is the best of the list.
func joinWithinBudget(blocks []string, budget int) string {
	var b strings.Builder
	for _, block := range blocks {
		addition := len(block)
		if b.Len() > 0 {
			addition += 2 // "\n\n"
		}
		if b.Len()+addition > budget {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block)
	}
	return b.String()
}
