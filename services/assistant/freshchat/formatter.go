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
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AleutianAI/AleutianSupport/services/assistant/datatypes"
)

// Normalize converts a raw crawled conversation into the canonical record the
// vector store ingests.
//
// System messages and messages without text content are dropped. The
// remaining messages are ordered by timestamp ascending (created_time as
// fallback; unparseable values compare as raw strings) and rendered as one
// "Agent: ..."/"User: ..." line each, joined with newlines.
//
// A conversation without a source id cannot be deduplicated, so that is a
// loud failure carrying the marshaled raw record for debugging.
func Normalize(raw RawConversation) (datatypes.NormalizedConversation, error) {
	if raw.ID == "" {
		rawJSON, _ := json.Marshal(raw)
		return datatypes.NormalizedConversation{},
			fmt.Errorf("conversation has no id, cannot assign identity: %s", string(rawJSON))
	}

	kept := make([]Message, 0, len(raw.Messages))
	for _, msg := range raw.Messages {
		if msg.MessageType == "system" {
			continue
		}
		if messageText(msg) == "" {
			continue
		}
		kept = append(kept, msg)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return messageBefore(kept[i], kept[j])
	})

	lines := make([]string, 0, len(kept))
	for _, msg := range kept {
		role := "User"
		if msg.ActorType == "agent" {
			role = "Agent"
		}
		lines = append(lines, role+": "+messageText(msg))
	}

	return datatypes.NormalizedConversation{
		SourceID:        raw.ID,
		UserID:          raw.UserID,
		AssignedAgentID: raw.AssignedAgentID,
		Dialog:          strings.Join(lines, "\n"),
		Summary:         "",
		IsResolved:      strings.EqualFold(raw.Status, "resolved"),
		CreatedAt:       raw.CreatedAt,
	}, nil
}

// messageText returns the first trimmed text content of a message, or "".
func messageText(msg Message) string {
	for _, part := range msg.MessageParts {
		if part.Text != nil {
			return strings.TrimSpace(part.Text.Content)
		}
	}
	return ""
}

// messageBefore orders messages by timestamp with created_time fallback.
// When either side fails to parse, the raw strings compare lexicographically,
// which is still a total order and matches RFC 3339 ordering for valid values.
func messageBefore(a, b Message) bool {
	aKey, aParsed := messageTime(a)
	bKey, bParsed := messageTime(b)
	if aParsed && bParsed {
		return aKey.Before(bKey)
	}
	return messageTimeString(a) < messageTimeString(b)
}

func messageTimeString(msg Message) string {
	if msg.Timestamp != "" {
		return msg.Timestamp
	}
	return msg.CreatedTime
}

func messageTime(msg Message) (time.Time, bool) {
	ts, err := time.Parse(time.RFC3339, messageTimeString(msg))
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
