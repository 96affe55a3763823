// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for user-facing endpoints.
//
// This package contains validators for user-provided inputs that end up in
// prompts, vector-store queries, or external API calls. Validating at the
// boundary keeps control characters and oversized payloads out of the
// retrieval and synthesis pipeline.
package validation

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// MaxQuestionLength bounds a single user question. Anything longer is
	// almost certainly a paste accident and would blow the embedding input.
	MaxQuestionLength = 4096

	// MaxTypedTextLength bounds the typed prefix for tab completion.
	MaxTypedTextLength = 1024

	// MaxLookbackDays bounds the historical import window.
	MaxLookbackDays = 730
)

// SanitizeQuestion trims and validates a user question.
//
// Valid questions:
//   - Non-empty after trimming
//   - At most MaxQuestionLength characters
//   - No control characters other than newline and tab
//
// Returns the trimmed question if valid, or an error if invalid.
//
// Example:
//
//	question, err := validation.SanitizeQuestion(c.Query("question"))
//	if err != nil {
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	    return
//	}
func SanitizeQuestion(question string) (string, error) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return "", fmt.Errorf("question cannot be empty")
	}
	if len(trimmed) > MaxQuestionLength {
		return "", fmt.Errorf("question exceeds %d characters", MaxQuestionLength)
	}
	if err := checkControlChars(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

// SanitizeTypedText trims and validates the typed prefix for tab completion.
// Unlike questions, leading whitespace is significant for completions, so
// only the right side is trimmed.
func SanitizeTypedText(typed string) (string, error) {
	trimmed := strings.TrimRight(typed, " \t\r\n")
	if strings.TrimSpace(trimmed) == "" {
		return "", fmt.Errorf("typed text cannot be empty")
	}
	if len(trimmed) > MaxTypedTextLength {
		return "", fmt.Errorf("typed text exceeds %d characters", MaxTypedTextLength)
	}
	if err := checkControlChars(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

// ValidateLookbackDays validates the "days" parameter of the historical
// import endpoint. Zero is rejected; the handler applies its own default
// before calling this.
func ValidateLookbackDays(days int) error {
	if days < 1 {
		return fmt.Errorf("days must be at least 1, got %d", days)
	}
	if days > MaxLookbackDays {
		return fmt.Errorf("days must be at most %d, got %d", MaxLookbackDays, days)
	}
	return nil
}

// checkControlChars rejects control characters except newline and tab.
func checkControlChars(s string) error {
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return fmt.Errorf("input contains control character %U", r)
		}
	}
	return nil
}
