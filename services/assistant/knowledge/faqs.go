// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
)

// FAQWriter is the store path for FAQ pairs.
type FAQWriter interface {
	StoreFAQ(ctx context.Context, faqID, question, answer, language string) (bool, error)
}

// faqRecord is one entry of the FAQ export. The question and answer fields
// are themselves JSON-encoded maps from language code to text.
type faqRecord struct {
	ID       json.Number `json:"id"`
	Question string      `json:"question"`
	Answer   string      `json:"answer"`
}

// FAQIdentity builds the logical identity of one question/answer pair in one
// language. Deterministic, so re-importing the same export never duplicates.
func FAQIdentity(id, language string) string {
	return fmt.Sprintf("faq:%s:%s", id, language)
}

// FAQImporter imports multi-language FAQ exports.
type FAQImporter struct {
	writer FAQWriter
}

func NewFAQImporter(writer FAQWriter) *FAQImporter {
	return &FAQImporter{writer: writer}
}

// ImportFile reads and imports a FAQ JSON export.
func (i *FAQImporter) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read FAQ file: %w", err)
	}
	return i.Import(ctx, content)
}

// Import stores every language version of every FAQ entry. Entries whose
// question or answer is missing for a language are skipped; a malformed
// per-language map fails the run because it means the export is broken.
func (i *FAQImporter) Import(ctx context.Context, content []byte) (ImportResult, error) {
	result := ImportResult{}

	var records []faqRecord
	if err := json.Unmarshal(content, &records); err != nil {
		return result, fmt.Errorf("failed to parse FAQ file: %w", err)
	}

	for _, record := range records {
		questions, err := decodeLanguageMap(record.Question)
		if err != nil {
			return result, fmt.Errorf("faq %s has malformed question map: %w", record.ID, err)
		}
		answers, err := decodeLanguageMap(record.Answer)
		if err != nil {
			return result, fmt.Errorf("faq %s has malformed answer map: %w", record.ID, err)
		}

		for _, lang := range sortedKeys(questions) {
			question := questions[lang]
			answer := answers[lang]
			if question == "" || answer == "" {
				continue
			}

			faqID := FAQIdentity(record.ID.String(), lang)
			created, err := i.writer.StoreFAQ(ctx, faqID, question, answer, lang)
			if err != nil {
				return result, fmt.Errorf("failed to store %s: %w", faqID, err)
			}
			result.ProcessedArticles++
			if created {
				result.Created++
			} else {
				result.Skipped++
			}
		}
	}

	slog.Info("FAQ import complete",
		"processed", result.ProcessedArticles,
		"created", result.Created,
		"skipped", result.Skipped)
	return result, nil
}

func decodeLanguageMap(raw string) (map[string]string, error) {
	m := map[string]string{}
	if raw == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// sortedKeys keeps the import order deterministic across runs.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
