// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package knowledge imports the knowledge base and FAQ files into the vector
// store through the same dedup-aware write path the crawler uses, so re-runs
// of the import commands are no-ops.
package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// articleSeparator splits the knowledge base file into articles.
const articleSeparator = "-----"

// ArticleWriter is the store path for knowledge articles.
type ArticleWriter interface {
	StoreArticle(ctx context.Context, articleID, title, content string) (bool, error)
}

// Article is one parsed knowledge base entry. The ID is positional
// ("article_1", "article_2", ...) so the same file always yields the same
// identities.
type Article struct {
	ID      string
	Title   string
	Content string
}

// ImportResult summarizes one import run.
type ImportResult struct {
	ProcessedArticles int
	Created           int
	Skipped           int
}

// ParseKnowledgeBase splits the raw knowledge base text into articles.
// Articles are separated by "-----"; within each article the first non-empty
// line is the title and the remaining non-empty lines are the content.
// Empty segments between separators are dropped.
func ParseKnowledgeBase(content string) []Article {
	segments := strings.Split(content, articleSeparator)
	articles := make([]Article, 0, len(segments))

	index := 0
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		index++

		var lines []string
		for _, line := range strings.Split(segment, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}

		title := strings.TrimSpace(lines[0])
		body := strings.TrimSpace(strings.Join(lines[1:], "\n"))

		articles = append(articles, Article{
			ID:      fmt.Sprintf("article_%d", index),
			Title:   title,
			Content: body,
		})
	}

	return articles
}

// Importer imports knowledge base files.
type Importer struct {
	writer ArticleWriter
}

func NewImporter(writer ArticleWriter) *Importer {
	return &Importer{writer: writer}
}

// ImportFile reads and imports a knowledge base file. Import commands are
// operator-run, so a store failure aborts the run rather than silently
// producing a half-imported knowledge base.
func (i *Importer) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read knowledge base file: %w", err)
	}
	return i.Import(ctx, string(content))
}

// Import parses and stores all articles from the given content.
func (i *Importer) Import(ctx context.Context, content string) (ImportResult, error) {
	result := ImportResult{}

	for _, article := range ParseKnowledgeBase(content) {
		created, err := i.writer.StoreArticle(ctx, article.ID, article.Title, article.Content)
		if err != nil {
			return result, fmt.Errorf("failed to store %s: %w", article.ID, err)
		}
		result.ProcessedArticles++
		if created {
			result.Created++
		} else {
			result.Skipped++
		}
	}

	slog.Info("Knowledge base import complete",
		"processed", result.ProcessedArticles,
		"created", result.Created,
		"skipped", result.Skipped)
	return result, nil
}
