// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for knowledge base and FAQ imports.

package knowledge

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKnowledgeBase(t *testing.T) {
	content := `Refund policy
Refunds are processed within 5 days.
Contact billing for details.
-----
Lesson scheduling

You can reschedule up to 2 hours before the lesson.
-----
`

	articles := ParseKnowledgeBase(content)
	require.Len(t, articles, 2)

	assert.Equal(t, "article_1", articles[0].ID)
	assert.Equal(t, "Refund policy", articles[0].Title)
	assert.Equal(t, "Refunds are processed within 5 days.\nContact billing for details.", articles[0].Content)

	assert.Equal(t, "article_2", articles[1].ID)
	assert.Equal(t, "Lesson scheduling", articles[1].Title)
	assert.Equal(t, "You can reschedule up to 2 hours before the lesson.", articles[1].Content)
}

func TestParseKnowledgeBaseSkipsEmptySegments(t *testing.T) {
	content := "-----\n\n-----\nOnly article\nBody text\n-----\n   \n"

	articles := ParseKnowledgeBase(content)
	require.Len(t, articles, 1)
	assert.Equal(t, "article_1", articles[0].ID)
	assert.Equal(t, "Only article", articles[0].Title)
}

func TestParseKnowledgeBaseDeterministicIDs(t *testing.T) {
	content := "A\na body\n-----\nB\nb body"
	first := ParseKnowledgeBase(content)
	second := ParseKnowledgeBase(content)
	assert.Equal(t, first, second)
}

type fakeArticleWriter struct {
	stored     []Article
	duplicates map[string]bool
	failFor    map[string]bool
}

func (w *fakeArticleWriter) StoreArticle(ctx context.Context, articleID, title, content string) (bool, error) {
	if w.failFor[articleID] {
		return false, fmt.Errorf("store unavailable")
	}
	if w.duplicates[articleID] {
		return false, nil
	}
	w.stored = append(w.stored, Article{ID: articleID, Title: title, Content: content})
	return true, nil
}

func TestImportCountsCreatedAndSkipped(t *testing.T) {
	writer := &fakeArticleWriter{duplicates: map[string]bool{"article_1": true}}
	importer := NewImporter(writer)

	result, err := importer.Import(context.Background(), "A\na body\n-----\nB\nb body")
	require.NoError(t, err)

	assert.Equal(t, 2, result.ProcessedArticles)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, writer.stored, 1)
	assert.Equal(t, "article_2", writer.stored[0].ID)
}

func TestImportAbortsOnStoreFailure(t *testing.T) {
	writer := &fakeArticleWriter{failFor: map[string]bool{"article_2": true}}
	importer := NewImporter(writer)

	_, err := importer.Import(context.Background(), "A\na\n-----\nB\nb\n-----\nC\nc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "article_2")
	// Nothing past the failure is written.
	require.Len(t, writer.stored, 1)
}

type fakeFAQWriter struct {
	stored  []string
	entries map[string][2]string
}

func (w *fakeFAQWriter) StoreFAQ(ctx context.Context, faqID, question, answer, language string) (bool, error) {
	if w.entries == nil {
		w.entries = map[string][2]string{}
	}
	w.stored = append(w.stored, faqID)
	w.entries[faqID] = [2]string{question, answer}
	return true, nil
}

func TestFAQImportMultiLanguage(t *testing.T) {
	content := []byte(`[
		{
			"id": 12,
			"question": "{\"en\":\"How do I cancel?\",\"tr\":\"Nasıl iptal ederim?\"}",
			"answer": "{\"en\":\"Use the panel.\",\"tr\":\"Paneli kullanın.\"}"
		}
	]`)
	writer := &fakeFAQWriter{}

	result, err := NewFAQImporter(writer).Import(context.Background(), content)
	require.NoError(t, err)

	assert.Equal(t, 2, result.ProcessedArticles)
	assert.Equal(t, []string{"faq:12:en", "faq:12:tr"}, writer.stored)
	assert.Equal(t, [2]string{"How do I cancel?", "Use the panel."}, writer.entries["faq:12:en"])
}

func TestFAQImportSkipsIncompleteLanguages(t *testing.T) {
	content := []byte(`[
		{
			"id": 7,
			"question": "{\"en\":\"Question?\",\"de\":\"Frage?\"}",
			"answer": "{\"en\":\"Answer.\"}"
		}
	]`)
	writer := &fakeFAQWriter{}

	result, err := NewFAQImporter(writer).Import(context.Background(), content)
	require.NoError(t, err)

	// The German pair has no answer, so only the English one is stored.
	assert.Equal(t, 1, result.ProcessedArticles)
	assert.Equal(t, []string{"faq:7:en"}, writer.stored)
}

func TestFAQImportMalformedLanguageMapFails(t *testing.T) {
	content := []byte(`[{"id": 1, "question": "not-json", "answer": "{}"}]`)

	_, err := NewFAQImporter(&fakeFAQWriter{}).Import(context.Background(), content)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed question map")
}

func TestFAQIdentityDeterministic(t *testing.T) {
	assert.Equal(t, "faq:12:tr", FAQIdentity("12", "tr"))
	assert.Equal(t, FAQIdentity("12", "tr"), FAQIdentity("12", "tr"))
}
