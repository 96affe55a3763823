// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command assistctl runs the assistant's operator tasks from the shell:
// knowledge base imports, FAQ imports, and historical conversation crawls.
//
// It talks to the same Weaviate instance and embedding provider as the
// server, so everything it writes is immediately retrievable. All writes go
// through the dedup gate, which makes every command safe to re-run.
//
// # Usage
//
//	assistctl import-knowledge ./knowledge_base.txt
//	assistctl import-faqs ./faqs.json
//	assistctl ingest-history --days 90
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"

	"github.com/AleutianAI/AleutianSupport/pkg/validation"
	"github.com/AleutianAI/AleutianSupport/services/assistant/datatypes"
	"github.com/AleutianAI/AleutianSupport/services/assistant/embedding"
	"github.com/AleutianAI/AleutianSupport/services/assistant/freshchat"
	"github.com/AleutianAI/AleutianSupport/services/assistant/knowledge"
	"github.com/AleutianAI/AleutianSupport/services/assistant/vectorstore"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:           "assistctl",
		Short:         "Operator tasks for the support assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newImportKnowledgeCmd())
	root.AddCommand(newImportFAQsCmd())
	root.AddCommand(newIngestHistoryCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newStore connects to Weaviate, ensures the schema, and wires the store with
// the OpenAI embedder. Shared by all subcommands.
func newStore(ctx context.Context) (*vectorstore.Store, error) {
	rawURL := strings.Trim(os.Getenv("WEAVIATE_SERVICE_URL"), "\"' ")
	if rawURL == "" {
		return nil, fmt.Errorf("WEAVIATE_SERVICE_URL is required")
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid Weaviate URL: %s", rawURL)
	}

	client, err := weaviate.NewClient(weaviate.Config{
		Host:   parsedURL.Host,
		Scheme: parsedURL.Scheme,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Weaviate client: %w", err)
	}
	if err := datatypes.EnsureWeaviateSchema(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to ensure Weaviate schema: %w", err)
	}

	embedder, err := embedding.NewOpenAIEmbedder()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	return vectorstore.NewStore(client, embedder), nil
}

func newImportKnowledgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-knowledge <file>",
		Short: "Import a knowledge base file into the vector store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := newStore(ctx)
			if err != nil {
				return err
			}

			result, err := knowledge.NewImporter(store).ImportFile(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d articles (%d created, %d already stored)\n",
				result.ProcessedArticles, result.Created, result.Skipped)
			return nil
		},
	}
}

func newImportFAQsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-faqs <file>",
		Short: "Import a FAQ JSON export into the vector store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := newStore(ctx)
			if err != nil {
				return err
			}

			result, err := knowledge.NewFAQImporter(store).ImportFile(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d FAQ entries (%d created, %d already stored)\n",
				result.ProcessedArticles, result.Created, result.Skipped)
			return nil
		},
	}
}

func newIngestHistoryCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "ingest-history",
		Short: "Crawl helpdesk history and ingest conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateLookbackDays(days); err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := newStore(ctx)
			if err != nil {
				return err
			}

			api, err := freshchat.NewClient(
				os.Getenv("FRESHCHAT_DOMAIN"), os.Getenv("FRESHCHAT_API_KEY"), 0)
			if err != nil {
				return err
			}

			since := time.Now().AddDate(0, 0, -days)
			stats, err := freshchat.NewCrawler(api, store).IngestHistory(ctx, since)
			if err != nil {
				return fmt.Errorf("crawl failed after %d users, %d conversations: %w",
					stats.ProcessedUsers, stats.TotalConversations, err)
			}
			fmt.Printf("Processed %d users, %d conversations stored\n",
				stats.ProcessedUsers, stats.TotalConversations)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "lookback window in days")
	return cmd
}
