// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command assistant starts the customer support assistant HTTP server.
//
// This is the main entry point for the containerized assistant service.
// It reads configuration from environment variables and starts the server.
//
// # Environment Variables
//
//   - ASSISTANT_PORT: HTTP server port (default: 12230)
//   - ASSISTANT_API_TOKEN: shared API token for /api routes (required)
//   - WEAVIATE_SERVICE_URL: Weaviate vector DB URL (required)
//   - LLM_BACKEND: LLM provider - openai, ollama (default: openai)
//   - ANSWER_MODEL / COMPLETION_MODEL: model overrides per role
//   - OPENAI_API_KEY: OpenAI credential (or /run/secrets/openai_api_key)
//   - FRESHCHAT_DOMAIN / FRESHCHAT_API_KEY: helpdesk API access
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (default: aleutian-otel-collector:4317)
//
// # Usage
//
//	# Build
//	go build -o assistant ./cmd/assistant
//
//	# Run
//	./assistant
package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/AleutianAI/AleutianSupport/services/assistant"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := assistant.ConfigFromEnv()

	slog.Info("Starting assistant",
		"port", cfg.Port,
		"llm_backend", cfg.LLMBackend,
		"weaviate_url", cfg.WeaviateURL,
		"freshchat_domain", cfg.FreshchatDomain,
	)

	svc, err := assistant.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create assistant: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Assistant error: %v", err)
	}
}
