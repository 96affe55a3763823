// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package routes wires the assistant's HTTP surface.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/AleutianSupport/services/assistant/handlers"
	"github.com/AleutianAI/AleutianSupport/services/assistant/middleware"
)

// Dependencies carries everything the route handlers need.
type Dependencies struct {
	APIToken  string
	Answerer  handlers.Answerer
	Completer handlers.Completer
	Ingestor  handlers.HistoryIngestor
	Tester    handlers.ConnectionTester
}

// SetupRoutes registers all routes on the given router.
//
// /health and /metrics are unauthenticated so probes and the Prometheus
// scraper do not need the API token. Everything under /api requires it.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.TokenAuthMiddleware(deps.APIToken))
	{
		api.GET("/assistant", handlers.HandleAnswer(deps.Answerer))
		api.GET("/assistant/tab-completion", handlers.HandleTabCompletion(deps.Completer))
		api.GET("/import-historical", handlers.HandleImportHistorical(deps.Ingestor))
		api.GET("/test-freshchat", handlers.HandleTestFreshchat(deps.Tester))
	}
}
