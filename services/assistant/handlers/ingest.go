// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianSupport/pkg/validation"
	"github.com/AleutianAI/AleutianSupport/services/assistant/datatypes"
	"github.com/AleutianAI/AleutianSupport/services/assistant/freshchat"
	"github.com/AleutianAI/AleutianSupport/services/assistant/observability"
)

// defaultLookbackDays is the import window when the caller does not pass one.
const defaultLookbackDays = 30

// HistoryIngestor runs a historical conversation crawl.
type HistoryIngestor interface {
	IngestHistory(ctx context.Context, since time.Time) (freshchat.IngestStats, error)
}

// HandleImportHistorical creates the GET /api/import-historical handler.
//
// # Description
//
// Crawls the helpdesk history back to now minus the requested window and
// ingests every conversation that is not already stored. The crawl runs
// synchronously; the response reports how much it processed. The store's
// dedup check makes repeated calls with overlapping windows safe.
//
// # Inputs
//
//   - days (query, optional): lookback window, defaults to 30
//
// # Outputs
//
//   - 200: datatypes.IngestResponse
//   - 400: invalid days parameter
//   - 500: crawl failure (user enumeration unavailable)
func HandleImportHistorical(ingestor HistoryIngestor) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleImportHistorical")
		defer span.End()
		start := time.Now()

		days := defaultLookbackDays
		if raw := c.Query("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				span.SetStatus(codes.Error, "invalid days parameter")
				observability.DefaultMetrics.RecordRequest(observability.EndpointImport, false)
				c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
					Success: false,
					Error:   "days must be an integer",
				})
				return
			}
			days = parsed
		}
		if err := validation.ValidateLookbackDays(days); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			observability.DefaultMetrics.RecordRequest(observability.EndpointImport, false)
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Success: false,
				Error:   err.Error(),
			})
			return
		}
		span.SetAttributes(attribute.Int("import.days", days))

		since := time.Now().AddDate(0, 0, -days)
		stats, err := ingestor.IngestHistory(ctx, since)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Historical import failed", "error", err, "days", days)
			observability.DefaultMetrics.RecordRequest(observability.EndpointImport, false)
			c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse{
				Success: false,
				Error:   "An error occurred while processing your request",
			})
			return
		}

		slog.Info("Historical import complete",
			"days", days,
			"processed_users", stats.ProcessedUsers,
			"total_conversations", stats.TotalConversations,
			"duration", time.Since(start))
		observability.DefaultMetrics.RecordRequest(observability.EndpointImport, true)
		observability.DefaultMetrics.RecordDuration(observability.EndpointImport, time.Since(start).Seconds())
		c.JSON(http.StatusOK, datatypes.IngestResponse{
			Success:            true,
			ProcessedUsers:     stats.ProcessedUsers,
			TotalConversations: stats.TotalConversations,
		})
	}
}
