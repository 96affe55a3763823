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
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianSupport/pkg/validation"
	"github.com/AleutianAI/AleutianSupport/services/assistant/datatypes"
	"github.com/AleutianAI/AleutianSupport/services/assistant/observability"
)

// Completer suggests the continuation of a partially typed agent reply.
type Completer interface {
	TabCompletion(ctx context.Context, typedText, lastAnswer string) (string, error)
}

// HandleTabCompletion creates the GET /api/assistant/tab-completion handler.
//
// # Inputs
//
//   - typedKeys (query): what the agent has typed so far
//   - lastMessage (query, optional): the previous assistant answer
//
// # Outputs
//
//   - 200: datatypes.CompletionResponse
//   - 400: missing or invalid typedKeys
//   - 500: completion failure
func HandleTabCompletion(svc Completer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleTabCompletion")
		defer span.End()
		start := time.Now()

		typed, err := validation.SanitizeTypedText(c.Query("typedKeys"))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			observability.DefaultMetrics.RecordRequest(observability.EndpointTabCompletion, false)
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Success: false,
				Error:   err.Error(),
			})
			return
		}
		lastMessage := c.Query("lastMessage")

		completion, err := svc.TabCompletion(ctx, typed, lastMessage)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Tab completion failed", "error", err)
			observability.DefaultMetrics.RecordRequest(observability.EndpointTabCompletion, false)
			c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse{
				Success: false,
				Error:   "An error occurred while processing your request",
			})
			return
		}

		observability.DefaultMetrics.RecordRequest(observability.EndpointTabCompletion, true)
		observability.DefaultMetrics.RecordDuration(observability.EndpointTabCompletion, time.Since(start).Seconds())
		c.JSON(http.StatusOK, datatypes.CompletionResponse{
			Success:    true,
			Completion: completion,
		})
	}
}
