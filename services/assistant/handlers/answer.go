// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers contains the HTTP handlers of the support assistant.
//
// Handlers depend on small interfaces declared here rather than on concrete
// services, so each one can be tested with an httptest server and a fake.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianSupport/pkg/validation"
	"github.com/AleutianAI/AleutianSupport/services/assistant/datatypes"
	"github.com/AleutianAI/AleutianSupport/services/assistant/observability"
)

var tracer = otel.Tracer("aleutian.assistant.handlers")

// Answerer produces a grounded answer for a customer question.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, datatypes.AnswerMetadata, error)
}

// HandleAnswer creates the GET /api/assistant handler.
//
// # Description
//
// Validates the question, synthesizes an answer over the retrieved context,
// and returns it with retrieval metadata. Upstream failures map to a generic
// 500; the real cause goes to the log and the span, never to the caller.
//
// # Inputs
//
//   - question (query): the customer question
//
// # Outputs
//
//   - 200: datatypes.AnswerResponse
//   - 400: missing or invalid question
//   - 500: synthesis failure
func HandleAnswer(svc Answerer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleAnswer")
		defer span.End()
		start := time.Now()

		question, err := validation.SanitizeQuestion(c.Query("question"))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			observability.DefaultMetrics.RecordRequest(observability.EndpointAnswer, false)
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Success: false,
				Error:   err.Error(),
			})
			return
		}
		span.SetAttributes(attribute.Int("question.length", len(question)))

		answer, meta, err := svc.Answer(ctx, question)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Answer synthesis failed", "error", err)
			observability.DefaultMetrics.RecordRequest(observability.EndpointAnswer, false)
			c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse{
				Success: false,
				Error:   "An error occurred while processing your request",
			})
			return
		}

		observability.DefaultMetrics.RecordRequest(observability.EndpointAnswer, true)
		observability.DefaultMetrics.RecordDuration(observability.EndpointAnswer, time.Since(start).Seconds())
		c.JSON(http.StatusOK, datatypes.AnswerResponse{
			Success:  true,
			Answer:   answer,
			Metadata: meta,
		})
	}
}
