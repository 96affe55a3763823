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
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
)

// ConnectionTester probes the upstream helpdesk API. Returns the upstream
// HTTP status and body so the caller can see exactly what the helpdesk said.
type ConnectionTester interface {
	TestConnection(ctx context.Context) (int, string, error)
}

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// HandleTestFreshchat creates the GET /api/test-freshchat handler. It is a
// configuration probe: it calls a cheap upstream endpoint and relays the
// upstream status and body, so an operator can tell a bad API key apart from
// a bad domain without reading logs.
func HandleTestFreshchat(tester ConnectionTester) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleTestFreshchat")
		defer span.End()

		status, body, err := tester.TestConnection(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":         status >= 200 && status < 300,
			"upstream_status": status,
			"upstream_body":   body,
		})
	}
}
