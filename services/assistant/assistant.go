// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package assistant provides the customer support assistant service.
//
// This package contains the main Service type that coordinates all
// components: HTTP routing, the Freshchat crawler, the Weaviate-backed
// vector store, the answer synthesizer, and observability infrastructure.
//
// # Usage
//
//	cfg := assistant.ConfigFromEnv()
//	svc, err := assistant.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/AleutianSupport/services/assistant/datatypes"
	"github.com/AleutianAI/AleutianSupport/services/assistant/embedding"
	"github.com/AleutianAI/AleutianSupport/services/assistant/freshchat"
	"github.com/AleutianAI/AleutianSupport/services/assistant/observability"
	"github.com/AleutianAI/AleutianSupport/services/assistant/routes"
	"github.com/AleutianAI/AleutianSupport/services/assistant/synthesis"
	"github.com/AleutianAI/AleutianSupport/services/assistant/vectorstore"
	"github.com/AleutianAI/AleutianSupport/services/llm"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the assistant service.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and should
// only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	Router() *gin.Engine
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds assistant configuration options.
//
// # Required Fields
//
//   - APIToken: shared secret for the /api routes
//   - WeaviateURL: the vector store is not optional for this service
//   - FreshchatDomain, FreshchatAPIKey: helpdesk API access
//
// Everything else has a default applied by New().
type Config struct {
	// Port is the HTTP server port. Default: 12230
	Port int

	// APIToken authenticates callers of the /api routes.
	APIToken string

	// WeaviateURL is the Weaviate vector database URL.
	// Example: "http://aleutian-weaviate:8080"
	WeaviateURL string

	// LLMBackend specifies the LLM provider.
	// Valid values: "openai", "ollama". Default: "openai"
	LLMBackend string

	// AnswerModel overrides the model used for full answers.
	AnswerModel string

	// CompletionModel overrides the model used for tab completions.
	// Completions are latency-sensitive, so this is typically a smaller
	// model than AnswerModel.
	CompletionModel string

	// FreshchatDomain is the helpdesk API host (e.g. "acme.freshchat.com").
	FreshchatDomain string

	// FreshchatAPIKey authenticates against the helpdesk API.
	FreshchatAPIKey string

	// FreshchatRateLimit caps helpdesk requests per second. Default: 10
	FreshchatRateLimit float64

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// Default: "aleutian-otel-collector:4317"
	OTelEndpoint string

	// GinMode sets the Gin framework mode ("debug", "release", "test").
	GinMode string
}

// ConfigFromEnv builds a Config from environment variables. Missing optional
// values stay zero and pick up defaults in New().
func ConfigFromEnv() Config {
	return Config{
		Port:               getEnvInt("ASSISTANT_PORT", 0),
		APIToken:           getEnvString("ASSISTANT_API_TOKEN", ""),
		WeaviateURL:        getEnvString("WEAVIATE_SERVICE_URL", ""),
		LLMBackend:         getEnvString("LLM_BACKEND", ""),
		AnswerModel:        getEnvString("ANSWER_MODEL", ""),
		CompletionModel:    getEnvString("COMPLETION_MODEL", ""),
		FreshchatDomain:    getEnvString("FRESHCHAT_DOMAIN", ""),
		FreshchatAPIKey:    getEnvString("FRESHCHAT_API_KEY", ""),
		FreshchatRateLimit: float64(getEnvInt("FRESHCHAT_RATE_LIMIT", 0)),
		OTelEndpoint:       getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		GinMode:            getEnvString("GIN_MODE", ""),
	}
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// All fields are read-only after New() returns.
type service struct {
	config         Config
	router         *gin.Engine
	weaviateClient *weaviate.Client
	store          *vectorstore.Store
	crawler        *freshchat.Crawler
	synthesizer    *synthesis.Service
	freshchatAPI   *freshchat.Client
	tracerCleanup  func(context.Context)
}

// New creates a new assistant Service with the given configuration.
//
// # Description
//
// New initializes all components:
//  1. Applies default configuration for missing values
//  2. Initializes OpenTelemetry tracing
//  3. Initializes Prometheus metrics
//  4. Connects to Weaviate and ensures the retrieval schema exists
//  5. Creates the embedder, LLM clients, and Freshchat client
//  6. Sets up HTTP routes
//
// # Outputs
//
//   - Service: ready-to-run assistant service
//   - error: non-nil if any required dependency fails to initialize
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	if s.config.APIToken == "" {
		return nil, fmt.Errorf("ASSISTANT_API_TOKEN is required")
	}

	cleanup, err := s.initTracer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	s.tracerCleanup = cleanup

	observability.InitMetrics()
	slog.Info("Initialized Prometheus metrics")

	if err := s.initWeaviate(); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to initialize Weaviate: %w", err)
	}

	if err := s.initPipeline(); err != nil {
		s.cleanup()
		return nil, err
	}

	s.initRouter()

	return s, nil
}

// Run starts the HTTP server and blocks until shutdown or error.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting assistant server", "port", s.config.Port)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12230
	}
	if cfg.LLMBackend == "" {
		cfg.LLMBackend = "openai"
	}
	if cfg.FreshchatRateLimit <= 0 {
		cfg.FreshchatRateLimit = 10
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "aleutian-otel-collector:4317"
	}
	return cfg
}

// initTracer initializes OpenTelemetry distributed tracing.
//
// Uses an insecure gRPC connection, appropriate for internal networks.
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("assistant-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initWeaviate connects to the vector database and ensures the retrieval
// schema exists. Unlike a cache, the store is the product here, so a
// missing or unreachable Weaviate is fatal.
func (s *service) initWeaviate() error {
	weaviateURL := strings.Trim(s.config.WeaviateURL, "\"' ")
	if weaviateURL == "" {
		return fmt.Errorf("WEAVIATE_SERVICE_URL is required")
	}

	parsedURL, err := url.Parse(weaviateURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return fmt.Errorf("invalid Weaviate URL: %s", weaviateURL)
	}

	clientConf := weaviate.Config{
		Host:   parsedURL.Host,
		Scheme: parsedURL.Scheme,
	}

	s.weaviateClient, err = weaviate.NewClient(clientConf)
	if err != nil {
		return fmt.Errorf("failed to create Weaviate client: %w", err)
	}

	if err := datatypes.EnsureWeaviateSchema(context.Background(), s.weaviateClient); err != nil {
		return fmt.Errorf("failed to ensure Weaviate schema: %w", err)
	}
	slog.Info("Weaviate client initialized", "url", weaviateURL)

	return nil
}

// initPipeline wires the embedder, vector store, LLM clients, Freshchat
// client, crawler, and synthesizer.
func (s *service) initPipeline() error {
	embedder, err := embedding.NewOpenAIEmbedder()
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %w", err)
	}

	s.store = vectorstore.NewStore(s.weaviateClient, embedder)

	answerLLM, err := llm.NewClient(s.config.LLMBackend, s.config.AnswerModel)
	if err != nil {
		return fmt.Errorf("failed to initialize answer LLM client: %w", err)
	}
	completionLLM, err := llm.NewClient(s.config.LLMBackend, s.config.CompletionModel)
	if err != nil {
		return fmt.Errorf("failed to initialize completion LLM client: %w", err)
	}
	slog.Info("Using LLM backend", "backend", s.config.LLMBackend)

	s.synthesizer = synthesis.NewService(embedder, s.store, answerLLM, completionLLM)

	s.freshchatAPI, err = freshchat.NewClient(
		s.config.FreshchatDomain, s.config.FreshchatAPIKey, s.config.FreshchatRateLimit)
	if err != nil {
		return fmt.Errorf("failed to initialize Freshchat client: %w", err)
	}
	s.crawler = freshchat.NewCrawler(s.freshchatAPI, s.store)

	return nil
}

// initRouter sets up the Gin HTTP router with all routes.
func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.Default()
	s.router.Use(otelgin.Middleware("assistant-service"))

	routes.SetupRoutes(s.router, routes.Dependencies{
		APIToken:  s.config.APIToken,
		Answerer:  s.synthesizer,
		Completer: s.synthesizer,
		Ingestor:  s.crawler,
		Tester:    s.freshchatAPI,
	})
}

// cleanup releases all resources held by the service.
func (s *service) cleanup() {
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

// =============================================================================
// Environment Helpers
// =============================================================================

func getEnvString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("Invalid integer environment variable, using fallback",
			"key", key, "value", raw, "fallback", fallback)
		return fallback
	}
	return value
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)
