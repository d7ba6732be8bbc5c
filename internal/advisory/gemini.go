package advisory

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini connector.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiConnector calls the Gemini API to generate advice.
type GeminiConnector struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewGeminiConnector creates the connector. An empty API key yields a
// connector that always fails with ConfigurationError.
func NewGeminiConnector(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiConnector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	g := &GeminiConnector{model: cfg.Model, timeout: cfg.Timeout, logger: logger}
	if cfg.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not provided; diagnosis disabled")
		return g, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	g.client = client
	return g, nil
}

// Analyze implements Connector.
func (g *GeminiConnector) Analyze(ctx context.Context, description, contextLabel string) (string, error) {
	if g.client == nil {
		g.logger.Warn("diagnosis requested without API key")
		return "", &ConfigurationError{Reason: "missing API key"}
	}

	ctx, span := otel.Tracer("advisory").Start(ctx, "advisory.analyze")
	defer span.End()
	span.SetAttributes(attribute.String("advisory.model", g.model))

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content := genai.NewContentFromText(BuildPrompt(description, contextLabel), genai.RoleUser)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{content}, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		g.logger.Error("gemini generate content", zap.Error(err))
		return "", &ServiceError{Err: err}
	}
	span.SetStatus(codes.Ok, "")
	if resp == nil || len(resp.Candidates) == 0 {
		return "", nil
	}
	return resp.Text(), nil
}
