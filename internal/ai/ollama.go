package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/devops-automation/internal/config"
	"github.com/spec-kit/devops-automation/internal/domain"
)

// Client talks to an Ollama backend for diagnostic narratives. Every analysis
// is a single bounded attempt; any failure falls through to the deterministic
// fallback template so callers always receive a usable AIAnalysis.
type Client struct {
	baseURL string
	model   string
	timeout time.Duration
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds the adapter.
func NewClient(cfg config.OllamaConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		timeout: cfg.Timeout(),
		http:    &http.Client{},
		logger:  logger,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ConnectionReport is the result of a full connectivity test.
type ConnectionReport struct {
	Success         bool
	Endpoint        string
	Model           string
	AvailableModels []string
	TestAnalysis    string
	Error           string
}

// Analyze requests a diagnostic narrative for the ticket. It never returns
// an error: timeouts, transport failures and empty responses all degrade to
// the fallback template.
func (c *Client) Analyze(ctx context.Context, ticket domain.Ticket) domain.AIAnalysis {
	text, err := c.Generate(ctx, buildPrompt(ticket))
	if err != nil {
		c.logger.Warn("ollama analysis failed, using fallback",
			zap.Int("ticket_id", ticket.ID),
			zap.Error(err),
		)
		return FallbackAnalysis(ticket)
	}

	c.logger.Info("ollama analysis completed",
		zap.Int("ticket_id", ticket.ID),
		zap.Int("chars", len(text)),
	)
	return domain.AIAnalysis{
		Text:    text,
		Success: true,
		Source:  domain.AnalysisSourceGenerated,
	}
}

// Generate performs one bounded completion request.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama: HTTP %d", resp.StatusCode)
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}

	text := strings.TrimSpace(payload.Response)
	if text == "" {
		return "", errors.New("ollama: empty response")
	}
	return text, nil
}

// Ping probes backend reachability via the tags endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.listModels(ctx)
	return err
}

// TestConnection verifies reachability, model availability, and generation
// with a sample ticket.
func (c *Client) TestConnection(ctx context.Context) ConnectionReport {
	report := ConnectionReport{Endpoint: c.baseURL, Model: c.model}

	models, err := c.listModels(ctx)
	if err != nil {
		report.Error = fmt.Sprintf("ollama unreachable: %v", err)
		return report
	}
	report.AvailableModels = models

	found := false
	for _, name := range models {
		if name == c.model {
			found = true
			break
		}
	}
	if !found {
		report.Error = fmt.Sprintf("model %q not found", c.model)
		return report
	}

	sample := domain.Ticket{
		ID:          99999,
		Subject:     "Test connectivity to Ollama service",
		Description: "Connectivity test for the AI analysis integration",
		Priority:    domain.PriorityMedium,
		Environment: "test",
	}
	analysis := c.Analyze(ctx, sample)
	report.TestAnalysis = analysis.Text
	report.Success = analysis.Source == domain.AnalysisSourceGenerated
	if !report.Success {
		report.Error = "sample generation fell back to template"
	}
	return report
}

func (c *Client) listModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama: HTTP %d", resp.StatusCode)
	}

	var payload tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(payload.Models))
	for _, model := range payload.Models {
		names = append(names, model.Name)
	}
	return names, nil
}

func buildPrompt(ticket domain.Ticket) string {
	environment := "Not specified"
	if ticket.Environment != "" {
		environment = strings.ToUpper(ticket.Environment)
	}
	project := ticket.ProjectTag
	if project == "" {
		project = "Unknown"
	}

	var b strings.Builder
	b.WriteString("Act as a professional DevOps Engineer specializing in Kubernetes, GitLab CI/CD pipelines, and utility services such as RabbitMQ, Redis, Kafka, Elasticsearch, and NiFi. Provide a structured response similar to enterprise support portals.\n\n")
	b.WriteString("## Ticket Information\n")
	fmt.Fprintf(&b, "- ID: #%d\n", ticket.ID)
	fmt.Fprintf(&b, "- Subject: %s\n", ticket.Subject)
	fmt.Fprintf(&b, "- Description: %s\n", ticket.Description)
	fmt.Fprintf(&b, "- Priority: %s\n", ticket.Priority)
	fmt.Fprintf(&b, "- Environment: %s\n", environment)
	fmt.Fprintf(&b, "- Project: %s\n\n", project)
	b.WriteString("## Response Requirements\n")
	b.WriteString("Generate a professional support response with the following structure:\n\n")
	b.WriteString("1. **Acknowledgment** - Brief professional acknowledgment\n")
	b.WriteString("2. **Initial Assessment** - Technology category and potential impact\n")
	b.WriteString("3. **Information Required** - Structured bullet points requesting specific details\n")
	b.WriteString("4. **Troubleshooting Commands** - Relevant diagnostic commands if applicable\n")
	b.WriteString("5. **Next Steps** - Clear process for resolution\n\n")
	b.WriteString("Keep the response professional, structured, and under 300 words. Focus on information gathering rather than immediate solutions.")
	return b.String()
}
