package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"resume-studio/internal/llm"
	"resume-studio/internal/shared/telemetry"
	"resume-studio/resume/contract"
)

const defaultTimeout = 120 * time.Second

var (
	// ErrPermanentFailure marks auth and invalid-input failures that will not
	// succeed on a repeat call.
	ErrPermanentFailure = errors.New("permanent failure, do not retry")
	// ErrQuotaExceeded is returned on 429 responses.
	ErrQuotaExceeded = errors.New("gemini quota exceeded")
	// ErrTimeout is returned when the call exceeds its deadline.
	ErrTimeout = errors.New("gemini request timeout")
)

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Client implements llm.Generator on the Gemini API.
type Client struct {
	model    string
	timeout  time.Duration
	generate generateFunc
}

// NewClient constructs a Gemini client. A zero timeout uses the default.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return newWithFunc(model, timeout, client.Models.GenerateContent), nil
}

func newWithFunc(model string, timeout time.Duration, fn generateFunc) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{model: model, timeout: timeout, generate: fn}
}

// Generate performs exactly one GenerateContent call.
func (c *Client) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromParts(buildParts(req.Parts), genai.RoleUser)}
	resp, err := c.generate(ctx, c.model, contents, buildConfig(req))
	if err != nil {
		return llm.GenerateResult{}, classify(ctx, err)
	}
	if resp == nil {
		return llm.GenerateResult{}, nil
	}

	result := llm.GenerateResult{Text: resp.Text(), Usage: toUsage(resp.UsageMetadata)}
	logUsage(c.model, result.Usage)
	return result, nil
}

func buildParts(parts []llm.Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Image != nil {
			out = append(out, genai.NewPartFromBytes(p.Image.Data, p.Image.MIMEType))
			continue
		}
		out = append(out, genai.NewPartFromText(p.Text))
	}
	return out
}

func buildConfig(req llm.GenerateRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if strings.TrimSpace(req.SystemInstruction) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toSchema(req.Schema)
	}
	return cfg
}

func toSchema(s *contract.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{}
	switch s.Type {
	case contract.TypeObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		out.PropertyOrdering = make([]string, 0, len(s.Properties))
		for _, p := range s.Properties {
			out.Properties[p.Name] = toSchema(p.Schema)
			out.PropertyOrdering = append(out.PropertyOrdering, p.Name)
		}
		out.Required = append([]string(nil), s.Required...)
	case contract.TypeArray:
		out.Type = genai.TypeArray
		out.Items = toSchema(s.Items)
	default:
		out.Type = genai.TypeString
	}
	return out
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	code, ok := apiErrorCode(err)
	if !ok {
		return fmt.Errorf("gemini request failed: %w", err)
	}
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("gemini authentication failed (%d): %w", code, errors.Join(ErrPermanentFailure, err))
	case http.StatusBadRequest:
		return fmt.Errorf("gemini invalid input (400): %w", errors.Join(ErrPermanentFailure, err))
	case http.StatusTooManyRequests:
		return fmt.Errorf("gemini rate limited: %w", errors.Join(ErrQuotaExceeded, err))
	default:
		return fmt.Errorf("gemini upstream error (%d): %w", code, err)
	}
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

func toUsage(meta *genai.GenerateContentResponseUsageMetadata) *llm.Usage {
	if meta == nil {
		return nil
	}
	return &llm.Usage{
		PromptTokens:    int(meta.PromptTokenCount),
		CandidateTokens: int(meta.CandidatesTokenCount),
		TotalTokens:     int(meta.TotalTokenCount),
	}
}

func logUsage(model string, usage *llm.Usage) {
	fields := map[string]any{"model": model}
	if usage != nil {
		fields["prompt_tokens"] = usage.PromptTokens
		fields["candidate_tokens"] = usage.CandidateTokens
		fields["total_tokens"] = usage.TotalTokens
	}
	telemetry.Info("llm response", fields)
}

var _ llm.Generator = (*Client)(nil)
