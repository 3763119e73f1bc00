package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-studio/internal/llm"
	"resume-studio/internal/shared/metrics"
	"resume-studio/internal/shared/telemetry"
	"resume-studio/resume/contract"
	"resume-studio/resume/model"
)

// Input is the free text plus an optional reference image.
type Input struct {
	Text  string
	Image *llm.Image
}

// Client turns free text into ResumeData through one structured generation call.
type Client struct {
	Generator llm.Generator
	Model     string
}

// New constructs a Client. A nil generator behaves as unconfigured.
func New(gen llm.Generator, model string) *Client {
	if gen == nil {
		gen = llm.PlaceholderGenerator{}
	}
	return &Client{Generator: gen, Model: model}
}

// Extract performs exactly one outbound call and classifies the result.
func (c *Client) Extract(ctx context.Context, in Input) (model.ResumeData, error) {
	if strings.TrimSpace(in.Text) == "" {
		return model.ResumeData{}, ErrEmptyInput
	}

	start := time.Now()
	metrics.IncExtractionStarted()

	res, err := c.Generator.Generate(ctx, BuildRequest(in))
	if err != nil {
		metrics.IncExtractionFailed()
		c.log(ctx, start, OutcomeFailure, nil, err)
		return model.ResumeData{}, fmt.Errorf("%w: %w", ErrServiceFailure, err)
	}

	data, err := Parse(res.Text)
	switch {
	case err == nil:
		metrics.IncExtractionSucceeded()
		c.log(ctx, start, OutcomeSuccess, res.Usage, nil)
		return data, nil
	case errors.Is(err, ErrNoData):
		metrics.IncExtractionNoData()
		c.log(ctx, start, OutcomeNoData, res.Usage, err)
	default:
		metrics.IncExtractionMalformed()
		c.log(ctx, start, OutcomeMalformed, res.Usage, err)
	}
	return model.ResumeData{}, err
}

// BuildRequest assembles the generation request for in.
func BuildRequest(in Input) llm.GenerateRequest {
	parts := []llm.Part{llm.TextPart(llm.InputPrefix + in.Text)}
	if in.Image != nil && len(in.Image.Data) > 0 {
		parts = append(parts, llm.ImagePart(*in.Image), llm.TextPart(llm.ImageInstruction()))
	}
	return llm.GenerateRequest{
		SystemInstruction: llm.SystemInstruction(),
		Parts:             parts,
		Schema:            contract.ResumeSchema,
	}
}

// Parse classifies raw response text into ResumeData, ErrNoData or
// ErrMalformedResponse.
func Parse(text string) (model.ResumeData, error) {
	cleaned := llm.CleanJSON(text)
	if cleaned == "" {
		return model.ResumeData{}, ErrNoData
	}
	data, err := contract.Decode([]byte(cleaned))
	if err == nil {
		return data, nil
	}
	if errors.Is(err, contract.ErrNotJSON) {
		return model.ResumeData{}, fmt.Errorf("%w: %w", ErrNoData, err)
	}
	return model.ResumeData{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
}

func (c *Client) log(ctx context.Context, start time.Time, outcome string, usage *llm.Usage, err error) {
	duration := metrics.SinceMillis(start)
	metrics.ObserveExtractionDurationMs(duration)

	fields := map[string]any{
		"request_id":  telemetry.RequestID(ctx),
		"model":       c.Model,
		"outcome":     outcome,
		"duration_ms": duration,
	}
	if usage != nil {
		fields["prompt_tokens"] = usage.PromptTokens
		fields["candidate_tokens"] = usage.CandidateTokens
		fields["total_tokens"] = usage.TotalTokens
	}
	if err != nil {
		fields["error"] = err.Error()
		telemetry.Warn("extraction.complete", fields)
		return
	}
	telemetry.Info("extraction.complete", fields)
}
