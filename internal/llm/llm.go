package llm

import (
	"context"
	"errors"

	"resume-studio/resume/contract"
)

// Generator abstracts the structured-output generation service.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}

// GenerateRequest is a single structured generation call.
type GenerateRequest struct {
	SystemInstruction string
	Parts             []Part
	Schema            *contract.Schema
}

// Part is either text or an inline image.
type Part struct {
	Text  string
	Image *Image
}

// Image is raw image bytes with their media type.
type Image struct {
	MIMEType string
	Data     []byte
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// ImagePart builds an inline image part.
func ImagePart(img Image) Part {
	return Part{Image: &img}
}

// Usage reports token accounting when the provider exposes it.
type Usage struct {
	PromptTokens    int
	CandidateTokens int
	TotalTokens     int
}

// GenerateResult holds the raw response text.
type GenerateResult struct {
	Text  string
	Usage *Usage
}

// ErrNotConfigured is returned by the placeholder generator.
var ErrNotConfigured = errors.New("generation service credential not configured")

// PlaceholderGenerator stands in when no API key is configured.
type PlaceholderGenerator struct{}

// Generate returns ErrNotConfigured.
func (PlaceholderGenerator) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	_ = ctx
	_ = req
	return GenerateResult{}, ErrNotConfigured
}
