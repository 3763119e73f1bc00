package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/system_zh.txt
	systemPromptZH string
	//go:embed prompts/image_zh.txt
	imagePromptZH string
)

// InputPrefix labels the free-text part sent with every extraction.
const InputPrefix = "输入内容: "

// SystemInstruction returns the instruction that frames resume extraction.
func SystemInstruction() string {
	return strings.TrimSpace(systemPromptZH)
}

// ImageInstruction returns the text appended after a reference image part.
func ImageInstruction() string {
	return strings.TrimSpace(imagePromptZH)
}
