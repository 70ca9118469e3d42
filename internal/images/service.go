// Package images turns conversation snippets into generated images via the
// OpenAI Images API.
package images

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ethanbaker/fanchat/pkg/utils"
	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// maxPromptLength caps prompts at the Images API limit
const maxPromptLength = 4000

// promptPreamble frames the snippet so the model illustrates it instead of
// answering it
const promptPreamble = "Create an illustration capturing the following chat message:\n\n"

// Image is one generated image, returned as a URL or base64 payload
// depending on what the API produced
type Image struct {
	URL     string `json:"url,omitempty"`
	B64JSON string `json:"b64_json,omitempty"`
}

// Service generates images from conversation snippets
type Service struct {
	client openai.Client
	model  openai.ImageModel
}

// NewService creates the image service from configuration. OPENAI_API_KEY is
// required; OPENAI_IMAGE_MODEL overrides the default model
func NewService(cfg *utils.Config) (*Service, error) {
	apiKey := cfg.Get("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set in environment")
	}

	model := openai.ImageModel(cfg.GetWithDefault("OPENAI_IMAGE_MODEL", string(openai.ImageModelDallE3)))

	return &Service{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// GenerateFromSnippet generates one image from a turn's content
func (s *Service) GenerateFromSnippet(ctx context.Context, snippet string) (*Image, error) {
	prompt := buildPrompt(snippet)
	if prompt == "" {
		return nil, fmt.Errorf("snippet is empty")
	}

	resp, err := s.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  s.model,
		N:      openai.Int(1),
	})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("image generation returned no data")
	}

	return &Image{
		URL:     resp.Data[0].URL,
		B64JSON: resp.Data[0].B64JSON,
	}, nil
}

// buildPrompt frames and truncates a snippet into a valid image prompt.
// Returns empty string for blank snippets
func buildPrompt(snippet string) string {
	snippet = strings.TrimSpace(snippet)
	if snippet == "" {
		return ""
	}

	prompt := promptPreamble + snippet
	if len(prompt) > maxPromptLength {
		// Back off to a rune boundary so multi-byte characters are never
		// split mid-sequence
		cut := maxPromptLength
		for cut > 0 && !utf8.RuneStart(prompt[cut]) {
			cut--
		}
		prompt = prompt[:cut]
	}
	return prompt
}
