package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiAnalyzer struct {
	model *genai.GenerativeModel
}

func NewGeminiAnalyzer(apiKey string) (*GeminiAnalyzer, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("models/gemini-1.5-pro")
	model.ResponseMIMEType = "application/json"
	return &GeminiAnalyzer{model: model}, nil
}

// AnalyzeDocument sends the document plus the fixed extraction instruction to
// Gemini and decodes the JSON object it returns.
func (g *GeminiAnalyzer) AnalyzeDocument(ctx context.Context, req Request) (map[string]any, error) {
	parts := []genai.Part{genai.Text(extractionPrompt)}
	switch {
	case len(req.ImageData) > 0:
		parts = append(parts, genai.ImageData(imageFormat(req.MIMEType), req.ImageData))
	case req.Text != "":
		parts = append(parts, genai.Text("Document text:\n"+req.Text))
	default:
		return nil, fmt.Errorf("analysis request carries neither image data nor text")
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}

	raw := StripJSONFence(sb.String())
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("gemini returned malformed JSON: %w", err)
	}
	return payload, nil
}

// imageFormat maps a MIME type to the bare format name the SDK expects.
func imageFormat(mimeType string) string {
	if idx := strings.Index(mimeType, "/"); idx >= 0 {
		return mimeType[idx+1:]
	}
	if mimeType == "" {
		return "jpeg"
	}
	return mimeType
}
