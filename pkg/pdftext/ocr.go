package pdftext

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// MinTextLayer is the shortest text layer trusted without OCR.
const MinTextLayer = 100

const ocrPrompt = "Transcribe all the text of this scanned document exactly as written, page by page. " +
	"Return the plain text only, without commentary or formatting."

// OCR reads the text of a scanned PDF.
type OCR interface {
	Recognize(ctx context.Context, data []byte) (string, error)
}

// NeedsOCR reports whether the extracted text layer is too thin to be the
// whole document.
func NeedsOCR(text string) bool {
	return len(strings.TrimSpace(text)) < MinTextLayer
}

// GeminiOCR sends the PDF inline to a Gemini model.
type GeminiOCR struct {
	client    *genai.Client
	ModelName string
}

var _ OCR = &GeminiOCR{}

func NewGeminiOCR(ctx context.Context, apiKey, modelName string) (*GeminiOCR, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ocr: api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("ocr: new client: %w", err)
	}
	return &GeminiOCR{client: client, ModelName: modelName}, nil
}

func (g *GeminiOCR) Recognize(ctx context.Context, data []byte) (string, error) {
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			genai.NewPartFromBytes(data, "application/pdf"),
			genai.NewPartFromText(ocrPrompt),
		},
	}}
	temperature := float32(0)
	resp, err := g.client.Models.GenerateContent(ctx, g.ModelName, contents, &genai.GenerateContentConfig{
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
