package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// transcribePrompt asks for a verbatim transcription. The heuristic parser
// downstream does all interpretation, so the model must not summarize.
const transcribePrompt = `You are reading a photo or scan of a store receipt.

Transcribe ALL visible text exactly as printed, one receipt line per output
line, preserving the original line order. Include item lines, quantities,
prices, totals, taxes, dates and any footer text.

Do not interpret, summarize, reorder or annotate anything. Do not use
markdown. Output plain text only.`

// Gemini implements Recognizer using Google Gemini vision models.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini-backed recognizer.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Recognize converts the upload to PNG, streams a transcription from the
// model and reports a monotone completion fraction per received chunk. The
// fraction is heuristic (the total response size is unknown up front) but
// always lands on 1.0 on success.
func (g *Gemini) Recognize(ctx context.Context, data []byte, contentType string, progress func(float64)) (string, error) {
	pngData, err := toPNG(data, contentType)
	if err != nil {
		return "", &Error{Op: "prepare", Err: err}
	}

	parts := []genai.Part{
		genai.ImageData("png", pngData),
		genai.Text(transcribePrompt),
	}

	iter := g.model.GenerateContentStream(ctx, parts...)
	var text strings.Builder
	chunks := 0
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return "", &Error{Op: "recognize", Err: err}
		}

		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}

		chunks++
		if progress != nil {
			progress(1 - 1/float64(chunks+1))
		}
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", &Error{Op: "recognize", Err: errors.New("model returned no text")}
	}
	if progress != nil {
		progress(1)
	}
	return out, nil
}

// Close closes the underlying Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
