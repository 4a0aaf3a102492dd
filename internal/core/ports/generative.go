package ports

import "context"

// Generative is the external model API the feature endpoints pass through
// to. Implementations are pure request/response glue: no retries, no
// streaming, no local state.
type Generative interface {
	// GenerateText returns the model's text reply to a prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// AnalyzeImage returns the model's text reply to a prompt about a
	// base64-encoded image.
	AnalyzeImage(ctx context.Context, prompt, imageB64, mimeType string) (string, error)

	// GenerateImage returns a base64-encoded image for a prompt.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}
