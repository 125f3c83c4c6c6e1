package analysis

import "context"

// Request carries one document to analyze: either raw image bytes or
// pre-extracted text, never both.
type Request struct {
	ImageData []byte
	MIMEType  string // e.g. "image/jpeg", required with ImageData
	Text      string
}

// DocumentAnalyzer sends a receipt/invoice to an external vision/text model
// and returns the decoded JSON payload it produced.
type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, req Request) (map[string]any, error)
}
