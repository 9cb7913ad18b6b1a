package ports

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/inbox/pkg/apperrors"
)

// Transcribe, VisionDescribe, and ExtractDocument are, per spec.md §1,
// out-of-scope external collaborators: a real deployment wires in
// whatever ASR/vision/document-extraction vendor it has a contract
// with. The implementations below are the until-then fallbacks —
// NotImplemented ports that fail closed with ErrProviderFailed /
// ErrExtractionFailed rather than silently no-op, so the ingestion
// pipeline's "provider failed" handling path (spec.md §7) is always
// exercised the same way a real outage would exercise it.

// NotImplementedTranscribe always fails; swap in a real ASR vendor.
type NotImplementedTranscribe struct{}

func (NotImplementedTranscribe) Transcribe(ctx context.Context, audio []byte, language string, duration float64) (string, error) {
	return "", fmt.Errorf("%w: voice transcription not configured", apperrors.ErrProviderFailed)
}

// NotImplementedVisionDescribe always fails; swap in a real vision vendor.
type NotImplementedVisionDescribe struct{}

func (NotImplementedVisionDescribe) Describe(ctx context.Context, image []byte, caption string) (string, error) {
	return "", fmt.Errorf("%w: image captioning not configured", apperrors.ErrProviderFailed)
}

// NotImplementedExtractDocument always fails with ErrExtractionFailed;
// swap in a real pdf/docx extraction library.
type NotImplementedExtractDocument struct{}

func (NotImplementedExtractDocument) Extract(ctx context.Context, path string, kind DocumentKind) (ExtractedDocument, error) {
	return ExtractedDocument{}, fmt.Errorf("%w: %s extraction not configured", apperrors.ErrExtractionFailed, kind)
}

// NotImplementedEmbed always fails. The embedding provider itself is out
// of scope (spec.md §1): a deployment wires in whatever vendor backs its
// pgvector column dimensionality. Per-item embed failures surfaced this
// way leave the item's embedding column NULL rather than blocking
// ingestion, same as a real provider outage would (spec.md §7).
type NotImplementedEmbed struct{}

func (NotImplementedEmbed) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, fmt.Errorf("%w: embedding provider not configured", apperrors.ErrProviderFailed)
}
