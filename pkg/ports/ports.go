// Package ports declares the narrow interfaces through which the agent
// pipeline reaches external collaborators — the LLM, the embedding
// provider, ASR, vision captioning, URL fetching, and document
// extraction. Every concrete implementation lives in this package too,
// but callers upstream (pkg/agent, pkg/router) depend only on the
// interfaces, matching the teacher's pattern of isolating provider SDKs
// behind a small port boundary (pkg/llm/client.go plays the same role
// for tarsy's single LLM dependency).
package ports

import "context"

// ChatCompletion is the single-turn LLM call the ingestion pipeline and
// the intent classifier drive: a completion with an optional request
// for strict JSON output. The agent tool loop uses ToolChat instead.
type ChatCompletion interface {
	// Complete sends system+user turns to model and returns its text
	// response. When jsonObject is true the provider is instructed to
	// return a single JSON object and nothing else.
	Complete(ctx context.Context, model, system, user string, temperature float64, maxTokens int, jsonObject bool) (string, error)
}

// ChatMessage is one turn of a multi-turn conversation sent to
// ToolChat.CompleteWithTools — the port-layer counterpart of
// pkg/agent.Message, kept separate so this package never imports
// pkg/agent (which itself depends on ports).
type ChatMessage struct {
	Role       string // "user" | "assistant" | "tool"
	Content    string
	ToolUses   []ToolUse // assistant turns that requested tool calls
	ToolUseID  string    // set on a "tool" turn: which ToolUse this answers
	ToolName   string
}

// ToolUse is one tool invocation the model requested.
type ToolUse struct {
	ID        string
	Name      string
	InputJSON string // raw JSON object string of arguments
}

// ToolSpec is a tool offered to the model, the port-layer counterpart
// of pkg/agent.ToolDefinition.
type ToolSpec struct {
	Name, Description, ParametersSchema string
}

// ToolChatResult is one assistant turn: either plain text (StopReason
// "end_turn") or one or more requested tool calls (StopReason
// "tool_use").
type ToolChatResult struct {
	Text       string
	ToolUses   []ToolUse
	StopReason string
}

// ToolChat is the multi-turn, tool-calling counterpart of
// ChatCompletion, used by the management-intent agent loop
// (pkg/agent/tools) instead of the single-turn Complete call the
// ingestion pipeline uses.
type ToolChat interface {
	CompleteWithTools(ctx context.Context, model, system string, messages []ChatMessage, tools []ToolSpec, maxTokens int) (ToolChatResult, error)
}

// Embed turns a batch of strings into dense vectors. A per-input
// failure yields an empty vector at that index rather than aborting
// the whole batch, per spec.
type Embed interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Transcribe turns recorded audio into text. duration is the audio's
// length in seconds, used by callers to reject voice notes that exceed
// the configured maximum before ever calling this port.
type Transcribe interface {
	Transcribe(ctx context.Context, audio []byte, language string, duration float64) (string, error)
}

// VisionDescribe captions or describes an image, optionally steered by
// a user-supplied caption/question.
type VisionDescribe interface {
	Describe(ctx context.Context, image []byte, caption string) (string, error)
}

// FetchedPage is the normalized result of fetching a URL for ingestion.
type FetchedPage struct {
	Title      string
	Text       string
	SourceType string
	Metadata   map[string]any
}

// FetchURL retrieves and extracts readable content from a URL. A
// conforming implementation refuses to resolve and fetch any URL whose
// host resolves to a private, loopback, link-local, reserved,
// multicast, or unspecified address — the SSRF guard is part of this
// port's contract, not a deployment-time firewall concern.
type FetchURL interface {
	Fetch(ctx context.Context, url string) (FetchedPage, error)
}

// ExtractedDocument is the normalized result of extracting text from an
// uploaded document.
type ExtractedDocument struct {
	Text     string
	Title    string
	Metadata map[string]any
}

// DocumentKind enumerates the document formats ExtractDocument accepts.
type DocumentKind string

const (
	DocumentPDF  DocumentKind = "pdf"
	DocumentDOCX DocumentKind = "docx"
)

// ExtractDocument pulls text out of an uploaded file already saved at
// path. Too-large and too-many-pages cases are reported as a returned
// error (wrapping apperrors.ErrInputRejected / ErrExtractionFailed),
// never a panic.
type ExtractDocument interface {
	Extract(ctx context.Context, path string, kind DocumentKind) (ExtractedDocument, error)
}
