package reagent

import (
	"context"

	"github.com/tmc/langchaingo/llms"
)

// Model is the chat-model collaborator. It accepts an ordered message
// sequence and returns either free text or a schema-conformant structured
// object. Provider and transport failures are returned as errors wrapping
// ErrModelInvocation; coordinators treat them as recoverable per-stage
// failures.
//
// Messages use langchaingo's llms.MessageContent so any langchaingo provider
// can back the interface via models.NewLCG.
type Model interface {
	// GenerateText sends the messages and returns the model's raw text output.
	GenerateText(ctx context.Context, messages []llms.MessageContent) (string, error)

	// GenerateStructured sends the messages with a required output schema and
	// decodes the schema-conformant response into out (a pointer to a struct
	// or map). Implementations validate the response against outputSchema
	// before decoding.
	GenerateStructured(ctx context.Context, messages []llms.MessageContent, outputSchema map[string]any, out any) error
}
