package interfaces

import (
	"context"
	"iter"

	"github.com/m-mizutani/philosophia/pkg/model"
)

// Synthesizer creates a new profile for a name that is not in the catalog
type Synthesizer interface {
	Synthesize(ctx context.Context, name string) (*model.Profile, error)
}

// ChatStreamer produces an assistant reply as a finite sequence of non-empty text fragments.
// An error ends the sequence; fragments yielded before it are not retracted.
type ChatStreamer interface {
	StreamChat(ctx context.Context, personaName string, prior []model.ChatTurn, message string) iter.Seq2[string, error]
}

// Generator is the full generation backend boundary
type Generator interface {
	Synthesizer
	ChatStreamer
}
