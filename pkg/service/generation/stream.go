package generation

import (
	"context"
	"iter"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/philosophia/pkg/model"
	"google.golang.org/genai"
)

func toContents(turns []model.ChatTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns)+1)
	for _, turn := range turns {
		// Gemini rejects empty parts; an assistant turn may be empty if a stream produced nothing
		if turn.Content == "" {
			continue
		}
		role := genai.Role(genai.RoleUser)
		if turn.Role == model.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	return contents
}

// StreamChat opens a persona-conditioned conversation seeded with prior and streams the reply to message.
func (c *Client) StreamChat(ctx context.Context, personaName string, prior []model.ChatTurn, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		system, err := render(personaPromptTmpl, map[string]any{"Name": personaName})
		if err != nil {
			yield("", generationError(err, "failed to build persona instruction"))
			return
		}

		contents := toContents(prior)
		contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

		config := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, ""),
		}

		for resp, err := range c.gemini.GenerateContentStream(ctx, contents, config) {
			if err != nil {
				yield("", generationError(err, "failed to stream chat", goerr.V("persona", personaName)))
				return
			}

			text := responseText(resp)
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}
