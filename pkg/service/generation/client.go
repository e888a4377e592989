package generation

import (
	"bytes"
	_ "embed"
	"errors"
	"math/rand/v2"
	"strings"
	"text/template"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/philosophia/pkg/adapter"
	"github.com/m-mizutani/philosophia/pkg/model"
	"google.golang.org/genai"
)

//go:embed prompt/synthesize.md
var synthesizePromptRaw string

//go:embed prompt/persona.md
var personaPromptRaw string

var (
	synthesizePromptTmpl = template.Must(template.New("synthesize").Parse(synthesizePromptRaw))
	personaPromptTmpl    = template.Must(template.New("persona").Parse(personaPromptRaw))
)

// Client talks to Gemini for profile synthesis and persona chat
type Client struct {
	gemini adapter.Gemini

	schema    *genai.Schema
	validator *jsonschema.Resolved
	pickImage func() int
}

type Option func(*Client)

// WithImagePicker overrides how the placeholder portrait slot is chosen
func WithImagePicker(f func() int) Option {
	return func(c *Client) {
		c.pickImage = f
	}
}

// New creates a generation client over the given Gemini adapter
func New(gemini adapter.Gemini, opts ...Option) (*Client, error) {
	if gemini == nil {
		return nil, goerr.Wrap(model.ErrConfiguration, "gemini client is required")
	}

	schema := profileSchema()
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve profile schema")
	}
	genaiSchema, err := convertSchema(schema)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to convert profile schema")
	}

	c := &Client{
		gemini:    gemini,
		schema:    genaiSchema,
		validator: resolved,
		pickImage: func() int { return rand.IntN(50) },
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// generationError marks err as a generation failure while keeping it in the chain
func generationError(err error, msg string, opts ...goerr.Option) error {
	if err == nil {
		return goerr.Wrap(model.ErrGeneration, msg, opts...)
	}
	return goerr.Wrap(errors.Join(model.ErrGeneration, err), msg, opts...)
}

// responseText concatenates the text parts of the first candidate, skipping thoughts
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute prompt template", goerr.V("template", tmpl.Name()))
	}
	return buf.String(), nil
}
