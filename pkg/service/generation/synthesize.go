package generation

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/philosophia/pkg/model"
	"github.com/m-mizutani/philosophia/pkg/utils/logging"
	"google.golang.org/genai"
)

type synthesizedProfile struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Dates        string   `json:"dates"`
	School       string   `json:"school"`
	ShortBio     string   `json:"shortBio"`
	FullBio      string   `json:"fullBio"`
	KeyIdeas     []string `json:"keyIdeas"`
	FamousQuotes []string `json:"famousQuotes"`
	ImageURL     string   `json:"imageUrl"`
}

// Synthesize asks Gemini for a structured profile of name. The result is never partial:
// any backend, parse or schema failure returns ErrGeneration and no profile.
func (c *Client) Synthesize(ctx context.Context, name string) (*model.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "name is empty")
	}

	prompt, err := render(synthesizePromptTmpl, map[string]any{"Name": name})
	if err != nil {
		return nil, err
	}

	thinkingBudget := int32(0)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   c.schema,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  &thinkingBudget,
		},
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	logging.From(ctx).Debug("synthesizing profile", "name", name)

	resp, err := c.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		return nil, generationError(err, "failed to synthesize profile", goerr.V("name", name))
	}

	rawJSON := stripCodeFence(responseText(resp))
	if rawJSON == "" {
		return nil, generationError(nil, "gemini returned an empty response", goerr.V("name", name))
	}

	var instance map[string]any
	if err := json.Unmarshal([]byte(rawJSON), &instance); err != nil {
		return nil, generationError(err, "failed to parse profile JSON", goerr.V("json", rawJSON))
	}
	if err := c.validator.Validate(instance); err != nil {
		return nil, generationError(err, "profile JSON violates schema", goerr.V("json", rawJSON))
	}

	var data synthesizedProfile
	if err := json.Unmarshal([]byte(rawJSON), &data); err != nil {
		return nil, generationError(err, "failed to unmarshal profile JSON", goerr.V("json", rawJSON))
	}

	profile := &model.Profile{
		ID:           model.ProfileID(strings.TrimSpace(data.ID)),
		Name:         data.Name,
		DateRange:    data.Dates,
		School:       data.School,
		ShortSummary: data.ShortBio,
		LongSummary:  data.FullBio,
		KeyIdeas:     data.KeyIdeas,
		Quotes:       data.FamousQuotes,
		ImageURL:     data.ImageURL,
		Comments:     []*model.Comment{},
	}
	if profile.ID == "" {
		profile.ID = model.NewProfileID(profile.Name)
	}
	if profile.ImageURL == "" {
		profile.ImageURL = model.PlaceholderImageURL(c.pickImage())
	}

	if err := profile.Validate(); err != nil {
		return nil, generationError(err, "synthesized profile is incomplete", goerr.V("json", rawJSON))
	}

	return profile, nil
}

// stripCodeFence removes a surrounding Markdown code fence some models add around JSON
func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
