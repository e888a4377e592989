package generation_test

import (
	"context"
	"errors"
	"iter"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/philosophia/pkg/adapter"
	"github.com/m-mizutani/philosophia/pkg/model"
	"github.com/m-mizutani/philosophia/pkg/service/generation"
	"google.golang.org/genai"
)

// mockGemini records requests and replays canned responses
type mockGemini struct {
	text   string
	err    error
	chunks []string
	// streamErrAt fails the stream after this many chunks when >= 0
	streamErrAt int

	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func newMockGemini() *mockGemini {
	return &mockGemini{streamErrAt: -1}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}
}

func (m *mockGemini) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.contents = contents
	m.config = config
	if m.err != nil {
		return nil, m.err
	}
	return textResponse(m.text), nil
}

func (m *mockGemini) GenerateContentStream(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	m.contents = contents
	m.config = config
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for i, chunk := range m.chunks {
			if i == m.streamErrAt {
				yield(nil, goerr.New("connection reset"))
				return
			}
			if !yield(textResponse(chunk), nil) {
				return
			}
		}
		if m.streamErrAt == len(m.chunks) {
			yield(nil, goerr.New("connection reset"))
		}
	}
}

const zenoJSON = `{
  "name": "Zeno of Elea",
  "dates": "c. 490 – 430 BC",
  "school": "Eleatic",
  "shortBio": "Pre-Socratic philosopher famous for his paradoxes of motion.",
  "fullBio": "Zeno of Elea was a pre-Socratic Greek philosopher of the Eleatic school founded by Parmenides.",
  "keyIdeas": ["Paradoxes of motion", "Achilles and the Tortoise"],
  "famousQuotes": ["That which is in locomotion must arrive at the half-way stage before it arrives at the goal."]
}`

func newClient(t *testing.T, gemini adapter.Gemini) *generation.Client {
	client, err := generation.New(gemini, generation.WithImagePicker(func() int { return 7 }))
	gt.NoError(t, err)
	return client
}

func TestSynthesize(t *testing.T) {
	ctx := context.Background()
	gemini := newMockGemini()
	gemini.text = zenoJSON

	profile, err := newClient(t, gemini).Synthesize(ctx, "Zeno")
	gt.NoError(t, err)

	gt.Equal(t, profile.ID, model.ProfileID("zeno-of-elea"))
	gt.Equal(t, profile.Name, "Zeno of Elea")
	gt.Equal(t, profile.School, "Eleatic")
	gt.A(t, profile.KeyIdeas).Length(2)
	gt.A(t, profile.Quotes).Length(1)
	gt.Equal(t, profile.ImageURL, "https://picsum.photos/id/1007/400/400")
	gt.True(t, profile.Comments != nil)
	gt.A(t, profile.Comments).Length(0)

	t.Run("request is schema constrained JSON", func(t *testing.T) {
		gt.Equal(t, gemini.config.ResponseMIMEType, "application/json")
		gt.V(t, gemini.config.ResponseSchema).NotNil()
		gt.Equal(t, gemini.config.ResponseSchema.Type, genai.TypeObject)
		gt.True(t, slices.Contains(gemini.config.ResponseSchema.Required, "famousQuotes"))
		gt.Equal(t, gemini.config.ResponseSchema.Properties["keyIdeas"].Type, genai.TypeArray)

		gt.A(t, gemini.contents).Length(1)
		gt.S(t, gemini.contents[0].Parts[0].Text).Contains(`"Zeno"`)
	})
}

func TestSynthesizeKeepsGeneratedIDAndImage(t *testing.T) {
	gemini := newMockGemini()
	gemini.text = strings.Replace(zenoJSON, `"name"`, `"id": "zeno", "imageUrl": "https://example.com/zeno.png", "name"`, 1)

	profile, err := newClient(t, gemini).Synthesize(context.Background(), "Zeno")
	gt.NoError(t, err)
	gt.Equal(t, profile.ID, model.ProfileID("zeno"))
	gt.Equal(t, profile.ImageURL, "https://example.com/zeno.png")
}

func TestSynthesizeAcceptsCodeFence(t *testing.T) {
	gemini := newMockGemini()
	gemini.text = "```json\n" + zenoJSON + "\n```"

	profile, err := newClient(t, gemini).Synthesize(context.Background(), "Zeno")
	gt.NoError(t, err)
	gt.Equal(t, profile.Name, "Zeno of Elea")
}

func TestSynthesizeFailures(t *testing.T) {
	testCases := map[string]func(m *mockGemini){
		"backend error":     func(m *mockGemini) { m.err = errors.New("dial tcp: no route to host") },
		"empty response":    func(m *mockGemini) { m.text = "" },
		"broken JSON":       func(m *mockGemini) { m.text = `{"name": "Zeno"` },
		"missing field":     func(m *mockGemini) { m.text = strings.Replace(zenoJSON, `"school": "Eleatic",`, "", 1) },
		"empty key ideas":   func(m *mockGemini) { m.text = strings.Replace(zenoJSON, `["Paradoxes of motion", "Achilles and the Tortoise"]`, "[]", 1) },
		"empty name string": func(m *mockGemini) { m.text = strings.Replace(zenoJSON, `"Zeno of Elea"`, `""`, 1) },
		"wrong type":        func(m *mockGemini) { m.text = strings.Replace(zenoJSON, `"Eleatic"`, `42`, 1) },
	}

	for name, setup := range testCases {
		t.Run(name, func(t *testing.T) {
			gemini := newMockGemini()
			setup(gemini)

			profile, err := newClient(t, gemini).Synthesize(context.Background(), "Zeno")
			gt.Error(t, err).Is(model.ErrGeneration)
			gt.V(t, profile).Nil()
		})
	}
}

func TestSynthesizeEmptyName(t *testing.T) {
	gemini := newMockGemini()
	_, err := newClient(t, gemini).Synthesize(context.Background(), "   ")
	gt.Error(t, err).Is(model.ErrValidation)
	gt.V(t, gemini.config).Nil()
}

func TestNewRequiresGemini(t *testing.T) {
	_, err := generation.New(nil)
	gt.Error(t, err).Is(model.ErrConfiguration)
}

func collect(seq iter.Seq2[string, error]) ([]string, error) {
	var fragments []string
	for fragment, err := range seq {
		if err != nil {
			return fragments, err
		}
		fragments = append(fragments, fragment)
	}
	return fragments, nil
}

func TestStreamChat(t *testing.T) {
	gemini := newMockGemini()
	gemini.chunks = []string{"Virtue ", "", "is knowledge."}

	prior := []model.ChatTurn{
		{Role: model.RoleUser, Content: "Who are you?"},
		{Role: model.RoleAssistant, Content: "I am Socrates."},
	}

	fragments, err := collect(newClient(t, gemini).StreamChat(context.Background(), "Socrates", prior, "What is virtue?"))
	gt.NoError(t, err)
	gt.Equal(t, fragments, []string{"Virtue ", "is knowledge."})

	t.Run("history and new message are sent in order", func(t *testing.T) {
		gt.A(t, gemini.contents).Length(3)
		gt.Equal(t, gemini.contents[0].Role, string(genai.RoleUser))
		gt.Equal(t, gemini.contents[1].Role, string(genai.RoleModel))
		gt.Equal(t, gemini.contents[1].Parts[0].Text, "I am Socrates.")
		gt.Equal(t, gemini.contents[2].Parts[0].Text, "What is virtue?")
	})

	t.Run("persona framing is the system instruction", func(t *testing.T) {
		system := gemini.config.SystemInstruction.Parts[0].Text
		gt.S(t, system).Contains("You are Socrates.")
		gt.S(t, system).Contains("first person")
	})
}

func TestStreamChatSkipsEmptyPriorTurns(t *testing.T) {
	gemini := newMockGemini()
	prior := []model.ChatTurn{
		{Role: model.RoleUser, Content: "Hello"},
		{Role: model.RoleAssistant, Content: ""},
	}

	_, err := collect(newClient(t, gemini).StreamChat(context.Background(), "Socrates", prior, "Again?"))
	gt.NoError(t, err)
	gt.A(t, gemini.contents).Length(2)
}

func TestStreamChatFailure(t *testing.T) {
	t.Run("before first fragment", func(t *testing.T) {
		gemini := newMockGemini()
		gemini.chunks = []string{"never"}
		gemini.streamErrAt = 0

		fragments, err := collect(newClient(t, gemini).StreamChat(context.Background(), "Socrates", nil, "Hi"))
		gt.Error(t, err).Is(model.ErrGeneration)
		gt.A(t, fragments).Length(0)
	})

	t.Run("after partial output", func(t *testing.T) {
		gemini := newMockGemini()
		gemini.chunks = []string{"The ", "unexamined"}
		gemini.streamErrAt = 2

		fragments, err := collect(newClient(t, gemini).StreamChat(context.Background(), "Socrates", nil, "Hi"))
		gt.Error(t, err).Is(model.ErrGeneration)
		gt.Equal(t, fragments, []string{"The ", "unexamined"})
	})
}

func TestSynthesizeWithGemini(t *testing.T) {
	apiKey := os.Getenv("TEST_GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("TEST_GEMINI_API_KEY is not set")
	}

	ctx := context.Background()
	gemini, err := adapter.NewGemini(ctx, apiKey)
	gt.NoError(t, err)

	client, err := generation.New(gemini)
	gt.NoError(t, err)

	profile, err := client.Synthesize(ctx, "Hypatia")
	gt.NoError(t, err)
	gt.NoError(t, profile.Validate())
	gt.S(t, strings.ToLower(profile.Name)).Contains("hypatia")

	fragments, err := collect(client.StreamChat(ctx, profile.Name, nil, "In one sentence, what did you teach?"))
	gt.NoError(t, err)
	gt.True(t, len(fragments) > 0)
}
