package adapter_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/philosophia/pkg/adapter"
	"github.com/m-mizutani/philosophia/pkg/model"
	"google.golang.org/genai"
)

func TestNewGeminiRequiresAPIKey(t *testing.T) {
	_, err := adapter.NewGemini(context.Background(), "")
	gt.Error(t, err).Is(model.ErrConfiguration)
}

func TestNewVertexGeminiRequiresProject(t *testing.T) {
	_, err := adapter.NewVertexGemini(context.Background(), "", "us-central1")
	gt.Error(t, err).Is(model.ErrConfiguration)
}

func setupGemini(t *testing.T) *adapter.GeminiClient {
	apiKey := os.Getenv("TEST_GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("TEST_GEMINI_API_KEY is not set")
	}

	client, err := adapter.NewGemini(context.Background(), apiKey)
	gt.NoError(t, err)
	return client
}

func TestGenerateContent(t *testing.T) {
	client := setupGemini(t)
	ctx := context.Background()

	contents := []*genai.Content{
		genai.NewContentFromText("Hello, what is the capital of France?", genai.RoleUser),
	}

	resp, err := client.GenerateContent(ctx, contents, nil)
	gt.NoError(t, err)
	gt.True(t, resp.Text() != "")
}

func TestGenerateContentStream(t *testing.T) {
	client := setupGemini(t)
	ctx := context.Background()

	contents := []*genai.Content{
		genai.NewContentFromText("Count from one to five in English words.", genai.RoleUser),
	}

	var sb strings.Builder
	for resp, err := range client.GenerateContentStream(ctx, contents, nil) {
		gt.NoError(t, err)
		sb.WriteString(resp.Text())
	}
	gt.S(t, strings.ToLower(sb.String())).Contains("three")
}
