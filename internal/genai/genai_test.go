package genai

import (
	"context"
	"fmt"
	"testing"

	"github.com/openai/openai-go"
)

// fakeChatService records which models were tried and fails the configured ones.
type fakeChatService struct {
	failModels map[string]bool
	content    string
	calls      []string
}

func (f *fakeChatService) New(_ context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	model := string(params.Model)
	f.calls = append(f.calls, model)
	if f.failModels[model] {
		return nil, fmt.Errorf("model %s unavailable", model)
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func testClient(chat chatService) *Client {
	return &Client{
		chat:          chat,
		model:         "primary-model",
		fallbackModel: "fallback-model",
		temperature:   DefaultTemperature,
	}
}

func TestGenerateWithMessagesPrimarySucceeds(t *testing.T) {
	fake := &fakeChatService{content: "hello"}
	client := testClient(fake)

	got, err := client.GenerateWithMessages(context.Background(), []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage("hi"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("content = %q, want hello", got)
	}
	if len(fake.calls) != 1 || fake.calls[0] != "primary-model" {
		t.Errorf("calls = %v, want just the primary model", fake.calls)
	}
}

func TestGenerateWithMessagesFallsBackOnce(t *testing.T) {
	fake := &fakeChatService{
		failModels: map[string]bool{"primary-model": true},
		content:    "from fallback",
	}
	client := testClient(fake)

	got, err := client.GenerateWithMessages(context.Background(), []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage("hi"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from fallback" {
		t.Errorf("content = %q, want from fallback", got)
	}
	if len(fake.calls) != 2 || fake.calls[1] != "fallback-model" {
		t.Errorf("calls = %v, want primary then fallback", fake.calls)
	}
}

func TestGenerateWithMessagesBothModelsFail(t *testing.T) {
	fake := &fakeChatService{
		failModels: map[string]bool{"primary-model": true, "fallback-model": true},
	}
	client := testClient(fake)

	_, err := client.GenerateWithMessages(context.Background(), []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage("hi"),
	})
	if err == nil {
		t.Fatal("expected error when every model fails")
	}
	// Exactly one hop: primary, then fallback, then stop.
	if len(fake.calls) != 2 {
		t.Errorf("calls = %v, want exactly two attempts", fake.calls)
	}
}

func TestGenerateWithMessagesSkipsIdenticalFallback(t *testing.T) {
	fake := &fakeChatService{failModels: map[string]bool{"primary-model": true}}
	client := testClient(fake)
	client.fallbackModel = "primary-model"

	if _, err := client.GenerateWithMessages(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
	if len(fake.calls) != 1 {
		t.Errorf("calls = %v, want a single attempt when fallback equals primary", fake.calls)
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient(); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestNewClientAppliesOptions(t *testing.T) {
	client, err := NewClient(
		WithAPIKey("test-key"),
		WithModel("custom-model"),
		WithFallbackModel("custom-fallback"),
		WithTemperature(0.2),
		WithMaxTokens(512),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.model != "custom-model" {
		t.Errorf("model = %q, want custom-model", client.model)
	}
	if client.fallbackModel != "custom-fallback" {
		t.Errorf("fallbackModel = %q, want custom-fallback", client.fallbackModel)
	}
	if client.temperature != 0.2 {
		t.Errorf("temperature = %v, want 0.2", client.temperature)
	}
	if client.maxTokens != 512 {
		t.Errorf("maxTokens = %d, want 512", client.maxTokens)
	}
}
