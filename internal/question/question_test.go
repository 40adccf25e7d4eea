package question

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/TalentScoutHQ/ScreenFlow/internal/models"
	"github.com/openai/openai-go"
)

// mockClient returns a canned reply or error for every generation request.
type mockClient struct {
	reply string
	err   error
}

func (m *mockClient) GenerateWithMessages(_ context.Context, _ []openai.ChatCompletionMessageParamUnion) (string, error) {
	return m.reply, m.err
}

var midProfile = models.CandidateProfile{
	Name:            "Jane Doe",
	Email:           "jane@example.com",
	Phone:           "+15551234567",
	ExperienceYears: 5,
	TechStack:       "Python, Django, PostgreSQL",
}

func TestGenerateParsesValidReply(t *testing.T) {
	reply := `{"questions": [
		{"question": "Explain Django middleware.", "category": "backend", "difficulty": "mid", "expected_topics": ["request lifecycle"]},
		{"question": "What is an index?", "category": "database", "difficulty": "mid"}
	]}`
	engine := NewEngine(&mockClient{reply: reply})

	questions := engine.Generate(context.Background(), midProfile)
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].Question != "Explain Django middleware." {
		t.Errorf("unexpected first question: %q", questions[0].Question)
	}
	if questions[1].Category != "database" {
		t.Errorf("unexpected second category: %q", questions[1].Category)
	}
}

func TestGenerateStripsCodeFences(t *testing.T) {
	reply := "```json\n{\"questions\": [{\"question\": \"q\", \"category\": \"c\", \"difficulty\": \"mid\"}]}\n```"
	engine := NewEngine(&mockClient{reply: reply})

	questions := engine.Generate(context.Background(), midProfile)
	if len(questions) != 1 || questions[0].Question != "q" {
		t.Fatalf("expected fenced JSON to parse, got %+v", questions)
	}
}

func TestGenerateDropsIncompleteQuestions(t *testing.T) {
	reply := `{"questions": [
		{"question": "valid one", "category": "backend", "difficulty": "mid"},
		{"question": "", "category": "backend", "difficulty": "mid"},
		{"question": "no difficulty", "category": "backend", "difficulty": ""}
	]}`
	engine := NewEngine(&mockClient{reply: reply})

	questions := engine.Generate(context.Background(), midProfile)
	if len(questions) != 1 {
		t.Fatalf("expected incomplete items dropped, got %d questions", len(questions))
	}
	if questions[0].Question != "valid one" {
		t.Errorf("kept wrong question: %q", questions[0].Question)
	}
}

func TestGenerateFallsBackOnMalformedReply(t *testing.T) {
	engine := NewEngine(&mockClient{reply: "I'd be happy to help with questions!"})

	questions := engine.Generate(context.Background(), midProfile)
	// Mid-level candidates get the junior and mid fallback questions.
	if len(questions) != 5 {
		t.Fatalf("expected 5 fallback questions for a 5 year candidate, got %d", len(questions))
	}
	for _, q := range questions {
		if q.Difficulty == "senior" {
			t.Errorf("mid-level fallback should not include senior question %q", q.Question)
		}
	}
}

func TestGenerateFallsBackOnError(t *testing.T) {
	engine := NewEngine(&mockClient{err: fmt.Errorf("all models failed: boom")})

	questions := engine.Generate(context.Background(), midProfile)
	if len(questions) == 0 {
		t.Fatal("expected fallback questions on generation error")
	}
}

func TestGenerateWithoutClientUsesFallback(t *testing.T) {
	engine := NewEngine(nil)

	questions := engine.Generate(context.Background(), models.CandidateProfile{ExperienceYears: 1})
	if len(questions) != 3 {
		t.Fatalf("expected 3 junior fallback questions, got %d", len(questions))
	}
	for _, q := range questions {
		if q.Difficulty != "junior" {
			t.Errorf("junior fallback contains %s question %q", q.Difficulty, q.Question)
		}
	}
}

func TestFallbackQuestionsBrackets(t *testing.T) {
	if got := len(FallbackQuestions(0)); got != 3 {
		t.Errorf("junior pool size = %d, want 3", got)
	}
	if got := len(FallbackQuestions(4)); got != 5 {
		t.Errorf("mid pool size = %d, want 5", got)
	}
	// The pool holds no senior questions, so seniors get everything available.
	if got := len(FallbackQuestions(10)); got != 5 {
		t.Errorf("senior pool size = %d, want 5", got)
	}
}

func TestBuildUserPromptMentionsProfile(t *testing.T) {
	prompt := buildUserPrompt(midProfile)
	for _, want := range []string{"Jane Doe", "5 years", "mid", "Python, Django, PostgreSQL"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("user prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestCategorize(t *testing.T) {
	got := Categorize("Python, Django, PostgreSQL, Docker")
	if len(got["languages"]) != 1 || got["languages"][0] != "python" {
		t.Errorf("languages = %v, want [python]", got["languages"])
	}
	if len(got["backend"]) != 1 || got["backend"][0] != "django" {
		t.Errorf("backend = %v, want [django]", got["backend"])
	}
	if len(got["databases"]) != 1 || got["databases"][0] != "postgresql" {
		t.Errorf("databases = %v, want [postgresql]", got["databases"])
	}
	if len(got["cloud"]) != 1 || got["cloud"][0] != "docker" {
		t.Errorf("cloud = %v, want [docker]", got["cloud"])
	}

	// Token matching: "django" must not register the go language.
	if _, ok := Categorize("Django only")["languages"]; ok {
		t.Error("django should not match the go keyword")
	}

	if got := Categorize("underwater basket weaving"); len(got) != 0 {
		t.Errorf("unknown technologies should yield no categories, got %v", got)
	}
}
