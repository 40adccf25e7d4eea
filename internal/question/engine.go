// Package question generates tailored technical interview questions from a
// candidate profile, with a static experience-bracketed fallback pool for
// when the GenAI collaborator is unavailable or returns an unusable reply.
package question

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/TalentScoutHQ/ScreenFlow/internal/genai"
	"github.com/TalentScoutHQ/ScreenFlow/internal/models"
	"github.com/openai/openai-go"
)

const generationSystemPrompt = `You are an expert technical interviewer for a recruitment agency. Generate relevant, fair technical questions matched to a candidate's experience level and tech stack.

Guidelines:
1. Match question difficulty to experience level (junior/mid/senior)
2. Focus on technologies the candidate actually mentioned
3. Create 3-5 questions testing different aspects of their knowledge
4. Mix conceptual and practical questions, avoid trick questions

Return only JSON in this format:
{
  "questions": [
    {
      "question": "Question text here",
      "category": "frontend/backend/database/etc",
      "difficulty": "junior/mid/senior",
      "expected_topics": ["topic1", "topic2"]
    }
  ]
}`

// generatedReply is the expected shape of the collaborator's structured reply.
type generatedReply struct {
	Questions []models.TechnicalQuestion `json:"questions"`
}

// Engine builds generation requests, validates structured replies and falls
// back to the static pool on any failure. Generation failures are soft: the
// engine never returns an error to the flow.
type Engine struct {
	client genai.ClientInterface
}

// NewEngine creates a question engine. A nil client is allowed and yields
// fallback questions only.
func NewEngine(client genai.ClientInterface) *Engine {
	return &Engine{client: client}
}

// Generate produces the technical question set for a candidate. On any
// generation or parse failure it returns the fallback pool filtered by the
// candidate's experience bracket.
func (e *Engine) Generate(ctx context.Context, profile models.CandidateProfile) []models.TechnicalQuestion {
	if e.client == nil {
		slog.Debug("question.Generate: no GenAI client configured, using fallback pool", "experienceYears", profile.ExperienceYears)
		return FallbackQuestions(profile.ExperienceYears)
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(generationSystemPrompt),
		openai.UserMessage(buildUserPrompt(profile)),
	}

	reply, err := e.client.GenerateWithMessages(ctx, messages)
	if err != nil {
		slog.Warn("question.Generate: generation failed, using fallback pool", "error", err, "experienceYears", profile.ExperienceYears)
		return FallbackQuestions(profile.ExperienceYears)
	}

	questions, err := parseReply(reply)
	if err != nil {
		slog.Warn("question.Generate: unusable reply, using fallback pool", "error", err, "experienceYears", profile.ExperienceYears)
		return FallbackQuestions(profile.ExperienceYears)
	}

	slog.Info("question.Generate: questions generated", "count", len(questions), "experienceYears", profile.ExperienceYears)
	return questions
}

// buildUserPrompt renders the candidate profile into the generation request.
func buildUserPrompt(profile models.CandidateProfile) string {
	level := profile.Level()
	return fmt.Sprintf(`Generate 3-5 technical interview questions for this candidate:

- Name: %s
- Experience: %d years (%s level)
- Technical stack: %s

Questions must be appropriate for %s level, focus only on the technologies mentioned, and be specific rather than generic.`,
		profile.Name, profile.ExperienceYears, level, profile.TechStack, level)
}

// parseReply validates the structured reply: it must decode to a non-empty
// array of objects each carrying a non-empty question, category and
// difficulty. Items failing validation are dropped; an empty result after
// filtering is an error so the caller falls back.
func parseReply(reply string) ([]models.TechnicalQuestion, error) {
	var parsed generatedReply
	if err := json.Unmarshal([]byte(stripCodeFences(reply)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse questions JSON: %w", err)
	}

	questions := make([]models.TechnicalQuestion, 0, len(parsed.Questions))
	for _, q := range parsed.Questions {
		if q.Question == "" || q.Category == "" || q.Difficulty == "" {
			slog.Debug("question.parseReply: dropping incomplete question", "question", q.Question, "category", q.Category, "difficulty", q.Difficulty)
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("reply contained no valid questions")
	}
	return questions, nil
}

// stripCodeFences removes a surrounding markdown code fence, which models
// frequently wrap JSON replies in.
func stripCodeFences(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
