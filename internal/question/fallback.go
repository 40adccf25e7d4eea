package question

import (
	"strings"

	"github.com/TalentScoutHQ/ScreenFlow/internal/models"
)

// fallbackPool is the static question set used when generation is
// unavailable. Difficulties present: junior and mid; senior candidates
// receive the full pool.
var fallbackPool = []models.TechnicalQuestion{
	{
		Question:       "Can you explain the difference between a list and a dictionary in your primary programming language?",
		Category:       "fundamentals",
		Difficulty:     "junior",
		ExpectedTopics: []string{"data structures", "collections"},
	},
	{
		Question:       "How do you handle errors and exceptions in your code?",
		Category:       "fundamentals",
		Difficulty:     "junior",
		ExpectedTopics: []string{"error handling", "exceptions", "debugging"},
	},
	{
		Question:       "What is version control and why is it important? Describe your workflow with Git.",
		Category:       "tools",
		Difficulty:     "junior",
		ExpectedTopics: []string{"git", "collaboration", "branching"},
	},
	{
		Question:       "Describe a challenging technical problem you solved recently. What was your approach?",
		Category:       "problem-solving",
		Difficulty:     "mid",
		ExpectedTopics: []string{"problem solving", "architecture", "trade-offs"},
	},
	{
		Question:       "How do you approach testing in your projects? What kinds of tests do you write?",
		Category:       "testing",
		Difficulty:     "mid",
		ExpectedTopics: []string{"unit testing", "integration testing", "test strategy"},
	},
}

// FallbackQuestions returns the static pool filtered to the candidate's
// experience bracket: junior candidates see junior questions only, mid-level
// candidates see junior and mid, senior candidates see everything.
func FallbackQuestions(experienceYears int) []models.TechnicalQuestion {
	allowed := map[string]bool{"junior": true}
	switch models.LevelForYears(experienceYears) {
	case models.LevelMid:
		allowed["mid"] = true
	case models.LevelSenior:
		allowed["mid"] = true
		allowed["senior"] = true
	}

	questions := make([]models.TechnicalQuestion, 0, len(fallbackPool))
	for _, q := range fallbackPool {
		if allowed[q.Difficulty] {
			questions = append(questions, q)
		}
	}
	return questions
}

// techCategories maps recruiter-facing category names to the technology
// keywords that indicate them in a free-text stack description.
var techCategories = map[string][]string{
	"languages": {"python", "javascript", "typescript", "java", "go", "golang", "rust", "c++", "c#", "ruby", "php", "kotlin", "swift", "scala"},
	"frontend":  {"react", "angular", "vue", "svelte", "html", "css", "next.js", "nextjs"},
	"backend":   {"django", "flask", "fastapi", "spring", "express", "rails", "node", "node.js", "gin", ".net"},
	"databases": {"postgresql", "postgres", "mysql", "sqlite", "mongodb", "redis", "elasticsearch", "cassandra", "dynamodb"},
	"cloud":     {"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "lambda", "heroku"},
	"data_ml":   {"pandas", "numpy", "tensorflow", "pytorch", "scikit-learn", "spark", "airflow"},
}

// Categorize buckets the technologies found in a free-text stack description.
// Matching is by whole token so "go" does not fire inside "django". Categories
// with no matches are omitted; unknown technologies are ignored.
func Categorize(techStack string) map[string][]string {
	tokens := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(strings.ToLower(techStack), func(r rune) bool {
		return r == ',' || r == ';' || r == '/' || r == ' ' || r == '\t' || r == '\n'
	}) {
		tokens[tok] = true
	}

	found := make(map[string][]string)
	for category, keywords := range techCategories {
		for _, kw := range keywords {
			if tokens[kw] {
				found[category] = append(found[category], kw)
			}
		}
	}
	return found
}
