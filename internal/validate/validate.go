// Package validate provides pure validation and normalization for the
// required candidate fields. Validators have no side effects; each failure is
// classified so handlers can select the matching re-prompt copy.
package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/TalentScoutHQ/ScreenFlow/internal/models"
)

// Name length bounds.
const (
	MinNameLength = 2
	MaxNameLength = 100
)

// Experience range bounds in years.
const (
	MinExperienceYears = 0
	MaxExperienceYears = 50
)

// MinTechStackLength is the minimum trimmed length for a tech stack description.
const MinTechStackLength = 3

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z\s\-']*$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// phonePattern matches a cleaned number: optional leading +, first digit
	// non-zero, 9-15 following digits (10-16 digits total).
	phonePattern     = regexp.MustCompile(`^\+?[1-9][0-9]{9,15}$`)
	phoneSeparators  = regexp.MustCompile(`[\s\-().]`)
	integerPattern   = regexp.MustCompile(`-?[0-9]+`)
	whitespaceRuns   = regexp.MustCompile(`\s+`)
	exitKeywords     = []string{"quit", "exit", "bye", "goodbye", "stop", "end", "cancel", "terminate"}
)

// Result reports the outcome of validating one field value. When OK is true,
// Normalized holds the value to store; otherwise Reason classifies the failure.
type Result struct {
	OK         bool
	Reason     models.ValidationReason
	Normalized string
}

func valid(normalized string) Result {
	return Result{OK: true, Normalized: normalized}
}

func invalid(reason models.ValidationReason) Result {
	return Result{Reason: reason}
}

// Name validates a candidate name: non-empty after trimming, letters with
// spaces, hyphens and apostrophes, length 2-100. The normalized value has
// runs of whitespace collapsed to single spaces.
func Name(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return invalid(models.ReasonEmpty)
	}
	collapsed := whitespaceRuns.ReplaceAllString(trimmed, " ")
	if len(collapsed) < MinNameLength {
		return invalid(models.ReasonTooShort)
	}
	if len(collapsed) > MaxNameLength {
		return invalid(models.ReasonTooLong)
	}
	if !namePattern.MatchString(collapsed) {
		return invalid(models.ReasonInvalid)
	}
	return valid(collapsed)
}

// Email validates a standard local@domain.tld address. The normalized value
// is trimmed and lower-cased.
func Email(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return invalid(models.ReasonEmpty)
	}
	if !emailPattern.MatchString(trimmed) {
		return invalid(models.ReasonInvalid)
	}
	return valid(strings.ToLower(trimmed))
}

// Phone validates a phone number after stripping spaces, dashes, parentheses
// and dots. The normalized value is the trimmed raw input; the cleaned digits
// are only used for the format check.
func Phone(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return invalid(models.ReasonEmpty)
	}
	cleaned := phoneSeparators.ReplaceAllString(trimmed, "")
	if !phonePattern.MatchString(cleaned) {
		return invalid(models.ReasonInvalid)
	}
	return valid(trimmed)
}

// ExtractIntegers extracts all integer substrings from free text, in order of
// appearance. A directly preceding minus sign is kept so out-of-range answers
// can be classified as negative.
func ExtractIntegers(text string) []int {
	matches := integerPattern.FindAllString(text, -1)
	numbers := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

// Experience extracts the years of experience from free text ("I have 5
// years" yields 5) and checks the 0-50 range. The returned int is only
// meaningful when the result is OK.
func Experience(text string) (int, Result) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, invalid(models.ReasonEmpty)
	}
	numbers := ExtractIntegers(trimmed)
	if len(numbers) == 0 {
		return 0, invalid(models.ReasonInvalid)
	}
	years := numbers[0]
	if years < MinExperienceYears {
		return 0, invalid(models.ReasonNegative)
	}
	if years > MaxExperienceYears {
		return 0, invalid(models.ReasonTooHigh)
	}
	return years, valid(strconv.Itoa(years))
}

// TechStack validates a free-text technology description: trimmed length of
// at least 3.
func TechStack(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return invalid(models.ReasonEmpty)
	}
	if len(trimmed) < MinTechStackLength {
		return invalid(models.ReasonTooShort)
	}
	return valid(trimmed)
}

// IsExitKeyword reports whether the text is an exit keyword: case-insensitive
// exact match after trimming.
func IsExitKeyword(text string) bool {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, kw := range exitKeywords {
		if lowered == kw {
			return true
		}
	}
	return false
}
