package flow

import (
	"fmt"
	"strings"

	"github.com/TalentScoutHQ/ScreenFlow/internal/models"
)

// Conversational copy for the interview flow. All user-facing text lives here
// so handlers stay focused on state logic.

const welcomeMessage = "Hello! Welcome to TalentScout's hiring assistant. 👋\n\n" +
	"I'm here to run a short initial screening: I'll collect a few details about you " +
	"and then ask some technical questions matched to your experience.\n\n" +
	"You can type 'exit' at any point to end our conversation.\n\n" +
	"Let's get started! What is your full name?"

const exitMessage = "Thank you for your time! Your conversation has ended. " +
	"If you'd like to continue your screening later, just start a new session. Goodbye! 👋"

const genericApology = "I'm sorry, something went wrong on my end. " +
	"Nothing you entered was lost. Could you please repeat that?"

const generationApology = "I wasn't able to prepare technical questions right now, " +
	"but your details have been recorded and our team will follow up with the next steps."

const continueNotice = "Thanks for your patience! Let's continue where we left off."

// fieldPrompts holds the first-ask copy per required field.
var fieldPrompts = map[models.FieldName]string{
	models.FieldCandidateName:   "What is your full name?",
	models.FieldEmail:           "What email address can we reach you at?",
	models.FieldPhone:           "What is your phone number? Please include the country code if outside your home region.",
	models.FieldExperienceYears: "How many years of professional experience do you have?",
	models.FieldTechStack:       "What is your tech stack? List the languages, frameworks, databases and tools you work with.",
}

// fieldRetryPrompts holds the gentler re-ask copy used after a failed attempt.
var fieldRetryPrompts = map[models.FieldName]string{
	models.FieldCandidateName:   "Could you share your full name again?",
	models.FieldEmail:           "Could you share your email address again?",
	models.FieldPhone:           "Could you share your phone number again?",
	models.FieldExperienceYears: "How many years of experience do you have? A number works best.",
	models.FieldTechStack:       "Which technologies do you work with?",
}

// fieldHelp holds the detailed format guidance shown on request.
var fieldHelp = map[models.FieldName]string{
	models.FieldCandidateName:   "Your name should contain only letters, spaces, hyphens or apostrophes, and be 2 to 100 characters long. For example: Maria Garcia-Lopez",
	models.FieldEmail:           "An email address looks like name@company.com. It needs exactly one @ and a domain with a dot.",
	models.FieldPhone:           "A phone number needs 10 to 16 digits and may start with +. Spaces, dashes, dots and parentheses are fine. For example: +1 (555) 123-4567",
	models.FieldExperienceYears: "Please reply with a whole number of years between 0 and 50. For example: 5",
	models.FieldTechStack:       "List the technologies you use, separated by commas. For example: Python, Django, PostgreSQL, Docker",
}

// fieldLabels are the human-readable field names used in menus and errors.
var fieldLabels = map[models.FieldName]string{
	models.FieldCandidateName:   "full name",
	models.FieldEmail:           "email address",
	models.FieldPhone:           "phone number",
	models.FieldExperienceYears: "years of experience",
	models.FieldTechStack:       "tech stack",
}

// promptForField returns the question copy for a field. After a failed attempt
// the shorter retry variant is used.
func promptForField(field models.FieldName, retryCount int) string {
	if retryCount > 0 {
		return fieldRetryPrompts[field]
	}
	return fieldPrompts[field]
}

// validationErrorMessage maps a classified validation failure to its
// user-facing explanation.
func validationErrorMessage(field models.FieldName, reason models.ValidationReason) string {
	label := fieldLabels[field]
	switch reason {
	case models.ReasonEmpty:
		return fmt.Sprintf("I didn't catch that. Your %s can't be empty.", label)
	case models.ReasonTooShort:
		if field == models.FieldTechStack {
			return "That looks a bit short for a tech stack. Please name at least one technology."
		}
		return fmt.Sprintf("That %s looks too short. It needs at least 2 characters.", label)
	case models.ReasonTooLong:
		return fmt.Sprintf("That %s looks too long. Please keep it under 100 characters.", label)
	case models.ReasonNegative:
		return "Years of experience can't be negative."
	case models.ReasonTooHigh:
		return "That's more than 50 years. Please double-check the number."
	default:
		switch field {
		case models.FieldEmail:
			return "That doesn't look like a valid email address."
		case models.FieldPhone:
			return "That doesn't look like a valid phone number."
		case models.FieldExperienceYears:
			return "I couldn't find a number in that. Please reply with your years of experience as a number."
		default:
			return fmt.Sprintf("That doesn't look like a valid %s.", label)
		}
	}
}

// skipOffer is shown after the third consecutive failed attempt on one field.
func skipOffer(field models.FieldName) string {
	return fmt.Sprintf("We've had a few tries at your %s. How would you like to proceed?\n\n"+
		"1 - Try again (I'll show the expected format)\n"+
		"2 - Skip this field for now\n"+
		"3 - More help with this field\n\n"+
		"Reply with 1, 2 or 3.", fieldLabels[field])
}

// questionIntro introduces the technical question phase.
func questionIntro(name string, total int) string {
	first := firstName(name)
	if first == "" {
		return fmt.Sprintf("Great, that's everything I need! Now for the technical part: "+
			"I have %d questions matched to your experience and tech stack. Take your time with each answer.", total)
	}
	return fmt.Sprintf("Great, that's everything I need, %s! Now for the technical part: "+
		"I have %d questions matched to your experience and tech stack. Take your time with each answer.", first, total)
}

// formatQuestion renders one technical question with its position.
func formatQuestion(q models.TechnicalQuestion, num, total int) string {
	return fmt.Sprintf("Question %d of %d (%s):\n\n%s", num, total, q.Category, q.Question)
}

// encouragements rotate deterministically by answer count so transcripts are
// reproducible.
var encouragements = []string{
	"Thanks, noted!",
	"Got it, thank you.",
	"Great, moving on.",
	"Appreciate the detail!",
}

func encouragement(answered int) string {
	return encouragements[answered%len(encouragements)]
}

// completionMessage closes out a finished screening.
func completionMessage(name string, pct float64) string {
	first := firstName(name)
	greeting := "Thank you"
	if first != "" {
		greeting = "Thank you, " + first
	}
	return fmt.Sprintf("%s, that completes your screening! 🎉\n\n"+
		"Your profile is %.0f%% complete. Our recruitment team will review your answers "+
		"and reach out within 2-3 business days with the next steps.\n\n"+
		"Have a great day!", greeting, pct)
}

const alreadyCompleteMessage = "Your screening is already complete. Our team will be in touch soon. " +
	"If you need anything else, please contact the TalentScout recruitment team."

// recoveryMessage resumes collection after an error state.
func recoveryMessage(field models.FieldName) string {
	return continueNotice + " " + fieldPrompts[field]
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
