package conversation

import (
	"fmt"
	"strings"

	"github.com/WWPCA/ieltsprep/internal/models"
	"github.com/WWPCA/ieltsprep/internal/questionbank"
)

// mayaPersona is the shared examiner identity prepended to every part's
// system prompt.
const mayaPersona = `You are Maya, a certified IELTS speaking examiner conducting the speaking test.
You are warm but professional. You speak in short, natural sentences, exactly as a human examiner would.
Never break character, never mention that you are an AI, and never explain the scoring.
Ask one question at a time and wait for the candidate's answer.
If the candidate gives a very short answer, gently encourage them to say more, then move on.
If the candidate asks you to repeat, repeat the question once in the same words.`

var partNames = map[int]string{
	1: "Part 1 (Introduction and Interview)",
	2: "Part 2 (Individual Long Turn)",
	3: "Part 3 (Two-way Discussion)",
}

// buildSystemPrompt assembles the examiner's system prompt for one part.
// The part's full question list is inlined so the model asks the bank's
// questions rather than inventing its own.
func buildSystemPrompt(at models.AssessmentType, part int, questions []string, cueTopic string) string {
	var b strings.Builder
	b.WriteString(mayaPersona)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "You are conducting %s of the %s speaking test.\n", partNames[part], assessmentLabel(at))

	switch part {
	case 1:
		b.WriteString("Greet the candidate, introduce yourself as Maya, confirm you are ready to begin, and then ask the first question.\n")
		b.WriteString("Work through the questions below in order. Ask brief natural follow-ups when an answer invites one, but keep the interview moving.\n\n")
		b.WriteString("Questions:\n")
	case 2:
		b.WriteString("Present the cue card below, tell the candidate they have one minute to prepare and should then speak for one to two minutes, and ask them to begin when ready.\n")
		b.WriteString("Do not interrupt the long turn. When the candidate finishes, ask the rounding-off questions one at a time.\n\n")
		b.WriteString("Cue card and rounding-off questions:\n")
	case 3:
		fmt.Fprintf(&b, "This discussion develops the ideas from the candidate's Part 2 topic%s.\n", topicClause(cueTopic))
		b.WriteString("Ask the questions below in order, probing each answer once with a natural follow-up before moving to the next question.\n\n")
		b.WriteString("Questions:\n")
	}

	for i, q := range questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return b.String()
}

// continuationPrompt rebuilds the system prompt mid-part, pointing the
// examiner at the next unasked question.
func continuationPrompt(sess *models.Session) string {
	prompt := buildSystemPrompt(sess.AssessmentType, sess.Part, sess.Questions, sess.CueCardTopic)
	if sess.QuestionIndex+1 < len(sess.Questions) {
		prompt += fmt.Sprintf("\nYou have already asked the first %d question(s). Respond briefly to the candidate's last answer, then continue with question %d.\n",
			sess.QuestionIndex+1, sess.QuestionIndex+2)
	} else {
		prompt += "\nAll listed questions have been asked. Respond briefly to the candidate's last answer and bring this part to a natural close, thanking the candidate.\n"
	}
	return prompt
}

// openingCue is the synthetic first message that triggers the examiner's
// opening line for a part.
func openingCue(part int) string {
	if part == models.MinPart {
		return "(The candidate has just sat down and is ready to begin the test.)"
	}
	return "(The previous part has finished. The candidate is ready to continue.)"
}

// renderCueCard formats a cue card as the single Part 2 prompt text.
func renderCueCard(card questionbank.CueCard) string {
	var b strings.Builder
	b.WriteString(card.Topic)
	b.WriteString("\nYou should say:\n")
	for _, p := range card.BulletPoints {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	return strings.TrimRight(b.String(), "\n")
}

func assessmentLabel(at models.AssessmentType) string {
	if at == models.AssessmentAcademicSpeaking {
		return "IELTS Academic"
	}
	return "IELTS General Training"
}

func topicClause(cueTopic string) string {
	if cueTopic == "" {
		return ""
	}
	return fmt.Sprintf(" (%q)", cueTopic)
}
