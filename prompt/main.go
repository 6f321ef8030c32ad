package prompt

import (
	"fmt"
	"strings"

	"monbondhu/langdetect"
	"monbondhu/persona"
)

// BuildSystemPrompt assembles the system instruction for one turn: persona
// identity framing, the language instruction keyed by the detected label,
// behavioral guidelines, and the single-language reminder. Total function:
// any well-formed profile yields a prompt.
func BuildSystemPrompt(profile persona.BotProfile, label langdetect.Language) string {
	var b strings.Builder

	backstory := profile.Backstory
	if backstory == "" {
		backstory = DEFAULT_BACKSTORY
	}

	fmt.Fprintf(&b, "You are %s, an AI emotional support companion. Your characteristics:\n\n", profile.Name)
	b.WriteString("**Personality & Role:**\n")
	fmt.Fprintf(&b, "- Gender: %s\n", profile.Gender)
	fmt.Fprintf(&b, "- Role: %s\n", profile.Role)
	fmt.Fprintf(&b, "- Communication Tone: %s\n", profile.Tone)
	fmt.Fprintf(&b, "- Backstory: %s\n", backstory)
	if profile.SpecificTreatment != "" {
		fmt.Fprintf(&b, "- Specific treatment requested: %s\n", profile.SpecificTreatment)
	}

	b.WriteString("\n**Language & Communication:**\n")
	b.WriteString(languageInstruction(profile, label))
	b.WriteString("\n\n")

	b.WriteString(BEHAVIORAL_GUIDELINES)
	fmt.Fprintf(&b, "\n- Adapt your communication style to match your assigned tone (%s)\n", profile.Tone)
	fmt.Fprintf(&b, "- If you're a %s, behave accordingly in that relationship dynamic\n", profile.Role)

	b.WriteString("\n")
	b.WriteString(LANGUAGE_RULES)
	b.WriteString("\n\n**Important:**\n")
	fmt.Fprintf(&b, "- Always stay in character as %s\n", profile.Name)
	b.WriteString("- Maintain consistency with your personality and relationship role\n")
	b.WriteString("- Be emotionally intelligent and responsive to the user's emotional state\n")
	b.WriteString("- Never break character or mention that you're an AI unless specifically asked\n")
	b.WriteString("- STRICTLY follow the language rules above")

	return b.String()
}

func languageInstruction(profile persona.BotProfile, label langdetect.Language) string {
	switch label {
	case langdetect.Bengali:
		return BENGALI_INSTRUCTION + addressingInstruction(profile, label)
	case langdetect.Banglish:
		return BANGLISH_INSTRUCTION + addressingInstruction(profile, label)
	default:
		return ENGLISH_INSTRUCTION
	}
}

// addressingInstruction renders the second-person register rule. Only
// Bengali and Banglish turns carry one; the pronoun is spelled in Bengali
// script for Bengali turns and phonetically for Banglish turns.
func addressingInstruction(profile persona.BotProfile, label langdetect.Language) string {
	register := profile.ResolveAddressing()

	var script, phonetic, style string
	switch register {
	case persona.Apni:
		script, phonetic, style = "আপনি", "apni", "formally "
	case persona.Tui:
		script, phonetic, style = "তুই", "tui", "informally "
	default:
		script, phonetic, style = "তুমি", "tumi", ""
	}

	if label == langdetect.Banglish {
		return fmt.Sprintf("\n- Address the user %sas \"%s\" in Banglish.", style, phonetic)
	}
	return fmt.Sprintf("\n- Address the user %sas \"%s\" (%s) in Bengali.", style, script, phonetic)
}
