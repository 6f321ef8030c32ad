package prompt

import (
	"strings"
	"testing"

	"monbondhu/langdetect"
	"monbondhu/persona"
)

func friendProfile() persona.BotProfile {
	return persona.BotProfile{
		Name:   "Mitra",
		Gender: persona.Female,
		Role:   persona.Friend,
		Tone:   persona.Empathetic,
	}
}

func TestFriendTuiOverrideBengali(t *testing.T) {
	profile := friendProfile()
	profile.CanUseTui = true
	profile.Addressing = persona.Apni // must lose to the friend override

	got := BuildSystemPrompt(profile, langdetect.Bengali)

	if !strings.Contains(got, `"তুই" (tui)`) {
		t.Errorf("friend override should force the informal pronoun, prompt:\n%s", got)
	}
	if strings.Contains(got, "আপনি") {
		t.Errorf("formal pronoun must not appear when the friend override is active")
	}
}

func TestFormalBanglishAddressing(t *testing.T) {
	profile := persona.BotProfile{
		Name:       "Aria",
		Gender:     persona.Female,
		Role:       persona.Therapist,
		Tone:       persona.Professional,
		Addressing: persona.Apni,
	}

	got := BuildSystemPrompt(profile, langdetect.Banglish)

	if !strings.Contains(got, `formally as "apni" in Banglish`) {
		t.Errorf("expected phonetic formal addressing for banglish, prompt:\n%s", got)
	}
	if !strings.Contains(got, "CRITICAL Banglish Rules") {
		t.Errorf("banglish turn must carry the phonetic rules block")
	}
	if !strings.Contains(got, "Phonetic Examples") || !strings.Contains(got, "Vowel Sounds") {
		t.Errorf("banglish rules block is incomplete")
	}
	if strings.Contains(got, "Respond ONLY in Bengali using proper Bengali script") {
		t.Errorf("banglish turn must not carry the Bengali-script instruction")
	}
}

func TestEnglishHasNoAddressing(t *testing.T) {
	profile := friendProfile()
	profile.CanUseTui = true

	got := BuildSystemPrompt(profile, langdetect.English)

	if !strings.Contains(got, ENGLISH_INSTRUCTION) {
		t.Errorf("english turn should carry the english instruction")
	}
	for _, pronoun := range []string{"apni", "tumi", "tui", "আপনি", "তুমি", "তুই"} {
		if strings.Contains(got, `"`+pronoun+`"`) {
			t.Errorf("english turn must not carry an addressing instruction, found %q", pronoun)
		}
	}
}

func TestDefaultAddressingIsTumi(t *testing.T) {
	got := BuildSystemPrompt(friendProfile(), langdetect.Bengali)
	if !strings.Contains(got, `"তুমি" (tumi)`) {
		t.Errorf("unset preference should default to tumi, prompt:\n%s", got)
	}
}

func TestPersonaFraming(t *testing.T) {
	profile := persona.BotProfile{
		Name:              "Aria",
		Gender:            persona.NonBinary,
		Role:              persona.Mentor,
		Tone:              persona.Casual,
		Backstory:         "Grew up in Chittagong, loves cricket.",
		SpecificTreatment: "Gently push me to talk about my day.",
	}

	got := BuildSystemPrompt(profile, langdetect.English)

	for _, want := range []string{
		"You are Aria, an AI emotional support companion",
		"- Gender: non-binary",
		"- Role: mentor",
		"- Communication Tone: casual",
		"Grew up in Chittagong, loves cricket.",
		"Specific treatment requested: Gently push me to talk about my day.",
		"Always stay in character as Aria",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestDefaultBackstory(t *testing.T) {
	got := BuildSystemPrompt(friendProfile(), langdetect.English)
	if !strings.Contains(got, DEFAULT_BACKSTORY) {
		t.Errorf("missing default backstory fallback")
	}
}

func TestBengaliScenario(t *testing.T) {
	// Therapist persona, Bengali-script input: formal addressing, no
	// banglish phonetic table.
	profile := persona.BotProfile{
		Name:       "Aria",
		Gender:     persona.Female,
		Role:       persona.Therapist,
		Tone:       persona.Professional,
		Addressing: persona.Apni,
	}

	d := langdetect.DefaultDetector()
	label := d.Detect("আমি আজ একটু দুঃখিত")
	if label != langdetect.Bengali {
		t.Fatalf("detect = %q, want bengali", label)
	}

	got := BuildSystemPrompt(profile, label)
	if !strings.Contains(got, `"আপনি" (apni)`) {
		t.Errorf("expected formal Bengali-script addressing, prompt:\n%s", got)
	}
	if strings.Contains(got, "CRITICAL Banglish Rules") {
		t.Errorf("bengali turn must not carry the banglish phonetic table")
	}
}
