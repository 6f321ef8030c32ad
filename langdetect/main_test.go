package langdetect

import "testing"

func TestDetectBengaliScript(t *testing.T) {
	d := DefaultDetector()

	cases := []string{
		"আমি আজ একটু দুঃখিত",
		"আমি bhalo achi",        // mixed script still Bengali
		"hello আমি how are you", // script presence beats Latin content
		"কেমন আছো?",
	}
	for _, text := range cases {
		if got := d.Detect(text); got != Bengali {
			t.Errorf("Detect(%q) = %q, want bengali", text, got)
		}
	}
}

func TestDetectBanglish(t *testing.T) {
	d := DefaultDetector()

	cases := []string{
		"kemon acho",
		"ami tomake khub miss korchi",
		"Tumi KEMON acho", // case-insensitive
		"aj khub kharap lagche",
	}
	for _, text := range cases {
		if got := d.Detect(text); got != Banglish {
			t.Errorf("Detect(%q) = %q, want banglish", text, got)
		}
	}
}

func TestDetectEnglish(t *testing.T) {
	d := DefaultDetector()

	cases := []string{
		"hello there",
		"I had a rough day at work",
		"family matters", // "ami" inside "family" must not match
		"12345 !!!",      // no letters at all
	}
	for _, text := range cases {
		if got := d.Detect(text); got != English {
			t.Errorf("Detect(%q) = %q, want english", text, got)
		}
	}
}

func TestDetectEmptyString(t *testing.T) {
	d := DefaultDetector()
	if got := d.Detect(""); got != English {
		t.Errorf("Detect(\"\") = %q, want english", got)
	}
}

func TestDetectCustomWordList(t *testing.T) {
	d := NewDetector([]string{"bhalobashi"})

	if got := d.Detect("ami tomake bhalobashi"); got != Banglish {
		t.Errorf("custom list should match bhalobashi, got %q", got)
	}
	// "ami" is not in the custom list, so this is English now.
	if got := d.Detect("ami here"); got != English {
		t.Errorf("custom list should not match ami, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	d := DefaultDetector()

	outcome := d.Validate(Banglish, "ami ekhane achi tomar jonno")
	if !outcome.Matched || outcome.ReplyLanguage != Banglish {
		t.Errorf("expected matched banglish outcome, got %+v", outcome)
	}

	outcome = d.Validate(English, "আমি এখানে আছি")
	if outcome.Matched {
		t.Errorf("bengali reply against english label should not match")
	}
	if outcome.ReplyLanguage != Bengali {
		t.Errorf("ReplyLanguage = %q, want bengali", outcome.ReplyLanguage)
	}
}
