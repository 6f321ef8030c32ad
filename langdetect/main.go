package langdetect

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Language is the detected language/script family of a single utterance.
type Language string

const (
	English  Language = "english"
	Bengali  Language = "bengali"
	Banglish Language = "banglish"
)

// DefaultBanglishWords is the curated list of common Bengali function,
// kinship and time-of-day words as Bengali speakers type them phonetically
// in Latin letters. Kept as data so the list can be tuned without touching
// detection logic.
var DefaultBanglishWords = []string{
	"ami", "tumi", "tui", "apni", "kemon", "achen", "bhalo", "valo", "khub",
	"boro", "choto", "kire", "ki", "korcho", "korchis", "ache", "achis",
	"hoilo", "hoyeche", "dekho", "dekh", "bolo", "bol", "jao", "ja", "aso",
	"ash", "thako", "thak", "khabar", "khawa", "ghumano", "ghum", "bari",
	"barite", "kaj", "kaam", "bondhu", "ma", "baba", "vai", "bon", "dada",
	"didi", "nana", "nani", "dadu", "dida", "mama", "mami", "chacha",
	"chachi", "fupu", "mesho", "pishi", "jethu", "jethima", "kaku", "kakima",
	"shobai", "amra", "tomra", "tora", "apnara", "ekhane", "okhane",
	"shekhane", "kothay", "kokhon", "keno", "kivabe", "kothai", "aj", "ajke",
	"kal", "parshukaal", "gotokal", "shokal", "bikel", "rat", "dupure",
	"shondha", "raat", "din", "mash", "bochor", "shomoy", "kharap", "sundor",
	"bhishon", "onek", "kom", "aro", "aar", "ar", "oi", "ei", "eto", "emon",
	"emni", "eshob", "ogulo", "egulo", "shegulo", "amake", "tomake", "take",
	"amader", "tomader", "tader", "amar", "tomar", "tar", "tara", "karon",
	"tai", "tahole", "kintu", "ebong", "othoba", "na", "nah", "hae", "han",
	"accha", "thik", "thikache", "thikachhe", "uff", "areh", "ore", "bhai",
	"dost", "yaar", "appu", "apu",
}

// Detector classifies an utterance as English, Bengali script, or Banglish.
// Pure and total: every input maps to a label, empty input included.
type Detector struct {
	banglishWords *regexp.Regexp
}

// NewDetector builds a detector around the given phonetic word list.
// Matching is case-insensitive and word-boundary delimited, so "ami" matches
// in "ami bhalo achi" but not inside "family".
func NewDetector(words []string) *Detector {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		quoted = append(quoted, regexp.QuoteMeta(w))
	}
	pattern := `(?i)\b(` + strings.Join(quoted, "|") + `)\b`
	return &Detector{banglishWords: regexp.MustCompile(pattern)}
}

// DefaultDetector returns a detector backed by DefaultBanglishWords.
func DefaultDetector() *Detector {
	return NewDetector(DefaultBanglishWords)
}

// Detect labels a single utterance. Priority order: any Bengali-script rune
// wins outright, then a Latin letter plus a dictionary hit means Banglish,
// everything else falls back to English.
func (d *Detector) Detect(text string) Language {
	text = norm.NFC.String(text)

	if containsBengaliScript(text) {
		return Bengali
	}
	if containsLatinLetter(text) && d.banglishWords.MatchString(text) {
		return Banglish
	}
	return English
}

// ValidationOutcome reports whether a generated reply stayed in the language
// family of the user's input. Advisory only.
type ValidationOutcome struct {
	Matched       bool
	ReplyLanguage Language
}

// Validate re-runs detection against a generated reply and compares it with
// the label of the originating input. It never fails; a mismatch is metadata
// for the caller to log or surface, not an error.
func (d *Detector) Validate(expected Language, reply string) ValidationOutcome {
	got := d.Detect(reply)
	return ValidationOutcome{Matched: got == expected, ReplyLanguage: got}
}

func containsBengaliScript(text string) bool {
	for _, r := range text {
		if r >= 0x0980 && r <= 0x09FF {
			return true
		}
	}
	return false
}

func containsLatinLetter(text string) bool {
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
