package speech

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/book-expert/tts-reader/internal/core"
	"github.com/book-expert/tts-reader/internal/segment"
)

// MaxSpokenNumber is the largest integer spelled out; larger ones are read digit by digit by the engine.
const MaxSpokenNumber = 999999

const (
	numberPattern       = `\b\d{1,3}(?:,\d{3})+(?:\.\d+)?\b|\b\d+(?:\.\d+)?\b`
	abbreviationPattern = `\b(?:Mrs|Mr|Ms|Dr|St|Co|Ltd|Corp|Inc)\.`
	baseTen             = 10
	baseTwenty          = 20
	baseHundred         = 100
	baseThousand        = 1000
)

var (
	abbreviations = map[string]string{
		"Mr.":   "Mister",
		"Mrs.":  "Misses",
		"Ms.":   "Miss",
		"Dr.":   "Doctor",
		"St.":   "Saint",
		"Co.":   "Company",
		"Ltd.":  "Limited",
		"Corp.": "Corporation",
		"Inc.":  "Incorporated",
	}
	ones = []string{
		"zero", "one", "two", "three", "four", "five",
		"six", "seven", "eight", "nine",
	}
	teens = []string{
		"ten", "eleven", "twelve", "thirteen", "fourteen",
		"fifteen", "sixteen", "seventeen", "eighteen", "nineteen",
	}
	tens = []string{
		"", "", "twenty", "thirty", "forty", "fifty",
		"sixty", "seventy", "eighty", "ninety",
	}
)

// Normalizer rewrites a sentence into the plain spoken form TTS engines expect.
type Normalizer struct {
	numberPattern       *regexp.Regexp
	abbreviationPattern *regexp.Regexp
	punctuation         *strings.Replacer
}

// NewNormalizer creates a Normalizer with its patterns compiled.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		numberPattern:       regexp.MustCompile(numberPattern),
		abbreviationPattern: regexp.MustCompile(abbreviationPattern),
		punctuation: strings.NewReplacer(
			"—", " - ",
			"–", "-",
			"‒", "-",
			"…", "...",
			"“", `"`, "”", `"`,
			"‘", "'", "’", "'",
		),
	}
}

// Normalize returns the spoken form of sentence. Whitespace runs collapse to one space.
func (n *Normalizer) Normalize(sentence string) string {
	text := n.abbreviationPattern.ReplaceAllStringFunc(sentence, func(match string) string {
		return abbreviations[match]
	})
	text = n.numberPattern.ReplaceAllStringFunc(text, spellNumber)
	text = n.punctuation.Replace(text)

	return strings.Join(strings.FieldsFunc(text, segment.IsSpace), " ")
}

// Normalized wraps a Synthesizer so every sentence is normalized first.
type Normalized struct {
	inner      core.Synthesizer
	normalizer *Normalizer
}

// NewNormalized creates the wrapper.
func NewNormalized(inner core.Synthesizer, normalizer *Normalizer) *Normalized {
	return &Normalized{inner: inner, normalizer: normalizer}
}

// Synthesize normalizes text and delegates.
func (n *Normalized) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return n.inner.Synthesize(ctx, n.normalizer.Normalize(text))
}

// spellNumber turns "1,250" into "one thousand two hundred fifty" and "2.5" into "two point five".
func spellNumber(match string) string {
	integerPart, fraction, hasFraction := strings.Cut(strings.ReplaceAll(match, ",", ""), ".")

	number, err := strconv.Atoi(integerPart)
	if err != nil || number > MaxSpokenNumber {
		return match
	}

	words := integerToWords(number)
	if !hasFraction {
		return words
	}

	digits := make([]string, 0, len(fraction))
	for _, digit := range fraction {
		digits = append(digits, ones[digit-'0'])
	}

	return words + " point " + strings.Join(digits, " ")
}

func integerToWords(number int) string {
	if number == 0 {
		return ones[0]
	}

	var parts []string

	if thousands := number / baseThousand; thousands > 0 {
		parts = append(parts, underThousand(thousands), "thousand")
	}

	if remainder := number % baseThousand; remainder > 0 {
		parts = append(parts, underThousand(remainder))
	}

	return strings.Join(parts, " ")
}

func underThousand(number int) string {
	if number < baseHundred {
		return underHundred(number)
	}

	words := ones[number/baseHundred] + " hundred"
	if remainder := number % baseHundred; remainder > 0 {
		words += " " + underHundred(remainder)
	}

	return words
}

func underHundred(number int) string {
	switch {
	case number < baseTen:
		return ones[number]
	case number < baseTwenty:
		return teens[number-baseTen]
	case number%baseTen == 0:
		return tens[number/baseTen]
	default:
		return tens[number/baseTen] + " " + ones[number%baseTen]
	}
}
