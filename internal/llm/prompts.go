package llm

import (
	"fmt"
	"strings"
)

// PromptKind identifies which engine step issued a judge prompt.
type PromptKind string

const (
	PromptThemeName     PromptKind = "theme_name"
	PromptContradiction PromptKind = "contradiction"
	PromptExplanation   PromptKind = "explanation"
	PromptGapDirections PromptKind = "gap_directions"
	PromptUnknown       PromptKind = "unknown"
)

// Sampling parameters per prompt kind.
const (
	ThemeNameMaxTokens       = 20
	ThemeNameTemperature     = 0.3
	ContradictionMaxTokens   = 5
	ContradictionTemperature = 0.0
	ExplanationMaxTokens     = 120
	ExplanationTemperature   = 0.2
	GapDirectionsMaxTokens   = 150
	GapDirectionsTemperature = 0.4
)

const themeNameHeader = "Name the research concept described by this finding."

const themeNamePrompt = themeNameHeader + `

Finding: %s

Respond with ONLY a short noun phrase of 2 to 6 words. No quotes, no explanation.`

const contradictionHeader = "Do these two research findings make contradictory claims?"

const contradictionPrompt = contradictionHeader + `
Finding A: %s
Finding B: %s

Answer only "yes" or "no". No explanation.`

const explanationHeader = "Two research findings were judged to contradict each other."

const explanationPrompt = explanationHeader + `
Finding A: %s
Finding B: %s

Explain the conflict in one or two sentences. Respond with ONLY the explanation.`

const gapDirectionsHeader = "A research theme has weak support in the reviewed literature."

const gapDirectionsPrompt = gapDirectionsHeader + `
Theme: %s
Supporting documents: %d
Confidence: %.2f

Suggest up to 3 concrete directions for future research on this theme.
Respond with one direction per line. No numbering, no bullets, no explanation.`

func ThemeNamePrompt(findingText string) string {
	return fmt.Sprintf(themeNamePrompt, findingText)
}

func ContradictionPrompt(a, b string) string {
	return fmt.Sprintf(contradictionPrompt, a, b)
}

func ExplanationPrompt(a, b string) string {
	return fmt.Sprintf(explanationPrompt, a, b)
}

func GapDirectionsPrompt(themeName string, support int, confidence float64) string {
	return fmt.Sprintf(gapDirectionsPrompt, themeName, support, confidence)
}

// KindOf reports which builder produced prompt.
func KindOf(prompt string) PromptKind {
	switch {
	case strings.HasPrefix(prompt, themeNameHeader):
		return PromptThemeName
	case strings.HasPrefix(prompt, contradictionHeader):
		return PromptContradiction
	case strings.HasPrefix(prompt, explanationHeader):
		return PromptExplanation
	case strings.HasPrefix(prompt, gapDirectionsHeader):
		return PromptGapDirections
	default:
		return PromptUnknown
	}
}

// CleanName normalises a model-produced theme name. It returns "" when
// nothing usable remains.
func CleanName(raw string) string {
	name := strings.TrimSpace(raw)
	if i := strings.IndexByte(name, '\n'); i >= 0 {
		name = name[:i]
	}
	const junk = "\"'`*#. "
	name = strings.Trim(name, junk)
	if len(name) > 5 && strings.EqualFold(name[:5], "name:") {
		name = strings.Trim(name[5:], junk)
	}
	if len(name) > 80 {
		name = strings.TrimSpace(name[:80])
	}
	return name
}

// ParseDirections splits a multi-line answer into at most limit directions,
// dropping list markers.
func ParseDirections(raw string, limit int) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•0123456789.) ")
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == limit {
			break
		}
	}
	return out
}
