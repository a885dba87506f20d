package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, PromptThemeName, KindOf(ThemeNamePrompt("x")))
	assert.Equal(t, PromptContradiction, KindOf(ContradictionPrompt("a", "b")))
	assert.Equal(t, PromptExplanation, KindOf(ExplanationPrompt("a", "b")))
	assert.Equal(t, PromptGapDirections, KindOf(GapDirectionsPrompt("t", 1, 0.5)))
	assert.Equal(t, PromptUnknown, KindOf("hello"))
}

func TestContradictionPrompt_ContainsBothFindings(t *testing.T) {
	p := ContradictionPrompt("sleep improves memory", "sleep has no effect on memory")
	assert.Contains(t, p, "Finding A: sleep improves memory")
	assert.Contains(t, p, "Finding B: sleep has no effect on memory")
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sleep and memory", "Sleep and memory"},
		{"  \"Sleep and memory\".\n", "Sleep and memory"},
		{"**Sleep and memory**\nThis theme covers...", "Sleep and memory"},
		{"Name: Sleep and memory", "Sleep and memory"},
		{"name: \"Sleep and memory\".", "Sleep and memory"},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanName(tt.in), "input %q", tt.in)
	}
}

func TestParseDirections(t *testing.T) {
	raw := "1. Replicate in older adults\n- Use longitudinal designs\n\n* Compare dosage levels\nExtra line"
	got := ParseDirections(raw, 3)
	assert.Equal(t, []string{
		"Replicate in older adults",
		"Use longitudinal designs",
		"Compare dosage levels",
	}, got)

	assert.Empty(t, ParseDirections("  \n ", 3))
}
