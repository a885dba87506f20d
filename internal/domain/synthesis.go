package domain

import "time"

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// SeverityFromSimilarity grades a contradiction by how closely the two
// findings address the same topic.
func SeverityFromSimilarity(sim float64) Severity {
	switch {
	case sim >= 0.85:
		return SeverityHigh
	case sim >= 0.70:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Contradiction is an immutable record of two incompatible findings.
type Contradiction struct {
	FindingA    FindingID `json:"finding_a"`
	FindingB    FindingID `json:"finding_b"`
	TextA       string    `json:"text_a"`
	TextB       string    `json:"text_b"`
	Explanation string    `json:"explanation"`
	Severity    Severity  `json:"severity"`
	Similarity  float64   `json:"similarity"`
	DetectedAt  int       `json:"detected_at_round"`
}

// ResearchGap flags an under-supported theme.
type ResearchGap struct {
	ThemeID             ThemeID  `json:"theme_id"`
	ThemeName           string   `json:"theme_name"`
	Description         string   `json:"description"`
	Importance          float64  `json:"importance"`
	SuggestedDirections []string `json:"suggested_directions"`
	DetectedAt          int      `json:"detected_at_round"`
}

// ConfidenceDelta records one theme's confidence movement within a round.
type ConfidenceDelta struct {
	ThemeID ThemeID `json:"theme_id"`
	Name    string  `json:"name"`
	Before  float64 `json:"before"`
	After   float64 `json:"after"`
}

// Delta returns After minus Before.
func (d ConfidenceDelta) Delta() float64 {
	return d.After - d.Before
}

// MergeEvent records one theme absorbing another.
type MergeEvent struct {
	Kept         ThemeID `json:"kept"`
	KeptName     string  `json:"kept_name"`
	Absorbed     ThemeID `json:"absorbed"`
	AbsorbedName string  `json:"absorbed_name"`
	Similarity   float64 `json:"similarity"`
	Confidence   float64 `json:"confidence"`
}

// SynthesisUpdate describes exactly what changed while processing one document.
type SynthesisUpdate struct {
	Sequence          int               `json:"sequence"`
	DocumentID        string            `json:"document_id"`
	DocumentTitle     string            `json:"document_title"`
	Timestamp         time.Time         `json:"timestamp"`
	NewFindings       []Finding         `json:"new_findings"`
	NewThemes         []Theme           `json:"new_themes"`
	NewContradictions []Contradiction   `json:"new_contradictions"`
	NewGaps           []ResearchGap     `json:"new_gaps"`
	ConfidenceDeltas  []ConfidenceDelta `json:"confidence_deltas"`
	Merges            []MergeEvent      `json:"merges"`
	Synthesis         Synthesis         `json:"synthesis"`
}

// Synthesis is a point-in-time view of the engine's aggregate state.
type Synthesis struct {
	Themes          []string        `json:"themes"`
	Contradictions  []Contradiction `json:"contradictions"`
	Gaps            []ResearchGap   `json:"gaps"`
	Recommendations []string        `json:"recommendations"`
}
