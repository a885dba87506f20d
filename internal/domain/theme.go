package domain

// ThemeID is assigned in creation order, so lower IDs are older themes.
type ThemeID int64

const (
	// MaxThemeConfidence caps every theme's confidence.
	MaxThemeConfidence = 0.95
	// InitialThemeConfidence is the confidence of a freshly spawned theme.
	InitialThemeConfidence = 0.45
	// PlaceholderThemeName is used when the judge cannot name a new theme.
	PlaceholderThemeName = "Unnamed theme"
)

// Theme is a cluster of related findings.
type Theme struct {
	ID         ThemeID     `json:"id"`
	Name       string      `json:"name"`
	Confidence float64     `json:"confidence"`
	Findings   []FindingID `json:"finding_ids"`
	Documents  []string    `json:"document_ids"`
	CreatedAt  int         `json:"created_at_round"`
}

// SupportCount is the number of distinct documents backing the theme.
func (t Theme) SupportCount() int {
	return len(t.Documents)
}

// ClampConfidence bounds a confidence value to [0, MaxThemeConfidence].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > MaxThemeConfidence {
		return MaxThemeConfidence
	}
	return c
}
