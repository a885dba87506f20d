package domain

import "strings"

// Verdict is the closed set a judge's short answer is mapped onto.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictAffirmative
	VerdictNegative
)

func (v Verdict) String() string {
	switch v {
	case VerdictAffirmative:
		return "affirmative"
	case VerdictNegative:
		return "negative"
	default:
		return "unknown"
	}
}

// ParseVerdict maps free judge text onto a Verdict. Only a bare yes
// (case-insensitive, optionally quoted, with at most one trailing period or
// exclamation mark) is affirmative. Anything ambiguous is VerdictUnknown.
func ParseVerdict(text string) Verdict {
	s := strings.TrimSpace(text)
	s = strings.Trim(s, "\"'`")
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") {
		s = s[:len(s)-1]
	}
	switch strings.ToLower(s) {
	case "yes":
		return VerdictAffirmative
	case "no":
		return VerdictNegative
	default:
		return VerdictUnknown
	}
}
