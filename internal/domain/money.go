package domain

import (
	"math"
	"strings"
)

// Round2 rounds a monetary amount to two decimal places. Every amount is
// rounded like this before it is persisted or returned.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NormalizeName trims the submitted display name and cuts it to
// MaxNameLen runes. Returns nil when nothing usable remains, which the
// rest of the system treats as "no name given".
func NormalizeName(s string) *string {
	return clip(s, MaxNameLen)
}

// NormalizeProofURL trims the submitted proof URL and cuts it to
// MaxProofURLLen runes. Returns nil when empty after trimming.
func NormalizeProofURL(s string) *string {
	return clip(s, MaxProofURLLen)
}

func clip(s string, max int) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if r := []rune(s); len(r) > max {
		s = string(r[:max])
	}
	return &s
}
