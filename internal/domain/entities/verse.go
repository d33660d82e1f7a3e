// Package entities contains domain entities used across the application.
package entities

import "strings"

// Verse represents one couplet of the Thirukkural.
// It includes the original Tamil text, its legacy Bamini transliteration,
// the English explanation and the chapter it belongs to.
type Verse struct {
	Number       int    `json:"kural_no"`             // number of the couplet (from 1 to 1330)
	Tamil        string `json:"kural_tamil1"`         // both Tamil lines separated by a newline
	Bamini1      string `json:"kural_bamini1"`        // first line in Bamini encoding
	Bamini2      string `json:"kural_bamini2"`        // second line in Bamini encoding
	Explanation  string `json:"kuralvilakam_english"` // English explanation of the couplet
	Chapter      string `json:"adhikarm_english"`     // chapter (adhikaram) name in English
	ChapterTamil string `json:"adhikarm_tamil"`       // chapter name in Tamil
	Section      string `json:"paal_english"`         // section (paal) name in English
}

// Lines returns the two original-language lines of the couplet.
// The Tamil field is used when it carries both lines, otherwise the
// Bamini lines are returned.
func (v *Verse) Lines() []string {
	if strings.Contains(v.Tamil, "\n") {
		parts := strings.SplitN(v.Tamil, "\n", 2)
		return nonEmpty(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}

	if strings.TrimSpace(v.Tamil) != "" && v.Bamini1 == "" && v.Bamini2 == "" {
		return nonEmpty(strings.TrimSpace(v.Tamil))
	}

	return nonEmpty(strings.TrimSpace(v.Bamini1), strings.TrimSpace(v.Bamini2))
}

func nonEmpty(lines ...string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
