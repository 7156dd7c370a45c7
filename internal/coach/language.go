package coach

import "github.com/RadhiFadlillah/whatlanggo"

// responseLangHint detects the question's language and names it for the
// prompt. Best effort only — detection is a pass-through hint to the
// model, never an enforcement mechanism, so unreliable or unexpected
// results simply yield no hint.
func responseLangHint(question string) string {
	info := whatlanggo.Detect(question)
	if !info.IsReliable() {
		return ""
	}
	switch info.Lang {
	case whatlanggo.Cat:
		return "catala"
	case whatlanggo.Spa:
		return "castella"
	case whatlanggo.Eng:
		return "angles"
	}
	return ""
}
