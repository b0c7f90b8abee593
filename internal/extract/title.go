package extract

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

// bounded cue set for deriving a job-title hint from post text. order
// matters: labels are emitted in this order when several cues match.
var titleCues = []struct {
	phrase string
	label  string
}{
	{"manual testing", "Manual Testing"},
	{"automation testing", "Automation"},
	{"automation", "Automation"},
	{"quality assurance", "QA"},
	{"qa", "QA"},
	{"sdet", "SDET"},
	{"test engineer", "Test Engineer"},
	{"performance testing", "Performance Testing"},
	{"testing", "Testing"},
}

// cues at least this long are also matched fuzzily, to survive the
// typos job posts are full of
const fuzzyMinLen = 6
const fuzzyThreshold = 0.94

var wordRegex = regexp.MustCompile(`[a-z0-9+#]+`)

// TitleHint derives a job-title hint from post text by matching the cue
// set against its word n-grams. multiple matched cues are joined with a
// slash ("Manual Testing/QA"). returns "" when nothing matches; the
// delivery template falls back to its default subject in that case.
func TitleHint(text string) string {
	words := wordRegex.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return ""
	}

	var labels []string
	seen := map[string]bool{}
	for _, cue := range titleCues {
		if !cueMatches(cue.phrase, words) {
			continue
		}
		if seen[cue.label] {
			continue
		}
		seen[cue.label] = true
		labels = append(labels, cue.label)
	}
	return strings.Join(labels, "/")
}

func cueMatches(phrase string, words []string) bool {
	parts := strings.Fields(phrase)
	n := len(parts)
	for i := 0; i+n <= len(words); i++ {
		gram := strings.Join(words[i:i+n], " ")
		if gram == phrase {
			return true
		}
		if len(phrase) >= fuzzyMinLen &&
			matchr.JaroWinkler(gram, phrase, false) >= fuzzyThreshold {
			return true
		}
	}
	return false
}
