package textutil

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// domains that show up in posts as examples rather than real contacts
var placeholderDomains = []string{
	"example.com",
	"test.com",
	"domain.com",
	"email.com",
}

// NormalizeEmail lowercases and trims an address. the normalized form is
// the identity used for deduplication everywhere in the pipeline.
func NormalizeEmail(email string) string {
	return strings.Trim(strings.ToLower(email), " \t\n")
}

func isPlaceholder(email string) bool {
	lower := strings.ToLower(email)
	for _, d := range placeholderDomains {
		if strings.HasSuffix(lower, "@"+d) {
			return true
		}
	}
	return false
}

func dedupePreservingOrder(emails []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range emails {
		key := NormalizeEmail(e)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

// ScanEmails finds every address in free text. placeholder domains are
// filtered out, unless filtering would leave nothing, in which case the
// raw matches are returned (the post author may genuinely use one).
// if the direct scan finds nothing, a de-obfuscation pass is applied
// ("name [at] host [dot] com") and the scan is retried.
func ScanEmails(text string) []string {
	if text == "" {
		return nil
	}

	matches := emailRegex.FindAllString(text, -1)
	if len(matches) == 0 {
		matches = emailRegex.FindAllString(Deobfuscate(text), -1)
	}
	if len(matches) == 0 {
		return nil
	}

	var valid []string
	for _, m := range matches {
		if !isPlaceholder(m) {
			valid = append(valid, m)
		}
	}
	if len(valid) == 0 {
		valid = matches
	}
	return dedupePreservingOrder(valid)
}

var obfuscationPatterns = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\s*\[at\]\s*`), "@"},
	{regexp.MustCompile(`(?i)\s*\(at\)\s*`), "@"},
	{regexp.MustCompile(`(?i)\s*\[dot\]\s*`), "."},
	{regexp.MustCompile(`(?i)\s*\(dot\)\s*`), "."},
	{regexp.MustCompile(`\s+@\s+`), "@"},
	{regexp.MustCompile(`(?i)\s+at\s+`), "@"},
	{regexp.MustCompile(`\s+\.\s+`), "."},
}

// Deobfuscate rewrites common spelled-out address forms into plain
// local@domain syntax so the scanner can pick them up.
func Deobfuscate(text string) string {
	out := text
	for _, o := range obfuscationPatterns {
		out = o.pattern.ReplaceAllString(out, o.replacement)
	}
	return out
}
