package deliver

import (
	"strings"
	"jobreach/internal/extract"
)

// Identity is the sender's own contact details, substituted into the
// message templates.
type Identity struct {
	Name     string
	Email    string
	Phone    string
	LinkedIn string
}

// TemplateSet holds the subject and body templates. supported
// placeholders: {job_title}, {name}, {email}, {phone}, {linkedin}.
type TemplateSet struct {
	Subject string
	Body    string
	// substituted for {job_title} when extraction produced no hint
	DefaultJobTitle string
}

const (
	defaultSubject  = "Application for {job_title} Position - {name}"
	defaultJobTitle = "QA/Testing"
)

func (t TemplateSet) withDefaults() TemplateSet {
	if t.Subject == "" {
		t.Subject = defaultSubject
	}
	if t.DefaultJobTitle == "" {
		t.DefaultJobTitle = defaultJobTitle
	}
	return t
}

// Render produces the subject and body for one candidate. an unresolved
// job title falls back to the default string, it never fails the send.
func (t TemplateSet) Render(c extract.Candidate, id Identity) (subject, body string) {
	t = t.withDefaults()

	title := c.JobTitle
	if title == "" {
		title = t.DefaultJobTitle
	}

	replacer := strings.NewReplacer(
		"{job_title}", title,
		"{name}", id.Name,
		"{email}", id.Email,
		"{phone}", id.Phone,
		"{linkedin}", id.LinkedIn,
	)
	return replacer.Replace(t.Subject), replacer.Replace(t.Body)
}
