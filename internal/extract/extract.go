package extract

import (
	"context"
	"log/slog"
	"strings"
	"jobreach/internal/feed"
	"jobreach/lib/telemetry"
	"jobreach/lib/textutil"
)

var tracer = telemetry.Tracer("jobreach.internal.extract")

// Candidate is one extracted contact: a validated address plus the post
// context it came from. immutable after creation.
type Candidate struct {
	// the address as it appeared in the post
	Email string
	// author name of the post, "" when unknown
	Author string
	// job-title hint derived from the post text, "" when no cue matched
	JobTitle string
	// leading excerpt of the post text, for the artifact store
	Excerpt string
	// query that surfaced the post
	Query string
}

const excerptLimit = 280

// Extractor turns raw post units into candidates: expand the post if it
// is truncated, scan the full text for addresses, and derive a job-title
// hint. a post with no address yields no candidates and no error.
type Extractor struct {
	driver feed.PageDriver
}

func NewExtractor(driver feed.PageDriver) Extractor {
	return Extractor{driver: driver}
}

func (x Extractor) Extract(ctx context.Context, unit feed.Unit, query string) ([]Candidate, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	// expansion is best-effort: a failed click still leaves the
	// truncated text, which may already contain the address
	hasExpand, err := x.driver.HasExpand(ctx, unit)
	if err == nil && hasExpand {
		err := x.driver.Expand(ctx, unit)
		if err != nil {
			slog.DebugContext(ctx, "failed to expand post", "index", unit.Index, "err", err)
		}
	}

	text, err := x.driver.Text(ctx, unit)
	if err != nil {
		return nil, err
	}
	emails := textutil.ScanEmails(text)
	if len(emails) == 0 {
		return nil, nil
	}

	author, err := x.driver.Author(ctx, unit)
	if err != nil {
		slog.DebugContext(ctx, "failed to read post author", "index", unit.Index, "err", err)
		author = ""
	}

	title := TitleHint(text)
	excerpt := Excerpt(text)

	candidates := make([]Candidate, 0, len(emails))
	for _, email := range emails {
		// each address in a multi-address post becomes an independent
		// candidate sharing the same context
		candidates = append(candidates, Candidate{
			Email:    email,
			Author:   author,
			JobTitle: title,
			Excerpt:  excerpt,
			Query:    query,
		})
	}
	return candidates, nil
}

func Excerpt(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > excerptLimit {
		return text[:excerptLimit]
	}
	return text
}
