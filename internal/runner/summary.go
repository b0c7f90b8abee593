package runner

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

type QueryResult struct {
	Query      string
	Posts      int
	Candidates int
	Err        error
}

// Summary is the user-facing account of a run: every non-success is
// attributable to a specific query or candidate.
type Summary struct {
	RunId string
	// total candidates discovered, before any deduplication
	Found int
	// messages confirmed sent this run
	Delivered int
	// addresses dropped because they were already in the ledger
	Skipped int
	// per-candidate transport failures
	Failed  int
	Queries []QueryResult
}

func (s Summary) Render() string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle("run %s", s.RunId)

	if len(s.Queries) > 0 {
		t.AppendHeader(table.Row{"query", "posts", "candidates", "status"})
		for _, q := range s.Queries {
			status := "ok"
			if q.Err != nil {
				status = q.Err.Error()
			}
			t.AppendRow(table.Row{q.Query, q.Posts, q.Candidates, status})
		}
		t.AppendSeparator()
	}
	t.AppendFooter(table.Row{"found", s.Found, "delivered", s.Delivered})
	t.AppendFooter(table.Row{"skipped", s.Skipped, "failed", s.Failed})
	return t.Render()
}
