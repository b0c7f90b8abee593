package feed

import (
	"context"
	"errors"
)

type DateFilter int

const (
	DateFilterNone DateFilter = iota
	DateFilterPast24Hours
	DateFilterPastWeek
	DateFilterPastMonth
)

func (f DateFilter) String() string {
	switch f {
	case DateFilterPast24Hours:
		return "past-24h"
	case DateFilterPastWeek:
		return "past-week"
	case DateFilterPastMonth:
		return "past-month"
	}
	return "none"
}

// ParseDateFilter maps a config string onto a DateFilter. unknown
// values map to DateFilterNone.
func ParseDateFilter(s string) DateFilter {
	switch s {
	case "past-24h", "past 24 hours":
		return DateFilterPast24Hours
	case "past-week", "past week":
		return DateFilterPastWeek
	case "past-month", "past month":
		return DateFilterPastMonth
	}
	return DateFilterNone
}

type Query struct {
	Text   string
	Filter DateFilter
}

// Unit is a handle to one rendered post in the current feed. it is only
// valid for the traversal iteration that yielded it.
type Unit struct {
	Index int
}

// ErrSessionLost marks the browsing session as unreachable. it is
// non-retryable within a query; the orchestrator advances to the next
// query when it sees it.
var ErrSessionLost = errors.New("browsing session lost")

// PageDriver is the capability the traversal engine drives. one
// implementation runs a real browser (roddriver), tests use a scripted
// fake.
type PageDriver interface {
	// navigates to the result feed for a query.
	OpenQuery(ctx context.Context, query Query) error
	// applies the date filter to the open feed. called once, before
	// the scroll loop; failure degrades to an unfiltered traversal.
	ApplyDateFilter(ctx context.Context, filter DateFilter) error
	// number of post units currently rendered.
	PostCount(ctx context.Context) (int, error)
	// clicks a "load more" affordance if one is present. reports
	// whether a click happened.
	ClickLoadMore(ctx context.Context) (bool, error)
	// scrolls the feed down one increment to trigger lazy loading.
	ScrollIncrement(ctx context.Context) error
	// whether the unit exposes an expand ("...more") affordance.
	HasExpand(ctx context.Context, unit Unit) (bool, error)
	// triggers the expand affordance on a unit.
	Expand(ctx context.Context, unit Unit) error
	// the currently visible text of a unit.
	Text(ctx context.Context, unit Unit) (string, error)
	// the author name of a unit, or "" when it cannot be determined.
	Author(ctx context.Context, unit Unit) (string, error)
	// whether the browsing session is still reachable.
	Alive(ctx context.Context) bool
}
