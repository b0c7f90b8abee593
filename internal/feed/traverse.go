package feed

import (
	"context"
	"fmt"
	"log/slog"
	"jobreach/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("jobreach.internal.feed")

const (
	DefaultStallThreshold    = 5
	DefaultMaxScrollAttempts = 200
)

type Options struct {
	// number of consecutive load attempts without a post count increase
	// before the feed is considered exhausted. this is a heuristic: the
	// feed never says "done", a stable count is the best signal we get.
	StallThreshold int
	// stop after this many posts have been yielded. 0 means unbounded.
	MaxPosts int
	// hard cap on load attempts per query, a safety bound on top of
	// stall detection.
	MaxScrollAttempts int
}

func (o Options) withDefaults() Options {
	if o.StallThreshold <= 0 {
		o.StallThreshold = DefaultStallThreshold
	}
	if o.MaxScrollAttempts <= 0 {
		o.MaxScrollAttempts = DefaultMaxScrollAttempts
	}
	return o
}

// Engine paginates one query's result feed and yields post units in feed
// order. traversal state is owned here, reset on every Traverse call,
// and never shared.
type Engine struct {
	driver PageDriver
	opts   Options
}

func NewEngine(driver PageDriver, opts Options) *Engine {
	return &Engine{
		driver: driver,
		opts:   opts.withDefaults(),
	}
}

// wraps a driver failure in ErrSessionLost when the browsing session is
// gone, so the orchestrator can tell connection loss apart from an
// ordinary scrape error.
func (e *Engine) classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if !e.driver.Alive(ctx) {
		return fmt.Errorf("%w: %v", ErrSessionLost, err)
	}
	return err
}

// Traverse drives the feed for one query, calling visit for each newly
// rendered post unit. it returns nil on normal exhaustion (stall
// threshold or max-post cap reached) and ErrSessionLost when the
// browsing session dies mid-traversal. a non-nil error from visit
// aborts the traversal and is returned as-is.
func (e *Engine) Traverse(ctx context.Context, query Query, visit func(ctx context.Context, unit Unit) error) error {
	ctx, span := tracer.Start(ctx, "Traverse")
	defer span.End()
	span.SetAttributes(attribute.String("query", query.Text))

	err := e.driver.OpenQuery(ctx, query)
	if err != nil {
		err = e.classify(ctx, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open query feed")
		return err
	}

	if query.Filter != DateFilterNone {
		err := e.driver.ApplyDateFilter(ctx, query.Filter)
		if err != nil {
			// degrade to an unfiltered traversal rather than aborting
			slog.WarnContext(ctx, "failed to apply date filter, continuing unfiltered",
				"query", query.Text, "filter", query.Filter.String(), "err", err)
		}
	}

	noProgress := 0
	lastCount := 0
	yielded := 0

	for attempt := 0; attempt < e.opts.MaxScrollAttempts; attempt++ {
		count, err := e.driver.PostCount(ctx)
		if err != nil {
			err = e.classify(ctx, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to read post count")
			return err
		}

		for i := yielded; i < count; i++ {
			if e.opts.MaxPosts > 0 && yielded >= e.opts.MaxPosts {
				break
			}
			err := visit(ctx, Unit{Index: i})
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "visit aborted traversal")
				return err
			}
			yielded++
		}

		if e.opts.MaxPosts > 0 && yielded >= e.opts.MaxPosts {
			slog.InfoContext(ctx, "post cap reached", "query", query.Text, "posts", yielded)
			return nil
		}

		if count > lastCount {
			noProgress = 0
		} else {
			noProgress++
			if noProgress >= e.opts.StallThreshold {
				slog.InfoContext(ctx, "feed exhausted",
					"query", query.Text, "posts", yielded, "no_progress", noProgress)
				return nil
			}
		}
		lastCount = count

		clicked, err := e.driver.ClickLoadMore(ctx)
		if err != nil {
			err = e.classify(ctx, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to load more posts")
			return err
		}
		if !clicked {
			err := e.driver.ScrollIncrement(ctx)
			if err != nil {
				err = e.classify(ctx, err)
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to scroll feed")
				return err
			}
		}
	}

	slog.WarnContext(ctx, "scroll attempt cap reached",
		"query", query.Text, "posts", yielded, "attempts", e.opts.MaxScrollAttempts)
	return nil
}
