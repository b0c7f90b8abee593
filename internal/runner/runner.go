package runner

import (
	"context"
	"errors"
	"log/slog"
	"jobreach/internal/aggregate"
	"jobreach/internal/artifact"
	"jobreach/internal/deliver"
	"jobreach/internal/extract"
	"jobreach/internal/feed"
	"jobreach/internal/ledger"
	"jobreach/lib/telemetry"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("jobreach.internal.runner")

type Mode int

const (
	// traverse, extract and deliver
	ModeFull Mode = iota
	// traverse and extract, persist candidates, send nothing
	ModeScrapeOnly
	// skip traversal, deliver to candidates from the artifact store
	ModeDeliverOnly
)

func (m Mode) String() string {
	switch m {
	case ModeScrapeOnly:
		return "scrape-only"
	case ModeDeliverOnly:
		return "deliver-only"
	}
	return "full"
}

type Options struct {
	Mode      Mode
	Queries   []feed.Query
	Traversal feed.Options
}

// Runner walks the configured queries one at a time (the browsing
// session is a single non-shareable resource), aggregates candidates
// across them, then runs delivery once over the deduplicated set.
type Runner struct {
	driver   feed.PageDriver
	delivery *deliver.Engine
	sent     *ledger.Ledger
	store    *artifact.Store
	opts     Options
}

func New(driver feed.PageDriver, delivery *deliver.Engine, sent *ledger.Ledger, store *artifact.Store, opts Options) *Runner {
	return &Runner{
		driver:   driver,
		delivery: delivery,
		sent:     sent,
		store:    store,
		opts:     opts,
	}
}

func (r *Runner) Run(ctx context.Context) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	runId, err := random.String(8)
	if err != nil {
		runId = "unknown"
	}
	span.SetAttributes(attribute.String("run_id", runId))
	slog.InfoContext(ctx, "starting run",
		"run_id", runId, "mode", r.opts.Mode, "queries", len(r.opts.Queries))

	summary := Summary{RunId: runId}
	agg := aggregate.New(r.sent)

	if r.opts.Mode == ModeDeliverOnly {
		err := r.collectFromArtifact(ctx, agg, &summary)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to read extraction artifact")
			return summary, err
		}
	} else {
		r.collectFromFeed(ctx, agg, &summary)
	}

	if r.opts.Mode == ModeScrapeOnly {
		slog.InfoContext(ctx, "scrape-only run, skipping delivery",
			"run_id", runId, "candidates", len(agg.Candidates()))
		return summary, nil
	}

	for _, candidate := range agg.Candidates() {
		outcome := r.delivery.Deliver(ctx, candidate)
		switch outcome.Status {
		case deliver.StatusSent:
			summary.Delivered++
		case deliver.StatusSkipped:
			summary.Skipped++
		case deliver.StatusFailed:
			summary.Failed++
			slog.WarnContext(ctx, "delivery failed, continuing",
				"email", candidate.Email, "err", outcome.Err)
		}
	}

	slog.InfoContext(ctx, "run finished",
		"run_id", runId,
		"found", summary.Found,
		"delivered", summary.Delivered,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return summary, nil
}

// collectFromFeed traverses every configured query. a failure in one
// query, including session loss, is recorded against that query only;
// the remaining queries still run.
func (r *Runner) collectFromFeed(ctx context.Context, agg *aggregate.Aggregator, summary *Summary) {
	extractor := extract.NewExtractor(r.driver)

	for _, query := range r.opts.Queries {
		result := QueryResult{Query: query.Text}
		engine := feed.NewEngine(r.driver, r.opts.Traversal)

		err := engine.Traverse(ctx, query, func(ctx context.Context, unit feed.Unit) error {
			result.Posts++
			candidates, err := extractor.Extract(ctx, unit, query.Text)
			if err != nil {
				// a single unreadable post is not worth aborting the
				// query over, unless the session itself is gone
				if !r.driver.Alive(ctx) {
					return feed.ErrSessionLost
				}
				slog.WarnContext(ctx, "failed to extract post", "index", unit.Index, "err", err)
				return nil
			}
			for _, c := range candidates {
				r.record(ctx, agg, c, &result, summary)
			}
			return nil
		})
		if err != nil {
			result.Err = err
			if errors.Is(err, feed.ErrSessionLost) {
				slog.WarnContext(ctx, "session lost, skipping query",
					"query", query.Text, "err", err)
			} else {
				slog.ErrorContext(ctx, "query traversal failed",
					"query", query.Text, "err", err)
			}
		}
		summary.Queries = append(summary.Queries, result)
	}
}

func (r *Runner) record(ctx context.Context, agg *aggregate.Aggregator, c extract.Candidate, result *QueryResult, summary *Summary) {
	summary.Found++
	result.Candidates++

	if r.store != nil {
		err := r.store.Append(ctx, c)
		if err != nil {
			slog.WarnContext(ctx, "failed to record candidate in artifact store",
				"email", c.Email, "err", err)
		}
	}

	switch agg.Add(c) {
	case aggregate.DuplicateInRun:
		slog.DebugContext(ctx, "duplicate address within run", "email", c.Email)
	case aggregate.AlreadyContacted:
		summary.Skipped++
		slog.InfoContext(ctx, "address already contacted, skipping", "email", c.Email)
	}
}

func (r *Runner) collectFromArtifact(ctx context.Context, agg *aggregate.Aggregator, summary *Summary) error {
	candidates, err := r.store.List(ctx)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "loaded candidates from artifact store", "count", len(candidates))

	for _, c := range candidates {
		summary.Found++
		switch agg.Add(c) {
		case aggregate.AlreadyContacted:
			summary.Skipped++
		}
	}
	return nil
}
