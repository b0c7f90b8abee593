package deliver

import (
	"context"
	"fmt"
	"log/slog"
	"jobreach/internal/extract"
	"jobreach/internal/ledger"
	"jobreach/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("jobreach.internal.deliver")

type Status int

const (
	StatusSent Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSent:
		return "sent"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

type Outcome struct {
	Status Status
	Reason string
	Err    error
}

type Options struct {
	Templates TemplateSet
	Identity  Identity
	// exact attachment path; when it does not exist, ResumeDir is
	// searched for a .pdf instead
	ResumePath string
	ResumeDir  string
}

// Engine renders and sends one message per candidate, recording each
// confirmed send in the ledger before moving on. construction fails
// fast when no resume document resolves, before anything is sent.
type Engine struct {
	transport Transport
	sent      *ledger.Ledger
	opts      Options
	resume    string
}

func NewEngine(transport Transport, sent *ledger.Ledger, opts Options) (*Engine, error) {
	resume, err := ResolveResume(opts.ResumePath, opts.ResumeDir)
	if err != nil {
		return nil, err
	}
	slog.Info("resolved resume attachment", "path", resume)

	return &Engine{
		transport: transport,
		sent:      sent,
		opts:      opts,
		resume:    resume,
	}, nil
}

// Deliver sends one candidate's message. the ledger append happens
// strictly after the transport confirms the send, so a failure at any
// earlier point leaves the address eligible for a retry on a later run.
func (e *Engine) Deliver(ctx context.Context, c extract.Candidate) Outcome {
	ctx, span := tracer.Start(ctx, "Deliver")
	defer span.End()
	span.SetAttributes(attribute.String("email", c.Email))

	if e.sent.Contains(c.Email) {
		return Outcome{Status: StatusSkipped, Reason: "already contacted"}
	}

	subject, body := e.opts.Templates.Render(c, e.opts.Identity)
	msg := Message{
		From:           fmt.Sprintf("%s <%s>", e.opts.Identity.Name, e.opts.Identity.Email),
		To:             c.Email,
		Subject:        subject,
		Body:           body,
		AttachmentPath: e.resume,
	}

	err := e.transport.Send(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failed to send")
		return Outcome{Status: StatusFailed, Err: err}
	}

	err = e.sent.Append(c.Email)
	if err != nil {
		// the message went out but the record did not stick: the
		// address may be retried next run. surface it loudly.
		slog.ErrorContext(ctx, "message sent but ledger append failed",
			"email", c.Email, "err", err)
		span.RecordError(err)
	}
	slog.InfoContext(ctx, "delivered message", "email", c.Email, "subject", subject)
	return Outcome{Status: StatusSent}
}
