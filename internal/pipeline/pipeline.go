// SPDX-License-Identifier: Apache-2.0

// Package pipeline composes extraction and matching into single-document
// and batch analysis runs.
package pipeline

import (
	"errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/cirscanproj/cirscan/internal/catalog"
	"github.com/cirscanproj/cirscan/internal/evidence"
	"github.com/cirscanproj/cirscan/internal/match"
	"github.com/cirscanproj/cirscan/internal/rules"
)

// ErrUnreadableDocument marks input that upstream text extraction could not
// turn into usable text. It surfaces as a per-item batch failure, never as
// an aborted batch.
var ErrUnreadableDocument = errors.New("document unreadable")

// Pipeline wires one rule set through the catalog builder, the evidence
// extractor and the matcher. It is safe for concurrent use; batch workers
// share it without locking because analysis never mutates it.
type Pipeline struct {
	builder       *catalog.Builder
	extractor     *evidence.Extractor
	matcher       *match.Matcher
	workers       int
	perDocTimeout time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// Option adjusts a Pipeline at construction time.
type Option func(*Pipeline)

// WithWorkers bounds the batch worker pool. Values below one are ignored.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithPerDocumentTimeout sets an advisory per-subject deadline for batch
// runs. A subject that exceeds it becomes a failure entry; the analysis
// itself is not interrupted. Zero disables the deadline.
func WithPerDocumentTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.perDocTimeout = d
	}
}

// WithLogger routes pipeline progress logging. The default discards it.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock overrides the time source stamped onto batch results.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a Pipeline. A nil rule set selects the default pack. The
// default pool size tracks the core count; the work is CPU-bound text
// scanning, not I/O.
func New(rs *rules.Ruleset, opts ...Option) *Pipeline {
	if rs == nil {
		rs = rules.Default()
	}
	p := &Pipeline{
		builder:   catalog.NewBuilder(rs),
		extractor: evidence.NewExtractor(rs),
		matcher:   match.NewMatcher(rs),
		workers:   runtime.GOMAXPROCS(0),
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analyze extracts evidence from subject text and scores it against a
// prebuilt catalog. It never fails; unusable text simply produces a sparse
// record and low-confidence verdicts.
func (p *Pipeline) Analyze(subjectText string, cat *catalog.RequirementCatalog) match.AnalysisResult {
	rec := p.extractor.Extract(subjectText)
	if len(rec.Fields) == 0 {
		p.logger.Debug("extraction degraded",
			slog.String("reason", "no pattern family produced fields"))
	}
	return p.matcher.Assess(rec, cat)
}

// AnalyzePair builds the catalog from reference text, then analyzes the
// subject against it. Same inputs always give the same result.
func (p *Pipeline) AnalyzePair(subjectText, referenceText string) match.AnalysisResult {
	return p.Analyze(subjectText, p.builder.Build(referenceText))
}
