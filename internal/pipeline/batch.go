// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cirscanproj/cirscan/internal/canon"
	"github.com/cirscanproj/cirscan/internal/catalog"
	"github.com/cirscanproj/cirscan/internal/match"
)

// Subject is one batch input document.
type Subject struct {
	ID   string
	Text string
}

// Failure explains one subject that produced no result.
type Failure struct {
	SubjectID string `json:"subject_id"`
	Reason    string `json:"reason"`
}

// BatchItem pairs one subject with its analysis result.
type BatchItem struct {
	SubjectID string               `json:"subject_id"`
	ElapsedMS int64                `json:"elapsed_ms"`
	Result    match.AnalysisResult `json:"result"`
}

// BatchStatistics aggregates one batch run. Score figures cover successful
// items only; failures count but do not score.
type BatchStatistics struct {
	TotalSubjects int     `json:"total_subjects"`
	Succeeded     int     `json:"succeeded"`
	Failed        int     `json:"failed"`
	GoCount       int     `json:"go_count"`
	NoGoCount     int     `json:"no_go_count"`
	GoPercentage  float64 `json:"go_percentage"`
	MeanScore     float64 `json:"mean_score"`
}

// BatchResult is the outcome of one batch run. Results keep the input order
// of their subjects regardless of completion order.
type BatchResult struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Results    []BatchItem     `json:"results"`
	Failures   []Failure       `json:"failures"`
	Statistics BatchStatistics `json:"statistics"`
}

type batchOutcome struct {
	item    *BatchItem
	failure *Failure
}

// AnalyzeBatch analyzes every subject against one catalog built once from
// the reference text. Per-subject failures are recorded, never raised.
// Cancellation stops new subjects from starting while in-flight analyses
// finish; subjects that never started are recorded as canceled failures, so
// every input is accounted for in the partial result.
func (p *Pipeline) AnalyzeBatch(ctx context.Context, subjects []Subject, referenceText string) BatchResult {
	runID := uuid.NewString()
	started := p.now().UTC()
	cat := p.builder.Build(referenceText)

	p.logger.Info("batch started",
		slog.String("run_id", runID),
		slog.Int("subjects", len(subjects)),
		slog.Int("requirements", len(cat.Requirements)),
		slog.Int("workers", p.workers))

	outcomes := make([]batchOutcome, len(subjects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, subj := range subjects {
		id := subj.ID
		if id == "" {
			id = fmt.Sprintf("subject-%03d", i+1)
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				outcomes[i] = batchOutcome{failure: &Failure{SubjectID: id, Reason: "canceled"}}
				return nil
			}
			outcomes[i] = p.analyzeOne(id, subj.Text, cat)
			return nil
		})
	}
	_ = g.Wait()

	result := BatchResult{
		RunID:     runID,
		StartedAt: started,
		Results:   []BatchItem{},
		Failures:  []Failure{},
	}
	for _, o := range outcomes {
		switch {
		case o.item != nil:
			result.Results = append(result.Results, *o.item)
		case o.failure != nil:
			result.Failures = append(result.Failures, *o.failure)
		}
	}
	result.Statistics = Statistics(result.Results, result.Failures)
	result.FinishedAt = p.now().UTC()

	p.logger.Info("batch finished",
		slog.String("run_id", runID),
		slog.Int("succeeded", result.Statistics.Succeeded),
		slog.Int("failed", result.Statistics.Failed))

	return result
}

// analyzeOne runs a single subject, applying the advisory per-document
// deadline when one is configured. A timed-out analysis keeps running in the
// background; only its result is abandoned.
func (p *Pipeline) analyzeOne(id, text string, cat *catalog.RequirementCatalog) batchOutcome {
	if strings.TrimSpace(text) == "" {
		return batchOutcome{failure: &Failure{SubjectID: id, Reason: ErrUnreadableDocument.Error()}}
	}

	start := time.Now()
	if p.perDocTimeout <= 0 {
		res := p.Analyze(text, cat)
		return batchOutcome{item: &BatchItem{
			SubjectID: id,
			ElapsedMS: time.Since(start).Milliseconds(),
			Result:    res,
		}}
	}

	done := make(chan match.AnalysisResult, 1)
	go func() {
		done <- p.Analyze(text, cat)
	}()
	select {
	case res := <-done:
		return batchOutcome{item: &BatchItem{
			SubjectID: id,
			ElapsedMS: time.Since(start).Milliseconds(),
			Result:    res,
		}}
	case <-time.After(p.perDocTimeout):
		p.logger.Warn("subject timed out", slog.String("subject_id", id))
		return batchOutcome{failure: &Failure{SubjectID: id, Reason: "per-document timeout exceeded"}}
	}
}

// Statistics aggregates batch outcomes. It is a pure function of its inputs:
// GO percentage and mean score cover successful items only, failures count
// but never score.
func Statistics(items []BatchItem, failures []Failure) BatchStatistics {
	stats := BatchStatistics{
		TotalSubjects: len(items) + len(failures),
		Succeeded:     len(items),
		Failed:        len(failures),
	}
	var scoreSum float64
	for _, it := range items {
		scoreSum += it.Result.Summary.ComplianceScore
		if it.Result.Summary.GoNoGo == match.DecisionGo {
			stats.GoCount++
		} else {
			stats.NoGoCount++
		}
	}
	if stats.Succeeded > 0 {
		stats.GoPercentage = canon.Round2(float64(stats.GoCount) / float64(stats.Succeeded) * 100)
		stats.MeanScore = canon.Round2(scoreSum / float64(stats.Succeeded))
	}
	return stats
}
