// SPDX-License-Identifier: Apache-2.0

package pipeline_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirscanproj/cirscan/internal/match"
	"github.com/cirscanproj/cirscan/internal/pipeline"
)

const referenceText = `Gearbox inspection standard CIR-100.
Bolts shall be tested for torque retention.
All results must be recorded in the service log.
Visually inspect the flange for cracks.
`

const subjectText = `Turbine ID: T-1
Torque on gearbox bolts measured at 2800 Nm and recorded in the service log.
Test passed within tolerance. Visual inspection performed, photo attached.
No defects observed. Signed off by QA.
`

// ---------------------------------------------------------------------------
// single document
// ---------------------------------------------------------------------------

func TestPipeline_AnalyzePair_FullyCompliantReport(t *testing.T) {
	res := pipeline.New(nil).AnalyzePair(subjectText, referenceText)

	assert.Equal(t, "CIR-100", res.CaseID)
	require.Len(t, res.Verdicts, 3)
	for _, v := range res.Verdicts {
		assert.Equal(t, match.StatusMet, v.Status, "verdict %s", v.RequirementID)
	}
	assert.InDelta(t, 100, res.Summary.ComplianceScore, 0.001)
	assert.Equal(t, match.DecisionGo, res.Summary.GoNoGo)
	assert.Equal(t, 3, res.Summary.TotalRequirements)
}

func TestPipeline_AnalyzePair_Deterministic(t *testing.T) {
	p := pipeline.New(nil)

	first := p.AnalyzePair(subjectText, referenceText)
	second := p.AnalyzePair(subjectText, referenceText)

	require.Equal(t, first, second)

	d1, err := first.Digest()
	require.NoError(t, err)
	d2, err := second.Digest()
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestPipeline_AnalyzePair_EmptyReference(t *testing.T) {
	res := pipeline.New(nil).AnalyzePair(subjectText, "")

	assert.Empty(t, res.Verdicts)
	assert.Equal(t, 0, res.Summary.TotalRequirements)
	assert.InDelta(t, 100, res.Summary.ComplianceScore, 0.001)
	assert.Equal(t, match.DecisionGo, res.Summary.GoNoGo)
}

// ---------------------------------------------------------------------------
// batch
// ---------------------------------------------------------------------------

func TestPipeline_AnalyzeBatch_OrderAndFailureIsolation(t *testing.T) {
	subjects := []pipeline.Subject{
		{ID: "s1", Text: subjectText},
		{ID: "s2", Text: subjectText},
		{ID: "s3", Text: ""},
		{ID: "s4", Text: subjectText},
		{ID: "s5", Text: subjectText},
	}

	p := pipeline.New(nil, pipeline.WithWorkers(2))
	res := p.AnalyzeBatch(context.Background(), subjects, referenceText)

	require.Len(t, res.Results, 4)
	var order []string
	for _, item := range res.Results {
		order = append(order, item.SubjectID)
	}
	assert.Equal(t, []string{"s1", "s2", "s4", "s5"}, order)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "s3", res.Failures[0].SubjectID)
	assert.Equal(t, "document unreadable", res.Failures[0].Reason)

	assert.Equal(t, 5, res.Statistics.TotalSubjects)
	assert.Equal(t, 4, res.Statistics.Succeeded)
	assert.Equal(t, 1, res.Statistics.Failed)
}

func TestPipeline_AnalyzeBatch_StatisticsAndClock(t *testing.T) {
	fixed := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)
	p := pipeline.New(nil,
		pipeline.WithClock(func() time.Time { return fixed }))

	res := p.AnalyzeBatch(context.Background(), []pipeline.Subject{
		{ID: "s1", Text: subjectText},
		{Text: subjectText}, // blank ID gets an index-based one
	}, referenceText)

	assert.Len(t, res.RunID, 36)
	assert.Equal(t, fixed, res.StartedAt)
	assert.Equal(t, fixed, res.FinishedAt)

	require.Len(t, res.Results, 2)
	assert.Equal(t, "subject-002", res.Results[1].SubjectID)

	assert.Equal(t, 2, res.Statistics.GoCount)
	assert.Equal(t, 0, res.Statistics.NoGoCount)
	assert.InDelta(t, 100, res.Statistics.GoPercentage, 0.001)
	assert.InDelta(t, 100, res.Statistics.MeanScore, 0.001)
}

func TestPipeline_AnalyzeBatch_CancellationPreservesAccounting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	subjects := make([]pipeline.Subject, 5)
	for i := range subjects {
		subjects[i] = pipeline.Subject{ID: fmt.Sprintf("s%d", i+1), Text: subjectText}
	}

	res := pipeline.New(nil).AnalyzeBatch(ctx, subjects, referenceText)

	assert.Empty(t, res.Results)
	require.Len(t, res.Failures, 5)
	for i, f := range res.Failures {
		assert.Equal(t, subjects[i].ID, f.SubjectID)
		assert.Equal(t, "canceled", f.Reason)
	}
	assert.Equal(t, 5, res.Statistics.TotalSubjects)
	assert.Equal(t, 0, res.Statistics.Succeeded)
}

func TestPipeline_AnalyzeBatch_PerDocumentTimeout(t *testing.T) {
	// Large enough that extraction cannot win a one-nanosecond race.
	big := strings.Repeat("Inspection shall be performed on every bolt. ", 2000)

	p := pipeline.New(nil,
		pipeline.WithWorkers(2),
		pipeline.WithPerDocumentTimeout(time.Nanosecond))

	res := p.AnalyzeBatch(context.Background(), []pipeline.Subject{
		{ID: "slow-1", Text: big},
		{ID: "slow-2", Text: big},
	}, referenceText)

	assert.Empty(t, res.Results)
	require.Len(t, res.Failures, 2)
	for _, f := range res.Failures {
		assert.Contains(t, f.Reason, "timeout")
	}
}

func TestPipeline_AnalyzeBatch_EmptyInput(t *testing.T) {
	res := pipeline.New(nil).AnalyzeBatch(context.Background(), nil, referenceText)

	assert.NotEmpty(t, res.RunID)
	assert.Empty(t, res.Results)
	assert.Empty(t, res.Failures)
	assert.Equal(t, 0, res.Statistics.TotalSubjects)
}

func TestStatistics_FailuresCountButNeverScore(t *testing.T) {
	item := func(score float64, decision string) pipeline.BatchItem {
		var it pipeline.BatchItem
		it.Result.Summary.ComplianceScore = score
		it.Result.Summary.GoNoGo = decision
		return it
	}

	stats := pipeline.Statistics(
		[]pipeline.BatchItem{
			item(100, "GO"),
			item(90, "GO"),
			item(40, "NO_GO"),
		},
		[]pipeline.Failure{{SubjectID: "s4", Reason: "document unreadable"}},
	)

	assert.Equal(t, 4, stats.TotalSubjects)
	assert.Equal(t, 3, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 2, stats.GoCount)
	assert.Equal(t, 1, stats.NoGoCount)
	assert.InDelta(t, 66.67, stats.GoPercentage, 0.001)
	assert.InDelta(t, 76.67, stats.MeanScore, 0.001)
}
