// SPDX-License-Identifier: Apache-2.0

package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirscanproj/cirscan/internal/catalog"
)

const sampleReference = `CIM-2041 Gearbox Service Requirements

All gearbox bolts must be tested for correct preload.
Oil samples shall be recorded in the service log.
Visually inspect the gearbox housing for cracks.
Work should be carried out in accordance with WI-4400.
The maximum allowable oil temperature is 65 °C.
Failure mode: bearing wear`

// ---------------------------------------------------------------------------
// Builder
// ---------------------------------------------------------------------------

func TestBuilder_Build(t *testing.T) {
	b := catalog.NewBuilder(nil)
	cat := b.Build(sampleReference)

	assert.Equal(t, "CIM-2041", cat.CaseID)
	require.NotEmpty(t, cat.Requirements)

	byKind := make(map[catalog.Kind][]catalog.Requirement)
	for _, r := range cat.Requirements {
		byKind[r.Kind] = append(byKind[r.Kind], r)
	}

	require.NotEmpty(t, byKind[catalog.KindTestMethod], "torque sentence should mine a test_method requirement")
	require.NotEmpty(t, byKind[catalog.KindDocumentation], "oil sample sentence should mine a documentation requirement")
	require.NotEmpty(t, byKind[catalog.KindVisualInspection])
	require.NotEmpty(t, byKind[catalog.KindWorkInstruction])
	require.NotEmpty(t, byKind[catalog.KindAcceptanceStandard])

	tm := byKind[catalog.KindTestMethod][0]
	assert.Equal(t, "TEST-001", tm.ID)
	assert.Equal(t, catalog.SeverityHigh, tm.Severity, "\"must\" marks high severity")
	assert.Contains(t, tm.ApplicableComponents, "Gearbox")
	assert.Contains(t, tm.ApplicableComponents, "Bolt")
	assert.Equal(t, []string{"measurement", "test_result"}, tm.ExpectedEvidenceKinds)

	doc := byKind[catalog.KindDocumentation][0]
	assert.Equal(t, "DOC-001", doc.ID)
	assert.Equal(t, catalog.SeverityHigh, doc.Severity)

	wi := byKind[catalog.KindWorkInstruction][0]
	assert.Equal(t, catalog.SeverityMedium, wi.Severity, "\"should\" marks medium severity")

	assert.Contains(t, cat.AffectedComponents, "Gearbox")
	assert.Contains(t, cat.FailureModes, "bearing wear")
}

func TestBuilder_Build_EmptyInput(t *testing.T) {
	b := catalog.NewBuilder(nil)

	for _, text := range []string{"", "   \n\t  ", "no obligations here, just chatter"} {
		cat := b.Build(text)
		require.NotNil(t, cat)
		assert.NotNil(t, cat.Requirements)
	}

	assert.Empty(t, b.Build("").Requirements)
}

func TestBuilder_Build_SequentialIDsPerPrefix(t *testing.T) {
	b := catalog.NewBuilder(nil)
	cat := b.Build("Bolts must be tested for preload.\nBrakes must be tested for wear.\nResults shall be recorded in the log.")

	var testIDs, docIDs []string
	for _, r := range cat.Requirements {
		switch r.Kind {
		case catalog.KindTestMethod:
			testIDs = append(testIDs, r.ID)
		case catalog.KindDocumentation:
			docIDs = append(docIDs, r.ID)
		}
	}
	assert.Equal(t, []string{"TEST-001", "TEST-002"}, testIDs)
	assert.Equal(t, []string{"DOC-001"}, docIDs)
}

func TestBuilder_Build_OverlappingFamiliesKept(t *testing.T) {
	b := catalog.NewBuilder(nil)
	// One sentence that is both a test_method and a documentation obligation.
	cat := b.Build("The clamping force must be tested and the readings shall be recorded by the technician.")

	kinds := make(map[catalog.Kind]bool)
	for _, r := range cat.Requirements {
		kinds[r.Kind] = true
	}
	assert.True(t, kinds[catalog.KindTestMethod])
	assert.True(t, kinds[catalog.KindDocumentation])
}

func TestBuilder_Build_Deterministic(t *testing.T) {
	b := catalog.NewBuilder(nil)
	d1, err := b.Build(sampleReference).Digest()
	require.NoError(t, err)
	d2, err := b.Build(sampleReference).Digest()
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestTitle_Shortened(t *testing.T) {
	b := catalog.NewBuilder(nil)
	cat := b.Build("The gearbox oil filter element must be tested for particle contamination before reassembly of the housing.")
	require.NotEmpty(t, cat.Requirements)
	title := cat.Requirements[0].Title
	assert.LessOrEqual(t, len(title), 80)
	assert.Contains(t, title, "...")
}

// ---------------------------------------------------------------------------
// Default catalog
// ---------------------------------------------------------------------------

func TestDefault_Catalog(t *testing.T) {
	cat := catalog.Default()
	require.NotEmpty(t, cat.Requirements)

	ids := make(map[string]bool)
	for _, r := range cat.Requirements {
		assert.False(t, ids[r.ID], "duplicate id %s", r.ID)
		ids[r.ID] = true
		assert.NotEmpty(t, r.Title)
		assert.NotEmpty(t, r.Description)
		assert.NotNil(t, r.ApplicableComponents)
		assert.NotNil(t, r.ExpectedEvidenceKinds)
	}

	// Fresh value per call, no shared backing array.
	a, b := catalog.Default(), catalog.Default()
	a.Requirements[0].Title = "mutated"
	assert.NotEqual(t, a.Requirements[0].Title, b.Requirements[0].Title)
}
