// SPDX-License-Identifier: Apache-2.0

package catalog

// Default returns the built-in generic standards catalog, used by callers
// that have no reference document. It is always passed explicitly; nothing
// in the engine reaches for it implicitly. Each call returns a fresh value
// so callers cannot alias each other's catalog.
func Default() *RequirementCatalog {
	return &RequirementCatalog{
		Requirements: []Requirement{
			{
				ID:                    "STD-001",
				Title:                 "Bolt torque verification",
				Kind:                  KindTestMethod,
				Description:           "All critical bolted connections must be torqued to the specified value and the result recorded.",
				Severity:              SeverityHigh,
				ApplicableComponents:  []string{"Bolt"},
				ExpectedEvidenceKinds: []string{"measurement", "test_result"},
			},
			{
				ID:                    "STD-002",
				Title:                 "General visual inspection",
				Kind:                  KindVisualInspection,
				Description:           "Visually inspect accessible components for damage, corrosion and cracks.",
				Severity:              SeverityMedium,
				ApplicableComponents:  []string{},
				ExpectedEvidenceKinds: []string{"photo", "visual_note"},
			},
			{
				ID:                    "STD-003",
				Title:                 "Service documentation",
				Kind:                  KindDocumentation,
				Description:           "All work performed shall be documented and signed off by the responsible technician.",
				Severity:              SeverityHigh,
				ApplicableComponents:  []string{},
				ExpectedEvidenceKinds: []string{"document", "signature"},
			},
			{
				ID:                    "STD-004",
				Title:                 "Instrument calibration",
				Kind:                  KindTestMethod,
				Description:           "Measurement instruments used during service must hold a valid calibration certificate.",
				Severity:              SeverityMedium,
				ApplicableComponents:  []string{},
				ExpectedEvidenceKinds: []string{"calibration"},
			},
			{
				ID:                    "STD-005",
				Title:                 "Safety procedure compliance",
				Kind:                  KindProcedural,
				Description:           "Lock-out tag-out and site safety procedures must be followed for all service work.",
				Severity:              SeverityHigh,
				ApplicableComponents:  []string{},
				ExpectedEvidenceKinds: []string{},
			},
			{
				ID:                    "STD-006",
				Title:                 "Work instruction reference",
				Kind:                  KindWorkInstruction,
				Description:           "Work should be carried out in accordance with the applicable service work instruction.",
				Severity:              SeverityLow,
				ApplicableComponents:  []string{},
				ExpectedEvidenceKinds: []string{"document"},
			},
		},
	}
}
