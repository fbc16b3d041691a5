// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package seasonal models how citation and publication activity distributes
// across a calendar year per research field, and converts the weighted
// elapsed fraction of the current year into a year-end extrapolation
// multiplier.
// Implements: prd002-seasonal-forecast (R1-R3);
//
//	docs/ARCHITECTURE § Seasonal Model.
package seasonal

import "strings"

// Field tags the broad research area of a journal.
type Field string

const (
	FieldMedical         Field = "medical"
	FieldComputerScience Field = "computer_science"
	FieldEngineering     Field = "engineering"
	FieldSocialSciences  Field = "social_sciences"
	FieldNaturalSciences Field = "natural_sciences"
	FieldGeneral         Field = "general"
)

// Table maps month number (1-12) to a positive activity weight. Weights are
// empirically derived constants and do not sum to any fixed total.
type Table map[int]float64

// fieldKeywords drives Classify. Order matters: the first field whose
// keyword matches wins, so computer_science precedes natural_sciences or
// "Journal of Computer Science" would match on "science".
var fieldKeywords = []struct {
	field    Field
	keywords []string
}{
	{FieldMedical, []string{"medical", "medicine", "clinical", "health", "surgery", "lancet", "oncology"}},
	{FieldComputerScience, []string{"computer", "computing", "software", "informatics", "artificial intelligence", "machine learning"}},
	{FieldEngineering, []string{"engineering", "mechanical", "electrical", "materials", "robotics"}},
	{FieldSocialSciences, []string{"social", "psychology", "sociology", "economic", "education", "management", "policy"}},
	{FieldNaturalSciences, []string{"nature", "physics", "chemistry", "biology", "geoscience", "science"}},
}

// weights holds the per-field month-weight tables. Medical journals publish
// steadily; computer science clusters around conference cycles; the
// field-agnostic table dips over the summer and December breaks.
var weights = map[Field]Table{
	FieldMedical: {
		1: 1.00, 2: 1.00, 3: 1.05, 4: 1.05, 5: 1.00, 6: 0.95,
		7: 0.90, 8: 0.90, 9: 1.05, 10: 1.10, 11: 1.05, 12: 0.95,
	},
	FieldComputerScience: {
		1: 0.90, 2: 1.00, 3: 1.15, 4: 1.05, 5: 1.10, 6: 1.15,
		7: 1.00, 8: 0.85, 9: 0.95, 10: 1.05, 11: 1.10, 12: 1.20,
	},
	FieldEngineering: {
		1: 0.95, 2: 1.00, 3: 1.10, 4: 1.05, 5: 1.05, 6: 1.00,
		7: 0.90, 8: 0.85, 9: 1.05, 10: 1.10, 11: 1.05, 12: 0.90,
	},
	FieldSocialSciences: {
		1: 1.00, 2: 1.05, 3: 1.10, 4: 1.05, 5: 0.95, 6: 0.80,
		7: 0.70, 8: 0.75, 9: 1.10, 10: 1.15, 11: 1.10, 12: 0.85,
	},
	FieldNaturalSciences: {
		1: 0.95, 2: 1.00, 3: 1.10, 4: 1.05, 5: 1.00, 6: 0.95,
		7: 0.85, 8: 0.85, 9: 1.10, 10: 1.15, 11: 1.10, 12: 0.90,
	},
	FieldGeneral: {
		1: 0.95, 2: 1.00, 3: 1.10, 4: 1.05, 5: 1.00, 6: 0.90,
		7: 0.80, 8: 0.85, 9: 1.10, 10: 1.15, 11: 1.10, 12: 0.90,
	},
}

// Classify maps a journal name to a field by case-insensitive substring
// matching against the keyword table. The first matching field in
// declaration order wins; no match yields FieldGeneral.
func Classify(journalName string) Field {
	name := strings.ToLower(journalName)
	for _, entry := range fieldKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(name, kw) {
				return entry.field
			}
		}
	}
	return FieldGeneral
}

// Weights returns the month-weight table for a field, falling back to the
// general table for unknown tags.
func Weights(field Field) Table {
	if t, ok := weights[field]; ok {
		return t
	}
	return weights[FieldGeneral]
}
