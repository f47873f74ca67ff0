/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package aggregate

import (
	"slices"
	"strings"
)

// Canonical report columns, in report order.
const (
	RetentionWarningPresent    = "retention_warning_present"
	SpecificTimelineProvided   = "specific_timeline_provided"
	DeletionMechanismExplained = "deletion_mechanism_explained"
	SensitivityDifferentiation = "sensitivity_differentiation"
	UserControlOffered         = "user_control_offered"
	AuditTransparency          = "audit_transparency"
	RegulatoryReference        = "regulatory_reference"
)

// FlagMapper maps judge flag names onto report columns.
type FlagMapper struct {
	canonical []string
	aliases   map[string]string
}

// DefaultFlagMapper returns the mapper for the data retention rubrics.
func DefaultFlagMapper() *FlagMapper {
	return NewFlagMapper(
		[]string{
			RetentionWarningPresent,
			SpecificTimelineProvided,
			DeletionMechanismExplained,
			SensitivityDifferentiation,
			UserControlOffered,
			AuditTransparency,
			RegulatoryReference,
		},
		map[string]string{
			"warning":         RetentionWarningPresent,
			"differentiation": SensitivityDifferentiation,
			"alternatives":    UserControlOffered,
			"transparency":    AuditTransparency,
			"regulatory_cite": RegulatoryReference,
		},
	)
}

// NewFlagMapper creates a mapper with the given canonical columns and alias
// table. Names are normalized before lookup, so aliases and columns should be
// lower snake case.
func NewFlagMapper(canonical []string, aliases map[string]string) *FlagMapper {
	m := &FlagMapper{
		canonical: slices.Clone(canonical),
		aliases:   make(map[string]string, len(aliases)+len(canonical)),
	}
	for alias, column := range aliases {
		m.aliases[normalize(alias)] = column
	}
	for _, column := range canonical {
		m.aliases[normalize(column)] = column
	}
	return m
}

// Column returns the report column for a judge flag name, and whether it is
// one of the canonical columns.
func (m *FlagMapper) Column(name string) (string, bool) {
	n := normalize(name)
	if column, ok := m.aliases[n]; ok {
		return column, true
	}
	return n, false
}

// Map folds a judge's flags onto report columns. Flags that land on the same
// column are ORed.
func (m *FlagMapper) Map(flags map[string]bool) map[string]bool {
	out := make(map[string]bool, len(flags))
	for name, v := range flags {
		column, _ := m.Column(name)
		if column == "" {
			continue
		}
		out[column] = out[column] || v
	}
	return out
}

// Columns returns the canonical columns followed by the sorted discovered
// columns seen in groups.
func (m *FlagMapper) Columns(groups []Group) []string {
	columns := slices.Clone(m.canonical)
	var discovered []string
	for _, g := range groups {
		for name := range g.Flags {
			if !slices.Contains(columns, name) && !slices.Contains(discovered, name) {
				discovered = append(discovered, name)
			}
		}
	}
	slices.Sort(discovered)
	return append(columns, discovered...)
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, name)
}
