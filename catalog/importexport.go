package catalog

import (
	"fmt"

	"github.com/radekizk/mvbench/codec"
)

// ImportMode selects merge or replace semantics for Import (§4.3).
type ImportMode string

const (
	// ImportMerge adds new ids; existing ids are left unmodified.
	ImportMerge ImportMode = "merge"
	// ImportReplace discards the current library in favor of the
	// bundle, unless a referenced id would be removed.
	ImportReplace ImportMode = "replace"
)

// ImportReport summarizes what Import did, per category.
type ImportReport struct {
	Added     map[Category][]string
	Skipped   map[Category][]string
	Conflicts map[Category][]string
}

func newImportReport() ImportReport {
	return ImportReport{
		Added:     map[Category][]string{},
		Skipped:   map[Category][]string{},
		Conflicts: map[Category][]string{},
	}
}

// IsReferenced tells Import whether a catalog id is currently bound to
// a network instance; it is supplied by the caller because the
// Repository itself never knows about instances (§4.3 "Replace").
type IsReferenced func(category Category, id string) bool

// Import merges or replaces bundle into r, returning the resulting
// Repository (Repository is immutable, so Import never mutates r) and
// a report of what happened. Replace mode is blocked — the whole call
// fails, leaving r untouched — if any id about to be removed is still
// referenced by an instance.
func Import(r *Repository, bundle map[Category][]Type, mode ImportMode, isReferenced IsReferenced) (*Repository, ImportReport, error) {
	report := newImportReport()

	merged := make(map[Category][]Type)
	switch mode {
	case ImportMerge:
		for _, cat := range allCategories {
			existing := r.byCategory[cat]
			out := make([]Type, 0, len(existing)+len(bundle[cat]))
			for _, t := range existing {
				out = append(out, t)
			}
			for _, t := range bundle[cat] {
				if _, exists := existing[t.TypeID()]; exists {
					report.Skipped[cat] = append(report.Skipped[cat], t.TypeID())
					continue
				}
				out = append(out, t)
				report.Added[cat] = append(report.Added[cat], t.TypeID())
			}
			merged[cat] = out
		}

	case ImportReplace:
		for _, cat := range allCategories {
			existing := r.byCategory[cat]
			incoming := make(map[string]struct{}, len(bundle[cat]))
			for _, t := range bundle[cat] {
				incoming[t.TypeID()] = struct{}{}
			}
			for id := range existing {
				if _, stillPresent := incoming[id]; stillPresent {
					continue
				}
				if isReferenced != nil && isReferenced(cat, id) {
					report.Conflicts[cat] = append(report.Conflicts[cat], id)
				}
			}
			if len(report.Conflicts[cat]) > 0 {
				continue
			}
			merged[cat] = bundle[cat]
			for _, t := range bundle[cat] {
				report.Added[cat] = append(report.Added[cat], t.TypeID())
			}
		}
		if hasConflicts(report) {
			return nil, report, fmt.Errorf("catalog: replace blocked by %d referenced id(s)", countConflicts(report))
		}

	default:
		return nil, report, fmt.Errorf("catalog: unknown import mode %q", mode)
	}

	next, err := New(merged)
	if err != nil {
		return nil, report, err
	}

	return next, report, nil
}

// Export returns the canonical bytes and fingerprint of r's manifest,
// sorted deterministically by (name, id) within each category (§4.3).
func Export(r *Repository) ([]byte, string, error) {
	b, err := codec.CanonicalBytes(r.manifestValue())
	if err != nil {
		return nil, "", err
	}

	return b, r.Fingerprint(), nil
}

var allCategories = []Category{LineCategory, CableCategory, TransformerCategory, SwitchCategory, InverterCategory}

func hasConflicts(report ImportReport) bool {
	return countConflicts(report) > 0
}

func countConflicts(report ImportReport) int {
	n := 0
	for _, ids := range report.Conflicts {
		n += len(ids)
	}

	return n
}
