package catalog

import (
	"fmt"
	"sort"

	"github.com/radekizk/mvbench/codec"
	"github.com/radekizk/mvbench/errdomain"
)

// Repository is the read-only library of all five catalog categories.
// It is immutable once built by New/Import; Get and List never
// allocate a mutex because no in-place mutation is ever exposed.
type Repository struct {
	byCategory  map[Category]map[string]Type
	fingerprint string
}

// New builds a Repository from the given records and computes its
// manifest fingerprint. Duplicate ids within a category fail with
// ErrDuplicateIdentifier.
func New(records map[Category][]Type) (*Repository, error) {
	byCategory := make(map[Category]map[string]Type, len(records))
	for cat, items := range records {
		m := make(map[string]Type, len(items))
		for _, it := range items {
			if _, exists := m[it.TypeID()]; exists {
				return nil, fmt.Errorf("catalog: category %s: duplicate id %q: %w", cat, it.TypeID(), errdomain.ErrDuplicateIdentifier)
			}
			m[it.TypeID()] = it
		}
		byCategory[cat] = m
	}

	r := &Repository{byCategory: byCategory}
	fp, err := codec.Fingerprint(r.manifestValue())
	if err != nil {
		return nil, fmt.Errorf("catalog: fingerprint: %w", err)
	}
	r.fingerprint = fp

	return r, nil
}

// Fingerprint returns the manifest fingerprint: the SHA-256 over a
// canonically sorted dump of every record in every category (§3).
func (r *Repository) Fingerprint() string { return r.fingerprint }

// Get returns the record with id in category, or ok=false.
func (r *Repository) Get(category Category, id string) (Type, bool) {
	m, ok := r.byCategory[category]
	if !ok {
		return nil, false
	}
	t, ok := m[id]

	return t, ok
}

// List returns every record in category sorted by (name, id) — the
// order §4.3 mandates for export and for UI listing.
func (r *Repository) List(category Category) []Type {
	m := r.byCategory[category]
	out := make([]Type, 0, len(m))
	for _, t := range m {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TypeName() != out[j].TypeName() {
			return out[i].TypeName() < out[j].TypeName()
		}

		return out[i].TypeID() < out[j].TypeID()
	})

	return out
}

// manifestValue builds the canonical tree the manifest fingerprint is
// computed over: one sorted array per category.
func (r *Repository) manifestValue() any {
	out := make(map[string]any, len(r.byCategory))
	for _, cat := range []Category{LineCategory, CableCategory, TransformerCategory, SwitchCategory, InverterCategory} {
		list := r.List(cat)
		arr := make([]any, len(list))
		for i, t := range list {
			arr[i] = t.ToCanonicalValue()
		}
		out[string(cat)] = arr
	}

	return out
}
