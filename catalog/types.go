// Package catalog is the read-only library of line/cable/transformer/
// switch/inverter type records a network instance can bind to (§4.3).
// A Repository is immutable after construction and may be shared
// freely across concurrent readers (§5 shared-resource policy).
package catalog

// Category names one of the five type libraries a Repository holds.
type Category string

const (
	LineCategory        Category = "line_types"
	CableCategory       Category = "cable_types"
	TransformerCategory Category = "transformer_types"
	SwitchCategory      Category = "switch_types"
	InverterCategory    Category = "inverter_types"
)

// Type is implemented by every catalog record; ID and Name back the
// (name, id) sort order §4.3 mandates for List, and ToCanonicalValue
// backs the manifest fingerprint.
type Type interface {
	TypeID() string
	TypeName() string
	ToCanonicalValue() any
}

// LineType is a catalog line conductor record.
type LineType struct {
	ID            string
	Name          string
	ROhmPerKm     float64
	XOhmPerKm     float64
	BUSPerKm      float64
	RatedCurrentA float64
}

func (t *LineType) TypeID() string   { return t.ID }
func (t *LineType) TypeName() string { return t.Name }
func (t *LineType) ToCanonicalValue() any {
	return map[string]any{
		"id": t.ID, "name": t.Name,
		"r_ohm_per_km": t.ROhmPerKm, "x_ohm_per_km": t.XOhmPerKm,
		"b_us_per_km": t.BUSPerKm, "rated_current_a": t.RatedCurrentA,
	}
}

// CableType is a catalog cable conductor record; same shape as LineType.
type CableType struct {
	ID            string
	Name          string
	ROhmPerKm     float64
	XOhmPerKm     float64
	BUSPerKm      float64
	RatedCurrentA float64
}

func (t *CableType) TypeID() string   { return t.ID }
func (t *CableType) TypeName() string { return t.Name }
func (t *CableType) ToCanonicalValue() any {
	return map[string]any{
		"id": t.ID, "name": t.Name,
		"r_ohm_per_km": t.ROhmPerKm, "x_ohm_per_km": t.XOhmPerKm,
		"b_us_per_km": t.BUSPerKm, "rated_current_a": t.RatedCurrentA,
	}
}

// TransformerType is a catalog two-winding transformer record.
type TransformerType struct {
	ID            string
	Name          string
	RatedPowerMVA float64
	VHvKV         float64
	VLvKV         float64
	UkPercent     float64
	PkKW          float64
	I0Percent     float64
	P0KW          float64
	VectorGroup   string
}

func (t *TransformerType) TypeID() string   { return t.ID }
func (t *TransformerType) TypeName() string { return t.Name }
func (t *TransformerType) ToCanonicalValue() any {
	return map[string]any{
		"id": t.ID, "name": t.Name,
		"rated_power_mva": t.RatedPowerMVA, "v_hv_kv": t.VHvKV, "v_lv_kv": t.VLvKV,
		"uk_percent": t.UkPercent, "pk_kw": t.PkKW,
		"i0_percent": t.I0Percent, "p0_kw": t.P0KW, "vector_group": t.VectorGroup,
	}
}

// SwitchType is a catalog switchgear record.
type SwitchType struct {
	ID                 string
	Name               string
	RatedCurrentA      float64
	BreakingCapacityKA float64
}

func (t *SwitchType) TypeID() string   { return t.ID }
func (t *SwitchType) TypeName() string { return t.Name }
func (t *SwitchType) ToCanonicalValue() any {
	return map[string]any{
		"id": t.ID, "name": t.Name,
		"rated_current_a": t.RatedCurrentA, "breaking_capacity_ka": t.BreakingCapacityKA,
	}
}

// InverterType is a catalog inverter/converter record.
type InverterType struct {
	ID       string
	Name     string
	InRatedA float64
	KSc      float64
}

func (t *InverterType) TypeID() string   { return t.ID }
func (t *InverterType) TypeName() string { return t.Name }
func (t *InverterType) ToCanonicalValue() any {
	return map[string]any{
		"id": t.ID, "name": t.Name, "in_rated_a": t.InRatedA, "k_sc": t.KSc,
	}
}
