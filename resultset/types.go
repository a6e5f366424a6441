// Package resultset builds the deterministic, signed ResultSet (C10)
// from a solver's raw output plus the readiness profile captured when
// the Run was created (§4.10). Nothing here talks to a solver
// directly; Build* functions take already-computed powerflow/
// shortcircuit results so the engine package can dispatch first and
// hand the outcome here afterwards.
package resultset

import "github.com/radekizk/mvbench/snapshot"

// MetricValue is one typed, unit-tagged number extracted from a
// solver result under the fixed (code, unit, format hint) mapping of
// §4.10.
type MetricValue struct {
	Code       string
	Value      float64
	Unit       string
	FormatHint string
}

// Badge is one readiness/validation issue projected onto an element
// (§4.10); ResultElements sort their badges by (severity, code).
type Badge struct {
	Severity string
	Code     string
	MessagePL string
}

// ElementResult is one element's metrics and badges, keyed by its
// stable element_ref.
type ElementResult struct {
	ElementRef string
	Metrics    []MetricValue
	Badges     []Badge
}

// OverlayElement carries only symbolic tokens (§6): a hex color is
// never emitted, just a named token the reporting layer maps to one.
type OverlayElement struct {
	ElementRef     string
	SeverityToken  string
	ColorToken     string
	StrokeToken    string
	AnimationToken string
}

// OverlayPayload is the diagram-overlay view of a ResultSet; Legend
// is always the fixed Polish table from messages (§6).
type OverlayPayload struct {
	Elements []OverlayElement
	Legend   map[string]string
}

// ResultSet is the immutable output of one successful Run (§3, §4.10).
type ResultSet struct {
	ContractVersion         string
	RunID                   string
	AnalysisType            string
	SolverInputHash         string
	CreatedAt               string
	DeterministicSignature  string
	GlobalResults           []MetricValue
	ElementResults          []ElementResult
	OverlayPayload          OverlayPayload
}

const contractVersion = "1"

// resultFields renders the global/element/overlay results shared by
// both the full canonical value and the signature payload.
func (rs *ResultSet) resultFields() (global, elements []any, overlay map[string]any) {
	global = make([]any, len(rs.GlobalResults))
	for i, m := range rs.GlobalResults {
		global[i] = metricCanonicalValue(m)
	}

	elements = make([]any, len(rs.ElementResults))
	for i, e := range rs.ElementResults {
		metrics := make([]any, len(e.Metrics))
		for j, m := range e.Metrics {
			metrics[j] = metricCanonicalValue(m)
		}
		badges := make([]any, len(e.Badges))
		for j, b := range e.Badges {
			badges[j] = map[string]any{"severity": b.Severity, "code": b.Code, "message_pl": b.MessagePL}
		}
		elements[i] = map[string]any{
			"element_ref": e.ElementRef,
			"metrics":     metrics,
			"badges":      badges,
		}
	}

	overlayElements := make([]any, len(rs.OverlayPayload.Elements))
	for i, oe := range rs.OverlayPayload.Elements {
		overlayElements[i] = map[string]any{
			"element_ref":     oe.ElementRef,
			"severity_token":  oe.SeverityToken,
			"color_token":     oe.ColorToken,
			"stroke_token":    oe.StrokeToken,
			"animation_token": oe.AnimationToken,
		}
	}
	overlay = map[string]any{"elements": overlayElements, "legend": rs.OverlayPayload.Legend}

	return global, elements, overlay
}

// signaturePayload is exactly the data I8 ties deterministic_signature
// to: the solver_input_hash plus the result payload itself. run_id and
// created_at are deliberately excluded — they vary per Run (a random
// uuid and a wall-clock timestamp) even when two Runs share the same
// solver input and produce the same results, and signing them would
// make the signature something other than "a function only of the
// payload" (I8) and break P6 across repeated Runs of the same input.
func (rs *ResultSet) signaturePayload() any {
	global, elements, overlay := rs.resultFields()

	return map[string]any{
		"contract_version":  rs.ContractVersion,
		"analysis_type":     rs.AnalysisType,
		"solver_input_hash": rs.SolverInputHash,
		"global_results":    global,
		"element_results":   elements,
		"overlay_payload":   overlay,
	}
}

// ToCanonicalValue implements codec.Canonicalizer, rendering the full
// stored ResultSet including its identifying metadata and signature.
func (rs *ResultSet) ToCanonicalValue() any {
	global, elements, overlay := rs.resultFields()

	return map[string]any{
		"contract_version":        rs.ContractVersion,
		"run_id":                  rs.RunID,
		"analysis_type":           rs.AnalysisType,
		"solver_input_hash":       rs.SolverInputHash,
		"created_at":              rs.CreatedAt,
		"deterministic_signature": rs.DeterministicSignature,
		"global_results":          global,
		"element_results":         elements,
		"overlay_payload":         overlay,
	}
}

func metricCanonicalValue(m MetricValue) any {
	return map[string]any{
		"code": m.Code, "value": m.Value, "unit": m.Unit, "format_hint": m.FormatHint,
	}
}

var legend = map[string]string{
	"unchanged": "Bez zmian",
	"changed":   "Zmiana",
	"no_data":   "Brak danych",
	"ok":        "Poprawne",
	"warning":   "Ostrzeżenie",
	"important": "Ważne",
	"blocker":   "Blokujące",
}

func badgesForElement(elementRef string, issues []snapshot.ReadinessIssue) []Badge {
	var badges []Badge
	for _, iss := range issues {
		if iss.ElementID != elementRef {
			continue
		}
		badges = append(badges, Badge{Severity: string(iss.Priority), Code: iss.Code, MessagePL: iss.MessagePL})
	}
	sortBadges(badges)

	return badges
}

func sortBadges(badges []Badge) {
	for i := 1; i < len(badges); i++ {
		for j := i; j > 0; j-- {
			a, b := badges[j-1], badges[j]
			if severityRank(a.Severity) < severityRank(b.Severity) ||
				(severityRank(a.Severity) == severityRank(b.Severity) && a.Code <= b.Code) {
				break
			}
			badges[j-1], badges[j] = badges[j], badges[j-1]
		}
	}
}

func severityRank(s string) int {
	switch s {
	case "Blocker":
		return 0
	case "Warning":
		return 1
	default:
		return 2
	}
}

func overlayTokensFor(elementRef string, issues []snapshot.ReadinessIssue) OverlayElement {
	var worst *snapshot.ReadinessIssue
	for i := range issues {
		if issues[i].ElementID != elementRef {
			continue
		}
		if worst == nil || severityRank(string(issues[i].Priority)) < severityRank(string(worst.Priority)) {
			worst = &issues[i]
		}
	}
	if worst == nil {
		return OverlayElement{ElementRef: elementRef, SeverityToken: "ok", ColorToken: "green", StrokeToken: "solid"}
	}

	switch worst.Priority {
	case snapshot.PriorityBlocker:
		return OverlayElement{ElementRef: elementRef, SeverityToken: "blocker", ColorToken: "red", StrokeToken: "dashed", AnimationToken: "pulse"}
	case snapshot.PriorityWarning:
		return OverlayElement{ElementRef: elementRef, SeverityToken: "warning", ColorToken: "yellow", StrokeToken: "dashed"}
	default:
		return OverlayElement{ElementRef: elementRef, SeverityToken: "important", ColorToken: "blue", StrokeToken: "solid"}
	}
}
