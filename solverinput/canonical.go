package solverinput

// payloadCanonicalValue renders either payload variant as a plain value
// tree (§4.5 determinism rule). It does not sort: element arrays keep
// the id order Build produced them in, and the canonical codec sorts
// arrays of maps by their "id"/"ref_id" key when hashing.
func payloadCanonicalValue(payload any) any {
	switch p := payload.(type) {
	case *LoadFlowPayload:
		return map[string]any{
			"base_mva":       p.BaseMVA,
			"tolerance_pu":   p.TolerancePU,
			"max_iterations": p.MaxIterations,
			"nodes":          nodeSpecs(p.Nodes),
			"lines":          lineElements(p.Lines),
			"transformers":   transformerElements(p.Transformers),
			"switches":       switchSpecs(p.Switches),
		}
	case *ShortCircuitPayload:
		return map[string]any{
			"base_mva":                        p.BaseMVA,
			"nodes":                           nodeSpecs(p.Nodes),
			"lines":                           lineElements(p.Lines),
			"transformers":                    transformerElements(p.Transformers),
			"switches":                        switchSpecs(p.Switches),
			"inverter_sources":                inverterSpecs(p.InverterSources),
			"fault_node_id":                   p.FaultNodeID,
			"fault_type":                      string(p.FaultType),
			"voltage_factor_c":                p.VoltageFactorC,
			"fault_duration_s":                p.FaultDurationS,
			"z0_available":                    p.Z0Available,
			"include_inverter_contributions":  p.IncludeInverterContributions,
		}
	default:
		return nil
	}
}

func nodeSpecs(nodes []NodeSpec) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = map[string]any{
			"id": n.ID, "node_type": n.NodeType, "voltage_level_kv": n.VoltageLevelKV,
			"v_mag_pu": n.VMagPU, "v_angle_rad": n.VAnglePU, "p_mw": n.PMW, "q_mvar": n.QMVAr,
			"grid_sk3_mva": n.GridSk3MVA, "grid_r_over_x": n.GridROverX,
		}
	}

	return out
}

func lineElements(lines []LineElement) []any {
	out := make([]any, len(lines))
	for i, l := range lines {
		out[i] = map[string]any{
			"ref_id": l.RefID, "from_node_id": l.FromNodeID, "to_node_id": l.ToNodeID,
			"r_ohm_per_km": l.ROhmPerKm, "x_ohm_per_km": l.XOhmPerKm, "b_us_per_km": l.BUSPerKm,
			"length_km": l.LengthKm, "rated_current_a": l.RatedCurrentA,
		}
	}

	return out
}

func transformerElements(trs []TransformerElement) []any {
	out := make([]any, len(trs))
	for i, t := range trs {
		out[i] = map[string]any{
			"ref_id": t.RefID, "from_node_id": t.FromNodeID, "to_node_id": t.ToNodeID,
			"rated_power_mva": t.RatedPowerMVA, "v_hv_kv": t.VHvKV, "v_lv_kv": t.VLvKV,
			"uk_percent": t.UkPercent, "pk_kw": t.PkKW,
			"tap_position": t.TapPosition, "tap_step_percent": t.TapStepPercent,
		}
	}

	return out
}

func switchSpecs(sws []SwitchSpec) []any {
	out := make([]any, len(sws))
	for i, s := range sws {
		out[i] = map[string]any{
			"id": s.ID, "from_node_id": s.FromNodeID, "to_node_id": s.ToNodeID, "closed": s.Closed,
		}
	}

	return out
}

func inverterSpecs(srcs []InverterSpec) []any {
	out := make([]any, len(srcs))
	for i, s := range srcs {
		out[i] = map[string]any{
			"id": s.ID, "node_id": s.NodeID, "in_rated_a": s.InRatedA, "k_sc": s.KSc,
			"contributes_negative_sequence": s.ContributesNegativeSequence,
			"contributes_zero_sequence":     s.ContributesZeroSequence,
		}
	}

	return out
}
