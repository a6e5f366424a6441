// Package messages is the single closed table of user-facing Polish
// strings, keyed by the stable error/issue codes defined across the
// module. No package outside messages constructs a user-facing string
// at runtime; everything else carries a code and looks the string up
// here.
package messages

// Table maps a stable code to its Polish message. Codes not present
// here have no user-facing rendering and must be treated as a defect
// by the caller, not silently swallowed.
var Table = map[string]string{
	// Readiness issues (§4.4).
	"source.grid_supply_missing":       "Brak źródła zasilania w sieci.",
	"source.voltage_invalid":           "Napięcie znamionowe źródła musi być dodatnie.",
	"source.sk3_invalid":               "Moc zwarciowa źródła (Sk3) musi być dodatnia.",
	"trunk.catalog_missing":            "Element techniczny nie ma przypisanego typu katalogowego.",
	"catalog.materialization_failed":   "Nie udało się rozwiązać parametrów z katalogu.",
	"catalog.binding_missing":          "Brak powiązania z katalogiem dla wybranego elementu.",
	"transformer.catalog_missing":      "Transformator nie ma przypisanego typu katalogowego.",
	"transformer.lv_voltage_missing":   "Brak napięcia dolnego (LV) transformatora.",
	"transformer.uk_invalid":           "Napięcie zwarcia (uk%) transformatora musi być dodatnie.",
	"trunk.segment_length_missing":     "Długość odcinka linii/kabla musi być dodatnia.",
	"trunk.segment_missing":            "Brak zdefiniowanego odcinka trasy.",
	"station.voltage_missing":          "Brak poziomu napięcia stacji.",
	"analysis.unknown_type":            "Nieznany typ analizy.",
	"topology.disconnected_island":     "Sieć zawiera rozłączone wyspy topologiczne.",
	"topology.missing_slack":           "Wyspa topologiczna nie ma dokładnie jednego źródła bilansującego (Slack).",
	"topology.switch_isolates":         "Otwarty łącznik izoluje element od reszty sieci.",
	"protection.not_configured":        "Zabezpieczenie nie zostało skonfigurowane.",

	// Diagnostics blockers / warnings (§7, E-D/W-D codes).
	"E-D01": "Brak źródła zasilania w analizowanej sieci.",
	"E-D02": "Niezgodność poziomów napięć na gałęzi bez transformatora.",
	"E-D03": "Sieć zawiera rozłączone wyspy topologiczne.",
	"E-D04": "Transformator nie ma zdefiniowanej strony dolnej lub górnej.",
	"E-D05": "Linia lub kabel nie ma zdefiniowanej impedancji.",
	"E-D06": "Zwarcie jednofazowe wymaga zdefiniowanej szyny zerowej (Z0).",
	"E-D07": "Otwarte łączniki izolują element od źródła zasilania.",
	"E-D08": "Węzeł zwarcia nie został wskazany.",
	"W-D01": "Zignorowano niejednoznaczną impedancję zwarciową scenariusza.",
	"W-D02": "Przycięto ujemny wkład źródła sieciowego do zera.",
	"W-D03": "Użyto przybliżenia kappa zamiast tablicy (m,n) IEC.",

	// Eligibility blockers (§7).
	"ELIG_FAULT_NODE_EMPTY": "Nie wskazano węzła zwarcia.",
	"ELIG_SC1F_NO_Z0":       "Zwarcie jednofazowe wymaga macierzy Z0 (szyna zerowa).",
	"ELIG_SC2F_NO_Z2":       "Zwarcie dwufazowe wymaga danych sekwencji przeciwnej (Z2).",
	"ELIG_NO_GRID_SOURCE":   "Brak zdefiniowanej mocy zwarciowej źródła sieciowego (Sk3) w źródle bilansującym.",

	// Run gating / numeric / codec (§7).
	"RunNotReady":        "Sieć nie jest gotowa do obliczeń.",
	"RunBlocked":         "Obliczenie zablokowane przez warunki dopuszczalności.",
	"RunNotFound":        "Przebieg obliczeniowy nie istnieje.",
	"ResultSetNotFound":  "Wyniki nie istnieją dla wskazanego przebiegu.",
	"ConvergenceFailure": "Metoda Newtona-Raphsona nie osiągnęła zbieżności.",
	"NumericalFailure":   "Błąd numeryczny podczas rozwiązywania układu równań.",
	"CodecError":         "Wartość nie może zostać zakodowana kanonicznie.",

	// Overlay legend (§6).
	"legend.unchanged": "Bez zmian",
	"legend.changed":   "Zmiana",
	"legend.no_data":   "Brak danych",
	"legend.ok":        "Poprawne",
	"legend.warning":   "Ostrzeżenie",
	"legend.important": "Ważne",
	"legend.blocker":   "Blokujące",
}

// Lookup returns the Polish message for code, or the code itself
// wrapped in brackets if the table has no entry — a missing entry is a
// defect, never a silent empty string, so it stays visible in output.
func Lookup(code string) string {
	if msg, ok := Table[code]; ok {
		return msg
	}

	return "[" + code + "]"
}
