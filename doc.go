// Package mvbench is a deterministic engineering workbench core for
// medium-voltage (MV) power-distribution network design.
//
// It lets a caller build a one-line network, run standards-compliant
// analyses — short-circuit per IEC 60909 and power-flow by
// Newton–Raphson — and obtain an auditable result set in which every
// figure is traceable to a formula, an input, and a snapshot hash.
//
// Under the hood the module is organized as a pipeline of leaf
// packages:
//
//	codec/        — canonical JSON bytes and SHA-256 fingerprints
//	network/      — the in-memory one-line graph (nodes, branches, switches, sources)
//	catalog/      — read-only line/cable/transformer/switch type libraries
//	snapshot/     — immutable graph snapshots and readiness scanning
//	solverinput/  — override/catalog/instance resolution into a frozen envelope
//	ybus/         — per-unit bus-admittance assembly and complex linear algebra
//	powerflow/    — Newton–Raphson power-flow solver
//	shortcircuit/ — IEC 60909 short-circuit solver
//	iectable/     — the IEC (m,n) thermal-equivalent-current table
//	engine/       — the Run lifecycle and result-set store
//	resultset/    — deterministic, signed ResultSet construction
//	errdomain/    — shared error kinds
//	messages/     — the closed Polish user-facing message table
//	cmd/mvbench/  — a cobra CLI exercising the full pipeline end to end
//
// No analysis is ever invoked directly by a caller outside engine.Engine:
// solvers are dispatched exclusively from a Run, after readiness and
// eligibility gates have passed.
package mvbench
