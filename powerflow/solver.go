package powerflow

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/radekizk/mvbench/errdomain"
	"github.com/radekizk/mvbench/solverinput"
	"github.com/radekizk/mvbench/ybus"
)

type busKind string

const (
	kindSlack busKind = "Slack"
	kindPV    busKind = "PV"
	kindPQ    busKind = "PQ"
)

type bus struct {
	id         string
	kind       busKind
	voltageKV  float64
	vPU        float64
	anglePU    float64
	pSpecPU    float64
	qSpecPU    float64
}

// Solve runs Newton-Raphson power flow over asm's Y-bus for the given
// node specs, aggregating any nodes a closed switch merged (§4.7).
func Solve(asm *ybus.Assembly, nodes []solverinput.NodeSpec, baseMVA float64, opts Options) (*Result, error) {
	buses, order, err := aggregateBuses(asm, nodes, baseMVA)
	if err != nil {
		return nil, err
	}
	n := len(order)

	g, b := splitGB(asm.YBus, n)

	slackIdx := -1
	var nonSlack, pqBuses []int
	for i, id := range order {
		bs := buses[id]
		if bs.kind == kindSlack {
			slackIdx = i
			continue
		}
		nonSlack = append(nonSlack, i)
		if bs.kind == kindPQ {
			pqBuses = append(pqBuses, i)
		}
	}
	if slackIdx < 0 {
		return nil, fmt.Errorf("powerflow: no slack bus: %w", errdomain.ErrParameterInconsistent)
	}

	theta := make([]float64, n)
	vmag := make([]float64, n)
	for i, id := range order {
		theta[i] = buses[id].anglePU
		vmag[i] = buses[id].vPU
	}

	dim := len(nonSlack) + len(pqBuses)
	var trace []IterationRecord

	iter := 0
	lastMis := 0.0
	for ; iter < opts.MaxIterations; iter++ {
		pCalc, qCalc := computePQ(g, b, theta, vmag, n)

		mismatch := make([]float64, dim)
		maxMis := 0.0
		row := 0
		for _, i := range nonSlack {
			dp := buses[order[i]].pSpecPU - pCalc[i]
			mismatch[row] = dp
			if math.Abs(dp) > maxMis {
				maxMis = math.Abs(dp)
			}
			row++
		}
		for _, i := range pqBuses {
			dq := buses[order[i]].qSpecPU - qCalc[i]
			mismatch[row] = dq
			if math.Abs(dq) > maxMis {
				maxMis = math.Abs(dq)
			}
			row++
		}

		norm := 0.0
		for _, m := range mismatch {
			norm += m * m
		}
		norm = math.Sqrt(norm)
		lastMis = maxMis

		if opts.TraceLevel == TraceFull {
			trace = append(trace, IterationRecord{Iteration: iter, NormMismatch: norm, MaxMismatchPU: maxMis})
		}

		if maxMis < opts.TolerancePU {
			nodes := buildNodeResults(buses, order, theta, vmag, baseMVA)
			branches, totalLossP, totalLossQ := buildBranchFlows(asm.Branches, theta, vmag, baseMVA)
			slackP, slackQ := pCalc[slackIdx], qCalc[slackIdx]

			return &Result{
				Converged: true, Iterations: iter, Trace: trace, Nodes: nodes, Branches: branches,
				TotalLossesPMW: totalLossP, TotalLossesQMVAr: totalLossQ,
				SlackInjectionPMW: slackP * baseMVA, SlackInjectionQMVAr: slackQ * baseMVA,
			}, nil
		}

		jac := buildJacobian(g, b, theta, vmag, pCalc, qCalc, nonSlack, pqBuses, n)
		delta, err := solveLU(jac, mismatch)
		if err != nil {
			if opts.TraceLevel == TraceFull {
				trace[len(trace)-1].CauseIfFailed = err.Error()
			}

			return nil, fmt.Errorf("powerflow: %w", errdomain.ErrNumericalFailure)
		}

		row = 0
		for _, i := range nonSlack {
			theta[i] += delta[row]
			row++
		}
		for _, i := range pqBuses {
			vmag[i] += delta[len(nonSlack)+indexOf(pqBuses, i)]
		}
	}

	return nil, fmt.Errorf("powerflow: did not converge within %d iterations: %w", opts.MaxIterations,
		&errdomain.ConvergenceFailureError{LastMismatchPU: lastMis, Iterations: opts.MaxIterations})
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}

	return -1
}

// splitGB extracts the real (G) and imaginary (B) parts of the Y-bus
// into plain float64 grids for the polar-form mismatch equations.
func splitGB(y *ybus.Dense, n int) ([][]float64, [][]float64) {
	g := make([][]float64, n)
	b := make([][]float64, n)
	for i := 0; i < n; i++ {
		g[i] = make([]float64, n)
		b[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			v, _ := y.At(i, j)
			g[i][j] = real(v)
			b[i][j] = imag(v)
		}
	}

	return g, b
}

func computePQ(g, b [][]float64, theta, vmag []float64, n int) ([]float64, []float64) {
	p := make([]float64, n)
	q := make([]float64, n)
	for i := 0; i < n; i++ {
		var pSum, qSum float64
		for k := 0; k < n; k++ {
			thetaIK := theta[i] - theta[k]
			pSum += vmag[k] * (g[i][k]*math.Cos(thetaIK) + b[i][k]*math.Sin(thetaIK))
			qSum += vmag[k] * (g[i][k]*math.Sin(thetaIK) - b[i][k]*math.Cos(thetaIK))
		}
		p[i] = vmag[i] * pSum
		q[i] = vmag[i] * qSum
	}

	return p, q
}

func buildJacobian(g, b [][]float64, theta, vmag, pCalc, qCalc []float64, nonSlack, pqBuses []int, n int) *realDense {
	dim := len(nonSlack) + len(pqBuses)
	jac := newRealDense(dim)

	rowOf := make(map[int]int, dim)
	for r, i := range nonSlack {
		rowOf[i] = r
	}
	colOf := make(map[int]int, len(pqBuses))
	for c, i := range pqBuses {
		colOf[i] = len(nonSlack) + c
	}

	for r, i := range nonSlack {
		for c, k := range nonSlack {
			jac.set(r, c, dPdTheta(g, b, theta, vmag, pCalc, qCalc, i, k))
		}
		for _, k := range pqBuses {
			jac.set(r, colOf[k], dPdV(g, b, theta, vmag, pCalc, i, k))
		}
	}
	for rr, i := range pqBuses {
		r := len(nonSlack) + rr
		for c, k := range nonSlack {
			jac.set(r, c, dQdTheta(g, b, theta, vmag, pCalc, qCalc, i, k))
		}
		for _, k := range pqBuses {
			jac.set(r, colOf[k], dQdV(g, b, theta, vmag, qCalc, i, k))
		}
	}

	return jac
}

func dPdTheta(g, b [][]float64, theta, vmag, pCalc, qCalc []float64, i, k int) float64 {
	if i == k {
		return -qCalc[i] - b[i][i]*vmag[i]*vmag[i]
	}
	thetaIK := theta[i] - theta[k]

	return vmag[i] * vmag[k] * (g[i][k]*math.Sin(thetaIK) - b[i][k]*math.Cos(thetaIK))
}

func dPdV(g, b [][]float64, theta, vmag, pCalc []float64, i, k int) float64 {
	if i == k {
		return pCalc[i]/vmag[i] + g[i][i]*vmag[i]
	}
	thetaIK := theta[i] - theta[k]

	return vmag[i] * (g[i][k]*math.Cos(thetaIK) + b[i][k]*math.Sin(thetaIK))
}

func dQdTheta(g, b [][]float64, theta, vmag, pCalc, qCalc []float64, i, k int) float64 {
	if i == k {
		return pCalc[i] - g[i][i]*vmag[i]*vmag[i]
	}
	thetaIK := theta[i] - theta[k]

	return -vmag[i] * vmag[k] * (g[i][k]*math.Cos(thetaIK) + b[i][k]*math.Sin(thetaIK))
}

func dQdV(g, b [][]float64, theta, vmag, qCalc []float64, i, k int) float64 {
	if i == k {
		return qCalc[i]/vmag[i] - b[i][i]*vmag[i]
	}
	thetaIK := theta[i] - theta[k]

	return vmag[i] * (g[i][k]*math.Sin(thetaIK) - b[i][k]*math.Cos(thetaIK))
}

func buildNodeResults(buses map[string]bus, order []string, theta, vmag []float64, baseMVA float64) []NodeResult {
	out := make([]NodeResult, len(order))
	for i, id := range order {
		bs := buses[id]
		out[i] = NodeResult{
			ID: id, VMagPU: vmag[i], VAngleDeg: theta[i] * 180 / math.Pi,
			VKV: vmag[i] * bs.voltageKV, PMW: bs.pSpecPU * baseMVA, QMVAr: bs.qSpecPU * baseMVA,
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// buildBranchFlows derives S_from/S_to and losses for every branch
// from the converged bus angles/magnitudes and the per-unit series/
// shunt admittance the assembler stamped for it (§4.7). S_from is the
// complex power leaving the from-node into the branch; S_to is the
// complex power leaving the to-node into the branch; their sum is the
// branch's loss (resistive dissipation plus any net reactive charging).
func buildBranchFlows(branches []ybus.BranchAdmittance, theta, vmag []float64, baseMVA float64) ([]BranchFlow, float64, float64) {
	out := make([]BranchFlow, len(branches))
	var totalLossP, totalLossQ float64

	for k, b := range branches {
		vi := complex(vmag[b.I]*math.Cos(theta[b.I]), vmag[b.I]*math.Sin(theta[b.I]))
		vj := complex(vmag[b.J]*math.Cos(theta[b.J]), vmag[b.J]*math.Sin(theta[b.J]))
		half := b.YShunt / 2

		iFrom := b.Y*(vi-vj) + half*vi
		iTo := b.Y*(vj-vi) + half*vj

		sFrom := vi * cmplx.Conj(iFrom)
		sTo := vj * cmplx.Conj(iTo)

		lossP := (real(sFrom) + real(sTo)) * baseMVA
		lossQ := (imag(sFrom) + imag(sTo)) * baseMVA

		out[k] = BranchFlow{
			RefID: b.RefID, FromNodeID: b.FromNodeID, ToNodeID: b.ToNodeID,
			PFromMW: real(sFrom) * baseMVA, QFromMVAr: imag(sFrom) * baseMVA,
			PToMW: real(sTo) * baseMVA, QToMVAr: imag(sTo) * baseMVA,
			LossPMW: lossP, LossQMVAr: lossQ,
		}
		totalLossP += lossP
		totalLossQ += lossQ
	}

	sort.Slice(out, func(i, j int) bool { return out[i].RefID < out[j].RefID })

	return out, totalLossP, totalLossQ
}

func aggregateBuses(asm *ybus.Assembly, nodes []solverinput.NodeSpec, baseMVA float64) (map[string]bus, []string, error) {
	buses := make(map[string]bus, len(asm.Index))
	members := make(map[string]int, len(asm.Index))
	for _, n := range nodes {
		root, ok := asm.NodeGroups[n.ID]
		if !ok {
			root = n.ID
		}
		cur, exists := buses[root]
		kind := busKind(n.NodeType)
		if !exists {
			cur = bus{id: root, kind: kind, voltageKV: n.VoltageLevelKV, vPU: 1, anglePU: 0}
		}
		if kind == kindSlack || (kind == kindPV && cur.kind == kindPQ) {
			cur.kind = kind
		}
		if n.VMagPU != 0 {
			cur.vPU = n.VMagPU
		}
		cur.anglePU += n.VAnglePU
		cur.pSpecPU += n.PMW / baseMVA
		cur.qSpecPU += n.QMVAr / baseMVA
		buses[root] = cur
		members[root]++
	}
	for root, count := range members {
		cur := buses[root]
		cur.anglePU /= float64(count)
		buses[root] = cur
	}

	order := make([]string, len(asm.Index))
	for id, idx := range asm.Index {
		order[idx] = id
	}

	return buses, order, nil
}
