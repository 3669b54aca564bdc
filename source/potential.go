package source

import (
	"github.com/notargets/gocdo/mesh"
	"github.com/notargets/gocdo/types"
)

// Evaluators for scalar potentials located at primal vertices (and the
// cell center for vertex+cell schemes). Point values are gathered first,
// then pushed through the cell Hodge operator prepared in the CellBuilder
// to become consistent integrated contributions.

func pvspByValue(d *Definition, _ float64, cm *mesh.CellMesh, cb *CellBuilder, values []float64) {
	if d == nil {
		return
	}
	cm.AssertFlag(types.NeedPV)
	if !cb.HasHodge {
		panic("pvsp evaluator needs a Hodge operator in the cell builder")
	}

	potValue := d.Value[0]

	eval := cb.Values[:cm.NVerts]
	for v := range eval {
		eval[v] = potValue
	}

	hdgEval := cb.Values[cm.NVerts : 2*cm.NVerts]
	cb.Hodge.MatVec(eval, hdgEval)

	for v := 0; v < cm.NVerts; v++ {
		values[v] += hdgEval[v]
	}
}

func pvspByAnalytic(d *Definition, t float64, cm *mesh.CellMesh, cb *CellBuilder, values []float64) {
	if d == nil {
		return
	}
	cm.AssertFlag(types.NeedPV)
	if !cb.HasHodge {
		panic("pvsp evaluator needs a Hodge operator in the cell builder")
	}

	eval := cb.Values[:cm.NVerts]
	d.Analytic(t, cm.XV, eval)

	hdgEval := cb.Values[cm.NVerts : 2*cm.NVerts]
	cb.Hodge.MatVec(eval, hdgEval)

	for v := 0; v < cm.NVerts; v++ {
		values[v] += hdgEval[v]
	}
}

func vcspByValue(d *Definition, _ float64, cm *mesh.CellMesh, cb *CellBuilder, values []float64) {
	if d == nil {
		return
	}
	cm.AssertFlag(types.NeedPV)
	if !cb.HasHodge {
		panic("vcsp evaluator needs a Hodge operator in the cell builder")
	}

	potValue := d.Value[0]

	n := cm.NVerts + 1
	eval := cb.Values[:n]
	for v := range eval {
		eval[v] = potValue
	}

	hdgEval := cb.Values[n : 2*n]
	cb.Hodge.MatVec(eval, hdgEval)

	for v := 0; v < n; v++ {
		values[v] += hdgEval[v]
	}
}

func vcspByAnalytic(d *Definition, t float64, cm *mesh.CellMesh, cb *CellBuilder, values []float64) {
	if d == nil {
		return
	}
	cm.AssertFlag(types.NeedPV)
	if !cb.HasHodge {
		panic("vcsp evaluator needs a Hodge operator in the cell builder")
	}

	n := cm.NVerts + 1
	eval := cb.Values[:n]
	d.Analytic(t, cm.XV, eval[:cm.NVerts])

	xp := cb.Vectors[:1]
	xp[0] = cm.XC
	d.Analytic(t, xp, eval[cm.NVerts:n])

	hdgEval := cb.Values[n : 2*n]
	cb.Hodge.MatVec(eval, hdgEval)

	for v := 0; v < n; v++ {
		values[v] += hdgEval[v]
	}
}
