package source

import (
	"github.com/notargets/gocdo/mesh"
	"github.com/notargets/gocdo/types"
)

// Evaluators for face-based schemes: a single cell-centered unknown in the
// trailing slot of the values buffer receives the whole contribution, no
// sub-cell decomposition needed.

func fbsdByValue(d *Definition, _ float64, cm *mesh.CellMesh, _ *CellBuilder, values []float64) {
	if d == nil {
		return
	}
	values[cm.NFaces] += d.Value[0] * cm.VolC
}

// fbsdBaryByAnalytic evaluates the density at the cell center, exact for
// affine fields.
func fbsdBaryByAnalytic(d *Definition, t float64, cm *mesh.CellMesh, cb *CellBuilder, values []float64) {
	if d == nil {
		return
	}

	xp := cb.Vectors[:1]
	xp[0] = cm.XC
	evalXc := cb.Values[:1]
	d.Analytic(t, xp, evalXc)

	values[cm.NFaces] += cm.VolC * evalXc[0]
}

func fbsdByArray(d *Definition, _ float64, cm *mesh.CellMesh, _ *CellBuilder, values []float64) {
	if d == nil {
		return
	}

	arr := d.Array
	if !arr.Loc.Has(types.PrimalCell) {
		panic("face-based array source terms need cellwise arrays")
	}
	values[cm.NFaces] += arr.Values[arr.at(cm.CID)] * cm.VolC
}

func fbsdByDofFunc(d *Definition, t float64, cm *mesh.CellMesh, cb *CellBuilder, values []float64) {
	if d == nil {
		return
	}

	cb.IDs[0] = cm.CID
	eval := cb.Values[:1]
	d.Dof(t, cb.IDs[:1], eval)

	values[cm.NFaces] += eval[0] * cm.VolC
}
