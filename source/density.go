package source

import (
	"github.com/notargets/gocdo/mesh"
	"github.com/notargets/gocdo/quadrature"
	"github.com/notargets/gocdo/types"
)

// Evaluators for scalar densities located at dual cells (vertex-based
// schemes): values[v] accumulates the integral of the density over the
// portion of the cell belonging to vertex v's dual cell.

// dcsdByValue handles a constant density: exact, one multiply per vertex.
func dcsdByValue(d *Definition, _ float64, cm *mesh.CellMesh, _ *CellBuilder, values []float64) {
	if d == nil {
		return
	}
	cm.AssertFlag(types.NeedPVQ)

	density := d.Value[0]
	for v := 0; v < cm.NVerts; v++ {
		values[v] += density * cm.WVC[v] * cm.VolC
	}
}

// dcsdByArray reads the density from a borrowed per-entity array: one
// entry per global vertex for vertex/dual locations, one entry per cell
// for cellwise arrays.
func dcsdByArray(d *Definition, _ float64, cm *mesh.CellMesh, _ *CellBuilder, values []float64) {
	if d == nil {
		return
	}
	cm.AssertFlag(types.NeedPVQ)

	arr := d.Array
	if arr.Loc.Has(types.PrimalCell) {
		density := arr.Values[arr.at(cm.CID)]
		for v := 0; v < cm.NVerts; v++ {
			values[v] += density * cm.WVC[v] * cm.VolC
		}
		return
	}
	for v := 0; v < cm.NVerts; v++ {
		density := arr.Values[arr.at(cm.VIDs[v])]
		values[v] += density * cm.WVC[v] * cm.VolC
	}
}

func (arr *ArrayInput) at(id int) int {
	if arr.Index != nil {
		return arr.Index[id]
	}
	return arr.Stride * id
}

// dcsdByDofFunc evaluates the density directly at the cell's vertex DOFs.
func dcsdByDofFunc(d *Definition, t float64, cm *mesh.CellMesh, cb *CellBuilder, values []float64) {
	if d == nil {
		return
	}
	cm.AssertFlag(types.NeedPVQ)

	eval := cb.Values[:cm.NVerts]
	d.Dof(t, cm.VIDs, eval)
	for v := 0; v < cm.NVerts; v++ {
		values[v] += eval[v] * cm.WVC[v] * cm.VolC
	}
}

// dcsdBaryByAnalytic integrates an analytic density with one evaluation
// per vertex at the volume-weighted barycenter of its dual-cell portion.
// Exact for affine fields.
func dcsdBaryByAnalytic(d *Definition, t float64, cm *mesh.CellMesh, cb *CellBuilder, values []float64) {
	if d == nil {
		return
	}
	cm.AssertFlag(types.NeedPVQ | types.NeedPFQ | types.NeedHFQ |
		types.NeedFE | types.NeedFEQ | types.NeedEV)

	// Volume-weighted barycenter of each dual-cell portion
	xgv := cb.Vectors[:cm.NVerts]
	for v := range xgv {
		xgv[v][0], xgv[v][1], xgv[v][2] = 0, 0, 0
	}

	for f := 0; f < cm.NFaces; f++ {
		var xfc [3]float64

		xf := cm.Face[f].Center
		hfCoef := cm.HFC[f] / 6.

		for k := 0; k < 3; k++ {
			xfc[k] = 0.25 * (xf[k] + cm.XC[k])
		}

		for i := cm.F2EIdx[f]; i < cm.F2EIdx[f+1]; i++ {
			e := cm.F2E[i]
			v1, v2 := cm.E2V[e][0], cm.E2V[e][1]
			xv1, xv2 := cm.XV[v1], cm.XV[v2]
			tetVol := cm.TEF[i] * hfCoef

			// xg = 0.25(xv1 + xe + xf + xc) where xe = 0.5*(xv1 + xv2)
			for k := 0; k < 3; k++ {
				xgv[v1][k] += tetVol * (xfc[k] + 0.375*xv1[k] + 0.125*xv2[k])
			}
			for k := 0; k < 3; k++ {
				xgv[v2][k] += tetVol * (xfc[k] + 0.375*xv2[k] + 0.125*xv1[k])
			}
		}
	}

	volVC := cb.Values[:cm.NVerts]
	for v := 0; v < cm.NVerts; v++ {
		volVC[v] = cm.VolC * cm.WVC[v]
		inv := 1. / volVC[v]
		for k := 0; k < 3; k++ {
			xgv[v][k] *= inv
		}
	}

	evalXgv := cb.Values[cm.NVerts : 2*cm.NVerts]
	d.Analytic(t, xgv, evalXgv)

	for v := 0; v < cm.NVerts; v++ {
		values[v] += volVC[v] * evalXgv[v]
	}
}

// dcsdQ1O1ByAnalytic integrates with one evaluation at each
// sub-tetrahedron's own barycenter. Also exact for affine fields, tighter
// locally than the aggregated barycenter for mildly non-affine ones.
func dcsdQ1O1ByAnalytic(d *Definition, t float64, cm *mesh.CellMesh, cb *CellBuilder, values []float64) {
	if d == nil {
		return
	}
	cm.AssertFlag(types.NeedPFQ | types.NeedHFQ | types.NeedFE |
		types.NeedFEQ | types.NeedEV)

	xg := cb.Vectors[:2]
	evalXg := cb.Values[:2]

	for f := 0; f < cm.NFaces; f++ {
		var xfc [3]float64

		xf := cm.Face[f].Center
		hfCoef := cm.HFC[f] / 6.

		for k := 0; k < 3; k++ {
			xfc[k] = 0.25 * (xf[k] + cm.XC[k])
		}

		for i := cm.F2EIdx[f]; i < cm.F2EIdx[f+1]; i++ {
			e := cm.F2E[i]
			v1, v2 := cm.E2V[e][0], cm.E2V[e][1]
			xv1, xv2 := cm.XV[v1], cm.XV[v2]
			halfPefVol := cm.TEF[i] * hfCoef

			for k := 0; k < 3; k++ {
				xg[0][k] = xfc[k] + 0.375*xv1[k] + 0.125*xv2[k]
				xg[1][k] = xfc[k] + 0.375*xv2[k] + 0.125*xv1[k]
			}

			d.Analytic(t, xg, evalXg)

			values[v1] += halfPefVol * evalXg[0]
			values[v2] += halfPefVol * evalXg[1]
		}
	}
}

// dcsdQ10O2ByAnalytic integrates with the ten-point rule built from
// corner weights -1/20 and midpoint weights +1/5 on each sub-tetrahedron,
// grouped so shared points are evaluated once. Exact for quadratic fields.
func dcsdQ10O2ByAnalytic(d *Definition, t float64, cm *mesh.CellMesh, cb *CellBuilder, values []float64) {
	if d == nil {
		return
	}
	cm.AssertFlag(types.NeedPFQ | types.NeedHFQ | types.NeedFE |
		types.NeedFEQ | types.NeedEV | types.NeedPVQ | types.NeedPEQ)

	var (
		nvc = cm.NVerts
		nec = cm.NEdges
	)
	contrib := cb.Values[:nvc]

	// 1) Contributions seen by the whole dual-cell portion of each vertex:
	// the cell center and the vertex are corners of every sub-tet of that
	// portion, the vertex-cell midpoint is shared the same way.
	var evalC [1]float64
	xp := cb.Vectors[:1]
	xp[0] = cm.XC
	d.Analytic(t, xp, evalC[:])

	evalV := cb.Values[nvc : 2*nvc]
	d.Analytic(t, cm.XV, evalV)

	xvc := cb.Vectors[:nvc]
	for v := 0; v < nvc; v++ {
		for k := 0; k < 3; k++ {
			xvc[v][k] = 0.5 * (cm.XC[k] + cm.XV[v][k])
		}
	}
	evalVC := cb.Values[2*nvc : 3*nvc]
	d.Analytic(t, xvc, evalVC)

	for v := 0; v < nvc; v++ {
		contrib[v] = cm.WVC[v] * cm.VolC *
			(-0.05*(evalC[0]+evalV[v]) + 0.2*evalVC[v])
	}

	// 2) Edge-shared contributions: each edge endpoint sees half the pef
	// volume per face using the edge.
	xe := cb.Vectors[:nec]
	xec := cb.Vectors[nec : 2*nec]
	for e := 0; e < nec; e++ {
		for k := 0; k < 3; k++ {
			xe[e][k] = cm.Edge[e].Center[k]
			xec[e][k] = 0.5 * (cm.XC[k] + cm.Edge[e].Center[k])
		}
	}
	evalE := cb.Values[nvc : nvc+nec]
	evalEC := cb.Values[nvc+nec : nvc+2*nec]
	d.Analytic(t, xe, evalE)
	d.Analytic(t, xec, evalEC)

	xve := cb.Vectors[:2*nec]
	for e := 0; e < nec; e++ {
		xEdge := cm.Edge[e].Center
		xv1 := cm.XV[cm.E2V[e][0]]
		xv2 := cm.XV[cm.E2V[e][1]]
		for k := 0; k < 3; k++ {
			xve[2*e][k] = 0.5 * (xv1[k] + xEdge[k])
			xve[2*e+1][k] = 0.5 * (xv2[k] + xEdge[k])
		}
	}
	evalVE := cb.Values[nvc+2*nec : nvc+4*nec]
	d.Analytic(t, xve, evalVE)

	// 3) Main loop on faces
	pvfVol := cb.Values[nvc+4*nec : 2*nvc+4*nec]

	for f := 0; f < cm.NFaces; f++ {
		xf := cm.Face[f].Center
		hfc := cm.HFC[f]

		for v := 0; v < nvc; v++ {
			pvfVol[v] = 0
		}

		for i := cm.F2EIdx[f]; i < cm.F2EIdx[f+1]; i++ {
			e := cm.F2E[i]
			v1, v2 := cm.E2V[e][0], cm.E2V[e][1]
			halfPefVol := cm.TEF[i] * hfc / 6.

			pvfVol[v1] += halfPefVol
			pvfVol[v2] += halfPefVol

			var (
				xef    [3]float64
				evalEF [1]float64
			)
			for k := 0; k < 3; k++ {
				xef[k] = 0.5 * (cm.Edge[e].Center[k] + xf[k])
			}
			xp := cb.Vectors[2*nec : 2*nec+1]
			xp[0] = xef
			d.Analytic(t, xp, evalEF[:])

			// 1/5 (EF + EC) - 1/20 (E)
			commonEF := 0.2*(evalEF[0]+evalEC[e]) - 0.05*evalE[e]

			contrib[v1] += halfPefVol * (commonEF + 0.2*evalVE[2*e])
			contrib[v2] += halfPefVol * (commonEF + 0.2*evalVE[2*e+1])
		}

		// Contributions shared by the whole face: its center, the
		// face-cell midpoint and the face-vertex midpoints.
		xvfc := cb.Vectors[2*nec : 2*nec+2+nvc]
		for k := 0; k < 3; k++ {
			xvfc[0][k] = xf[k]
			xvfc[1][k] = 0.5 * (xf[k] + cm.XC[k])
		}

		nvf := 0
		for v := 0; v < nvc; v++ {
			if pvfVol[v] > 0 {
				cb.IDs[nvf] = v
				for k := 0; k < 3; k++ {
					xvfc[2+nvf][k] = 0.5 * (xf[k] + cm.XV[v][k])
				}
				nvf++
			}
		}

		evalVFC := cb.Values[2*nvc+4*nec : 2*nvc+4*nec+2+nvf]
		d.Analytic(t, xvfc[:2+nvf], evalVFC)

		for i := 0; i < nvf; i++ {
			v := cb.IDs[i]
			valVFC := -0.05*evalVFC[0] + 0.2*evalVFC[1]
			contrib[v] += pvfVol[v] * (valVFC + 0.2*evalVFC[2+i])
		}
	}

	for v := 0; v < nvc; v++ {
		values[v] += contrib[v]
	}
}

// dcsdQ5O3ByAnalytic integrates with a five-point Gauss rule on each
// (vertex, edge center, face center, cell center) sub-tetrahedron. Exact
// for cubic fields and by far the most expensive rule.
func dcsdQ5O3ByAnalytic(d *Definition, t float64, cm *mesh.CellMesh, cb *CellBuilder, values []float64) {
	if d == nil {
		return
	}
	cm.AssertFlag(types.NeedPEQ | types.NeedPFQ | types.NeedFE | types.NeedEV)

	var (
		results [5]float64
	)
	contrib := cb.Values[:cm.NVerts]
	for v := range contrib {
		contrib[v] = 0
	}

	for f := 0; f < cm.NFaces; f++ {
		xf := cm.Face[f].Center

		for i := cm.F2EIdx[f]; i < cm.F2EIdx[f+1]; i++ {
			e := cm.F2E[i]
			v1, v2 := cm.E2V[e][0], cm.E2V[e][1]
			tetVol := 0.5 * quadrature.TetVolume(cm.XV[v1], cm.XV[v2], xf, cm.XC)

			pts, weights := quadrature.Tet5Pts(cm.XV[v1], cm.Edge[e].Center, xf, cm.XC, tetVol)
			d.Analytic(t, pts[:], results[:])
			var sum float64
			for p := 0; p < 5; p++ {
				sum += results[p] * weights[p]
			}
			contrib[v1] += sum

			pts, weights = quadrature.Tet5Pts(cm.XV[v2], cm.Edge[e].Center, xf, cm.XC, tetVol)
			d.Analytic(t, pts[:], results[:])
			sum = 0.
			for p := 0; p < 5; p++ {
				sum += results[p] * weights[p]
			}
			contrib[v2] += sum
		}
	}

	for v := 0; v < cm.NVerts; v++ {
		values[v] += contrib[v]
	}
}
