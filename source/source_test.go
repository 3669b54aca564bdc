package source

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gocdo/mesh"
	"github.com/notargets/gocdo/types"
)

func TestDualDensityEvaluators(t *testing.T) {
	{ // Constant density splits the cell volume along the dual fractions
		cm := mesh.UnitTet(0)
		cb := NewCellBuilder(cm.NVerts, cm.NEdges)
		d := &Definition{
			Kind:  ByValue,
			Dim:   1,
			Meta:  types.Dual | types.Cell | types.Scalar | types.FullDomain,
			Value: []float64{2.},
		}
		values := make([]float64, cm.NVerts)
		dcsdByValue(d, 0, cm, cb, values)
		var total float64
		for v, val := range values {
			assert.True(t, near(val, 2.*cm.WVC[v]*cm.VolC))
			total += val
		}
		assert.True(t, near(total, 2.*cm.VolC))

		// evaluators accumulate, they never overwrite
		dcsdByValue(d, 0, cm, cb, values)
		total = 0
		for _, val := range values {
			total += val
		}
		assert.True(t, near(total, 4.*cm.VolC))
	}
	{ // Unit cube by symmetry: density 4 puts 0.5 on each vertex
		cm := mesh.UnitCube(0)
		cb := NewCellBuilder(cm.NVerts, cm.NEdges)
		d := &Definition{
			Kind:  ByValue,
			Dim:   1,
			Meta:  types.Dual | types.Cell | types.Scalar | types.FullDomain,
			Value: []float64{4.},
		}
		values := make([]float64, cm.NVerts)
		dcsdByValue(d, 0, cm, cb, values)
		for _, val := range values {
			assert.True(t, near(val, 0.5))
		}
	}
	{ // All four analytic rules agree vertex by vertex on an affine field
		cm := mesh.UnitTet(0)
		cb := NewCellBuilder(cm.NVerts, cm.NEdges)
		d := &Definition{
			Kind: ByAnalytic,
			Dim:  1,
			Meta: types.Dual | types.Cell | types.Scalar | types.FullDomain,
			Analytic: func(t float64, pts [][3]float64, res []float64) {
				for i, p := range pts {
					res[i] = 1. + 2.*p[0] + 3.*p[1] - p[2]
				}
			},
		}
		exact := cm.VolC + 4./24. // V + (2 + 3 - 1) * moment(x)

		rules := []CellwiseEval{
			dcsdBaryByAnalytic,
			dcsdQ1O1ByAnalytic,
			dcsdQ10O2ByAnalytic,
			dcsdQ5O3ByAnalytic,
		}
		ref := make([]float64, cm.NVerts)
		dcsdBaryByAnalytic(d, 0, cm, cb, ref)
		for _, rule := range rules {
			values := make([]float64, cm.NVerts)
			rule(d, 0, cm, cb, values)
			var total float64
			for v, val := range values {
				assert.True(t, near(val, ref[v]))
				total += val
			}
			assert.True(t, near(total, exact))
		}
	}
	{ // Ten-point rule is exact for quadratics, five-point for cubics
		cm := mesh.UnitTet(0)
		cb := NewCellBuilder(cm.NVerts, cm.NEdges)
		quadratic := &Definition{
			Kind: ByAnalytic,
			Dim:  1,
			Meta: types.Dual | types.Cell | types.Scalar | types.FullDomain,
			Analytic: func(t float64, pts [][3]float64, res []float64) {
				for i, p := range pts {
					res[i] = p[0]*p[0] + p[0]*p[1]
				}
			},
		}
		// moments over the reference tet: x^2 -> 1/60, xy -> 1/120
		exactQuad := 1./60. + 1./120.
		for _, rule := range []CellwiseEval{dcsdQ10O2ByAnalytic, dcsdQ5O3ByAnalytic} {
			values := make([]float64, cm.NVerts)
			rule(quadratic, 0, cm, cb, values)
			var total float64
			for _, val := range values {
				total += val
			}
			assert.True(t, near(total, exactQuad))
		}

		cubic := &Definition{
			Kind: ByAnalytic,
			Dim:  1,
			Meta: types.Dual | types.Cell | types.Scalar | types.FullDomain,
			Analytic: func(t float64, pts [][3]float64, res []float64) {
				for i, p := range pts {
					res[i] = p[0] * p[0] * p[0]
				}
			},
		}
		values := make([]float64, cm.NVerts)
		dcsdQ5O3ByAnalytic(cubic, 0, cm, cb, values)
		var total float64
		for _, val := range values {
			total += val
		}
		assert.True(t, near(total, 1./120.))
	}
	{ // Higher-order rules stay exact on hex sub-decompositions
		cm := mesh.UnitCube(0)
		cb := NewCellBuilder(cm.NVerts, cm.NEdges)
		cubic := &Definition{
			Kind: ByAnalytic,
			Dim:  1,
			Meta: types.Dual | types.Cell | types.Scalar | types.FullDomain,
			Analytic: func(t float64, pts [][3]float64, res []float64) {
				for i, p := range pts {
					res[i] = p[0] * p[0] * p[0]
				}
			},
		}
		values := make([]float64, cm.NVerts)
		dcsdQ5O3ByAnalytic(cubic, 0, cm, cb, values)
		var total float64
		for _, val := range values {
			total += val
		}
		assert.True(t, near(total, 0.25)) // integral of x^3 over the unit cube
	}
	{ // Borrowed arrays, direct and through an index
		cm := mesh.UnitTet(0)
		cb := NewCellBuilder(cm.NVerts, cm.NEdges)
		vals := []float64{1., 2., 3., 4.}
		d := &Definition{
			Kind: ByArray,
			Dim:  1,
			Meta: types.Dual | types.Cell | types.Scalar | types.FullDomain,
			Array: &ArrayInput{
				Stride: 1,
				Loc:    types.PrimalVertex,
				Values: vals,
			},
		}
		direct := make([]float64, cm.NVerts)
		dcsdByArray(d, 0, cm, cb, direct)
		for v, val := range direct {
			assert.True(t, near(val, vals[cm.VIDs[v]]*cm.WVC[v]*cm.VolC))
		}

		d.Array = &ArrayInput{
			Loc:    types.PrimalVertex,
			Values: []float64{4., 3., 2., 1.},
			Index:  []int{3, 2, 1, 0},
		}
		indexed := make([]float64, cm.NVerts)
		dcsdByArray(d, 0, cm, cb, indexed)
		for v := range indexed {
			assert.True(t, near(indexed[v], direct[v]))
		}

		// cellwise array: one density for the whole cell
		d.Array = &ArrayInput{
			Stride: 1,
			Loc:    types.PrimalCell,
			Values: []float64{6.},
		}
		cellwise := make([]float64, cm.NVerts)
		dcsdByArray(d, 0, cm, cb, cellwise)
		var total float64
		for _, val := range cellwise {
			total += val
		}
		assert.True(t, near(total, 6.*cm.VolC))
	}
	{ // DOF functions see global vertex ids
		cm, err := mesh.NewTetCellMesh(0, []int{10, 11, 12, 13}, [][3]float64{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		})
		assert.NoError(t, err)
		cb := NewCellBuilder(cm.NVerts, cm.NEdges)
		d := &Definition{
			Kind: ByDofFunc,
			Dim:  1,
			Meta: types.Dual | types.Cell | types.Scalar | types.FullDomain,
			Dof: func(t float64, ids []int, res []float64) {
				for i, id := range ids {
					res[i] = float64(id)
				}
			},
		}
		values := make([]float64, cm.NVerts)
		dcsdByDofFunc(d, 0, cm, cb, values)
		for v, val := range values {
			assert.True(t, near(val, float64(cm.VIDs[v])*cm.WVC[v]*cm.VolC))
		}
	}
}

// regularUnitVolTet is a regular tetrahedron scaled to unit volume: full
// symmetry makes every dual-volume fraction exactly 1/4.
func regularUnitVolTet(t *testing.T) *mesh.CellMesh {
	s := math.Cbrt(3.) // vertex set below spans volume 1/3 before scaling
	cm, err := mesh.NewTetCellMesh(0, []int{0, 1, 2, 3}, [][3]float64{
		{0, 0, 0},
		{s, s, 0},
		{0, s, s},
		{s, 0, s},
	})
	assert.NoError(t, err)
	return cm
}

func TestEndToEnd(t *testing.T) {
	cm := regularUnitVolTet(t)
	assert.True(t, near(cm.VolC, 1.))
	for _, w := range cm.WVC {
		assert.True(t, near(w, 0.25))
	}
	cb := NewCellBuilder(cm.NVerts, cm.NEdges)

	{ // value = 2.0 on a unit-volume cell with equal dual fractions
		defs := []*Definition{{
			Kind:  ByValue,
			Dim:   1,
			Meta:  types.Dual | types.Cell | types.Scalar | types.FullDomain,
			Value: []float64{2.},
		}}
		_, sysFlag, evals, mask, err := Init("energy", VertexBased, defs, nil)
		assert.NoError(t, err)
		assert.Nil(t, mask)

		values := make([]float64, cm.NVerts)
		ComputeCellwise(defs, evals, 0, cm, sysFlag, mask, cb, values)
		var total float64
		for _, val := range values {
			assert.True(t, near(val, 0.5))
			total += val
		}
		assert.True(t, near(total, 2.))
	}
	{ // f(x,y,z) = x via the barycentric rule reproduces the exact integral
		defs := []*Definition{{
			Kind: ByAnalytic,
			Dim:  1,
			Meta: types.Dual | types.Cell | types.Scalar | types.FullDomain,
			Analytic: func(t float64, pts [][3]float64, res []float64) {
				for i, p := range pts {
					res[i] = p[0]
				}
			},
		}}
		_, sysFlag, evals, mask, err := Init("energy", VertexBased, defs, nil)
		assert.NoError(t, err)

		values := make([]float64, cm.NVerts)
		ComputeCellwise(defs, evals, 0, cm, sysFlag, mask, cb, values)
		var total float64
		for _, val := range values {
			total += val
		}
		exact := cm.XC[0] * cm.VolC // affine field: centroid value times volume
		assert.True(t, math.Abs(total-exact) <= 1.e-12*exact)
	}
}

func TestPotentialEvaluators(t *testing.T) {
	{ // Vertex-based potential through the lumped Hodge operator
		cm := mesh.UnitTet(0)
		cb := NewCellBuilder(cm.NVerts, cm.NEdges)
		cb.PrepareCell(VertexBased, types.SysSourceTerm|types.SysHodgeConf, cm)
		assert.True(t, cb.HasHodge)

		d := &Definition{
			Kind:  ByValue,
			Dim:   1,
			Meta:  types.Primal | types.Vertex | types.Scalar | types.FullDomain,
			Value: []float64{3.},
		}
		values := make([]float64, cm.NVerts)
		pvspByValue(d, 0, cm, cb, values)
		var total float64
		for v, val := range values {
			assert.True(t, near(val, 3.*cm.WVC[v]*cm.VolC))
			total += val
		}
		assert.True(t, near(total, 3.*cm.VolC))
	}
	{ // Analytic potential: point values scaled by the dual volumes
		cm := mesh.UnitTet(0)
		cb := NewCellBuilder(cm.NVerts, cm.NEdges)
		cb.PrepareCell(VertexBased, types.SysHodgeConf, cm)

		d := &Definition{
			Kind: ByAnalytic,
			Dim:  1,
			Meta: types.Primal | types.Vertex | types.Scalar | types.FullDomain,
			Analytic: func(t float64, pts [][3]float64, res []float64) {
				for i, p := range pts {
					res[i] = p[0]
				}
			},
		}
		values := make([]float64, cm.NVerts)
		pvspByAnalytic(d, 0, cm, cb, values)
		for v, val := range values {
			assert.True(t, near(val, cm.XV[v][0]*cm.WVC[v]*cm.VolC))
		}
	}
	{ // Vertex+cell variant: a quarter of the volume lands on the cell DOF
		cm := mesh.UnitTet(0)
		cb := NewCellBuilder(cm.NVerts, cm.NEdges)
		cb.PrepareCell(VertexCellBased, types.SysHodgeConf, cm)

		d := &Definition{
			Kind:  ByValue,
			Dim:   1,
			Meta:  types.Primal | types.Scalar | types.FullDomain,
			Value: []float64{2.},
		}
		values := make([]float64, cm.NVerts+1)
		vcspByValue(d, 0, cm, cb, values)
		assert.True(t, near(values[cm.NVerts], 2.*0.25*cm.VolC))
		var total float64
		for _, val := range values {
			total += val
		}
		assert.True(t, near(total, 2.*cm.VolC))
	}
	{ // A missing Hodge operator is a contract violation
		cm := mesh.UnitTet(0)
		cb := NewCellBuilder(cm.NVerts, cm.NEdges)
		cb.PrepareCell(VertexBased, types.SysSourceTerm, cm)
		assert.False(t, cb.HasHodge)

		d := &Definition{
			Kind:  ByValue,
			Dim:   1,
			Meta:  types.Primal | types.Vertex | types.Scalar | types.FullDomain,
			Value: []float64{1.},
		}
		values := make([]float64, cm.NVerts)
		assert.Panics(t, func() { pvspByValue(d, 0, cm, cb, values) })
	}
}

func TestFaceBasedEvaluators(t *testing.T) {
	cm := mesh.UnitCube(0)
	cb := NewCellBuilder(cm.NVerts, cm.NEdges)
	{ // Constant density fills the trailing cell slot
		d := &Definition{
			Kind:  ByValue,
			Dim:   1,
			Meta:  types.Primal | types.Cell | types.Scalar | types.FullDomain,
			Value: []float64{3.},
		}
		values := make([]float64, cm.NFaces+1)
		fbsdByValue(d, 0, cm, cb, values)
		for f := 0; f < cm.NFaces; f++ {
			assert.Equal(t, 0., values[f])
		}
		assert.True(t, near(values[cm.NFaces], 3.*cm.VolC))
	}
	{ // Cell-center evaluation is exact for affine densities
		d := &Definition{
			Kind: ByAnalytic,
			Dim:  1,
			Meta: types.Primal | types.Cell | types.Scalar | types.FullDomain,
			Analytic: func(t float64, pts [][3]float64, res []float64) {
				for i, p := range pts {
					res[i] = 1. + p[0] - 2.*p[2]
				}
			},
		}
		values := make([]float64, cm.NFaces+1)
		fbsdBaryByAnalytic(d, 0, cm, cb, values)
		// integral over the unit cube: 1 + 1/2 - 2/2
		assert.True(t, near(values[cm.NFaces], 0.5))
	}
	{ // Arrays must be cellwise for face-based schemes
		good := &Definition{
			Kind: ByArray,
			Dim:  1,
			Meta: types.Primal | types.Cell | types.ByCell | types.Scalar | types.FullDomain,
			Array: &ArrayInput{
				Stride: 1,
				Loc:    types.PrimalCell,
				Values: []float64{5.},
			},
		}
		values := make([]float64, cm.NFaces+1)
		fbsdByArray(good, 0, cm, cb, values)
		assert.True(t, near(values[cm.NFaces], 5.*cm.VolC))

		bad := &Definition{
			Kind: ByArray,
			Dim:  1,
			Meta: types.Primal | types.Cell | types.Scalar | types.FullDomain,
			Array: &ArrayInput{
				Stride: 1,
				Loc:    types.PrimalVertex,
				Values: make([]float64, 8),
			},
		}
		assert.Panics(t, func() { fbsdByArray(bad, 0, cm, cb, values) })
	}
	{ // DOF functions receive the global cell id
		cm13, err := mesh.NewTetCellMesh(13, []int{0, 1, 2, 3}, [][3]float64{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		})
		assert.NoError(t, err)
		d := &Definition{
			Kind: ByDofFunc,
			Dim:  1,
			Meta: types.Primal | types.Cell | types.Scalar | types.FullDomain,
			Dof: func(t float64, ids []int, res []float64) {
				res[0] = float64(ids[0])
			},
		}
		values := make([]float64, cm13.NFaces+1)
		fbsdByDofFunc(d, 0, cm13, cb, values)
		assert.True(t, near(values[cm13.NFaces], 13.*cm13.VolC))
	}
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) <= 1.e-10*math.Max(1., math.Abs(a)) {
		l = true
	}
	return
}
