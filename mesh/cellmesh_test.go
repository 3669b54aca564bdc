package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gocdo/quadrature"
	"github.com/notargets/gocdo/types"
)

func TestCellMeshGeometry(t *testing.T) {
	{ // Reference tetrahedron
		cm := UnitTet(0)
		assert.Equal(t, 4, cm.NVerts)
		assert.Equal(t, 6, cm.NEdges)
		assert.Equal(t, 4, cm.NFaces)
		assert.True(t, near(cm.VolC, 1./6.))
		assert.True(t, near(cm.XC[0], 0.25))
		assert.True(t, near(cm.XC[1], 0.25))
		assert.True(t, near(cm.XC[2], 0.25))

		var wSum float64
		for _, w := range cm.WVC {
			assert.True(t, w > 0)
			wSum += w
		}
		assert.True(t, near(wSum, 1.))

		for f := 0; f < cm.NFaces; f++ {
			assert.True(t, cm.HFC[f] > 0)
			// unit outward normal
			n := cm.Face[f].Normal
			assert.True(t, near(n[0]*n[0]+n[1]*n[1]+n[2]*n[2], 1.))
			var dot float64
			for k := 0; k < 3; k++ {
				dot += (cm.Face[f].Center[k] - cm.XC[k]) * n[k]
			}
			assert.True(t, dot > 0)
			// sub-triangle areas cover the face
			var tefSum float64
			for i := cm.F2EIdx[f]; i < cm.F2EIdx[f+1]; i++ {
				tefSum += cm.TEF[i]
			}
			assert.True(t, near(tefSum, cm.Face[f].Area))
		}
	}
	{ // Unit cube: full symmetry
		cm := UnitCube(0)
		assert.Equal(t, 8, cm.NVerts)
		assert.Equal(t, 12, cm.NEdges)
		assert.Equal(t, 6, cm.NFaces)
		assert.True(t, near(cm.VolC, 1.))
		assert.True(t, near(cm.XC[0], 0.5))
		assert.True(t, near(cm.XC[1], 0.5))
		assert.True(t, near(cm.XC[2], 0.5))
		for _, w := range cm.WVC {
			assert.True(t, near(w, 0.125))
		}
		for f := 0; f < cm.NFaces; f++ {
			assert.True(t, near(cm.Face[f].Area, 1.))
			assert.True(t, near(cm.HFC[f], 0.5))
		}
	}
	{ // Skewed, translated tet agrees with the direct volume formula
		xv := [][3]float64{
			{1.2, -0.3, 2.0},
			{2.9, 0.1, 2.2},
			{1.0, 1.8, 1.9},
			{1.5, 0.2, 4.1},
		}
		cm, err := NewTetCellMesh(7, []int{10, 11, 12, 13}, xv)
		assert.NoError(t, err)
		assert.Equal(t, 7, cm.CID)
		assert.Equal(t, []int{10, 11, 12, 13}, cm.VIDs)
		assert.True(t, near(cm.VolC, quadrature.TetVolume(xv[0], xv[1], xv[2], xv[3])))
		var wSum float64
		for _, w := range cm.WVC {
			wSum += w
		}
		assert.True(t, near(wSum, 1.))
	}
	{ // Negatively oriented vertices are rejected
		_, err := NewTetCellMesh(0, []int{0, 1, 2, 3}, [][3]float64{
			{0, 0, 0},
			{0, 1, 0},
			{1, 0, 0},
			{0, 0, 1},
		})
		assert.Error(t, err)
	}
	{ // Mismatched ids and coordinates are rejected
		_, err := NewCellMesh(0, []int{0, 1}, [][3]float64{{0, 0, 0}}, nil)
		assert.Error(t, err)
	}
	{ // AssertFlag panics when a quantity was not built
		cm := UnitTet(0)
		cm.Flag = types.NeedPV
		assert.Panics(t, func() { cm.AssertFlag(types.NeedPVQ) })
		assert.NotPanics(t, func() { cm.AssertFlag(types.NeedPV) })
	}
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) <= 1.e-10*math.Max(1., math.Abs(a)) {
		l = true
	}
	return
}
