package source

import (
	"github.com/notargets/gocdo/mesh"
	"github.com/notargets/gocdo/types"
	"github.com/notargets/gocdo/utils"
)

// CellBuilder is the per-worker scratch used by the evaluators: value and
// vector buffers sized for the largest cell in play, an id scratch, and
// the cell Hodge operator when the equation needs one. A CellBuilder must
// never be shared between concurrently processed cells.
type CellBuilder struct {
	Values  []float64
	Vectors [][3]float64
	IDs     []int

	Hodge    utils.Matrix
	HasHodge bool
}

// NewCellBuilder allocates scratch for cells with at most maxVerts
// vertices and maxEdges edges. The sizing covers the worst case of the
// ten-point rule, which juggles vertex, edge and face evaluations at once.
func NewCellBuilder(maxVerts, maxEdges int) (cb *CellBuilder) {
	n := maxVerts + maxEdges
	cb = &CellBuilder{
		Values:  make([]float64, 4*n+8),
		Vectors: make([][3]float64, 2*n+8),
		IDs:     make([]int, n+8),
	}
	return
}

// PrepareCell readies the builder for one cell: when the system flag says
// the bound evaluators consume a Hodge operator, it is rebuilt here from
// the cell geometry.
func (cb *CellBuilder) PrepareCell(scheme Scheme, sysFlag types.SysFlag, cm *mesh.CellMesh) {
	if !sysFlag.Has(types.SysHodgeConf) {
		cb.HasHodge = false
		return
	}
	switch scheme {
	case VertexCellBased:
		cb.Hodge = NewVertexCellHodge(cm)
	default:
		cb.Hodge = NewVertexHodge(cm)
	}
	cb.HasHodge = true
}

// NewVertexHodge builds the lumped (Voronoi-type) discrete Hodge operator
// mapping vertex potentials to dual-cell integrated values: a diagonal
// matrix of dual volumes wvc[v]*VolC. Its rows sum to the cell volume.
func NewVertexHodge(cm *mesh.CellMesh) (H utils.Matrix) {
	cm.AssertFlag(types.NeedPVQ)
	n := cm.NVerts
	H = utils.NewMatrix(n, n)
	for v := 0; v < n; v++ {
		H.Set(v, v, cm.WVC[v]*cm.VolC)
	}
	return
}

// NewVertexCellHodge is the vertex+cell variant: three quarters of each
// dual volume stays on the vertex, the remaining quarter of the cell
// volume collects on the cell DOF, keeping the total at VolC.
func NewVertexCellHodge(cm *mesh.CellMesh) (H utils.Matrix) {
	cm.AssertFlag(types.NeedPVQ)
	n := cm.NVerts
	H = utils.NewMatrix(n+1, n+1)
	for v := 0; v < n; v++ {
		H.Set(v, v, 0.75*cm.WVC[v]*cm.VolC)
	}
	H.Set(n, n, 0.25*cm.VolC)
	return
}
