package source

import (
	"fmt"

	"github.com/notargets/gocdo/mesh"
)

// Scheme tags the spatial discretization the equation uses. It decides how
// many local degrees of freedom a cell carries and which evaluator family
// the classifier binds.
type Scheme uint8

const (
	VertexBased     Scheme = iota + 1 // one DOF per primal vertex
	VertexCellBased                   // vertex DOFs plus one cell DOF
	FaceBased                         // face DOFs plus one cell DOF
)

func (s Scheme) String() string {
	switch s {
	case VertexBased:
		return "vertex-based"
	case VertexCellBased:
		return "vertex+cell-based"
	case FaceBased:
		return "face-based"
	}
	return fmt.Sprintf("scheme#%d", int(s))
}

// ParseScheme resolves the case-file spelling of a scheme.
func ParseScheme(name string) (s Scheme, err error) {
	switch name {
	case "VertexBased", "vertex-based":
		s = VertexBased
	case "VertexCellBased", "vertex+cell-based":
		s = VertexCellBased
	case "FaceBased", "face-based":
		s = FaceBased
	default:
		err = fmt.Errorf("unknown scheme %q", name)
	}
	return
}

// NumDOF is the local DOF count of one cell under this scheme. Source
// contributions for face-based schemes land in the trailing cell slot.
func (s Scheme) NumDOF(cm *mesh.CellMesh) (n int) {
	switch s {
	case VertexBased:
		n = cm.NVerts
	case VertexCellBased:
		n = cm.NVerts + 1
	case FaceBased:
		n = cm.NFaces + 1
	default:
		panic(fmt.Errorf("invalid scheme %v", s))
	}
	return
}
