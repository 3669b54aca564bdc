package types

// Flag is a small bitset used to describe where a quantity lives on the
// mesh (primal/dual x vertex/edge/face/cell), what it is (scalar, vector,
// tensor) and how far it extends (full domain or a zone subset).
type Flag uint16

const (
	Primal Flag = 1 << iota
	Dual
	Vertex
	Edge
	Face
	Cell
	Scalar
	Vector
	Tensor
	ByCell
	Border
	FullDomain
)

// Common composite locations
const (
	PrimalVertex = Primal | Vertex
	PrimalCell   = Primal | Cell
	DualCell     = Dual | Cell
)

// Has reports whether every bit of ref is set in f.
func (f Flag) Has(ref Flag) bool {
	return f&ref == ref
}

// MeshFlag records which local cell-geometry quantities a computation
// needs. The classifier unions these per equation so the caller knows what
// to build into each CellMesh before entering the cell loop.
type MeshFlag uint16

const (
	NeedPV  MeshFlag = 1 << iota // vertex coordinates
	NeedPVQ                      // vertex quantities (wvc dual volume fractions)
	NeedPEQ                      // edge centers
	NeedPFQ                      // face centers, areas, normals
	NeedDEQ                      // dual edge quantities
	NeedEV                       // edge-to-vertex connectivity
	NeedFE                       // face-to-edge connectivity
	NeedFEQ                      // tef sub-triangle areas per face edge
	NeedHFQ                      // hfc face-to-cell-center heights
)

func (f MeshFlag) Has(ref MeshFlag) bool {
	return f&ref == ref
}

// SysFlag carries equation-level metadata produced by the classifier and
// consumed by the cellwise dispatcher.
type SysFlag uint8

const (
	SysSourceTerm SysFlag = 1 << iota // at least one source term present
	SysHodgeConf                      // a cell Hodge operator must be built
	SysSourcesHodge
)

func (f SysFlag) Has(ref SysFlag) bool {
	return f&ref == ref
}
