package source

import (
	"fmt"

	"github.com/notargets/gocdo/types"
)

// Kind tags where a definition's data comes from.
type Kind uint8

const (
	ByValue Kind = iota // a constant vector
	ByAnalytic          // an analytic function of space and time
	ByArray             // an externally owned per-entity array
	ByDofFunc           // a function evaluated directly at DOFs
)

func (k Kind) String() string {
	switch k {
	case ByValue:
		return "value"
	case ByAnalytic:
		return "analytic"
	case ByArray:
		return "array"
	case ByDofFunc:
		return "dof_func"
	}
	return fmt.Sprintf("kind#%d", int(k))
}

// QuadType selects the quadrature rule for analytic definitions. It is
// ignored for by-value and by-array definitions, which are exact by
// construction.
type QuadType uint8

const (
	QuadBary       QuadType = iota // one point per dual cell, exact for affine fields
	QuadBarySubdiv                 // one point per sub-tet, exact for affine fields
	QuadHigher                     // ten-point rule, exact for quadratic fields
	QuadHighest                    // five-point Gauss rule, exact for cubic fields
)

func (q QuadType) String() string {
	switch q {
	case QuadBary:
		return "bary"
	case QuadBarySubdiv:
		return "bary_subdiv"
	case QuadHigher:
		return "higher"
	case QuadHighest:
		return "highest"
	}
	return fmt.Sprintf("quadrature#%d", int(q))
}

// ParseQuadType resolves the case-file spelling of a quadrature rule.
func ParseQuadType(name string) (q QuadType, err error) {
	switch name {
	case "bary", "":
		q = QuadBary
	case "bary_subdiv":
		q = QuadBarySubdiv
	case "higher":
		q = QuadHigher
	case "highest":
		q = QuadHighest
	default:
		err = fmt.Errorf("unknown quadrature %q", name)
	}
	return
}

// AnalyticFunc evaluates a field at len(pts) locations at time t, writing
// Dim values per point into res.
type AnalyticFunc func(t float64, pts [][3]float64, res []float64)

// DofFunc evaluates a field directly at degrees of freedom identified by
// their global entity ids, writing one value per id into res.
type DofFunc func(t float64, ids []int, res []float64)

// ArrayInput describes an externally owned, borrowed array of per-entity
// values. Index, when non-nil, gives variable-stride indirection: entity
// id -> position in Values; otherwise entity id * Stride is used.
type ArrayInput struct {
	Stride int
	Loc    types.Flag // where the entries live (primal vertex, primal cell, ...)
	Values []float64
	Index  []int
}

/*
Definition describes one source-term contribution: its data source (Kind
plus the matching payload field), the zone it acts on (ZoneID 0 meaning
the full domain), the number of scalar components, its location metadata
and its quadrature selector.

Definitions are built once at equation setup and are immutable afterwards
except for the quadrature type.
*/
type Definition struct {
	Kind   Kind
	ZoneID int
	Dim    int
	Meta   types.Flag
	QType  QuadType

	Value    []float64
	Analytic AnalyticFunc
	Dof      DofFunc
	Array    *ArrayInput
}

// SetQuadrature adjusts the quadrature rule post-creation. Only analytic
// and DOF-function definitions consult it.
func (d *Definition) SetQuadrature(q QuadType) {
	d.QType = q
}

// DefaultMetaFlag is the default source-term location for a scheme: dual
// cell densities for vertex-based schemes, primal cell densities for
// face-based schemes, primal placement for vertex+cell schemes.
func DefaultMetaFlag(scheme Scheme) (meta types.Flag, err error) {
	switch scheme {
	case VertexBased:
		meta = types.Dual | types.Cell
	case FaceBased:
		meta = types.Primal | types.Cell
	case VertexCellBased:
		meta = types.Primal
	default:
		err = fmt.Errorf("invalid scheme %v for a source term default flag", scheme)
	}
	return
}

// SetReduction switches a definition between its dual (density) and primal
// (potential) reductions, preserving the non-location bits. Only the
// vertex <-> dual-cell exchange is handled; anything else is a
// configuration error.
func (d *Definition) SetReduction(flag types.Flag) (err error) {
	if d.Meta.Has(flag) {
		return // nothing to do
	}
	keep := d.Meta & (types.Scalar | types.Vector | types.Tensor |
		types.Border | types.ByCell | types.FullDomain)

	switch {
	case flag.Has(types.Dual):
		if !d.Meta.Has(types.Primal | types.Vertex) {
			return fmt.Errorf("cannot switch definition to a dual reduction from %b", d.Meta)
		}
		d.Meta = keep | types.Dual | types.Cell
	case flag.Has(types.Primal):
		if !d.Meta.Has(types.Dual | types.Cell) {
			return fmt.Errorf("cannot switch definition to a primal reduction from %b", d.Meta)
		}
		d.Meta = keep | types.Primal | types.Vertex
	default:
		return fmt.Errorf("reduction flag %b is neither primal nor dual", flag)
	}
	return
}
