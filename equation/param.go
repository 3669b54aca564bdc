package equation

import (
	"fmt"

	"github.com/notargets/gocdo/mesh"
	"github.com/notargets/gocdo/source"
	"github.com/notargets/gocdo/types"
)

// Params collects the source-term settings of one equation: its
// discretization scheme, its dimension and the ordered list of
// definitions. Definitions are owned by the equation and never shared
// across equations.
type Params struct {
	Name   string
	Dim    int
	Scheme source.Scheme
	Zones  *mesh.ZoneRegistry

	SourceTerms []*source.Definition
}

func NewParams(name string, dim int, scheme source.Scheme, zones *mesh.ZoneRegistry) (p *Params, err error) {
	if dim < 1 {
		err = fmt.Errorf("equation %q: dimension %d is not positive", name, dim)
		return
	}
	p = &Params{
		Name:   name,
		Dim:    dim,
		Scheme: scheme,
		Zones:  zones,
	}
	return
}

// metaFor builds the default location metadata for a new source term and
// resolves the zone name; an empty name selects the full domain.
func (p *Params) metaFor(zoneName string) (zid int, meta types.Flag, err error) {
	meta, err = source.DefaultMetaFlag(p.Scheme)
	if err != nil {
		err = fmt.Errorf("equation %q: %w", p.Name, err)
		return
	}
	zid, err = p.Zones.ID(zoneName)
	if err != nil {
		err = fmt.Errorf("equation %q: %w", p.Name, err)
		return
	}
	if zid == mesh.FullDomainZone {
		meta |= types.FullDomain
	}
	return
}

// AddSourceTermByValue attaches a constant (uniform density) source term.
func (p *Params) AddSourceTermByValue(zoneName string, val []float64) (d *source.Definition, err error) {
	if len(val) != p.Dim {
		err = fmt.Errorf("equation %q: value has %d components, equation has %d",
			p.Name, len(val), p.Dim)
		return
	}
	zid, meta, err := p.metaFor(zoneName)
	if err != nil {
		return
	}
	d = &source.Definition{
		Kind:   source.ByValue,
		ZoneID: zid,
		Dim:    p.Dim,
		Meta:   meta | types.Scalar,
		Value:  val,
	}
	p.SourceTerms = append(p.SourceTerms, d)
	return
}

// AddSourceTermByAnalytic attaches an analytic source term, integrated
// with the barycentric rule unless SetQuadrature changes it afterwards.
func (p *Params) AddSourceTermByAnalytic(zoneName string, f source.AnalyticFunc) (d *source.Definition, err error) {
	if f == nil {
		err = fmt.Errorf("equation %q: nil analytic function", p.Name)
		return
	}
	zid, meta, err := p.metaFor(zoneName)
	if err != nil {
		return
	}
	d = &source.Definition{
		Kind:     source.ByAnalytic,
		ZoneID:   zid,
		Dim:      p.Dim,
		Meta:     meta | types.Scalar,
		QType:    source.QuadBary,
		Analytic: f,
	}
	p.SourceTerms = append(p.SourceTerms, d)
	return
}

// AddSourceTermByArray attaches a source term borrowing an externally
// owned per-entity array. loc says where the entries live (primal vertex,
// primal cell, ...); index, when non-nil, gives variable-stride access.
func (p *Params) AddSourceTermByArray(zoneName string, loc types.Flag,
	values []float64, index []int) (d *source.Definition, err error) {

	if values == nil {
		err = fmt.Errorf("equation %q: nil source-term array", p.Name)
		return
	}
	zid, meta, err := p.metaFor(zoneName)
	if err != nil {
		return
	}
	if loc.Has(types.PrimalCell) {
		meta |= types.ByCell
	}
	d = &source.Definition{
		Kind:   source.ByArray,
		ZoneID: zid,
		Dim:    p.Dim,
		Meta:   meta | types.Scalar,
		Array: &source.ArrayInput{
			Stride: p.Dim,
			Loc:    loc,
			Values: values,
			Index:  index,
		},
	}
	p.SourceTerms = append(p.SourceTerms, d)
	return
}

// AddSourceTermByDofFunc attaches a source term evaluated directly at
// degrees of freedom. The default quadrature differs here: per-sub-tet
// subdivision.
func (p *Params) AddSourceTermByDofFunc(zoneName string, f source.DofFunc) (d *source.Definition, err error) {
	if f == nil {
		err = fmt.Errorf("equation %q: nil DOF function", p.Name)
		return
	}
	zid, meta, err := p.metaFor(zoneName)
	if err != nil {
		return
	}
	d = &source.Definition{
		Kind:   source.ByDofFunc,
		ZoneID: zid,
		Dim:    p.Dim,
		Meta:   meta | types.Scalar,
		QType:  source.QuadBarySubdiv,
		Dof:    f,
	}
	p.SourceTerms = append(p.SourceTerms, d)
	return
}

// SetQuadratureAll applies one quadrature rule to every source term.
func (p *Params) SetQuadratureAll(q source.QuadType) {
	for _, d := range p.SourceTerms {
		d.SetQuadrature(q)
	}
}

// Setup is the classified, ready-to-run form of an equation's source
// terms: built once, reused every cell and every time step.
type Setup struct {
	Params   *Params
	MeshFlag types.MeshFlag
	SysFlag  types.SysFlag
	Evals    []source.CellwiseEval
	Mask     []source.Mask
}

// Setup classifies the source terms and builds the cell mask. The
// MeshFlag result tells the caller which geometry to put into each
// CellMesh before entering the cell loop.
func (p *Params) Setup() (s *Setup, err error) {
	meshFlag, sysFlag, evals, mask, err := source.Init(p.Name, p.Scheme, p.SourceTerms, p.Zones)
	if err != nil {
		return
	}
	s = &Setup{
		Params:   p,
		MeshFlag: meshFlag,
		SysFlag:  sysFlag,
		Evals:    evals,
		Mask:     mask,
	}
	return
}

// ComputeDomain evaluates every source term over every cell at time t,
// writing one local contribution slice per cell.
func (s *Setup) ComputeDomain(t float64, cms []*mesh.CellMesh, out [][]float64, parallelDegree int) {
	source.ComputeDomain(s.Params.Scheme, s.Params.SourceTerms, s.Evals,
		s.SysFlag, s.Mask, t, cms, out, parallelDegree)
}
