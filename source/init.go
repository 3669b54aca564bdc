package source

import (
	"fmt"

	"github.com/notargets/gocdo/mesh"
	"github.com/notargets/gocdo/types"
)

// CellwiseEval integrates one source-term definition over one cell and
// accumulates the result into the caller's values buffer. Implementations
// never reset the buffer; the dispatcher owns zeroing.
type CellwiseEval func(d *Definition, t float64, cm *mesh.CellMesh, cb *CellBuilder, values []float64)

// Mask is the per-cell bitset of active source-term definitions: bit i is
// set for a cell iff definition i's zone contains it.
type Mask uint32

// MaxSourceTerms bounds the number of simultaneous source terms per
// equation to the Mask word width.
const MaxSourceTerms = 32

/*
Init classifies every definition of an equation against the chosen scheme:
it binds exactly one cellwise evaluator per definition, unions the
geometry those evaluators need into meshFlag, raises the system flags the
dispatcher consults, and builds the per-cell activity mask when at least
one definition does not span the full domain (mask stays nil otherwise).

Any (scheme, location, kind, quadrature) combination without an evaluator
is a configuration error naming the equation and the definition index.
*/
func Init(eqName string, scheme Scheme, defs []*Definition,
	zones *mesh.ZoneRegistry) (meshFlag types.MeshFlag, sysFlag types.SysFlag,
	evals []CellwiseEval, mask []Mask, err error) {

	if len(defs) > MaxSourceTerms {
		err = fmt.Errorf("equation %q: %d source terms exceed the limit of %d",
			eqName, len(defs), MaxSourceTerms)
		return
	}
	if len(defs) == 0 {
		return
	}

	evals = make([]CellwiseEval, len(defs))
	sysFlag |= types.SysSourceTerm

	var needMask bool
	for i, d := range defs {
		if d == nil {
			err = fmt.Errorf("equation %q: source term %d is an empty definition", eqName, i)
			return
		}

		if d.Meta.Has(types.Primal) &&
			(scheme == VertexBased || scheme == VertexCellBased) {
			meshFlag |= types.NeedPVQ | types.NeedDEQ | types.NeedPFQ |
				types.NeedEV | types.NeedFEQ | types.NeedHFQ
			sysFlag |= types.SysHodgeConf | types.SysSourcesHodge
		}

		if !d.Meta.Has(types.FullDomain) {
			needMask = true
		}

		var (
			flag types.MeshFlag
			eval CellwiseEval
		)
		flag, eval, err = classify(scheme, d)
		if err != nil {
			err = fmt.Errorf("equation %q, source term %d: %w", eqName, i, err)
			return
		}
		meshFlag |= flag
		evals[i] = eval
	}

	if needMask {
		mask, err = buildMask(eqName, defs, zones)
		if err != nil {
			return
		}
	}
	return
}

// classify picks the one evaluator for a definition under a scheme,
// branching on location, then kind, then quadrature order for analytic
// sources.
func classify(scheme Scheme, d *Definition) (flag types.MeshFlag, eval CellwiseEval, err error) {
	switch scheme {

	case VertexBased:
		if d.Meta.Has(types.Dual) {
			switch d.Kind {
			case ByValue:
				flag = types.NeedPVQ
				eval = dcsdByValue
			case ByArray:
				flag = types.NeedPVQ
				eval = dcsdByArray
			case ByDofFunc:
				flag = types.NeedPVQ
				eval = dcsdByDofFunc
			case ByAnalytic:
				switch d.QType {
				case QuadBary:
					flag = types.NeedPVQ | types.NeedEV | types.NeedPFQ |
						types.NeedHFQ | types.NeedFE | types.NeedFEQ
					eval = dcsdBaryByAnalytic
				case QuadBarySubdiv:
					flag = types.NeedEV | types.NeedPFQ | types.NeedHFQ |
						types.NeedFE | types.NeedFEQ
					eval = dcsdQ1O1ByAnalytic
				case QuadHigher:
					flag = types.NeedPFQ | types.NeedHFQ | types.NeedFE |
						types.NeedFEQ | types.NeedEV | types.NeedPVQ | types.NeedPEQ
					eval = dcsdQ10O2ByAnalytic
				case QuadHighest:
					flag = types.NeedPEQ | types.NeedPFQ | types.NeedFE | types.NeedEV
					eval = dcsdQ5O3ByAnalytic
				default:
					err = fmt.Errorf("invalid quadrature %v for a dual source term on a %v scheme",
						d.QType, scheme)
				}
			default:
				err = fmt.Errorf("invalid definition kind %v for a dual source term on a %v scheme",
					d.Kind, scheme)
			}
		} else {
			switch d.Kind {
			case ByValue:
				flag = types.NeedPV
				eval = pvspByValue
			case ByAnalytic:
				flag = types.NeedPV
				eval = pvspByAnalytic
			default:
				err = fmt.Errorf("invalid definition kind %v for a primal source term on a %v scheme",
					d.Kind, scheme)
			}
		}

	case VertexCellBased:
		if d.Meta.Has(types.Dual) {
			// Dual-located source terms are only implemented for plain
			// vertex-based schemes.
			err = fmt.Errorf("dual source terms are not supported on a %v scheme", scheme)
			return
		}
		switch d.Kind {
		case ByValue:
			flag = types.NeedPV
			eval = vcspByValue
		case ByAnalytic:
			flag = types.NeedPV
			eval = vcspByAnalytic
		default:
			err = fmt.Errorf("invalid definition kind %v for a source term on a %v scheme",
				d.Kind, scheme)
		}

	case FaceBased:
		switch d.Kind {
		case ByValue:
			eval = fbsdByValue
		case ByArray:
			eval = fbsdByArray
		case ByDofFunc:
			eval = fbsdByDofFunc
		case ByAnalytic:
			flag = types.NeedPV
			eval = fbsdBaryByAnalytic
		default:
			err = fmt.Errorf("invalid definition kind %v for a source term on a %v scheme",
				d.Kind, scheme)
		}

	default:
		err = fmt.Errorf("invalid scheme %v for setting source terms", scheme)
	}
	return
}

// buildMask ORs each definition's bit into the mask word of every cell its
// zone covers; full-domain definitions cover every cell. Runs once per
// equation setup.
func buildMask(eqName string, defs []*Definition, zones *mesh.ZoneRegistry) (mask []Mask, err error) {
	if zones == nil {
		err = fmt.Errorf("equation %q: zone-restricted source terms need a zone registry", eqName)
		return
	}
	mask = make([]Mask, zones.NCells)
	for i, d := range defs {
		bit := Mask(1) << uint(i)
		if d.Meta.Has(types.FullDomain) {
			for c := range mask {
				mask[c] |= bit
			}
			continue
		}
		if d.ZoneID < 0 || d.ZoneID >= zones.NZones() {
			err = fmt.Errorf("equation %q, source term %d: unknown zone id %d",
				eqName, i, d.ZoneID)
			return
		}
		for _, c := range zones.Cells(d.ZoneID) {
			mask[c] |= bit
		}
	}
	return
}
