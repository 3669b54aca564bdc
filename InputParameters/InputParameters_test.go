package InputParameters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gocdo/mesh"
	"github.com/notargets/gocdo/source"
)

var caseYAML = []byte(`
Title: dual quadrature check
Scheme: VertexBased
FinalTime: 2.5
Equations:
  - Name: energy
    Dim: 1
    SourceTerms:
      - Type: value
        Value: [3.0]
      - Zone: left
        Type: analytic
        Function: coordX
        Quadrature: higher
`)

func TestCaseParameters(t *testing.T) {
	var cp CaseParameters
	assert.NoError(t, cp.Parse(caseYAML))
	{ // Parsed fields
		assert.Equal(t, "dual quadrature check", cp.Title)
		assert.Equal(t, "VertexBased", cp.Scheme)
		assert.Equal(t, 2.5, cp.FinalTime)
		assert.Equal(t, 1, len(cp.Equations))
		eq := cp.Equations[0]
		assert.Equal(t, "energy", eq.Name)
		assert.Equal(t, 2, len(eq.SourceTerms))
		assert.Equal(t, "left", eq.SourceTerms[1].Zone)
		assert.Equal(t, "higher", eq.SourceTerms[1].Quadrature)
	}

	zones := mesh.NewZoneRegistry(2)
	_, err := zones.Add("left", []int{0})
	assert.NoError(t, err)

	funcs := map[string]source.AnalyticFunc{
		"coordX": func(t float64, pts [][3]float64, res []float64) {
			for i, p := range pts {
				res[i] = p[0]
			}
		},
	}

	{ // Realized equations carry the case settings through
		eqs, err := cp.Realize(zones, funcs)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(eqs))
		p := eqs[0]
		assert.Equal(t, source.VertexBased, p.Scheme)
		assert.Equal(t, 2, len(p.SourceTerms))
		assert.Equal(t, source.QuadHigher, p.SourceTerms[1].QType)

		s, err := p.Setup()
		assert.NoError(t, err)

		cms := []*mesh.CellMesh{mesh.UnitTet(0), mesh.UnitTet(1)}
		out := [][]float64{
			make([]float64, p.Scheme.NumDOF(cms[0])),
			make([]float64, p.Scheme.NumDOF(cms[1])),
		}
		s.ComputeDomain(0, cms, out, 1)

		sum := func(vals []float64) (total float64) {
			for _, v := range vals {
				total += v
			}
			return
		}
		// cell 0: 3*V plus the integral of x over the reference tet (1/24)
		assert.True(t, near(sum(out[0]), 3.*cms[0].VolC+1./24.))
		assert.True(t, near(sum(out[1]), 3.*cms[1].VolC))
	}
	{ // Unknown names fail at realization
		_, err := cp.Realize(zones, nil)
		assert.Error(t, err) // coordX unresolved

		var bad CaseParameters
		assert.NoError(t, bad.Parse([]byte("Scheme: VertexBased\nEquations: [{Name: e, SourceTerms: [{Type: nope}]}]")))
		_, err = bad.Realize(zones, funcs)
		assert.Error(t, err)

		var badScheme CaseParameters
		assert.NoError(t, badScheme.Parse([]byte("Scheme: spectral")))
		_, err = badScheme.Realize(zones, funcs)
		assert.Error(t, err)
	}
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) <= 1.e-10*math.Max(1., math.Abs(a)) {
		l = true
	}
	return
}
