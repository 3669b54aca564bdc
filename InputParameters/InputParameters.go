package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/gocdo/equation"
	"github.com/notargets/gocdo/mesh"
	"github.com/notargets/gocdo/source"
)

// Parameters obtained from the YAML case file
type CaseParameters struct {
	Title     string         `yaml:"Title"`
	Scheme    string         `yaml:"Scheme"`
	FinalTime float64        `yaml:"FinalTime"`
	Equations []EquationSpec `yaml:"Equations"`
}

type EquationSpec struct {
	Name        string           `yaml:"Name"`
	Dim         int              `yaml:"Dim"`
	SourceTerms []SourceTermSpec `yaml:"SourceTerms"`
}

type SourceTermSpec struct {
	Zone       string    `yaml:"Zone"` // empty = full domain
	Type       string    `yaml:"Type"` // value | analytic
	Value      []float64 `yaml:"Value"`
	Function   string    `yaml:"Function"` // name in the analytic registry
	Quadrature string    `yaml:"Quadrature"`
}

func (cp *CaseParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, cp)
}

func (cp *CaseParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", cp.Title)
	fmt.Printf("[%s]\t\t= Scheme\n", cp.Scheme)
	fmt.Printf("%8.5f\t\t= FinalTime\n", cp.FinalTime)
	for _, eq := range cp.Equations {
		fmt.Printf("Equation[%s]: dim = %d, %d source terms\n",
			eq.Name, eq.Dim, len(eq.SourceTerms))
		for _, st := range eq.SourceTerms {
			zone := st.Zone
			if zone == "" {
				zone = "<full domain>"
			}
			fmt.Printf("\t%s on %s", st.Type, zone)
			if st.Type == "analytic" {
				fmt.Printf(", f = %s, quadrature = %s", st.Function, st.Quadrature)
			}
			fmt.Printf("\n")
		}
	}
}

// Realize turns the parsed case into equation parameter sets, resolving
// zone names against the registry and analytic function names against the
// caller-supplied registry.
func (cp *CaseParameters) Realize(zones *mesh.ZoneRegistry,
	funcs map[string]source.AnalyticFunc) (eqs []*equation.Params, err error) {

	scheme, err := source.ParseScheme(cp.Scheme)
	if err != nil {
		return
	}

	for _, spec := range cp.Equations {
		dim := spec.Dim
		if dim == 0 {
			dim = 1
		}
		var p *equation.Params
		p, err = equation.NewParams(spec.Name, dim, scheme, zones)
		if err != nil {
			return
		}

		for i, st := range spec.SourceTerms {
			switch st.Type {
			case "value":
				_, err = p.AddSourceTermByValue(st.Zone, st.Value)
			case "analytic":
				f, exists := funcs[st.Function]
				if !exists {
					err = fmt.Errorf("equation %q, source term %d: unknown function %q",
						spec.Name, i, st.Function)
					return
				}
				var d *source.Definition
				d, err = p.AddSourceTermByAnalytic(st.Zone, f)
				if err == nil {
					var q source.QuadType
					if q, err = source.ParseQuadType(st.Quadrature); err == nil {
						d.SetQuadrature(q)
					}
				}
			default:
				err = fmt.Errorf("equation %q, source term %d: unknown type %q",
					spec.Name, i, st.Type)
			}
			if err != nil {
				err = fmt.Errorf("equation %q, source term %d: %w", spec.Name, i, err)
				return
			}
		}
		eqs = append(eqs, p)
	}
	return
}
