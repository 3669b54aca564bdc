/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"runtime"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/gocdo/InputParameters"
	"github.com/notargets/gocdo/mesh"
	"github.com/notargets/gocdo/source"
)

// IntegrateCmd represents the integrate command
var IntegrateCmd = &cobra.Command{
	Use:   "integrate",
	Short: "Evaluate case-file source terms over a synthetic mesh",
	Long: `
Builds a synthetic mesh of unit cells, reads the equations and source
terms from a YAML case file, and reports the integrated contribution of
every equation,

gocdo integrate -F case.yaml -k 1000`,
	Run: func(cmd *cobra.Command, args []string) {
		mi := &ModelIntegrate{}
		mi.CaseFile, _ = cmd.Flags().GetString("caseFile")
		mi.K, _ = cmd.Flags().GetInt("k")
		mi.NP, _ = cmd.Flags().GetInt("nprocs")
		mi.Time, _ = cmd.Flags().GetFloat64("time")
		mi.Profile, _ = cmd.Flags().GetBool("profile")
		if mi.NP == 0 {
			mi.NP = runtime.NumCPU()
		}
		RunIntegrate(mi)
	},
}

func init() {
	rootCmd.AddCommand(IntegrateCmd)
	IntegrateCmd.Flags().StringP("caseFile", "F", "", "YAML case file with equations and source terms")
	IntegrateCmd.Flags().IntP("k", "k", 1000, "Number of cells in the synthetic mesh")
	IntegrateCmd.Flags().IntP("nprocs", "n", 0, "Parallel degree of the cell loop, default NumCPU")
	IntegrateCmd.Flags().Float64P("time", "t", 0, "Evaluation time passed to analytic source terms")
	IntegrateCmd.Flags().Bool("profile", false, "Enable CPU profiling")
}

type ModelIntegrate struct {
	CaseFile string
	K        int
	NP       int
	Time     float64
	Profile  bool
}

func RunIntegrate(mi *ModelIntegrate) {
	if mi.Profile {
		defer profile.Start(profile.CPUProfile).Stop()
	}
	if mi.CaseFile == "" {
		fmt.Println("integrate: a case file is required (-F case.yaml)")
		os.Exit(1)
	}
	data, err := ioutil.ReadFile(mi.CaseFile)
	if err != nil {
		fmt.Printf("unable to read case file: %v\n", err)
		os.Exit(1)
	}

	var cp InputParameters.CaseParameters
	if err = cp.Parse(data); err != nil {
		fmt.Printf("unable to parse case file: %v\n", err)
		os.Exit(1)
	}
	cp.Print()

	cms, zones := buildSyntheticMesh(mi.K)

	eqs, err := cp.Realize(zones, builtinFunctions())
	if err != nil {
		fmt.Printf("case setup failed: %v\n", err)
		os.Exit(1)
	}

	for _, eq := range eqs {
		setup, err := eq.Setup()
		if err != nil {
			fmt.Printf("classification failed: %v\n", err)
			os.Exit(1)
		}

		out := make([][]float64, len(cms))
		for c, cm := range cms {
			out[c] = make([]float64, eq.Scheme.NumDOF(cm))
		}

		setup.ComputeDomain(mi.Time, cms, out, mi.NP)

		var total float64
		for _, vals := range out {
			for _, v := range vals {
				total += v
			}
		}
		fmt.Printf("Equation[%s]: total source contribution = %14.8g over %d cells\n",
			eq.Name, total, len(cms))
	}
}

// buildSyntheticMesh lays out k unit tetrahedra along the x axis and
// registers a "left" zone covering the first half of them.
func buildSyntheticMesh(k int) (cms []*mesh.CellMesh, zones *mesh.ZoneRegistry) {
	cms = make([]*mesh.CellMesh, k)
	for c := 0; c < k; c++ {
		dx := float64(c)
		cm, err := mesh.NewTetCellMesh(c, []int{4 * c, 4*c + 1, 4*c + 2, 4*c + 3},
			[][3]float64{
				{dx, 0, 0},
				{dx + 1, 0, 0},
				{dx, 1, 0},
				{dx, 0, 1},
			})
		if err != nil {
			panic(err)
		}
		cms[c] = cm
	}

	zones = mesh.NewZoneRegistry(k)
	left := make([]int, 0, k/2)
	for c := 0; c < k/2; c++ {
		left = append(left, c)
	}
	if _, err := zones.Add("left", left); err != nil {
		panic(err)
	}
	return
}

// builtinFunctions is the analytic registry available to case files.
func builtinFunctions() map[string]source.AnalyticFunc {
	return map[string]source.AnalyticFunc{
		"coordX": func(t float64, pts [][3]float64, res []float64) {
			for i, p := range pts {
				res[i] = p[0]
			}
		},
		"radiusSq": func(t float64, pts [][3]float64, res []float64) {
			for i, p := range pts {
				res[i] = p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
			}
		},
		"rampInTime": func(t float64, pts [][3]float64, res []float64) {
			for i := range pts {
				res[i] = t
			}
		},
	}
}
