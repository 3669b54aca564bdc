package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/gocdo/types"
)

// FaceGeom holds the primal face quantities for one cell face.
type FaceGeom struct {
	Center [3]float64
	Normal [3]float64 // unit, outward
	Area   float64
}

// EdgeGeom holds the primal edge quantities for one cell edge.
type EdgeGeom struct {
	Center [3]float64
}

/*
CellMesh is the cell-local geometry context consumed by the source-term
evaluators. All connectivity is cell-local: vertex, edge and face numbers
run from zero inside the cell, with VIDs mapping local vertices back to
the global mesh for array- and DOF-based definitions.

The face-to-edge table is stored CSR style: edges of face f are
F2E[F2EIdx[f]:F2EIdx[f+1]], and TEF is aligned with F2E so that TEF[i] is
the area of the triangle (v1, v2, face center) spanned by edge F2E[i].
*/
type CellMesh struct {
	CID  int            // global cell id
	Flag types.MeshFlag // which quantities below are populated

	NVerts, NEdges, NFaces int

	VIDs []int        // global vertex ids, len NVerts
	XV   [][3]float64 // vertex coordinates
	XC   [3]float64   // cell center (volume centroid)
	VolC float64      // cell volume from the sub-tet decomposition
	WVC  []float64    // dual-cell volume fraction per vertex, sums to 1

	Edge []EdgeGeom
	E2V  [][2]int // vertex pair per edge

	Face   []FaceGeom
	F2EIdx []int     // len NFaces+1
	F2E    []int     // edge ids per face, loop order
	TEF    []float64 // sub-triangle areas, aligned with F2E
	HFC    []float64 // face center to cell center height, per face
}

// AssertFlag panics when a required geometry quantity was not built into
// this CellMesh. Evaluator bindings declare their needs at classification
// time, so hitting this is a caller contract violation, not a runtime
// condition.
func (cm *CellMesh) AssertFlag(need types.MeshFlag) {
	if !cm.Flag.Has(need) {
		panic(fmt.Errorf("cell %d: local geometry is missing required quantities: have %b, need %b",
			cm.CID, cm.Flag, need))
	}
}

// NewCellMesh builds the full geometry context of one polyhedral cell from
// its vertex coordinates and its faces given as outward-oriented vertex
// loops. Every quantity flag is set; callers that only need a subset can
// still use the result.
//
// The dual decomposition anchors one sub-tetrahedron at each
// (vertex, edge midpoint, face center, cell center) quadruple; the half
// pyramid volume tef*hfc/6 seen by each edge endpoint accumulates into
// that vertex's dual volume.
func NewCellMesh(cid int, vids []int, xv [][3]float64, faces [][]int) (cm *CellMesh, err error) {
	if len(vids) != len(xv) {
		err = fmt.Errorf("cell %d: %d vertex ids for %d coordinates", cid, len(vids), len(xv))
		return
	}
	cm = &CellMesh{
		CID:    cid,
		NVerts: len(xv),
		NFaces: len(faces),
		VIDs:   vids,
		XV:     xv,
	}

	cm.buildEdges(faces)
	cm.buildFaces(faces)
	if err = cm.buildCenterAndVolume(faces); err != nil {
		return
	}
	if err = cm.buildDualVolumes(); err != nil {
		return
	}

	cm.Flag = types.NeedPV | types.NeedPVQ | types.NeedPEQ | types.NeedPFQ |
		types.NeedDEQ | types.NeedEV | types.NeedFE | types.NeedFEQ | types.NeedHFQ
	return
}

// buildEdges assigns a cell-local edge id to every unique vertex pair
// appearing in the face loops and records the per-face edge lists.
func (cm *CellMesh) buildEdges(faces [][]int) {
	type vpair [2]int
	var (
		seen = make(map[vpair]int)
	)
	cm.F2EIdx = make([]int, cm.NFaces+1)
	for f, loop := range faces {
		cm.F2EIdx[f+1] = cm.F2EIdx[f] + len(loop)
		for i := range loop {
			v1, v2 := loop[i], loop[(i+1)%len(loop)]
			key := vpair{v1, v2}
			if v2 < v1 {
				key = vpair{v2, v1}
			}
			e, exists := seen[key]
			if !exists {
				e = len(cm.E2V)
				seen[key] = e
				cm.E2V = append(cm.E2V, [2]int{key[0], key[1]})
				var center [3]float64
				for k := 0; k < 3; k++ {
					center[k] = 0.5 * (cm.XV[key[0]][k] + cm.XV[key[1]][k])
				}
				cm.Edge = append(cm.Edge, EdgeGeom{Center: center})
			}
			cm.F2E = append(cm.F2E, e)
		}
	}
	cm.NEdges = len(cm.E2V)
}

// buildFaces computes each face's vector area, unit normal and area
// centroid by fanning triangles around the loop's vertex mean.
func (cm *CellMesh) buildFaces(faces [][]int) {
	cm.Face = make([]FaceGeom, cm.NFaces)
	for f, loop := range faces {
		var xm [3]float64
		for _, v := range loop {
			for k := 0; k < 3; k++ {
				xm[k] += cm.XV[v][k]
			}
		}
		inv := 1. / float64(len(loop))
		for k := 0; k < 3; k++ {
			xm[k] *= inv
		}

		var (
			vecArea [3]float64
			area    float64
			center  [3]float64
		)
		for i := range loop {
			v1, v2 := loop[i], loop[(i+1)%len(loop)]
			tri := triangleVecArea(cm.XV[v1], cm.XV[v2], xm)
			a := norm(tri)
			area += a
			for k := 0; k < 3; k++ {
				vecArea[k] += tri[k]
				center[k] += a * (cm.XV[v1][k] + cm.XV[v2][k] + xm[k]) / 3.
			}
		}
		for k := 0; k < 3; k++ {
			center[k] /= area
		}
		nrm := norm(vecArea)
		var unit [3]float64
		for k := 0; k < 3; k++ {
			unit[k] = vecArea[k] / nrm
		}
		cm.Face[f] = FaceGeom{Center: center, Normal: unit, Area: area}
	}
}

// buildCenterAndVolume integrates the cell volume and volume centroid from
// origin-anchored signed tetrahedra over the triangulated boundary, then
// derives the face heights hfc relative to the centroid.
func (cm *CellMesh) buildCenterAndVolume(faces [][]int) (err error) {
	var (
		vol      float64
		centroid [3]float64
		origin   = cm.XV[0]
	)
	for f, loop := range faces {
		xf := cm.Face[f].Center
		for i := range loop {
			v1, v2 := loop[i], loop[(i+1)%len(loop)]
			sv := signedTet(origin, cm.XV[v1], cm.XV[v2], xf)
			vol += sv
			for k := 0; k < 3; k++ {
				centroid[k] += sv * 0.25 * (origin[k] + cm.XV[v1][k] + cm.XV[v2][k] + xf[k])
			}
		}
	}
	if vol <= 0 {
		err = fmt.Errorf("cell %d: non-positive volume %g, check face orientation", cm.CID, vol)
		return
	}
	for k := 0; k < 3; k++ {
		cm.XC[k] = centroid[k] / vol
	}

	cm.HFC = make([]float64, cm.NFaces)
	for f := range faces {
		var h float64
		for k := 0; k < 3; k++ {
			h += (cm.Face[f].Center[k] - cm.XC[k]) * cm.Face[f].Normal[k]
		}
		if h <= 0 {
			err = fmt.Errorf("cell %d: face %d height %g is not positive, cell center outside or face inverted",
				cm.CID, f, h)
			return
		}
		cm.HFC[f] = h
	}
	return
}

// buildDualVolumes computes tef, the per-vertex dual volumes and wvc.
// VolC is taken from the decomposition itself so that the dual fractions
// sum to one exactly up to rounding.
func (cm *CellMesh) buildDualVolumes() (err error) {
	cm.TEF = make([]float64, len(cm.F2E))
	dual := make([]float64, cm.NVerts)
	var vol float64
	for f := 0; f < cm.NFaces; f++ {
		hfCoef := cm.HFC[f] / 6.
		for i := cm.F2EIdx[f]; i < cm.F2EIdx[f+1]; i++ {
			e := cm.F2E[i]
			v1, v2 := cm.E2V[e][0], cm.E2V[e][1]
			tef := norm(triangleVecArea(cm.XV[v1], cm.XV[v2], cm.Face[f].Center))
			cm.TEF[i] = tef
			halfPefVol := tef * hfCoef
			dual[v1] += halfPefVol
			dual[v2] += halfPefVol
			vol += 2. * halfPefVol
		}
	}
	if vol <= 0 {
		err = fmt.Errorf("cell %d: degenerate dual decomposition", cm.CID)
		return
	}
	cm.VolC = vol
	cm.WVC = make([]float64, cm.NVerts)
	for v := range dual {
		cm.WVC[v] = dual[v] / vol
	}
	return
}

func triangleVecArea(a, b, c [3]float64) (va [3]float64) {
	var (
		u = [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		w = [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	)
	va[0] = 0.5 * (u[1]*w[2] - u[2]*w[1])
	va[1] = 0.5 * (u[2]*w[0] - u[0]*w[2])
	va[2] = 0.5 * (u[0]*w[1] - u[1]*w[0])
	return
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func signedTet(a, b, c, d [3]float64) float64 {
	var (
		u = [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		v = [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		w = [3]float64{d[0] - a[0], d[1] - a[1], d[2] - a[2]}
	)
	det := u[0]*(v[1]*w[2]-v[2]*w[1]) -
		u[1]*(v[0]*w[2]-v[2]*w[0]) +
		u[2]*(v[0]*w[1]-v[1]*w[0])
	return det / 6.
}
