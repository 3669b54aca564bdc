package quadrature

import "math"

// Tetrahedral quadrature rules used by the dual-cell source-term
// evaluators. Each rule returns physical-space points and weights already
// scaled by the tetrahedron volume, so that sum(w_i * f(x_i)) approximates
// the integral of f over the tet.

const (
	oneThird = 1. / 3.
	oneSixth = 1. / 6.
)

// SignedTetVolume returns the signed volume of the tetrahedron (a,b,c,d),
// positive when (b-a, c-a, d-a) form a right-handed triple.
func SignedTetVolume(a, b, c, d [3]float64) (vol float64) {
	var (
		u = [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		v = [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		w = [3]float64{d[0] - a[0], d[1] - a[1], d[2] - a[2]}
	)
	vol = u[0]*(v[1]*w[2]-v[2]*w[1]) -
		u[1]*(v[0]*w[2]-v[2]*w[0]) +
		u[2]*(v[0]*w[1]-v[1]*w[0])
	vol *= oneSixth
	return
}

// TetVolume returns the absolute volume of the tetrahedron (a,b,c,d).
func TetVolume(a, b, c, d [3]float64) float64 {
	return math.Abs(SignedTetVolume(a, b, c, d))
}

// Tet1Pt is the barycenter rule, exact for affine integrands.
func Tet1Pt(a, b, c, d [3]float64, vol float64) (pts [1][3]float64, weights [1]float64) {
	for k := 0; k < 3; k++ {
		pts[0][k] = 0.25 * (a[k] + b[k] + c[k] + d[k])
	}
	weights[0] = vol
	return
}

// Tet4Pts is the symmetric four-point rule, exact for quadratic
// integrands. Barycentric coordinates (b4a three times, b4b once) at each
// point, each carrying a quarter of the volume.
func Tet4Pts(a, b, c, d [3]float64, vol float64) (pts [4][3]float64, weights [4]float64) {
	var (
		b4a = 0.25 - 0.05*math.Sqrt(5.) // (5 - sqrt(5))/20
		b4b = 0.25 + 0.15*math.Sqrt(5.) // (5 + 3*sqrt(5))/20
		w   = 0.25 * vol
	)
	verts := [4][3]float64{a, b, c, d}
	for p := 0; p < 4; p++ {
		for k := 0; k < 3; k++ {
			pts[p][k] = b4a * (a[k] + b[k] + c[k] + d[k])
			pts[p][k] += (b4b - b4a) * verts[p][k]
		}
		weights[p] = w
	}
	return
}

// Tet5Pts is the five-point Keast rule, exact for cubic integrands: four
// points at barycentric (1/2, 1/6, 1/6, 1/6) weighted 9/20 of the volume
// and the barycenter weighted -4/5.
func Tet5Pts(a, b, c, d [3]float64, vol float64) (pts [5][3]float64, weights [5]float64) {
	var (
		wp = 0.45 * vol // 9/20
		wc = -0.8 * vol // -4/5
	)
	verts := [4][3]float64{a, b, c, d}
	for p := 0; p < 4; p++ {
		for k := 0; k < 3; k++ {
			pts[p][k] = oneSixth * (a[k] + b[k] + c[k] + d[k])
			pts[p][k] += oneThird * verts[p][k]
		}
		weights[p] = wp
	}
	for k := 0; k < 3; k++ {
		pts[4][k] = 0.25 * (a[k] + b[k] + c[k] + d[k])
	}
	weights[4] = wc
	return
}
