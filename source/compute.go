package source

import (
	"sync"

	"github.com/notargets/gocdo/mesh"
	"github.com/notargets/gocdo/types"
	"github.com/notargets/gocdo/utils"
)

/*
ComputeCellwise accumulates the local source-term contributions of one
cell. The values buffer is reset first, then every definition active on
this cell (per the mask, or unconditionally when mask is nil) runs its
bound evaluator in declaration order. Evaluators only ever add into the
buffer, so calling this twice on a zeroed buffer doubles the result and
nothing carries over between cells.

A nil definition is skipped defensively; a missing geometry quantity
inside an evaluator panics (caller contract violation).
*/
func ComputeCellwise(defs []*Definition, evals []CellwiseEval, t float64,
	cm *mesh.CellMesh, sysFlag types.SysFlag, mask []Mask,
	cb *CellBuilder, values []float64) {

	// Reset local contributions
	for i := range values {
		values[i] = 0
	}

	if !sysFlag.Has(types.SysSourceTerm) {
		return
	}

	if mask == nil { // all source terms cover the whole domain
		for i, d := range defs {
			evals[i](d, t, cm, cb, values)
		}
		return
	}

	cellMask := mask[cm.CID]
	for i, d := range defs {
		if cellMask&(Mask(1)<<uint(i)) != 0 {
			evals[i](d, t, cm, cb, values)
		}
	}
}

/*
ComputeDomain runs the cellwise dispatcher over every cell under a static
block partition: one goroutine per partition, one CellBuilder per
goroutine, no shared mutable state between cells. The out buffers are
caller-owned, one slice per cell sized to the scheme's local DOF count.
*/
func ComputeDomain(scheme Scheme, defs []*Definition, evals []CellwiseEval,
	sysFlag types.SysFlag, mask []Mask, t float64,
	cms []*mesh.CellMesh, out [][]float64, parallelDegree int) {

	var (
		maxVerts, maxEdges int
	)
	for _, cm := range cms {
		if cm.NVerts > maxVerts {
			maxVerts = cm.NVerts
		}
		if cm.NEdges > maxEdges {
			maxEdges = cm.NEdges
		}
	}

	if parallelDegree < 1 {
		parallelDegree = 1
	}
	if parallelDegree > len(cms) {
		parallelDegree = len(cms)
	}
	if parallelDegree == 0 {
		return
	}

	pm := utils.NewPartitionMap(parallelDegree, len(cms))
	var wg sync.WaitGroup
	for n := 0; n < parallelDegree; n++ {
		wg.Add(1)
		go func(bn int) {
			defer wg.Done()
			cb := NewCellBuilder(maxVerts, maxEdges)
			kMin, kMax := pm.GetBucketRange(bn)
			for c := kMin; c < kMax; c++ {
				cb.PrepareCell(scheme, sysFlag, cms[c])
				ComputeCellwise(defs, evals, t, cms[c], sysFlag, mask, cb, out[c])
			}
		}(n)
	}
	wg.Wait()
}
