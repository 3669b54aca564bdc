package mesh

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"
)

// FullDomainZone is the reserved zone id meaning "every cell".
const FullDomainZone = 0

// ZoneRegistry resolves zone names to ids and zone ids to cell sets. Zone
// membership is kept as a zones x cells incidence matrix, assembled DOK
// first and compiled to CSR on first query so that per-zone cell lists and
// membership tests stay cheap during equation setup.
type ZoneRegistry struct {
	NCells int

	names   []string
	ids     map[string]int
	pending [][]int // cell ids per zone, consumed by compile
	csr     *sparse.CSR
}

func NewZoneRegistry(nCells int) (zr *ZoneRegistry) {
	zr = &ZoneRegistry{
		NCells:  nCells,
		names:   []string{""}, // id 0 is the full domain
		ids:     make(map[string]int),
		pending: [][]int{nil},
	}
	return
}

// Add registers a named zone covering the given cell ids and returns its
// id. Names must be unique; the empty name is reserved for the full
// domain.
func (zr *ZoneRegistry) Add(name string, cells []int) (id int, err error) {
	if name == "" {
		err = fmt.Errorf("the empty zone name is reserved for the full domain")
		return
	}
	if _, exists := zr.ids[name]; exists {
		err = fmt.Errorf("zone %q is already registered", name)
		return
	}
	if zr.csr != nil {
		err = fmt.Errorf("zone registry is already compiled, cannot add zone %q", name)
		return
	}
	for _, c := range cells {
		if c < 0 || c >= zr.NCells {
			err = fmt.Errorf("zone %q: cell id %d out of range [0,%d)", name, c, zr.NCells)
			return
		}
	}
	id = len(zr.names)
	zr.names = append(zr.names, name)
	zr.ids[name] = id
	zr.pending = append(zr.pending, cells)
	return
}

// ID resolves a zone name. The empty name is the full domain.
func (zr *ZoneRegistry) ID(name string) (id int, err error) {
	if name == "" {
		return FullDomainZone, nil
	}
	id, exists := zr.ids[name]
	if !exists {
		err = fmt.Errorf("unknown zone %q", name)
	}
	return
}

// NZones counts the registered zones, the full domain included.
func (zr *ZoneRegistry) NZones() int {
	return len(zr.names)
}

// Name returns the registered name of a zone id.
func (zr *ZoneRegistry) Name(id int) string {
	if id < 0 || id >= len(zr.names) {
		return fmt.Sprintf("zone#%d", id)
	}
	return zr.names[id]
}

// Cells returns the cell ids of zone id, nil for the full domain.
func (zr *ZoneRegistry) Cells(id int) (cells []int) {
	if id == FullDomainZone {
		return nil
	}
	zr.compile()
	zr.csr.DoRowNonZero(id, func(_, j int, _ float64) {
		cells = append(cells, j)
	})
	sort.Ints(cells)
	return
}

// Contains reports zone membership of one cell.
func (zr *ZoneRegistry) Contains(id, cell int) bool {
	if id == FullDomainZone {
		return true
	}
	zr.compile()
	return zr.csr.At(id, cell) != 0
}

func (zr *ZoneRegistry) compile() {
	if zr.csr != nil {
		return
	}
	dok := sparse.NewDOK(len(zr.names), zr.NCells)
	for id, cells := range zr.pending {
		for _, c := range cells {
			dok.Set(id, c, 1)
		}
	}
	zr.pending = nil
	zr.csr = dok.ToCSR()
}
