package mesh

// NewTetCellMesh builds the geometry context of a single tetrahedron. The
// four vertices must form a positively oriented tet: SignedTetVolume of
// (xv[0], xv[1], xv[2], xv[3]) positive, faces are derived internally.
func NewTetCellMesh(cid int, vids []int, xv [][3]float64) (cm *CellMesh, err error) {
	// Outward-oriented triangular faces of a right-handed tet
	faces := [][]int{
		{0, 2, 1},
		{0, 1, 3},
		{1, 2, 3},
		{0, 3, 2},
	}
	return NewCellMesh(cid, vids, xv, faces)
}

// NewHexCellMesh builds the geometry context of a hexahedron with the
// conventional vertex numbering: 0-3 the bottom quad counterclockwise
// seen from below the cell (so its outward normal points down), 4-7 the
// top quad above them.
func NewHexCellMesh(cid int, vids []int, xv [][3]float64) (cm *CellMesh, err error) {
	faces := [][]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4},
		{1, 2, 6, 5},
		{2, 3, 7, 6},
		{3, 0, 4, 7},
	}
	return NewCellMesh(cid, vids, xv, faces)
}

// UnitTet returns the reference tetrahedron (0,0,0)-(1,0,0)-(0,1,0)-(0,0,1)
// with volume 1/6. Used by tests and the demo command.
func UnitTet(cid int) *CellMesh {
	cm, err := NewTetCellMesh(cid, []int{0, 1, 2, 3}, [][3]float64{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	})
	if err != nil {
		panic(err)
	}
	return cm
}

// UnitCube returns the unit cube with volume 1.
func UnitCube(cid int) *CellMesh {
	cm, err := NewHexCellMesh(cid, []int{0, 1, 2, 3, 4, 5, 6, 7}, [][3]float64{
		{0, 0, 0},
		{1, 0, 0},
		{1, 1, 0},
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 1},
		{1, 1, 1},
		{0, 1, 1},
	})
	if err != nil {
		panic(err)
	}
	return cm
}
