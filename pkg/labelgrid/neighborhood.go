package labelgrid

// Offset is a (dz, dy, dx) step to a neighbouring voxel.
type Offset struct {
	DZ, DY, DX int
}

// Neighborhood is a precomputed adjacency rule.
type Neighborhood []Offset

var (
	// Face6 joins voxels sharing a face: ±1 along exactly one axis.
	Face6 = Neighborhood{
		{0, 0, 1}, {0, 0, -1},
		{0, 1, 0}, {0, -1, 0},
		{1, 0, 0}, {-1, 0, 0},
	}

	// Full26 joins voxels sharing a face, an edge or a corner.
	Full26 = full26()

	// Plane8 joins pixels within one slice, diagonals included.
	Plane8 = Neighborhood{
		{0, -1, 0}, {0, -1, 1}, {0, 0, 1}, {0, 1, 1},
		{0, 1, 0}, {0, 1, -1}, {0, 0, -1}, {0, -1, -1},
	}
)

func full26() Neighborhood {
	n := make(Neighborhood, 0, 26)
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dz == 0 && dy == 0 && dx == 0 {
					continue
				}
				n = append(n, Offset{dz, dy, dx})
			}
		}
	}
	return n
}
