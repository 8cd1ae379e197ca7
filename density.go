package osmspeed

import "math"

const (
	// Grid cell side in degrees of latitude (roughly 1.1 km)
	DENSITY_CELL_SIZE_DEGREES = 0.01
	// Graph nodes per neighborhood corresponding to one density unit
	DENSITY_NODES_PER_UNIT = 16
	// Relative density is clamped to [0..15]
	MAX_RELATIVE_DENSITY = 15
)

// DensityGrid estimates relative road density from graph node
// coordinates binned into a regular grid. Built once before edge
// processing; lookups are read-only and safe for concurrent use.
type DensityGrid struct {
	cellSize float64
	counts   map[[2]int]uint32
}

// BuildDensityGrid bins given node coordinates with the default cell size
func BuildDensityGrid(pts []GeoPoint) *DensityGrid {
	grid := &DensityGrid{
		cellSize: DENSITY_CELL_SIZE_DEGREES,
		counts:   make(map[[2]int]uint32),
	}
	for i := range pts {
		grid.counts[grid.cellOf(pts[i])]++
	}
	return grid
}

func (grid *DensityGrid) cellOf(pt GeoPoint) [2]int {
	return [2]int{
		int(math.Floor(pt.Lat / grid.cellSize)),
		int(math.Floor(pt.Lon / grid.cellSize)),
	}
}

// Density returns relative road density around given point: number of
// graph nodes in the 3x3 cell neighborhood scaled down and clamped to
// [0..MAX_RELATIVE_DENSITY]
func (grid *DensityGrid) Density(pt GeoPoint) uint32 {
	cell := grid.cellOf(pt)
	total := uint32(0)
	for dLat := -1; dLat <= 1; dLat++ {
		for dLon := -1; dLon <= 1; dLon++ {
			total += grid.counts[[2]int{cell[0] + dLat, cell[1] + dLon}]
		}
	}
	density := total / DENSITY_NODES_PER_UNIT
	if density > MAX_RELATIVE_DENSITY {
		return MAX_RELATIVE_DENSITY
	}
	return density
}

// EdgeDensity returns relative road density at the middle of given edge
func (grid *DensityGrid) EdgeDensity(edge *Edge) uint32 {
	if len(edge.Geom) == 0 {
		return 0
	}
	if len(edge.Geom) == 1 {
		return grid.Density(edge.Geom[0])
	}
	return grid.Density(middlePointSegment(edge.Geom[0], edge.Geom[len(edge.Geom)-1]))
}
