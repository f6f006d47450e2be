package qrcode

// Region classifies a module by the structure it belongs to.
type Region uint8

const (
	RegionData      Region = iota
	RegionFinder           // position detection pattern plus its separator
	RegionAlignment        // 5x5 alignment patterns
	RegionTiming           // row and column 6
	RegionFormat           // format and version information, dark module
)

func (r Region) String() string {
	switch r {
	case RegionFinder:
		return "finder"
	case RegionAlignment:
		return "alignment"
	case RegionTiming:
		return "timing"
	case RegionFormat:
		return "format"
	default:
		return "data"
	}
}

// Structural reports whether the region's shape must be preserved exactly.
func (r Region) Structural() bool { return r != RegionData }

// Module is one cell of the grid.
type Module struct {
	Dark   bool
	Region Region
}

// Grid is an immutable QR symbol without quiet zone.
type Grid struct {
	version int
	level   Level
	size    int
	modules []Module
}

// Size is the edge length in modules (17 + 4*version).
func (g *Grid) Size() int { return g.size }

// Version is the QR version (1..40).
func (g *Grid) Version() int { return g.version }

// Level is the error-correction level the grid was encoded with.
func (g *Grid) Level() Level { return g.level }

// At returns the module at column x, row y. Out-of-range coordinates are
// reported as light data modules, which is what the quiet zone looks like.
func (g *Grid) At(x, y int) Module {
	if x < 0 || y < 0 || x >= g.size || y >= g.size {
		return Module{}
	}
	return g.modules[y*g.size+x]
}

// Dark reports whether the module at x, y is dark.
func (g *Grid) Dark(x, y int) bool { return g.At(x, y).Dark }

// Equal reports whether two grids have identical modules.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.size != o.size || g.version != o.version || g.level != o.level {
		return false
	}
	for i := range g.modules {
		if g.modules[i] != o.modules[i] {
			return false
		}
	}
	return true
}

func newGrid(version int, level Level, bitmap [][]bool) *Grid {
	size := len(bitmap)
	g := &Grid{version: version, level: level, size: size, modules: make([]Module, size*size)}
	centers := alignmentCenters(version)
	for y := range size {
		for x := range size {
			g.modules[y*size+x] = Module{
				Dark:   bitmap[y][x],
				Region: classify(version, size, centers, x, y),
			}
		}
	}
	return g
}

func classify(version, size int, centers []int, x, y int) Region {
	last := size - 8
	switch {
	case x < 8 && y < 8, x >= last && y < 8, x < 8 && y >= last:
		return RegionFinder
	case y == 8 && (x <= 8 || x >= last), x == 8 && (y <= 8 || y >= last):
		return RegionFormat
	case version >= 7 && ((y < 6 && x >= size-11 && x < size-8) || (x < 6 && y >= size-11 && y < size-8)):
		return RegionFormat
	}
	if inAlignment(centers, x, y) {
		return RegionAlignment
	}
	if x == 6 || y == 6 {
		return RegionTiming
	}
	return RegionData
}

func inAlignment(centers []int, x, y int) bool {
	n := len(centers)
	for i, cy := range centers {
		for j, cx := range centers {
			// the three corners occupied by finder patterns carry no alignment pattern
			if (i == 0 && j == 0) || (i == 0 && j == n-1) || (i == n-1 && j == 0) {
				continue
			}
			if x >= cx-2 && x <= cx+2 && y >= cy-2 && y <= cy+2 {
				return true
			}
		}
	}
	return false
}

// alignmentCenters returns the row/column coordinates of alignment pattern
// centers for a version (ISO/IEC 18004 Annex E).
func alignmentCenters(version int) []int {
	if version < 2 || version > len(alignmentTable)+1 {
		return nil
	}
	return alignmentTable[version-2]
}

var alignmentTable = [][]int{
	{6, 18},
	{6, 22},
	{6, 26},
	{6, 30},
	{6, 34},
	{6, 22, 38},
	{6, 24, 42},
	{6, 26, 46},
	{6, 28, 50},
	{6, 30, 54},
	{6, 32, 58},
	{6, 34, 62},
	{6, 26, 46, 66},
	{6, 26, 48, 70},
	{6, 26, 50, 74},
	{6, 30, 54, 78},
	{6, 30, 56, 82},
	{6, 30, 58, 86},
	{6, 34, 62, 90},
	{6, 28, 50, 72, 94},
	{6, 26, 50, 74, 98},
	{6, 30, 54, 78, 102},
	{6, 28, 54, 80, 106},
	{6, 32, 58, 84, 110},
	{6, 30, 58, 86, 114},
	{6, 34, 62, 90, 118},
	{6, 26, 50, 74, 98, 122},
	{6, 30, 54, 78, 102, 126},
	{6, 26, 52, 78, 104, 130},
	{6, 30, 56, 82, 108, 134},
	{6, 34, 60, 86, 112, 138},
	{6, 30, 58, 86, 114, 142},
	{6, 34, 62, 90, 118, 146},
	{6, 30, 54, 78, 102, 126, 150},
	{6, 24, 50, 76, 102, 128, 154},
	{6, 28, 54, 80, 106, 132, 158},
	{6, 32, 58, 84, 110, 136, 162},
	{6, 26, 54, 82, 110, 138, 166},
	{6, 30, 58, 86, 114, 142, 170},
}
