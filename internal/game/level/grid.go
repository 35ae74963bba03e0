// Package level holds the static maze: an occupancy grid centred on the
// world origin, the player start cell and the ghost spawn pool.
package level

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/ghostmaze/pkg/math"
)

// Occupancy values stored in the grid.
const (
	Open uint8 = 0
	Wall uint8 = 1
)

// Errors returned by New, Parse and Validate.
var (
	ErrInvalidLevel = errors.New("invalid level")
	ErrUnreachable  = errors.New("cell unreachable from start")
)

// Cell addresses one grid square. Rows run along +Z, columns along +X.
type Cell struct {
	Row, Col int
}

// String returns "row,col".
func (c Cell) String() string {
	return fmt.Sprintf("%d,%d", c.Row, c.Col)
}

// Grid is a square occupancy grid spanning -Extent/2..Extent/2 on X and Z.
type Grid struct {
	Name   string
	cells  [][]uint8
	size   int
	extent float32
	cell   float32

	Start  Cell
	Spawns []Cell
}

// New creates a grid from rows of occupancy values. Every row must have
// len(cells) entries.
func New(cells [][]uint8, extent float32) (*Grid, error) {
	n := len(cells)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrInvalidLevel)
	}
	if extent <= 0 {
		return nil, fmt.Errorf("%w: extent %v", ErrInvalidLevel, extent)
	}
	for r, row := range cells {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidLevel, r, len(row), n)
		}
		for c, v := range row {
			if v != Open && v != Wall {
				return nil, fmt.Errorf("%w: cell %d,%d has value %d", ErrInvalidLevel, r, c, v)
			}
		}
	}
	return &Grid{
		cells:  cells,
		size:   n,
		extent: extent,
		cell:   extent / float32(n),
	}, nil
}

// Size returns the number of rows (and columns).
func (g *Grid) Size() int { return g.size }

// Extent returns the world-space side length of the grid.
func (g *Grid) Extent() float32 { return g.extent }

// CellSize returns the world-space side length of one cell.
func (g *Grid) CellSize() float32 { return g.cell }

// InBounds reports whether c addresses a grid cell.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.size && c.Col >= 0 && c.Col < g.size
}

// IsOpen reports whether c is inside the grid and not a wall.
func (g *Grid) IsOpen(c Cell) bool {
	return g.InBounds(c) && g.cells[c.Row][c.Col] == Open
}

// CellAt maps a world position on the XZ plane to its cell. The result may
// be out of bounds.
func (g *Grid) CellAt(x, z float32) Cell {
	half := g.extent / 2
	return Cell{
		Row: int(math32.Floor((z + half) / g.cell)),
		Col: int(math32.Floor((x + half) / g.cell)),
	}
}

// IsBlocked reports whether the world position lies in a wall or outside
// the grid.
func (g *Grid) IsBlocked(x, z float32) bool {
	return !g.IsOpen(g.CellAt(x, z))
}

// CellCenter returns the world position of the centre of c at y = 0.
func (g *Grid) CellCenter(c Cell) math.Vec3 {
	half := g.extent / 2
	return math.Vec3{
		X: float32(c.Col)*g.cell - half + g.cell/2,
		Z: float32(c.Row)*g.cell - half + g.cell/2,
	}
}

// Walls returns every wall cell in row-major order.
func (g *Grid) Walls() []Cell {
	var walls []Cell
	for r, row := range g.cells {
		for c, v := range row {
			if v == Wall {
				walls = append(walls, Cell{r, c})
			}
		}
	}
	return walls
}

// StartPosition returns the world position of the player start cell.
func (g *Grid) StartPosition() math.Vec3 {
	return g.CellCenter(g.Start)
}

// SpawnPositions returns the world positions of the spawn pool.
func (g *Grid) SpawnPositions() []math.Vec3 {
	out := make([]math.Vec3, len(g.Spawns))
	for i, c := range g.Spawns {
		out[i] = g.CellCenter(c)
	}
	return out
}

// Validate checks that the start and every spawn are open and that each
// spawn can be reached from the start.
func (g *Grid) Validate() error {
	var errs []error
	if !g.IsOpen(g.Start) {
		errs = append(errs, fmt.Errorf("%w: start %v is not an open cell", ErrInvalidLevel, g.Start))
	}
	seen := make(map[Cell]bool, len(g.Spawns))
	for _, s := range g.Spawns {
		switch {
		case !g.IsOpen(s):
			errs = append(errs, fmt.Errorf("%w: spawn %v is not an open cell", ErrInvalidLevel, s))
		case seen[s]:
			errs = append(errs, fmt.Errorf("%w: spawn %v listed twice", ErrInvalidLevel, s))
		}
		seen[s] = true
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	pf := NewPathFinder(g)
	for _, s := range g.Spawns {
		if pf.FindPath(g.Start, s) == nil {
			errs = append(errs, fmt.Errorf("spawn %v: %w", s, ErrUnreachable))
		}
	}
	return errors.Join(errs...)
}
