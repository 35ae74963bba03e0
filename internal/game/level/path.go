package level

import "container/heap"

// pathNode is one open-set entry of the A* search.
type pathNode struct {
	cell   Cell
	g, f   int
	parent *pathNode
	index  int
}

// pathHeap orders nodes by f cost.
type pathHeap []*pathNode

func (h pathHeap) Len() int           { return len(h) }
func (h pathHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h pathHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *pathHeap) Push(x any) {
	node := x.(*pathNode)
	node.index = len(*h)
	*h = append(*h, node)
}

func (h *pathHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[:n-1]
	return node
}

// steps are the four axis moves a ghost or the player can make.
var steps = [4]Cell{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// PathFinder searches 4-connected paths through open cells.
type PathFinder struct {
	grid *Grid
}

// NewPathFinder creates a pathfinder over g.
func NewPathFinder(g *Grid) *PathFinder {
	return &PathFinder{grid: g}
}

// FindPath returns the cells from start to goal inclusive, or nil when
// either end is blocked or no path exists.
func (pf *PathFinder) FindPath(start, goal Cell) []Cell {
	g := pf.grid
	if !g.IsOpen(start) || !g.IsOpen(goal) {
		return nil
	}

	open := &pathHeap{}
	closed := make(map[Cell]bool)
	nodes := make(map[Cell]*pathNode)

	first := &pathNode{cell: start, f: manhattan(start, goal)}
	heap.Push(open, first)
	nodes[start] = first

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if current.cell == goal {
			return reconstruct(current)
		}
		closed[current.cell] = true

		for _, d := range steps {
			next := Cell{current.cell.Row + d.Row, current.cell.Col + d.Col}
			if !g.IsOpen(next) || closed[next] {
				continue
			}
			cost := current.g + 1
			node, ok := nodes[next]
			switch {
			case !ok:
				node = &pathNode{cell: next, g: cost, f: cost + manhattan(next, goal), parent: current}
				nodes[next] = node
				heap.Push(open, node)
			case cost < node.g:
				node.g = cost
				node.f = cost + manhattan(next, goal)
				node.parent = current
				heap.Fix(open, node.index)
			}
		}
	}
	return nil
}

func manhattan(a, b Cell) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func reconstruct(node *pathNode) []Cell {
	var path []Cell
	for ; node != nil; node = node.parent {
		path = append(path, node.cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
