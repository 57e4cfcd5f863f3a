package pathindex

import (
	"math"

	"github.com/bytearena/raceline/common/utils/vector"
)

const (
	nodeCapacity = 10
	maxDepth     = 8
	paddingRatio = 0.1
	minPadding   = 1.0
)

// Quadtree is a point quadtree over the path vertices
type Quadtree struct {
	path Path
	root *quadNode
}

type box struct {
	minx, miny, maxx, maxy float64
}

// distanceTo is 0 inside the box
func (b box) distanceTo(x, y float64) float64 {
	dx := math.Max(0, math.Max(b.minx-x, x-b.maxx))
	dy := math.Max(0, math.Max(b.miny-y, y-b.maxy))

	return math.Sqrt(dx*dx + dy*dy)
}

type quadNode struct {
	bounds   box
	depth    int
	indices  []int
	children *[4]*quadNode
}

func NewQuadtree(path Path) *Quadtree {
	q := &Quadtree{path: path.Clone()}

	if len(q.path) == 0 {
		return q
	}

	q.root = &quadNode{bounds: paddedBounds(q.path)}

	for i := range q.path {
		q.root.insert(q.path, i)
	}

	return q
}

func paddedBounds(path Path) box {
	b := box{
		minx: math.Inf(1), miny: math.Inf(1),
		maxx: math.Inf(-1), maxy: math.Inf(-1),
	}

	for _, p := range path {
		x, y := p.Get()
		b.minx = math.Min(b.minx, x)
		b.miny = math.Min(b.miny, y)
		b.maxx = math.Max(b.maxx, x)
		b.maxy = math.Max(b.maxy, y)
	}

	padding := math.Max(minPadding, paddingRatio*math.Max(b.maxx-b.minx, b.maxy-b.miny))

	b.minx -= padding
	b.miny -= padding
	b.maxx += padding
	b.maxy += padding

	return b
}

func (n *quadNode) insert(path Path, i int) {
	if n.children != nil {
		n.child(path[i]).insert(path, i)
		return
	}

	n.indices = append(n.indices, i)

	if len(n.indices) > nodeCapacity && n.depth < maxDepth {
		n.subdivide(path)
	}
}

func (n *quadNode) subdivide(path Path) {
	midx := (n.bounds.minx + n.bounds.maxx) / 2
	midy := (n.bounds.miny + n.bounds.maxy) / 2

	b := n.bounds
	n.children = &[4]*quadNode{
		{bounds: box{b.minx, b.miny, midx, midy}, depth: n.depth + 1},
		{bounds: box{midx, b.miny, b.maxx, midy}, depth: n.depth + 1},
		{bounds: box{b.minx, midy, midx, b.maxy}, depth: n.depth + 1},
		{bounds: box{midx, midy, b.maxx, b.maxy}, depth: n.depth + 1},
	}

	indices := n.indices
	n.indices = nil

	for _, i := range indices {
		n.child(path[i]).insert(path, i)
	}
}

// child picks the quadrant of p; lower bounds are inclusive
func (n *quadNode) child(p vector.Vector2) *quadNode {
	midx := (n.bounds.minx + n.bounds.maxx) / 2
	midy := (n.bounds.miny + n.bounds.maxy) / 2

	quadrant := 0
	if p.GetX() >= midx {
		quadrant++
	}
	if p.GetY() >= midy {
		quadrant += 2
	}

	return n.children[quadrant]
}

type candidate struct {
	index    int
	distance float64
}

func (n *quadNode) nearest(path Path, x, y float64, best *candidate) {
	if n.bounds.distanceTo(x, y) >= best.distance {
		return
	}

	if n.children == nil {
		for _, i := range n.indices {
			px, py := path[i].Get()
			d := math.Hypot(px-x, py-y)
			if d < best.distance {
				best.index = i
				best.distance = d
			}
		}
		return
	}

	var order [4]*quadNode
	var distances [4]float64

	// insertion sort of the 4 children by box distance
	for k, child := range n.children {
		d := child.bounds.distanceTo(x, y)
		j := k
		for j > 0 && distances[j-1] > d {
			order[j] = order[j-1]
			distances[j] = distances[j-1]
			j--
		}
		order[j] = child
		distances[j] = d
	}

	for _, child := range order {
		child.nearest(path, x, y, best)
	}
}

func (q *Quadtree) Nearest(p vector.Vector2) (int, float64) {
	if q.root == nil {
		return -1, 0
	}

	best := candidate{index: -1, distance: math.Inf(1)}
	x, y := p.Get()
	q.root.nearest(q.path, x, y, &best)

	if best.index < 0 {
		// only reachable when p is infinitely far
		return bruteForceNearest(q.path, p)
	}

	return best.index, best.distance
}

func (q *Quadtree) DistanceToPath(p vector.Vector2) float64 {
	if len(q.path) == 0 {
		return 0
	}

	closest, distance := q.Nearest(p)

	return refine(q.path, p, closest, distance)
}

func (q *Quadtree) Path() Path {
	return q.path
}

// Depth is the depth of the deepest node
func (q *Quadtree) Depth() int {
	if q.root == nil {
		return 0
	}

	return q.root.maxDepth()
}

func (n *quadNode) maxDepth() int {
	if n.children == nil {
		return n.depth
	}

	deepest := n.depth
	for _, child := range n.children {
		if d := child.maxDepth(); d > deepest {
			deepest = d
		}
	}

	return deepest
}
