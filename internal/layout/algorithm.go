package layout

import (
	"sort"
)

// assignRanks places every node on a rank using the longest path from the
// graph's sources.
//
// Back edges found by a depth-first search in node order are ignored, so a
// graph with cycles still gets a well-defined ranking. For every remaining
// edge u->v the result satisfies rank[u] < rank[v]; in an acyclic graph
// that is every edge.
//
// Parameters:
//   - g: the adjacency view, self loops already removed
//
// Returns:
//   - a slice indexed like the input nodes holding each node's rank
func assignRanks(g *graph) []int {
	back := findBackEdges(g)

	indegree := make([]int, g.n)
	for u := 0; u < g.n; u++ {
		for _, v := range g.succ[u] {
			if !back[edgeKey{u, v}] {
				indegree[v]++
			}
		}
	}

	// Kahn's algorithm; the queue is seeded and extended in node order
	queue := make([]int, 0, g.n)
	for v := 0; v < g.n; v++ {
		if indegree[v] == 0 {
			queue = append(queue, v)
		}
	}

	ranks := make([]int, g.n)
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		for _, v := range g.succ[u] {
			if back[edgeKey{u, v}] {
				continue
			}
			if ranks[u]+1 > ranks[v] {
				ranks[v] = ranks[u] + 1
			}
			indegree[v]--
			if indegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	return ranks
}

type edgeKey struct{ from, to int }

// findBackEdges runs an iterative depth-first search from every unvisited
// node in order and returns the edges that close a cycle.
func findBackEdges(g *graph) map[edgeKey]bool {
	const (
		white = iota
		grey
		black
	)
	color := make([]int, g.n)
	back := make(map[edgeKey]bool)

	type frame struct{ node, next int }
	for root := 0; root < g.n; root++ {
		if color[root] != white {
			continue
		}
		stack := []frame{{node: root}}
		color[root] = grey
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(g.succ[top.node]) {
				color[top.node] = black
				stack = stack[:len(stack)-1]
				continue
			}
			v := g.succ[top.node][top.next]
			top.next++
			switch color[v] {
			case white:
				color[v] = grey
				stack = append(stack, frame{node: v})
			case grey:
				back[edgeKey{top.node, v}] = true
			}
		}
	}
	return back
}

// buildLayers groups node indices by rank, keeping node order within a rank.
func buildLayers(g *graph, ranks []int) [][]int {
	maxRank := 0
	for _, r := range ranks {
		if r > maxRank {
			maxRank = r
		}
	}
	if g.n == 0 {
		return nil
	}
	layers := make([][]int, maxRank+1)
	for v := 0; v < g.n; v++ {
		layers[ranks[v]] = append(layers[ranks[v]], v)
	}
	return layers
}

// reduceCrossings reorders nodes within each layer with the barycenter
// heuristic.
//
// Each sweep alternates direction: even sweeps walk down the ranks and order
// a layer by the mean position of its neighbours in the rank above, odd
// sweeps walk up and use the rank below. Only neighbours in adjacent ranks
// count. A node without such neighbours keeps its current position as its
// barycenter. Sorting is stable, so ties keep their previous order.
//
// The ordering with the fewest crossings seen (the initial one included) is
// written back into layers.
//
// Returns:
//   - the number of crossings between adjacent ranks in the final ordering
func reduceCrossings(g *graph, ranks []int, layers [][]int, sweeps int) int {
	pos := make([]int, g.n)
	updatePositions := func() {
		for _, layer := range layers {
			for i, v := range layer {
				pos[v] = i
			}
		}
	}
	updatePositions()

	best := copyLayers(layers)
	bestCrossings := countCrossings(g, ranks, layers, pos)

	for sweep := 0; sweep < sweeps && bestCrossings > 0; sweep++ {
		if sweep%2 == 0 {
			for r := 1; r < len(layers); r++ {
				orderByBarycenter(layers[r], g.pred, ranks, r-1, pos)
				for i, v := range layers[r] {
					pos[v] = i
				}
			}
		} else {
			for r := len(layers) - 2; r >= 0; r-- {
				orderByBarycenter(layers[r], g.succ, ranks, r+1, pos)
				for i, v := range layers[r] {
					pos[v] = i
				}
			}
		}

		if c := countCrossings(g, ranks, layers, pos); c < bestCrossings {
			bestCrossings = c
			best = copyLayers(layers)
		}
	}

	for r := range layers {
		copy(layers[r], best[r])
	}
	return bestCrossings
}

func orderByBarycenter(layer []int, neighbours [][]int, ranks []int, fixedRank int, pos []int) {
	bary := make(map[int]float64, len(layer))
	for _, v := range layer {
		sum, count := 0.0, 0
		for _, u := range neighbours[v] {
			if ranks[u] == fixedRank {
				sum += float64(pos[u])
				count++
			}
		}
		if count == 0 {
			bary[v] = float64(pos[v])
			continue
		}
		bary[v] = sum / float64(count)
	}
	sort.SliceStable(layer, func(i, j int) bool {
		return bary[layer[i]] < bary[layer[j]]
	})
}

// countCrossings counts pairwise crossings of edges joining adjacent ranks.
func countCrossings(g *graph, ranks []int, layers [][]int, pos []int) int {
	total := 0
	for r := 0; r+1 < len(layers); r++ {
		var segs [][2]int
		for _, u := range layers[r] {
			for _, v := range g.succ[u] {
				if ranks[v] == r+1 {
					segs = append(segs, [2]int{pos[u], pos[v]})
				}
			}
		}
		for i := 0; i < len(segs); i++ {
			for j := i + 1; j < len(segs); j++ {
				a, b := segs[i], segs[j]
				if (a[0] < b[0] && a[1] > b[1]) || (a[0] > b[0] && a[1] < b[1]) {
					total++
				}
			}
		}
	}
	return total
}

func copyLayers(layers [][]int) [][]int {
	out := make([][]int, len(layers))
	for i, layer := range layers {
		out[i] = append([]int(nil), layer...)
	}
	return out
}

// assignCoordinates places node boxes. Ranks are spaced along the primary
// axis; nodes of a rank are spaced along the cross axis and each rank is
// centred on the widest one.
func assignCoordinates(out *Graph, layers [][]int, p *Params, dir Direction) {
	along, across := p.NodeHeight, p.NodeWidth
	if dir.horizontal() {
		along, across = p.NodeWidth, p.NodeHeight
	}

	widest := 0.0
	for _, layer := range layers {
		if w := spanOf(len(layer), across, p.NodeSpacing); w > widest {
			widest = w
		}
	}
	depth := spanOf(len(layers), along, p.RankSpacing)

	for r, layer := range layers {
		offset := (widest - spanOf(len(layer), across, p.NodeSpacing)) / 2
		primary := float64(r) * (along + p.RankSpacing)
		if dir == BottomToTop || dir == RightToLeft {
			primary = depth - along - primary
		}
		for i, v := range layer {
			secondary := offset + float64(i)*(across+p.NodeSpacing)
			node := &out.Nodes[v]
			node.Order = i
			if dir.horizontal() {
				node.Position = Point{X: primary, Y: secondary}
			} else {
				node.Position = Point{X: secondary, Y: primary}
			}
		}
	}

	if dir.horizontal() {
		out.Width, out.Height = depth, widest
	} else {
		out.Width, out.Height = widest, depth
	}
}

func spanOf(count int, size, gap float64) float64 {
	if count == 0 {
		return 0
	}
	return float64(count)*size + float64(count-1)*gap
}
