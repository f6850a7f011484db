package layout

import (
	"errors"
	"fmt"

	"github.com/phrazzld/studygraph/internal/domain"
)

// Layout errors
var (
	ErrDuplicateNode = errors.New("duplicate node id")
	ErrNilParams     = errors.New("layout params cannot be nil")
)

// Point is a position in layout space. For nodes it is the top-left corner
// of the node box.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PositionedNode is a concept node augmented with its computed placement.
// Identity fields of the embedded node are never changed.
type PositionedNode struct {
	domain.ConceptNode
	Position Point   `json:"position"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rank     int     `json:"rank"`
	Order    int     `json:"order"`
}

// Graph is a render-ready positioned graph. Edges pass through unchanged.
type Graph struct {
	Direction Direction            `json:"direction"`
	Nodes     []PositionedNode     `json:"nodes"`
	Edges     []domain.ConceptEdge `json:"edges"`
	Width     float64              `json:"width"`
	Height    float64              `json:"height"`
	Crossings int                  `json:"crossings"`
}

// Node returns the positioned node with the given id.
func (g *Graph) Node(id string) (PositionedNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PositionedNode{}, false
}

// Engine defines the interface for graph layout
type Engine interface {
	// Layout positions nodes in ranks along dir. Nodes keep their input
	// order in the result. Edges must reference known nodes; cycles and self
	// loops are tolerated.
	Layout(nodes []domain.ConceptNode, edges []domain.ConceptEdge, dir Direction) (*Graph, error)
}

// defaultEngine is the standard layered implementation of Engine
type defaultEngine struct {
	params *Params
}

// NewDefaultEngine creates a layout engine with default parameters
func NewDefaultEngine() Engine {
	return &defaultEngine{params: NewDefaultParams()}
}

// NewEngineWithParams creates a layout engine with custom parameters
func NewEngineWithParams(params *Params) Engine {
	if params == nil {
		panic(ErrNilParams)
	}
	return &defaultEngine{params: params}
}

// Layout implements the Engine interface
func (e *defaultEngine) Layout(
	nodes []domain.ConceptNode,
	edges []domain.ConceptEdge,
	dir Direction,
) (*Graph, error) {
	dir, err := ParseDirection(string(dir))
	if err != nil {
		return nil, err
	}

	g, err := buildGraph(nodes, edges)
	if err != nil {
		return nil, err
	}

	ranks := assignRanks(g)
	layers := buildLayers(g, ranks)
	crossings := reduceCrossings(g, ranks, layers, e.params.Sweeps)

	out := &Graph{
		Direction: dir,
		Nodes:     make([]PositionedNode, len(nodes)),
		Edges:     append([]domain.ConceptEdge{}, edges...),
		Crossings: crossings,
	}
	for i, n := range nodes {
		out.Nodes[i] = PositionedNode{
			ConceptNode: n,
			Width:       e.params.NodeWidth,
			Height:      e.params.NodeHeight,
			Rank:        ranks[i],
		}
	}
	assignCoordinates(out, layers, e.params, dir)

	return out, nil
}

// graph is the index-based adjacency view the phases work on.
type graph struct {
	n    int
	succ [][]int
	pred [][]int
}

func buildGraph(nodes []domain.ConceptNode, edges []domain.ConceptEdge) (*graph, error) {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, dup := index[n.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		index[n.ID] = i
	}

	g := &graph{
		n:    len(nodes),
		succ: make([][]int, len(nodes)),
		pred: make([][]int, len(nodes)),
	}
	for _, edge := range edges {
		s, okS := index[edge.Source]
		t, okT := index[edge.Target]
		if !okS || !okT {
			return nil, fmt.Errorf("%w: %s (%s -> %s)", domain.ErrDanglingEdge, edge.ID, edge.Source, edge.Target)
		}
		if s == t {
			continue
		}
		g.succ[s] = append(g.succ[s], t)
		g.pred[t] = append(g.pred[t], s)
	}
	return g, nil
}
