package layout

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is the primary axis along which ranks are stacked.
type Direction string

// Supported directions
const (
	TopToBottom Direction = "TB"
	BottomToTop Direction = "BT"
	LeftToRight Direction = "LR"
	RightToLeft Direction = "RL"
)

// ErrInvalidDirection is returned for an unknown direction string.
var ErrInvalidDirection = errors.New("invalid layout direction")

// ParseDirection parses a direction case-insensitively. Empty means TopToBottom.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case "", TopToBottom:
		return TopToBottom, nil
	case BottomToTop:
		return BottomToTop, nil
	case LeftToRight:
		return LeftToRight, nil
	case RightToLeft:
		return RightToLeft, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// horizontal reports whether ranks advance along the x axis.
func (d Direction) horizontal() bool {
	return d == LeftToRight || d == RightToLeft
}

// Params defines the geometry and effort of the layout.
type Params struct {
	// Node box
	NodeWidth  float64
	NodeHeight float64

	// Gap between neighbouring nodes of one rank, and between ranks
	NodeSpacing float64
	RankSpacing float64

	// Number of barycenter sweeps during crossing reduction
	Sweeps int
}

// NewDefaultParams returns a 180x60 box with 50 units of spacing and four sweeps.
func NewDefaultParams() *Params {
	return &Params{
		NodeWidth:   180,
		NodeHeight:  60,
		NodeSpacing: 50,
		RankSpacing: 50,
		Sweeps:      4,
	}
}

// NewParams creates Params, falling back to defaults for non-positive values.
// Sweeps may be zero to disable crossing reduction.
func NewParams(width, height, nodeSpacing, rankSpacing float64, sweeps int) *Params {
	p := NewDefaultParams()
	if width > 0 {
		p.NodeWidth = width
	}
	if height > 0 {
		p.NodeHeight = height
	}
	if nodeSpacing >= 0 {
		p.NodeSpacing = nodeSpacing
	}
	if rankSpacing >= 0 {
		p.RankSpacing = rankSpacing
	}
	if sweeps >= 0 {
		p.Sweeps = sweeps
	}
	return p
}
