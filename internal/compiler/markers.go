package compiler

import (
	"math/rand/v2"

	"github.com/phrazzld/studygraph/internal/domain"
)

// QuestionMarker decorates every question node.
const QuestionMarker = "❓"

// conceptMarkers decorate title and description nodes.
var conceptMarkers = []string{"🧠", "📘", "💡", "🎯", "🚀", "🔍", "🛠️", "🌟"}

// MarkerPicker chooses the decorative marker for a node. Markers are
// presentation only and never influence identifiers, labels, or edges.
type MarkerPicker func(kind domain.NodeKind) string

// RandomMarkers picks a random concept marker for titles and descriptions.
func RandomMarkers(kind domain.NodeKind) string {
	if kind == domain.NodeKindQuestion {
		return QuestionMarker
	}
	return conceptMarkers[rand.IntN(len(conceptMarkers))]
}

// FixedMarkers always picks the first concept marker.
func FixedMarkers(kind domain.NodeKind) string {
	if kind == domain.NodeKindQuestion {
		return QuestionMarker
	}
	return conceptMarkers[0]
}

// NoMarkers leaves every node undecorated.
func NoMarkers(domain.NodeKind) string {
	return ""
}
