package compiler

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/phrazzld/studygraph/internal/domain"
)

// IDAllocator hands out identifiers for nodes and edges. Every call must
// return an identifier that has not been returned before.
type IDAllocator interface {
	NodeID(kind domain.NodeKind) string
	EdgeID(source, target string) string
}

// UUIDAllocator allocates random UUID based identifiers.
type UUIDAllocator struct{}

var _ IDAllocator = UUIDAllocator{}

// NodeID implements IDAllocator.
func (UUIDAllocator) NodeID(kind domain.NodeKind) string {
	return nodePrefix(kind) + uuid.NewString()
}

// EdgeID implements IDAllocator.
func (UUIDAllocator) EdgeID(_, _ string) string {
	return "e-" + uuid.NewString()
}

// SequentialAllocator allocates counter based identifiers. It is
// deterministic and intended for tests and reproducible output.
type SequentialAllocator struct {
	next atomic.Int64
}

var _ IDAllocator = (*SequentialAllocator)(nil)

// NodeID implements IDAllocator.
func (a *SequentialAllocator) NodeID(kind domain.NodeKind) string {
	return nodePrefix(kind) + strconv.FormatInt(a.next.Add(1), 10)
}

// EdgeID implements IDAllocator.
func (a *SequentialAllocator) EdgeID(_, _ string) string {
	return "e-" + strconv.FormatInt(a.next.Add(1), 10)
}

func nodePrefix(kind domain.NodeKind) string {
	switch kind {
	case domain.NodeKindTitle:
		return "node-"
	case domain.NodeKindDescription:
		return "desc-"
	case domain.NodeKindQuestion:
		return "q-"
	default:
		return "n-"
	}
}
