package compgraph

import (
	"fmt"

	"github.com/ringingworks/monument/method"
	"github.com/ringingworks/monument/row"
)

// ChunkID identifies a Chunk uniquely within a Graph. Two chunks sharing a
// ChunkID are the same chunk. row.Row is a plain comparable string, so
// ChunkID is itself comparable and usable directly as a map key — no
// reference counting or interning is needed, unlike the Arc<Row> the
// original implementation used to make cloning cheap.
type ChunkID struct {
	LeadHead   row.Row
	Method     method.MethodIdx
	SubLeadIdx int
}

// Less gives ChunkID a total, deterministic (lexicographic) ordering. Multi-
// part expansion uses it to pick each equivalence class's representative.
func (id ChunkID) Less(other ChunkID) bool {
	if id.LeadHead != other.LeadHead {
		return id.LeadHead < other.LeadHead
	}
	if id.Method != other.Method {
		return id.Method < other.Method
	}
	return id.SubLeadIdx < other.SubLeadIdx
}

// String renders id for diagnostics.
func (id ChunkID) String() string {
	return fmt.Sprintf("%s,%d:%d", id.LeadHead, id.Method, id.SubLeadIdx)
}

// ChunkClass groups chunk ids that share a falseness profile: same method,
// same sub-lead index (the falseness table is computed once per class pair,
// not once per lead head).
type ChunkClass struct {
	Method     method.MethodIdx
	SubLeadIdx int
}

// Class returns the ChunkClass id belongs to.
func (id ChunkID) Class() ChunkClass {
	return ChunkClass{Method: id.Method, SubLeadIdx: id.SubLeadIdx}
}

// Rotation is an element of the part-head group: an integer modulo the
// number of parts, recording which part-head permutation is applied when
// traversing a Link.
type Rotation uint16

// EndKind distinguishes why a NodeRef denotes a composition end.
type EndKind uint8

const (
	// EndNone marks a NodeRef that isn't an end at all.
	EndNone EndKind = iota
	// EndNormal is an end reached by ringing to the designated end row.
	EndNormal
	// EndZeroLength is the sentinel "part-head end" introduced by
	// multi-part expansion: a non-zero-rotation rotation of a start,
	// rewritten as a zero-length end so the part-head group's closure is
	// enforced without ringing any extra rows.
	EndZeroLength
)

// NodeRef is one endpoint of a Link: either a concrete Chunk, or — once
// multi-part expansion runs — the zero-length-end sentinel.
type NodeRef struct {
	Chunk   ChunkID
	ZeroEnd bool
}

// LinkID indexes a Link within a Graph's Links map, analogous to the
// original's hand-rolled LinkSet: a plain incrementing counter, so links
// removed by the optimiser leave permanently dead IDs rather than being
// renumbered (any stale reference is simply ignored by iteration helpers,
// per the spec's "dangling references are tolerated" invariant).
type LinkID uint64

// Link is an edge between two chunks (or the start/end sentinel), taken
// either as a plain continuation or via a Call.
type Link struct {
	From NodeRef
	To   NodeRef
	// IsStart / IsEnd: From.Chunk / To.Chunk are meaningless (the sentinel
	// LinkSide::StartOrEnd) when the corresponding flag is set.
	IsStart bool
	IsEnd   bool

	Call       method.CallIdx
	HasCall    bool
	PHRotation Rotation
}
