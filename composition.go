package monument

import (
	"strings"

	"github.com/ringingworks/monument/compgraph"
	"github.com/ringingworks/monument/row"
	"github.com/ringingworks/monument/search"
)

// Composition is a completed, validated composition found by a Search.
// It wraps the internal search.Composition with enough of the owning
// Search's configuration to render a human-readable call string and
// replay the actual row sequence.
type Composition struct {
	owner *Search
	inner *search.Composition
}

// GenerationNumber is the 1-based order in which Search.Run emitted this
// composition.
func (c *Composition) GenerationNumber() uint64 { return c.inner.GenerationNumber }

// Length returns the number of rows in the composition (all parts).
func (c *Composition) Length() int { return c.inner.Length }

// TotalScore returns the composition's accumulated music score.
func (c *Composition) TotalScore() float64 { return c.inner.TotalScore }

// AverageScore returns TotalScore divided by Length.
func (c *Composition) AverageScore() float64 {
	if c.inner.Length == 0 {
		return 0
	}
	return c.inner.TotalScore / float64(c.inner.Length)
}

// MethodCounts returns the number of rows rung of each method, indexed the
// same way as the Parameters.Methods slice that produced this Search.
func (c *Composition) MethodCounts() []int {
	return append([]int(nil), c.inner.MethodCounts...)
}

// MusicCounts returns the raw hit count of each MusicType, indexed the
// same way as Parameters.MusicTypes.
func (c *Composition) MusicCounts() []uint64 {
	return append([]uint64(nil), c.inner.MusicCounts...)
}

// MusicScore returns the weighted score contributed by music alone (the
// same quantity folded into TotalScore, reported separately).
func (c *Composition) MusicScore() float64 {
	var total float64
	for i, count := range c.inner.MusicCounts {
		if i < len(c.owner.params.MusicTypes) {
			total += c.owner.params.MusicTypes[i].Weight * float64(count)
		}
	}
	return total
}

// TotalDuffer returns the total number of rows spent in duffer (non-musical)
// courses.
func (c *Composition) TotalDuffer() int { return c.inner.TotalDuffer }

// ContiguousDufferLengths returns the length of every maximal run of
// consecutive duffer rows in the composition.
func (c *Composition) ContiguousDufferLengths() []int {
	return append([]int(nil), c.inner.ContiguousDufferLengths...)
}

// PartHead returns the row reached at the end of the first part: rounds for
// a single-part composition.
func (c *Composition) PartHead() row.Row {
	return c.owner.partHead
}

// actualStartRow returns the row rung at the start of the chunk identified
// by id, derived from its lead head and the method's template row at that
// sub-lead index.
func (c *Composition) actualStartRow(id compgraph.ChunkID) row.Row {
	m := c.owner.methods[id.Method]
	return id.LeadHead.MustMul(m.RowAt(id.SubLeadIdx))
}

// CallString renders a human-readable summary of the calling of this
// composition, e.g. "D[B]BL[W]N[M]SE[sH]NCYW[sH]": one shorthand letter per
// lead covered by each method (when spliced, or when the display style asks
// for positional symbols), a bracketed call symbol at each call (bracketed
// whenever the method text would otherwise make the call ambiguous, i.e.
// when spliced or the style is positional), and angle brackets marking a
// snap start or finish.
func (c *Composition) CallString() string {
	style := c.owner.params.CallDisplayStyle
	spliced := len(c.owner.methods) > 1
	needsBrackets := spliced || !style.callingPositions

	path := c.inner.Path
	if len(path) == 0 {
		return ""
	}

	isSnapStart := path[0].Chunk.SubLeadIdx > 0
	lastChunk := c.owner.graph.Chunks[path[len(path)-1].Chunk]
	lastMethod := c.owner.methods[path[len(path)-1].Chunk.Method]
	isSnapFinish := lastChunk != nil && (path[len(path)-1].Chunk.SubLeadIdx+lastChunk.PerPartLength)%lastMethod.LeadLength() > 0

	var b strings.Builder
	if isSnapStart {
		b.WriteByte('<')
	}

	for i, elem := range path {
		chunk := c.owner.graph.Chunks[elem.Chunk]
		if chunk == nil {
			continue
		}
		m := c.owner.methods[elem.Chunk.Method]

		if spliced || !style.callingPositions {
			leads := numLeadsCovered(m.LeadLength(), elem.Chunk.SubLeadIdx, chunk.PerPartLength)
			for n := 0; n < leads; n++ {
				b.WriteString(m.Shorthand())
			}
		}

		link := c.owner.graph.Links[elem.Link]
		if link == nil || !link.HasCall {
			continue
		}
		call := c.owner.calls[link.Call]

		if needsBrackets {
			b.WriteByte('[')
		}
		if style.callingPositions {
			rowAfterCall := c.rowAfterCall(i)
			place, ok := rowAfterCall.PlaceOf(style.callingBell)
			symbol := call.Shorthand
			if ok {
				symbol += call.CallingPositionAt(place)
			}
			b.WriteString(symbol)
		} else {
			b.WriteString(call.Shorthand)
		}
		if needsBrackets {
			b.WriteByte(']')
		}
	}

	if isSnapFinish {
		b.WriteByte('>')
	}
	return b.String()
}

// rowAfterCall returns the row rung immediately after the call ending
// path[i], i.e. the start row of path[i+1], or the composition's part head
// if path[i] is the final element.
func (c *Composition) rowAfterCall(i int) row.Row {
	path := c.inner.Path
	if i+1 < len(path) {
		return c.actualStartRow(path[i+1].Chunk)
	}
	return c.PartHead()
}

// numLeadsCovered returns the number of leads any part of the segment
// [startSubLeadIdx, startSubLeadIdx+length) touches, counting a segment
// that starts mid-lead as covering that lead too.
func numLeadsCovered(leadLen, startSubLeadIdx, length int) int {
	distToEndOfFirstLead := leadLen - startSubLeadIdx
	rowsAfterFirstLead := length - distToEndOfFirstLead
	if rowsAfterFirstLead < 0 {
		rowsAfterFirstLead = 0
	}
	return divRoundingUp(rowsAfterFirstLead, leadLen) + 1
}

func divRoundingUp(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// Rows reconstructs the full sequence of rows rung by this composition,
// replaying each path element through its method's lead block, then
// repeating the first part NumParts times, each repetition p transposed by
// the part head raised to the pth power (rounds for p=0).
func (c *Composition) Rows() ([]row.Row, error) {
	firstPart := make([]row.Row, 0, c.inner.Length/maxInt(c.owner.numParts, 1)+8)

	for _, elem := range c.inner.Path {
		chunk := c.owner.graph.Chunks[elem.Chunk]
		if chunk == nil {
			continue
		}
		m := c.owner.methods[elem.Chunk.Method]
		leadHead := elem.Chunk.LeadHead

		start := elem.Chunk.SubLeadIdx
		for i := 0; i < chunk.PerPartLength; i++ {
			actual, err := leadHead.Mul(m.RowAt(start + i))
			if err != nil {
				return nil, err
			}
			firstPart = append(firstPart, actual)
		}
		// A call (if elem.Link carries one) changes what comes next, not any
		// row already appended: the next path element's own lead head
		// already reflects the call's transposition, computed once at graph
		// build time, so nothing further needs splicing in here.
	}

	numParts := maxInt(c.owner.numParts, 1)
	out := make([]row.Row, 0, len(firstPart)*numParts)
	for p := 0; p < numParts; p++ {
		ph := c.owner.partHeadPower(compgraph.Rotation(p))
		for _, r := range firstPart {
			transposed, err := ph.Mul(r)
			if err != nil {
				return nil, err
			}
			out = append(out, transposed)
		}
	}
	return out, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
