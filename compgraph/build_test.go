package compgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringingworks/monument/compgraph"
	"github.com/ringingworks/monument/method"
	"github.com/ringingworks/monument/row"
)

// plainBobMinor builds a minimal Method for Plain Bob Minor (stage 6), with
// a bob at the lead end replacing places 3 and 4.
func plainBobMinor(t *testing.T) *method.Method {
	t.Helper()
	rowStrings := []string{
		"123456", "214365", "241635", "426153", "462513", "645231",
		"654321", "563412", "536142", "351624", "315264", "132546",
	}
	rows := make([]row.Row, len(rowStrings))
	for i, s := range rowStrings {
		r, err := row.Parse(s, row.Stage(6))
		require.NoError(t, err)
		rows[i] = r
	}
	m, err := method.NewMethod("Plain Bob Minor", "P", rows, nil)
	require.NoError(t, err)
	return m
}

func TestBuildGraphFindsPlainCourse(t *testing.T) {
	m := plainBobMinor(t)
	rounds := row.Rounds(6)

	params := compgraph.BuildParams{
		Methods:        []*method.Method{m},
		StartRow:       rounds,
		EndRow:         rounds,
		LengthMax:      200,
		GraphSizeLimit: 10_000,
	}

	g, err := compgraph.BuildGraph(params)
	require.NoError(t, err)
	assert.NotEmpty(t, g.Chunks)
	assert.NotEmpty(t, g.Starts)
	assert.NotEmpty(t, g.Ends)
}

func TestBuildGraphRejectsMismatchedStage(t *testing.T) {
	m := plainBobMinor(t)
	badStart, err := row.Parse("1234", row.Stage(4))
	require.NoError(t, err)

	params := compgraph.BuildParams{
		Methods:        []*method.Method{m},
		StartRow:       badStart,
		EndRow:         badStart,
		LengthMax:      200,
		GraphSizeLimit: 10_000,
	}
	_, err = compgraph.BuildGraph(params)
	assert.ErrorIs(t, err, compgraph.ErrIncompatibleStages)
}

func TestBuildGraphTooLarge(t *testing.T) {
	m := plainBobMinor(t)
	rounds := row.Rounds(6)

	params := compgraph.BuildParams{
		Methods:        []*method.Method{m},
		StartRow:       rounds,
		EndRow:         rounds,
		LengthMax:      200,
		GraphSizeLimit: 1,
	}
	_, err := compgraph.BuildGraph(params)
	assert.ErrorIs(t, err, compgraph.ErrGraphTooLarge)
}

func TestFalsenessTableSelfFalse(t *testing.T) {
	m := plainBobMinor(t)
	classes := []compgraph.ChunkClass{{Method: 0, SubLeadIdx: 0}}
	table, err := compgraph.BuildFalsenessTable([]*method.Method{m}, classes)
	require.NoError(t, err)

	rounds := row.Rounds(6)
	id := compgraph.ChunkID{LeadHead: rounds, Method: 0, SubLeadIdx: 0}
	assert.True(t, table.AreFalse(id, id))
}

// TestFalsenessTableAsymmetricCollision checks a non-degenerate case: two
// distinct classes (different methods, so ra != rb), related by lead heads
// that are themselves non-identity, whose actual rows collide. Regression
// test for a formula mismatch between BuildFalsenessTable (which must store
// ra*rb⁻¹) and AreFalse's query (ha⁻¹*hb) — ra=231, rb=132, ha=rounds,
// hb=213 make ha*ra == hb*rb == 231, so the chunks are genuinely false.
func TestFalsenessTableAsymmetricCollision(t *testing.T) {
	ra, err := row.Parse("231", row.Stage(3))
	require.NoError(t, err)
	rb, err := row.Parse("132", row.Stage(3))
	require.NoError(t, err)
	hb, err := row.Parse("213", row.Stage(3))
	require.NoError(t, err)
	rounds := row.Rounds(3)

	methodA, err := method.NewMethod("A", "A", []row.Row{ra, rounds}, map[int]string{1: "x"})
	require.NoError(t, err)
	methodB, err := method.NewMethod("B", "B", []row.Row{rb, rounds}, map[int]string{1: "x"})
	require.NoError(t, err)

	classA := compgraph.ChunkClass{Method: 0, SubLeadIdx: 0}
	classB := compgraph.ChunkClass{Method: 1, SubLeadIdx: 0}
	table, err := compgraph.BuildFalsenessTable([]*method.Method{methodA, methodB}, []compgraph.ChunkClass{classA, classB})
	require.NoError(t, err)

	idA := compgraph.ChunkID{LeadHead: rounds, Method: 0, SubLeadIdx: 0}
	idB := compgraph.ChunkID{LeadHead: hb, Method: 1, SubLeadIdx: 0}
	assert.True(t, table.AreFalse(idA, idB), "actual rows both resolve to 231, chunks must be false")

	// A different lead head for b (rounds instead of hb) makes the actual
	// rows genuinely distinct (231 vs 132): not false.
	idBTrue := compgraph.ChunkID{LeadHead: rounds, Method: 1, SubLeadIdx: 0}
	assert.False(t, table.AreFalse(idA, idBTrue))
}

func TestOptimiseConverges(t *testing.T) {
	m := plainBobMinor(t)
	rounds := row.Rounds(6)

	params := compgraph.BuildParams{
		Methods:        []*method.Method{m},
		StartRow:       rounds,
		EndRow:         rounds,
		LengthMax:      200,
		GraphSizeLimit: 10_000,
	}
	g, err := compgraph.BuildGraph(params)
	require.NoError(t, err)

	classes := g.Classes()
	table, err := compgraph.BuildFalsenessTable([]*method.Method{m}, classes)
	require.NoError(t, err)
	compgraph.ApplyFalseness(g, table)

	passes := compgraph.StandardPasses(200, 0, []int{1000})
	err = compgraph.Optimise(g, passes)
	require.NoError(t, err)
}
