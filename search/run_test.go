package search_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringingworks/monument/compgraph"
	"github.com/ringingworks/monument/method"
	"github.com/ringingworks/monument/row"
	"github.com/ringingworks/monument/search"
)

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

func TestSearchFindsPlainCourse(t *testing.T) {
	m := plainBobMinor(t)
	rounds := row.Rounds(6)

	g, err := compgraph.BuildGraph(compgraph.BuildParams{
		Methods:        []*method.Method{m},
		StartRow:       rounds,
		EndRow:         rounds,
		LengthMax:      100,
		GraphSizeLimit: 10_000,
	})
	require.NoError(t, err)

	classes := g.Classes()
	table, err := compgraph.BuildFalsenessTable([]*method.Method{m}, classes)
	require.NoError(t, err)
	compgraph.ApplyFalseness(g, table)

	bounds := search.Bounds{
		LengthMin: 1,
		LengthMax: 100,
		NumParts:  1,
		NumComps:  5,
	}
	engine := search.NewEngine(g, bounds, search.DefaultConfig())

	var comps []*search.Composition
	var aborted atomic.Bool
	engine.Run(func(u search.Update) {
		if u.Comp != nil {
			comps = append(comps, u.Comp)
		}
	}, &aborted)

	assert.NotEmpty(t, comps)
	for _, c := range comps {
		assert.GreaterOrEqual(t, c.Length, bounds.LengthMin)
		assert.LessOrEqual(t, c.Length, bounds.LengthMax)
	}
}
