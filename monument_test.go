package monument_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringingworks/monument"
	"github.com/ringingworks/monument/method"
	"github.com/ringingworks/monument/pattern"
	"github.com/ringingworks/monument/row"
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

func TestNewSearchFindsPlainCourse(t *testing.T) {
	m := plainBobMinor(t)
	rounds := row.Rounds(6)

	runUp, err := pattern.ParsePattern("123456", row.Stage(6))
	require.NoError(t, err)

	params := monument.Parameters{
		Length:   monument.IntRange{Min: 1, Max: 100},
		NumComps: 5,
		Methods:  []*method.Method{m},
		StartRow: rounds,
		EndRow:   rounds,
		MusicTypes: []monument.MusicType{
			{Name: "rounds", Patterns: []pattern.Pattern{runUp}, Weight: 1},
		},
	}

	s, err := monument.NewSearch(params, monument.DefaultConfig())
	require.NoError(t, err)

	var comps []*monument.Composition
	var aborted atomic.Bool
	s.Run(func(u monument.Update) {
		if u.Comp != nil {
			comps = append(comps, u.Comp)
		}
	}, &aborted)

	require.NotEmpty(t, comps)
	for _, c := range comps {
		assert.GreaterOrEqual(t, c.Length(), params.Length.Min)
		assert.LessOrEqual(t, c.Length(), params.Length.Max)
		assert.NotEmpty(t, c.CallString())

		rows, err := c.Rows()
		require.NoError(t, err)
		assert.Len(t, rows, c.Length())
		assert.Equal(t, rounds, rows[0])
	}
}

func TestNewSearchRejectsIncompatibleStages(t *testing.T) {
	m := plainBobMinor(t)
	params := monument.Parameters{
		Length:   monument.IntRange{Min: 1, Max: 100},
		Methods:  []*method.Method{m},
		StartRow: row.Rounds(8),
		EndRow:   row.Rounds(8),
	}
	_, err := monument.NewSearch(params, monument.DefaultConfig())
	assert.ErrorIs(t, err, monument.ErrIncompatibleStages)
}

func TestNewSearchRejectsEmptyMethods(t *testing.T) {
	_, err := monument.NewSearch(monument.Parameters{}, monument.DefaultConfig())
	assert.ErrorIs(t, err, monument.ErrNoMethods)
}
