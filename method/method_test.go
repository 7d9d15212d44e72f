package method_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringingworks/monument/method"
	"github.com/ringingworks/monument/row"
)

// plainBobMinorLeadBlock builds the 12-row lead block of Plain Bob Minor
// (stage 6), a small enough method to hand-check in a test.
func plainBobMinorLeadBlock(t *testing.T) []row.Row {
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
	return rows
}

func TestNewMethodRejectsEmptyLeadBlock(t *testing.T) {
	_, err := method.NewMethod("Empty", "E", nil, nil)
	assert.ErrorIs(t, err, method.ErrEmptyLeadBlock)
}

func TestNewMethodRejectsStageMismatch(t *testing.T) {
	a, err := row.Parse("1234", row.Stage(4))
	require.NoError(t, err)
	b, err := row.Parse("123456", row.Stage(6))
	require.NoError(t, err)
	_, err = method.NewMethod("Bad", "B", []row.Row{a, b}, nil)
	assert.ErrorIs(t, err, method.ErrStageMismatch)
}

func TestLeadEndAlwaysLabelled(t *testing.T) {
	leadBlock := plainBobMinorLeadBlock(t)
	m, err := method.NewMethod("Plain Bob Minor", "P", leadBlock, nil)
	require.NoError(t, err)
	assert.True(t, m.IsLabelled(0))
	assert.Equal(t, "LE", m.LabelAt(0))
}

func TestNextLabelledIndexWrapsToLeadEnd(t *testing.T) {
	leadBlock := plainBobMinorLeadBlock(t)
	m, err := method.NewMethod("Plain Bob Minor", "P", leadBlock, map[int]string{6: "B"})
	require.NoError(t, err)

	assert.Equal(t, 6, m.NextLabelledIndex(0))
	assert.Equal(t, 0, m.NextLabelledIndex(6))
	assert.Equal(t, 6, m.SegmentLength(0))
	assert.Equal(t, 6, m.SegmentLength(6))
}

func TestPlainCourseReturnsToRounds(t *testing.T) {
	leadBlock := plainBobMinorLeadBlock(t)
	m, err := method.NewMethod("Plain Bob Minor", "P", leadBlock, nil)
	require.NoError(t, err)

	course, err := m.PlainCourse()
	require.NoError(t, err)
	assert.NotEmpty(t, course)
	assert.True(t, len(course)%len(leadBlock) == 0)
}

func TestCallSymbolAt(t *testing.T) {
	bob, err := row.Parse("125436", row.Stage(6))
	require.NoError(t, err)
	call, err := method.NewCall("-", bob, "LE", "LE", -1)
	require.NoError(t, err)

	assert.Equal(t, "-", call.SymbolAt(0))
	assert.Equal(t, "", call.SymbolAt(1))

	err = call.Validate(row.Stage(6))
	require.NoError(t, err)
	err = call.Validate(row.Stage(8))
	assert.ErrorIs(t, err, method.ErrCallStageMismatch)
}
