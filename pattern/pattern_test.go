package pattern_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringingworks/monument/pattern"
	"github.com/ringingworks/monument/row"
)

func TestParsePatternToMask(t *testing.T) {
	p, err := pattern.ParsePattern("*5678", row.Stage(8))
	require.NoError(t, err)

	m, err := p.ToMask()
	require.NoError(t, err)
	assert.Equal(t, "xxxx5678", m.String())
}

func TestParsePatternRejectsMultipleStars(t *testing.T) {
	p, err := pattern.ParsePattern("*5*8", row.Stage(8))
	require.NoError(t, err)

	_, err = p.ToMask()
	assert.ErrorIs(t, err, pattern.ErrMultipleStars)
}

func TestParsePatternStarFreeMustMatchStage(t *testing.T) {
	p, err := pattern.ParsePattern("12345678", row.Stage(8))
	require.NoError(t, err)

	m, err := p.ToMask()
	require.NoError(t, err)
	assert.Equal(t, "12345678", m.String())

	p2, err := pattern.ParsePattern("1234", row.Stage(8))
	require.NoError(t, err)
	_, err = p2.ToMask()
	assert.ErrorIs(t, err, pattern.ErrStageMismatch)
}

func TestMaskToPatternRoundTrip(t *testing.T) {
	m, err := pattern.Parse("1xx45", row.Stage(5))
	require.NoError(t, err)

	p := pattern.MaskToPattern(m)
	m2, err := p.ToMask()
	require.NoError(t, err)
	assert.Equal(t, m.String(), m2.String())
}

func TestParsePatternUnknownBell(t *testing.T) {
	_, err := pattern.ParsePattern("5*#8", row.Stage(8))
	assert.ErrorIs(t, err, pattern.ErrUnknownBellName)
}
