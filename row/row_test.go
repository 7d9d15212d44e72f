package row_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringingworks/monument/row"
)

func TestParseAndString(t *testing.T) {
	cases := []string{"1234", "13527486", "1234567890ET"}
	for _, s := range cases {
		r, err := row.Parse(s, row.Stage(len(s)))
		require.NoError(t, err)
		assert.Equal(t, s, r.String())
	}
}

func TestParseRejectsBadPermutation(t *testing.T) {
	_, err := row.Parse("1123", row.Stage(4))
	assert.ErrorIs(t, err, row.ErrNotAPermutation)

	_, err = row.Parse("123", row.Stage(4))
	assert.ErrorIs(t, err, row.ErrWrongLength)

	_, err = row.Parse("12#4", row.Stage(4))
	assert.ErrorIs(t, err, row.ErrUnknownBellName)
}

func TestRoundsIsIdentity(t *testing.T) {
	r := row.Rounds(8)
	assert.True(t, r.IsRounds())
	assert.Equal(t, "12345678", r.String())
}

func TestMulAndInverse(t *testing.T) {
	a := mustParse(t, "13527486")
	b := mustParse(t, "21436587") // plain bob lead-end transposition at minor... arbitrary valid row
	c, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, a.Stage(), c.Stage())

	inv := a.Inverse()
	rounds, err := a.Mul(inv)
	require.NoError(t, err)
	assert.True(t, rounds.IsRounds())

	rounds2, err := inv.Mul(a)
	require.NoError(t, err)
	assert.True(t, rounds2.IsRounds())
}

func TestMulRejectsStageMismatch(t *testing.T) {
	a := mustParse(t, "1234")
	b := mustParse(t, "123456")
	_, err := a.Mul(b)
	assert.ErrorIs(t, err, row.ErrStageMismatch)
}

func TestPlaceOf(t *testing.T) {
	r := mustParse(t, "13527486")
	place, ok := r.PlaceOf(row.Bell(4)) // bell '5' is Bell(4)
	require.True(t, ok)
	assert.Equal(t, 2, place)

	_, ok = r.PlaceOf(row.Bell(200))
	assert.False(t, ok)
}

func mustParse(t *testing.T, s string) row.Row {
	t.Helper()
	r, err := row.Parse(s, row.Stage(len(s)))
	require.NoError(t, err)
	return r
}
