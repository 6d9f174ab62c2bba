package pathdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Basic(t *testing.T) {
	p, rem := Parse("M10 20L30 40")
	require.Empty(t, rem)
	require.Len(t, p.Commands, 2)
	assert.Equal(t, MoveTo, p.Commands[0].Type)
	assert.Equal(t, []float64{10, 20}, p.Commands[0].Args)
	assert.Equal(t, LineTo, p.Commands[1].Type)
	assert.Equal(t, []float64{30, 40}, p.Commands[1].Args)
}

func TestParse_ImplicitRepeat(t *testing.T) {
	p, rem := Parse("M0 0 10 10 20 20")
	require.Empty(t, rem)
	require.Len(t, p.Commands, 3)
	assert.Equal(t, MoveTo, p.Commands[0].Type)
	assert.Equal(t, LineTo, p.Commands[1].Type)
	assert.Equal(t, LineTo, p.Commands[2].Type)
}

func TestParse_NoLeadingSeparator(t *testing.T) {
	p, rem := Parse("M0-10L-5.5.5")
	require.Empty(t, rem)
	require.Len(t, p.Commands, 2)
	assert.Equal(t, []float64{0, -10}, p.Commands[0].Args)
	assert.Equal(t, []float64{-5.5, 0.5}, p.Commands[1].Args)
}

func TestParse_MustStartWithMove(t *testing.T) {
	p, rem := Parse("L10 20")
	assert.Empty(t, p.Commands)
	assert.Equal(t, "L10 20", rem)
}

func TestParse_DegradesGracefully(t *testing.T) {
	p, rem := Parse("M0 0 L10 10 X garbage")
	require.Len(t, p.Commands, 2)
	assert.Equal(t, "X garbage", rem)
}

func TestParse_ArcFlags(t *testing.T) {
	p, rem := Parse("M0 0A5 5 0 1110 0")
	require.Empty(t, rem)
	require.Len(t, p.Commands, 2)
	arc := p.Commands[1]
	require.Equal(t, ArcTo, arc.Type)
	assert.Equal(t, []float64{5, 5, 0, 1, 1, 10, 0}, arc.Args)
}

func TestParse_Empty(t *testing.T) {
	p, rem := Parse("")
	assert.Empty(t, p.Commands)
	assert.Empty(t, rem)
}
