package pathdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize_OmitsRepeatedLetter(t *testing.T) {
	p := Path{Commands: []Command{
		{Type: MoveTo, Args: []float64{0, 0}},
		{Type: LineTo, Args: []float64{10, 10}},
		{Type: LineTo, Args: []float64{20, 20}},
	}}
	assert.Equal(t, "M0 0L10 10 20 20", p.Serialize(SerializeOptions{}))
}

func TestSerialize_NeverOmitsRepeatedMove(t *testing.T) {
	p := Path{Commands: []Command{
		{Type: MoveTo, Args: []float64{0, 0}},
		{Type: MoveTo, Args: []float64{10, 10}},
	}}
	assert.Equal(t, "M0 0M10 10", p.Serialize(SerializeOptions{}))
}

func TestSerialize_NegativeNeedsNoSeparator(t *testing.T) {
	p := Path{Commands: []Command{
		{Type: MoveTo, Args: []float64{0, -10}},
	}}
	assert.Equal(t, "M0-10", p.Serialize(SerializeOptions{}))
}

func TestSerialize_DotAfterIntegerNeedsSeparator(t *testing.T) {
	p := Path{Commands: []Command{
		{Type: MoveTo, Args: []float64{1, 0.5}},
	}}
	// "1" has no '.', so ".5" would misparse as the fraction of "1" if
	// concatenated directly; a separator is required.
	assert.Equal(t, "M1 .5", p.Serialize(SerializeOptions{}))
}

func TestSerialize_DotAfterDotOmitted(t *testing.T) {
	p := Path{Commands: []Command{
		{Type: MoveTo, Args: []float64{1.5, 0.5}},
	}}
	assert.Equal(t, "M1.5.5", p.Serialize(SerializeOptions{}))
}

func TestFormatNumber_StripsLeadingZero(t *testing.T) {
	assert.Equal(t, ".5", formatNumber(0.5))
	assert.Equal(t, "-.5", formatNumber(-0.5))
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "10", formatNumber(10))
}

func TestRoundTrip_ParseSerialize(t *testing.T) {
	d := "M10 10L20 20 30 10Z"
	p, rem := Parse(d)
	require.Empty(t, rem)
	assert.Equal(t, "M10 10L20 20 30 10Z", p.Serialize(SerializeOptions{}))
}
