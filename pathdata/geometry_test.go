package pathdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinify_FoldsAxisAlignedLine(t *testing.T) {
	p, rem := Parse("M0 0L10 0L10 10")
	require.Empty(t, rem)
	out := Minify(p, MinifyOptions{Precision: -1, DeltaPrecision: -1})
	require.Len(t, out.Commands, 3)
	assert.Equal(t, HorizLineTo, out.Commands[1].Type)
	assert.Equal(t, VertLineTo, out.Commands[2].Type)
}

func TestMinify_CollapsesDegenerateCubicToLine(t *testing.T) {
	// A cubic whose control points lie on the line from (0,0) to (10,0).
	// The resulting line is horizontal, so it is written as H.
	p := Path{Commands: []Command{
		{Type: MoveTo, Args: []float64{0, 0}},
		{Type: CubicTo, Args: []float64{2, 0, 6, 0, 10, 0}},
	}}
	out := Minify(p, MinifyOptions{Precision: -1, DeltaPrecision: -1})
	require.Len(t, out.Commands, 2)
	assert.Equal(t, HorizLineTo, out.Commands[1].Type)
}

func TestMinify_DropsZeroLengthSegment(t *testing.T) {
	p := Path{Commands: []Command{
		{Type: MoveTo, Args: []float64{0, 0}},
		{Type: LineTo, Args: []float64{0, 0}},
		{Type: LineTo, Args: []float64{10, 0}},
	}}
	out := Minify(p, MinifyOptions{Precision: -1, DeltaPrecision: -1})
	require.Len(t, out.Commands, 2)
}

func TestMinify_CollapsesConsecutiveMove(t *testing.T) {
	p := Path{Commands: []Command{
		{Type: MoveTo, Args: []float64{0, 0}},
		{Type: MoveTo, Args: []float64{5, 5}},
		{Type: LineTo, Args: []float64{10, 10}},
	}}
	out := Minify(p, MinifyOptions{Precision: -1, DeltaPrecision: -1})
	require.Len(t, out.Commands, 2)
	assert.Equal(t, []float64{5, 5}, out.Commands[0].Args)
}

func TestMinify_RoundsPrecisionIndependently(t *testing.T) {
	p := Path{Commands: []Command{
		{Type: MoveTo, Args: []float64{0.12345, 0}},
		{Type: LineTo, Relative: true, Args: []float64{1.98765, 0}},
	}}
	out := Minify(p, MinifyOptions{Precision: 2, DeltaPrecision: 1})
	assert.InDelta(t, 0.12, out.Commands[0].Args[0], 1e-9)
}

func TestMinify_PromotesSmoothCubic(t *testing.T) {
	p := Path{Commands: []Command{
		{Type: MoveTo, Args: []float64{0, 0}},
		{Type: CubicTo, Args: []float64{0, 5, 5, 10, 10, 10}},
		{Type: CubicTo, Args: []float64{15, 10, 20, 5, 20, 0}},
	}}
	out := Minify(p, MinifyOptions{Precision: -1, DeltaPrecision: -1})
	require.Len(t, out.Commands, 3)
	assert.Equal(t, SmoothCubicTo, out.Commands[2].Type)
}
