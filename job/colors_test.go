package job

import (
	"testing"

	"github.com/optisvg/optisvg/dom"
	"github.com/stretchr/testify/require"
)

func TestConvertColors_CurrentColorMethod(t *testing.T) {
	d := mustParse(t, `<svg><g color="black"/><path fill="rgb(64, 64, 64)"/></svg>`)
	require.NoError(t, dom.Walk(d, &ConvertColors{Method: "currentColor"}))
	out, err := dom.Serialize(d)
	require.NoError(t, err)
	require.Contains(t, out, `color="currentColor"`)
	require.Contains(t, out, `fill="currentColor"`)
}

func TestConvertColors_CurrentColorMethod_LeavesNoneAlone(t *testing.T) {
	d := mustParse(t, `<svg><rect fill="none" stroke="currentColor"/></svg>`)
	require.NoError(t, dom.Walk(d, &ConvertColors{Method: "currentColor"}))
	out, err := dom.Serialize(d)
	require.NoError(t, err)
	require.Contains(t, out, `fill="none"`)
	require.Contains(t, out, `stroke="currentColor"`)
}
