package job

import (
	"testing"

	"github.com/optisvg/optisvg/dom"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *dom.Document {
	t.Helper()
	d, err := dom.Parse(src)
	require.NoError(t, err)
	return d
}

func TestRemoveComments(t *testing.T) {
	d := mustParse(t, `<svg><!-- drop me --><rect/></svg>`)
	require.NoError(t, dom.Walk(d, &RemoveComments{}))
	out, err := dom.Serialize(d)
	require.NoError(t, err)
	require.NotContains(t, out, "drop me")
}

func TestRemoveComments_Preserved(t *testing.T) {
	d := mustParse(t, `<svg><!-- @license MIT --><rect/></svg>`)
	require.NoError(t, dom.Walk(d, &RemoveComments{PreservePatterns: []string{"@license"}}))
	out, err := dom.Serialize(d)
	require.NoError(t, err)
	require.Contains(t, out, "@license")
}

func TestRemoveEmptyContainers(t *testing.T) {
	d := mustParse(t, `<svg><g></g><g><rect/></g></svg>`)
	require.NoError(t, dom.Walk(d, &RemoveEmptyContainers{}))
	out, err := dom.Serialize(d)
	require.NoError(t, err)
	require.Equal(t, 1, countSubstr(out, "<g>")+countSubstr(out, "<g/>"))
}

func countSubstr(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}

func TestCollapseGroups(t *testing.T) {
	d := mustParse(t, `<svg><g><rect/><circle/></g></svg>`)
	require.NoError(t, dom.Walk(d, &CollapseGroups{}))
	svg := d.ChildAt(d.Root(), 0)
	require.Equal(t, 2, d.ChildCount(svg))
}

func TestConvertShapeToPath_Rect(t *testing.T) {
	d := mustParse(t, `<svg><rect x="0" y="0" width="10" height="5"/></svg>`)
	require.NoError(t, dom.Walk(d, &ConvertShapeToPath{}))
	svg := d.ChildAt(d.Root(), 0)
	rectOrPath := d.ChildAt(svg, 0)
	require.Equal(t, "path", d.LocalName(rectOrPath))
	dAttr, ok := d.AttrLocal(rectOrPath, "d")
	require.True(t, ok)
	require.NotEmpty(t, dAttr)
}

func TestConvertColors_NamedAndHex(t *testing.T) {
	d := mustParse(t, `<svg><rect fill="red"/><rect fill="#aabbcc"/><rect fill="#112233"/></svg>`)
	require.NoError(t, dom.Walk(d, &ConvertColors{}))
	svg := d.ChildAt(d.Root(), 0)
	r1 := d.ChildAt(svg, 0)
	r2 := d.ChildAt(svg, 1)
	v1, _ := d.AttrLocal(r1, "fill")
	require.Equal(t, "#f00", v1)
	v2, _ := d.AttrLocal(r2, "fill")
	require.Equal(t, "#abc", v2)
}

func TestConvertTransform_Identity(t *testing.T) {
	d := mustParse(t, `<svg><g transform="translate(0,0)"><rect/></g></svg>`)
	require.NoError(t, dom.Walk(d, &ConvertTransform{}))
	svg := d.ChildAt(d.Root(), 0)
	g := d.ChildAt(svg, 0)
	_, ok := d.AttrLocal(g, "transform")
	require.False(t, ok)
}

func TestConvertTransform_Translate(t *testing.T) {
	d := mustParse(t, `<svg><g transform="translate(10,20)"><rect/></g></svg>`)
	require.NoError(t, dom.Walk(d, &ConvertTransform{}))
	svg := d.ChildAt(d.Root(), 0)
	g := d.ChildAt(svg, 0)
	v, ok := d.AttrLocal(g, "transform")
	require.True(t, ok)
	require.Equal(t, "matrix(1 0 0 1 10 20)", v)
}

func TestMinifyIDs_RewritesReferences(t *testing.T) {
	d := mustParse(t, `<svg><defs><linearGradient id="myGradient"/></defs><rect fill="url(#myGradient)"/></svg>`)
	require.NoError(t, dom.Walk(d, &MinifyIDs{}))
	out, err := dom.Serialize(d)
	require.NoError(t, err)
	require.NotContains(t, out, "myGradient")
	require.Contains(t, out, "url(#a)")
}

func TestRemoveUselessDefs(t *testing.T) {
	d := mustParse(t, `<svg><defs><linearGradient id="used"/><linearGradient id="unused"/></defs><rect fill="url(#used)"/></svg>`)
	require.NoError(t, dom.Walk(d, &RemoveUselessDefs{}))
	out, err := dom.Serialize(d)
	require.NoError(t, err)
	require.Contains(t, out, `id="used"`)
	require.NotContains(t, out, "unused")
}

func TestConvertPathData_RoundTrips(t *testing.T) {
	d := mustParse(t, `<svg><path d="M0 0L10 0L10 10"/></svg>`)
	require.NoError(t, dom.Walk(d, &ConvertPathData{}))
	svg := d.ChildAt(d.Root(), 0)
	p := d.ChildAt(svg, 0)
	v, _ := d.AttrLocal(p, "d")
	require.Equal(t, "M0 0H10V10", v)
}

func TestPrefixIDs_Callback(t *testing.T) {
	d := mustParse(t, `<svg><rect id="a"/><use href="#a"/></svg>`)
	j := &PrefixIDs{Callback: func(id string) string { return "icon-" + id }}
	require.NoError(t, dom.Walk(d, j))
	out, err := dom.Serialize(d)
	require.NoError(t, err)
	require.Contains(t, out, `id="icon-a"`)
	require.Contains(t, out, `href="#icon-a"`)
}
