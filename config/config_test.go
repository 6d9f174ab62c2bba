package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_MatchesJobDefaultOrderLength(t *testing.T) {
	p := Default()
	require.NotEmpty(t, p.Order)
	jobs, err := p.Jobs()
	require.NoError(t, err)
	require.Len(t, jobs, len(p.Order))
}

func TestNone_ProducesNoJobs(t *testing.T) {
	jobs, err := None().Jobs()
	require.NoError(t, err)
	require.Empty(t, jobs)
}

func TestExtend_DisableRemovesJob(t *testing.T) {
	base := Default()
	out, err := Extend(base, Overlay{Disable: []string{"minifyIDs"}})
	require.NoError(t, err)
	for _, name := range out.Order {
		require.NotEqual(t, "minifyIDs", name)
	}
	require.Len(t, out.Order, len(base.Order)-1)
}

func TestExtend_EnableAddsJobWithOptions(t *testing.T) {
	out, err := Extend(None(), Overlay{
		Enable: map[string]json.RawMessage{
			"prefixIDs": json.RawMessage(`{"prefix":"icon-"}`),
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"prefixIDs"}, out.Order)

	jobs, err := out.Jobs()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
}

func TestExtend_UnknownJobErrors(t *testing.T) {
	_, err := Extend(None(), Overlay{Disable: []string{"notARealJob"}})
	require.Error(t, err)
}

func TestExtend_DisableWinsOverEnable(t *testing.T) {
	out, err := Extend(None(), Overlay{
		Disable: []string{"sortAttrs"},
		Enable:  map[string]json.RawMessage{"sortAttrs": nil},
	})
	require.NoError(t, err)
	require.Empty(t, out.Order)
}

func TestPreset_JobsAreFreshInstances(t *testing.T) {
	p := Default()
	a, err := p.Jobs()
	require.NoError(t, err)
	b, err := p.Jobs()
	require.NoError(t, err)
	require.NotSame(t, a[0], b[0])
}

func TestLoad_JSON(t *testing.T) {
	data := []byte(`{"extends":"none","enable":{"removeComments":{}}}`)
	p, err := Load(data, "json")
	require.NoError(t, err)
	require.Equal(t, []string{"removeComments"}, p.Order)
}

func TestLoad_TOML(t *testing.T) {
	data := []byte("extends = \"none\"\n\n[enable.prefixIDs]\nprefix = \"ico-\"\n")
	p, err := Load(data, "toml")
	require.NoError(t, err)
	require.Equal(t, []string{"prefixIDs"}, p.Order)
	jobs, err := p.Jobs()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
}

func TestConvertSvgoConfig_MapsAndDedupes(t *testing.T) {
	enabled := true
	disabled := false
	p, err := ConvertSvgoConfig([]SvgoPlugin{
		{Name: "removeComments", Enabled: &enabled},
		{Name: "removeTitle", Enabled: &enabled},
		{Name: "removeDesc", Enabled: &enabled}, // maps to same job as removeTitle
		{Name: "cleanupAttrs", Enabled: &disabled},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"removeComments", "removeMetadata"}, p.Order)
}

func TestConvertSvgoConfig_UnknownPluginErrors(t *testing.T) {
	_, err := ConvertSvgoConfig([]SvgoPlugin{{Name: "someFutureSvgoPlugin"}})
	require.Error(t, err)
}

func TestSchema_ReflectsOptionFields(t *testing.T) {
	s, err := Schema("prefixIDs")
	require.NoError(t, err)
	require.Contains(t, s.Fields, "prefix")
	require.Equal(t, KindString, s.Fields["prefix"].Kind)
}

func TestSchema_NestedStruct(t *testing.T) {
	s, err := Schema("convertPathData")
	require.NoError(t, err)
	require.Contains(t, s.Fields, "options")
	require.Equal(t, KindObject, s.Fields["options"].Kind)
	require.Contains(t, s.Fields["options"].Fields, "precision")
}

func TestSchema_UnknownJobErrors(t *testing.T) {
	_, err := Schema("notARealJob")
	require.Error(t, err)
}
