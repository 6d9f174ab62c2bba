package config

import (
	"testing"

	"github.com/optisvg/optisvg/job"
	"github.com/stretchr/testify/require"
)

// S5 (spec.md §8): convertSvgoConfig([{name: "inlineStyles"}]) resolves
// to exactly the inlineStyles job, built with its documented SVGO-shape
// defaults, and no other job enabled.
func TestConvertSvgoConfig_SinglePluginMatchesOnlyThatJobWithDefaults(t *testing.T) {
	preset, err := ConvertSvgoConfig([]SvgoPlugin{{Name: "inlineStyles"}})
	require.NoError(t, err)
	require.Equal(t, []string{"inlineStyles"}, preset.Order)
	require.Empty(t, preset.Options)

	jobs, err := preset.Jobs()
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	inline, ok := jobs[0].(*job.InlineStyles)
	require.True(t, ok)
	require.Equal(t, &job.InlineStyles{
		OnlyMatchedOnce:        true,
		RemoveMatchedSelectors: true,
		UseMqs:                 []string{"", "screen"},
		UsePseudos:             []string{""},
	}, inline)
}

func TestConvertSvgoConfig_NilPluginsIsDefaultPreset(t *testing.T) {
	preset, err := ConvertSvgoConfig(nil)
	require.NoError(t, err)
	require.Equal(t, Default().Order, preset.Order)
}

func TestConvertSvgoConfig_EmptyPluginsIsNonePreset(t *testing.T) {
	preset, err := ConvertSvgoConfig([]SvgoPlugin{})
	require.NoError(t, err)
	require.Equal(t, None(), preset)
}

func TestConvertSvgoConfig_UnknownPluginIsConfigError(t *testing.T) {
	_, err := ConvertSvgoConfig([]SvgoPlugin{{Name: "notAPlugin"}})
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
