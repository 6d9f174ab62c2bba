package optisvg

import (
	"encoding/json"
	"testing"

	"github.com/optisvg/optisvg/config"
	"github.com/stretchr/testify/require"
)

// S1: default preset strips presentation-attribute-only elements down to
// an empty <svg>.
func TestOptimise_DefaultPreset(t *testing.T) {
	src := `<svg xmlns="http://www.w3.org/2000/svg"><g color="black"/><path fill="rgb(64, 64, 64)"/></svg>`
	res, err := Optimise(src)
	require.NoError(t, err)
	require.Equal(t, `<svg xmlns="http://www.w3.org/2000/svg"/>`, res.Output)
}

// S2: an overlay enabling currentColor conversion rewrites the matching
// colour values instead of dropping their carrying elements.
func TestOptimise_ConvertColorsOverlay(t *testing.T) {
	src := `<svg xmlns="http://www.w3.org/2000/svg"><g color="black"/><path fill="rgb(64, 64, 64)"/></svg>`
	opts, err := json.Marshal(map[string]any{"method": "currentColor"})
	require.NoError(t, err)

	res, err := Optimise(src, WithOverlay(config.Overlay{
		Disable: allJobsExcept("convertColors"),
		Enable:  map[string]json.RawMessage{"convertColors": opts},
	}))
	require.NoError(t, err)
	require.Equal(t,
		`<svg xmlns="http://www.w3.org/2000/svg"><g color="currentColor"/><path fill="currentColor"/></svg>`,
		res.Output)
}

// S3: an overlay-only removeAttrs job strips the named attribute and
// leaves everything else (including an empty `d`) untouched.
func TestOptimise_RemoveAttrsOverlay(t *testing.T) {
	src := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1 1"><path fill="red" d=""/></svg>`
	opts, err := json.Marshal(map[string]any{"attrs": []string{"path:fill"}})
	require.NoError(t, err)

	res, err := Optimise(src, WithPreset(None()), WithOverlay(config.Overlay{
		Enable: map[string]json.RawMessage{"removeAttrs": opts},
	}))
	require.NoError(t, err)
	require.NotContains(t, res.Output, "fill")
	require.Contains(t, res.Output, `viewBox="0 0 1 1"`)
	require.Contains(t, res.Output, `d=""`)
}

// S4: a regex preserve pattern keeps one of two otherwise-identical
// comments.
func TestOptimise_RemoveCommentsPreservePattern(t *testing.T) {
	src := `<svg><!-- foo --><!-- bar --></svg>`
	opts, err := json.Marshal(map[string]any{"preservePatterns": []string{`^\s+foo`}})
	require.NoError(t, err)

	res, err := Optimise(src, WithPreset(None()), WithOverlay(config.Overlay{
		Enable: map[string]json.RawMessage{"removeComments": opts},
	}))
	require.NoError(t, err)
	require.Equal(t, `<svg><!-- foo --></svg>`, res.Output)
}

func TestOptimise_NonePresetIsIdentity(t *testing.T) {
	src := `<svg xmlns="http://www.w3.org/2000/svg"><!-- kept --><g color="black"/></svg>`
	res, err := Optimise(src, WithPreset(None()))
	require.NoError(t, err)
	require.Equal(t, src, res.Output)
}

func TestOptimise_UnknownOverlayJobIsConfigError(t *testing.T) {
	_, err := Optimise(`<svg/>`, WithOverlay(config.Overlay{Disable: []string{"notAJob"}}))
	require.Error(t, err)
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestOptimise_ParseErrorReturnsNoOutput(t *testing.T) {
	res, err := Optimise(`<svg><unclosed></svg>`)
	require.Error(t, err)
	require.Empty(t, res.Output)
}

// allJobsExcept disables every default job except keep, so an overlay
// test can isolate one job's effect without hand-maintaining the full
// default job-name list.
func allJobsExcept(keep string) []string {
	def := Default()
	var out []string
	for _, name := range def.Order {
		if name != keep {
			out = append(out, name)
		}
	}
	return out
}
