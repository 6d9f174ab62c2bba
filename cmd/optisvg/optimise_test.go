package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptimiseStdin_WritesToStdout(t *testing.T) {
	cmd := newOptimiseCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(`<svg><!-- drop --><rect fill="red"/></svg>`))
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	require.NoError(t, runOptimise(cmd, &optimiseFlags{}, nil))
	require.NotContains(t, out.String(), "drop")
	require.Contains(t, out.String(), "#ff0000")
}

func TestOptimiseFile_WritesInPlace(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "icon.svg")
	require.NoError(t, os.WriteFile(src, []byte(`<svg><rect fill="red"/></svg>`), 0o644))

	cmd := newOptimiseCmd()
	require.NoError(t, runOptimise(cmd, &optimiseFlags{}, []string{src}))

	out, err := os.ReadFile(src)
	require.NoError(t, err)
	require.Contains(t, string(out), "#ff0000")
}

func TestOptimiseFile_OutputDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "icon.svg")
	require.NoError(t, os.WriteFile(src, []byte(`<svg><rect fill="red"/></svg>`), 0o644))
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	cmd := newOptimiseCmd()
	require.NoError(t, runOptimise(cmd, &optimiseFlags{output: outDir}, []string{src}))

	out, err := os.ReadFile(filepath.Join(outDir, "icon.svg"))
	require.NoError(t, err)
	require.Contains(t, string(out), "#ff0000")
	orig, err := os.ReadFile(src)
	require.NoError(t, err)
	require.Contains(t, string(orig), `fill="red"`)
}

func TestDiscoverFiles_RecursiveWithIgnore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.svg"), []byte("<svg/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.svg"), []byte("<svg/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	files, err := discoverFiles([]string{dir}, true, []string{"skip.svg"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, filepath.Join(dir, "a.svg"), files[0])
}

func TestDiscoverFiles_DirectoryWithoutRecursiveIsError(t *testing.T) {
	dir := t.TempDir()
	_, err := discoverFiles([]string{dir}, false, nil)
	require.Error(t, err)
}

func TestRunOptimise_UnknownConfigJobIsArgError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"enable":{"notAJob":{}}}`), 0o644))

	cmd := newOptimiseCmd()
	cmd.SetIn(strings.NewReader(`<svg/>`))
	err := runOptimise(cmd, &optimiseFlags{configPath: cfgPath}, nil)
	require.Error(t, err)
	var ae *argError
	require.ErrorAs(t, err, &ae)
}

func TestExitCodeFor(t *testing.T) {
	require.Equal(t, exitOK, exitCodeFor(nil))
	require.Equal(t, exitBadArgs, exitCodeFor(&argError{errors.New("bad flag")}))
	require.Equal(t, exitOptimiseFail, exitCodeFor(errors.New("optimisation failed")))
}
