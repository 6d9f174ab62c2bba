package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/optisvg/optisvg/config"
	"github.com/stretchr/testify/require"
)

func TestDevServer_OptimiseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "icon.svg")
	require.NoError(t, os.WriteFile(path, []byte(`<svg><rect fill="red"/></svg>`), 0o644))

	h := newDevServer(config.Default(), 50*time.Millisecond)
	out, err := h.optimiseFile(path)
	require.NoError(t, err)
	require.Contains(t, out, "#ff0000")
}

func TestDevServer_ConnBookkeeping(t *testing.T) {
	h := newDevServer(config.None(), time.Millisecond)
	require.Empty(t, h.conns["a.svg"])

	h.addConn("a.svg", nil)
	require.Len(t, h.conns["a.svg"], 1)

	h.removeConn("a.svg", nil)
	require.Empty(t, h.conns["a.svg"])
}
