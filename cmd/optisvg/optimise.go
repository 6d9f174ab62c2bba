package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/optisvg/optisvg"
	"github.com/optisvg/optisvg/config"
	"github.com/spf13/cobra"
)

// optimiseFlags holds the optimise subcommand's flag values, mirroring
// spec.md §6's CLI surface.
type optimiseFlags struct {
	configPath string
	stdin      bool
	stdout     bool
	recursive  bool
	ignore     []string
	output     string
}

func newOptimiseCmd() *cobra.Command {
	f := &optimiseFlags{}
	cmd := &cobra.Command{
		Use:   "optimise [paths...]",
		Short: "Optimise one or more SVG/XML documents.",
		Long: `optimise reads the listed files, or every *.svg file discovered
recursively under the listed directories (-r/--recursive), or stdin when
no paths are given (or --stdin is set). Each document is run through the
resolved job preset and the result is written back over the input, to
--output, or to stdout (--stdout).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimise(cmd, f, args)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to a JSON or TOML preset config file")
	cmd.Flags().BoolVar(&f.stdin, "stdin", false, "read a single document from stdin")
	cmd.Flags().BoolVar(&f.stdout, "stdout", false, "write output to stdout instead of in place")
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", false, "recurse into directories looking for *.svg files")
	cmd.Flags().StringArrayVar(&f.ignore, "ignore", nil, "glob pattern to skip during recursive discovery (repeatable)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single input) or directory (multiple inputs)")
	return cmd
}

func runOptimise(cmd *cobra.Command, f *optimiseFlags, args []string) error {
	preset, err := loadPreset(f.configPath)
	if err != nil {
		return &argError{err}
	}

	if f.stdin || len(args) == 0 {
		return optimiseStdin(cmd, preset, f)
	}

	files, err := discoverFiles(args, f.recursive, f.ignore)
	if err != nil {
		return &argError{err}
	}
	if len(files) == 0 {
		return &argError{fmt.Errorf("no input files found")}
	}

	if f.output != "" && len(files) > 1 {
		if fi, err := os.Stat(f.output); err == nil && !fi.IsDir() {
			return &argError{fmt.Errorf("--output must be a directory when optimising more than one file")}
		}
	}

	var failed int
	for _, path := range files {
		if err := optimiseFile(cmd, preset, f, path); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed to optimise", failed, len(files))
	}
	return nil
}

func loadPreset(path string) (config.Preset, error) {
	if path == "" {
		return config.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config.Preset{}, err
	}
	format := "json"
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".toml" {
		format = "toml"
	}
	return config.Load(data, format)
}

func optimiseStdin(cmd *cobra.Command, preset config.Preset, f *optimiseFlags) error {
	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return &argError{err}
	}
	res, err := optisvg.Optimise(string(src), optisvg.WithPreset(preset))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if f.output != "" {
		if err := os.WriteFile(f.output, []byte(res.Output), 0o644); err != nil {
			return err
		}
		return nil
	}
	_, err = io.WriteString(out, res.Output)
	return err
}

func optimiseFile(cmd *cobra.Command, preset config.Preset, f *optimiseFlags, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	res, err := optisvg.Optimise(string(src), optisvg.WithPreset(preset), optisvg.WithOrigin(path))
	if err != nil {
		return err
	}

	if f.stdout {
		_, err := io.WriteString(cmd.OutOrStdout(), res.Output)
		return err
	}

	dest := path
	if f.output != "" {
		if fi, err := os.Stat(f.output); err == nil && fi.IsDir() {
			dest = filepath.Join(f.output, filepath.Base(path))
		} else {
			dest = f.output
		}
	}
	return os.WriteFile(dest, []byte(res.Output), 0o644)
}

// discoverFiles expands args into a concrete file list: files are kept
// as-is, directories are walked (only when recursive is set) collecting
// *.svg files, skipping anything matching an ignore glob.
func discoverFiles(args []string, recursive bool, ignore []string) ([]string, error) {
	var out []string
	for _, a := range args {
		fi, err := os.Stat(a)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			out = append(out, a)
			continue
		}
		if !recursive {
			return nil, fmt.Errorf("%s is a directory (pass -r/--recursive to search it)", a)
		}
		err = filepath.WalkDir(a, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), ".svg") {
				return nil
			}
			if matchesAny(ignore, path) {
				return nil
			}
			out = append(out, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func matchesAny(patterns []string, path string) bool {
	base := filepath.Base(path)
	for _, p := range patterns {
		if ok, err := filepath.Match(p, base); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(p, path); err == nil && ok {
			return true
		}
	}
	return false
}
