// Package optisvg optimises SVG/XML documents: it parses source text into
// a dom.Document, runs a configurable pipeline of jobs over it, and
// serialises the result back to text, behind one small entry point.
package optisvg

import (
	"log/slog"
	"sync"

	"github.com/optisvg/optisvg/config"
	"github.com/optisvg/optisvg/dom"
	"github.com/optisvg/optisvg/job"
	"github.com/optisvg/optisvg/pipeline"
)

// Result is what one Optimise call produces: the serialised output plus
// any warnings jobs recorded along the way (spec.md §7 — "warnings are
// surfaced as a list alongside the output string").
type Result struct {
	Output   string
	Warnings []job.Warning
}

// Options configures one Optimise call. A zero Options runs the Default
// preset with no overlay, a logger writing to io.Discard, and the
// built-in multipass budget (10).
type Options struct {
	// Preset is the base job-options bundle. If unset, config.Default()
	// is used.
	Preset *config.Preset

	// Overlay is applied on top of Preset via config.Extend.
	Overlay config.Overlay

	// MaxPasses overrides the pipeline's multipass budget; <= 0 means
	// the pipeline's own default (10).
	MaxPasses int

	// Origin is the document's source path, if any, surfaced to jobs
	// via pipeline.Info.
	Origin string

	// Logger receives "pass start/end" and "job aborted/warned"
	// messages. A nil Logger discards them, the same default pattern
	// pages.Handler's logger field follows.
	Logger *slog.Logger
}

// Option mutates an Options record; Optimise accepts a variadic list of
// them so callers don't need to build an Options literal for the common
// single-tweak case.
type Option func(*Options)

// WithPreset sets the base preset.
func WithPreset(p config.Preset) Option {
	return func(o *Options) { o.Preset = &p }
}

// WithOverlay sets the overlay applied to the base preset.
func WithOverlay(ov config.Overlay) Option {
	return func(o *Options) { o.Overlay = ov }
}

// WithMaxPasses overrides the multipass budget.
func WithMaxPasses(n int) Option {
	return func(o *Options) { o.MaxPasses = n }
}

// WithOrigin records the document's source path for job.Info.Origin.
func WithOrigin(path string) Option {
	return func(o *Options) { o.Origin = path }
}

// WithLogger sets the logger Optimise and the pipeline report to.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// Extend re-exports config.Extend so callers of this package's public
// surface never need to import config directly for the common case
// (spec.md §6: "extend and convertSvgoConfig ... are pure
// configuration-construction helpers exposed alongside optimise").
func Extend(base config.Preset, overlay config.Overlay) (config.Preset, error) {
	return config.Extend(base, overlay)
}

// ConvertSvgoConfig re-exports config.ConvertSvgoConfig.
func ConvertSvgoConfig(plugins []config.SvgoPlugin) (config.Preset, error) {
	return config.ConvertSvgoConfig(plugins)
}

// Default re-exports config.Default.
func Default() config.Preset { return config.Default() }

// None re-exports config.None.
func None() config.Preset { return config.None() }

// Optimise parses src, runs the resolved job list over it, and
// serialises the result. A configuration error (unknown job/option) is
// reported before any document is touched, per spec.md §7; a parse
// error returns no output. Job-local warnings and aborts never fail the
// call — they ride along in Result.Warnings.
func Optimise(src string, opts ...Option) (Result, error) {
	o := Options{}
	for _, fn := range opts {
		fn(&o)
	}
	logger := o.Logger
	if logger == nil {
		logger = discardLogger()
	}

	base := config.Default()
	if o.Preset != nil {
		base = *o.Preset
	}
	preset, err := config.Extend(base, o.Overlay)
	if err != nil {
		return Result{}, err
	}

	jobs, err := preset.Jobs()
	if err != nil {
		return Result{}, err
	}

	doc, err := dom.Parse(src)
	if err != nil {
		return Result{}, err
	}
	doc.Origin = o.Origin

	logger.Debug("optisvg: pipeline starting", "jobs", len(jobs), "origin", o.Origin)
	warnings, err := pipeline.Run(doc, jobs, pipeline.Options{MaxPasses: o.MaxPasses})
	if err != nil {
		logger.Error("optisvg: pipeline aborted", "error", err)
		return Result{}, err
	}
	for _, w := range warnings {
		logger.Warn("optisvg: job warning", "job", w.Job, "path", w.Path, "message", w.Message)
	}
	logger.Debug("optisvg: pipeline finished", "warnings", len(warnings))

	out, err := dom.Serialize(doc)
	if err != nil {
		return Result{}, err
	}
	return Result{Output: out, Warnings: warnings}, nil
}

var (
	discardLoggerOnce     sync.Once
	discardLoggerInstance *slog.Logger
)

// discardLogger is the default logger: a *slog.Logger writing to
// io.Discard, built once and reused.
func discardLogger() *slog.Logger {
	discardLoggerOnce.Do(func() {
		discardLoggerInstance = slog.New(slog.NewTextHandler(discardWriter{}, nil))
	})
	return discardLoggerInstance
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
