// Package job implements the optimisation passes that run over a
// dom.Document: each job is a dom.Visitor with a typed option record,
// registered by name so a config.Preset can select and order them.
package job

import (
	"fmt"

	"github.com/optisvg/optisvg/dom"
)

// Job is the contract every optimisation pass satisfies. It is exactly
// dom.Visitor; the alias exists so this package's godoc and the
// pipeline's job lists read in domain terms rather than traversal terms.
type Job = dom.Visitor

// Warning is a non-fatal observation a job records while it runs (spec.md
// §7's "Warning" — malformed input salvaged rather than rejected). A job
// that wants to surface warnings implements Warner in addition to Job.
// Path is a "/"-joined element path from the document root down to the
// offending node, e.g. "svg/defs/path".
type Warning struct {
	Job     string
	Node    dom.NodeID
	Path    string
	Message string
}

// Warner is implemented by jobs that may collect Warnings during a walk.
// pipeline drains Warnings() after each job's Walk returns and resets it
// before the job's next pass.
type Warner interface {
	Warnings() []Warning
}

// JobAborted reports that a job gave up on one specific element rather
// than guess at a salvage, e.g. ConvertPathData encountering `d` data
// where not even a usable prefix could be parsed. Unlike Warning it
// implements error, since a caller that cares can treat "nothing usable
// came out of this element" as worth failing loudly on.
type JobAborted struct {
	Job     string
	Node    dom.NodeID
	Path    string
	Err     error
}

func (e *JobAborted) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s aborted: %s", e.Job, e.Err)
	}
	return fmt.Sprintf("%s aborted at %s: %s", e.Job, e.Path, e.Err)
}

func (e *JobAborted) Unwrap() error { return e.Err }

// PanicError reports that a job's Walk hit an unreachable branch and
// panicked (spec.md §7's "Internal panic" kind). The pipeline recovers
// from the panic, records this, and returns the document in the state it
// was in before the panicking job's pass started.
type PanicError struct {
	Job       string
	Pass      int
	Recovered any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s panicked on pass %d: %v", e.Job, e.Pass, e.Recovered)
}

// Aborter is implemented by jobs that may record JobAborted entries.
type Aborter interface {
	Aborted() []JobAborted
}

// warnings is embedded by jobs that need Warner/Aborter without
// repeating the bookkeeping.
type warnings struct {
	w []Warning
	a []JobAborted
}

func (w *warnings) warn(doc *dom.Document, job string, n dom.NodeID, msg string) {
	w.w = append(w.w, Warning{Job: job, Node: n, Path: elementPath(doc, n), Message: msg})
}

func (w *warnings) abort(doc *dom.Document, job string, n dom.NodeID, err error) {
	w.a = append(w.a, JobAborted{Job: job, Node: n, Path: elementPath(doc, n), Err: err})
}

func (w *warnings) Aborted() []JobAborted { return w.a }

// elementPath walks n's ancestors up to the document root, joining each
// element's local name with "/", the same traversal buildErrorPath does
// over *html.Node.Parent.
func elementPath(doc *dom.Document, n dom.NodeID) string {
	var parts []string
	for id := n; id != dom.NilNode && doc.Valid(id); id = doc.Parent(id) {
		if doc.Kind(id) != dom.KindElement {
			continue
		}
		parts = append(parts, doc.LocalName(id))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "/"
		}
		out += p
	}
	return out
}

func (w *warnings) Warnings() []Warning { return w.w }

func (w *warnings) resetWarnings() { w.w = nil; w.a = nil }

// Resettable is implemented by jobs whose internal state (warnings,
// per-pass caches) must be cleared between pipeline multipass iterations.
// pipeline calls Reset before every pass on any job that implements it.
type Resettable interface {
	Reset()
}

func (w *warnings) Reset() { w.resetWarnings() }

// Info is a snapshot pipeline.Run passes to a job after each of its
// passes completes: which pass just ran, how many elements the document
// currently holds, and the document's source path. A job can use it to
// report progress without pipeline needing a logging dependency of its
// own.
type Info struct {
	Pass         int
	ElementCount int
	Origin       string
}

// Observer is implemented by jobs that want visibility into pipeline
// progress between passes. Embed NoObserve to opt out, the same
// function-adapter economy BaseVisitor already gives the Visitor
// callbacks.
type Observer interface {
	Observe(Info)
}

// NoObserve is a no-op Observer.
type NoObserve struct{}

func (NoObserve) Observe(Info) {}
