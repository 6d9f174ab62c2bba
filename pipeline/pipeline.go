// Package pipeline drives repeated passes of a job list over a
// dom.Document until the document stops changing (or a pass budget is
// exhausted), converging to a fixed point by comparing content fingerprints
// between passes.
package pipeline

import (
	"hash/fnv"
	"strconv"

	"github.com/optisvg/optisvg/dom"
	"github.com/optisvg/optisvg/job"
)

// Options controls one Run.
type Options struct {
	// MaxPasses bounds how many times the whole job list may run. A
	// document that hasn't converged by then stops at whatever state the
	// last pass left it in, rather than loop forever on a pathological
	// or conflicting job combination.
	MaxPasses int
}

// Info is an alias of job.Info so callers configuring a Run don't need
// to import job themselves just to name the observer snapshot type.
type Info = job.Info

const defaultMaxPasses = 10

// Run executes jobs, in order, repeatedly over doc until two consecutive
// full passes produce an identical fingerprint or Options.MaxPasses is
// reached. After each job's Walk, any Warnings it recorded are drained
// (as are its JobAborted entries, if it is a job.Aborter, each turned into
// a Warning carrying the abort's message) and its Reset (if Resettable) is called before the job runs again on a
// later pass; any job implementing job.Observer receives an Info
// snapshot for the pass that just completed. A job that declares
// CapAttributes, CapChildren, CapStyles, or CapName bumps the document's
// style-cache epoch after its pass, since such a job can change what a
// later job's ComputedStyle/selector-match lookup sees (dom/style.go,
// dom/selector.go).
func Run(doc *dom.Document, jobs []job.Job, opts Options) ([]job.Warning, error) {
	max := opts.MaxPasses
	if max <= 0 {
		max = defaultMaxPasses
	}

	var warnings []job.Warning
	var prevFingerprint uint64
	havePrev := false

	for pass := 1; pass <= max; pass++ {
		for _, j := range jobs {
			if r, ok := j.(job.Resettable); ok {
				r.Reset()
			}
			snap := doc.Snapshot()
			if err := walkRecover(doc, j, pass); err != nil {
				doc.Restore(snap)
				return warnings, err
			}
			if j.Capabilities().InvalidatesStyle() {
				doc.BumpEpoch()
			}
			if w, ok := j.(job.Warner); ok {
				warnings = append(warnings, w.Warnings()...)
			}
			if a, ok := j.(job.Aborter); ok {
				for _, ab := range a.Aborted() {
					warnings = append(warnings, job.Warning{Job: ab.Job, Node: ab.Node, Path: ab.Path, Message: ab.Error()})
				}
			}
			if o, ok := j.(job.Observer); ok {
				o.Observe(job.Info{
					Pass:         pass,
					ElementCount: countElements(doc),
					Origin:       doc.Origin,
				})
			}
		}

		fp := fingerprint(doc)
		if havePrev && fp == prevFingerprint {
			break
		}
		prevFingerprint = fp
		havePrev = true
	}
	return warnings, nil
}

// walkRecover runs one job's Walk, converting a panic (an unreachable
// branch hit, e.g. dom's arena rejecting an invalid NodeID) into a
// job.PanicError instead of letting it cross the pipeline boundary
// (spec.md §7's "Internal panic" kind). The caller is responsible for
// restoring the document to its pre-pass snapshot when this returns an
// error.
func walkRecover(doc *dom.Document, j job.Job, pass int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &job.PanicError{Job: j.Name(), Pass: pass, Recovered: r}
		}
	}()
	return dom.Walk(doc, j)
}

// fingerprint hashes doc's structure with FNV-1a, used as a cheap
// convergence check between passes rather than as a content identity.
func fingerprint(doc *dom.Document) uint64 {
	h := fnv.New64a()
	var walk func(id dom.NodeID)
	walk = func(id dom.NodeID) {
		h.Write([]byte{byte(doc.Kind(id))})
		writeLP(h, doc.QName(id).String())
		writeLP(h, doc.Data(id))
		doc.RangeAttrs(id, func(a dom.Attr) bool {
			writeLP(h, a.Name.String())
			writeLP(h, a.Value)
			return true
		})
		for c := doc.FirstChild(id); c != dom.NilNode; c = doc.NextSibling(c) {
			walk(c)
		}
	}
	walk(doc.Root())
	return h.Sum64()
}

// writeLP writes s length-prefixed so that e.g. an attribute named "ab"
// with value "c" can never hash identically to one named "a" with value
// "bc".
func writeLP(h interface{ Write([]byte) (int, error) }, s string) {
	var lenBuf [8]byte
	n := uint64(len(s))
	for i := range lenBuf {
		lenBuf[i] = byte(n >> (8 * i))
	}
	h.Write(lenBuf[:])
	h.Write([]byte(s))
}

func countElements(doc *dom.Document) int {
	n := 0
	var walk func(id dom.NodeID)
	walk = func(id dom.NodeID) {
		if doc.Kind(id) == dom.KindElement {
			n++
		}
		for c := doc.FirstChild(id); c != dom.NilNode; c = doc.NextSibling(c) {
			walk(c)
		}
	}
	walk(doc.Root())
	return n
}

// FingerprintHex renders fingerprint(doc) as a hex string, for callers
// that want a stable, printable convergence marker.
func FingerprintHex(doc *dom.Document) string {
	return strconv.FormatUint(fingerprint(doc), 16)
}
