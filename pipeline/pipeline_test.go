package pipeline

import (
	"testing"

	"github.com/optisvg/optisvg/dom"
	"github.com/optisvg/optisvg/job"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *dom.Document {
	t.Helper()
	d, err := dom.Parse(src)
	require.NoError(t, err)
	return d
}

func TestRun_ConvergesAndStops(t *testing.T) {
	d := mustParse(t, `<svg><g></g><g><rect/></g></svg>`)
	warnings, err := Run(d, []job.Job{&job.RemoveEmptyContainers{}, &job.CollapseGroups{}}, Options{MaxPasses: 10})
	require.NoError(t, err)
	require.Empty(t, warnings)

	out, err := dom.Serialize(d)
	require.NoError(t, err)
	require.NotContains(t, out, "<g")
	require.Contains(t, out, "<rect")
}

func TestRun_CollectsWarnings(t *testing.T) {
	d := mustParse(t, `<svg><path d="M0 0 Q"/></svg>`)
	warnings, err := Run(d, []job.Job{&job.ConvertPathData{}}, Options{MaxPasses: 1})
	require.NoError(t, err)
	require.NotEmpty(t, warnings)
}

type countingObserver struct {
	dom.BaseVisitor
	calls []job.Info
}

func (o *countingObserver) Name() string                  { return "countingObserver" }
func (o *countingObserver) Capabilities() dom.Capabilities { return 0 }
func (o *countingObserver) Order() dom.TraversalOrder      { return dom.PreOrder }
func (o *countingObserver) Observe(i job.Info)             { o.calls = append(o.calls, i) }

func TestRun_ObservesEachPass(t *testing.T) {
	d := mustParse(t, `<svg><rect/></svg>`)
	obs := &countingObserver{}
	_, err := Run(d, []job.Job{obs}, Options{MaxPasses: 3})
	require.NoError(t, err)
	// A job with no capabilities never changes the fingerprint, so Run
	// converges after the second pass confirms no change.
	require.Len(t, obs.calls, 2)
	require.Equal(t, 1, obs.calls[0].Pass)
	require.Equal(t, 2, obs.calls[1].Pass)
	require.Equal(t, 2, obs.calls[0].ElementCount)
}

func TestRun_DefaultMaxPasses(t *testing.T) {
	d := mustParse(t, `<svg><rect/></svg>`)
	_, err := Run(d, []job.Job{&job.RemoveEmptyText{}}, Options{})
	require.NoError(t, err)
}

// panicVisitor renames every element it visits before panicking, so a
// test can check that a mid-pass panic doesn't leave those renames in the
// restored document.
type panicVisitor struct {
	dom.BaseVisitor
}

func (panicVisitor) Name() string                  { return "panicVisitor" }
func (panicVisitor) Capabilities() dom.Capabilities { return dom.CapName }
func (panicVisitor) Order() dom.TraversalOrder      { return dom.PreOrder }
func (panicVisitor) EnterElement(c dom.Cursor) (dom.Action, error) {
	c.Doc.SetQName(c.ID, dom.Name{Local: "mutated"})
	panic("unreachable branch hit")
}

func TestRun_RecoversPanicAndRestoresDocument(t *testing.T) {
	d := mustParse(t, `<svg><rect/></svg>`)
	_, err := Run(d, []job.Job{panicVisitor{}}, Options{MaxPasses: 1})
	require.Error(t, err)

	var pe *job.PanicError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "panicVisitor", pe.Job)

	out, err := dom.Serialize(d)
	require.NoError(t, err)
	require.NotContains(t, out, "mutated")
	require.Contains(t, out, "<svg")
}
