package inkstitch

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/JulianWebb/inkstitch/svg"
	"github.com/tdewolff/test"
)

// recordingRouter stands in for AutoFill and records the start point of
// every call.
type recordingRouter struct {
	starts   []*Point
	stitches [][]Point
	err      error
}

func (r *recordingRouter) autoFill(shape Shape, angle, rowSpacing, endRowSpacing, maxStitchLength, runningStitchLength float64,
	staggers int, skipLast bool, start, end *Point, underpath bool) ([]Point, error) {
	r.starts = append(r.starts, start)
	if r.err != nil {
		return nil, r.err
	}
	stitches := r.stitches[0]
	r.stitches = r.stitches[1:]
	return stitches, nil
}

func TestStitchGroupsChainStartingPoint(t *testing.T) {
	el := fillNode(map[string]string{"inkstitch:fill_underlay": "false"})
	router := &recordingRouter{stitches: [][]Point{{{0.0, 0.0}, {1.0, 1.0}}}}

	pl := NewPlanner()
	pl.AutoFill = router.autoFill

	last := &StitchGroup{Stitches: []Point{{5.0, 5.0}, {10.0, 10.0}}}
	groups, err := pl.StitchGroups(el, last)
	test.Error(t, err)
	test.T(t, len(groups), 1)
	test.That(t, groups[0].HasTag("auto_fill_top"))

	// the element starts where the previous one stopped
	test.T(t, len(router.starts), 1)
	test.That(t, router.starts[0] != nil)
	test.T(t, *router.starts[0], Point{10.0, 10.0})
}

func TestStitchGroupsUnderlayChaining(t *testing.T) {
	el := fillNode(map[string]string{"inkstitch:fill_underlay_angle": "0, 90"})
	router := &recordingRouter{stitches: [][]Point{
		{{1.0, 1.0}, {2.0, 2.0}},
		{{3.0, 3.0}, {4.0, 4.0}},
		{{5.0, 5.0}, {6.0, 6.0}},
	}}

	pl := NewPlanner()
	pl.AutoFill = router.autoFill

	groups, err := pl.StitchGroups(el, nil)
	test.Error(t, err)
	test.T(t, len(groups), 3)
	test.That(t, groups[0].HasTag("auto_fill_underlay"))
	test.That(t, groups[1].HasTag("auto_fill_underlay"))
	test.That(t, groups[2].HasTag("auto_fill_top"))

	// each layer picks up where the previous one stopped
	test.T(t, len(router.starts), 3)
	test.That(t, router.starts[0] == nil)
	test.T(t, *router.starts[1], Point{2.0, 2.0})
	test.T(t, *router.starts[2], Point{4.0, 4.0})
}

func TestStitchGroupsLegacy(t *testing.T) {
	el := fillNode(map[string]string{"inkstitch:auto_fill": "false", "style": "fill:#00ff00"})

	pl := NewPlanner()
	pl.LegacyFill = func(shape Shape, angle, rowSpacing, endRowSpacing, maxStitchLength float64,
		flip bool, staggers int, skipLast bool) [][]Point {
		return [][]Point{{{0.0, 0.0}}, {{1.0, 1.0}}}
	}

	groups, err := pl.StitchGroups(el, nil)
	test.Error(t, err)
	test.T(t, len(groups), 2)
	test.String(t, groups[0].Color, "#00ff00")
	test.T(t, len(groups[0].Tags), 0)
}

func TestPlannerFatalError(t *testing.T) {
	el := fillNode(map[string]string{"inkstitch:fill_underlay": "false"})
	cause := fmt.Errorf("no rows")
	router := &recordingRouter{err: cause}

	pl := NewPlanner()
	pl.AutoFill = router.autoFill

	_, err := pl.StitchGroups(el, nil)
	test.That(t, err != nil)

	var fatal *FatalError
	test.That(t, errors.As(err, &fatal))
	test.That(t, errors.Is(err, cause))
	test.That(t, strings.Contains(fatal.Message, issuesURL))
	test.That(t, strings.Contains(fatal.Message, Version))
	test.That(t, strings.Contains(fatal.Message, "no rows"))
}

func TestPlannerStrict(t *testing.T) {
	// strict mode hands the failure back untouched
	el := fillNode(map[string]string{"inkstitch:fill_underlay": "false"})
	cause := fmt.Errorf("no rows")
	router := &recordingRouter{err: cause}

	pl := NewPlanner()
	pl.Strict = true
	pl.AutoFill = router.autoFill

	_, err := pl.StitchGroups(el, nil)
	test.That(t, err == cause)
}

func TestPlanDocument(t *testing.T) {
	data := `<svg width="100" height="100">
		<path id="a" style="fill:#ff0000" d="M 0,0 L 20,0 L 20,20 L 0,20 Z"/>
		<path id="b" style="fill:#ff0000" d="M 30,0 L 50,0 L 50,20 L 30,20 Z"/>
		<path id="c" style="fill:#0000ff" d="M 60,0 L 80,0 L 80,20 L 60,20 Z"/>
		<path id="bad" style="fill:#00ff00" d="M 0,30 L 20,30 L 0,50 L 20,50 Z"/>
		<path id="nofill" style="stroke:#000000" d="M 0,60 L 20,60"/>
	</svg>`
	doc, err := svg.Parse(strings.NewReader(data))
	test.Error(t, err)

	plan, errs := NewPlanner().PlanDocument(doc)

	// the self-crossing element is reported and skipped, the rest stitches
	test.T(t, len(errs), 1)
	test.That(t, strings.Contains(errs[0].Error(), "bad"))

	// two reds merge into one block, the blue one follows
	test.T(t, len(plan.Blocks), 2)
	test.String(t, plan.Blocks[0].Color, "#ff0000")
	test.String(t, plan.Blocks[1].Color, "#0000ff")
	test.That(t, 0 < plan.CountStitches())
}

func TestPlanDocumentChaining(t *testing.T) {
	data := `<svg width="100" height="100">
		<path id="a" style="fill:#ff0000" d="M 0,0 L 20,0 L 20,20 L 0,20 Z"/>
		<path id="b" style="fill:#ff0000" d="M 30,0 L 50,0 L 50,20 L 30,20 Z"/>
	</svg>`
	doc, err := svg.Parse(strings.NewReader(data))
	test.Error(t, err)

	starts := []*Point{}
	lasts := []Point{}
	pl := NewPlanner()
	builtin := pl.AutoFill
	pl.AutoFill = func(shape Shape, angle, rowSpacing, endRowSpacing, maxStitchLength, runningStitchLength float64,
		staggers int, skipLast bool, start, end *Point, underpath bool) ([]Point, error) {
		starts = append(starts, start)
		stitches, err := builtin(shape, angle, rowSpacing, endRowSpacing, maxStitchLength, runningStitchLength,
			staggers, skipLast, start, end, underpath)
		if err == nil {
			lasts = append(lasts, stitches[len(stitches)-1])
		}
		return stitches, err
	}

	_, errs := pl.PlanDocument(doc)
	test.T(t, len(errs), 0)

	// underlay plus top per element
	test.T(t, len(starts), 4)
	test.That(t, starts[0] == nil)
	for i := 1; i < len(starts); i++ {
		test.That(t, starts[i] != nil)
		test.T(t, *starts[i], lasts[i-1])
	}
}
