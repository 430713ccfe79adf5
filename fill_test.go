package inkstitch

import (
	"fmt"
	"math"
	"testing"

	"github.com/tdewolff/test"
)

func TestGrating(t *testing.T) {
	shape := Shape{{Outer: square(0.0, 0.0, 10.0, 10.0)}}
	rows, center := grating(shape, 0.0, 1.0, 0.0)
	test.T(t, center, Point{5.0, 5.0})
	test.T(t, len(rows), 10)
	for i, r := range rows {
		test.Float(t, r.y, 0.5+float64(i))
		test.T(t, len(r.runs), 1)
		test.Float(t, r.runs[0][0], 0.0)
		test.Float(t, r.runs[0][1], 10.0)
	}
}

func TestGratingHole(t *testing.T) {
	shape := Shape{{
		Outer: square(0.0, 0.0, 10.0, 10.0),
		Holes: []Ring{square(4.0, 4.0, 2.0, 2.0)},
	}}
	rows, _ := grating(shape, 0.0, 1.0, 0.0)
	test.T(t, len(rows), 10)

	// rows through the hole split in two
	split := 0
	for _, r := range rows {
		if len(r.runs) == 2 {
			split++
			test.Float(t, r.runs[0][1], 4.0)
			test.Float(t, r.runs[1][0], 6.0)
		}
	}
	test.T(t, split, 2)
}

func TestGratingAngle(t *testing.T) {
	// horizontal rows stack up the tall axis of a sliver, vertical rows
	// leave a single long one
	shape := Shape{{Outer: square(0.0, 0.0, 1.0, 10.0)}}
	horizontal, _ := grating(shape, 0.0, 1.0, 0.0)
	vertical, _ := grating(shape, math.Pi/2.0, 1.0, 0.0)
	test.T(t, len(horizontal), 10)
	test.T(t, len(vertical), 1)
}

func TestGratingEndRowSpacing(t *testing.T) {
	shape := Shape{{Outer: square(0.0, 0.0, 10.0, 10.0)}}
	even, _ := grating(shape, 0.0, 1.0, 0.0)
	tapered, _ := grating(shape, 0.0, 1.0, 3.0)
	test.That(t, len(tapered) < len(even))

	// spacing grows towards the far end
	gaps := []float64{}
	for i := 1; i < len(tapered); i++ {
		gaps = append(gaps, tapered[i].y-tapered[i-1].y)
	}
	for i := 1; i < len(gaps); i++ {
		test.That(t, gaps[i-1] < gaps[i])
	}
}

func TestGratingEmpty(t *testing.T) {
	rows, _ := grating(Shape{}, 0.0, 1.0, 0.0)
	test.T(t, len(rows), 0)
}

func TestStitchRow(t *testing.T) {
	var tts = []struct {
		rowIndex int
		xs       []float64
	}{
		{0, []float64{0.0, 2.0, 4.0, 6.0, 8.0, 10.0}},
		{1, []float64{0.0, 1.0, 3.0, 5.0, 7.0, 9.0, 10.0}},
		{2, []float64{0.0, 2.0, 4.0, 6.0, 8.0, 10.0}},
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			points := stitchRow(0.0, 10.0, 5.0, 2.0, 2, tt.rowIndex)
			test.T(t, len(points), len(tt.xs))
			for j, p := range points {
				test.Float(t, p.X, tt.xs[j])
				test.Float(t, p.Y, 5.0)
			}
		})
	}
}

func TestStitchRowStaggerPeriod(t *testing.T) {
	// stitch columns repeat every staggers rows
	a := stitchRow(0.0, 20.0, 0.0, 3.0, 4, 1)
	b := stitchRow(0.0, 20.0, 0.0, 3.0, 4, 5)
	test.T(t, len(a), len(b))
	for i := range a {
		test.Float(t, a[i].X, b[i].X)
	}

	c := stitchRow(0.0, 20.0, 0.0, 3.0, 4, 2)
	test.That(t, !equal(a[1].X, c[1].X))
}

func TestPullRuns(t *testing.T) {
	rows := []row{
		{y: 0.0, runs: [][2]float64{{0.0, 10.0}}},
		{y: 1.0, runs: [][2]float64{{0.0, 4.0}, {6.0, 10.0}}},
		{y: 2.0, runs: [][2]float64{{0.0, 4.0}, {6.0, 10.0}}},
		{y: 3.0, runs: [][2]float64{{0.0, 10.0}}},
	}
	sections := pullRuns(rows)
	test.T(t, len(sections), 2)
	test.T(t, len(sections[0]), 4)
	test.T(t, len(sections[1]), 2)
	test.Float(t, sections[1][0].x0, 6.0)
	test.Float(t, sections[1][0].y, 1.0)
}

func TestPullRunsDisjoint(t *testing.T) {
	// runs that do not overlap horizontally break the section
	rows := []row{
		{y: 0.0, runs: [][2]float64{{0.0, 4.0}}},
		{y: 1.0, runs: [][2]float64{{6.0, 10.0}}},
	}
	sections := pullRuns(rows)
	test.T(t, len(sections), 2)
}

func TestLegacyFillSerpentine(t *testing.T) {
	shape := Shape{{Outer: square(0.0, 0.0, 10.0, 10.0)}}
	lists := LegacyFill(shape, 0.0, 1.0, 0.0, 20.0, false, 1, false)
	test.T(t, len(lists), 1)

	points := lists[0]
	test.T(t, len(points), 20)
	// consecutive rows share the x side they meet on
	for i := 1; i+1 < len(points); i += 2 {
		test.Float(t, points[i].X, points[i+1].X)
	}
}

func TestLegacyFillFlip(t *testing.T) {
	shape := Shape{{Outer: square(0.0, 0.0, 10.0, 10.0)}}
	normal := LegacyFill(shape, 0.0, 1.0, 0.0, 20.0, false, 1, false)
	flipped := LegacyFill(shape, 0.0, 1.0, 0.0, 20.0, true, 1, false)
	test.Float(t, normal[0][0].X, 10.0-flipped[0][0].X)
}

func TestLegacyFillSkipLast(t *testing.T) {
	shape := Shape{{Outer: square(0.0, 0.0, 10.0, 10.0)}}
	full := LegacyFill(shape, 0.0, 1.0, 0.0, 20.0, false, 1, false)
	skipped := LegacyFill(shape, 0.0, 1.0, 0.0, 20.0, false, 1, true)
	test.T(t, len(skipped[0]), len(full[0])/2)
}

func TestAutoFillEmptyShape(t *testing.T) {
	_, err := AutoFill(Shape{}, 0.0, 1.0, 0.0, 2.0, 1.5, 4, false, nil, nil, true)
	test.That(t, err != nil)
}

func TestAutoFillContinuous(t *testing.T) {
	shape := Shape{{Outer: square(0.0, 0.0, 10.0, 10.0)}}
	stitches, err := AutoFill(shape, 0.0, 1.0, 0.0, 2.0, 1.5, 4, false, nil, nil, true)
	test.Error(t, err)
	test.That(t, 0 < len(stitches))

	// no jump longer than a row plus a stitch anywhere in the sequence
	for i := 1; i < len(stitches); i++ {
		test.That(t, stitches[i-1].Distance(stitches[i]) < 4.0)
	}
}

func TestAutoFillStartEnd(t *testing.T) {
	shape := Shape{{Outer: square(0.0, 0.0, 10.0, 10.0)}}
	start := Point{0.0, 0.0}
	end := Point{10.0, 10.0}
	stitches, err := AutoFill(shape, 0.0, 1.0, 0.0, 2.0, 1.5, 4, false, &start, &end, true)
	test.Error(t, err)
	test.T(t, stitches[0], start)
	test.T(t, stitches[len(stitches)-1], end)
}

func TestAutoFillSections(t *testing.T) {
	// a shape with a hole needs at least two sections, still one sequence
	shape := Shape{{
		Outer: square(0.0, 0.0, 20.0, 20.0),
		Holes: []Ring{square(5.0, 5.0, 10.0, 10.0)},
	}}
	stitches, err := AutoFill(shape, 0.0, 1.0, 0.0, 2.0, 1.5, 4, false, nil, nil, true)
	test.Error(t, err)
	test.That(t, 0 < len(stitches))
}

func TestTravelUnderpath(t *testing.T) {
	shape := Shape{{Outer: square(0.0, 0.0, 10.0, 10.0)}}
	points := travel(shape, Point{0.0, 0.0}, Point{10.0, 0.0}, 2.5, true)
	test.T(t, len(points), 3)
	test.T(t, points[0], Point{2.5, 0.0})
	test.T(t, points[1], Point{5.0, 0.0})
	test.T(t, points[2], Point{7.5, 0.0})
}

func TestTravelOutline(t *testing.T) {
	shape := Shape{{Outer: square(0.0, 0.0, 10.0, 10.0)}}

	// the shorter way around from (0,0) to (0,10) is along the left edge
	points := travel(shape, Point{0.0, 0.0}, Point{0.0, 10.0}, 2.5, false)
	test.T(t, len(points), 3)
	for _, p := range points {
		test.Float(t, p.X, 0.0)
	}
	test.Float(t, points[0].Y, 2.5)
}

func TestRingParam(t *testing.T) {
	r := square(0.0, 0.0, 10.0, 10.0)
	test.Float(t, ringPerimeter(r), 40.0)
	test.Float(t, ringParam(r, Point{5.0, 0.0}), 5.0)
	test.Float(t, ringParam(r, Point{10.0, 5.0}), 15.0)
	test.Float(t, ringParam(r, Point{5.0, -3.0}), 5.0) // projects onto the edge
	test.T(t, ringPointAt(r, 15.0), Point{10.0, 5.0})
	test.T(t, ringPointAt(r, 0.0), Point{0.0, 0.0})
}
