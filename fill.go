package inkstitch

import (
	"fmt"
	"math"
	"sort"
)

// LegacyFillFunc is the fixed-direction row router: it fills the shape with
// serpentine rows at the given angle and returns one point list per
// contiguous section.
type LegacyFillFunc func(shape Shape, angle, rowSpacing, endRowSpacing, maxStitchLength float64,
	flip bool, staggers int, skipLast bool) [][]Point

// AutoFillFunc is the auto-routed row router: it fills the shape and connects
// all sections into one continuous stitch sequence, optionally honoring
// explicit starting and ending points. It fails on shapes that produce no
// rows.
type AutoFillFunc func(shape Shape, angle, rowSpacing, endRowSpacing, maxStitchLength, runningStitchLength float64,
	staggers int, skipLast bool, start, end *Point, underpath bool) ([]Point, error)

// row is one horizontal grating line in rotated space, cut into the x ranges
// that lie inside the shape.
type row struct {
	y    float64
	runs [][2]float64
}

// grating slices the shape into horizontal rows in a space rotated so that
// the fill angle is horizontal. It returns the rows bottom-up and the
// rotation center needed to map points back.
func grating(shape Shape, angle, rowSpacing, endRowSpacing float64) ([]row, Point) {
	center := shape.Centroid()

	type edge struct{ p, q Point }
	edges := []edge{}
	bounds := Rect{}
	first := true
	for _, region := range shape {
		for _, ring := range append([]Ring{region.Outer}, region.Holes...) {
			rotated := make(Ring, len(ring))
			for i, p := range ring {
				rotated[i] = p.Rot(-angle, center)
			}
			for i := range rotated {
				edges = append(edges, edge{rotated[i], rotated[(i+1)%len(rotated)]})
			}
			if first {
				bounds = rotated.Bounds()
				first = false
			} else {
				b := rotated.Bounds()
				x1 := math.Max(bounds.X+bounds.W, b.X+b.W)
				y1 := math.Max(bounds.Y+bounds.H, b.Y+b.H)
				bounds.X = math.Min(bounds.X, b.X)
				bounds.Y = math.Min(bounds.Y, b.Y)
				bounds.W = x1 - bounds.X
				bounds.H = y1 - bounds.Y
			}
		}
	}
	if first || bounds.H <= 0.0 {
		return nil, center
	}

	rows := []row{}
	spacing := rowSpacing
	for y := bounds.Y + rowSpacing/2.0; y < bounds.Y+bounds.H; y += spacing {
		if 0.0 < endRowSpacing {
			f := (y - bounds.Y) / bounds.H
			spacing = rowSpacing + (endRowSpacing-rowSpacing)*f
		}

		xs := []float64{}
		for _, e := range edges {
			if (e.p.Y <= y) == (e.q.Y <= y) {
				continue
			}
			xs = append(xs, e.p.X+(y-e.p.Y)*(e.q.X-e.p.X)/(e.q.Y-e.p.Y))
		}
		sort.Float64s(xs)

		r := row{y: y}
		for i := 0; i+1 < len(xs); i += 2 {
			if Epsilon < xs[i+1]-xs[i] {
				r.runs = append(r.runs, [2]float64{xs[i], xs[i+1]})
			}
		}
		if 0 < len(r.runs) {
			rows = append(rows, r)
		}
	}
	return rows, center
}

// stitchRow places stitches along one run. Stitch columns snap to a global
// grid shifted per row by the stagger phase, so columns line up every
// staggers rows instead of forming a visible seam.
func stitchRow(x0, x1, y, maxStitchLength float64, staggers, rowIndex int) []Point {
	phase := maxStitchLength * float64(((rowIndex%staggers)+staggers)%staggers) / float64(staggers)
	points := []Point{{x0, y}}
	x := math.Ceil((x0-phase)/maxStitchLength)*maxStitchLength + phase
	if x <= x0+Epsilon {
		x += maxStitchLength
	}
	for ; x < x1-Epsilon; x += maxStitchLength {
		points = append(points, Point{x, y})
	}
	return append(points, Point{x1, y})
}

type runRef struct {
	y, x0, x1 float64
}

// pullRuns peels runs off the rows into sections: maximal stacks of
// vertically adjacent, horizontally overlapping runs that can be stitched as
// one serpentine block.
func pullRuns(rows []row) [][]runRef {
	remaining := make([]row, len(rows))
	for i, r := range rows {
		remaining[i] = row{y: r.y, runs: append([][2]float64{}, r.runs...)}
	}

	sections := [][]runRef{}
	for {
		start := -1
		for i := range remaining {
			if 0 < len(remaining[i].runs) {
				start = i
				break
			}
		}
		if start < 0 {
			break
		}

		section := []runRef{}
		var prev [2]float64
		for i := start; i < len(remaining); i++ {
			if len(remaining[i].runs) == 0 {
				break
			}
			run := remaining[i].runs[0]
			if 0 < len(section) && (run[1] < prev[0] || prev[1] < run[0]) {
				break
			}
			section = append(section, runRef{remaining[i].y, run[0], run[1]})
			remaining[i].runs = remaining[i].runs[1:]
			prev = run
		}
		sections = append(sections, section)
	}
	return sections
}

// sectionPoints stitches a section serpentine-style. Row direction depends on
// the absolute row index so that neighboring sections agree, and the stagger
// grid stays consistent across sections for the same reason.
func sectionPoints(section []runRef, rowSpacing, maxStitchLength float64, staggers int, skipLast, flip bool) []Point {
	points := []Point{}
	for _, run := range section {
		rowIndex := int(math.Round(run.y / rowSpacing))
		rowPoints := stitchRow(run.x0, run.x1, run.y, maxStitchLength, staggers, rowIndex)
		leftToRight := rowIndex%2 == 0
		if flip {
			leftToRight = !leftToRight
		}
		if !leftToRight {
			for i, j := 0, len(rowPoints)-1; i < j; i, j = i+1, j-1 {
				rowPoints[i], rowPoints[j] = rowPoints[j], rowPoints[i]
			}
		}
		if skipLast && 1 < len(rowPoints) {
			rowPoints = rowPoints[:len(rowPoints)-1]
		}
		points = append(points, rowPoints...)
	}
	return points
}

func unrotate(points []Point, angle float64, center Point) []Point {
	for i, p := range points {
		points[i] = p.Rot(angle, center)
	}
	return points
}

// LegacyFill fills the shape with fixed-direction rows, one point list per
// contiguous section. Sections are not connected; the caller decides how to
// travel between them.
func LegacyFill(shape Shape, angle, rowSpacing, endRowSpacing, maxStitchLength float64,
	flip bool, staggers int, skipLast bool) [][]Point {
	rows, center := grating(shape, angle, rowSpacing, endRowSpacing)
	sections := pullRuns(rows)

	lists := [][]Point{}
	for _, section := range sections {
		points := sectionPoints(section, rowSpacing, maxStitchLength, staggers, skipLast, flip)
		if 0 < len(points) {
			lists = append(lists, unrotate(points, angle, center))
		}
	}
	return lists
}

// AutoFill fills the shape and routes all sections into one continuous stitch
// sequence. Sections are visited nearest-first; travel between them runs
// straight through the interior when underpath is set, otherwise it follows
// the shape's outline. An explicit start pulls the route towards it, an
// explicit end is stitched to last.
func AutoFill(shape Shape, angle, rowSpacing, endRowSpacing, maxStitchLength, runningStitchLength float64,
	staggers int, skipLast bool, start, end *Point, underpath bool) ([]Point, error) {
	if shape.Empty() {
		return nil, fmt.Errorf("cannot fill an empty shape")
	}
	rows, center := grating(shape, angle, rowSpacing, endRowSpacing)
	sections := pullRuns(rows)
	if len(sections) == 0 {
		return nil, fmt.Errorf("shape %v yields no stitch rows at spacing %g", shape.Centroid(), rowSpacing)
	}
	Logger().Debug("auto fill", "rows", len(rows), "sections", len(sections))

	pending := make([][]Point, 0, len(sections))
	for _, section := range sections {
		points := sectionPoints(section, rowSpacing, maxStitchLength, staggers, skipLast, false)
		if 0 < len(points) {
			pending = append(pending, unrotate(points, angle, center))
		}
	}
	if len(pending) == 0 {
		return nil, fmt.Errorf("shape %v yields no stitches", shape.Centroid())
	}

	stitches := []Point{}
	var cur *Point
	if start != nil {
		stitches = append(stitches, *start)
		cur = start
	}

	for 0 < len(pending) {
		best, reverse := 0, false
		if cur != nil {
			bestDist := math.Inf(1)
			for i, section := range pending {
				if d := cur.Distance(section[0]); d < bestDist {
					best, reverse, bestDist = i, false, d
				}
				if d := cur.Distance(section[len(section)-1]); d < bestDist {
					best, reverse, bestDist = i, true, d
				}
			}
		}
		section := pending[best]
		pending = append(pending[:best], pending[best+1:]...)
		if reverse {
			for i, j := 0, len(section)-1; i < j; i, j = i+1, j-1 {
				section[i], section[j] = section[j], section[i]
			}
		}

		if cur != nil {
			stitches = append(stitches, travel(shape, *cur, section[0], runningStitchLength, underpath)...)
		}
		stitches = append(stitches, section...)
		last := section[len(section)-1]
		cur = &last
	}

	if end != nil {
		stitches = append(stitches, travel(shape, *cur, *end, runningStitchLength, underpath)...)
		stitches = append(stitches, *end)
	}
	return stitches, nil
}

// travel returns the intermediate stitches from one point towards another,
// excluding both endpoints. Underpath travel cuts straight through the
// interior; otherwise the route follows the outline of the nearest region.
func travel(shape Shape, from, to Point, runningStitchLength float64, underpath bool) []Point {
	if underpath {
		points := []Point{}
		dist := from.Distance(to)
		for d := runningStitchLength; d < dist-Epsilon; d += runningStitchLength {
			points = append(points, from.Interpolate(to, d/dist))
		}
		return points
	}
	return outlineTravel(shape, from, to, runningStitchLength)
}

// outlineTravel walks along the outer boundary nearest to from, taking the
// shorter way around to the exit nearest to to.
func outlineTravel(shape Shape, from, to Point, runningStitchLength float64) []Point {
	var ring Ring
	bestDist := math.Inf(1)
	for _, region := range shape {
		if d := region.Centroid().Distance(from); d < bestDist {
			ring = region.Outer
			bestDist = d
		}
	}
	if len(ring) < 3 {
		return nil
	}

	perimeter := ringPerimeter(ring)
	t0 := ringParam(ring, from)
	t1 := ringParam(ring, to)

	forward := math.Mod(t1-t0+perimeter, perimeter)
	backward := perimeter - forward
	dir, dist := 1.0, forward
	if backward < forward {
		dir, dist = -1.0, backward
	}

	points := []Point{}
	for d := runningStitchLength; d < dist-Epsilon; d += runningStitchLength {
		t := math.Mod(t0+dir*d+perimeter, perimeter)
		points = append(points, ringPointAt(ring, t))
	}
	return points
}

func ringPerimeter(r Ring) float64 {
	length := 0.0
	for i := range r {
		length += r[i].Distance(r[(i+1)%len(r)])
	}
	return length
}

// ringParam returns the arc-length position along the ring closest to p.
func ringParam(r Ring, p Point) float64 {
	best, bestDist := 0.0, math.Inf(1)
	offset := 0.0
	for i := range r {
		a, b := r[i], r[(i+1)%len(r)]
		ab := b.Sub(a)
		length := ab.Length()
		t := 0.0
		if Epsilon < length {
			t = math.Max(0.0, math.Min(1.0, p.Sub(a).Dot(ab)/(length*length)))
		}
		q := a.Interpolate(b, t)
		if d := p.Distance(q); d < bestDist {
			best, bestDist = offset+t*length, d
		}
		offset += length
	}
	return best
}

// ringPointAt returns the point at arc-length position t along the ring.
func ringPointAt(r Ring, t float64) Point {
	for i := range r {
		a, b := r[i], r[(i+1)%len(r)]
		length := a.Distance(b)
		if t <= length {
			if length < Epsilon {
				return a
			}
			return a.Interpolate(b, t/length)
		}
		t -= length
	}
	return r[0]
}
