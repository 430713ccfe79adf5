package inkstitch

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Ring is a closed loop of points. The closing edge from the last point back
// to the first is implicit.
type Ring []Point

// signedArea returns the enclosed area, positive for counter-clockwise
// winding.
func (r Ring) signedArea() float64 {
	a := 0.0
	for i := range r {
		a += r[i].PerpDot(r[(i+1)%len(r)])
	}
	return a / 2.0
}

// Area returns the enclosed area of the ring.
func (r Ring) Area() float64 {
	a := r.signedArea()
	if a < 0.0 {
		return -a
	}
	return a
}

// reversed returns the ring with opposite winding.
func (r Ring) reversed() Ring {
	q := make(Ring, len(r))
	for i, p := range r {
		q[len(r)-1-i] = p
	}
	return q
}

// ccw returns the ring wound counter-clockwise.
func (r Ring) ccw() Ring {
	if r.signedArea() < 0.0 {
		return r.reversed()
	}
	return r
}

// cw returns the ring wound clockwise.
func (r Ring) cw() Ring {
	if 0.0 < r.signedArea() {
		return r.reversed()
	}
	return r
}

// Bounds returns the bounding rectangle of the ring.
func (r Ring) Bounds() Rect {
	if len(r) == 0 {
		return Rect{}
	}
	x0, y0 := r[0].X, r[0].Y
	x1, y1 := x0, y0
	for _, p := range r[1:] {
		if p.X < x0 {
			x0 = p.X
		} else if x1 < p.X {
			x1 = p.X
		}
		if p.Y < y0 {
			y0 = p.Y
		} else if y1 < p.Y {
			y1 = p.Y
		}
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

func (r Ring) orb() orb.Ring {
	ring := make(orb.Ring, 0, len(r)+1)
	for _, p := range r {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	if 0 < len(r) {
		ring = append(ring, orb.Point{r[0].X, r[0].Y})
	}
	return ring
}

// Region is a polygon with holes.
type Region struct {
	Outer Ring
	Holes []Ring
}

func (r Region) orb() orb.Polygon {
	polygon := orb.Polygon{r.Outer.ccw().orb()}
	for _, hole := range r.Holes {
		polygon = append(polygon, hole.cw().orb())
	}
	return polygon
}

// Area returns the region's area, holes subtracted.
func (r Region) Area() float64 {
	return planar.Area(r.orb())
}

// Centroid returns the center of mass of the region.
func (r Region) Centroid() Point {
	c, _ := planar.CentroidArea(r.orb())
	return Point{c.X(), c.Y()}
}

// Contains returns true if p lies within the region, holes excluded.
func (r Region) Contains(p Point) bool {
	return planar.PolygonContains(r.orb(), orb.Point{p.X, p.Y})
}

// OutlineLength returns the length of the region's outer boundary.
func (r Region) OutlineLength() float64 {
	return planar.Length(orb.LineString(r.Outer.orb()))
}

// Shape is a set of independent regions. Geometry operations may split a
// single region into several; every consumer deals in Shape so that the
// single and multi-region cases need no distinction.
type Shape []Region

// Empty returns true if the shape contains no regions.
func (s Shape) Empty() bool {
	return len(s) == 0
}

// Area returns the summed area of all regions.
func (s Shape) Area() float64 {
	a := 0.0
	for _, region := range s {
		a += region.Area()
	}
	return a
}

// Centroid returns the area-weighted centroid of the shape.
func (s Shape) Centroid() Point {
	if s.Empty() {
		return Point{}
	}
	multi := make(orb.MultiPolygon, 0, len(s))
	for _, region := range s {
		multi = append(multi, region.orb())
	}
	c, _ := planar.CentroidArea(multi)
	return Point{c.X(), c.Y()}
}

// Contains returns true if p lies within any region of the shape.
func (s Shape) Contains(p Point) bool {
	for _, region := range s {
		if region.Contains(p) {
			return true
		}
	}
	return false
}

// Loop area thresholds for shape building. Loops below visibleArea render as
// outlines only; loops below noiseArea are numerical noise that corrupts row
// filling.
const (
	visibleArea = 5.0
	noiseArea   = 3.0
)

// BuildShape assembles raw path loops into a single polygon with holes. The
// loop with the largest area becomes the border and all others become holes.
//
// Loops with fewer than three points are replaced by a minimal right triangle
// anchored at their first point, so downstream geometry never sees a
// zero-area loop. When the largest loop is visible but the smallest is not,
// noise loops are dropped entirely.
//
// A self-intersecting border is repaired with a zero-distance buffer, but the
// repair is only accepted when it preserves the area; a repair that changes
// the shape's size is discarded so that validation reports the problem
// instead of silently altering the design.
func BuildShape(loops []Ring) Shape {
	if len(loops) == 0 {
		return Shape{}
	}
	loops = append([]Ring{}, loops...)
	for i, loop := range loops {
		if len(loop) < 3 {
			p := Point{}
			if 0 < len(loop) {
				p = loop[0]
			}
			loops[i] = Ring{p, {p.X + 1.0, p.Y}, {p.X, p.Y + 1.0}}
		}
	}

	sort.SliceStable(loops, func(i, j int) bool {
		return loops[j].Area() < loops[i].Area()
	})

	if visibleArea < loops[0].Area() && loops[len(loops)-1].Area() < visibleArea {
		kept := loops[:0]
		for _, loop := range loops {
			if noiseArea < loop.Area() {
				kept = append(kept, loop)
			}
		}
		loops = kept
	}

	region := Region{Outer: loops[0], Holes: loops[1:]}
	shape := Shape{region}

	if !shapeIsValid(shape) {
		if why := explainInvalidity(shape); why != nil && why.Kind == SelfIntersection {
			repaired := unionShape(shape)
			// Only accept a repair that keeps the covered area intact;
			// anything else stays invalid for validation to report.
			if relativeClose(shape.Area(), repaired.Area(), 1e-9) {
				shape = repaired
			}
		}
	}
	return shape
}
