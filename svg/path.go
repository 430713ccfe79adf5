package svg

import (
	"math"

	"github.com/tdewolff/parse/v2/strconv"
)

// flattenSteps is the number of line segments a curve segment is divided
// into. Embroidery stitches are orders of magnitude coarser than the error
// this leaves.
const flattenSteps = 16

// Subpath is a run of connected points from a single path command sequence.
type Subpath struct {
	Points []Point
	Closed bool
}

func skipCommaWhitespace(path []byte) int {
	i := 0
	for i < len(path) && (path[i] == ' ' || path[i] == ',' || path[i] == '\n' || path[i] == '\r' || path[i] == '\t') {
		i++
	}
	return i
}

func parseNum(path []byte) (float64, int) {
	i := skipCommaWhitespace(path)
	f, n := strconv.ParseFloat(path[i:])
	return f, i + n
}

// parseFloatAttr parses the leading number of an attribute value, ignoring
// any unit suffix.
func parseFloatAttr(v string) float64 {
	f, _ := strconv.ParseFloat([]byte(v))
	return f
}

// parseFloats parses a comma or whitespace separated list of numbers, as used
// by the points attribute of polygons and polylines.
func parseFloats(v string) []float64 {
	path := []byte(v)
	vals := []float64{}
	i := 0
	for i < len(path) {
		f, n := parseNum(path[i:])
		if n == 0 || n == skipCommaWhitespace(path[i:]) {
			break
		}
		vals = append(vals, f)
		i += n
	}
	return vals
}

type pathScanner struct {
	subpaths []Subpath
	cur      []Point
	start    Point
}

func (s *pathScanner) moveTo(p Point) {
	s.flush(false)
	s.cur = []Point{p}
	s.start = p
}

func (s *pathScanner) lineTo(p Point) {
	if len(s.cur) == 0 {
		s.cur = []Point{p}
		s.start = p
		return
	}
	last := s.cur[len(s.cur)-1]
	if last != p {
		s.cur = append(s.cur, p)
	}
}

func (s *pathScanner) cubeTo(c1, c2, p Point) {
	p0 := s.pos()
	for i := 1; i <= flattenSteps; i++ {
		t := float64(i) / flattenSteps
		u := 1.0 - t
		x := u*u*u*p0.X + 3.0*u*u*t*c1.X + 3.0*u*t*t*c2.X + t*t*t*p.X
		y := u*u*u*p0.Y + 3.0*u*u*t*c1.Y + 3.0*u*t*t*c2.Y + t*t*t*p.Y
		s.lineTo(Point{x, y})
	}
}

func (s *pathScanner) quadTo(c, p Point) {
	p0 := s.pos()
	for i := 1; i <= flattenSteps; i++ {
		t := float64(i) / flattenSteps
		u := 1.0 - t
		x := u*u*p0.X + 2.0*u*t*c.X + t*t*p.X
		y := u*u*p0.Y + 2.0*u*t*c.Y + t*t*p.Y
		s.lineTo(Point{x, y})
	}
}

// arcTo flattens an elliptical arc using the endpoint to center conversion of
// the SVG spec, appendix B.2.4.
func (s *pathScanner) arcTo(rx, ry, rot float64, large, sweep bool, p Point) {
	p0 := s.pos()
	if p0 == p {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0.0 || ry == 0.0 {
		s.lineTo(p)
		return
	}

	sinphi, cosphi := math.Sincos(rot * math.Pi / 180.0)
	x1p := cosphi*(p0.X-p.X)/2.0 + sinphi*(p0.Y-p.Y)/2.0
	y1p := -sinphi*(p0.X-p.X)/2.0 + cosphi*(p0.Y-p.Y)/2.0

	// scale up insufficient radii
	lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry)
	if 1.0 < lambda {
		rx *= math.Sqrt(lambda)
		ry *= math.Sqrt(lambda)
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if 0.0 < num && 0.0 < den {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx
	cx := cosphi*cxp - sinphi*cyp + (p0.X+p.X)/2.0
	cy := sinphi*cxp + cosphi*cyp + (p0.Y+p.Y)/2.0

	theta1 := math.Atan2((y1p-cyp)/ry, (x1p-cxp)/rx)
	theta2 := math.Atan2((-y1p-cyp)/ry, (-x1p-cxp)/rx)
	dtheta := theta2 - theta1
	if sweep && dtheta < 0.0 {
		dtheta += 2.0 * math.Pi
	} else if !sweep && 0.0 < dtheta {
		dtheta -= 2.0 * math.Pi
	}

	n := int(math.Ceil(math.Abs(dtheta) / (2.0 * math.Pi) * 4.0 * flattenSteps))
	if n < 2 {
		n = 2
	}
	for i := 1; i < n; i++ {
		theta := theta1 + dtheta*float64(i)/float64(n)
		sintheta, costheta := math.Sincos(theta)
		x := cosphi*rx*costheta - sinphi*ry*sintheta + cx
		y := sinphi*rx*costheta + cosphi*ry*sintheta + cy
		s.lineTo(Point{x, y})
	}
	s.lineTo(p)
}

func (s *pathScanner) close() {
	s.flush(true)
}

func (s *pathScanner) pos() Point {
	if len(s.cur) == 0 {
		return Point{}
	}
	return s.cur[len(s.cur)-1]
}

func (s *pathScanner) flush(closed bool) {
	if 1 < len(s.cur) {
		points := s.cur
		if closed && points[len(points)-1] == points[0] {
			points = points[:len(points)-1]
		}
		s.subpaths = append(s.subpaths, Subpath{Points: points, Closed: closed})
	}
	s.cur = nil
}

// parsePathData flattens SVG path data into subpaths of straight segments.
// Invalid data yields whatever was parsed up to the problem; like the rest of
// this package, path parsing never fails hard.
func parsePathData(sPath string) []Subpath {
	path := []byte(sPath)
	s := &pathScanner{}

	var prevCmd byte
	var cpx, cpy float64 // last control point, for smooth curves

	i := 0
	for i < len(path) {
		i += skipCommaWhitespace(path[i:])
		if len(path) <= i {
			break
		}
		cmd := prevCmd
		if 'A' <= path[i] && path[i] <= 'z' && (path[i] < '0' || '9' < path[i]) {
			cmd = path[i]
			i++
		} else if cmd == 'M' {
			cmd = 'L' // implicit lineto after moveto
		} else if cmd == 'm' {
			cmd = 'l'
		} else if cmd == 0 {
			break
		}
		pos := s.pos()
		x, y := pos.X, pos.Y
		switch cmd {
		case 'M', 'm':
			a, n := parseNum(path[i:])
			i += n
			b, n := parseNum(path[i:])
			i += n
			if cmd == 'm' {
				a += x
				b += y
			}
			s.moveTo(Point{a, b})
		case 'Z', 'z':
			s.close()
		case 'L', 'l':
			a, n := parseNum(path[i:])
			i += n
			b, n := parseNum(path[i:])
			i += n
			if cmd == 'l' {
				a += x
				b += y
			}
			s.lineTo(Point{a, b})
		case 'H', 'h':
			a, n := parseNum(path[i:])
			i += n
			if cmd == 'h' {
				a += x
			}
			s.lineTo(Point{a, y})
		case 'V', 'v':
			b, n := parseNum(path[i:])
			i += n
			if cmd == 'v' {
				b += y
			}
			s.lineTo(Point{x, b})
		case 'C', 'c':
			a, n := parseNum(path[i:])
			i += n
			b, n := parseNum(path[i:])
			i += n
			c, n := parseNum(path[i:])
			i += n
			d, n := parseNum(path[i:])
			i += n
			e, n := parseNum(path[i:])
			i += n
			f, n := parseNum(path[i:])
			i += n
			if cmd == 'c' {
				a, b, c, d, e, f = a+x, b+y, c+x, d+y, e+x, f+y
			}
			s.cubeTo(Point{a, b}, Point{c, d}, Point{e, f})
			cpx, cpy = c, d
		case 'S', 's':
			c, n := parseNum(path[i:])
			i += n
			d, n := parseNum(path[i:])
			i += n
			e, n := parseNum(path[i:])
			i += n
			f, n := parseNum(path[i:])
			i += n
			if cmd == 's' {
				c, d, e, f = c+x, d+y, e+x, f+y
			}
			a, b := x, y
			if prevCmd == 'C' || prevCmd == 'c' || prevCmd == 'S' || prevCmd == 's' {
				a, b = 2.0*x-cpx, 2.0*y-cpy
			}
			s.cubeTo(Point{a, b}, Point{c, d}, Point{e, f})
			cpx, cpy = c, d
		case 'Q', 'q':
			a, n := parseNum(path[i:])
			i += n
			b, n := parseNum(path[i:])
			i += n
			c, n := parseNum(path[i:])
			i += n
			d, n := parseNum(path[i:])
			i += n
			if cmd == 'q' {
				a, b, c, d = a+x, b+y, c+x, d+y
			}
			s.quadTo(Point{a, b}, Point{c, d})
			cpx, cpy = a, b
		case 'T', 't':
			c, n := parseNum(path[i:])
			i += n
			d, n := parseNum(path[i:])
			i += n
			if cmd == 't' {
				c, d = c+x, d+y
			}
			a, b := x, y
			if prevCmd == 'Q' || prevCmd == 'q' || prevCmd == 'T' || prevCmd == 't' {
				a, b = 2.0*x-cpx, 2.0*y-cpy
			}
			s.quadTo(Point{a, b}, Point{c, d})
			cpx, cpy = a, b
		case 'A', 'a':
			rx, n := parseNum(path[i:])
			i += n
			ry, n := parseNum(path[i:])
			i += n
			rot, n := parseNum(path[i:])
			i += n
			large, n := parseNum(path[i:])
			i += n
			sweep, n := parseNum(path[i:])
			i += n
			a, n := parseNum(path[i:])
			i += n
			b, n := parseNum(path[i:])
			i += n
			if cmd == 'a' {
				a += x
				b += y
			}
			s.arcTo(rx, ry, rot, large != 0.0, sweep != 0.0, Point{a, b})
		default:
			// unknown command, cannot recover
			s.flush(false)
			return s.subpaths
		}
		prevCmd = cmd
	}
	s.flush(false)
	return s.subpaths
}

// circleSteps is the number of segments circles and ellipses flatten to.
const circleSteps = 64

// Subpaths returns the element's geometry flattened to straight segment runs.
// Supported are path, rect, circle, ellipse, line, polyline and polygon
// elements; everything else yields nil.
func (el *Element) Subpaths() []Subpath {
	switch el.Tag {
	case "path":
		return parsePathData(el.Attr["d"])
	case "rect":
		x := parseFloatAttr(el.Attr["x"])
		y := parseFloatAttr(el.Attr["y"])
		w := parseFloatAttr(el.Attr["width"])
		h := parseFloatAttr(el.Attr["height"])
		if w <= 0.0 || h <= 0.0 {
			return nil
		}
		return []Subpath{{Points: []Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}, Closed: true}}
	case "circle", "ellipse":
		cx := parseFloatAttr(el.Attr["cx"])
		cy := parseFloatAttr(el.Attr["cy"])
		var rx, ry float64
		if el.Tag == "circle" {
			rx = parseFloatAttr(el.Attr["r"])
			ry = rx
		} else {
			rx = parseFloatAttr(el.Attr["rx"])
			ry = parseFloatAttr(el.Attr["ry"])
		}
		if rx <= 0.0 || ry <= 0.0 {
			return nil
		}
		points := make([]Point, 0, circleSteps)
		for i := 0; i < circleSteps; i++ {
			theta := 2.0 * math.Pi * float64(i) / circleSteps
			sintheta, costheta := math.Sincos(theta)
			points = append(points, Point{cx + rx*costheta, cy + ry*sintheta})
		}
		return []Subpath{{Points: points, Closed: true}}
	case "line":
		p0 := Point{parseFloatAttr(el.Attr["x1"]), parseFloatAttr(el.Attr["y1"])}
		p1 := Point{parseFloatAttr(el.Attr["x2"]), parseFloatAttr(el.Attr["y2"])}
		return []Subpath{{Points: []Point{p0, p1}}}
	case "polyline", "polygon":
		vals := parseFloats(el.Attr["points"])
		points := make([]Point, 0, len(vals)/2)
		for i := 0; i+1 < len(vals); i += 2 {
			points = append(points, Point{vals[i], vals[i+1]})
		}
		if len(points) < 2 {
			return nil
		}
		return []Subpath{{Points: points, Closed: el.Tag == "polygon"}}
	}
	return nil
}

// Loops returns the element's geometry as closed loops, the form the shape
// builder consumes. Open subpaths are treated as if closed.
func (el *Element) Loops() [][]Point {
	loops := [][]Point{}
	for _, subpath := range el.Subpaths() {
		loops = append(loops, subpath.Points)
	}
	return loops
}

// Polylines returns the element's geometry as drawn lines. Closed subpaths
// repeat their first point at the end.
func (el *Element) Polylines() [][]Point {
	lines := [][]Point{}
	for _, subpath := range el.Subpaths() {
		points := subpath.Points
		if subpath.Closed {
			points = append(append([]Point{}, points...), points[0])
		}
		lines = append(lines, points)
	}
	return lines
}
