package inkstitch

// InvalidityKind classifies why a shape fails the topological validity test.
// The kinds form a closed enumeration so that callers never inspect
// diagnostic strings.
type InvalidityKind int

const (
	// SelfIntersection means a border crosses over itself.
	SelfIntersection InvalidityKind = iota
	// HoleOutsideShell means a supposed hole does not lie inside the border,
	// i.e. the shape is really several disjoint pieces.
	HoleOutsideShell
	// NestedHoles means a hole lies inside another hole.
	NestedHoles
)

func (k InvalidityKind) String() string {
	switch k {
	case SelfIntersection:
		return "self-intersection"
	case HoleOutsideShell:
		return "hole lies outside shell"
	case NestedHoles:
		return "holes are nested"
	}
	return "unknown"
}

// Invalidity describes a topological problem and its approximate location.
type Invalidity struct {
	Kind InvalidityKind
	Pos  Point
}

// explainInvalidity inspects the shape and returns the first topological
// problem found, or nil when the shape is valid. Problems are logged through
// the package logger; probing callers use shapeIsValid to keep quiet.
func explainInvalidity(s Shape) *Invalidity {
	inv := findInvalidity(s)
	if inv != nil {
		Logger().Warn("invalid shape", "reason", inv.Kind.String(), "x", inv.Pos.X, "y", inv.Pos.Y)
	}
	return inv
}

// shapeIsValid tests validity without the diagnostic logging side effect. The
// logger state is restored on every exit path.
func shapeIsValid(s Shape) bool {
	restore := suppressDiagnostics()
	defer restore()
	return explainInvalidity(s) == nil
}

func findInvalidity(s Shape) *Invalidity {
	for _, region := range s {
		rings := append([]Ring{region.Outer}, region.Holes...)

		// crossings within a single ring
		for _, ring := range rings {
			if pos, ok := ringSelfIntersection(ring); ok {
				return &Invalidity{SelfIntersection, pos}
			}
		}

		// crossings between rings
		for i := 0; i < len(rings); i++ {
			for j := i + 1; j < len(rings); j++ {
				if pos, ok := ringsIntersect(rings[i], rings[j]); ok {
					return &Invalidity{SelfIntersection, pos}
				}
			}
		}

		// every hole must lie inside the border
		outer := Region{Outer: region.Outer}
		for _, hole := range region.Holes {
			if 0 < len(hole) && !outer.Contains(hole[0]) {
				return &Invalidity{HoleOutsideShell, hole[0]}
			}
		}

		// holes must not contain each other
		for i, hole := range region.Holes {
			in := Region{Outer: hole}
			for j, other := range region.Holes {
				if i == j || len(other) == 0 {
					continue
				}
				if in.Contains(other[0]) {
					return &Invalidity{NestedHoles, other[0]}
				}
			}
		}
	}
	return nil
}

func ringSelfIntersection(r Ring) (Point, bool) {
	n := len(r)

	// a ring that revisits one of its own vertices touches itself there,
	// the figure-eight case
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if equal(r[i].X, r[j].X) && equal(r[i].Y, r[j].Y) {
				return r[i], true
			}
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			// skip adjacent segments, they share an endpoint
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if pos, ok := segmentIntersection(r[i], r[(i+1)%n], r[j], r[(j+1)%n]); ok {
				return pos, true
			}
		}
	}
	return Point{}, false
}

func ringsIntersect(a, b Ring) (Point, bool) {
	for i := range a {
		for j := range b {
			if pos, ok := segmentIntersection(a[i], a[(i+1)%len(a)], b[j], b[(j+1)%len(b)]); ok {
				return pos, true
			}
		}
	}
	return Point{}, false
}

// segmentIntersection returns the proper crossing point of segments a0-a1 and
// b0-b1. Touching endpoints and collinear overlaps do not count as crossings.
func segmentIntersection(a0, a1, b0, b1 Point) (Point, bool) {
	da := a1.Sub(a0)
	db := b1.Sub(b0)
	denom := da.PerpDot(db)
	if equal(denom, 0.0) {
		return Point{}, false
	}
	t := b0.Sub(a0).PerpDot(db) / denom
	u := b0.Sub(a0).PerpDot(da) / denom
	if t <= Epsilon || 1.0-Epsilon <= t || u <= Epsilon || 1.0-Epsilon <= u {
		return Point{}, false
	}
	return a0.Add(da.Mul(t)), true
}
