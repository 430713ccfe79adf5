package inkstitch

import "sort"

// Pattern is a decorative overlay extracted from a marker-tagged sibling
// element. A pattern is never stitched itself: its fill region removes
// redundant stitches and its stroke lines add stitches where they cross the
// path.
type Pattern struct {
	Fill    Shape
	Strokes [][]Point
}

// ExtractPatterns builds the patterns that apply to the element: every
// sibling under the same parent group tagged with the pattern marker. A
// sibling contributes a fill pattern if it declares a fill, a stroke pattern
// if it declares a stroke, or both.
func ExtractPatterns(el *FillElement) []*Pattern {
	patterns := []*Pattern{}
	for _, node := range el.Node.PatternSiblings() {
		pattern := &Pattern{}
		if node.HasStyle("fill") {
			loops := []Ring{}
			for _, loop := range node.Loops() {
				ring := make(Ring, 0, len(loop))
				for _, p := range loop {
					ring = append(ring, Point{p.X, p.Y})
				}
				loops = append(loops, ring)
			}
			pattern.Fill = BuildShape(loops)
		}
		if node.HasStyle("stroke") {
			for _, line := range node.Polylines() {
				points := make([]Point, 0, len(line))
				for _, p := range line {
					points = append(points, Point{p.X, p.Y})
				}
				pattern.Strokes = append(pattern.Strokes, points)
			}
		}
		if !pattern.Fill.Empty() || 0 < len(pattern.Strokes) {
			patterns = append(patterns, pattern)
		}
	}
	return patterns
}

// ApplyPatterns overlays the patterns onto the stitch groups, replacing each
// group's point sequence in place. Stroke patterns are applied first, fill
// patterns second; multiple patterns of the same kind compound.
func ApplyPatterns(groups []*StitchGroup, patterns []*Pattern) {
	for _, pattern := range patterns {
		if 0 < len(pattern.Strokes) {
			for _, group := range groups {
				applyStrokePattern(group, pattern.Strokes)
			}
		}
	}
	for _, pattern := range patterns {
		if !pattern.Fill.Empty() {
			for _, group := range groups {
				applyFillPattern(group, pattern.Fill)
			}
		}
	}
}

// applyStrokePattern inserts a stitch wherever a stitch segment crosses one
// of the pattern's lines, ordered by distance from the segment's first point.
// Shared endpoints and collinear overlaps are not crossings: a pattern line
// through an existing stitch inserts nothing, that point is already part of
// the run.
func applyStrokePattern(group *StitchGroup, strokes [][]Point) {
	stitches := []Point{}
	for i, stitch := range group.Stitches {
		stitches = append(stitches, stitch)
		if i == len(group.Stitches)-1 {
			continue
		}
		next := group.Stitches[i+1]

		crossings := []Point{}
		for _, line := range strokes {
			for j := 0; j+1 < len(line); j++ {
				if p, ok := segmentIntersection(stitch, next, line[j], line[j+1]); ok {
					crossings = append(crossings, p)
				}
			}
		}
		sort.Slice(crossings, func(a, b int) bool {
			return stitch.Distance(crossings[a]) < stitch.Distance(crossings[b])
		})
		stitches = append(stitches, crossings...)
	}
	group.Stitches = stitches
}

// applyFillPattern drops the stitches that are redundant inside the pattern
// region. A stitch survives if it lies outside the region, if it is the
// group's first or last stitch, or if it is a real corner: only points on a
// nearly straight run (within one degree of collinear) disappear, leaving the
// region visibly unstitched.
func applyFillPattern(group *StitchGroup, fill Shape) {
	stitches := []Point{}
	for i, stitch := range group.Stitches {
		switch {
		case !fill.Contains(stitch):
			stitches = append(stitches, stitch)
		case i == 0 || i == len(group.Stitches)-1:
			stitches = append(stitches, stitch)
		default:
			angle := interiorAngle(group.Stitches[i-1], stitch, group.Stitches[i+1])
			if !(179.0 < angle && angle < 181.0) {
				stitches = append(stitches, stitch)
			}
		}
	}
	group.Stitches = stitches
}
