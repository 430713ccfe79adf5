package inkstitch

import (
	clipper "github.com/ctessum/go.clipper"
)

// clipperScale converts between float64 user units and Clipper's integer
// coordinates. 2^32 keeps quantization well below the 1e-9 relative area
// tolerance of the self-intersection repair while leaving headroom in 64-bit
// coordinates for any realistic hoop size.
const clipperScale = 1 << 32

func toClipperPath(r Ring) clipper.Path {
	path := make(clipper.Path, 0, len(r))
	for _, p := range r {
		path = append(path, &clipper.IntPoint{
			X: clipper.CInt(p.X * clipperScale),
			Y: clipper.CInt(p.Y * clipperScale),
		})
	}
	return path
}

// toClipperPaths emits every ring with holes wound opposite to their outer,
// which is what Clipper's non-zero filling and offsetting expect.
func toClipperPaths(s Shape) clipper.Paths {
	paths := clipper.Paths{}
	for _, region := range s {
		paths = append(paths, toClipperPath(region.Outer.ccw()))
		for _, hole := range region.Holes {
			paths = append(paths, toClipperPath(hole.cw()))
		}
	}
	return paths
}

func fromClipperPath(path clipper.Path) Ring {
	r := make(Ring, 0, len(path))
	for _, ip := range path {
		r = append(r, Point{
			float64(ip.X) / clipperScale,
			float64(ip.Y) / clipperScale,
		})
	}
	return r
}

// fromPolyTree walks Clipper's containment tree and assembles regions. The
// tree alternates outer/hole with depth, so a hole's children start new
// regions.
func fromPolyTree(tree *clipper.PolyTree) Shape {
	s := Shape{}
	for _, node := range tree.Childs() {
		s = append(s, regionsFromPolyNode(node)...)
	}
	return s
}

func regionsFromPolyNode(node *clipper.PolyNode) []Region {
	region := Region{Outer: fromClipperPath(node.Contour())}
	regions := []Region{}
	for _, child := range node.Childs() {
		region.Holes = append(region.Holes, fromClipperPath(child.Contour()))
		for _, grandchild := range child.Childs() {
			regions = append(regions, regionsFromPolyNode(grandchild)...)
		}
	}
	return append([]Region{region}, regions...)
}

// unionShape re-unions a shape with itself. With non-zero filling this is the
// classic zero-distance buffer that resolves self-intersecting borders.
func unionShape(s Shape) Shape {
	// strictly simple output splits polygons that touch themselves at a
	// vertex into separate contours
	c := clipper.NewClipper(clipper.IoStrictlySimple)
	c.AddPaths(toClipperPaths(s), clipper.PtSubject, true)
	tree, ok := c.Execute2(clipper.CtUnion, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return Shape{}
	}
	return fromPolyTree(tree)
}

// offsetShape buffers a shape outwards (positive delta) or inwards (negative
// delta) with round joins.
func offsetShape(s Shape, delta float64) Shape {
	co := clipper.NewClipperOffset()
	// ArcTolerance is measured in scaled integer units; leaving the default
	// (0.25 integer units) would tessellate every round join to hundreds of
	// thousands of points. 0.01 user units is far below stitch resolution.
	co.ArcTolerance = 0.01 * clipperScale
	co.AddPaths(toClipperPaths(s), clipper.JtRound, clipper.EtClosedPolygon)
	tree := co.Execute2(delta * clipperScale)
	return fromPolyTree(tree)
}
