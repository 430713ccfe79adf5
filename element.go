package inkstitch

import (
	"math"
	"strconv"
	"strings"

	"github.com/JulianWebb/inkstitch/svg"
)

// FillElement is an SVG element stitched as a filled region. Parameters are
// read from attributes in the inkstitch namespace; malformed values silently
// fall back to their defaults so that a broken parameter never aborts a run.
type FillElement struct {
	Node *svg.Element
	Doc  *svg.Document

	loops []Ring
	shape Shape
	built bool
}

// NewFillElement wraps an SVG node for stitching.
func NewFillElement(doc *svg.Document, node *svg.Element) *FillElement {
	return &FillElement{Node: node, Doc: doc}
}

func (el *FillElement) param(name string) (string, bool) {
	val, ok := el.Node.Attr["inkstitch:"+name]
	return val, ok
}

func (el *FillElement) floatParam(name string, def float64) float64 {
	val, ok := el.param(name)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return def
	}
	return f
}

// mmParam reads a millimetre-valued parameter and converts to user units.
func (el *FillElement) mmParam(name string, def float64) float64 {
	return el.floatParam(name, def) * PixelsPerMM
}

func (el *FillElement) boolParam(name string, def bool) bool {
	val, ok := el.param(name)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return def
	}
	return b
}

func (el *FillElement) intParam(name string, def int) int {
	val, ok := el.param(name)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return def
	}
	return i
}

// AutoFillEnabled selects automatically routed fill over the legacy
// fixed-direction fill.
func (el *FillElement) AutoFillEnabled() bool {
	return el.boolParam("auto_fill", true)
}

// Angle returns the row angle in radians. The angle increases
// counter-clockwise, 0 is horizontal.
func (el *FillElement) Angle() float64 {
	return el.floatParam("angle", 0.0) * math.Pi / 180.0
}

// Color returns the fill color. The SVG spec says the default fill is black.
func (el *FillElement) Color() string {
	return el.Node.Style("fill", "#000000")
}

// SkipLast drops the last stitch in each row; it is quite close to the first
// stitch of the next row.
func (el *FillElement) SkipLast() bool {
	return el.boolParam("skip_last", false)
}

// Flip makes stitching go right-to-left instead of left-to-right.
func (el *FillElement) Flip() bool {
	return el.boolParam("flip", false)
}

// RowSpacing returns the distance between rows of stitches.
func (el *FillElement) RowSpacing() float64 {
	return math.Max(el.mmParam("row_spacing_mm", 0.25), 0.1*PixelsPerMM)
}

// EndRowSpacing returns the row spacing to taper towards at the far end, or
// zero when rows are evenly spaced.
func (el *FillElement) EndRowSpacing() float64 {
	return el.mmParam("end_row_spacing_mm", 0.0)
}

// MaxStitchLength returns the length of each stitch in a row. Shorter
// stitches may be used at the start or end of a row.
func (el *FillElement) MaxStitchLength() float64 {
	return math.Max(el.mmParam("max_stitch_length_mm", 3.0), 0.1*PixelsPerMM)
}

// Staggers dictates how many rows apart stitches fall in the same column
// position.
func (el *FillElement) Staggers() int {
	if staggers := el.intParam("staggers", 4); 1 < staggers {
		return staggers
	}
	return 1
}

// RunningStitchLength returns the stitch length used when traveling between
// fill sections.
func (el *FillElement) RunningStitchLength() float64 {
	return math.Max(el.mmParam("running_stitch_length_mm", 1.5), 0.01)
}

// Expand grows the shape before fill stitching to compensate for gaps between
// shapes.
func (el *FillElement) Expand() float64 {
	return el.mmParam("expand_mm", 0.0)
}

// Underpath travels inside the shape when moving from section to section, so
// travel stitches hide under the fill.
func (el *FillElement) Underpath() bool {
	return el.boolParam("underpath", true)
}

// UnderlayEnabled toggles underlay beneath the top fill.
func (el *FillElement) UnderlayEnabled() bool {
	return el.boolParam("fill_underlay", true)
}

// UnderlayAngles returns one row angle per underlay layer. The parameter is a
// comma-separated list of degrees; if any entry fails to parse the whole list
// falls back to the default single layer at the fill angle + 90 degrees.
func (el *FillElement) UnderlayAngles() []float64 {
	defaultAngles := []float64{el.Angle() + math.Pi/2.0}
	val, ok := el.param("fill_underlay_angle")
	if !ok {
		return defaultAngles
	}
	angles := []float64{}
	for _, field := range strings.Split(strings.TrimSpace(val), ",") {
		deg, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return defaultAngles
		}
		angles = append(angles, deg*math.Pi/180.0)
	}
	if len(angles) == 0 {
		return defaultAngles
	}
	return angles
}

// UnderlayRowSpacing returns the underlay row spacing, by default three times
// the fill row spacing.
func (el *FillElement) UnderlayRowSpacing() float64 {
	if spacing := el.mmParam("fill_underlay_row_spacing_mm", 0.0); 0.0 < spacing {
		return spacing
	}
	return el.RowSpacing() * 3.0
}

// UnderlayMaxStitchLength returns the underlay stitch length, by default
// equal to the fill stitch length.
func (el *FillElement) UnderlayMaxStitchLength() float64 {
	if length := el.mmParam("fill_underlay_max_stitch_length_mm", 0.0); 0.0 < length {
		return length
	}
	return el.MaxStitchLength()
}

// UnderlayInset shrinks the shape before underlay, to keep underlay from
// peeking out around the fill.
func (el *FillElement) UnderlayInset() float64 {
	return el.mmParam("fill_underlay_inset_mm", 0.0)
}

// UnderlaySkipLast drops the last stitch in each underlay row.
func (el *FillElement) UnderlaySkipLast() bool {
	return el.boolParam("fill_underlay_skip_last", false)
}

// UnderlayUnderpath travels inside the shape between underlay sections.
func (el *FillElement) UnderlayUnderpath() bool {
	return el.boolParam("underlay_underpath", true)
}

// Paths returns the element's geometry as raw loops. Built once and cached.
func (el *FillElement) Paths() []Ring {
	if el.loops == nil {
		loops := el.Node.Loops()
		el.loops = make([]Ring, 0, len(loops))
		for _, loop := range loops {
			ring := make(Ring, 0, len(loop))
			for _, p := range loop {
				ring = append(ring, Point{p.X, p.Y})
			}
			el.loops = append(el.loops, ring)
		}
	}
	return el.loops
}

// Shape returns the element's validated region. Built once and cached; never
// mutated, derived shapes are new values.
func (el *FillElement) Shape() Shape {
	if !el.built {
		el.shape = BuildShape(el.Paths())
		el.built = true
	}
	return el.shape
}

// UnderlayShape returns the shape shrunk by the underlay inset.
func (el *FillElement) UnderlayShape() Shape {
	return Offset(el.Shape(), -el.UnderlayInset(), false)
}

// FillShape returns the shape grown by the expand parameter.
func (el *FillElement) FillShape() Shape {
	return Offset(el.Shape(), el.Expand(), false)
}

// StartingPoint returns where stitching of this element should begin: an
// explicit fill_start command wins, otherwise the last stitch of the previous
// group, otherwise nil and the router picks.
func (el *FillElement) StartingPoint(last *StitchGroup) *Point {
	if el.Doc != nil {
		if p, ok := el.Doc.CommandTarget(el.Node, "fill_start"); ok {
			return &Point{p.X, p.Y}
		}
	}
	if last != nil && 0 < len(last.Stitches) {
		p := last.Stitches[len(last.Stitches)-1]
		return &p
	}
	return nil
}

// EndingPoint returns the explicit fill_end command target, or nil to let the
// router choose the closest exit.
func (el *FillElement) EndingPoint() *Point {
	if el.Doc != nil {
		if p, ok := el.Doc.CommandTarget(el.Node, "fill_end"); ok {
			return &Point{p.X, p.Y}
		}
	}
	return nil
}
