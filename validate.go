package inkstitch

// ValidationProblem is a diagnostic about an element's geometry: what is
// wrong, where, and whether it prevents stitching. Warnings describe
// conditions the planner silently works around.
type ValidationProblem interface {
	Name() string
	Description() string
	StepsToSolve() []string
	Position() Point
	Fatal() bool
}

// UnconnectedError reports a shape made up of unconnected pieces, where one
// piece was misread as a hole of another. There is no way to know what order
// to stitch them in; the object must be broken apart.
type UnconnectedError struct {
	Pos Point
}

func (e UnconnectedError) Name() string { return "Unconnected" }
func (e UnconnectedError) Description() string {
	return "Fill: This object is made up of unconnected shapes. This is not allowed because " +
		"Ink/Stitch doesn't know what order to stitch them in. Please break this object up into separate shapes."
}
func (e UnconnectedError) StepsToSolve() []string {
	return []string{"* Extensions > Ink/Stitch > Fill Tools > Break Apart Fill Objects"}
}
func (e UnconnectedError) Position() Point { return e.Pos }
func (e UnconnectedError) Fatal() bool     { return true }

// InvalidShapeError reports a border that crosses over itself and could not
// be repaired without changing the shape's size.
type InvalidShapeError struct {
	Pos Point
}

func (e InvalidShapeError) Name() string { return "Border crosses itself" }
func (e InvalidShapeError) Description() string {
	return "Fill: Shape is not valid. This can happen if the border crosses over itself."
}
func (e InvalidShapeError) StepsToSolve() []string {
	return []string{"* Extensions > Ink/Stitch > Fill Tools > Break Apart Fill Objects"}
}
func (e InvalidShapeError) Position() Point { return e.Pos }
func (e InvalidShapeError) Fatal() bool     { return true }

// smallShapeArea is the area below which a fill falls back to an outline
// running stitch.
const smallShapeArea = 20.0

// SmallShapeWarning reports a fill so small it will be stitched as a running
// stitch around the outline instead.
type SmallShapeWarning struct {
	Pos          Point
	ElementLabel string
}

func (w SmallShapeWarning) Name() string { return "Small Fill" }
func (w SmallShapeWarning) Description() string {
	return "This fill object is so small that it would probably look better as running stitch or satin column. " +
		"For very small shapes, fill stitch is not possible, and Ink/Stitch will use running stitch around the outline instead."
}
func (w SmallShapeWarning) StepsToSolve() []string { return nil }
func (w SmallShapeWarning) Position() Point        { return w.Pos }
func (w SmallShapeWarning) Fatal() bool            { return false }

// ExpandWarning reports an expand parameter that empties the shape; it will
// be ignored and the original size used instead.
type ExpandWarning struct {
	Pos Point
}

func (w ExpandWarning) Name() string { return "Expand" }
func (w ExpandWarning) Description() string {
	return "The expand parameter for this fill object cannot be applied. " +
		"Ink/Stitch will ignore it and will use original size instead."
}
func (w ExpandWarning) StepsToSolve() []string { return nil }
func (w ExpandWarning) Position() Point        { return w.Pos }
func (w ExpandWarning) Fatal() bool            { return false }

// UnderlayInsetWarning reports an underlay inset that empties the shape; it
// will be ignored and the original size used instead.
type UnderlayInsetWarning struct {
	Pos Point
}

func (w UnderlayInsetWarning) Name() string { return "Inset" }
func (w UnderlayInsetWarning) Description() string {
	return "The underlay inset parameter for this fill object cannot be applied. " +
		"Ink/Stitch will ignore it and will use the original size instead."
}
func (w UnderlayInsetWarning) StepsToSolve() []string { return nil }
func (w UnderlayInsetWarning) Position() Point        { return w.Pos }
func (w UnderlayInsetWarning) Fatal() bool            { return false }

// ValidationErrors reports fatal geometry problems. A shape that is still
// invalid after the builder's conservative repair is classified by its
// invalidity kind: a hole outside the shell means disjoint pieces, anything
// else means a self-crossing border.
func (el *FillElement) ValidationErrors() []ValidationProblem {
	problems := []ValidationProblem{}
	if !shapeIsValid(el.Shape()) {
		if why := explainInvalidity(el.Shape()); why != nil {
			if why.Kind == HoleOutsideShell {
				problems = append(problems, UnconnectedError{Pos: why.Pos})
			} else {
				problems = append(problems, InvalidShapeError{Pos: why.Pos})
			}
		}
	}
	return problems
}

// ValidationWarnings reports non-fatal conditions. The degenerate-offset
// checks use the validating offset variant on purpose: during stitch
// generation the offset silently falls back to the original shape, and this
// is the only place the user hears about it.
func (el *FillElement) ValidationWarnings() []ValidationProblem {
	problems := []ValidationProblem{}
	shape := el.Shape()
	if shape.Area() < smallShapeArea {
		problems = append(problems, SmallShapeWarning{Pos: shape.Centroid(), ElementLabel: el.Node.Label()})
	}
	if Offset(shape, el.Expand(), true).Empty() {
		problems = append(problems, ExpandWarning{Pos: shape.Centroid()})
	}
	if Offset(shape, -el.UnderlayInset(), true).Empty() {
		problems = append(problems, UnderlayInsetWarning{Pos: shape.Centroid()})
	}
	return problems
}
