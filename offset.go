package inkstitch

// Offset returns the shape buffered by amount: positive grows, negative
// shrinks, zero is the identity.
//
// A large enough inset (or a pathological expand) can erase the shape
// entirely. Validating callers receive the empty result so they can report
// the degenerate configuration; everyone else gets the original shape back so
// that stitch generation keeps working.
func Offset(s Shape, amount float64, validating bool) Shape {
	if amount == 0.0 {
		return s
	}
	offset := offsetShape(s, amount)
	if offset.Empty() && !validating {
		return s
	}
	return offset
}
