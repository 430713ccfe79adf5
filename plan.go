package inkstitch

import (
	"fmt"
	"runtime/debug"

	"github.com/JulianWebb/inkstitch/svg"
)

// issuesURL is where users paste fatal diagnostics.
const issuesURL = "https://github.com/inkstitch/inkstitch/issues/new"

// FatalError is a routing failure converted into a bug-report-ready
// diagnostic. It aborts the element it occurred on but not the whole run.
type FatalError struct {
	Message string
	Err     error
}

func (e *FatalError) Error() string { return e.Message }
func (e *FatalError) Unwrap() error { return e.Err }

func newFatalError(err error) *FatalError {
	message := "Error during autofill!  This means that there is a problem with Ink/Stitch.\n\n" +
		"If you'd like to help us make Ink/Stitch better, please paste this whole message into a new issue at: " +
		issuesURL + "\n\n" +
		Version + "\n\n" +
		err.Error() + "\n\n" +
		string(debug.Stack())
	return &FatalError{Message: message, Err: err}
}

// Planner turns fill elements into stitch groups. The zero value is not
// usable; construct with NewPlanner.
//
// Strict mode hands routing failures back unwrapped instead of converting
// them into user-facing diagnostics, which keeps the failure context intact
// during development.
type Planner struct {
	Strict bool

	// the row-routing collaborators, replaceable for tests
	AutoFill   AutoFillFunc
	LegacyFill LegacyFillFunc
}

// NewPlanner returns a planner using the built-in row routers.
func NewPlanner() *Planner {
	return &Planner{
		AutoFill:   AutoFill,
		LegacyFill: LegacyFill,
	}
}

// StitchGroups generates the stitch groups for one element. last is the
// immediately preceding element's final group, used to chain starting points
// across elements; nil for the first element of a run.
//
// Either the full underlay and top-fill sequence is returned, or an error;
// never a partial result.
func (pl *Planner) StitchGroups(el *FillElement, last *StitchGroup) ([]*StitchGroup, error) {
	if el.AutoFillEnabled() {
		return pl.autoFillGroups(el, last)
	}
	return pl.legacyFillGroups(el), nil
}

func (pl *Planner) legacyFillGroups(el *FillElement) []*StitchGroup {
	lists := pl.LegacyFill(el.Shape(),
		el.Angle(),
		el.RowSpacing(),
		el.EndRowSpacing(),
		el.MaxStitchLength(),
		el.Flip(),
		el.Staggers(),
		el.SkipLast())

	groups := make([]*StitchGroup, 0, len(lists))
	for _, stitches := range lists {
		groups = append(groups, &StitchGroup{
			Color:    el.Color(),
			Stitches: stitches,
		})
	}
	return groups
}

func (pl *Planner) autoFillGroups(el *FillElement, last *StitchGroup) ([]*StitchGroup, error) {
	groups := []*StitchGroup{}

	startingPoint := el.StartingPoint(last)
	endingPoint := el.EndingPoint()

	if el.UnderlayEnabled() {
		for _, angle := range el.UnderlayAngles() {
			stitches, err := pl.AutoFill(el.UnderlayShape(),
				angle,
				el.UnderlayRowSpacing(),
				el.UnderlayRowSpacing(),
				el.UnderlayMaxStitchLength(),
				el.RunningStitchLength(),
				el.Staggers(),
				el.UnderlaySkipLast(),
				startingPoint,
				nil,
				el.UnderlayUnderpath())
			if err != nil {
				return nil, pl.fail(err)
			}
			underlay := &StitchGroup{
				Color:    el.Color(),
				Tags:     []string{"auto_fill", "auto_fill_underlay"},
				Stitches: stitches,
			}
			groups = append(groups, underlay)

			// underlay layers chain into each other and into the top fill
			p := underlay.LastStitch()
			startingPoint = &p
		}
	}

	stitches, err := pl.AutoFill(el.FillShape(),
		el.Angle(),
		el.RowSpacing(),
		el.EndRowSpacing(),
		el.MaxStitchLength(),
		el.RunningStitchLength(),
		el.Staggers(),
		el.SkipLast(),
		startingPoint,
		endingPoint,
		el.Underpath())
	if err != nil {
		return nil, pl.fail(err)
	}
	groups = append(groups, &StitchGroup{
		Color:    el.Color(),
		Tags:     []string{"auto_fill", "auto_fill_top"},
		Stitches: stitches,
	})
	return groups, nil
}

func (pl *Planner) fail(err error) error {
	if pl.Strict {
		return err
	}
	return newFatalError(err)
}

// PlanDocument stitches every fill element of the document in document
// order. Elements failing validation or routing are skipped and reported in
// the returned error list; the rest of the run continues. Pattern overlays
// are applied per element before its groups join the plan.
func (pl *Planner) PlanDocument(doc *svg.Document) (*StitchPlan, []error) {
	groups := []*StitchGroup{}
	errs := []error{}
	var last *StitchGroup

	for _, node := range doc.Root.Descendants() {
		if !node.Embroiderable() || node.IsPattern() || !node.HasStyle("fill") {
			continue
		}
		el := NewFillElement(doc, node)

		if problems := el.ValidationErrors(); 0 < len(problems) {
			for _, problem := range problems {
				errs = append(errs, fmt.Errorf("%s %s: %s at %v", node.Label(), problem.Name(), problem.Description(), problem.Position()))
			}
			continue
		}

		elGroups, err := pl.StitchGroups(el, last)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		ApplyPatterns(elGroups, ExtractPatterns(el))

		groups = append(groups, elGroups...)
		if 0 < len(elGroups) {
			last = elGroups[len(elGroups)-1]
		}
	}
	return StitchGroupsToStitchPlan(groups), errs
}
