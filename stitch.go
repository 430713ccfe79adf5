package inkstitch

// StitchGroup is an ordered sequence of stitch points the needle will follow,
// in one color. Tags describe what layer the group belongs to, such as
// "auto_fill_underlay" or "auto_fill_top".
type StitchGroup struct {
	Color    string
	Tags     []string
	Stitches []Point
}

// HasTag returns true if the group carries the tag.
func (g *StitchGroup) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// LastStitch returns the final point of the group.
func (g *StitchGroup) LastStitch() Point {
	return g.Stitches[len(g.Stitches)-1]
}

// ColorBlock is a run of stitches in a single color, the unit a machine
// stitches between thread changes.
type ColorBlock struct {
	Color    string
	Stitches []Point
}

// StitchPlan is the final, machine-order arrangement of all stitches.
type StitchPlan struct {
	Blocks []*ColorBlock
}

// CountStitches returns the total number of stitches in the plan.
func (p *StitchPlan) CountStitches() int {
	n := 0
	for _, block := range p.Blocks {
		n += len(block.Stitches)
	}
	return n
}

// StitchGroupsToStitchPlan assembles groups into color blocks, merging
// consecutive groups of the same color so the machine changes thread as
// rarely as possible.
func StitchGroupsToStitchPlan(groups []*StitchGroup) *StitchPlan {
	plan := &StitchPlan{}
	var block *ColorBlock
	for _, group := range groups {
		if len(group.Stitches) == 0 {
			continue
		}
		if block == nil || block.Color != group.Color {
			block = &ColorBlock{Color: group.Color}
			plan.Blocks = append(plan.Blocks, block)
		}
		block.Stitches = append(block.Stitches, group.Stitches...)
	}
	return plan
}
