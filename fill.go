package gridedit

// FillDirection is the direction of a vertical fill.
type FillDirection int

const (
	FillDown FillDirection = iota
	FillUp
)

// String returns "down" or "up".
func (d FillDirection) String() string {
	if d == FillUp {
		return "up"
	}
	return "down"
}

// FillPlan lists the rows a vertical fill writes, in ascending order. Every
// row receives Source unchanged; there is no series extrapolation.
type FillPlan struct {
	Direction FillDirection
	Source    Value
	Rows      []int
}

// FillRange plans a fill from anchor to target. The anchor row is never
// written, and rows for which editable returns false are left out.
// A nil editable accepts every row.
func FillRange(source Value, anchor, target int, editable func(row int) bool) FillPlan {
	plan := FillPlan{Direction: FillUp, Source: source}
	if anchor < target {
		plan.Direction = FillDown
	}
	lo, hi := min(anchor, target), max(anchor, target)
	for r := lo; r <= hi; r++ {
		if r == anchor {
			continue
		}
		if editable != nil && !editable(r) {
			continue
		}
		plan.Rows = append(plan.Rows, r)
	}
	return plan
}
