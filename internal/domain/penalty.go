package domain

// Penalty is the cost impact of issues on a route: either a finite delay in
// minutes or a hard block. Use Feasible or Blocked to construct one.
type Penalty struct {
	blocked bool
	minutes float64
}

// Feasible returns a finite penalty. Negative input is clamped to zero.
func Feasible(minutes float64) Penalty {
	if minutes < 0 || minutes != minutes {
		minutes = 0
	}
	return Penalty{minutes: minutes}
}

// BlockedPenalty marks a route as impassable.
func BlockedPenalty() Penalty { return Penalty{blocked: true} }

func (p Penalty) Blocked() bool { return p.blocked }

// Minutes returns the finite delay; ok is false when the route is blocked.
func (p Penalty) Minutes() (float64, bool) {
	if p.blocked {
		return 0, false
	}
	return p.minutes, true
}

// Add accumulates a finite delay. Adding to a blocked penalty keeps it blocked.
func (p Penalty) Add(minutes float64) Penalty {
	if p.blocked {
		return p
	}
	return Feasible(p.minutes + minutes)
}
