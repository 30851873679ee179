package services

import "road-issue-service/internal/domain"

// IssuePenalty is the cost of one issue category: a delay in minutes, or a hard block.
type IssuePenalty struct {
	Minutes float64
	Blocks  bool
}

// PenaltyTable maps issue categories to their travel-time impact.
// Categories missing from the table contribute nothing.
var PenaltyTable = map[domain.IssueType]IssuePenalty{
	domain.IssueClosure:   {Blocks: true},
	domain.IssueAccident:  {Minutes: 15},
	domain.IssueFlooding:  {Minutes: 12},
	domain.IssueTraffic:   {Minutes: 10},
	domain.IssueRoadworks: {Minutes: 8},
	domain.IssueDebris:    {Minutes: 5},
	domain.IssueOther:     {Minutes: 3},
	domain.IssuePothole:   {Minutes: 2},
}

// PenaltyFor returns the table entry for t, or a zero delay for unknown categories.
func PenaltyFor(t domain.IssueType) IssuePenalty {
	return PenaltyTable[t]
}

// RoutePenalty is the aggregated impact of a set of issues on one route.
type RoutePenalty struct {
	Penalty        domain.Penalty
	BlockingIssues []domain.Issue
	AffectedIssues []domain.AffectedIssue
}

// CalculateRoutePenalty sums the delay of every issue intersecting the route.
//
// The first intersecting blocking issue decides the outcome: evaluation stops,
// the result is blocked, and BlockingIssues holds only that issue alongside
// whatever AffectedIssues were collected before it.
func CalculateRoutePenalty(route []domain.Point, issues []domain.Issue) RoutePenalty {
	total := domain.Feasible(0)
	affected := []domain.AffectedIssue{}

	for _, issue := range issues {
		if !RouteIntersectsIssue(route, issue) {
			continue
		}

		p := PenaltyFor(issue.Type)
		if p.Blocks {
			return RoutePenalty{
				Penalty:        domain.BlockedPenalty(),
				BlockingIssues: []domain.Issue{issue},
				AffectedIssues: affected,
			}
		}

		total = total.Add(p.Minutes)
		affected = append(affected, domain.AffectedIssue{Issue: issue, Minutes: p.Minutes})
	}

	return RoutePenalty{
		Penalty:        total,
		BlockingIssues: []domain.Issue{},
		AffectedIssues: affected,
	}
}
