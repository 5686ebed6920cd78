package game

import "fmt"

type EngagementOutcome int

const (
	OutcomeInconclusive EngagementOutcome = iota
	OutcomeTargetDefeated
	OutcomeHostilesDefeated
)

func (o EngagementOutcome) String() string {
	switch o {
	case OutcomeTargetDefeated:
		return "target_defeated"
	case OutcomeHostilesDefeated:
		return "hostiles_defeated"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

type EngagementOutcomeReason struct {
	Outcome      EngagementOutcome
	Survivors    int
	Total        int
	Wounded      int
	TargetHealth int
	Description  string
}

// DetermineOutcome classifies an engagement from the agents and the target.
// A missing target counts as defeated.
func DetermineOutcome(agents []*Agent, target Target) EngagementOutcomeReason {
	r := EngagementOutcomeReason{Total: len(agents)}
	for _, a := range agents {
		if a.State() == StateDead {
			continue
		}
		r.Survivors++
		if a.Health() < a.Profile().MaxHealth {
			r.Wounded++
		}
	}
	if targetAlive(target) {
		r.TargetHealth = target.CurrentHealth()
	}

	switch {
	case r.TargetHealth <= 0:
		r.Outcome = OutcomeTargetDefeated
		r.Description = fmt.Sprintf("target down, %d/%d hostiles standing", r.Survivors, r.Total)
	case r.Total > 0 && r.Survivors == 0:
		r.Outcome = OutcomeHostilesDefeated
		r.Description = fmt.Sprintf("all %d hostiles down, target at %d hp", r.Total, r.TargetHealth)
	default:
		r.Outcome = OutcomeInconclusive
		r.Description = fmt.Sprintf("%d/%d hostiles standing (%d wounded), target at %d hp",
			r.Survivors, r.Total, r.Wounded, r.TargetHealth)
	}
	return r
}
