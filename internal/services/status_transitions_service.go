package services

import "visaflow/internal/models"

// LeadTransitions lists the allowed next states per lead status. The board
// is a free graph for now: every status may move to every status.
var LeadTransitions = permissive(models.LeadStatuses)

// StageTransitions does the same for the value of a single client stage.
var StageTransitions = permissive(models.StageValues)

func permissive[S ~string](states []S) map[S]map[S]bool {
	table := make(map[S]map[S]bool, len(states))
	for _, from := range states {
		nexts := make(map[S]bool, len(states))
		for _, to := range states {
			nexts[to] = true
		}
		table[from] = nexts
	}
	return table
}

func canTransition[S ~string](current, to S, table map[S]map[S]bool) bool {
	if current == "" {
		// empty status in storage: any starting state is allowed
		return true
	}
	nexts, ok := table[current]
	if !ok {
		return false
	}
	return nexts[to]
}
