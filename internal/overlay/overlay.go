// Package overlay picks the blocking condition shown as a row badge.
package overlay

import (
	"sort"

	"outline-engine/internal/model"
)

// Priority ranks condition modes; lower wins. Unknown modes sort last.
func Priority(mode model.ConditionMode) int {
	switch mode {
	case model.ConditionPerson:
		return 0
	case model.ConditionTask:
		return 1
	case model.ConditionDate:
		return 2
	default:
		return 99
	}
}

// Active returns the highest-priority active condition, or ok=false when none is active.
func Active(conds []model.Condition) (model.Condition, bool) {
	active := make([]model.Condition, 0, len(conds))
	for _, c := range conds {
		if c.Status == model.ConditionActive {
			active = append(active, c)
		}
	}
	if len(active) == 0 {
		return model.Condition{}, false
	}
	sort.SliceStable(active, func(i, j int) bool {
		return Priority(active[i].Mode) < Priority(active[j].Mode)
	})
	return active[0], true
}
