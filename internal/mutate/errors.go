package mutate

import "fmt"

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// StalePlanError reports a plan whose order no longer covers the snapshot it is applied to.
type StalePlanError struct {
	Missing []string
}

func (e StalePlanError) Error() string {
	return fmt.Sprintf("plan is stale: %d placement(s) missing from order", len(e.Missing))
}

// SharedBlockError reports a move to the top level that would have to clear a block parent
// other placements of the same block still rely on.
type SharedBlockError struct {
	PlacementID string
	BlockID     string
}

func (e SharedBlockError) Error() string {
	return fmt.Sprintf("cannot move %s to the top level: block %s is shared with other placements", e.PlacementID, e.BlockID)
}

// OrderConflictError reports keys that would not rebuild into the planned order. A pinned
// row always sorts ahead of its unpinned siblings, so a plan placing an unpinned row above
// one ends here.
type OrderConflictError struct {
	PlacementID string
}

func (e OrderConflictError) Error() string {
	return fmt.Sprintf("plan order conflicts with sibling order at %s (pinned rows sort first)", e.PlacementID)
}
