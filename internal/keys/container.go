package keys

type ContainerContext struct {
	HasSelection bool `json:"hasSelection"`
}

// ResolveContainer maps a chord pressed while a row is selected but not being edited.
func ResolveContainer(c Chord, ctx ContainerContext) Action {
	if a, ok := undoRedo(c); ok {
		return a
	}
	if c.mod() && c.Shift {
		switch c.Key {
		case keyArrowUp:
			return ActionReorderUp
		case keyArrowDown:
			return ActionReorderDown
		case keyArrowRight:
			return ActionIndentSelected
		case keyArrowLeft:
			return ActionOutdentSelected
		}
	}
	if c.plain() {
		switch c.Key {
		case keyArrowUp:
			return ActionNavigateUp
		case keyArrowDown:
			return ActionNavigateDown
		case keyHome:
			return ActionNavigateStart
		case keyEnd:
			return ActionNavigateEnd
		case keyArrowRight:
			return ActionExpandOrChild
		case keyArrowLeft:
			return ActionCollapseOrParent
		}
	}
	if c.Key == keyEnter && ctx.HasSelection {
		return ActionFocusEditor
	}
	if c.mod() {
		k := c.lower()
		if a, ok := clipboardAction(k); ok {
			return a
		}
		if k == "." {
			return ActionOpenQuickActions
		}
	}
	return ActionNone
}
