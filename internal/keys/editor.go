package keys

import "strings"

// EditorContext describes the text row holding the caret. Offsets count characters.
type EditorContext struct {
	Text           string `json:"text"`
	SelectionStart int    `json:"selectionStart"`
	SelectionEnd   int    `json:"selectionEnd"`
}

func (ctx EditorContext) span() (start, end int, runes []rune) {
	runes = []rune(ctx.Text)
	clamp := func(n int) int {
		if n < 0 {
			return 0
		}
		if n > len(runes) {
			return len(runes)
		}
		return n
	}
	start, end = clamp(ctx.SelectionStart), clamp(ctx.SelectionEnd)
	if end < start {
		start, end = end, start
	}
	return start, end, runes
}

// ResolveEditor maps a chord pressed while editing row text. The first matching rule wins.
func ResolveEditor(c Chord, ctx EditorContext) Action {
	start, end, runes := ctx.span()
	hasSelection := start != end
	k := c.lower()

	if a, ok := undoRedo(c); ok {
		return a
	}
	if c.Key == keyEscape {
		return ActionExitEditMode
	}
	if c.mod() && k == "." {
		return ActionOpenQuickActions
	}
	if c.mod() {
		if a, ok := clipboardAction(k); ok {
			if hasSelection {
				return ActionNone
			}
			return a
		}
	}
	if c.mod() {
		switch c.Key {
		case keyArrowUp:
			return ActionReorderUp
		case keyArrowDown:
			return ActionReorderDown
		}
	}
	if c.mod() && c.Shift {
		switch c.Key {
		case keyArrowRight:
			return ActionIndent
		case keyArrowLeft:
			return ActionOutdent
		}
	}
	if c.plain() && (c.Key == keyArrowUp || c.Key == keyArrowDown) {
		if hasSelection {
			return ActionNone
		}
		// Only leave the row from its first or last line; elsewhere the caret moves.
		if c.Key == keyArrowUp && !strings.ContainsRune(string(runes[:start]), '\n') {
			return ActionMoveSelectionUp
		}
		if c.Key == keyArrowDown && !strings.ContainsRune(string(runes[end:]), '\n') {
			return ActionMoveSelectionDown
		}
		return ActionNone
	}
	if c.Key == keyEnter && !c.Shift {
		return ActionCreateSibling
	}
	if c.Key == keyTab {
		if c.Shift {
			return ActionOutdent
		}
		return ActionIndent
	}
	if c.Key == keyBackspace {
		if strings.TrimSpace(ctx.Text) == "" {
			return ActionDeleteEmptyRow
		}
		if !hasSelection && start == 0 {
			return ActionMergeWithPreviousSibling
		}
		return ActionNone
	}
	if c.Key == keyDelete && !hasSelection && end == len(runes) {
		return ActionMergeWithNextSibling
	}
	return ActionNone
}
