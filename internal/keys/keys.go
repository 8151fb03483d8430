// Package keys maps key chords to outline actions.
//
// There are two tables. The editor table runs while the caret is inside a row's text; the
// container table runs while a row is selected without text focus. Several chords mean
// different things in each, so the caller must pick the table by focus, never by chord.
package keys

import "strings"

// Chord is a key press. Key uses DOM KeyboardEvent.key names ("ArrowUp", "Enter", "z").
type Chord struct {
	Key   string `json:"key"`
	Meta  bool   `json:"metaKey"`
	Ctrl  bool   `json:"ctrlKey"`
	Shift bool   `json:"shiftKey"`
}

func (c Chord) mod() bool { return c.Meta || c.Ctrl }

func (c Chord) plain() bool { return !c.Meta && !c.Ctrl && !c.Shift }

// lower folds single letters so "Z" (shift held) matches "z".
func (c Chord) lower() string {
	if len(c.Key) == 1 {
		return strings.ToLower(c.Key)
	}
	return c.Key
}

const (
	keyArrowUp    = "ArrowUp"
	keyArrowDown  = "ArrowDown"
	keyArrowLeft  = "ArrowLeft"
	keyArrowRight = "ArrowRight"
	keyHome       = "Home"
	keyEnd        = "End"
	keyEnter      = "Enter"
	keyTab        = "Tab"
	keyEscape     = "Escape"
	keyBackspace  = "Backspace"
	keyDelete     = "Delete"
)

// Action is the resolved command. ActionNone lets the native behaviour proceed.
type Action string

const (
	ActionNone             Action = "none"
	ActionUndoStructure    Action = "undo_structure"
	ActionRedoStructure    Action = "redo_structure"
	ActionOpenQuickActions Action = "open_quick_actions"
	ActionClipboardCopy    Action = "clipboard_copy"
	ActionClipboardCut     Action = "clipboard_cut"
	ActionClipboardPaste   Action = "clipboard_paste"
	ActionReorderUp        Action = "reorder_up"
	ActionReorderDown      Action = "reorder_down"

	// editor scope
	ActionExitEditMode             Action = "exit_edit_mode"
	ActionIndent                   Action = "indent"
	ActionOutdent                  Action = "outdent"
	ActionMoveSelectionUp          Action = "move_selection_up"
	ActionMoveSelectionDown        Action = "move_selection_down"
	ActionCreateSibling            Action = "create_sibling"
	ActionDeleteEmptyRow           Action = "delete_empty_row"
	ActionMergeWithPreviousSibling Action = "merge_with_previous_sibling"
	ActionMergeWithNextSibling     Action = "merge_with_next_sibling"

	// container scope
	ActionIndentSelected   Action = "indent_selected"
	ActionOutdentSelected  Action = "outdent_selected"
	ActionNavigateUp       Action = "navigate_up"
	ActionNavigateDown     Action = "navigate_down"
	ActionNavigateStart    Action = "navigate_start"
	ActionNavigateEnd      Action = "navigate_end"
	ActionExpandOrChild    Action = "expand_or_child"
	ActionCollapseOrParent Action = "collapse_or_parent"
	ActionFocusEditor      Action = "focus_editor"
)

// undoRedo is shared by both tables.
func undoRedo(c Chord) (Action, bool) {
	k := c.lower()
	if c.mod() && k == "z" {
		if c.Shift {
			return ActionRedoStructure, true
		}
		return ActionUndoStructure, true
	}
	if c.Ctrl && k == "y" {
		return ActionRedoStructure, true
	}
	return "", false
}

func clipboardAction(k string) (Action, bool) {
	switch k {
	case "c":
		return ActionClipboardCopy, true
	case "x":
		return ActionClipboardCut, true
	case "v":
		return ActionClipboardPaste, true
	default:
		return "", false
	}
}
