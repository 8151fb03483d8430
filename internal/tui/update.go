package tui

import (
	"outline-engine/internal/format"
	"outline-engine/internal/keys"
	"outline-engine/internal/mutate"
	"outline-engine/internal/order"

	tea "github.com/charmbracelet/bubbletea"
)

func (m browser) Init() tea.Cmd { return nil }

func (m browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.editing {
			return m.updateEditor(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "?":
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		a := keys.ResolveContainer(keys.FromKeyMsg(msg), keys.ContainerContext{HasSelection: m.selected != ""})
		m.dispatch(a)
		return m, nil
	}
	return m, nil
}

func (m browser) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pos := m.input.Position()
	a := keys.ResolveEditor(keys.FromKeyMsg(msg), keys.EditorContext{
		Text:           m.input.Value(),
		SelectionStart: pos,
		SelectionEnd:   pos,
	})
	if a == keys.ActionNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	m.dispatch(a)
	return m, nil
}

// dispatch performs a resolved action. Editor-scope actions that change structure commit
// the current text first so undo sees it as its own step.
func (m *browser) dispatch(a keys.Action) {
	switch a {
	case keys.ActionNone:
		return

	case keys.ActionNavigateUp:
		m.moveSelection(-1)
	case keys.ActionNavigateDown:
		m.moveSelection(1)
	case keys.ActionNavigateStart:
		m.selectIndex(0)
	case keys.ActionNavigateEnd:
		m.selectIndex(len(m.data.FlatRows) - 1)
	case keys.ActionExpandOrChild:
		m.expandOrChild()
	case keys.ActionCollapseOrParent:
		m.collapseOrParent()
	case keys.ActionFocusEditor:
		m.startEdit()

	case keys.ActionExitEditMode:
		m.stopEdit()
	case keys.ActionMoveSelectionUp, keys.ActionMoveSelectionDown:
		m.stopEdit()
		if a == keys.ActionMoveSelectionUp {
			m.moveSelection(-1)
		} else {
			m.moveSelection(1)
		}
		m.startEdit()

	case keys.ActionReorderUp, keys.ActionReorderDown:
		m.withEditPaused(func() {
			if a == keys.ActionReorderUp {
				m.reorder(order.Up)
			} else {
				m.reorder(order.Down)
			}
		})
	case keys.ActionIndent, keys.ActionIndentSelected:
		m.withEditPaused(func() { m.structural(mutate.PlanIndent, "indent") })
	case keys.ActionOutdent, keys.ActionOutdentSelected:
		m.withEditPaused(func() { m.structural(mutate.PlanOutdent, "outdent") })

	case keys.ActionCreateSibling:
		m.stopEdit()
		m.createSibling("")
		m.startEdit()
	case keys.ActionDeleteEmptyRow:
		m.deleteRow()
	case keys.ActionMergeWithPreviousSibling, keys.ActionMergeWithNextSibling:
		m.setStatus("merging rows is not supported")

	case keys.ActionUndoStructure:
		m.withEditPaused(m.undoStructure)
	case keys.ActionRedoStructure:
		m.withEditPaused(m.redoStructure)

	case keys.ActionClipboardCopy, keys.ActionClipboardCut:
		m.copySelection(a == keys.ActionClipboardCut)
	case keys.ActionClipboardPaste:
		m.paste()

	case keys.ActionOpenQuickActions:
		m.help.ShowAll = !m.help.ShowAll
	}
	m.scrollToSelection()
}

// withEditPaused commits any edit, runs fn, and resumes editing the selected row.
func (m *browser) withEditPaused(fn func()) {
	wasEditing := m.editing
	m.stopEdit()
	fn()
	if wasEditing {
		m.startEdit()
	}
}

func (m *browser) copySelection(cut bool) {
	if m.editing {
		m.clipboard = m.input.Value()
		if cut {
			m.input.SetValue("")
		}
		return
	}
	row, ok := m.selectedRow()
	if !ok {
		return
	}
	m.clipboard = format.Title(row)
	if cut {
		m.deleteRow()
		return
	}
	m.setStatus("copied " + m.clipboard)
}

func (m *browser) paste() {
	if m.clipboard == "" {
		m.setStatus("clipboard is empty")
		return
	}
	if m.editing {
		m.input.SetValue(m.input.Value() + m.clipboard)
		m.input.CursorEnd()
		return
	}
	m.createSibling(m.clipboard)
}

func (m *browser) scrollToSelection() {
	body := m.bodyHeight()
	if body <= 0 {
		m.offset = 0
		return
	}
	i := m.data.VisibleIndex(m.selected)
	if i < m.offset {
		m.offset = i
	}
	if i >= m.offset+body {
		m.offset = i - body + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}
