// Package notes is the note list screen: browse, edit, delete and export
// the learner's notes.
package notes

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	note "github.com/abhisek/coursewalk/internal/notes"
	"github.com/abhisek/coursewalk/internal/router"
	"github.com/abhisek/coursewalk/internal/screen"
	"github.com/abhisek/coursewalk/internal/session"
	"github.com/abhisek/coursewalk/internal/ui/components"
	"github.com/abhisek/coursewalk/internal/ui/layout"
	"github.com/abhisek/coursewalk/internal/ui/theme"
)

type mode int

const (
	modeList mode = iota
	modeEdit
	modeConfirmDelete
	modeConfirmClear
)

// NotesScreen lists the learner's notes.
type NotesScreen struct {
	ctx      context.Context
	sess     *session.Session
	list     []note.Note
	selected int
	expanded bool

	mode    mode
	editor  components.NoteEditor
	confirm components.Confirm

	width, height int

	status  string
	isError bool
}

var (
	_ screen.Screen          = (*NotesScreen)(nil)
	_ screen.KeyHintProvider = (*NotesScreen)(nil)
	_ screen.Modal           = (*NotesScreen)(nil)
)

// New creates a NotesScreen.
func New(ctx context.Context, sess *session.Session) *NotesScreen {
	s := &NotesScreen{ctx: ctx, sess: sess}
	s.reload()
	return s
}

func (s *NotesScreen) reload() {
	s.list = s.sess.Notes()
	s.selected = min(s.selected, max(len(s.list)-1, 0))
}

func (s *NotesScreen) Init() tea.Cmd {
	return nil
}

func (s *NotesScreen) Title() string {
	return fmt.Sprintf("Notes (%d)", len(s.list))
}

// Modal reports whether Esc belongs to the editor or a dialog.
func (s *NotesScreen) Modal() bool {
	return s.mode != modeList
}

func (s *NotesScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeEdit:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Field"},
			{Key: "Ctrl+S", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeConfirmDelete, modeConfirmClear:
		return []layout.KeyHint{
			{Key: "y/n", Description: "Answer"},
			{Key: "←→ Enter", Description: "Choose"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select"},
		{Key: "Enter", Description: "Expand"},
		{Key: "e", Description: "Edit"},
		{Key: "d", Description: "Delete"},
		{Key: "g", Description: "Go to message"},
		{Key: "x", Description: "Export"},
		{Key: "C", Description: "Clear all"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *NotesScreen) current() (note.Note, bool) {
	if s.selected < 0 || s.selected >= len(s.list) {
		return note.Note{}, false
	}
	return s.list[s.selected], true
}

func (s *NotesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		s.editor.SetSize(msg.Width-4, msg.Height-8)
		return s, nil
	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}

	if s.mode == modeEdit {
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *NotesScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch s.mode {
	case modeEdit:
		return s.handleEditKey(msg)
	case modeConfirmDelete, modeConfirmClear:
		s.handleConfirmKey(msg)
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.list)-1 {
			s.selected++
		}
	case "enter":
		s.expanded = !s.expanded
	case "e":
		n, ok := s.current()
		if !ok {
			return nil
		}
		if _, err := s.sess.BeginEditNote(n.ID); err != nil {
			s.setError(err.Error())
			return nil
		}
		s.editor = components.NewNoteEditor("Edit note", n.Title, n.Content)
		s.editor.SetSize(s.width-4, s.height-8)
		s.mode = modeEdit
		return s.editor.Init()
	case "d":
		if _, ok := s.current(); ok {
			s.confirm = components.NewConfirm("Are you sure you want to delete this note?")
			s.mode = modeConfirmDelete
		}
	case "C":
		if len(s.list) > 0 {
			s.confirm = components.NewConfirm("Are you sure you want to delete all notes? This action cannot be undone.")
			s.mode = modeConfirmClear
		}
	case "g":
		n, ok := s.current()
		if !ok {
			return nil
		}
		if _, err := s.sess.JumpTo(s.ctx, n.TurnIndex); err != nil {
			s.setError(err.Error())
			return nil
		}
		return router.Pop()
	case "x":
		path := s.sess.ExportPath()
		if err := s.sess.ExportNotes(path); err != nil {
			s.setError(err.Error())
			return nil
		}
		s.setStatus(fmt.Sprintf("Exported %d notes to %s.", len(s.list), path))
	}
	return nil
}

func (s *NotesScreen) handleEditKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.sess.CancelEditNote()
		s.mode = modeList
		return nil
	case "ctrl+s":
		title, content := s.editor.Values()
		if _, err := s.sess.SaveNote(s.ctx, title, content); err != nil {
			s.setError(err.Error())
			return nil
		}
		s.mode = modeList
		s.reload()
		s.setStatus("Note updated.")
		return nil
	}
	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	return cmd
}

func (s *NotesScreen) handleConfirmKey(msg tea.KeyPressMsg) {
	s.confirm, _ = s.confirm.Update(msg)
	if s.confirm.Result == components.ConfirmPending {
		return
	}

	switch s.mode {
	case modeConfirmDelete:
		if n, ok := s.current(); ok {
			removed, err := s.sess.DeleteNote(s.ctx, n.ID, s.confirm.Answer)
			switch {
			case err != nil:
				s.setError(err.Error())
			case removed:
				s.setStatus("Note deleted.")
			}
		}
	case modeConfirmClear:
		if s.sess.ClearNotes(s.ctx, s.confirm.Answer) {
			s.setStatus("All notes deleted.")
		}
	}
	s.mode = modeList
	s.reload()
}

func (s *NotesScreen) View(width, height int) string {
	if s.mode == modeEdit {
		return lipgloss.NewStyle().Padding(1, 2).Render(s.editor.View())
	}

	var b strings.Builder
	if len(s.list) == 0 {
		b.WriteString(theme.Hint.Render("No notes yet. Press n while reading to write one."))
	}

	for i, n := range s.list {
		where := n.SectionTitle
		if n.SubsectionTitle != "" {
			where += " › " + n.SubsectionTitle
		}
		meta := theme.Hint.Render(fmt.Sprintf("%s · message %d · %s",
			where, n.TurnIndex+1, n.Timestamp.Local().Format("Jan 2 15:04")))

		b.WriteString(theme.Row(n.Title, i == s.selected))
		b.WriteString("\n    " + meta + "\n")
		if i == s.selected && s.expanded {
			b.WriteString(theme.Body.Width(max(width-8, 10)).PaddingLeft(4).Render(n.Content))
			b.WriteString("\n")
		}
	}

	if s.status != "" {
		b.WriteString("\n" + theme.Status(s.status, s.isError))
	}

	content := lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	if s.mode == modeConfirmDelete || s.mode == modeConfirmClear {
		return lipgloss.JoinVertical(lipgloss.Left, content,
			lipgloss.PlaceHorizontal(width, lipgloss.Center, s.confirm.View()))
	}
	return content
}

func (s *NotesScreen) setStatus(msg string) {
	s.status, s.isError = msg, false
}

func (s *NotesScreen) setError(msg string) {
	s.status, s.isError = msg, true
}
