package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/coursewalk/internal/notes"
)

func (s *Session) anchor() notes.Anchor {
	turn, _ := s.index.At(s.coord.State().Index)
	return notes.Anchor{
		SectionTitle:    turn.SectionTitle,
		SubsectionTitle: turn.SubsectionTitle,
		TurnIndex:       turn.Index,
	}
}

func (s *Session) saveNotes(ctx context.Context) {
	s.persist("notes", s.store.SaveNotes(ctx, s.notes.List()))
}

func notFound(err error) error {
	if errors.Is(err, notes.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

// Notes returns every note in timestamp order.
func (s *Session) Notes() []notes.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.List()
}

// SaveNote creates a note anchored at the current turn, or updates the
// note being edited and re-anchors it there.
func (s *Session) SaveNote(ctx context.Context, title, content string) (notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.notes.Save(title, content, s.anchor())
	if err != nil {
		return n, notFound(err)
	}
	s.saveNotes(ctx)
	return n, nil
}

// CreateNote adds a note anchored at the current turn.
func (s *Session) CreateNote(ctx context.Context, title, content string) (notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.notes.Create(title, content, s.anchor())
	if err != nil {
		return n, err
	}
	s.saveNotes(ctx)
	return n, nil
}

// UpdateNote replaces the text of note id and anchors it at the current
// turn.
func (s *Session) UpdateNote(ctx context.Context, id, title, content string) (notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.notes.Update(id, title, content, s.anchor())
	if err != nil {
		return n, notFound(err)
	}
	s.saveNotes(ctx)
	return n, nil
}

// BeginEditNote marks note id as being edited and returns it.
func (s *Session) BeginEditNote(id string) (notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.notes.BeginEdit(id)
	return n, notFound(err)
}

// CancelEditNote leaves edit mode without saving.
func (s *Session) CancelEditNote() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes.CancelEdit()
}

// EditingNote returns the note being edited, if any.
func (s *Session) EditingNote() (notes.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.Editing()
}

// DeleteNote removes note id once confirm agrees. It reports false when
// the learner declined.
func (s *Session) DeleteNote(ctx context.Context, id string, confirm notes.Confirm) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, err := s.notes.Delete(id, confirm)
	if err != nil {
		return false, notFound(err)
	}
	if ok {
		s.saveNotes(ctx)
	}
	return ok, nil
}

// ClearNotes removes every note once confirm agrees.
func (s *Session) ClearNotes(ctx context.Context, confirm notes.Confirm) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.notes.Clear(confirm) {
		return false
	}
	s.saveNotes(ctx)
	return true
}

// ExportPath is the default file name for exported notes.
func (s *Session) ExportPath() string {
	return s.course.Config.StoragePrefix + "-notes.txt"
}

// ExportNotes writes every note to path as a paginated text document.
func (s *Session) ExportNotes(path string) error {
	ns := s.Notes()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export notes: %w", err)
	}
	if err := notes.Export(f, ns, notes.DefaultLayout(s.course.Config.Title+" - Notes")); err != nil {
		f.Close()
		return fmt.Errorf("export notes: %w", err)
	}
	return f.Close()
}
