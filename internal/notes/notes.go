package notes

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for an unknown note id.
var ErrNotFound = errors.New("note not found")

// Note is a learner-authored note pinned to the turn it was written on.
type Note struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Timestamp       time.Time `json:"timestamp"`
	SectionTitle    string    `json:"sectionTitle"`
	SubsectionTitle string    `json:"subsectionTitle"`
	TurnIndex       int       `json:"messageIndex"`
}

// Anchor is where in the course a note was saved.
type Anchor struct {
	SectionTitle    string
	SubsectionTitle string
	TurnIndex       int
}

// ValidationError reports note fields that are empty after trimming.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("note %s cannot be empty", strings.Join(e.Fields, " and "))
}

// Confirm asks the user to approve a destructive action.
type Confirm func(prompt string) bool

// Yes approves every prompt. Use it once the UI has collected consent.
func Yes(string) bool { return true }

// Manager owns the notes list and the single note under edit.
type Manager struct {
	notes   []Note
	editing string
	now     func() time.Time
	newID   func() string
}

// NewManager returns a Manager holding a copy of existing.
func NewManager(existing []Note) *Manager {
	return &Manager{
		notes: slices.Clone(existing),
		now:   time.Now,
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

func validate(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	var empty []string
	if title == "" {
		empty = append(empty, "title")
	}
	if content == "" {
		empty = append(empty, "content")
	}
	if len(empty) > 0 {
		return "", "", &ValidationError{Fields: empty}
	}
	return title, content, nil
}

// Create adds a note with a fresh id and the current time.
func (m *Manager) Create(title, content string, a Anchor) (Note, error) {
	title, content, err := validate(title, content)
	if err != nil {
		return Note{}, err
	}
	n := Note{
		ID:              m.newID(),
		Title:           title,
		Content:         content,
		Timestamp:       m.now(),
		SectionTitle:    a.SectionTitle,
		SubsectionTitle: a.SubsectionTitle,
		TurnIndex:       a.TurnIndex,
	}
	m.notes = append(m.notes, n)
	return n, nil
}

// Update replaces the note with id in place, keeping its id. The timestamp
// and anchor move to the time and place of the update. A successful update
// of the note under edit ends the edit.
func (m *Manager) Update(id, title, content string, a Anchor) (Note, error) {
	title, content, err := validate(title, content)
	if err != nil {
		return Note{}, err
	}
	i := m.find(id)
	if i < 0 {
		return Note{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	n := Note{
		ID:              id,
		Title:           title,
		Content:         content,
		Timestamp:       m.now(),
		SectionTitle:    a.SectionTitle,
		SubsectionTitle: a.SubsectionTitle,
		TurnIndex:       a.TurnIndex,
	}
	m.notes[i] = n
	if m.editing == id {
		m.editing = ""
	}
	return n, nil
}

// Save creates a note, or updates the note under edit if there is one.
func (m *Manager) Save(title, content string, a Anchor) (Note, error) {
	if m.editing != "" {
		return m.Update(m.editing, title, content, a)
	}
	return m.Create(title, content, a)
}

// BeginEdit marks id as the note under edit and returns it.
func (m *Manager) BeginEdit(id string) (Note, error) {
	i := m.find(id)
	if i < 0 {
		return Note{}, fmt.Errorf("edit %s: %w", id, ErrNotFound)
	}
	m.editing = id
	return m.notes[i], nil
}

// CancelEdit abandons the current edit, if any.
func (m *Manager) CancelEdit() {
	m.editing = ""
}

// Editing returns the note under edit.
func (m *Manager) Editing() (Note, bool) {
	if m.editing == "" {
		return Note{}, false
	}
	i := m.find(m.editing)
	if i < 0 {
		return Note{}, false
	}
	return m.notes[i], true
}

// Delete removes the note with id once confirm approves. It reports whether
// the note was removed. Deleting the note under edit cancels the edit.
func (m *Manager) Delete(id string, confirm Confirm) (bool, error) {
	i := m.find(id)
	if i < 0 {
		return false, fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	if confirm == nil || !confirm("Are you sure you want to delete this note?") {
		return false, nil
	}
	m.notes = slices.Delete(m.notes, i, i+1)
	if m.editing == id {
		m.editing = ""
	}
	return true, nil
}

// Clear removes every note once confirm approves.
func (m *Manager) Clear(confirm Confirm) bool {
	if len(m.notes) == 0 {
		return false
	}
	if confirm == nil || !confirm("Are you sure you want to delete all notes? This action cannot be undone.") {
		return false
	}
	m.notes = nil
	m.editing = ""
	return true
}

// List returns the notes ordered by timestamp, oldest first.
func (m *Manager) List() []Note {
	out := slices.Clone(m.notes)
	slices.SortStableFunc(out, func(a, b Note) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	if out == nil {
		out = []Note{}
	}
	return out
}

// Len returns the number of notes.
func (m *Manager) Len() int {
	return len(m.notes)
}

func (m *Manager) find(id string) int {
	return slices.IndexFunc(m.notes, func(n Note) bool { return n.ID == id })
}
