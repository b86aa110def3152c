package course

// Turn is one entry of the flattened dialogue sequence, stamped with the
// section and subsection it belongs to.
type Turn struct {
	Index           int
	Speaker         Speaker
	Text            string
	SectionID       ID
	SectionTitle    string
	SubsectionID    ID
	SubsectionTitle string
	Sidebar         []MediaItem
}

// MediaOfKind returns the sidebar items of the given kind in authored order.
// A media item's offset is its position within this slice.
func (t Turn) MediaOfKind(kind MediaKind) []MediaItem {
	var out []MediaItem
	for _, m := range t.Sidebar {
		if m.Kind() == kind {
			out = append(out, m)
		}
	}
	return out
}

// Totals counts the content of a course, used as denominators in
// progress reporting.
type Totals struct {
	Turns       int
	Sections    int
	Subsections int
	Images      int
	Videos      int
	Quizzes     int
}

// OutlineSection is a table-of-contents entry.
type OutlineSection struct {
	ID          ID
	Title       string
	Subsections []OutlineSubsection
}

// OutlineSubsection records where a subsection starts in the sequence.
type OutlineSubsection struct {
	ID    ID
	Title string
	Start int
	Count int
}

type spanKey struct {
	section    ID
	subsection ID
}

type span struct {
	start int
	count int
}

// Index is the immutable, zero-based dialogue sequence of a course.
type Index struct {
	turns   []Turn
	spans   map[spanKey]span
	outline []OutlineSection
	totals  Totals
}

// NewIndex flattens c in document order: sections, then subsections, then
// conversations. A nil or empty course yields an empty index.
func NewIndex(c *Course) *Index {
	idx := &Index{spans: make(map[spanKey]span)}
	if c == nil {
		return idx
	}

	idx.totals.Sections = len(c.Sections)
	for _, sec := range c.Sections {
		entry := OutlineSection{ID: sec.ID, Title: sec.Title}
		idx.totals.Subsections += len(sec.Subsections)

		for _, sub := range sec.Subsections {
			start := len(idx.turns)
			for _, conv := range sub.Conversations {
				idx.turns = append(idx.turns, Turn{
					Index:           len(idx.turns),
					Speaker:         conv.Speaker,
					Text:            conv.Text,
					SectionID:       sec.ID,
					SectionTitle:    sec.Title,
					SubsectionID:    sub.ID,
					SubsectionTitle: sub.Title,
					Sidebar:         conv.Sidebar,
				})
				for _, m := range conv.Sidebar {
					switch m.Kind() {
					case KindImage:
						idx.totals.Images++
					case KindVideo:
						idx.totals.Videos++
					case KindQuiz:
						idx.totals.Quizzes++
					}
				}
			}

			key := spanKey{section: sec.ID, subsection: sub.ID}
			// The first occurrence wins when identifiers repeat.
			if _, dup := idx.spans[key]; !dup {
				idx.spans[key] = span{start: start, count: len(sub.Conversations)}
			}
			entry.Subsections = append(entry.Subsections, OutlineSubsection{
				ID:    sub.ID,
				Title: sub.Title,
				Start: start,
				Count: len(sub.Conversations),
			})
		}
		idx.outline = append(idx.outline, entry)
	}
	idx.totals.Turns = len(idx.turns)
	return idx
}

// Len returns the number of turns.
func (x *Index) Len() int {
	return len(x.turns)
}

// At returns the turn at i.
func (x *Index) At(i int) (Turn, bool) {
	if i < 0 || i >= len(x.turns) {
		return Turn{}, false
	}
	return x.turns[i], true
}

// Turns returns a copy of the full sequence.
func (x *Index) Turns() []Turn {
	out := make([]Turn, len(x.turns))
	copy(out, x.turns)
	return out
}

// TurnsInSection returns the turns owned by the given section.
func (x *Index) TurnsInSection(sectionID ID) []Turn {
	var out []Turn
	for _, t := range x.turns {
		if t.SectionID == sectionID {
			out = append(out, t)
		}
	}
	return out
}

// Locate resolves the first turn of a subsection plus offset. It reports
// false when the pair is unknown or offset falls outside the subsection.
func (x *Index) Locate(sectionID, subsectionID ID, offset int) (int, bool) {
	sp, ok := x.spans[spanKey{section: sectionID, subsection: subsectionID}]
	if !ok {
		return 0, false
	}
	if offset < 0 || offset >= sp.count {
		return 0, false
	}
	return sp.start + offset, true
}

// Outline returns the table of contents.
func (x *Index) Outline() []OutlineSection {
	return x.outline
}

// Totals returns content counts for progress reporting.
func (x *Index) Totals() Totals {
	return x.totals
}
