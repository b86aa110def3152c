package notes

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/go-wordwrap"
)

// Layout sizes an exported notes document.
type Layout struct {
	Title        string
	Width        int // columns per line
	LinesPerPage int // body lines per page, excluding the footer
	Generated    time.Time
}

// DefaultLayout is a US-letter-ish text page.
func DefaultLayout(title string) Layout {
	return Layout{Title: title, Width: 80, LinesPerPage: 56, Generated: time.Now()}
}

// Page is one page of an exported document.
type Page struct {
	Number int
	Total  int
	Lines  []string
}

// Footer is the page label printed under the body.
func (p Page) Footer() string {
	return fmt.Sprintf("Page %d of %d", p.Number, p.Total)
}

// Smallest page Paginate and Export will lay out.
const (
	minWidth        = 20
	minLinesPerPage = 5
)

func (l Layout) normalize() Layout {
	l.Width = max(l.Width, minWidth)
	l.LinesPerPage = max(l.LinesPerPage, minLinesPerPage)
	return l
}

// Paginate lays notes out in timestamp order and splits them into pages.
// A note longer than the remaining space continues on the next page.
func Paginate(ns []Note, l Layout) []Page {
	l = l.normalize()

	sorted := slices.Clone(ns)
	slices.SortStableFunc(sorted, func(a, b Note) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	var lines []string
	lines = append(lines, wrap(l.Title, l.Width)...)
	if !l.Generated.IsZero() {
		lines = append(lines, "Generated on "+l.Generated.Format("January 2, 2006"))
	}
	lines = append(lines, "")

	if len(sorted) == 0 {
		lines = append(lines, "No notes yet.")
	}
	rule := strings.Repeat("-", l.Width)
	for i, n := range sorted {
		lines = append(lines, wrap(fmt.Sprintf("%d. %s", i+1, n.Title), l.Width)...)
		if n.SectionTitle != "" || n.SubsectionTitle != "" {
			lines = append(lines, wrap(fmt.Sprintf("Section: %s > %s", n.SectionTitle, n.SubsectionTitle), l.Width)...)
		}
		lines = append(lines, "Date: "+n.Timestamp.Local().Format("2006-01-02 15:04"))
		lines = append(lines, "")
		lines = append(lines, wrap(n.Content, l.Width)...)
		lines = append(lines, rule, "")
	}

	var pages []Page
	for start := 0; start < len(lines); start += l.LinesPerPage {
		end := min(start+l.LinesPerPage, len(lines))
		pages = append(pages, Page{Number: len(pages) + 1, Lines: lines[start:end]})
	}
	for i := range pages {
		pages[i].Total = len(pages)
	}
	return pages
}

// Export writes the paginated document to w. Pages are separated by a
// form feed.
func Export(w io.Writer, ns []Note, l Layout) error {
	l = l.normalize()
	pages := Paginate(ns, l)
	for i, p := range pages {
		if i > 0 {
			if _, err := io.WriteString(w, "\f\n"); err != nil {
				return err
			}
		}
		for _, line := range p.Lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		for pad := len(p.Lines); pad < l.LinesPerPage; pad++ {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, p.Footer()); err != nil {
			return err
		}
	}
	return nil
}

func wrap(s string, width int) []string {
	return strings.Split(wordwrap.WrapString(s, uint(width)), "\n")
}
