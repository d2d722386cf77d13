package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/akhdanfadh/notekeep/internal/notes"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// untitled is shown for notes without a string title.
const untitled = "(untitled)"

// writeJSON pretty prints v to w.
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ") // pretty print
	return encoder.Encode(v)
}

// writeNoteTable renders notes as an ID/TITLE table followed by a count line.
func writeNoteTable(w io.Writer, list []notes.Note) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No notes found."))
		return err
	}

	rows := make([][]string, 0, len(list))
	for _, n := range list {
		title := n.Title()
		if title == "" {
			title = untitled
		}
		rows = append(rows, []string{n.ID(), title})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ID", "TITLE").
		Rows(rows...)

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d note(s)", len(list))))
	return err
}

// writeStatus prints a short confirmation line, e.g. "Created note 5".
func writeStatus(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, args...)))
}
