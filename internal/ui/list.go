package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/faddix/aninote/internal/models"
)

var _ list.Item = noteItem{}

const previewLen = 60

// noteItem wraps [models.Note] to implement [list.Item].
type noteItem struct {
	note models.Note
}

func (i noteItem) FilterValue() string { return i.note.Title }
func (i noteItem) Title() string       { return i.note.Title }
func (i noteItem) Description() string {
	preview := strings.Join(strings.Fields(i.note.Note), " ")
	if len(preview) > previewLen {
		preview = preview[:previewLen] + "…"
	}
	if preview == "" {
		preview = "(empty note)"
	}
	return fmt.Sprintf("#%d • %s", i.note.ID, preview)
}

// noteItems converts a note slice into list entries.
func noteItems(notes []models.Note) []list.Item {
	items := make([]list.Item, len(notes))
	for i, note := range notes {
		items[i] = noteItem{note: note}
	}
	return items
}
