package tasks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/faddix/aninote/internal/models"
	"github.com/faddix/aninote/internal/repositories"
)

// BuildNotes turns a note map into a display-ready list: titles and cover
// images resolved through the lookup service, note text normalized, sorted
// ascending by case-folded title. Lookup failures downgrade to an
// "Anime #<id>" placeholder and never fail the build.
//
// The call is read-only and idempotent: the same inputs and lookup results
// always yield the same ordered list.
func (e *NotesEngine) BuildNotes(ctx context.Context, source map[int]string, progress chan<- ProgressUpdate) []models.Note {
	ids := make([]int, 0, len(source))
	for id := range source {
		ids = append(ids, id)
	}
	// Resolve in id order so ties in the title sort stay deterministic.
	sort.Ints(ids)

	notes := make([]models.Note, 0, len(ids))
	for i, id := range ids {
		e.sendProgress(progress, buildListUpdate(i+1, len(ids)))

		note := models.Note{
			ID:    id,
			Note:  repositories.Normalize(source[id]),
			Title: fmt.Sprintf("Anime #%d", id),
		}

		if e.lookup != nil {
			if entry, err := e.lookup.GetEntry(ctx, id); err == nil && entry.Title != "" {
				note.Title = entry.Title
				note.CoverImage = entry.CoverImage
			}
		}

		notes = append(notes, note)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return strings.ToLower(notes[i].Title) < strings.ToLower(notes[j].Title)
	})

	return notes
}
