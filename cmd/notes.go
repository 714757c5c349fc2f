package main

import (
	"context"
	"fmt"
	"os"

	"github.com/faddix/aninote/internal/formatter"
	"github.com/faddix/aninote/internal/models"
	"github.com/faddix/aninote/internal/shared"
	"github.com/faddix/aninote/internal/tasks"
	"github.com/urfave/cli/v3"
)

// resolveSource picks the source for a read: the --source flag when given,
// otherwise the mode's default.
func (r *Runner) resolveSource(cmd *cli.Command) (models.Source, error) {
	raw := cmd.String("source")
	switch raw {
	case "":
		return r.mode().DefaultSource(), nil
	case string(models.SourceLocal):
		return models.SourceLocal, nil
	case string(models.SourceAniList):
		return models.SourceAniList, nil
	default:
		return "", fmt.Errorf("%w: source must be local or anilist, got %q", shared.ErrInvalidFlag, raw)
	}
}

// collectNotes builds the display list for a source. A partial remote fetch
// is logged, not fatal.
func (r *Runner) collectNotes(ctx context.Context, engine tasks.SyncEngine, source models.Source) ([]models.Note, error) {
	var noteMap map[int]string
	var err error

	if source == models.SourceAniList {
		result, fetchErr := engine.FetchAllRemote(ctx, nil)
		if result != nil {
			noteMap = result.Notes
		}
		err = fetchErr
	} else {
		noteMap, err = engine.LocalNotes()
	}

	if noteMap == nil && err != nil {
		return nil, err
	}
	if err != nil {
		r.logger.Warn("note list may be incomplete", "error", err)
	}

	return engine.BuildNotes(ctx, noteMap, nil), nil
}

// NotesList lists all notes from the active source.
func (r *Runner) NotesList(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	source, err := r.resolveSource(cmd)
	if err != nil {
		return err
	}

	notes, err := r.collectNotes(ctx, engine, source)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	if cmd.Bool("json") || cmd.Bool("pretty") {
		return r.writeJSON(notes, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Anime Notes (%s)", source))
	for _, note := range notes {
		r.writePlain("#%d  %s\n", note.ID, note.Title)
		r.writePlain("    %s\n", note.Note)
	}
	r.writePlainln("%d notes", len(notes))

	return nil
}

// NotesGet prints the note for one anime.
func (r *Runner) NotesGet(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	id, err := parseMediaID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	source, err := r.resolveSource(cmd)
	if err != nil {
		return err
	}

	text, err := engine.LoadNote(ctx, id, source)
	if err != nil {
		return fmt.Errorf("failed to load note: %w", err)
	}

	if text == "" {
		r.writePlain("No note for anime #%d\n", id)
		return nil
	}

	r.writePlain("%s\n", text)
	return nil
}

// NotesSet writes the note for one anime through the mode policy.
func (r *Runner) NotesSet(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	id, err := parseMediaID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	text := cmd.StringArg("text")
	if text == "" {
		return fmt.Errorf("%w: note text is required (use 'notes rm' to delete)", shared.ErrMissingArgument)
	}

	if err := engine.SaveSingle(ctx, id, text, r.mode().DefaultSource()); err != nil {
		return err
	}

	r.writePlain("✓ Saved note for anime #%d\n", id)
	return nil
}

// NotesRemove deletes the note for one anime.
func (r *Runner) NotesRemove(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	id, err := parseMediaID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if !r.mode().IsAniListOnly() {
		if has, err := r.repo.HasNote(id); err == nil && !has {
			r.writePlain("No note for anime #%d\n", id)
			return nil
		}
	}

	if err := engine.DeleteSingle(ctx, id, r.mode().DefaultSource()); err != nil {
		return err
	}

	r.writePlain("✓ Deleted note for anime #%d\n", id)
	return nil
}

// NotesExport writes all notes to a file or stdout in the requested format.
func (r *Runner) NotesExport(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	source, err := r.resolveSource(cmd)
	if err != nil {
		return err
	}

	notes, err := r.collectNotes(ctx, engine, source)
	if err != nil {
		return fmt.Errorf("failed to collect notes: %w", err)
	}

	format := cmd.String("format")
	data, err := formatter.Export(notes, format)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	r.writePlain("✓ Exported %d notes to %s\n", len(notes), outputPath)
	return nil
}
