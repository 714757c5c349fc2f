package main

import (
	"context"
	"fmt"

	"github.com/faddix/aninote/internal/shared"
	"github.com/faddix/aninote/internal/tasks"
	"github.com/urfave/cli/v3"
)

// logProgress drains a progress channel into the logger until it closes.
func (r *Runner) logProgress(progress <-chan tasks.ProgressUpdate) {
	for update := range progress {
		r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
	}
}

// AniListFetch pulls one note from AniList, caching a non-empty result.
func (r *Runner) AniListFetch(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	id, err := parseMediaID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	text, found, err := engine.FetchSingle(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch note: %w", err)
	}

	if !found {
		r.writePlain("No note on AniList for anime #%d\n", id)
		return nil
	}

	r.writePlain("✓ Fetched note for anime #%d\n", id)
	r.writePlain("%s\n", text)
	return nil
}

// AniListPull fetches the full AniList note map. Outside dual-view the result
// is merged into the local store.
func (r *Runner) AniListPull(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		r.logProgress(progress)
		close(done)
	}()

	result, err := engine.FetchAllRemote(ctx, progress)
	close(progress)
	<-done

	if result == nil {
		return fmt.Errorf("failed to pull notes: %w", err)
	}
	if err != nil {
		r.logger.Warn("pull incomplete", "error", err)
	}

	if cmd.Bool("json") || cmd.Bool("pretty") {
		return r.writeJSON(result.Notes, cmd.Bool("pretty"))
	}

	if result.Merged {
		r.writePlain("✓ Pulled %d notes from AniList into the local store\n", len(result.Notes))
	} else {
		r.writePlain("✓ Pulled %d notes from AniList (not persisted in %s mode)\n", len(result.Notes), r.mode())
	}
	return nil
}

// AniListPush saves every non-empty local note to AniList.
func (r *Runner) AniListPush(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		r.logProgress(progress)
		close(done)
	}()

	result, err := engine.PushAllLocal(ctx, progress)
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("failed to push notes: %w", err)
	}

	r.writePlain("✓ Pushed %d notes to AniList (%d skipped, %d failed)\n", result.Pushed, result.Skipped, result.Failed)
	for _, id := range result.FailedIDs {
		r.writePlain("  ✗ anime #%d\n", id)
	}
	return nil
}

// AniListWhoami shows the authenticated AniList user.
func (r *Runner) AniListWhoami(ctx context.Context, cmd *cli.Command) error {
	if r.anilist == nil {
		return fmt.Errorf("%w: AniList service not initialized", shared.ErrServiceUnavailable)
	}

	id, name, err := r.anilist.Viewer(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve viewer: %w", err)
	}

	r.writePlain("%s (user id %d)\n", name, id)
	return nil
}
