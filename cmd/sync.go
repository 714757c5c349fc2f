package main

import (
	"context"
	"fmt"

	"github.com/faddix/aninote/internal/shared"
	"github.com/faddix/aninote/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Sync pulls AniList notes and then pushes local ones, per the configured
// mode. Local-only installations have nothing to reconcile.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	mode := r.mode()
	logger := shared.WithLogger(r.logger, "run", shared.GenerateID())

	if mode.IsLocalOnly() {
		logger.Warn("sync is a no-op in local-only mode")
		r.writePlain("Nothing to sync: mode is %s\n", mode)
		return nil
	}

	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		for update := range progress {
			logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
		close(done)
	}()

	pullResult, pullErr := engine.FetchAllRemote(ctx, progress)

	var pushResult *tasks.PushResult
	var pushErr error
	if mode.IsAniListOnly() {
		logger.Info("skipping push, AniList is the only source")
	} else {
		pushResult, pushErr = engine.PushAllLocal(ctx, progress)
	}

	close(progress)
	<-done

	if pullResult != nil {
		if pullResult.Merged {
			r.writePlain("✓ Pulled %d notes from AniList\n", len(pullResult.Notes))
		} else {
			r.writePlain("✓ Fetched %d notes from AniList (dual-view keeps sources separate)\n", len(pullResult.Notes))
		}
	}
	if pullErr != nil {
		logger.Warn("pull incomplete", "error", pullErr)
	}

	if pushResult != nil {
		r.writePlain("✓ Pushed %d notes to AniList (%d skipped, %d failed)\n", pushResult.Pushed, pushResult.Skipped, pushResult.Failed)
	}
	if pushErr != nil {
		return fmt.Errorf("push failed: %w", pushErr)
	}
	if pullResult == nil && pullErr != nil {
		return fmt.Errorf("pull failed: %w", pullErr)
	}

	return nil
}
