// package tasks implements note reconciliation between the local store and AniList.
//
// The core abstraction is SyncEngine, which routes every read and write
// through the configured mode policy: it decides which source a note is read
// from, whether a save is mirrored to the remote, and how the two note maps
// merge on a bulk fetch. Bulk operations emit progress updates via channels
// for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/faddix/aninote/internal/models"
	"github.com/faddix/aninote/internal/repositories"
	"github.com/faddix/aninote/internal/services"
	"github.com/faddix/aninote/internal/shared"
)

// FetchAllResult contains the outcome of a bulk remote fetch.
type FetchAllResult struct {
	Notes  map[int]string // Remote note map (possibly partial on error)
	Merged bool           // Whether the map was merged into the local store
}

// PushResult aggregates a bulk push of local notes to AniList.
type PushResult struct {
	Pushed    int   // Notes saved remotely
	Skipped   int   // Notes with empty/whitespace-only text, not pushed
	Failed    int   // Per-item remote failures (swallowed)
	FailedIDs []int // Media ids whose push failed
}

// SyncEngine defines mode-aware note operations over both sources.
type SyncEngine interface {
	// LoadNote reads the note for id from the source the mode policy selects.
	LoadNote(ctx context.Context, id int, active models.Source) (string, error)

	// SaveSingle writes text for id. AniList-primary modes save remotely
	// only; otherwise the local write is authoritative and a configured push
	// mirrors it to AniList.
	SaveSingle(ctx context.Context, id int, text string, active models.Source) error

	// DeleteSingle removes the note for id from the active source.
	DeleteSingle(ctx context.Context, id int, active models.Source) error

	// FetchSingle pulls the remote note for id, caching a non-empty result
	// into the local store.
	FetchSingle(ctx context.Context, id int) (string, bool, error)

	// FetchAllRemote pulls the full remote note map. In dual-view mode the
	// result is transient; otherwise it merges into the local store with
	// remote-wins semantics.
	FetchAllRemote(ctx context.Context, progress chan<- ProgressUpdate) (*FetchAllResult, error)

	// PushAllLocal saves every non-empty local note to AniList sequentially.
	PushAllLocal(ctx context.Context, progress chan<- ProgressUpdate) (*PushResult, error)

	// BuildNotes turns a note map into a display-ready list sorted by title.
	BuildNotes(ctx context.Context, source map[int]string, progress chan<- ProgressUpdate) []models.Note

	// LocalNotes returns the normalized local note map.
	LocalNotes() (map[int]string, error)

	// Mode returns the engine's mode policy.
	Mode() models.Mode
}

// NotesEngine implements [SyncEngine].
type NotesEngine struct {
	repo   *repositories.NoteRepository
	remote services.NoteService
	lookup services.LookupService
	mode   models.Mode
}

var _ SyncEngine = (*NotesEngine)(nil)

// NewNotesEngine creates a NotesEngine with the provided collaborators.
func NewNotesEngine(repo *repositories.NoteRepository, remote services.NoteService, lookup services.LookupService, mode models.Mode) *NotesEngine {
	return &NotesEngine{
		repo:   repo,
		remote: remote,
		lookup: lookup,
		mode:   mode,
	}
}

// Mode returns the engine's mode policy.
func (e *NotesEngine) Mode() models.Mode {
	return e.mode
}

// effectiveSource resolves which source an operation targets. The mode fixes
// it unless the view toggle is enabled, in which case the caller's active
// source wins.
func (e *NotesEngine) effectiveSource(active models.Source) models.Source {
	switch {
	case e.mode.IsAniListOnly():
		return models.SourceAniList
	case e.mode.EnableViewToggle() && active == models.SourceAniList:
		return models.SourceAniList
	default:
		return models.SourceLocal
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *NotesEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// LoadNote reads the note for id per the mode policy. In synced mode an
// empty local note triggers a one-off remote fill (fetch-if-empty).
func (e *NotesEngine) LoadNote(ctx context.Context, id int, active models.Source) (string, error) {
	if e.effectiveSource(active) == models.SourceAniList {
		text, _, err := e.remote.FetchOne(ctx, id)
		if err != nil {
			return "", err
		}
		return text, nil
	}

	text, err := e.repo.Read(id)
	if err != nil {
		return "", err
	}

	if text == "" && e.mode.FetchMode() == models.FetchIfEmpty {
		fetched, found, err := e.FetchSingle(ctx, id)
		if err == nil && found {
			return fetched, nil
		}
		// Remote miss or failure leaves the empty local note standing.
	}

	return text, nil
}

// SaveSingle writes text for id per the mode policy. A push failure after a
// successful local write does not roll the local write back.
func (e *NotesEngine) SaveSingle(ctx context.Context, id int, text string, active models.Source) error {
	if e.effectiveSource(active) == models.SourceAniList {
		if err := e.remote.SaveOne(ctx, id, text); err != nil {
			return fmt.Errorf("failed to save note on AniList: %w", err)
		}
		return nil
	}

	if err := e.repo.Write(id, text); err != nil {
		return fmt.Errorf("failed to save note locally: %w", err)
	}

	if e.mode.PushMode() == models.PushRemote {
		if err := e.remote.SaveOne(ctx, id, text); err != nil {
			return fmt.Errorf("note saved locally, push to AniList failed: %w", err)
		}
	}

	return nil
}

// DeleteSingle removes the note for id from the active source.
func (e *NotesEngine) DeleteSingle(ctx context.Context, id int, active models.Source) error {
	if e.effectiveSource(active) == models.SourceAniList {
		if err := e.remote.DeleteOne(ctx, id); err != nil {
			return fmt.Errorf("failed to delete note on AniList: %w", err)
		}
		return nil
	}

	if err := e.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete note locally: %w", err)
	}

	if e.mode.PushMode() == models.PushRemote {
		if err := e.remote.DeleteOne(ctx, id); err != nil {
			return fmt.Errorf("note deleted locally, AniList still has it: %w", err)
		}
	}

	return nil
}

// FetchSingle pulls the remote note for id. A non-empty result is written
// into the local store as a side effect (cache-on-fetch); a miss mutates
// nothing.
func (e *NotesEngine) FetchSingle(ctx context.Context, id int) (string, bool, error) {
	text, found, err := e.remote.FetchOne(ctx, id)
	if err != nil {
		return "", false, err
	}

	if !found || text == "" {
		return "", false, nil
	}

	if err := e.repo.Write(id, text); err != nil {
		return text, true, fmt.Errorf("fetched note but failed to cache it: %w", err)
	}

	return text, true, nil
}

// FetchAllRemote pulls the full remote note map. On a partial failure the
// map gathered so far is still returned (and merged, outside dual-view)
// along with the error; callers cannot tell a short map from a partial one.
func (e *NotesEngine) FetchAllRemote(ctx context.Context, progress chan<- ProgressUpdate) (*FetchAllResult, error) {
	e.sendProgress(progress, fetchRemoteUpdate(1, 1))

	notes, fetchErr := e.remote.FetchAll(ctx)
	result := &FetchAllResult{Notes: notes}

	if e.mode.EnableViewToggle() {
		// Transient alternate source for the All view, never persisted.
		return result, fetchErr
	}

	e.sendProgress(progress, mergeUpdate(len(notes)))
	if err := e.repo.Merge(notes); err != nil {
		return result, fmt.Errorf("failed to merge remote notes: %w", err)
	}
	result.Merged = true

	return result, fetchErr
}

// PushAllLocal saves every non-empty local note to AniList. Per-item
// failures are collected, not fatal; a missing token aborts before the loop.
func (e *NotesEngine) PushAllLocal(ctx context.Context, progress chan<- ProgressUpdate) (*PushResult, error) {
	notes, err := e.repo.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read local notes: %w", err)
	}
	ids, err := e.repo.IDs()
	if err != nil {
		return nil, fmt.Errorf("failed to read local notes: %w", err)
	}

	result := &PushResult{}
	total := len(ids)

	for i, id := range ids {
		if strings.TrimSpace(notes[id]) == "" {
			result.Skipped++
			continue
		}

		e.sendProgress(progress, pushUpdate(i+1, total, id))

		if err := e.remote.SaveOne(ctx, id, notes[id]); err != nil {
			if result.Pushed == 0 && result.Failed == 0 && isAuthError(err) {
				// Report the missing token once and stop instead of failing
				// every item the same way.
				return result, err
			}
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}
		result.Pushed++
	}

	return result, nil
}

// LocalNotes returns the normalized local note map.
func (e *NotesEngine) LocalNotes() (map[int]string, error) {
	return e.repo.ReadAll()
}

func isAuthError(err error) bool {
	return errors.Is(err, shared.ErrNotAuthenticated) || errors.Is(err, shared.ErrAuthFailed)
}
