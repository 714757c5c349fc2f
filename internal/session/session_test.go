package session

import (
	"testing"

	"github.com/faddix/aninote/internal/models"
)

func sampleNotes() []models.Note {
	return []models.Note{
		{ID: 1, Title: "Akira", Note: "rewatch"},
		{ID: 2, Title: "Berserk", Note: "ep 12"},
		{ID: 3, Title: "Cowboy Bebop", Note: "soundtrack"},
	}
}

func TestTransitions(t *testing.T) {
	t.Run("SelectEntersSingle", func(t *testing.T) {
		s := New(models.ModeDualView)
		if s.View() != Idle {
			t.Fatalf("expected Idle start, got %v", s.View())
		}

		s.Select(42)
		if s.View() != SingleActive {
			t.Errorf("expected SingleActive, got %v", s.View())
		}
		if id, ok := s.Current(); !ok || id != 42 {
			t.Errorf("expected selection 42, got (%d, %v)", id, ok)
		}
	})

	t.Run("ClearSelectionFallsBackToIdle", func(t *testing.T) {
		s := New(models.ModeDualView)
		s.Select(42)
		s.ClearSelection()

		if s.View() != Idle {
			t.Errorf("expected Idle, got %v", s.View())
		}
		if _, ok := s.Current(); ok {
			t.Error("expected no selection")
		}
	})

	t.Run("BackPrefersSelection", func(t *testing.T) {
		s := New(models.ModeDualView)
		s.Select(42)
		s.EnterAll(sampleNotes())

		if got := s.Back(); got != SingleActive {
			t.Errorf("expected back to SingleActive, got %v", got)
		}

		s.ClearSelection()
		s.EnterAll(sampleNotes())
		if got := s.Back(); got != Idle {
			t.Errorf("expected back to Idle, got %v", got)
		}
	})

	t.Run("TransitionsInvalidateInFlightResults", func(t *testing.T) {
		s := New(models.ModeDualView)
		s.Select(1)
		gen := s.Generation()

		s.Select(2) // user re-selected before the fetch resolved
		if !s.Stale(gen) {
			t.Error("result for the old selection should be stale")
		}
		if s.Stale(s.Generation()) {
			t.Error("current generation should not be stale")
		}
	})
}

func TestToggleSource(t *testing.T) {
	t.Run("DualViewToggles", func(t *testing.T) {
		s := New(models.ModeDualView)
		if s.Source() != models.SourceLocal {
			t.Fatalf("expected local start, got %v", s.Source())
		}

		src, ok := s.ToggleSource()
		if !ok || src != models.SourceAniList {
			t.Errorf("expected toggle to anilist, got (%v, %v)", src, ok)
		}
		src, _ = s.ToggleSource()
		if src != models.SourceLocal {
			t.Errorf("expected toggle back to local, got %v", src)
		}
	})

	t.Run("FixedModesRefuse", func(t *testing.T) {
		for _, mode := range []models.Mode{models.ModeLocalOnly, models.ModeAniListOnly, models.ModeSynced} {
			s := New(mode)
			before := s.Source()
			src, ok := s.ToggleSource()
			if ok || src != before {
				t.Errorf("mode %s: toggle should refuse, got (%v, %v)", mode, src, ok)
			}
		}
	})

	t.Run("AniListOnlyStartsRemote", func(t *testing.T) {
		s := New(models.ModeAniListOnly)
		if s.Source() != models.SourceAniList {
			t.Errorf("expected anilist source, got %v", s.Source())
		}
	})
}

func TestSeed(t *testing.T) {
	t.Run("SeedThenBufferReturnsSeededText", func(t *testing.T) {
		s := New(models.ModeDualView)
		notes := sampleNotes()
		if !s.Seed(notes) {
			t.Fatal("Seed reported failure")
		}

		for _, note := range notes {
			if got := s.Buffer(note.ID); got != note.Note {
				t.Errorf("id %d: expected %q, got %q", note.ID, note.Note, got)
			}
		}
	})

	t.Run("ReloadWinsOverUnsavedEdit", func(t *testing.T) {
		s := New(models.ModeDualView)
		s.Seed(sampleNotes())
		s.SetBuffer(1, "unsaved edit")

		s.Seed(sampleNotes())
		if got := s.Buffer(1); got != "rewatch" {
			t.Errorf("expected reload to discard unsaved edit, got %q", got)
		}
	})

	t.Run("PrunesAbsentIDs", func(t *testing.T) {
		s := New(models.ModeDualView)
		s.Seed(sampleNotes())
		s.SetBuffer(3, "about to vanish")

		s.Seed(sampleNotes()[:2])
		if got := s.Buffer(3); got != "" {
			t.Errorf("expected pruned buffer for id 3, got %q", got)
		}
	})

	t.Run("BufferFallsBackToStoredText", func(t *testing.T) {
		s := New(models.ModeDualView)
		s.Seed(sampleNotes())
		delete(s.buffers, 2)

		if got := s.Buffer(2); got != "ep 12" {
			t.Errorf("expected stored text fallback, got %q", got)
		}
		if got := s.Buffer(999); got != "" {
			t.Errorf("expected empty for unknown id, got %q", got)
		}
	})

	t.Run("UpdateIsInMemoryOnly", func(t *testing.T) {
		s := New(models.ModeDualView)
		s.Seed(sampleNotes())
		s.SetBuffer(1, "draft")

		if got := s.Buffer(1); got != "draft" {
			t.Errorf("expected draft, got %q", got)
		}
		// The installed note list still has the stored text.
		if s.Notes()[0].Note != "rewatch" {
			t.Errorf("stored note must be untouched, got %q", s.Notes()[0].Note)
		}
	})
}

func TestSoftDelete(t *testing.T) {
	t.Run("HiddenImmediately", func(t *testing.T) {
		s := New(models.ModeDualView)
		s.EnterAll(sampleNotes())

		s.MarkDeleted(2)
		for _, note := range s.Visible() {
			if note.ID == 2 {
				t.Error("soft-deleted id must not be visible before reload")
			}
		}
	})

	t.Run("ReloadClearsOverlay", func(t *testing.T) {
		s := New(models.ModeDualView)
		s.EnterAll(sampleNotes())
		s.MarkDeleted(2)

		// Full reload: id 2 is genuinely gone from the rebuilt source.
		rebuilt := []models.Note{sampleNotes()[0], sampleNotes()[2]}
		s.EnterAll(rebuilt)

		if s.IsDeleted(2) {
			t.Error("overlay should reset on full reload")
		}
		if len(s.Visible()) != 2 {
			t.Errorf("expected 2 visible rows, got %d", len(s.Visible()))
		}
	})

	t.Run("UnmarkRestoresRow", func(t *testing.T) {
		s := New(models.ModeDualView)
		s.EnterAll(sampleNotes())
		s.MarkDeleted(2)

		// The backing delete failed, so the row comes back without a reload.
		s.UnmarkDeleted(2)
		if s.IsDeleted(2) {
			t.Error("unmarked id should no longer be soft-deleted")
		}
		if len(s.Visible()) != len(sampleNotes()) {
			t.Errorf("expected %d visible rows, got %d", len(sampleNotes()), len(s.Visible()))
		}
	})

	t.Run("ReAddedIDResurfaces", func(t *testing.T) {
		s := New(models.ModeDualView)
		s.EnterAll(sampleNotes())
		s.MarkDeleted(2)

		// Independently re-added before the reload.
		s.EnterAll(sampleNotes())
		found := false
		for _, note := range s.Visible() {
			if note.ID == 2 {
				found = true
			}
		}
		if !found {
			t.Error("re-added id should be visible after reload")
		}
	})
}

func TestSearch(t *testing.T) {
	s := New(models.ModeDualView)
	s.EnterAll(sampleNotes())

	s.SetSearch("berserk")
	visible := s.Visible()
	if len(visible) != 1 || visible[0].ID != 2 {
		t.Errorf("expected only Berserk, got %v", visible)
	}

	s.SetSearch("SOUNDTRACK")
	visible = s.Visible()
	if len(visible) != 1 || visible[0].ID != 3 {
		t.Errorf("search should match note text case-insensitively, got %v", visible)
	}

	s.SetSearch("")
	if len(s.Visible()) != 3 {
		t.Errorf("empty search should show all rows, got %d", len(s.Visible()))
	}

	// EnterAll resets the filter
	s.SetSearch("berserk")
	s.EnterAll(sampleNotes())
	if s.Search() != "" {
		t.Errorf("expected search reset on reload, got %q", s.Search())
	}
}
