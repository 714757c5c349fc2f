// package session holds the per-instance view state of the note manager.
//
// Selection, view level, and edit buffers all live on one Session owned by
// the UI and passed to everything that needs them. The session is confined
// to the UI event loop, so it does no locking of its own.
package session

import (
	"strings"

	"github.com/faddix/aninote/internal/models"
)

// View is the two-level view state plus the idle prompt.
type View int

const (
	// Idle shows a prompt to pick an anime or open the full list.
	Idle View = iota
	// SingleActive shows the one note for the current selection.
	SingleActive
	// AllActive shows the aggregate list from the active source.
	AllActive
)

func (v View) String() string {
	switch v {
	case SingleActive:
		return "single"
	case AllActive:
		return "all"
	default:
		return "idle"
	}
}

// Session is the mutable state of one plugin instance: current selection,
// view level, active source, per-row edit buffers, the soft-delete overlay,
// and the search filter.
type Session struct {
	mode   models.Mode
	source models.Source

	currentID *int
	view      View

	allNotes []models.Note
	buffers  map[int]string
	deleted  map[int]struct{}
	search   string

	// generation increments on every transition that invalidates in-flight
	// fetches; async results carry the generation they were issued under and
	// are dropped when it no longer matches.
	generation uint64
}

// New creates a Session for the given mode, starting Idle on the mode's
// default source.
func New(mode models.Mode) *Session {
	return &Session{
		mode:    mode,
		source:  mode.DefaultSource(),
		view:    Idle,
		buffers: make(map[int]string),
		deleted: make(map[int]struct{}),
	}
}

// Mode returns the immutable mode policy.
func (s *Session) Mode() models.Mode { return s.mode }

// Source returns the active view source.
func (s *Session) Source() models.Source { return s.source }

// View returns the current view level.
func (s *Session) View() View { return s.view }

// Generation returns the current transition generation.
func (s *Session) Generation() uint64 { return s.generation }

// Stale reports whether a result issued under gen should be discarded.
func (s *Session) Stale(gen uint64) bool { return gen != s.generation }

func (s *Session) bump() { s.generation++ }

// Current returns the selected media id, if any.
func (s *Session) Current() (int, bool) {
	if s.currentID == nil {
		return 0, false
	}
	return *s.currentID, true
}

// Select sets the current selection and enters the Single view, replacing
// any prior Single content.
func (s *Session) Select(id int) {
	s.currentID = &id
	s.view = SingleActive
	s.bump()
}

// ClearSelection drops the selection, e.g. when navigating away from a
// detail context. A Single view falls back to Idle.
func (s *Session) ClearSelection() {
	s.currentID = nil
	if s.view == SingleActive {
		s.view = Idle
	}
	s.bump()
}

// EnterAll installs a freshly built note list, seeds the edit buffers, and
// opens the All view. This is the full-reload point: the soft-delete overlay
// and search filter reset, and deleted ids are expected to be genuinely
// absent from the incoming list.
//
// The view opens even when seeding partially fails; the return value only
// says whether every buffer was reconciled.
func (s *Session) EnterAll(notes []models.Note) bool {
	ok := s.Seed(notes)
	s.deleted = make(map[int]struct{})
	s.search = ""
	s.view = AllActive
	s.bump()
	return ok
}

// Back leaves the All view: to Single if a selection still exists, else
// Idle. The caller reloads the single note afterwards so edits made remotely
// while the list was open are reflected.
func (s *Session) Back() View {
	if s.currentID != nil {
		s.view = SingleActive
	} else {
		s.view = Idle
	}
	s.bump()
	return s.view
}

// ToggleSource flips the active source. Only allowed when the mode policy
// enables the view toggle; otherwise it reports false and changes nothing.
func (s *Session) ToggleSource() (models.Source, bool) {
	if !s.mode.EnableViewToggle() {
		return s.source, false
	}
	if s.source == models.SourceLocal {
		s.source = models.SourceAniList
	} else {
		s.source = models.SourceLocal
	}
	s.bump()
	return s.source, true
}

// Seed reconciles the edit buffers with a rebuilt note list. Buffers for ids
// still present are overwritten with the stored text (reload wins over
// unsaved edits), missing buffers are created, and buffers for ids no longer
// present are pruned.
//
// If reconciliation dies partway, the previous buffers are kept untouched
// and the new note list is installed anyway so the All view never becomes
// unopenable.
func (s *Session) Seed(notes []models.Note) (ok bool) {
	prior := s.buffers

	defer func() {
		if r := recover(); r != nil {
			s.buffers = prior
			s.allNotes = notes
			ok = false
		}
	}()

	next := make(map[int]string, len(notes))
	for _, note := range notes {
		next[note.ID] = note.Note
	}

	s.buffers = next
	s.allNotes = notes
	return true
}

// Buffer returns the live edit value for id, falling back to the note's
// stored text when no buffer exists.
func (s *Session) Buffer(id int) string {
	if text, ok := s.buffers[id]; ok {
		return text
	}
	for _, note := range s.allNotes {
		if note.ID == id {
			return note.Note
		}
	}
	return ""
}

// SetBuffer overwrites the in-memory edit value for id. Nothing is persisted
// until an explicit save.
func (s *Session) SetBuffer(id int, text string) {
	s.buffers[id] = text
}

// MarkDeleted hides id from every render pass until the next full reload.
func (s *Session) MarkDeleted(id int) {
	s.deleted[id] = struct{}{}
}

// UnmarkDeleted makes id visible again, used when the delete that hid
// it turns out to have failed.
func (s *Session) UnmarkDeleted(id int) {
	delete(s.deleted, id)
}

// IsDeleted reports whether id is soft-deleted in this session.
func (s *Session) IsDeleted(id int) bool {
	_, ok := s.deleted[id]
	return ok
}

// SetSearch sets the All-view search filter.
func (s *Session) SetSearch(query string) {
	s.search = query
}

// Search returns the All-view search filter.
func (s *Session) Search() string { return s.search }

// Notes returns the full installed note list, overlay not applied.
func (s *Session) Notes() []models.Note { return s.allNotes }

// Visible returns the note rows a render pass may show: the installed list
// minus soft-deleted ids, filtered case-insensitively by title or note text.
func (s *Session) Visible() []models.Note {
	query := strings.ToLower(strings.TrimSpace(s.search))

	visible := make([]models.Note, 0, len(s.allNotes))
	for _, note := range s.allNotes {
		if s.IsDeleted(note.ID) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(note.Title), query) &&
			!strings.Contains(strings.ToLower(note.Note), query) {
			continue
		}
		visible = append(visible, note)
	}
	return visible
}
