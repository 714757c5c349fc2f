package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/faddix/aninote/internal/models"
	"github.com/faddix/aninote/internal/services"
	"github.com/faddix/aninote/internal/session"
	"github.com/faddix/aninote/internal/tasks"
)

// settleDelay is how long a source toggle waits before reloading, so rapid
// toggling settles on the final source instead of firing a fetch per press.
const settleDelay = 300 * time.Millisecond

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	sess   *session.Session
	engine tasks.SyncEngine
	lookup services.LookupService

	width  int
	height int

	idInput     textinput.Model
	searchInput textinput.Model
	searching   bool

	noteList  list.Model
	listReady bool

	editor      textarea.Model
	editorTitle string

	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	syncing      bool
	syncOp       string
	syncSummary  string
	syncErr      error

	notice      string
	noticeStyle noticeKind

	help help.Model
	keys keyMap
}

type noticeKind int

const (
	noticeOK noticeKind = iota
	noticeWarn
	noticeErr
)

type noteLoadedMsg struct {
	id    int
	text  string
	title string
	gen   uint64
	err   error
}

type notesBuiltMsg struct {
	notes []models.Note
	gen   uint64
	err   error
}

type noteSavedMsg struct {
	title string
	gen   uint64
	err   error
}

type noteDeletedMsg struct {
	id       int
	fromList bool
	gen      uint64
	err      error
}

type remoteFetchedMsg struct {
	id    int
	text  string
	found bool
	gen   uint64
	err   error
}

type sourceSettledMsg struct {
	gen uint64
}

type progressUpdateMsg tasks.ProgressUpdate

type syncDoneMsg struct {
	op      string
	summary string
	gen     uint64
	err     error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, sess *session.Session, engine tasks.SyncEngine, lookup services.LookupService) *Model {
	idInput := textinput.New()
	idInput.Placeholder = "anime id (empty for all notes)"
	idInput.CharLimit = 10
	idInput.Focus()

	searchInput := textinput.New()
	searchInput.Placeholder = "search title or note"

	editor := textarea.New()
	editor.Placeholder = "Write a note..."

	return &Model{
		ctx:         ctx,
		sess:        sess,
		engine:      engine,
		lookup:      lookup,
		idInput:     idInput,
		searchInput: searchInput,
		editor:      editor,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init starts the idle prompt cursor.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.noteList.SetSize(msg.Width-4, msg.Height-8)
		}
		m.editor.SetWidth(msg.Width - 4)
		m.editor.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.sess.View() {
		case session.Idle:
			return m.handleIdleKeys(msg)
		case session.SingleActive:
			return m.handleSingleKeys(msg)
		case session.AllActive:
			return m.handleAllKeys(msg)
		}

	case noteLoadedMsg:
		return m.handleNoteLoaded(msg)

	case notesBuiltMsg:
		return m.handleNotesBuilt(msg)

	case noteSavedMsg:
		if m.sess.Stale(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			m.setNotice(noticeErr, fmt.Sprintf("Save failed: %v", msg.err))
		} else {
			m.setNotice(noticeOK, fmt.Sprintf("Saved note for %s", msg.title))
		}
		return m, nil

	case noteDeletedMsg:
		return m.handleNoteDeleted(msg)

	case remoteFetchedMsg:
		if m.sess.Stale(msg.gen) {
			return m, nil
		}
		switch {
		case msg.err != nil:
			m.setNotice(noticeErr, fmt.Sprintf("Fetch failed: %v", msg.err))
		case !msg.found:
			m.setNotice(noticeWarn, "No note on AniList for this anime")
		default:
			m.sess.SetBuffer(msg.id, msg.text)
			m.editor.SetValue(msg.text)
			m.setNotice(noticeOK, "Loaded note from AniList")
		}
		return m, nil

	case sourceSettledMsg:
		if m.sess.Stale(msg.gen) {
			return m, nil
		}
		if m.sess.View() == session.SingleActive {
			if id, ok := m.sess.Current(); ok {
				return m, m.loadNote(id)
			}
			return m, nil
		}
		return m, m.openAll()

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress(m.progressChan, m.syncOp)

	case syncDoneMsg:
		return m.handleSyncDone(msg)
	}

	return m.updateFocused(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.sess.View() {
	case session.SingleActive:
		return m.renderSingle()
	case session.AllActive:
		return m.renderAll()
	default:
		return m.renderIdle()
	}
}

func (m *Model) handleIdleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		raw := strings.TrimSpace(m.idInput.Value())
		if raw == "" {
			return m, m.openAll()
		}
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			m.setNotice(noticeErr, fmt.Sprintf("Not an anime id: %q", raw))
			return m, nil
		}
		m.clearNotice()
		m.sess.Select(id)
		m.editorTitle = fmt.Sprintf("Anime #%d", id)
		m.editor.Reset()
		return m, m.loadNote(id)
	}

	var cmd tea.Cmd
	m.idInput, cmd = m.idInput.Update(msg)
	return m, cmd
}

func (m *Model) handleSingleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, selected := m.sess.Current()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if selected {
			// Unsaved edits survive in the buffer until the next reload.
			m.sess.SetBuffer(id, m.editor.Value())
		}
		m.sess.ClearSelection()
		m.clearNotice()
		m.idInput.Reset()
		m.idInput.Focus()
		return m, textinput.Blink
	case "ctrl+s":
		if !selected {
			return m, nil
		}
		text := m.editor.Value()
		m.sess.SetBuffer(id, text)
		return m, m.saveNote(id, text)
	case "ctrl+d":
		if !selected {
			return m, nil
		}
		return m, m.deleteNote(id, false)
	case "ctrl+r":
		if !selected {
			return m, nil
		}
		return m, m.fetchRemote(id)
	case "ctrl+t":
		if selected {
			// Keep the current edits so they survive the source switch.
			m.sess.SetBuffer(id, m.editor.Value())
		}
		source, ok := m.sess.ToggleSource()
		if !ok {
			m.setNotice(noticeWarn, fmt.Sprintf("Source toggle is disabled in %s mode", m.sess.Mode()))
			return m, nil
		}
		m.setNotice(noticeOK, fmt.Sprintf("Switching to %s...", source))
		gen := m.sess.Generation()
		return m, tea.Tick(settleDelay, func(time.Time) tea.Msg {
			return sourceSettledMsg{gen: gen}
		})
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) handleAllKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc", "enter":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.sess.SetSearch(m.searchInput.Value())
		m.noteList.SetItems(noteItems(m.sess.Visible()))
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.clearNotice()
		if m.sess.Back() == session.SingleActive {
			// Reload so remote edits made while the list was open show up.
			id, _ := m.sess.Current()
			return m, m.loadNote(id)
		}
		m.idInput.Reset()
		m.idInput.Focus()
		return m, textinput.Blink

	case "/":
		m.searching = true
		m.searchInput.SetValue(m.sess.Search())
		m.searchInput.Focus()
		return m, textinput.Blink

	case "enter":
		item, ok := m.noteList.SelectedItem().(noteItem)
		if !ok {
			return m, nil
		}
		m.clearNotice()
		m.sess.Select(item.note.ID)
		m.editorTitle = item.note.Title
		m.editor.SetValue(m.sess.Buffer(item.note.ID))
		m.editor.Focus()
		return m, textarea.Blink

	case "ctrl+d":
		item, ok := m.noteList.SelectedItem().(noteItem)
		if !ok {
			return m, nil
		}
		m.sess.MarkDeleted(item.note.ID)
		m.noteList.SetItems(noteItems(m.sess.Visible()))
		return m, m.deleteNote(item.note.ID, true)

	case "t":
		source, ok := m.sess.ToggleSource()
		if !ok {
			m.setNotice(noticeWarn, fmt.Sprintf("Source toggle is disabled in %s mode", m.sess.Mode()))
			return m, nil
		}
		m.setNotice(noticeOK, fmt.Sprintf("Switching to %s...", source))
		gen := m.sess.Generation()
		return m, tea.Tick(settleDelay, func(time.Time) tea.Msg {
			return sourceSettledMsg{gen: gen}
		})

	case "r":
		m.clearNotice()
		return m, m.openAll()

	case "f":
		if m.syncing {
			return m, nil
		}
		if m.engine.Mode().IsLocalOnly() {
			m.setNotice(noticeWarn, "No AniList source in local-only mode")
			return m, nil
		}
		return m, m.startPull()

	case "p":
		if m.syncing {
			return m, nil
		}
		if m.engine.Mode().IsLocalOnly() || m.engine.Mode().IsAniListOnly() {
			m.setNotice(noticeWarn, fmt.Sprintf("Nothing to push in %s mode", m.engine.Mode()))
			return m, nil
		}
		return m, m.startPush()
	}

	var cmd tea.Cmd
	m.noteList, cmd = m.noteList.Update(msg)
	return m, cmd
}

func (m *Model) handleNoteLoaded(msg noteLoadedMsg) (tea.Model, tea.Cmd) {
	if m.sess.Stale(msg.gen) {
		return m, nil
	}
	if msg.err != nil {
		m.setNotice(noticeErr, fmt.Sprintf("Could not load note: %v", msg.err))
		m.sess.ClearSelection()
		m.idInput.Focus()
		return m, nil
	}

	m.editorTitle = msg.title
	m.sess.SetBuffer(msg.id, msg.text)
	m.editor.SetValue(msg.text)
	m.editor.Focus()
	return m, textarea.Blink
}

func (m *Model) handleNotesBuilt(msg notesBuiltMsg) (tea.Model, tea.Cmd) {
	if m.sess.Stale(msg.gen) {
		return m, nil
	}
	if msg.notes == nil && msg.err != nil {
		m.setNotice(noticeErr, fmt.Sprintf("Could not load notes: %v", msg.err))
		return m, nil
	}

	seeded := m.sess.EnterAll(msg.notes)
	m.searching = false
	m.searchInput.Reset()

	m.noteList = list.New(noteItems(m.sess.Visible()), list.NewDefaultDelegate(), 0, 0)
	m.noteList.Title = fmt.Sprintf("Notes (%s)", m.sess.Source())
	if m.width > 0 {
		m.noteList.SetSize(m.width-4, m.height-8)
	}
	m.noteList.SetFilteringEnabled(false)
	m.noteList.SetShowHelp(false)
	m.listReady = true

	switch {
	case msg.err != nil:
		m.setNotice(noticeWarn, fmt.Sprintf("Partial note list: %v", msg.err))
	case !seeded:
		m.setNotice(noticeWarn, "Some edit buffers could not be reloaded")
	}
	return m, nil
}

func (m *Model) handleNoteDeleted(msg noteDeletedMsg) (tea.Model, tea.Cmd) {
	if m.sess.Stale(msg.gen) {
		return m, nil
	}
	if msg.err != nil {
		if msg.fromList {
			// The remote still has the note, so put the row back.
			m.sess.UnmarkDeleted(msg.id)
			if m.listReady {
				m.noteList.SetItems(noteItems(m.sess.Visible()))
			}
		}
		m.setNotice(noticeErr, fmt.Sprintf("Delete failed: %v", msg.err))
		return m, nil
	}

	if msg.fromList {
		m.setNotice(noticeOK, fmt.Sprintf("Deleted note #%d", msg.id))
		return m, nil
	}

	m.editor.Reset()
	m.sess.ClearSelection()
	m.idInput.Reset()
	m.idInput.Focus()
	m.setNotice(noticeOK, fmt.Sprintf("Deleted note #%d", msg.id))
	return m, textinput.Blink
}

func (m *Model) handleSyncDone(msg syncDoneMsg) (tea.Model, tea.Cmd) {
	m.syncing = false
	m.progressChan = nil

	if msg.err != nil {
		m.setNotice(noticeErr, fmt.Sprintf("%s failed: %v", msg.op, msg.err))
		return m, nil
	}
	m.setNotice(noticeOK, msg.summary)

	if msg.op == "Pull" && !m.sess.Stale(msg.gen) {
		return m, m.openAll()
	}
	return m, nil
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.sess.View() {
	case session.Idle:
		m.idInput, cmd = m.idInput.Update(msg)
	case session.SingleActive:
		m.editor, cmd = m.editor.Update(msg)
	case session.AllActive:
		if m.listReady {
			m.noteList, cmd = m.noteList.Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) loadNote(id int) tea.Cmd {
	gen := m.sess.Generation()
	source := m.sess.Source()
	return func() tea.Msg {
		text, err := m.engine.LoadNote(m.ctx, id, source)

		title := fmt.Sprintf("Anime #%d", id)
		if entry, lookupErr := m.lookup.GetEntry(m.ctx, id); lookupErr == nil {
			title = entry.Title
		}

		return noteLoadedMsg{id: id, text: text, title: title, gen: gen, err: err}
	}
}

func (m *Model) saveNote(id int, text string) tea.Cmd {
	gen := m.sess.Generation()
	source := m.sess.Source()
	title := m.editorTitle
	return func() tea.Msg {
		err := m.engine.SaveSingle(m.ctx, id, text, source)
		return noteSavedMsg{title: title, gen: gen, err: err}
	}
}

func (m *Model) deleteNote(id int, fromList bool) tea.Cmd {
	gen := m.sess.Generation()
	source := m.sess.Source()
	return func() tea.Msg {
		err := m.engine.DeleteSingle(m.ctx, id, source)
		return noteDeletedMsg{id: id, fromList: fromList, gen: gen, err: err}
	}
}

func (m *Model) fetchRemote(id int) tea.Cmd {
	gen := m.sess.Generation()
	return func() tea.Msg {
		text, found, err := m.engine.FetchSingle(m.ctx, id)
		return remoteFetchedMsg{id: id, text: text, found: found, gen: gen, err: err}
	}
}

func (m *Model) openAll() tea.Cmd {
	gen := m.sess.Generation()
	source := m.sess.Source()
	return func() tea.Msg {
		var noteMap map[int]string
		var err error

		if source == models.SourceAniList {
			result, fetchErr := m.engine.FetchAllRemote(m.ctx, nil)
			err = fetchErr
			if result != nil {
				noteMap = result.Notes
			}
		} else {
			noteMap, err = m.engine.LocalNotes()
		}

		if noteMap == nil && err != nil {
			return notesBuiltMsg{gen: gen, err: err}
		}

		notes := m.engine.BuildNotes(m.ctx, noteMap, nil)
		return notesBuiltMsg{notes: notes, gen: gen, err: err}
	}
}

func (m *Model) startPull() tea.Cmd {
	m.syncing = true
	m.syncOp = "Pull"
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	ch := m.progressChan

	go func() {
		result, err := m.engine.FetchAllRemote(m.ctx, ch)
		m.syncErr = err
		if result != nil {
			m.syncSummary = fmt.Sprintf("Pulled %d notes from AniList", len(result.Notes))
		}
		close(ch)
	}()

	return m.waitForProgress(ch, "Pull")
}

func (m *Model) startPush() tea.Cmd {
	m.syncing = true
	m.syncOp = "Push"
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	ch := m.progressChan

	go func() {
		result, err := m.engine.PushAllLocal(m.ctx, ch)
		m.syncErr = err
		if result != nil {
			m.syncSummary = fmt.Sprintf("Pushed %d notes (%d skipped, %d failed)", result.Pushed, result.Skipped, result.Failed)
		}
		close(ch)
	}()

	return m.waitForProgress(ch, "Push")
}

func (m *Model) waitForProgress(ch chan tasks.ProgressUpdate, op string) tea.Cmd {
	gen := m.sess.Generation()
	return func() tea.Msg {
		if ch == nil {
			return syncDoneMsg{op: op, summary: m.syncSummary, gen: gen, err: m.syncErr}
		}
		update, ok := <-ch
		if !ok {
			return syncDoneMsg{op: op, summary: m.syncSummary, gen: gen, err: m.syncErr}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) setNotice(kind noticeKind, text string) {
	m.noticeStyle = kind
	m.notice = text
}

func (m *Model) clearNotice() {
	m.notice = ""
}

func (m *Model) renderNotice() string {
	if m.notice == "" {
		return ""
	}
	switch m.noticeStyle {
	case noticeErr:
		return styles.err.Render(m.notice)
	case noticeWarn:
		return styles.warn.Render(m.notice)
	default:
		return styles.ok.Render(m.notice)
	}
}

func (m *Model) renderIdle() string {
	title := styles.title.Render("aninote")
	mode := styles.help.Render(fmt.Sprintf("mode: %s", m.sess.Mode()))

	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	body := fmt.Sprintf("%s\n%s\n\n%s\n", title, mode, m.idInput.View())
	if notice := m.renderNotice(); notice != "" {
		body += "\n" + notice + "\n"
	}
	return fmt.Sprintf("%s\n%s", body, helpView)
}

func (m *Model) renderSingle() string {
	title := styles.title.Render(m.editorTitle)

	var source string
	if m.sess.Mode().EnableViewToggle() || m.sess.Mode().IsAniListOnly() {
		source = styles.help.Render(fmt.Sprintf("source: %s", m.sess.Source())) + "\n"
	}

	helpKeys := []key.Binding{m.keys.save, m.keys.fetch, m.keys.editToggle, m.keys.delete, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	body := fmt.Sprintf("%s\n%s%s\n", title, source, m.editor.View())
	if notice := m.renderNotice(); notice != "" {
		body += "\n" + notice + "\n"
	}
	return fmt.Sprintf("%s\n%s", body, helpView)
}

func (m *Model) renderAll() string {
	if !m.listReady {
		return styles.help.Render("Loading notes...")
	}

	var sections []string
	sections = append(sections, m.noteList.View())

	if m.searching || m.sess.Search() != "" {
		sections = append(sections, fmt.Sprintf("search: %s", m.searchInput.View()))
	}

	if m.syncing {
		sections = append(sections, m.renderProgress())
	}

	if notice := m.renderNotice(); notice != "" {
		sections = append(sections, notice)
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.toggle, m.keys.pull, m.keys.push, m.keys.delete, m.keys.back, m.keys.quit}
	sections = append(sections, m.help.ShortHelpView(helpKeys))

	return strings.Join(sections, "\n\n")
}

func (m *Model) renderProgress() string {
	switch m.progress.Phase {
	case tasks.FetchRemote:
		return styles.warn.Render("Fetching notes from AniList...")
	case tasks.MergeLocal:
		return styles.warn.Render("Merging remote notes into the local store...")
	case tasks.PushNotes:
		return styles.warn.Render(fmt.Sprintf("Pushing notes (%d/%d)...", m.progress.Step, m.progress.Total))
	case tasks.BuildList:
		return styles.warn.Render("Building note list...")
	default:
		return styles.warn.Render("Working...")
	}
}
