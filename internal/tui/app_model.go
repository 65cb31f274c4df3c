package tui

import (
	"context"
	"fmt"
	"strings"

	"retrievex-cli/internal/api"
	"retrievex-cli/internal/chat"
	"retrievex-cli/internal/route"
	"retrievex-cli/internal/session"
	"retrievex-cli/internal/store"
	"retrievex-cli/internal/upload"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loginMode selects which credentials the login form collects.
type loginMode int

const (
	loginModePassword loginMode = iota
	loginModeSignup
	loginModeGoogle
)

type appModel struct {
	backend backend
	cfg     *store.GlobalConfig
	sess    *session.Store

	resolver route.Resolver
	// address is the raw fragment the user "is at", e.g. "#/notebooks/3".
	// The soft gate may render a different page without touching it.
	address string
	loc     route.Location
	sel     route.Selection
	// pageEpoch increments on every navigation; page-scoped async results
	// carry the epoch they were issued under and stale ones are dropped.
	pageEpoch int

	width  int
	height int

	// Address prompt ("go to").
	addressInput   textinput.Model
	addressEditing bool

	// Notebook list page.
	notebooks       []api.Notebook
	notebooksLoaded bool
	notebooksErr    string
	nbList          list.Model

	// Chat pages, keyed by notebook id. Sessions survive navigation so an
	// answer arriving after the user left still lands in the right log.
	chats            map[int]*chat.Session
	historyRequested map[int]bool
	chatMeta         map[int]api.Notebook
	chatVP           viewport.Model
	composer         textarea.Model
	spin             spinner.Model

	// Login form.
	mode      loginMode
	focus     loginField
	username  textinput.Model
	password  textinput.Model
	email     textinput.Model
	googleTok textinput.Model
	authBusy  bool
	authErr   string

	// Modals over the notebooks page.
	modal         modalKind
	modalInput    textinput.Model
	modalErr      string
	modalBusy     bool
	modalTarget   api.Notebook
	confirmFocus  confirmModalFocus
	picker        filepicker.Model
	pickerReady   bool
	batch         upload.Batch

	flash string
}

func newAppModel(b backend, cfg *store.GlobalConfig) appModel {
	m := appModel{
		backend:          b,
		cfg:              cfg,
		sess:             session.NewStore(),
		chats:            map[int]*chat.Session{},
		historyRequested: map[int]bool{},
		chatMeta:         map[int]api.Notebook{},
	}
	m.resolver = route.Resolver{RedirectLoginOnStart: cfg.RedirectLoginOnStart()}

	m.nbList = newNotebookList()

	m.addressInput = textinput.New()
	m.addressInput.Prompt = "go to: "
	m.addressInput.Placeholder = "#/notebooks"
	m.addressInput.CharLimit = 200

	m.username = newFormInput("username")
	m.password = newFormInput("password")
	m.password.EchoMode = textinput.EchoPassword
	m.password.EchoCharacter = '•'
	m.email = newFormInput("email (optional)")
	m.googleTok = newFormInput("google id token")

	m.modalInput = newFormInput("")

	m.composer = textarea.New()
	m.composer.Placeholder = "Ask a question about this notebook…"
	m.composer.ShowLineNumbers = false
	m.composer.SetHeight(3)
	m.composer.CharLimit = 4000

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = lipgloss.NewStyle().Foreground(colorAccent)

	m.chatVP = viewport.New(80, 20)

	return m
}

func newFormInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Prompt = ""
	return ti
}

func newNotebookList() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Notebooks"
	// The app renders its own chrome; keep the list minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("notebook", "notebooks")
	// ESC is "back" in this app, not "quit".
	l.KeyMap.Quit.SetKeys("q")
	cursorUp := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUp, "ctrl+p")...)
	cursorDown := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDown, "ctrl+n")...)
	return l
}

// notebookItem adapts an api.Notebook for the bubbles list.
type notebookItem struct {
	nb api.Notebook
}

func (i notebookItem) Title() string {
	icon := i.nb.Icon
	if icon == "" {
		icon = "📓"
	}
	return icon + " " + i.nb.Title
}

func (i notebookItem) Description() string {
	n := i.nb.Sources
	noun := "sources"
	if n == 1 {
		noun = "source"
	}
	if i.nb.Date == "" {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %s · %s", n, noun, i.nb.Date)
}

func (i notebookItem) FilterValue() string { return i.nb.Title }

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if token, ok, err := m.sess.BeginInit(); err == nil && ok {
		cmds = append(cmds, m.validateSessionCmd(token))
	}
	return tea.Batch(cmds...)
}

// navigate resolves the new address and mounts the selected page. It is the
// single place the resolver and guard run.
func (m *appModel) navigate(address string) tea.Cmd {
	if !strings.HasPrefix(address, "#") {
		address = "#" + address
	}
	m.address = address
	m.loc = m.resolver.Resolve(address)
	m.sel = route.Select(m.loc, m.sess.Authenticated())
	m.pageEpoch++
	m.flash = ""
	return m.mountPage()
}

// reguard re-runs the guard for the current address without a navigation
// event, e.g. after the session state changed under the same address.
func (m *appModel) reguard() tea.Cmd {
	m.sel = route.Select(m.loc, m.sess.Authenticated())
	m.pageEpoch++
	return m.mountPage()
}

func (m *appModel) mountPage() tea.Cmd {
	m.modal = modalNone
	m.modalErr = ""
	m.authErr = ""

	switch m.sel.Page {
	case route.PageNotebooks:
		return m.loadNotebooksCmd()
	case route.PageNotebookNew:
		// The create form is the new-notebook modal over the list.
		m.openNewNotebookModal()
		if !m.notebooksLoaded {
			return m.loadNotebooksCmd()
		}
		return nil
	case route.PageNotebookChat:
		return m.mountChat(m.sel.NotebookID)
	case route.PageLogin:
		m.focusLoginField(fieldUsername)
		return nil
	case route.PageHome:
		if m.sel.Section == "login" {
			m.focusLoginField(fieldUsername)
		}
		return nil
	}
	return nil
}

// mountChat makes sure the per-notebook session exists and kicks off the two
// independent mount reads (metadata and history).
func (m *appModel) mountChat(id int) tea.Cmd {
	if m.chats[id] == nil {
		m.chats[id] = chat.NewSession(id)
	}
	m.composer.Reset()
	m.composer.Focus()
	m.refreshTranscript(id)

	cmds := []tea.Cmd{m.loadNotebookMetaCmd(id)}
	if !m.historyRequested[id] {
		m.historyRequested[id] = true
		cmds = append(cmds, m.loadHistoryCmd(id))
	}
	return tea.Batch(cmds...)
}

func (m *appModel) openNewNotebookModal() {
	m.modal = modalNewNotebook
	m.modalErr = ""
	m.modalBusy = false
	m.modalInput = newFormInput("notebook title")
	m.modalInput.Focus()
	m.batch.Reset()
	m.pickerReady = false
}

func (m *appModel) openAddFilesModal(nb api.Notebook) {
	m.modal = modalAddFiles
	m.modalErr = ""
	m.modalBusy = false
	m.modalTarget = nb
	m.batch.Reset()
	m.pickerReady = false
}

// openPicker builds a fresh filepicker sized for the current window.
func (m *appModel) openPicker() tea.Cmd {
	fp := filepicker.New()
	fp.AllowedTypes = nil
	fp.FileAllowed = true
	fp.DirAllowed = false
	fp.ShowHidden = false
	fp.AutoHeight = false
	fp.Height = pickerHeight(m.height)
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.DisabledFile = styleMuted()
	fp.KeyMap.Back = key.NewBinding(
		key.WithKeys("h", "backspace", "left"),
		key.WithHelp("h", "up"),
	)
	m.picker = fp
	m.pickerReady = true
	m.batch.PickerActive = true
	return m.picker.Init()
}

func pickerHeight(screenH int) int {
	h := screenH - 14
	if h < 6 {
		h = 6
	}
	if h > 16 {
		h = 16
	}
	return h
}

func (m *appModel) focusLoginField(f loginField) {
	m.focus = f
	for _, ti := range []*textinput.Model{&m.username, &m.password, &m.email, &m.googleTok} {
		ti.Blur()
	}
	switch f {
	case fieldUsername:
		m.username.Focus()
	case fieldPassword:
		m.password.Focus()
	case fieldEmail:
		m.email.Focus()
	case fieldGoogleToken:
		m.googleTok.Focus()
	}
}

func (m *appModel) setNotebooks(nbs []api.Notebook) {
	m.notebooks = nbs
	m.notebooksLoaded = true
	items := make([]list.Item, 0, len(nbs))
	for _, nb := range nbs {
		items = append(items, notebookItem{nb: nb})
	}
	m.nbList.SetItems(items)
}

// replaceNotebook swaps the entry matching nb.ID in the local list.
func (m *appModel) replaceNotebook(nb api.Notebook) {
	for i := range m.notebooks {
		if m.notebooks[i].ID == nb.ID {
			m.notebooks[i] = nb
			break
		}
	}
	m.setNotebooks(m.notebooks)
	m.chatMeta[nb.ID] = nb
}

// removeNotebook drops exactly the entry with the given id.
func (m *appModel) removeNotebook(id int) {
	kept := m.notebooks[:0]
	for _, nb := range m.notebooks {
		if nb.ID != id {
			kept = append(kept, nb)
		}
	}
	m.notebooks = kept
	m.setNotebooks(m.notebooks)
	delete(m.chatMeta, id)
}

func (m *appModel) selectedNotebook() (api.Notebook, bool) {
	it, ok := m.nbList.SelectedItem().(notebookItem)
	if !ok {
		return api.Notebook{}, false
	}
	return it.nb, true
}

// Command constructors. Each captures the token at issuance so a logout
// mid-flight cannot leak a fresher identity into an old request.

func (m *appModel) validateSessionCmd(token string) tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		user, err := b.Me(context.Background(), token)
		return sessionValidatedMsg{user: user, err: err}
	}
}

func (m *appModel) loadNotebooksCmd() tea.Cmd {
	b, token, epoch := m.backend, m.sess.Token(), m.pageEpoch
	return func() tea.Msg {
		nbs, err := b.ListNotebooks(context.Background(), token)
		return notebooksLoadedMsg{epoch: epoch, notebooks: nbs, err: err}
	}
}

func (m *appModel) loadNotebookMetaCmd(id int) tea.Cmd {
	b, token, epoch := m.backend, m.sess.Token(), m.pageEpoch
	return func() tea.Msg {
		nb, err := b.GetNotebook(context.Background(), token, id)
		return notebookMetaMsg{epoch: epoch, nb: nb, err: err}
	}
}

func (m *appModel) loadHistoryCmd(id int) tea.Cmd {
	b, token := m.backend, m.sess.Token()
	return func() tea.Msg {
		history, err := b.ChatHistory(context.Background(), token, id)
		return historyLoadedMsg{notebookID: id, history: history, err: err}
	}
}

func (m *appModel) askCmd(notebookID, seq int, question string) tea.Cmd {
	b, token := m.backend, m.sess.Token()
	return func() tea.Msg {
		ans, err := b.Ask(context.Background(), token, notebookID, question, 0)
		return chatAnswerMsg{notebookID: notebookID, seq: seq, answer: ans, err: err}
	}
}

func (m *appModel) loginCmd(username, password string) tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		res, err := b.Login(context.Background(), username, password)
		return authResultMsg{res: res, err: err}
	}
}

func (m *appModel) signupCmd(username, password, email string) tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		res, err := b.Signup(context.Background(), username, password, email)
		return authResultMsg{res: res, signup: true, err: err}
	}
}

func (m *appModel) googleLoginCmd(idToken string) tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		res, err := b.GoogleLogin(context.Background(), idToken)
		return authResultMsg{res: res, err: err}
	}
}

func (m *appModel) createNotebookCmd(title string, files []string) tea.Cmd {
	b, token := m.backend, m.sess.Token()
	return func() tea.Msg {
		nb, err := b.CreateNotebook(context.Background(), token, title, files)
		return notebookCreatedMsg{nb: nb, err: err}
	}
}

func (m *appModel) renameNotebookCmd(id int, title string) tea.Cmd {
	b, token := m.backend, m.sess.Token()
	return func() tea.Msg {
		nb, err := b.RenameNotebook(context.Background(), token, id, title)
		return notebookRenamedMsg{nb: nb, err: err}
	}
}

func (m *appModel) deleteNotebookCmd(id int) tea.Cmd {
	b, token := m.backend, m.sess.Token()
	return func() tea.Msg {
		err := b.DeleteNotebook(context.Background(), token, id)
		return notebookDeletedMsg{id: id, err: err}
	}
}

func (m *appModel) addFilesCmd(id int, files []string) tea.Cmd {
	b, token := m.backend, m.sess.Token()
	return func() tea.Msg {
		nb, err := b.AddFiles(context.Background(), token, id, files)
		return filesAddedMsg{nb: nb, err: err}
	}
}

// logoutCmd invalidates the server session, best-effort; local logout has
// already happened by the time this runs.
func (m *appModel) logoutCmd(token string) tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		if token != "" {
			_ = b.Logout(context.Background(), token)
		}
		return nil
	}
}

// recordActivityCmd appends to the local activity log; failures are ignored.
func recordActivityCmd(activityType string, data map[string]any) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		log, err := store.OpenActivityLog(ctx)
		if err != nil {
			return nil
		}
		defer log.Close()
		_ = log.Append(ctx, activityType, data)
		return nil
	}
}
