package tui

import (
	"fmt"
	"strings"

	"retrievex-cli/internal/route"
	"retrievex-cli/internal/session"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.address == "" {
			// First paint: land on home while the session validates.
			return m, m.navigate("#/")
		}
		return m, nil

	case sessionValidatedMsg:
		_ = m.sess.CompleteValidate(msg.user, msg.err)
		if m.address == "" {
			return m, m.navigate("#/")
		}
		// The guard may flip pages now that the session state settled.
		return m, m.reguard()

	case authResultMsg:
		return m.applyAuthResult(msg)

	case notebooksLoadedMsg:
		if msg.epoch != m.pageEpoch {
			return m, nil
		}
		if msg.err != nil {
			m.notebooksErr = msg.err.Error()
			return m, nil
		}
		m.notebooksErr = ""
		m.setNotebooks(msg.notebooks)
		return m, nil

	case notebookMetaMsg:
		if msg.epoch != m.pageEpoch {
			return m, nil
		}
		if msg.err == nil {
			m.chatMeta[msg.nb.ID] = msg.nb
		}
		return m, nil

	case historyLoadedMsg:
		s := m.chats[msg.notebookID]
		if s == nil {
			return m, nil
		}
		// History read failures are non-fatal: the page opens with an empty
		// log rather than erroring.
		if msg.err != nil {
			s.LoadHistory(nil)
		} else {
			s.LoadHistory(msg.history)
		}
		if m.viewingChat(msg.notebookID) {
			m.refreshTranscript(msg.notebookID)
		}
		return m, nil

	case chatAnswerMsg:
		s := m.chats[msg.notebookID]
		if s == nil {
			return m, nil
		}
		if msg.err != nil {
			s.ApplyError(msg.seq, msg.err.Error())
		} else {
			s.ApplyAnswer(msg.seq, msg.answer.Answer, msg.answer.Sources)
		}
		if m.viewingChat(msg.notebookID) {
			m.refreshTranscript(msg.notebookID)
		}
		return m, nil

	case notebookCreatedMsg:
		m.modalBusy = false
		if msg.err != nil {
			m.modalErr = msg.err.Error()
			return m, nil
		}
		m.notebooks = append(m.notebooks, msg.nb)
		m.setNotebooks(m.notebooks)
		m.batch.Reset()
		m.modal = modalNone
		// Land in the fresh notebook's chat.
		return m, tea.Batch(
			m.navigate(fmt.Sprintf("#/notebooks/%d", msg.nb.ID)),
			recordActivityCmd("notebook_create", map[string]any{"notebook_id": msg.nb.ID}),
		)

	case notebookRenamedMsg:
		m.modalBusy = false
		if msg.err != nil {
			m.modalErr = msg.err.Error()
			return m, nil
		}
		m.replaceNotebook(msg.nb)
		m.modal = modalNone
		m.flash = "Renamed to " + msg.nb.Title
		return m, nil

	case notebookDeletedMsg:
		m.modalBusy = false
		if msg.err != nil {
			m.modalErr = msg.err.Error()
			return m, nil
		}
		m.removeNotebook(msg.id)
		m.modal = modalNone
		m.flash = "Notebook deleted"
		return m, recordActivityCmd("notebook_delete", map[string]any{"notebook_id": msg.id})

	case filesAddedMsg:
		m.modalBusy = false
		if msg.err != nil {
			m.modalErr = msg.err.Error()
			return m, nil
		}
		m.replaceNotebook(msg.nb)
		m.batch.Reset()
		m.modal = modalNone
		m.flash = fmt.Sprintf("%s now has %d sources", msg.nb.Title, msg.nb.Sources)
		return m, nil

	case spinner.TickMsg:
		if m.anyPending() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

// anyPending reports whether anything the spinner represents is in flight.
func (m *appModel) anyPending() bool {
	if m.authBusy || m.modalBusy {
		return true
	}
	for _, s := range m.chats {
		if s.Pending() {
			return true
		}
	}
	return false
}

func (m *appModel) viewingChat(notebookID int) bool {
	return m.sel.Page == route.PageNotebookChat && m.sel.NotebookID == notebookID
}

func (m *appModel) resize() {
	w, h := m.width, m.height
	if w < 40 {
		w = 40
	}
	bodyH := h - 6
	if bodyH < 8 {
		bodyH = 8
	}
	m.nbList.SetSize(w-4, bodyH)
	m.chatVP.Width = chatPaneWidth(w)
	m.chatVP.Height = bodyH - m.composer.Height() - 2
	if m.chatVP.Height < 4 {
		m.chatVP.Height = 4
	}
	m.composer.SetWidth(chatPaneWidth(w) - 2)
	if m.sel.Page == route.PageNotebookChat {
		m.refreshTranscript(m.sel.NotebookID)
	}
}

func (m appModel) applyAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	m.authBusy = false
	if msg.err != nil {
		m.authErr = msg.err.Error()
		return m, nil
	}
	navTo, err := m.sess.Login(msg.res.SessionID)
	if err != nil {
		m.authErr = err.Error()
		return m, nil
	}
	m.password.Reset()
	m.googleTok.Reset()
	activity := "login"
	if msg.signup {
		activity = "signup"
	}
	return m, tea.Batch(
		m.navigate(navTo),
		// Fill in the validated identity behind the optimistic login.
		m.validateSessionCmd(msg.res.SessionID),
		recordActivityCmd(activity, map[string]any{"username": msg.res.Username}),
	)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.addressEditing {
		return m.updateAddressKey(msg)
	}
	if m.modal != modalNone {
		return m.updateModalKey(msg)
	}

	// ctrl+l logs out from anywhere.
	if msg.String() == "ctrl+l" && m.sess.Authenticated() {
		token := m.sess.Token()
		navTo, _ := m.sess.Logout()
		return m, tea.Batch(
			m.navigate(navTo),
			m.logoutCmd(token),
			recordActivityCmd("logout", nil),
		)
	}

	if m.loginFormShown() {
		return m.updateLoginKey(msg)
	}

	switch m.sel.Page {
	case route.PageNotebooks:
		return m.updateNotebooksKey(msg)
	case route.PageNotebookChat:
		return m.updateChatKey(msg)
	default:
		return m.updateStaticPageKey(msg)
	}
}

// loginFormShown covers both the soft-gate login page and the home page
// deep-linked to its login section.
func (m *appModel) loginFormShown() bool {
	if m.sel.Page == route.PageLogin {
		return true
	}
	return m.sel.Page == route.PageHome && m.sel.Section == "login"
}

func (m appModel) updateAddressKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		target := strings.TrimSpace(m.addressInput.Value())
		m.addressEditing = false
		m.addressInput.Reset()
		if target == "" {
			return m, nil
		}
		return m, m.navigate(target)
	case "esc", "ctrl+g":
		m.addressEditing = false
		m.addressInput.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.addressInput, cmd = m.addressInput.Update(msg)
	return m, cmd
}

func (m appModel) updateStaticPageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		if m.sel.Page != route.PageHome {
			return m, m.navigate("#/")
		}
		return m, nil
	}
	if cmd, ok := m.globalShortcut(msg); ok {
		return m, cmd
	}
	return m, nil
}

// globalShortcut handles the navigation keys shared by every non-typing
// surface.
func (m *appModel) globalShortcut(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "g":
		m.addressEditing = true
		m.addressInput.SetValue(m.address)
		m.addressInput.Focus()
		return nil, true
	case "H":
		return m.navigate("#/"), true
	case "A":
		return m.navigate("#/about"), true
	case "D":
		return m.navigate("#/dashboard"), true
	case "N":
		return m.navigate("#/notebooks"), true
	case "L":
		return m.navigate("#/login"), true
	}
	return nil, false
}

func (m appModel) updateNotebooksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter input is open it owns the keyboard.
	if m.nbList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.nbList, cmd = m.nbList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		if nb, ok := m.selectedNotebook(); ok {
			return m, m.navigate(fmt.Sprintf("#/notebooks/%d", nb.ID))
		}
		return m, nil
	case "c":
		return m, m.navigate("#/notebooks/new")
	case "r":
		if nb, ok := m.selectedNotebook(); ok {
			m.modal = modalRename
			m.modalTarget = nb
			m.modalErr = ""
			m.modalBusy = false
			m.modalInput = newFormInput("new title")
			m.modalInput.SetValue(nb.Title)
			m.modalInput.Focus()
		}
		return m, nil
	case "x":
		if nb, ok := m.selectedNotebook(); ok {
			m.modal = modalDeleteConfirm
			m.modalTarget = nb
			m.modalErr = ""
			m.modalBusy = false
			m.confirmFocus = confirmFocusCancel
		}
		return m, nil
	case "f":
		if nb, ok := m.selectedNotebook(); ok {
			m.openAddFilesModal(nb)
		}
		return m, nil
	case "R":
		m.notebooksLoaded = false
		return m, m.loadNotebooksCmd()
	case "esc":
		return m, m.navigate("#/")
	}
	if cmd, ok := m.globalShortcut(msg); ok {
		return m, cmd
	}
	var cmd tea.Cmd
	m.nbList, cmd = m.nbList.Update(msg)
	return m, cmd
}

func (m appModel) updateChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.chats[m.sel.NotebookID]
	if s == nil {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, m.navigate("#/notebooks")
	case "enter":
		question := m.composer.Value()
		seq, ok := s.Send(question)
		if !ok {
			return m, nil
		}
		m.composer.Reset()
		m.refreshTranscript(s.NotebookID)
		return m, tea.Batch(
			m.askCmd(s.NotebookID, seq, strings.TrimSpace(question)),
			m.spin.Tick,
			recordActivityCmd("chat_send", map[string]any{"notebook_id": s.NotebookID}),
		)
	case "ctrl+j":
		// Newline without sending.
		m.composer.InsertString("\n")
		return m, nil
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.chatVP, cmd = m.chatVP.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m appModel) updateLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, m.navigate("#/")
	case "ctrl+s":
		if m.mode == loginModeSignup {
			m.mode = loginModePassword
		} else {
			m.mode = loginModeSignup
		}
		m.authErr = ""
		m.focusLoginField(fieldUsername)
		return m, nil
	case "ctrl+t":
		if m.mode == loginModeGoogle {
			m.mode = loginModePassword
			m.focusLoginField(fieldUsername)
		} else {
			m.mode = loginModeGoogle
			m.focusLoginField(fieldGoogleToken)
		}
		m.authErr = ""
		return m, nil
	case "tab", "shift+tab", "down", "up":
		m.cycleLoginFocus(msg.String() == "shift+tab" || msg.String() == "up")
		return m, nil
	case "enter":
		return m.submitLogin()
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldUsername:
		m.username, cmd = m.username.Update(msg)
	case fieldPassword:
		m.password, cmd = m.password.Update(msg)
	case fieldEmail:
		m.email, cmd = m.email.Update(msg)
	case fieldGoogleToken:
		m.googleTok, cmd = m.googleTok.Update(msg)
	}
	return m, cmd
}

func (m *appModel) cycleLoginFocus(backwards bool) {
	var order []loginField
	switch m.mode {
	case loginModeSignup:
		order = []loginField{fieldUsername, fieldPassword, fieldEmail}
	case loginModeGoogle:
		order = []loginField{fieldGoogleToken}
	default:
		order = []loginField{fieldUsername, fieldPassword}
	}
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
			break
		}
	}
	if backwards {
		idx = (idx - 1 + len(order)) % len(order)
	} else {
		idx = (idx + 1) % len(order)
	}
	m.focusLoginField(order[idx])
}

func (m appModel) submitLogin() (tea.Model, tea.Cmd) {
	if m.authBusy {
		return m, nil
	}
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()

	switch m.mode {
	case loginModeGoogle:
		token := strings.TrimSpace(m.googleTok.Value())
		if token == "" {
			m.authErr = "paste a Google ID token first"
			return m, nil
		}
		m.authBusy = true
		m.authErr = ""
		return m, tea.Batch(m.googleLoginCmd(token), m.spin.Tick)

	case loginModeSignup:
		if username == "" || password == "" {
			m.authErr = "username and password are required"
			return m, nil
		}
		// Courtesy pre-check; the server validates again.
		if err := session.CheckPasswordStrength(password); err != nil {
			m.authErr = err.Error()
			return m, nil
		}
		m.authBusy = true
		m.authErr = ""
		return m, tea.Batch(
			m.signupCmd(username, password, strings.TrimSpace(m.email.Value())),
			m.spin.Tick,
		)

	default:
		if username == "" || password == "" {
			m.authErr = "username and password are required"
			return m, nil
		}
		m.authBusy = true
		m.authErr = ""
		return m, tea.Batch(m.loginCmd(username, password), m.spin.Tick)
	}
}

func (m appModel) updateModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modalBusy {
		// One atomic outcome per batch; no input while it is in flight.
		return m, nil
	}

	switch m.modal {
	case modalDeleteConfirm:
		switch msg.String() {
		case "esc", "ctrl+g", "n":
			m.modal = modalNone
			return m, nil
		case "tab", "left", "right":
			if m.confirmFocus == confirmFocusConfirm {
				m.confirmFocus = confirmFocusCancel
			} else {
				m.confirmFocus = confirmFocusConfirm
			}
			return m, nil
		case "y":
			m.modalBusy = true
			return m, tea.Batch(m.deleteNotebookCmd(m.modalTarget.ID), m.spin.Tick)
		case "enter":
			if m.confirmFocus == confirmFocusConfirm {
				m.modalBusy = true
				return m, tea.Batch(m.deleteNotebookCmd(m.modalTarget.ID), m.spin.Tick)
			}
			m.modal = modalNone
			return m, nil
		}
		return m, nil

	case modalRename:
		switch msg.String() {
		case "esc", "ctrl+g":
			m.modal = modalNone
			return m, nil
		case "enter":
			title := strings.TrimSpace(m.modalInput.Value())
			if title == "" {
				m.modalErr = "title cannot be empty"
				return m, nil
			}
			m.modalBusy = true
			return m, tea.Batch(m.renameNotebookCmd(m.modalTarget.ID, title), m.spin.Tick)
		}
		var cmd tea.Cmd
		m.modalInput, cmd = m.modalInput.Update(msg)
		return m, cmd

	case modalNewNotebook, modalAddFiles:
		return m.updateUploadModalKey(msg)
	}
	return m, nil
}

// updateUploadModalKey drives the two modals that carry an upload batch.
func (m appModel) updateUploadModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.batch.PickerActive {
		switch msg.String() {
		case "esc", "ctrl+g":
			m.batch.PickerActive = false
			return m, nil
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			m.batch.Add(path)
			m.batch.PickerActive = false
		}
		return m, cmd
	}

	switch msg.String() {
	case "esc", "ctrl+g":
		m.batch.Reset()
		m.modal = modalNone
		if m.sel.Page == route.PageNotebookNew {
			return m, m.navigate("#/notebooks")
		}
		return m, nil
	case "ctrl+f":
		return m, m.openPicker()
	case "ctrl+x":
		m.batch.RemoveAt(m.batch.Len() - 1)
		return m, nil
	case "enter":
		return m.submitUploadModal()
	}

	if m.modal == modalNewNotebook {
		var cmd tea.Cmd
		m.modalInput, cmd = m.modalInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) submitUploadModal() (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalNewNotebook:
		title := strings.TrimSpace(m.modalInput.Value())
		if title == "" {
			m.modalErr = "title cannot be empty"
			return m, nil
		}
		m.modalBusy = true
		return m, tea.Batch(m.createNotebookCmd(title, m.batch.Files()), m.spin.Tick)
	case modalAddFiles:
		if m.batch.Len() == 0 {
			m.modalErr = "pick at least one file (ctrl+f)"
			return m, nil
		}
		m.modalBusy = true
		return m, tea.Batch(m.addFilesCmd(m.modalTarget.ID, m.batch.Files()), m.spin.Tick)
	}
	return m, nil
}

// updateFocused routes non-key messages (blink ticks, filepicker directory
// reads) to the component that needs them.
func (m appModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.pickerReady && m.batch.PickerActive {
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.addressEditing {
		m.addressInput, cmd = m.addressInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.loginFormShown() {
		switch m.focus {
		case fieldUsername:
			m.username, cmd = m.username.Update(msg)
		case fieldPassword:
			m.password, cmd = m.password.Update(msg)
		case fieldEmail:
			m.email, cmd = m.email.Update(msg)
		case fieldGoogleToken:
			m.googleTok, cmd = m.googleTok.Update(msg)
		}
		cmds = append(cmds, cmd)
	}
	if m.sel.Page == route.PageNotebookChat {
		m.composer, cmd = m.composer.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.modal == modalNewNotebook || m.modal == modalRename {
		m.modalInput, cmd = m.modalInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}
