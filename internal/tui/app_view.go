package tui

import (
	"fmt"
	"strings"

	"retrievex-cli/internal/api"
	"retrievex-cli/internal/route"

	"github.com/charmbracelet/lipgloss"
)

func chatPaneWidth(total int) int {
	// Transcript takes the left two-thirds; the rest is the sources panel.
	w := total * 2 / 3
	if w < 40 {
		w = 40
	}
	return w
}

func (m appModel) View() string {
	if m.width == 0 {
		return "loading…"
	}

	var body string
	switch {
	case m.modal != modalNone:
		body = m.viewModal()
	case m.loginFormShown():
		body = m.viewLogin()
	default:
		switch m.sel.Page {
		case route.PageHome:
			body = m.viewHome()
		case route.PageAbout:
			body = viewAbout()
		case route.PageDashboard:
			body = viewDashboard()
		case route.PageReportQueryAnalytics:
			body = viewQueryAnalytics()
		case route.PageReportDocumentSource:
			body = viewDocumentSource(m.sel.Section)
		case route.PageReportSystemHealth:
			body = viewSystemHealth()
		case route.PageNotebooks:
			body = m.viewNotebooks()
		case route.PageNotebookChat:
			body = m.viewChat()
		default:
			body = m.viewHome()
		}
	}

	return strings.Join([]string{m.viewHeader(), body, m.viewFooter()}, "\n\n")
}

func (m appModel) viewHeader() string {
	brand := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("◆ RetrieveX")

	identity := "not logged in"
	if m.sess.Authenticated() {
		if u := m.sess.User(); u != nil {
			identity = u.Username
		} else {
			identity = "validating…"
		}
	}

	address := m.address
	if m.addressEditing {
		address = m.addressInput.View()
	}

	left := brand + "  " + styleMuted().Render(address)
	right := styleMuted().Render(identity)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m appModel) viewFooter() string {
	var help string
	switch {
	case m.modal == modalDeleteConfirm:
		help = "y: delete  n/esc: cancel  tab: focus  enter: select"
	case m.modal == modalNewNotebook || m.modal == modalAddFiles:
		if m.batch.PickerActive {
			help = "enter: pick file  h: up  esc: close picker"
		} else {
			help = "ctrl+f: add file  ctrl+x: remove last  enter: submit  esc: cancel"
		}
	case m.modal == modalRename:
		help = "enter: rename  esc: cancel"
	case m.loginFormShown():
		help = "tab: next field  enter: submit  ctrl+s: login/signup  ctrl+t: google  esc: home"
	case m.sel.Page == route.PageNotebooks:
		help = "enter: open  c: new  r: rename  x: delete  f: add files  /: filter  g: go  q: quit"
	case m.sel.Page == route.PageNotebookChat:
		help = "enter: send  ctrl+j: newline  pgup/pgdn: scroll  esc: back"
	default:
		help = "H: home  A: about  D: dashboard  N: notebooks  L: login  g: go  q: quit"
	}

	line := styleMuted().Render(help)
	if m.flash != "" {
		line = lipgloss.NewStyle().Foreground(colorAccent).Render(m.flash) + "  " + line
	}
	if m.anyPending() {
		line = m.spin.View() + " " + line
	}
	return line
}

func (m appModel) viewNotebooks() string {
	if m.notebooksErr != "" {
		return errorBanner(m.notebooksErr, m.width-4) + "\n\n" + m.nbList.View()
	}
	if !m.notebooksLoaded {
		return m.spin.View() + " loading notebooks…"
	}
	if len(m.notebooks) == 0 {
		return styleMuted().Render("No notebooks yet. Press c to create one from your documents.")
	}
	return m.nbList.View()
}

func (m appModel) viewChat() string {
	id := m.sel.NotebookID
	s := m.chats[id]
	if s == nil {
		return styleMuted().Render("no notebook selected")
	}

	title := fmt.Sprintf("Notebook %d", id)
	if nb, ok := m.chatMeta[id]; ok {
		title = nb.Title
		if nb.Sources > 0 {
			title = fmt.Sprintf("%s · %d sources", nb.Title, nb.Sources)
		}
	}
	head := lipgloss.NewStyle().Bold(true).Render(title)

	bodyH := m.chatVP.Height + m.composer.Height() + 2
	left := m.chatVP.View() + "\n" + m.composer.View()
	leftW := chatPaneWidth(m.width)
	rightW := m.width - leftW - 2
	if rightW < 20 {
		return head + "\n" + left
	}
	right := m.viewSources(s.NotebookID, rightW)

	row := lipgloss.JoinHorizontal(
		lipgloss.Top,
		normalizePane(left, leftW, bodyH),
		"  ",
		normalizePane(right, rightW, bodyH),
	)
	return head + "\n" + row
}

func (m appModel) viewSources(notebookID, width int) string {
	s := m.chats[notebookID]
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Sources"))
	b.WriteString("\n")
	srcs := s.Sources()
	if len(srcs) == 0 {
		b.WriteString(styleMuted().Render("Answers will cite their sources here."))
		return b.String()
	}
	for i, src := range srcs {
		line := fmt.Sprintf("%d. %s", i+1, src.Label())
		if src.Page > 0 {
			line += fmt.Sprintf(" (p.%d)", src.Page)
		}
		b.WriteString(line + "\n")
		if src.Snippet != "" {
			b.WriteString(styleMuted().Width(width).Render(src.Snippet) + "\n")
		}
	}
	return b.String()
}

// refreshTranscript rebuilds the viewport content for one notebook's log.
func (m *appModel) refreshTranscript(notebookID int) {
	s := m.chats[notebookID]
	if s == nil {
		return
	}
	width := m.chatVP.Width
	if width < 20 {
		width = 60
	}

	userLabel := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("You")
	botLabel := lipgloss.NewStyle().Bold(true).Render("RetrieveX")

	var b strings.Builder
	msgs := s.Messages()
	if len(msgs) == 0 {
		b.WriteString(styleMuted().Render("Ask anything about the documents in this notebook."))
	}
	for _, msg := range msgs {
		if msg.Role == api.RoleUser {
			b.WriteString(userLabel + "\n")
			b.WriteString(lipgloss.NewStyle().Width(width).Render(msg.Content))
		} else {
			b.WriteString(botLabel + "\n")
			b.WriteString(renderMarkdown(msg.Content, width))
		}
		b.WriteString("\n\n")
	}
	if s.Pending() {
		b.WriteString(m.spin.View() + styleMuted().Render(" thinking…"))
	}

	m.chatVP.SetContent(b.String())
	m.chatVP.GotoBottom()
}

func errorBanner(msg string, width int) string {
	if width < 10 {
		width = 10
	}
	return lipgloss.NewStyle().
		Foreground(colorErrorFg).
		Width(width).
		Render("✗ " + msg)
}
