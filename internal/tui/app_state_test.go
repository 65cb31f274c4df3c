package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"retrievex-cli/internal/api"
	"retrievex-cli/internal/route"
	"retrievex-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// fakeBackend satisfies backend with canned results; tests only fill in what
// they exercise.
type fakeBackend struct {
	user      api.User
	meErr     error
	auth      api.AuthResult
	authErr   error
	notebooks []api.Notebook
	listErr   error
	history   []api.ChatMessage
	answer    api.Answer
	askErr    error
}

func (f *fakeBackend) Me(context.Context, string) (api.User, error) { return f.user, f.meErr }
func (f *fakeBackend) Login(context.Context, string, string) (api.AuthResult, error) {
	return f.auth, f.authErr
}
func (f *fakeBackend) Signup(context.Context, string, string, string) (api.AuthResult, error) {
	return f.auth, f.authErr
}
func (f *fakeBackend) GoogleLogin(context.Context, string) (api.AuthResult, error) {
	return f.auth, f.authErr
}
func (f *fakeBackend) Logout(context.Context, string) error { return nil }
func (f *fakeBackend) ListNotebooks(context.Context, string) ([]api.Notebook, error) {
	return f.notebooks, f.listErr
}
func (f *fakeBackend) GetNotebook(_ context.Context, _ string, id int) (api.Notebook, error) {
	for _, nb := range f.notebooks {
		if nb.ID == id {
			return nb, nil
		}
	}
	return api.Notebook{}, errors.New("Notebook not found")
}
func (f *fakeBackend) CreateNotebook(_ context.Context, _ string, title string, files []string) (api.Notebook, error) {
	return api.Notebook{ID: 99, Title: title, Sources: len(files)}, nil
}
func (f *fakeBackend) RenameNotebook(_ context.Context, _ string, id int, title string) (api.Notebook, error) {
	return api.Notebook{ID: id, Title: title}, nil
}
func (f *fakeBackend) DeleteNotebook(context.Context, string, int) error { return nil }
func (f *fakeBackend) AddFiles(_ context.Context, _ string, id int, files []string) (api.Notebook, error) {
	return api.Notebook{ID: id, Sources: len(files)}, nil
}
func (f *fakeBackend) ChatHistory(context.Context, string, int) ([]api.ChatMessage, error) {
	return f.history, nil
}
func (f *fakeBackend) Ask(context.Context, string, int, string, int) (api.Answer, error) {
	return f.answer, f.askErr
}

func newTestModel(t *testing.T, b backend) appModel {
	t.Helper()
	t.Setenv("RETRIEVEX_CONFIG_DIR", t.TempDir())
	m := newAppModel(b, &store.GlobalConfig{})
	m.width = 100
	m.height = 32
	m.resize()
	return m
}

func apply(t *testing.T, m appModel, msg tea.Msg) appModel {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(appModel)
	if !ok {
		t.Fatalf("Update returned %T", updated)
	}
	return next
}

func TestSoftGateShowsLoginWithoutRewritingAddress(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	_ = m.navigate("#/notebooks/7")

	if m.sel.Page != route.PageLogin {
		t.Fatalf("page = %q, want login", m.sel.Page)
	}
	if m.address != "#/notebooks/7" {
		t.Fatalf("address rewritten to %q", m.address)
	}
	if !strings.Contains(m.View(), "Sign in") {
		t.Fatal("view does not show the login form")
	}
}

func TestLoginSuccessLandsOnNotebooks(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	_ = m.navigate("#/login")
	m.authBusy = true

	m = apply(t, m, authResultMsg{res: api.AuthResult{SessionID: "tok-9", Username: "alice"}})

	if !m.sess.Authenticated() {
		t.Fatal("session not authenticated after login result")
	}
	if m.address != "#/notebooks" {
		t.Fatalf("address = %q, want #/notebooks", m.address)
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SessionToken != "tok-9" {
		t.Fatalf("persisted token = %q, want tok-9", cfg.SessionToken)
	}
}

func TestLoginFailureShowsMessage(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	_ = m.navigate("#/login")

	m = apply(t, m, authResultMsg{err: errors.New("Invalid username or password (HTTP 401)")})

	if m.sess.Authenticated() {
		t.Fatal("authenticated after failed login")
	}
	if !strings.Contains(m.View(), "Invalid username or password") {
		t.Fatal("error message not rendered")
	}
}

func TestValidationFailureReguardsToLogin(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	if _, err := m.sess.Login("stale-tok"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	_ = m.navigate("#/notebooks")
	if m.sel.Page != route.PageNotebooks {
		t.Fatalf("page = %q, want notebooks", m.sel.Page)
	}

	m = apply(t, m, sessionValidatedMsg{err: errors.New("Unauthorized (HTTP 401)")})

	if m.sess.Authenticated() {
		t.Fatal("still authenticated after failed validation")
	}
	if m.sel.Page != route.PageLogin {
		t.Fatalf("page = %q, want login after reguard", m.sel.Page)
	}
	if m.address != "#/notebooks" {
		t.Fatalf("address = %q; soft gate must not rewrite it", m.address)
	}
}

func TestNotebooksLoadedAndStaleEpochDropped(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	if _, err := m.sess.Login("tok"); err != nil {
		t.Fatal(err)
	}
	_ = m.navigate("#/notebooks")

	m = apply(t, m, notebooksLoadedMsg{
		epoch:     m.pageEpoch,
		notebooks: []api.Notebook{{ID: 1, Title: "Research"}, {ID: 2, Title: "Compliance"}},
	})
	if len(m.notebooks) != 2 {
		t.Fatalf("notebooks = %d, want 2", len(m.notebooks))
	}

	// A result from an abandoned navigation must not clobber the list.
	m = apply(t, m, notebooksLoadedMsg{epoch: m.pageEpoch - 1, notebooks: []api.Notebook{{ID: 9}}})
	if len(m.notebooks) != 2 {
		t.Fatalf("stale load applied: %d notebooks", len(m.notebooks))
	}
}

func TestDeleteRemovesExactlyThatNotebook(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	if _, err := m.sess.Login("tok"); err != nil {
		t.Fatal(err)
	}
	_ = m.navigate("#/notebooks")
	m.setNotebooks([]api.Notebook{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}, {ID: 3, Title: "C"}})
	m.modal = modalDeleteConfirm
	m.modalBusy = true

	m = apply(t, m, notebookDeletedMsg{id: 2})

	if m.modal != modalNone {
		t.Fatal("modal still open after delete")
	}
	if len(m.notebooks) != 2 {
		t.Fatalf("notebooks = %d, want 2", len(m.notebooks))
	}
	for _, nb := range m.notebooks {
		if nb.ID == 2 {
			t.Fatal("deleted notebook still present")
		}
	}
}

func TestChatAnswerLandsInTheRightSession(t *testing.T) {
	m := newTestModel(t, &fakeBackend{notebooks: []api.Notebook{{ID: 3, Title: "Research"}}})
	if _, err := m.sess.Login("tok"); err != nil {
		t.Fatal(err)
	}
	_ = m.navigate("#/notebooks/3")
	if m.sel.Page != route.PageNotebookChat || m.sel.NotebookID != 3 {
		t.Fatalf("selection = %+v", m.sel)
	}

	s := m.chats[3]
	seqA, _ := s.Send("question A")
	seqB, _ := s.Send("question B")

	// B answers first; attribution must hold.
	m = apply(t, m, chatAnswerMsg{notebookID: 3, seq: seqB, answer: api.Answer{Answer: "answer B"}})
	m = apply(t, m, chatAnswerMsg{notebookID: 3, seq: seqA, answer: api.Answer{Answer: "answer A"}})

	msgs := m.chats[3].Messages()
	if len(msgs) != 4 {
		t.Fatalf("log length = %d, want 4", len(msgs))
	}
	bySeq := map[int]string{}
	for _, msg := range msgs[2:] {
		bySeq[msg.Seq] = msg.Content
	}
	if bySeq[seqA] != "answer A" || bySeq[seqB] != "answer B" {
		t.Fatalf("attribution scrambled: %v", bySeq)
	}
}

func TestChatErrorAppendsAssistantMessage(t *testing.T) {
	m := newTestModel(t, &fakeBackend{notebooks: []api.Notebook{{ID: 3}}})
	if _, err := m.sess.Login("tok"); err != nil {
		t.Fatal(err)
	}
	_ = m.navigate("#/notebooks/3")

	seq, _ := m.chats[3].Send("doomed question")
	m = apply(t, m, chatAnswerMsg{notebookID: 3, seq: seq, err: errors.New("server unreachable")})

	msgs := m.chats[3].Messages()
	last := msgs[len(msgs)-1]
	if last.Role != api.RoleAssistant || !strings.Contains(last.Content, "server unreachable") {
		t.Fatalf("last message = %+v", last)
	}
	if m.chats[3].Pending() {
		t.Fatal("still pending after error")
	}
}

func TestHistoryFailureIsNonFatal(t *testing.T) {
	m := newTestModel(t, &fakeBackend{notebooks: []api.Notebook{{ID: 5}}})
	if _, err := m.sess.Login("tok"); err != nil {
		t.Fatal(err)
	}
	_ = m.navigate("#/notebooks/5")

	m = apply(t, m, historyLoadedMsg{notebookID: 5, err: errors.New("boom")})

	if got := len(m.chats[5].Messages()); got != 0 {
		t.Fatalf("messages = %d, want empty log", got)
	}
	// The page still renders.
	if !strings.Contains(m.View(), "Ask anything") {
		t.Fatal("empty chat prompt missing")
	}
}

func TestHomeSectionFocusFromDeepLink(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	_ = m.navigate("#/features")

	if m.sel.Page != route.PageHome || m.sel.Section != "features" {
		t.Fatalf("selection = %+v", m.sel)
	}
	if !strings.Contains(m.View(), "▸") {
		t.Fatal("focused section marker missing")
	}
}

func TestStartupLoginRedirectFlag(t *testing.T) {
	t.Setenv("RETRIEVEX_CONFIG_DIR", t.TempDir())
	on := true
	cfg := &store.GlobalConfig{LoginRedirectOnStartup: &on}
	m := newAppModel(&fakeBackend{}, cfg)
	m.width, m.height = 100, 32

	_ = m.navigate("#/login")
	if m.loc.Path != "/" {
		t.Fatalf("first navigation path = %q, want /", m.loc.Path)
	}
	_ = m.navigate("#/login")
	if m.loc.Path != "/login" {
		t.Fatalf("second navigation path = %q, want /login", m.loc.Path)
	}
}
