package tui

import (
	"context"

	"retrievex-cli/internal/api"
)

// backend is the slice of the API client the TUI drives. Tests substitute a
// fake; *api.Client satisfies it.
type backend interface {
	Me(ctx context.Context, token string) (api.User, error)
	Login(ctx context.Context, username, password string) (api.AuthResult, error)
	Signup(ctx context.Context, username, password, email string) (api.AuthResult, error)
	GoogleLogin(ctx context.Context, idToken string) (api.AuthResult, error)
	Logout(ctx context.Context, token string) error
	ListNotebooks(ctx context.Context, token string) ([]api.Notebook, error)
	GetNotebook(ctx context.Context, token string, id int) (api.Notebook, error)
	CreateNotebook(ctx context.Context, token, title string, files []string) (api.Notebook, error)
	RenameNotebook(ctx context.Context, token string, id int, title string) (api.Notebook, error)
	DeleteNotebook(ctx context.Context, token string, id int) error
	AddFiles(ctx context.Context, token string, id int, files []string) (api.Notebook, error)
	ChatHistory(ctx context.Context, token string, notebookID int) ([]api.ChatMessage, error)
	Ask(ctx context.Context, token string, notebookID int, question string, topK int) (api.Answer, error)
}

// Completion messages for asynchronous calls. Page-scoped reads carry the
// epoch of the navigation that issued them; results from an abandoned page
// are dropped on arrival. Chat answers are scoped by notebook + sequence
// number instead, so an answer still lands if the user navigated away and
// back.

type sessionValidatedMsg struct {
	user api.User
	err  error
}

type authResultMsg struct {
	res    api.AuthResult
	signup bool
	err    error
}

type notebooksLoadedMsg struct {
	epoch     int
	notebooks []api.Notebook
	err       error
}

type notebookMetaMsg struct {
	epoch int
	nb    api.Notebook
	err   error
}

type historyLoadedMsg struct {
	notebookID int
	history    []api.ChatMessage
	err        error
}

type notebookCreatedMsg struct {
	nb  api.Notebook
	err error
}

type notebookRenamedMsg struct {
	nb  api.Notebook
	err error
}

type notebookDeletedMsg struct {
	id  int
	err error
}

type filesAddedMsg struct {
	nb  api.Notebook
	err error
}

type chatAnswerMsg struct {
	notebookID int
	seq        int
	answer     api.Answer
	err        error
}

// modalKind identifies which modal, if any, sits over the notebooks page.
type modalKind int

const (
	modalNone modalKind = iota
	modalNewNotebook
	modalRename
	modalDeleteConfirm
	modalAddFiles
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// loginField is the focused control on the login form.
type loginField int

const (
	fieldUsername loginField = iota
	fieldPassword
	fieldEmail
	fieldGoogleToken
)
