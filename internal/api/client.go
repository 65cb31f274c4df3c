package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// sessionHeader carries the opaque session token on every authenticated call.
const sessionHeader = "X-Session-Id"

// DefaultServerURL is the compiled-in fallback when neither flag nor config
// name a server.
const DefaultServerURL = "http://localhost:8001"

// Client talks to one RetrieveX server. It is safe for concurrent use; the
// token is passed per call so a logout cannot race an in-flight request into
// using a fresher identity than it was issued with.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	return &Client{
		BaseURL: baseURL,
		// Answers wait on model inference server-side; keep the ceiling generous.
		HTTPClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// do issues one request and decodes a 2xx JSON body into out (out may be nil).
// Non-2xx responses become *Error.
func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(sessionHeader, token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path, token string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, token, bytes.NewReader(b), "application/json", out)
}

func (c *Client) Signup(ctx context.Context, username, password, email string) (AuthResult, error) {
	body := map[string]string{"username": username, "password": password}
	if strings.TrimSpace(email) != "" {
		body["email"] = email
	}
	var res AuthResult
	err := c.postJSON(ctx, "/signup", "", body, &res)
	return res, err
}

func (c *Client) Login(ctx context.Context, username, password string) (AuthResult, error) {
	var res AuthResult
	err := c.postJSON(ctx, "/login", "", map[string]string{
		"username": username,
		"password": password,
	}, &res)
	return res, err
}

// GoogleLogin exchanges a Google ID token for a session.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (AuthResult, error) {
	var res AuthResult
	err := c.postJSON(ctx, "/auth/google", "", map[string]string{"token": idToken}, &res)
	return res, err
}

// Logout invalidates the server-side session. Callers treat failures as
// non-fatal; the local token is cleared regardless.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/logout", token, nil, "", nil)
}

// Me validates the token and returns the identity behind it.
func (c *Client) Me(ctx context.Context, token string) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, "/me", token, nil, "", &u)
	return u, err
}

// ListNotebooks never returns a nil slice on success, so callers can render
// "no notebooks yet" without a nil check.
func (c *Client) ListNotebooks(ctx context.Context, token string) ([]Notebook, error) {
	var nbs []Notebook
	if err := c.do(ctx, http.MethodGet, "/notebooks", token, nil, "", &nbs); err != nil {
		return nil, err
	}
	if nbs == nil {
		nbs = []Notebook{}
	}
	return nbs, nil
}

func (c *Client) GetNotebook(ctx context.Context, token string, id int) (Notebook, error) {
	var nb Notebook
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/notebooks/%d", id), token, nil, "", &nb)
	return nb, err
}

// CreateNotebook uploads title plus one batch of files as multipart form
// data. An empty batch is allowed; the notebook starts with zero sources.
func (c *Client) CreateNotebook(ctx context.Context, token, title string, files []string) (Notebook, error) {
	body, contentType, err := multipartBody(map[string]string{"title": title}, files)
	if err != nil {
		return Notebook{}, err
	}
	var nb Notebook
	err = c.do(ctx, http.MethodPost, "/notebooks", token, body, contentType, &nb)
	return nb, err
}

func (c *Client) RenameNotebook(ctx context.Context, token string, id int, title string) (Notebook, error) {
	var nb Notebook
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/notebooks/%d", id), token,
		strings.NewReader(`{"title":`+mustJSON(title)+`}`), "application/json", &nb)
	return nb, err
}

func (c *Client) DeleteNotebook(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/notebooks/%d", id), token, nil, "", nil)
}

// AddFiles appends a batch of files to an existing notebook and returns the
// updated record.
func (c *Client) AddFiles(ctx context.Context, token string, id int, files []string) (Notebook, error) {
	body, contentType, err := multipartBody(nil, files)
	if err != nil {
		return Notebook{}, err
	}
	var nb Notebook
	err = c.do(ctx, http.MethodPost, fmt.Sprintf("/notebooks/%d/files", id), token, body, contentType, &nb)
	return nb, err
}

func (c *Client) ChatHistory(ctx context.Context, token string, notebookID int) ([]ChatMessage, error) {
	var msgs []ChatMessage
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/notebooks/%d/chat", notebookID), token, nil, "", &msgs); err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []ChatMessage{}
	}
	return msgs, nil
}

// Ask sends one question against a notebook. topK <= 0 leaves retrieval
// depth to the server default.
func (c *Client) Ask(ctx context.Context, token string, notebookID int, question string, topK int) (Answer, error) {
	body := map[string]any{
		"notebook_id": notebookID,
		"question":    question,
	}
	if topK > 0 {
		body["top_k"] = topK
	}
	var ans Answer
	err := c.postJSON(ctx, "/chat", token, body, &ans)
	return ans, err
}

// LogActivity records a client action on the server (best-effort from the
// caller's point of view).
func (c *Client) LogActivity(ctx context.Context, token, activityType string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	return c.postJSON(ctx, "/log-activity", token, map[string]any{
		"activity_type": activityType,
		"activity_data": data,
	}, nil)
}

func (c *Client) MyActivities(ctx context.Context, token string, limit int) ([]Activity, error) {
	path := "/my-activities"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var res struct {
		Activities []Activity `json:"activities"`
		Count      int        `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, path, token, nil, "", &res); err != nil {
		return nil, err
	}
	if res.Activities == nil {
		res.Activities = []Activity{}
	}
	return res.Activities, nil
}

// multipartBody builds a multipart form from plain fields plus file parts
// named "files" (one per path, part filename = base name).
func multipartBody(fields map[string]string, files []string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, "", err
		}
		part, err := w.CreateFormFile("files", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		f.Close()
		if err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
