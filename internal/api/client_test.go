package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSessionHeaderAttached(t *testing.T) {
	t.Parallel()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Session-Id")
		_ = json.NewEncoder(w).Encode(User{Username: "alice", UserID: 7})
	}))
	defer srv.Close()

	c := New(srv.URL)
	u, err := c.Me(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if got != "tok-123" {
		t.Fatalf("session header = %q, want tok-123", got)
	}
	if u.Username != "alice" || u.UserID != 7 {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestStringDetailError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid username or password"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatal("want error")
	}
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("want *Error, got %T", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", apiErr.Status)
	}
	if apiErr.Detail != "Invalid username or password" {
		t.Fatalf("detail = %q", apiErr.Detail)
	}
}

func TestFieldErrorListFlattened(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["body","username"],"msg":"field required","type":"value_error.missing"},{"loc":["body","password"],"msg":"field required","type":"value_error.missing"}]}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Login(context.Background(), "", "")
	if err == nil {
		t.Fatal("want error")
	}
	if want := "field required; field required"; !strings.Contains(err.Error(), want) {
		t.Fatalf("error = %q, want it to contain %q", err.Error(), want)
	}
}

func TestMalformedErrorBodyFallsBackToStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream exploded</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListNotebooks(context.Background(), "tok")
	if err == nil {
		t.Fatal("want error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Fatalf("error = %q, want the status code in the message", err.Error())
	}
}

func TestListNotebooksEmptyIsNonNil(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	nbs, err := New(srv.URL).ListNotebooks(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListNotebooks: %v", err)
	}
	if nbs == nil {
		t.Fatal("want non-nil slice for empty list")
	}
	if len(nbs) != 0 {
		t.Fatalf("len = %d, want 0", len(nbs))
	}
}

func TestCreateNotebookMultipart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fileA := filepath.Join(dir, "policy.pdf")
	fileB := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(fileA, []byte("pdf-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fileB, []byte("plain notes"), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got := r.FormValue("title"); got != "Compliance" {
			t.Errorf("title = %q", got)
		}
		parts := r.MultipartForm.File["files"]
		if len(parts) != 2 {
			t.Errorf("file parts = %d, want 2", len(parts))
		} else {
			if parts[0].Filename != "policy.pdf" || parts[1].Filename != "notes.txt" {
				t.Errorf("filenames = %q, %q", parts[0].Filename, parts[1].Filename)
			}
		}
		_ = json.NewEncoder(w).Encode(Notebook{
			ID: 1, Title: "Compliance", Date: "01 Sep 2026", Sources: 2,
			Icon: "📓", Files: []string{"policy.pdf", "notes.txt"},
		})
	}))
	defer srv.Close()

	nb, err := New(srv.URL).CreateNotebook(context.Background(), "tok", "Compliance", []string{fileA, fileB})
	if err != nil {
		t.Fatalf("CreateNotebook: %v", err)
	}
	if nb.ID != 1 || nb.Sources != 2 {
		t.Fatalf("unexpected notebook: %+v", nb)
	}
}

func TestAskBodyAndDecoding(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["notebook_id"] != float64(3) || body["question"] != "what is retention?" {
			t.Errorf("unexpected body: %v", body)
		}
		if _, ok := body["top_k"]; ok {
			t.Error("top_k should be omitted when unset")
		}
		_ = json.NewEncoder(w).Encode(Answer{
			Answer:  "Seven years.",
			Sources: []Source{{Source: "policy.pdf", Page: 4}},
		})
	}))
	defer srv.Close()

	ans, err := New(srv.URL).Ask(context.Background(), "tok", 3, "what is retention?", 0)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if ans.Answer != "Seven years." || len(ans.Sources) != 1 {
		t.Fatalf("unexpected answer: %+v", ans)
	}
}

func TestSourceLabelFallbacks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		src  Source
		want string
	}{
		{Source{Source: "policy.pdf"}, "policy.pdf"},
		{Source{File: "notes.txt"}, "notes.txt"},
		{Source{Source: "a.pdf", File: "b.txt"}, "a.pdf"},
		{Source{}, "(unknown source)"},
	}
	for _, tc := range cases {
		if got := tc.src.Label(); got != tc.want {
			t.Errorf("Label(%+v) = %q, want %q", tc.src, got, tc.want)
		}
	}
}
