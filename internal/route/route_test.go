package route

import (
	"reflect"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	t.Parallel()

	var r Resolver
	for _, raw := range []string{"", "#/", "#"} {
		loc := r.Resolve(raw)
		if loc.Path != "/" {
			t.Errorf("Resolve(%q).Path = %q, want /", raw, loc.Path)
		}
		if len(loc.Query) != 0 {
			t.Errorf("Resolve(%q).Query = %v, want empty", raw, loc.Query)
		}
	}
}

func TestResolveQuery(t *testing.T) {
	t.Parallel()

	var r Resolver
	loc := r.Resolve("#/reports/document-source?tab=usage")
	if loc.Path != "/reports/document-source" {
		t.Fatalf("Path = %q", loc.Path)
	}
	if want := map[string]string{"tab": "usage"}; !reflect.DeepEqual(loc.Query, want) {
		t.Fatalf("Query = %v, want %v", loc.Query, want)
	}
}

func TestResolveDuplicateKeyLastWins(t *testing.T) {
	t.Parallel()

	var r Resolver
	loc := r.Resolve("#/x?a=1&a=2&b=hello%20world")
	if loc.Query["a"] != "2" {
		t.Fatalf("a = %q, want 2", loc.Query["a"])
	}
	if loc.Query["b"] != "hello world" {
		t.Fatalf("b = %q, want unescaped value", loc.Query["b"])
	}
}

func TestStartupLoginRedirect(t *testing.T) {
	t.Parallel()

	r := Resolver{RedirectLoginOnStart: true}
	if loc := r.Resolve("#/login"); loc.Path != "/" {
		t.Fatalf("first resolve of #/login = %q, want /", loc.Path)
	}
	// Only the very first resolution is rewritten.
	if loc := r.Resolve("#/login"); loc.Path != "/login" {
		t.Fatalf("second resolve of #/login = %q, want /login", loc.Path)
	}
}

func TestStartupLoginRedirectDisabled(t *testing.T) {
	t.Parallel()

	var r Resolver
	if loc := r.Resolve("#/login?next=x"); loc.Path != "/login" {
		t.Fatalf("Path = %q, want /login", loc.Path)
	}
}

func TestIndependentResolversDoNotInterfere(t *testing.T) {
	t.Parallel()

	a := Resolver{RedirectLoginOnStart: true}
	b := Resolver{RedirectLoginOnStart: true}
	_ = a.Resolve("#/about")
	// b has not started yet, so its first resolution still redirects.
	if loc := b.Resolve("#/login"); loc.Path != "/" {
		t.Fatalf("fresh resolver did not apply startup policy: %q", loc.Path)
	}
	// a already started; it must not redirect now.
	if loc := a.Resolve("#/login"); loc.Path != "/login" {
		t.Fatalf("started resolver redirected: %q", loc.Path)
	}
}

func TestSelectStaticPages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want Page
	}{
		{"/about", PageAbout},
		{"/dashboard", PageDashboard},
		{"/reports/query-analytics", PageReportQueryAnalytics},
		{"/reports/system-health", PageReportSystemHealth},
		{"/", PageHome},
		{"/anything-else", PageHome},
	}
	for _, tc := range cases {
		sel := Select(Location{Path: tc.path, Query: map[string]string{}}, false)
		if sel.Page != tc.want {
			t.Errorf("Select(%q) = %q, want %q", tc.path, sel.Page, tc.want)
		}
	}
}

func TestSelectDocumentSourceTabs(t *testing.T) {
	t.Parallel()

	sel := Select(Location{Path: "/reports/document-source", Query: map[string]string{"tab": "attribution"}}, false)
	if sel.Page != PageReportDocumentSource || sel.Section != "source-attribution" {
		t.Fatalf("got %+v", sel)
	}
	sel = Select(Location{Path: "/reports/document-source", Query: map[string]string{}}, false)
	if sel.Section != "doc-usage" {
		t.Fatalf("default tab = %q, want doc-usage", sel.Section)
	}
}

func TestSelectHomeSections(t *testing.T) {
	t.Parallel()

	if sel := Select(Location{Path: "/features"}, false); sel.Page != PageHome || sel.Section != "features" {
		t.Fatalf("got %+v", sel)
	}
	if sel := Select(Location{Path: "/login"}, false); sel.Page != PageHome || sel.Section != "login" {
		t.Fatalf("got %+v", sel)
	}
}

func TestSelectNotebookPaths(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path   string
		page   Page
		nbID   int
	}{
		{"/notebooks", PageNotebooks, 0},
		{"/notebooks/new", PageNotebookNew, 0},
		{"/notebooks/7", PageNotebookChat, 7},
		{"/notebooks/abc", PageNotebooks, 0},
		{"/notebooks/-3", PageNotebooks, 0},
	}
	for _, tc := range cases {
		sel := Select(Location{Path: tc.path, Query: map[string]string{}}, true)
		if sel.Page != tc.page || sel.NotebookID != tc.nbID {
			t.Errorf("Select(%q) = %+v, want page %q id %d", tc.path, sel, tc.page, tc.nbID)
		}
	}
}

func TestSoftGateLeavesLocationUntouched(t *testing.T) {
	t.Parallel()

	loc := Location{Path: "/notebooks/7", Query: map[string]string{"from": "dashboard"}}
	sel := Select(loc, false)
	if sel.Page != PageLogin {
		t.Fatalf("page = %q, want login", sel.Page)
	}
	// The guard renders a different page but never rewrites the address.
	if loc.Path != "/notebooks/7" || loc.Query["from"] != "dashboard" {
		t.Fatalf("location mutated: %+v", loc)
	}
	// Query still travels with the login selection so the page can link back.
	if sel.Query["from"] != "dashboard" {
		t.Fatalf("query dropped: %+v", sel)
	}
}

func TestNotebooksRoutePublicPathsUnprotected(t *testing.T) {
	t.Parallel()

	// Reports and marketing pages render regardless of session state.
	for _, path := range []string{"/about", "/dashboard", "/reports/system-health", "/"} {
		sel := Select(Location{Path: path, Query: map[string]string{}}, false)
		if sel.Page == PageLogin {
			t.Errorf("Select(%q) soft-gated a public page", path)
		}
	}
}
