package route

import (
	"strconv"
	"strings"
)

// Page identifies what to render for a resolved location.
type Page string

const (
	PageHome                 Page = "home"
	PageAbout                Page = "about"
	PageDashboard            Page = "dashboard"
	PageReportQueryAnalytics Page = "report-query-analytics"
	PageReportDocumentSource Page = "report-document-source"
	PageReportSystemHealth   Page = "report-system-health"
	PageNotebooks            Page = "notebooks"
	PageNotebookNew          Page = "notebook-new"
	PageNotebookChat         Page = "notebook-chat"
	PageLogin                Page = "login"
)

// Route is one row of the routing table.
type Route struct {
	Pattern   string
	Page      Page
	Protected bool
	// Prefix routes match Pattern itself or any path below it.
	Prefix bool
}

// Table is consulted top to bottom: exact static paths first, then the
// notebook prefix. Anything that falls through renders home.
var Table = []Route{
	{Pattern: "/about", Page: PageAbout},
	{Pattern: "/dashboard", Page: PageDashboard},
	{Pattern: "/reports/query-analytics", Page: PageReportQueryAnalytics},
	{Pattern: "/reports/document-source", Page: PageReportDocumentSource},
	{Pattern: "/reports/system-health", Page: PageReportSystemHealth},
	{Pattern: "/notebooks", Page: PageNotebooks, Protected: true, Prefix: true},
}

// Selection is the guard's verdict: the page to render plus whatever the page
// needs from the location (a deep-link section, a notebook id, the query).
type Selection struct {
	Page       Page
	Section    string
	NotebookID int
	Query      map[string]string
}

// Select matches loc against the table. Protected pages render the login page
// when not authenticated; the address itself is never rewritten, so the user
// keeps their place (soft gate).
func Select(loc Location, authenticated bool) Selection {
	for _, rt := range Table {
		if !matches(rt, loc.Path) {
			continue
		}
		if rt.Protected && !authenticated {
			return Selection{Page: PageLogin, Query: loc.Query}
		}
		return withSection(rt, loc)
	}
	return Selection{Page: PageHome, Section: homeSection(loc.Path), Query: loc.Query}
}

func matches(rt Route, path string) bool {
	if path == rt.Pattern {
		return true
	}
	return rt.Prefix && strings.HasPrefix(path, rt.Pattern+"/")
}

// withSection fills in the parts of the selection derived from the location
// rather than the table row.
func withSection(rt Route, loc Location) Selection {
	sel := Selection{Page: rt.Page, Query: loc.Query}

	switch rt.Page {
	case PageReportDocumentSource:
		// The document-source report is tabbed; the tab rides in the query.
		switch loc.Query["tab"] {
		case "attribution":
			sel.Section = "source-attribution"
		default:
			sel.Section = "doc-usage"
		}
	case PageNotebooks:
		rest := strings.TrimPrefix(loc.Path, rt.Pattern)
		rest = strings.TrimPrefix(rest, "/")
		switch {
		case rest == "":
			// the list itself
		case rest == "new":
			sel.Page = PageNotebookNew
		default:
			id, err := strconv.Atoi(rest)
			if err != nil || id <= 0 {
				// Unroutable notebook path; fall back to the list.
				break
			}
			sel.Page = PageNotebookChat
			sel.NotebookID = id
		}
	}
	return sel
}

// homeSection maps paths that render home with a focused section.
func homeSection(path string) string {
	switch path {
	case "/features":
		return "features"
	case "/login":
		return "login"
	default:
		return ""
	}
}
