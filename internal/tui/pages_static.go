package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// The marketing and report pages are fixed display data; they receive only
// the resolved page selection and render statically.

func sectionTitle(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(s)
}

func kicker(s string) string {
	return styleMuted().Render(strings.ToUpper(s))
}

// reportTable renders rows as a plain fixed-width table. Column widths come
// from the widest cell; the terminal does the scrolling, not us.
func reportTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	pad := func(s string, w int) string {
		return s + strings.Repeat(" ", w-lipgloss.Width(s))
	}

	var b strings.Builder
	for i, h := range header {
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(pad(h, widths[i])))
		b.WriteString("  ")
	}
	b.WriteString("\n")
	for i := range header {
		b.WriteString(strings.Repeat("─", widths[i]) + "  ")
	}
	b.WriteString("\n")
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				b.WriteString(pad(cell, widths[i]) + "  ")
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func kpiRow(pairs [][2]string) string {
	cards := make([]string, 0, len(pairs))
	for _, p := range pairs {
		card := styleMuted().Render(p[0]) + "\n" + lipgloss.NewStyle().Bold(true).Render(p[1])
		cards = append(cards, lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Render(card))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

var homeSections = []struct {
	id    string
	title string
	body  string
}{
	{"home", "RetrieveX", "Ask questions. Get grounded answers from your own documents.\nAn offline, multi-modal retrieval-augmented generation system."},
	{"about", "Why Traditional Search Falls Short", "Keyword search returns documents; RetrieveX returns answers with the evidence behind them."},
	{"features", "Core Capabilities", "• Natural-language querying across PDF, DOCX, images, and audio\n• Source-linked, explainable answers\n• Fully offline and privacy-preserving"},
	{"workflow", "How the System Works", "Upload sources into a notebook → documents are chunked and embedded → questions retrieve the best evidence → a local model writes the answer."},
	{"use-cases", "Who Can Use This System?", "Researchers, compliance teams, and anyone doing local analysis of reports, notes, and audio."},
	{"login", "Login", ""},
}

func (m appModel) viewHome() string {
	var b strings.Builder
	for _, sec := range homeSections {
		if sec.id == "login" {
			// The login section is the interactive form; it is rendered by
			// viewLogin when focused, so only a pointer shows here.
			continue
		}
		title := sectionTitle(sec.title)
		if m.sel.Section == sec.id {
			title = "▸ " + title
		}
		b.WriteString(title + "\n")
		b.WriteString(sec.body + "\n\n")
	}
	b.WriteString(styleMuted().Render("Press L to log in, N for your notebooks, D for dashboards."))
	return b.String()
}

func viewAbout() string {
	objectives := []string{
		"Enable natural language querying across multi-modal data",
		"Reduce hallucinations using Retrieval-Augmented Generation",
		"Ensure offline, privacy-preserving AI processing",
		"Provide explainable, source-linked answers",
	}
	var b strings.Builder
	b.WriteString(sectionTitle("About the Project") + "\n")
	b.WriteString("The Offline Multi-modal Retrieval-Augmented Generation (RAG) System provides\nintelligent, secure, and explainable information retrieval from heterogeneous\ndata sources.\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Objectives") + "\n")
	for _, o := range objectives {
		b.WriteString("• " + o + "\n")
	}
	b.WriteString("\n" + styleMuted().Render("Technologies: FastAPI · FAISS · Local LLMs · ReactJS"))
	return b.String()
}

func viewDashboard() string {
	var b strings.Builder
	b.WriteString(sectionTitle("Built-in Reports & Dashboards") + "\n")
	b.WriteString("Navigate into detailed dashboards to understand queries, document usage, and\nsystem health.\n\n")
	b.WriteString(reportTable(
		[]string{"Report", "Headline", "Address"},
		[][]string{
			{"Query Analytics Dashboard", "12,458 queries · 1.2 s avg", "#/reports/query-analytics"},
			{"Document Usage Statistics", "328 documents · 4 modalities", "#/reports/document-source?tab=usage"},
			{"Source Attribution", "Research repo · 41% of answers", "#/reports/document-source?tab=attribution"},
			{"System Health Status", "4 / 4 agents · 512k vectors", "#/reports/system-health"},
		},
	))
	b.WriteString("\n\n" + styleMuted().Render("g then the address opens a report."))
	return b.String()
}

func viewQueryAnalytics() string {
	var b strings.Builder
	b.WriteString(kicker("Report") + "\n")
	b.WriteString(sectionTitle("Query Analytics Dashboard") + "\n\n")
	b.WriteString(kpiRow([][2]string{
		{"Total queries", "12,458"},
		{"Last 24h", "324"},
		{"Avg. response", "1.2 s"},
		{"Peak/min", "42"},
	}) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Most queried documents") + "\n")
	b.WriteString(reportTable(
		[]string{"Rank", "Document", "Type", "Query count"},
		[][]string{
			{"1", "Research Paper – Multi-modal RAG Survey.pdf", "PDF", "842"},
			{"2", "System Architecture Overview.docx", "DOCX", "613"},
			{"3", "Compliance Guidelines v3.pdf", "PDF", "421"},
		},
	) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Query timeline") + "\n")
	b.WriteString(reportTable(
		[]string{"Day", "Total queries", "Avg. response time"},
		[][]string{
			{"Mon", "1,820", "1.1 s"},
			{"Tue", "1,644", "1.3 s"},
			{"Wed", "1,972", "1.2 s"},
			{"Thu", "2,104", "1.2 s"},
			{"Fri", "1,936", "1.4 s"},
		},
	))
	return b.String()
}

func viewDocumentSource(section string) string {
	var b strings.Builder
	b.WriteString(kicker("Report") + "\n")
	b.WriteString(sectionTitle("Document & Source Report") + "\n\n")
	b.WriteString(kpiRow([][2]string{
		{"Total documents", "328"},
		{"PDF", "172"},
		{"DOCX", "96"},
		{"Images & Audio", "60"},
	}) + "\n\n")

	usageTitle := "Documents by type"
	attrTitle := "Source-wise retrieval frequency"
	if section == "doc-usage" {
		usageTitle = "▸ " + usageTitle
	}
	if section == "source-attribution" {
		attrTitle = "▸ " + attrTitle
	}

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(usageTitle) + "\n")
	b.WriteString(reportTable(
		[]string{"Type", "Count", "Share of queries"},
		[][]string{
			{"PDF", "172", "58%"},
			{"DOCX", "96", "24%"},
			{"Image", "34", "10%"},
			{"Audio", "26", "8%"},
		},
	) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(attrTitle) + "\n")
	b.WriteString(reportTable(
		[]string{"Source", "Retrievals", "Share of answers"},
		[][]string{
			{"Research repository", "1,942", "41%"},
			{"Enterprise knowledge base", "1,312", "32%"},
			{"Compliance archive", "824", "17%"},
			{"Meeting recordings", "462", "10%"},
		},
	))
	return b.String()
}

func viewSystemHealth() string {
	var b strings.Builder
	b.WriteString(kicker("Report") + "\n")
	b.WriteString(sectionTitle("System Health & Processing Report") + "\n\n")
	b.WriteString(kpiRow([][2]string{
		{"FAISS vectors", "512,384"},
		{"Index size", "1.9 GB"},
		{"Last processed", "10 min ago"},
		{"Queued", "3"},
	}) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Agent status") + "\n")
	b.WriteString(reportTable(
		[]string{"Agent", "Status", "Last activity"},
		[][]string{
			{"PDF agent", "Running", "Processed 3 files in last 15 min"},
			{"DOCX agent", "Idle", "No new files in last hour"},
			{"OCR agent", "Running", "Indexed 12 images today"},
			{"Audio agent", "Running", "Transcribed 2 recordings today"},
		},
	))
	return b.String()
}
