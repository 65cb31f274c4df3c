package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func modalBodyWidth(screenW int) int {
	w := screenW - 16
	if w > 64 {
		w = 64
	}
	if w < 24 {
		w = 24
	}
	return w
}

func renderModalBox(screenW int, title, content string) string {
	bodyW := modalBodyWidth(screenW)
	header := lipgloss.NewStyle().
		Bold(true).
		Width(bodyW).
		Foreground(colorAccent).
		Render(title)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 2).
		Width(bodyW + 4).
		Render(header + "\n\n" + content)
	return lipgloss.PlaceHorizontal(screenW, lipgloss.Center, box)
}

func (m appModel) viewModal() string {
	switch m.modal {
	case modalDeleteConfirm:
		body := fmt.Sprintf("Delete %q and its chat history?\nThis cannot be undone.", m.modalTarget.Title)
		return renderConfirmModal(m.width, "Delete notebook", body, "Delete", "Cancel", m.confirmFocus)
	case modalRename:
		return m.viewRenameModal()
	case modalNewNotebook:
		return m.viewUploadModal("New notebook", true)
	case modalAddFiles:
		return m.viewUploadModal("Add files to "+m.modalTarget.Title, false)
	}
	return ""
}

func (m appModel) viewRenameModal() string {
	bodyW := modalBodyWidth(m.width)
	rows := []string{
		styleMuted().Render("New title"),
		renderInputLine(bodyW, m.modalInput.View()),
	}
	if m.modalBusy {
		rows = append(rows, "", m.spin.View()+" renaming…")
	}
	if m.modalErr != "" {
		rows = append(rows, "", errorBanner(m.modalErr, bodyW))
	}
	return renderModalBox(m.width, "Rename notebook", strings.Join(rows, "\n"))
}

func (m appModel) viewUploadModal(title string, withTitleField bool) string {
	bodyW := modalBodyWidth(m.width)

	if m.batch.PickerActive && m.pickerReady {
		content := m.picker.View() + "\n" + styleMuted().Render("enter: pick  h: up  esc: done")
		return renderModalBox(m.width, title, content)
	}

	var rows []string
	if withTitleField {
		rows = append(rows,
			styleMuted().Render("Title"),
			renderInputLine(bodyW, m.modalInput.View()),
			"",
		)
	}

	rows = append(rows, styleMuted().Render(fmt.Sprintf("Files (%d)", m.batch.Len())))
	if m.batch.Len() == 0 {
		rows = append(rows, styleMuted().Render("  none yet — ctrl+f opens the picker"))
	}
	for _, f := range m.batch.Files() {
		rows = append(rows, "  • "+f)
	}

	if m.modalBusy {
		rows = append(rows, "", m.spin.View()+" uploading batch…")
	}
	if m.modalErr != "" {
		rows = append(rows, "", errorBanner(m.modalErr, bodyW))
	}
	return renderModalBox(m.width, title, strings.Join(rows, "\n"))
}

func renderConfirmModal(width int, title, body, confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}

	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)
	bodyW := modalBodyWidth(width)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   esc: cancel")

	content := strings.Join([]string{body, "", controls, "", help}, "\n")
	return renderModalBox(width, title, content)
}
