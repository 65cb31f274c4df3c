package tui

import (
	"retrievex-cli/internal/api"
	"retrievex-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(client *api.Client, cfg *store.GlobalConfig) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(client, cfg)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
