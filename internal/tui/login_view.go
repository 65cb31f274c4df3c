package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) viewLogin() string {
	bodyW := formWidth(m.width)

	var title, hint string
	switch m.mode {
	case loginModeSignup:
		title = "Create an account"
		hint = "Password needs 6+ chars with upper, lower, digit, and special."
	case loginModeGoogle:
		title = "Sign in with Google"
		hint = "Paste the ID token issued for this app."
	default:
		title = "Sign in"
		hint = "New here? ctrl+s switches to signup."
	}

	var rows []string
	rows = append(rows, sectionTitle(title), "")

	label := func(name string, focused bool) string {
		if focused {
			return lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("▸ " + name)
		}
		return styleMuted().Render("  " + name)
	}

	if m.mode == loginModeGoogle {
		rows = append(rows,
			label("Google ID token", m.focus == fieldGoogleToken),
			renderInputLine(bodyW, m.googleTok.View()),
		)
	} else {
		rows = append(rows,
			label("Username", m.focus == fieldUsername),
			renderInputLine(bodyW, m.username.View()),
			"",
			label("Password", m.focus == fieldPassword),
			renderInputLine(bodyW, m.password.View()),
		)
		if m.mode == loginModeSignup {
			rows = append(rows,
				"",
				label("Email", m.focus == fieldEmail),
				renderInputLine(bodyW, m.email.View()),
			)
		}
	}

	rows = append(rows, "", styleMuted().Width(bodyW).Render(hint))
	if m.authBusy {
		rows = append(rows, "", m.spin.View()+" signing in…")
	}
	if m.authErr != "" {
		rows = append(rows, "", errorBanner(m.authErr, bodyW))
	}

	return strings.Join(rows, "\n")
}

func formWidth(screenW int) int {
	w := screenW - 10
	if w > 56 {
		w = 56
	}
	if w < 24 {
		w = 24
	}
	return w
}
